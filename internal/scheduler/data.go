package scheduler

import (
	"github.com/go-archivist/archivist/internal/storage"
)

type CrawlingExecution struct {
	writeResults []storage.WriteResult
}

// WriteResults returns every artifact the crawl wrote to storage, in
// the order they were written.
func (c CrawlingExecution) WriteResults() []storage.WriteResult {
	return c.writeResults
}

type PipelineOutcome struct {
	Continue bool
	Retry    bool
	Abort    bool
}
