package fetcher

import (
	"context"
	"net/http"

	"github.com/go-archivist/archivist/pkg/failure"
	"github.com/go-archivist/archivist/pkg/retry"
)

type Fetcher interface {
	Init(httpClient *http.Client)
	Fetch(
		ctx context.Context,
		crawlDepth int,
		fetchParam FetchParam,
		retryParam retry.RetryParam,
	) (FetchResult, failure.ClassifiedError)
}
