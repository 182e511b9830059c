package frontier

import (
	"net/url"
	"sync"

	"github.com/go-archivist/archivist/internal/config"
	"github.com/go-archivist/archivist/pkg/urlutil"
)

/*
Frontier Responsibilities
- Maintain BFS ordering
- Deduplicate URLs
- Track crawl depth
- Prevent infinite traversal
- Knows nothing about:
	- fetching
	- extraction
	- markdown
	- storage

It is a data structure + policy module, not a pipeline executor.

CrawlFrontier enforces BFS ordering by keeping one FIFO queue per depth
level and always dequeuing from the lowest depth that still has pending
tokens. Submit performs deduplication and the depth/page-count limits;
by the time a candidate reaches the frontier the scheduler has already
run robots/scope admission (see Scheduler.SubmitUrlForAdmission), so the
frontier itself never rejects for policy reasons, only for limits and
duplication.
*/
// Frontier is the scheduler's view of the BFS admission queue. The
// scheduler depends on this interface, not the concrete CrawlFrontier,
// so tests can substitute a mock frontier the same way they already
// substitute mock fetchers and rate limiters.
type Frontier interface {
	Init(cfg config.Config)
	Submit(candidate CrawlAdmissionCandidate)
	Enqueue(token CrawlToken)
	Dequeue() (CrawlToken, bool)
	VisitedCount() int
	IsDepthExhausted(depth int) bool
	CurrentMinDepth() int
}

type CrawlFrontier struct {
	mu              sync.Mutex
	cfg             config.Config
	admitted        Set[string]
	queuesByDepth   map[int]*FIFOQueue[CrawlToken]
	minPendingDepth int
}

func NewCrawlFrontier() CrawlFrontier {
	return CrawlFrontier{
		admitted:      NewSet[string](),
		queuesByDepth: make(map[int]*FIFOQueue[CrawlToken]),
	}
}

// Init configures the frontier with crawl-wide limits. It may be called
// once before the crawl begins.
func (f *CrawlFrontier) Init(cfg config.Config) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cfg = cfg
}

func canonicalKey(u url.URL) string {
	c := urlutil.Canonicalize(u)
	return c.String()
}

// Submit admits a candidate into the frontier's BFS queues, unless it
// would violate the depth limit, the page-count limit, or has already
// been admitted once before (by canonical URL).
func (f *CrawlFrontier) Submit(candidate CrawlAdmissionCandidate) {
	f.mu.Lock()
	defer f.mu.Unlock()

	depth := candidate.DiscoveryMetadata().Depth()

	if maxDepth := f.cfg.MaxDepth(); maxDepth > 0 && depth > maxDepth {
		return
	}

	if maxPages := f.cfg.MaxPages(); maxPages > 0 && f.admitted.Size() >= maxPages {
		return
	}

	key := canonicalKey(candidate.TargetURL())
	if f.admitted.Contains(key) {
		return
	}
	f.admitted.Add(key)

	queue, ok := f.queuesByDepth[depth]
	if !ok {
		queue = NewFIFOQueue[CrawlToken]()
		f.queuesByDepth[depth] = queue
	}
	queue.Enqueue(NewCrawlToken(candidate.TargetURL(), depth))

	if depth < f.minPendingDepth {
		f.minPendingDepth = depth
	}
}

// Dequeue returns the next token in BFS order: the lowest depth with a
// non-empty queue. It tolerates depth levels that were never
// initialized (e.g. when a depth is skipped entirely) and gaps left by
// fully-drained depth levels.
func (f *CrawlFrontier) Dequeue() (CrawlToken, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for depth := f.minPendingDepth; depth <= f.maxKnownDepthLocked(); depth++ {
		queue, ok := f.queuesByDepth[depth]
		if !ok || queue.Size() == 0 {
			continue
		}
		token, ok := queue.Dequeue()
		if !ok {
			continue
		}
		f.minPendingDepth = depth
		return token, true
	}
	return CrawlToken{}, false
}

// Enqueue places a token directly into its depth's queue, bypassing
// Submit's admission checks. Used by Resume to re-seed the frontier
// from a session's already-admitted pages.
func (f *CrawlFrontier) Enqueue(token CrawlToken) {
	f.mu.Lock()
	defer f.mu.Unlock()

	depth := token.Depth()
	queue, ok := f.queuesByDepth[depth]
	if !ok {
		queue = NewFIFOQueue[CrawlToken]()
		f.queuesByDepth[depth] = queue
	}
	queue.Enqueue(token)

	if depth < f.minPendingDepth {
		f.minPendingDepth = depth
	}
}

// IsDepthExhausted reports whether no tokens are pending at depth.
func (f *CrawlFrontier) IsDepthExhausted(depth int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	queue, ok := f.queuesByDepth[depth]
	return !ok || queue.Size() == 0
}

// CurrentMinDepth returns the lowest depth with pending tokens, or -1
// when the frontier is empty.
func (f *CrawlFrontier) CurrentMinDepth() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	min := -1
	for depth, queue := range f.queuesByDepth {
		if queue.Size() > 0 && (min == -1 || depth < min) {
			min = depth
		}
	}
	return min
}

func (f *CrawlFrontier) maxKnownDepthLocked() int {
	max := f.minPendingDepth
	for depth := range f.queuesByDepth {
		if depth > max {
			max = depth
		}
	}
	return max
}

// VisitedCount returns the number of distinct canonical URLs ever
// admitted into the frontier. It is append-only: it does not decrease
// when tokens are dequeued.
func (f *CrawlFrontier) VisitedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.admitted.Size()
}
