package scheduler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-archivist/archivist/internal/assets"
	"github.com/go-archivist/archivist/internal/extractor"
	"github.com/go-archivist/archivist/internal/fetcher"
	"github.com/go-archivist/archivist/internal/frontier"
	"github.com/go-archivist/archivist/internal/mdconvert"
	"github.com/go-archivist/archivist/internal/metadata"
	"github.com/go-archivist/archivist/internal/normalize"
	"github.com/go-archivist/archivist/internal/robots"
	"github.com/go-archivist/archivist/internal/sanitizer"
	"github.com/go-archivist/archivist/internal/scheduler"
	"github.com/go-archivist/archivist/internal/storage"
	"github.com/go-archivist/archivist/pkg/limiter"
	"github.com/go-archivist/archivist/pkg/timeutil"
)

// createSchedulerForTest assembles a Scheduler wired for isolated pipeline
// testing. Any dependency left nil falls back to a real implementation
// backed by metadataSink, so a test only needs to mock the stage it
// actually exercises.
func createSchedulerForTest(
	t *testing.T,
	ctx context.Context,
	crawlFinalizer metadata.CrawlFinalizer,
	metadataSink metadata.MetadataSink,
	rateLimiter limiter.RateLimiter,
	frontierDep frontier.Frontier,
	robot robots.Robot,
	htmlFetcher fetcher.Fetcher,
	domExtractor extractor.Extractor,
	htmlSanitizer sanitizer.Sanitizer,
	convertRule mdconvert.ConvertRule,
	markdownConstraint normalize.Constraint,
	storageSink storage.Sink,
	sleeper timeutil.Sleeper,
) *scheduler.Scheduler {
	t.Helper()

	if domExtractor == nil {
		real := extractor.NewDomExtractor(metadataSink)
		domExtractor = &real
	}
	if htmlSanitizer == nil {
		real := sanitizer.NewHTMLSanitizer(metadataSink)
		htmlSanitizer = &real
	}
	if convertRule == nil {
		convertRule = mdconvert.NewRule(metadataSink)
	}
	if markdownConstraint == nil {
		real := normalize.NewMarkdownConstraint(metadataSink)
		markdownConstraint = &real
	}
	if storageSink == nil {
		real := storage.NewLocalSink(metadataSink)
		storageSink = &real
	}
	if sleeper == nil {
		real := timeutil.NewRealSleeper()
		sleeper = &real
	}
	if frontierDep == nil {
		real := frontier.NewCrawlFrontier()
		frontierDep = &real
	}
	if robot == nil {
		real := robots.NewCachedRobot(metadataSink)
		robot = &real
	}

	resolver := assets.NewLocalResolver(metadataSink, &http.Client{}, "docs-crawler-test/1.0")

	s := scheduler.NewSchedulerWithDeps(
		ctx,
		crawlFinalizer,
		metadataSink,
		rateLimiter,
		htmlFetcher,
		robot,
		domExtractor,
		htmlSanitizer,
		convertRule,
		&resolver,
		sleeper,
	)
	s.SetFrontier(frontierDep)
	s.SetMarkdownConstraint(markdownConstraint)
	s.SetStorageSink(storageSink)
	return &s
}

// createSchedulerWithAllMocksAndNormalize builds a Scheduler with every
// pipeline stage mocked, including the resolver and the normalize stage,
// for tests that need full control over the chain up to the storage
// write (e.g. verifying Write receives exactly what Normalize returned).
func createSchedulerWithAllMocksAndNormalize(
	t *testing.T,
	ctx context.Context,
	crawlFinalizer metadata.CrawlFinalizer,
	metadataSink metadata.MetadataSink,
	rateLimiter limiter.RateLimiter,
	robot robots.Robot,
	frontierDep frontier.Frontier,
	htmlFetcher fetcher.Fetcher,
	domExtractor extractor.Extractor,
	htmlSanitizer sanitizer.Sanitizer,
	convertRule mdconvert.ConvertRule,
	resolver assets.Resolver,
	markdownConstraint normalize.Constraint,
	storageSink storage.Sink,
	sleeper timeutil.Sleeper,
) *scheduler.Scheduler {
	t.Helper()
	s := scheduler.NewSchedulerWithDeps(
		ctx,
		crawlFinalizer,
		metadataSink,
		rateLimiter,
		htmlFetcher,
		robot,
		domExtractor,
		htmlSanitizer,
		convertRule,
		resolver,
		sleeper,
	)
	s.SetFrontier(frontierDep)
	s.SetMarkdownConstraint(markdownConstraint)
	s.SetStorageSink(storageSink)
	return &s
}

// setupTestServer creates a test HTTP server that serves robots.txt content
func setupTestServer(t *testing.T, robotsContent string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.Header().Set("Content-Type", "text/plain")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(robotsContent))
		} else {
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

// setupTestServerWithStatus creates a test HTTP server that returns a specific status code
func setupTestServerWithStatus(t *testing.T, statusCode int, robotsContent string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.Header().Set("Content-Type", "text/plain")
			w.WriteHeader(statusCode)
			if robotsContent != "" {
				w.Write([]byte(robotsContent))
			}
		} else {
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}
