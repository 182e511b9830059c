package scheduler

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-archivist/archivist/internal/assets"
	"github.com/go-archivist/archivist/internal/cache"
	"github.com/go-archivist/archivist/internal/config"
	"github.com/go-archivist/archivist/internal/extractor"
	"github.com/go-archivist/archivist/internal/fetcher"
	"github.com/go-archivist/archivist/internal/frontier"
	"github.com/go-archivist/archivist/internal/humanpace"
	"github.com/go-archivist/archivist/internal/mdconvert"
	"github.com/go-archivist/archivist/internal/metadata"
	"github.com/go-archivist/archivist/internal/normalize"
	"github.com/go-archivist/archivist/internal/robots"
	"github.com/go-archivist/archivist/internal/sanitizer"
	"github.com/go-archivist/archivist/internal/storage"
	"github.com/go-archivist/archivist/pkg/failure"
	"github.com/go-archivist/archivist/pkg/hashutil"
	"github.com/go-archivist/archivist/pkg/limiter"
	"github.com/go-archivist/archivist/pkg/retry"
	"github.com/go-archivist/archivist/pkg/timeutil"
	"github.com/go-archivist/archivist/pkg/urlutil"
)

/*
 Scheduler is the sole control-plane authority of the crawl.

 Determinism and admission guarantees:
 - Scheduler is the ONLY component allowed to decide whether a URL
   may enter the crawl frontier.
 - All semantic admission checks (robots.txt, scope, depth, limits)
   MUST be completed before submitting a URL to the frontier.
 - No other component may enqueue, reject, or reorder URLs.
 - The frontier should only accept already-admitted URLs.
 - Pipeline stages may detect and classify failure, but must never decide retry, continuation, or abortion.

 The scheduler coordinates pipeline execution but does not delegate
 control-flow decisions to downstream stages.

 Metadata emission is observational only and MUST NOT influence
 scheduling, retries, or crawl termination.

 Scheduler Responsibilities:
 - Coordinate crawl lifecycle
 - Enforce global limits (pages, depth)
 - Manage graceful shutdown
 - Aggregate crawl statistics
 - Decide whether a robots outcome proceeds to the frontier.
 - The sole authority on:
	- retry
	- continue
	- abort
 TODO:
	- Introduce worker-scoped recorders when concurrency exists
*/

// appVersion is stamped into every normalized document's frontmatter as
// Frontmatter.CrawlerVersion.
const appVersion = "v0.1.0"

type Scheduler struct {
	ctx                    context.Context
	metadataSink           metadata.MetadataSink
	crawlFinalizer         metadata.CrawlFinalizer
	robot                  robots.Robot
	frontier               frontier.Frontier
	htmlFetcher            fetcher.Fetcher
	domExtractor           extractor.Extractor
	htmlSanitizer          sanitizer.Sanitizer
	markdownConversionRule mdconvert.ConvertRule
	assetResolver          assets.Resolver
	markdownConstraint     normalize.Constraint
	storageSink            storage.Sink
	writeResults           []storage.WriteResult
	currentHost            string
	rateLimiter            limiter.RateLimiter
	sleeper                timeutil.Sleeper
	humanpaceScheduler     *humanpace.Scheduler
	sessionCache           *cache.Cache
	sessionID              string
}

func NewScheduler() Scheduler {
	recorder := metadata.NewRecorder("sample-single-sync-worker")
	cachedRobot := robots.NewCachedRobot(&recorder)
	frontier := frontier.NewCrawlFrontier()
	fetcher := fetcher.NewHtmlFetcher(&recorder)
	ext := extractor.NewDomExtractor(&recorder)
	sanitizer := sanitizer.NewHTMLSanitizer(&recorder)
	conversionRule := mdconvert.NewRule(&recorder)
	resolver := assets.NewLocalResolver(&recorder, &http.Client{}, "docs-crawler/1.0")
	markdownConstraint := normalize.NewMarkdownConstraint(&recorder)
	storageSink := storage.NewLocalSink(&recorder)
	rateLimiter := limiter.NewConcurrentRateLimiter()
	sleeper := timeutil.NewRealSleeper()
	humanpaceScheduler := humanpace.NewScheduler(humanpace.Param{}, 0)
	return Scheduler{
		metadataSink:           &recorder,
		crawlFinalizer:         &recorder,
		robot:                  &cachedRobot,
		frontier:               &frontier,
		htmlFetcher:            &fetcher,
		domExtractor:           &ext,
		htmlSanitizer:          &sanitizer,
		markdownConversionRule: conversionRule,
		assetResolver:          &resolver,
		markdownConstraint:     &markdownConstraint,
		storageSink:            &storageSink,
		rateLimiter:            rateLimiter,
		sleeper:                &sleeper,
		humanpaceScheduler:     humanpaceScheduler,
	}
}

// NewSchedulerWithDeps creates a Scheduler with injected dependencies for testing.
// This constructor allows tests to provide mock implementations of metadata interfaces
// to verify behavior without relying on real infrastructure.
//
// frontier, markdown normalization and the storage sink aren't parameters
// here: they default to real implementations and are overridden after
// construction via SetFrontier/SetMarkdownConstraint/SetStorageSink, the
// same post-construction pattern SetConvertRule already uses, since
// config (which some of them need) isn't available until InitializeCrawling.
func NewSchedulerWithDeps(
	ctx context.Context,
	crawlFinalizer metadata.CrawlFinalizer,
	metadataSink metadata.MetadataSink,
	rateLimiter limiter.RateLimiter,
	fetcher fetcher.Fetcher,
	robot robots.Robot,
	domExtractor extractor.Extractor,
	sanitizer sanitizer.Sanitizer,
	rule mdconvert.ConvertRule,
	resolver assets.Resolver,
	sleeper timeutil.Sleeper,
) Scheduler {
	markdownConstraint := normalize.NewMarkdownConstraint(metadataSink)
	storageSink := storage.NewLocalSink(metadataSink)
	crawlFrontier := frontier.NewCrawlFrontier()
	return Scheduler{
		ctx:                    ctx,
		metadataSink:           metadataSink,
		crawlFinalizer:         crawlFinalizer,
		robot:                  robot,
		frontier:               &crawlFrontier,
		htmlFetcher:            fetcher,
		domExtractor:           domExtractor,
		htmlSanitizer:          sanitizer,
		markdownConversionRule: rule,
		assetResolver:          resolver,
		markdownConstraint:     &markdownConstraint,
		storageSink:            &storageSink,
		rateLimiter:            rateLimiter,
		sleeper:                sleeper,
		humanpaceScheduler:     humanpace.NewScheduler(humanpace.Param{}, 0),
	}
}

// SetFrontier overrides the crawl frontier. Exposed so tests can inject a
// mock frontier the same way they already inject mock fetchers/limiters.
func (s *Scheduler) SetFrontier(f frontier.Frontier) {
	s.frontier = f
}

// SetMarkdownConstraint overrides the markdown normalization stage.
func (s *Scheduler) SetMarkdownConstraint(c normalize.Constraint) {
	s.markdownConstraint = c
}

// SetStorageSink overrides the artifact writer.
func (s *Scheduler) SetStorageSink(sink storage.Sink) {
	s.storageSink = sink
}

// SubmitUrlForAdmission performs all semantic checks required for a URL
// to enter the crawl frontier.
//
// This function is the single admission choke point for the system.
// A nil return means either that the URL was submitted to the frontier
// or that robots.txt disallows it and it was dropped.
//
// No other code path may call Frontier.Submit.
// - Only the scheduler imports frontier
// - Only the scheduler constructs CrawlAdmissionCandidate
// - Pipeline stages never see frontier types
func (s *Scheduler) SubmitUrlForAdmission(
	url url.URL,
	sourceContext frontier.SourceContext,
	depth int,
) failure.ClassifiedError {
	// Fetch robots.txt
	robotsDecision, robotsError := s.robot.Decide(url)
	// Robots infrastructure failure → scheduler-level error
	if robotsError != nil {
		return robotsError
	}

	// Reset backoff after successful robots request
	if s.rateLimiter != nil {
		s.rateLimiter.ResetBackoff(url.Host)
	}

	if robotsDecision.CrawlDelay > 0 && s.rateLimiter != nil {
		s.rateLimiter.SetCrawlDelay(s.currentHost, robotsDecision.CrawlDelay)
	}

	// Robots explicitly disallowed → normal, terminal outcome
	if !robotsDecision.Allowed {
		// Important:
		// - metadata already emitted by robots
		// - NO retry
		// - NO abort
		// - NO frontier submission
		// TODO: record to metadataSink that robots explcitly disallowed the URL
		return nil
	}

	// Only submit to frontier if robots allowed
	candidate := frontier.NewCrawlAdmissionCandidate(
		robotsDecision.Url,
		sourceContext,
		frontier.DiscoveryMetadata{
			Depth: depth,
		},
	)

	// Submit Allowed URL for Admission by Frontier
	s.frontier.Submit(candidate)
	return nil
}

// CrawlInitialization is the state InitializeCrawling resolves once, up
// front, so ExecuteCrawlingWithState can run the fetch/extract/.../write
// loop without re-parsing config or re-admitting the seed URL. It is
// opaque outside the package: callers thread it through unmodified
// between the two calls.
type CrawlInitialization struct {
	cfg                 config.Config
	cancel              context.CancelFunc
	currentHost         string
	seedScheme          string
	initialDelayApplied bool
}

// CurrentHost returns the host InitializeCrawling resolved from the
// first seed URL.
func (c *CrawlInitialization) CurrentHost() string {
	return c.currentHost
}

// SeedScheme returns the URL scheme of the first seed URL, used to
// resolve relative links discovered during the crawl.
func (c *CrawlInitialization) SeedScheme() string {
	return c.seedScheme
}

// InitialDelayApplied reports whether InitializeCrawling already slept
// out the post-admission pacing delay for the seed URL.
func (c *CrawlInitialization) InitialDelayApplied() bool {
	return c.initialDelayApplied
}

// InitializeCrawling loads and validates config, primes every pipeline
// stage (rate limiter, human-pacing model, robots, frontier, DOM
// extractor), opens the crawl's session cache, and admits the seed URL.
// A config or admission failure here is final: it records a zero-valued
// stats line immediately (the crawl never reached the fetch loop) and
// returns an error. On success, stats recording is left to
// ExecuteCrawlingWithState, since nothing has been crawled yet.
func (s *Scheduler) InitializeCrawling(configPath string) (*CrawlInitialization, error) {
	initStart := time.Now()

	cfg, err := config.WithConfigFile(configPath)
	if err != nil {
		s.metadataSink.RecordError(
			time.Now(),
			"config",
			"config.WithConfigFile",
			metadata.CauseContentInvalid,
			err.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrField, fmt.Sprintf("field: %v", "theFieldError")),
			},
		)
		s.crawlFinalizer.RecordFinalCrawlStats(0, 0, 0, time.Since(initStart))
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout())
	if s.ctx == nil {
		s.ctx = ctx
	}

	// Validate that at least one seed URL exists
	if len(cfg.SeedURLs()) == 0 {
		cancel()
		err := fmt.Errorf("seedUrls cannot be empty")
		s.metadataSink.RecordError(
			time.Now(),
			"config",
			"config validation",
			metadata.CauseContentInvalid,
			err.Error(),
			[]metadata.Attribute{},
		)
		s.crawlFinalizer.RecordFinalCrawlStats(0, 0, 0, time.Since(initStart))
		return nil, err
	}

	// 1.1 Initialize rate limiter
	s.rateLimiter.SetBaseDelay(cfg.BaseDelay())
	s.rateLimiter.SetJitter(cfg.Jitter())
	s.rateLimiter.SetRandomSeed(cfg.RandomSeed())

	// 1.1.1 Initialize the human-behavior pacing model. It sits above the
	// rate limiter: its Delay result is fed into SetCrawlDelay below, and
	// ResolveDelay still owns the final max(base, crawlDelay, backoffDelay)
	// decision.
	s.humanpaceScheduler = humanpace.NewScheduler(HumanpaceParam(cfg), cfg.RandomSeed())

	// 1.2 Initialize Robots and Frontier
	s.robot.Init(cfg.UserAgent())
	s.frontier.Init(cfg)

	// 1.3 Configure DOM Extractor with extraction parameters from config
	extractParam := extractor.ExtractParam{
		BodySpecificityBias:  cfg.BodySpecificityBias(),
		LinkDensityThreshold: cfg.LinkDensityThreshold(),
		ScoreMultiplier: extractor.ContentScoreMultiplier{
			NonWhitespaceDivisor: cfg.ScoreMultiplierNonWhitespaceDivisor(),
			Paragraphs:           cfg.ScoreMultiplierParagraphs(),
			Headings:             cfg.ScoreMultiplierHeadings(),
			CodeBlocks:           cfg.ScoreMultiplierCodeBlocks(),
			ListItems:            cfg.ScoreMultiplierListItems(),
		},
		Threshold: extractor.MeaningfulThreshold{
			MinNonWhitespace:    cfg.ThresholdMinNonWhitespace(),
			MinHeadings:         cfg.ThresholdMinHeadings(),
			MinParagraphsOrCode: cfg.ThresholdMinParagraphsOrCode(),
			MaxLinkDensity:      cfg.ThresholdMaxLinkDensity(),
		},
	}
	s.domExtractor.SetExtractParam(extractParam)

	// 1.4 Open the session cache. It roots itself under the output
	// directory, alongside the artifacts it records, and is the sole
	// persistence path for per-page crawl state.
	if s.sessionCache == nil {
		sessionCache := cache.New(cfg.OutputDir(), false, hashutil.HashAlgoBLAKE3, s.metadataSink)
		s.sessionCache = &sessionCache
	}
	configDigest, _ := hashutil.HashBytes([]byte(configPath), hashutil.HashAlgoBLAKE3)
	sessionID, cacheErr := s.sessionCache.CreateSession(cfg.SeedURLs()[0].String(), configDigest, nil)
	if cacheErr != nil {
		s.metadataSink.RecordError(
			time.Now(),
			"cache",
			"CreateSession",
			metadata.CauseStorageFailure,
			cacheErr.Error(),
			[]metadata.Attribute{},
		)
	} else {
		s.sessionID = sessionID
	}

	// 2. Fetch robots.txt & decide the crawling policy for this hostname based on that
	s.currentHost = cfg.SeedURLs()[0].Host
	seedScheme := cfg.SeedURLs()[0].Scheme
	err = s.SubmitUrlForAdmission(cfg.SeedURLs()[0], frontier.SourceSeed, 0)
	if err != nil {
		// Check if this is a robots error that requires backoff
		if robotsErr, ok := err.(*robots.RobotsError); ok {
			s.recordRobotsErrorAndBackoff(robotsErr, cfg.SeedURLs()[0])
		}
		cancel()
		s.crawlFinalizer.RecordFinalCrawlStats(0, 0, 0, time.Since(initStart))
		return nil, err
	}

	// Apply rate limiting delay after successful robots check
	delay := s.rateLimiter.ResolveDelay(s.currentHost)
	s.sleeper.Sleep(delay)

	return &CrawlInitialization{
		cfg:                 cfg,
		cancel:              cancel,
		currentHost:         s.currentHost,
		seedScheme:          seedScheme,
		initialDelayApplied: true,
	}, nil
}

// ExecuteCrawling is a convenience wrapper over InitializeCrawling and
// ExecuteCrawlingWithState for callers that don't need to observe the
// crawl's resolved state (current host, seed scheme) before it runs.
func (s *Scheduler) ExecuteCrawling(configPath string) (CrawlingExecution, error) {
	init, err := s.InitializeCrawling(configPath)
	if err != nil {
		return CrawlingExecution{}, err
	}
	return s.ExecuteCrawlingWithState(init)
}

// ExecuteCrawlingWithState drains the frontier InitializeCrawling
// seeded, running every page through fetch/extract/sanitize/convert/
// resolve/normalize/write. Duration recorded here covers only the loop
// itself, not the setup InitializeCrawling already accounted for.
// Current implementation uses a single recorder and single execution path.
// This does not imply a global ordering guarantee.
// TODO: In the future consider implementing global ordering guarantee
func (s *Scheduler) ExecuteCrawlingWithState(init *CrawlInitialization) (result CrawlingExecution, err error) {
	crawlStartTime := time.Now()
	cfg := init.cfg
	seedScheme := init.seedScheme

	// Statistics tracking
	var totalErrors int
	var totalAssets int

	// Ensure final stats are recorded even if errors occur, and close
	// out the session cache's record of this crawl either way.
	defer func() {
		if init.cancel != nil {
			init.cancel()
		}
		crawlDuration := time.Since(crawlStartTime)
		totalPages := s.frontier.VisitedCount()
		s.crawlFinalizer.RecordFinalCrawlStats(
			totalPages,
			totalErrors,
			totalAssets,
			crawlDuration,
		)
		if s.sessionCache != nil && s.sessionID != "" {
			if err != nil {
				s.sessionCache.MarkFailed(s.sessionID, err.Error())
			} else {
				s.sessionCache.MarkComplete(s.sessionID)
			}
		}
	}()

	// If frontier still has URL to be crawl...
	for {
		nextCrawlToken, ok := s.frontier.Dequeue()
		if !ok {
			break
		}

		// 3. Fetch Page URL
		fetchParam := fetcher.NewFetchParam(
			nextCrawlToken.URL(),
			cfg.UserAgent(),
		)
		fetchResult, err := s.htmlFetcher.Fetch(s.ctx, nextCrawlToken.Depth(), fetchParam, RetryParam(cfg))
		if err != nil {
			if err.Severity() == failure.SeverityFatal {
				return CrawlingExecution{}, err
			}
			// recoverable → log already done → count error
			totalErrors++
			continue
		}

		// 4. Extract HTML DOM
		extractionResult, err := s.domExtractor.Extract(fetchResult.URL(), fetchResult.Body())
		if err != nil {
			if err.Severity() == failure.SeverityFatal {
				return CrawlingExecution{}, err
			}
			totalErrors++
			continue
		}

		// 5. Sanitize extracted HTML
		sanitizedHtml, err := s.htmlSanitizer.Sanitize(extractionResult.ContentNode)
		if err != nil {
			if err.Severity() == failure.SeverityFatal {
				return CrawlingExecution{}, err
			}
			totalErrors++
			continue
		}

		// 5.2 Resolve relative URLs to absolute URLs and filter by host
		discoveredURLs := sanitizedHtml.GetDiscoveredURLs()

		// 5.3 Resolve all URLs to absolute form using the seed scheme and current host
		resolvedURLs := make([]url.URL, 0, len(discoveredURLs))
		for _, u := range discoveredURLs {
			resolved := urlutil.Resolve(u, seedScheme, s.currentHost)
			resolvedURLs = append(resolvedURLs, resolved)
		}

		// 5.4 Filter to only keep URLs from the current host
		filteredURLs := urlutil.FilterByHost(s.currentHost, resolvedURLs)

		// 5.5 submit all discovered links through robots checking to frontier
		for _, discoveredurl := range filteredURLs {
			submissionErr := s.SubmitUrlForAdmission(discoveredurl, frontier.SourceCrawl, nextCrawlToken.Depth()+1)
			if submissionErr != nil {
				// Check if this is a robots error that requires backoff
				if robotsErr, ok := submissionErr.(*robots.RobotsError); ok {
					s.recordRobotsErrorAndBackoff(robotsErr, discoveredurl)
				}
				// Submission errors are scheduler-level errors, count them
				totalErrors++
				// Continue processing other URLs, don't abort the crawl
			}
		}

		// 6. HTML → Markdown Conversion
		markdownDoc, err := s.markdownConversionRule.Convert(sanitizedHtml)
		if err != nil {
			if err.Severity() == failure.SeverityFatal {
				return CrawlingExecution{}, err
			}
			totalErrors++
			continue
		}

		// 7. Assets Resolution
		resolveParam := assets.NewResolveParam(cfg.OutputDir(), cfg.MaxAssetSize())
		assetfulMarkdown, err := s.assetResolver.Resolve(
			s.ctx,
			fetchResult.URL(),
			markdownDoc,
			resolveParam,
			RetryParam(cfg),
		)
		if err != nil {
			if err.Severity() == failure.SeverityFatal {
				return CrawlingExecution{}, err
			}
			totalErrors++
			// Continue to process the markdown even if asset resolution had errors
		}
		// Count assets processed - use the actual count of successfully resolved local assets
		totalAssets += len(assetfulMarkdown.LocalAssets())

		// 8. Markdown Normalization
		normalizeParam := normalize.NewNormalizeParam(
			appVersion,
			fetchResult.FetchedAt(),
			hashutil.HashAlgoBLAKE3,
			nextCrawlToken.Depth(),
			cfg.AllowedPathPrefix(),
		)
		normalizedMarkdown, err := s.markdownConstraint.Normalize(fetchResult.URL(), assetfulMarkdown, normalizeParam)
		if err != nil {
			if err.Severity() == failure.SeverityFatal {
				return CrawlingExecution{}, err
			}
			totalErrors++
			continue
		}

		// 9. Write Artifact
		writeResult, err := s.storageSink.Write(cfg.OutputDir(), normalizedMarkdown, hashutil.HashAlgoBLAKE3)
		if err != nil {
			if err.Severity() == failure.SeverityFatal {
				return CrawlingExecution{}, err
			}
			// recoverable → log already done → count error
			totalErrors++
			continue
		}
		s.writeResults = append(s.writeResults, writeResult)

		// 9.1 Persist the page to the session cache. This is the crawl's
		// sole durability path; a failure here is observational, same as
		// any other recoverable pipeline error.
		if s.sessionCache != nil && s.sessionID != "" {
			frontmatter := normalizedMarkdown.Frontmatter()
			cacheErr := s.sessionCache.AppendPage(s.sessionID, cache.PageRecord{
				Index:         len(s.writeResults) - 1,
				URL:           nextCrawlToken.URL().String(),
				FinalURL:      fetchResult.URL().String(),
				Title:         frontmatter.Title(),
				ExtractedText: string(normalizedMarkdown.Content()),
				CrawlDepth:    frontmatter.CrawlDepth(),
				ContentHash:   frontmatter.ContentHash(),
				FetchedAt:     frontmatter.FetchedAt(),
			})
			if cacheErr != nil {
				s.metadataSink.RecordError(
					time.Now(),
					"cache",
					"AppendPage",
					metadata.CauseStorageFailure,
					cacheErr.Error(),
					[]metadata.Attribute{},
				)
				totalErrors++
			}
		}

		// Let the pacing model react to the page we just fetched before
		// resolving the final wait: a large or 429'd response stretches the
		// crawl_delay the rate limiter resolves against next.
		paceDelay := s.humanpaceScheduler.Delay(s.currentHost, humanpace.ResponseShape{
			ByteSize:     int(fetchResult.SizeByte()),
			HeadingCount: extractionResult.HeadingCount,
			StatusCode:   fetchResult.Code(),
		})
		s.rateLimiter.SetCrawlDelay(s.currentHost, paceDelay)

		// Apply rate limiting delay at the end of the crawl loop
		delay := s.rateLimiter.ResolveDelay(s.currentHost)
		s.sleeper.Sleep(delay)
	}

	// Stats are recorded by defer - return successful execution result
	return CrawlingExecution{
		writeResults: s.writeResults,
	}, nil
}

// recordRobotsErrorAndBackoff records a robots error using metadataSink and
// triggers exponential backoff on the rate limiter if the error cause warrants it.
// This method handles ErrCauseHttpTooManyRequests (429) and ErrCauseHttpServerError (5xx)
// by recording the error and applying backoff to the current host.
func (s *Scheduler) recordRobotsErrorAndBackoff(robotsErr *robots.RobotsError, targetURL url.URL) {
	// Only record and backoff for specific HTTP error causes
	if robotsErr.Cause == robots.ErrCauseHttpTooManyRequests ||
		robotsErr.Cause == robots.ErrCauseHttpServerError {
		s.metadataSink.RecordError(
			time.Now(),
			"scheduler",
			"SubmitUrlForAdmission",
			metadata.CauseNetworkFailure,
			robotsErr.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrURL, targetURL.String()),
				metadata.NewAttr(metadata.AttrHost, targetURL.Host),
				metadata.NewAttr(metadata.AttrPath, targetURL.Path),
			},
		)
		if s.rateLimiter != nil {
			s.rateLimiter.Backoff(targetURL.Host)
		}
	}
}

func RetryParam(cfg config.Config) retry.RetryParam {
	return retry.NewRetryParam(
		cfg.BaseDelay(),
		cfg.Jitter(),
		cfg.RandomSeed(),
		cfg.MaxAttempt(),
		timeutil.NewBackoffParam(
			cfg.BackoffInitialDuration(),
			cfg.BackoffMultiplier(),
			cfg.BackoffMaxDuration(),
		),
	)
}

func HumanpaceParam(cfg config.Config) humanpace.Param {
	return humanpace.NewParam(
		cfg.ReadingTimeMin(),
		cfg.ReadingTimeMax(),
		cfg.NavigationDecisionMin(),
		cfg.NavigationDecisionMax(),
		cfg.VariancePercent(),
		cfg.SessionBreakAfter(),
		cfg.FatigueGrowth(),
		cfg.SessionBreakMin(),
		cfg.SessionBreakMax(),
		cfg.WeekendFactor(),
		cfg.ComplexityByteThreshold(),
		cfg.ComplexityHeadingThreshold(),
		cfg.ComplexityMaxMultiplier(),
		cfg.CooldownPages(),
		cfg.CooldownMultiplier(),
	)
}

// ---------------------------------------------------------------------------
// Test Helper Methods
// These methods are exported to enable testing of SubmitUrlForAdmission()
// and other scheduler internals. They are not part of the public API.
// ---------------------------------------------------------------------------

// InitWith initializes the dependencies with the given data.
// This is a test helper method.
func (s *Scheduler) InitWith(userAgent string, baseDelay time.Duration, jitter time.Duration, randomSeed int64) {
	s.robot.Init(userAgent)
	s.rateLimiter.SetBaseDelay(baseDelay)
	s.rateLimiter.SetJitter(jitter)
	s.rateLimiter.SetRandomSeed(randomSeed)
}

// SetCurrentHost sets the current host.
// This is a test helper method to simulate the host context.
func (s *Scheduler) SetCurrentHost(host string) {
	s.currentHost = host
	// s.rateLimiter.RegisterHost(host)
}

// FrontierVisitedCount returns the number of URLs in the frontier's visited set.
// This is a test helper method to verify frontier state.
func (s *Scheduler) FrontierVisitedCount() int {
	if s.frontier == nil {
		return 0
	}
	return s.frontier.VisitedCount()
}

// DequeueFromFrontier dequeues a token from the frontier.
// This is a test helper method to verify frontier contents.
func (s *Scheduler) DequeueFromFrontier() (frontier.CrawlToken, bool) {
	if s.frontier == nil {
		return frontier.CrawlToken{}, false
	}
	return s.frontier.Dequeue()
}

// SetConvertRule sets the markdown conversion rule for testing.
// This is a test helper method to inject mock conversion rules.
func (s *Scheduler) SetConvertRule(rule mdconvert.ConvertRule) {
	s.markdownConversionRule = rule
}
