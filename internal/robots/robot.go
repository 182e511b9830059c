package robots

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-archivist/archivist/internal/metadata"
	"github.com/go-archivist/archivist/internal/robots/cache"
)

/*
Responsibilities

- Fetch robots.txt per host
- Cache rules for crawl duration
- Enforce allow/disallow rules before enqueue

Robots checks occur before a URL enters the frontier.
*/

// Robot is the decision surface the scheduler consults before a
// candidate URL is allowed to reach the frontier.
type Robot interface {
	Init(userAgent string)
	Decide(targetURL url.URL) (Decision, *RobotsError)
}

// CachedRobot is the production Robot implementation. It wraps a
// RobotsFetcher (HTTP fetch + parse + cache.Cache-backed TTL); on every
// Decide call it maps the host's parsed rules to a ruleSet and evaluates
// the candidate path against it.
type CachedRobot struct {
	fetcher      *RobotsFetcher
	metadataSink metadata.MetadataSink
	userAgent    string
}

// NewCachedRobot creates a CachedRobot scoped to the given metadata
// sink. Call Init or InitWithCache before the first Decide.
func NewCachedRobot(metadataSink metadata.MetadataSink) CachedRobot {
	return CachedRobot{metadataSink: metadataSink}
}

// Init configures the robot with a crawl user agent and an in-memory
// cache private to this robot instance.
func (r *CachedRobot) Init(userAgent string) {
	r.InitWithCache(userAgent, cache.NewMemoryCache())
}

// InitWithCache configures the robot with a crawl user agent and a
// caller-supplied cache, letting the cache be shared or swapped (e.g.
// for tests, or a persistent cache across resumed sessions).
func (r *CachedRobot) InitWithCache(userAgent string, c cache.Cache) {
	r.userAgent = userAgent
	r.fetcher = NewRobotsFetcher(r.metadataSink, userAgent, c)
}

// Decide fetches (or reuses the cached) robots.txt for targetURL's
// host, maps it to the best-matching user-agent ruleSet, and evaluates
// the candidate path against the allow/disallow rules. A 5xx or 429
// response is returned as an error. Any other fetch failure (including
// retryable network and redirect failures) is treated as permissive: it
// is recorded via the metadata sink and the candidate is allowed through.
func (r *CachedRobot) Decide(targetURL url.URL) (Decision, *RobotsError) {
	scheme := targetURL.Scheme
	if scheme == "" {
		scheme = "https"
	}
	hostname := targetURL.Host

	fetchResult, fetchErr := r.fetcher.Fetch(context.Background(), scheme, hostname)
	if fetchErr != nil {
		r.recordFetchError(targetURL, fetchErr)
		if fetchErr.Cause == ErrCauseHttpServerError || fetchErr.Cause == ErrCauseHttpTooManyRequests {
			return Decision{}, fetchErr
		}
		return Decision{Url: targetURL, Allowed: true, Reason: EmptyRuleSet}, nil
	}

	if fetchResult.Response.IsEmpty() {
		return Decision{Url: targetURL, Allowed: true, Reason: EmptyRuleSet}, nil
	}

	rules := MapResponseToRuleSet(fetchResult.Response, r.userAgent, fetchResult.FetchedAt)

	if !rules.hasGroups {
		return Decision{Url: targetURL, Allowed: true, Reason: EmptyRuleSet}, nil
	}
	if !rules.matchedGroup {
		return Decision{Url: targetURL, Allowed: true, Reason: UserAgentNotMatched}, nil
	}

	return evaluatePath(targetURL, rules), nil
}

// evaluatePath applies the longest-match-wins rule (ties favor Allow)
// that robots.txt implementations converge on: among the allow and
// disallow patterns that match the candidate path, the longest pattern
// governs, and an Allow of equal length beats a Disallow.
func evaluatePath(targetURL url.URL, rules ruleSet) Decision {
	path := targetURL.Path
	if path == "" {
		path = "/"
	}

	allowLen := -1
	for _, rule := range rules.AllowRules() {
		if matchesRobotsPattern(rule.Prefix(), path) && len(rule.Prefix()) > allowLen {
			allowLen = len(rule.Prefix())
		}
	}

	disallowLen := -1
	for _, rule := range rules.DisallowRules() {
		if matchesRobotsPattern(rule.Prefix(), path) && len(rule.Prefix()) > disallowLen {
			disallowLen = len(rule.Prefix())
		}
	}

	decision := Decision{Url: targetURL, CrawlDelay: crawlDelayValue(rules.CrawlDelay())}

	switch {
	case allowLen == -1 && disallowLen == -1:
		decision.Allowed = true
		decision.Reason = NoMatchingRules
	case disallowLen > allowLen:
		decision.Allowed = false
		decision.Reason = DisallowedByRobots
	default:
		decision.Allowed = true
		decision.Reason = AllowedByRobots
	}
	return decision
}

// matchesRobotsPattern implements the robots.txt path-matching grammar:
// "*" matches any run of characters and a trailing "$" anchors the
// pattern to the end of the path. Everything else matches literally.
func matchesRobotsPattern(pattern, path string) bool {
	if pattern == "" {
		return false
	}

	anchored := strings.HasSuffix(pattern, "$")
	if anchored {
		pattern = strings.TrimSuffix(pattern, "$")
	}

	segments := strings.Split(pattern, "*")
	pos := 0
	for i, segment := range segments {
		if segment == "" {
			continue
		}
		idx := strings.Index(path[pos:], segment)
		if idx == -1 {
			return false
		}
		if i == 0 && idx != 0 {
			return false
		}
		pos += idx + len(segment)
	}

	if anchored && pos != len(path) {
		return false
	}
	return true
}

// crawlDelayValue unwraps a ruleSet's optional crawl delay pointer into
// the plain time.Duration the Decision struct carries across the
// package boundary, with zero meaning "none specified".
func crawlDelayValue(d *time.Duration) time.Duration {
	if d == nil {
		return 0
	}
	return *d
}

func (r *CachedRobot) recordFetchError(targetURL url.URL, err *RobotsError) {
	if r.metadataSink == nil {
		return
	}
	r.metadataSink.RecordError(
		time.Now(),
		"robots",
		"fetch",
		mapRobotsErrorToMetadataCause(err),
		err.Error(),
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrHost, targetURL.Host),
			metadata.NewAttr(metadata.AttrField, fmt.Sprintf("retryable=%t", err.Retryable)),
		},
	)
}
