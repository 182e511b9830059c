package humanpace

import (
	"math/rand"
	"net/http"
	"sync"
	"time"
)

/*
Responsibilities

- Simulate a human reader's pacing: reading time before a request,
  navigation-decision time after a response, fatigue that accumulates
  over the session, a weekend slowdown, and a reaction to unusually
  large or heading-dense pages.
- Track a per-host 429 cooldown that stretches delays for a number of
  subsequent fetches to that host.

It knows nothing about HTTP, robots, or retries: Delay returns a
duration, the caller is responsible for feeding it into
limiter.RateLimiter.SetCrawlDelay so the existing
max(base, crawlDelay, backoffDelay)+jitter resolution still owns the
final wait before the next fetch.
*/
type Scheduler struct {
	mu    sync.Mutex
	param Param
	rng   *rand.Rand
	now   func() time.Time

	pageCount      int
	cooldownByHost map[string]int
}

func NewScheduler(param Param, randomSeed int64) *Scheduler {
	return &Scheduler{
		param:          param,
		rng:            rand.New(rand.NewSource(randomSeed)),
		now:            time.Now,
		cooldownByHost: make(map[string]int),
	}
}

// SetClock overrides the wall clock used for the weekend check. Tests
// use this to pin the weekday instead of depending on the run date.
func (s *Scheduler) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Delay computes the combined reading-time + navigation-decision pause
// that should precede the next fetch to host, given the shape of the
// response just received. It also advances the session-wide page
// counter and the host's cooldown state.
func (s *Scheduler) Delay(host string, shape ResponseShape) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pageCount++

	// cooldownActive reflects cooldown state carried in from a PRIOR
	// 429, not one just observed on this response: the fetch that
	// triggers a cooldown isn't itself slowed by it.
	cooldownActive := s.cooldownByHost[host] > 0
	if shape.StatusCode == http.StatusTooManyRequests {
		s.cooldownByHost[host] = s.param.CooldownPages
	} else if cooldownActive {
		s.cooldownByHost[host]--
	}

	total := s.sampleWithVariance(s.param.ReadingTimeMin, s.param.ReadingTimeMax) +
		s.sampleWithVariance(s.param.NavigationDecisionMin, s.param.NavigationDecisionMax)

	total = scale(total, s.fatigueMultiplier())
	total = scale(total, s.weekendMultiplier(s.now()))
	total = scale(total, s.complexityMultiplier(shape))
	if cooldownActive {
		total = scale(total, s.param.CooldownMultiplier)
	}

	if s.param.SessionBreakAfter > 0 && s.pageCount%s.param.SessionBreakAfter == 0 {
		total += s.sampleUniform(s.param.SessionBreakMin, s.param.SessionBreakMax)
	}

	return total
}

// fatigueMultiplier implements "1 + k*floor(count / session_break_after)".
// Caller must hold s.mu.
func (s *Scheduler) fatigueMultiplier() float64 {
	if s.param.SessionBreakAfter <= 0 {
		return 1.0
	}
	cycles := s.pageCount / s.param.SessionBreakAfter
	return 1.0 + s.param.FatigueGrowth*float64(cycles)
}

// weekendMultiplier applies WeekendFactor on Saturday/Sunday.
func (s *Scheduler) weekendMultiplier(now time.Time) float64 {
	switch now.Weekday() {
	case time.Saturday, time.Sunday:
		return s.param.WeekendFactor
	default:
		return 1.0
	}
}

// complexityMultiplier grows proportionally to how far the response
// exceeds the byte-size or heading-count threshold, bounded by
// ComplexityMaxMultiplier. Caller must hold s.mu (no shared state is
// touched, but kept consistent with the other multiplier methods).
func (s *Scheduler) complexityMultiplier(shape ResponseShape) float64 {
	factor := 1.0
	if s.param.ComplexityByteThreshold > 0 && shape.ByteSize > s.param.ComplexityByteThreshold {
		if ratio := float64(shape.ByteSize) / float64(s.param.ComplexityByteThreshold); ratio > factor {
			factor = ratio
		}
	}
	if s.param.ComplexityHeadingThreshold > 0 && shape.HeadingCount > s.param.ComplexityHeadingThreshold {
		if ratio := float64(shape.HeadingCount) / float64(s.param.ComplexityHeadingThreshold); ratio > factor {
			factor = ratio
		}
	}
	if s.param.ComplexityMaxMultiplier > 0 && factor > s.param.ComplexityMaxMultiplier {
		factor = s.param.ComplexityMaxMultiplier
	}
	return factor
}

// sampleWithVariance samples uniformly from [min, max] then applies a
// ± VariancePercent jitter, per the "base_reading_time ± variance%"
// rule. Caller must hold s.mu.
func (s *Scheduler) sampleWithVariance(min, max time.Duration) time.Duration {
	base := s.sampleUniform(min, max)
	if s.param.VariancePercent <= 0 {
		return base
	}
	spread := float64(s.param.VariancePercent) / 100.0
	// uniform in [-spread, +spread]
	factor := 1.0 + (s.rng.Float64()*2-1)*spread
	return scale(base, factor)
}

// sampleUniform returns a uniformly distributed duration in [min, max].
// Caller must hold s.mu.
func (s *Scheduler) sampleUniform(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	span := int64(max - min)
	return min + time.Duration(s.rng.Int63n(span))
}

func scale(d time.Duration, factor float64) time.Duration {
	if factor <= 0 {
		return d
	}
	return time.Duration(float64(d) * factor)
}
