package humanpace

import "time"

// Param holds the human-behavior pacing parameters, passed in from
// outside (e.g. config) and not known by the scheduler internally, same
// separation pkg/retry.RetryParam uses.
type Param struct {
	ReadingTimeMin             time.Duration
	ReadingTimeMax             time.Duration
	NavigationDecisionMin      time.Duration
	NavigationDecisionMax      time.Duration
	VariancePercent            int
	SessionBreakAfter          int
	FatigueGrowth              float64
	SessionBreakMin            time.Duration
	SessionBreakMax            time.Duration
	WeekendFactor              float64
	ComplexityByteThreshold    int
	ComplexityHeadingThreshold int
	ComplexityMaxMultiplier    float64
	CooldownPages              int
	CooldownMultiplier         float64
}

func NewParam(
	readingTimeMin, readingTimeMax time.Duration,
	navigationDecisionMin, navigationDecisionMax time.Duration,
	variancePercent int,
	sessionBreakAfter int,
	fatigueGrowth float64,
	sessionBreakMin, sessionBreakMax time.Duration,
	weekendFactor float64,
	complexityByteThreshold, complexityHeadingThreshold int,
	complexityMaxMultiplier float64,
	cooldownPages int,
	cooldownMultiplier float64,
) Param {
	return Param{
		ReadingTimeMin:             readingTimeMin,
		ReadingTimeMax:             readingTimeMax,
		NavigationDecisionMin:      navigationDecisionMin,
		NavigationDecisionMax:      navigationDecisionMax,
		VariancePercent:            variancePercent,
		SessionBreakAfter:          sessionBreakAfter,
		FatigueGrowth:              fatigueGrowth,
		SessionBreakMin:            sessionBreakMin,
		SessionBreakMax:            sessionBreakMax,
		WeekendFactor:              weekendFactor,
		ComplexityByteThreshold:    complexityByteThreshold,
		ComplexityHeadingThreshold: complexityHeadingThreshold,
		ComplexityMaxMultiplier:    complexityMaxMultiplier,
		CooldownPages:              cooldownPages,
		CooldownMultiplier:         cooldownMultiplier,
	}
}

// ResponseShape is the slice of a fetch response the pacing model reacts
// to: how big the page was, how many headings it had, and whether the
// host just rate-limited us. It deliberately doesn't carry the full
// fetcher.FetchResult so the model stays testable without constructing
// one.
type ResponseShape struct {
	ByteSize     int
	HeadingCount int
	StatusCode   int
}
