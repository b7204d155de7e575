package ports

import (
	"spendlens/domain/retail"
	"spendlens/domain/stats"
)

// Engine computes descriptive and inferential statistics for segments
// derived from a shared dataset. Implementations must be stateless so
// concurrent callers can share one instance.
type Engine interface {
	// Describe returns summary statistics for the segment's purchase
	// amounts. Fails on an empty segment.
	Describe(seg retail.Segment) (stats.Descriptive, error)

	// ConfidenceInterval bounds the true mean at the given level in (0, 1).
	// Requires at least two observations.
	ConfidenceInterval(seg retail.Segment, level float64) (stats.ConfidenceInterval, error)

	// Bootstrap draws resamples of sampleSize with replacement and returns
	// the empirical distribution of sample means. Deterministic for a
	// fixed seed; each call uses an isolated random source.
	Bootstrap(seg retail.Segment, sampleSize, resamples int, seed int64) (stats.SamplingDistribution, error)

	// TwoSampleTest compares the means of two segments. Welch's correction
	// is applied unless equalVariance is set.
	TwoSampleTest(a, b retail.Segment, equalVariance bool) (stats.TestResult, error)

	// EffectSize computes Cohen's d between two segments.
	EffectSize(a, b retail.Segment) (stats.EffectSize, error)
}
