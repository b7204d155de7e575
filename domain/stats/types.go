package stats

import (
	"fmt"
	"math"
)

// DefaultAlpha is the significance threshold used for hypothesis decisions.
const DefaultAlpha = 0.05

// Descriptive holds per-segment summary statistics for the purchase column.
type Descriptive struct {
	Segment string  `json:"segment"`
	N       int     `json:"n"`
	Mean    float64 `json:"mean"`
	StdDev  float64 `json:"std_dev"` // sample standard deviation
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Median  float64 `json:"median"`
	P25     float64 `json:"p25"`
	P75     float64 `json:"p75"`
	P90     float64 `json:"p90"`
}

// IntervalDistribution names the distribution a critical value came from.
type IntervalDistribution string

const (
	DistributionStudentT IntervalDistribution = "t"
	DistributionNormal   IntervalDistribution = "normal"
)

// ConfidenceInterval is a bound pair for the true mean of a segment.
type ConfidenceInterval struct {
	Segment       string               `json:"segment"`
	Level         float64              `json:"level"`
	Lower         float64              `json:"lower"`
	Upper         float64              `json:"upper"`
	Mean          float64              `json:"mean"`
	Margin        float64              `json:"margin"`
	CriticalValue float64              `json:"critical_value"`
	Distribution  IntervalDistribution `json:"distribution"`
}

// Width returns the interval width.
func (ci ConfidenceInterval) Width() float64 {
	return ci.Upper - ci.Lower
}

// Overlaps reports whether two intervals share any range.
func (ci ConfidenceInterval) Overlaps(other ConfidenceInterval) bool {
	return !(ci.Upper < other.Lower || other.Upper < ci.Lower)
}

// SamplingDistribution is a Monte Carlo approximation of the sampling
// distribution of the mean, built by resampling with replacement.
type SamplingDistribution struct {
	Segment    string    `json:"segment"`
	SampleSize int       `json:"sample_size"`
	Resamples  int       `json:"resamples"`
	Seed       int64     `json:"seed"`
	Means      []float64 `json:"means"` // ascending
	Mean       float64   `json:"mean"`
	StdDev     float64   `json:"std_dev"`
}

// TestMethod names the two-sample test variant used.
type TestMethod string

const (
	MethodWelch   TestMethod = "welch"
	MethodStudent TestMethod = "student"
)

// TestResult holds the outcome of a two-sample comparison.
type TestResult struct {
	GroupA    string     `json:"group_a"`
	GroupB    string     `json:"group_b"`
	Method    TestMethod `json:"method"`
	Statistic float64    `json:"statistic"`
	DF        float64    `json:"df"`
	PValue    float64    `json:"p_value"`
	Alpha     float64    `json:"alpha"`
	// RejectNull is true when the null hypothesis of equal means is
	// rejected at Alpha.
	RejectNull bool    `json:"reject_null"`
	MeanA      float64 `json:"mean_a"`
	MeanB      float64 `json:"mean_b"`
	NA         int     `json:"n_a"`
	NB         int     `json:"n_b"`
}

// NewTestResult validates invariants before handing a result to callers.
func NewTestResult(groupA, groupB string, method TestMethod, statistic, df, pValue float64, meanA, meanB float64, nA, nB int) (TestResult, error) {
	if nA <= 0 || nB <= 0 {
		return TestResult{}, fmt.Errorf("sample sizes must be > 0, got %d and %d", nA, nB)
	}
	if pValue < 0 || pValue > 1 || math.IsNaN(pValue) {
		return TestResult{}, fmt.Errorf("p-value must be in [0, 1], got %f", pValue)
	}
	return TestResult{
		GroupA:     groupA,
		GroupB:     groupB,
		Method:     method,
		Statistic:  statistic,
		DF:         df,
		PValue:     pValue,
		Alpha:      DefaultAlpha,
		RejectNull: pValue < DefaultAlpha,
		MeanA:      meanA,
		MeanB:      meanB,
		NA:         nA,
		NB:         nB,
	}, nil
}

// EffectSize is Cohen's d for a two-segment comparison.
type EffectSize struct {
	GroupA    string  `json:"group_a"`
	GroupB    string  `json:"group_b"`
	D         float64 `json:"d"`
	Magnitude string  `json:"magnitude"`
}

// MagnitudeLabel buckets |d| using the conventional 0.2/0.5/0.8 cutoffs.
func MagnitudeLabel(d float64) string {
	abs := math.Abs(d)
	switch {
	case abs < 0.2:
		return "negligible"
	case abs < 0.5:
		return "small"
	case abs < 0.8:
		return "medium"
	default:
		return "large"
	}
}
