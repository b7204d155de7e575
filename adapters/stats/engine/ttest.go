package engine

import (
	"math"

	"github.com/montanaflynn/stats"

	"spendlens/domain/core"
	"spendlens/domain/retail"
	domstats "spendlens/domain/stats"
)

// TwoSampleTest performs an independent two-sample t-test on the purchase
// amounts of the two segments. Welch's correction is applied by default;
// set equalVariance for the pooled-variance Student's t variant.
func (e *Engine) TwoSampleTest(a, b retail.Segment, equalVariance bool) (domstats.TestResult, error) {
	if a.N() == 0 {
		return domstats.TestResult{}, core.NewEmptySegmentError(a.Name())
	}
	if b.N() == 0 {
		return domstats.TestResult{}, core.NewEmptySegmentError(b.Name())
	}
	if a.N() < 2 {
		return domstats.TestResult{}, core.NewInsufficientSampleError(a.Name(), a.N())
	}
	if b.N() < 2 {
		return domstats.TestResult{}, core.NewInsufficientSampleError(b.Name(), b.N())
	}

	n1 := float64(a.N())
	n2 := float64(b.N())
	mean1, _ := stats.Mean(a.Values())
	mean2, _ := stats.Mean(b.Values())
	var1, _ := stats.SampleVariance(a.Values())
	var2, _ := stats.SampleVariance(b.Values())

	method := domstats.MethodWelch
	var se, df float64
	if equalVariance {
		method = domstats.MethodStudent
		pooled := ((n1-1)*var1 + (n2-1)*var2) / (n1 + n2 - 2)
		se = math.Sqrt(pooled * (1/n1 + 1/n2))
		df = n1 + n2 - 2
	} else {
		se = math.Sqrt(var1/n1 + var2/n2)
		df = welchSatterthwaite(var1, var2, n1, n2)
	}

	var statistic, pValue float64
	switch {
	case se == 0 && mean1 == mean2:
		// Both segments constant and identical: no evidence either way.
		statistic, pValue = 0, 1
	case se == 0:
		// Constant segments with different means: certain difference.
		statistic = math.Inf(sign(mean1 - mean2))
		pValue = 0
	default:
		statistic = (mean1 - mean2) / se
		pValue = tPValue(statistic, df)
	}

	return domstats.NewTestResult(a.Name(), b.Name(), method, statistic, df, pValue, mean1, mean2, a.N(), b.N())
}

// EffectSize computes Cohen's d between two segments: the mean difference
// in pooled-standard-deviation units. Equal means yield exactly 0
// regardless of variance; a zero pooled std with differing means is a
// degenerate-variance error rather than a division by zero.
func (e *Engine) EffectSize(a, b retail.Segment) (domstats.EffectSize, error) {
	if a.N() == 0 {
		return domstats.EffectSize{}, core.NewEmptySegmentError(a.Name())
	}
	if b.N() == 0 {
		return domstats.EffectSize{}, core.NewEmptySegmentError(b.Name())
	}
	if a.N() < 2 {
		return domstats.EffectSize{}, core.NewInsufficientSampleError(a.Name(), a.N())
	}
	if b.N() < 2 {
		return domstats.EffectSize{}, core.NewInsufficientSampleError(b.Name(), b.N())
	}

	mean1, _ := stats.Mean(a.Values())
	mean2, _ := stats.Mean(b.Values())

	if mean1 == mean2 {
		return domstats.EffectSize{
			GroupA:    a.Name(),
			GroupB:    b.Name(),
			D:         0,
			Magnitude: domstats.MagnitudeLabel(0),
		}, nil
	}

	n1 := float64(a.N())
	n2 := float64(b.N())
	var1, _ := stats.SampleVariance(a.Values())
	var2, _ := stats.SampleVariance(b.Values())

	pooledSD := math.Sqrt(((n1-1)*var1 + (n2-1)*var2) / (n1 + n2 - 2))
	if pooledSD == 0 {
		return domstats.EffectSize{}, core.NewDegenerateVarianceError(mean1, mean2)
	}

	d := (mean1 - mean2) / pooledSD
	return domstats.EffectSize{
		GroupA:    a.Name(),
		GroupB:    b.Name(),
		D:         d,
		Magnitude: domstats.MagnitudeLabel(d),
	}, nil
}

// welchSatterthwaite approximates the degrees of freedom for unequal
// variances.
func welchSatterthwaite(var1, var2, n1, n2 float64) float64 {
	num := math.Pow(var1/n1+var2/n2, 2)
	den := math.Pow(var1/n1, 2)/(n1-1) + math.Pow(var2/n2, 2)/(n2-1)
	if den == 0 {
		// Both variances zero; fall back to the pooled df.
		return n1 + n2 - 2
	}
	return num / den
}

func sign(v float64) int {
	if v < 0 {
		return -1
	}
	return 1
}
