package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendlens/domain/core"
	"spendlens/domain/retail"
	domstats "spendlens/domain/stats"
)

func segment(name string, values ...float64) retail.Segment {
	return retail.NewSegment(name, values)
}

func TestDescribe(t *testing.T) {
	eng := New()

	desc, err := eng.Describe(segment("a", 200, 220, 240, 260, 280))
	require.NoError(t, err)
	assert.Equal(t, 5, desc.N)
	assert.InDelta(t, 240.0, desc.Mean, 1e-9)
	assert.InDelta(t, 31.6227766, desc.StdDev, 1e-6)
	assert.Equal(t, 200.0, desc.Min)
	assert.Equal(t, 280.0, desc.Max)
	assert.InDelta(t, 240.0, desc.Median, 1e-9)
}

func TestDescribeEmptySegment(t *testing.T) {
	eng := New()

	_, err := eng.Describe(segment("empty"))
	require.Error(t, err)
	assert.True(t, core.IsEmptySegment(err))
}

func TestDescribeSingleObservation(t *testing.T) {
	eng := New()

	desc, err := eng.Describe(segment("one", 150))
	require.NoError(t, err)
	assert.Equal(t, 1, desc.N)
	assert.Equal(t, 150.0, desc.Mean)
	assert.Equal(t, 0.0, desc.StdDev)
}

func TestConfidenceIntervalSmallSampleUsesT(t *testing.T) {
	eng := New()
	seg := segment("a", 200, 220, 240, 260, 280)

	ci, err := eng.ConfidenceInterval(seg, 0.95)
	require.NoError(t, err)

	// t critical value for 4 degrees of freedom at 95% is 2.7764.
	assert.Equal(t, domstats.DistributionStudentT, ci.Distribution)
	assert.InDelta(t, 2.7764, ci.CriticalValue, 1e-3)
	assert.InDelta(t, 240.0, ci.Mean, 1e-9)
	assert.InDelta(t, 200.73, ci.Lower, 0.05)
	assert.InDelta(t, 279.27, ci.Upper, 0.05)
}

func TestConfidenceIntervalLargeSampleUsesNormal(t *testing.T) {
	eng := New()
	values := make([]float64, 100)
	for i := range values {
		values[i] = float64(100 + i)
	}

	ci, err := eng.ConfidenceInterval(retail.NewSegment("big", values), 0.95)
	require.NoError(t, err)
	assert.Equal(t, domstats.DistributionNormal, ci.Distribution)
	assert.InDelta(t, 1.9600, ci.CriticalValue, 1e-3)
}

func TestConfidenceIntervalWidthGrowsWithLevel(t *testing.T) {
	eng := New()
	seg := segment("a", 120, 90, 300, 250, 180, 210, 95, 400)

	var prev float64
	for _, level := range []float64{0.90, 0.95, 0.99} {
		ci, err := eng.ConfidenceInterval(seg, level)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, ci.Width(), prev, "level %v", level)
		prev = ci.Width()
	}
}

func TestConfidenceIntervalConstantSegmentCollapses(t *testing.T) {
	eng := New()

	ci, err := eng.ConfidenceInterval(segment("const", 100, 100, 100), 0.95)
	require.NoError(t, err)
	assert.Equal(t, 100.0, ci.Lower)
	assert.Equal(t, 100.0, ci.Upper)
	assert.Equal(t, 100.0, ci.Mean)
	assert.Equal(t, 0.0, ci.Width())
}

func TestConfidenceIntervalErrors(t *testing.T) {
	eng := New()

	for _, level := range []float64{0, 1, -0.5, 1.5, math.NaN()} {
		_, err := eng.ConfidenceInterval(segment("a", 1, 2, 3), level)
		assert.True(t, core.IsInvalidParameter(err), "level %v", level)
	}

	_, err := eng.ConfidenceInterval(segment("one", 42), 0.95)
	assert.True(t, core.IsInsufficientSample(err))

	_, err = eng.ConfidenceInterval(segment("empty"), 0.95)
	assert.True(t, core.IsEmptySegment(err))
}

func TestNormalApproxPolicy(t *testing.T) {
	eng := New()
	assert.False(t, eng.UseNormalApprox(29))
	assert.True(t, eng.UseNormalApprox(30))

	custom := New(WithNormalApproxThreshold(50))
	assert.False(t, custom.UseNormalApprox(49))
	assert.True(t, custom.UseNormalApprox(50))
}

func TestBootstrapDeterministicForSeed(t *testing.T) {
	eng := New()
	seg := segment("a", 10, 20, 30, 40, 50, 60, 70, 80, 90, 100)

	first, err := eng.Bootstrap(seg, 5, 200, 42)
	require.NoError(t, err)
	second, err := eng.Bootstrap(seg, 5, 200, 42)
	require.NoError(t, err)
	assert.Equal(t, first.Means, second.Means)
	assert.Equal(t, first.Mean, second.Mean)

	other, err := eng.Bootstrap(seg, 5, 200, 7)
	require.NoError(t, err)
	assert.NotEqual(t, first.Means, other.Means)
}

func TestBootstrapApproximatesSegmentMean(t *testing.T) {
	eng := New()
	values := make([]float64, 500)
	for i := range values {
		values[i] = float64(i % 97)
	}
	seg := retail.NewSegment("a", values)

	desc, err := eng.Describe(seg)
	require.NoError(t, err)

	dist, err := eng.Bootstrap(seg, 50, 2000, 42)
	require.NoError(t, err)
	assert.Len(t, dist.Means, 2000)
	assert.InDelta(t, desc.Mean, dist.Mean, desc.StdDev/4)

	// The spread of sample means shrinks as the sample size grows.
	wider, err := eng.Bootstrap(seg, 10, 2000, 42)
	require.NoError(t, err)
	assert.Less(t, dist.StdDev, wider.StdDev)
}

func TestBootstrapMeansAreSorted(t *testing.T) {
	eng := New()
	dist, err := eng.Bootstrap(segment("a", 5, 10, 15, 20, 25), 3, 100, 1)
	require.NoError(t, err)
	for i := 1; i < len(dist.Means); i++ {
		assert.LessOrEqual(t, dist.Means[i-1], dist.Means[i])
	}
}

func TestBootstrapParameterGuards(t *testing.T) {
	eng := New()
	seg := segment("a", 1, 2, 3, 4, 5)

	_, err := eng.Bootstrap(seg, 0, 100, 42)
	assert.True(t, core.IsInvalidParameter(err))

	_, err = eng.Bootstrap(seg, 5, 0, 42)
	assert.True(t, core.IsInvalidParameter(err))

	_, err = eng.Bootstrap(seg, -3, 100, 42)
	assert.True(t, core.IsInvalidParameter(err))

	// Twice the segment size is permitted, beyond it is a caller error.
	_, err = eng.Bootstrap(seg, 10, 100, 42)
	assert.NoError(t, err)
	_, err = eng.Bootstrap(seg, 11, 100, 42)
	assert.True(t, core.IsInvalidParameter(err))

	_, err = eng.Bootstrap(segment("empty"), 5, 100, 42)
	assert.True(t, core.IsEmptySegment(err))
}

func TestTwoSampleTestWelch(t *testing.T) {
	eng := New()
	a := segment("a", 520, 480, 530, 510, 490, 515, 505, 495)
	b := segment("b", 420, 380, 430, 410, 390, 415, 405, 395)

	result, err := eng.TwoSampleTest(a, b, false)
	require.NoError(t, err)
	assert.Equal(t, domstats.MethodWelch, result.Method)
	assert.Positive(t, result.Statistic)
	assert.Less(t, result.PValue, 0.05)
	assert.True(t, result.RejectNull)
	assert.Equal(t, 8, result.NA)
	assert.Equal(t, 8, result.NB)
}

func TestTwoSampleTestSymmetricUnderSwap(t *testing.T) {
	eng := New()
	a := segment("a", 12, 15, 11, 14, 13, 16, 12, 15)
	b := segment("b", 9, 10, 8, 11, 9, 10, 8, 12)

	ab, err := eng.TwoSampleTest(a, b, false)
	require.NoError(t, err)
	ba, err := eng.TwoSampleTest(b, a, false)
	require.NoError(t, err)

	assert.InDelta(t, ab.PValue, ba.PValue, 1e-12)
	assert.InDelta(t, ab.Statistic, -ba.Statistic, 1e-12)
	assert.InDelta(t, ab.DF, ba.DF, 1e-12)
}

func TestTwoSampleTestEqualVariance(t *testing.T) {
	eng := New()
	a := segment("a", 2, 4, 6, 8)
	b := segment("b", 1, 3, 5, 7)

	result, err := eng.TwoSampleTest(a, b, true)
	require.NoError(t, err)
	assert.Equal(t, domstats.MethodStudent, result.Method)
	assert.InDelta(t, 6.0, result.DF, 1e-12)
	assert.False(t, result.RejectNull)
}

func TestTwoSampleTestNoDifference(t *testing.T) {
	eng := New()
	a := segment("a", 10, 12, 14, 16, 18)
	b := segment("b", 10, 12, 14, 16, 18)

	result, err := eng.TwoSampleTest(a, b, false)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, result.Statistic, 1e-12)
	assert.InDelta(t, 1.0, result.PValue, 1e-12)
	assert.False(t, result.RejectNull)
}

func TestTwoSampleTestIdenticalConstantSegments(t *testing.T) {
	eng := New()
	a := segment("a", 100, 100, 100)
	b := segment("b", 100, 100, 100)

	result, err := eng.TwoSampleTest(a, b, false)
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.Statistic)
	assert.Equal(t, 1.0, result.PValue)
	assert.False(t, result.RejectNull)
}

func TestTwoSampleTestInsufficientSample(t *testing.T) {
	eng := New()

	_, err := eng.TwoSampleTest(segment("a", 1), segment("b", 1, 2, 3), false)
	assert.True(t, core.IsInsufficientSample(err))

	_, err = eng.TwoSampleTest(segment("a", 1, 2, 3), segment("b", 1), false)
	assert.True(t, core.IsInsufficientSample(err))

	_, err = eng.TwoSampleTest(segment("a"), segment("b", 1, 2), false)
	assert.True(t, core.IsEmptySegment(err))
}

func TestEffectSizeKnownValue(t *testing.T) {
	eng := New()
	a := segment("a", 2, 4)
	b := segment("b", 1, 3)

	// Mean difference 1, both variances 2, pooled std sqrt(2).
	effect, err := eng.EffectSize(a, b)
	require.NoError(t, err)
	assert.InDelta(t, 1/math.Sqrt2, effect.D, 1e-12)
	assert.Equal(t, "medium", effect.Magnitude)
}

func TestEffectSizeEqualMeansIsZero(t *testing.T) {
	eng := New()

	// Identical constant segments: 0/0 is defined as exactly 0.
	effect, err := eng.EffectSize(segment("a", 100, 100, 100), segment("b", 100, 100, 100))
	require.NoError(t, err)
	assert.Equal(t, 0.0, effect.D)

	// Equal means with nonzero variance also yield 0.
	effect, err = eng.EffectSize(segment("a", 90, 110), segment("b", 80, 120))
	require.NoError(t, err)
	assert.Equal(t, 0.0, effect.D)
}

func TestEffectSizeDegenerateVariance(t *testing.T) {
	eng := New()

	_, err := eng.EffectSize(segment("a", 100, 100, 100), segment("b", 200, 200, 200))
	require.Error(t, err)
	assert.True(t, core.IsDegenerateVariance(err))
}
