package engine

import (
	"math"

	"github.com/montanaflynn/stats"

	"spendlens/domain/core"
	"spendlens/domain/retail"
	domstats "spendlens/domain/stats"
)

// ConfidenceInterval bounds the true mean of the segment at the given
// confidence level. The critical value comes from the Student-t
// distribution below the normal-approximation threshold and from the
// standard normal at or above it.
func (e *Engine) ConfidenceInterval(seg retail.Segment, level float64) (domstats.ConfidenceInterval, error) {
	if level <= 0 || level >= 1 || math.IsNaN(level) {
		return domstats.ConfidenceInterval{}, core.NewInvalidParameterError("level", "must be in (0, 1)")
	}
	if seg.N() == 0 {
		return domstats.ConfidenceInterval{}, core.NewEmptySegmentError(seg.Name())
	}
	if seg.N() < 2 {
		return domstats.ConfidenceInterval{}, core.NewInsufficientSampleError(seg.Name(), seg.N())
	}

	values := seg.Values()
	mean, _ := stats.Mean(values)
	stdDev, _ := stats.StandardDeviationSample(values)

	crit, dist := e.criticalValue(level, seg.N())
	margin := crit * stdDev / math.Sqrt(float64(seg.N()))

	return domstats.ConfidenceInterval{
		Segment:       seg.Name(),
		Level:         level,
		Lower:         mean - margin,
		Upper:         mean + margin,
		Mean:          mean,
		Margin:        margin,
		CriticalValue: crit,
		Distribution:  domstats.IntervalDistribution(dist),
	}, nil
}
