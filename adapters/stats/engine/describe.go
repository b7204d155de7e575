package engine

import (
	"github.com/montanaflynn/stats"

	"spendlens/domain/core"
	"spendlens/domain/retail"
	domstats "spendlens/domain/stats"
)

// Describe computes summary statistics for a segment's purchase amounts.
func (e *Engine) Describe(seg retail.Segment) (domstats.Descriptive, error) {
	if seg.N() == 0 {
		return domstats.Descriptive{}, core.NewEmptySegmentError(seg.Name())
	}

	values := seg.Values()
	mean, _ := stats.Mean(values)
	min, _ := stats.Min(values)
	max, _ := stats.Max(values)
	median, _ := stats.Median(values)
	p25, _ := stats.Percentile(values, 25)
	p75, _ := stats.Percentile(values, 75)
	p90, _ := stats.Percentile(values, 90)

	// Sample std is undefined for a single observation; report 0 rather
	// than failing, matching the n >= 2 guard applying only to inference.
	stdDev := 0.0
	if seg.N() >= 2 {
		stdDev, _ = stats.StandardDeviationSample(values)
	}

	return domstats.Descriptive{
		Segment: seg.Name(),
		N:       seg.N(),
		Mean:    mean,
		StdDev:  stdDev,
		Min:     min,
		Max:     max,
		Median:  median,
		P25:     p25,
		P75:     p75,
		P90:     p90,
	}, nil
}
