package engine

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/montanaflynn/stats"

	"spendlens/domain/core"
	"spendlens/domain/retail"
	domstats "spendlens/domain/stats"
)

// Bootstrap draws resamples independent samples of sampleSize from the
// segment (with replacement) and returns the empirical distribution of
// their means. Each call builds its own generator from the seed, so
// concurrent calls never share random state and a fixed seed reproduces
// the exact same distribution.
func (e *Engine) Bootstrap(seg retail.Segment, sampleSize, resamples int, seed int64) (domstats.SamplingDistribution, error) {
	if seg.N() == 0 {
		return domstats.SamplingDistribution{}, core.NewEmptySegmentError(seg.Name())
	}
	if sampleSize <= 0 {
		return domstats.SamplingDistribution{}, core.NewInvalidParameterError("sample_size", "must be > 0")
	}
	if resamples <= 0 {
		return domstats.SamplingDistribution{}, core.NewInvalidParameterError("resamples", "must be > 0")
	}
	if sampleSize > seg.N()*OversampleLimit {
		return domstats.SamplingDistribution{}, core.NewInvalidParameterError("sample_size",
			fmt.Sprintf("%d far exceeds segment size %d", sampleSize, seg.N()))
	}

	rng := rand.New(rand.NewSource(seed))
	values := seg.Values()
	n := len(values)

	means := make([]float64, resamples)
	for i := 0; i < resamples; i++ {
		sum := 0.0
		for j := 0; j < sampleSize; j++ {
			sum += values[rng.Intn(n)]
		}
		means[i] = sum / float64(sampleSize)
	}
	sort.Float64s(means)

	mean, _ := stats.Mean(means)
	// Population std here: the resampled means are the whole distribution
	// being summarized, not a sample from a larger one.
	stdDev, _ := stats.StandardDeviation(means)

	return domstats.SamplingDistribution{
		Segment:    seg.Name(),
		SampleSize: sampleSize,
		Resamples:  resamples,
		Seed:       seed,
		Means:      means,
		Mean:       mean,
		StdDev:     stdDev,
	}, nil
}
