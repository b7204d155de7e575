package app

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"spendlens/domain/core"
	"spendlens/domain/retail"
	"spendlens/domain/stats"
	"spendlens/internal/metrics"
	"spendlens/ports"
)

// SweepOptions controls which statistics a sweep computes.
type SweepOptions struct {
	ConfidenceLevels []float64 `json:"confidence_levels"`
	CLTSampleSizes   []int     `json:"clt_sample_sizes"`
	Resamples        int       `json:"resamples"`
	Seed             int64     `json:"seed"`
}

// DefaultSweepOptions mirrors the dashboard's standard analysis: intervals
// at 90/95/99 and the CLT simulation at six sample sizes with 1000
// resamples each.
func DefaultSweepOptions() SweepOptions {
	return SweepOptions{
		ConfidenceLevels: []float64{0.90, 0.95, 0.99},
		CLTSampleSizes:   []int{10, 30, 50, 100, 200, 500},
		Resamples:        1000,
		Seed:             42,
	}
}

// SegmentSummary is one segment's descriptive view with its intervals.
type SegmentSummary struct {
	Name      string                     `json:"name"`
	LifeStage string                     `json:"life_stage,omitempty"`
	Stats     stats.Descriptive          `json:"stats"`
	Intervals []stats.ConfidenceInterval `json:"intervals,omitempty"`
}

// Comparison is a two-segment hypothesis test with its supporting evidence.
type Comparison struct {
	Axis             retail.Axis              `json:"axis"`
	Test             stats.TestResult         `json:"test"`
	Effect           stats.EffectSize         `json:"effect"`
	IntervalA        stats.ConfidenceInterval `json:"interval_a"`
	IntervalB        stats.ConfidenceInterval `json:"interval_b"`
	IntervalsOverlap bool                     `json:"intervals_overlap"`
}

// CLTSeries holds the sampling distributions of one segment across the
// configured sample sizes, illustrating convergence toward normality.
type CLTSeries struct {
	Segment       string                       `json:"segment"`
	Distributions []stats.SamplingDistribution `json:"distributions"`
}

// AxisReport is the full analysis of one grouping axis.
type AxisReport struct {
	Axis       retail.Axis      `json:"axis"`
	Segments   []SegmentSummary `json:"segments"`
	Comparison *Comparison      `json:"comparison,omitempty"`
	CLT        []CLTSeries      `json:"clt,omitempty"`
}

// Report is the output of a sweep across axes.
type Report struct {
	RunID       core.RunID     `json:"run_id"`
	GeneratedAt core.Timestamp `json:"generated_at"`
	Rows        int            `json:"rows"`
	Options     SweepOptions   `json:"options"`
	Axes        []AxisReport   `json:"axes"`
}

// Overview summarizes the dataset before any segmentation.
type Overview struct {
	Rows        int                            `json:"rows"`
	DroppedRows int                            `json:"dropped_rows"`
	Overall     stats.Descriptive              `json:"overall"`
	GroupCounts map[retail.Axis]map[string]int `json:"group_counts"`
}

// AnalysisService runs the statistics engine across segment axes. It holds
// the immutable dataset handle and memoizes per-axis reports.
type AnalysisService struct {
	dataset *retail.Dataset
	engine  ports.Engine
	rng     ports.RNG
	reports *cache.Cache
	log     zerolog.Logger
}

// NewAnalysisService wires the service. cacheTTL bounds how long per-axis
// reports are memoized; the dataset never changes within a process, so the
// TTL only limits memory held by large CLT payloads.
func NewAnalysisService(dataset *retail.Dataset, engine ports.Engine, rng ports.RNG, cacheTTL time.Duration, log zerolog.Logger) *AnalysisService {
	return &AnalysisService{
		dataset: dataset,
		engine:  engine,
		rng:     rng,
		reports: cache.New(cacheTTL, 2*cacheTTL),
		log:     log,
	}
}

// Overview reports dataset-level counts and descriptive statistics.
func (s *AnalysisService) Overview(ctx context.Context) (*Overview, error) {
	overall, err := s.engine.Describe(s.dataset.All())
	if err != nil {
		return nil, err
	}

	counts := make(map[retail.Axis]map[string]int, len(retail.Axes))
	for _, axis := range retail.Axes {
		segments, err := s.dataset.Split(axis)
		if err != nil {
			return nil, err
		}
		byGroup := make(map[string]int, len(segments))
		for _, seg := range segments {
			byGroup[seg.Name()] = seg.N()
		}
		counts[axis] = byGroup
	}

	return &Overview{
		Rows:        s.dataset.Len(),
		DroppedRows: s.dataset.Dropped(),
		Overall:     overall,
		GroupCounts: counts,
	}, nil
}

// Sweep analyzes every requested axis concurrently and assembles a report.
func (s *AnalysisService) Sweep(ctx context.Context, axes []retail.Axis, opts SweepOptions) (*Report, error) {
	report := &Report{
		RunID:       core.NewRunID(),
		GeneratedAt: core.Now(),
		Rows:        s.dataset.Len(),
		Options:     opts,
		Axes:        make([]AxisReport, len(axes)),
	}

	g, ctx := errgroup.WithContext(ctx)
	for i, axis := range axes {
		i, axis := i, axis
		g.Go(func() error {
			axisReport, err := s.AxisReport(ctx, axis, opts)
			if err != nil {
				return fmt.Errorf("axis %s: %w", axis, err)
			}
			report.Axes[i] = axisReport
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("run_id", report.RunID.String()).
		Int("axes", len(axes)).
		Msg("sweep complete")
	return report, nil
}

// AxisReport computes (or returns the memoized) analysis for one axis.
func (s *AnalysisService) AxisReport(ctx context.Context, axis retail.Axis, opts SweepOptions) (AxisReport, error) {
	key := axisCacheKey(axis, opts)
	if cached, ok := s.reports.Get(key); ok {
		return cached.(AxisReport), nil
	}

	start := time.Now()
	report, err := s.buildAxisReport(ctx, axis, opts)
	if err != nil {
		metrics.SweepErrors.WithLabelValues(string(axis)).Inc()
		return AxisReport{}, err
	}
	metrics.SweepDuration.WithLabelValues(string(axis)).Observe(time.Since(start).Seconds())

	s.reports.Set(key, report, cache.DefaultExpiration)
	return report, nil
}

func (s *AnalysisService) buildAxisReport(ctx context.Context, axis retail.Axis, opts SweepOptions) (AxisReport, error) {
	segments, err := s.dataset.Split(axis)
	if err != nil {
		return AxisReport{}, err
	}
	if len(segments) == 0 {
		return AxisReport{}, core.NewEmptySegmentError(string(axis))
	}

	report := AxisReport{Axis: axis}
	for _, seg := range segments {
		if err := ctx.Err(); err != nil {
			return AxisReport{}, err
		}
		summary, err := s.summarize(seg, axis, opts.ConfidenceLevels)
		if err != nil {
			return AxisReport{}, err
		}
		report.Segments = append(report.Segments, summary)
	}

	// Two-group axes get the head-to-head test and the CLT simulation.
	if axis.TwoGroup() && len(segments) == 2 {
		comparison, err := s.compare(axis, segments[0], segments[1], false)
		if err != nil {
			return AxisReport{}, err
		}
		report.Comparison = comparison

		for _, seg := range segments {
			series, err := s.cltSeries(ctx, axis, seg, opts)
			if err != nil {
				return AxisReport{}, err
			}
			report.CLT = append(report.CLT, series)
		}
	}

	return report, nil
}

func (s *AnalysisService) summarize(seg retail.Segment, axis retail.Axis, levels []float64) (SegmentSummary, error) {
	desc, err := s.engine.Describe(seg)
	if err != nil {
		return SegmentSummary{}, err
	}

	summary := SegmentSummary{Name: seg.Name(), Stats: desc}
	if axis == retail.AxisAge {
		summary.LifeStage = retail.AgeBracket(seg.Name()).LifeStage()
	}

	// Intervals need n >= 2; a singleton segment still gets its summary.
	if seg.N() >= 2 {
		for _, level := range levels {
			ci, err := s.engine.ConfidenceInterval(seg, level)
			if err != nil {
				return SegmentSummary{}, err
			}
			summary.Intervals = append(summary.Intervals, ci)
		}
	}
	return summary, nil
}

func (s *AnalysisService) compare(axis retail.Axis, a, b retail.Segment, equalVariance bool) (*Comparison, error) {
	test, err := s.engine.TwoSampleTest(a, b, equalVariance)
	if err != nil {
		return nil, err
	}
	effect, err := s.engine.EffectSize(a, b)
	if err != nil {
		return nil, err
	}
	ciA, err := s.engine.ConfidenceInterval(a, 0.95)
	if err != nil {
		return nil, err
	}
	ciB, err := s.engine.ConfidenceInterval(b, 0.95)
	if err != nil {
		return nil, err
	}

	return &Comparison{
		Axis:             axis,
		Test:             test,
		Effect:           effect,
		IntervalA:        ciA,
		IntervalB:        ciB,
		IntervalsOverlap: ciA.Overlaps(ciB),
	}, nil
}

func (s *AnalysisService) cltSeries(ctx context.Context, axis retail.Axis, seg retail.Segment, opts SweepOptions) (CLTSeries, error) {
	series := CLTSeries{Segment: seg.Name()}
	for _, size := range opts.CLTSampleSizes {
		if err := ctx.Err(); err != nil {
			return CLTSeries{}, err
		}
		// Sizes beyond the resampling bound for a small segment are
		// skipped rather than failing the whole sweep.
		if size > seg.N() {
			s.log.Warn().
				Str("axis", string(axis)).
				Str("segment", seg.Name()).
				Int("sample_size", size).
				Int("segment_size", seg.N()).
				Msg("skipping CLT sample size larger than segment")
			continue
		}
		seed := s.rng.StreamSeed(fmt.Sprintf("%s/%s/clt/%d", axis, seg.Name(), size), opts.Seed)
		dist, err := s.engine.Bootstrap(seg, size, opts.Resamples, seed)
		if err != nil {
			return CLTSeries{}, err
		}
		series.Distributions = append(series.Distributions, dist)
	}
	return series, nil
}

// Compare runs an ad hoc two-segment test on any axis.
func (s *AnalysisService) Compare(ctx context.Context, axis retail.Axis, groupA, groupB string, equalVariance bool) (*Comparison, error) {
	a, err := s.dataset.SegmentOf(axis, groupA)
	if err != nil {
		return nil, err
	}
	b, err := s.dataset.SegmentOf(axis, groupB)
	if err != nil {
		return nil, err
	}
	return s.compare(axis, a, b, equalVariance)
}

// CLT runs a caller-specified sampling distribution simulation. Unlike the
// sweep, oversized sample sizes here are the caller's error and propagate.
func (s *AnalysisService) CLT(ctx context.Context, axis retail.Axis, group string, sizes []int, resamples int, seed int64) (*CLTSeries, error) {
	seg, err := s.dataset.SegmentOf(axis, group)
	if err != nil {
		return nil, err
	}

	series := &CLTSeries{Segment: seg.Name()}
	for _, size := range sizes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		dist, err := s.engine.Bootstrap(seg, size, resamples, seed)
		if err != nil {
			return nil, err
		}
		series.Distributions = append(series.Distributions, dist)
	}
	return series, nil
}

// SegmentsOf exposes the per-axis describe+interval view for handlers.
func (s *AnalysisService) SegmentsOf(ctx context.Context, axis retail.Axis, levels []float64) ([]SegmentSummary, error) {
	segments, err := s.dataset.Split(axis)
	if err != nil {
		return nil, err
	}
	summaries := make([]SegmentSummary, 0, len(segments))
	for _, seg := range segments {
		summary, err := s.summarize(seg, axis, levels)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func axisCacheKey(axis retail.Axis, opts SweepOptions) string {
	return fmt.Sprintf("%s|%v|%v|%d|%d", axis, opts.ConfidenceLevels, opts.CLTSampleSizes, opts.Resamples, opts.Seed)
}
