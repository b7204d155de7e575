package engine

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// NormalApproxThreshold is the sample size at which the large-sample normal
// approximation replaces the Student-t distribution for critical values.
// The usual Central Limit Theorem justification applies from n = 30.
const NormalApproxThreshold = 30

// OversampleLimit caps bootstrap sample sizes relative to the segment size.
// Sampling with replacement permits any size, but requests far beyond the
// segment are caller errors, not something to silently accept.
const OversampleLimit = 2

// Engine is the segment statistics engine. It holds no mutable state:
// every operation takes an immutable segment view and returns a freshly
// computed result, so one instance is safe for concurrent callers.
type Engine struct {
	normalApproxThreshold int
}

// Option configures an Engine.
type Option func(*Engine)

// WithNormalApproxThreshold overrides the t-vs-normal switch point.
func WithNormalApproxThreshold(n int) Option {
	return func(e *Engine) {
		if n > 1 {
			e.normalApproxThreshold = n
		}
	}
}

// New creates a statistics engine.
func New(opts ...Option) *Engine {
	e := &Engine{normalApproxThreshold: NormalApproxThreshold}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// UseNormalApprox is the explicit distribution policy: true when the sample
// is large enough for the normal approximation, false when the Student-t
// distribution should be used.
func (e *Engine) UseNormalApprox(n int) bool {
	return n >= e.normalApproxThreshold
}

// criticalValue returns the two-sided critical value for a confidence level
// and sample size, along with the distribution it came from.
func (e *Engine) criticalValue(level float64, n int) (float64, string) {
	p := 1 - (1-level)/2
	if e.UseNormalApprox(n) {
		return distuv.UnitNormal.Quantile(p), "normal"
	}
	t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 1)}
	return t.Quantile(p), "t"
}

// tPValue returns the two-sided p-value for a t statistic with df degrees
// of freedom.
func tPValue(statistic, df float64) float64 {
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p := 2 * dist.CDF(-math.Abs(statistic))
	if p > 1 {
		p = 1
	}
	return p
}
