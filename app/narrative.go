package app

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"spendlens/domain/retail"
)

// Narrative is a prose summary of a sweep, rendered as markdown.
type Narrative struct {
	RunID    string `json:"run_id"`
	Markdown string `json:"markdown"`
}

// BuildNarrative turns a sweep report into a stakeholder-facing story:
// headline numbers, the strongest segment contrasts with their statistical
// verdicts, and a ranking of life stages by average spend.
func BuildNarrative(report *Report) Narrative {
	var b strings.Builder

	b.WriteString("# Customer Segment Analysis\n\n")
	fmt.Fprintf(&b, "Run `%s`, generated %s over %d transactions.\n\n",
		report.RunID, report.GeneratedAt.String(), report.Rows)

	writeHeadline(&b, report)

	for _, axis := range report.Axes {
		if axis.Comparison != nil {
			writeComparison(&b, axis)
		}
	}

	writeLifeStages(&b, report)
	writeRecommendations(&b, report)

	return Narrative{RunID: report.RunID.String(), Markdown: b.String()}
}

// RenderHTML converts the narrative markdown to HTML for browser delivery.
func (n Narrative) RenderHTML() []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.ToHTML([]byte(n.Markdown), p, renderer)
}

func writeHeadline(b *strings.Builder, report *Report) {
	gender := findAxis(report, retail.AxisGender)
	if gender == nil || gender.Comparison == nil {
		return
	}
	c := gender.Comparison

	b.WriteString("## Key Insight: Gender Spending Difference\n\n")
	fmt.Fprintf(b, "Average spend is $%.2f for %s customers and $%.2f for %s customers, a gap of $%.2f per transaction.\n\n",
		c.Test.MeanA, c.Test.GroupA, c.Test.MeanB, c.Test.GroupB, c.Test.MeanA-c.Test.MeanB)

	if c.Test.RejectNull {
		fmt.Fprintf(b, "The difference is statistically significant (p = %.4g) with a %s effect size (d = %.2f).\n\n",
			c.Test.PValue, c.Effect.Magnitude, c.Effect.D)
	} else {
		fmt.Fprintf(b, "The difference is not statistically significant (p = %.4g); treat the gap as noise.\n\n",
			c.Test.PValue)
	}

	fmt.Fprintf(b, "95%% confidence intervals: %s [$%.2f, $%.2f], %s [$%.2f, $%.2f]. The intervals %s.\n\n",
		c.Test.GroupA, c.IntervalA.Lower, c.IntervalA.Upper,
		c.Test.GroupB, c.IntervalB.Lower, c.IntervalB.Upper,
		overlapPhrase(c.IntervalsOverlap))
}

func writeComparison(b *strings.Builder, axis AxisReport) {
	c := axis.Comparison
	fmt.Fprintf(b, "## %s\n\n", axisTitle(axis.Axis))

	verdict := "no reliable difference in average spend"
	if c.Test.RejectNull {
		verdict = fmt.Sprintf("a statistically significant difference (p = %.4g, %s effect)",
			c.Test.PValue, c.Effect.Magnitude)
	}
	fmt.Fprintf(b, "Comparing %s (n=%d, mean $%.2f) with %s (n=%d, mean $%.2f) shows %s.\n\n",
		c.Test.GroupA, c.Test.NA, c.Test.MeanA,
		c.Test.GroupB, c.Test.NB, c.Test.MeanB, verdict)
}

func writeLifeStages(b *strings.Builder, report *Report) {
	age := findAxis(report, retail.AxisAge)
	if age == nil || len(age.Segments) == 0 {
		return
	}

	ranked := make([]SegmentSummary, len(age.Segments))
	copy(ranked, age.Segments)
	sort.Slice(ranked, func(i, j int) bool {
		return ranked[i].Stats.Mean > ranked[j].Stats.Mean
	})

	b.WriteString("## Spending by Life Stage\n\n")
	top := ranked[0]
	fmt.Fprintf(b, "%s (%s) lead with an average of $%.2f per transaction.\n\n",
		top.LifeStage, top.Name, top.Stats.Mean)

	for _, seg := range ranked {
		fmt.Fprintf(b, "- **%s** (%s): $%.2f average across %d purchases\n",
			seg.LifeStage, seg.Name, seg.Stats.Mean, seg.Stats.N)
	}
	b.WriteString("\n")
}

func writeRecommendations(b *strings.Builder, report *Report) {
	b.WriteString("## Recommendations\n\n")

	if gender := findAxis(report, retail.AxisGender); gender != nil && gender.Comparison != nil {
		c := gender.Comparison
		if c.Test.RejectNull {
			high, low := c.Test.GroupA, c.Test.GroupB
			if c.Test.MeanB > c.Test.MeanA {
				high, low = low, high
			}
			fmt.Fprintf(b, "- Protect the high-value %s segment while testing offers that lift %s basket size.\n", high, low)
		} else {
			b.WriteString("- Gender-neutral campaigns are justified; the spend gap is not reliable.\n")
		}
	}

	if age := findAxis(report, retail.AxisAge); age != nil && len(age.Segments) > 0 {
		best := age.Segments[0]
		for _, seg := range age.Segments[1:] {
			if seg.Stats.Mean > best.Stats.Mean {
				best = seg
			}
		}
		fmt.Fprintf(b, "- Concentrate premium placement on the %s group (%s), the highest-spending life stage.\n",
			best.LifeStage, best.Name)
	}

	b.WriteString("- Re-run the analysis after each major promotion to confirm the segment gaps persist.\n")
}

func findAxis(report *Report, axis retail.Axis) *AxisReport {
	for i := range report.Axes {
		if report.Axes[i].Axis == axis {
			return &report.Axes[i]
		}
	}
	return nil
}

func axisTitle(axis retail.Axis) string {
	switch axis {
	case retail.AxisGender:
		return "Gender"
	case retail.AxisAge:
		return "Age Bracket"
	case retail.AxisMarital:
		return "Marital Status"
	case retail.AxisCity:
		return "City Category"
	case retail.AxisOccupation:
		return "Occupation"
	}
	return string(axis)
}

func overlapPhrase(overlap bool) string {
	if overlap {
		return "overlap, so the interval evidence alone is inconclusive"
	}
	return "do not overlap, independently confirming the separation"
}
