package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"spendlens/adapters/ingest"
	"spendlens/adapters/rng"
	"spendlens/adapters/stats/engine"
	"spendlens/app"
	"spendlens/domain/retail"
	"spendlens/internal/testkit"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "spendlens-cli",
		Short: "Segment statistics for retail transaction data",
	}

	rootCmd.AddCommand(
		newDescribeCmd(),
		newCompareCmd(),
		newCLTCmd(),
		newNarrativeCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadService builds an analysis service from --data, or from synthetic
// transactions when no file is given.
func loadService(ctx context.Context, dataPath string, seed int64, threshold int) (*app.AnalysisService, error) {
	log := zerolog.New(os.Stderr).Level(zerolog.WarnLevel)

	var dataset *retail.Dataset
	if dataPath != "" {
		var err error
		dataset, err = ingest.NewDataReader(dataPath, log).Read(ctx)
		if err != nil {
			return nil, err
		}
	} else {
		cfg := testkit.DefaultGeneratorConfig()
		cfg.Seed = seed
		dataset = testkit.NewGenerator(cfg).Dataset()
	}

	eng := engine.New(engine.WithNormalApproxThreshold(threshold))
	return app.NewAnalysisService(dataset, eng, rng.New(), 5*time.Minute, log), nil
}

func newDescribeCmd() *cobra.Command {
	var dataPath string
	var seed int64
	var threshold int
	var levels []float64

	cmd := &cobra.Command{
		Use:   "describe [axis]",
		Short: "Descriptive statistics and confidence intervals per segment",
		Long: `Describe every segment of a grouping axis.

Example: spendlens-cli describe gender --data walmart.csv --levels 0.90,0.95,0.99`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			axis, err := retail.ParseAxis(args[0])
			if err != nil {
				return err
			}

			svc, err := loadService(cmd.Context(), dataPath, seed, threshold)
			if err != nil {
				return err
			}

			summaries, err := svc.SegmentsOf(cmd.Context(), axis, levels)
			if err != nil {
				return err
			}
			return printJSON(summaries)
		},
	}

	cmd.Flags().StringVar(&dataPath, "data", "", "Transaction file (CSV or XLSX); synthetic data when omitted")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed for synthetic data")
	cmd.Flags().IntVar(&threshold, "normal-threshold", engine.NormalApproxThreshold, "Sample size at which intervals switch to the normal approximation")
	cmd.Flags().Float64SliceVar(&levels, "levels", []float64{0.90, 0.95, 0.99}, "Confidence levels")

	return cmd
}

func newCompareCmd() *cobra.Command {
	var dataPath string
	var seed int64
	var threshold int
	var equalVariance bool

	cmd := &cobra.Command{
		Use:   "compare [axis] [group-a] [group-b]",
		Short: "Two-sample test, effect size and interval overlap",
		Long: `Compare the mean purchase of two segments on one axis.

Example: spendlens-cli compare gender M F --data walmart.csv`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			axis, err := retail.ParseAxis(args[0])
			if err != nil {
				return err
			}

			svc, err := loadService(cmd.Context(), dataPath, seed, threshold)
			if err != nil {
				return err
			}

			comparison, err := svc.Compare(cmd.Context(), axis, args[1], args[2], equalVariance)
			if err != nil {
				return err
			}
			return printJSON(comparison)
		},
	}

	cmd.Flags().StringVar(&dataPath, "data", "", "Transaction file (CSV or XLSX); synthetic data when omitted")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed for synthetic data")
	cmd.Flags().IntVar(&threshold, "normal-threshold", engine.NormalApproxThreshold, "Sample size at which intervals switch to the normal approximation")
	cmd.Flags().BoolVar(&equalVariance, "equal-variance", false, "Use the pooled-variance test instead of Welch's")

	return cmd
}

func newCLTCmd() *cobra.Command {
	var dataPath string
	var seed int64
	var threshold int
	var resamples int
	var sizesRaw string

	cmd := &cobra.Command{
		Use:   "clt [axis] [group]",
		Short: "Bootstrap sampling distributions of the mean",
		Long: `Simulate the sampling distribution of the mean at several sample sizes.

Example: spendlens-cli clt gender M --sizes 10,30,50,100 --resamples 1000 --seed 42`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			axis, err := retail.ParseAxis(args[0])
			if err != nil {
				return err
			}
			sizes, err := parseSizes(sizesRaw)
			if err != nil {
				return fmt.Errorf("invalid --sizes: %w", err)
			}

			svc, err := loadService(cmd.Context(), dataPath, seed, threshold)
			if err != nil {
				return err
			}

			series, err := svc.CLT(cmd.Context(), axis, args[1], sizes, resamples, seed)
			if err != nil {
				return err
			}
			return printJSON(series)
		},
	}

	cmd.Flags().StringVar(&dataPath, "data", "", "Transaction file (CSV or XLSX); synthetic data when omitted")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed for resampling")
	cmd.Flags().IntVar(&threshold, "normal-threshold", engine.NormalApproxThreshold, "Sample size at which intervals switch to the normal approximation")
	cmd.Flags().IntVar(&resamples, "resamples", 1000, "Resamples per sample size")
	cmd.Flags().StringVar(&sizesRaw, "sizes", "10,30,50,100,200,500", "Comma-separated sample sizes")

	return cmd
}

func newNarrativeCmd() *cobra.Command {
	var dataPath string
	var seed int64
	var threshold int
	var asHTML bool

	cmd := &cobra.Command{
		Use:   "narrative",
		Short: "Full sweep rendered as a markdown story",
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()

			svc, err := loadService(cmd.Context(), dataPath, seed, threshold)
			if err != nil {
				return err
			}

			opts := app.DefaultSweepOptions()
			opts.Seed = seed
			report, err := svc.Sweep(cmd.Context(), retail.Axes, opts)
			if err != nil {
				return err
			}

			narrative := app.BuildNarrative(report)
			if asHTML {
				_, err = os.Stdout.Write(narrative.RenderHTML())
				return err
			}
			fmt.Println(narrative.Markdown)
			return nil
		},
	}

	cmd.Flags().StringVar(&dataPath, "data", "", "Transaction file (CSV or XLSX); synthetic data when omitted")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed for resampling")
	cmd.Flags().IntVar(&threshold, "normal-threshold", engine.NormalApproxThreshold, "Sample size at which intervals switch to the normal approximation")
	cmd.Flags().BoolVar(&asHTML, "html", false, "Render HTML instead of markdown")

	return cmd
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func parseSizes(raw string) ([]int, error) {
	parts := strings.Split(raw, ",")
	sizes := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		sizes = append(sizes, n)
	}
	return sizes, nil
}
