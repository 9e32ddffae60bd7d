package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/housewrangle/internal/acquire"
	"github.com/KaramelBytes/housewrangle/internal/analysis"
	"github.com/KaramelBytes/housewrangle/internal/utils"
)

var (
	expOutputPath string
	expSampleRows int
	expPairs      []string
	expGroupBy    string
	expBins       int
	expOutlierThr float64
)

var exploreCmd = &cobra.Command{
	Use:   "explore <file>",
	Short: "Profile a CSV and produce a Markdown summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		t, err := acquire.ReadCSV(path)
		if err != nil {
			return err
		}
		opt := analysis.DefaultOptions()
		if expSampleRows > 0 {
			opt.SampleRows = expSampleRows
		}
		opt.Bins = expBins
		opt.Pairs = expPairs
		opt.GroupBy = expGroupBy
		if cmd.Flags().Changed("outlier-threshold") {
			opt.OutlierThreshold = expOutlierThr
		} else {
			opt.OutlierThreshold = settings().OutlierThreshold
		}
		if len(opt.Pairs) == 1 {
			return fmt.Errorf("--pairs needs at least two columns")
		}

		rep, err := analysis.Summarize(filepath.Base(path), t, opt)
		if err != nil {
			return err
		}
		md := rep.Markdown()

		// --output path, or stdout
		if expOutputPath != "" {
			if err := utils.SafeWriteFile(expOutputPath, []byte(md)); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote exploration to %s\n", expOutputPath)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), md)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exploreCmd)
	exploreCmd.Flags().StringVarP(&expOutputPath, "output", "o", "", "optional path to write the report (Markdown)")
	exploreCmd.Flags().IntVar(&expSampleRows, "sample-rows", 5, "number of sample rows to include")
	exploreCmd.Flags().StringSliceVar(&expPairs, "pairs", nil, "comma-separated numeric columns to summarize pairwise")
	exploreCmd.Flags().StringVar(&expGroupBy, "group-by", "", "categorical column to summarize numeric columns by")
	exploreCmd.Flags().IntVar(&expBins, "bins", 10, "histogram bins per numeric column (0 disables)")
	exploreCmd.Flags().Float64Var(&expOutlierThr, "outlier-threshold", 3, "population |z| at or above which values count as outliers (0 disables)")
}
