package cmd

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KaramelBytes/housewrangle/internal/acquire"
	"github.com/KaramelBytes/housewrangle/internal/runlog"
	"github.com/KaramelBytes/housewrangle/internal/wrangle"
)

var (
	cleanInput     string
	cleanOutput    string
	cleanThreshold float64
	cleanDedupe    bool
	cleanColumns   []string
	cleanNoRecord  bool
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Impute, filter, parse dates and drop outliers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := loadRaw(cmd.Context(), cleanInput, false)
		if err != nil {
			return err
		}
		opt := wrangle.DefaultOptions()
		opt.Threshold = settings().OutlierThreshold
		if cmd.Flags().Changed("threshold") {
			if cleanThreshold <= 0 {
				return fmt.Errorf("--threshold must be positive, got %v", cleanThreshold)
			}
			opt.Threshold = cleanThreshold
		}
		if len(cleanColumns) > 0 {
			opt.OutlierColumns = cleanColumns
		}
		opt.DropDuplicates = cleanDedupe

		res, err := wrangle.NewCleaner(opt, logger).Clean(raw)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		rows := []table.Row{{"input", res.Input}}
		for _, s := range res.Stages {
			rows = append(rows, table.Row{s.Name, s.Rows})
		}
		renderTable(out, table.Row{"Stage", "Rows"}, rows)

		if cleanOutput != "" {
			if err := acquire.WriteCSV(cleanOutput, res.Table); err != nil {
				return err
			}
			fmt.Fprintf(out, "✓ Wrote %d rows to %s (run %s)\n", res.Table.Len(), cleanOutput, res.RunID)
		}
		if !cleanNoRecord {
			source := cleanInput
			if source == "" {
				source = settings().CachePath
			}
			dir, err := runsDir()
			if err != nil {
				return err
			}
			rec := runlog.NewRecord(res, opt, source, cleanOutput)
			if err := runlog.Save(dir, rec); err != nil {
				logger.Warn("Could not record run", zap.String("run", rec.ID), zap.Error(err))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().StringVarP(&cleanInput, "input", "i", "", "CSV to clean (default: configured cache, fetching if missing)")
	cleanCmd.Flags().StringVarP(&cleanOutput, "output", "o", "", "path to write the cleaned CSV")
	cleanCmd.Flags().Float64Var(&cleanThreshold, "threshold", wrangle.DefaultThreshold, "strict |z| bound for outlier removal (overrides config)")
	cleanCmd.Flags().BoolVar(&cleanDedupe, "dedupe", false, "drop exact duplicate rows first")
	cleanCmd.Flags().StringSliceVar(&cleanColumns, "outlier-columns", nil, "columns screened for outliers (default sqft_calculated,bedroom_cnt,bathroom_cnt)")
	cleanCmd.Flags().BoolVar(&cleanNoRecord, "no-record", false, "do not save a run record")
}
