package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/housewrangle/internal/acquire"
	"github.com/KaramelBytes/housewrangle/internal/prep"
	wtable "github.com/KaramelBytes/housewrangle/internal/table"
)

var (
	splitOutDir string
	splitSeed   uint64
	splitScale  []string
	splitScaler string
	splitSuffix string
)

var splitCmd = &cobra.Command{
	Use:   "split <file>",
	Short: "Split a cleaned CSV into train, validate and test sets",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := acquire.ReadCSV(args[0])
		if err != nil {
			return err
		}
		opt := prep.DefaultSplitOptions()
		opt.Seed = settings().SplitSeed
		if cmd.Flags().Changed("seed") {
			opt.Seed = splitSeed
		}
		s, err := prep.SplitTable(t, opt)
		if err != nil {
			return err
		}

		if len(splitScale) > 0 {
			if _, err := prep.NewScaler(splitScaler); err != nil {
				return err
			}
			suffix := splitSuffix
			if suffix == "" {
				suffix = "scaled_" + splitScaler
			}
			scaled, err := prep.ScaleColumns(s, splitScale, func() prep.Scaler {
				sc, _ := prep.NewScaler(splitScaler)
				return sc
			}, suffix)
			if err != nil {
				return err
			}
			s = scaled.Split
			logger.Sugar().Debugw("Scaled columns", "columns", scaled.Columns, "scaler", splitScaler)
		}

		parts := []struct {
			name string
			data *wtable.Table
		}{{"train", s.Train}, {"validate", s.Validate}, {"test", s.Test}}
		rows := make([]table.Row, 0, len(parts))
		for _, p := range parts {
			if err := acquire.WriteCSV(filepath.Join(splitOutDir, p.name+".csv"), p.data); err != nil {
				return err
			}
			rows = append(rows, table.Row{p.name, p.data.Len(), len(p.data.Columns())})
		}
		out := cmd.OutOrStdout()
		renderTable(out, table.Row{"Partition", "Rows", "Columns"}, rows)
		fmt.Fprintf(out, "✓ Wrote train/validate/test to %s\n", splitOutDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(splitCmd)
	splitCmd.Flags().StringVar(&splitOutDir, "out-dir", ".", "directory for train.csv, validate.csv and test.csv")
	splitCmd.Flags().Uint64Var(&splitSeed, "seed", prep.DefaultSeed, "shuffle seed (overrides config)")
	splitCmd.Flags().StringSliceVar(&splitScale, "scale", nil, "numeric columns to scale (fit on train only)")
	splitCmd.Flags().StringVar(&splitScaler, "scaler", "minmax", "scaler: minmax|standard")
	splitCmd.Flags().StringVar(&splitSuffix, "suffix", "", "suffix for scaled columns (default scaled_<scaler>)")
}
