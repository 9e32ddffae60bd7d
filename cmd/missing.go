package cmd

import (
	"errors"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/housewrangle/internal/acquire"
	"github.com/KaramelBytes/housewrangle/internal/analysis"
	"github.com/KaramelBytes/housewrangle/internal/wrangle"
)

var (
	missingDrop   bool
	missingOutput string
)

var missingCmd = &cobra.Command{
	Use:   "missing <file>",
	Short: "List columns with missing values, optionally dropping incomplete rows",
	Long: `Missing reports the null count of every column that has one. With --drop it also
removes duplicate rows and then every row holding a null, and writes the result to
--output.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if missingDrop && missingOutput == "" {
			return errors.New("--drop requires --output")
		}
		t, err := acquire.ReadCSV(args[0])
		if err != nil {
			return err
		}
		stats := analysis.MissingValues(t)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%d of %d columns have missing values.\n", len(stats), len(t.Columns()))
		if len(stats) > 0 {
			rows := make([]table.Row, 0, len(stats))
			for _, s := range stats {
				rows = append(rows, table.Row{s.Column, s.Missing, fmt.Sprintf("%.1f", s.Percent)})
			}
			renderTable(out, table.Row{"Column", "Missing", "% of total"}, rows)
		}
		if !missingDrop {
			return nil
		}
		kept := wrangle.HandleMissing(t)
		if err := acquire.WriteCSV(missingOutput, kept); err != nil {
			return err
		}
		fmt.Fprintf(out, "✓ Dropped %d duplicate or incomplete rows; wrote %d rows to %s\n", t.Len()-kept.Len(), kept.Len(), missingOutput)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(missingCmd)
	missingCmd.Flags().BoolVar(&missingDrop, "drop", false, "drop duplicate rows, then rows with any null")
	missingCmd.Flags().StringVarP(&missingOutput, "output", "o", "", "path to write the rows kept by --drop")
}
