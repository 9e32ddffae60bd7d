package cmd

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/housewrangle/internal/config"
	"github.com/KaramelBytes/housewrangle/internal/runlog"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List or inspect recorded cleaning runs",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded cleaning runs, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := runsDir()
		if err != nil {
			return err
		}
		recs, err := runlog.List(dir)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(recs) == 0 {
			fmt.Fprintln(out, "(no runs)")
			return nil
		}
		if runsLimit > 0 && len(recs) > runsLimit {
			recs = recs[:runsLimit]
		}
		rows := make([]table.Row, 0, len(recs))
		for _, r := range recs {
			rows = append(rows, table.Row{r.ID, r.CreatedAt.Local().Format(time.DateTime), r.Source, r.Input, r.Kept()})
		}
		renderTable(out, table.Row{"Run", "Created", "Source", "Input", "Kept"}, rows)
		return nil
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show stage counts and options for a run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := runsDir()
		if err != nil {
			return err
		}
		r, err := runlog.Load(dir, args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Run: %s\n", r.ID)
		fmt.Fprintf(out, "Created: %s\n", r.CreatedAt.Local().Format(time.DateTime))
		fmt.Fprintf(out, "Source: %s\n", r.Source)
		if r.Output != "" {
			fmt.Fprintf(out, "Output: %s\n", r.Output)
		}
		fmt.Fprintf(out, "Threshold: %.3f\n", r.Threshold)
		fmt.Fprintf(out, "Outlier columns: %s\n", strings.Join(r.OutlierColumns, ", "))
		fmt.Fprintf(out, "Drop duplicates: %v\n", r.DropDuplicates)
		rows := []table.Row{{"input", r.Input}}
		for _, s := range r.Stages {
			rows = append(rows, table.Row{s.Name, s.Rows})
		}
		renderTable(out, table.Row{"Stage", "Rows"}, rows)
		return nil
	},
}

// runsDir resolves ~/.housewrangle/runs.
func runsDir() (string, error) {
	base, err := cfgpkg.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "runs"), nil
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsListCmd.Flags().IntVarP(&runsLimit, "limit", "n", 0, "show at most n runs (0 = all)")
}
