package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var fetchRefresh bool

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Query the transactions database and write the CSV cache",
	Long: `Fetch loads the raw single-family transactions. The CSV cache is reused when it
exists unless --refresh is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadRaw(cmd.Context(), "", fetchRefresh)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %d rows x %d columns cached at %s\n", t.Len(), len(t.Columns()), settings().CachePath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.Flags().BoolVar(&fetchRefresh, "refresh", false, "ignore the cache and query the database")
}
