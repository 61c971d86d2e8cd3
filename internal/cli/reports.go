package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var reportsCmd = &cobra.Command{
	Use:   "reports <worker>",
	Short: "Show the most recent reports for a worker",
	Args:  cobra.ExactArgs(1),
	RunE:  runReports,
}

var reportsLimit int

func init() {
	reportsCmd.Flags().IntVar(&reportsLimit, "limit", 5, "maximum number of reports to show")
	rootCmd.AddCommand(reportsCmd)
}

func runReports(cmd *cobra.Command, args []string) error {
	reports, err := ContextMgr.ReadReports(args[0], reportsLimit)
	if err != nil {
		return err
	}

	if len(reports) == 0 {
		fmt.Printf("No reports found for %s.\n", args[0])
		return nil
	}

	for i, r := range reports {
		if i > 0 {
			fmt.Print("\n---\n\n")
		}
		fmt.Print(r)
	}
	return nil
}
