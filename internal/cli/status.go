package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/phaseline/pkg/models"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show WBS status: counts per status, active task, recent tasks",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

// statusDisplayOrder fixes the order counts are printed in.
var statusDisplayOrder = []models.TaskStatus{
	models.StatusPending,
	models.StatusInProgress,
	models.StatusBlocked,
	models.StatusCompleted,
}

func runStatus(cmd *cobra.Command, args []string) error {
	if err := WBSMgr.Load(); err != nil {
		return err
	}
	status, err := WBSMgr.GetStatus()
	if err != nil {
		return err
	}

	if status.Total == 0 {
		fmt.Println("No WBS found. Run 'phaseline init' first.")
		return nil
	}

	fmt.Printf("Project: %s (%s)\n\n", status.Project.Name, status.Project.CurrentPhase)
	for _, st := range statusDisplayOrder {
		fmt.Printf("  %-12s %d\n", st, status.Counts[st])
	}
	fmt.Printf("  %-12s %d\n", "total", status.Total)

	if status.ActiveTask != nil {
		fmt.Printf("\nActive: %s - %s (%s)\n",
			status.ActiveTask.ID, status.ActiveTask.Title, status.ActiveTask.Status)
	}

	if len(status.Recent) > 0 {
		fmt.Println("\nRecently touched:")
		for _, t := range status.Recent {
			fmt.Printf("  %-9s %-12s %s\n", t.ID, t.Status, t.Title)
		}
	}
	return nil
}
