package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/phaseline/internal/core"
	"github.com/valter-silva-au/phaseline/pkg/models"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <task-id | description...>",
	Short: "Suggest which worker should handle a task (advisory only)",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSuggest,
}

func init() {
	rootCmd.AddCommand(suggestCmd)
}

func runSuggest(cmd *cobra.Command, args []string) error {
	task := models.Task{Description: strings.Join(args, " ")}

	// A single argument that matches a WBS task ID suggests for that task.
	if len(args) == 1 {
		if err := WBSMgr.Load(); err == nil {
			if t, err := WBSMgr.GetTask(args[0]); err == nil {
				task = *t
			}
		}
	}

	suggestion := Suggester.Suggest(task)
	fmt.Printf("Suggestion: %s\n", core.DescribeSuggestion(suggestion))
	return nil
}
