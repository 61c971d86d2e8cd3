package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var delegateCmd = &cobra.Command{
	Use:   "delegate <task-id>",
	Short: "Delegate a task to a worker (with confirmation)",
	Long: `Delegate presents the suggested worker for the task and requires an
explicit confirmation before anything mutates. Document tasks render their
template and write the deliverable; the review gate presents the
approve/revision/pause decision; other tasks run the named worker.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelegate,
}

var delegateWorker string

func init() {
	delegateCmd.Flags().StringVar(&delegateWorker, "worker", "", "worker to delegate to (defaults to the suggestion)")
	rootCmd.AddCommand(delegateCmd)
}

func runDelegate(cmd *cobra.Command, args []string) error {
	session, err := activeSession()
	if err != nil {
		return err
	}

	task, err := WBSMgr.GetTask(args[0])
	if err != nil {
		return err
	}

	suggestion := Suggester.Suggest(*task)
	worker := delegateWorker
	if worker == "" {
		worker = suggestion.Worker
	}

	orch := OrchestratorFor(session)
	res, err := orch.Delegate(*task, worker, &suggestion)
	if err != nil {
		return err
	}

	if res.Cancelled {
		fmt.Println("Delegation cancelled; no changes made.")
		return nil
	}

	fmt.Printf("Completed %s: %s\n", task.ID, res.Result.Output)
	if res.Result.GateStatus != "" {
		fmt.Printf("Gate status: %s\n", res.Result.GateStatus)
	}
	for _, f := range res.Result.Files {
		fmt.Printf("  wrote %s\n", f)
	}
	return nil
}
