package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/phaseline/internal/observability"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show the orchestration audit log",
	RunE:  runEvents,
}

var (
	eventsTask  string
	eventsType  string
	eventsSince string
)

func init() {
	eventsCmd.Flags().StringVar(&eventsTask, "task", "", "filter by task ID")
	eventsCmd.Flags().StringVar(&eventsType, "type", "", "filter by event type (e.g. task.started)")
	eventsCmd.Flags().StringVar(&eventsSince, "since", "", "only events after this time (RFC3339)")
	rootCmd.AddCommand(eventsCmd)
}

func runEvents(cmd *cobra.Command, args []string) error {
	if EventLog == nil {
		fmt.Println("Event log is disabled.")
		return nil
	}

	filter := observability.EventFilter{Task: eventsTask, Type: eventsType}
	if eventsSince != "" {
		since, err := time.Parse(time.RFC3339, eventsSince)
		if err != nil {
			return fmt.Errorf("parsing --since: %w", err)
		}
		filter.Since = &since
	}

	events, err := EventLog.Read(filter)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Println("No events recorded.")
		return nil
	}

	for _, e := range events {
		line := fmt.Sprintf("%s  %-15s", e.Time.Format(time.RFC3339), e.Type)
		if e.Task != "" {
			line += "  " + e.Task
		}
		fmt.Println(line)
	}
	return nil
}
