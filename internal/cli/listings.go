package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List available document templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		names := TemplateSrc.Names()
		if len(names) == 0 {
			fmt.Println("No templates available.")
			return nil
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	},
}

var workersCmd = &cobra.Command{
	Use:   "workers",
	Short: "List registered workers",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range Registry.Names() {
			fmt.Println(name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(templatesCmd)
	rootCmd.AddCommand(workersCmd)
}
