package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/phaseline/pkg/models"
)

var decisionCmd = &cobra.Command{
	Use:   "decision <title>",
	Short: "Record a project-level decision (append-only)",
	Args:  cobra.ExactArgs(1),
	RunE:  runDecision,
}

var (
	decisionBackground   string
	decisionText         string
	decisionRationale    string
	decisionConsequences string
)

func init() {
	decisionCmd.Flags().StringVar(&decisionBackground, "background", "", "context leading to the decision")
	decisionCmd.Flags().StringVar(&decisionText, "decision", "", "the decision taken")
	decisionCmd.Flags().StringVar(&decisionRationale, "rationale", "", "why this decision was taken")
	decisionCmd.Flags().StringVar(&decisionConsequences, "consequences", "", "expected consequences")
	rootCmd.AddCommand(decisionCmd)
}

func runDecision(cmd *cobra.Command, args []string) error {
	path, err := ContextMgr.WriteDecisionRecord(args[0], models.DecisionRecord{
		Background:   decisionBackground,
		Decision:     decisionText,
		Rationale:    decisionRationale,
		Consequences: decisionConsequences,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Recorded decision: %s\n", path)
	return nil
}
