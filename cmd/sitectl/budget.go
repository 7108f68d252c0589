package main

import (
	"fmt"

	"constructhub/internal/budget"
	"constructhub/internal/cli"
	"constructhub/internal/model"

	"github.com/spf13/cobra"
)

var flagProjectFile string

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Budget summary and progress for one project",
	RunE:  runBudget,
}

func init() {
	budgetCmd.Flags().StringVarP(&flagProjectFile, "file", "f", "", "Exported project document (JSON)")
	_ = budgetCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(budgetCmd)
}

func runBudget(_ *cobra.Command, _ []string) error {
	var p model.Project
	if err := readJSON(flagProjectFile, &p); err != nil {
		return err
	}

	if flagJSON {
		return printJSON(budget.NewOverview(p))
	}

	fmt.Println()
	fmt.Print(cli.RenderBudget(p))
	fmt.Println()
	return nil
}
