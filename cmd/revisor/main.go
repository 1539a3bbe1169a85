// Package main provides the entry point for the revisor CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/revisor-tools/revisor/cmd/revisor/commands"
	"github.com/revisor-tools/revisor/pkg/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "revisor",
		Short: "Revisor - revision sampling and report bookkeeping for experiments",
		Long: `Revisor samples project revisions into case studies and tracks the
processing status of experiment results.

Commands:
  sample     Sample revisions of a project into a case study
  status     Show the processing status of all case studies
  churn      Compute code churn of a commit or revision range
  casestudy  Inspect persisted case studies`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewSampleCommand())
	rootCmd.AddCommand(commands.NewStatusCommand())
	rootCmd.AddCommand(commands.NewChurnCommand())
	rootCmd.AddCommand(commands.NewCaseStudyCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintln(os.Stdout, version.String())
		},
	}
}
