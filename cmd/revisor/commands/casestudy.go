package commands

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/revisor-tools/revisor/pkg/casestudy"
)

// NewCaseStudyCommand creates the casestudy command group.
func NewCaseStudyCommand() *cobra.Command {
	cobraCmd := &cobra.Command{
		Use:   "casestudy",
		Short: "Inspect persisted case studies",
	}

	cobraCmd.AddCommand(newCaseStudyListCommand())
	cobraCmd.AddCommand(newCaseStudyShowCommand())

	return cobraCmd
}

func newCaseStudyListCommand() *cobra.Command {
	cobraCmd := &cobra.Command{
		Use:   "list",
		Short: "List all case studies",
		Args:  cobra.NoArgs,
		RunE:  runCaseStudyList,
	}

	addConfigFlag(cobraCmd)

	return cobraCmd
}

func runCaseStudyList(cobraCmd *cobra.Command, _ []string) error {
	cfg, _, err := loadRuntime(cobraCmd)
	if err != nil {
		return err
	}

	studies, err := casestudy.LoadAll(cfg.Paths.CaseStudyDir)
	if err != nil {
		return err
	}

	tbl := table.NewWriter()
	tbl.SetOutputMirror(cobraCmd.OutOrStdout())
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Case Study", "Stages", "Revisions"})

	for _, cs := range studies {
		tbl.AppendRow(table.Row{cs.Name(), cs.NumStages(), len(cs.Revisions())})
	}

	tbl.Render()

	return nil
}

func newCaseStudyShowCommand() *cobra.Command {
	cobraCmd := &cobra.Command{
		Use:   "show [project] [version]",
		Short: "Show the stages and revisions of a case study",
		Args:  cobra.ExactArgs(2),
		RunE:  runCaseStudyShow,
	}

	addConfigFlag(cobraCmd)

	return cobraCmd
}

func runCaseStudyShow(cobraCmd *cobra.Command, args []string) error {
	cfg, _, err := loadRuntime(cobraCmd)
	if err != nil {
		return err
	}

	version, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("parse case-study version: %w", err)
	}

	cs, err := casestudy.Load(cfg.Paths.CaseStudyDir, args[0], version)
	if err != nil {
		return err
	}

	out := cobraCmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%d stages)\n", cs.Name(), cs.NumStages())

	for i, stage := range cs.Stages {
		name := stage.Name
		if name == "" {
			name = strconv.Itoa(i)
		}

		fmt.Fprintf(out, "stage %s:\n", name)

		for _, entry := range stage.Entries {
			fmt.Fprintf(out, "  %s (commit %d)", entry.CommitHash.Short(), entry.CommitID)

			if len(entry.ConfigIDs) > 0 {
				fmt.Fprintf(out, " configs %v", entry.ConfigIDs)
			}

			fmt.Fprintln(out)
		}
	}

	return nil
}
