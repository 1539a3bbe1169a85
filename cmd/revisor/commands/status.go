package commands

import (
	"fmt"
	"io"
	"io/fs"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/revisor-tools/revisor/pkg/casestudy"
	"github.com/revisor-tools/revisor/pkg/report"
)

// StatusCommand holds the configuration for the status command.
type StatusCommand struct {
	project string
	noColor bool
}

// NewStatusCommand creates and configures the status command.
func NewStatusCommand() *cobra.Command {
	sc := &StatusCommand{}

	cobraCmd := &cobra.Command{
		Use:   "status",
		Short: "Show the processing status of all case studies",
		Long: `Show, for every case study, how many of its revisions have been
processed and the result status of each revision.`,
		Args: cobra.NoArgs,
		RunE: sc.run,
	}

	addConfigFlag(cobraCmd)
	cobraCmd.Flags().StringVarP(&sc.project, "project", "p", "", "Only show case studies of this project")
	cobraCmd.Flags().BoolVar(&sc.noColor, "no-color", false, "Disable colored output")

	return cobraCmd
}

func (sc *StatusCommand) run(cobraCmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadRuntime(cobraCmd)
	if err != nil {
		return err
	}

	if sc.noColor {
		color.NoColor = true //nolint:reassign // intentional override of library global
	}

	studies, err := casestudy.LoadAll(cfg.Paths.CaseStudyDir)
	if err != nil {
		return err
	}

	registry := report.NewRegistry(cfg.Paths.ResultDir, logger)

	// A stale or corrupt cache only costs a full re-parse.
	cache, err := report.LoadScanCache(cfg.Paths.ResultDir)
	if err != nil {
		logger.Warn("discarding unreadable scan cache", "error", err)

		cache = report.NewScanCache()
	}

	registry.UseScanCache(cache)

	out := cobraCmd.OutOrStdout()

	totalProcessed, totalRevisions := 0, 0

	for _, cs := range studies {
		if sc.project != "" && cs.ProjectName != sc.project {
			continue
		}

		processed, count, err := sc.renderCaseStudy(out, registry, cs)
		if err != nil {
			return err
		}

		totalProcessed += processed
		totalRevisions += count
	}

	fmt.Fprintf(out, "Total: (%d/%d) processed\n", totalProcessed, totalRevisions)

	err = cache.Save(cfg.Paths.ResultDir)
	if err != nil {
		logger.Warn("could not persist scan cache", "error", err)
	}

	return nil
}

// renderCaseStudy prints one case study's status table and returns its
// processed and total revision counts.
func (sc *StatusCommand) renderCaseStudy(out io.Writer, registry *report.Registry, cs *casestudy.CaseStudy) (int, int, error) {
	revs := cs.ShortRevisions()

	tags, err := registry.TagRevisions(cs.ProjectName, revs)
	if err != nil {
		return 0, 0, err
	}

	processed := 0
	for _, status := range tags {
		if status == report.StatusSuccess {
			processed++
		}
	}

	fmt.Fprintf(out, "CS: %s: (%d/%d) processed, results on disk: %s\n",
		cs.Name(), processed, len(revs), resultDirSize(registry, cs.ProjectName))

	tbl := table.NewWriter()
	tbl.SetOutputMirror(out)
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Revision", "Status"})

	for _, rev := range revs {
		tbl.AppendRow(table.Row{rev.String(), colorStatus(tags[rev])})
	}

	tbl.Render()
	fmt.Fprintln(out)

	return processed, len(revs), nil
}

// colorStatus renders a status name in its conventional color.
func colorStatus(status report.FileStatus) string {
	switch status {
	case report.StatusSuccess:
		return color.New(color.FgGreen).Sprint(status)
	case report.StatusFailed, report.StatusCompileError:
		return color.New(color.FgRed).Sprint(status)
	case report.StatusBlocked:
		return color.New(color.FgYellow).Sprint(status)
	case report.StatusMissing:
		return color.New(color.FgCyan).Sprint(status)
	case report.StatusNone:
		return color.New(color.Faint).Sprint(status)
	default:
		return status.String()
	}
}

// resultDirSize sums the sizes of all result files of a project. Scan
// errors degrade to a zero size; status output must not fail on them.
func resultDirSize(registry *report.Registry, project string) string {
	var total uint64

	_ = filepath.WalkDir(registry.ProjectDir(project), func(_ string, entry fs.DirEntry, err error) error {
		if err != nil || entry.IsDir() {
			return nil //nolint:nilerr // missing dirs count as empty
		}

		info, infoErr := entry.Info()
		if infoErr != nil {
			return nil //nolint:nilerr // unreadable entries count as empty
		}

		total += uint64(info.Size()) //nolint:gosec // sizes are non-negative

		return nil
	})

	return humanize.IBytes(total)
}
