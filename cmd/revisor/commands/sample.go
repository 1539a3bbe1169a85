package commands

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/revisor-tools/revisor/pkg/casestudy"
	"github.com/revisor-tools/revisor/pkg/config"
	"github.com/revisor-tools/revisor/pkg/project"
	"github.com/revisor-tools/revisor/pkg/report"
	"github.com/revisor-tools/revisor/pkg/revision"
	"github.com/revisor-tools/revisor/pkg/sampling"
)

// Sentinel errors for the sample command.
var (
	ErrRevisionNotInHistory = errors.New("sampled revision not found in project history")
)

// SampleCommand holds the configuration for the sample command.
type SampleCommand struct {
	repoPath   string
	limit      int
	random     bool
	full       bool
	whitelist  []string
	blacklist  []string
	seed       int64
	version    int
	newStage   bool
	mergeStage string
	dryRun     bool
}

// NewSampleCommand creates and configures the sample command.
func NewSampleCommand() *cobra.Command {
	sc := &SampleCommand{}

	cobraCmd := &cobra.Command{
		Use:   "sample [project]",
		Short: "Sample revisions of a project into a case study",
		Long: `Sample revisions of a project and record them in a case study.

Without filters a single revision is selected as a smoke sample; --full
selects every revision. Status filters restrict the candidate set to
revisions whose current result status matches: a whitelist admits only
the listed statuses and takes precedence over the blacklist.`,
		Args: cobra.ExactArgs(1),
		RunE: sc.run,
	}

	addConfigFlag(cobraCmd)
	cobraCmd.Flags().StringVar(&sc.repoPath, "repo", "", "Repository path (default: <project_dir>/<project>)")
	cobraCmd.Flags().IntVarP(&sc.limit, "limit", "n", -1, "Max number of sampled revisions (0 = no cap)")
	cobraCmd.Flags().BoolVar(&sc.random, "random", false, "Shuffle sampled revisions before the cap applies")
	cobraCmd.Flags().BoolVar(&sc.full, "full", false, "Select every revision instead of a smoke sample")
	cobraCmd.Flags().StringSliceVar(&sc.whitelist, "whitelist", nil, "Admit only revisions with these statuses")
	cobraCmd.Flags().StringSliceVar(&sc.blacklist, "blacklist", nil, "Exclude revisions with these statuses")
	cobraCmd.Flags().Int64Var(&sc.seed, "seed", 0, "Random seed for reproducible shuffles (0 = time-based)")
	cobraCmd.Flags().IntVar(&sc.version, "version", 0, "Case-study version of the project")
	cobraCmd.Flags().BoolVar(&sc.newStage, "new-stage", false, "Record the sample in a fresh stage")
	cobraCmd.Flags().StringVar(&sc.mergeStage, "merge-stage", "", "Name of the stage to record the sample in")
	cobraCmd.Flags().BoolVar(&sc.dryRun, "dry-run", false, "Print the sample without touching the case study")

	return cobraCmd
}

func (sc *SampleCommand) run(cobraCmd *cobra.Command, args []string) error {
	cfg, logger, err := loadRuntime(cobraCmd)
	if err != nil {
		return err
	}

	projectName := args[0]

	repoPath := sc.repoPath
	if repoPath == "" {
		repoPath = filepath.Join(cfg.Paths.ProjectDir, projectName)
	}

	proj, err := project.NewLocalProject(projectName, repoPath, nil)
	if err != nil {
		return err
	}
	defer proj.Free()

	revs, err := proj.Revisions()
	if err != nil {
		return err
	}

	policy, err := sc.buildPolicy(cobraCmd.Flags(), cfg.Sampling)
	if err != nil {
		return err
	}

	opts := []sampling.Option{sampling.WithLogger(logger)}
	if sc.seed != 0 {
		opts = append(opts, sampling.WithRand(rand.New(rand.NewSource(sc.seed)))) //nolint:gosec // sampling needs no crypto rand
	}

	registry := report.NewRegistry(cfg.Paths.ResultDir, logger)
	sampler := sampling.New(policy, registry, opts...)

	sampled, err := sampler.Sample(projectName, revs)
	if err != nil {
		return err
	}

	if sc.dryRun {
		for _, rev := range sampled {
			fmt.Fprintln(cobraCmd.OutOrStdout(), rev)
		}

		return nil
	}

	added, cs, err := sc.record(cfg.Paths.CaseStudyDir, projectName, proj, sampled)
	if err != nil {
		return err
	}

	fmt.Fprintf(cobraCmd.OutOrStdout(), "added %d of %d sampled revisions to %s\n",
		added, len(sampled), cs.Name())

	return nil
}

// buildPolicy derives the sampling policy from the flags. Flags left at
// their defaults fall back to the configured sampling defaults.
func (sc *SampleCommand) buildPolicy(flags *pflag.FlagSet, defaults config.SamplingConfig) (sampling.Policy, error) {
	limit := sc.limit
	if limit < 0 {
		limit = defaults.Limit
	}

	random := sc.random
	if !flags.Changed("random") {
		random = defaults.RandomOrder
	}

	full := sc.full
	if !flags.Changed("full") {
		full = defaults.Full
	}

	whitelist, err := parseStatuses(sc.whitelist)
	if err != nil {
		return sampling.Policy{}, err
	}

	blacklist, err := parseStatuses(sc.blacklist)
	if err != nil {
		return sampling.Policy{}, err
	}

	return sampling.Policy{
		SampleLimit: limit,
		RandomOrder: random,
		Full:        full,
		Whitelist:   whitelist,
		Blacklist:   blacklist,
	}, nil
}

// record adds the sampled revisions to the project's case study, creating
// the document on first use.
func (sc *SampleCommand) record(
	dir, projectName string,
	proj *project.LocalProject,
	sampled []revision.ShortHash,
) (int, *casestudy.CaseStudy, error) {
	cs, err := casestudy.Load(dir, projectName, sc.version)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return 0, nil, err
		}

		cs = casestudy.New(projectName, sc.version)
	}

	stage := sc.selectStage(cs)

	history, err := proj.History()
	if err != nil {
		return 0, nil, err
	}

	index := make(map[revision.ShortHash]int, len(history))
	for id, full := range history {
		index[full.Short()] = id
	}

	added := 0

	for _, short := range sampled {
		id, ok := index[short]
		if !ok {
			return 0, nil, fmt.Errorf("%w: %s", ErrRevisionNotInHistory, short)
		}

		wasAdded, err := cs.IncludeRevision(stage, history[id], id)
		if err != nil {
			return 0, nil, err
		}

		if wasAdded {
			added++
		}
	}

	err = casestudy.Store(dir, cs)
	if err != nil {
		return 0, nil, err
	}

	return added, cs, nil
}

// selectStage picks the stage to record into: a named stage when
// --merge-stage is given, a fresh one for --new-stage, the last existing
// stage otherwise.
func (sc *SampleCommand) selectStage(cs *casestudy.CaseStudy) int {
	if sc.newStage {
		return cs.InsertEmptyStage(sc.mergeStage)
	}

	if sc.mergeStage != "" {
		if idx := cs.StageByName(sc.mergeStage); idx >= 0 {
			return idx
		}

		return cs.InsertEmptyStage(sc.mergeStage)
	}

	if cs.NumStages() > 0 {
		return cs.NumStages() - 1
	}

	return 0
}

// parseStatuses converts status names from the command line.
func parseStatuses(names []string) ([]report.FileStatus, error) {
	if len(names) == 0 {
		return nil, nil
	}

	statuses := make([]report.FileStatus, len(names))

	for i, name := range names {
		status, err := report.ParseStatus(name)
		if err != nil {
			return nil, err
		}

		statuses[i] = status
	}

	return statuses, nil
}
