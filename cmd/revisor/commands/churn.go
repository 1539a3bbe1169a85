package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/revisor-tools/revisor/pkg/churn"
	"github.com/revisor-tools/revisor/pkg/gitlib"
)

// Sentinel errors for the churn command.
var (
	ErrUnknownLanguageSet = errors.New("unknown language set")
	ErrMalformedRange     = errors.New("malformed revision range, expected <start>..<end>")
	ErrRangeWithRevision  = errors.New("--range and a positional revision are mutually exclusive")
)

// Language set names accepted by --languages.
const (
	languagesAll    = "all"
	languagesC      = "c"
	languagesCStyle = "c-style"
	languagesGo     = "go"
)

// ChurnCommand holds the configuration for the churn command.
type ChurnCommand struct {
	languages string
	revRange  string
}

// NewChurnCommand creates and configures the churn command.
func NewChurnCommand() *cobra.Command {
	cc := &ChurnCommand{}

	cobraCmd := &cobra.Command{
		Use:   "churn [repository] [revision]",
		Short: "Compute code churn of a commit or revision range",
		Long: `Compute code churn (files changed, insertions, deletions) for a
single commit or, with --range, across a revision range. Churn can be
restricted to files of a language set via --languages.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: cc.run,
	}

	cobraCmd.Flags().StringVar(&cc.languages, "languages", languagesAll, "Language set to count (all, c, c-style, go)")
	cobraCmd.Flags().StringVar(&cc.revRange, "range", "", "Revision range <start>..<end> instead of a single commit")

	return cobraCmd
}

func (cc *ChurnCommand) run(cobraCmd *cobra.Command, args []string) error {
	languageCfg, err := cc.languageConfig()
	if err != nil {
		return err
	}

	repo, err := gitlib.OpenRepository(args[0])
	if err != nil {
		return err
	}
	defer repo.Free()

	calculator := churn.NewCalculator(repo, languageCfg)

	counts, err := cc.compute(repo, calculator, args)
	if err != nil {
		return err
	}

	fmt.Fprintf(cobraCmd.OutOrStdout(), "files changed: %s\ninsertions: +%s\ndeletions: -%s\n",
		humanize.Comma(int64(counts.FilesChanged)),
		humanize.Comma(int64(counts.Insertions)),
		humanize.Comma(int64(counts.Deletions)))

	return nil
}

// compute resolves the requested commit or range and counts its churn.
func (cc *ChurnCommand) compute(repo *gitlib.Repository, calculator *churn.Calculator, args []string) (churn.Counts, error) {
	if cc.revRange != "" {
		if len(args) > 1 {
			return churn.Counts{}, fmt.Errorf("%w: got revision %q", ErrRangeWithRevision, args[1])
		}

		startSpec, endSpec, ok := strings.Cut(cc.revRange, "..")
		if !ok || startSpec == "" || endSpec == "" {
			return churn.Counts{}, fmt.Errorf("%w: %q", ErrMalformedRange, cc.revRange)
		}

		start, err := repo.ResolveRevision(startSpec)
		if err != nil {
			return churn.Counts{}, err
		}

		end, err := repo.ResolveRevision(endSpec)
		if err != nil {
			return churn.Counts{}, err
		}

		return calculator.RangeChurn(start, end)
	}

	spec := "HEAD"
	if len(args) > 1 {
		spec = args[1]
	}

	commit, err := repo.ResolveRevision(spec)
	if err != nil {
		return churn.Counts{}, err
	}

	return calculator.CommitChurn(commit)
}

// languageConfig maps the --languages flag to a churn configuration.
func (cc *ChurnCommand) languageConfig() (*churn.Config, error) {
	switch cc.languages {
	case languagesAll:
		return churn.NewConfig(), nil
	case languagesC:
		return churn.NewCLanguageConfig(), nil
	case languagesCStyle:
		return churn.NewCStyleLanguagesConfig(), nil
	case languagesGo:
		return churn.NewGoLanguageConfig(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownLanguageSet, cc.languages)
	}
}
