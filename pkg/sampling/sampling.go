// Package sampling selects the subset of a project's revisions to process
// in an experiment run, filtered by previously recorded result statuses.
package sampling

import (
	"log/slog"
	"math/rand"
	"slices"
	"time"

	"github.com/revisor-tools/revisor/pkg/report"
	"github.com/revisor-tools/revisor/pkg/revision"
)

// Policy holds all sampling options explicitly; there are no hidden
// defaults beyond the documented zero values.
type Policy struct {
	// SampleLimit caps the number of revisions returned; 0 means no cap.
	// The cap is applied after shuffling when RandomOrder is set.
	SampleLimit int
	// RandomOrder randomizes the selection among candidates after
	// filtering; otherwise input order is preserved.
	RandomOrder bool
	// Full requests all candidate revisions. Without Full and without any
	// status filter, sampling returns only the first revision as a
	// smoke-test default.
	Full bool
	// Whitelist keeps only revisions whose merged status is listed.
	// A status present here is never excluded by the blacklist, even if
	// it also appears there.
	Whitelist []report.FileStatus
	// Blacklist excludes revisions whose merged status is listed.
	Blacklist []report.FileStatus
}

func (p Policy) filtered() bool {
	return len(p.Whitelist) > 0 || len(p.Blacklist) > 0
}

// Sampler applies a Policy against the statuses recorded in a result
// registry. Its computation is pure apart from the registry's directory
// scan.
type Sampler struct {
	policy   Policy
	registry *report.Registry
	rng      *rand.Rand
	log      *slog.Logger
}

// Option customizes a Sampler.
type Option func(*Sampler)

// WithRand injects the random source used for RandomOrder selection.
func WithRand(rng *rand.Rand) Option {
	return func(s *Sampler) { s.rng = rng }
}

// WithLogger injects the sampler's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Sampler) { s.log = logger }
}

// New creates a sampler. The registry may be nil when the policy carries
// no status filters.
func New(policy Policy, registry *report.Registry, opts ...Option) *Sampler {
	s := &Sampler{
		policy:   policy,
		registry: registry,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // sampling, not crypto
		log:      slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// TagRevisions returns the merged result status for each revision of the
// project, delegating to the report registry.
func (s *Sampler) TagRevisions(project string, revs []revision.ShortHash) (map[revision.ShortHash]report.FileStatus, error) {
	return s.registry.TagRevisions(project, revs)
}

// Sample selects the revisions to process. An empty candidate set after
// filtering yields an empty selection, not an error. With
// RandomOrder=false the output order equals the input order.
func (s *Sampler) Sample(project string, revs []revision.ShortHash) ([]revision.ShortHash, error) {
	if !s.policy.filtered() {
		if !s.policy.Full {
			// Smoke-test default: probe just the first revision.
			if len(revs) == 0 {
				return nil, nil
			}

			return []revision.ShortHash{revs[0]}, nil
		}

		return s.finish(slices.Clone(revs)), nil
	}

	tags, err := s.TagRevisions(project, revs)
	if err != nil {
		return nil, err
	}

	candidates := make([]revision.ShortHash, 0, len(revs))

	for _, rev := range revs {
		if s.admits(tags[rev]) {
			candidates = append(candidates, rev)
		}
	}

	s.log.Debug("sampled revisions",
		"project", project, "input", len(revs), "candidates", len(candidates))

	return s.finish(candidates), nil
}

// admits applies the status filters. The whitelist short-circuits: a
// whitelisted status is admitted no matter what the blacklist says.
func (s *Sampler) admits(status report.FileStatus) bool {
	if slices.Contains(s.policy.Whitelist, status) {
		return true
	}

	if len(s.policy.Whitelist) > 0 {
		return false
	}

	return !slices.Contains(s.policy.Blacklist, status)
}

// finish applies random ordering and the sample limit, in that order.
func (s *Sampler) finish(candidates []revision.ShortHash) []revision.ShortHash {
	if s.policy.RandomOrder {
		s.rng.Shuffle(len(candidates), func(i, j int) {
			candidates[i], candidates[j] = candidates[j], candidates[i]
		})
	}

	if s.policy.SampleLimit > 0 && len(candidates) > s.policy.SampleLimit {
		candidates = candidates[:s.policy.SampleLimit]
	}

	return candidates
}
