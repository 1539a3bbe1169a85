package persist

// Persister ties a state type to its file basename and codec, so callers
// store and restore documents (case studies, scan caches) without
// repeating the naming convention at every call site.
type Persister[T any] struct {
	basename string
	codec    Codec
}

// NewPersister creates a persister for documents named basename plus the
// codec's extension.
func NewPersister[T any](basename string, codec Codec) *Persister[T] {
	return &Persister[T]{
		basename: basename,
		codec:    codec,
	}
}

// Save builds the state via buildState and writes it into dir.
func (p *Persister[T]) Save(dir string, buildState func() *T) error {
	return SaveState(dir, p.basename, p.codec, buildState())
}

// Load reads the document from dir and hands the decoded state to
// restoreState. The restore function is not called when loading fails.
func (p *Persister[T]) Load(dir string, restoreState func(*T)) error {
	var state T

	err := LoadState(dir, p.basename, p.codec, &state)
	if err != nil {
		return err
	}

	restoreState(&state)

	return nil
}
