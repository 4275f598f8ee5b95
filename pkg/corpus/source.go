package corpus

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/CTAG07/babbler/pkg/markov"
)

// StorePrefix marks a source identifier that names a corpus in the Store.
const StorePrefix = "db:"

// Source is a readable corpus resource.
type Source interface {
	// Open returns a reader over the corpus text. Failures are reported as
	// markov.ErrUnreadableResource.
	Open(ctx context.Context) (io.ReadCloser, error)
	// String returns the identifier the source was created from.
	String() string
}

// FileSource reads a corpus from a file. The path "-" reads from Stdin.
type FileSource struct {
	Path  string
	Stdin io.Reader
}

// Open opens the file, or wraps Stdin for "-".
func (f FileSource) Open(_ context.Context) (io.ReadCloser, error) {
	if f.Path == "-" {
		stdin := f.Stdin
		if stdin == nil {
			stdin = os.Stdin
		}
		return io.NopCloser(stdin), nil
	}
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", markov.ErrUnreadableResource, err)
	}
	return file, nil
}

func (f FileSource) String() string { return f.Path }

// StoreSource reads a named corpus from a Store.
type StoreSource struct {
	Store *Store
	Name  string
}

// Open looks the corpus up and streams its lines.
func (s StoreSource) Open(ctx context.Context) (io.ReadCloser, error) {
	info, err := s.Store.GetCorpusInfo(ctx, s.Name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", markov.ErrUnreadableResource, err)
	}
	rc, err := s.Store.Lines(ctx, info)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", markov.ErrUnreadableResource, err)
	}
	return rc, nil
}

func (s StoreSource) String() string { return StorePrefix + s.Name }

// IsStoreSource reports whether the identifier names a stored corpus.
func IsStoreSource(spec string) bool {
	return strings.HasPrefix(spec, StorePrefix)
}

// ParseSource turns a source identifier into a Source: "db:NAME" for a
// stored corpus, "-" for standard input, anything else is a file path.
// openStore is only called for stored corpora.
func ParseSource(spec string, openStore func() (*Store, error)) (Source, error) {
	if spec == "" {
		return nil, errors.New("corpus: empty source identifier")
	}
	if !IsStoreSource(spec) {
		return FileSource{Path: spec}, nil
	}

	name := strings.TrimPrefix(spec, StorePrefix)
	if name == "" {
		return nil, fmt.Errorf("corpus: missing corpus name in %q", spec)
	}
	if openStore == nil {
		return nil, fmt.Errorf("corpus: no store available for %q", spec)
	}
	store, err := openStore()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", markov.ErrUnreadableResource, err)
	}
	return StoreSource{Store: store, Name: name}, nil
}

// Train opens src and trains a model from it with g.
func Train(ctx context.Context, g *markov.Generator, src Source) (*markov.Model, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer func(rc io.ReadCloser) {
		_ = rc.Close()
	}(rc)

	model, err := g.Train(ctx, rc)
	if err != nil {
		return nil, fmt.Errorf("training from %s: %w", src, err)
	}
	return model, nil
}
