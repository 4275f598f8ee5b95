package markov

import (
	"io"
	"log/slog"
	"math/rand/v2"
)

// Rand is the source of randomness used for sampling. *rand.Rand from
// math/rand/v2 satisfies it. Implementations shared between goroutines must
// be safe for concurrent use.
type Rand interface {
	IntN(n int) int
}

// globalRand draws from the math/rand/v2 top-level generator, which is safe
// for concurrent use.
type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Generator is the main entry point for interacting with the Markov chain library.
// It holds the tokenizer used for training and rendering, the randomness
// source and the logger. A Generator is safe for concurrent use as long as its
// Rand is.
type Generator struct {
	tokenizer Tokenizer
	rand      Rand
	logger    *slog.Logger
}

// NewGenerator creates and returns a new Generator that uses the given
// Tokenizer and the global math/rand/v2 source.
func NewGenerator(tokenizer Tokenizer) *Generator {
	if tokenizer == nil {
		tokenizer = NewDefaultTokenizer()
	}
	return &Generator{
		tokenizer: tokenizer,
		rand:      globalRand{},
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// SetRand replaces the randomness source. A seeded *rand.Rand makes
// generation reproducible, but is not safe for concurrent use.
func (g *Generator) SetRand(r Rand) {
	if r != nil {
		g.rand = r
	}
}

// SetLogger sets the logger for the Generator. By default, all logs are discarded.
// Providing a `log/slog.Logger` will enable logging for training and generation.
func (g *Generator) SetLogger(logger *slog.Logger) {
	if logger != nil {
		g.logger = logger
	}
}
