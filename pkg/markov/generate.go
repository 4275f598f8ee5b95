package markov

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// generateOptions Is used by the generate functions to configure default options.
type generateOptions struct {
	maxWords int
	rand     Rand
}

// GenerateOption is a function that configures generation parameters. It's used
// as a variadic argument in generation functions like Generate and GenerateStream.
type GenerateOption func(*generateOptions)

// WithMaxWords caps the number of words in a sentence. Once the cap is reached
// the sentence is terminated as if the end of sentence had been drawn. A value
// of 0 or less leaves sentences unbounded, which is the default.
func WithMaxWords(n int) GenerateOption {
	return func(o *generateOptions) { o.maxWords = n }
}

// WithRand overrides the generator's randomness source for a single call.
func WithRand(r Rand) GenerateOption {
	return func(o *generateOptions) {
		if r != nil {
			o.rand = r
		}
	}
}

func (g *Generator) options(opts []GenerateOption) *generateOptions {
	options := &generateOptions{
		maxWords: 0,
		rand:     g.rand,
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// outWord is one rendered position of a sentence.
type outWord struct {
	text  string
	comma bool
}

// Generate walks the model from a uniformly random starting word and returns
// one rendered sentence. It fails with ErrEmptyModel if the model has no keys.
// Generation never modifies the model.
func (g *Generator) Generate(ctx context.Context, model *Model, opts ...GenerateOption) (string, error) {
	words, err := g.walk(ctx, model, g.options(opts))
	if err != nil {
		return "", err
	}
	return g.render(words), nil
}

// walk contains the main loop of the random walk.
func (g *Generator) walk(ctx context.Context, model *Model, options *generateOptions) ([]outWord, error) {
	if model == nil || model.Len() == 0 {
		return nil, ErrEmptyModel
	}
	r := options.rand

	// anchor is the word whose distribution is being sampled.
	anchor := model.randomKey(r)
	words := []outWord{{text: anchor}}
	next := model.table[anchor].sample(r)

	for next.kind != KindSentenceEnd {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if next.kind == KindComma {
			words[len(words)-1].comma = true
			tok, ok := model.table[anchor].sampleNonComma(r)
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrCommaOnly, anchor)
			}
			next = tok
			continue
		}

		if options.maxWords > 0 && len(words) >= options.maxWords {
			g.logger.DebugContext(ctx, "Generation terminated by reaching maxWords",
				slog.Int("max_words", options.maxWords),
			)
			break
		}

		words = append(words, outWord{text: next.word})
		dist, ok := model.table[next.word]
		if ok {
			anchor = next.word
		} else {
			// Dead end: re-anchor on a random key so the walk can continue.
			anchor = model.randomKey(r)
			dist = model.table[anchor]
			g.logger.DebugContext(ctx, "Dead end, re-anchoring",
				slog.String("word", next.word),
				slog.String("anchor", anchor),
			)
		}
		next = dist.sample(r)
	}

	g.logger.DebugContext(ctx, "Sentence generated",
		slog.Int("generated_length", len(words)),
	)
	return words, nil
}

func (g *Generator) render(words []outWord) string {
	var builder strings.Builder
	for i, w := range words {
		if i > 0 {
			builder.WriteString(g.tokenizer.Separator())
		}
		builder.WriteString(w.text)
		if w.comma {
			builder.WriteString(g.tokenizer.Comma())
		}
	}
	builder.WriteString(g.tokenizer.EOC())
	return builder.String()
}
