package markov

import (
	"context"
	"fmt"
	"log/slog"
)

// GenerateStream generates up to n sentences and returns them on a read-only
// channel. This suits callers that print or send sentences as they are
// produced. The channel is closed once n sentences have been sent, the
// context is cancelled, or generation fails; failures are logged.
func (g *Generator) GenerateStream(ctx context.Context, model *Model, n int, opts ...GenerateOption) (<-chan string, error) {
	if n < 0 {
		return nil, fmt.Errorf("markov: negative sentence count %d", n)
	}
	if model == nil || model.Len() == 0 {
		return nil, ErrEmptyModel
	}
	options := g.options(opts)

	sentenceChan := make(chan string)

	go func() {
		defer close(sentenceChan)

		for i := 0; i < n; i++ {
			select {
			case <-ctx.Done():
				g.logger.DebugContext(ctx, "Generation stream cancelled by context",
					slog.Int("sent", i),
				)
				return
			default:
			}

			words, err := g.walk(ctx, model, options)
			if err != nil {
				g.logger.ErrorContext(ctx, "failed to generate sentence for stream", slog.Any("error", err))
				return
			}

			select {
			case <-ctx.Done():
				return
			case sentenceChan <- g.render(words):
			}
		}
	}()

	return sentenceChan, nil
}

// GenerateN returns n sentences. It stops at the first error.
func (g *Generator) GenerateN(ctx context.Context, model *Model, n int, opts ...GenerateOption) ([]string, error) {
	if n < 0 {
		return nil, fmt.Errorf("markov: negative sentence count %d", n)
	}
	options := g.options(opts)
	sentences := make([]string, 0, n)
	for i := 0; i < n; i++ {
		words, err := g.walk(ctx, model, options)
		if err != nil {
			return nil, fmt.Errorf("sentence %d: %w", i+1, err)
		}
		sentences = append(sentences, g.render(words))
	}
	return sentences, nil
}
