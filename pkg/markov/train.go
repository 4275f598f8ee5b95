package markov

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// tally accumulates successor counts while a corpus is read.
type tally struct {
	counts map[string]map[SuccessorToken]int
	lines  int
}

func newTally() *tally {
	return &tally{counts: make(map[string]map[SuccessorToken]int)}
}

func (t *tally) add(key string, next SuccessorToken) {
	dist, ok := t.counts[key]
	if !ok {
		dist = make(map[SuccessorToken]int)
		t.counts[key] = dist
	}
	dist[next]++
}

// addLine records one training line. A word that carried a comma gets both a
// Comma count and a count for the word that follows it; the last word of the
// line gets a SentenceEnd count.
func (t *tally) addLine(tokens []Token) error {
	t.lines++
	if len(tokens) == 0 {
		return fmt.Errorf("%w: line %d has no words", ErrEmptyCorpus, t.lines)
	}
	for i := 0; i < len(tokens)-1; i++ {
		if tokens[i].Comma {
			t.add(tokens[i].Text, Comma)
		}
		t.add(tokens[i].Text, Word(tokens[i+1].Text))
	}
	t.add(tokens[len(tokens)-1].Text, SentenceEnd)
	return nil
}

func (t *tally) model() (*Model, error) {
	if t.lines == 0 {
		return nil, fmt.Errorf("%w: no lines", ErrEmptyCorpus)
	}
	table := make(map[string]*Distribution, len(t.counts))
	for key, counts := range t.counts {
		table[key] = newDistribution(counts)
	}
	return newModel(table, t.lines), nil
}

// Build trains a model from in-memory lines using the default tokenization
// rules. It fails with ErrEmptyCorpus if lines is empty or any line holds no
// words.
func Build(lines []string) (*Model, error) {
	t := newTally()
	for _, line := range lines {
		if err := t.addLine(TokenizeLine(line)); err != nil {
			return nil, err
		}
	}
	return t.model()
}

// Train reads a corpus from an io.Reader, one training line per line of
// input, and returns the trained model. Read failures are reported as
// ErrUnreadableResource. The whole corpus is consumed in a single pass.
func (g *Generator) Train(ctx context.Context, data io.Reader) (*Model, error) {
	t := newTally()
	stream := g.tokenizer.NewStream(data)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tokens, err := stream.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("%w: line %d: %w", ErrUnreadableResource, t.lines+1, err)
		}
		if err = t.addLine(tokens); err != nil {
			return nil, err
		}
	}

	model, err := t.model()
	if err != nil {
		return nil, err
	}

	g.logger.InfoContext(ctx, "Training completed",
		slog.Int("lines_processed", model.Lines()),
		slog.Int("keys", model.Len()),
		slog.Int("transitions", model.Stats().TotalFrequency),
	)

	return model, nil
}
