package markov

import (
	"context"
	"log/slog"
)

// Prune returns a copy of the model with every word and comma link whose
// count is less than or equal to minFreq removed. Sentence-end links are never
// pruned, so every surviving key can still end a sentence or move on. Keys
// left with nothing but a comma are dropped. The receiver is not modified.
//
// Pruning can turn successor words into dead ends; generation re-anchors on
// those as usual.
func (g *Generator) Prune(ctx context.Context, m *Model, minFreq int) *Model {
	table := make(map[string]*Distribution, len(m.table))
	var linksRemoved int
	for key, d := range m.table {
		kept := make(map[SuccessorToken]int, d.Len())
		for i, tok := range d.tokens {
			if tok.kind != KindSentenceEnd && d.counts[i] <= minFreq {
				linksRemoved++
				continue
			}
			kept[tok] = d.counts[i]
		}
		if len(kept) == 0 {
			continue
		}
		if _, onlyComma := kept[Comma]; onlyComma && len(kept) == 1 {
			linksRemoved++
			continue
		}
		table[key] = newDistribution(kept)
	}

	pruned := newModel(table, m.lines)

	g.logger.InfoContext(ctx, "Model pruned",
		slog.Int("min_frequency", minFreq),
		slog.Int("chains_removed", linksRemoved),
		slog.Int("keys_removed", m.Len()-pruned.Len()),
	)
	return pruned
}
