package markov

// ModelStats holds aggregated statistics for a trained model.
type ModelStats struct {
	Lines          int `json:"lines"`           // Training lines the model was built from
	Keys           int `json:"keys"`            // Words with a successor distribution
	TotalChains    int `json:"total_chains"`    // Unique word->successor links
	TotalFrequency int `json:"total_frequency"` // Sum of all link counts
	CommaFrequency int `json:"comma_frequency"` // Sum of counts of comma links
	SentenceEnds   int `json:"sentence_ends"`   // Sum of counts of sentence-end links
	DeadEnds       int `json:"dead_ends"`       // Successor words that are not keys
}

// Stats returns a snapshot of statistics for the model.
func (m *Model) Stats() ModelStats {
	stats := ModelStats{
		Lines: m.lines,
		Keys:  len(m.keys),
	}
	deadEnds := make(map[string]struct{})
	for _, d := range m.table {
		stats.TotalChains += d.Len()
		stats.TotalFrequency += d.Total()
		for i, tok := range d.tokens {
			switch tok.kind {
			case KindComma:
				stats.CommaFrequency += d.counts[i]
			case KindSentenceEnd:
				stats.SentenceEnds += d.counts[i]
			default:
				if _, ok := m.table[tok.word]; !ok {
					deadEnds[tok.word] = struct{}{}
				}
			}
		}
	}
	stats.DeadEnds = len(deadEnds)
	return stats
}
