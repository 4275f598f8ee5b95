package markov

import (
	"slices"
	"sort"
)

// Distribution is the weighted set of successors recorded for one word.
// Every count is at least 1 and a distribution always holds at least one
// successor. It is immutable once built.
type Distribution struct {
	tokens []SuccessorToken
	counts []int
	// cumulative holds running totals of counts, for binary-search sampling.
	cumulative []int
	// plain and plainCumulative are the same view with the comma removed.
	plain           []int
	plainCumulative []int
}

func newDistribution(counts map[SuccessorToken]int) *Distribution {
	d := &Distribution{
		tokens: make([]SuccessorToken, 0, len(counts)),
	}
	for tok := range counts {
		d.tokens = append(d.tokens, tok)
	}
	slices.SortFunc(d.tokens, func(a, b SuccessorToken) int {
		switch {
		case a.less(b):
			return -1
		case b.less(a):
			return 1
		default:
			return 0
		}
	})

	d.counts = make([]int, len(d.tokens))
	d.cumulative = make([]int, len(d.tokens))
	var total, plainTotal int
	for i, tok := range d.tokens {
		d.counts[i] = counts[tok]
		total += d.counts[i]
		d.cumulative[i] = total
		if tok.kind != KindComma {
			plainTotal += d.counts[i]
			d.plain = append(d.plain, i)
			d.plainCumulative = append(d.plainCumulative, plainTotal)
		}
	}
	return d
}

// Len returns the number of distinct successors.
func (d *Distribution) Len() int { return len(d.tokens) }

// Total returns the sum of all successor counts.
func (d *Distribution) Total() int {
	if len(d.cumulative) == 0 {
		return 0
	}
	return d.cumulative[len(d.cumulative)-1]
}

// Count returns how many times tok was recorded as a successor.
func (d *Distribution) Count(tok SuccessorToken) int {
	if i, ok := d.index(tok); ok {
		return d.counts[i]
	}
	return 0
}

// Successors returns the successors in a stable order: words alphabetically,
// then Comma, then SentenceEnd.
func (d *Distribution) Successors() []SuccessorToken {
	return slices.Clone(d.tokens)
}

// Counts returns a copy of the distribution as a map.
func (d *Distribution) Counts() map[SuccessorToken]int {
	m := make(map[SuccessorToken]int, len(d.tokens))
	for i, tok := range d.tokens {
		m[tok] = d.counts[i]
	}
	return m
}

func (d *Distribution) index(tok SuccessorToken) (int, bool) {
	i := sort.Search(len(d.tokens), func(i int) bool { return !d.tokens[i].less(tok) })
	if i < len(d.tokens) && d.tokens[i] == tok {
		return i, true
	}
	return 0, false
}

// sample draws one successor with probability proportional to its count.
func (d *Distribution) sample(r Rand) SuccessorToken {
	return d.tokens[pick(d.cumulative, r)]
}

// sampleNonComma draws a successor from the distribution conditioned on the
// draw not being Comma. This is the distribution that repeated discarding of
// comma draws converges to. It reports false if only Comma is present.
func (d *Distribution) sampleNonComma(r Rand) (SuccessorToken, bool) {
	if len(d.plain) == 0 {
		return SuccessorToken{}, false
	}
	return d.tokens[d.plain[pick(d.plainCumulative, r)]], true
}

// pick selects an index with probability proportional to the width of its
// slot in the running totals: ticket x lands on the first slot whose total
// exceeds it.
func pick(cumulative []int, r Rand) int {
	ticket := r.IntN(cumulative[len(cumulative)-1])
	return sort.SearchInts(cumulative, ticket+1)
}

// Model is a trained, read-only first-order transition table. Keys are
// lowercase, comma-stripped words. A Model is safe for concurrent use.
type Model struct {
	table map[string]*Distribution
	keys  []string
	lines int
}

func newModel(table map[string]*Distribution, lines int) *Model {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return &Model{table: table, keys: keys, lines: lines}
}

// Len returns the number of keys in the model.
func (m *Model) Len() int { return len(m.keys) }

// Lines returns the number of training lines the model was built from.
func (m *Model) Lines() int { return m.lines }

// Keys returns all keys in sorted order.
func (m *Model) Keys() []string {
	return slices.Clone(m.keys)
}

// Distribution returns the successor distribution for word, which must be in
// key form (lowercase, no trailing comma).
func (m *Model) Distribution(word string) (*Distribution, bool) {
	d, ok := m.table[word]
	return d, ok
}

// randomKey picks a key uniformly at random.
func (m *Model) randomKey(r Rand) string {
	return m.keys[r.IntN(len(m.keys))]
}
