package markov

import (
	"context"
	"go/build"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// sequenceRand replays fixed draws, reduced modulo n, then returns 0 forever.
type sequenceRand struct {
	draws []int
	next  int
}

func (s *sequenceRand) IntN(n int) int {
	if s.next >= len(s.draws) {
		return 0
	}
	v := s.draws[s.next] % n
	s.next++
	return v
}

// setupTestGenerator creates a Generator with a seeded randomness source.
func setupTestGenerator(t *testing.T) *Generator {
	t.Helper()
	g := NewGenerator(NewDefaultTokenizer())
	g.SetRand(rand.New(rand.NewPCG(1, 2)))
	return g
}

// setupTestModel is a convenience helper that also trains a model from text.
func setupTestModel(t *testing.T, corpus string) (context.Context, *Generator, *Model) {
	t.Helper()
	g := setupTestGenerator(t)
	ctx := context.Background()
	model, err := g.Train(ctx, strings.NewReader(corpus))
	if err != nil {
		t.Fatalf("setup: Train() failed: %v", err)
	}
	return ctx, g, model
}

// modelFrom builds a model directly from hand-written distributions.
func modelFrom(dists map[string]map[SuccessorToken]int) *Model {
	table := make(map[string]*Distribution, len(dists))
	for k, counts := range dists {
		table[k] = newDistribution(counts)
	}
	return newModel(table, 0)
}

var (
	benchmarkCorpus string
	corpusOnce      sync.Once
)

// createBenchmarkCorpus reads Go source files to create a corpus for benchmarking.
// Blank lines are dropped since the trainer rejects them.
func createBenchmarkCorpus() string {
	corpusOnce.Do(func() {
		var sb strings.Builder
		goRoot := build.Default.GOROOT
		filesToRead := []string{
			filepath.Join(goRoot, "src/net/http/server.go"),
			filepath.Join(goRoot, "src/go/parser/parser.go"),
			filepath.Join(goRoot, "src/encoding/json/encode.go"),
		}

		for _, file := range filesToRead {
			content, err := os.ReadFile(file)
			if err != nil {
				benchmarkCorpus = "this is a fallback corpus for benchmarking.\nit is not very long, but will prevent a crash.\n"
				return
			}
			for _, line := range strings.Split(string(content), "\n") {
				if strings.TrimSpace(line) != "" {
					sb.WriteString(line)
					sb.WriteString("\n")
				}
			}
		}
		benchmarkCorpus = sb.String()
	})
	return benchmarkCorpus
}
