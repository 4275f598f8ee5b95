package markov

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"testing/iotest"
)

func TestBuildScenarios(t *testing.T) {
	testCases := []struct {
		name  string
		lines []string
		want  map[string]map[SuccessorToken]int
	}{
		{
			name:  "Two simple lines",
			lines: []string{"the cat sat", "the dog ran"},
			want: map[string]map[SuccessorToken]int{
				"the": {Word("cat"): 1, Word("dog"): 1},
				"cat": {Word("sat"): 1},
				"dog": {Word("ran"): 1},
				"sat": {SentenceEnd: 1},
				"ran": {SentenceEnd: 1},
			},
		},
		{
			name:  "Commas branch alongside the next word",
			lines: []string{"red, white, and blue"},
			want: map[string]map[SuccessorToken]int{
				"red":   {Comma: 1, Word("white"): 1},
				"white": {Comma: 1, Word("and"): 1},
				"and":   {Word("blue"): 1},
				"blue":  {SentenceEnd: 1},
			},
		},
		{
			name:  "Single word line",
			lines: []string{"hello"},
			want: map[string]map[SuccessorToken]int{
				"hello": {SentenceEnd: 1},
			},
		},
		{
			name:  "Case folding and comma stripping of successors",
			lines: []string{"The Big, Dog", "big dog"},
			want: map[string]map[SuccessorToken]int{
				"the": {Word("big"): 1},
				"big": {Comma: 1, Word("dog"): 2},
				"dog": {SentenceEnd: 2},
			},
		},
		{
			name:  "Line-final word also used mid-line",
			lines: []string{"go home", "home run"},
			want: map[string]map[SuccessorToken]int{
				"go":   {Word("home"): 1},
				"home": {SentenceEnd: 1, Word("run"): 1},
				"run":  {SentenceEnd: 1},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			model, err := Build(tc.lines)
			if err != nil {
				t.Fatalf("Build() failed: %v", err)
			}
			if model.Len() != len(tc.want) {
				t.Errorf("expected %d keys, got %d (%v)", len(tc.want), model.Len(), model.Keys())
			}
			for key, want := range tc.want {
				d, ok := model.Distribution(key)
				if !ok {
					t.Errorf("expected key %q in model", key)
					continue
				}
				if got := d.Counts(); !reflect.DeepEqual(got, want) {
					t.Errorf("table[%q] = %v, want %v", key, got, want)
				}
			}
		})
	}
}

func TestBuildEmptyCorpus(t *testing.T) {
	testCases := []struct {
		name  string
		lines []string
	}{
		{name: "No lines", lines: nil},
		{name: "Only blank line", lines: []string{""}},
		{name: "Blank line among others", lines: []string{"a b", "   ", "c"}},
		{name: "Only commas", lines: []string{", ,"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Build(tc.lines)
			if !errors.Is(err, ErrEmptyCorpus) {
				t.Errorf("expected ErrEmptyCorpus, got %v", err)
			}
		})
	}
}

func TestBuildInvariants(t *testing.T) {
	lines := []string{
		"the quick brown fox jumps over the lazy dog",
		"a quick, sly fox, and a dog",
		"dogs bark",
		"foxes run, jump, and hide",
		"end",
	}
	model, err := Build(lines)
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	for _, line := range lines {
		tokens := TokenizeLine(line)
		for i, tok := range tokens {
			d, ok := model.Distribution(tok.Text)
			if !ok {
				t.Fatalf("word %q from line %q is not a key", tok.Text, line)
			}
			if i == len(tokens)-1 && d.Count(SentenceEnd) < 1 {
				t.Errorf("last word %q of line %q has no sentence end", tok.Text, line)
			}
			if i < len(tokens)-1 && tok.Comma && d.Count(Comma) < 1 {
				t.Errorf("comma word %q has no comma count", tok.Text)
			}
		}
	}

	for _, key := range model.Keys() {
		if strings.HasSuffix(key, ",") || strings.ToLower(key) != key {
			t.Errorf("key %q is not in normalized form", key)
		}
		d, _ := model.Distribution(key)
		if d.Len() == 0 {
			t.Errorf("key %q has an empty distribution", key)
		}
		for _, tok := range d.Successors() {
			if d.Count(tok) < 1 {
				t.Errorf("table[%q][%v] has a non-positive count", key, tok)
			}
		}
	}
}

func TestTrainIsDeterministic(t *testing.T) {
	corpus := "one fish two fish\nred fish, blue fish\nfish"
	ctx, g, first := setupTestModel(t, corpus)

	second, err := g.Train(ctx, strings.NewReader(corpus))
	if err != nil {
		t.Fatalf("second Train() failed: %v", err)
	}

	if !reflect.DeepEqual(first.Keys(), second.Keys()) {
		t.Fatalf("keys differ: %v vs %v", first.Keys(), second.Keys())
	}
	for _, key := range first.Keys() {
		a, _ := first.Distribution(key)
		b, _ := second.Distribution(key)
		if !reflect.DeepEqual(a.Counts(), b.Counts()) {
			t.Errorf("table[%q] differs: %v vs %v", key, a.Counts(), b.Counts())
		}
	}
}

func TestTrainMatchesBuild(t *testing.T) {
	lines := []string{"red, white, and blue", "blue skies"}
	_, _, trained := setupTestModel(t, strings.Join(lines, "\n")+"\n")

	built, err := Build(lines)
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	if trained.Stats() != built.Stats() {
		t.Errorf("Train stats %+v differ from Build stats %+v", trained.Stats(), built.Stats())
	}
}

func TestTrainErrors(t *testing.T) {
	g := setupTestGenerator(t)
	ctx := context.Background()

	t.Run("Read failure", func(t *testing.T) {
		_, err := g.Train(ctx, iotest.ErrReader(errors.New("disk on fire")))
		if !errors.Is(err, ErrUnreadableResource) {
			t.Errorf("expected ErrUnreadableResource, got %v", err)
		}
	})

	t.Run("Empty input", func(t *testing.T) {
		_, err := g.Train(ctx, strings.NewReader(""))
		if !errors.Is(err, ErrEmptyCorpus) {
			t.Errorf("expected ErrEmptyCorpus, got %v", err)
		}
	})

	t.Run("Blank line", func(t *testing.T) {
		_, err := g.Train(ctx, strings.NewReader("a b\n\nc d\n"))
		if !errors.Is(err, ErrEmptyCorpus) {
			t.Fatalf("expected ErrEmptyCorpus, got %v", err)
		}
		if !strings.Contains(err.Error(), "line 2") {
			t.Errorf("expected the error to name line 2, got %q", err.Error())
		}
	})

	t.Run("Cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := g.Train(cancelled, strings.NewReader("a b\n"))
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func BenchmarkTrain(b *testing.B) {
	corpus := createBenchmarkCorpus()
	ctx := context.Background()
	g := NewGenerator(NewDefaultTokenizer())

	b.SetBytes(int64(len(corpus)))
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := g.Train(ctx, strings.NewReader(corpus)); err != nil {
			b.Fatalf("Train() failed: %v", err)
		}
	}
}
