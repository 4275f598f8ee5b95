package markov

import (
	"io"
	"strconv"
)

// Kind tells the three kinds of successor token apart.
type Kind uint8

const (
	// KindWord is an ordinary lowercase word.
	KindWord Kind = iota
	// KindComma marks that a comma may follow the source word.
	KindComma
	// KindSentenceEnd marks that the sentence may end after the source word.
	KindSentenceEnd
)

// String returns a short name for the kind.
func (k Kind) String() string {
	switch k {
	case KindWord:
		return "word"
	case KindComma:
		return "comma"
	case KindSentenceEnd:
		return "sentence_end"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// SuccessorToken is a value that may follow a word in the chain: a word, a
// comma or the end of a sentence. It is comparable and is used as a map key.
// The zero value is the empty word and is never produced by training.
type SuccessorToken struct {
	kind Kind
	word string
}

var (
	// Comma is the successor token for a clause-separating comma.
	Comma = SuccessorToken{kind: KindComma}
	// SentenceEnd is the successor token that terminates a sentence.
	SentenceEnd = SuccessorToken{kind: KindSentenceEnd}
)

// Word returns the successor token for the word w.
func Word(w string) SuccessorToken {
	return SuccessorToken{kind: KindWord, word: w}
}

// Kind returns the kind of the token.
func (t SuccessorToken) Kind() Kind { return t.kind }

// IsWord reports whether the token is a word.
func (t SuccessorToken) IsWord() bool { return t.kind == KindWord }

// Text returns the word for word tokens and "" for the sentinels.
func (t SuccessorToken) Text() string { return t.word }

// String renders the token for logs and debugging. Sentinels render as
// <COMMA> and <END>, which no whitespace-split word can collide with in
// practice; equality never relies on this rendering.
func (t SuccessorToken) String() string {
	switch t.kind {
	case KindComma:
		return "<COMMA>"
	case KindSentenceEnd:
		return "<END>"
	default:
		return t.word
	}
}

// less orders tokens deterministically: words first by text, then comma,
// then sentence end.
func (t SuccessorToken) less(o SuccessorToken) bool {
	if t.kind != o.kind {
		return t.kind < o.kind
	}
	return t.word < o.word
}

// Token is a single word read from a training line. Text is lowercased and
// stripped of trailing commas; Comma records whether any were stripped.
type Token struct {
	Text  string
	Comma bool
}

// Tokenizer is an interface that defines the contract for splitting training
// text into lines of tokens and for rendering generated words back to text.
// This keeps the chain logic independent of the input format.
type Tokenizer interface {
	// NewStream returns a stateful StreamTokenizer for processing an io.Reader.
	NewStream(io.Reader) StreamTokenizer
	// Separator returns the string placed between two generated words.
	Separator() string
	// Comma returns the string attached to a word when a comma is generated.
	Comma() string
	// EOC returns the string appended to the end of a generated sentence.
	EOC() string
}

// StreamTokenizer is an interface for a stateful tokenizer that processes a
// stream of data, returning one training line at a time.
type StreamTokenizer interface {
	// Next returns the tokens of the next line. A line without words yields
	// an empty, non-nil slice. It returns io.EOF when the stream is consumed.
	Next() ([]Token, error)
}
