package markov

import (
	"bufio"
	"io"
	"strings"
)

// DefaultMaxLineBytes is the longest training line the default tokenizer
// accepts before reporting bufio.ErrTooLong.
const DefaultMaxLineBytes = 1 << 20

// DefaultTokenizer is the default implementation of the Tokenizer interface.
// Each input line is one training unit, split on whitespace. Words are
// lowercased, and trailing commas are stripped and remembered on the token.
// Its behavior can be customized with functional options.
type DefaultTokenizer struct {
	separator    string
	eoc          string
	comma        string
	maxLineBytes int
}

// Option Is a function that configures a DefaultTokenizer.
type Option func(*DefaultTokenizer)

// WithSeparator Sets the string used for joining words during generation.
// Default: " "
func WithSeparator(sep string) Option {
	return func(t *DefaultTokenizer) {
		t.separator = sep
	}
}

// WithEOC Sets the string appended to every generated sentence.
// Default: "."
func WithEOC(eoc string) Option {
	return func(t *DefaultTokenizer) {
		t.eoc = eoc
	}
}

// WithComma Sets the string attached to a word when a comma is generated.
// Default: ","
func WithComma(comma string) Option {
	return func(t *DefaultTokenizer) {
		t.comma = comma
	}
}

// WithMaxLineBytes sets the longest accepted input line in bytes.
// Default: DefaultMaxLineBytes
func WithMaxLineBytes(n int) Option {
	return func(t *DefaultTokenizer) {
		if n > 0 {
			t.maxLineBytes = n
		}
	}
}

// NewDefaultTokenizer creates a new tokenizer with default settings, which can be
// overridden by providing one or more Option functions.
func NewDefaultTokenizer(opts ...Option) *DefaultTokenizer {
	t := &DefaultTokenizer{
		separator:    " ",
		eoc:          ".",
		comma:        ",",
		maxLineBytes: DefaultMaxLineBytes,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Separator Returns the configured separator string.
func (t *DefaultTokenizer) Separator() string {
	return t.separator
}

// Comma Returns the configured comma string.
func (t *DefaultTokenizer) Comma() string {
	return t.comma
}

// EOC Returns the configured end-of-sentence string.
func (t *DefaultTokenizer) EOC() string {
	return t.eoc
}

// NewStream Returns the stream processor.
func (t *DefaultTokenizer) NewStream(r io.Reader) StreamTokenizer {
	scanner := bufio.NewScanner(r)
	// The scanner honours the larger of the initial capacity and the limit.
	scanner.Buffer(make([]byte, 0, min(64*1024, t.maxLineBytes)), t.maxLineBytes)
	return &DefaultStreamTokenizer{scanner: scanner}
}

// DefaultStreamTokenizer is the default implementation of the StreamTokenizer
// interface. It reads one line per call with a bufio.Scanner.
type DefaultStreamTokenizer struct {
	scanner *bufio.Scanner
}

// Next returns the tokens of the next line. When the stream is exhausted, it
// returns a nil slice and io.EOF. Any other error indicates a problem reading
// from the underlying stream.
func (s *DefaultStreamTokenizer) Next() ([]Token, error) {
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
	return TokenizeLine(s.scanner.Text()), nil
}

// TokenizeLine splits a single line into tokens. A free-standing comma is
// attached to the word before it; one that starts the line is dropped.
func TokenizeLine(line string) []Token {
	fields := strings.Fields(line)
	tokens := make([]Token, 0, len(fields))
	for _, field := range fields {
		word := strings.TrimRight(field, ",")
		comma := len(word) != len(field)
		if word == "" {
			if len(tokens) > 0 {
				tokens[len(tokens)-1].Comma = true
			}
			continue
		}
		tokens = append(tokens, Token{Text: strings.ToLower(word), Comma: comma})
	}
	return tokens
}
