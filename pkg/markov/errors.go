package markov

import "errors"

var (
	// ErrEmptyCorpus is returned by training when the corpus has no lines or
	// when any line holds no words.
	ErrEmptyCorpus = errors.New("markov: empty corpus")
	// ErrUnreadableResource is returned when the corpus cannot be opened or read.
	ErrUnreadableResource = errors.New("markov: unreadable corpus resource")
	// ErrEmptyModel is returned by generation when the model has no keys.
	ErrEmptyModel = errors.New("markov: empty model")
	// ErrCommaOnly is returned by generation when a distribution offers no
	// successor other than a comma. Training never produces one.
	ErrCommaOnly = errors.New("markov: distribution holds only commas")
)
