/*
Package markov provides a small, in-memory, first-order Markov chain toolkit
for learning word transitions from a plain-text corpus and sampling new
sentences from them.

A corpus is read line by line. Every line is one training unit, split on
whitespace; a trailing comma on a word marks a clause boundary. Training
produces an immutable Model that maps each word to a weighted distribution
over its successors, where a successor is another word, a comma, or the end
of the sentence. A Generator walks that model to produce sentences, and a
single Model may be shared by any number of concurrent Generate calls.

	g := markov.NewGenerator(markov.NewDefaultTokenizer())
	model, err := g.Train(ctx, file)
	if err != nil {
		return err
	}
	sentence, err := g.Generate(ctx, model)
*/
package markov
