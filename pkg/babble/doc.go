/*
Package babble generates pseudo-random sentences from a source text by
modeling which word follows which.

Text is split into word tokens with Tokenize (or ReadTokens for a stream),
turned into an immutable adjacency Model with BuildModel, and walked with
GenerateSentence. The walk starts on a capitalized word, moves to successors
weighted by how often they followed the current word, and ends on a word
carrying terminal punctuation.

	tokens := babble.Tokenize("The cat sat. The cat ran!")
	model := babble.BuildModel(tokens)
	sentence, err := babble.GenerateSentence(model, babble.WithMaxSteps(64))
*/
package babble
