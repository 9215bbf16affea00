package babble

// WordStats holds word classification counts for a token sequence.
type WordStats struct {
	Capitalized int // Tokens starting with an uppercase letter
	WithComma   int // Tokens ending with a comma
	WithEnding  int // Tokens ending with '.', '?' or '!'
	Clean       int // Tokens with neither a capital nor a trailing mark
	Total       int
}

// CountStats classifies every token. Categories overlap: a capitalized word
// ending in a period counts towards both.
func CountStats(tokens []Token) WordStats {
	stats := WordStats{Total: len(tokens)}
	for _, t := range tokens {
		if t.Capitalized() {
			stats.Capitalized++
		}
		if t.Comma() {
			stats.WithComma++
		}
		if t.Terminal() {
			stats.WithEnding++
		}
		if t.Clean() {
			stats.Clean++
		}
	}
	return stats
}
