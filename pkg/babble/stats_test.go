package babble

import "testing"

func TestCountStats(t *testing.T) {
	tokens := Tokenize("Well, the cat sat. Did the dog run? Yes, it ran, and ran!")
	expected := WordStats{
		Capitalized: 3, // Well, Did Yes,
		WithComma:   3, // Well, Yes, ran,
		WithEnding:  3, // sat. run? ran!
		Clean:       6, // the cat the dog it and
		Total:       13,
	}

	if got := CountStats(tokens); got != expected {
		t.Errorf("CountStats() = %+v, want %+v", got, expected)
	}
}

func TestCountStatsEmpty(t *testing.T) {
	if got := CountStats(nil); got != (WordStats{}) {
		t.Errorf("expected zero stats for no tokens, got %+v", got)
	}
}
