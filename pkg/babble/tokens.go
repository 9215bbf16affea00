package babble

import (
	"strings"
	"unicode/utf8"
)

// Token represents a single word extracted from source text. Its role in a
// sentence (start word, end word, comma-terminated, clean) is derived purely
// from its first and last characters.
type Token string

const (
	upperLetters  = "ABCDEFGHIJKLMNOPQRSTUVWXYZАБВГДЕЖЗИЙКЛМНОПРСТУФХЦЧШЩЪЫЬЭЮЯЁЇІЄҐЎ"
	terminalMarks = ".?!"
)

// Capitalized reports whether the token begins with an uppercase Latin or
// Cyrillic letter. Capitalized tokens are start words.
func (t Token) Capitalized() bool {
	r, _ := utf8.DecodeRuneInString(string(t))
	return r != utf8.RuneError && strings.ContainsRune(upperLetters, r)
}

// Terminal reports whether the token ends with '.', '?' or '!'. Terminal
// tokens are end words.
func (t Token) Terminal() bool {
	r, _ := utf8.DecodeLastRuneInString(string(t))
	return r != utf8.RuneError && strings.ContainsRune(terminalMarks, r)
}

// Comma reports whether the token ends with a comma.
func (t Token) Comma() bool {
	return strings.HasSuffix(string(t), ",")
}

// Clean reports whether the token is neither capitalized nor terminated by
// any punctuation mark.
func (t Token) Clean() bool {
	if t.Capitalized() {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(string(t))
	return !strings.ContainsRune(",?!.-", r)
}

// String returns the token text.
func (t Token) String() string {
	return string(t)
}
