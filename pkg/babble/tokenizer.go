package babble

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// wordRunes holds every character a token can contain.
	wordRunes = "abcdefghijklmnopqrstuvwxyzабвгдежзийклмнопрстуфхцчшщъыьэюяёїієґў" +
		upperLetters + "'`,.!?"

	// maxRunLength bounds a single run of word characters read by a Stream.
	maxRunLength = 1 << 20
)

// wordRegex matches either a lowercase run closed by one punctuation mark, or
// a word with an optional leading capital and an optional trailing comma.
// The first alternative wins, so "sat." is one token rather than "sat".
var wordRegex = regexp.MustCompile(
	"[a-zа-яёїієґў'`]+[,.!?]" +
		"|" +
		"[A-ZА-ЯЁЇІЄҐЎ]?[a-zа-яёїієґў'`]+,?",
)

// Tokenize splits text into word tokens in order of appearance. Characters
// that belong to no token (digits, whitespace, standalone punctuation,
// unsupported alphabets) are discarded. A text with no words yields an empty,
// non-nil slice.
func Tokenize(text string) []Token {
	matches := wordRegex.FindAllString(text, -1)
	tokens := make([]Token, len(matches))
	for i, m := range matches {
		tokens[i] = Token(m)
	}
	return tokens
}

// Stream is a stateful tokenizer over an io.Reader. It reads one run of word
// characters at a time, so memory use does not depend on line length.
type Stream struct {
	scanner *bufio.Scanner
	buffer  []string
}

// NewStream returns a Stream reading from r.
func NewStream(r io.Reader) *Stream {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRunLength)
	scanner.Split(scanWordRuns)
	return &Stream{scanner: scanner}
}

func isWordRune(r rune) bool {
	return r != utf8.RuneError && strings.ContainsRune(wordRunes, r)
}

// scanWordRuns is a bufio.SplitFunc yielding maximal runs of word characters.
// No token contains any other character, so matching each run separately finds
// the same tokens as matching the whole text.
func scanWordRuns(data []byte, atEOF bool) (int, []byte, error) {
	start := 0
	for start < len(data) {
		if !atEOF && !utf8.FullRune(data[start:]) {
			return start, nil, nil
		}
		r, width := utf8.DecodeRune(data[start:])
		if isWordRune(r) {
			break
		}
		start += width
	}

	for i := start; i < len(data); {
		if !atEOF && !utf8.FullRune(data[i:]) {
			return start, nil, nil
		}
		r, width := utf8.DecodeRune(data[i:])
		if !isWordRune(r) {
			return i + width, data[start:i], nil
		}
		i += width
	}

	if atEOF && start < len(data) {
		return len(data), data[start:], nil
	}
	return start, nil, nil
}

// Next returns the next token from the stream. When the stream is exhausted it
// returns io.EOF. Any other error comes from the underlying reader.
func (s *Stream) Next() (Token, error) {
	for len(s.buffer) == 0 {
		if !s.scanner.Scan() {
			if err := s.scanner.Err(); err != nil {
				return "", err
			}
			return "", io.EOF
		}
		s.buffer = wordRegex.FindAllString(s.scanner.Text(), -1)
	}

	word := s.buffer[0]
	s.buffer = s.buffer[1:]
	return Token(word), nil
}

// ReadTokens drains r through a Stream and returns every token it produced.
func ReadTokens(r io.Reader) ([]Token, error) {
	stream := NewStream(r)
	tokens := make([]Token, 0, 1024)
	for {
		token, err := stream.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return tokens, nil
			}
			return nil, fmt.Errorf("tokenizer error after %d tokens: %w", len(tokens), err)
		}
		tokens = append(tokens, token)
	}
}
