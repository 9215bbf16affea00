package babble

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"sort"
	"strings"
)

var (
	// ErrNoStartWord is returned when the model holds no capitalized word to
	// open a sentence with.
	ErrNoStartWord = errors.New("no start word available")
	// ErrNoEndWord is returned when a sentence needs an artificial ending but
	// the model holds no terminal word.
	ErrNoEndWord = errors.New("no end word available")
	// ErrEmptyTokenSequence is returned alongside ErrNoStartWord when the model
	// was built from a text that produced no tokens at all.
	ErrEmptyTokenSequence = errors.New("empty token sequence")
)

// generateOptions Is used by GenerateSentence to configure default options.
type generateOptions struct {
	maxSteps int
	intN     func(int) int
	logger   *slog.Logger
}

// GenerateOption is a function that configures generation parameters.
type GenerateOption func(*generateOptions)

// WithMaxSteps bounds the number of transitions taken by the walk. A value of
// 0 or less leaves the walk unbounded, which may never return on a model
// whose cycles cannot reach a terminal word. When the bound is hit the walk
// stops and the sentence is closed like any other unfinished walk.
func WithMaxSteps(n int) GenerateOption {
	return func(o *generateOptions) { o.maxSteps = n }
}

// WithRand makes every random choice draw from r. A *rand.Rand is not safe for
// concurrent use, so goroutines sharing a Model need their own source.
func WithRand(r *rand.Rand) GenerateOption {
	return func(o *generateOptions) {
		if r != nil {
			o.intN = r.IntN
		}
	}
}

// WithLogger sets the logger used to report how a walk ended. By default all
// logs are discarded.
func WithLogger(logger *slog.Logger) GenerateOption {
	return func(o *generateOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// GenerateSentence walks the model from a random start word and returns the
// generated sentence.
//
// Each step picks a successor of the current word with probability
// proportional to its transition count. The walk stops when the chosen word
// is an end word, when the current word has no successors, or when the
// WithMaxSteps bound is reached. A sentence that does not finish on an end
// word gets one appended, drawn uniformly from the end word multiset.
//
// The returned error wraps ErrNoStartWord or ErrNoEndWord; no partial sentence
// is returned with it.
func GenerateSentence(m *Model, opts ...GenerateOption) (string, error) {
	options := &generateOptions{
		maxSteps: 0,
		intN:     rand.IntN,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(options)
	}

	if len(m.startWords) == 0 {
		if m.Empty() {
			return "", fmt.Errorf("start word selection: %w: %w", ErrNoStartWord, ErrEmptyTokenSequence)
		}
		return "", fmt.Errorf("start word selection: %w", ErrNoStartWord)
	}

	word := m.startWords[options.intN(len(m.startWords))]
	words := []string{word}
	steps := 0

	for {
		if options.maxSteps > 0 && steps >= options.maxSteps {
			options.logger.Debug("Walk stopped by step limit",
				slog.String("last_word", word),
				slog.Int("max_steps", options.maxSteps),
			)
			break
		}

		table, ok := m.successors[word]
		if !ok {
			options.logger.Debug("Walk terminated due to dead-end",
				slog.String("last_word", word),
				slog.Int("steps", steps),
			)
			break
		}

		word = chooseNextWord(table, options.intN)
		words = append(words, word)
		steps++

		if Token(word).Terminal() || m.IsEndWord(word) {
			options.logger.Debug("Walk terminated by end word",
				slog.String("end_word", word),
				slog.Int("steps", steps),
			)
			break
		}
	}

	if !m.IsEndWord(word) {
		if len(m.endWords) == 0 {
			return "", fmt.Errorf("sentence ending after %q: %w", word, ErrNoEndWord)
		}
		ending := m.endWords[options.intN(len(m.endWords))]
		words = append(words, ending)
		options.logger.Debug("Appended artificial ending",
			slog.String("last_word", word),
			slog.String("end_word", ending),
		)
	}

	return strings.TrimSpace(strings.Join(words, " ")), nil
}

// chooseNextWord draws a successor with probability proportional to its count
// by binary searching the running sums for a uniform draw.
func chooseNextWord(table successorTable, intN func(int) int) string {
	draw := intN(table.total())
	// First index whose running sum exceeds draw.
	i := sort.SearchInts(table.cumulative, draw+1)
	return table.words[i]
}
