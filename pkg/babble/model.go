package babble

import (
	"encoding/json"
	"io"
	"maps"
	"slices"
)

// Model is the adjacency model of a token sequence: a weighted directed graph
// of word -> next word transition counts, plus the start and end word
// multisets. A Model is never mutated after BuildModel returns it and may be
// shared between goroutines.
type Model struct {
	transitions map[string]map[string]int
	successors  map[string]successorTable
	startWords  []string
	endWords    []string
	endSet      map[string]struct{}
	tokenCount  int
}

// successorTable holds the successors of one word sorted by text, with the
// running sum of their counts. cumulative[i] is the total count of words[0..i].
type successorTable struct {
	words      []string
	cumulative []int
}

func (s successorTable) total() int {
	if len(s.cumulative) == 0 {
		return 0
	}
	return s.cumulative[len(s.cumulative)-1]
}

// ExportedModel is the serializable representation of a Model.
type ExportedModel struct {
	Graph      map[string]map[string]int `json:"graph"`
	StartWords []string                  `json:"start_words"`
	EndWords   []string                  `json:"end_words"`
}

// BuildModel builds the adjacency model of tokens in a single pass. For every
// consecutive pair the transition count is incremented once; every token,
// the last one included, is checked for the start and end word roles. An
// empty sequence produces an empty model.
func BuildModel(tokens []Token) *Model {
	m := &Model{
		transitions: make(map[string]map[string]int),
		startWords:  []string{},
		endWords:    []string{},
		endSet:      make(map[string]struct{}),
		tokenCount:  len(tokens),
	}

	for i, token := range tokens {
		word := string(token)
		if i < len(tokens)-1 {
			next, ok := m.transitions[word]
			if !ok {
				next = make(map[string]int)
				m.transitions[word] = next
			}
			next[string(tokens[i+1])]++
		}

		if token.Capitalized() {
			m.startWords = append(m.startWords, word)
		}
		if token.Terminal() {
			m.endWords = append(m.endWords, word)
			m.endSet[word] = struct{}{}
		}
	}

	m.successors = make(map[string]successorTable, len(m.transitions))
	for word, next := range m.transitions {
		words := slices.Sorted(maps.Keys(next))
		cumulative := make([]int, len(words))
		sum := 0
		for i, w := range words {
			sum += next[w]
			cumulative[i] = sum
		}
		m.successors[word] = successorTable{words: words, cumulative: cumulative}
	}

	return m
}

// Count returns how many times to followed from in the source sequence.
func (m *Model) Count(from, to string) int {
	return m.transitions[from][to]
}

// Successors returns a copy of the successor counts of word, or nil if the
// word has no outgoing transitions.
func (m *Model) Successors(word string) map[string]int {
	next, ok := m.transitions[word]
	if !ok {
		return nil
	}
	return maps.Clone(next)
}

// StartWords returns a copy of the start word multiset in source order.
func (m *Model) StartWords() []string {
	return slices.Clone(m.startWords)
}

// EndWords returns a copy of the end word multiset in source order.
func (m *Model) EndWords() []string {
	return slices.Clone(m.endWords)
}

// IsEndWord reports whether word is a member of the end word multiset.
func (m *Model) IsEndWord(word string) bool {
	_, ok := m.endSet[word]
	return ok
}

// Len returns the number of distinct words with at least one successor.
func (m *Model) Len() int {
	return len(m.transitions)
}

// Empty reports whether the model was built from an empty token sequence.
func (m *Model) Empty() bool {
	return m.tokenCount == 0
}

// Exported returns a deep copy of the model contents.
func (m *Model) Exported() ExportedModel {
	graph := make(map[string]map[string]int, len(m.transitions))
	for word, next := range m.transitions {
		graph[word] = maps.Clone(next)
	}
	return ExportedModel{
		Graph:      graph,
		StartWords: m.StartWords(),
		EndWords:   m.EndWords(),
	}
}

// Export writes the model to w as indented JSON.
func (m *Model) Export(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(m.Exported())
}
