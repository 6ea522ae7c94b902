package moderation

import (
	"bufio"
	"os"
	"strings"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

// Moderator masks censored words in message text before it is stored.
// Matching is case-insensitive and ignores punctuation and spacing inside
// words, so spaced-out variants of a censored word are still caught.
type Moderator struct {
	matcher    *goahocorasick.Machine
	censorChar rune
}

// NewModerator builds the Aho-Corasick automaton from the given word list.
func NewModerator(words []string, censorChar rune) (*Moderator, error) {
	patterns := make([][]rune, 0, len(words))
	for _, word := range words {
		normalized := normalize([]rune(word), nil)
		if len(normalized) > 0 {
			patterns = append(patterns, normalized)
		}
	}

	machine := new(goahocorasick.Machine)
	if err := machine.Build(patterns); err != nil {
		return nil, err
	}
	return &Moderator{matcher: machine, censorChar: censorChar}, nil
}

// NewModeratorFromFile loads one censored word per line, skipping blanks and
// lines starting with '#'.
func NewModeratorFromFile(path string, censorChar rune) (*Moderator, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return NewModerator(words, censorChar)
}

// Censor replaces every character of a matched word with the censor rune,
// leaving surrounding punctuation and spacing intact.
func (m *Moderator) Censor(original string) string {
	origRunes := []rune(original)
	var origIdx []int
	normalized := normalize(origRunes, &origIdx)
	if len(normalized) == 0 {
		return original
	}

	spans := m.matcher.MultiPatternSearch(normalized, false)
	if len(spans) == 0 {
		return original
	}

	for _, span := range spans {
		start := span.Pos
		end := start + len(span.Word)
		if start < 0 || end > len(origIdx) {
			continue
		}
		// Mask only the runes that participated in the match so the
		// spacing and punctuation between them survive.
		for _, oi := range origIdx[start:end] {
			origRunes[oi] = m.censorChar
		}
	}
	return string(origRunes)
}

// normalize lowercases the input and drops punctuation, symbols and spaces.
// When idx is non-nil it records, for each kept rune, its position in the
// original slice so matches can be mapped back.
func normalize(input []rune, idx *[]int) []rune {
	out := make([]rune, 0, len(input))
	for i, r := range input {
		if unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r) {
			continue
		}
		out = append(out, unicode.ToLower(r))
		if idx != nil {
			*idx = append(*idx, i)
		}
	}
	return out
}
