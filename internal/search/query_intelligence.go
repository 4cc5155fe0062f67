package search

import (
	"strings"
	"unicode"
)

const maxVariants = 10

type QueryContext struct {
	Original   string
	Normalized string
	Variants   []string
}

// NormalizeQuery lowercases input, drops punctuation and collapses spaces.
func NormalizeQuery(input string) string {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return ""
	}

	b := strings.Builder{}
	b.Grow(len(input))
	for _, r := range input {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-' || r == '/':
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// ExpandQuery returns normalized followed by synonym variants, at most
// maxVariants entries.
func ExpandQuery(normalized string) []string {
	normalized = strings.TrimSpace(normalized)
	if normalized == "" {
		return []string{}
	}

	out := make([]string, 0, maxVariants)
	seen := make(map[string]struct{}, maxVariants)
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	add(normalized)
	for _, syn := range GetSynonyms(normalized) {
		add(syn)
	}

	words := strings.Fields(normalized)

	// "fullstack" also matches titles written "full stack".
	for k := range Synonyms {
		if strings.Contains(k, " ") && strings.ReplaceAll(k, " ", "") == words[0] {
			words = append(strings.Fields(k), words[1:]...)
			add(strings.Join(words, " "))
			break
		}
	}

	// Swap a leading keyword for its synonyms, keeping the rest of the query.
	for n := 1; n <= 2 && n <= len(words); n++ {
		head := strings.Join(words[:n], " ")
		rest := strings.Join(words[n:], " ")
		for _, syn := range GetSynonyms(head) {
			add(syn + " " + rest)
		}
	}
	// And any single keyword anywhere in the query.
	if len(words) > 1 {
		for i, w := range words {
			for _, syn := range GetSynonyms(w) {
				alt := make([]string, 0, len(words))
				alt = append(alt, words[:i]...)
				alt = append(alt, syn)
				alt = append(alt, words[i+1:]...)
				add(strings.Join(alt, " "))
			}
		}
	}

	if len(out) > maxVariants {
		out = out[:maxVariants]
	}
	return out
}

func ProcessQuery(input string) QueryContext {
	qc := QueryContext{Original: input, Normalized: NormalizeQuery(input)}
	qc.Variants = ExpandQuery(qc.Normalized)
	return qc
}
