package search

import (
	"sort"
	"strings"
	"time"
)

// Candidate is a posting as seen by the ranker. Text is the plain-text
// description.
type Candidate struct {
	Index       int
	Title       string
	CompanyName string
	Location    string
	Text        string
	SalaryRange string
	Skills      []string
	PostedAt    time.Time
}

type Score struct {
	Relevance    float64
	Freshness    float64
	Completeness float64
	Final        float64
}

func ComputeRelevance(c Candidate, variants []string) float64 {
	if len(variants) == 0 {
		return 0
	}

	title := NormalizeQuery(c.Title)
	text := NormalizeQuery(c.Text)
	company := NormalizeQuery(c.CompanyName)
	location := NormalizeQuery(c.Location)
	skills := NormalizeQuery(strings.Join(c.Skills, " "))

	score := 0.0
	for _, v := range variants {
		v = NormalizeQuery(v)
		if v == "" {
			continue
		}
		if strings.Contains(title, v) {
			score += 3
		}
		if strings.Contains(skills, v) {
			score += 2
		}
		if strings.Contains(text, v) {
			score++
		}
		if strings.Contains(company, v) || strings.Contains(location, v) {
			score++
		}
		if score >= 10 {
			return 10
		}
	}
	return score
}

func ComputeFreshness(c Candidate, now time.Time) float64 {
	if c.PostedAt.IsZero() {
		return 0
	}
	age := now.Sub(c.PostedAt)
	if age < 0 {
		age = 0
	}

	switch {
	case age <= 24*time.Hour:
		return 5
	case age <= 3*24*time.Hour:
		return 4
	case age <= 7*24*time.Hour:
		return 3
	case age <= 14*24*time.Hour:
		return 2
	case age <= 30*24*time.Hour:
		return 1
	default:
		return 0
	}
}

// ComputeCompleteness rewards postings that fill in the optional fields.
func ComputeCompleteness(c Candidate) float64 {
	score := 0.0
	if strings.TrimSpace(c.Location) != "" {
		score++
	}
	if strings.TrimSpace(c.SalaryRange) != "" {
		score++
	}
	if len(c.Skills) > 0 {
		score++
	}
	if len(strings.TrimSpace(c.Text)) > 100 {
		score++
	}
	return score
}

func ScoreCandidate(c Candidate, variants []string, now time.Time) Score {
	rel := ComputeRelevance(c, variants)
	fresh := ComputeFreshness(c, now)
	comp := ComputeCompleteness(c)
	return Score{
		Relevance:    rel,
		Freshness:    fresh,
		Completeness: comp,
		Final:        rel*2.0 + fresh*1.5 + comp*0.5,
	}
}

// Rank orders candidates by score, highest first. Ties keep input order,
// and nothing moves when no candidate is relevant to the query.
func Rank(cands []Candidate, variants []string, now time.Time) []Candidate {
	if len(cands) == 0 || len(variants) == 0 {
		return cands
	}

	type scored struct {
		c     Candidate
		rel   float64
		score float64
	}
	items := make([]scored, len(cands))
	anyRelevant := false
	for i, c := range cands {
		s := ScoreCandidate(c, variants, now)
		items[i] = scored{c: c, rel: s.Relevance, score: s.Final}
		if s.Relevance > 0 {
			anyRelevant = true
		}
	}
	if !anyRelevant {
		return cands
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].score > items[j].score
	})

	out := make([]Candidate, 0, len(items))
	for _, it := range items {
		out = append(out, it.c)
	}
	return out
}
