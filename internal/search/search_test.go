package search

import (
	"testing"
	"time"
)

func TestNormalizeQuery(t *testing.T) {
	cases := map[string]string{
		"  Senior  GO-Developer!! ": "senior go developer",
		"":                          "",
		"C++ / Rust":                "c rust",
	}
	for in, want := range cases {
		if got := NormalizeQuery(in); got != want {
			t.Fatalf("NormalizeQuery(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestExpandQuery(t *testing.T) {
	got := ExpandQuery("fullstack developer")
	want := map[string]bool{
		"fullstack developer":  false,
		"full stack developer": false,
		"full stack engineer":  false,
	}
	for _, v := range got {
		if _, ok := want[v]; ok {
			want[v] = true
		}
	}
	for v, found := range want {
		if !found {
			t.Fatalf("expected variant %q in %v", v, got)
		}
	}
	if got[0] != "fullstack developer" {
		t.Fatalf("expected the query itself first, got %q", got[0])
	}
	if len(got) > maxVariants {
		t.Fatalf("expected at most %d variants, got %d", maxVariants, len(got))
	}
	if len(ExpandQuery("")) != 0 {
		t.Fatalf("expected no variants for empty query")
	}
}

func TestRank_TitleMatchesFirst(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	cands := []Candidate{
		{Index: 0, Title: "Warehouse Associate", PostedAt: now},
		{Index: 1, Title: "Backend Engineer", PostedAt: now.Add(-2 * 24 * time.Hour)},
		{Index: 2, Title: "Office Manager", Text: "works with the backend team", PostedAt: now},
	}

	out := Rank(cands, ProcessQuery("backend").Variants, now)
	if out[0].Index != 1 {
		t.Fatalf("expected title match first, got %+v", out)
	}
	if out[1].Index != 2 {
		t.Fatalf("expected description match second, got %+v", out)
	}
}

func TestRank_NoRelevanceKeepsOrder(t *testing.T) {
	now := time.Now()
	cands := []Candidate{
		{Index: 0, Title: "A", PostedAt: now.Add(-40 * 24 * time.Hour)},
		{Index: 1, Title: "B", PostedAt: now},
	}
	out := Rank(cands, []string{"zzz"}, now)
	if out[0].Index != 0 || out[1].Index != 1 {
		t.Fatalf("expected input order, got %+v", out)
	}
}

func TestPlainText(t *testing.T) {
	in := `<p>Build <b>Go</b> services.</p><ul><li>Postgres</li><li>Redis</li></ul><script>alert(1)</script>`
	if got := PlainText(in); got != "Build Go services. Postgres Redis" {
		t.Fatalf("unexpected text %q", got)
	}
	if PlainText("   ") != "" {
		t.Fatalf("expected empty text")
	}
}
