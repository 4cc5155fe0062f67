package application

import "testing"

func TestBadge_KnownStatuses(t *testing.T) {
	seen := map[string]struct{}{}
	for _, s := range Statuses() {
		b := Badge(s)
		if b == DefaultBadge {
			t.Fatalf("status %q mapped to default badge", s)
		}
		if _, dup := seen[b]; dup {
			t.Fatalf("status %q shares badge %q", s, b)
		}
		seen[b] = struct{}{}
	}
}

func TestBadge_CaseInsensitive(t *testing.T) {
	if Badge("Interview") != Badge("interview") {
		t.Fatalf("expected case-insensitive mapping")
	}
	if Badge("  ACCEPTED ") != Badge(StatusAccepted) {
		t.Fatalf("expected trimmed mapping")
	}
}

func TestBadge_Unknown(t *testing.T) {
	for _, s := range []string{"", "withdrawn", "on hold"} {
		if got := Badge(s); got != DefaultBadge {
			t.Fatalf("status %q: expected default badge, got %q", s, got)
		}
	}
}

func TestNormalizeStatus(t *testing.T) {
	s, ok := NormalizeStatus("Reviewed")
	if !ok || s != StatusReviewed {
		t.Fatalf("expected reviewed, got %q ok=%v", s, ok)
	}
	if _, ok := NormalizeStatus("archived"); ok {
		t.Fatalf("expected unknown status")
	}
}
