package textutil

import "testing"

func TestSanitizeClusterLeavesSafeInput(t *testing.T) {
	got, changed := SanitizeCluster("\u00e9")
	if changed || got != "\u00e9" {
		t.Fatalf("expected untouched cluster, got %q changed=%v", got, changed)
	}
}

func TestSanitizeClusterReplacesControlAndFormatting(t *testing.T) {
	got, changed := SanitizeCluster("\x1b")
	if !changed || got != "?" {
		t.Fatalf("expected escape to become '?', got %q changed=%v", got, changed)
	}
	got, changed = SanitizeCluster(string(rune(0x202E)))
	if !changed || got != "·" {
		t.Fatalf("expected RLO to become '·', got %q changed=%v", got, changed)
	}
}

func TestTrimmedLen(t *testing.T) {
	if got := TrimmedLen("  \n\t "); got != 0 {
		t.Fatalf("TrimmedLen(blank)=%d want 0", got)
	}
	if got := TrimmedLen(" ab c "); got != 4 {
		t.Fatalf("TrimmedLen=%d want 4", got)
	}
}

func TestSanitizeText(t *testing.T) {
	if got := SanitizeText("/tmp/page.html"); got != "/tmp/page.html" {
		t.Fatalf("expected path untouched, got %q", got)
	}
	if got := SanitizeText("a\nb\u200bc"); got != "a?b·c" {
		t.Fatalf("unexpected sanitized text %q", got)
	}
}
