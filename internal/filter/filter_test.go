package filter

import "testing"

func TestDefault_MatchesKnownTerms(t *testing.T) {
	t.Parallel()

	m := Default()

	cases := []struct {
		title    string
		abstract string
		want     bool
	}{
		{"Transmon readout fidelity", "", true},
		{"TRANSMON READOUT", "", true},
		{"Soft matter dynamics", "We study granular aluminium films.", true},
		{"Fluxonium two-qubit gates", "cross resonance scheme", true},
		{"Polymer physics", "Rheology of entangled melts.", false},
		{"", "", false},
	}
	for _, tc := range cases {
		if got := m.Match(tc.title, tc.abstract); got != tc.want {
			t.Fatalf("Match(%q, %q) = %v, want %v", tc.title, tc.abstract, got, tc.want)
		}
	}
}

func TestNewMatcher_CustomKeywords(t *testing.T) {
	t.Parallel()

	m, err := NewMatcher([]string{"ion trap", "rydberg"})
	if err != nil {
		t.Fatalf("NewMatcher error: %v", err)
	}
	if !m.Match("Rydberg arrays", "") {
		t.Fatalf("expected custom keyword to match")
	}
	if m.Match("Transmon qubits", "") {
		t.Fatalf("custom matcher should not use the default vocabulary")
	}
}

func TestForKeywords_CustomList(t *testing.T) {
	t.Parallel()

	m, err := ForKeywords([]string{"graphene"})
	if err != nil {
		t.Fatalf("ForKeywords error: %v", err)
	}
	if !m.Match("Graphene moire devices", "") {
		t.Fatalf("expected configured keyword to match")
	}
	if m.Match("Transmon readout", "") {
		t.Fatalf("configured list should replace the default vocabulary")
	}
}

func TestForKeywords_EmptyFallsBackToDefault(t *testing.T) {
	t.Parallel()

	m, err := ForKeywords(nil)
	if err != nil {
		t.Fatalf("ForKeywords error: %v", err)
	}
	if !m.Match("Transmon readout", "") {
		t.Fatalf("empty list should fall back to the default vocabulary")
	}
}

func TestNewMatcher_EscapesMetaChars(t *testing.T) {
	t.Parallel()

	m, err := NewMatcher([]string{"t1 (relaxation)"})
	if err != nil {
		t.Fatalf("NewMatcher error: %v", err)
	}
	if !m.Match("Measuring T1 (relaxation) times", "") {
		t.Fatalf("expected literal match of keyword with parens")
	}
}

func TestNewMatcher_Empty(t *testing.T) {
	t.Parallel()

	if _, err := NewMatcher(nil); err == nil {
		t.Fatalf("expected error for empty keyword list")
	}
	if _, err := NewMatcher([]string{"  ", ""}); err == nil {
		t.Fatalf("expected error for blank keywords")
	}
}
