// Package filter decides whether a talk is superconducting-qubit related.
package filter

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultKeywords is the curated superconducting-qubit vocabulary. Matching
// is substring-based over the combined title+abstract text.
var DefaultKeywords = []string{
	"superconducting qubit",
	"transmon",
	"fluxonium",
	"josephson junction",
	"josephson",
	"circuit qed",
	"cqed",
	"cavity qed",
	"quasiparticle",
	"readout resonator",
	"microwave resonator",
	"parametric amplifier",
	"jpa",
	"jtwpa",
	"purcell",
	"two-level system",
	"tls",
	"andreev",
	"coherence time",
	"t1",
	"t2",
	"cat qubit",
	"kerr cat",
	"gralmonium",
	"granular aluminium",
	"squid",
	"quarton",
	"cz gate",
	"cross resonance",
}

type Matcher struct {
	re *regexp.Regexp
}

func NewMatcher(keywords []string) (*Matcher, error) {
	if len(keywords) == 0 {
		return nil, fmt.Errorf("no keywords")
	}
	parts := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		parts = append(parts, regexp.QuoteMeta(kw))
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("no keywords")
	}
	re, err := regexp.Compile("(?i)" + strings.Join(parts, "|"))
	if err != nil {
		return nil, fmt.Errorf("compile keyword pattern: %w", err)
	}
	return &Matcher{re: re}, nil
}

// Default builds a matcher over DefaultKeywords.
func Default() *Matcher {
	m, err := NewMatcher(DefaultKeywords)
	if err != nil {
		panic(err)
	}
	return m
}

// ForKeywords builds a matcher over a configured keyword list, falling back
// to DefaultKeywords when the list is empty.
func ForKeywords(keywords []string) (*Matcher, error) {
	if len(keywords) == 0 {
		return Default(), nil
	}
	return NewMatcher(keywords)
}

// Match reports whether the title or abstract mentions any keyword,
// case-insensitively.
func (m *Matcher) Match(title, abstract string) bool {
	return m.re.MatchString(title + " " + abstract)
}
