package classifier

import (
	"strings"
	"unicode/utf8"

	"shelver/internal/taxonomy"
	"shelver/internal/textutil"
)

// minContainedAliasLength keeps short aliases such as "sf" or "art" from
// matching inside unrelated compound tags.
const minContainedAliasLength = 5

type tagTerm struct {
	placement taxonomy.Placement
	exact     string
	folded    string
}

// tagMatcher maps raw genre and subject tags onto sub-genres. Terms are kept
// in taxonomy order so earlier categories win ties.
type tagMatcher struct {
	tax   *taxonomy.Taxonomy
	terms []tagTerm
}

func newTagMatcher(tax *taxonomy.Taxonomy) *tagMatcher {
	m := &tagMatcher{tax: tax}
	for _, category := range tax.Categories() {
		for _, sub := range category.SubGenres {
			if sub.Name == taxonomy.Other {
				continue
			}
			placement := taxonomy.Placement{Category: category.Name, SubGenre: sub.Name}
			for _, term := range append([]string{sub.Name}, sub.Aliases...) {
				m.terms = append(m.terms, tagTerm{placement: placement, exact: term, folded: textutil.Fold(term)})
			}
		}
	}
	return m
}

// match runs the exact pass then the normalized pass over every tag. With
// loose set it continues with alias containment and the broad
// fiction/non-fiction fallback.
func (m *tagMatcher) match(tags []string, loose bool) (match, bool) {
	usable := usableTags(tags)
	if len(usable) == 0 {
		return match{}, false
	}
	for _, tag := range usable {
		for _, term := range m.terms {
			if tag == term.exact {
				return match{placement: term.placement, confidence: confidenceTagExact}, true
			}
		}
	}
	folded := make([]string, len(usable))
	for i, tag := range usable {
		folded[i] = textutil.Fold(tag)
		for _, term := range m.terms {
			if folded[i] == term.folded {
				return match{placement: term.placement, confidence: confidenceTagNormalized}, true
			}
		}
	}
	if !loose {
		return match{}, false
	}
	for _, tag := range folded {
		for _, term := range m.terms {
			if utf8.RuneCountInString(term.folded) >= minContainedAliasLength && strings.Contains(tag, term.folded) {
				return match{placement: term.placement, confidence: confidenceTagContains}, true
			}
		}
	}
	for _, tag := range folded {
		if placement, ok := m.broad(tag); ok {
			return match{placement: placement, confidence: confidenceTagBroad}, true
		}
	}
	return match{}, false
}

func (m *tagMatcher) broad(tag string) (taxonomy.Placement, bool) {
	var placement taxonomy.Placement
	switch {
	case strings.Contains(tag, "non-fiction") || strings.Contains(tag, "nonfiction"):
		placement = taxonomy.Placement{Category: "Non-Fiction", SubGenre: taxonomy.Other}
	case strings.Contains(tag, "fiction") && !strings.Contains(tag, "non"):
		placement = taxonomy.Placement{Category: "Fiction", SubGenre: taxonomy.Other}
	default:
		return placement, false
	}
	return placement, m.tax.IsValid(placement.Category, placement.SubGenre)
}

// usableTags drops blank, junk, and binary values, splitting compound
// "a; b" tags the way EPUB and PDF extractors commonly emit them.
func usableTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		for _, part := range strings.Split(tag, ";") {
			part = strings.TrimSpace(part)
			if part == "" || !textutil.IsPrintable(part) || taxonomy.IsJunkGenre(part) {
				continue
			}
			out = append(out, part)
		}
	}
	return out
}
