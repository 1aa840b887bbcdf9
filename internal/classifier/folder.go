package classifier

import (
	"path/filepath"
	"strings"
	"unicode/utf8"

	"shelver/internal/taxonomy"
	"shelver/internal/textutil"
)

type folderMatcher struct {
	tax        *taxonomy.Taxonomy
	categories map[string]string
	subGenres  map[string][]taxonomy.Placement
	rules      []taxonomy.FolderRule
}

func newFolderMatcher(tax *taxonomy.Taxonomy) *folderMatcher {
	m := &folderMatcher{
		tax:        tax,
		categories: make(map[string]string),
		subGenres:  make(map[string][]taxonomy.Placement),
	}
	for _, category := range tax.Categories() {
		if category.Name == taxonomy.Uncategorized {
			continue
		}
		m.categories[textutil.Fold(category.Name)] = category.Name
		for _, sub := range category.SubGenres {
			if sub.Name == taxonomy.Other {
				continue
			}
			key := textutil.Fold(sub.Name)
			m.subGenres[key] = append(m.subGenres[key], taxonomy.Placement{Category: category.Name, SubGenre: sub.Name})
		}
	}
	for _, rule := range tax.FolderRules() {
		rule.Folder = textutil.Fold(rule.Folder)
		m.rules = append(m.rules, rule)
	}
	return m
}

// match walks the parent directories of path nearest-first. The first
// segment that says anything decides; within a segment the more specific
// evidence wins.
func (m *folderMatcher) match(path string) (match, bool) {
	segments := parentSegments(path)
	for i, segment := range segments {
		parent := ""
		if i+1 < len(segments) {
			parent = segments[i+1]
		}
		if found, ok := m.matchSegment(segment, parent); ok {
			return found, true
		}
	}
	return match{}, false
}

func (m *folderMatcher) matchSegment(segment, parent string) (match, bool) {
	if candidates, ok := m.subGenres[segment]; ok {
		if category, known := m.categories[parent]; known {
			for _, placement := range candidates {
				if placement.Category == category {
					return match{placement: placement, confidence: confidenceFolderPair}, true
				}
			}
		}
		if len(candidates) == 1 {
			return match{placement: candidates[0], confidence: confidenceFolderSubGenre}, true
		}
	}
	for _, rule := range m.rules {
		if segment == rule.Folder {
			return match{placement: rule.Placement, confidence: confidenceFolderRule}, true
		}
	}
	for _, rule := range m.rules {
		if utf8.RuneCountInString(rule.Folder) >= minContainedAliasLength && strings.Contains(segment, rule.Folder) {
			return match{placement: rule.Placement, confidence: confidenceFolderRuleContain}, true
		}
	}
	if category, ok := m.categories[segment]; ok {
		placement := taxonomy.Placement{Category: category, SubGenre: taxonomy.Other}
		if m.tax.IsValid(placement.Category, placement.SubGenre) {
			return match{placement: placement, confidence: confidenceFolderCategory}, true
		}
	}
	return match{}, false
}

// parentSegments returns folded directory names of path, nearest first.
func parentSegments(path string) []string {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	dir := filepath.Dir(filepath.Clean(path))
	var segments []string
	for {
		name := filepath.Base(dir)
		if name == "" || name == "." || name == string(filepath.Separator) {
			break
		}
		if folded := textutil.Fold(name); folded != "" {
			segments = append(segments, folded)
		}
		next := filepath.Dir(dir)
		if next == dir {
			break
		}
		dir = next
	}
	return segments
}
