package taxonomy

import (
	"fmt"
	"slices"
	"strings"

	"shelver/internal/services"
)

const (
	// Uncategorized is the reserved sentinel category with no sub-genres.
	Uncategorized = "_Uncategorized"
	// Other is the conventional catch-all sub-genre. It is valid for
	// placements when declared but never matched through aliases.
	Other = "Other"
)

// SubGenre is one leaf of the hierarchy with the raw tags that map onto it.
type SubGenre struct {
	Name    string   `toml:"name" json:"name"`
	Aliases []string `toml:"aliases" json:"aliases,omitempty"`
}

// Category is a top-level shelf holding an ordered list of sub-genres.
type Category struct {
	Name      string     `toml:"name" json:"name"`
	SubGenres []SubGenre `toml:"sub_genres" json:"sub_genres"`
}

// Placement is a (category, sub-genre) pair assigned to a book.
type Placement struct {
	Category string `json:"category"`
	SubGenre string `json:"sub_genre"`
}

// UncategorizedPlacement returns the sentinel placement.
func UncategorizedPlacement() Placement {
	return Placement{Category: Uncategorized}
}

// IsZero reports whether the placement carries no category.
func (p Placement) IsZero() bool {
	return strings.TrimSpace(p.Category) == ""
}

// IsUncategorized reports whether the placement is empty or the sentinel.
func (p Placement) IsUncategorized() bool {
	return p.IsZero() || p.Category == Uncategorized
}

func (p Placement) String() string {
	if p.SubGenre == "" {
		return p.Category
	}
	return p.Category + "/" + p.SubGenre
}

// FolderRule maps a lower-case folder name onto a placement.
type FolderRule struct {
	Folder    string
	Placement Placement
}

// KeywordRule maps title keywords onto a placement.
type KeywordRule struct {
	Placement Placement
	Keywords  []string
}

// Option customizes a Taxonomy during construction.
type Option func(*Taxonomy)

// WithFolderRules installs ordered folder-name rules.
func WithFolderRules(rules ...FolderRule) Option {
	return func(t *Taxonomy) {
		t.folderRules = append(t.folderRules, rules...)
	}
}

// WithKeywordRules installs ordered title keyword rules.
func WithKeywordRules(rules ...KeywordRule) Option {
	return func(t *Taxonomy) {
		t.keywordRules = append(t.keywordRules, rules...)
	}
}

// Taxonomy is an immutable Category -> [SubGenre] hierarchy. The reserved
// Uncategorized category is always present.
type Taxonomy struct {
	categories   []Category
	members      map[string]map[string]struct{}
	folderRules  []FolderRule
	keywordRules []KeywordRule
}

// New validates and builds a taxonomy. Category order and sub-genre order are
// preserved because matching walks them in declaration order.
func New(categories []Category, opts ...Option) (*Taxonomy, error) {
	t := &Taxonomy{members: make(map[string]map[string]struct{}, len(categories)+1)}
	for _, category := range categories {
		name := strings.TrimSpace(category.Name)
		if name == "" {
			return nil, invalid("category name is empty")
		}
		if name == Uncategorized {
			return nil, invalid(fmt.Sprintf("%s is reserved", Uncategorized))
		}
		if _, dup := t.members[name]; dup {
			return nil, invalid(fmt.Sprintf("duplicate category %q", name))
		}
		set := make(map[string]struct{}, len(category.SubGenres))
		subs := make([]SubGenre, 0, len(category.SubGenres))
		for _, sub := range category.SubGenres {
			subName := strings.TrimSpace(sub.Name)
			if subName == "" {
				return nil, invalid(fmt.Sprintf("category %q has an empty sub-genre", name))
			}
			if _, dup := set[subName]; dup {
				return nil, invalid(fmt.Sprintf("category %q lists %q twice", name, subName))
			}
			set[subName] = struct{}{}
			subs = append(subs, SubGenre{Name: subName, Aliases: cleanAliases(sub.Aliases)})
		}
		if len(subs) == 0 {
			return nil, invalid(fmt.Sprintf("category %q has no sub-genres", name))
		}
		t.members[name] = set
		t.categories = append(t.categories, Category{Name: name, SubGenres: subs})
	}
	t.members[Uncategorized] = map[string]struct{}{}
	t.categories = append(t.categories, Category{Name: Uncategorized, SubGenres: []SubGenre{}})

	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	for i, rule := range t.folderRules {
		rule.Folder = strings.ToLower(strings.TrimSpace(rule.Folder))
		if rule.Folder == "" {
			return nil, invalid("folder rule has an empty folder name")
		}
		if !t.isRealPlacement(rule.Placement) {
			return nil, invalid(fmt.Sprintf("folder rule %q targets unknown placement %s", rule.Folder, rule.Placement))
		}
		t.folderRules[i] = rule
	}
	for i, rule := range t.keywordRules {
		if !t.isRealPlacement(rule.Placement) {
			return nil, invalid(fmt.Sprintf("keyword rule targets unknown placement %s", rule.Placement))
		}
		keywords := make([]string, 0, len(rule.Keywords))
		for _, kw := range rule.Keywords {
			if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
				keywords = append(keywords, kw)
			}
		}
		rule.Keywords = keywords
		t.keywordRules[i] = rule
	}
	return t, nil
}

// MustNew is New for package-level data known to be valid.
func MustNew(categories []Category, opts ...Option) *Taxonomy {
	t, err := New(categories, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// Tree returns the Category -> [SubGenre] mapping, including Uncategorized
// with an empty list.
func (t *Taxonomy) Tree() map[string][]string {
	tree := make(map[string][]string, len(t.categories))
	for _, category := range t.categories {
		names := make([]string, 0, len(category.SubGenres))
		for _, sub := range category.SubGenres {
			names = append(names, sub.Name)
		}
		tree[category.Name] = names
	}
	return tree
}

// Categories returns the categories in declaration order. Uncategorized is last.
func (t *Taxonomy) Categories() []Category {
	out := make([]Category, len(t.categories))
	for i, category := range t.categories {
		out[i] = Category{Name: category.Name, SubGenres: slices.Clone(category.SubGenres)}
	}
	return out
}

// CategoryNames lists category names in declaration order.
func (t *Taxonomy) CategoryNames() []string {
	names := make([]string, 0, len(t.categories))
	for _, category := range t.categories {
		names = append(names, category.Name)
	}
	return names
}

// HasCategory reports whether name is a category of the taxonomy.
func (t *Taxonomy) HasCategory(name string) bool {
	_, ok := t.members[name]
	return ok
}

// IsValid reports whether (category, subGenre) is a legal placement. The
// sentinel is only valid with an empty sub-genre; every other category
// requires one of its declared sub-genres.
func (t *Taxonomy) IsValid(category, subGenre string) bool {
	if category == Uncategorized {
		return subGenre == ""
	}
	set, ok := t.members[category]
	if !ok {
		return false
	}
	_, ok = set[subGenre]
	return ok
}

// Validate returns ErrInvalidTaxonomy when the placement is not legal.
func (t *Taxonomy) Validate(p Placement) error {
	if t.IsValid(p.Category, p.SubGenre) {
		return nil
	}
	return services.Wrap(services.ErrInvalidTaxonomy, "taxonomy", "validate",
		fmt.Sprintf("%q / %q is not a valid placement", p.Category, p.SubGenre), nil)
}

// FolderRules returns the folder rules in match order.
func (t *Taxonomy) FolderRules() []FolderRule {
	return slices.Clone(t.folderRules)
}

// KeywordRules returns the title keyword rules in match order.
func (t *Taxonomy) KeywordRules() []KeywordRule {
	return slices.Clone(t.keywordRules)
}

// CategoryPriority ranks categories for subject heuristics. Lower wins.
// Unknown categories rank after every declared one.
func (t *Taxonomy) CategoryPriority(category string) int {
	if rank, ok := subjectPriority[category]; ok {
		return rank
	}
	for i, c := range t.categories {
		if c.Name == category {
			return len(subjectPriority) + i + 1
		}
	}
	return len(subjectPriority) + len(t.categories) + 1
}

func (t *Taxonomy) isRealPlacement(p Placement) bool {
	return p.Category != Uncategorized && t.IsValid(p.Category, p.SubGenre)
}

func cleanAliases(aliases []string) []string {
	out := make([]string, 0, len(aliases))
	for _, alias := range aliases {
		if alias = strings.TrimSpace(alias); alias != "" {
			out = append(out, alias)
		}
	}
	return out
}

func invalid(message string) error {
	return services.Wrap(services.ErrConfiguration, "taxonomy", "build", message, nil)
}
