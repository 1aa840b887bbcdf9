package taxonomy_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shelver/internal/services"
	"shelver/internal/taxonomy"
)

func smallTaxonomy(t *testing.T) *taxonomy.Taxonomy {
	t.Helper()
	tax, err := taxonomy.New([]taxonomy.Category{
		{Name: "Fiction", SubGenres: []taxonomy.SubGenre{{Name: "Fantasy"}, {Name: "Mystery"}}},
		{Name: "Reference", SubGenres: []taxonomy.SubGenre{{Name: "Dictionary"}}},
	})
	require.NoError(t, err)
	return tax
}

func TestTreeIncludesUncategorizedSentinel(t *testing.T) {
	tree := smallTaxonomy(t).Tree()

	assert.Equal(t, []string{"Fantasy", "Mystery"}, tree["Fiction"])
	assert.Equal(t, []string{"Dictionary"}, tree["Reference"])
	sentinel, ok := tree[taxonomy.Uncategorized]
	require.True(t, ok)
	assert.Empty(t, sentinel)
}

func TestIsValid(t *testing.T) {
	tax := smallTaxonomy(t)

	assert.True(t, tax.IsValid("Fiction", "Fantasy"))
	assert.True(t, tax.IsValid(taxonomy.Uncategorized, ""))
	assert.False(t, tax.IsValid(taxonomy.Uncategorized, "Fantasy"))
	assert.False(t, tax.IsValid("Fiction", "Dictionary"))
	assert.False(t, tax.IsValid("Fiction", ""))
	assert.False(t, tax.IsValid("Fiction", taxonomy.Other), "Other is only valid when declared")
	assert.False(t, tax.IsValid("Poetry", "Fantasy"))
}

func TestValidateReturnsInvalidTaxonomy(t *testing.T) {
	tax := smallTaxonomy(t)

	require.NoError(t, tax.Validate(taxonomy.Placement{Category: "Reference", SubGenre: "Dictionary"}))
	err := tax.Validate(taxonomy.Placement{Category: "Reference", SubGenre: "Atlas"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, services.ErrInvalidTaxonomy))
}

func TestNewRejectsMalformedHierarchies(t *testing.T) {
	cases := map[string][]taxonomy.Category{
		"reserved":  {{Name: taxonomy.Uncategorized, SubGenres: []taxonomy.SubGenre{{Name: "x"}}}},
		"duplicate": {{Name: "A", SubGenres: []taxonomy.SubGenre{{Name: "x"}}}, {Name: "A", SubGenres: []taxonomy.SubGenre{{Name: "y"}}}},
		"empty sub": {{Name: "A", SubGenres: []taxonomy.SubGenre{{Name: " "}}}},
		"no subs":   {{Name: "A"}},
		"dup sub":   {{Name: "A", SubGenres: []taxonomy.SubGenre{{Name: "x"}, {Name: "x"}}}},
	}
	for name, categories := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := taxonomy.New(categories)
			require.Error(t, err)
			assert.True(t, errors.Is(err, services.ErrConfiguration))
		})
	}
}

func TestNewRejectsRulesOutsideHierarchy(t *testing.T) {
	categories := []taxonomy.Category{{Name: "A", SubGenres: []taxonomy.SubGenre{{Name: "x"}}}}

	_, err := taxonomy.New(categories, taxonomy.WithFolderRules(taxonomy.FolderRule{
		Folder: "b", Placement: taxonomy.Placement{Category: "B", SubGenre: "x"},
	}))
	require.Error(t, err)

	_, err = taxonomy.New(categories, taxonomy.WithKeywordRules(taxonomy.KeywordRule{
		Placement: taxonomy.Placement{Category: taxonomy.Uncategorized},
		Keywords:  []string{"anything"},
	}))
	require.Error(t, err)
}

func TestBuiltinLayout(t *testing.T) {
	tax := taxonomy.Builtin()

	assert.Equal(t, []string{
		"Fiction", "Non-Fiction", "Children", "Comics & Graphic Novels", "Reference", taxonomy.Uncategorized,
	}, tax.CategoryNames())
	for _, category := range tax.Categories() {
		if category.Name == taxonomy.Uncategorized {
			continue
		}
		last := category.SubGenres[len(category.SubGenres)-1]
		assert.Equal(t, taxonomy.Other, last.Name, category.Name)
		assert.Empty(t, last.Aliases, category.Name)
	}
	assert.True(t, tax.IsValid("Comics & Graphic Novels", "Indian Comics"))
	assert.NotEmpty(t, tax.FolderRules())
	assert.NotEmpty(t, tax.KeywordRules())
	assert.Less(t, tax.CategoryPriority("Non-Fiction"), tax.CategoryPriority("Fiction"))
	assert.Less(t, tax.CategoryPriority("Reference"), tax.CategoryPriority("Unknown"))
}

func TestCategoriesReturnsCopies(t *testing.T) {
	tax := taxonomy.Builtin()
	categories := tax.Categories()
	categories[0].SubGenres[0].Name = "Mutated"

	assert.Equal(t, "Fantasy", tax.Categories()[0].SubGenres[0].Name)
}

func TestIsJunkGenre(t *testing.T) {
	junk := []string{
		"", "  ", "http://example.com", "www.example.com", "Digitized by archive.org",
		"IndirectObject(12, 0)", "1984", "ab",
		"United States -- History -- Civil War, 1861-1865",
		"A long description of the plot that keeps going well past any sensible genre",
	}
	for _, value := range junk {
		assert.True(t, taxonomy.IsJunkGenre(value), value)
	}
	for _, value := range []string{"fantasy", "Science Fiction", "sf-x", "Biography & Autobiography"} {
		assert.False(t, taxonomy.IsJunkGenre(value), value)
	}
}
