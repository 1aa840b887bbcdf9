package taxonomy_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shelver/internal/taxonomy"
)

const sampleTaxonomy = `
[[categories]]
name = "Fiction"

[[categories.sub_genres]]
name = "Fantasy"
aliases = ["fantasy", "epic fantasy"]

[[categories.sub_genres]]
name = "Mystery"

[[categories]]
name = "Reference"

[[categories.sub_genres]]
name = "Dictionary"
aliases = ["dictionaries"]

[[folder_rules]]
folder = "Lexicons"
category = "Reference"
sub_genre = "Dictionary"

[[keyword_rules]]
category = "Fiction"
sub_genre = "Mystery"
keywords = ["Whodunit"]
`

func TestParseBuildsOrderedTaxonomy(t *testing.T) {
	tax, err := taxonomy.Parse([]byte(sampleTaxonomy))
	require.NoError(t, err)

	assert.Equal(t, []string{"Fiction", "Reference", taxonomy.Uncategorized}, tax.CategoryNames())
	assert.True(t, tax.IsValid("Reference", "Dictionary"))

	folders := tax.FolderRules()
	require.Len(t, folders, 1)
	assert.Equal(t, "lexicons", folders[0].Folder)

	keywords := tax.KeywordRules()
	require.Len(t, keywords, 1)
	assert.Equal(t, []string{"whodunit"}, keywords[0].Keywords)
}

func TestParseRejectsUnknownRulePlacement(t *testing.T) {
	doc := sampleTaxonomy + `
[[folder_rules]]
folder = "atlases"
category = "Reference"
sub_genre = "Atlas"
`
	_, err := taxonomy.Parse([]byte(doc))
	require.Error(t, err)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := taxonomy.Parse([]byte("[[categories]]\nname = \"A\"\ncolour = \"red\"\n"))
	require.Error(t, err)
}

func TestLoadEmptyPathReturnsBuiltin(t *testing.T) {
	tax, err := taxonomy.Load("")
	require.NoError(t, err)
	assert.True(t, tax.IsValid("Fiction", "Fantasy"))
}

func TestLoadReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taxonomy.toml")
	require.NoError(t, os.WriteFile(path, []byte(sampleTaxonomy), 0o644))

	tax, err := taxonomy.Load(path)
	require.NoError(t, err)
	assert.False(t, tax.HasCategory("Children"))

	_, err = taxonomy.Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}
