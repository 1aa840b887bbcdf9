package overrides_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shelver/internal/classifier"
	"shelver/internal/overrides"
	"shelver/internal/services"
	"shelver/internal/taxonomy"
)

func testTaxonomy(t *testing.T) *taxonomy.Taxonomy {
	t.Helper()
	tax, err := taxonomy.New([]taxonomy.Category{
		{Name: "Fiction", SubGenres: []taxonomy.SubGenre{{Name: "Fantasy"}, {Name: "Mystery"}}},
		{Name: "Reference", SubGenres: []taxonomy.SubGenre{{Name: "Dictionary"}}},
	})
	require.NoError(t, err)
	return tax
}

func TestOverridePrecedenceAndClear(t *testing.T) {
	ledger := overrides.NewLedger(testTaxonomy(t))
	result := classifier.Result{Category: "Fiction", SubGenre: "Fantasy", Source: classifier.SourceEmbedded, Confidence: 1, Author: "Jane Doe"}

	require.NoError(t, ledger.Set(7, taxonomy.Placement{Category: "Reference", SubGenre: "Dictionary"}))

	got := ledger.Effective(7, result)
	assert.Equal(t, "Reference", got.Category)
	assert.Equal(t, "Dictionary", got.SubGenre)
	assert.Equal(t, classifier.SourceOverride, got.Source)
	assert.Equal(t, overrides.OverrideConfidence, got.Confidence)
	assert.Equal(t, "Jane Doe", got.Author)

	assert.Equal(t, got, ledger.Effective(7, result), "reconciliation is idempotent")
	assert.Equal(t, result, ledger.Effective(8, result), "other books are untouched")

	assert.True(t, ledger.Clear(7))
	assert.False(t, ledger.Clear(7))
	assert.Equal(t, result, ledger.Effective(7, result))
}

func TestSetRejectsInvalidPlacement(t *testing.T) {
	ledger := overrides.NewLedger(testTaxonomy(t))

	err := ledger.Set(1, taxonomy.Placement{Category: "Fiction", SubGenre: "Dictionary"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, services.ErrInvalidTaxonomy))
	assert.Zero(t, ledger.Len())

	err = ledger.Set(0, taxonomy.Placement{Category: "Fiction", SubGenre: "Fantasy"})
	assert.True(t, errors.Is(err, services.ErrValidation))
}

func TestEntriesSortedAndClearAll(t *testing.T) {
	ledger := overrides.NewLedger(testTaxonomy(t))
	require.NoError(t, ledger.Set(9, taxonomy.Placement{Category: "Fiction", SubGenre: "Mystery"}))
	require.NoError(t, ledger.Set(2, taxonomy.Placement{Category: "Fiction", SubGenre: "Fantasy"}))

	entries := ledger.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, int64(2), entries[0].EbookID)
	assert.Equal(t, int64(9), entries[1].EbookID)

	ledger.ClearAll()
	assert.Zero(t, ledger.Len())
}

func TestSessionRoundTrip(t *testing.T) {
	tax := testTaxonomy(t)
	path := filepath.Join(t.TempDir(), "session", "overrides.json")

	empty, err := overrides.Load(path, tax)
	require.NoError(t, err)
	assert.Zero(t, empty.Len())

	require.NoError(t, empty.Set(3, taxonomy.Placement{Category: "Reference", SubGenre: "Dictionary"}))
	require.NoError(t, empty.Save(path))

	loaded, err := overrides.Load(path, tax)
	require.NoError(t, err)
	p, ok := loaded.Get(3)
	require.True(t, ok)
	assert.Equal(t, "Reference", p.Category)
}

func TestLoadAcceptsBareArrayWithBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.json")
	body := "\xef\xbb\xbf[{\"ebook_id\": 4, \"category\": \"Fiction\", \"sub_genre\": \"Mystery\"}]"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	ledger, err := overrides.Load(path, testTaxonomy(t))
	require.NoError(t, err)
	p, ok := ledger.Get(4)
	require.True(t, ok)
	assert.Equal(t, "Mystery", p.SubGenre)
}

func TestLoadRejectsInvalidEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.json")
	body := `{"overrides":[{"ebook_id": 4, "category": "Cooking", "sub_genre": "Baking"}]}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	_, err := overrides.Load(path, testTaxonomy(t))
	require.Error(t, err)
	assert.True(t, errors.Is(err, services.ErrInvalidTaxonomy))
}
