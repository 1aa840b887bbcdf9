package library_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shelver/internal/library"
	"shelver/internal/services"
	"shelver/internal/taxonomy"
	"shelver/internal/testsupport"
)

func TestAddAndGet(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLibrary(t, cfg)
	ctx := context.Background()

	book, err := store.Add(ctx, library.NewEbook{
		SourcePath: "/books/Dune.EPUB",
		Title:      "Dune",
		Author:     "Frank Herbert",
		Subjects:   []string{"Science Fiction", "Deserts"},
	})
	require.NoError(t, err)
	assert.NotZero(t, book.ID)
	assert.Equal(t, "epub", book.Format)
	assert.False(t, book.IsClassified())
	assert.True(t, book.Placement().IsUncategorized())
	assert.Equal(t, []string{"Science Fiction", "Deserts"}, book.Subjects)
	assert.False(t, book.CreatedAt.IsZero())

	_, err = store.Add(ctx, library.NewEbook{SourcePath: "/books/Dune.EPUB"})
	assert.True(t, errors.Is(err, services.ErrValidation), "duplicate path rejected")

	_, err = store.Get(ctx, 9999)
	assert.True(t, errors.Is(err, services.ErrNotFound))

	missing, err := store.GetByPath(ctx, "/books/none.pdf")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestScopeFiltering(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLibrary(t, cfg)
	ctx := context.Background()

	for _, path := range []string{
		"/books/fiction/a.epub",
		"/books/fiction/deep/b.epub",
		"/books/fiction_extra/c.epub",
		"/books/reference/d.pdf",
	} {
		testsupport.AddEbook(t, store, library.NewEbook{SourcePath: path})
	}

	scoped, err := store.List(ctx, "/books/fiction/")
	require.NoError(t, err)
	require.Len(t, scoped, 2)
	assert.Equal(t, "/books/fiction/a.epub", scoped[0].SourcePath)
	assert.Equal(t, "/books/fiction/deep/b.epub", scoped[1].SourcePath)

	all, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 4)

	limited, err := store.ListUnclassified(ctx, "/books", 3)
	require.NoError(t, err)
	assert.Len(t, limited, 3)
}

func TestSetClassificationAndUncategorized(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLibrary(t, cfg)
	ctx := context.Background()

	a := testsupport.AddEbook(t, store, library.NewEbook{SourcePath: "/books/a.epub"})
	b := testsupport.AddEbook(t, store, library.NewEbook{SourcePath: "/books/b.epub"})

	updated, err := store.SetClassification(ctx, a.ID, "Fiction", "Fantasy")
	require.NoError(t, err)
	assert.Equal(t, "Fiction", updated.Category)
	assert.Equal(t, "Fantasy", updated.SubGenre)

	unclassified, err := store.ListUnclassified(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, unclassified, 1)
	assert.Equal(t, b.ID, unclassified[0].ID)

	cleared, err := store.SetClassification(ctx, a.ID, taxonomy.Uncategorized, "")
	require.NoError(t, err)
	assert.False(t, cleared.IsClassified())
	assert.Empty(t, cleared.SubGenre)

	count, err := store.CountUnclassified(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	_, err = store.SetClassification(ctx, 4242, "Fiction", "Fantasy")
	assert.True(t, errors.Is(err, services.ErrNotFound))
}

func TestUpdatePath(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLibrary(t, cfg)
	ctx := context.Background()

	book := testsupport.AddEbook(t, store, library.NewEbook{SourcePath: "/books/a.epub"})
	require.NoError(t, store.UpdatePath(ctx, book.ID, "/lib/Fiction/Fantasy/Unknown Author/a.epub"))

	moved, err := store.GetByPath(ctx, "/lib/Fiction/Fantasy/Unknown Author/a.epub")
	require.NoError(t, err)
	require.NotNil(t, moved)
	assert.Equal(t, book.ID, moved.ID)

	assert.True(t, errors.Is(store.UpdatePath(ctx, 999, "/x.epub"), services.ErrNotFound))
	assert.True(t, errors.Is(store.UpdatePath(ctx, book.ID, " "), services.ErrValidation))
}

func TestListByIDsPreservesOrder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLibrary(t, cfg)

	a := testsupport.AddEbook(t, store, library.NewEbook{SourcePath: "/books/a.epub"})
	b := testsupport.AddEbook(t, store, library.NewEbook{SourcePath: "/books/b.epub"})
	c := testsupport.AddEbook(t, store, library.NewEbook{SourcePath: "/books/c.epub"})

	books, err := store.ListByIDs(context.Background(), []int64{c.ID, 777, a.ID, c.ID})
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, c.ID, books[0].ID)
	assert.Equal(t, a.ID, books[1].ID)
	_ = b
}

func TestStatsAndBrowse(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLibrary(t, cfg)
	ctx := context.Background()

	ids := make([]int64, 0, 3)
	for _, path := range []string{"/books/a.epub", "/books/b.epub", "/books/c.epub"} {
		ids = append(ids, testsupport.AddEbook(t, store, library.NewEbook{SourcePath: path}).ID)
	}
	_, err := store.SetClassification(ctx, ids[0], "Fiction", "Fantasy")
	require.NoError(t, err)
	_, err = store.SetClassification(ctx, ids[1], "Fiction", "Mystery")
	require.NoError(t, err)

	stats, err := store.Stats(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Classified)
	assert.Equal(t, 1, stats.Unclassified)
	assert.Equal(t, 2, stats.ByCategory["Fiction"])
	assert.Equal(t, 1, stats.BySubGenre["Fiction/Fantasy"])
	assert.InDelta(t, 66.7, stats.CoveragePercent, 0.001)

	page, err := store.Browse(ctx, library.BrowseQuery{Category: "Fiction", Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, ids[0], page.Items[0].ID)

	page, err = store.Browse(ctx, library.BrowseQuery{Category: "Fiction", Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, ids[1], page.Items[0].ID)

	page, err = store.Browse(ctx, library.BrowseQuery{Category: taxonomy.Uncategorized})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, library.DefaultBrowseLimit, page.Limit)

	assert.Equal(t, library.MaxBrowseLimit, library.ClampBrowseLimit(10000))
}

func TestMetadataForPath(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLibrary(t, cfg)
	ctx := context.Background()

	testsupport.AddEbook(t, store, library.NewEbook{
		SourcePath: "/books/a.epub",
		Title:      "The Hobbit",
		Author:     "J. R. R. Tolkien",
		Subjects:   []string{"Fantasy"},
	})
	testsupport.AddEbook(t, store, library.NewEbook{SourcePath: "/books/bare.pdf"})

	raw, err := store.MetadataForPath(ctx, "/books/a.epub")
	require.NoError(t, err)
	require.NotNil(t, raw)
	assert.Equal(t, "The Hobbit", raw.Title)
	assert.Equal(t, "J. R. R. Tolkien", raw.PrimaryAuthor())
	assert.Equal(t, []string{"Fantasy"}, raw.Subjects)

	raw, err = store.MetadataForPath(ctx, "/books/bare.pdf")
	require.NoError(t, err)
	assert.Nil(t, raw)

	raw, err = store.MetadataForPath(ctx, "/books/unknown.pdf")
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestImportDir(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLibrary(t, cfg)
	ctx := context.Background()

	root := filepath.Join(testsupport.BaseDir(cfg), "incoming")
	testsupport.WriteFile(t, filepath.Join(root, "Fantasy", "Jane Doe - The Dragon.epub"), 16)
	testsupport.WriteFile(t, filepath.Join(root, "notes.txt"), 16)
	testsupport.WriteFile(t, filepath.Join(root, ".hidden", "skip.epub"), 16)

	result, err := store.ImportDir(ctx, root)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Added)
	assert.Empty(t, result.Errors)

	book, err := store.GetByPath(ctx, filepath.Join(root, "Fantasy", "Jane Doe - The Dragon.epub"))
	require.NoError(t, err)
	require.NotNil(t, book)
	assert.Equal(t, "Jane Doe", book.Author)

	again, err := store.ImportDir(ctx, root)
	require.NoError(t, err)
	assert.Zero(t, again.Added)
	assert.Equal(t, 1, again.Skipped)
}

func TestScopeHelpers(t *testing.T) {
	assert.True(t, library.InScope("", "/anything"))
	assert.True(t, library.InScope("/books", "/books"))
	assert.True(t, library.InScope("/books/", "/books/a.epub"))
	assert.False(t, library.InScope("/books", "/booksellers/a.epub"))

	assert.True(t, library.ScopesOverlap("/books", "/books/fiction"))
	assert.True(t, library.ScopesOverlap("/books/fiction", "/books"))
	assert.True(t, library.ScopesOverlap("", "/books"))
	assert.False(t, library.ScopesOverlap("/books/fiction", "/books/reference"))
}
