package api_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shelver/internal/api"
	"shelver/internal/batch"
	"shelver/internal/classifier"
	"shelver/internal/config"
	"shelver/internal/library"
	"shelver/internal/metadata"
	"shelver/internal/metrics"
	"shelver/internal/services"
	"shelver/internal/taxonomy"
	"shelver/internal/testsupport"
)

type fixture struct {
	cfg   *config.Config
	store *library.Store
	svc   *api.Service
	base  string
}

func newFixture(t *testing.T, opts ...testsupport.ConfigOption) fixture {
	t.Helper()
	cfg := testsupport.NewConfig(t, opts...)
	cfg.Metrics.Textfile = filepath.Join(cfg.Paths.DataDir, "metrics", "shelver.prom")
	store := testsupport.MustOpenLibrary(t, cfg)
	tax := taxonomy.MustNew([]taxonomy.Category{
		{Name: "Fiction", SubGenres: []taxonomy.SubGenre{{Name: "Fantasy"}, {Name: "Mystery"}}},
		{Name: "Reference", SubGenres: []taxonomy.SubGenre{{Name: "Dictionary"}}},
	})
	cls := classifier.New(tax, classifier.WithReader(metadata.NewIndexReader(store, nil)))
	coord := batch.New(store, cls, batch.WithLockDir(cfg.Paths.LockDir))
	return fixture{
		cfg:   cfg,
		store: store,
		svc:   api.NewService(cfg, tax, store, coord, api.WithMetrics(metrics.New())),
		base:  testsupport.BaseDir(cfg),
	}
}

func (f fixture) add(t *testing.T, rel string, subjects ...string) library.Ebook {
	t.Helper()
	path := filepath.Join(f.base, "books", rel)
	testsupport.WriteFile(t, path, 16)
	return *testsupport.AddEbook(t, f.store, library.NewEbook{SourcePath: path, Author: "Jane Doe", Subjects: subjects})
}

func TestGetTaxonomy(t *testing.T) {
	f := newFixture(t)
	tree := f.svc.GetTaxonomy()
	assert.Equal(t, []string{"Fantasy", "Mystery"}, tree["Fiction"])
	assert.Contains(t, tree, taxonomy.Uncategorized)
}

func TestSetClassification(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	book := f.add(t, "a.epub")

	_, err := f.svc.SetClassification(ctx, api.SetClassificationInput{EbookID: book.ID, Category: "Fiction", SubGenre: "Dictionary"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, services.ErrInvalidTaxonomy))
	stored, err := f.store.Get(ctx, book.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsClassified(), "invalid placement must not be written")

	dto, err := f.svc.SetClassification(ctx, api.SetClassificationInput{EbookID: book.ID, Category: "Fiction", SubGenre: "Mystery"})
	require.NoError(t, err)
	require.NotNil(t, dto.Category)
	assert.Equal(t, "Fiction", *dto.Category)
	assert.Equal(t, "Mystery", *dto.SubGenre)

	_, err = f.svc.SetClassification(ctx, api.SetClassificationInput{EbookID: 9999, Category: "Fiction", SubGenre: "Mystery"})
	assert.True(t, errors.Is(err, services.ErrNotFound))
}

func TestSetClassificationValidatesInput(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.SetClassification(context.Background(), api.SetClassificationInput{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, services.ErrValidation))
	assert.Contains(t, err.Error(), "category is required")
	assert.Contains(t, err.Error(), "ebook_id must be greater than 0")
}

func TestBatchClassifyRejectsInvalidOverride(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	book := f.add(t, "a.epub", "fantasy")

	_, err := f.svc.BatchClassify(ctx, api.BatchClassifyInput{
		Overrides: []api.OverrideInput{{EbookID: book.ID, Category: "Reference", SubGenre: "Fantasy"}},
	}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, services.ErrInvalidTaxonomy))

	stored, err := f.store.Get(ctx, book.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsClassified())
}

func TestBatchClassifyAppliesOverridesAndExportsMetrics(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.add(t, "a.epub", "fantasy")
	b := f.add(t, "b.epub", "fantasy")

	result, err := f.svc.BatchClassify(ctx, api.BatchClassifyInput{
		Overrides: []api.OverrideInput{{EbookID: b.ID, Category: "Reference", SubGenre: "Dictionary"}},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, result.NewlyClassified)
	assert.Equal(t, batch.Placement{Category: "Fiction", SubGenre: "Fantasy"}, result.Classifications[a.SourcePath])
	assert.Equal(t, batch.Placement{Category: "Reference", SubGenre: "Dictionary"}, result.Classifications[b.SourcePath])

	data, err := os.ReadFile(f.cfg.Metrics.Textfile)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "shelver_"), "textfile holds shelver metrics")
}

func TestPreviewClassificationValidatesLimit(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.PreviewClassification(context.Background(), api.PreviewClassificationInput{Limit: -1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, services.ErrValidation))
}

func TestReorganizeUsesConfiguredDefaults(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	book := f.add(t, "a.epub", "fantasy")
	_, err := f.svc.BatchClassify(ctx, api.BatchClassifyInput{}, nil)
	require.NoError(t, err)

	plan, err := f.svc.PreviewReorganize(ctx, api.ReorganizeInput{})
	require.NoError(t, err)
	require.Len(t, plan.Moves, 1)
	want := filepath.Join(f.cfg.Reorganize.Destination, "Fiction", "Fantasy", "Jane Doe", "a.epub")
	assert.Equal(t, want, plan.Moves[0].TargetPath)

	result, err := f.svc.ApplyReorganize(ctx, api.ReorganizeInput{Operation: "copy"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Succeeded)
	assert.FileExists(t, want)
	assert.FileExists(t, book.SourcePath, "copy keeps the source")

	stored, err := f.store.Get(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, book.SourcePath, stored.SourcePath)
}

func TestReorganizeInputValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.PreviewReorganize(ctx, api.ReorganizeInput{Operation: "shuffle"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, services.ErrValidation))
	assert.Contains(t, err.Error(), "operation must be one of: move copy")

	f.cfg.Reorganize.Destination = ""
	_, err = f.svc.PreviewReorganize(ctx, api.ReorganizeInput{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "destination is required")
}

func TestFromEbookNullPlacement(t *testing.T) {
	dto := api.FromEbook(library.Ebook{ID: 3, SourcePath: "/books/a.epub", Title: "A"})
	assert.Nil(t, dto.Category)
	assert.Nil(t, dto.SubGenre)
	assert.Empty(t, dto.CreatedAt)
}
