package testsupport

import (
	"context"
	"testing"

	"shelver/internal/config"
	"shelver/internal/library"
)

// MustOpenLibrary opens a library.Store for tests and registers cleanup.
func MustOpenLibrary(t testing.TB, cfg *config.Config) *library.Store {
	t.Helper()

	store, err := library.Open(cfg)
	if err != nil {
		t.Fatalf("library.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// AddEbook indexes a book for tests using the provided store.
func AddEbook(t testing.TB, store *library.Store, book library.NewEbook) *library.Ebook {
	t.Helper()

	added, err := store.Add(context.Background(), book)
	if err != nil {
		t.Fatalf("store.Add(%s): %v", book.SourcePath, err)
	}
	return added
}
