package overrides

import (
	"fmt"
	"slices"
	"sync"

	"shelver/internal/classifier"
	"shelver/internal/services"
	"shelver/internal/taxonomy"
)

// OverrideConfidence is reported for placements chosen by hand.
const OverrideConfidence = 1.0

// Entry is one manual placement for an ebook.
type Entry struct {
	EbookID  int64  `json:"ebook_id"`
	Category string `json:"category"`
	SubGenre string `json:"sub_genre"`
}

// Placement returns the entry's (category, sub-genre) pair.
func (e Entry) Placement() taxonomy.Placement {
	return taxonomy.Placement{Category: e.Category, SubGenre: e.SubGenre}
}

// Ledger holds the manual placements of one classification session. It is
// safe for concurrent use; the zero value is not usable, call NewLedger.
type Ledger struct {
	tax     *taxonomy.Taxonomy
	mu      sync.RWMutex
	entries map[int64]taxonomy.Placement
}

// NewLedger returns an empty ledger validating against tax.
func NewLedger(tax *taxonomy.Taxonomy) *Ledger {
	return &Ledger{tax: tax, entries: make(map[int64]taxonomy.Placement)}
}

// Set records an override, replacing any earlier one for the same book.
func (l *Ledger) Set(ebookID int64, placement taxonomy.Placement) error {
	if ebookID <= 0 {
		return services.Wrap(services.ErrValidation, "overrides", "set",
			fmt.Sprintf("invalid ebook id %d", ebookID), nil)
	}
	if l.tax != nil {
		if err := l.tax.Validate(placement); err != nil {
			return err
		}
	}
	l.mu.Lock()
	l.entries[ebookID] = placement
	l.mu.Unlock()
	return nil
}

// Clear removes the override for ebookID and reports whether one existed.
func (l *Ledger) Clear(ebookID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.entries[ebookID]
	delete(l.entries, ebookID)
	return ok
}

// ClearAll drops every override.
func (l *Ledger) ClearAll() {
	l.mu.Lock()
	clear(l.entries)
	l.mu.Unlock()
}

// Get returns the override for ebookID.
func (l *Ledger) Get(ebookID int64) (taxonomy.Placement, bool) {
	if l == nil {
		return taxonomy.Placement{}, false
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	p, ok := l.entries[ebookID]
	return p, ok
}

// Len returns the number of overrides.
func (l *Ledger) Len() int {
	if l == nil {
		return 0
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Entries returns the overrides ordered by ebook id.
func (l *Ledger) Entries() []Entry {
	if l == nil {
		return nil
	}
	l.mu.RLock()
	out := make([]Entry, 0, len(l.entries))
	for id, p := range l.entries {
		out = append(out, Entry{EbookID: id, Category: p.Category, SubGenre: p.SubGenre})
	}
	l.mu.RUnlock()
	slices.SortFunc(out, func(a, b Entry) int {
		switch {
		case a.EbookID < b.EbookID:
			return -1
		case a.EbookID > b.EbookID:
			return 1
		}
		return 0
	})
	return out
}

// Effective reconciles a classifier result with the ledger: an override
// wins, otherwise the result is returned untouched. The author found by the
// classifier is kept either way.
func (l *Ledger) Effective(ebookID int64, result classifier.Result) classifier.Result {
	placement, ok := l.Get(ebookID)
	if !ok {
		return result
	}
	return classifier.Result{
		Category:   placement.Category,
		SubGenre:   placement.SubGenre,
		Source:     classifier.SourceOverride,
		Confidence: OverrideConfidence,
		Author:     result.Author,
	}
}
