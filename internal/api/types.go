package api

import (
	"time"

	"shelver/internal/library"
)

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// PreviewClassificationInput selects the books of a dry classification.
type PreviewClassificationInput struct {
	Scope string `json:"scope"`
	Limit int    `json:"limit" validate:"gte=0"`
}

// OverrideInput is one manual placement supplied with a batch run.
type OverrideInput struct {
	EbookID  int64  `json:"ebook_id" validate:"gt=0"`
	Category string `json:"category" validate:"required"`
	SubGenre string `json:"sub_genre"`
}

// BatchClassifyInput selects and configures a classification run.
type BatchClassifyInput struct {
	Scope           string          `json:"scope"`
	Limit           int             `json:"limit" validate:"gte=0"`
	ForceReclassify bool            `json:"force_reclassify"`
	EbookIDs        []int64         `json:"ebook_ids" validate:"omitempty,max=500,dive,gt=0"`
	Overrides       []OverrideInput `json:"overrides" validate:"omitempty,dive"`
}

// SetClassificationInput assigns a placement to one book.
type SetClassificationInput struct {
	EbookID  int64  `json:"ebook_id" validate:"gt=0"`
	Category string `json:"category" validate:"required"`
	SubGenre string `json:"sub_genre"`
}

// ReorganizeInput describes a reorganization preview or apply. Empty fields
// take the configured defaults.
type ReorganizeInput struct {
	Destination         string `json:"destination" validate:"required"`
	Scope               string `json:"scope"`
	IncludeUnclassified *bool  `json:"include_unclassified"`
	Operation           string `json:"operation" validate:"omitempty,oneof=move copy"`
	OnCollision         string `json:"on_collision" validate:"omitempty,oneof=skip overwrite rename"`
}

// Ebook is the transport form of an indexed book.
type Ebook struct {
	ID         int64    `json:"id"`
	SourcePath string   `json:"source_path"`
	Title      string   `json:"title"`
	Author     string   `json:"author"`
	Format     string   `json:"format"`
	Category   *string  `json:"category"`
	SubGenre   *string  `json:"sub_genre"`
	Subjects   []string `json:"subjects,omitempty"`
	CreatedAt  string   `json:"created_at,omitempty"`
	UpdatedAt  string   `json:"updated_at,omitempty"`
}

// FromEbook converts a library record into its transport form. Unclassified
// books carry null placement fields.
func FromEbook(book library.Ebook) Ebook {
	dto := Ebook{
		ID:         book.ID,
		SourcePath: book.SourcePath,
		Title:      book.Title,
		Author:     book.Author,
		Format:     book.Format,
		Subjects:   book.Subjects,
		CreatedAt:  formatTime(book.CreatedAt),
		UpdatedAt:  formatTime(book.UpdatedAt),
	}
	if book.IsClassified() {
		category, subGenre := book.Category, book.SubGenre
		dto.Category = &category
		dto.SubGenre = &subGenre
	}
	return dto
}

// FromEbooks converts a slice of library records.
func FromEbooks(books []library.Ebook) []Ebook {
	out := make([]Ebook, 0, len(books))
	for _, book := range books {
		out = append(out, FromEbook(book))
	}
	return out
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateTimeFormat)
}
