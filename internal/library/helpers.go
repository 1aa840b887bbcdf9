package library

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

const ebookColumns = "id, source_path, title, author, format, language, subjects_json, category, sub_genre, created_at, updated_at"

func scanEbook(scanner interface{ Scan(dest ...any) error }) (*Ebook, error) {
	var (
		id         int64
		sourcePath string
		title      sql.NullString
		author     sql.NullString
		format     sql.NullString
		language   sql.NullString
		subjects   sql.NullString
		category   sql.NullString
		subGenre   sql.NullString
		createdRaw sql.NullString
		updatedRaw sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&sourcePath,
		&title,
		&author,
		&format,
		&language,
		&subjects,
		&category,
		&subGenre,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	book := &Ebook{
		ID:         id,
		SourcePath: sourcePath,
		Title:      title.String,
		Author:     author.String,
		Format:     format.String,
		Language:   language.String,
		Category:   category.String,
		SubGenre:   subGenre.String,
	}
	if subjects.Valid && subjects.String != "" {
		// A malformed column is treated as no subjects.
		_ = json.Unmarshal([]byte(subjects.String), &book.Subjects)
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		book.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		book.UpdatedAt = updated
	}
	return book, nil
}

func scanEbooks(rows *sql.Rows) ([]Ebook, error) {
	defer rows.Close()
	var books []Ebook
	for rows.Next() {
		book, err := scanEbook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, *book)
	}
	return books, rows.Err()
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func encodeSubjects(subjects []string) (any, error) {
	if len(subjects) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(subjects)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
