package overrides

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"shelver/internal/services"
	"shelver/internal/taxonomy"
)

type sessionFile struct {
	Overrides []Entry `json:"overrides"`
}

// Load reads a session file into a new ledger. A missing or empty file
// yields an empty ledger. Every entry is validated against tax.
func Load(path string, tax *taxonomy.Taxonomy) (*Ledger, error) {
	ledger := NewLedger(tax)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ledger, nil
		}
		return nil, fmt.Errorf("read overrides: %w", err)
	}
	entries, err := parseEntries(data)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "overrides", "load",
			fmt.Sprintf("parse %s", path), err)
	}
	for _, entry := range entries {
		if err := ledger.Set(entry.EbookID, entry.Placement()); err != nil {
			return nil, fmt.Errorf("override for ebook %d: %w", entry.EbookID, err)
		}
	}
	return ledger, nil
}

// Save writes the ledger to path, replacing the file atomically.
func (l *Ledger) Save(path string) error {
	payload, err := json.MarshalIndent(sessionFile{Overrides: l.Entries()}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode overrides: %w", err)
	}
	payload = append(payload, '\n')
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create overrides directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".overrides-*.json")
	if err != nil {
		return fmt.Errorf("create overrides temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write overrides: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close overrides: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace overrides: %w", err)
	}
	return nil
}

// parseEntries accepts either a bare array or an object with an overrides
// field.
func parseEntries(data []byte) ([]Entry, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}
	if data[0] == '{' {
		var wrapper sessionFile
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return nil, err
		}
		return wrapper.Overrides, nil
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
