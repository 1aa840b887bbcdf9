package fileutil

import (
	"fmt"
	"path/filepath"
	"strings"
)

// maxNameAttempts bounds the suffix search in AvailableName.
const maxNameAttempts = 1000

// AvailableName returns path if taken reports it free, otherwise the first
// "name (n).ext" variant (n starting at 2) that is free.
func AvailableName(path string, taken func(string) (bool, error)) (string, error) {
	used, err := taken(path)
	if err != nil {
		return "", err
	}
	if !used {
		return path, nil
	}
	dir := filepath.Dir(path)
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(filepath.Base(path), ext)
	for n := 2; n < maxNameAttempts; n++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, n, ext))
		used, err := taken(candidate)
		if err != nil {
			return "", err
		}
		if !used {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no free name for %s after %d attempts", path, maxNameAttempts)
}
