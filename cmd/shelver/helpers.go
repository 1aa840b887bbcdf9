package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"shelver/internal/taxonomy"
)

// writeJSON encodes v as indented JSON to the command's stdout. Paths are
// written verbatim rather than HTML-escaped.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseEbookID(value string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid book id %q", value)
	}
	return id, nil
}

func formatPlacement(category, subGenre string) string {
	switch {
	case category == "" || category == taxonomy.Uncategorized:
		return "Unclassified"
	case subGenre == "":
		return category
	default:
		return category + " / " + subGenre
	}
}

func printErrors(out io.Writer, errs []string) {
	if len(errs) == 0 {
		return
	}
	fmt.Fprintf(out, "\nErrors (%d):\n", len(errs))
	for _, msg := range errs {
		fmt.Fprintf(out, "  - %s\n", msg)
	}
}
