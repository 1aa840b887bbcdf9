package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"shelver/internal/batch"
)

// newProgressPrinter returns a progress callback that redraws a single
// status line on w. It returns nil when w is not a terminal so piped and
// JSON output stay clean.
func newProgressPrinter(w io.Writer, label string) (batch.ProgressFunc, func()) {
	f, ok := w.(*os.File)
	if !ok || !(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return nil, func() {}
	}
	drawn := false
	update := func(p batch.Progress) {
		drawn = true
		fmt.Fprintf(f, "\r\033[K%s %d/%d %s", label, p.Processed, p.Total, truncateMiddle(p.Path, 60))
	}
	done := func() {
		if drawn {
			fmt.Fprint(f, "\r\033[K")
		}
	}
	return update, done
}

func truncateMiddle(value string, limit int) string {
	runes := []rune(value)
	if limit < 5 || len(runes) <= limit {
		return value
	}
	half := (limit - 3) / 2
	return string(runes[:half]) + "..." + string(runes[len(runes)-(limit-3-half):])
}
