package reorganize

import (
	"fmt"
	"path/filepath"
	"strings"

	"shelver/internal/library"
	"shelver/internal/services"
	"shelver/internal/textutil"
)

const (
	// UnclassifiedSegment stands in for the category and sub-genre of books
	// without a placement.
	UnclassifiedSegment = "Unclassified"
	// UnknownAuthor is the author folder used when no valid author is known.
	UnknownAuthor = "Unknown Author"
)

// Operation selects how files are relocated.
type Operation string

const (
	OperationMove Operation = "move"
	OperationCopy Operation = "copy"
)

// ParseOperation validates an operation name. Empty means move.
func ParseOperation(value string) (Operation, error) {
	switch op := Operation(strings.ToLower(strings.TrimSpace(value))); op {
	case "":
		return OperationMove, nil
	case OperationMove, OperationCopy:
		return op, nil
	default:
		return "", services.Wrap(services.ErrValidation, "reorganize", "parse operation",
			fmt.Sprintf("operation must be move or copy, got %q", value), nil)
	}
}

// PlannedMove is one proposed relocation.
type PlannedMove struct {
	EbookID      int64  `json:"ebook_id"`
	SourcePath   string `json:"source_path"`
	TargetPath   string `json:"target_path"`
	Title        string `json:"title"`
	Author       string `json:"author"`
	Category     string `json:"category"`
	SubGenre     string `json:"sub_genre"`
	HasCollision bool   `json:"has_collision"`
}

// Request holds the planning inputs shared by preview and apply.
type Request struct {
	Destination         string
	Operation           Operation
	IncludeUnclassified bool
}

// Plan is the ordered list of moves plus its summary counts.
// UnclassifiedFiles counts unclassified books whether or not they were
// included; Collisions counts moves flagged with HasCollision.
type Plan struct {
	Destination       string        `json:"destination"`
	Operation         Operation     `json:"operation"`
	Moves             []PlannedMove `json:"planned_moves"`
	TotalFiles        int           `json:"total_files"`
	ClassifiedFiles   int           `json:"classified_files"`
	UnclassifiedFiles int           `json:"unclassified_files"`
	Collisions        int           `json:"collisions"`
}

// Build computes the plan for books. It touches no files: the same inputs
// always yield the same plan, in input order.
func Build(books []library.Ebook, req Request) (Plan, error) {
	destination := strings.TrimSpace(req.Destination)
	if destination == "" {
		return Plan{}, services.Wrap(services.ErrValidation, "reorganize", "plan", "destination required", nil)
	}
	destination = filepath.Clean(destination)
	op, err := ParseOperation(string(req.Operation))
	if err != nil {
		return Plan{}, err
	}

	plan := Plan{Destination: destination, Operation: op, Moves: make([]PlannedMove, 0, len(books))}
	for _, book := range books {
		if strings.TrimSpace(book.SourcePath) == "" {
			continue
		}
		classified := isClassified(book)
		if classified {
			plan.ClassifiedFiles++
		} else {
			plan.UnclassifiedFiles++
			if !req.IncludeUnclassified {
				continue
			}
		}
		plan.Moves = append(plan.Moves, planMove(book, destination, classified))
	}
	plan.TotalFiles = len(plan.Moves)
	plan.Collisions = flagCollisions(plan.Moves)
	return plan, nil
}

// TargetPath returns destination/Category/SubGenre/Author/fileName for book.
func TargetPath(book library.Ebook, destination string) string {
	return planMove(book, filepath.Clean(destination), isClassified(book)).TargetPath
}

func planMove(book library.Ebook, destination string, classified bool) PlannedMove {
	category, subGenre := UnclassifiedSegment, UnclassifiedSegment
	if classified {
		category = textutil.SanitizeSegment(book.Category)
		subGenre = textutil.SanitizeSegment(book.SubGenre)
	}
	author := authorFolder(book.Author)
	title := book.Title
	if strings.TrimSpace(title) == "" {
		title = book.FileName()
	}
	return PlannedMove{
		EbookID:    book.ID,
		SourcePath: book.SourcePath,
		TargetPath: filepath.Join(destination, category, subGenre, author, book.FileName()),
		Title:      title,
		Author:     author,
		Category:   book.Category,
		SubGenre:   book.SubGenre,
	}
}

func isClassified(book library.Ebook) bool {
	return strings.TrimSpace(book.Category) != "" && strings.TrimSpace(book.SubGenre) != ""
}

func authorFolder(author string) string {
	if cleaned, ok := textutil.ResolveAuthor(author); ok {
		return textutil.SanitizeSegment(cleaned)
	}
	return UnknownAuthor
}

// flagCollisions marks every move whose target is shared with a different
// ebook and returns how many were marked.
func flagCollisions(moves []PlannedMove) int {
	owners := make(map[string]map[int64]struct{}, len(moves))
	for _, move := range moves {
		key := filepath.Clean(move.TargetPath)
		if owners[key] == nil {
			owners[key] = make(map[int64]struct{}, 1)
		}
		owners[key][move.EbookID] = struct{}{}
	}
	count := 0
	for i := range moves {
		if len(owners[filepath.Clean(moves[i].TargetPath)]) > 1 {
			moves[i].HasCollision = true
			count++
		}
	}
	return count
}
