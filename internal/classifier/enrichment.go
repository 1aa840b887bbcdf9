package classifier

import (
	"context"
	"errors"
	"strings"

	"shelver/internal/logging"
	"shelver/internal/metadata"
	"shelver/internal/taxonomy"
	"shelver/internal/textutil"
)

func (c *Classifier) fromEnrichment(ctx context.Context, state *classification) (match, bool) {
	if c.enricher == nil {
		return match{}, false
	}
	title := state.title
	if title == "" {
		title = textutil.LookupTitleFromPath(state.book.Path)
	}
	if title == "" {
		return match{}, false
	}

	enrichment := c.lookup(ctx, title, state.author)
	if enrichment == nil {
		return match{}, false
	}
	if state.author == "" {
		if author, ok := textutil.ResolveAuthor(enrichment.Author); ok {
			state.author = author
		}
	}
	if found, ok := c.tags.match(enrichment.Subjects, false); ok {
		found.confidence = confidenceEnrichment
		return found, true
	}
	if placement, ok := c.mapSubjects(enrichment.Subjects); ok {
		return match{placement: placement, confidence: confidenceEnrichmentHeur}, true
	}
	return match{}, false
}

// lookup bounds the enricher call by enrichTimeout. The call runs on its own
// goroutine so an enricher that ignores ctx still cannot stall the batch.
func (c *Classifier) lookup(ctx context.Context, title, author string) *metadata.Enrichment {
	lookupCtx, cancel := context.WithTimeout(ctx, c.enrichTimeout)
	defer cancel()

	done := make(chan *metadata.Enrichment, 1)
	go func() {
		done <- c.enricher.Lookup(lookupCtx, title, author)
	}()

	select {
	case enrichment := <-done:
		if enrichment == nil {
			c.metrics.RecordLookup("empty")
			return nil
		}
		c.metrics.RecordLookup("found")
		return enrichment
	case <-lookupCtx.Done():
		outcome := "timeout"
		if errors.Is(ctx.Err(), context.Canceled) {
			outcome = "canceled"
		}
		c.metrics.RecordLookup(outcome)
		logging.WarnWithContext(logging.WithContext(ctx, c.logger), "enrichment lookup abandoned", "enrichment_"+outcome,
			logging.String("title", title),
			logging.Duration("timeout", c.enrichTimeout),
			logging.String(logging.FieldErrorHint, "check network access to the lookup service"),
			logging.String(logging.FieldImpact, "book falls through to title keywords"),
		)
		return nil
	}
}

var genericSubjects = map[string]struct{}{
	"fiction": {}, "nonfiction": {}, "non-fiction": {}, "book": {}, "books": {}, "history": {},
}

type subjectRule struct {
	needles   []string
	placement taxonomy.Placement
}

var bisacFictionRules = []subjectRule{
	{[]string{"FANTASY"}, taxonomy.Placement{Category: "Fiction", SubGenre: "Fantasy"}},
	{[]string{"SCIENCE FICTION"}, taxonomy.Placement{Category: "Fiction", SubGenre: "Science Fiction"}},
	{[]string{"MYSTERY", "THRILLER"}, taxonomy.Placement{Category: "Fiction", SubGenre: "Mystery & Thriller"}},
	{[]string{"HORROR"}, taxonomy.Placement{Category: "Fiction", SubGenre: "Horror"}},
	{[]string{"ROMANCE"}, taxonomy.Placement{Category: "Fiction", SubGenre: "Romance"}},
	{[]string{"HISTORICAL"}, taxonomy.Placement{Category: "Fiction", SubGenre: "Historical Fiction"}},
	{[]string{"LITERARY"}, taxonomy.Placement{Category: "Fiction", SubGenre: "Literary"}},
}

var bisacNonFictionRules = []subjectRule{
	{[]string{"SELF-HELP"}, taxonomy.Placement{Category: "Non-Fiction", SubGenre: "Self-Help"}},
	{[]string{"BUSINESS & ECONOMICS"}, taxonomy.Placement{Category: "Non-Fiction", SubGenre: "Business & Finance"}},
	{[]string{"TECHNOLOGY & ENGINEERING"}, taxonomy.Placement{Category: "Non-Fiction", SubGenre: "Science & Technology"}},
	{[]string{"PSYCHOLOGY"}, taxonomy.Placement{Category: "Non-Fiction", SubGenre: "Psychology"}},
	{[]string{"RELIGION", "PHILOSOPHY"}, taxonomy.Placement{Category: "Non-Fiction", SubGenre: "Philosophy & Religion"}},
	{[]string{"HEALTH", "FITNESS", "COOKING", "COOKBOOK"}, taxonomy.Placement{Category: "Non-Fiction", SubGenre: "Health & Wellness"}},
}

var keywordSubjectRules = []subjectRule{
	{[]string{"fantasy"}, taxonomy.Placement{Category: "Fiction", SubGenre: "Fantasy"}},
	{[]string{"science fiction", "sci-fi"}, taxonomy.Placement{Category: "Fiction", SubGenre: "Science Fiction"}},
	{[]string{"mystery", "detective", "thriller", "suspense"}, taxonomy.Placement{Category: "Fiction", SubGenre: "Mystery & Thriller"}},
	{[]string{"horror"}, taxonomy.Placement{Category: "Fiction", SubGenre: "Horror"}},
	{[]string{"romance"}, taxonomy.Placement{Category: "Fiction", SubGenre: "Romance"}},
	{[]string{"programming", "computer", "mathematics", "physics"}, taxonomy.Placement{Category: "Non-Fiction", SubGenre: "Science & Technology"}},
}

// mapSubjects applies bibliographic heuristics to external subject lists:
// biography anywhere wins, then BISAC headings, then genre keywords, then
// alias containment ranked by category priority. Placements absent from the
// loaded taxonomy are skipped.
func (c *Classifier) mapSubjects(subjects []string) (taxonomy.Placement, bool) {
	if len(subjects) == 0 {
		return taxonomy.Placement{}, false
	}
	valid := func(p taxonomy.Placement) bool { return c.taxonomy.IsValid(p.Category, p.SubGenre) }

	joined := strings.ToUpper(strings.Join(subjects, " | "))
	if strings.Contains(joined, "BIOGRAPHY") {
		if p := (taxonomy.Placement{Category: "Non-Fiction", SubGenre: "Biography & Memoir"}); valid(p) {
			return p, true
		}
	}

	for _, subject := range subjects {
		upper := strings.ToUpper(subject)
		if strings.Contains(upper, "FICTION /") {
			placement := taxonomy.Placement{Category: "Fiction", SubGenre: "Literary"}
			if rule, ok := firstRule(bisacFictionRules, upper); ok {
				placement = rule.placement
			}
			if valid(placement) {
				return placement, true
			}
			continue
		}
		if rule, ok := firstRule(bisacNonFictionRules, upper); ok && valid(rule.placement) {
			return rule.placement, true
		}
		if (strings.Contains(upper, "HISTORY /") || strings.HasPrefix(upper, "HISTORY")) && len(subject) > 10 {
			if p := (taxonomy.Placement{Category: "Non-Fiction", SubGenre: "History"}); valid(p) {
				return p, true
			}
		}
	}

	specific := specificSubjects(subjects)
	for _, subject := range specific {
		if rule, ok := firstRule(keywordSubjectRules, subject); ok && valid(rule.placement) {
			return rule.placement, true
		}
	}

	var best taxonomy.Placement
	bestRank := 0
	for _, subject := range specific {
		for _, term := range c.tags.terms {
			if subject != term.folded && !strings.Contains(subject, term.folded) && !strings.Contains(term.folded, subject) {
				continue
			}
			rank := c.taxonomy.CategoryPriority(term.placement.Category)
			if best.IsZero() || rank < bestRank {
				best, bestRank = term.placement, rank
			}
		}
	}
	return best, !best.IsZero()
}

func firstRule(rules []subjectRule, text string) (subjectRule, bool) {
	for _, rule := range rules {
		for _, needle := range rule.needles {
			if strings.Contains(text, needle) {
				return rule, true
			}
		}
	}
	return subjectRule{}, false
}

// specificSubjects folds subjects and drops ones too short or generic to
// carry genre information.
func specificSubjects(subjects []string) []string {
	out := make([]string, 0, len(subjects))
	for _, subject := range subjects {
		folded := textutil.Fold(subject)
		if len(folded) < 4 {
			continue
		}
		if _, generic := genericSubjects[folded]; generic {
			continue
		}
		out = append(out, folded)
	}
	return out
}
