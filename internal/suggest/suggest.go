package suggest

import (
	"context"
	"fmt"
	"io"
	"strings"
)

const promptTemplate = `This photo shows a waste collection point.
From this list of waste categories: %s.
Name every category the pictured location appears to accept.
Respond in plain text, one category per line, using the exact names from the list.
If none apply, respond with an empty line.`

// Prompt builds the shared vision prompt for the given category titles.
func Prompt(categories []string) string {
	return fmt.Sprintf(promptTemplate, strings.Join(categories, ", "))
}

// Analyzer inspects a collection-point photo and returns the subset of
// categories the pictured location appears to accept.
type Analyzer interface {
	Suggest(ctx context.Context, r io.Reader, mimeType string, categories []string) ([]string, error)
}

// MatchCategories reduces raw model output to known category titles. Lines are
// stripped of list markers and matched case-insensitively; unknown lines and
// duplicates are dropped. Returned titles use the catalog's spelling.
func MatchCategories(raw string, categories []string) []string {
	seen := make(map[string]struct{}, len(categories))
	var matched []string

	for _, line := range strings.Split(raw, "\n") {
		line = trimListMarker(strings.TrimSpace(line))
		if line == "" {
			continue
		}
		for _, category := range categories {
			if !strings.EqualFold(line, category) {
				continue
			}
			if _, ok := seen[category]; ok {
				break
			}
			seen[category] = struct{}{}
			matched = append(matched, category)
			break
		}
	}
	return matched
}

// trimListMarker drops leading "-", "*" or "1." style markers models tend to
// add despite the prompt.
func trimListMarker(line string) string {
	line = strings.TrimLeft(line, "-* ")
	if dot := strings.Index(line, ". "); dot > 0 && dot <= 3 {
		if _, err := fmt.Sscanf(line[:dot], "%d", new(int)); err == nil {
			line = line[dot+2:]
		}
	}
	return strings.TrimSpace(line)
}
