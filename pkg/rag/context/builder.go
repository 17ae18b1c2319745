// Package ragcontext assembles the bounded context block fed to the language
// model from ranked retrieval hits.
package ragcontext

import (
	"fmt"
	"strings"
)

// Document is a retrieved article as seen by the orchestrator: read-only,
// ranked by descending similarity.
type Document struct {
	ID          string
	Title       string
	Summary     string
	Url         string
	Source      string
	PublishedAt string
	Score       float64
}

const DefaultMaxChars = 4000

// Build concatenates title + summary per hit, in the order given (descending
// score), stopping before the character budget is exceeded. Rebuilt per
// query, never persisted.
func Build(docs []Document, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}

	var b strings.Builder
	for i, doc := range docs {
		entry := formatEntry(i+1, doc)
		if b.Len()+len(entry) > maxChars {
			break
		}
		b.WriteString(entry)
	}

	return strings.TrimRight(b.String(), "\n")
}

func formatEntry(rank int, doc Document) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%d] %s", rank, doc.Title))
	if doc.Source != "" {
		b.WriteString(fmt.Sprintf(" (%s)", doc.Source))
	}
	b.WriteString("\n")
	if doc.Summary != "" {
		b.WriteString(doc.Summary)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return b.String()
}
