package services

import (
	"fmt"
	"strings"

	"prereview/models"
)

// maxReferenceAuthors Autoren werden genannt, danach "et al.".
const maxReferenceAuthors = 6

// FormatReference rendert einen Preprint als kompakte Literaturangabe,
// z.B. "Jane Doe, John Roe (2021). Title. doi:10.1101/...".
func FormatReference(d models.DoiData) string {
	names := make([]string, 0, len(d.Authors))
	for i, a := range d.Authors {
		if i == maxReferenceAuthors {
			names = append(names, "et al.")
			break
		}
		names = append(names, a.Name)
	}
	authors := strings.Join(names, ", ")
	if authors == "" {
		authors = "Unknown Authors"
	}
	year := "n.d."
	if d.Published != nil {
		year = fmt.Sprintf("%d", d.Published.Year())
	}
	title := strings.TrimSpace(d.Title)
	if title == "" {
		title = "Untitled"
	}
	return fmt.Sprintf("%s (%s). %s. doi:%s", authors, year, strings.TrimSuffix(title, "."), d.Doi)
}
