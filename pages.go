package main

import (
	"embed"
	"html/template"
	"strings"
	"time"

	"prereview/models"
	"prereview/providers/zenodo"
	"prereview/router"
	"prereview/services"
	"prereview/types"
)

//go:embed templates/*.html
var templateFS embed.FS

// page sind die Felder, die jede Seite für Titel und Kopfzeile braucht.
type page struct {
	Title string
	User  *models.User
}

type homePage struct {
	page
	Reviews []services.ReviewedPreprint
}

type preprintPage struct {
	page
	Preprint models.DoiData
	Reviews  []zenodo.Record
}

type reviewPage struct {
	page
	Preprint models.DoiData
	Review   zenodo.Record
}

type reviewFormPage struct {
	page
	Preprint  models.DoiData
	Errors    []string
	Questions []services.Question
	Answers   []services.Answer
}

type searchPage struct {
	page
	Query   string
	Results []models.Preprint
}

func parseTemplates(doiBaseURL string) (*template.Template, error) {
	funcs := template.FuncMap{
		"raw":                 raw,
		"date":                displayDate,
		"join":                strings.Join,
		"reference":           services.FormatReference,
		"isRapid":             isRapidReview,
		"description":         reviewDescription,
		"preprintPath":        router.Preprint.Format,
		"reviewPath":          router.Review.Format,
		"reviewFormPath":      router.PreprintReview.Format,
		"rapidReviewFormPath": router.PreprintRapidReview.Format,
		"logInPath":           func() string { return router.LogIn },
		"logOutPath":          func() string { return router.LogOut },
		"searchPath":          func() string { return router.Search },
		"doiURL": func(doi types.Doi) string {
			u, err := doi.ToURL(doiBaseURL)
			if err != nil {
				return ""
			}
			return u.String()
		},
	}
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}

// raw gibt HTML aus Crossref unverändert aus. Review-Texte gehen über
// reviewDescription.
func raw(v any) template.HTML {
	switch s := v.(type) {
	case string:
		return template.HTML(s)
	case *string:
		if s != nil {
			return template.HTML(*s)
		}
	}
	return ""
}

func displayDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("Mon Jan 02 2006")
}

func isRapidReview(record zenodo.Record) bool {
	for _, k := range record.Metadata.Keywords {
		if k == services.KindRapidReview {
			return true
		}
	}
	return false
}

// reviewDescription gibt nur die selbst erzeugte Rapid-Review-Tabelle als HTML
// aus. Der Text eines vollen Reviews ist Benutzereingabe und wird maskiert.
func reviewDescription(record zenodo.Record) template.HTML {
	if isRapidReview(record) {
		return template.HTML(record.Metadata.Description)
	}
	return template.HTML(template.HTMLEscapeString(record.Metadata.Description))
}
