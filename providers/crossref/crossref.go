// Package crossref dekodiert Crossref-Metadaten (CSL-JSON über DOI Content
// Negotiation) und normalisiert sie zu models.DoiData.
package crossref

import (
	"strings"
	"time"

	"prereview/codec/decode"
	"prereview/models"
	"prereview/types"
)

// Author ist entweder eine Organisation (Name) oder eine Person.
type Author struct {
	Name   *string
	Given  string
	Family string
	Orcid  *types.Orcid
}

// Work ist die rohe Crossref-Antwort, soweit wir sie brauchen.
type Work struct {
	Abstract  *string
	Authors   []Author
	Doi       types.Doi
	DateParts []any
	Title     string
}

var authorD = decode.Union(
	decode.Struct(func(r *decode.Record) Author {
		name := decode.Field(r, "name", decode.String)
		return Author{Name: &name}
	}),
	decode.Struct(func(r *decode.Record) Author {
		return Author{
			Orcid:  decode.OptionalField(r, "ORCID", types.OrcidURLD),
			Given:  decode.Field(r, "given", decode.String),
			Family: decode.Field(r, "family", decode.String),
		}
	}),
)

// Crossref liefert für unbekannte Daten etwa [[null]]. Die Tripel werden
// erst in FirstPublishedDate geprüft, damit sie den Decode nicht scheitern lassen.
var unknownD decode.Decoder[any] = func(in any) (any, *decode.Error) {
	return in, nil
}

var publishedD = decode.Struct(func(r *decode.Record) []any {
	return decode.Field(r, "date-parts", decode.NonEmptyArray(unknownD))
})

var WorkD = decode.Struct(func(r *decode.Record) Work {
	return Work{
		Abstract:  decode.OptionalField(r, "abstract", decode.String),
		Authors:   decode.Field(r, "author", decode.Array(authorD)),
		Doi:       decode.Field(r, "DOI", types.DoiC.Decoder()),
		DateParts: decode.Field(r, "published", publishedD),
		Title:     decode.Field(r, "title", decode.String),
	}
})

// DoiDataD dekodiert direkt in das vereinheitlichte Modell.
var DoiDataD = decode.Map(WorkD, Normalize)

func Normalize(w Work) models.DoiData {
	data := models.DoiData{
		Doi:       w.Doi,
		Title:     w.Title,
		Authors:   make([]models.Author, 0, len(w.Authors)),
		Published: FirstPublishedDate(w.DateParts),
	}
	if w.Abstract != nil {
		abstract := strings.ReplaceAll(*w.Abstract, "jats:", "")
		data.Abstract = &abstract
	}
	for _, a := range w.Authors {
		if a.Name != nil {
			data.Authors = append(data.Authors, models.Author{Name: *a.Name})
			continue
		}
		data.Authors = append(data.Authors, models.Author{Name: a.Given + " " + a.Family, Orcid: a.Orcid})
	}
	return data
}

// FirstPublishedDate nimmt das erste [Jahr, Monat, Tag]-Tripel. Unvollständige
// oder ungültige Angaben ergeben nil statt eines Fehlers.
func FirstPublishedDate(dateParts []any) *time.Time {
	if len(dateParts) == 0 {
		return nil
	}
	first, ok := dateParts[0].([]any)
	if !ok || len(first) != 3 {
		return nil
	}
	var ymd [3]int
	for i, part := range first {
		f, err := decode.Number(part)
		if err != nil || f != float64(int(f)) {
			return nil
		}
		ymd[i] = int(f)
	}
	year, month, day := ymd[0], ymd[1], ymd[2]
	if month < 1 || month > 12 || day < 1 {
		return nil
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalisiert z.B. den 31. Februar in den März
	if t.Day() != day || int(t.Month()) != month {
		return nil
	}
	return &t
}
