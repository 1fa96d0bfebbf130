package europepmc

import (
	"prereview/codec/decode"
	"prereview/models"
	"prereview/types"
)

// Author ist entweder eine Person oder ein Kollektiv.
type Author struct {
	FirstName      string
	LastName       string
	CollectiveName string
}

// Name rendert den Anzeigenamen.
func (a Author) Name() string {
	if a.CollectiveName != "" {
		return a.CollectiveName
	}
	return a.FirstName + " " + a.LastName
}

// Article ist ein Treffer in der Europe PMC API-Antwort.
type Article struct {
	Authors []Author
	Doi     types.Doi
	Title   string
}

var authorD = decode.Union(
	decode.Struct(func(r *decode.Record) Author {
		return Author{
			FirstName: decode.Field(r, "firstName", decode.String),
			LastName:  decode.Field(r, "lastName", decode.String),
		}
	}),
	decode.Struct(func(r *decode.Record) Author {
		return Author{CollectiveName: decode.Field(r, "collectiveName", decode.String)}
	}),
)

var ArticleD = decode.Struct(func(r *decode.Record) Article {
	return Article{
		Authors: decode.Field(r, "authorList", decode.Struct(func(r *decode.Record) []Author {
			return decode.Field(r, "author", decode.NonEmptyArray(authorD))
		})),
		Doi:   decode.Field(r, "doi", types.DoiC.Decoder()),
		Title: decode.Field(r, "title", decode.String),
	}
})

// SearchResponseD ist die Top-Level-Struktur der Europe PMC API-Antwort.
var SearchResponseD = decode.Struct(func(r *decode.Record) []Article {
	return decode.Field(r, "resultList", decode.Struct(func(r *decode.Record) []Article {
		return decode.Field(r, "result", decode.Array(ArticleD))
	}))
})

// mapArticleToModel konvertiert einen Treffer in unser internes Preprint-Modell.
func mapArticleToModel(article Article) models.Preprint {
	authors := make([]string, 0, len(article.Authors))
	for _, a := range article.Authors {
		authors = append(authors, a.Name())
	}
	return models.Preprint{Doi: article.Doi, Title: article.Title, Authors: authors}
}
