// Package datacite dekodiert DataCite-JSON und normalisiert es zu
// models.DoiData.
package datacite

import (
	"prereview/codec/decode"
	"prereview/models"
	"prereview/types"
)

type DescriptionType string

const (
	DescriptionAbstract DescriptionType = "Abstract"
	DescriptionOther    DescriptionType = "Other"
)

type Description struct {
	Description string
	Type        DescriptionType
}

type Record struct {
	Descriptions []Description
	Doi          types.Doi
	Titles       []string
}

func descriptionD(typ DescriptionType) decode.Decoder[Description] {
	return decode.Struct(func(r *decode.Record) Description {
		return Description{
			Description: decode.Field(r, "description", decode.String),
			Type:        decode.Field(r, "descriptionType", decode.Literal(typ)),
		}
	})
}

var descriptionsD = decode.Sum("descriptionType", map[string]decode.Decoder[Description]{
	string(DescriptionAbstract): descriptionD(DescriptionAbstract),
	string(DescriptionOther):    descriptionD(DescriptionOther),
})

var titleD = decode.Struct(func(r *decode.Record) string {
	return decode.Field(r, "title", decode.String)
})

var RecordD = decode.Struct(func(r *decode.Record) Record {
	return Record{
		Descriptions: decode.Field(r, "descriptions", decode.NonEmptyArray(descriptionsD)),
		Doi:          decode.Field(r, "doi", types.DoiC.Decoder()),
		Titles:       decode.Field(r, "titles", decode.NonEmptyArray(titleD)),
	}
})

var DoiDataD = decode.Map(RecordD, Normalize)

// Normalize übernimmt den ersten Titel und die erste Abstract-Beschreibung.
// Autoren und Veröffentlichungsdatum liefert DataCite hier nicht.
func Normalize(rec Record) models.DoiData {
	data := models.DoiData{
		Doi:     rec.Doi,
		Title:   rec.Titles[0],
		Authors: []models.Author{},
	}
	for _, d := range rec.Descriptions {
		if d.Type == DescriptionAbstract {
			abstract := d.Description
			data.Abstract = &abstract
			break
		}
	}
	return data
}
