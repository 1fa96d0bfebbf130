package zenodo

import (
	"net/url"

	"prereview/codec"
	"prereview/codec/decode"
	"prereview/codec/encode"
	"prereview/types"
)

type Relation string

const (
	RelationIsAlternateIdentifier Relation = "isAlternateIdentifier"
	RelationIsVersionOf           Relation = "isVersionOf"
	RelationReviews               Relation = "reviews"
)

var RelationC = codec.Literal(RelationIsAlternateIdentifier, RelationIsVersionOf, RelationReviews)

type Scheme string

const (
	SchemeDoi Scheme = "doi"
	SchemeURL Scheme = "url"
)

// RelatedIdentifier verweist auf ein anderes Objekt. Scheme bestimmt, ob
// Doi oder URL gesetzt ist.
type RelatedIdentifier struct {
	Scheme   Scheme
	Doi      types.Doi
	URL      *url.URL
	Relation Relation
}

func DoiIdentifier(doi types.Doi, relation Relation) RelatedIdentifier {
	return RelatedIdentifier{Scheme: SchemeDoi, Doi: doi, Relation: relation}
}

func URLIdentifier(u *url.URL, relation Relation) RelatedIdentifier {
	return RelatedIdentifier{Scheme: SchemeURL, URL: u, Relation: relation}
}

var RelatedIdentifierC = codec.Sum("scheme", map[string]codec.Codec[RelatedIdentifier]{
	string(SchemeDoi): codec.Make(
		decode.Struct(func(r *decode.Record) RelatedIdentifier {
			return RelatedIdentifier{
				Doi:      decode.Field(r, "identifier", types.DoiC.Decoder()),
				Relation: decode.Field(r, "relation", RelationC.Decoder()),
				Scheme:   decode.Field(r, "scheme", decode.Literal(SchemeDoi)),
			}
		}),
		func(ri RelatedIdentifier) any {
			return map[string]any{
				"identifier": types.DoiC.Encode(ri.Doi),
				"relation":   RelationC.Encode(ri.Relation),
				"scheme":     string(SchemeDoi),
			}
		},
	),
	string(SchemeURL): codec.Make(
		decode.Struct(func(r *decode.Record) RelatedIdentifier {
			return RelatedIdentifier{
				URL:      decode.Field(r, "identifier", types.UrlC.Decoder()),
				Relation: decode.Field(r, "relation", RelationC.Decoder()),
				Scheme:   decode.Field(r, "scheme", decode.Literal(SchemeURL)),
			}
		}),
		func(ri RelatedIdentifier) any {
			return map[string]any{
				"identifier": types.UrlC.Encode(ri.URL),
				"relation":   RelationC.Encode(ri.Relation),
				"scheme":     string(SchemeURL),
			}
		},
	),
}, func(ri RelatedIdentifier) string { return string(ri.Scheme) })

type Creator struct {
	Name  types.NonEmptyString
	Orcid *types.Orcid
}

var creatorC = codec.Make(
	decode.Struct(func(r *decode.Record) Creator {
		return Creator{
			Name:  decode.Field(r, "name", types.NonEmptyStringC.Decoder()),
			Orcid: decode.OptionalField(r, "orcid", types.OrcidC.Decoder()),
		}
	}),
	func(c Creator) any {
		return encode.Record(map[string]any{
			"name":  types.NonEmptyStringC.Encode(c.Name),
			"orcid": encode.Optional(types.OrcidC.Encoder())(c.Orcid),
		})
	},
)

type Community struct {
	Identifier types.NonEmptyString
}

var communityC = codec.Make(
	decode.Struct(func(r *decode.Record) Community {
		return Community{Identifier: decode.Field(r, "identifier", types.NonEmptyStringC.Decoder())}
	}),
	func(c Community) any {
		return map[string]any{"identifier": types.NonEmptyStringC.Encode(c.Identifier)}
	},
)

type UploadType string

type PublicationType string

const (
	UploadTypePublication  UploadType      = "publication"
	PublicationTypeArticle PublicationType = "article"
)

// DepositMetadata ist der Inhalt einer neuen Deposition.
type DepositMetadata struct {
	UploadType         UploadType
	PublicationType    PublicationType
	Creators           []Creator
	Description        types.NonEmptyString
	RelatedIdentifiers []RelatedIdentifier
	Title              types.NonEmptyString
	Communities        []Community
	Keywords           []string
}

var keywordsC = codec.Array(codec.String)

var DepositMetadataC = codec.Make(
	decode.Struct(func(r *decode.Record) DepositMetadata {
		m := DepositMetadata{
			UploadType:         decode.Field(r, "upload_type", decode.Literal(UploadTypePublication)),
			PublicationType:    decode.Field(r, "publication_type", decode.Literal(PublicationTypeArticle)),
			Creators:           decode.Field(r, "creators", codec.NonEmptyArray(creatorC).Decoder()),
			Description:        decode.Field(r, "description", types.NonEmptyStringC.Decoder()),
			RelatedIdentifiers: decode.Field(r, "related_identifiers", codec.NonEmptyArray(RelatedIdentifierC).Decoder()),
			Title:              decode.Field(r, "title", types.NonEmptyStringC.Decoder()),
			Communities:        decode.Field(r, "communities", codec.Array(communityC).Decoder()),
		}
		if keywords := decode.OptionalField(r, "keywords", keywordsC.Decoder()); keywords != nil {
			m.Keywords = *keywords
		}
		return m
	}),
	func(m DepositMetadata) any {
		fields := map[string]any{
			"upload_type":         string(m.UploadType),
			"publication_type":    string(m.PublicationType),
			"creators":            codec.NonEmptyArray(creatorC).Encode(m.Creators),
			"description":         types.NonEmptyStringC.Encode(m.Description),
			"related_identifiers": codec.NonEmptyArray(RelatedIdentifierC).Encode(m.RelatedIdentifiers),
			"title":               types.NonEmptyStringC.Encode(m.Title),
			"communities":         codec.Array(communityC).Encode(m.Communities),
			"keywords":            encode.Omitted,
		}
		if m.Keywords != nil {
			fields["keywords"] = keywordsC.Encode(m.Keywords)
		}
		return encode.Record(fields)
	},
)

type UnsubmittedLinks struct {
	Bucket  *url.URL
	Publish *url.URL
}

// UnsubmittedDeposition ist ein Entwurf, an den Dateien angehängt werden.
type UnsubmittedDeposition struct {
	ID       types.PositiveInt
	Metadata DepositMetadata
	Links    UnsubmittedLinks
}

type SubmittedLinks struct {
	LatestHTML *url.URL
}

// SubmittedDeposition ist veröffentlicht und hat eine eigene DOI.
type SubmittedDeposition struct {
	ID       types.PositiveInt
	Metadata DepositMetadata
	Doi      types.Doi
	Links    SubmittedLinks
}

type baseDeposition struct {
	ID       types.PositiveInt
	Metadata DepositMetadata
}

var baseDepositionD = decode.Struct(func(r *decode.Record) baseDeposition {
	return baseDeposition{
		ID:       decode.Field(r, "id", types.PositiveIntC.Decoder()),
		Metadata: decode.Field(r, "metadata", DepositMetadataC.Decoder()),
	}
})

func boolLiteral(want bool) decode.Decoder[bool] {
	label := "false"
	if want {
		label = "true"
	}
	return decode.Refine(decode.Bool, func(b bool) bool { return b == want }, label)
}

var UnsubmittedDepositionD = decode.Intersect(
	baseDepositionD,
	decode.Struct(func(r *decode.Record) UnsubmittedLinks {
		links := decode.Field(r, "links", decode.Struct(func(r *decode.Record) UnsubmittedLinks {
			return UnsubmittedLinks{
				Bucket:  decode.Field(r, "bucket", types.UrlC.Decoder()),
				Publish: decode.Field(r, "publish", types.UrlC.Decoder()),
			}
		}))
		decode.Field(r, "state", decode.Literal("unsubmitted"))
		decode.Field(r, "submitted", boolLiteral(false))
		return links
	}),
	func(base baseDeposition, links UnsubmittedLinks) UnsubmittedDeposition {
		return UnsubmittedDeposition{ID: base.ID, Metadata: base.Metadata, Links: links}
	},
)

type submittedState struct {
	doi   types.Doi
	links SubmittedLinks
}

var SubmittedDepositionD = decode.Intersect(
	baseDepositionD,
	decode.Struct(func(r *decode.Record) submittedState {
		s := submittedState{
			doi: decode.Field(r, "doi", types.DoiC.Decoder()),
			links: decode.Field(r, "links", decode.Struct(func(r *decode.Record) SubmittedLinks {
				return SubmittedLinks{LatestHTML: decode.Field(r, "latest_html", types.UrlC.Decoder())}
			})),
		}
		decode.Field(r, "state", decode.Literal("done"))
		decode.Field(r, "submitted", boolLiteral(true))
		return s
	}),
	func(base baseDeposition, s submittedState) SubmittedDeposition {
		return SubmittedDeposition{ID: base.ID, Metadata: base.Metadata, Doi: s.doi, Links: s.links}
	},
)

type RecordCreator struct {
	Name  string
	Orcid *types.Orcid
}

type RecordMetadata struct {
	Creators           []RecordCreator
	Description        string
	RelatedIdentifiers []RelatedIdentifier
	Title              string
	Keywords           []string
}

// Record ist ein veröffentlichter Eintrag aus Suche oder Abruf.
type Record struct {
	Doi      types.Doi
	ID       types.PositiveInt
	Links    SubmittedLinks
	Metadata RecordMetadata
}

var recordCreatorD = decode.Struct(func(r *decode.Record) RecordCreator {
	return RecordCreator{
		Name:  decode.Field(r, "name", decode.String),
		Orcid: decode.OptionalField(r, "orcid", types.OrcidC.Decoder()),
	}
})

var RecordD = decode.Struct(func(r *decode.Record) Record {
	return Record{
		Doi: decode.Field(r, "doi", types.DoiC.Decoder()),
		ID:  decode.Field(r, "id", types.PositiveIntC.Decoder()),
		Links: decode.Field(r, "links", decode.Struct(func(r *decode.Record) SubmittedLinks {
			return SubmittedLinks{LatestHTML: decode.Field(r, "latest_html", types.UrlC.Decoder())}
		})),
		Metadata: decode.Field(r, "metadata", decode.Struct(func(r *decode.Record) RecordMetadata {
			m := RecordMetadata{
				Creators:           decode.Field(r, "creators", decode.NonEmptyArray(recordCreatorD)),
				Description:        decode.Field(r, "description", decode.String),
				RelatedIdentifiers: decode.Field(r, "related_identifiers", codec.NonEmptyArray(RelatedIdentifierC).Decoder()),
				Title:              decode.Field(r, "title", decode.String),
			}
			if keywords := decode.OptionalField(r, "keywords", keywordsC.Decoder()); keywords != nil {
				m.Keywords = *keywords
			}
			return m
		})),
	}
})

var searchResultsD = decode.Struct(func(r *decode.Record) []Record {
	return decode.Field(r, "hits", decode.Struct(func(r *decode.Record) []Record {
		return decode.Field(r, "hits", decode.Array(RecordD))
	}))
})

// ReviewedPreprint liefert die DOI des besprochenen Preprints: den ersten
// DOI-Verweis mit Relation "reviews".
func (r Record) ReviewedPreprint() (types.Doi, bool) {
	for _, ri := range r.Metadata.RelatedIdentifiers {
		if ri.Scheme == SchemeDoi && ri.Relation == RelationReviews {
			return ri.Doi, true
		}
	}
	return types.Doi{}, false
}

// File ist eine hochzuladende Datei.
type File struct {
	Name    string
	Type    string
	Content []byte
}
