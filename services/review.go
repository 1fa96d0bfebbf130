package services

import (
	"fmt"
	"html"
	"net/url"
	"strings"

	"prereview/codec/decode"
	"prereview/providers/zenodo"
	"prereview/types"
)

const (
	KindReview      = "review"
	KindRapidReview = "rapid-review"
)

// Submission ist ein eingereichtes Review, das als Deposition archiviert wird.
type Submission interface {
	Kind() string
	Metadata(community types.NonEmptyString) zenodo.DepositMetadata
	File() zenodo.File
}

// NewReview ist ein Review mit Freitext.
type NewReview struct {
	Preprint types.Doi
	Name     types.NonEmptyString
	Content  types.NonEmptyString
}

var NewReviewD = decode.Struct(func(r *decode.Record) NewReview {
	return NewReview{
		Preprint: decode.Field(r, "preprint", types.DoiC.Decoder()),
		Name:     decode.Field(r, "name", types.NonEmptyStringC.Decoder()),
		Content:  decode.Field(r, "content", types.NonEmptyStringC.Decoder()),
	}
})

func (NewReview) Kind() string { return KindReview }

func (r NewReview) Metadata(community types.NonEmptyString) zenodo.DepositMetadata {
	return depositMetadata(r.Preprint, r.Name, "Review title", r.Content, community, nil)
}

func (r NewReview) File() zenodo.File {
	return zenodo.File{Name: "index.txt", Type: "text/plain", Content: []byte(r.Content.String())}
}

type Answer string

const (
	AnswerYes    Answer = "Yes"
	AnswerNo     Answer = "No"
	AnswerNA     Answer = "N/A"
	AnswerUnsure Answer = "Unsure"
)

var Answers = []Answer{AnswerYes, AnswerNo, AnswerNA, AnswerUnsure}

var answerD = decode.Literal(Answers...)

// Question ist eine Frage des Rapid-Review-Formulars.
type Question struct {
	Key  string
	Text string
}

// RapidReviewQuestions in der Reihenfolge von Formular und HTML-Tabelle.
var RapidReviewQuestions = []Question{
	{"novel", "Are the findings novel?"},
	{"future", "Are the results likely to lead to future research?"},
	{"replication", "Is sufficient detail provided to allow reproduction of the study"},
	{"methods", "Are the methods and statistics appropriate for the analysis?"},
	{"conclusions", "Are the principal conclusions supported by the data and analysis?"},
	{"limitations", "Does the manuscript discuss limitations?"},
	{"ethical", "Have the authors adequately discussed ethical concerns?"},
	{"data", "Does the manuscript include new data?"},
	{"available", "Are the data used in the manuscript available?"},
	{"code", "Is the code used in the manuscript available?"},
	{"manuscript", "Would you recommend this manuscript to others?"},
	{"review", "Do you recommend this manuscript for peer review?"},
}

// NewRapidReview beantwortet alle RapidReviewQuestions. Answers ist nach
// Question.Key indiziert.
type NewRapidReview struct {
	Preprint types.Doi
	Name     types.NonEmptyString
	Answers  map[string]Answer
}

var NewRapidReviewD = decode.Struct(func(r *decode.Record) NewRapidReview {
	review := NewRapidReview{
		Preprint: decode.Field(r, "preprint", types.DoiC.Decoder()),
		Name:     decode.Field(r, "name", types.NonEmptyStringC.Decoder()),
		Answers:  make(map[string]Answer, len(RapidReviewQuestions)),
	}
	for _, q := range RapidReviewQuestions {
		review.Answers[q.Key] = decode.Field(r, q.Key, answerD)
	}
	return review
})

func (NewRapidReview) Kind() string { return KindRapidReview }

func (r NewRapidReview) Metadata(community types.NonEmptyString) zenodo.DepositMetadata {
	return depositMetadata(r.Preprint, r.Name, "Rapid review title", r.HTML(), community, []string{"rapid-review"})
}

func (r NewRapidReview) File() zenodo.File {
	return zenodo.File{Name: "index.html", Type: "text/html", Content: []byte(r.HTML().String())}
}

// HTML rendert die Antworten als Tabelle.
func (r NewRapidReview) HTML() types.NonEmptyString {
	var b strings.Builder
	b.WriteString("<table>\n")
	for _, q := range RapidReviewQuestions {
		fmt.Fprintf(&b, "  <tr>\n    <th>%s\n    <td>%s\n", html.EscapeString(q.Text), html.EscapeString(string(r.Answers[q.Key])))
	}
	b.WriteString("</table>\n")
	return types.MustNonEmptyString(b.String())
}

func depositMetadata(preprint types.Doi, name types.NonEmptyString, title string, description, community types.NonEmptyString, keywords []string) zenodo.DepositMetadata {
	return zenodo.DepositMetadata{
		UploadType:         zenodo.UploadTypePublication,
		PublicationType:    zenodo.PublicationTypeArticle,
		Title:              types.MustNonEmptyString(title),
		Creators:           []zenodo.Creator{{Name: name}},
		Description:        description,
		Keywords:           keywords,
		RelatedIdentifiers: []zenodo.RelatedIdentifier{zenodo.DoiIdentifier(preprint, zenodo.RelationReviews)},
		Communities:        []zenodo.Community{{Identifier: community}},
	}
}

// FormRecord macht aus Formularwerten ein Objekt für die Decoder. Pro
// Schlüssel zählt der erste Wert, fehlende Schlüssel bleiben undefiniert.
func FormRecord(values url.Values) map[string]any {
	record := make(map[string]any, len(values))
	for key, vs := range values {
		if len(vs) > 0 {
			record[key] = vs[0]
		}
	}
	return record
}

// FormErrors faltet einen Decode-Fehler zu Meldungen der Form
// "<key> is required", in der Reihenfolge der Formularfelder.
func FormErrors(err *decode.Error) []string {
	return decode.Fold(err,
		func(l decode.Leaf) []string {
			if len(l.Path) > 0 && l.Path[0].Kind == decode.KeySegment {
				return []string{fmt.Sprintf("%s is %s", l.Path[0].Key, keyKind(l.Path[0]))}
			}
			return []string{l.Expected}
		},
		func(left, right []string) []string {
			return append(left, right...)
		},
	)
}

func keyKind(seg decode.Segment) string {
	if seg.Required {
		return "required"
	}
	return "optional"
}
