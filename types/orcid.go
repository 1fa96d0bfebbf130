package types

import (
	"net/url"
	"regexp"
	"strings"

	"prereview/codec"
	"prereview/codec/decode"
)

const orcidBaseURL = "https://orcid.org/"

// Orcid ist eine ORCID iD in kanonischer Form 0000-0000-0000-000X.
type Orcid struct {
	value string
}

var (
	orcidURLPrefix = regexp.MustCompile(`^(?i)https?://(www\.)?orcid\.org/`)
	orcidDigits    = regexp.MustCompile(`^\d{15}[\dX]$`)
)

// normalizeOrcid bringt eine ORCID iD in Bindestrichform und prüft die
// Prüfziffer (ISO 7064 11,2).
func normalizeOrcid(input string) (string, error) {
	s := orcidURLPrefix.ReplaceAllString(strings.TrimSpace(input), "")
	s = strings.ToUpper(strings.ReplaceAll(s, "-", ""))
	if !orcidDigits.MatchString(s) {
		return "", invalid("ORCID iD", input, "expected 16 digits")
	}
	if orcidCheckDigit(s[:15]) != s[15] {
		return "", invalid("ORCID iD", input, "checksum mismatch")
	}
	return s[0:4] + "-" + s[4:8] + "-" + s[8:12] + "-" + s[12:16], nil
}

func orcidCheckDigit(base string) byte {
	total := 0
	for _, r := range base {
		total = (total + int(r-'0')) * 2
	}
	result := (12 - total%11) % 11
	if result == 10 {
		return 'X'
	}
	return byte('0' + result)
}

// ParseOrcid akzeptiert nur bereits kanonische Eingaben: die normalisierte
// Form muss dem Literal entsprechen.
func ParseOrcid(s string) (Orcid, error) {
	normalized, err := normalizeOrcid(s)
	if err != nil {
		return Orcid{}, err
	}
	if normalized != s {
		return Orcid{}, invalid("ORCID iD", s, "not in canonical form "+normalized)
	}
	return Orcid{value: s}, nil
}

// OrcidFromURL normalisiert großzügig, etwa "http://orcid.org/0000000218250097".
func OrcidFromURL(s string) (Orcid, error) {
	normalized, err := normalizeOrcid(s)
	if err != nil {
		return Orcid{}, err
	}
	return Orcid{value: normalized}, nil
}

func MustOrcid(s string) Orcid {
	o, err := ParseOrcid(s)
	if err != nil {
		panic(err)
	}
	return o
}

func (o Orcid) String() string { return o.value }

func (o Orcid) IsZero() bool { return o.value == "" }

func (o Orcid) ToURL() *url.URL {
	u, _ := url.Parse(orcidBaseURL + o.value)
	return u
}

var OrcidC = codec.Parse(codec.String, ParseOrcid, Orcid.String, "Orcid")

// OrcidURLD dekodiert ORCID-URLs aus Upstream-Daten (Crossref "ORCID").
var OrcidURLD = decode.Parse(UrlC.Decoder(), func(u *url.URL) (Orcid, error) {
	return OrcidFromURL(u.String())
}, "OrcidUrl")
