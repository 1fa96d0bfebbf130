package types

import (
	"net/url"
	"regexp"

	"prereview/codec"
)

// Doi ist ein Digital Object Identifier der Form 10.<prefix>/<suffix>.
type Doi struct {
	value  string
	prefix string
}

var doiPattern = regexp.MustCompile(`^10\.(\d{4,}(?:\.\d+)*)/[^%"#?\s]+$`)

// ParseDoi validiert s gegen die DOI-Grammatik (vollständiger Treffer).
func ParseDoi(s string) (Doi, error) {
	m := doiPattern.FindStringSubmatch(s)
	if m == nil {
		return Doi{}, invalid("DOI", s, "does not match 10.<prefix>/<suffix>")
	}
	return Doi{value: s, prefix: m[1]}, nil
}

// MustDoi panics on invalid input. Only for tests and constants.
func MustDoi(s string) Doi {
	d, err := ParseDoi(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Doi) String() string { return d.value }

// Prefix liefert den Registrant-Code ohne "10.", z.B. "1101" für bioRxiv.
func (d Doi) Prefix() string { return d.prefix }

func (d Doi) IsZero() bool { return d.value == "" }

// ToURL liefert die kanonische Resolver-URL unter base (z.B. https://doi.org).
func (d Doi) ToURL(base string) (*url.URL, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, err
	}
	return u.JoinPath(d.value), nil
}

var DoiC = codec.Parse(codec.String, ParseDoi, Doi.String, "Doi")
