package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDoi(t *testing.T) {
	doi, err := ParseDoi("10.1000/xyz123")
	require.NoError(t, err)
	assert.Equal(t, "10.1000/xyz123", doi.String())
	assert.Equal(t, "1000", doi.Prefix())

	doi, err = ParseDoi("10.1101/2021.01.01.000001")
	require.NoError(t, err)
	assert.Equal(t, "1101", doi.Prefix())

	for _, input := range []string{"not-a-doi", "", "10.12/abc", "10.1000/", "10.1000/a b", " 10.1000/abc"} {
		_, err := ParseDoi(input)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr, input)
		assert.Equal(t, "DOI", verr.Type)
		assert.True(t, errors.Is(err, ErrInvalidValue))
	}
}

func TestDoiToURL(t *testing.T) {
	u, err := MustDoi("10.1101/2021.01.01.000001").ToURL("https://doi.org")
	require.NoError(t, err)
	assert.Equal(t, "https://doi.org/10.1101/2021.01.01.000001", u.String())
}

func TestParseOrcid(t *testing.T) {
	orcid, err := ParseOrcid("0000-0002-1825-0097")
	require.NoError(t, err)
	assert.Equal(t, "https://orcid.org/0000-0002-1825-0097", orcid.ToURL().String())

	_, err = ParseOrcid("0000-0001-5109-3700")
	require.NoError(t, err)
	_, err = ParseOrcid("0000-0002-1694-233X")
	require.NoError(t, err)

	// gleiche Kennung, aber nicht kanonisch
	_, err = ParseOrcid("0000000218250097")
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = ParseOrcid("0000-0002-1825-0098")
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestOrcidFromURL(t *testing.T) {
	for _, input := range []string{
		"http://orcid.org/0000-0002-1825-0097",
		"https://orcid.org/0000000218250097",
		"0000000218250097",
	} {
		orcid, err := OrcidFromURL(input)
		require.NoError(t, err, input)
		assert.Equal(t, "0000-0002-1825-0097", orcid.String())
	}

	_, err := OrcidFromURL("https://orcid.org/0000-0002-1825-009")
	assert.Error(t, err)
}

func TestOrcidURLDecoder(t *testing.T) {
	orcid, err := OrcidURLD.Run("http://orcid.org/0000-0002-1825-0097")
	require.NoError(t, err)
	assert.Equal(t, MustOrcid("0000-0002-1825-0097"), orcid)

	_, err = OrcidURLD.Run("0000-0002-1825-0097")
	assert.Error(t, err, "bare identifiers are not URLs")
}

func TestCanonicalFormsAreFixedPoints(t *testing.T) {
	doi := MustDoi("10.5072/zenodo.999")
	again, err := ParseDoi(doi.String())
	require.NoError(t, err)
	assert.Equal(t, doi, again)

	orcid := MustOrcid("0000-0002-1825-0097")
	againOrcid, err := ParseOrcid(orcid.String())
	require.NoError(t, err)
	assert.Equal(t, orcid, againOrcid)

	p := MustPositiveInt(999)
	againP, err := PositiveIntFromString(p.String())
	require.NoError(t, err)
	assert.Equal(t, p, againP)
}

func TestParseUuid(t *testing.T) {
	u := NewUuid()
	parsed, err := ParseUuid(u.String())
	require.NoError(t, err)
	assert.Equal(t, u, parsed)

	_, err = ParseUuid("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	require.NoError(t, err, "version 1")

	for _, input := range []string{
		"not-a-uuid",
		"00000000-0000-0000-0000-000000000000",
		"6ba7b8109dad11d180b400c04fd430c8",
		"{6ba7b810-9dad-11d1-80b4-00c04fd430c8}",
	} {
		_, err := ParseUuid(input)
		assert.ErrorIs(t, err, ErrInvalidValue, input)
	}
}

func TestPositiveInt(t *testing.T) {
	p, err := NewPositiveInt(1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.Int64())

	_, err = NewPositiveInt(0)
	assert.ErrorIs(t, err, ErrInvalidValue)
	_, err = NewPositiveInt(-5)
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = PositiveIntFromString("abc")
	assert.ErrorIs(t, err, ErrInvalidValue)

	for _, s := range []string{"0999", "+999", "00"} {
		_, err = PositiveIntFromString(s)
		assert.ErrorIs(t, err, ErrInvalidValue, s)
	}
}

func TestPositiveIntRequiresBothRefinements(t *testing.T) {
	_, err := PositiveIntC.Decode(1.5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Int")
	assert.NotContains(t, err.Error(), "Positive")

	_, err = PositiveIntC.Decode(-1.5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Int")
	assert.Contains(t, err.Error(), "Positive")

	p, err := PositiveIntC.Decode(float64(42))
	require.NoError(t, err)
	assert.Equal(t, int64(42), PositiveIntC.Encode(p))
}

func TestNonEmptyString(t *testing.T) {
	_, err := ParseNonEmptyString("")
	assert.ErrorIs(t, err, ErrInvalidValue)

	s, err := NonEmptyStringC.Decode("Great paper")
	require.NoError(t, err)
	assert.Equal(t, "Great paper", s.String())
}

func TestParseURL(t *testing.T) {
	u, err := ParseURL("https://sandbox.zenodo.org/api/files/abc")
	require.NoError(t, err)
	assert.Equal(t, "sandbox.zenodo.org", u.Host)

	_, err = ParseURL("/relative/path")
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestCodecsRoundTrip(t *testing.T) {
	doi := MustDoi("10.1101/2021.01.01.000001")
	decodedDoi, err := DoiC.Decode(DoiC.Encode(doi))
	require.NoError(t, err)
	assert.Equal(t, doi, decodedDoi)

	orcid := MustOrcid("0000-0002-1825-0097")
	decodedOrcid, err := OrcidC.Decode(OrcidC.Encode(orcid))
	require.NoError(t, err)
	assert.Equal(t, orcid, decodedOrcid)

	id := NewUuid()
	decodedID, err := UuidC.Decode(UuidC.Encode(id))
	require.NoError(t, err)
	assert.Equal(t, id, decodedID)

	u, err := ParseURL("https://zenodo.org/record/999")
	require.NoError(t, err)
	decodedURL, err := UrlC.Decode(UrlC.Encode(u))
	require.NoError(t, err)
	assert.Equal(t, u, decodedURL)

	p := MustPositiveInt(7)
	decodedP, err := PositiveIntFromStringC.Decode(PositiveIntFromStringC.Encode(p))
	require.NoError(t, err)
	assert.Equal(t, p, decodedP)
}
