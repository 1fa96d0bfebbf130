package types

import "prereview/codec"

type NonEmptyString struct {
	value string
}

func ParseNonEmptyString(s string) (NonEmptyString, error) {
	if len(s) == 0 {
		return NonEmptyString{}, invalid("NonEmptyString", s, "must not be empty")
	}
	return NonEmptyString{value: s}, nil
}

func MustNonEmptyString(s string) NonEmptyString {
	n, err := ParseNonEmptyString(s)
	if err != nil {
		panic(err)
	}
	return n
}

func (n NonEmptyString) String() string { return n.value }

var NonEmptyStringC = codec.Parse(codec.String, ParseNonEmptyString, NonEmptyString.String, "NonEmptyString")
