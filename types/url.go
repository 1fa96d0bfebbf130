package types

import (
	"net/url"

	"prereview/codec"
)

// ParseURL akzeptiert nur absolute URLs mit Schema und Host.
func ParseURL(s string) (*url.URL, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, invalid("URL", s, err.Error())
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, invalid("URL", s, "not an absolute URL")
	}
	return u, nil
}

func urlString(u *url.URL) string { return u.String() }

var UrlC = codec.Parse(codec.String, ParseURL, urlString, "Url")
