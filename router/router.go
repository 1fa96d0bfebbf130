// Package router bildet Pfade auf typisierte Werte ab und zurück. Die
// Prüfung der Werte übernehmen die Codecs aus types.
package router

import (
	"net/url"
	"strings"

	"prereview/codec"
	"prereview/types"
)

const (
	Home   = "/"
	LogIn  = "/log-in"
	LogOut = "/log-out"
	Search = "/search"
)

// Route ist ein Pfad der Form <prefix><segment><suffix>, dessen Segment
// über einen Codec in A übersetzt wird.
type Route[A any] struct {
	prefix string
	suffix string
	param  string
	codec  codec.Codec[A]
}

// New erzeugt eine Route. param benennt das Segment im gin-Muster.
func New[A any](prefix, param, suffix string, c codec.Codec[A]) Route[A] {
	return Route[A]{prefix: prefix, suffix: suffix, param: param, codec: c}
}

// Match dekodiert einen maskierten Pfad (URL.EscapedPath). Es liefert den
// Wert und den Rest hinter dem Suffix; ok ist false, wenn der Pfad nicht passt.
func (r Route[A]) Match(path string) (value A, rest string, ok bool) {
	tail, found := strings.CutPrefix(path, r.prefix)
	if !found {
		return value, "", false
	}
	segment, rest, _ := strings.Cut(tail, "/")
	if rest != "" {
		rest = "/" + rest
	}
	rest, found = strings.CutPrefix(rest, r.suffix)
	if !found || (rest != "" && rest[0] != '/') {
		return value, "", false
	}
	raw, err := url.PathUnescape(segment)
	if err != nil || raw == "" {
		return value, "", false
	}
	value, err = r.codec.Decode(raw)
	if err != nil {
		return value, "", false
	}
	return value, rest, true
}

// Parse ist Match für einen vollständigen Pfad.
func (r Route[A]) Parse(path string) (A, bool) {
	value, rest, ok := r.Match(path)
	if !ok || rest != "" {
		var zero A
		return zero, false
	}
	return value, true
}

// Segment dekodiert nur das Segment, z.B. einen gin-Parameter.
func (r Route[A]) Segment(segment string) (A, bool) {
	return r.Parse(r.prefix + url.PathEscape(segment) + r.suffix)
}

// Format erzeugt den maskierten Pfad zu value.
func (r Route[A]) Format(value A) string {
	s, _ := r.codec.Encode(value).(string)
	return r.prefix + url.PathEscape(s) + r.suffix
}

// Pattern ist das gin-Muster der Route, z.B. "/reviews/:id".
func (r Route[A]) Pattern() string {
	return r.prefix + ":" + r.param + r.suffix
}

var (
	Preprint            = New("/preprints/", "doi", "", types.DoiC)
	PreprintReview      = New("/preprints/", "doi", "/review", types.DoiC)
	PreprintRapidReview = New("/preprints/", "doi", "/rapid-review", types.DoiC)
	Review              = New("/reviews/", "id", "", types.PositiveIntFromStringC)
)
