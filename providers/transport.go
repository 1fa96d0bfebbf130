package providers

import (
	"net/http"
	"time"
)

const userAgent = "PREreview (+https://prereview.org)"

// CustomTransport fügt jeder Anfrage einen User-Agent-Header und, falls
// gesetzt, einen Bearer-Token hinzu.
type CustomTransport struct {
	Transport   http.RoundTripper
	BearerToken string
}

func (t *CustomTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTripper dürfen die Anfrage nicht verändern
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", userAgent)
	if t.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+t.BearerToken)
	}
	base := t.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}

// NewHTTPClient erstellt einen Client mit Timeout. token darf leer sein.
func NewHTTPClient(timeout time.Duration, token string) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &CustomTransport{
			Transport:   http.DefaultTransport,
			BearerToken: token,
		},
	}
}
