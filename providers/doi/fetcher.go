// Package doi löst DOIs über Content Negotiation auf. Die Antwort ist je nach
// Registrierungsagentur Crossref- oder DataCite-förmig.
package doi

import (
	"context"
	"io"
	"net/http"

	"go.uber.org/zap"

	"prereview/codec/decode"
	"prereview/config"
	"prereview/metrics"
	"prereview/models"
	"prereview/providers"
	"prereview/providers/crossref"
	"prereview/providers/datacite"
	"prereview/types"
)

const (
	providerName = "doi"
	acceptHeader = "application/vnd.datacite.datacite+json, application/json"
	maxBodySize  = 5 << 20
)

// Crossref zuerst: passt ein Dokument auf beide Formen, gewinnt Crossref.
var DoiDataD = decode.Union(crossref.DoiDataD, datacite.DoiDataD)

// Fetcher implementiert providers.DoiResolver.
type Fetcher struct {
	BaseURL string
	Client  *http.Client
	Logger  *zap.Logger
	Metrics *metrics.Metrics
}

// NewFetcher erstellt einen neuen DOI-Fetcher.
func NewFetcher(cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) *Fetcher {
	return &Fetcher{
		BaseURL: cfg.DOIBaseURL,
		Client:  providers.NewHTTPClient(cfg.HTTPClientTimeout, ""),
		Logger:  logger,
		Metrics: m,
	}
}

// Resolve lädt und normalisiert die Metadaten zu einer DOI.
func (f *Fetcher) Resolve(ctx context.Context, doi types.Doi) (*models.DoiData, error) {
	data, err := f.resolve(ctx, doi)
	f.Metrics.DoiResolutions.WithLabelValues(metrics.Outcome(err)).Inc()
	return data, err
}

func (f *Fetcher) resolve(ctx context.Context, doi types.Doi) (*models.DoiData, error) {
	u, err := doi.ToURL(f.BaseURL)
	if err != nil {
		return nil, providers.NetworkError(providerName, "invalid resolver URL", err)
	}
	log := f.Logger.With(zap.String("doi", doi.String()), zap.String("url", u.String()))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, providers.NetworkError(providerName, "unable to build request", err)
	}
	req.Header.Set("Accept", acceptHeader)

	resp, err := f.Client.Do(req)
	if err != nil {
		log.Error("Unable to fetch DOI data", zap.Error(err))
		return nil, providers.NetworkError(providerName, "unable to fetch DOI data", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Error("Unable to fetch DOI data", zap.Int("status", resp.StatusCode))
		return nil, providers.HTTPStatusError(providerName, "unable to fetch DOI data", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		log.Error("Unable to fetch DOI data", zap.Error(err))
		return nil, providers.NetworkError(providerName, "unable to read body", err)
	}

	raw, err := decode.ParseJSON(body)
	if err != nil {
		log.Error("Unable to decode DOI JSON", zap.Error(err))
		return nil, providers.MalformedError(providerName, "body is not JSON", err)
	}

	data, derr := DoiDataD(raw)
	if derr != nil {
		log.Error("Unable to decode DOI JSON", zap.String("errors", derr.Draw()))
		return nil, providers.DecodeError(providerName, "unexpected DOI metadata", derr)
	}
	return &data, nil
}
