package europepmc

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"prereview/codec/decode"
	"prereview/config"
	"prereview/models"
	"prereview/providers"
)

const (
	preprintFilter = ` (PUBLISHER:"bioRxiv" OR PUBLISHER:"medRxiv") sort_date:y`
	maxBodySize    = 5 << 20
)

// Fetcher implementiert das PreprintSearcher-Interface für Europe PMC.
type Fetcher struct {
	BaseURL string
	Client  *http.Client
	Logger  *zap.Logger
}

// NewFetcher erstellt einen neuen Europe PMC Fetcher.
func NewFetcher(cfg *config.Config, logger *zap.Logger) *Fetcher {
	return &Fetcher{
		BaseURL: strings.TrimRight(cfg.EuropePMCBaseURL, "/"),
		Client:  providers.NewHTTPClient(cfg.HTTPClientTimeout, ""),
		Logger:  logger,
	}
}

// Name gibt den Namen des Providers zurück.
func (f *Fetcher) Name() string {
	return "europepmc"
}

// Search sucht bioRxiv- und medRxiv-Preprints, neueste zuerst.
func (f *Fetcher) Search(ctx context.Context, query string) ([]models.Preprint, error) {
	log := f.Logger.With(zap.String("query", query))
	log.Debug("Starte Suche auf Europe PMC.")

	params := url.Values{
		"query":      {query + preprintFilter},
		"format":     {"json"},
		"resultType": {"core"},
	}
	searchURL := f.BaseURL + "/search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, providers.NetworkError(f.Name(), "unable to build request", err)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		log.Error("Unable to search Europe PMC", zap.Error(err))
		return nil, providers.NetworkError(f.Name(), "unable to search Europe PMC", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Error("Unable to search Europe PMC", zap.Int("status", resp.StatusCode))
		return nil, providers.HTTPStatusError(f.Name(), "unable to search Europe PMC", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		log.Error("Unable to search Europe PMC", zap.Error(err))
		return nil, providers.NetworkError(f.Name(), "unable to read body", err)
	}
	raw, err := decode.ParseJSON(body)
	if err != nil {
		log.Error("Unable to decode results from Europe PMC", zap.Error(err))
		return nil, providers.MalformedError(f.Name(), "body is not JSON", err)
	}
	articles, derr := SearchResponseD(raw)
	if derr != nil {
		log.Error("Unable to decode results from Europe PMC", zap.String("errors", derr.Draw()))
		return nil, providers.DecodeError(f.Name(), "unexpected search results", derr)
	}

	preprints := make([]models.Preprint, 0, len(articles))
	for _, article := range articles {
		preprints = append(preprints, mapArticleToModel(article))
	}

	log.Info("Suche auf Europe PMC abgeschlossen", zap.Int("found_preprints", len(preprints)))
	return preprints, nil
}
