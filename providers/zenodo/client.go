// Package zenodo ist der Client für die Zenodo-API (Suche, Records,
// Depositions). Jede Antwort wird gegen ihr Schema dekodiert.
package zenodo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"prereview/codec/decode"
	"prereview/config"
	"prereview/metrics"
	"prereview/providers"
	"prereview/types"
)

const (
	providerName = "zenodo"
	maxBodySize  = 10 << 20
)

// Client spricht mit Zenodo. Der API-Key steckt im Transport des HTTP-Clients.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Logger  *zap.Logger
	Metrics *metrics.Metrics
}

// NewClient erstellt einen neuen Zenodo-Client.
func NewClient(cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) *Client {
	return &Client{
		BaseURL: strings.TrimRight(cfg.ZenodoBaseURL, "/"),
		HTTP:    providers.NewHTTPClient(cfg.HTTPClientTimeout, cfg.ZenodoAPIKey),
		Logger:  logger,
		Metrics: m,
	}
}

// operation beschreibt einen Aufruf für Logging und Metriken.
type operation struct {
	name          string
	expected      int
	failMessage   string
	decodeMessage string
	// leerer Body erlaubt
	allowEmpty bool
}

var (
	opSearch    = operation{"search", http.StatusOK, "Unable to search Zenodo", "Unable to decode results from Zenodo", false}
	opGetRecord = operation{"get_record", http.StatusOK, "Unable to fetch record from Zenodo", "Unable to decode record from Zenodo", false}
	opCreate    = operation{"create", http.StatusCreated, "Unable to create deposition on Zenodo", "Unable to decode deposition from Zenodo", false}
	opUpload    = operation{"upload", http.StatusOK, "Unable to upload file to Zenodo", "Unable to upload file to Zenodo", true}
	opPublish   = operation{"publish", http.StatusAccepted, "Unable to publish deposition on Zenodo", "Unable to decode deposition from Zenodo", false}
)

// Search durchsucht veröffentlichte Records, z.B. communities=<name>.
func (c *Client) Search(ctx context.Context, query url.Values) ([]Record, error) {
	u := c.BaseURL + "/records/?" + query.Encode()
	records, err := call(ctx, c, opSearch, http.MethodGet, u, "", nil, searchResultsD)
	c.observe(opSearch, err)
	return records, err
}

// SearchCommunity listet die Records einer Community.
func (c *Client) SearchCommunity(ctx context.Context, community string) ([]Record, error) {
	return c.Search(ctx, url.Values{"communities": {community}})
}

// SearchRelated findet Records, die auf die DOI verweisen.
func (c *Client) SearchRelated(ctx context.Context, doi types.Doi) ([]Record, error) {
	return c.Search(ctx, url.Values{"q": {fmt.Sprintf("related.identifier:%q", doi.String())}})
}

func (c *Client) GetRecord(ctx context.Context, id types.PositiveInt) (*Record, error) {
	u := c.BaseURL + "/records/" + id.String()
	record, err := call(ctx, c, opGetRecord, http.MethodGet, u, "", nil, RecordD)
	c.observe(opGetRecord, err)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// CreateDeposition legt eine neue Deposition an (erwartet 201).
func (c *Client) CreateDeposition(ctx context.Context, metadata DepositMetadata) (*UnsubmittedDeposition, error) {
	body, err := json.Marshal(map[string]any{"metadata": DepositMetadataC.Encode(metadata)})
	if err != nil {
		return nil, fmt.Errorf("encode deposit metadata: %w", err)
	}
	u := c.BaseURL + "/deposit/depositions"
	deposition, err := call(ctx, c, opCreate, http.MethodPost, u, "application/json", body, UnsubmittedDepositionD)
	c.observe(opCreate, err)
	if err != nil {
		return nil, err
	}
	return &deposition, nil
}

// UploadFile legt eine Datei im Bucket der Deposition ab (erwartet 200). Der
// Body muss gültiges JSON sein, sein Inhalt wird nicht ausgewertet.
func (c *Client) UploadFile(ctx context.Context, deposition *UnsubmittedDeposition, file File) (*UnsubmittedDeposition, error) {
	u := deposition.Links.Bucket.JoinPath(file.Name).String()
	_, err := call(ctx, c, opUpload, http.MethodPut, u, file.Type, file.Content, acknowledgedD)
	c.observe(opUpload, err)
	if err != nil {
		return nil, err
	}
	return deposition, nil
}

// PublishDeposition veröffentlicht die Deposition (erwartet 202).
func (c *Client) PublishDeposition(ctx context.Context, deposition *UnsubmittedDeposition) (*SubmittedDeposition, error) {
	u := deposition.Links.Publish.String()
	submitted, err := call(ctx, c, opPublish, http.MethodPost, u, "", nil, SubmittedDepositionD)
	c.observe(opPublish, err)
	if err != nil {
		return nil, err
	}
	return &submitted, nil
}

func (c *Client) observe(op operation, err error) {
	c.Metrics.ArchiveRequests.WithLabelValues(op.name, metrics.Outcome(err)).Inc()
}

var acknowledgedD decode.Decoder[struct{}] = func(any) (struct{}, *decode.Error) {
	return struct{}{}, nil
}

// call führt eine Anfrage aus, prüft den exakten Status und dekodiert den
// Body mit d. Jeder Fehler wird einmal mit der Meldung der Operation geloggt.
func call[A any](ctx context.Context, c *Client, op operation, method, u, contentType string, body []byte, d decode.Decoder[A]) (A, error) {
	var zero A
	log := c.Logger.With(zap.String("operation", op.name), zap.String("url", u))

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		log.Error(op.failMessage, zap.Error(err))
		return zero, providers.NetworkError(providerName, strings.ToLower(op.failMessage), err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		log.Error(op.failMessage, zap.Error(err))
		return zero, providers.NetworkError(providerName, strings.ToLower(op.failMessage), err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		log.Error(op.failMessage, zap.Error(err))
		return zero, providers.NetworkError(providerName, strings.ToLower(op.failMessage), err)
	}

	if resp.StatusCode != op.expected {
		log.Error(op.failMessage,
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", truncate(respBody, 2048)),
		)
		return zero, providers.HTTPStatusError(providerName, strings.ToLower(op.failMessage), resp.StatusCode)
	}

	var raw any = decode.Undefined
	if len(bytes.TrimSpace(respBody)) > 0 || !op.allowEmpty {
		raw, err = decode.ParseJSON(respBody)
		if err != nil {
			log.Error(op.decodeMessage, zap.Int("status", resp.StatusCode), zap.Error(err))
			return zero, providers.MalformedError(providerName, strings.ToLower(op.decodeMessage), err)
		}
	}

	a, derr := d(raw)
	if derr != nil {
		log.Error(op.decodeMessage, zap.String("errors", derr.Draw()))
		return zero, providers.DecodeError(providerName, strings.ToLower(op.decodeMessage), derr)
	}
	return a, nil
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
