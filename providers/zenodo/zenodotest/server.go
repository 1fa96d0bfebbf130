// Package zenodotest stellt einen In-Memory-Zenodo für Tests bereit.
package zenodotest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
)

// Request ist eine aufgezeichnete Anfrage.
type Request struct {
	Method        string
	Path          string
	Authorization string
	ContentType   string
	Body          []byte
}

// Server simuliert die benötigten Zenodo-Endpunkte unter /api. Die Status-
// Felder überschreiben die regulären Antworten (0 = Standard).
type Server struct {
	*httptest.Server

	CreateStatus  int
	UploadStatus  int
	PublishStatus int

	// NextID ist die ID der nächsten Deposition.
	NextID int
	// DoiPrefix ergibt mit der ID die DOI veröffentlichter Depositions.
	DoiPrefix string

	mu          sync.Mutex
	requests    []Request
	records     []map[string]any
	depositions map[string]map[string]any
}

// NewServer startet den Server; er wird mit dem Test beendet.
func NewServer(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		NextID:      999,
		DoiPrefix:   "10.5072/zenodo.",
		depositions: map[string]map[string]any{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/records/{$}", s.search)
	mux.HandleFunc("GET /api/records/{id}", s.getRecord)
	mux.HandleFunc("POST /api/deposit/depositions", s.create)
	mux.HandleFunc("PUT /api/files/{bucket}/{name}", s.upload)
	mux.HandleFunc("POST /api/deposit/depositions/{id}/actions/publish", s.publish)

	s.Server = httptest.NewServer(s.record(mux))
	t.Cleanup(s.Close)
	return s
}

// BaseURL ist der Wert für ZENODO_BASE_URL.
func (s *Server) BaseURL() string {
	return s.URL + "/api"
}

// AddRecord fügt einen veröffentlichten Record hinzu (rohes JSON-Objekt).
func (s *Server) AddRecord(record map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
}

// Requests liefert alle bisherigen Anfragen in Eingangsreihenfolge.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Calls zählt die Anfragen mit Methode und Pfad.
func (s *Server) Calls(method, path string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			ContentType:   r.Header.Get("Content-Type"),
			Body:          body,
		})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	hits := append([]map[string]any{}, s.records...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"hits": map[string]any{"hits": hits}})
}

func (s *Server) getRecord(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.records {
		if fmt.Sprint(rec["id"]) == id {
			writeJSON(w, http.StatusOK, rec)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]any{"status": 404, "message": "PID does not exist."})
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	if s.CreateStatus != 0 {
		writeJSON(w, s.CreateStatus, map[string]any{"message": "create failed"})
		return
	}
	var in struct {
		Metadata map[string]any `json:"metadata"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": err.Error()})
		return
	}

	s.mu.Lock()
	id := s.NextID
	s.NextID++
	key := strconv.Itoa(id)
	deposition := map[string]any{
		"id":       id,
		"metadata": in.Metadata,
		"links": map[string]any{
			"bucket":  fmt.Sprintf("%s/api/files/bucket-%d", s.URL, id),
			"publish": fmt.Sprintf("%s/api/deposit/depositions/%d/actions/publish", s.URL, id),
		},
		"state":     "unsubmitted",
		"submitted": false,
	}
	s.depositions[key] = deposition
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, deposition)
}

func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	if s.UploadStatus != 0 {
		writeJSON(w, s.UploadStatus, map[string]any{"message": "upload failed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"key": r.PathValue("name"), "mimetype": r.Header.Get("Content-Type")})
}

func (s *Server) publish(w http.ResponseWriter, r *http.Request) {
	if s.PublishStatus != 0 {
		writeJSON(w, s.PublishStatus, map[string]any{"message": "publish failed"})
		return
	}

	s.mu.Lock()
	deposition, ok := s.depositions[r.PathValue("id")]
	if !ok {
		s.mu.Unlock()
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "not found"})
		return
	}
	id := deposition["id"]
	doi := fmt.Sprintf("%s%v", s.DoiPrefix, id)
	latest := fmt.Sprintf("%s/record/%v", s.URL, id)
	submitted := map[string]any{
		"id":        id,
		"metadata":  deposition["metadata"],
		"doi":       doi,
		"links":     map[string]any{"latest_html": latest},
		"state":     "done",
		"submitted": true,
	}
	s.records = append(s.records, map[string]any{
		"id":       id,
		"doi":      doi,
		"links":    map[string]any{"latest_html": latest},
		"metadata": deposition["metadata"],
	})
	s.mu.Unlock()

	writeJSON(w, http.StatusAccepted, submitted)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
