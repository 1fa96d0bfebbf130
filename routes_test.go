package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"prereview/models"
	"prereview/providers/zenodo"
	"prereview/services"
	"prereview/storage"
	"prereview/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeReviews struct {
	recent   []services.ReviewedPreprint
	preprint *services.PreprintReviews
	review   *services.ReviewedPreprint
	err      error
}

func (f *fakeReviews) Recent(context.Context) []services.ReviewedPreprint { return f.recent }

func (f *fakeReviews) Preprint(context.Context, types.Doi) (*services.PreprintReviews, error) {
	return f.preprint, f.err
}

func (f *fakeReviews) Review(context.Context, types.PositiveInt) (*services.ReviewedPreprint, error) {
	return f.review, f.err
}

type fakePublisher struct {
	got []services.Submission
	err error
}

func (f *fakePublisher) Publish(_ context.Context, sub services.Submission) (*zenodo.SubmittedDeposition, error) {
	f.got = append(f.got, sub)
	if f.err != nil {
		return nil, f.err
	}
	return &zenodo.SubmittedDeposition{ID: types.MustPositiveInt(999), Doi: types.MustDoi("10.5072/zenodo.999")}, nil
}

type fakeResolver struct {
	err error
}

func (f *fakeResolver) Resolve(_ context.Context, doi types.Doi) (*models.DoiData, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.DoiData{Doi: doi, Title: "The preprint title"}, nil
}

type fakeSearcher struct {
	query   string
	results []models.Preprint
	err     error
}

func (f *fakeSearcher) Name() string { return "fake" }

func (f *fakeSearcher) Search(_ context.Context, query string) ([]models.Preprint, error) {
	f.query = query
	return f.results, f.err
}

type testApp struct {
	engine    *gin.Engine
	reviews   *fakeReviews
	publisher *fakePublisher
	resolver  *fakeResolver
	searcher  *fakeSearcher
	store     *storage.MemorySessionStore
	logs      *observer.ObservedLogs
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	core, logs := observer.New(zap.InfoLevel)
	app := &testApp{
		reviews:   &fakeReviews{},
		publisher: &fakePublisher{},
		resolver:  &fakeResolver{},
		searcher:  &fakeSearcher{},
		store:     storage.NewMemorySessionStore(),
		logs:      logs,
	}
	srv := &server{
		log:      zap.New(core),
		reviews:  app.reviews,
		publish:  app.publisher,
		resolver: app.resolver,
		search:   app.searcher,
		sessions: newSessions("test-secret", app.store),
		newUser:  func() models.User { return models.User{Name: "Orange Panda"} },
		doiBase:  "https://doi.org",
	}
	engine, err := newRouter(srv, prometheus.NewRegistry())
	require.NoError(t, err)
	app.engine = engine
	return app
}

func (a *testApp) do(req *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	a.engine.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	return a.do(httptest.NewRequest(http.MethodGet, path, nil), cookies...)
}

func (a *testApp) post(path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.do(req, cookies...)
}

func (a *testApp) logIn(t *testing.T) *http.Cookie {
	t.Helper()
	rec := a.get("/log-in")
	require.Equal(t, http.StatusFound, rec.Code)
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie {
			return c
		}
	}
	t.Fatal("no session cookie")
	return nil
}

const preprintPath = "/preprints/10.1101%2F2021.01.01.000001"

func TestHome(t *testing.T) {
	app := newTestApp(t)
	app.reviews.recent = []services.ReviewedPreprint{{
		Review: zenodo.Record{
			ID:       types.MustPositiveInt(1),
			Metadata: zenodo.RecordMetadata{Creators: []zenodo.RecordCreator{{Name: "Jane Doe"}}},
		},
		Preprint: models.DoiData{Doi: types.MustDoi("10.1101/2021.01.01.000001"), Title: "A preprint"},
	}}

	rec := app.get("/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "A preprint")
	assert.Contains(t, rec.Body.String(), "Reviewed by Jane Doe")
	assert.Contains(t, rec.Body.String(), `href="`+preprintPath+`"`)
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))

	assert.Equal(t, 1, app.logs.FilterMessage("Received HTTP request").Len())
	sent := app.logs.FilterMessage("Sent HTTP response").All()
	require.Len(t, sent, 1)
	assert.Equal(t, int64(http.StatusOK), sent[0].ContextMap()["status"])
}

func TestPreprintPage(t *testing.T) {
	app := newTestApp(t)
	orcid := types.MustOrcid("0000-0002-1825-0097")
	app.reviews.preprint = &services.PreprintReviews{
		Preprint: models.DoiData{
			Doi:     types.MustDoi("10.1101/2021.01.01.000001"),
			Title:   "A preprint",
			Authors: []models.Author{{Name: "Josiah Carberry", Orcid: &orcid}, {Name: "Jane Doe"}},
		},
		Reviews: []zenodo.Record{
			{
				ID:       types.MustPositiveInt(7),
				Metadata: zenodo.RecordMetadata{Description: "<script>alert(1)</script>Great paper", Creators: []zenodo.RecordCreator{{Name: "Jane Doe"}}},
			},
			{
				ID: types.MustPositiveInt(8),
				Metadata: zenodo.RecordMetadata{
					Description: "<table>\n</table>\n",
					Creators:    []zenodo.RecordCreator{{Name: "Orange Panda"}},
					Keywords:    []string{services.KindRapidReview},
				},
			},
		},
	}

	rec := app.get(preprintPath)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<title>A preprint | PREreview</title>")
	assert.Contains(t, body, `href="https://orcid.org/0000-0002-1825-0097"`)
	assert.Contains(t, body, "&lt;script&gt;alert(1)&lt;/script&gt;Great paper")
	assert.NotContains(t, body, "<script>alert(1)")
	assert.Contains(t, body, "<table>\n</table>")
	assert.Contains(t, body, "Rapid Review")
	assert.NotContains(t, body, `href="/reviews/8"`)
	assert.Contains(t, body, `href="/reviews/7"`)
	assert.Contains(t, body, "No abstract available")
	assert.Contains(t, body, "to submit a review")
}

func TestPreprintPageErrors(t *testing.T) {
	app := newTestApp(t)

	rec := app.get("/preprints/not-a-doi")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	app.reviews.err = &services.ServiceError{Step: "resolve preprint", Err: errors.New("boom")}
	rec = app.get(preprintPath)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "no-store, must-revalidate", rec.Header().Get("Cache-Control"))
	assert.Contains(t, rec.Body.String(), "Service Unavailable")
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestReviewPage(t *testing.T) {
	app := newTestApp(t)
	latest, err := types.ParseURL("https://sandbox.zenodo.org/record/999")
	require.NoError(t, err)
	app.reviews.review = &services.ReviewedPreprint{
		Review: zenodo.Record{
			ID:    types.MustPositiveInt(999),
			Doi:   types.MustDoi("10.5072/zenodo.999"),
			Links: zenodo.SubmittedLinks{LatestHTML: latest},
			Metadata: zenodo.RecordMetadata{
				Description: "Great paper",
				Creators:    []zenodo.RecordCreator{{Name: "Jane Doe"}},
			},
		},
		Preprint: models.DoiData{Doi: types.MustDoi("10.1101/2021.01.01.000001"), Title: "A preprint"},
	}

	rec := app.get("/reviews/999")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "10.5072/zenodo.999")
	assert.Contains(t, rec.Body.String(), `href="https://sandbox.zenodo.org/record/999"`)

	for _, path := range []string{"/reviews/0", "/reviews/abc", "/reviews/0999"} {
		assert.Equal(t, http.StatusNotFound, app.get(path).Code, path)
	}
}

func TestLogInAndOut(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/log-in", nil)
	req.Header.Set("Referer", "http://example.com"+preprintPath)
	rec := app.do(req)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, preprintPath, rec.Header().Get("Location"))

	cookie := rec.Result().Cookies()[0]
	assert.Equal(t, sessionCookie, cookie.Name)
	assert.True(t, cookie.HttpOnly)

	rec = app.get("/", cookie)
	assert.Contains(t, rec.Body.String(), "Orange Panda")
	assert.Contains(t, rec.Body.String(), "Log out")

	rec = app.get("/log-out", cookie)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	cleared := rec.Result().Cookies()[0]
	assert.Equal(t, sessionCookie, cleared.Name)
	assert.Empty(t, cleared.Value)

	rec = app.get("/", cookie)
	assert.NotContains(t, rec.Body.String(), "Orange Panda")
}

func TestTamperedSessionCookieIsIgnored(t *testing.T) {
	app := newTestApp(t)
	cookie := app.logIn(t)
	cookie.Value += "x"

	rec := app.get("/", cookie)
	assert.NotContains(t, rec.Body.String(), "Orange Panda")
}

func TestReviewFormRequiresUser(t *testing.T) {
	app := newTestApp(t)

	rec := app.get(preprintPath + "/review")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	cookie := app.logIn(t)
	rec = app.get(preprintPath+"/review", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Add a PREreview")
	assert.Contains(t, rec.Body.String(), `value="Orange Panda"`)
	assert.Contains(t, rec.Body.String(), `value="10.1101/2021.01.01.000001"`)

	rec = app.get(preprintPath+"/rapid-review", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Do you recommend this manuscript for peer review?")
	assert.Contains(t, rec.Body.String(), `name="novel"`)
}

func TestSubmitReview(t *testing.T) {
	app := newTestApp(t)
	cookie := app.logIn(t)

	rec := app.post(preprintPath+"/review", url.Values{
		"preprint": {"10.1101/2021.01.01.000001"},
		"name":     {"Jane Doe"},
		"content":  {"Great paper"},
	}, cookie)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/reviews/999", rec.Header().Get("Location"))
	require.Len(t, app.publisher.got, 1)
	assert.Equal(t, services.NewReview{
		Preprint: types.MustDoi("10.1101/2021.01.01.000001"),
		Name:     types.MustNonEmptyString("Jane Doe"),
		Content:  types.MustNonEmptyString("Great paper"),
	}, app.publisher.got[0])
}

func TestSubmitReviewWithErrors(t *testing.T) {
	app := newTestApp(t)
	cookie := app.logIn(t)

	rec := app.post(preprintPath+"/review", url.Values{
		"preprint": {"10.1101/2021.01.01.000001"},
		"name":     {"Jane Doe"},
	}, cookie)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "<li>content is required")
	assert.Empty(t, app.publisher.got)
}

func TestSubmitRapidReview(t *testing.T) {
	app := newTestApp(t)
	cookie := app.logIn(t)

	form := url.Values{
		"preprint": {"10.1101/2021.01.01.000001"},
		"name":     {"Orange Panda"},
	}
	for _, q := range services.RapidReviewQuestions {
		form.Set(q.Key, "Unsure")
	}

	rec := app.post(preprintPath+"/rapid-review", form, cookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	require.Len(t, app.publisher.got, 1)
	assert.Equal(t, services.KindRapidReview, app.publisher.got[0].Kind())
}

func TestSubmitReviewWhenArchiveIsDown(t *testing.T) {
	app := newTestApp(t)
	app.publisher.err = &services.ServiceError{Step: "upload file", Err: errors.New("boom")}

	rec := app.post(preprintPath+"/review", url.Values{
		"preprint": {"10.1101/2021.01.01.000001"},
		"name":     {"Jane Doe"},
		"content":  {"Great paper"},
	})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestSearch(t *testing.T) {
	app := newTestApp(t)
	app.searcher.results = []models.Preprint{{
		Doi:     types.MustDoi("10.1101/2021.01.01.000001"),
		Title:   "A preprint",
		Authors: []string{"Jane Doe", "The Consortium"},
	}}

	rec := app.get("/search?query=covid")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "covid", app.searcher.query)
	assert.Contains(t, rec.Body.String(), "Jane Doe, The Consortium")
	assert.Contains(t, rec.Body.String(), `value="covid"`)

	app.searcher.err = errors.New("down")
	assert.Equal(t, http.StatusServiceUnavailable, app.get("/search?query=covid").Code)
}

func TestMetricsAndNotFound(t *testing.T) {
	app := newTestApp(t)
	assert.Equal(t, http.StatusOK, app.get("/metrics").Code)
	assert.Equal(t, http.StatusNotFound, app.get("/nowhere").Code)
}

func TestSafeRedirect(t *testing.T) {
	tests := []struct {
		referer string
		want    string
	}{
		{"", "/"},
		{"http://example.com/preprints/x?y=1", "/preprints/x?y=1"},
		{"https://evil.com/phish", "/"},
		{"//evil.com/phish", "/"},
		{"/reviews/1", "/reviews/1"},
		{"javascript:alert(1)", "/"},
		{"relative/path", "/"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, safeRedirect(tt.referer, "example.com"), tt.referer)
	}
}

func TestAnonymousUser(t *testing.T) {
	user := anonymousUser(func(int) int { return 0 })
	assert.Equal(t, "Amber Albatross", user.Name)
}

func TestSessionTokens(t *testing.T) {
	s := newSessions("secret", storage.NewMemorySessionStore())
	id := types.NewUuid()

	token, err := s.sign(id)
	require.NoError(t, err)
	got, err := s.verify(token)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	other := newSessions("other", storage.NewMemorySessionStore())
	_, err = other.verify(token)
	assert.Error(t, err)

	s.now = func() time.Time { return time.Now().Add(2 * sessionMaxAge) }
	_, err = s.verify(token)
	assert.Error(t, err)
}
