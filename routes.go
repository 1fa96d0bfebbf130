package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"prereview/codec/decode"
	"prereview/models"
	"prereview/providers"
	"prereview/providers/zenodo"
	"prereview/router"
	"prereview/services"
	"prereview/types"
)

type reviewReader interface {
	Recent(ctx context.Context) []services.ReviewedPreprint
	Preprint(ctx context.Context, doi types.Doi) (*services.PreprintReviews, error)
	Review(ctx context.Context, id types.PositiveInt) (*services.ReviewedPreprint, error)
}

type publisher interface {
	Publish(ctx context.Context, submission services.Submission) (*zenodo.SubmittedDeposition, error)
}

// server hält die Abhängigkeiten der HTTP-Handler.
type server struct {
	log      *zap.Logger
	reviews  reviewReader
	publish  publisher
	resolver providers.DoiResolver
	search   providers.PreprintSearcher
	sessions *sessions
	newUser  func() models.User
	doiBase  string
}

const requestIDHeader = "X-Request-Id"

// requestLogger vergibt jeder Anfrage eine ID und loggt Ein- und Ausgang.
func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := types.NewUuid().String()
		c.Header(requestIDHeader, id)
		start := time.Now()
		log.Info("Received HTTP request",
			zap.String("request_id", id),
			zap.String("method", c.Request.Method),
			zap.String("url", c.Request.URL.RequestURI()),
		)
		c.Next()
		log.Info("Sent HTTP response",
			zap.String("request_id", id),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

func newRouter(s *server, reg *prometheus.Registry) (*gin.Engine, error) {
	tmpl, err := parseTemplates(s.doiBase)
	if err != nil {
		return nil, err
	}

	r := gin.New()
	// DOIs enthalten "/", im Pfad stehen sie maskiert als %2F
	r.UseRawPath = true
	r.SetHTMLTemplate(tmpl)
	r.Use(gin.Recovery())
	r.Use(requestLogger(s.log))

	r.GET(router.Home, s.home)
	r.GET(router.Search, s.searchPreprints)
	r.GET(router.LogIn, s.logIn)
	r.GET(router.LogOut, s.logOut)
	r.GET(router.Preprint.Pattern(), s.preprint)
	r.GET(router.PreprintReview.Pattern(), s.reviewForm)
	r.POST(router.PreprintReview.Pattern(), s.submitReview)
	r.GET(router.PreprintRapidReview.Pattern(), s.rapidReviewForm)
	r.POST(router.PreprintRapidReview.Pattern(), s.submitRapidReview)
	r.GET(router.Review.Pattern(), s.review)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))
	r.NoRoute(func(c *gin.Context) { s.errorPage(c, http.StatusNotFound) })

	return r, nil
}

func (s *server) errorPage(c *gin.Context, status int) {
	c.Header("Cache-Control", "no-store, must-revalidate")
	c.HTML(status, "error.html", page{Title: http.StatusText(status), User: s.sessions.user(c)})
}

func (s *server) serviceUnavailable(c *gin.Context, err error) {
	s.log.Warn("Service unavailable", zap.String("path", c.Request.URL.Path), zap.Error(err))
	s.errorPage(c, http.StatusServiceUnavailable)
}

func (s *server) home(c *gin.Context) {
	c.HTML(http.StatusOK, "home.html", homePage{
		page:    page{Title: "Home", User: s.sessions.user(c)},
		Reviews: s.reviews.Recent(c.Request.Context()),
	})
}

func (s *server) searchPreprints(c *gin.Context) {
	query := c.Query("query")
	results, err := s.search.Search(c.Request.Context(), query)
	if err != nil {
		s.serviceUnavailable(c, err)
		return
	}
	c.HTML(http.StatusOK, "search.html", searchPage{
		page:    page{Title: "Search results", User: s.sessions.user(c)},
		Query:   query,
		Results: results,
	})
}

func (s *server) preprint(c *gin.Context) {
	doi, ok := router.Preprint.Segment(c.Param("doi"))
	if !ok {
		s.errorPage(c, http.StatusNotFound)
		return
	}
	details, err := s.reviews.Preprint(c.Request.Context(), doi)
	if err != nil {
		s.serviceUnavailable(c, err)
		return
	}
	c.HTML(http.StatusOK, "preprint.html", preprintPage{
		page:     page{Title: details.Preprint.Title, User: s.sessions.user(c)},
		Preprint: details.Preprint,
		Reviews:  details.Reviews,
	})
}

func (s *server) review(c *gin.Context) {
	id, ok := router.Review.Segment(c.Param("id"))
	if !ok {
		s.errorPage(c, http.StatusNotFound)
		return
	}
	details, err := s.reviews.Review(c.Request.Context(), id)
	if err != nil {
		s.serviceUnavailable(c, err)
		return
	}
	c.HTML(http.StatusOK, "review.html", reviewPage{
		page:     page{Title: details.Preprint.Title, User: s.sessions.user(c)},
		Preprint: details.Preprint,
		Review:   details.Review,
	})
}

// formKind beschreibt ein Review-Formular: Route, Template und Decoder.
type formKind struct {
	route    router.Route[types.Doi]
	template string
	title    string
	rapid    bool
	decode   func(any) (services.Submission, *decode.Error)
}

var (
	reviewFormKind = formKind{
		route:    router.PreprintReview,
		template: "review-form.html",
		title:    "Add a PREreview of ",
		decode:   submission(services.NewReviewD),
	}
	rapidReviewFormKind = formKind{
		route:    router.PreprintRapidReview,
		template: "rapid-review-form.html",
		title:    "Add a rapid PREreview of ",
		rapid:    true,
		decode:   submission(services.NewRapidReviewD),
	}
)

func submission[A services.Submission](d decode.Decoder[A]) func(any) (services.Submission, *decode.Error) {
	return func(in any) (services.Submission, *decode.Error) {
		a, err := d(in)
		if err != nil {
			return nil, err
		}
		return a, nil
	}
}

func (s *server) reviewForm(c *gin.Context) {
	s.showForm(c, reviewFormKind, http.StatusOK, nil)
}

func (s *server) rapidReviewForm(c *gin.Context) {
	s.showForm(c, rapidReviewFormKind, http.StatusOK, nil)
}

func (s *server) submitReview(c *gin.Context) {
	s.submitForm(c, reviewFormKind)
}

func (s *server) submitRapidReview(c *gin.Context) {
	s.submitForm(c, rapidReviewFormKind)
}

// showForm rendert das Formular. Ohne angemeldeten Benutzer oder ohne
// auflösbaren Preprint gibt es 503.
func (s *server) showForm(c *gin.Context, kind formKind, status int, errs []string) {
	doi, ok := kind.route.Segment(c.Param("doi"))
	if !ok {
		s.errorPage(c, http.StatusNotFound)
		return
	}
	user := s.sessions.user(c)
	if user == nil {
		s.serviceUnavailable(c, errors.New("no user"))
		return
	}
	preprint, err := s.resolver.Resolve(c.Request.Context(), doi)
	if err != nil {
		s.serviceUnavailable(c, err)
		return
	}
	data := reviewFormPage{
		page:     page{Title: kind.title + preprint.Title, User: user},
		Preprint: *preprint,
		Errors:   errs,
	}
	if kind.rapid {
		data.Questions = services.RapidReviewQuestions
		data.Answers = services.Answers
	}
	c.HTML(status, kind.template, data)
}

func (s *server) submitForm(c *gin.Context, kind formKind) {
	if _, ok := kind.route.Segment(c.Param("doi")); !ok {
		s.errorPage(c, http.StatusNotFound)
		return
	}
	if err := c.Request.ParseForm(); err != nil {
		s.showForm(c, kind, http.StatusBadRequest, []string{"form is invalid"})
		return
	}
	sub, derr := kind.decode(services.FormRecord(c.Request.PostForm))
	if derr != nil {
		s.log.Info("Invalid review form", zap.String("errors", derr.Draw()))
		s.showForm(c, kind, http.StatusBadRequest, services.FormErrors(derr))
		return
	}
	submitted, err := s.publish.Publish(c.Request.Context(), sub)
	if err != nil {
		s.serviceUnavailable(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, router.Review.Format(submitted.ID))
}

func (s *server) logIn(c *gin.Context) {
	if err := s.sessions.logIn(c, s.newUser()); err != nil {
		s.serviceUnavailable(c, err)
		return
	}
	c.Redirect(http.StatusFound, safeRedirect(c.GetHeader("Referer"), c.Request.Host))
}

func (s *server) logOut(c *gin.Context) {
	if err := s.sessions.logOut(c); err != nil {
		s.log.Warn("Session konnte nicht gelöscht werden", zap.Error(err))
	}
	c.Redirect(http.StatusFound, router.Home)
}
