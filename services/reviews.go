package services

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"prereview/models"
	"prereview/providers"
	"prereview/providers/zenodo"
	"prereview/types"
)

// maxParallelResolves begrenzt gleichzeitige DOI-Abfragen für die Startseite.
const maxParallelResolves = 5

var errNotAReview = errors.New("record does not review a preprint")

// ReviewedPreprint ist ein archiviertes Review samt besprochenem Preprint.
type ReviewedPreprint struct {
	Review   zenodo.Record
	Preprint models.DoiData
}

// PreprintReviews ist ein Preprint mit allen Reviews, die darauf verweisen.
type PreprintReviews struct {
	Preprint models.DoiData
	Reviews  []zenodo.Record
}

// ReviewService liefert die Daten der lesenden Seiten.
type ReviewService struct {
	Records   Records
	Resolver  providers.DoiResolver
	Community string
	Logger    *zap.Logger
}

func NewReviewService(records Records, resolver providers.DoiResolver, community string, logger *zap.Logger) *ReviewService {
	return &ReviewService{
		Records:   records,
		Resolver:  resolver,
		Community: community,
		Logger:    logger,
	}
}

// Recent listet die Reviews der Community mit ihren Preprints. Reviews, deren
// Preprint sich nicht auflösen lässt, fehlen in der Liste; ist die Suche
// selbst nicht möglich, ist die Liste leer.
func (s *ReviewService) Recent(ctx context.Context) []ReviewedPreprint {
	records, err := s.Records.SearchCommunity(ctx, s.Community)
	if err != nil {
		s.Logger.Warn("Community-Reviews nicht verfügbar", zap.Error(err))
		return nil
	}

	resolved := make([]*ReviewedPreprint, len(records))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelResolves)
	for i, record := range records {
		g.Go(func() error {
			preprint, err := s.reviewedPreprint(gctx, record)
			if err != nil {
				s.Logger.Info("Review ohne auflösbaren Preprint übersprungen",
					zap.Int64("record_id", record.ID.Int64()), zap.Error(err))
				return nil
			}
			resolved[i] = &ReviewedPreprint{Review: record, Preprint: *preprint}
			return nil
		})
	}
	_ = g.Wait()

	out := make([]ReviewedPreprint, 0, len(records))
	for _, r := range resolved {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out
}

// Preprint lädt die Metadaten des Preprints und die Reviews dazu.
func (s *ReviewService) Preprint(ctx context.Context, doi types.Doi) (*PreprintReviews, error) {
	var (
		preprint *models.DoiData
		reviews  []zenodo.Record
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		preprint, err = s.Resolver.Resolve(gctx, doi)
		return unavailableOnError("resolve preprint", err)
	})
	g.Go(func() error {
		var err error
		reviews, err = s.Records.SearchRelated(gctx, doi)
		return unavailableOnError("search reviews", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &PreprintReviews{Preprint: *preprint, Reviews: reviews}, nil
}

// Review lädt ein einzelnes Review und den Preprint, den es bespricht.
func (s *ReviewService) Review(ctx context.Context, id types.PositiveInt) (*ReviewedPreprint, error) {
	record, err := s.Records.GetRecord(ctx, id)
	if err != nil {
		return nil, unavailable("get record", err)
	}
	preprint, err := s.reviewedPreprint(ctx, *record)
	if err != nil {
		return nil, unavailable("resolve preprint", err)
	}
	return &ReviewedPreprint{Review: *record, Preprint: *preprint}, nil
}

func (s *ReviewService) reviewedPreprint(ctx context.Context, record zenodo.Record) (*models.DoiData, error) {
	doi, ok := record.ReviewedPreprint()
	if !ok {
		return nil, errNotAReview
	}
	return s.Resolver.Resolve(ctx, doi)
}

func unavailableOnError(step string, err error) error {
	if err == nil {
		return nil
	}
	return unavailable(step, err)
}
