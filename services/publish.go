package services

import (
	"context"

	"go.uber.org/zap"

	"prereview/metrics"
	"prereview/providers/zenodo"
	"prereview/types"
)

// PublishService archiviert Reviews: Deposition anlegen, Datei hochladen,
// veröffentlichen. Scheitert ein Schritt, laufen die folgenden nicht mehr.
// Eine bereits angelegte Deposition bleibt dann als Entwurf im Archiv liegen.
type PublishService struct {
	Archive   Archive
	Community types.NonEmptyString
	Logger    *zap.Logger
	Metrics   *metrics.Metrics
}

func NewPublishService(archive Archive, community types.NonEmptyString, logger *zap.Logger, m *metrics.Metrics) *PublishService {
	return &PublishService{
		Archive:   archive,
		Community: community,
		Logger:    logger,
		Metrics:   m,
	}
}

// Publish führt die drei Schritte nacheinander aus. Jeder Fehler kommt als
// *ServiceError zurück.
func (s *PublishService) Publish(ctx context.Context, submission Submission) (*zenodo.SubmittedDeposition, error) {
	submitted, err := s.publish(ctx, submission)
	s.Metrics.Publications.WithLabelValues(submission.Kind(), metrics.Outcome(err)).Inc()
	return submitted, err
}

func (s *PublishService) publish(ctx context.Context, submission Submission) (*zenodo.SubmittedDeposition, error) {
	log := s.Logger.With(zap.String("kind", submission.Kind()))

	deposition, err := s.Archive.CreateDeposition(ctx, submission.Metadata(s.Community))
	if err != nil {
		log.Warn("Deposition konnte nicht angelegt werden", zap.Error(err))
		return nil, unavailable("create deposition", err)
	}
	log = log.With(zap.Int64("deposition_id", deposition.ID.Int64()))

	deposition, err = s.Archive.UploadFile(ctx, deposition, submission.File())
	if err != nil {
		log.Warn("Upload fehlgeschlagen, Deposition bleibt unveröffentlicht", zap.Error(err))
		return nil, unavailable("upload file", err)
	}

	submitted, err := s.Archive.PublishDeposition(ctx, deposition)
	if err != nil {
		log.Warn("Veröffentlichung fehlgeschlagen, Deposition bleibt unveröffentlicht", zap.Error(err))
		return nil, unavailable("publish deposition", err)
	}

	log.Info("Review veröffentlicht", zap.String("doi", submitted.Doi.String()))
	return submitted, nil
}
