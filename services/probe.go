package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"prereview/metrics"
)

// ArchiveProbe prüft per Community-Suche, ob das Archiv erreichbar ist, und
// setzt das Gauge prereview_archive_up.
type ArchiveProbe struct {
	Records   Records
	Community string
	Timeout   time.Duration
	Logger    *zap.Logger
	Metrics   *metrics.Metrics
}

func NewArchiveProbe(records Records, community string, timeout time.Duration, logger *zap.Logger, m *metrics.Metrics) *ArchiveProbe {
	return &ArchiveProbe{
		Records:   records,
		Community: community,
		Timeout:   timeout,
		Logger:    logger,
		Metrics:   m,
	}
}

// Run ist der Cron-Job.
func (p *ArchiveProbe) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), p.Timeout)
	defer cancel()
	p.Check(ctx)
}

// Check führt eine Suche aus und meldet, ob sie gelungen ist.
func (p *ArchiveProbe) Check(ctx context.Context) bool {
	records, err := p.Records.SearchCommunity(ctx, p.Community)
	if err != nil {
		p.Metrics.ArchiveUp.Set(0)
		p.Logger.Warn("Archiv nicht erreichbar", zap.Error(err))
		return false
	}
	p.Metrics.ArchiveUp.Set(1)
	p.Logger.Debug("Archiv erreichbar", zap.Int("records", len(records)))
	return true
}
