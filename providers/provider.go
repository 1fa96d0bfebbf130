package providers

import (
	"context"

	"prereview/models"
	"prereview/types"
)

// DoiResolver löst eine DOI in vereinheitlichte Metadaten auf.
type DoiResolver interface {
	Resolve(ctx context.Context, doi types.Doi) (*models.DoiData, error)
}

// PreprintSearcher sucht Preprints über einen Suchbegriff.
type PreprintSearcher interface {
	Search(ctx context.Context, query string) ([]models.Preprint, error)

	// Name gibt den eindeutigen Namen des Providers zurück (z.B. "europepmc").
	Name() string
}
