package services

import (
	"context"

	"prereview/providers/zenodo"
	"prereview/types"
)

//go:generate mockgen -source=archive.go -destination=mocks/archive_mock.go -package=mocks Archive,Records

// Archive legt Depositions an und veröffentlicht sie. *zenodo.Client erfüllt
// das Interface.
type Archive interface {
	CreateDeposition(ctx context.Context, metadata zenodo.DepositMetadata) (*zenodo.UnsubmittedDeposition, error)
	UploadFile(ctx context.Context, deposition *zenodo.UnsubmittedDeposition, file zenodo.File) (*zenodo.UnsubmittedDeposition, error)
	PublishDeposition(ctx context.Context, deposition *zenodo.UnsubmittedDeposition) (*zenodo.SubmittedDeposition, error)
}

// Records ist die lesende Seite des Archivs.
type Records interface {
	SearchCommunity(ctx context.Context, community string) ([]zenodo.Record, error)
	SearchRelated(ctx context.Context, doi types.Doi) ([]zenodo.Record, error)
	GetRecord(ctx context.Context, id types.PositiveInt) (*zenodo.Record, error)
}

var (
	_ Archive = (*zenodo.Client)(nil)
	_ Records = (*zenodo.Client)(nil)
)
