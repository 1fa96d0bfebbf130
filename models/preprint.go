package models

import "prereview/types"

// Preprint ist ein Suchtreffer (Europe PMC).
type Preprint struct {
	Doi     types.Doi
	Title   string
	Authors []string
}
