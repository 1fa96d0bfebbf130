package models

import (
	"time"

	"prereview/types"
)

// Author ist ein Autor eines Preprints, optional mit ORCID iD.
type Author struct {
	Name  string
	Orcid *types.Orcid
}

// DoiData sind die vereinheitlichten Metadaten eines Preprints, unabhängig
// davon, ob Crossref oder DataCite geantwortet hat.
type DoiData struct {
	Doi       types.Doi
	Title     string
	Abstract  *string
	Authors   []Author
	Published *time.Time
}
