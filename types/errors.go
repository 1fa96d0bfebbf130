// Package types enthält validierte Werttypen (DOI, ORCID iD, UUID, positive
// Ganzzahl, nicht-leerer String, URL). Werte entstehen nur über Parse-
// Funktionen und erfüllen ihr Prädikat für ihre gesamte Lebensdauer.
package types

import (
	"errors"
	"fmt"
)

// ErrInvalidValue wird von allen ValidationErrors über errors.Is erkannt.
var ErrInvalidValue = errors.New("invalid value")

// ValidationError beschreibt ein fehlgeschlagenes Prädikat.
type ValidationError struct {
	Type   string
	Input  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Type, e.Input, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidValue
}

func invalid(typ, input, reason string) error {
	return &ValidationError{Type: typ, Input: input, Reason: reason}
}
