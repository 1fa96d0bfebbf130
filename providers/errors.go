package providers

import (
	"errors"
	"fmt"
)

// ErrorCategory ist die normalisierte Fehlerklasse eines Upstream-Aufrufs.
type ErrorCategory string

const (
	// ErrorNetwork: der Host war nicht erreichbar (Transportfehler)
	ErrorNetwork ErrorCategory = "network"

	// ErrorHTTPStatus: Antwort erhalten, aber nicht mit dem erwarteten Status
	ErrorHTTPStatus ErrorCategory = "http_status"

	// ErrorMalformed: Body ist kein gültiges JSON
	ErrorMalformed ErrorCategory = "malformed"

	// ErrorDecode: JSON passt nicht zum erwarteten Schema
	ErrorDecode ErrorCategory = "decode"
)

// FetchError ist der einheitliche Fehler aller Provider. Es gibt keine
// Wiederholungsversuche, daher fehlt ein Retryable-Flag.
type FetchError struct {
	Category   ErrorCategory
	Provider   string
	Message    string
	Status     int
	Underlying error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("%s [%s]: %s", e.Provider, e.Category, e.Message)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Underlying != nil {
		msg += ": " + e.Underlying.Error()
	}
	return msg
}

func (e *FetchError) Unwrap() error {
	return e.Underlying
}

func NetworkError(provider, message string, err error) *FetchError {
	return &FetchError{Category: ErrorNetwork, Provider: provider, Message: message, Underlying: err}
}

func HTTPStatusError(provider, message string, status int) *FetchError {
	return &FetchError{Category: ErrorHTTPStatus, Provider: provider, Message: message, Status: status}
}

func MalformedError(provider, message string, err error) *FetchError {
	return &FetchError{Category: ErrorMalformed, Provider: provider, Message: message, Underlying: err}
}

func DecodeError(provider, message string, err error) *FetchError {
	return &FetchError{Category: ErrorDecode, Provider: provider, Message: message, Underlying: err}
}

// GetCategory liefert die Kategorie oder "" für fremde Fehler.
func GetCategory(err error) ErrorCategory {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Category
	}
	return ""
}
