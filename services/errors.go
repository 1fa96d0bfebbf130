package services

import (
	"errors"
	"fmt"
)

// ErrServiceUnavailable ist der einzige Fehler, den Nutzer zu sehen bekommen.
// Details landen im Log.
var ErrServiceUnavailable = errors.New("service unavailable")

// ServiceError meldet, in welchem Schritt ein Ablauf gescheitert ist.
type ServiceError struct {
	Step string
	Err  error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrServiceUnavailable, e.Step, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Is macht jeden ServiceError zu ErrServiceUnavailable.
func (e *ServiceError) Is(target error) bool {
	return target == ErrServiceUnavailable
}

func unavailable(step string, err error) error {
	return &ServiceError{Step: step, Err: err}
}
