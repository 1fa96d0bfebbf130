package types

import (
	"github.com/google/uuid"

	"prereview/codec"
)

// Uuid ist eine UUID der Versionen 1 bis 5 in der 36-Zeichen-Form.
type Uuid struct {
	value uuid.UUID
}

func ParseUuid(s string) (Uuid, error) {
	if len(s) != 36 {
		return Uuid{}, invalid("UUID", s, "expected 36 characters")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return Uuid{}, invalid("UUID", s, err.Error())
	}
	if v := u.Version(); v < 1 || v > 5 {
		return Uuid{}, invalid("UUID", s, "unsupported version")
	}
	if u.Variant() != uuid.RFC4122 {
		return Uuid{}, invalid("UUID", s, "unsupported variant")
	}
	return Uuid{value: u}, nil
}

// NewUuid erzeugt eine zufällige UUID (Version 4).
func NewUuid() Uuid {
	return Uuid{value: uuid.New()}
}

func (u Uuid) String() string { return u.value.String() }

func (u Uuid) IsZero() bool { return u.value == uuid.Nil }

var UuidC = codec.Parse(codec.String, ParseUuid, Uuid.String, "Uuid")
