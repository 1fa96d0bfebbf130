package types

import (
	"math"
	"strconv"

	"prereview/codec"
	"prereview/codec/decode"
	"prereview/codec/encode"
)

// PositiveInt ist eine ganze Zahl > 0.
type PositiveInt struct {
	value int64
}

func isInteger(f float64) bool { return f == math.Trunc(f) && math.Abs(f) <= 1<<53 }

func isPositive(f float64) bool { return f > 0 }

var (
	intD      = decode.Refine(decode.Number, isInteger, "Int")
	positiveD = decode.Refine(decode.Number, isPositive, "Positive")
)

// Beide Verfeinerungen müssen gelten.
var positiveIntD = decode.Intersect(intD, positiveD, func(f, _ float64) PositiveInt {
	return PositiveInt{value: int64(f)}
})

func NewPositiveInt(n int64) (PositiveInt, error) {
	p, err := positiveIntD(n)
	if err != nil {
		return PositiveInt{}, invalid("PositiveInt", strconv.FormatInt(n, 10), "must be an integer greater than 0")
	}
	return p, nil
}

// PositiveIntFromString liest Pfadsegmente wie "999". Nur die kanonische
// Schreibweise wird akzeptiert, "0999" und "+999" nicht.
func PositiveIntFromString(s string) (PositiveInt, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return PositiveInt{}, invalid("PositiveInt", s, "not a number")
	}
	p, err := NewPositiveInt(n)
	if err != nil {
		return PositiveInt{}, err
	}
	if p.String() != s {
		return PositiveInt{}, invalid("PositiveInt", s, "not in canonical form")
	}
	return p, nil
}

func MustPositiveInt(n int64) PositiveInt {
	p, err := NewPositiveInt(n)
	if err != nil {
		panic(err)
	}
	return p
}

func (p PositiveInt) Int64() int64 { return p.value }

func (p PositiveInt) String() string { return strconv.FormatInt(p.value, 10) }

var PositiveIntC = codec.Make(positiveIntD, encode.Map(encode.Identity[int64](), PositiveInt.Int64))

// PositiveIntFromStringC für Routen und Formulare.
var PositiveIntFromStringC = codec.Parse(codec.String, PositiveIntFromString, PositiveInt.String, "PositiveIntFromString")
