// Package decode stellt Dekodierer für unvalidierte Eingaben (JSON, Formulare)
// bereit. Ein Decoder liefert entweder einen Wert oder einen Fehlerbaum.
package decode

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

type undefined struct{}

// Undefined steht für einen fehlenden Objektschlüssel.
var Undefined = undefined{}

// Decoder wandelt eine unbekannte Eingabe in ein A um.
type Decoder[A any] func(in any) (A, *Error)

// Run führt den Decoder aus und liefert einen echten nil-error bei Erfolg.
func (d Decoder[A]) Run(in any) (A, error) {
	a, err := d(in)
	if err != nil {
		return a, err
	}
	return a, nil
}

// ParseJSON liest einen JSON-Body in die generische Form (map[string]any,
// []any, json.Number, string, bool, nil).
func ParseJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("unexpected data after top-level value")
	}
	return v, nil
}

// String akzeptiert nur Strings.
var String Decoder[string] = func(in any) (string, *Error) {
	s, ok := in.(string)
	if !ok {
		return "", Failure(in, "string")
	}
	return s, nil
}

// Number akzeptiert JSON-Zahlen sowie Go-Zahlentypen.
var Number Decoder[float64] = func(in any) (float64, *Error) {
	var f float64
	switch v := in.(type) {
	case json.Number:
		parsed, err := strconv.ParseFloat(v.String(), 64)
		if err != nil {
			return 0, Failure(in, "number")
		}
		f = parsed
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int32:
		f = float64(v)
	case int64:
		f = float64(v)
	default:
		return 0, Failure(in, "number")
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, Failure(in, "number")
	}
	return f, nil
}

var Bool Decoder[bool] = func(in any) (bool, *Error) {
	b, ok := in.(bool)
	if !ok {
		return false, Failure(in, "boolean")
	}
	return b, nil
}

// Literal akzeptiert genau einen der angegebenen String-Werte.
func Literal[T ~string](values ...T) Decoder[T] {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = strconv.Quote(string(v))
	}
	label := strings.Join(quoted, " | ")
	return func(in any) (T, *Error) {
		s, ok := in.(string)
		if !ok {
			if t, isT := in.(T); isT {
				s, ok = string(t), true
			}
		}
		if ok {
			for _, v := range values {
				if string(v) == s {
					return v, nil
				}
			}
		}
		var zero T
		return zero, Failure(in, label)
	}
}

// Refine prüft nach erfolgreichem Dekodieren ein Prädikat.
func Refine[A any](d Decoder[A], pred func(A) bool, label string) Decoder[A] {
	return func(in any) (A, *Error) {
		a, err := d(in)
		if err != nil {
			return a, err
		}
		if !pred(a) {
			var zero A
			return zero, Failure(in, label)
		}
		return a, nil
	}
}

// Parse dekodiert mit d und wandelt das Ergebnis mit einer fehlbaren
// Funktion um, etwa einem Konstruktor für einen validierten Typ.
func Parse[A, B any](d Decoder[A], parser func(A) (B, error), label string) Decoder[B] {
	return func(in any) (B, *Error) {
		var zero B
		a, err := d(in)
		if err != nil {
			return zero, err
		}
		b, perr := parser(a)
		if perr != nil {
			return zero, Errorf(in, label, "cannot decode %s, should be %s: %v", show(in), label, perr)
		}
		return b, nil
	}
}

// Map wendet eine totale Funktion auf ein erfolgreiches Ergebnis an.
func Map[A, B any](d Decoder[A], f func(A) B) Decoder[B] {
	return func(in any) (B, *Error) {
		a, err := d(in)
		if err != nil {
			var zero B
			return zero, err
		}
		return f(a), nil
	}
}

// Optional dekodiert Undefined zu nil und delegiert sonst.
func Optional[A any](d Decoder[A]) Decoder[*A] {
	return func(in any) (*A, *Error) {
		if in == Undefined {
			return nil, nil
		}
		a, err := d(in)
		if err != nil {
			return nil, err
		}
		return &a, nil
	}
}

// Array dekodiert jedes Element und sammelt alle Elementfehler.
func Array[A any](d Decoder[A]) Decoder[[]A] {
	return func(in any) ([]A, *Error) {
		items, ok := in.([]any)
		if !ok {
			return nil, Failure(in, "Array<unknown>")
		}
		out := make([]A, 0, len(items))
		var errs *Error
		for i, item := range items {
			a, err := d(item)
			if err != nil {
				errs = Concat(errs, err.At(Segment{Kind: IndexSegment, Index: i}))
				continue
			}
			out = append(out, a)
		}
		if errs != nil {
			return nil, errs
		}
		return out, nil
	}
}

// NonEmptyArray wie Array, schlägt aber bei leerer Eingabe mit
// "nonEmptyArray" fehl.
func NonEmptyArray[A any](d Decoder[A]) Decoder[[]A] {
	arr := Array(d)
	return func(in any) ([]A, *Error) {
		if items, ok := in.([]any); ok && len(items) == 0 {
			return nil, Failure(in, "nonEmptyArray")
		}
		return arr(in)
	}
}

// Union probiert die Dekodierer in Deklarationsreihenfolge; der erste Erfolg
// gewinnt. Schlagen alle fehl, enthält der Fehler die Ursachen aller Zweige.
func Union[A any](members ...Decoder[A]) Decoder[A] {
	return func(in any) (A, *Error) {
		var errs *Error
		for i, m := range members {
			a, err := m(in)
			if err == nil {
				return a, nil
			}
			errs = Concat(errs, err.At(Segment{Kind: MemberSegment, Index: i}))
		}
		var zero A
		if errs == nil {
			return zero, Failure(in, "never")
		}
		return zero, errs
	}
}

// Sum liest das Diskriminantenfeld tag und dekodiert genau mit der passenden
// Variante.
func Sum[A any](tag string, variants map[string]Decoder[A]) Decoder[A] {
	keys := make([]string, 0, len(variants))
	for k := range variants {
		keys = append(keys, strconv.Quote(k))
	}
	slices.Sort(keys)
	label := strings.Join(keys, " | ")

	return func(in any) (A, *Error) {
		var zero A
		obj, ok := in.(map[string]any)
		if !ok {
			return zero, Failure(in, "Record<string, unknown>")
		}
		raw, present := obj[tag]
		if !present {
			raw = Undefined
		}
		s, isString := raw.(string)
		d, known := variants[s]
		if !isString || !known {
			return zero, Errorf(raw, label, "unexpected discriminant %s, should be %s", show(raw), label).
				At(Segment{Kind: KeySegment, Key: tag, Required: true})
		}
		return d(in)
	}
}

// Intersect dekodiert die Eingabe mit beiden Dekodierern und führt die
// Ergebnisse zusammen. Fehler beider Seiten werden gesammelt.
func Intersect[A, B, C any](a Decoder[A], b Decoder[B], merge func(A, B) C) Decoder[C] {
	return func(in any) (C, *Error) {
		va, ea := a(in)
		vb, eb := b(in)
		if err := Concat(ea, eb); err != nil {
			var zero C
			return zero, err
		}
		return merge(va, vb), nil
	}
}

// Record sammelt während eines Struct-Dekodiervorgangs die Feldfehler.
type Record struct {
	obj map[string]any
	err *Error
}

// Struct dekodiert ein Objekt. build liest die Felder über Field und
// OptionalField; ihre Fehler werden in Aufrufreihenfolge gesammelt.
func Struct[A any](build func(r *Record) A) Decoder[A] {
	return func(in any) (A, *Error) {
		var zero A
		obj, ok := in.(map[string]any)
		if !ok {
			return zero, Failure(in, "Record<string, unknown>")
		}
		r := &Record{obj: obj}
		a := build(r)
		if r.err != nil {
			return zero, r.err
		}
		return a, nil
	}
}

// Field dekodiert einen Pflichtschlüssel.
func Field[A any](r *Record, key string, d Decoder[A]) A {
	v, ok := r.obj[key]
	if !ok {
		v = Undefined
	}
	a, err := d(v)
	if err != nil {
		r.err = Concat(r.err, err.At(Segment{Kind: KeySegment, Key: key, Required: true}))
	}
	return a
}

// OptionalField dekodiert einen optionalen Schlüssel; fehlt er, ist das
// Ergebnis nil.
func OptionalField[A any](r *Record, key string, d Decoder[A]) *A {
	v, ok := r.obj[key]
	if !ok {
		return nil
	}
	a, err := d(v)
	if err != nil {
		r.err = Concat(r.err, err.At(Segment{Kind: KeySegment, Key: key}))
		return nil
	}
	return &a
}
