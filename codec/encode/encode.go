// Package encode ist die Gegenrichtung zu decode: Werte werden in die
// generische JSON-Form (map[string]any, []any, Skalare) überführt.
package encode

import "prereview/codec/decode"

// Omitted markiert einen Wert, der beim Kodieren wegfällt (fehlender Schlüssel).
// Es ist derselbe Wert wie decode.Undefined, damit Optional in beide
// Richtungen zusammenpasst.
var Omitted any = decode.Undefined

// Encoder wandelt ein A in die generische Form um.
type Encoder[A any] func(a A) any

// Identity für Werte, die bereits in generischer Form vorliegen.
func Identity[A any]() Encoder[A] {
	return func(a A) any { return a }
}

// Optional kodiert nil zu Omitted.
func Optional[A any](e Encoder[A]) Encoder[*A] {
	return func(a *A) any {
		if a == nil {
			return Omitted
		}
		return e(*a)
	}
}

func Array[A any](e Encoder[A]) Encoder[[]A] {
	return func(as []A) any {
		out := make([]any, len(as))
		for i, a := range as {
			out[i] = e(a)
		}
		return out
	}
}

// Map wendet f vor dem Kodieren an.
func Map[A, B any](e Encoder[B], f func(A) B) Encoder[A] {
	return func(a A) any { return e(f(a)) }
}

// Record baut ein Objekt und lässt Omitted-Einträge weg.
func Record(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		if v == Omitted {
			continue
		}
		out[k] = v
	}
	return out
}
