// Package codec paart Decoder und Encoder. Für gültige Werte gilt
// Decode(Encode(a)) == a.
package codec

import (
	"prereview/codec/decode"
	"prereview/codec/encode"
)

type Codec[A any] struct {
	dec decode.Decoder[A]
	enc encode.Encoder[A]
}

// Make baut einen Codec aus einem Decoder/Encoder-Paar.
func Make[A any](d decode.Decoder[A], e encode.Encoder[A]) Codec[A] {
	return Codec[A]{dec: d, enc: e}
}

// Decode liefert bei Fehlschlag einen *decode.Error als error.
func (c Codec[A]) Decode(in any) (A, error) {
	return c.dec.Run(in)
}

func (c Codec[A]) Encode(a A) any {
	return c.enc(a)
}

func (c Codec[A]) Decoder() decode.Decoder[A] { return c.dec }

func (c Codec[A]) Encoder() encode.Encoder[A] { return c.enc }

var String = Make(decode.String, encode.Identity[string]())

var Bool = Make(decode.Bool, encode.Identity[bool]())

func Literal[T ~string](values ...T) Codec[T] {
	return Make(decode.Literal(values...), func(t T) any { return string(t) })
}

func Optional[A any](c Codec[A]) Codec[*A] {
	return Make(decode.Optional(c.dec), encode.Optional(c.enc))
}

func Array[A any](c Codec[A]) Codec[[]A] {
	return Make(decode.Array(c.dec), encode.Array(c.enc))
}

func NonEmptyArray[A any](c Codec[A]) Codec[[]A] {
	return Make(decode.NonEmptyArray(c.dec), encode.Array(c.enc))
}

// Refine schränkt den Decoder ein, der Encoder bleibt unverändert.
func Refine[A any](c Codec[A], pred func(A) bool, label string) Codec[A] {
	return Make(decode.Refine(c.dec, pred, label), c.enc)
}

// Parse verbindet einen Basis-Codec mit einem validierenden Konstruktor und
// dessen Umkehrung.
func Parse[A, B any](c Codec[A], parser func(A) (B, error), render func(B) A, label string) Codec[B] {
	return Make(decode.Parse(c.dec, parser, label), encode.Map(c.enc, render))
}

// Sum dispatcht beim Dekodieren über das Feld tag; beim Kodieren bestimmt
// tagOf die Variante.
func Sum[A any](tag string, variants map[string]Codec[A], tagOf func(A) string) Codec[A] {
	decoders := make(map[string]decode.Decoder[A], len(variants))
	for k, v := range variants {
		decoders[k] = v.dec
	}
	return Make(decode.Sum(tag, decoders), func(a A) any {
		v, ok := variants[tagOf(a)]
		if !ok {
			return encode.Omitted
		}
		return v.enc(a)
	})
}
