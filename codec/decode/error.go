package decode

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// SegmentKind unterscheidet die Annotationen im Fehlerpfad.
type SegmentKind int

const (
	KeySegment SegmentKind = iota
	IndexSegment
	MemberSegment
)

// Segment ist eine Pfad-Annotation: ein Objektschlüssel, ein Array-Index
// oder der Zweig einer Union.
type Segment struct {
	Kind     SegmentKind
	Key      string
	Index    int
	Required bool
}

func (s Segment) String() string {
	switch s.Kind {
	case IndexSegment:
		return fmt.Sprintf("index %d", s.Index)
	case MemberSegment:
		return fmt.Sprintf("member %d", s.Index)
	default:
		if s.Required {
			return fmt.Sprintf("required property %q", s.Key)
		}
		return fmt.Sprintf("optional property %q", s.Key)
	}
}

// Leaf ist eine einzelne Fehlerursache samt vollständigem Pfad ab der Wurzel.
type Leaf struct {
	Path     []Segment
	Actual   any
	Expected string
	Message  string
}

// Describe rendert die Ursache ohne Pfad.
func (l Leaf) Describe() string {
	if l.Message != "" {
		return l.Message
	}
	return fmt.Sprintf("cannot decode %s, should be %s", show(l.Actual), l.Expected)
}

// Location rendert den Pfad in Punktnotation, z.B. "published.date-parts[0]".
func (l Leaf) Location() string {
	var b strings.Builder
	for _, seg := range l.Path {
		switch seg.Kind {
		case KeySegment:
			if b.Len() > 0 {
				b.WriteByte('.')
			}
			b.WriteString(seg.Key)
		case IndexSegment:
			b.WriteString("[" + strconv.Itoa(seg.Index) + "]")
		case MemberSegment:
			if b.Len() > 0 {
				b.WriteByte('.')
			}
			b.WriteString("<" + strconv.Itoa(seg.Index) + ">")
		}
	}
	return b.String()
}

// Error ist ein Dekodierfehler als freie Halbgruppe: entweder ein Blatt oder
// die Verknüpfung zweier Teilbäume. Ein nil-*Error bedeutet "kein Fehler".
type Error struct {
	leaf        *Leaf
	left, right *Error
}

// Failure erzeugt ein Blatt "cannot decode <actual>, should be <expected>".
func Failure(actual any, expected string) *Error {
	return &Error{leaf: &Leaf{Actual: actual, Expected: expected}}
}

// Errorf erzeugt ein Blatt mit freier Meldung, z.B. für fehlgeschlagene Parser.
func Errorf(actual any, expected, format string, args ...any) *Error {
	return &Error{leaf: &Leaf{Actual: actual, Expected: expected, Message: fmt.Sprintf(format, args...)}}
}

// Concat verknüpft zwei Fehlerbäume. nil-Operanden werden ignoriert.
func Concat(a, b *Error) *Error {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return &Error{left: a, right: b}
}

// At versieht alle Blätter mit einem führenden Pfadsegment.
func (e *Error) At(seg Segment) *Error {
	if e == nil {
		return nil
	}
	if e.leaf != nil {
		path := make([]Segment, 0, len(e.leaf.Path)+1)
		path = append(path, seg)
		path = append(path, e.leaf.Path...)
		leaf := *e.leaf
		leaf.Path = path
		return &Error{leaf: &leaf}
	}
	return &Error{left: e.left.At(seg), right: e.right.At(seg)}
}

// Fold faltet den Baum von links nach rechts. Ein nil-Fehler ergibt den
// Nullwert von B.
func Fold[B any](e *Error, onLeaf func(Leaf) B, onConcat func(B, B) B) B {
	if e == nil {
		var zero B
		return zero
	}
	if e.leaf != nil {
		return onLeaf(*e.leaf)
	}
	return onConcat(Fold(e.left, onLeaf, onConcat), Fold(e.right, onLeaf, onConcat))
}

// Leaves liefert alle Blätter in Deklarationsreihenfolge.
func (e *Error) Leaves() []Leaf {
	if e == nil {
		return nil
	}
	return Fold(e,
		func(l Leaf) []Leaf { return []Leaf{l} },
		func(a, b []Leaf) []Leaf { return append(a, b...) },
	)
}

// Expects meldet, ob irgendein Blatt mit dem Label fehlgeschlagen ist
// (z.B. "nonEmptyArray").
func (e *Error) Expects(label string) bool {
	for _, l := range e.Leaves() {
		if l.Expected == label {
			return true
		}
	}
	return false
}

// Draw rendert den Baum mit dem vollständigen Pfad zu jeder Ursache.
//
//	required property "published"
//	└─ required property "date-parts"
//	   └─ cannot decode [], should be nonEmptyArray
func (e *Error) Draw() string {
	if e == nil {
		return ""
	}
	blocks := Fold(e,
		func(l Leaf) []string { return []string{drawLeaf(l)} },
		func(a, b []string) []string { return append(a, b...) },
	)
	return strings.Join(blocks, "\n")
}

func drawLeaf(l Leaf) string {
	lines := make([]string, 0, len(l.Path)+1)
	for _, seg := range l.Path {
		lines = append(lines, seg.String())
	}
	lines = append(lines, l.Describe())

	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
			b.WriteString(strings.Repeat("   ", i-1))
			b.WriteString("└─ ")
		}
		b.WriteString(line)
	}
	return b.String()
}

// Error liefert eine einzeilige Zusammenfassung, Details über Draw.
func (e *Error) Error() string {
	leaves := e.Leaves()
	parts := make([]string, 0, len(leaves))
	for _, l := range leaves {
		if loc := l.Location(); loc != "" {
			parts = append(parts, loc+": "+l.Describe())
			continue
		}
		parts = append(parts, l.Describe())
	}
	return "decode: " + strings.Join(parts, "; ")
}

func show(v any) string {
	if v == Undefined {
		return "undefined"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
