// Package shape implements a structural type lattice for JSON values.
//
// A Shape describes the set of JSON values an expression may produce. The
// lattice has leaf shapes for each JSON scalar kind (optionally narrowed to
// a single literal value), composite shapes for arrays and objects, a lazy
// Name reference resolved against a lookup table, the union One and
// intersection All combinators, and the absorbing Error shape. None is the
// empty set (no value at all) and Unknown is the set of all values.
package shape

import (
	"sort"
	"strconv"
	"strings"

	"github.com/connectgrid/jsonselection/pkg/ast"
)

// Kind discriminates the Shape variants.
type Kind int

const (
	KindNone Kind = iota
	KindUnknown
	KindBool
	KindString
	KindInt
	KindFloat
	KindNull
	KindArray
	KindObject
	KindName
	KindOne
	KindAll
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindUnknown:
		return "unknown"
	case KindBool:
		return "Bool"
	case KindString:
		return "String"
	case KindInt:
		return "Int"
	case KindFloat:
		return "Float"
	case KindNull:
		return "null"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindName:
		return "name"
	case KindOne:
		return "one"
	case KindAll:
		return "all"
	case KindError:
		return "error"
	}
	return "invalid"
}

// Shape is an immutable description of a set of JSON values. Shapes are
// created with the constructor functions in this package and never mutated
// after construction, so they are safe to share between goroutines.
type Shape struct {
	Kind Kind

	// Narrowing literals for scalar kinds. Nil means any value of the kind.
	BoolLit   *bool
	StringLit *string
	IntLit    *int64

	// Array: a fixed prefix of per-index shapes followed by a tail shape
	// for all remaining elements. Tail None means the array has exactly
	// len(Prefix) elements.
	Prefix []*Shape
	Tail   *Shape

	// Object: named fields plus a rest shape for unlisted keys. Rest None
	// means no other keys may appear. FieldOrder preserves declaration
	// order for printing.
	Fields     map[string]*Shape
	FieldOrder []string
	Rest       *Shape

	// Name: a reference to a named shape, possibly narrowed by a trailing
	// field path. Resolved lazily against a lookup table.
	Name string
	Path []string

	// One (union) and All (intersection) members.
	Members []*Shape

	// Error: a description of why no shape could be computed. Partial, if
	// set, is the best guess at what the shape would have been.
	Message string
	Partial *Shape

	// Source locations that contributed to this shape.
	Locations []*ast.Range
}

var (
	noneShape    = &Shape{Kind: KindNone}
	unknownShape = &Shape{Kind: KindUnknown}
	boolShape    = &Shape{Kind: KindBool}
	stringShape  = &Shape{Kind: KindString}
	intShape     = &Shape{Kind: KindInt}
	floatShape   = &Shape{Kind: KindFloat}
	nullShape    = &Shape{Kind: KindNull}
)

// None is the empty shape: no value is produced.
func None() *Shape { return noneShape }

// Unknown is the top shape: any value may be produced.
func Unknown() *Shape { return unknownShape }

// Bool is the shape of any boolean.
func Bool() *Shape { return boolShape }

// BoolValue is the shape of one specific boolean.
func BoolValue(b bool) *Shape {
	return &Shape{Kind: KindBool, BoolLit: &b}
}

// String is the shape of any string.
func String() *Shape { return stringShape }

// StringValue is the shape of one specific string.
func StringValue(s string) *Shape {
	return &Shape{Kind: KindString, StringLit: &s}
}

// Int is the shape of any integer.
func Int() *Shape { return intShape }

// IntValue is the shape of one specific integer.
func IntValue(i int64) *Shape {
	return &Shape{Kind: KindInt, IntLit: &i}
}

// Float is the shape of any number, integer or not.
func Float() *Shape { return floatShape }

// Null is the shape of JSON null.
func Null() *Shape { return nullShape }

// Array builds an array shape with a per-index prefix and a tail shape for
// the remaining elements.
func Array(prefix []*Shape, tail *Shape, locations ...*ast.Range) *Shape {
	if tail == nil {
		tail = None()
	}
	return &Shape{Kind: KindArray, Prefix: prefix, Tail: tail, Locations: locations}
}

// List builds the shape of an array whose elements all have the given shape.
func List(of *Shape, locations ...*ast.Range) *Shape {
	return Array(nil, of, locations...)
}

// Object builds an object shape from named fields, preserving order, with a
// rest shape for unlisted keys.
func Object(order []string, fields map[string]*Shape, rest *Shape, locations ...*ast.Range) *Shape {
	if rest == nil {
		rest = None()
	}
	if fields == nil {
		fields = map[string]*Shape{}
	}
	return &Shape{Kind: KindObject, Fields: fields, FieldOrder: order, Rest: rest, Locations: locations}
}

// Record builds a closed object shape (no extra keys) from an ordered field
// list.
func Record(order []string, fields map[string]*Shape, locations ...*ast.Range) *Shape {
	return Object(order, fields, None(), locations...)
}

// EmptyObject is the shape of an object about which nothing is known.
func EmptyObject(locations ...*ast.Range) *Shape {
	return Object(nil, nil, Unknown(), locations...)
}

// NamedShape builds a lazy reference to a named shape.
func NamedShape(name string, locations ...*ast.Range) *Shape {
	return &Shape{Kind: KindName, Name: name, Locations: locations}
}

// Error builds the absorbing error shape.
func Error(message string, locations ...*ast.Range) *Shape {
	return &Shape{Kind: KindError, Message: message, Locations: locations}
}

// ErrorWithPartial builds an error shape that also records the best guess at
// what the shape would have been absent the error.
func ErrorWithPartial(message string, partial *Shape, locations ...*ast.Range) *Shape {
	return &Shape{Kind: KindError, Message: message, Partial: partial, Locations: locations}
}

// One builds the union of the given shapes, flattening nested unions,
// deduplicating members, and collapsing trivial cases.
func One(members []*Shape, locations ...*ast.Range) *Shape {
	var flat []*Shape
	for _, m := range members {
		if m == nil {
			continue
		}
		if m.Kind == KindOne {
			flat = append(flat, m.Members...)
		} else {
			flat = append(flat, m)
		}
	}
	var uniq []*Shape
	for _, m := range flat {
		if m.Kind == KindError {
			return m.withLocations(locations)
		}
		dup := false
		for _, u := range uniq {
			if Equal(u, m) {
				dup = true
				break
			}
		}
		if !dup {
			uniq = append(uniq, m)
		}
	}
	switch len(uniq) {
	case 0:
		return None()
	case 1:
		return uniq[0].withLocations(locations)
	}
	return &Shape{Kind: KindOne, Members: uniq, Locations: locations}
}

// All builds the intersection of the given shapes.
func All(members []*Shape, locations ...*ast.Range) *Shape {
	var flat []*Shape
	for _, m := range members {
		if m == nil {
			continue
		}
		if m.Kind == KindAll {
			flat = append(flat, m.Members...)
		} else {
			flat = append(flat, m)
		}
	}
	var uniq []*Shape
	for _, m := range flat {
		if m.Kind == KindError {
			return m.withLocations(locations)
		}
		dup := false
		for _, u := range uniq {
			if Equal(u, m) {
				dup = true
				break
			}
		}
		if !dup {
			uniq = append(uniq, m)
		}
	}
	switch len(uniq) {
	case 0:
		return Unknown()
	case 1:
		return uniq[0].withLocations(locations)
	}
	return &Shape{Kind: KindAll, Members: uniq, Locations: locations}
}

func (s *Shape) withLocations(locations []*ast.Range) *Shape {
	if len(locations) == 0 {
		return s
	}
	out := *s
	out.Locations = append(append([]*ast.Range{}, s.Locations...), locations...)
	return &out
}

// WithLocation returns a copy of the shape carrying an extra source range.
func (s *Shape) WithLocation(r *ast.Range) *Shape {
	if r == nil {
		return s
	}
	return s.withLocations([]*ast.Range{r})
}

// IsNone reports whether the shape is the empty set.
func (s *Shape) IsNone() bool { return s.Kind == KindNone }

// IsUnknown reports whether the shape is the universal set.
func (s *Shape) IsUnknown() bool { return s.Kind == KindUnknown }

// IsError reports whether the shape is an error.
func (s *Shape) IsError() bool { return s.Kind == KindError }

// IsNull reports whether the shape is exactly null.
func (s *Shape) IsNull() bool { return s.Kind == KindNull }

// AcceptsNull reports whether null is a member of the shape.
func (s *Shape) AcceptsNull() bool {
	switch s.Kind {
	case KindNull, KindUnknown:
		return true
	case KindOne:
		for _, m := range s.Members {
			if m.AcceptsNull() {
				return true
			}
		}
	}
	return false
}

// Equal reports structural equality of two shapes, ignoring locations.
func Equal(a, b *Shape) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindNone, KindUnknown, KindNull, KindFloat:
		return true
	case KindBool:
		return litEqual(a.BoolLit, b.BoolLit)
	case KindString:
		return litEqual(a.StringLit, b.StringLit)
	case KindInt:
		return litEqual(a.IntLit, b.IntLit)
	case KindArray:
		if len(a.Prefix) != len(b.Prefix) || !Equal(a.Tail, b.Tail) {
			return false
		}
		for i := range a.Prefix {
			if !Equal(a.Prefix[i], b.Prefix[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(a.Fields) != len(b.Fields) || !Equal(a.Rest, b.Rest) {
			return false
		}
		for name, as := range a.Fields {
			bs, ok := b.Fields[name]
			if !ok || !Equal(as, bs) {
				return false
			}
		}
		return true
	case KindName:
		if a.Name != b.Name || len(a.Path) != len(b.Path) {
			return false
		}
		for i := range a.Path {
			if a.Path[i] != b.Path[i] {
				return false
			}
		}
		return true
	case KindOne, KindAll:
		if len(a.Members) != len(b.Members) {
			return false
		}
		for i := range a.Members {
			if !Equal(a.Members[i], b.Members[i]) {
				return false
			}
		}
		return true
	case KindError:
		return a.Message == b.Message && Equal(a.Partial, b.Partial)
	}
	return false
}

func litEqual[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// Pretty renders the shape for error messages.
func (s *Shape) Pretty() string {
	var b strings.Builder
	s.pretty(&b)
	return b.String()
}

func (s *Shape) String() string { return s.Pretty() }

func (s *Shape) pretty(b *strings.Builder) {
	switch s.Kind {
	case KindNone:
		b.WriteString("None")
	case KindUnknown:
		b.WriteString("Unknown")
	case KindBool:
		if s.BoolLit != nil {
			b.WriteString(strconv.FormatBool(*s.BoolLit))
		} else {
			b.WriteString("Bool")
		}
	case KindString:
		if s.StringLit != nil {
			b.WriteString(strconv.Quote(*s.StringLit))
		} else {
			b.WriteString("String")
		}
	case KindInt:
		if s.IntLit != nil {
			b.WriteString(strconv.FormatInt(*s.IntLit, 10))
		} else {
			b.WriteString("Int")
		}
	case KindFloat:
		b.WriteString("Float")
	case KindNull:
		b.WriteString("null")
	case KindArray:
		b.WriteString("List<")
		s.AnyItem().pretty(b)
		b.WriteString(">")
	case KindObject:
		b.WriteString("{ ")
		keys := s.orderedFieldNames()
		for i, name := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(name)
			b.WriteString(": ")
			s.Fields[name].pretty(b)
		}
		if !s.Rest.IsNone() {
			if len(keys) > 0 {
				b.WriteString(", ")
			}
			b.WriteString("...: ")
			s.Rest.pretty(b)
		}
		b.WriteString(" }")
	case KindName:
		b.WriteString(s.Name)
		for _, p := range s.Path {
			b.WriteString(".")
			b.WriteString(p)
		}
	case KindOne:
		b.WriteString("One<")
		for i, m := range s.Members {
			if i > 0 {
				b.WriteString(", ")
			}
			m.pretty(b)
		}
		b.WriteString(">")
	case KindAll:
		b.WriteString("All<")
		for i, m := range s.Members {
			if i > 0 {
				b.WriteString(", ")
			}
			m.pretty(b)
		}
		b.WriteString(">")
	case KindError:
		b.WriteString("Error<")
		b.WriteString(s.Message)
		b.WriteString(">")
	}
}

func (s *Shape) orderedFieldNames() []string {
	if len(s.FieldOrder) == len(s.Fields) {
		return s.FieldOrder
	}
	names := make([]string, 0, len(s.Fields))
	for name := range s.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
