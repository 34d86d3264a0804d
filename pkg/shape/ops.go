package shape

import (
	"fmt"
	"strings"

	"github.com/connectgrid/jsonselection/pkg/ast"
)

// Field looks up a named field on the shape, distributing over unions,
// intersections, and lazy names. Accessing a field on a scalar yields an
// error shape.
func (s *Shape) Field(name string, locations ...*ast.Range) *Shape {
	switch s.Kind {
	case KindNone:
		return None()
	case KindUnknown:
		return Unknown()
	case KindObject:
		if field, ok := s.Fields[name]; ok {
			return field.withLocations(locations)
		}
		if !s.Rest.IsNone() {
			return s.Rest.withLocations(locations)
		}
		return Error(fmt.Sprintf("%s doesn't have a field named `%s`", s.Pretty(), name), locations...)
	case KindName:
		out := &Shape{
			Kind:      KindName,
			Name:      s.Name,
			Path:      append(append([]string{}, s.Path...), name),
			Locations: append(append([]*ast.Range{}, s.Locations...), locations...),
		}
		return out
	case KindOne:
		members := make([]*Shape, len(s.Members))
		for i, m := range s.Members {
			members[i] = m.Field(name, locations...)
		}
		return One(members, locations...)
	case KindAll:
		members := make([]*Shape, len(s.Members))
		for i, m := range s.Members {
			members[i] = m.Field(name, locations...)
		}
		return All(members, locations...)
	case KindError:
		return s.withLocations(locations)
	case KindNull:
		return Error(fmt.Sprintf("can't access field `%s` of null", name), locations...)
	}
	return Error(fmt.Sprintf("can't access field `%s` of %s", name, s.Pretty()), locations...)
}

// AnyItem is the union of every element shape an array may contain.
func (s *Shape) AnyItem() *Shape {
	switch s.Kind {
	case KindArray:
		members := append(append([]*Shape{}, s.Prefix...), s.Tail)
		var nonNone []*Shape
		for _, m := range members {
			if !m.IsNone() {
				nonNone = append(nonNone, m)
			}
		}
		return One(nonNone)
	case KindOne:
		members := make([]*Shape, len(s.Members))
		for i, m := range s.Members {
			members[i] = m.AnyItem()
		}
		return One(members)
	case KindUnknown, KindName:
		return Unknown()
	case KindError:
		return s
	}
	return None()
}

// Item is the shape of the element at a fixed non-negative index.
func (s *Shape) Item(index int) *Shape {
	switch s.Kind {
	case KindArray:
		if index < len(s.Prefix) {
			return s.Prefix[index]
		}
		return s.Tail
	case KindOne:
		members := make([]*Shape, len(s.Members))
		for i, m := range s.Members {
			members[i] = m.Item(index)
		}
		return One(members)
	case KindUnknown, KindName:
		return Unknown()
	case KindError:
		return s
	}
	return None()
}

// IsArrayLike reports whether array elements may be drawn from the shape,
// treating unresolved names and unknowns permissively.
func (s *Shape) IsArrayLike() bool {
	switch s.Kind {
	case KindArray, KindUnknown, KindName:
		return true
	case KindOne, KindAll:
		for _, m := range s.Members {
			if m.IsArrayLike() {
				return true
			}
		}
	}
	return false
}

// ResolveNames replaces top-level Name shapes with their definitions from
// the lookup table, following any trailing field path. Resolution is lazy:
// names nested inside object fields or array elements stay in place until a
// field or item access surfaces them, which keeps recursive definitions from
// looping. Names missing from the table are left alone so callers can
// report them.
func (s *Shape) ResolveNames(named map[string]*Shape) *Shape {
	return s.resolveNames(named, nil)
}

func (s *Shape) resolveNames(named map[string]*Shape, seen []string) *Shape {
	switch s.Kind {
	case KindName:
		for _, prior := range seen {
			if prior == s.Name {
				return s
			}
		}
		base, ok := named[s.Name]
		if !ok {
			return s
		}
		out := base
		for _, field := range s.Path {
			out = out.Field(field, s.Locations...)
		}
		return out.resolveNames(named, append(seen, s.Name)).withLocations(s.Locations)
	case KindOne:
		members := make([]*Shape, len(s.Members))
		for i, m := range s.Members {
			members[i] = m.resolveNames(named, seen)
		}
		return One(members, s.Locations...)
	case KindAll:
		members := make([]*Shape, len(s.Members))
		for i, m := range s.Members {
			members[i] = m.resolveNames(named, seen)
		}
		return All(members, s.Locations...)
	}
	return s
}

// Errors walks the shape and collects every error shape it contains,
// outermost first.
func (s *Shape) Errors() []*Shape {
	var out []*Shape
	s.walkErrors(&out)
	return out
}

func (s *Shape) walkErrors(out *[]*Shape) {
	switch s.Kind {
	case KindError:
		*out = append(*out, s)
		if s.Partial != nil {
			s.Partial.walkErrors(out)
		}
	case KindArray:
		for _, p := range s.Prefix {
			p.walkErrors(out)
		}
		s.Tail.walkErrors(out)
	case KindObject:
		for _, name := range s.orderedFieldNames() {
			s.Fields[name].walkErrors(out)
		}
		s.Rest.walkErrors(out)
	case KindOne, KindAll:
		for _, m := range s.Members {
			m.walkErrors(out)
		}
	}
}

// Names walks the shape and collects every unresolved name reference.
func (s *Shape) Names() []*Shape {
	var out []*Shape
	s.walkNames(&out)
	return out
}

func (s *Shape) walkNames(out *[]*Shape) {
	switch s.Kind {
	case KindName:
		*out = append(*out, s)
	case KindArray:
		for _, p := range s.Prefix {
			p.walkNames(out)
		}
		s.Tail.walkNames(out)
	case KindObject:
		for _, name := range s.orderedFieldNames() {
			s.Fields[name].walkNames(out)
		}
		s.Rest.walkNames(out)
	case KindOne, KindAll:
		for _, m := range s.Members {
			m.walkNames(out)
		}
	case KindError:
		if s.Partial != nil {
			s.Partial.walkNames(out)
		}
	}
}

// Satisfies reports whether every value of the actual shape is accepted by
// the expected shape, returning a human-readable mismatch when not.
// Unknowns and unresolved names on either side satisfy anything.
func Satisfies(actual, expected *Shape) error {
	if satisfies(actual, expected) {
		return nil
	}
	return fmt.Errorf("expected %s, found %s", expected.Pretty(), actual.Pretty())
}

func satisfies(actual, expected *Shape) bool {
	if expected.IsUnknown() || expected.Kind == KindName ||
		actual.IsUnknown() || actual.Kind == KindName {
		return true
	}
	if actual.Kind == KindOne {
		for _, m := range actual.Members {
			if !satisfies(m, expected) {
				return false
			}
		}
		return true
	}
	if expected.Kind == KindOne {
		for _, m := range expected.Members {
			if satisfies(actual, m) {
				return true
			}
		}
		return false
	}
	if actual.Kind == KindAll {
		for _, m := range actual.Members {
			if satisfies(m, expected) {
				return true
			}
		}
		return false
	}
	switch expected.Kind {
	case KindNone:
		return actual.IsNone()
	case KindBool, KindString, KindInt:
		if actual.Kind != expected.Kind {
			return false
		}
		return litSatisfies(actual, expected)
	case KindFloat:
		return actual.Kind == KindFloat || actual.Kind == KindInt
	case KindNull:
		return actual.Kind == KindNull
	case KindArray:
		if actual.Kind != KindArray {
			return false
		}
		return satisfies(actual.AnyItem(), expected.AnyItem())
	case KindObject:
		if actual.Kind != KindObject {
			return false
		}
		for name, want := range expected.Fields {
			got, ok := actual.Fields[name]
			if !ok {
				if want.IsNone() || want.AcceptsNull() {
					continue
				}
				return false
			}
			if !satisfies(got, want) {
				return false
			}
		}
		return true
	case KindError:
		return false
	}
	return false
}

func litSatisfies(actual, expected *Shape) bool {
	switch expected.Kind {
	case KindBool:
		return expected.BoolLit == nil || litEqual(actual.BoolLit, expected.BoolLit)
	case KindString:
		return expected.StringLit == nil || litEqual(actual.StringLit, expected.StringLit)
	case KindInt:
		return expected.IntLit == nil || litEqual(actual.IntLit, expected.IntLit)
	}
	return false
}

// NamespacesHint formats the list of legal namespace roots for error
// messages about unresolved variables.
func NamespacesHint(names []string) string {
	return strings.Join(names, ", ")
}
