// Package graphql converts selections to GraphQL selection sets, so the
// fields a mapping produces can be compared with and embedded in GraphQL
// operations.
package graphql

import (
	"errors"
	"strings"

	gqlast "github.com/vektah/gqlparser/v2/ast"

	"github.com/connectgrid/jsonselection/pkg/ast"
)

// ErrStarSelection reports a selection that cannot be expressed in GraphQL
// because a star captures keys that are unknown statically.
var ErrStarSelection = errors.New("star selection cannot be converted to a GraphQL selection set")

// SelectionSet converts a selection to a GraphQL selection set. Aliased
// entries become aliased fields, unaliased path selections flatten their
// trailing subselection into the surrounding set, and unaliased stars fail
// with ErrStarSelection.
func SelectionSet(sel *ast.Selection) (gqlast.SelectionSet, error) {
	sub := sel.NextSubSelection()
	if sub == nil {
		return nil, nil
	}
	return convertSub(sub)
}

func convertSub(sub *ast.SubSelection) (gqlast.SelectionSet, error) {
	var set gqlast.SelectionSet
	for _, named := range sub.Selections {
		fields, err := convertNamed(named)
		if err != nil {
			return nil, err
		}
		set = append(set, fields...)
	}
	if sub.Star != nil && sub.Star.Alias == nil {
		return nil, ErrStarSelection
	}
	if sub.Star != nil {
		field, err := makeField(sub.Star.Alias.Name.Value, sub.Star.Alias.Name.Value, sub.Star.Sub)
		if err != nil {
			return nil, err
		}
		set = append(set, field)
	}
	return set, nil
}

func convertNamed(named *ast.NamedSelection) (gqlast.SelectionSet, error) {
	switch named.Kind {
	case ast.SelectField, ast.SelectQuoted:
		alias := named.OutputName()
		if alias == "" {
			alias = named.Name.Value.Text
		}
		field, err := makeField(alias, alias, named.Sub)
		if err != nil {
			return nil, err
		}
		return gqlast.SelectionSet{field}, nil
	case ast.SelectGroup:
		field, err := makeField(named.Alias.Name.Value, named.Alias.Name.Value, named.Sub)
		if err != nil {
			return nil, err
		}
		return gqlast.SelectionSet{field}, nil
	case ast.SelectPath:
		if named.Alias != nil {
			field, err := makeField(named.Alias.Name.Value, named.Alias.Name.Value, named.Path.NextSubSelection())
			if err != nil {
				return nil, err
			}
			return gqlast.SelectionSet{field}, nil
		}
		inner := named.Path.NextSubSelection()
		if inner == nil {
			return nil, nil
		}
		return convertSub(inner)
	}
	return nil, nil
}

func makeField(alias, name string, sub *ast.SubSelection) (*gqlast.Field, error) {
	field := &gqlast.Field{Alias: alias, Name: name}
	if sub != nil {
		set, err := convertSub(sub)
		if err != nil {
			return nil, err
		}
		field.SelectionSet = set
	}
	return field, nil
}

// Format renders a selection set as GraphQL source with two-space
// indentation, matching the layout of a hand-written operation body.
func Format(set gqlast.SelectionSet) string {
	var sb strings.Builder
	formatSet(&sb, set, 0)
	return sb.String()
}

func formatSet(sb *strings.Builder, set gqlast.SelectionSet, depth int) {
	for i, sel := range set {
		field, ok := sel.(*gqlast.Field)
		if !ok {
			continue
		}
		if i > 0 || depth > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(strings.Repeat("  ", depth))
		if field.Alias != "" && field.Alias != field.Name {
			sb.WriteString(field.Alias)
			sb.WriteString(": ")
		}
		sb.WriteString(field.Name)
		if len(field.SelectionSet) > 0 {
			sb.WriteString(" {")
			formatSet(sb, field.SelectionSet, depth+1)
			sb.WriteByte('\n')
			sb.WriteString(strings.Repeat("  ", depth))
			sb.WriteByte('}')
		}
	}
}
