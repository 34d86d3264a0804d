package evaluator

import (
	"fmt"
	"strconv"

	"github.com/connectgrid/jsonselection/pkg/ast"
	"github.com/connectgrid/jsonselection/pkg/shape"
)

// OutputShape computes the static shape of the values a selection produces
// when applied to input values of the given shape. The named table supplies
// shapes for variables (keyed with their leading $, e.g. "$args") and for
// lazy shape names such as GraphQL type names. Shape computation mirrors
// evaluation: $ starts out bound to the input shape and is rebound by
// subselections, @ tracks the current shape, and errors are absorbed into
// error shapes rather than reported separately.
func OutputShape(sel *ast.Selection, input *shape.Shape, named map[string]*shape.Shape) *shape.Shape {
	if sel.Path != nil {
		return pathSelectionShape(sel.Path, input, input, named)
	}
	if sel.Named != nil {
		return subShape(sel.Named, input, named)
	}
	return shape.None()
}

// subShape rebinds $ to its input, so no dollar shape is threaded in.
func subShape(sub *ast.SubSelection, input *shape.Shape, named map[string]*shape.Shape) *shape.Shape {
	switch input.Kind {
	case shape.KindArray:
		prefix := make([]*shape.Shape, len(input.Prefix))
		for i, element := range input.Prefix {
			prefix[i] = subShape(sub, element, named)
		}
		tail := input.Tail
		if !tail.IsNone() {
			tail = subShape(sub, tail, named)
		}
		return shape.Array(prefix, tail, sub.Range)
	case shape.KindOne:
		members := make([]*shape.Shape, len(input.Members))
		for i, m := range input.Members {
			members[i] = subShape(sub, m, named)
		}
		return shape.One(members, sub.Range)
	case shape.KindError:
		return input
	}

	dollar := input

	var order []string
	fields := map[string]*shape.Shape{}
	rest := shape.None()
	setField := func(name string, s *shape.Shape) {
		if _, exists := fields[name]; !exists {
			order = append(order, name)
		}
		fields[name] = s
	}

	for _, sel := range sub.Selections {
		switch sel.Kind {
		case ast.SelectField, ast.SelectQuoted:
			fieldShape := keyShape(input, sel.Name)
			if sel.Sub != nil {
				fieldShape = subShape(sel.Sub, fieldShape, named)
			}
			setField(sel.OutputName(), fieldShape)

		case ast.SelectPath:
			pathShape := pathSelectionShape(sel.Path, input, dollar, named)
			if sel.Alias != nil {
				setField(sel.Alias.Name.Value, pathShape)
				continue
			}
			// Unaliased paths merge their object result into the output.
			switch pathShape.Kind {
			case shape.KindObject:
				for _, name := range pathShape.FieldOrder {
					setField(name, pathShape.Fields[name])
				}
				if !pathShape.Rest.IsNone() {
					rest = shape.Unknown()
				}
			case shape.KindError:
				return pathShape
			default:
				// The merged keys cannot be known statically.
				rest = shape.Unknown()
			}

		case ast.SelectGroup:
			setField(sel.Alias.Name.Value, subShape(sel.Sub, input, named))
		}
	}

	if star := sub.Star; star != nil {
		captured := starShape(star, sub, input, named)
		if star.Alias != nil {
			setField(star.Alias.Name.Value, captured)
		} else if captured.Kind == shape.KindObject {
			for _, name := range captured.FieldOrder {
				setField(name, captured.Fields[name])
			}
			rest = captured.Rest
		} else {
			rest = shape.Unknown()
		}
	}

	return shape.Object(order, fields, rest, sub.Range)
}

func starShape(star *ast.StarSelection, sub *ast.SubSelection, input *shape.Shape, named map[string]*shape.Shape) *shape.Shape {
	if input.Kind != shape.KindObject {
		return shape.EmptyObject(star.Range)
	}

	selected := make(map[string]bool)
	for _, sel := range sub.Selections {
		switch sel.Kind {
		case ast.SelectField, ast.SelectQuoted:
			selected[sel.Name.Value.Text] = true
		case ast.SelectPath:
			if sel.Path.Path.Kind == ast.PathKey {
				selected[sel.Path.Path.Key.Value.Text] = true
			}
		}
	}

	var order []string
	fields := map[string]*shape.Shape{}
	for _, name := range input.FieldOrder {
		if selected[name] {
			continue
		}
		fieldShape := input.Fields[name]
		if star.Sub != nil {
			fieldShape = subShape(star.Sub, fieldShape, named)
		}
		order = append(order, name)
		fields[name] = fieldShape
	}
	rest := input.Rest
	if star.Sub != nil && !rest.IsNone() {
		rest = subShape(star.Sub, rest, named)
	}
	return shape.Object(order, fields, rest, star.Range)
}

func pathSelectionShape(sel *ast.PathSelection, input, dollar *shape.Shape, named map[string]*shape.Shape) *shape.Shape {
	// A path starting with a bare key reads from $, like evaluation does.
	if sel.Path.Kind == ast.PathKey {
		return pathListShape(sel.Path, dollar, dollar, named)
	}
	return pathListShape(sel.Path, input, dollar, named)
}

func pathListShape(pl *ast.PathList, input, dollar *shape.Shape, named map[string]*shape.Shape) *shape.Shape {
	// A None input terminates the path: there is no value to keep walking.
	if input.IsNone() {
		return input
	}

	switch input.Kind {
	case shape.KindOne:
		members := make([]*shape.Shape, len(input.Members))
		for i, m := range input.Members {
			members[i] = pathListShape(pl, m, dollar, named)
		}
		return shape.One(members)
	case shape.KindAll:
		members := make([]*shape.Shape, len(input.Members))
		for i, m := range input.Members {
			members[i] = pathListShape(pl, m, dollar, named)
		}
		return shape.All(members)
	case shape.KindError:
		if input.Partial != nil {
			return shape.ErrorWithPartial(
				input.Message,
				pathListShape(pl, input.Partial, dollar, named),
				input.Locations...,
			)
		}
		return input
	}

	switch pl.Kind {
	case ast.PathVar:
		var varShape *shape.Shape
		switch pl.Var.Value {
		case ast.VarAt:
			varShape = input
		case ast.VarDollar:
			varShape = dollar
		default:
			if s, ok := named[string(pl.Var.Value)]; ok {
				varShape = s
			} else {
				varShape = shape.NamedShape(string(pl.Var.Value), pl.Var.Range)
			}
		}
		return pathListShape(pl.Tail, varShape, dollar, named)

	case ast.PathKey:
		child := keyShape(input, pl.Key)
		return pathListShape(pl.Tail, child, dollar, named)

	case ast.PathMethod:
		method := LookupMethod(pl.Method.Value)
		if method == nil {
			return shape.Error(
				fmt.Sprintf("Method ->%s not found", pl.Method.Value),
				pl.Method.Range,
			)
		}
		result := method.InferShape(pl.Method, pl.Args, input, dollar, named)
		return pathListShape(pl.Tail, result, dollar, named)

	case ast.PathSub:
		return subShape(pl.Sub, input, named)
	}

	return input
}

// keyShape looks up one key on a shape, distributing over arrays the way
// evaluation maps key access over array elements.
func keyShape(input *shape.Shape, key ast.WithRange[ast.Key]) *shape.Shape {
	if input.Kind == shape.KindArray {
		return shape.List(keyShape(input.AnyItem(), key))
	}
	child := input.Field(key.Value.Text, key.Range)
	if child.IsNone() {
		return shape.Error(
			fmt.Sprintf("Property %s not found in %s", key.Value.Dotted(), input.Pretty()),
			key.Range,
		)
	}
	return child
}

func litShape(lit *ast.LitExpr, input, dollar *shape.Shape, named map[string]*shape.Shape) *shape.Shape {
	switch lit.Kind {
	case ast.LitString:
		return shape.StringValue(lit.Str).WithLocation(lit.Range)
	case ast.LitNumber:
		if i, err := strconv.ParseInt(lit.Number, 10, 64); err == nil {
			return shape.IntValue(i).WithLocation(lit.Range)
		}
		return shape.Float().WithLocation(lit.Range)
	case ast.LitBool:
		return shape.BoolValue(lit.Bool).WithLocation(lit.Range)
	case ast.LitNull:
		return shape.Null().WithLocation(lit.Range)
	case ast.LitObject:
		var order []string
		fields := map[string]*shape.Shape{}
		for _, field := range lit.Fields {
			name := field.Key.Value.Text
			if _, exists := fields[name]; !exists {
				order = append(order, name)
			}
			fields[name] = litShape(field.Value, input, dollar, named)
		}
		return shape.Record(order, fields, lit.Range)
	case ast.LitArray:
		prefix := make([]*shape.Shape, len(lit.Items))
		for i, item := range lit.Items {
			prefix[i] = litShape(item, input, dollar, named)
		}
		return shape.Array(prefix, shape.None(), lit.Range)
	case ast.LitPath:
		return pathSelectionShape(lit.Path, input, dollar, named)
	}
	return shape.None()
}
