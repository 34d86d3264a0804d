package validation

import (
	"fmt"
	"strings"

	"github.com/connectgrid/jsonselection/pkg/ast"
	"github.com/connectgrid/jsonselection/pkg/evaluator"
	"github.com/connectgrid/jsonselection/pkg/shape"
)

// rootShapeName stands in for the unknown JSON document an expression is
// applied to. It can never resolve, so any path that escapes the declared
// namespaces surfaces as a reference to it.
const rootShapeName = "$root"

// Validate checks an expression against a context and an expected output
// shape. It returns nil when the expression is valid, or the first problem
// found: an evaluation that can only error, a reference outside the
// context's namespaces, or an output that cannot fit the expected shape.
func Validate(sel *ast.Selection, ctx *Context, expected *shape.Shape) *Message {
	named := namedShapes(ctx)
	actual := evaluator.OutputShape(sel, shape.NamedShape(rootShapeName), named)
	actual = actual.ResolveNames(named)

	if msg := checkForErrors(actual, ctx, named); msg != nil {
		return msg
	}

	if expected == nil {
		return nil
	}
	if err := shape.Satisfies(actual, expected); err != nil {
		return &Message{
			Code:      InvalidJSONSelection,
			Message:   fmt.Sprintf("%s values aren't valid here", shapeName(actual)),
			Locations: actual.Locations,
		}
	}
	return nil
}

func namedShapes(ctx *Context) map[string]*shape.Shape {
	named := make(map[string]*shape.Shape)
	if ctx.schema != nil {
		for name, s := range shape.ShapesForSchema(ctx.schema) {
			named[name] = s
		}
	}
	for _, ns := range ctx.order {
		named[ns.String()] = ctx.vars[ns]
	}
	return named
}

func checkForErrors(s *shape.Shape, ctx *Context, named map[string]*shape.Shape) *Message {
	for _, errShape := range s.Errors() {
		return &Message{
			Code:      InvalidJSONSelection,
			Message:   errShape.Message,
			Locations: errShape.Locations,
		}
	}
	namespaces := shape.NamespacesHint(ctx.Namespaces())
	for _, name := range s.Names() {
		if name.Name == rootShapeName {
			return &Message{
				Code: InvalidJSONSelection,
				Message: fmt.Sprintf(
					"`%s` must start with one of %s",
					strings.Join(name.Path, "."), namespaces,
				),
				Locations: name.Locations,
			}
		}
		if strings.HasPrefix(name.Name, "$") {
			if _, ok := named[name.Name]; ok {
				continue
			}
			return &Message{
				Code: InvalidJSONSelection,
				Message: fmt.Sprintf(
					"`%s` is not valid here, must be one of %s",
					name.Name, namespaces,
				),
				Locations: name.Locations,
			}
		}
	}
	return nil
}

// shapeName renders a shape as the plural noun used in mismatch messages.
func shapeName(s *shape.Shape) string {
	switch s.Kind {
	case shape.KindBool:
		return "boolean"
	case shape.KindString:
		return "string"
	case shape.KindInt, shape.KindFloat:
		return "number"
	case shape.KindNull:
		return "null"
	case shape.KindNone:
		return "empty"
	case shape.KindArray:
		return "array"
	case shape.KindObject:
		return "object"
	case shape.KindOne, shape.KindAll:
		parts := make([]string, 0, len(s.Members))
		for _, m := range s.Members {
			part := shapeName(m)
			var dup bool
			for _, prior := range parts {
				if prior == part {
					dup = true
					break
				}
			}
			if !dup {
				parts = append(parts, part)
			}
		}
		return strings.Join(parts, " or ")
	}
	return s.Pretty()
}
