package validation

import (
	"fmt"
	"strings"

	gqlast "github.com/vektah/gqlparser/v2/ast"

	"github.com/connectgrid/jsonselection/pkg/ast"
	"github.com/connectgrid/jsonselection/pkg/parser"
)

// ParseSelection parses a selection source string for validation, turning
// parse failures and empty selections into messages instead of errors.
func ParseSelection(source string) (*ast.Selection, *Message) {
	sel, err := parser.Parse(source)
	if err != nil {
		return nil, &Message{
			Code:    InvalidJSONSelection,
			Message: fmt.Sprintf("is not a valid JSONSelection: %s", err),
		}
	}
	if sel.IsEmpty() {
		return nil, &Message{
			Code:    InvalidJSONSelection,
			Message: "selection is empty",
		}
	}
	return sel, nil
}

// ValidateSelection checks a selection against the schema type it populates:
// the return type of objectName.fieldName. Every selected name must exist on
// the corresponding type, object fields must be selected with groups and
// leaf fields without, no selected field may declare arguments, and no type
// may appear twice on one selection path.
func ValidateSelection(sel *ast.Selection, schema *gqlast.Schema, objectName, fieldName string) []*Message {
	field, err := lookupField(schema, objectName, fieldName)
	if err != nil {
		return []*Message{{Code: GraphQLError, Message: err.Error()}}
	}
	v := &selectionValidator{
		schema:     schema,
		coordinate: objectName + "." + fieldName,
	}
	returnType := schema.Types[field.Type.Name()]
	if returnType == nil {
		return []*Message{{
			Code: GraphQLError,
			Message: fmt.Sprintf(
				"`%s` has undefined type `%s`.", v.coordinate, field.Type.Name(),
			),
		}}
	}
	if !isComposite(returnType) {
		return nil
	}
	sub := sel.NextSubSelection()
	if sub == nil {
		v.report(GroupSelectionRequiredForObject, nil,
			"`%s` returns the object type `%s`, so `%s` must select a group.",
			v.coordinate, returnType.Name, v.coordinate)
		return v.messages
	}
	v.walk(returnType, sub, []pathPart{{typeName: returnType.Name}})
	return v.messages
}

// pathPart is one step of the selection path being walked: the field that
// was selected and the type it resolved to. The root part has no field.
type pathPart struct {
	fieldName string
	typeName  string
}

type selectionValidator struct {
	schema     *gqlast.Schema
	coordinate string
	messages   []*Message
}

func (v *selectionValidator) report(code Code, r *ast.Range, format string, args ...any) {
	msg := &Message{Code: code, Message: fmt.Sprintf(format, args...)}
	if r != nil {
		msg.Locations = []*ast.Range{r}
	}
	v.messages = append(v.messages, msg)
}

func (v *selectionValidator) walk(def *gqlast.Definition, sub *ast.SubSelection, stack []pathPart) {
	for _, named := range sub.Selections {
		v.visit(def, named, stack)
	}
}

func (v *selectionValidator) visit(def *gqlast.Definition, named *ast.NamedSelection, stack []pathPart) {
	name := named.OutputName()
	if name == "" {
		// An unaliased path selection flattens its subselection's keys
		// into the surrounding object.
		if inner := named.NextSubSelection(); inner != nil {
			v.walk(def, inner, stack)
		}
		return
	}

	field := def.Fields.ForName(name)
	if field == nil {
		v.report(SelectedFieldNotFound, named.Range,
			"`%s` contains field `%s`, which does not exist on `%s`.",
			v.coordinate, name, def.Name)
		return
	}
	if len(field.Arguments) > 0 {
		v.report(FieldWithArguments, named.Range,
			"`%s` selects field `%s.%s`, which has arguments. Only fields with a connector can have arguments.",
			v.coordinate, def.Name, name)
		return
	}
	fieldType := v.schema.Types[field.Type.Name()]
	if fieldType == nil {
		v.report(GraphQLError, named.Range,
			"`%s.%s` has undefined type `%s`.", def.Name, name, field.Type.Name())
		return
	}

	sub := named.NextSubSelection()
	if !isComposite(fieldType) {
		if sub != nil {
			v.report(GroupSelectionIsNotObject, named.Range,
				"`%s` selects a group `%s{}`, but `%s.%s` is of type `%s` which is not an object.",
				v.coordinate, name, def.Name, name, fieldType.Name)
		}
		return
	}
	if sub == nil {
		v.report(GroupSelectionRequiredForObject, named.Range,
			"`%s.%s` is an object, so `%s` must select a group `%s{}`.",
			def.Name, name, v.coordinate, name)
		return
	}

	next := append(stack, pathPart{fieldName: name, typeName: fieldType.Name})
	for _, part := range stack {
		if part.typeName == fieldType.Name {
			v.report(CircularReference, named.Range,
				"Circular reference detected in `%s`: type `%s` appears more than once in `%s`.",
				v.coordinate, fieldType.Name, fieldPath(next))
			return
		}
	}
	v.walk(fieldType, sub, next)
}

func fieldPath(stack []pathPart) string {
	parts := make([]string, 0, len(stack))
	for _, part := range stack {
		if part.fieldName != "" {
			parts = append(parts, part.fieldName)
		}
	}
	return strings.Join(parts, ".")
}

func isComposite(def *gqlast.Definition) bool {
	switch def.Kind {
	case gqlast.Object, gqlast.Interface, gqlast.Union:
		return true
	}
	return false
}
