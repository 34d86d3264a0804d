// Package validation checks selections statically: that an expression can
// be evaluated given the variables available where it appears, that its
// output shape fits the position it is used in, and that a selection lines
// up with the GraphQL schema type it populates.
package validation

import (
	"github.com/connectgrid/jsonselection/pkg/ast"
)

// Code classifies a validation failure.
type Code int

const (
	// InvalidJSONSelection reports a selection that failed to parse, is
	// empty, or references variables or shapes that are not available.
	InvalidJSONSelection Code = iota
	// SelectedFieldNotFound reports a selected field missing from the
	// GraphQL type it selects against.
	SelectedFieldNotFound
	// CircularReference reports a type that appears more than once on one
	// selection path.
	CircularReference
	// GroupSelectionIsNotObject reports a group selection on a non-object
	// field.
	GroupSelectionIsNotObject
	// GroupSelectionRequiredForObject reports an object field selected
	// without a group.
	GroupSelectionRequiredForObject
	// FieldWithArguments reports selection of a field that declares
	// arguments.
	FieldWithArguments
	// GraphQLError reports an inconsistency in the schema itself, such as a
	// field with an undefined type.
	GraphQLError
)

func (c Code) String() string {
	switch c {
	case InvalidJSONSelection:
		return "INVALID_JSON_SELECTION"
	case SelectedFieldNotFound:
		return "SELECTED_FIELD_NOT_FOUND"
	case CircularReference:
		return "CIRCULAR_REFERENCE"
	case GroupSelectionIsNotObject:
		return "GROUP_SELECTION_IS_NOT_OBJECT"
	case GroupSelectionRequiredForObject:
		return "GROUP_SELECTION_REQUIRED_FOR_OBJECT"
	case FieldWithArguments:
		return "FIELD_WITH_ARGUMENTS"
	case GraphQLError:
		return "GRAPHQL_ERROR"
	}
	return "UNKNOWN"
}

// Message is one validation failure, with byte-offset locations into the
// selection source text when they are known.
type Message struct {
	Code      Code
	Message   string
	Locations []*ast.Range
}

func (m *Message) Error() string {
	return m.Code.String() + ": " + m.Message
}
