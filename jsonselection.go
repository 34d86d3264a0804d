// Package jsonselection implements the JSONSelection expression language:
// a declarative mapping language that selects and reshapes JSON values into
// GraphQL-compatible output objects.
//
// A selection is parsed once and applied many times. Application never
// panics and never fails outright: it produces the best output it can plus
// a list of positioned errors for the parts that did not apply.
//
// # Quick Start
//
//	// Parse once, apply many times
//	sel, err := jsonselection.Parse("id name { first: firstName }")
//	out, ok, errs := jsonselection.ApplyTo(sel, data)
//
//	// With namespace variables
//	out, ok, errs = jsonselection.ApplyWithVars(sel, data, map[string]any{
//	    "$args": args,
//	})
//
// # More Information
//
// For detailed documentation, see:
//   - Parser: github.com/connectgrid/jsonselection/pkg/parser
//   - Evaluator: github.com/connectgrid/jsonselection/pkg/evaluator
//   - Shapes: github.com/connectgrid/jsonselection/pkg/shape
//   - Validation: github.com/connectgrid/jsonselection/pkg/validation
package jsonselection

import (
	"github.com/connectgrid/jsonselection/pkg/ast"
	"github.com/connectgrid/jsonselection/pkg/cache"
	"github.com/connectgrid/jsonselection/pkg/evaluator"
	"github.com/connectgrid/jsonselection/pkg/parser"
)

// Version returns the current version of the module.
func Version() string {
	return "v0.1.0-dev"
}

// Parse parses a selection for repeated application. The returned selection
// is immutable and safe for concurrent use.
func Parse(source string) (*ast.Selection, error) {
	return parser.Parse(source)
}

// MustParse is like Parse but panics if the source cannot be parsed.
// It simplifies safe initialization of global variables.
func MustParse(source string) *ast.Selection {
	return parser.MustParse(source)
}

var defaultCache = cache.New(1024)

// ParseCached is like Parse but memoizes results in a process-wide LRU
// cache keyed by the source text. Parse errors are not cached.
func ParseCached(source string) (*ast.Selection, error) {
	return defaultCache.GetOrParse(source, parser.Parse)
}

// ApplyTo applies a selection to a JSON value. The boolean reports whether
// the selection produced a value at all; errs carries every mapping problem
// encountered, each with the input path and source span it arose at.
func ApplyTo(sel *ast.Selection, data any) (any, bool, []evaluator.ApplyToError) {
	return evaluator.ApplyTo(sel, data)
}

// ApplyWithVars is like ApplyTo with namespace variables such as "$args"
// bound for the duration of the application.
func ApplyWithVars(sel *ast.Selection, data any, vars map[string]any) (any, bool, []evaluator.ApplyToError) {
	return evaluator.ApplyWithVars(sel, data, vars)
}
