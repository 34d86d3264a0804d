// Package evaluator applies parsed selections to JSON values.
//
// Evaluation is total: it never panics and never fails outright. Applying a
// selection produces an output value (which may be absent, reported by the
// ok result) together with every error encountered along the way, so a
// partially failing selection still yields as much of the output as could
// be computed.
//
// JSON values use the conventions of package jsondata: nil, bool, string,
// json.Number, []any, and *jsondata.Object.
package evaluator

import (
	"encoding/json"
	"fmt"

	"github.com/connectgrid/jsonselection/pkg/ast"
	"github.com/connectgrid/jsonselection/pkg/jsondata"
)

// ApplyToError describes one failure encountered while applying a selection.
// Path locates the input value that caused the failure, as a sequence of
// string keys and int array indices from the root. Range, when present,
// locates the offending part of the selection source text.
type ApplyToError struct {
	Message string
	Path    []any
	Range   *ast.Range
}

func (e ApplyToError) Error() string {
	if len(e.Path) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (at %v)", e.Message, e.Path)
}

func newError(message string, path *InputPath, r *ast.Range) ApplyToError {
	return ApplyToError{Message: message, Path: path.Slice(), Range: r}
}

type varBinding struct {
	value any
	path  *InputPath
}

// VarsWithPaths maps each bound variable to its value and the input path the
// value was reached by.
type VarsWithPaths map[ast.KnownVariable]varBinding

// ApplyTo applies a selection to a JSON value. The ok result reports whether
// an output value was produced at all; a false ok with errors means the
// selection could not produce anything, which is distinct from producing
// null.
func ApplyTo(sel *ast.Selection, data any) (any, bool, []ApplyToError) {
	return ApplyWithVars(sel, data, nil)
}

// ApplyWithVars applies a selection with named variables bound. Variable
// names must include the leading $; names outside the known set are
// reported as errors and skipped.
func ApplyWithVars(sel *ast.Selection, data any, vars map[string]any) (any, bool, []ApplyToError) {
	var errors []ApplyToError

	bound := make(VarsWithPaths, len(vars)+1)
	for name, value := range vars {
		known, ok := ast.KnownVariableFromString(name)
		if !ok {
			errors = append(errors, ApplyToError{
				Message: fmt.Sprintf("Unknown variable %s", name),
				Path:    []any{name},
			})
			continue
		}
		bound[known] = varBinding{value: value, path: EmptyPath().Append(name)}
	}
	// $ initially refers to the root value; nested subselections rebind it.
	bound[ast.VarDollar] = varBinding{value: data, path: EmptyPath()}

	value, ok, applyErrors := applySelection(sel, data, bound, EmptyPath())
	errors = append(errors, applyErrors...)
	return value, ok, dedupeErrors(errors)
}

func dedupeErrors(errors []ApplyToError) []ApplyToError {
	if len(errors) < 2 {
		return errors
	}
	seen := make(map[string]bool, len(errors))
	out := errors[:0]
	for _, err := range errors {
		key := err.Message + "\x00" + fmt.Sprint(err.Path)
		if err.Range != nil {
			key += fmt.Sprintf("\x00%d:%d", err.Range.Start, err.Range.End)
		}
		if !seen[key] {
			seen[key] = true
			out = append(out, err)
		}
	}
	return out
}

func applySelection(sel *ast.Selection, data any, vars VarsWithPaths, path *InputPath) (any, bool, []ApplyToError) {
	if sel.Path != nil {
		return applyPathSelection(sel.Path, data, vars, path)
	}
	if sel.Named != nil {
		return applySub(sel.Named, data, vars, path)
	}
	return nil, false, nil
}

// applyEach maps a per-element apply function over an array, substituting
// null for elements that produce nothing so indices are preserved, and
// offsetting error paths with the element index.
func applyEach(
	array []any,
	path *InputPath,
	apply func(element any, path *InputPath) (any, bool, []ApplyToError),
) (any, bool, []ApplyToError) {
	output := make([]any, 0, len(array))
	var errors []ApplyToError
	for i, element := range array {
		indexed := path.Append(i)
		value, ok, applyErrors := apply(element, indexed)
		errors = append(errors, applyErrors...)
		if !ok {
			value = nil
		}
		output = append(output, value)
	}
	return output, true, errors
}

// applyNamed applies one named selection, producing an object holding the
// output keys it contributes (possibly none, when errors occur).
func applyNamed(sel *ast.NamedSelection, data any, vars VarsWithPaths, path *InputPath) (any, bool, []ApplyToError) {
	if array, ok := data.([]any); ok {
		return applyEach(array, path, func(element any, p *InputPath) (any, bool, []ApplyToError) {
			return applyNamed(sel, element, vars, p)
		})
	}

	output := jsondata.NewObject()
	var errors []ApplyToError

	switch sel.Kind {
	case ast.SelectField, ast.SelectQuoted:
		name := sel.Name.Value.Text
		keyPath := path.Append(name)
		child, found := getProperty(data, name)
		if !found {
			errors = append(errors, newError(
				fmt.Sprintf("Property %s not found in %s", sel.Name.Value.Dotted(), jsondata.TypeName(data)),
				keyPath, sel.Name.Range,
			))
			break
		}
		outputName := sel.OutputName()
		if sel.Sub != nil {
			value, ok, applyErrors := applySub(sel.Sub, child, vars, keyPath)
			errors = append(errors, applyErrors...)
			if ok {
				output.Set(outputName, value)
			}
		} else {
			output.Set(outputName, child)
		}

	case ast.SelectPath:
		value, ok, applyErrors := applyPathSelection(sel.Path, data, vars, path)
		errors = append(errors, applyErrors...)
		if sel.Alias != nil {
			if ok {
				output.Set(sel.Alias.Name.Value, value)
			}
			break
		}
		// Without an alias, the path must produce an object whose keys
		// merge into the enclosing output.
		if !ok {
			errors = append(errors, newError(
				"Expected an object, not nothing (see other errors)",
				path, sel.Path.Path.Range(),
			))
			break
		}
		if obj, isObject := value.(*jsondata.Object); isObject {
			output.Extend(obj)
		} else {
			errors = append(errors, newError(
				fmt.Sprintf("Expected an object, not a %s", jsondata.TypeName(value)),
				path, sel.Path.Path.Range(),
			))
		}

	case ast.SelectGroup:
		value, ok, applyErrors := applySub(sel.Sub, data, vars, path)
		errors = append(errors, applyErrors...)
		if ok {
			output.Set(sel.Alias.Name.Value, value)
		}
	}

	return output, true, errors
}

func getProperty(data any, name string) (any, bool) {
	if obj, ok := data.(*jsondata.Object); ok {
		return obj.Get(name)
	}
	return nil, false
}

func applySub(sub *ast.SubSelection, data any, vars VarsWithPaths, path *InputPath) (any, bool, []ApplyToError) {
	if array, ok := data.([]any); ok {
		return applyEach(array, path, func(element any, p *InputPath) (any, bool, []ApplyToError) {
			return applySub(sub, element, vars, p)
		})
	}

	// A subselection rebinds $ to the value it is applied to.
	subVars := make(VarsWithPaths, len(vars))
	for name, binding := range vars {
		subVars[name] = binding
	}
	subVars[ast.VarDollar] = varBinding{value: data, path: path}

	dataObj, isObject := data.(*jsondata.Object)

	output := jsondata.NewObject()
	var errors []ApplyToError
	var inputNames map[string]bool
	if sub.Star != nil {
		inputNames = make(map[string]bool)
	}

	for _, sel := range sub.Selections {
		value, ok, applyErrors := applyNamed(sel, data, subVars, path)
		errors = append(errors, applyErrors...)
		if ok {
			if obj, isObj := value.(*jsondata.Object); isObj {
				output.Extend(obj)
			}
		}
		// Star selections match the keys the input had left over after the
		// explicit selections, so remember the original input names. Group
		// selections read no input keys and do not count.
		if sub.Star != nil {
			switch sel.Kind {
			case ast.SelectField, ast.SelectQuoted:
				inputNames[sel.Name.Value.Text] = true
			case ast.SelectPath:
				if sel.Path.Path.Kind == ast.PathKey {
					inputNames[sel.Path.Path.Key.Value.Text] = true
				}
			}
		}
	}

	if star := sub.Star; star != nil {
		applyErrors := applyStar(star, dataObj, inputNames, output, subVars, path)
		errors = append(errors, applyErrors...)
	}

	// A primitive that produced no output keys passes through unchanged.
	if !isObject && output.Len() == 0 {
		return data, true, errors
	}

	return output, true, errors
}

func applyStar(
	star *ast.StarSelection,
	data *jsondata.Object,
	inputNames map[string]bool,
	output *jsondata.Object,
	vars VarsWithPaths,
	path *InputPath,
) []ApplyToError {
	var errors []ApplyToError

	captured := jsondata.NewObject()
	target := captured
	if star.Alias == nil {
		target = output
	}

	if data != nil {
		for _, key := range data.Keys() {
			if inputNames[key] {
				continue
			}
			value, _ := data.Get(key)
			if star.Sub != nil {
				selected, ok, applyErrors := applySub(star.Sub, value, vars, path)
				errors = append(errors, applyErrors...)
				if !ok {
					continue
				}
				value = selected
			}
			target.Set(key, value)
		}
	}

	if star.Alias != nil {
		output.Set(star.Alias.Name.Value, captured)
	}
	return errors
}

func applyPathSelection(sel *ast.PathSelection, data any, vars VarsWithPaths, path *InputPath) (any, bool, []ApplyToError) {
	// A path that starts with a bare key evaluates against the current $
	// binding rather than the immediate input, so method chains like
	// obj->has('a')->and(obj.b) read both obj references from $.
	if sel.Path.Kind == ast.PathKey {
		if dollar, ok := vars[ast.VarDollar]; ok {
			return applyPathList(sel.Path, dollar.value, vars, dollar.path)
		}
	}
	return applyPathList(sel.Path, data, vars, path)
}

func applyPathList(pl *ast.PathList, data any, vars VarsWithPaths, path *InputPath) (any, bool, []ApplyToError) {
	switch pl.Kind {
	case ast.PathVar:
		if pl.Var.Value == ast.VarAt {
			// @ always means the current value and is never in the vars map.
			return applyPathList(pl.Tail, data, vars, path)
		}
		if binding, ok := vars[pl.Var.Value]; ok {
			return applyPathList(pl.Tail, binding.value, vars, binding.path)
		}
		return nil, false, []ApplyToError{newError(
			fmt.Sprintf("Variable %s not found", pl.Var.Value),
			path, pl.Var.Range,
		)}

	case ast.PathKey:
		if array, ok := data.([]any); ok {
			return applyEach(array, path, func(element any, p *InputPath) (any, bool, []ApplyToError) {
				return applyPathList(pl, element, vars, p)
			})
		}
		name := pl.Key.Value.Text
		keyPath := path.Append(name)
		child, found := getProperty(data, name)
		if !found {
			return nil, false, []ApplyToError{newError(
				fmt.Sprintf("Property %s not found in %s", pl.Key.Value.Dotted(), jsondata.TypeName(data)),
				keyPath, pl.Key.Range,
			)}
		}
		return applyPathList(pl.Tail, child, vars, keyPath)

	case ast.PathMethod:
		method := LookupMethod(pl.Method.Value)
		if method == nil {
			return nil, false, []ApplyToError{newError(
				fmt.Sprintf("Method ->%s not found", pl.Method.Value),
				path, pl.Method.Range,
			)}
		}
		return method.Evaluate(pl.Method, pl.Args, data, vars, path, pl.Tail)

	case ast.PathSub:
		return applySub(pl.Sub, data, vars, path)
	}

	// An empty path preserves the current value.
	return data, true, nil
}

func applyLit(lit *ast.LitExpr, data any, vars VarsWithPaths, path *InputPath) (any, bool, []ApplyToError) {
	switch lit.Kind {
	case ast.LitString:
		return lit.Str, true, nil
	case ast.LitNumber:
		return json.Number(lit.Number), true, nil
	case ast.LitBool:
		return lit.Bool, true, nil
	case ast.LitNull:
		return nil, true, nil
	case ast.LitObject:
		output := jsondata.NewObject()
		var errors []ApplyToError
		for _, field := range lit.Fields {
			value, ok, applyErrors := applyLit(field.Value, data, vars, path)
			errors = append(errors, applyErrors...)
			if ok {
				output.Set(field.Key.Value.Text, value)
			}
		}
		return output, true, errors
	case ast.LitArray:
		output := make([]any, 0, len(lit.Items))
		var errors []ApplyToError
		for _, item := range lit.Items {
			value, ok, applyErrors := applyLit(item, data, vars, path)
			errors = append(errors, applyErrors...)
			if !ok {
				value = nil
			}
			output = append(output, value)
		}
		return output, true, errors
	case ast.LitPath:
		return applyPathSelection(lit.Path, data, vars, path)
	}
	return nil, false, nil
}

func isTruthy(data any) bool {
	switch v := data.(type) {
	case bool:
		return v
	case json.Number:
		f, err := v.Float64()
		return err == nil && f != 0
	case string:
		return v != ""
	case nil:
		return false
	}
	// Arrays and objects are always truthy.
	return true
}

func asInt64(data any) (int64, bool) {
	n, ok := data.(json.Number)
	if !ok {
		return 0, false
	}
	i, err := n.Int64()
	if err != nil {
		return 0, false
	}
	return i, true
}
