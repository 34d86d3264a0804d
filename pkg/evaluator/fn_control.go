package evaluator

import (
	"fmt"

	"github.com/connectgrid/jsonselection/pkg/ast"
	"github.com/connectgrid/jsonselection/pkg/jsondata"
	"github.com/connectgrid/jsonselection/pkg/shape"
)

func firstArg(args *ast.MethodArgs) *ast.LitExpr {
	if args == nil || len(args.Args) == 0 {
		return nil
	}
	return args.Args[0]
}

func requiresOneArgument(name ast.WithRange[string], path *InputPath) (any, bool, []ApplyToError) {
	return nil, false, []ApplyToError{newError(
		fmt.Sprintf("Method ->%s requires one argument", name.Value),
		path, name.Range,
	)}
}

func takesNoArguments(name ast.WithRange[string], path *InputPath) (any, bool, []ApplyToError) {
	return nil, false, []ApplyToError{newError(
		fmt.Sprintf("Method ->%s does not take any arguments", name.Value),
		path, name.Range,
	)}
}

// echo ignores its input and evaluates its single argument, which may still
// reference the input through @ and $.
func echoMethod(name ast.WithRange[string], args *ast.MethodArgs, data any, vars VarsWithPaths, path *InputPath, tail *ast.PathList) (any, bool, []ApplyToError) {
	arg := firstArg(args)
	if arg == nil {
		return requiresOneArgument(name, path)
	}
	value, ok, errors := applyLit(arg, data, vars, path)
	if !ok {
		return nil, false, errors
	}
	tailValue, tailOK, tailErrors := applyPathList(tail, value, vars, path)
	return tailValue, tailOK, append(errors, tailErrors...)
}

func echoShape(name ast.WithRange[string], args *ast.MethodArgs, input, dollar *shape.Shape, named map[string]*shape.Shape) *shape.Shape {
	arg := firstArg(args)
	if arg == nil {
		return shape.Error(fmt.Sprintf("Method ->%s requires one argument", name.Value), name.Range)
	}
	return litShape(arg, input, dollar, named)
}

// map applies its argument to each element of the input, rebinding @ to the
// element while $ stays unchanged, and applies the rest of the path to each
// mapped element. Failed elements become null so output indices line up
// with input indices. A non-array input is treated as a one-element array,
// so the result is always an array.
func mapMethod(name ast.WithRange[string], args *ast.MethodArgs, data any, vars VarsWithPaths, path *InputPath, tail *ast.PathList) (any, bool, []ApplyToError) {
	arg := firstArg(args)
	if arg == nil {
		return requiresOneArgument(name, path)
	}

	array, isArray := data.([]any)
	if !isArray {
		array = []any{data}
	}

	output := make([]any, 0, len(array))
	var errors []ApplyToError
	for i, element := range array {
		indexed := path.Append(i)
		applied, ok, applyErrors := applyLit(arg, element, vars, indexed)
		errors = append(errors, applyErrors...)
		if ok {
			value, tailOK, tailErrors := applyPathList(tail, applied, vars, indexed)
			errors = append(errors, tailErrors...)
			if tailOK {
				output = append(output, value)
				continue
			}
		}
		output = append(output, nil)
	}
	return output, true, errors
}

func mapShape(name ast.WithRange[string], args *ast.MethodArgs, input, dollar *shape.Shape, named map[string]*shape.Shape) *shape.Shape {
	arg := firstArg(args)
	if arg == nil {
		return shape.Error(fmt.Sprintf("Method ->%s requires one argument", name.Value), name.Range)
	}
	switch input.Kind {
	case shape.KindArray:
		prefix := make([]*shape.Shape, len(input.Prefix))
		for i, element := range input.Prefix {
			prefix[i] = litShape(arg, element, dollar, named)
		}
		tail := shape.None()
		if !input.Tail.IsNone() {
			tail = litShape(arg, input.Tail, dollar, named)
		}
		return shape.Array(prefix, tail)
	case shape.KindName, shape.KindUnknown:
		// The input may or may not be an array, so hedge with a
		// variable-length array over the any-item shape.
		return shape.List(litShape(arg, input.AnyItem(), dollar, named))
	case shape.KindError:
		return input
	}
	return shape.Array([]*shape.Shape{litShape(arg, input, dollar, named)}, shape.None())
}

// match compares the input against each [candidate, value] pair and yields
// the value of the first candidate equal to the input. A final [@, default]
// pair makes the match infallible.
func matchMethod(name ast.WithRange[string], args *ast.MethodArgs, data any, vars VarsWithPaths, path *InputPath, tail *ast.PathList) (any, bool, []ApplyToError) {
	var errors []ApplyToError

	if args != nil {
		for _, pair := range args.Args {
			if pair.Kind != ast.LitArray || len(pair.Items) != 2 {
				continue
			}
			candidate, ok, candidateErrors := applyLit(pair.Items[0], data, vars, path)
			errors = append(errors, candidateErrors...)
			if !ok || !jsondata.Equal(candidate, data) {
				continue
			}
			value, valueOK, valueErrors := applyLit(pair.Items[1], data, vars, path)
			errors = append(errors, valueErrors...)
			if !valueOK {
				return nil, false, errors
			}
			tailValue, tailOK, tailErrors := applyPathList(tail, value, vars, path)
			return tailValue, tailOK, append(errors, tailErrors...)
		}
	}

	var argsRange *ast.Range
	if args != nil {
		argsRange = args.Range
	}
	return nil, false, append(errors, newError(
		fmt.Sprintf("Method ->%s did not match any [candidate, value] pair", name.Value),
		path, ast.MergeRanges(name.Range, argsRange),
	))
}

func matchShape(name ast.WithRange[string], args *ast.MethodArgs, input, dollar *shape.Shape, named map[string]*shape.Shape) *shape.Shape {
	var union []*shape.Shape
	infallible := false

	if args != nil {
		for _, pair := range args.Args {
			if pair.Kind != ast.LitArray || len(pair.Items) != 2 {
				continue
			}
			candidate := pair.Items[0]
			if candidate.Kind == ast.LitPath &&
				candidate.Path.Path.Kind == ast.PathVar &&
				candidate.Path.Path.Var.Value == ast.VarAt {
				infallible = true
			}
			union = append(union, litShape(pair.Items[1], input, dollar, named))
		}
	}

	if len(union) == 0 {
		var argsRange *ast.Range
		if args != nil {
			argsRange = args.Range
		}
		return shape.Error(
			fmt.Sprintf("Method ->%s requires at least one [candidate, value] pair", name.Value),
			ast.MergeRanges(name.Range, argsRange),
		)
	}
	if !infallible {
		union = append(union, shape.None())
	}
	return shape.One(union)
}
