package evaluator

import (
	"fmt"

	"github.com/connectgrid/jsonselection/pkg/ast"
	"github.com/connectgrid/jsonselection/pkg/jsondata"
	"github.com/connectgrid/jsonselection/pkg/shape"
)

// typeof yields the JSON type name of the input: null, boolean, number,
// string, array, or object.
func typeofMethod(name ast.WithRange[string], args *ast.MethodArgs, data any, vars VarsWithPaths, path *InputPath, tail *ast.PathList) (any, bool, []ApplyToError) {
	if args != nil {
		return takesNoArguments(name, path)
	}
	return applyPathList(tail, jsondata.TypeName(data), vars, path)
}

func typeofShape(name ast.WithRange[string], args *ast.MethodArgs, input, dollar *shape.Shape, named map[string]*shape.Shape) *shape.Shape {
	return shape.One([]*shape.Shape{
		shape.StringValue("null"),
		shape.StringValue("boolean"),
		shape.StringValue("number"),
		shape.StringValue("string"),
		shape.StringValue("array"),
		shape.StringValue("object"),
	})
}

// eq compares the input against its single argument with deep JSON
// equality.
func eqMethod(name ast.WithRange[string], args *ast.MethodArgs, data any, vars VarsWithPaths, path *InputPath, tail *ast.PathList) (any, bool, []ApplyToError) {
	if args == nil || len(args.Args) != 1 {
		return nil, false, []ApplyToError{newError(
			fmt.Sprintf("Method ->%s requires exactly one argument", name.Value),
			path, name.Range,
		)}
	}
	value, ok, errors := applyLit(args.Args[0], data, vars, path)
	matches := ok && jsondata.Equal(data, value)
	result, tailOK, tailErrors := applyPathList(tail, matches, vars, path)
	return result, tailOK, append(errors, tailErrors...)
}

func eqShape(name ast.WithRange[string], args *ast.MethodArgs, input, dollar *shape.Shape, named map[string]*shape.Shape) *shape.Shape {
	return shape.Bool()
}

// has tests membership: an integer argument tests index bounds on arrays
// and strings (negative counts from the end), a string argument tests key
// presence on objects. Any other combination yields false.
func hasMethod(name ast.WithRange[string], args *ast.MethodArgs, data any, vars VarsWithPaths, path *InputPath, tail *ast.PathList) (any, bool, []ApplyToError) {
	arg := firstArg(args)
	if arg == nil {
		return nil, false, []ApplyToError{newError(
			fmt.Sprintf("Method ->%s requires an argument", name.Value),
			path, name.Range,
		)}
	}

	argValue, argOK, errors := applyLit(arg, data, vars, path)
	result := false
	argPath := path
	if argOK {
		argPath = path.Append(argValue)
		if index, isInt := asInt64(argValue); isInt {
			switch v := data.(type) {
			case []any:
				result = inBounds(index, int64(len(v)))
			case string:
				result = inBounds(index, int64(len(v)))
			}
		} else if key, isString := argValue.(string); isString {
			if obj, isObject := data.(*jsondata.Object); isObject {
				result = obj.Has(key)
			}
		}
	}

	value, ok, tailErrors := applyPathList(tail, result, vars, argPath)
	return value, ok, append(errors, tailErrors...)
}

func inBounds(index, length int64) bool {
	if index < 0 {
		index += length
	}
	return index >= 0 && index < length
}

func hasShape(name ast.WithRange[string], args *ast.MethodArgs, input, dollar *shape.Shape, named map[string]*shape.Shape) *shape.Shape {
	return shape.Bool()
}

// not negates a boolean input. Non-boolean inputs are errors rather than
// being coerced through truthiness.
func notMethod(name ast.WithRange[string], args *ast.MethodArgs, data any, vars VarsWithPaths, path *InputPath, tail *ast.PathList) (any, bool, []ApplyToError) {
	if args != nil {
		return takesNoArguments(name, path)
	}
	b, isBool := data.(bool)
	if !isBool {
		return nil, false, []ApplyToError{newError(
			fmt.Sprintf("Method ->%s requires a boolean input, not %s", name.Value, jsondata.TypeName(data)),
			path, name.Range,
		)}
	}
	return applyPathList(tail, !b, vars, path)
}

func notShape(name ast.WithRange[string], args *ast.MethodArgs, input, dollar *shape.Shape, named map[string]*shape.Shape) *shape.Shape {
	if args != nil {
		return shape.Error(fmt.Sprintf("Method ->%s does not take any arguments", name.Value), name.Range)
	}
	switch input.Kind {
	case shape.KindBool:
		if input.BoolLit != nil {
			return shape.BoolValue(!*input.BoolLit)
		}
		return shape.Bool()
	case shape.KindUnknown, shape.KindName:
		return shape.Bool()
	case shape.KindOne:
		members := make([]*shape.Shape, len(input.Members))
		for i, m := range input.Members {
			members[i] = notShape(name, args, m, dollar, named)
		}
		return shape.One(members)
	case shape.KindError:
		return input
	}
	return shape.Error(
		fmt.Sprintf("Method ->%s requires a boolean input", name.Value),
		name.Range,
	)
}

// or short-circuits truthiness across the input and each argument.
func orMethod(name ast.WithRange[string], args *ast.MethodArgs, data any, vars VarsWithPaths, path *InputPath, tail *ast.PathList) (any, bool, []ApplyToError) {
	if args == nil {
		return nil, false, []ApplyToError{newError(
			fmt.Sprintf("Method ->%s requires arguments", name.Value),
			path, name.Range,
		)}
	}
	result := isTruthy(data)
	var errors []ApplyToError
	for _, arg := range args.Args {
		if result {
			break
		}
		value, ok, applyErrors := applyLit(arg, data, vars, path)
		errors = append(errors, applyErrors...)
		result = ok && isTruthy(value)
	}
	value, ok, tailErrors := applyPathList(tail, result, vars, path)
	return value, ok, append(errors, tailErrors...)
}

func orShape(name ast.WithRange[string], args *ast.MethodArgs, input, dollar *shape.Shape, named map[string]*shape.Shape) *shape.Shape {
	if truthy, known := staticTruthiness(input); known && truthy {
		return shape.BoolValue(true)
	}
	if args != nil {
		for _, arg := range args.Args {
			argShape := litShape(arg, input, dollar, named)
			if truthy, known := staticTruthiness(argShape); known && truthy {
				return shape.BoolValue(true)
			}
		}
	}
	return shape.Bool()
}

// and short-circuits like or, stopping at the first falsy value.
func andMethod(name ast.WithRange[string], args *ast.MethodArgs, data any, vars VarsWithPaths, path *InputPath, tail *ast.PathList) (any, bool, []ApplyToError) {
	if args == nil {
		return nil, false, []ApplyToError{newError(
			fmt.Sprintf("Method ->%s requires arguments", name.Value),
			path, name.Range,
		)}
	}
	result := isTruthy(data)
	var errors []ApplyToError
	for _, arg := range args.Args {
		if !result {
			break
		}
		value, ok, applyErrors := applyLit(arg, data, vars, path)
		errors = append(errors, applyErrors...)
		result = ok && isTruthy(value)
	}
	value, ok, tailErrors := applyPathList(tail, result, vars, path)
	return value, ok, append(errors, tailErrors...)
}

func andShape(name ast.WithRange[string], args *ast.MethodArgs, input, dollar *shape.Shape, named map[string]*shape.Shape) *shape.Shape {
	if truthy, known := staticTruthiness(input); known && !truthy {
		return shape.BoolValue(false)
	}
	if args != nil {
		for _, arg := range args.Args {
			argShape := litShape(arg, input, dollar, named)
			if truthy, known := staticTruthiness(argShape); known && !truthy {
				return shape.BoolValue(false)
			}
		}
	}
	return shape.Bool()
}

// staticTruthiness reports the truthiness of a shape when it is statically
// decidable.
func staticTruthiness(s *shape.Shape) (truthy, known bool) {
	switch s.Kind {
	case shape.KindBool:
		if s.BoolLit != nil {
			return *s.BoolLit, true
		}
	case shape.KindInt:
		if s.IntLit != nil {
			return *s.IntLit != 0, true
		}
	case shape.KindString:
		if s.StringLit != nil {
			return *s.StringLit != "", true
		}
	case shape.KindNull:
		return false, true
	case shape.KindArray, shape.KindObject:
		return true, true
	}
	return false, false
}
