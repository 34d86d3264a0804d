package evaluator

import (
	"encoding/json"
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/connectgrid/jsonselection/pkg/ast"
	"github.com/connectgrid/jsonselection/pkg/jsondata"
	"github.com/connectgrid/jsonselection/pkg/shape"
)

func intNumber(i int64) json.Number {
	return json.Number(strconv.FormatInt(i, 10))
}

// first yields the first element of an array or the first character of a
// string. Empty inputs yield nothing; inputs with no obvious first element
// pass through unchanged.
func firstMethod(name ast.WithRange[string], args *ast.MethodArgs, data any, vars VarsWithPaths, path *InputPath, tail *ast.PathList) (any, bool, []ApplyToError) {
	if args != nil {
		return takesNoArguments(name, path)
	}
	switch v := data.(type) {
	case []any:
		if len(v) == 0 {
			return nil, false, nil
		}
		return applyPathList(tail, v[0], vars, path)
	case string:
		if v == "" {
			return nil, false, nil
		}
		_, width := utf8.DecodeRuneInString(v)
		return applyPathList(tail, v[:width], vars, path)
	}
	return applyPathList(tail, data, vars, path)
}

func firstShape(name ast.WithRange[string], args *ast.MethodArgs, input, dollar *shape.Shape, named map[string]*shape.Shape) *shape.Shape {
	if args != nil {
		return shape.Error(fmt.Sprintf("Method ->%s does not take any arguments", name.Value), name.Range)
	}
	switch input.Kind {
	case shape.KindString:
		if input.StringLit != nil {
			s := *input.StringLit
			if s == "" {
				return shape.None()
			}
			_, width := utf8.DecodeRuneInString(s)
			return shape.StringValue(s[:width])
		}
		return shape.String()
	case shape.KindArray:
		if len(input.Prefix) > 0 {
			return input.Prefix[0]
		}
		if input.Tail.IsNone() {
			return shape.None()
		}
		return shape.One([]*shape.Shape{input.Tail, shape.None()})
	case shape.KindOne:
		members := make([]*shape.Shape, len(input.Members))
		for i, m := range input.Members {
			members[i] = firstShape(name, args, m, dollar, named)
		}
		return shape.One(members)
	}
	return input
}

// last mirrors first at the other end of arrays and strings.
func lastMethod(name ast.WithRange[string], args *ast.MethodArgs, data any, vars VarsWithPaths, path *InputPath, tail *ast.PathList) (any, bool, []ApplyToError) {
	if args != nil {
		return takesNoArguments(name, path)
	}
	switch v := data.(type) {
	case []any:
		if len(v) == 0 {
			return nil, false, nil
		}
		return applyPathList(tail, v[len(v)-1], vars, path)
	case string:
		if v == "" {
			return nil, false, nil
		}
		_, width := utf8.DecodeLastRuneInString(v)
		return applyPathList(tail, v[len(v)-width:], vars, path)
	}
	return applyPathList(tail, data, vars, path)
}

func lastShape(name ast.WithRange[string], args *ast.MethodArgs, input, dollar *shape.Shape, named map[string]*shape.Shape) *shape.Shape {
	if args != nil {
		return shape.Error(fmt.Sprintf("Method ->%s does not take any arguments", name.Value), name.Range)
	}
	switch input.Kind {
	case shape.KindString:
		if input.StringLit != nil {
			s := *input.StringLit
			if s == "" {
				return shape.None()
			}
			_, width := utf8.DecodeLastRuneInString(s)
			return shape.StringValue(s[len(s)-width:])
		}
		return shape.One([]*shape.Shape{shape.String(), shape.None()})
	case shape.KindArray:
		var members []*shape.Shape
		if len(input.Prefix) > 0 {
			members = append(members, input.Prefix[len(input.Prefix)-1])
		}
		if !input.Tail.IsNone() {
			members = append(members, input.Tail)
		}
		if len(members) == 0 {
			return shape.None()
		}
		if input.Tail.IsNone() && len(input.Prefix) > 0 {
			return input.Prefix[len(input.Prefix)-1]
		}
		members = append(members, shape.None())
		return shape.One(members)
	case shape.KindOne:
		members := make([]*shape.Shape, len(input.Members))
		for i, m := range input.Members {
			members[i] = lastShape(name, args, m, dollar, named)
		}
		return shape.One(members)
	}
	return input
}

// slice takes optional start and end arguments, clamped to the input
// bounds, and yields the sub-array or sub-string between them. With no
// arguments the input passes through unchanged.
func sliceMethod(name ast.WithRange[string], args *ast.MethodArgs, data any, vars VarsWithPaths, path *InputPath, tail *ast.PathList) (any, bool, []ApplyToError) {
	var length int64
	switch v := data.(type) {
	case []any:
		length = int64(len(v))
	case string:
		length = int64(len(v))
	default:
		return nil, false, []ApplyToError{newError(
			fmt.Sprintf("Method ->%s requires an array or string input", name.Value),
			path, name.Range,
		)}
	}

	if args == nil {
		return data, true, nil
	}

	var errors []ApplyToError
	argValue := func(i int, fallback int64) int64 {
		if i >= len(args.Args) {
			return fallback
		}
		value, ok, applyErrors := applyLit(args.Args[i], data, vars, path)
		errors = append(errors, applyErrors...)
		if !ok {
			return fallback
		}
		n, isInt := asInt64(value)
		if !isInt {
			return fallback
		}
		return n
	}
	clamp := func(n int64) int64 {
		if n < 0 {
			n = 0
		}
		if n > length {
			n = length
		}
		return n
	}
	start := clamp(argValue(0, 0))
	end := clamp(argValue(1, length))
	if end < start {
		end = start
	}

	var sliced any
	switch v := data.(type) {
	case []any:
		out := make([]any, end-start)
		copy(out, v[start:end])
		sliced = out
	case string:
		sliced = v[start:end]
	}

	value, ok, tailErrors := applyPathList(tail, sliced, vars, path)
	return value, ok, append(errors, tailErrors...)
}

func sliceShape(name ast.WithRange[string], args *ast.MethodArgs, input, dollar *shape.Shape, named map[string]*shape.Shape) *shape.Shape {
	switch input.Kind {
	case shape.KindArray:
		return shape.List(input.AnyItem())
	case shape.KindString:
		return shape.String()
	case shape.KindUnknown, shape.KindName:
		return shape.Unknown()
	case shape.KindError:
		return input
	}
	return shape.Error(
		fmt.Sprintf("Method ->%s requires an array or string input", name.Value),
		name.Range,
	)
}

// size yields the length of an array or string, or the number of properties
// of an object.
func sizeMethod(name ast.WithRange[string], args *ast.MethodArgs, data any, vars VarsWithPaths, path *InputPath, tail *ast.PathList) (any, bool, []ApplyToError) {
	if args != nil {
		return takesNoArguments(name, path)
	}
	switch v := data.(type) {
	case []any:
		return applyPathList(tail, intNumber(int64(len(v))), vars, path)
	case string:
		return applyPathList(tail, intNumber(int64(len(v))), vars, path)
	case *jsondata.Object:
		return applyPathList(tail, intNumber(int64(v.Len())), vars, path)
	}
	return nil, false, []ApplyToError{newError(
		fmt.Sprintf("Method ->%s requires an array, string, or object input, not %s", name.Value, jsondata.TypeName(data)),
		path, name.Range,
	)}
}

func sizeShape(name ast.WithRange[string], args *ast.MethodArgs, input, dollar *shape.Shape, named map[string]*shape.Shape) *shape.Shape {
	if args != nil {
		return shape.Error(fmt.Sprintf("Method ->%s does not take any arguments", name.Value), name.Range)
	}
	switch input.Kind {
	case shape.KindString:
		if input.StringLit != nil {
			return shape.IntValue(int64(len(*input.StringLit)))
		}
		return shape.Int()
	case shape.KindArray:
		if input.Tail.IsNone() {
			return shape.IntValue(int64(len(input.Prefix)))
		}
		return shape.Int()
	case shape.KindObject:
		if input.Rest.IsNone() {
			return shape.IntValue(int64(len(input.Fields)))
		}
		return shape.Int()
	case shape.KindUnknown, shape.KindName:
		return shape.Int()
	case shape.KindError:
		return input
	}
	return shape.Error(
		fmt.Sprintf("Method ->%s requires an array, string, or object input", name.Value),
		name.Range,
	)
}
