package evaluator

import (
	"fmt"

	"github.com/connectgrid/jsonselection/pkg/ast"
	"github.com/connectgrid/jsonselection/pkg/jsondata"
	"github.com/connectgrid/jsonselection/pkg/shape"
)

// entries turns an object into an array of { key, value } pairs in
// insertion order.
func entriesMethod(name ast.WithRange[string], args *ast.MethodArgs, data any, vars VarsWithPaths, path *InputPath, tail *ast.PathList) (any, bool, []ApplyToError) {
	if args != nil {
		return takesNoArguments(name, path)
	}
	obj, ok := data.(*jsondata.Object)
	if !ok {
		return nil, false, []ApplyToError{newError(
			fmt.Sprintf("Method ->%s requires an object input, not %s", name.Value, jsondata.TypeName(data)),
			path, name.Range,
		)}
	}
	entries := make([]any, 0, obj.Len())
	for _, key := range obj.Keys() {
		value, _ := obj.Get(key)
		entry := jsondata.NewObject()
		entry.Set("key", key)
		entry.Set("value", value)
		entries = append(entries, entry)
	}
	return applyPathList(tail, entries, vars, path)
}

func entriesShape(name ast.WithRange[string], args *ast.MethodArgs, input, dollar *shape.Shape, named map[string]*shape.Shape) *shape.Shape {
	if args != nil {
		return shape.Error(fmt.Sprintf("Method ->%s does not take any arguments", name.Value), name.Range)
	}
	if input.Kind != shape.KindObject {
		if input.Kind == shape.KindError {
			return input
		}
		return shape.Error(fmt.Sprintf("Method ->%s requires an object input", name.Value), name.Range)
	}

	entryShape := func(key, value *shape.Shape) *shape.Shape {
		return shape.Record(
			[]string{"key", "value"},
			map[string]*shape.Shape{"key": key, "value": value},
		)
	}

	var prefix []*shape.Shape
	for _, key := range orderedFieldNames(input) {
		prefix = append(prefix, entryShape(shape.StringValue(key), input.Fields[key]))
	}
	tail := shape.None()
	if !input.Rest.IsNone() {
		tail = entryShape(shape.String(), input.Rest)
	}
	return shape.Array(prefix, tail)
}

func orderedFieldNames(s *shape.Shape) []string {
	if len(s.FieldOrder) == len(s.Fields) {
		return s.FieldOrder
	}
	names := make([]string, 0, len(s.Fields))
	for name := range s.Fields {
		names = append(names, name)
	}
	return names
}

// keys yields the property names of an object in insertion order.
func keysMethod(name ast.WithRange[string], args *ast.MethodArgs, data any, vars VarsWithPaths, path *InputPath, tail *ast.PathList) (any, bool, []ApplyToError) {
	if args != nil {
		return takesNoArguments(name, path)
	}
	obj, ok := data.(*jsondata.Object)
	if !ok {
		return nil, false, []ApplyToError{newError(
			fmt.Sprintf("Method ->%s requires an object input, not %s", name.Value, jsondata.TypeName(data)),
			path, name.Range,
		)}
	}
	keys := make([]any, 0, obj.Len())
	for _, key := range obj.Keys() {
		keys = append(keys, key)
	}
	return applyPathList(tail, keys, vars, path)
}

func keysShape(name ast.WithRange[string], args *ast.MethodArgs, input, dollar *shape.Shape, named map[string]*shape.Shape) *shape.Shape {
	if input.Kind != shape.KindObject {
		if input.Kind == shape.KindError {
			return input
		}
		return shape.Error(fmt.Sprintf("Method ->%s requires an object input", name.Value), name.Range)
	}
	var prefix []*shape.Shape
	for _, key := range orderedFieldNames(input) {
		prefix = append(prefix, shape.StringValue(key))
	}
	tail := shape.None()
	if !input.Rest.IsNone() {
		tail = shape.String()
	}
	return shape.Array(prefix, tail)
}

// values yields the property values of an object in insertion order.
func valuesMethod(name ast.WithRange[string], args *ast.MethodArgs, data any, vars VarsWithPaths, path *InputPath, tail *ast.PathList) (any, bool, []ApplyToError) {
	if args != nil {
		return takesNoArguments(name, path)
	}
	obj, ok := data.(*jsondata.Object)
	if !ok {
		return nil, false, []ApplyToError{newError(
			fmt.Sprintf("Method ->%s requires an object input, not %s", name.Value, jsondata.TypeName(data)),
			path, name.Range,
		)}
	}
	values := make([]any, 0, obj.Len())
	for _, key := range obj.Keys() {
		value, _ := obj.Get(key)
		values = append(values, value)
	}
	return applyPathList(tail, values, vars, path)
}

func valuesShape(name ast.WithRange[string], args *ast.MethodArgs, input, dollar *shape.Shape, named map[string]*shape.Shape) *shape.Shape {
	if input.Kind != shape.KindObject {
		if input.Kind == shape.KindError {
			return input
		}
		return shape.Error(fmt.Sprintf("Method ->%s requires an object input", name.Value), name.Range)
	}
	var prefix []*shape.Shape
	for _, key := range orderedFieldNames(input) {
		prefix = append(prefix, input.Fields[key])
	}
	return shape.Array(prefix, input.Rest)
}

// get looks up one element by integer index (negative counts from the end)
// on arrays and strings, or by string key on objects.
func getMethod(name ast.WithRange[string], args *ast.MethodArgs, data any, vars VarsWithPaths, path *InputPath, tail *ast.PathList) (any, bool, []ApplyToError) {
	arg := firstArg(args)
	if arg == nil {
		return nil, false, []ApplyToError{newError(
			fmt.Sprintf("Method ->%s requires an argument", name.Value),
			path, name.Range,
		)}
	}

	index, indexOK, errors := applyLit(arg, data, vars, path)
	if !indexOK {
		return nil, false, append(errors, newError(
			fmt.Sprintf("Method ->%s received undefined argument", name.Value),
			path, arg.Range,
		))
	}

	if i, isInt := asInt64(index); isInt {
		switch v := data.(type) {
		case []any:
			at := i
			if at < 0 {
				at += int64(len(v))
			}
			if at < 0 || at >= int64(len(v)) {
				return nil, false, append(errors, newError(
					fmt.Sprintf("Method ->%s(%d) index out of bounds", name.Value, i),
					path, arg.Range,
				))
			}
			value, ok, tailErrors := applyPathList(tail, v[at], vars, path)
			return value, ok, append(errors, tailErrors...)
		case string:
			at := i
			if at < 0 {
				at += int64(len(v))
			}
			if at < 0 || at >= int64(len(v)) {
				return nil, false, append(errors, newError(
					fmt.Sprintf("Method ->%s(%d) index out of bounds", name.Value, i),
					path, arg.Range,
				))
			}
			value, ok, tailErrors := applyPathList(tail, v[at:at+1], vars, path)
			return value, ok, append(errors, tailErrors...)
		}
		return nil, false, append(errors, newError(
			fmt.Sprintf("Method ->%s requires an array or string input, not %s", name.Value, jsondata.TypeName(data)),
			path, name.Range,
		))
	}

	if key, isString := index.(string); isString {
		obj, isObject := data.(*jsondata.Object)
		if !isObject {
			var argsRange *ast.Range
			if args != nil {
				argsRange = args.Range
			}
			return nil, false, append(errors, newError(
				fmt.Sprintf("Method ->%s(%q) requires an object input", name.Value, key),
				path, ast.MergeRanges(name.Range, argsRange),
			))
		}
		value, found := obj.Get(key)
		if !found {
			return nil, false, append(errors, newError(
				fmt.Sprintf("Method ->%s(%q) object key not found", name.Value, key),
				path, arg.Range,
			))
		}
		result, ok, tailErrors := applyPathList(tail, value, vars, path)
		return result, ok, append(errors, tailErrors...)
	}

	return nil, false, append(errors, newError(
		fmt.Sprintf("Method ->%s requires an integer or string argument", name.Value),
		path, arg.Range,
	))
}

func getShape(name ast.WithRange[string], args *ast.MethodArgs, input, dollar *shape.Shape, named map[string]*shape.Shape) *shape.Shape {
	arg := firstArg(args)
	if arg == nil {
		return shape.Error(fmt.Sprintf("Method ->%s requires an argument", name.Value), name.Range)
	}
	index := litShape(arg, input, dollar, named)

	switch index.Kind {
	case shape.KindString:
		switch input.Kind {
		case shape.KindObject:
			if index.StringLit != nil {
				if field, ok := input.Fields[*index.StringLit]; ok {
					return field
				}
			}
			var members []*shape.Shape
			for _, key := range orderedFieldNames(input) {
				members = append(members, input.Fields[key])
			}
			if !input.Rest.IsNone() {
				members = append(members, input.Rest)
			}
			members = append(members, shape.None())
			return shape.One(members)
		case shape.KindArray:
			return shape.Error(
				fmt.Sprintf("Method ->%s applied to array requires integer index, not string", name.Value),
				arg.Range,
			)
		case shape.KindString:
			return shape.Error(
				fmt.Sprintf("Method ->%s applied to string requires integer index, not string", name.Value),
				arg.Range,
			)
		}
		return shape.Error(fmt.Sprintf("Method ->%s requires an object, array, or string input", name.Value), name.Range)

	case shape.KindInt:
		switch input.Kind {
		case shape.KindArray:
			if index.IntLit != nil {
				i := *index.IntLit
				if i >= 0 && i < int64(len(input.Prefix)) {
					return input.Prefix[i]
				}
			}
			return shape.One([]*shape.Shape{input.Tail, shape.None()})
		case shape.KindString:
			if input.StringLit != nil && index.IntLit != nil {
				s, i := *input.StringLit, *index.IntLit
				if i >= 0 && i < int64(len(s)) {
					return shape.StringValue(s[i : i+1])
				}
				return shape.None()
			}
			return shape.One([]*shape.Shape{shape.String(), shape.None()})
		case shape.KindObject:
			return shape.Error(
				fmt.Sprintf("Method ->%s applied to object requires string index, not integer", name.Value),
				arg.Range,
			)
		}
		return shape.Error(fmt.Sprintf("Method ->%s requires an object, array, or string input", name.Value), name.Range)
	}

	return shape.Error(
		fmt.Sprintf("Method ->%s requires an integer or string argument", name.Value),
		arg.Range,
	)
}
