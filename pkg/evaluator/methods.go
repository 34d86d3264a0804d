package evaluator

import (
	"sort"
	"sync"

	"github.com/connectgrid/jsonselection/pkg/ast"
	"github.com/connectgrid/jsonselection/pkg/shape"
)

// MethodEvaluator applies one arrow method. It receives the unevaluated
// argument expressions, the input value the method was invoked on, the
// current variable bindings, and the rest of the path after the method,
// which the method applies itself (some methods, like map, apply the tail
// once per element).
type MethodEvaluator func(
	name ast.WithRange[string],
	args *ast.MethodArgs,
	data any,
	vars VarsWithPaths,
	path *InputPath,
	tail *ast.PathList,
) (any, bool, []ApplyToError)

// ShapeInferrer computes the static output shape of one arrow method, given
// the input shape, the shape bound to $, and the named shape table. The
// path tail after the method is handled by the caller.
type ShapeInferrer func(
	name ast.WithRange[string],
	args *ast.MethodArgs,
	input *shape.Shape,
	dollar *shape.Shape,
	named map[string]*shape.Shape,
) *shape.Shape

// Method is one entry in the arrow method registry.
type Method struct {
	Name       string
	Evaluate   MethodEvaluator
	InferShape ShapeInferrer
}

var (
	registryOnce sync.Once
	registry     map[string]*Method
)

func buildRegistry() {
	methods := []*Method{
		{Name: "echo", Evaluate: echoMethod, InferShape: echoShape},
		{Name: "map", Evaluate: mapMethod, InferShape: mapShape},
		{Name: "match", Evaluate: matchMethod, InferShape: matchShape},
		{Name: "first", Evaluate: firstMethod, InferShape: firstShape},
		{Name: "last", Evaluate: lastMethod, InferShape: lastShape},
		{Name: "slice", Evaluate: sliceMethod, InferShape: sliceShape},
		{Name: "size", Evaluate: sizeMethod, InferShape: sizeShape},
		{Name: "entries", Evaluate: entriesMethod, InferShape: entriesShape},
		{Name: "keys", Evaluate: keysMethod, InferShape: keysShape},
		{Name: "values", Evaluate: valuesMethod, InferShape: valuesShape},
		{Name: "get", Evaluate: getMethod, InferShape: getShape},
		{Name: "typeof", Evaluate: typeofMethod, InferShape: typeofShape},
		{Name: "eq", Evaluate: eqMethod, InferShape: eqShape},
		{Name: "has", Evaluate: hasMethod, InferShape: hasShape},
		{Name: "not", Evaluate: notMethod, InferShape: notShape},
		{Name: "or", Evaluate: orMethod, InferShape: orShape},
		{Name: "and", Evaluate: andMethod, InferShape: andShape},
	}
	registry = make(map[string]*Method, len(methods))
	for _, m := range methods {
		registry[m.Name] = m
	}
}

// LookupMethod finds an arrow method by name, or nil if none is registered.
// The registry is closed: methods cannot be added at runtime.
func LookupMethod(name string) *Method {
	registryOnce.Do(buildRegistry)
	return registry[name]
}

// MethodNames lists every registered arrow method in sorted order.
func MethodNames() []string {
	registryOnce.Do(buildRegistry)
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
