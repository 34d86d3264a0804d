package validation

import (
	"fmt"

	gqlast "github.com/vektah/gqlparser/v2/ast"

	"github.com/connectgrid/jsonselection/pkg/ast"
	"github.com/connectgrid/jsonselection/pkg/shape"
)

// Context describes where an expression appears: which namespace variables
// are in scope there and what shape each one carries.
type Context struct {
	schema *gqlast.Schema
	vars   map[ast.Namespace]*shape.Shape
	order  []ast.Namespace
}

func newContext(schema *gqlast.Schema) *Context {
	return &Context{
		schema: schema,
		vars:   make(map[ast.Namespace]*shape.Shape),
	}
}

func (c *Context) bind(ns ast.Namespace, s *shape.Shape) {
	if _, ok := c.vars[ns]; !ok {
		c.order = append(c.order, ns)
	}
	c.vars[ns] = s
}

// Namespaces lists the variable roots legal in this context, in binding
// order, formatted with their leading dollar sign.
func (c *Context) Namespaces() []string {
	out := make([]string, len(c.order))
	for i, ns := range c.order {
		out[i] = ns.String()
	}
	return out
}

// VarShape returns the shape bound to a namespace, or nil when the
// namespace is not available in this context.
func (c *Context) VarShape(ns ast.Namespace) *shape.Shape {
	return c.vars[ns]
}

// Schema returns the schema the context was built against, which may be nil
// for schema-free contexts.
func (c *Context) Schema() *gqlast.Schema {
	return c.schema
}

// ForSource builds the context for expressions attached to a source rather
// than a field: only configuration and request context are in scope.
func ForSource(schema *gqlast.Schema) *Context {
	c := newContext(schema)
	c.bind(ast.NamespaceConfig, shape.Unknown())
	c.bind(ast.NamespaceContext, shape.Unknown())
	return c
}

// ForConnectRequest builds the context for request-mapping expressions on a
// field. $args carries the field's argument shapes, and $this the parent
// object unless the field sits on a root operation type.
func ForConnectRequest(schema *gqlast.Schema, objectName, fieldName string) (*Context, error) {
	field, err := lookupField(schema, objectName, fieldName)
	if err != nil {
		return nil, err
	}
	c := newContext(schema)
	c.bind(ast.NamespaceArgs, shape.ShapeForArguments(field))
	c.bind(ast.NamespaceConfig, shape.Unknown())
	c.bind(ast.NamespaceContext, shape.Unknown())
	if !isRootOperationType(schema, objectName) {
		c.bind(ast.NamespaceThis, shape.NamedShape(objectName))
	}
	return c, nil
}

// ForConnectResponse builds the context for response-mapping expressions on
// a field. In addition to the request variables, the HTTP exchange is in
// scope through $status, $request, and $response, and $batch carries the
// batched entity keys.
func ForConnectResponse(schema *gqlast.Schema, objectName, fieldName string) (*Context, error) {
	c, err := ForConnectRequest(schema, objectName, fieldName)
	if err != nil {
		return nil, err
	}
	c.bind(ast.NamespaceStatus, shape.Int())
	c.bind(ast.NamespaceRequest, shape.Unknown())
	c.bind(ast.NamespaceResponse, shape.Unknown())
	c.bind(ast.NamespaceBatch, shape.Unknown())
	return c, nil
}

// Scalars is the expected shape for positions that take a single scalar
// value, such as a URL path parameter or header value.
func Scalars() *shape.Shape {
	return shape.One([]*shape.Shape{
		shape.Int(),
		shape.Float(),
		shape.Bool(),
		shape.String(),
		shape.Null(),
		shape.None(),
	})
}

func lookupField(schema *gqlast.Schema, objectName, fieldName string) (*gqlast.FieldDefinition, error) {
	def := schema.Types[objectName]
	if def == nil {
		return nil, fmt.Errorf("type `%s` not found in schema", objectName)
	}
	field := def.Fields.ForName(fieldName)
	if field == nil {
		return nil, fmt.Errorf("field `%s.%s` not found in schema", objectName, fieldName)
	}
	return field, nil
}

func isRootOperationType(schema *gqlast.Schema, name string) bool {
	if schema.Query != nil && schema.Query.Name == name {
		return true
	}
	if schema.Mutation != nil && schema.Mutation.Name == name {
		return true
	}
	if schema.Subscription != nil && schema.Subscription.Name == name {
		return true
	}
	return false
}
