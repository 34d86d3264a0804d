package shape

import (
	gqlast "github.com/vektah/gqlparser/v2/ast"
)

// ShapesForSchema derives a named shape for every type defined in a GraphQL
// schema. Object, interface, and input object types become object shapes
// whose fields reference other named shapes lazily, so mutually recursive
// schemas resolve without cycles. Unions become One shapes over their
// members, enums become unions of their value names, and custom scalars are
// Unknown.
func ShapesForSchema(schema *gqlast.Schema) map[string]*Shape {
	named := make(map[string]*Shape, len(schema.Types))
	for name, def := range schema.Types {
		if isIntrospectionType(name) {
			continue
		}
		named[name] = shapeForDefinition(def)
	}
	return named
}

func isIntrospectionType(name string) bool {
	return len(name) > 2 && name[0] == '_' && name[1] == '_'
}

func shapeForDefinition(def *gqlast.Definition) *Shape {
	switch def.Kind {
	case gqlast.Scalar:
		switch def.Name {
		case "Int", "Float", "String", "ID", "Boolean":
			return scalarShape(def.Name)
		}
		// Custom scalars can hold any JSON value.
		return Unknown()
	case gqlast.Enum:
		members := make([]*Shape, len(def.EnumValues))
		for i, v := range def.EnumValues {
			members[i] = StringValue(v.Name)
		}
		return One(members)
	case gqlast.Union:
		members := make([]*Shape, len(def.Types))
		for i, name := range def.Types {
			members[i] = NamedShape(name)
		}
		return One(members)
	case gqlast.Object, gqlast.Interface, gqlast.InputObject:
		order := make([]string, 0, len(def.Fields))
		fields := make(map[string]*Shape, len(def.Fields))
		for _, f := range def.Fields {
			if isIntrospectionType(f.Name) {
				continue
			}
			order = append(order, f.Name)
			fields[f.Name] = ShapeForType(f.Type)
		}
		return Record(order, fields)
	}
	return Unknown()
}

// ShapeForType maps a GraphQL type reference to a shape. Nullable types
// become a union with null, lists become arrays, and named types resolve
// either to a builtin scalar shape or to a lazy name reference.
func ShapeForType(t *gqlast.Type) *Shape {
	inner := shapeForStrippedType(t)
	if t.NonNull {
		return inner
	}
	return One([]*Shape{inner, Null()})
}

func shapeForStrippedType(t *gqlast.Type) *Shape {
	if t.Elem != nil {
		return List(ShapeForType(t.Elem))
	}
	return scalarShape(t.NamedType)
}

func scalarShape(name string) *Shape {
	switch name {
	case "Int":
		return Int()
	case "Float":
		return Float()
	case "String", "ID":
		return String()
	case "Boolean":
		return Bool()
	}
	return NamedShape(name)
}

// ShapeForArguments builds the record shape bound to $args for a field:
// one entry per declared argument, with optional arguments (nullable or
// defaulted) hedged against absence.
func ShapeForArguments(field *gqlast.FieldDefinition) *Shape {
	order := make([]string, 0, len(field.Arguments))
	fields := make(map[string]*Shape, len(field.Arguments))
	for _, arg := range field.Arguments {
		order = append(order, arg.Name)
		argShape := ShapeForType(arg.Type)
		if !arg.Type.NonNull || arg.DefaultValue != nil {
			argShape = One([]*Shape{argShape, None()})
		}
		fields[arg.Name] = argShape
	}
	return Record(order, fields)
}
