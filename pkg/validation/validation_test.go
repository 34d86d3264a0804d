package validation

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2"
	gqlast "github.com/vektah/gqlparser/v2/ast"

	"github.com/connectgrid/jsonselection/pkg/ast"
	"github.com/connectgrid/jsonselection/pkg/parser"
)

const testSchema = `
type Query {
  user(id: ID!): User
  version: String!
}

type User {
  id: ID!
  name: String
  avatar(size: Int): String
  pet: Pet
}

type Pet {
  name: String!
  owner: User
}
`

func loadTestSchema(t *testing.T) *gqlast.Schema {
	t.Helper()
	return gqlparser.MustLoadSchema(&gqlast.Source{Name: "test.graphql", Input: testSchema})
}

func parseSelection(t *testing.T, source string) *ast.Selection {
	t.Helper()
	sel, err := parser.Parse(source)
	require.NoError(t, err)
	return sel
}

func TestParseSelectionMessages(t *testing.T) {
	t.Run("valid source parses", func(t *testing.T) {
		sel, msg := ParseSelection("id name")
		require.Nil(t, msg)
		require.NotNil(t, sel)
	})

	t.Run("parse error becomes a message", func(t *testing.T) {
		sel, msg := ParseSelection("a: $unknown")
		require.Nil(t, sel)
		require.Equal(t, InvalidJSONSelection, msg.Code)
		require.Contains(t, msg.Message, "is not a valid JSONSelection:")
	})

	t.Run("empty selection rejected", func(t *testing.T) {
		sel, msg := ParseSelection("   ")
		require.Nil(t, sel)
		require.Equal(t, InvalidJSONSelection, msg.Code)
		require.Equal(t, "selection is empty", msg.Message)
	})
}

func TestContextNamespaces(t *testing.T) {
	schema := loadTestSchema(t)

	t.Run("source context", func(t *testing.T) {
		ctx := ForSource(schema)
		require.Equal(t, []string{"$config", "$context"}, ctx.Namespaces())
	})

	t.Run("request on a root operation type omits $this", func(t *testing.T) {
		ctx, err := ForConnectRequest(schema, "Query", "user")
		require.NoError(t, err)
		require.Equal(t, []string{"$args", "$config", "$context"}, ctx.Namespaces())
		require.Nil(t, ctx.VarShape(ast.NamespaceThis))
	})

	t.Run("request on an entity type binds $this", func(t *testing.T) {
		ctx, err := ForConnectRequest(schema, "User", "name")
		require.NoError(t, err)
		require.Equal(t, []string{"$args", "$config", "$context", "$this"}, ctx.Namespaces())
	})

	t.Run("response adds the http exchange", func(t *testing.T) {
		ctx, err := ForConnectResponse(schema, "Query", "user")
		require.NoError(t, err)
		require.Equal(t,
			[]string{"$args", "$config", "$context", "$status", "$request", "$response", "$batch"},
			ctx.Namespaces())
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := ForConnectRequest(schema, "Nope", "x")
		require.EqualError(t, err, "type `Nope` not found in schema")
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := ForConnectRequest(schema, "User", "missing")
		require.EqualError(t, err, "field `User.missing` not found in schema")
	})
}

func TestValidateExpression(t *testing.T) {
	schema := loadTestSchema(t)
	requestCtx := func(t *testing.T) *Context {
		t.Helper()
		ctx, err := ForConnectRequest(schema, "Query", "user")
		require.NoError(t, err)
		return ctx
	}

	t.Run("argument reference fits a scalar position", func(t *testing.T) {
		msg := Validate(parseSelection(t, "$args.id"), requestCtx(t), Scalars())
		require.Nil(t, msg)
	})

	t.Run("$this resolves through the schema", func(t *testing.T) {
		ctx, err := ForConnectRequest(schema, "User", "name")
		require.NoError(t, err)
		msg := Validate(parseSelection(t, "$this.id"), ctx, Scalars())
		require.Nil(t, msg)
	})

	t.Run("$status is only bound in responses", func(t *testing.T) {
		msg := Validate(parseSelection(t, "$status"), requestCtx(t), nil)
		require.NotNil(t, msg)
		require.Equal(t, InvalidJSONSelection, msg.Code)
		require.Equal(t,
			"`$status` is not valid here, must be one of $args, $config, $context",
			msg.Message)

		ctx, err := ForConnectResponse(schema, "Query", "user")
		require.NoError(t, err)
		require.Nil(t, Validate(parseSelection(t, "$status"), ctx, Scalars()))
	})

	t.Run("bare paths must start with a namespace", func(t *testing.T) {
		msg := Validate(parseSelection(t, "group: a { b }"), requestCtx(t), nil)
		require.NotNil(t, msg)
		require.Equal(t, InvalidJSONSelection, msg.Code)
		require.Equal(t,
			"`a.b` must start with one of $args, $config, $context",
			msg.Message)
	})

	t.Run("unknown argument field", func(t *testing.T) {
		msg := Validate(parseSelection(t, "$args.unknown"), requestCtx(t), nil)
		require.NotNil(t, msg)
		require.Contains(t, msg.Message, "doesn't have a field named `unknown`")
	})

	t.Run("object output rejected at a scalar position", func(t *testing.T) {
		msg := Validate(parseSelection(t, "$args"), requestCtx(t), Scalars())
		require.NotNil(t, msg)
		require.Equal(t, "object values aren't valid here", msg.Message)
	})

	t.Run("nil expected shape skips the fit check", func(t *testing.T) {
		require.Nil(t, Validate(parseSelection(t, "$args"), requestCtx(t), nil))
	})
}

func TestValidateSelection(t *testing.T) {
	schema := loadTestSchema(t)

	validate := func(t *testing.T, source string) []*Message {
		t.Helper()
		return ValidateSelection(parseSelection(t, source), schema, "Query", "user")
	}

	t.Run("valid selection", func(t *testing.T) {
		require.Empty(t, validate(t, "id name pet { name }"))
	})

	t.Run("scalar return type needs no selection", func(t *testing.T) {
		msgs := ValidateSelection(parseSelection(t, "anything"), schema, "Query", "version")
		require.Empty(t, msgs)
	})

	t.Run("object return type requires a group", func(t *testing.T) {
		msgs := validate(t, "$.foo")
		require.Len(t, msgs, 1)
		require.Equal(t, GroupSelectionRequiredForObject, msgs[0].Code)
		require.Equal(t,
			"`Query.user` returns the object type `User`, so `Query.user` must select a group.",
			msgs[0].Message)
	})

	t.Run("unknown field", func(t *testing.T) {
		msgs := validate(t, "id bogus")
		require.Len(t, msgs, 1)
		require.Equal(t, SelectedFieldNotFound, msgs[0].Code)
		require.Equal(t,
			"`Query.user` contains field `bogus`, which does not exist on `User`.",
			msgs[0].Message)
	})

	t.Run("field with arguments", func(t *testing.T) {
		msgs := validate(t, "avatar")
		require.Len(t, msgs, 1)
		require.Equal(t, FieldWithArguments, msgs[0].Code)
		require.Equal(t,
			"`Query.user` selects field `User.avatar`, which has arguments. Only fields with a connector can have arguments.",
			msgs[0].Message)
	})

	t.Run("group on a leaf field", func(t *testing.T) {
		msgs := validate(t, "name { x }")
		require.Len(t, msgs, 1)
		require.Equal(t, GroupSelectionIsNotObject, msgs[0].Code)
		require.Equal(t,
			"`Query.user` selects a group `name{}`, but `User.name` is of type `String` which is not an object.",
			msgs[0].Message)
	})

	t.Run("object field without a group", func(t *testing.T) {
		msgs := validate(t, "pet")
		require.Len(t, msgs, 1)
		require.Equal(t, GroupSelectionRequiredForObject, msgs[0].Code)
		require.Equal(t,
			"`User.pet` is an object, so `Query.user` must select a group `pet{}`.",
			msgs[0].Message)
	})

	t.Run("circular reference", func(t *testing.T) {
		msgs := validate(t, "pet { owner { id } }")
		require.Len(t, msgs, 1)
		require.Equal(t, CircularReference, msgs[0].Code)
		require.Equal(t,
			"Circular reference detected in `Query.user`: type `User` appears more than once in `pet.owner`.",
			msgs[0].Message)
	})

	t.Run("sibling errors all reported", func(t *testing.T) {
		msgs := validate(t, "bogus name { x }")
		require.Len(t, msgs, 2)
		require.Equal(t, SelectedFieldNotFound, msgs[0].Code)
		require.Equal(t, GroupSelectionIsNotObject, msgs[1].Code)
	})

	t.Run("unaliased paths flatten into the surrounding type", func(t *testing.T) {
		require.Empty(t, validate(t, "id $.rest { name }"))
	})
}

func TestCodeStrings(t *testing.T) {
	codes := map[Code]string{
		InvalidJSONSelection:            "INVALID_JSON_SELECTION",
		SelectedFieldNotFound:           "SELECTED_FIELD_NOT_FOUND",
		CircularReference:               "CIRCULAR_REFERENCE",
		GroupSelectionIsNotObject:       "GROUP_SELECTION_IS_NOT_OBJECT",
		GroupSelectionRequiredForObject: "GROUP_SELECTION_REQUIRED_FOR_OBJECT",
		FieldWithArguments:              "FIELD_WITH_ARGUMENTS",
		GraphQLError:                    "GRAPHQL_ERROR",
	}
	for code, want := range codes {
		require.Equal(t, want, code.String())
	}
	msg := &Message{Code: SelectedFieldNotFound, Message: "nope"}
	require.Equal(t, "SELECTED_FIELD_NOT_FOUND: nope", msg.Error())
}
