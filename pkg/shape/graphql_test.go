package shape

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2"
	gqlast "github.com/vektah/gqlparser/v2/ast"
)

const testSchema = `
scalar JSON

enum Role {
  ADMIN
  USER
}

type User {
  id: ID!
  name: String
  age: Int!
  score: Float
  active: Boolean!
  friends: [User!]!
  role: Role!
  extra: JSON
}

type Post {
  title: String!
}

union Feed = User | Post

type Query {
  user(id: ID!, verbose: Boolean, limit: Int = 10): User
}
`

func loadTestSchema(t *testing.T) *gqlast.Schema {
	t.Helper()
	return gqlparser.MustLoadSchema(&gqlast.Source{Name: "test.graphql", Input: testSchema})
}

func TestShapesForSchema(t *testing.T) {
	named := ShapesForSchema(loadTestSchema(t))

	user, ok := named["User"]
	require.True(t, ok)
	require.Equal(t, KindObject, user.Kind)

	t.Run("non-null scalars", func(t *testing.T) {
		requireShapeEqual(t, String(), user.Fields["id"])
		requireShapeEqual(t, Int(), user.Fields["age"])
		requireShapeEqual(t, Bool(), user.Fields["active"])
	})

	t.Run("nullable scalars union with null", func(t *testing.T) {
		requireShapeEqual(t, One([]*Shape{String(), Null()}), user.Fields["name"])
		requireShapeEqual(t, One([]*Shape{Float(), Null()}), user.Fields["score"])
	})

	t.Run("lists and object references stay lazy", func(t *testing.T) {
		friends := user.Fields["friends"]
		require.Equal(t, KindArray, friends.Kind)
		requireShapeEqual(t, NamedShape("User"), friends.AnyItem())
	})

	t.Run("enums are unions of their values", func(t *testing.T) {
		want := One([]*Shape{StringValue("ADMIN"), StringValue("USER")})
		requireShapeEqual(t, want, user.Fields["role"])
	})

	t.Run("custom scalars resolve to unknown", func(t *testing.T) {
		requireShapeEqual(t, One([]*Shape{NamedShape("JSON"), Null()}), user.Fields["extra"])
		requireShapeEqual(t, Unknown(), named["JSON"])
	})

	t.Run("unions reference their members", func(t *testing.T) {
		feed, ok := named["Feed"]
		require.True(t, ok)
		want := One([]*Shape{NamedShape("User"), NamedShape("Post")})
		requireShapeEqual(t, want, feed)
	})

	t.Run("introspection types excluded", func(t *testing.T) {
		_, ok := named["__Schema"]
		require.False(t, ok)
	})

	t.Run("builtin scalars mapped directly", func(t *testing.T) {
		requireShapeEqual(t, Int(), named["Int"])
		requireShapeEqual(t, String(), named["ID"])
		requireShapeEqual(t, Bool(), named["Boolean"])
	})
}

func TestShapeForArguments(t *testing.T) {
	schema := loadTestSchema(t)
	field := schema.Types["Query"].Fields.ForName("user")
	require.NotNil(t, field)

	args := ShapeForArguments(field)
	require.Equal(t, KindObject, args.Kind)
	require.Equal(t, []string{"id", "verbose", "limit"}, args.FieldOrder)

	requireShapeEqual(t, String(), args.Fields["id"])
	requireShapeEqual(t, One([]*Shape{Bool(), Null(), None()}), args.Fields["verbose"])
	requireShapeEqual(t, One([]*Shape{Int(), Null(), None()}), args.Fields["limit"])
}

func TestShapeForType(t *testing.T) {
	nonNullInt := gqlast.NonNullNamedType("Int", nil)
	requireShapeEqual(t, Int(), ShapeForType(nonNullInt))

	nullableString := gqlast.NamedType("String", nil)
	requireShapeEqual(t, One([]*Shape{String(), Null()}), ShapeForType(nullableString))

	listOfInts := gqlast.NonNullListType(gqlast.NonNullNamedType("Int", nil), nil)
	requireShapeEqual(t, List(Int()), ShapeForType(listOfInts))

	named := gqlast.NonNullNamedType("User", nil)
	requireShapeEqual(t, NamedShape("User"), ShapeForType(named))
}
