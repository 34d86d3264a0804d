package graphql

import (
	"testing"

	"github.com/stretchr/testify/require"
	gqlast "github.com/vektah/gqlparser/v2/ast"

	"github.com/connectgrid/jsonselection/pkg/parser"
)

func convert(t *testing.T, source string) gqlast.SelectionSet {
	t.Helper()
	set, err := SelectionSet(parser.MustParse(source))
	require.NoError(t, err)
	return set
}

func TestSelectionSet(t *testing.T) {
	t.Run("flat fields", func(t *testing.T) {
		set := convert(t, "a b c")
		require.Len(t, set, 3)
		names := make([]string, len(set))
		for i, sel := range set {
			names[i] = sel.(*gqlast.Field).Name
		}
		require.Equal(t, []string{"a", "b", "c"}, names)
	})

	t.Run("aliased field uses the output name", func(t *testing.T) {
		set := convert(t, "renamed: original")
		require.Len(t, set, 1)
		field := set[0].(*gqlast.Field)
		require.Equal(t, "renamed", field.Name)
		require.Equal(t, "renamed", field.Alias)
	})

	t.Run("quoted key uses its alias", func(t *testing.T) {
		set := convert(t, `msg: "message body"`)
		require.Len(t, set, 1)
		require.Equal(t, "msg", set[0].(*gqlast.Field).Name)
	})

	t.Run("group becomes a nested set", func(t *testing.T) {
		set := convert(t, "user { id name }")
		require.Len(t, set, 1)
		field := set[0].(*gqlast.Field)
		require.Equal(t, "user", field.Name)
		require.Len(t, field.SelectionSet, 2)
	})

	t.Run("aliased path keeps its trailing subselection", func(t *testing.T) {
		set := convert(t, "author: user.profile { name }")
		require.Len(t, set, 1)
		field := set[0].(*gqlast.Field)
		require.Equal(t, "author", field.Name)
		require.Len(t, field.SelectionSet, 1)
		require.Equal(t, "name", field.SelectionSet[0].(*gqlast.Field).Name)
	})

	t.Run("unaliased path flattens into the surrounding set", func(t *testing.T) {
		set := convert(t, "id $.nested { x y }")
		require.Len(t, set, 3)
		require.Equal(t, "id", set[0].(*gqlast.Field).Name)
		require.Equal(t, "x", set[1].(*gqlast.Field).Name)
		require.Equal(t, "y", set[2].(*gqlast.Field).Name)
	})

	t.Run("aliased star becomes a field", func(t *testing.T) {
		set := convert(t, "id rest: *")
		require.Len(t, set, 2)
		require.Equal(t, "rest", set[1].(*gqlast.Field).Name)
	})

	t.Run("unaliased star fails", func(t *testing.T) {
		_, err := SelectionSet(parser.MustParse("id *"))
		require.ErrorIs(t, err, ErrStarSelection)
	})

	t.Run("nested unaliased star fails", func(t *testing.T) {
		_, err := SelectionSet(parser.MustParse("user { id * }"))
		require.ErrorIs(t, err, ErrStarSelection)
	})

	t.Run("path without a subselection has no set", func(t *testing.T) {
		set, err := SelectionSet(parser.MustParse("$.foo"))
		require.NoError(t, err)
		require.Nil(t, set)
	})
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "flat fields",
			source: "a b c",
			want:   "a\nb\nc",
		},
		{
			name:   "nested group",
			source: "f { f2 f3 }",
			want:   "f {\n  f2\n  f3\n}",
		},
		{
			name:   "two levels",
			source: "user { profile { name } active }",
			want:   "user {\n  profile {\n    name\n  }\n  active\n}",
		},
		{
			name:   "mixed flat and nested",
			source: "id user { name }",
			want:   "id\nuser {\n  name\n}",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Format(convert(t, tt.source)))
		})
	}
}

func TestFormatAliasedField(t *testing.T) {
	set := gqlast.SelectionSet{&gqlast.Field{Alias: "out", Name: "source"}}
	require.Equal(t, "out: source", Format(set))
}
