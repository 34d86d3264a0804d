package evaluator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/connectgrid/jsonselection/pkg/jsondata"
	"github.com/connectgrid/jsonselection/pkg/parser"
)

// applyJSON parses and applies a selection to JSON input, returning the
// marshaled output. Key order in the output is significant, so expectations
// compare exact JSON text.
func applyJSON(t *testing.T, source, input string) (string, bool, []ApplyToError) {
	t.Helper()
	sel := parser.MustParse(source)
	value, ok, errs := ApplyTo(sel, jsondata.MustDecode(input))
	if !ok {
		return "", false, errs
	}
	out, err := jsondata.Marshal(value)
	require.NoError(t, err)
	return string(out), true, errs
}

func TestApplyBasicSelections(t *testing.T) {
	tests := []struct {
		name   string
		source string
		input  string
		want   string
	}{
		{
			"fields in selection order",
			`name id`,
			`{"id": 1, "name": "alice"}`,
			`{"name":"alice","id":1}`,
		},
		{
			"alias and quoted",
			`first: firstName label: "the label"`,
			`{"firstName": "A", "the label": true}`,
			`{"first":"A","label":true}`,
		},
		{
			"nested subselection",
			`user { id name }`,
			`{"user": {"name": "bob", "id": 2, "extra": null}}`,
			`{"user":{"id":2,"name":"bob"}}`,
		},
		{
			"group selection",
			`wrapped: { id }`,
			`{"id": 3}`,
			`{"wrapped":{"id":3}}`,
		},
		{
			"aliased path",
			`id: $.data.id`,
			`{"data": {"id": 4}}`,
			`{"id":4}`,
		},
		{
			"unaliased path merges object",
			`id details.info { color }`,
			`{"id": 5, "details": {"info": {"color": "red", "size": 2}}}`,
			`{"id":5,"color":"red"}`,
		},
		{
			"top level path yields value",
			`$.value`,
			`{"value": 42}`,
			`42`,
		},
		{
			"literal echo of input",
			`$.data->echo({wrapped: @})`,
			`{"data": 7}`,
			`{"wrapped":7}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, errs := applyJSON(t, tt.source, tt.input)
			require.Empty(t, errs)
			require.True(t, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestApplyArrayMapping(t *testing.T) {
	t.Run("selection maps over arrays", func(t *testing.T) {
		got, ok, errs := applyJSON(t, `id`, `[{"id": 1}, {"id": 2}]`)
		require.Empty(t, errs)
		require.True(t, ok)
		require.Equal(t, `[{"id":1},{"id":2}]`, got)
	})

	t.Run("failing elements become null-ish with indexed error paths", func(t *testing.T) {
		got, ok, errs := applyJSON(t, `role`, `[{"role": "a"}, {"other": 1}, {"role": "b"}]`)
		require.True(t, ok)
		require.Equal(t, `[{"role":"a"},{},{"role":"b"}]`, got)
		require.Len(t, errs, 1)
		require.Equal(t, "Property .role not found in object", errs[0].Message)
		require.Equal(t, []any{1, "role"}, errs[0].Path)
	})

	t.Run("key step maps over nested arrays", func(t *testing.T) {
		got, ok, errs := applyJSON(t, `names: $.users.name`, `{"users": [{"name": "x"}, {"name": "y"}]}`)
		require.Empty(t, errs)
		require.True(t, ok)
		require.Equal(t, `{"names":["x","y"]}`, got)
	})
}

func TestApplyStarSelection(t *testing.T) {
	tests := []struct {
		name   string
		source string
		input  string
		want   string
	}{
		{
			"unaliased star captures leftovers in place",
			`id *`,
			`{"id": 1, "a": 2, "b": 3}`,
			`{"id":1,"a":2,"b":3}`,
		},
		{
			"aliased star groups leftovers",
			`id rest: *`,
			`{"id": 1, "a": 2, "b": 3}`,
			`{"id":1,"rest":{"a":2,"b":3}}`,
		},
		{
			"star excludes keys read by bare paths",
			`v: a.x rest: *`,
			`{"a": {"x": 1}, "b": 2}`,
			`{"v":1,"rest":{"b":2}}`,
		},
		{
			"star subselection reshapes each leftover",
			`id * { v }`,
			`{"id": 1, "a": {"v": 10, "w": 11}, "b": {"v": 20}}`,
			`{"id":1,"a":{"v":10},"b":{"v":20}}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, errs := applyJSON(t, tt.source, tt.input)
			require.Empty(t, errs)
			require.True(t, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestApplyPathErrors(t *testing.T) {
	t.Run("missing property", func(t *testing.T) {
		_, ok, errs := applyJSON(t, `$.a.missing`, `{"a": {"b": 1}}`)
		require.False(t, ok)
		require.Len(t, errs, 1)
		require.Equal(t, `Property .missing not found in object`, errs[0].Message)
		require.Equal(t, []any{"a", "missing"}, errs[0].Path)
		require.NotNil(t, errs[0].Range)
	})

	t.Run("property access on scalar", func(t *testing.T) {
		_, ok, errs := applyJSON(t, `$.a.b`, `{"a": 5}`)
		require.False(t, ok)
		require.Len(t, errs, 1)
		require.Equal(t, `Property .b not found in number`, errs[0].Message)
	})

	t.Run("unaliased path producing a scalar", func(t *testing.T) {
		got, _, errs := applyJSON(t, `id $.a { x }`, `{"id": 1, "a": 5}`)
		require.Equal(t, `{"id":1}`, got)
		require.Len(t, errs, 2)
		require.Equal(t, "Property .x not found in number", errs[0].Message)
		require.Equal(t, "Expected an object, not a number", errs[1].Message)
	})

	t.Run("unaliased path producing nothing", func(t *testing.T) {
		_, _, errs := applyJSON(t, `$.missing { x }`, `{"present": 1}`)
		require.Len(t, errs, 2)
		require.Equal(t, "Property .missing not found in object", errs[0].Message)
		require.Equal(t, "Expected an object, not nothing (see other errors)", errs[1].Message)
	})

	t.Run("unknown method", func(t *testing.T) {
		_, ok, errs := applyJSON(t, `$.a->frobnicate`, `{"a": 1}`)
		require.False(t, ok)
		require.Len(t, errs, 1)
		require.Equal(t, "Method ->frobnicate not found", errs[0].Message)
	})

	t.Run("identical errors are deduplicated", func(t *testing.T) {
		// The star subselection fails identically for both leftover keys,
		// producing one deduplicated error.
		got, _, errs := applyJSON(t, `id * { v }`, `{"id": 1, "a": {"w": 1}, "b": {"w": 2}}`)
		require.Equal(t, `{"id":1,"a":{},"b":{}}`, got)
		require.Len(t, errs, 1)
		require.Equal(t, "Property .v not found in object", errs[0].Message)
	})
}

func TestApplyVariables(t *testing.T) {
	sel := parser.MustParse(`id: $args.input.id tenant: $config.tenant`)
	vars := map[string]any{
		"$args":   jsondata.MustDecode(`{"input": {"id": 9}}`),
		"$config": jsondata.MustDecode(`{"tenant": "acme"}`),
	}
	value, ok, errs := ApplyWithVars(sel, jsondata.MustDecode(`{}`), vars)
	require.True(t, ok)
	require.Empty(t, errs)
	out, err := jsondata.Marshal(value)
	require.NoError(t, err)
	require.Equal(t, `{"id":9,"tenant":"acme"}`, string(out))

	t.Run("unbound variable", func(t *testing.T) {
		sel := parser.MustParse(`s: $status`)
		_, _, errs := ApplyWithVars(sel, jsondata.MustDecode(`{}`), nil)
		require.Len(t, errs, 1)
		require.Equal(t, "Variable $status not found", errs[0].Message)
	})

	t.Run("unknown variable name in bindings", func(t *testing.T) {
		sel := parser.MustParse(`id`)
		_, _, errs := ApplyWithVars(sel, jsondata.MustDecode(`{"id": 1}`), map[string]any{
			"$nope": true,
		})
		require.Len(t, errs, 1)
		require.Equal(t, "Unknown variable $nope", errs[0].Message)
	})
}

func TestApplyDollarRebinding(t *testing.T) {
	t.Run("bare key paths read from the rebound dollar", func(t *testing.T) {
		got, ok, errs := applyJSON(t,
			`obj { both: a->and(b.c) }`,
			`{"obj": {"a": true, "b": {"c": 1}}}`,
		)
		require.Empty(t, errs)
		require.True(t, ok)
		require.Equal(t, `{"obj":{"both":true}}`, got)
	})

	t.Run("dollar refers to the enclosing subselection input", func(t *testing.T) {
		got, ok, errs := applyJSON(t,
			`nested { self: $.id }`,
			`{"id": "outer", "nested": {"id": "inner"}}`,
		)
		require.Empty(t, errs)
		require.True(t, ok)
		require.Equal(t, `{"nested":{"self":"inner"}}`, got)
	})
}

func TestApplyPrimitivePassthrough(t *testing.T) {
	// A subselection over a primitive with no output keys leaves the
	// primitive unchanged, so mapping selections can be applied uniformly
	// over heterogeneous arrays.
	got, ok, errs := applyJSON(t, `$.items { id }`, `{"items": [{"id": 1}, "loose", {"id": 2}]}`)
	require.True(t, ok)
	require.Equal(t, `[{"id":1},"loose",{"id":2}]`, got)
	require.Len(t, errs, 1)
	require.Equal(t, "Property .id not found in string", errs[0].Message)
	require.Equal(t, []any{"items", 1, "id"}, errs[0].Path)
}

func TestInputPath(t *testing.T) {
	p := EmptyPath().Append("a").Append(1).Append("b")
	require.Equal(t, []any{"a", 1, "b"}, p.Slice())
	require.Nil(t, EmptyPath().Slice())

	// Appending never mutates the receiver.
	base := EmptyPath().Append("x")
	left := base.Append("l")
	right := base.Append("r")
	require.Equal(t, []any{"x", "l"}, left.Slice())
	require.Equal(t, []any{"x", "r"}, right.Slice())
}
