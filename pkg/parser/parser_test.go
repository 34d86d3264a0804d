package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/connectgrid/jsonselection/pkg/ast"
)

func parseSelection(t *testing.T, input string) *ast.Selection {
	t.Helper()
	sel, err := Parse(input)
	require.NoError(t, err, "Parse(%q)", input)
	return sel
}

// TestParseReprint checks the parser through the canonical reprinter: each
// input must parse and print back to the expected canonical form, which in
// turn must reparse to the same form.
func TestParseReprint(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"single field", `a`, `a`},
		{"field list", `a b c`, `a b c`},
		{"aliased field", `first: firstName`, `first: firstName`},
		{"quoted field", `name: "full name"`, `name: "full name"`},
		{"nested sub", `user { id name }`, `user { id name }`},
		{"group", `info: { a b }`, `info: { a b }`},
		{"dollar path", `$.a.b`, `$.a.b`},
		{"implied dollar", `.a.b`, `$.a.b`},
		{"bare key path", `a.b.c`, `a.b.c`},
		{"namespace var", `$args.input.id`, `$args.input.id`},
		{"at var", `@.role`, `@.role`},
		{"aliased path", `id: $.data.id`, `id: $.data.id`},
		{"path with sub", `$.data { id name }`, `$.data { id name }`},
		{"unaliased path with sub", `results.first { id }`, `results.first { id }`},
		{"method no args", `$.items->size`, `$.items->size`},
		{"method empty parens", `$.items->size()`, `$.items->size()`},
		{"method with args", `value->slice(0, 5)`, `value->slice(0, 5)`},
		{"map with at", `messages->map(@.role)`, `messages->map(@.role)`},
		{"negative arg", `items->get(-1)`, `items->get(-1)`},
		{"match pairs", `role->match(["a", 1], [@, 2])`, `role->match(["a", 1], [@, 2])`},
		{"lit object arg", `$->echo({a: 1, b: "x"})`, `$->echo({a: 1, b: "x"})`},
		{"lit literals", `$->echo([true, false, null, 1.5])`, `$->echo([true, false, null, 1.5])`},
		{"star", `*`, `*`},
		{"star with sub", `a * { b }`, `a * { b }`},
		{"aliased star", `id rest: *`, `id rest: *`},
		{"quoted key path", `$."key with spaces".x`, `$."key with spaces".x`},
		{"comments and spacing", "a   # trailing comment\n  b", `a b`},
		{"single quotes", `name: 'x'`, `name: "x"`},
		{"chained methods", `$.a->first->typeof`, `$.a->first->typeof`},
		{"empty selection", ``, ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := parseSelection(t, tt.input)
			got := sel.String()
			require.Equal(t, tt.want, got)

			again := parseSelection(t, got)
			require.Equal(t, got, again.String(), "canonical form must be stable")
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
	}{
		{"unknown variable", `$foo.bar`, "unknown variable $foo"},
		{"lone dot", `.`, ""},
		{"dangling arrow", `key->`, ""},
		{"quoted without alias", `"name"`, ""},
		{"top level braces", `{ a }`, ""},
		{"unterminated string", `name: "oops`, "unterminated string literal"},
		{"unbalanced sub", `a { b`, ""},
		{"stray minus", `a - b`, "unexpected '-'"},
		{"bare key no step", `a .`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			require.Error(t, err, "Parse(%q)", tt.input)
			if tt.message != "" {
				require.ErrorContains(t, err, tt.message)
			}
		})
	}
}

func TestParseStructure(t *testing.T) {
	t.Run("naked selection kinds", func(t *testing.T) {
		sel := parseSelection(t, `id first: name label: "the label" group: { x } path: $.a.b flat.path { y }`)
		require.NotNil(t, sel.Named)
		require.Len(t, sel.Named.Selections, 6)

		kinds := make([]ast.NamedSelectionKind, len(sel.Named.Selections))
		for i, n := range sel.Named.Selections {
			kinds[i] = n.Kind
		}
		require.Equal(t, []ast.NamedSelectionKind{
			ast.SelectField,
			ast.SelectField,
			ast.SelectQuoted,
			ast.SelectGroup,
			ast.SelectPath,
			ast.SelectPath,
		}, kinds)

		require.Equal(t, "id", sel.Named.Selections[0].OutputName())
		require.Equal(t, "first", sel.Named.Selections[1].OutputName())
		require.Equal(t, "label", sel.Named.Selections[2].OutputName())
		require.Equal(t, "group", sel.Named.Selections[3].OutputName())
		require.Equal(t, "path", sel.Named.Selections[4].OutputName())
		// The flattening path form has no output name of its own.
		require.Equal(t, "", sel.Named.Selections[5].OutputName())
	})

	t.Run("path steps", func(t *testing.T) {
		sel := parseSelection(t, `$args.input->slice(1)->size`)
		require.NotNil(t, sel.Path)

		pl := sel.Path.Path
		require.Equal(t, ast.PathVar, pl.Kind)
		require.Equal(t, ast.KnownVariable("$args"), pl.Var.Value)

		pl = pl.Tail
		require.Equal(t, ast.PathKey, pl.Kind)
		require.Equal(t, "input", pl.Key.Value.Text)

		pl = pl.Tail
		require.Equal(t, ast.PathMethod, pl.Kind)
		require.Equal(t, "slice", pl.Method.Value)
		require.NotNil(t, pl.Args)
		require.Len(t, pl.Args.Args, 1)

		pl = pl.Tail
		require.Equal(t, ast.PathMethod, pl.Kind)
		require.Equal(t, "size", pl.Method.Value)
		require.Nil(t, pl.Args)

		require.Equal(t, ast.PathEmpty, pl.Tail.Kind)
	})

	t.Run("ranges are byte offsets", func(t *testing.T) {
		input := `user { id }`
		sel := parseSelection(t, input)
		named := sel.Named.Selections[0]
		require.Equal(t, 0, named.Range.Start)
		require.Equal(t, len(input), named.Range.End)
		require.Equal(t, "user", input[named.Name.Range.Start:named.Name.Range.End])
	})

	t.Run("dollar needs adjacent identifier", func(t *testing.T) {
		// With a space the identifier is not part of the variable, so this
		// parses as $ followed by a field list only in positions where that
		// is grammatical; at top level it fails.
		_, err := Parse(`$ args`)
		require.Error(t, err)
	})
}

func TestExternalVarPaths(t *testing.T) {
	sel := parseSelection(t, `a: $args.user.id b: $this.parent c { d: $config.flags } e: f->echo($context.tenant)`)
	refs := sel.ExternalVarPaths()
	require.Len(t, refs, 4)

	var rendered []string
	for _, ref := range refs {
		rendered = append(rendered, ref.String())
	}
	require.Equal(t, []string{
		"$args.user.id",
		"$this.parent",
		"$config.flags",
		"$context.tenant",
	}, rendered)

	require.Equal(t, ast.NamespaceArgs, refs[0].Namespace.Value)
	require.Equal(t, ast.NamespaceContext, refs[3].Namespace.Value)
}
