// Package ast defines the abstract syntax tree for the JSONSelection
// expression language: the selection grammar used by connector directives to
// map upstream JSON payloads onto GraphQL output shapes.
//
// All nodes are constructed once by the parser from an immutable source
// string and never mutated afterwards, so a parsed selection is safe for
// concurrent use. Every node carries an optional source span (see
// [WithRange]) so evaluators and validators can locate diagnostics.
package ast

// Selection is the top level of the language: either a brace-less list of
// named selections, or a single path selection.
//
//	Selection     ::= NamedSelection* | PathSelection
type Selection struct {
	// Named is non-nil for the naked-subselection form.
	Named *SubSelection
	// Path is non-nil for the path form.
	Path *PathSelection

	// Source is the original expression text the selection was parsed from.
	Source string
}

// IsEmpty reports whether the selection selects nothing at all.
func (s *Selection) IsEmpty() bool {
	if s.Path != nil {
		return false
	}
	return s.Named == nil || (len(s.Named.Selections) == 0 && s.Named.Star == nil)
}

// NextSubSelection returns the selection's output-shaping subselection: the
// naked subselection itself, or the trailing subselection of the path form.
func (s *Selection) NextSubSelection() *SubSelection {
	if s.Named != nil {
		return s.Named
	}
	if s.Path != nil {
		return s.Path.NextSubSelection()
	}
	return nil
}

// SubSelection is an ordered list of named selections, optionally followed by
// a single star selection capturing the remaining keys.
//
//	SubSelection ::= "{" NamedSelection* StarSelection? "}"
type SubSelection struct {
	Selections []*NamedSelection
	Star       *StarSelection
	Range      *Range
}

// NamedSelectionKind tags the variants of NamedSelection.
type NamedSelectionKind uint8

const (
	// SelectField selects a field by bare identifier: `alias? name sub?`.
	SelectField NamedSelectionKind = iota
	// SelectQuoted selects a field by quoted name: `alias: "name" sub?`.
	SelectQuoted
	// SelectPath evaluates a path under an alias: `alias: some.path`.
	SelectPath
	// SelectGroup groups a nested subselection under an alias: `alias: {...}`.
	SelectGroup
)

// NamedSelection is a single entry of a SubSelection. Insertion order is
// semantically significant: it defines the output key order.
type NamedSelection struct {
	Kind  NamedSelectionKind
	Alias *Alias            // required for SelectQuoted/SelectPath/SelectGroup
	Name  WithRange[Key]    // SelectField and SelectQuoted
	Path  *PathSelection    // SelectPath
	Sub   *SubSelection     // nested subselection (required for SelectGroup)
	Range *Range
}

// OutputName returns the key this selection produces in the output object,
// which is the alias when present. SelectPath selections without an alias
// (path-with-subselection) contribute their inner object's keys instead and
// return "".
func (n *NamedSelection) OutputName() string {
	if n.Alias != nil {
		return n.Alias.Name.Value
	}
	if n.Kind == SelectField {
		return n.Name.Value.Text
	}
	return ""
}

// NextSubSelection returns the nested subselection for this entry, chasing
// path selections to their trailing subselection.
func (n *NamedSelection) NextSubSelection() *SubSelection {
	if n.Kind == SelectPath {
		return n.Path.NextSubSelection()
	}
	return n.Sub
}

// StarSelection captures all keys of the current object that were not
// explicitly selected by the surrounding SubSelection.
//
//	StarSelection ::= Alias? "*" SubSelection?
type StarSelection struct {
	Alias *Alias
	Sub   *SubSelection
	Range *Range
}

// Alias renames the output key of a selection.
//
//	Alias ::= Identifier ":"
type Alias struct {
	Name WithRange[string]
}

// PathSelection is a chain of path steps applied left to right.
//
//	PathSelection ::= ("$" Namespace? | "@" | Key) ("." Key | "->" Method)* SubSelection?
type PathSelection struct {
	Path *PathList
}

// NextSubSelection returns the trailing subselection of the path, if any.
func (p *PathSelection) NextSubSelection() *SubSelection {
	for pl := p.Path; pl != nil; pl = pl.Tail {
		if pl.Kind == PathSub {
			return pl.Sub
		}
	}
	return nil
}

// IsSingleKey reports whether the path consists of exactly one key step,
// optionally followed by a subselection.
func (p *PathSelection) IsSingleKey() bool {
	pl := p.Path
	if pl == nil || pl.Kind != PathKey {
		return false
	}
	return pl.Tail == nil || pl.Tail.Kind == PathEmpty || pl.Tail.Kind == PathSub
}

// CollectKeys returns the longest leading run of key steps.
func (p *PathSelection) CollectKeys() []Key {
	var keys []Key
	for pl := p.Path; pl != nil && pl.Kind == PathKey; pl = pl.Tail {
		keys = append(keys, pl.Key.Value)
	}
	return keys
}

// PathKind tags the variants of a PathList step.
type PathKind uint8

const (
	// PathVar starts the chain at a known variable ($, @, or $namespace).
	PathVar PathKind = iota
	// PathKey indexes into the current value by key.
	PathKey
	// PathMethod applies a registered arrow method to the current value.
	PathMethod
	// PathSub ends the chain with a subselection over the current value.
	PathSub
	// PathEmpty ends the chain, yielding the current value unchanged.
	PathEmpty
)

// PathList is one step of a path chain. The chain is a singly-linked, owned
// list terminated by a PathSub or PathEmpty step; it never contains cycles.
type PathList struct {
	Kind PathKind

	Var    WithRange[KnownVariable] // PathVar
	Key    WithRange[Key]           // PathKey
	Method WithRange[string]        // PathMethod
	Args   *MethodArgs              // PathMethod; nil when written without parens
	Sub    *SubSelection            // PathSub

	// Tail is the rest of the chain; nil only for PathSub and PathEmpty.
	Tail *PathList
}

// EmptyPath is the canonical chain terminator.
func EmptyPath() *PathList {
	return &PathList{Kind: PathEmpty}
}

// StepRange returns the source span of the step itself (variable name, key,
// or method name).
func (pl *PathList) StepRange() *Range {
	switch pl.Kind {
	case PathVar:
		return pl.Var.Range
	case PathKey:
		return pl.Key.Range
	case PathMethod:
		return pl.Method.Range
	case PathSub:
		if pl.Sub != nil {
			return pl.Sub.Range
		}
	}
	return nil
}

// Range returns the span covering the whole remaining chain.
func (pl *PathList) Range() *Range {
	r := pl.StepRange()
	for tail := pl.Tail; tail != nil; tail = tail.Tail {
		r = MergeRanges(r, tail.StepRange())
	}
	return r
}

// MethodArgs holds the comma-separated literal arguments of an arrow method.
// A method written without parentheses has a nil *MethodArgs; a method
// written with empty parentheses has a non-nil MethodArgs with no Args.
type MethodArgs struct {
	Args  []*LitExpr
	Range *Range
}
