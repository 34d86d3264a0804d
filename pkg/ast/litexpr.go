package ast

// LitKind tags the variants of LitExpr.
type LitKind uint8

const (
	LitString LitKind = iota
	LitNumber
	LitBool
	LitNull
	LitObject
	LitArray
	LitPath
)

// LitExpr is a JSON-like literal appearing as a method argument. In addition
// to the standard JSON forms, a literal leaf may be a path selection, which
// is evaluated against the method's input value.
//
// Number literals keep their original textual form so no float precision is
// lost before final JSON emission.
type LitExpr struct {
	Kind LitKind

	Str    string      // LitString
	Number string      // LitNumber, raw source text
	Bool   bool        // LitBool
	Fields []*LitField // LitObject, in source order
	Items  []*LitExpr  // LitArray
	Path   *PathSelection

	Range *Range
}

// LitField is one key/value pair of an object literal.
type LitField struct {
	Key   WithRange[Key]
	Value *LitExpr
}
