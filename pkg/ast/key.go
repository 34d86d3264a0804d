package ast

import "encoding/json"

// KeyKind distinguishes how a key was written in the source.
type KeyKind uint8

const (
	// KeyField is a bare identifier key, e.g. firstName.
	KeyField KeyKind = iota
	// KeyQuoted is a quoted string key, e.g. "first name".
	KeyQuoted
)

// Key is a field name appearing in a selection, either a bare identifier or a
// quoted string. Equality is by the underlying text regardless of quoting
// style, so Key is comparable and usable as a map key.
type Key struct {
	Kind KeyKind
	Text string
}

// FieldKey builds a bare identifier key.
func FieldKey(name string) Key {
	return Key{Kind: KeyField, Text: name}
}

// QuotedKey builds a quoted string key.
func QuotedKey(name string) Key {
	return Key{Kind: KeyQuoted, Text: name}
}

// String returns the raw field/property name, appropriate for accessing JSON
// properties. Contrast with Dotted, which is for display only.
func (k Key) String() string {
	return k.Text
}

// Dotted renders the key with a leading '.' and, for quoted keys, JSON-style
// quoting. The result is for error messages and reprinting, not for property
// access.
func (k Key) Dotted() string {
	if k.Kind == KeyQuoted {
		quoted, err := json.Marshal(k.Text)
		if err != nil {
			return "." + k.Text
		}
		return "." + string(quoted)
	}
	return "." + k.Text
}
