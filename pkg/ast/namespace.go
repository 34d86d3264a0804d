package ast

// Namespace is one of the reserved $-prefixed variable roots. Which
// namespaces are legal depends on where an expression appears (request
// mapping, response mapping, or a @source directive), not on the expression
// itself.
type Namespace uint8

const (
	NamespaceArgs Namespace = iota
	NamespaceThis
	NamespaceBatch
	NamespaceConfig
	NamespaceContext
	NamespaceStatus
	NamespaceRequest
	NamespaceResponse
)

// Namespaces lists every namespace in declaration order.
var Namespaces = []Namespace{
	NamespaceArgs,
	NamespaceThis,
	NamespaceBatch,
	NamespaceConfig,
	NamespaceContext,
	NamespaceStatus,
	NamespaceRequest,
	NamespaceResponse,
}

// String returns the namespace with its $ prefix, e.g. "$args".
func (n Namespace) String() string {
	switch n {
	case NamespaceArgs:
		return "$args"
	case NamespaceThis:
		return "$this"
	case NamespaceBatch:
		return "$batch"
	case NamespaceConfig:
		return "$config"
	case NamespaceContext:
		return "$context"
	case NamespaceStatus:
		return "$status"
	case NamespaceRequest:
		return "$request"
	case NamespaceResponse:
		return "$response"
	}
	return "$?"
}

// NamespaceFromString resolves a $-prefixed name to a namespace.
func NamespaceFromString(s string) (Namespace, bool) {
	for _, n := range Namespaces {
		if n.String() == s {
			return n, true
		}
	}
	return 0, false
}

// KnownVariable identifies one of the variables a path selection may start
// with: a reserved namespace, the $ binding (the value the enclosing
// selection set was applied to), or @ (the current value).
//
// The textual representation includes the leading $ so that the special @
// variable fits in the same type.
type KnownVariable string

const (
	// VarDollar is the bare $ variable.
	VarDollar KnownVariable = "$"
	// VarAt is the @ variable denoting the current value.
	VarAt KnownVariable = "@"
)

// KnownVariableFromString recognizes "$", "@", and every "$namespace" name.
func KnownVariableFromString(s string) (KnownVariable, bool) {
	if s == string(VarDollar) || s == string(VarAt) {
		return KnownVariable(s), true
	}
	if _, ok := NamespaceFromString(s); ok {
		return KnownVariable(s), true
	}
	return "", false
}

// Namespace returns the namespace for a namespace-rooted variable, or false
// for $ and @.
func (v KnownVariable) Namespace() (Namespace, bool) {
	return NamespaceFromString(string(v))
}

// String returns the variable as written in the source, e.g. "$args" or "@".
func (v KnownVariable) String() string {
	return string(v)
}
