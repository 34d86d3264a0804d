package parser

// TokenType identifies the type of a lexical token.
type TokenType uint8

const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenError

	// Literals and names
	TokenIdent  // fieldName
	TokenString // "hello" or 'hello' (Value holds the decoded text)
	TokenNumber // 123, -3.14 (Value holds the raw text)

	// Symbols
	TokenDollar   // $
	TokenAt       // @
	TokenDot      // .
	TokenArrow    // ->
	TokenComma    // ,
	TokenColon    // :
	TokenStar     // *
	TokenLBrace   // {
	TokenRBrace   // }
	TokenLBracket // [
	TokenRBracket // ]
	TokenLParen   // (
	TokenRParen   // )
)

// String returns a display form of the token type for error messages.
func (tt TokenType) String() string {
	switch tt {
	case TokenEOF:
		return "(eof)"
	case TokenError:
		return "(error)"
	case TokenIdent:
		return "(identifier)"
	case TokenString:
		return "(string)"
	case TokenNumber:
		return "(number)"
	case TokenDollar:
		return "$"
	case TokenAt:
		return "@"
	case TokenDot:
		return "."
	case TokenArrow:
		return "->"
	case TokenComma:
		return ","
	case TokenColon:
		return ":"
	case TokenStar:
		return "*"
	case TokenLBrace:
		return "{"
	case TokenRBrace:
		return "}"
	case TokenLBracket:
		return "["
	case TokenRBracket:
		return "]"
	case TokenLParen:
		return "("
	case TokenRParen:
		return ")"
	}
	return "(unknown)"
}

// Token is a single lexical token with its byte span in the input.
type Token struct {
	Type  TokenType
	Value string // decoded for strings, raw text otherwise
	Start int
	End   int
}
