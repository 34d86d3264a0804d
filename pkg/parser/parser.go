// Package parser implements the JSONSelection expression parser.
//
// The parser is a hand-written recursive descent parser with ordered-choice
// backtracking: alternatives are tried in a fixed order and the first
// successful alternative wins. Whitespace and #-comments may appear wherever
// token boundaries are legal. Every AST node produced carries its byte-offset
// span in the original input.
//
// # Example
//
//	sel, err := parser.Parse("messages->map(@.role)")
//	if err != nil {
//	    log.Fatal(err)
//	}
package parser

import (
	"fmt"

	"github.com/connectgrid/jsonselection/pkg/ast"
)

// ParseError reports the first irrecoverable mismatch encountered while
// parsing, with its byte offset into the input.
type ParseError struct {
	Message string
	Offset  int
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at offset %d: %s", e.Offset, e.Message)
}

// Parse parses a complete JSONSelection expression. The whole input must be
// consumed; trailing content is an error.
func Parse(input string) (*ast.Selection, error) {
	tokens, lexErr := Tokenize(input)
	if lexErr != nil {
		return nil, lexErr
	}
	p := &parser{tokens: tokens, inputLen: len(input)}

	// Ordered choice: a naked list of named selections first, then a single
	// path selection. Ties are not re-explored.
	if sub, ok := p.parseNakedSub(); ok && p.atEOF() {
		return &ast.Selection{Named: sub, Source: input}, nil
	}
	p.pos = 0
	if path, ok := p.parsePathSelection(); ok && p.atEOF() {
		return &ast.Selection{Path: path, Source: input}, nil
	}
	return nil, p.parseError()
}

// MustParse is like Parse but panics on malformed input. It simplifies safe
// initialization of fixtures and global variables.
func MustParse(input string) *ast.Selection {
	sel, err := Parse(input)
	if err != nil {
		panic(fmt.Sprintf("parser: Parse(%q): %v", input, err))
	}
	return sel
}
