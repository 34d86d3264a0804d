package parser

import (
	"github.com/connectgrid/jsonselection/pkg/ast"
)

// parser walks the token stream with ordered-choice backtracking: each
// grammar function either consumes tokens and succeeds, or leaves the
// position where it found it and fails. The furthest failure is remembered
// so the final error points at the most specific mismatch.
type parser struct {
	tokens   []Token
	pos      int
	inputLen int

	failMsg    string
	failOffset int
}

func (p *parser) atEOF() bool {
	return p.pos >= len(p.tokens)
}

func (p *parser) peek() Token {
	if p.atEOF() {
		return Token{Type: TokenEOF, Start: p.inputLen, End: p.inputLen}
	}
	return p.tokens[p.pos]
}

func (p *parser) next() Token {
	t := p.peek()
	if !p.atEOF() {
		p.pos++
	}
	return t
}

// expect consumes the next token if it has the given type.
func (p *parser) expect(tt TokenType) (Token, bool) {
	if p.peek().Type == tt {
		return p.next(), true
	}
	p.fail("expected " + tt.String())
	return Token{}, false
}

// fail records a mismatch at the current position, keeping the furthest one.
func (p *parser) fail(message string) {
	offset := p.peek().Start
	if offset >= p.failOffset {
		p.failOffset = offset
		p.failMsg = message
	}
}

func (p *parser) parseError() *ParseError {
	msg := p.failMsg
	if msg == "" {
		msg = "invalid selection"
	}
	return &ParseError{Message: msg, Offset: p.failOffset}
}

// NakedSubSelection ::= NamedSelection* StarSelection?
//
// parseNakedSub cannot fail: zero selections is a valid (empty) selection.
func (p *parser) parseNakedSub() (*ast.SubSelection, bool) {
	sub := &ast.SubSelection{}
	for {
		sel, ok := p.parseNamedSelection()
		if !ok {
			break
		}
		sub.Selections = append(sub.Selections, sel)
		sub.Range = ast.MergeRanges(sub.Range, sel.Range)
	}
	if star, ok := p.parseStarSelection(); ok {
		sub.Star = star
		sub.Range = ast.MergeRanges(sub.Range, star.Range)
	}
	return sub, true
}

// SubSelection ::= "{" NakedSubSelection "}"
func (p *parser) parseSubSelection() (*ast.SubSelection, bool) {
	save := p.pos
	open, ok := p.expect(TokenLBrace)
	if !ok {
		return nil, false
	}
	sub, _ := p.parseNakedSub()
	close, ok := p.expect(TokenRBrace)
	if !ok {
		p.pos = save
		return nil, false
	}
	sub.Range = ast.NewRange(open.Start, close.End)
	return sub, true
}

// NamedSelection ::= NamedPathSelection | NamedFieldSelection
//                  | NamedQuotedSelection | NamedGroupSelection
//
// NamedPathSelection is tried first: `alias: some.nested.path` has a prefix
// that also parses as a NamedFieldSelection (`alias: some`), which would
// then choke on the remaining `.nested.path`. Greedily trying the path form
// first resolves the ambiguity without lookahead.
func (p *parser) parseNamedSelection() (*ast.NamedSelection, bool) {
	if sel, ok := p.parseNamedPath(); ok {
		return sel, true
	}
	if sel, ok := p.parseNamedField(); ok {
		return sel, true
	}
	if sel, ok := p.parseNamedQuoted(); ok {
		return sel, true
	}
	if sel, ok := p.parseNamedGroup(); ok {
		return sel, true
	}
	return nil, false
}

// NamedPathSelection ::= Alias PathSelection | PathSelection-with-SubSelection
//
// An unaliased path selection is only legal when it ends in a subselection,
// since it contributes that subselection's keys to the enclosing object.
func (p *parser) parseNamedPath() (*ast.NamedSelection, bool) {
	save := p.pos
	alias := p.parseAlias()
	path, ok := p.parsePathSelection()
	if !ok {
		p.pos = save
		return nil, false
	}
	if alias == nil && path.NextSubSelection() == nil {
		p.fail("path selection without alias must end in a subselection")
		p.pos = save
		return nil, false
	}
	return &ast.NamedSelection{
		Kind:  ast.SelectPath,
		Alias: alias,
		Path:  path,
		Range: namedPathRange(alias, path),
	}, true
}

func namedPathRange(alias *ast.Alias, path *ast.PathSelection) *ast.Range {
	r := path.Path.Range()
	if alias != nil {
		r = ast.MergeRanges(alias.Name.Range, r)
	}
	return r
}

// NamedFieldSelection ::= Alias? Identifier SubSelection?
func (p *parser) parseNamedField() (*ast.NamedSelection, bool) {
	save := p.pos
	alias := p.parseAlias()
	name, ok := p.expect(TokenIdent)
	if !ok {
		p.pos = save
		return nil, false
	}
	sel := &ast.NamedSelection{
		Kind:  ast.SelectField,
		Alias: alias,
		Name:  ast.Ranged(ast.FieldKey(name.Value), name.Start, name.End),
		Range: ast.NewRange(name.Start, name.End),
	}
	if alias != nil {
		sel.Range = ast.MergeRanges(alias.Name.Range, sel.Range)
	}
	if sub, ok := p.parseSubSelection(); ok {
		sel.Sub = sub
		sel.Range = ast.MergeRanges(sel.Range, sub.Range)
	}
	return sel, true
}

// NamedQuotedSelection ::= Alias StringLiteral SubSelection?
func (p *parser) parseNamedQuoted() (*ast.NamedSelection, bool) {
	save := p.pos
	alias := p.parseAlias()
	if alias == nil {
		return nil, false
	}
	name, ok := p.expect(TokenString)
	if !ok {
		p.pos = save
		return nil, false
	}
	sel := &ast.NamedSelection{
		Kind:  ast.SelectQuoted,
		Alias: alias,
		Name:  ast.Ranged(ast.QuotedKey(name.Value), name.Start, name.End),
		Range: ast.MergeRanges(alias.Name.Range, ast.NewRange(name.Start, name.End)),
	}
	if sub, ok := p.parseSubSelection(); ok {
		sel.Sub = sub
		sel.Range = ast.MergeRanges(sel.Range, sub.Range)
	}
	return sel, true
}

// NamedGroupSelection ::= Alias SubSelection
func (p *parser) parseNamedGroup() (*ast.NamedSelection, bool) {
	save := p.pos
	alias := p.parseAlias()
	if alias == nil {
		return nil, false
	}
	sub, ok := p.parseSubSelection()
	if !ok {
		p.pos = save
		return nil, false
	}
	return &ast.NamedSelection{
		Kind:  ast.SelectGroup,
		Alias: alias,
		Sub:   sub,
		Range: ast.MergeRanges(alias.Name.Range, sub.Range),
	}, true
}

// StarSelection ::= Alias? "*" SubSelection?
func (p *parser) parseStarSelection() (*ast.StarSelection, bool) {
	save := p.pos
	alias := p.parseAlias()
	star, ok := p.expect(TokenStar)
	if !ok {
		p.pos = save
		return nil, false
	}
	sel := &ast.StarSelection{
		Alias: alias,
		Range: ast.NewRange(star.Start, star.End),
	}
	if alias != nil {
		sel.Range = ast.MergeRanges(alias.Name.Range, sel.Range)
	}
	if sub, ok := p.parseSubSelection(); ok {
		sel.Sub = sub
		sel.Range = ast.MergeRanges(sel.Range, sub.Range)
	}
	return sel, true
}

// Alias ::= Identifier ":"
func (p *parser) parseAlias() *ast.Alias {
	save := p.pos
	name, ok := p.expect(TokenIdent)
	if !ok {
		return nil
	}
	if _, ok := p.expect(TokenColon); !ok {
		p.pos = save
		return nil
	}
	return &ast.Alias{Name: ast.Ranged(name.Value, name.Start, name.End)}
}

// PathSelection ::= (VarPath | AtPath | KeyPath) SubSelection?
// VarPath       ::= "$" (NO_SPACE Identifier)? PathStep*
// AtPath        ::= "@" PathStep*
// KeyPath       ::= Key PathStep+
// PathStep      ::= "." Key | "->" Identifier MethodArgs?
func (p *parser) parsePathSelection() (*ast.PathSelection, bool) {
	save := p.pos

	if dollar := p.peek(); dollar.Type == TokenDollar {
		p.next()
		name := "$"
		end := dollar.End
		// The namespace identifier must follow the $ with no intervening
		// space: `$args` is a variable, `$ args` is not.
		if ident := p.peek(); ident.Type == TokenIdent && ident.Start == dollar.End {
			p.next()
			name += ident.Value
			end = ident.End
		}
		v, ok := ast.KnownVariableFromString(name)
		if !ok {
			p.fail("unknown variable " + name)
			p.pos = save
			return nil, false
		}
		return &ast.PathSelection{Path: &ast.PathList{
			Kind: ast.PathVar,
			Var:  ast.Ranged(v, dollar.Start, end),
			Tail: p.parsePathSteps(),
		}}, true
	}

	if at := p.peek(); at.Type == TokenAt {
		p.next()
		return &ast.PathSelection{Path: &ast.PathList{
			Kind: ast.PathVar,
			Var:  ast.Ranged(ast.VarAt, at.Start, at.End),
			Tail: p.parsePathSteps(),
		}}, true
	}

	if dot := p.peek(); dot.Type == TokenDot {
		// A leading .key implies $.key.
		tail := p.parsePathSteps()
		if tail.Kind == ast.PathEmpty {
			p.pos = save
			return nil, false
		}
		return &ast.PathSelection{Path: &ast.PathList{
			Kind: ast.PathVar,
			Var:  ast.Ranged(ast.VarDollar, dot.Start, dot.Start),
			Tail: tail,
		}}, true
	}

	if key, ok := p.parseKey(); ok {
		tail := p.parsePathSteps()
		// A path starting with a bare key needs at least one more step;
		// otherwise it is a plain field selection, not a path.
		if tail.Kind == ast.PathEmpty || tail.Kind == ast.PathSub {
			p.fail("path starting with a key requires a following step")
			p.pos = save
			return nil, false
		}
		return &ast.PathSelection{Path: &ast.PathList{
			Kind: ast.PathKey,
			Key:  key,
			Tail: tail,
		}}, true
	}

	p.fail("expected a path selection")
	p.pos = save
	return nil, false
}

// parsePathSteps parses the ("." Key | "->" Method)* SubSelection? suffix of
// a path. It always succeeds, producing a PathEmpty terminator at minimum.
func (p *parser) parsePathSteps() *ast.PathList {
	if p.peek().Type == TokenDot {
		save := p.pos
		p.next()
		if key, ok := p.parseKey(); ok {
			return &ast.PathList{
				Kind: ast.PathKey,
				Key:  key,
				Tail: p.parsePathSteps(),
			}
		}
		p.pos = save
		return ast.EmptyPath()
	}

	if p.peek().Type == TokenArrow {
		save := p.pos
		p.next()
		name, ok := p.expect(TokenIdent)
		if !ok {
			p.pos = save
			return ast.EmptyPath()
		}
		step := &ast.PathList{
			Kind:   ast.PathMethod,
			Method: ast.Ranged(name.Value, name.Start, name.End),
		}
		if args, ok := p.parseMethodArgs(); ok {
			step.Args = args
		}
		step.Tail = p.parsePathSteps()
		return step
	}

	if sub, ok := p.parseSubSelection(); ok {
		return &ast.PathList{Kind: ast.PathSub, Sub: sub}
	}

	return ast.EmptyPath()
}

// Key ::= Identifier | StringLiteral
func (p *parser) parseKey() (ast.WithRange[ast.Key], bool) {
	switch t := p.peek(); t.Type {
	case TokenIdent:
		p.next()
		return ast.Ranged(ast.FieldKey(t.Value), t.Start, t.End), true
	case TokenString:
		p.next()
		return ast.Ranged(ast.QuotedKey(t.Value), t.Start, t.End), true
	}
	p.fail("expected a key")
	return ast.WithRange[ast.Key]{}, false
}

// MethodArgs ::= "(" (LitExpr ("," LitExpr)*)? ")"
func (p *parser) parseMethodArgs() (*ast.MethodArgs, bool) {
	save := p.pos
	open, ok := p.expect(TokenLParen)
	if !ok {
		return nil, false
	}
	args := &ast.MethodArgs{}
	if p.peek().Type != TokenRParen {
		for {
			arg, ok := p.parseLitExpr()
			if !ok {
				p.pos = save
				return nil, false
			}
			args.Args = append(args.Args, arg)
			if p.peek().Type != TokenComma {
				break
			}
			p.next()
		}
	}
	close, ok := p.expect(TokenRParen)
	if !ok {
		p.pos = save
		return nil, false
	}
	args.Range = ast.NewRange(open.Start, close.End)
	return args, true
}

// LitExpr ::= StringLiteral | Number | "true" | "false" | "null"
//           | LitObject | LitArray | PathSelection
func (p *parser) parseLitExpr() (*ast.LitExpr, bool) {
	switch t := p.peek(); t.Type {
	case TokenString:
		p.next()
		return &ast.LitExpr{Kind: ast.LitString, Str: t.Value, Range: ast.NewRange(t.Start, t.End)}, true
	case TokenNumber:
		p.next()
		return &ast.LitExpr{Kind: ast.LitNumber, Number: t.Value, Range: ast.NewRange(t.Start, t.End)}, true
	case TokenIdent:
		switch t.Value {
		case "true", "false":
			p.next()
			return &ast.LitExpr{Kind: ast.LitBool, Bool: t.Value == "true", Range: ast.NewRange(t.Start, t.End)}, true
		case "null":
			p.next()
			return &ast.LitExpr{Kind: ast.LitNull, Range: ast.NewRange(t.Start, t.End)}, true
		}
	case TokenLBrace:
		return p.parseLitObject()
	case TokenLBracket:
		return p.parseLitArray()
	}
	if path, ok := p.parsePathSelection(); ok {
		return &ast.LitExpr{Kind: ast.LitPath, Path: path, Range: path.Path.Range()}, true
	}
	p.fail("expected a literal or path")
	return nil, false
}

// LitObject ::= "{" (Key ":" LitExpr ("," Key ":" LitExpr)*)? "}"
func (p *parser) parseLitObject() (*ast.LitExpr, bool) {
	save := p.pos
	open, ok := p.expect(TokenLBrace)
	if !ok {
		return nil, false
	}
	lit := &ast.LitExpr{Kind: ast.LitObject}
	if p.peek().Type != TokenRBrace {
		for {
			key, ok := p.parseKey()
			if !ok {
				p.pos = save
				return nil, false
			}
			if _, ok := p.expect(TokenColon); !ok {
				p.pos = save
				return nil, false
			}
			value, ok := p.parseLitExpr()
			if !ok {
				p.pos = save
				return nil, false
			}
			lit.Fields = append(lit.Fields, &ast.LitField{Key: key, Value: value})
			if p.peek().Type != TokenComma {
				break
			}
			p.next()
		}
	}
	close, ok := p.expect(TokenRBrace)
	if !ok {
		p.pos = save
		return nil, false
	}
	lit.Range = ast.NewRange(open.Start, close.End)
	return lit, true
}

// LitArray ::= "[" (LitExpr ("," LitExpr)*)? "]"
func (p *parser) parseLitArray() (*ast.LitExpr, bool) {
	save := p.pos
	open, ok := p.expect(TokenLBracket)
	if !ok {
		return nil, false
	}
	lit := &ast.LitExpr{Kind: ast.LitArray}
	if p.peek().Type != TokenRBracket {
		for {
			item, ok := p.parseLitExpr()
			if !ok {
				p.pos = save
				return nil, false
			}
			lit.Items = append(lit.Items, item)
			if p.peek().Type != TokenComma {
				break
			}
			p.next()
		}
	}
	close, ok := p.expect(TokenRBracket)
	if !ok {
		p.pos = save
		return nil, false
	}
	lit.Range = ast.NewRange(open.Start, close.End)
	return lit, true
}
