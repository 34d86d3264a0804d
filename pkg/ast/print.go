package ast

import (
	"encoding/json"
	"strings"
)

// String reprints the selection in canonical source form. Spacing and
// comments from the original source are not preserved.
func (s *Selection) String() string {
	var b strings.Builder
	if s.Named != nil {
		writeNaked(&b, s.Named)
	} else if s.Path != nil {
		s.Path.write(&b)
	}
	return b.String()
}

func writeNaked(b *strings.Builder, sub *SubSelection) {
	for i, sel := range sub.Selections {
		if i > 0 {
			b.WriteByte(' ')
		}
		sel.write(b)
	}
	if sub.Star != nil {
		if len(sub.Selections) > 0 {
			b.WriteByte(' ')
		}
		sub.Star.write(b)
	}
}

func (sub *SubSelection) write(b *strings.Builder) {
	b.WriteString("{ ")
	writeNaked(b, sub)
	b.WriteString(" }")
}

// String reprints the subselection with braces.
func (sub *SubSelection) String() string {
	var b strings.Builder
	sub.write(&b)
	return b.String()
}

func (n *NamedSelection) write(b *strings.Builder) {
	if n.Alias != nil {
		b.WriteString(n.Alias.Name.Value)
		b.WriteString(": ")
	}
	switch n.Kind {
	case SelectField:
		b.WriteString(n.Name.Value.Text)
	case SelectQuoted:
		writeQuoted(b, n.Name.Value.Text)
	case SelectPath:
		n.Path.write(b)
		return
	case SelectGroup:
		n.Sub.write(b)
		return
	}
	if n.Sub != nil {
		b.WriteByte(' ')
		n.Sub.write(b)
	}
}

func (star *StarSelection) write(b *strings.Builder) {
	if star.Alias != nil {
		b.WriteString(star.Alias.Name.Value)
		b.WriteString(": ")
	}
	b.WriteByte('*')
	if star.Sub != nil {
		b.WriteByte(' ')
		star.Sub.write(b)
	}
}

func (p *PathSelection) write(b *strings.Builder) {
	first := true
	for pl := p.Path; pl != nil; pl = pl.Tail {
		switch pl.Kind {
		case PathVar:
			b.WriteString(pl.Var.Value.String())
		case PathKey:
			if first {
				// A leading key is written bare; later keys use dot form.
				if pl.Key.Value.Kind == KeyQuoted {
					b.WriteString("$.")
					writeQuoted(b, pl.Key.Value.Text)
				} else {
					b.WriteString(pl.Key.Value.Text)
				}
			} else {
				b.WriteByte('.')
				if pl.Key.Value.Kind == KeyQuoted {
					writeQuoted(b, pl.Key.Value.Text)
				} else {
					b.WriteString(pl.Key.Value.Text)
				}
			}
		case PathMethod:
			b.WriteString("->")
			b.WriteString(pl.Method.Value)
			if pl.Args != nil {
				b.WriteByte('(')
				for i, arg := range pl.Args.Args {
					if i > 0 {
						b.WriteString(", ")
					}
					arg.write(b)
				}
				b.WriteByte(')')
			}
		case PathSub:
			b.WriteByte(' ')
			pl.Sub.write(b)
		case PathEmpty:
		}
		first = false
	}
}

// String reprints the path selection.
func (p *PathSelection) String() string {
	var b strings.Builder
	p.write(&b)
	return b.String()
}

func (lit *LitExpr) write(b *strings.Builder) {
	switch lit.Kind {
	case LitString:
		writeQuoted(b, lit.Str)
	case LitNumber:
		b.WriteString(lit.Number)
	case LitBool:
		if lit.Bool {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case LitNull:
		b.WriteString("null")
	case LitObject:
		b.WriteByte('{')
		for i, field := range lit.Fields {
			if i > 0 {
				b.WriteString(", ")
			}
			if field.Key.Value.Kind == KeyQuoted {
				writeQuoted(b, field.Key.Value.Text)
			} else {
				b.WriteString(field.Key.Value.Text)
			}
			b.WriteString(": ")
			field.Value.write(b)
		}
		b.WriteByte('}')
	case LitArray:
		b.WriteByte('[')
		for i, item := range lit.Items {
			if i > 0 {
				b.WriteString(", ")
			}
			item.write(b)
		}
		b.WriteByte(']')
	case LitPath:
		lit.Path.write(b)
	}
}

// String reprints the literal.
func (lit *LitExpr) String() string {
	var b strings.Builder
	lit.write(&b)
	return b.String()
}

func writeQuoted(b *strings.Builder, s string) {
	quoted, err := json.Marshal(s)
	if err != nil {
		b.WriteString(s)
		return
	}
	b.Write(quoted)
}
