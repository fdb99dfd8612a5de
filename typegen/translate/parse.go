// Package translate turns C# type expressions into target-language type
// expressions. Translation is purely syntactic: nothing is resolved.
package translate

import (
	"strings"
	"unicode"

	"github.com/teranos/gaspar/errors"
)

// Expr is a parsed type expression. Exactly one of Name and Elem is set:
// Elem marks an array of Elem.
type Expr struct {
	Name     string
	Args     []*Expr
	Elem     *Expr
	Nullable bool
}

// Simple reports whether the expression is a bare identifier
func (e *Expr) Simple() bool {
	return e.Elem == nil && len(e.Args) == 0 && !e.Nullable
}

// NonNullable returns a copy without the top-level nullable marker
func (e *Expr) NonNullable() *Expr {
	c := *e
	c.Nullable = false
	return &c
}

// String renders the expression in canonical form: "Dictionary<string, int>?".
func (e *Expr) String() string {
	var b strings.Builder
	e.write(&b)
	return b.String()
}

func (e *Expr) write(b *strings.Builder) {
	if e.Elem != nil {
		e.Elem.write(b)
		b.WriteString("[]")
	} else {
		b.WriteString(e.Name)
		if len(e.Args) > 0 {
			b.WriteByte('<')
			for i, a := range e.Args {
				if i > 0 {
					b.WriteString(", ")
				}
				a.write(b)
			}
			b.WriteByte('>')
		}
	}
	if e.Nullable {
		b.WriteByte('?')
	}
}

// Parse parses `Name ('<' Expr (',' Expr)* '>')? '?'? ('[]' '?'?)*`.
// Generic arguments split at top-level commas only.
func Parse(s string) (*Expr, error) {
	p := &parser{src: s}
	e, err := p.expr()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, errors.Newf("unexpected %q at offset %d in type %q", p.src[p.pos:], p.pos, s)
	}
	return e, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t' || p.src[p.pos] == '\n' || p.src[p.pos] == '\r') {
		p.pos++
	}
}

func (p *parser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) expr() (*Expr, error) {
	name, err := p.name()
	if err != nil {
		return nil, err
	}
	e := &Expr{Name: name}

	if p.peek() == '<' {
		p.pos++
		for {
			arg, err := p.expr()
			if err != nil {
				return nil, err
			}
			e.Args = append(e.Args, arg)

			switch p.peek() {
			case ',':
				p.pos++
				continue
			case '>':
				p.pos++
			default:
				return nil, errors.Newf("expected ',' or '>' at offset %d in type %q", p.pos, p.src)
			}
			break
		}
	}

	if p.peek() == '?' {
		p.pos++
		e.Nullable = true
	}

	for p.peek() == '[' {
		p.pos++
		if p.peek() != ']' {
			return nil, errors.Newf("expected ']' at offset %d in type %q", p.pos, p.src)
		}
		p.pos++
		e = &Expr{Elem: e}
		if p.peek() == '?' {
			p.pos++
			e.Nullable = true
		}
	}

	return e, nil
}

// name reads a possibly qualified identifier: System.Collections.Generic.List
func (p *parser) name() (string, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) {
		r := rune(p.src[p.pos])
		if r == '_' || r == '.' || r == '@' || unicode.IsLetter(r) || unicode.IsDigit(r) || r >= 0x80 {
			p.pos++
			continue
		}
		break
	}
	if start == p.pos {
		if p.pos >= len(p.src) {
			return "", errors.Newf("unexpected end of type %q", p.src)
		}
		return "", errors.Newf("unexpected %q at offset %d in type %q", p.src[p.pos], p.pos, p.src)
	}
	name := strings.TrimPrefix(p.src[start:p.pos], "@")
	if strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".") {
		return "", errors.Newf("malformed name %q in type %q", name, p.src)
	}
	return name, nil
}
