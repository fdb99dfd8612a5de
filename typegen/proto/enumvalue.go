package proto

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/teranos/gaspar/errors"
)

// enumValues evaluates the member initializers of an enum the way the C#
// compiler assigns constants: literals, earlier members (bare or qualified
// by the enum name), parentheses and the integer operators used for flag
// sets ("1 << 2", "Read | Write"). Members without an initializer take
// their index.
type enumValues struct {
	enum   string
	values map[string]int64
}

func newEnumValues(enum string) *enumValues {
	return &enumValues{enum: enum, values: make(map[string]int64)}
}

// assign evaluates expr for member and records the result
func (ev *enumValues) assign(member string, index int, expr *string) (int64, error) {
	value := int64(index)
	if expr != nil {
		p := &exprParser{src: strings.TrimSpace(*expr), ev: ev}
		v, err := p.parse()
		if err != nil {
			return 0, errors.Wrapf(err, "enum %s member %s: cannot evaluate %q", ev.enum, member, *expr)
		}
		value = v
	}
	if value < math.MinInt32 || value > math.MaxInt32 {
		return 0, errors.Newf("enum %s member %s: value %d does not fit a proto3 enum (int32)", ev.enum, member, value)
	}
	ev.values[member] = value
	return value, nil
}

type exprParser struct {
	src string
	pos int
	ev  *enumValues
}

func (p *exprParser) parse() (int64, error) {
	v, err := p.binary(0)
	if err != nil {
		return 0, err
	}
	p.skipSpace()
	if p.pos < len(p.src) {
		return 0, errors.Newf("unexpected %q at offset %d", p.src[p.pos:], p.pos)
	}
	return v, nil
}

// binary operators by C# precedence, loosest first
var precedence = [][]string{
	{"|"},
	{"^"},
	{"&"},
	{"<<", ">>"},
	{"+", "-"},
	{"*", "/", "%"},
}

func (p *exprParser) binary(level int) (int64, error) {
	if level == len(precedence) {
		return p.unary()
	}
	left, err := p.binary(level + 1)
	if err != nil {
		return 0, err
	}
	for {
		op := p.operator(precedence[level])
		if op == "" {
			return left, nil
		}
		right, err := p.binary(level + 1)
		if err != nil {
			return 0, err
		}
		if left, err = apply(op, left, right); err != nil {
			return 0, err
		}
	}
}

func apply(op string, l, r int64) (int64, error) {
	switch op {
	case "|":
		return l | r, nil
	case "^":
		return l ^ r, nil
	case "&":
		return l & r, nil
	case "<<":
		if r < 0 || r > 63 {
			return 0, errors.Newf("shift count %d out of range", r)
		}
		return l << uint(r), nil
	case ">>":
		if r < 0 || r > 63 {
			return 0, errors.Newf("shift count %d out of range", r)
		}
		return l >> uint(r), nil
	case "+":
		return l + r, nil
	case "-":
		return l - r, nil
	case "*":
		return l * r, nil
	case "/", "%":
		if r == 0 {
			return 0, errors.New("division by zero")
		}
		if op == "/" {
			return l / r, nil
		}
		return l % r, nil
	}
	return 0, errors.Newf("unknown operator %q", op)
}

// operator consumes one of ops; "|" does not match "||"
func (p *exprParser) operator(ops []string) string {
	p.skipSpace()
	rest := p.src[p.pos:]
	for _, op := range ops {
		if !strings.HasPrefix(rest, op) {
			continue
		}
		next := rest[len(op):]
		if len(op) == 1 && len(next) > 0 && (next[0] == op[0] || next[0] == '=') {
			continue
		}
		p.pos += len(op)
		return op
	}
	return ""
}

func (p *exprParser) unary() (int64, error) {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0, errors.New("unexpected end of expression")
	}
	switch p.src[p.pos] {
	case '-':
		p.pos++
		v, err := p.unary()
		return -v, err
	case '+':
		p.pos++
		return p.unary()
	case '~':
		p.pos++
		v, err := p.unary()
		return ^v, err
	}
	return p.primary()
}

func (p *exprParser) primary() (int64, error) {
	c := rune(p.src[p.pos])
	switch {
	case c == '(':
		p.pos++
		v, err := p.binary(0)
		if err != nil {
			return 0, err
		}
		p.skipSpace()
		if p.pos >= len(p.src) || p.src[p.pos] != ')' {
			return 0, errors.New("missing closing parenthesis")
		}
		p.pos++
		return v, nil
	case unicode.IsDigit(c):
		return p.number()
	case c == '_' || unicode.IsLetter(c) || c == '@':
		return p.reference()
	}
	return 0, errors.Newf("unexpected %q at offset %d", p.src[p.pos:], p.pos)
}

func (p *exprParser) number() (int64, error) {
	start := p.pos
	for p.pos < len(p.src) && isWordByte(p.src[p.pos]) {
		p.pos++
	}
	lit := strings.TrimRight(p.src[start:p.pos], "uUlL")
	v, err := strconv.ParseInt(lit, 0, 64)
	if err != nil {
		u, uerr := strconv.ParseUint(lit, 0, 64)
		if uerr != nil {
			return 0, errors.Wrapf(err, "invalid integer literal %q", p.src[start:p.pos])
		}
		v = int64(u)
	}
	return v, nil
}

// reference resolves an earlier member, "Read" or "Perm.Read"
func (p *exprParser) reference() (int64, error) {
	start := p.pos
	for p.pos < len(p.src) && (isWordByte(p.src[p.pos]) || p.src[p.pos] == '.' || p.src[p.pos] == '@') {
		p.pos++
	}
	name := strings.ReplaceAll(p.src[start:p.pos], "@", "")
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		if qualifier := name[:i]; qualifier != p.ev.enum && !strings.HasSuffix(qualifier, "."+p.ev.enum) {
			return 0, errors.Newf("reference %q is not a member of %s", name, p.ev.enum)
		}
		name = name[i+1:]
	}
	v, ok := p.ev.values[name]
	if !ok {
		return 0, errors.Newf("unknown member %q", name)
	}
	return v, nil
}

func (p *exprParser) skipSpace() {
	for p.pos < len(p.src) && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
}

func isWordByte(b byte) bool {
	return b == '_' || b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}
