package symbolic

import (
	"fmt"
	"math/big"
	"strings"
	"unicode"
)

// ============================================================
// Parser
// ============================================================
//
// Grammar (lowest to highest precedence):
//
//	expr  := term (('+' | '-') term)*
//	term  := unary (('*' | '/') unary)*
//	unary := ('+' | '-') unary | power
//	power := atom (('**' | '^') unary)?
//	atom  := number | symbol | '(' expr ')'
//
// Exponentiation is right-associative and binds tighter than unary minus,
// so -x**2 is -(x**2). Exponents must be constant.

// Parse reads text as an expression over the given symbols. Any other
// identifier is rejected.
func Parse(text string, symbols []string) (Expr, error) {
	p := &parser{input: text, symbols: map[string]bool{}}
	for _, s := range symbols {
		p.symbols[s] = true
	}
	if err := p.lex(); err != nil {
		return nil, err
	}
	if len(p.toks) == 1 {
		return nil, p.errorf(0, "empty expression")
	}
	e, err := p.expr()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, p.errorf(t.pos, "unexpected %q", t.text)
	}
	return e, nil
}

// MustParse is Parse for fixed inputs; it panics on error.
func MustParse(text string, symbols []string) Expr {
	e, err := Parse(text, symbols)
	if err != nil {
		panic(err)
	}
	return e
}

type tokKind int

const (
	tokEOF tokKind = iota
	tokNum
	tokIdent
	tokOp
	tokLParen
	tokRParen
)

type token struct {
	kind tokKind
	text string
	pos  int
}

type parser struct {
	input   string
	symbols map[string]bool
	toks    []token
	i       int
}

func (p *parser) errorf(pos int, format string, args ...any) error {
	return &ParseError{Input: p.input, Offset: pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) lex() error {
	s := p.input
	for i := 0; i < len(s); {
		c := rune(s[i])
		switch {
		case unicode.IsSpace(c):
			i++
		case c == '(':
			p.toks = append(p.toks, token{tokLParen, "(", i})
			i++
		case c == ')':
			p.toks = append(p.toks, token{tokRParen, ")", i})
			i++
		case strings.HasPrefix(s[i:], "**"):
			p.toks = append(p.toks, token{tokOp, "^", i})
			i += 2
		case strings.ContainsRune("+-*/^", c):
			p.toks = append(p.toks, token{tokOp, string(c), i})
			i++
		case unicode.IsDigit(c) || c == '.':
			j := scanNumber(s, i)
			if j == i || s[i:j] == "." {
				return p.errorf(i, "malformed number")
			}
			p.toks = append(p.toks, token{tokNum, s[i:j], i})
			i = j
		case unicode.IsLetter(c) || c == '_':
			j := i + 1
			for j < len(s) && (unicode.IsLetter(rune(s[j])) || unicode.IsDigit(rune(s[j])) || s[j] == '_') {
				j++
			}
			p.toks = append(p.toks, token{tokIdent, s[i:j], i})
			i = j
		default:
			return p.errorf(i, "unexpected character %q", c)
		}
	}
	p.toks = append(p.toks, token{tokEOF, "", len(s)})
	return nil
}

// scanNumber returns the end of the numeric literal starting at i:
// digits, an optional fraction and an optional exponent.
func scanNumber(s string, i int) int {
	j := i
	for j < len(s) && isDigit(s[j]) {
		j++
	}
	if j < len(s) && s[j] == '.' {
		j++
		for j < len(s) && isDigit(s[j]) {
			j++
		}
	}
	if j < len(s) && (s[j] == 'e' || s[j] == 'E') {
		k := j + 1
		if k < len(s) && (s[k] == '+' || s[k] == '-') {
			k++
		}
		if k < len(s) && isDigit(s[k]) {
			for k < len(s) && isDigit(s[k]) {
				k++
			}
			j = k
		}
	}
	return j
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func (p *parser) peek() token { return p.toks[p.i] }

func (p *parser) next() token {
	t := p.toks[p.i]
	if t.kind != tokEOF {
		p.i++
	}
	return t
}

func (p *parser) acceptOp(ops string) (token, bool) {
	t := p.peek()
	if t.kind == tokOp && strings.Contains(ops, t.text) {
		p.i++
		return t, true
	}
	return t, false
}

func (p *parser) expr() (Expr, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.acceptOp("+-")
		if !ok {
			return left, nil
		}
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		if op.text == "+" {
			left = AddOf(left, right)
		} else {
			left = SubOf(left, right)
		}
	}
}

func (p *parser) term() (Expr, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.acceptOp("*/")
		if !ok {
			return left, nil
		}
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		if op.text == "*" {
			left = MulOf(left, right)
			continue
		}
		if v, ok := right.Eval(); ok && v.IsZero() {
			return nil, p.errorf(op.pos, "division by zero")
		}
		left = QuoOf(left, right)
	}
}

func (p *parser) unary() (Expr, error) {
	if op, ok := p.acceptOp("+-"); ok {
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		if op.text == "-" {
			return MulOf(N(-1), operand), nil
		}
		return operand, nil
	}
	return p.power()
}

func (p *parser) power() (Expr, error) {
	base, err := p.atom()
	if err != nil {
		return nil, err
	}
	op, ok := p.acceptOp("^")
	if !ok {
		return base, nil
	}
	exp, err := p.unary()
	if err != nil {
		return nil, err
	}
	ev, ok := exp.Eval()
	if !ok {
		return nil, p.errorf(op.pos, "exponent %s is not constant", exp)
	}
	if b, isNum := base.Eval(); isNum && b.IsZero() && ev.IsNegative() {
		return nil, p.errorf(op.pos, "division by zero")
	}
	return PowOf(base, ev), nil
}

func (p *parser) atom() (Expr, error) {
	t := p.next()
	switch t.kind {
	case tokNum:
		r, ok := new(big.Rat).SetString(t.text)
		if !ok {
			return nil, p.errorf(t.pos, "malformed number %q", t.text)
		}
		return &Num{val: r}, nil
	case tokIdent:
		if !p.symbols[t.text] {
			return nil, p.errorf(t.pos, "unknown symbol %q", t.text)
		}
		return S(t.text), nil
	case tokLParen:
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		if c := p.next(); c.kind != tokRParen {
			return nil, p.errorf(c.pos, "expected ')'")
		}
		return e, nil
	case tokEOF:
		return nil, p.errorf(t.pos, "unexpected end of input")
	}
	return nil, p.errorf(t.pos, "unexpected %q", t.text)
}
