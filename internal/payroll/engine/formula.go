package engine

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Expr is a compiled salary formula. Formulas are parsed once when the
// catalog is built and evaluated per payroll run against the results map
// (already evaluated components) with the raw inputs as fallback.
//
// Grammar: numeric literals, bracketed references like [BASE_SALARY],
// + - * / and parentheses with the usual precedence. Eval never rounds;
// rounding happens at the statutory consumption points.
type Expr interface {
	// Eval resolves the expression. Resolution checks results first,
	// then inputs; an unresolved name is an error, never a silent zero.
	Eval(results Results, inputs Inputs) (decimal.Decimal, error)

	// refs appends every referenced name, used for catalog validation.
	refs(names []string) []string
}

type literalExpr struct {
	value decimal.Decimal
}

func (e literalExpr) Eval(Results, Inputs) (decimal.Decimal, error) {
	return e.value, nil
}

func (e literalExpr) refs(names []string) []string { return names }

type refExpr struct {
	name string
}

func (e refExpr) Eval(results Results, inputs Inputs) (decimal.Decimal, error) {
	if v, ok := results[e.name]; ok {
		return v, nil
	}
	if v, ok := inputs[e.name]; ok {
		return v, nil
	}
	return decimal.Zero, &UnknownReferenceError{Name: e.name}
}

func (e refExpr) refs(names []string) []string { return append(names, e.name) }

type binaryExpr struct {
	op    byte
	left  Expr
	right Expr
}

func (e binaryExpr) Eval(results Results, inputs Inputs) (decimal.Decimal, error) {
	left, err := e.left.Eval(results, inputs)
	if err != nil {
		return decimal.Zero, err
	}
	right, err := e.right.Eval(results, inputs)
	if err != nil {
		return decimal.Zero, err
	}

	switch e.op {
	case '+':
		return left.Add(right), nil
	case '-':
		return left.Sub(right), nil
	case '*':
		return left.Mul(right), nil
	case '/':
		if right.IsZero() {
			return decimal.Zero, ErrDivisionByZero
		}
		return left.Div(right), nil
	}
	return decimal.Zero, fmt.Errorf("unsupported operator %q", e.op)
}

func (e binaryExpr) refs(names []string) []string {
	return e.right.refs(e.left.refs(names))
}

// ExprRefs lists every [NAME] referenced by a compiled formula.
func ExprRefs(expr Expr) []string {
	return expr.refs(nil)
}

// ParseFormula compiles a formula string into an expression tree.
func ParseFormula(formula string) (Expr, error) {
	p := &formulaParser{src: formula}
	expr, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, fmt.Errorf("unexpected %q at position %d", p.src[p.pos], p.pos)
	}
	return expr, nil
}

type formulaParser struct {
	src string
	pos int
}

func (p *formulaParser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *formulaParser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

// parseSum handles + and - (lowest precedence).
func (p *formulaParser) parseSum() (Expr, error) {
	left, err := p.parseProduct()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek()
		if op != '+' && op != '-' {
			return left, nil
		}
		p.pos++
		right, err := p.parseProduct()
		if err != nil {
			return nil, err
		}
		left = binaryExpr{op: op, left: left, right: right}
	}
}

// parseProduct handles * and /.
func (p *formulaParser) parseProduct() (Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek()
		if op != '*' && op != '/' {
			return left, nil
		}
		p.pos++
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = binaryExpr{op: op, left: left, right: right}
	}
}

func (p *formulaParser) parseTerm() (Expr, error) {
	switch c := p.peek(); {
	case c == '(':
		p.pos++
		expr, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		if p.peek() != ')' {
			return nil, fmt.Errorf("missing closing parenthesis at position %d", p.pos)
		}
		p.pos++
		return expr, nil

	case c == '[':
		return p.parseRef()

	case c == '-':
		// unary minus, e.g. -1 * [PENALTY]
		p.pos++
		term, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		return binaryExpr{op: '-', left: literalExpr{value: decimal.Zero}, right: term}, nil

	case c >= '0' && c <= '9' || c == '.':
		return p.parseNumber()

	case c == 0:
		return nil, fmt.Errorf("unexpected end of formula")

	default:
		return nil, fmt.Errorf("unexpected %q at position %d", c, p.pos)
	}
}

func (p *formulaParser) parseRef() (Expr, error) {
	p.pos++ // consume '['
	end := strings.IndexByte(p.src[p.pos:], ']')
	if end < 0 {
		return nil, fmt.Errorf("missing closing bracket at position %d", p.pos)
	}
	name := strings.TrimSpace(p.src[p.pos : p.pos+end])
	p.pos += end + 1
	if name == "" {
		return nil, fmt.Errorf("empty reference at position %d", p.pos)
	}
	for _, r := range name {
		if !unicode.IsUpper(r) && !unicode.IsDigit(r) && r != '_' {
			return nil, fmt.Errorf("invalid reference name %q", name)
		}
	}
	return refExpr{name: name}, nil
}

func (p *formulaParser) parseNumber() (Expr, error) {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if (c < '0' || c > '9') && c != '.' && c != '_' {
			break
		}
		p.pos++
	}
	raw := strings.ReplaceAll(p.src[start:p.pos], "_", "")
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q at position %d", raw, start)
	}
	return literalExpr{value: value}, nil
}
