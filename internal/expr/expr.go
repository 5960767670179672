// Package expr implements a restricted parser and evaluator for closed-form
// expressions of a single time variable t.
//
// The grammar is fixed: floating-point literals, the variable t, the
// constants pi and e, the operators + - * / ^ (with unary minus),
// parentheses, and a whitelisted set of elementary functions. There is no
// general code-evaluation path; every failure mode is an *EvalError naming
// the offending token.
package expr

import (
	"fmt"
	"math"
	"strconv"
)

// MaxSourceLen is the maximum accepted expression length in bytes.
const MaxSourceLen = 1024

// EvalError reports a parse or evaluation failure of a restricted
// expression. Token is the source token that failed, Pos its byte offset.
type EvalError struct {
	Token  string
	Pos    int
	Reason string
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("expr: %s at %q (offset %d)", e.Reason, e.Token, e.Pos)
}

// funcs is the whitelisted elementary function set. domain returns a
// non-empty reason when the argument is outside the function's domain.
var funcs = map[string]struct {
	eval   func(float64) float64
	domain func(float64) string
}{
	"sin":   {eval: math.Sin},
	"cos":   {eval: math.Cos},
	"tan":   {eval: math.Tan},
	"asin":  {eval: math.Asin, domain: rangeCheck(-1, 1)},
	"acos":  {eval: math.Acos, domain: rangeCheck(-1, 1)},
	"atan":  {eval: math.Atan},
	"sinh":  {eval: math.Sinh},
	"cosh":  {eval: math.Cosh},
	"tanh":  {eval: math.Tanh},
	"exp":   {eval: math.Exp},
	"log":   {eval: math.Log, domain: positiveCheck},
	"log10": {eval: math.Log10, domain: positiveCheck},
	"sqrt":  {eval: math.Sqrt, domain: nonNegativeCheck},
	"abs":   {eval: math.Abs},
	"floor": {eval: math.Floor},
	"ceil":  {eval: math.Ceil},
}

func rangeCheck(lo, hi float64) func(float64) string {
	return func(x float64) string {
		if x < lo || x > hi {
			return fmt.Sprintf("argument %g outside [%g, %g]", x, lo, hi)
		}
		return ""
	}
}

func positiveCheck(x float64) string {
	if x <= 0 {
		return fmt.Sprintf("argument %g must be > 0", x)
	}
	return ""
}

func nonNegativeCheck(x float64) string {
	if x < 0 {
		return fmt.Sprintf("argument %g must be >= 0", x)
	}
	return ""
}

// Expr is a compiled expression of the time variable t. Compile once,
// evaluate many times; evaluation is pure and reentrant.
type Expr struct {
	root  node
	nodes int
}

// Parse compiles src into an evaluable expression. maxNodes caps the AST
// size; values <= 0 disable the cap.
func Parse(src string, maxNodes int) (*Expr, error) {
	if len(src) > MaxSourceLen {
		return nil, &EvalError{Token: src[:16] + "...", Pos: 0, Reason: fmt.Sprintf("expression longer than %d bytes", MaxSourceLen)}
	}

	toks, err := lex(src)
	if err != nil {
		return nil, err
	}

	p := &parser{toks: toks, maxNodes: maxNodes}
	root, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if !p.atEOF() {
		t := p.peek()
		return nil, &EvalError{Token: t.text, Pos: t.pos, Reason: "unexpected trailing token"}
	}
	return &Expr{root: root, nodes: p.nodes}, nil
}

// NodeCount returns the number of AST nodes in the compiled expression.
func (e *Expr) NodeCount() int {
	return e.nodes
}

// Eval evaluates the expression at time t. Division by zero, domain errors
// and non-finite results return an *EvalError; the value is only valid when
// the error is nil.
func (e *Expr) Eval(t float64) (float64, error) {
	v, err := e.root.eval(t)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &EvalError{Token: "result", Pos: 0, Reason: fmt.Sprintf("non-finite result at t=%g", t)}
	}
	return v, nil
}

// --- AST ---

type node interface {
	eval(t float64) (float64, error)
}

type numNode struct {
	val float64
}

func (n numNode) eval(float64) (float64, error) { return n.val, nil }

type varNode struct{}

func (varNode) eval(t float64) (float64, error) { return t, nil }

type unaryNode struct {
	op  token
	arg node
}

func (n unaryNode) eval(t float64) (float64, error) {
	v, err := n.arg.eval(t)
	if err != nil {
		return 0, err
	}
	return -v, nil
}

type binaryNode struct {
	op   token
	l, r node
}

func (n binaryNode) eval(t float64) (float64, error) {
	lv, err := n.l.eval(t)
	if err != nil {
		return 0, err
	}
	rv, err := n.r.eval(t)
	if err != nil {
		return 0, err
	}

	switch n.op.text {
	case "+":
		return lv + rv, nil
	case "-":
		return lv - rv, nil
	case "*":
		return lv * rv, nil
	case "/":
		if rv == 0 {
			return 0, &EvalError{Token: "/", Pos: n.op.pos, Reason: fmt.Sprintf("division by zero at t=%g", t)}
		}
		return lv / rv, nil
	case "^":
		v := math.Pow(lv, rv)
		if math.IsNaN(v) {
			return 0, &EvalError{Token: "^", Pos: n.op.pos, Reason: fmt.Sprintf("invalid power %g^%g", lv, rv)}
		}
		return v, nil
	}
	return 0, &EvalError{Token: n.op.text, Pos: n.op.pos, Reason: "unknown operator"}
}

type callNode struct {
	name token
	arg  node
}

func (n callNode) eval(t float64) (float64, error) {
	v, err := n.arg.eval(t)
	if err != nil {
		return 0, err
	}
	f := funcs[n.name.text]
	if f.domain != nil {
		if reason := f.domain(v); reason != "" {
			return 0, &EvalError{Token: n.name.text, Pos: n.name.pos, Reason: reason + fmt.Sprintf(" at t=%g", t)}
		}
	}
	return f.eval(v), nil
}

// --- lexer ---

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokIdent
	tokOp
	tokLParen
	tokRParen
	tokEOF
)

type token struct {
	kind tokenKind
	text string
	pos  int
	val  float64
}

func lex(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c >= '0' && c <= '9' || c == '.':
			start := i
			for i < len(src) && (src[i] >= '0' && src[i] <= '9' || src[i] == '.') {
				i++
			}
			// Exponent suffix: 1e-3, 2.5E+4.
			if i < len(src) && (src[i] == 'e' || src[i] == 'E') {
				j := i + 1
				if j < len(src) && (src[j] == '+' || src[j] == '-') {
					j++
				}
				if j < len(src) && src[j] >= '0' && src[j] <= '9' {
					i = j
					for i < len(src) && src[i] >= '0' && src[i] <= '9' {
						i++
					}
				}
			}
			text := src[start:i]
			v, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, &EvalError{Token: text, Pos: start, Reason: "malformed number"}
			}
			toks = append(toks, token{kind: tokNumber, text: text, pos: start, val: v})
		case c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_':
			start := i
			for i < len(src) && (src[i] >= 'a' && src[i] <= 'z' || src[i] >= 'A' && src[i] <= 'Z' || src[i] >= '0' && src[i] <= '9' || src[i] == '_') {
				i++
			}
			toks = append(toks, token{kind: tokIdent, text: src[start:i], pos: start})
		case c == '+' || c == '-' || c == '*' || c == '/' || c == '^':
			toks = append(toks, token{kind: tokOp, text: string(c), pos: i})
			i++
		case c == '(':
			toks = append(toks, token{kind: tokLParen, text: "(", pos: i})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokRParen, text: ")", pos: i})
			i++
		default:
			return nil, &EvalError{Token: string(c), Pos: i, Reason: "unexpected character"}
		}
	}
	toks = append(toks, token{kind: tokEOF, text: "", pos: len(src)})
	return toks, nil
}

// --- parser (precedence climbing) ---

type parser struct {
	toks     []token
	idx      int
	nodes    int
	maxNodes int
}

func (p *parser) peek() token { return p.toks[p.idx] }

func (p *parser) next() token {
	t := p.toks[p.idx]
	if t.kind != tokEOF {
		p.idx++
	}
	return t
}

func (p *parser) atEOF() bool { return p.peek().kind == tokEOF }

func (p *parser) countNode() error {
	p.nodes++
	if p.maxNodes > 0 && p.nodes > p.maxNodes {
		return &EvalError{Token: "", Pos: 0, Reason: fmt.Sprintf("expression exceeds %d nodes", p.maxNodes)}
	}
	return nil
}

func binaryPrec(op string) int {
	switch op {
	case "+", "-":
		return 1
	case "*", "/":
		return 2
	case "^":
		return 4
	}
	return 0
}

func (p *parser) parseExpr(minPrec int) (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		t := p.peek()
		if t.kind != tokOp {
			return left, nil
		}
		prec := binaryPrec(t.text)
		if prec < minPrec {
			return left, nil
		}
		p.next()

		// ^ is right-associative; the rest left-associative.
		nextMin := prec + 1
		if t.text == "^" {
			nextMin = prec
		}
		right, err := p.parseExpr(nextMin)
		if err != nil {
			return nil, err
		}
		if err := p.countNode(); err != nil {
			return nil, err
		}
		left = binaryNode{op: t, l: left, r: right}
	}
}

func (p *parser) parseUnary() (node, error) {
	t := p.peek()
	if t.kind == tokOp && (t.text == "-" || t.text == "+") {
		p.next()
		// Unary binds looser than ^ so -t^2 means -(t^2).
		arg, err := p.parseExpr(4)
		if err != nil {
			return nil, err
		}
		if t.text == "+" {
			return arg, nil
		}
		if err := p.countNode(); err != nil {
			return nil, err
		}
		return unaryNode{op: t, arg: arg}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (node, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		if err := p.countNode(); err != nil {
			return nil, err
		}
		return numNode{val: t.val}, nil

	case tokIdent:
		switch t.text {
		case "t":
			if err := p.countNode(); err != nil {
				return nil, err
			}
			return varNode{}, nil
		case "pi":
			if err := p.countNode(); err != nil {
				return nil, err
			}
			return numNode{val: math.Pi}, nil
		case "e":
			if err := p.countNode(); err != nil {
				return nil, err
			}
			return numNode{val: math.E}, nil
		}
		if _, ok := funcs[t.text]; ok {
			open := p.next()
			if open.kind != tokLParen {
				return nil, &EvalError{Token: t.text, Pos: t.pos, Reason: "function call requires parentheses"}
			}
			arg, err := p.parseExpr(0)
			if err != nil {
				return nil, err
			}
			closing := p.next()
			if closing.kind != tokRParen {
				return nil, &EvalError{Token: closing.text, Pos: closing.pos, Reason: "missing closing parenthesis"}
			}
			if err := p.countNode(); err != nil {
				return nil, err
			}
			return callNode{name: t, arg: arg}, nil
		}
		return nil, &EvalError{Token: t.text, Pos: t.pos, Reason: "unknown identifier"}

	case tokLParen:
		inner, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		closing := p.next()
		if closing.kind != tokRParen {
			return nil, &EvalError{Token: closing.text, Pos: closing.pos, Reason: "missing closing parenthesis"}
		}
		return inner, nil

	case tokEOF:
		return nil, &EvalError{Token: "", Pos: t.pos, Reason: "unexpected end of expression"}
	}
	return nil, &EvalError{Token: t.text, Pos: t.pos, Reason: "unexpected token"}
}
