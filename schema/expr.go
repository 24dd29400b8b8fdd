package schema

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// SyntaxError reports a malformed type expression.
type SyntaxError struct {
	Expr string
	Pos  int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at offset %d in %q: %s", e.Pos, e.Expr, e.Msg)
}

type expr interface {
	isExpr()
}

type (
	nameExpr struct {
		name string
	}
	literalExpr struct {
		value any
	}
	arrayExpr struct {
		elem expr
	}
	unionExpr struct {
		members []expr
	}
	tupleExpr struct {
		elems []tupleElem
	}
	genericExpr struct {
		name string
		args []expr
	}
)

type tupleElem struct {
	name string
	rest bool
	typ  expr
}

func (nameExpr) isExpr()    {}
func (literalExpr) isExpr() {}
func (arrayExpr) isExpr()   {}
func (unionExpr) isExpr()   {}
func (tupleExpr) isExpr()   {}
func (genericExpr) isExpr() {}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokString
	tokNumber
	tokPunct
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

type parser struct {
	src  string
	toks []token
	i    int
}

// parseExpr parses a type expression.
func parseExpr(src string) (expr, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}

	p := &parser{src: src, toks: toks}

	e, err := p.union()
	if err != nil {
		return nil, err
	}

	if t := p.peek(); t.kind != tokEOF {
		return nil, p.errorf(t, "unexpected %q", t.text)
	}

	return e, nil
}

func lex(src string) ([]token, error) {
	var toks []token

	for i := 0; i < len(src); {
		c := rune(src[i])

		switch {
		case unicode.IsSpace(c):
			i++

		case strings.HasPrefix(src[i:], "..."):
			toks = append(toks, token{kind: tokPunct, text: "...", pos: i})
			i += 3

		case strings.ContainsRune("|[]()<>,:", c):
			toks = append(toks, token{kind: tokPunct, text: string(c), pos: i})
			i++

		case c == '\'' || c == '"':
			end := strings.IndexRune(src[i+1:], c)
			if end < 0 {
				return nil, &SyntaxError{Expr: src, Pos: i, Msg: "unterminated string literal"}
			}

			toks = append(toks, token{kind: tokString, text: src[i+1 : i+1+end], pos: i})
			i += end + 2

		case c == '-' || c == '.' || unicode.IsDigit(c):
			j := i + 1
			for j < len(src) && strings.ContainsRune("0123456789.eE+-", rune(src[j])) {
				j++
			}

			toks = append(toks, token{kind: tokNumber, text: src[i:j], pos: i})
			i = j

		case c == '_' || unicode.IsLetter(c):
			j := i + 1
			for j < len(src) && (src[j] == '_' || src[j] == '.' || unicode.IsLetter(rune(src[j])) || unicode.IsDigit(rune(src[j]))) {
				j++
			}

			toks = append(toks, token{kind: tokIdent, text: src[i:j], pos: i})
			i = j

		default:
			return nil, &SyntaxError{Expr: src, Pos: i, Msg: fmt.Sprintf("unexpected character %q", c)}
		}
	}

	return append(toks, token{kind: tokEOF, pos: len(src)}), nil
}

func (p *parser) peek() token {
	return p.toks[p.i]
}

func (p *parser) peekAt(n int) token {
	if p.i+n < len(p.toks) {
		return p.toks[p.i+n]
	}

	return p.toks[len(p.toks)-1]
}

func (p *parser) next() token {
	t := p.toks[p.i]
	if t.kind != tokEOF {
		p.i++
	}

	return t
}

func (p *parser) is(text string) bool {
	t := p.peek()
	return t.kind == tokPunct && t.text == text
}

func (p *parser) expect(text string) error {
	if t := p.next(); t.kind != tokPunct || t.text != text {
		return p.errorf(t, "expected %q", text)
	}

	return nil
}

func (p *parser) errorf(t token, format string, args ...any) error {
	return &SyntaxError{Expr: p.src, Pos: t.pos, Msg: fmt.Sprintf(format, args...)}
}

// union := postfix ('|' postfix)*
func (p *parser) union() (expr, error) {
	first, err := p.postfix()
	if err != nil {
		return nil, err
	}

	if !p.is("|") {
		return first, nil
	}

	u := unionExpr{members: []expr{first}}

	for p.is("|") {
		p.next()

		m, err := p.postfix()
		if err != nil {
			return nil, err
		}

		u.members = append(u.members, m)
	}

	return u, nil
}

// postfix := primary ('[' ']')*
func (p *parser) postfix() (expr, error) {
	e, err := p.primary()
	if err != nil {
		return nil, err
	}

	for p.is("[") && p.peekAt(1).kind == tokPunct && p.peekAt(1).text == "]" {
		p.next()
		p.next()

		e = arrayExpr{elem: e}
	}

	return e, nil
}

func (p *parser) primary() (expr, error) {
	t := p.next()

	switch t.kind {
	case tokString:
		return literalExpr{value: t.text}, nil

	case tokNumber:
		f, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return nil, p.errorf(t, "invalid number %q", t.text)
		}

		return literalExpr{value: f}, nil

	case tokIdent:
		switch t.text {
		case "true", "false":
			return literalExpr{value: t.text == "true"}, nil
		case "null":
			return literalExpr{value: nil}, nil
		}

		if p.is("<") {
			return p.generic(t)
		}

		return nameExpr{name: t.text}, nil

	case tokPunct:
		switch t.text {
		case "(":
			e, err := p.union()
			if err != nil {
				return nil, err
			}

			return e, p.expect(")")
		case "[":
			return p.tuple()
		}
	}

	if t.kind == tokEOF {
		return nil, p.errorf(t, "unexpected end of expression")
	}

	return nil, p.errorf(t, "unexpected %q", t.text)
}

// generic := ident '<' union (',' union)* '>'
func (p *parser) generic(name token) (expr, error) {
	p.next()

	g := genericExpr{name: name.text}

	for {
		arg, err := p.union()
		if err != nil {
			return nil, err
		}

		g.args = append(g.args, arg)

		if !p.is(",") {
			break
		}

		p.next()
	}

	if err := p.expect(">"); err != nil {
		return nil, err
	}

	want := map[string]int{"Set": 1, "Map": 2}[g.name]
	if want == 0 {
		return nil, p.errorf(name, "%s takes no type arguments", g.name)
	}

	if len(g.args) != want {
		return nil, p.errorf(name, "%s takes %d type arguments, got %d", g.name, want, len(g.args))
	}

	return g, nil
}

// tuple := '[' (elem (',' elem)*)? ']'
// elem  := (ident ':')? '...'? union
func (p *parser) tuple() (expr, error) {
	var tup tupleExpr

	if p.is("]") {
		p.next()
		return tup, nil
	}

	for {
		var el tupleElem

		if t := p.peek(); t.kind == tokIdent && p.peekAt(1).kind == tokPunct && p.peekAt(1).text == ":" {
			el.name = t.text
			p.next()
			p.next()
		}

		start := p.peek()

		if p.is("...") {
			p.next()
			el.rest = true
		}

		typ, err := p.union()
		if err != nil {
			return nil, err
		}

		if el.rest {
			arr, ok := typ.(arrayExpr)
			if !ok {
				return nil, p.errorf(start, "rest element must be an array type")
			}

			typ = arr.elem
		}

		el.typ = typ
		tup.elems = append(tup.elems, el)

		if !p.is(",") {
			break
		}

		p.next()
	}

	if err := p.expect("]"); err != nil {
		return nil, err
	}

	return tup, nil
}
