package mancalc

import "strings"

// Fixity is where an operator's glyph appears relative to its operands.
type Fixity int8

const (
	// Infix glyphs appear between two operands, as in 1+2.
	Infix Fixity = iota
	// Prefix glyphs appear before one operand, as in -2.
	Prefix
	// Postfix glyphs appear after one operand, as in 5!.
	Postfix
)

// Op is an operator glyph in a grammar tier.
type Op struct {
	// Glyph is the text matched in the input.
	Glyph string
	// Name is the operator pushed to the machine when Glyph is matched.
	Name string
	// Alone, if not empty, is the operator pushed instead of Name when Glyph
	// is the entire input apart from whitespace. No operand is parsed.
	Alone string
}

// Tier is one level of operator precedence. Its glyphs are tried in order,
// so a glyph must come before any other glyph that is its prefix.
type Tier struct {
	Fixity Fixity
	Ops    []Op
}

// Grammar is the default precedence table, from loosest to tightest binding.
// Infix levels associate to the left.
var Grammar = []Tier{
	{Infix, []Op{{Glyph: "<<", Name: "<<"}, {Glyph: ">>", Name: ">>"}}},
	{Infix, []Op{{Glyph: "+", Name: "+"}, {Glyph: "-", Name: "-"}}},
	{Infix, []Op{{Glyph: "*", Name: "*"}, {Glyph: "/", Name: "/"}, {Glyph: "%", Name: "%"}}},
	{Infix, []Op{{Glyph: "^", Name: "^"}}},
	{Prefix, []Op{{Glyph: "~", Name: "~"}, {Glyph: "-", Name: "neg", Alone: "-"}}},
	{Postfix, []Op{{Glyph: "!", Name: "!"}}},
}

// maxDepth limits parenthesis nesting and runs of prefix operators.
const maxDepth = 1000

// Parser reads infix expressions and pushes their postfix translation to a
// Machine. Terms are pushed to the machine verbatim, so the machine decides
// whether each is a number or an operator such as pi.
type Parser struct {
	m       *Machine
	grammar []Tier

	// Per-call state.
	src   string
	pos   int
	depth int
	err   error
}

// NewParser creates a parser that drives m. If grammar is nil, the parser
// uses Grammar.
func NewParser(m *Machine, grammar []Tier) *Parser {
	if grammar == nil {
		grammar = Grammar
	}
	return &Parser{m: m, grammar: grammar}
}

// Parse reads src as one infix expression. It returns the byte offset at
// which parsing stopped, which is len(src) on success. If src is not a
// complete expression, the error is a *ParseError. Pushes emitted before the
// error remain on the machine.
//
// Pushes that the machine rejects do not stop parsing. The first of them is
// reported by Err.
func (p *Parser) Parse(src string) (int, error) {
	p.src, p.pos, p.depth, p.err = src, 0, 0, nil
	if err := p.descend(0); err != nil {
		return p.pos, err
	}
	p.skip()
	if p.pos < len(p.src) {
		return p.pos, p.expected("operator or end of input")
	}
	return p.pos, nil
}

// Err returns the first push the machine rejected during the last Parse.
func (p *Parser) Err() error {
	return p.err
}

func (p *Parser) descend(lv int) error {
	if lv >= len(p.grammar) {
		return p.terminal()
	}
	switch p.grammar[lv].Fixity {
	case Infix:
		return p.infix(lv)
	case Prefix:
		return p.prefix(lv)
	default:
		return p.postfix(lv)
	}
}

func (p *Parser) infix(lv int) error {
	if err := p.descend(lv + 1); err != nil {
		return err
	}
	for {
		p.skip()
		op, ok := p.consume(lv)
		if !ok {
			return nil
		}
		if err := p.descend(lv + 1); err != nil {
			return err
		}
		p.push(op.Name)
	}
}

// prefix reads a run of prefix glyphs, then the operand they apply to. The
// innermost operator is pushed first.
func (p *Parser) prefix(lv int) error {
	var names []string
	for {
		p.skip()
		op, ok := p.consume(lv)
		if !ok {
			break
		}
		if op.Alone != "" && strings.TrimFunc(p.src, isSpace) == op.Glyph {
			p.push(op.Alone)
			return nil
		}
		if len(names) >= maxDepth {
			p.pos -= len(op.Glyph)
			return p.expected("at most 1000 prefix operators in a row")
		}
		names = append(names, op.Name)
	}
	if err := p.descend(lv + 1); err != nil {
		return err
	}
	for i := len(names) - 1; i >= 0; i-- {
		p.push(names[i])
	}
	return nil
}

func (p *Parser) postfix(lv int) error {
	if err := p.descend(lv + 1); err != nil {
		return err
	}
	for {
		p.skip()
		op, ok := p.consume(lv)
		if !ok {
			return nil
		}
		p.push(op.Name)
	}
}

func (p *Parser) terminal() error {
	p.skip()
	if p.pos < len(p.src) && p.src[p.pos] == '(' {
		if p.depth >= maxDepth {
			return p.expected("at most 1000 nested parentheses")
		}
		p.pos++
		p.depth++
		if err := p.descend(0); err != nil {
			return err
		}
		p.skip()
		if p.pos >= len(p.src) || p.src[p.pos] != ')' {
			return p.expected(`")"`)
		}
		p.pos++
		p.depth--
		return nil
	}
	start := p.pos
	for p.pos < len(p.src) && isTermByte(p.src[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		return p.expected("number, name, or \"(\"")
	}
	p.push(p.src[start:p.pos])
	return nil
}

// consume matches one glyph of level lv at the current position.
func (p *Parser) consume(lv int) (Op, bool) {
	for _, op := range p.grammar[lv].Ops {
		if strings.HasPrefix(p.src[p.pos:], op.Glyph) {
			p.pos += len(op.Glyph)
			return op, true
		}
	}
	return Op{}, false
}

func (p *Parser) push(token string) {
	if err := p.m.Push(token); err != nil && p.err == nil {
		p.err = err
	}
}

func (p *Parser) skip() {
	for p.pos < len(p.src) && isSpaceByte(p.src[p.pos]) {
		p.pos++
	}
}

func (p *Parser) expected(what string) *ParseError {
	found := ""
	if p.pos < len(p.src) {
		found = p.src[p.pos : p.pos+1]
	}
	return &ParseError{Offset: p.pos, Expected: what, Found: found}
}

// isSpaceByte reports whether c is a control byte, a space, or outside
// printable ASCII.
func isSpaceByte(c byte) bool {
	return c <= 0x20 || c > 0x7e
}

func isSpace(r rune) bool {
	return r <= 0x20 || r > 0x7e
}

func isTermByte(c byte) bool {
	switch {
	case '0' <= c && c <= '9', 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		return true
	}
	return c == '.' || c == ','
}
