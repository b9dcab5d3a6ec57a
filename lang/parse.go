package lang

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"unicode/utf8"

	"github.com/rogeriochaves/rubber/log"
)

// ParseReader parses a program from an io.Reader.
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*Program, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrReadInput.Wrap(err)
	}

	return ParseString(ctx, string(data), opts...)
}

// ParseString parses a program from a string. One statement per line; a
// synthetic EOF line is appended so the final statement needs no trailing
// newline. On failure the returned error is a *ParseError and no partial
// program is returned.
func ParseString(
	ctx context.Context,
	input string,
	opts ...Option,
) (*Program, error) {
	prog := new(Program)
	applyDefaults(prog)
	applyOptions(prog, opts...)

	prog.logger.TraceContext(
		ctx,
		"parse start",
		slog.Int("source_length", len(input)),
	)

	p := &parser{
		input:    []byte(input + sentinel),
		source:   input,
		line:     1,
		col:      1,
		furthest: Position{Offset: -1},
		logger:   prog.logger,
	}

	err := p.parseProgram(ctx, prog)
	if err != nil {
		return nil, err
	}

	prog.logger.TraceContext(
		ctx,
		"parse complete",
		slog.Int("statement_count", len(prog.Statements)),
	)

	return prog, nil
}

// sentinel terminates every source text so the statement loop always finds
// a well-formed final line.
const sentinel = "\nEOF"

// errNoMatch marks a failed grammar alternative. The failing parser has
// already recorded what it expected; the caller rewinds the cursor and
// tries the next alternative, or converts the failure with fatal.
var errNoMatch = errors.New("no match")

// parser holds the parser state.
type parser struct {
	input    []byte
	source   string // input without the sentinel, for error snippets
	pos      int
	line     int
	col      int
	furthest Position // furthest failure so far
	expected []string // tokens expected at furthest
	logger   log.Logger
}

// mark is a saved cursor for backtracking.
type mark struct {
	pos  int
	line int
	col  int
}

// parseProgram parses the entire input as a list of statements, one per
// line. Blank lines are skipped. A line whose content is the literal
// token EOF terminates the parse; the appended sentinel guarantees one
// exists.
func (p *parser) parseProgram(ctx context.Context, prog *Program) error {
	prog.Statements = make([]*Expression, 0)

	for {
		p.skipSpace()

		if p.literal("EOF") {
			break
		}

		if p.peek() == '\n' {
			p.advance()

			continue
		}

		if p.eof() {
			break
		}

		stmt, err := p.parseStatement()
		if err != nil {
			return p.fatal(err)
		}

		prog.Statements = append(prog.Statements, stmt)

		p.logger.TraceContext(
			ctx,
			"statement parsed",
			slog.String("kind", stmt.Kind.String()),
			slog.Int("line", p.line),
		)

		p.skipSpace()

		if p.peek() != '\n' {
			return p.fatal(p.fail("newline"))
		}

		p.advance()
	}

	return nil
}

// parseStatement parses one top-level statement. The declaration forms
// are tried in order before falling back to a bare expression; they are
// reachable only from here, never from within the expression grammar.
func (p *parser) parseStatement() (*Expression, error) {
	m := p.mark()

	for _, parse := range []func() (*Expression, error){
		p.parseMapFuncDecl,
		p.parseFuncDecl,
		p.parseAssign,
	} {
		e, err := parse()
		if err == nil {
			return e, nil
		}

		if !errors.Is(err, errNoMatch) {
			return nil, err
		}

		p.reset(m)
	}

	return p.parseExpression()
}

// parseMapFuncDecl parses: scalar '(' vecIdent ')' '_{' scalar '}' '='
// expression. The declared function maps element-wise over its vector
// argument with the index name bound.
func (p *parser) parseMapFuncDecl() (*Expression, error) {
	name, err := p.parseScalar()
	if err != nil {
		return nil, err
	}

	if !p.expect('(') {
		return nil, p.fail("(")
	}

	p.skipSpace()

	param, err := p.parseVectorIdentifier()
	if err != nil {
		return nil, err
	}

	p.skipSpace()

	if !p.expect(')') {
		return nil, p.fail(")")
	}

	if p.peek() != '_' || p.peekAt(1) != '{' {
		return nil, p.fail("_{")
	}

	p.advance()
	p.advance()
	p.skipSpace()

	index, err := p.parseScalar()
	if err != nil {
		return nil, err
	}

	p.skipSpace()

	if !p.expect('}') {
		return nil, p.fail("}")
	}

	p.skipSpace()

	if !p.expect('=') {
		return nil, p.fail("=")
	}

	// The prefix through '=' has matched: committed.
	body, err := p.parseExpression()
	if err != nil {
		return nil, p.fatal(err)
	}

	return NewDoubleArity(
		OpAssignment,
		NewVariable(name),
		NewMapAbstraction(param, index.Name, body),
	), nil
}

// parseFuncDecl parses: scalar '(' identifier ')' '=' expression.
func (p *parser) parseFuncDecl() (*Expression, error) {
	name, err := p.parseScalar()
	if err != nil {
		return nil, err
	}

	if !p.expect('(') {
		return nil, p.fail("(")
	}

	p.skipSpace()

	param, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}

	p.skipSpace()

	if !p.expect(')') {
		return nil, p.fail(")")
	}

	p.skipSpace()

	if !p.expect('=') {
		return nil, p.fail("=")
	}

	body, err := p.parseExpression()
	if err != nil {
		return nil, p.fatal(err)
	}

	return NewDoubleArity(
		OpAssignment,
		NewVariable(name),
		NewAbstraction(param, body),
	), nil
}

// parseAssign parses: identifier '=' expression.
func (p *parser) parseAssign() (*Expression, error) {
	id, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}

	p.skipSpace()

	if !p.expect('=') {
		return nil, p.fail("=")
	}

	body, err := p.parseExpression()
	if err != nil {
		return nil, p.fatal(err)
	}

	return NewDoubleArity(OpAssignment, NewVariable(id), body), nil
}

// Binary operator tiers, loosest first. All are left-associative.
var (
	additiveOps = map[rune]Operator{
		'+': OpAddition,
		'-': OpSubtraction,
	}

	multiplicativeOps = map[rune]Operator{
		'*': OpMultiplication,
		'/': OpDivision,
	}

	exponentOps = map[rune]Operator{
		'^': OpExponentiation,
	}
)

// parseExpression parses a full expression: the additive tier.
func (p *parser) parseExpression() (*Expression, error) {
	return p.parseLeftAssoc(additiveOps, p.parseTerm)
}

// parseTerm parses the multiplicative tier.
func (p *parser) parseTerm() (*Expression, error) {
	return p.parseLeftAssoc(multiplicativeOps, p.parsePower)
}

// parsePower parses the exponentiation tier.
func (p *parser) parsePower() (*Expression, error) {
	return p.parseLeftAssoc(exponentOps, p.parsePostfix)
}

// parseLeftAssoc parses next (op next)*, folding operators of one tier
// left-associatively. An operator token commits to an operand: once the
// token is consumed, a missing right-hand side fails the parse.
func (p *parser) parseLeftAssoc(
	ops map[rune]Operator,
	next func() (*Expression, error),
) (*Expression, error) {
	lhs, err := next()
	if err != nil {
		return nil, err
	}

	for {
		m := p.mark()
		p.skipSpace()

		op, ok := ops[p.peek()]
		if !ok {
			p.reset(m)

			return lhs, nil
		}

		p.advance()

		rhs, err := next()
		if err != nil {
			return nil, p.fatal(err)
		}

		lhs = NewDoubleArity(op, lhs, rhs)
	}
}

// parsePostfix parses a primary with an optional trailing index suffix
// _{expression}. The suffix requires direct adjacency (no space before
// the underscore) and never chains: a second suffix is left unconsumed.
func (p *parser) parsePostfix() (*Expression, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	if p.peek() != '_' || p.peekAt(1) != '{' {
		return base, nil
	}

	p.advance()
	p.advance()

	index, err := p.parseExpression()
	if err != nil {
		return nil, p.fatal(err)
	}

	p.skipSpace()

	if err := p.mustExpect('}'); err != nil {
		return nil, err
	}

	return NewDoubleArity(OpIndex, base, index), nil
}

// parsePrimary parses one atomic form. Alternatives are tried in order;
// each failed alternative rewinds the cursor before the next is tried.
func (p *parser) parsePrimary() (*Expression, error) {
	p.skipSpace()

	m := p.mark()

	for _, parse := range []func() (*Expression, error){
		p.parseParen,
		p.parseCall,
		p.parseAtom,
		p.parseVectorLiteral,
		p.parseSymbolic,
	} {
		e, err := parse()
		if err == nil {
			return e, nil
		}

		if !errors.Is(err, errNoMatch) {
			return nil, err
		}

		p.reset(m)
	}

	return nil, errNoMatch
}

// parseParen parses: '(' expression ')'.
func (p *parser) parseParen() (*Expression, error) {
	if !p.expect('(') {
		return nil, p.fail("(")
	}

	e, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	p.skipSpace()

	if !p.expect(')') {
		return nil, p.fail(")")
	}

	return e, nil
}

// parseCall parses: scalar '(' expression ')', with no space permitted
// between the callee and the opening parenthesis.
func (p *parser) parseCall() (*Expression, error) {
	callee, err := p.parseScalar()
	if err != nil {
		return nil, err
	}

	if !p.expect('(') {
		return nil, p.fail("(")
	}

	arg, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	p.skipSpace()

	if !p.expect(')') {
		return nil, p.fail(")")
	}

	return NewApplication(NewVariable(callee), arg), nil
}

// parseAtom parses a number literal or a variable reference.
func (p *parser) parseAtom() (*Expression, error) {
	if e, err := p.parseNumber(); err == nil {
		return e, nil
	} else if !errors.Is(err, errNoMatch) {
		return nil, err
	}

	id, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}

	return NewVariable(id), nil
}

// parseVectorLiteral parses: '(' expression (',' expression)+ ')'. A
// single parenthesized expression is grouping, not a vector, and a
// trailing comma is rejected.
func (p *parser) parseVectorLiteral() (*Expression, error) {
	if !p.expect('(') {
		return nil, p.fail("(")
	}

	first, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	items := []*Expression{first}

	p.skipSpace()

	if p.peek() != ',' {
		return nil, p.fail(",")
	}

	for p.peek() == ',' {
		p.advance()

		item, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		items = append(items, item)

		p.skipSpace()
	}

	if !p.expect(')') {
		return nil, p.fail(")")
	}

	return NewVector(items...), nil
}

// parseSymbolic parses a control sequence through the symbol tables:
// single, then double, then triple arity. Once the name itself has
// parsed, failure is terminal: an unregistered name reports an unknown
// symbol error rather than rewinding to another alternative.
func (p *parser) parseSymbolic() (*Expression, error) {
	pos := p.position()

	if !p.expect('\\') {
		return nil, p.fail(`\`)
	}

	name, err := p.parseControlName()
	if err != nil {
		return nil, err
	}

	if name == controlVec {
		// Reserved for vector identifiers, which the atom alternative
		// already handles.
		return nil, errNoMatch
	}

	if op, ok := singleOps[name]; ok {
		operand, err := p.parseBracedOperand()
		if err != nil {
			return nil, err
		}

		return NewSingleArity(op, operand), nil
	}

	if op, ok := doubleOps[name]; ok {
		first, err := p.parseBracedOperand()
		if err != nil {
			return nil, err
		}

		second, err := p.parseBracedOperand()
		if err != nil {
			return nil, err
		}

		return NewDoubleArity(op, first, second), nil
	}

	if op, ok := tripleOps[name]; ok {
		if name == controlSum {
			return p.parseSumTail()
		}

		first, err := p.parseBracedOperand()
		if err != nil {
			return nil, err
		}

		second, err := p.parseBracedOperand()
		if err != nil {
			return nil, err
		}

		third, err := p.parseBracedOperand()
		if err != nil {
			return nil, err
		}

		return NewTripleArity(op, first, second, third), nil
	}

	return nil, &ParseError{
		Pos:    pos,
		Source: p.source,
		Msg:    `unknown symbol "\` + name + `"`,
		err:    ErrUnknownSymbol,
	}
}

// parseSumTail parses the summation operands after \sum_ has been
// scanned: '{' scalar '=' expression '}' '^' '{' expression '}' and a
// trailing summand expression. The loop-variable binding is carried as
// an assignment node.
func (p *parser) parseSumTail() (*Expression, error) {
	if err := p.mustExpect('{'); err != nil {
		return nil, err
	}

	p.skipSpace()

	id, err := p.parseScalar()
	if err != nil {
		return nil, p.fatal(err)
	}

	p.skipSpace()

	if err := p.mustExpect('='); err != nil {
		return nil, err
	}

	start, err := p.parseExpression()
	if err != nil {
		return nil, p.fatal(err)
	}

	p.skipSpace()

	if err := p.mustExpect('}'); err != nil {
		return nil, err
	}

	p.skipSpace()

	if err := p.mustExpect('^'); err != nil {
		return nil, err
	}

	p.skipSpace()

	if err := p.mustExpect('{'); err != nil {
		return nil, err
	}

	bound, err := p.parseExpression()
	if err != nil {
		return nil, p.fatal(err)
	}

	p.skipSpace()

	if err := p.mustExpect('}'); err != nil {
		return nil, err
	}

	summand, err := p.parseExpression()
	if err != nil {
		return nil, p.fatal(err)
	}

	binding := NewDoubleArity(OpAssignment, NewVariable(id), start)

	return NewTripleArity(OpSum, binding, bound, summand), nil
}

// parseBracedOperand parses one '{' expression '}' operand of a control
// sequence. Only called after the name has resolved, so failure is
// terminal.
func (p *parser) parseBracedOperand() (*Expression, error) {
	p.skipSpace()

	if err := p.mustExpect('{'); err != nil {
		return nil, err
	}

	e, err := p.parseExpression()
	if err != nil {
		return nil, p.fatal(err)
	}

	p.skipSpace()

	if err := p.mustExpect('}'); err != nil {
		return nil, err
	}

	return e, nil
}

// parseIdentifier parses a scalar or vector identifier.
func (p *parser) parseIdentifier() (Identifier, error) {
	if id, err := p.parseScalar(); err == nil {
		return id, nil
	} else if !errors.Is(err, errNoMatch) {
		return Identifier{}, err
	}

	return p.parseVectorIdentifier()
}

// parseScalar parses a scalar identifier: exactly one lowercase letter.
func (p *parser) parseScalar() (Identifier, error) {
	if !isLower(p.peek()) {
		return Identifier{}, p.fail("identifier")
	}

	name := string(p.peek())
	p.advance()

	return Scalar(name), nil
}

// parseVectorIdentifier parses: '\vec{' scalar '}'.
func (p *parser) parseVectorIdentifier() (Identifier, error) {
	if !p.expect('\\') {
		return Identifier{}, p.fail(`\vec`)
	}

	name, err := p.parseControlName()
	if err != nil {
		return Identifier{}, err
	}

	if name != controlVec {
		return Identifier{}, p.fail(`\vec`)
	}

	if !p.expect('{') {
		return Identifier{}, p.fail("{")
	}

	p.skipSpace()

	id, err := p.parseScalar()
	if err != nil {
		return Identifier{}, err
	}

	p.skipSpace()

	if !p.expect('}') {
		return Identifier{}, p.fail("}")
	}

	return Vec(id.Name), nil
}

// parseNumber parses an integer or decimal literal, widened to float64.
// No sign, no exponent, and no leading or trailing dot.
func (p *parser) parseNumber() (*Expression, error) {
	start := p.pos

	if !isDigit(p.peek()) {
		return nil, p.fail("number")
	}

	for isDigit(p.peek()) {
		p.advance()
	}

	if p.peek() == '.' && isDigit(p.peekAt(1)) {
		p.advance()

		for isDigit(p.peek()) {
			p.advance()
		}
	}

	// Out-of-range literals clamp to ±Inf rather than failing: the
	// digits already matched the grammar.
	value, err := strconv.ParseFloat(string(p.input[start:p.pos]), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return nil, p.fail("number")
	}

	return NewNumber(value), nil
}

// parseControlName parses the word after a backslash: a lowercase letter
// followed by lowercase letters, digits, and underscores. The scan is
// greedy, so \sum_{..} yields the name "sum_".
func (p *parser) parseControlName() (string, error) {
	start := p.pos

	if !isLower(p.peek()) {
		return "", p.fail("control sequence")
	}

	for isNameChar(p.peek()) {
		p.advance()
	}

	return string(p.input[start:p.pos]), nil
}

// Helper methods

func (p *parser) peek() rune {
	if p.eof() {
		return 0
	}

	r, _ := utf8.DecodeRune(p.input[p.pos:])

	return r
}

// peekAt returns the rune at the given byte offset past the cursor.
func (p *parser) peekAt(off int) rune {
	if p.pos+off >= len(p.input) {
		return 0
	}

	r, _ := utf8.DecodeRune(p.input[p.pos+off:])

	return r
}

func (p *parser) advance() {
	if p.eof() {
		return
	}

	r, size := utf8.DecodeRune(p.input[p.pos:])

	p.pos += size
	if r == '\n' {
		p.line++
		p.col = 1
	} else {
		p.col++
	}
}

func (p *parser) expect(ch rune) bool {
	if p.peek() == ch {
		p.advance()

		return true
	}

	return false
}

// mustExpect consumes ch or fails the parse at the current position.
func (p *parser) mustExpect(ch rune) error {
	if p.expect(ch) {
		return nil
	}

	return p.fatal(p.fail(string(ch)))
}

// literal consumes the exact text s if it is next in the input.
func (p *parser) literal(s string) bool {
	if !bytes.HasPrefix(p.input[p.pos:], []byte(s)) {
		return false
	}

	for range len(s) {
		p.advance()
	}

	return true
}

func (p *parser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *parser) position() Position {
	return Position{
		Offset: p.pos,
		Line:   p.line,
		Column: p.col,
	}
}

// skipSpace skips spaces and tabs. Newlines are never skipped: they
// terminate statements.
func (p *parser) skipSpace() {
	for p.peek() == ' ' || p.peek() == '\t' {
		p.advance()
	}
}

func (p *parser) mark() mark {
	return mark{pos: p.pos, line: p.line, col: p.col}
}

func (p *parser) reset(m mark) {
	p.pos = m.pos
	p.line = m.line
	p.col = m.col
}

// fail records a failed expectation at the current position and returns
// errNoMatch. The furthest failure position wins: expectations recorded
// there accumulate, earlier ones are discarded.
func (p *parser) fail(expected string) error {
	pos := p.position()

	switch {
	case pos.Offset > p.furthest.Offset:
		p.furthest = pos
		p.expected = append(p.expected[:0], expected)

	case pos.Offset == p.furthest.Offset:
		if !slices.Contains(p.expected, expected) {
			p.expected = append(p.expected, expected)
		}
	}

	return errNoMatch
}

// fatal converts a failure into the *ParseError reported to the caller.
// A backtrackable failure becomes an expectation error at the furthest
// position reached; an already-terminal error passes through.
func (p *parser) fatal(err error) error {
	pe := &ParseError{}
	if errors.As(err, &pe) {
		if pe.Source == "" {
			pe.Source = p.source
		}

		return pe
	}

	return &ParseError{
		Pos:      p.furthest,
		Source:   p.source,
		Expected: slices.Clone(p.expected),
		err:      ErrParse,
	}
}

// Character classification

func isLower(r rune) bool {
	return r >= 'a' && r <= 'z'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isNameChar(r rune) bool {
	return isLower(r) || isDigit(r) || r == '_'
}
