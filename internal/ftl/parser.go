// Package ftl parses Fluent translation resources into a syntax tree.
//
// The parser recovers from malformed entries: the offending span is kept as
// a Junk entry and parsing resumes at the next entry, so one broken message
// never hides the rest of the file.
package ftl

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ParseError reports a grammar violation with its position in the source.
type ParseError struct {
	Line int
	Col  int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d:%d: %s", e.Line, e.Col, e.Msg)
}

// Parse parses Fluent source text. Grammar violations do not stop parsing:
// the offending span becomes a Junk entry and parsing resumes at the next
// entry. The returned Resource is complete either way; the error is the
// first violation encountered, or nil if the source parsed cleanly.
func Parse(src string) (*Resource, error) {
	p := &parser{src: strings.ReplaceAll(src, "\r\n", "\n")}
	res := &Resource{}
	var firstErr *ParseError

	for !p.eof() {
		blanks := p.skipBlankBlock()
		if p.eof() {
			break
		}

		entryStart := p.pos
		entry, err := p.parseEntry()
		if err != nil {
			res.Entries = append(res.Entries, &Junk{
				Content: p.recoverJunk(entryStart),
				Reason:  err.Msg,
			})
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		// Adjacent comment lines of the same level form one block.
		if c, ok := entry.(*Comment); ok && blanks == 0 && len(res.Entries) > 0 {
			if prev, ok := res.Entries[len(res.Entries)-1].(*Comment); ok && prev.Level == c.Level {
				prev.Content += "\n" + c.Content
				continue
			}
		}

		res.Entries = append(res.Entries, entry)
	}

	if firstErr != nil {
		return res, firstErr
	}
	return res, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) peekAt(offset int) byte {
	if p.pos+offset >= len(p.src) {
		return 0
	}
	return p.src[p.pos+offset]
}

func (p *parser) accept(c byte) bool {
	if p.peek() == c {
		p.pos++
		return true
	}
	return false
}

func (p *parser) errorf(format string, args ...any) *ParseError {
	line := 1 + strings.Count(p.src[:p.pos], "\n")
	col := p.pos - strings.LastIndexByte(p.src[:p.pos], '\n')
	return &ParseError{Line: line, Col: col, Msg: fmt.Sprintf(format, args...)}
}

// skipBlankInline consumes spaces on the current line.
func (p *parser) skipBlankInline() {
	for !p.eof() && p.src[p.pos] == ' ' {
		p.pos++
	}
}

// skipBlank consumes spaces and newlines.
func (p *parser) skipBlank() {
	for !p.eof() && (p.src[p.pos] == ' ' || p.src[p.pos] == '\n') {
		p.pos++
	}
}

// skipBlankBlock consumes whole blank lines and reports how many were
// skipped. Lines holding anything but spaces are left untouched.
func (p *parser) skipBlankBlock() int {
	n := 0
	for {
		mark := p.pos
		p.skipBlankInline()
		if p.eof() {
			return n
		}
		if p.src[p.pos] == '\n' {
			p.pos++
			n++
			continue
		}
		p.pos = mark
		return n
	}
}

func (p *parser) consumeEOL() {
	if !p.eof() && p.src[p.pos] == '\n' {
		p.pos++
	}
}

func (p *parser) parseEntry() (Entry, *ParseError) {
	switch c := p.peek(); {
	case c == '#':
		return p.parseComment()
	case c == '-':
		return p.parseTerm()
	case isIDStart(c):
		return p.parseMessage()
	default:
		return nil, p.errorf("expected a message, term or comment, found %q", string(c))
	}
}

// recoverJunk advances past the failed entry to the start of the next line
// that can open an entry, returning the skipped span verbatim.
func (p *parser) recoverJunk(from int) string {
	pos := p.pos
	if pos < from {
		pos = from
	}
	pos = nextLine(p.src, pos)
	for pos < len(p.src) {
		c := p.src[pos]
		if c == '#' || c == '-' || isIDStart(c) {
			break
		}
		pos = nextLine(p.src, pos)
	}
	p.pos = pos
	return p.src[from:pos]
}

// nextLine returns the offset just past the newline terminating the line
// containing pos (or the end of input).
func nextLine(src string, pos int) int {
	for pos < len(src) && src[pos] != '\n' {
		pos++
	}
	if pos < len(src) {
		pos++
	}
	return pos
}

func (p *parser) parseComment() (Entry, *ParseError) {
	level := 0
	for level < 3 && p.peek() == '#' {
		level++
		p.pos++
	}

	var content string
	switch {
	case p.peek() == ' ':
		p.pos++
		start := p.pos
		for !p.eof() && p.src[p.pos] != '\n' {
			p.pos++
		}
		content = p.src[start:p.pos]
	case p.peek() == '\n' || p.eof():
		// Bare comment marker.
	default:
		return nil, p.errorf("expected a space or end of line after comment marker")
	}

	p.consumeEOL()
	return &Comment{Level: level, Content: content}, nil
}

func (p *parser) parseMessage() (Entry, *ParseError) {
	id := p.parseIdentifier()
	p.skipBlankInline()
	if !p.accept('=') {
		return nil, p.errorf("expected '=' after message identifier %q", id)
	}

	value, attrs, err := p.parseEntryBody()
	if err != nil {
		return nil, err
	}
	if value == nil && len(attrs) == 0 {
		return nil, p.errorf("expected message %q to have a value or attributes", id)
	}
	return &Message{ID: id, Value: value, Attributes: attrs}, nil
}

func (p *parser) parseTerm() (Entry, *ParseError) {
	p.pos++ // '-'
	if !isIDStart(p.peek()) {
		return nil, p.errorf("expected identifier after '-'")
	}
	id := p.parseIdentifier()
	p.skipBlankInline()
	if !p.accept('=') {
		return nil, p.errorf("expected '=' after term identifier %q", id)
	}

	value, attrs, err := p.parseEntryBody()
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, p.errorf("expected term -%s to have a value", id)
	}
	return &Term{ID: id, Value: value, Attributes: attrs}, nil
}

// parseEntryBody parses the value pattern and attribute list shared by
// messages and terms, consuming the newline that ends the entry.
func (p *parser) parseEntryBody() (*Pattern, []Attribute, *ParseError) {
	p.skipBlankInline()
	value, err := p.parsePattern()
	if err != nil {
		return nil, nil, err
	}

	var attrs []Attribute
	for p.peekAttribute() {
		p.skipBlank()
		p.pos++ // '.'
		if !isIDStart(p.peek()) {
			return nil, nil, p.errorf("expected identifier after '.'")
		}
		id := p.parseIdentifier()
		p.skipBlankInline()
		if !p.accept('=') {
			return nil, nil, p.errorf("expected '=' after attribute identifier %q", id)
		}
		p.skipBlankInline()
		av, err := p.parsePattern()
		if err != nil {
			return nil, nil, err
		}
		if av == nil {
			return nil, nil, p.errorf("expected attribute .%s to have a value", id)
		}
		attrs = append(attrs, Attribute{ID: id, Value: *av})
	}

	p.consumeEOL()
	return value, attrs, nil
}

// peekAttribute reports whether the next non-blank line opens an attribute.
func (p *parser) peekAttribute() bool {
	if p.peek() != '\n' {
		return false
	}
	i := p.pos
	for i < len(p.src) && (p.src[i] == '\n' || p.src[i] == ' ') {
		i++
	}
	return i < len(p.src) && p.src[i] == '.'
}

// patternCell is a working unit of parsePattern: a text run, a placeable,
// or a line break onto an indented continuation line.
type patternCell struct {
	text      string
	placeable *Placeable
	isBreak   bool
	blanks    int    // interior blank lines preceding the continuation
	indent    string // the continuation line's leading spaces
}

// parsePattern parses inline pattern content and any indented continuation
// lines, removing the indentation the block lines share. It returns a nil
// pattern (and no error) when there is no content at all, which is how
// attribute-only messages appear.
func (p *parser) parsePattern() (*Pattern, *ParseError) {
	var cells []patternCell
	commonIndent := -1

scan:
	for !p.eof() {
		switch c := p.src[p.pos]; c {
		case '{':
			pl, err := p.parsePlaceable()
			if err != nil {
				return nil, err
			}
			cells = append(cells, patternCell{placeable: pl})
		case '}':
			break scan
		case '\n':
			blanks, indent, ok := p.probeContinuation()
			if !ok {
				break scan
			}
			if commonIndent < 0 || len(indent) < commonIndent {
				commonIndent = len(indent)
			}
			cells = append(cells, patternCell{isBreak: true, blanks: blanks, indent: indent})
		default:
			start := p.pos
			for !p.eof() && p.src[p.pos] != '\n' && p.src[p.pos] != '{' && p.src[p.pos] != '}' {
				p.pos++
			}
			cells = append(cells, patternCell{text: p.src[start:p.pos]})
		}
	}

	if len(cells) == 0 {
		return nil, nil
	}
	return assemblePattern(cells, commonIndent), nil
}

// probeContinuation decides whether the pattern continues past the newline
// the cursor sits on. Continuation lines are indented and do not open an
// attribute, a variant, or close a placeable. On success the cursor moves
// to the line's first content character; otherwise it stays on the newline.
func (p *parser) probeContinuation() (blanks int, indent string, ok bool) {
	i := p.pos + 1
	for {
		lineStart := i
		for i < len(p.src) && p.src[i] == ' ' {
			i++
		}
		if i >= len(p.src) {
			return 0, "", false
		}
		if p.src[i] == '\n' {
			blanks++
			i++
			continue
		}
		if i == lineStart {
			return 0, "", false // next entry begins at column zero
		}
		switch p.src[i] {
		case '.', '[', '*', '}':
			return 0, "", false
		}
		p.pos = i
		return blanks, p.src[lineStart:i], true
	}
}

// assemblePattern folds working cells into pattern elements: continuation
// breaks become newlines plus dedented indent, adjacent text runs merge,
// and trailing spaces are trimmed from the final text element.
func assemblePattern(cells []patternCell, commonIndent int) *Pattern {
	var elems []PatternElement
	var text strings.Builder

	flush := func() {
		if text.Len() > 0 {
			elems = append(elems, &Text{Value: text.String()})
			text.Reset()
		}
	}

	for i, cell := range cells {
		switch {
		case cell.isBreak:
			rest := cell.indent
			if commonIndent >= 0 && len(rest) >= commonIndent {
				rest = rest[commonIndent:]
			}
			if i > 0 {
				text.WriteString(strings.Repeat("\n", cell.blanks+1))
			}
			text.WriteString(rest)
		case cell.placeable != nil:
			flush()
			elems = append(elems, cell.placeable)
		default:
			text.WriteString(cell.text)
		}
	}

	// Trim the pattern's trailing spaces, which carry no meaning.
	if trailing := strings.TrimRight(text.String(), " "); trailing != "" {
		elems = append(elems, &Text{Value: trailing})
	}
	text.Reset()

	if len(elems) == 0 {
		return nil
	}
	return &Pattern{Elements: elems}
}

func (p *parser) parsePlaceable() (*Placeable, *ParseError) {
	p.pos++ // '{'
	p.skipBlank()
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	p.skipBlank()
	if !p.accept('}') {
		return nil, p.errorf("expected '}'")
	}
	return &Placeable{Expression: expr}, nil
}

func (p *parser) parseExpression() (Expression, *ParseError) {
	inline, err := p.parseInlineExpression()
	if err != nil {
		return nil, err
	}

	save := p.pos
	p.skipBlank()
	if strings.HasPrefix(p.src[p.pos:], "->") {
		if err := validSelector(inline); err != nil {
			return nil, p.errorf("%s", err)
		}
		p.pos += 2
		return p.parseSelectBody(inline)
	}
	p.pos = save
	return inline, nil
}

// validSelector enforces the selector restrictions: message references,
// plain term references and nested placeables cannot select variants.
func validSelector(expr InlineExpression) error {
	switch sel := expr.(type) {
	case *MessageReference:
		return fmt.Errorf("message references cannot be used as selectors")
	case *TermReference:
		if sel.Attribute == "" {
			return fmt.Errorf("term references without an attribute cannot be used as selectors")
		}
	case *Placeable:
		return fmt.Errorf("expected a simple expression as selector")
	}
	return nil
}

func (p *parser) parseSelectBody(selector InlineExpression) (Expression, *ParseError) {
	p.skipBlankInline()
	if !p.accept('\n') {
		return nil, p.errorf("expected variants on new lines after '->'")
	}

	var variants []Variant
	sawDefault := false
	for {
		save := p.pos
		p.skipBlank()

		def := false
		if p.peek() == '*' {
			def = true
			p.pos++
		}
		if p.peek() != '[' {
			p.pos = save
			break
		}
		p.pos++ // '['
		p.skipBlank()
		key, err := p.parseVariantKey()
		if err != nil {
			return nil, err
		}
		p.skipBlank()
		if !p.accept(']') {
			return nil, p.errorf("expected ']' after variant key")
		}
		p.skipBlankInline()
		value, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		if value == nil {
			return nil, p.errorf("expected variant [%s] to have a value", key.Value)
		}
		if def {
			if sawDefault {
				return nil, p.errorf("a select expression can only have one default variant")
			}
			sawDefault = true
		}
		variants = append(variants, Variant{Key: key, Default: def, Value: *value})
	}

	if len(variants) == 0 {
		return nil, p.errorf("expected at least one variant after '->'")
	}
	if !sawDefault {
		return nil, p.errorf("expected a default variant marked with '*'")
	}
	return &Select{Selector: selector, Variants: variants}, nil
}

func (p *parser) parseVariantKey() (VariantKey, *ParseError) {
	switch c := p.peek(); {
	case isDigit(c) || (c == '-' && isDigit(p.peekAt(1))):
		num, err := p.parseNumber()
		if err != nil {
			return VariantKey{}, err
		}
		return VariantKey{Value: num, Numeric: true}, nil
	case isIDStart(c):
		return VariantKey{Value: p.parseIdentifier()}, nil
	default:
		return VariantKey{}, p.errorf("expected an identifier or number as variant key")
	}
}

func (p *parser) parseInlineExpression() (InlineExpression, *ParseError) {
	switch c := p.peek(); {
	case c == '"':
		return p.parseStringLiteral()
	case isDigit(c) || (c == '-' && isDigit(p.peekAt(1))):
		num, err := p.parseNumber()
		if err != nil {
			return nil, err
		}
		return &NumberLiteral{Value: num}, nil
	case c == '$':
		p.pos++
		if !isIDStart(p.peek()) {
			return nil, p.errorf("expected identifier after '$'")
		}
		return &VariableReference{Name: p.parseIdentifier()}, nil
	case c == '-':
		return p.parseTermReference()
	case c == '{':
		return p.parsePlaceable()
	case isIDStart(c):
		name := p.parseIdentifier()
		if p.peek() == '(' {
			if !isCalleeName(name) {
				return nil, p.errorf("function name %q must be all upper-case", name)
			}
			args, err := p.parseCallArguments()
			if err != nil {
				return nil, err
			}
			return &FunctionReference{Name: name, Arguments: args}, nil
		}
		var attr string
		if p.peek() == '.' {
			p.pos++
			if !isIDStart(p.peek()) {
				return nil, p.errorf("expected identifier after '.'")
			}
			attr = p.parseIdentifier()
		}
		return &MessageReference{Name: name, Attribute: attr}, nil
	default:
		return nil, p.errorf("expected an inline expression")
	}
}

func (p *parser) parseTermReference() (InlineExpression, *ParseError) {
	p.pos++ // '-'
	if !isIDStart(p.peek()) {
		return nil, p.errorf("expected identifier after '-'")
	}
	ref := &TermReference{Name: p.parseIdentifier()}
	if p.peek() == '.' {
		p.pos++
		if !isIDStart(p.peek()) {
			return nil, p.errorf("expected identifier after '.'")
		}
		ref.Attribute = p.parseIdentifier()
	}
	if p.peek() == '(' {
		args, err := p.parseCallArguments()
		if err != nil {
			return nil, err
		}
		ref.Arguments = &args
	}
	return ref, nil
}

func (p *parser) parseCallArguments() (CallArguments, *ParseError) {
	p.pos++ // '('
	var args CallArguments

	p.skipBlank()
	for p.peek() != ')' {
		if p.eof() {
			return args, p.errorf("unterminated call arguments")
		}

		named, positional, err := p.parseArgument()
		if err != nil {
			return args, err
		}
		if named != nil {
			args.Named = append(args.Named, *named)
		} else {
			if len(args.Named) > 0 {
				return args, p.errorf("positional arguments must not follow named arguments")
			}
			args.Positional = append(args.Positional, positional)
		}

		p.skipBlank()
		if p.accept(',') {
			p.skipBlank()
			continue
		}
		if p.peek() != ')' {
			return args, p.errorf("expected ',' or ')' in call arguments")
		}
	}
	p.pos++ // ')'
	return args, nil
}

func (p *parser) parseArgument() (*NamedArgument, InlineExpression, *ParseError) {
	if isIDStart(p.peek()) {
		save := p.pos
		name := p.parseIdentifier()
		p.skipBlank()
		if p.accept(':') {
			p.skipBlank()
			value, err := p.parseInlineExpression()
			if err != nil {
				return nil, nil, err
			}
			switch value.(type) {
			case *StringLiteral, *NumberLiteral:
			default:
				return nil, nil, p.errorf("the value of named argument %q must be a literal", name)
			}
			return &NamedArgument{Name: name, Value: value}, nil, nil
		}
		p.pos = save
	}

	expr, err := p.parseInlineExpression()
	if err != nil {
		return nil, nil, err
	}
	return nil, expr, nil
}

func (p *parser) parseStringLiteral() (InlineExpression, *ParseError) {
	p.pos++ // '"'
	var b strings.Builder
	for {
		if p.eof() || p.src[p.pos] == '\n' {
			return nil, p.errorf("unterminated string literal")
		}
		c := p.src[p.pos]
		switch c {
		case '"':
			p.pos++
			return &StringLiteral{Value: b.String()}, nil
		case '\\':
			p.pos++
			switch e := p.peek(); e {
			case '"', '\\':
				b.WriteByte(e)
				p.pos++
			case 'u':
				p.pos++
				r, err := p.parseUnicodeEscape(4)
				if err != nil {
					return nil, err
				}
				b.WriteRune(r)
			case 'U':
				p.pos++
				r, err := p.parseUnicodeEscape(6)
				if err != nil {
					return nil, err
				}
				b.WriteRune(r)
			default:
				return nil, p.errorf("unknown escape sequence '\\%s'", string(e))
			}
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
}

func (p *parser) parseUnicodeEscape(digits int) (rune, *ParseError) {
	if p.pos+digits > len(p.src) {
		return 0, p.errorf("invalid unicode escape sequence")
	}
	hex := p.src[p.pos : p.pos+digits]
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, p.errorf("invalid unicode escape sequence %q", hex)
	}
	p.pos += digits
	r := rune(n)
	if !utf8.ValidRune(r) {
		r = utf8.RuneError
	}
	return r, nil
}

func (p *parser) parseNumber() (string, *ParseError) {
	start := p.pos
	if p.peek() == '-' {
		p.pos++
	}
	if !isDigit(p.peek()) {
		return "", p.errorf("expected a digit")
	}
	for isDigit(p.peek()) {
		p.pos++
	}
	if p.peek() == '.' && isDigit(p.peekAt(1)) {
		p.pos++
		for isDigit(p.peek()) {
			p.pos++
		}
	}
	return p.src[start:p.pos], nil
}

func (p *parser) parseIdentifier() string {
	start := p.pos
	p.pos++ // first character validated by the caller
	for !p.eof() && isIDChar(p.src[p.pos]) {
		p.pos++
	}
	return p.src[start:p.pos]
}

func isIDStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIDChar(c byte) bool {
	return isIDStart(c) || isDigit(c) || c == '_' || c == '-'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// isCalleeName reports whether an identifier is a valid function name:
// upper-case letters, digits, '_' and '-' only.
func isCalleeName(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'A' && c <= 'Z') || isDigit(c) || c == '_' || c == '-' {
			continue
		}
		return false
	}
	return true
}
