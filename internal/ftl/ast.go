package ftl

// Resource is the parsed form of one locale's Fluent file: an ordered
// sequence of entries in declaration order.
type Resource struct {
	Entries []Entry
}

// Entry is a top-level item of a resource: Message, Term, Comment or Junk.
type Entry interface {
	entryNode()
}

// Message is a named, user-facing translatable unit. Value is nil for
// messages that define attributes only.
type Message struct {
	ID         string
	Value      *Pattern
	Attributes []Attribute
}

// Term is a private reusable pattern, referenced as -id from placeables.
// Unlike messages, terms always carry a value.
type Term struct {
	ID         string
	Value      *Pattern
	Attributes []Attribute
}

// Comment is a standalone comment block. Level is the number of leading
// '#' characters (1-3); adjacent lines of the same level are merged.
type Comment struct {
	Level   int
	Content string
}

// Junk preserves an unparseable fragment verbatim so the rest of the
// resource can still be used. Reason records the first error hit inside.
type Junk struct {
	Content string
	Reason  string
}

func (*Message) entryNode() {}
func (*Term) entryNode()    {}
func (*Comment) entryNode() {}
func (*Junk) entryNode()    {}

// Attribute is a named sub-pattern of a message or term (.id = value).
type Attribute struct {
	ID    string
	Value Pattern
}

// Pattern is the ordered renderable content of a message, term, attribute
// or select variant.
type Pattern struct {
	Elements []PatternElement
}

// PatternElement is either literal Text or a Placeable.
type PatternElement interface {
	patternNode()
}

// Text is a literal run of pattern text.
type Text struct {
	Value string
}

// Placeable embeds an expression inside a pattern. A placeable is itself a
// valid inline expression, which is how placeables nest.
type Placeable struct {
	Expression Expression
}

func (*Text) patternNode()      {}
func (*Placeable) patternNode() {}

// Expression is the content of a placeable: any inline expression, or a
// select expression.
type Expression interface {
	expressionNode()
}

// InlineExpression is an expression that can appear inline: a literal, a
// reference, a function call or a nested placeable. Every inline expression
// is also a valid Expression and a valid select selector.
type InlineExpression interface {
	Expression
	inlineNode()
}

// Select chooses among variant sub-patterns based on a selector value.
type Select struct {
	Selector InlineExpression
	Variants []Variant
}

func (*Select) expressionNode() {}

// Variant is one branch of a select expression. Exactly one variant per
// select is the default, marked with '*' in the source.
type Variant struct {
	Key     VariantKey
	Default bool
	Value   Pattern
}

// VariantKey is the branch label of a variant: an identifier or a number.
type VariantKey struct {
	Value   string
	Numeric bool
}

// StringLiteral is a quoted literal with escape sequences already decoded.
type StringLiteral struct {
	Value string
}

// NumberLiteral keeps the source spelling of a numeric literal.
type NumberLiteral struct {
	Value string
}

// VariableReference is a $name reference to an external input supplied by
// the caller at format time.
type VariableReference struct {
	Name string
}

// MessageReference refers to another message, optionally one of its
// attributes.
type MessageReference struct {
	Name      string
	Attribute string
}

// TermReference refers to a term, optionally one of its attributes, with
// optional call arguments for parameterized terms.
type TermReference struct {
	Name      string
	Attribute string
	Arguments *CallArguments
}

// FunctionReference is a builtin call such as NUMBER(...) or DATETIME(...).
type FunctionReference struct {
	Name      string
	Arguments CallArguments
}

// CallArguments holds the positional and named arguments of a call.
type CallArguments struct {
	Positional []InlineExpression
	Named      []NamedArgument
}

// NamedArgument is a name: literal pair inside call arguments.
type NamedArgument struct {
	Name  string
	Value InlineExpression
}

func (*StringLiteral) expressionNode()     {}
func (*NumberLiteral) expressionNode()     {}
func (*VariableReference) expressionNode() {}
func (*MessageReference) expressionNode()  {}
func (*TermReference) expressionNode()     {}
func (*FunctionReference) expressionNode() {}
func (*Placeable) expressionNode()         {}

func (*StringLiteral) inlineNode()     {}
func (*NumberLiteral) inlineNode()     {}
func (*VariableReference) inlineNode() {}
func (*MessageReference) inlineNode()  {}
func (*TermReference) inlineNode()     {}
func (*FunctionReference) inlineNode() {}
func (*Placeable) inlineNode()         {}
