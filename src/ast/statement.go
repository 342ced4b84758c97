// Package ast defines the Statement AST consumed by the codegen core. The
// lexer/parser that produces these values lives outside this module; ast
// only carries the shapes the Statement & Expression code generator needs
// to match on.
package ast

// SourceRange is a byte span into a source file, carried by every
// Statement for diagnostics only; code generation never inspects it beyond
// passing it along to reported errors.
type SourceRange struct {
	Start uint32
	End   uint32
	File  string
}

// Undefined returns a SourceRange with no useful location, used for
// synthesized statements that have no corresponding source text (e.g. the
// implicit literal "1" step of a FOR loop without BY).
func Undefined() SourceRange {
	return SourceRange{}
}

// Statement is the tagged-union AST node. Each concrete type below
// implements it; generators recover the concrete type with a type switch,
// mirroring the match expression in statement_generator.rs.
type Statement interface {
	isStatement()
	Range() SourceRange
}

// LiteralKind distinguishes the literal variants.
type LiteralKind int

const (
	LiteralInteger LiteralKind = iota
	LiteralReal
	LiteralBool
	LiteralString
)

// Assignment is `left := right`.
type Assignment struct {
	Left, Right Statement
	Location    SourceRange
}

func (Assignment) isStatement()            {}
func (a Assignment) Range() SourceRange    { return a.Location }

// ForLoop is `FOR counter := start TO end BY by_step DO body END_FOR`.
// ByStep is nil when the source omitted BY, in which case the generator
// uses a literal 1 typed to the counter's type.
type ForLoop struct {
	Counter  Statement
	Start    Statement
	End      Statement
	ByStep   Statement
	Body     []Statement
	Location SourceRange
}

func (ForLoop) isStatement()          {}
func (f ForLoop) Range() SourceRange { return f.Location }

// WhileLoop is `WHILE condition DO body END_WHILE`.
type WhileLoop struct {
	Condition Statement
	Body      []Statement
	Location  SourceRange
}

func (WhileLoop) isStatement()          {}
func (w WhileLoop) Range() SourceRange { return w.Location }

// RepeatLoop is `REPEAT body UNTIL condition END_REPEAT`.
type RepeatLoop struct {
	Condition Statement
	Body      []Statement
	Location  SourceRange
}

func (RepeatLoop) isStatement()          {}
func (r RepeatLoop) Range() SourceRange { return r.Location }

// ConditionalBlock pairs a condition with the statements to run when it
// holds; used by both If and Case.
type ConditionalBlock struct {
	Condition Statement
	Body      []Statement
}

// If is `IF blocks[0] THEN ... ELSIF blocks[1] THEN ... ELSE else_body END_IF`.
type If struct {
	Blocks   []ConditionalBlock
	ElseBody []Statement
	Location SourceRange
}

func (If) isStatement()          {}
func (i If) Range() SourceRange { return i.Location }

// Case is `CASE selector OF blocks[0]: ... ELSE else_body END_CASE`. Each
// block's Condition is an integer literal, which the generator lowers
// directly to the switch arm's constant; references to named constants are
// not resolved to constant values. Duplicate constants are accepted here
// and rejected only by an external Validator.
type Case struct {
	Selector Statement
	Blocks   []ConditionalBlock
	ElseBody []Statement
	Location SourceRange
}

func (Case) isStatement()          {}
func (c Case) Range() SourceRange { return c.Location }

// Reference is a (possibly unqualified) variable or POU name.
type Reference struct {
	Name     string
	Location SourceRange
}

func (Reference) isStatement()          {}
func (r Reference) Range() SourceRange { return r.Location }

// Literal is a constant value of one of the four supported kinds. Value
// holds the literal's raw text exactly as written in source (e.g. "16#FF",
// "2#1010", "3.14", "TRUE", "'hello'") so the Expression Generator controls
// parsing.
type Literal struct {
	Kind     LiteralKind
	Value    string
	Location SourceRange
}

func (Literal) isStatement()          {}
func (l Literal) Range() SourceRange { return l.Location }

// BinaryExpression is `left op right`.
type BinaryExpression struct {
	Op          string
	Left, Right Statement
	Location    SourceRange
}

func (BinaryExpression) isStatement()          {}
func (b BinaryExpression) Range() SourceRange { return b.Location }

// UnaryExpression is `op operand`, e.g. unary minus or NOT.
type UnaryExpression struct {
	Op       string
	Operand  Statement
	Location SourceRange
}

func (UnaryExpression) isStatement()          {}
func (u UnaryExpression) Range() SourceRange { return u.Location }

// Call is `operator(parameters)`.
type Call struct {
	Operator   Statement
	Parameters Statement // nil, or an ExpressionList
	Location   SourceRange
}

func (Call) isStatement()          {}
func (c Call) Range() SourceRange { return c.Location }

// ExpressionList is a comma-separated list of expressions, used for call
// arguments.
type ExpressionList struct {
	Items    []Statement
	Location SourceRange
}

func (ExpressionList) isStatement()          {}
func (e ExpressionList) Range() SourceRange { return e.Location }

// Empty is the statement produced for a stray/missing statement; it
// generates no IR.
type Empty struct {
	Location SourceRange
}

func (Empty) isStatement()          {}
func (e Empty) Range() SourceRange { return e.Location }
