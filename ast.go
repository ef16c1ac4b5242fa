package main

// The AST is produced once by the parser and never restructured afterwards.
// The only mutation later passes perform is filling each expression's
// resolved-type slot and each access/call/declaration binding slot, exactly
// once, during analysis. Reading a slot before it is written, or writing it
// twice, is a programming error and panics.

// Source is the root node: all global declarations followed by all function
// declarations, in source order.
type Source struct {
	Globals   []*Global
	Functions []*Function
}

// Global is a top-level LIST, VAR, or VAL declaration.
type Global struct {
	Name     string
	TypeName string
	Mutable  bool
	Value    Expression // nil when declared without an initializer
	Variable *Variable  // binding slot, written by the analyzer
}

func (g *Global) bind(v *Variable) {
	if g.Variable != nil {
		panic("global binding set twice")
	}
	g.Variable = v
}

// Function is a FUN declaration.
type Function struct {
	Name           string
	Parameters     []string
	ParameterTypes []string
	ReturnTypeName string // "" when omitted; treated as Nil
	Body           []Statement
	Binding        *FunctionBinding // binding slot, written by the analyzer
}

func (f *Function) bind(fb *FunctionBinding) {
	if f.Binding != nil {
		panic("function binding set twice")
	}
	f.Binding = fb
}

// Statement is the closed set of statement nodes. Every concrete statement
// type lives in this file; consumers dispatch with a type switch and panic
// on anything else.
type Statement interface {
	stmtNode()
}

type ExpressionStatement struct {
	Expr Expression
}

type Declaration struct {
	Name     string
	TypeName string     // "" when omitted
	Value    Expression // nil when omitted
	Variable *Variable  // binding slot, written by the analyzer
}

func (d *Declaration) bind(v *Variable) {
	if d.Variable != nil {
		panic("declaration binding set twice")
	}
	d.Variable = v
}

type Assignment struct {
	Receiver Expression
	Value    Expression
}

type If struct {
	Condition Expression
	Then      []Statement
	Else      []Statement
}

// Case is one arm of a Switch. The final arm of every parser-produced
// switch is the default and has a nil Value; no other arm may.
type Case struct {
	Value Expression
	Body  []Statement
}

type Switch struct {
	Condition Expression
	Cases     []*Case
}

type While struct {
	Condition Expression
	Body      []Statement
}

type Return struct {
	Value Expression
}

func (*ExpressionStatement) stmtNode() {}
func (*Declaration) stmtNode()         {}
func (*Assignment) stmtNode()          {}
func (*If) stmtNode()                  {}
func (*Switch) stmtNode()              {}
func (*While) stmtNode()               {}
func (*Return) stmtNode()              {}

// Expression is the closed set of expression nodes. Type() reads the
// resolved-type slot and panics if the node has not been analyzed.
type Expression interface {
	exprNode()
	Type() Type
}

// typeSlot is the write-once resolved-type slot shared by expression nodes
// that carry their own type (Access and Call derive theirs from a binding).
type typeSlot struct {
	typ Type
}

func (s *typeSlot) Type() Type {
	if s.typ == TypeUnset {
		panic("expression type read before analysis")
	}
	return s.typ
}

func (s *typeSlot) setType(t Type) {
	if s.typ != TypeUnset {
		panic("expression type set twice")
	}
	s.typ = t
}

// Literal holds a constant: nil, bool, *big.Int, *big.Float, rune, or string.
type Literal struct {
	typeSlot
	Value Value
}

type Group struct {
	typeSlot
	Inner Expression
}

type Binary struct {
	typeSlot
	Op    string
	Left  Expression
	Right Expression
}

// Access reads a variable, or an element of it when Index is non-nil.
type Access struct {
	Index    Expression // nil for plain variable access
	Name     string
	Variable *Variable // binding slot, written by the analyzer
}

func (a *Access) Type() Type {
	if a.Variable == nil {
		panic("access type read before analysis")
	}
	return a.Variable.Type
}

func (a *Access) bind(v *Variable) {
	if a.Variable != nil {
		panic("access binding set twice")
	}
	a.Variable = v
}

type Call struct {
	Name    string
	Args    []Expression
	Binding *FunctionBinding // binding slot, written by the analyzer
}

func (c *Call) Type() Type {
	if c.Binding == nil {
		panic("call type read before analysis")
	}
	return c.Binding.ReturnType
}

func (c *Call) bind(fb *FunctionBinding) {
	if c.Binding != nil {
		panic("call binding set twice")
	}
	c.Binding = fb
}

type ListLiteral struct {
	typeSlot
	Elements []Expression
}

func (*Literal) exprNode()     {}
func (*Group) exprNode()       {}
func (*Binary) exprNode()      {}
func (*Access) exprNode()      {}
func (*Call) exprNode()        {}
func (*ListLiteral) exprNode() {}
