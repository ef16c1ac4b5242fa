package main

import (
	"fmt"
	"math"
	"math/big"
)

// Analyzer resolves names and types over a parsed Source. It fills every
// expression's type slot and every access/call/declaration binding slot;
// after a successful Analyze the tree is fully typed and the interpreter and
// generator never fail on a name or type again.
type Analyzer struct {
	scope    *Scope
	function *Function
}

// NewAnalyzer builds an analyzer whose root scope contains the built-in
// functions. The only built-in is print/1, which accepts any value.
func NewAnalyzer(parent *Scope) *Analyzer {
	scope := NewScope(parent)
	err := scope.DefineFunction(&FunctionBinding{
		Name:           "print",
		JavaName:       "System.out.println",
		ParameterTypes: []Type{TypeAny},
		ReturnType:     TypeNil,
	})
	if err != nil {
		panic(err)
	}
	return &Analyzer{scope: scope}
}

func (a *Analyzer) Analyze(src *Source) error {
	for _, g := range src.Globals {
		if err := a.analyzeGlobal(g); err != nil {
			return err
		}
	}
	for _, f := range src.Functions {
		if err := a.analyzeFunction(f); err != nil {
			return err
		}
	}
	main, err := a.scope.LookupFunction("main", 0)
	if err != nil {
		return fmt.Errorf("missing main/0 function")
	}
	if main.ReturnType != TypeInteger {
		return fmt.Errorf("main/0 must return Integer")
	}
	return nil
}

func (a *Analyzer) analyzeGlobal(g *Global) error {
	if g.Value != nil {
		if err := a.analyzeExpression(g.Value); err != nil {
			return err
		}
	}
	typ, err := TypeByName(g.TypeName)
	if err != nil {
		return err
	}
	if g.Value != nil {
		// An empty list literal has no element to take a type from; it
		// adopts the declared type.
		if list, ok := g.Value.(*ListLiteral); ok && len(list.Elements) == 0 {
			list.setType(typ)
		}
		if err := RequireAssignable(typ, g.Value.Type()); err != nil {
			return err
		}
	}
	v, err := a.scope.DefineVariable(g.Name, g.Name, typ, g.Mutable, nil)
	if err != nil {
		return err
	}
	g.bind(v)
	return nil
}

func (a *Analyzer) analyzeFunction(f *Function) error {
	parameterTypes := make([]Type, len(f.ParameterTypes))
	for i, name := range f.ParameterTypes {
		typ, err := TypeByName(name)
		if err != nil {
			return err
		}
		parameterTypes[i] = typ
	}
	returnType := TypeNil
	if f.ReturnTypeName != "" {
		typ, err := TypeByName(f.ReturnTypeName)
		if err != nil {
			return err
		}
		returnType = typ
	}
	binding := &FunctionBinding{
		Name:           f.Name,
		JavaName:       f.Name,
		ParameterTypes: parameterTypes,
		ReturnType:     returnType,
	}
	if err := a.scope.DefineFunction(binding); err != nil {
		return err
	}
	f.bind(binding)

	prev := a.function
	a.function = f
	defer func() { a.function = prev }()
	return a.inChildScope(func() error {
		for i, name := range f.Parameters {
			if _, err := a.scope.DefineVariable(name, name, parameterTypes[i], true, nil); err != nil {
				return err
			}
		}
		return a.analyzeBlock(f.Body)
	})
}

// inChildScope runs fn with a fresh child scope pushed, popping it again on
// every path out of fn.
func (a *Analyzer) inChildScope(fn func() error) error {
	a.scope = NewScope(a.scope)
	defer func() { a.scope = a.scope.Parent() }()
	return fn()
}

func (a *Analyzer) analyzeBlock(statements []Statement) error {
	for _, s := range statements {
		if err := a.analyzeStatement(s); err != nil {
			return err
		}
	}
	return nil
}

func (a *Analyzer) analyzeStatement(stmt Statement) error {
	switch s := stmt.(type) {
	case *ExpressionStatement:
		if _, ok := s.Expr.(*Call); !ok {
			return fmt.Errorf("invalid expression statement")
		}
		return a.analyzeExpression(s.Expr)
	case *Declaration:
		return a.analyzeDeclaration(s)
	case *Assignment:
		return a.analyzeAssignment(s)
	case *If:
		if err := a.analyzeCondition(s.Condition); err != nil {
			return err
		}
		if len(s.Then) == 0 {
			return fmt.Errorf("missing then block")
		}
		if err := a.inChildScope(func() error { return a.analyzeBlock(s.Then) }); err != nil {
			return err
		}
		return a.inChildScope(func() error { return a.analyzeBlock(s.Else) })
	case *Switch:
		return a.analyzeSwitch(s)
	case *While:
		if err := a.analyzeCondition(s.Condition); err != nil {
			return err
		}
		return a.inChildScope(func() error { return a.analyzeBlock(s.Body) })
	case *Return:
		if err := a.analyzeExpression(s.Value); err != nil {
			return err
		}
		if got := s.Value.Type(); got != a.function.Binding.ReturnType {
			return fmt.Errorf("cannot return %s from a function returning %s", got, a.function.Binding.ReturnType)
		}
		return nil
	default:
		panic(fmt.Sprintf("analyzeStatement: illegal statement %T", stmt))
	}
}

func (a *Analyzer) analyzeDeclaration(d *Declaration) error {
	if d.Value != nil {
		if err := a.analyzeExpression(d.Value); err != nil {
			return err
		}
	}
	var typ Type
	switch {
	case d.TypeName != "":
		t, err := TypeByName(d.TypeName)
		if err != nil {
			return err
		}
		typ = t
		if d.Value != nil {
			if err := RequireAssignable(typ, d.Value.Type()); err != nil {
				return err
			}
		}
	case d.Value != nil:
		typ = d.Value.Type()
	default:
		return fmt.Errorf("cannot declare '%s' without a type or a value", d.Name)
	}
	v, err := a.scope.DefineVariable(d.Name, d.Name, typ, true, nil)
	if err != nil {
		return err
	}
	d.bind(v)
	return nil
}

func (a *Analyzer) analyzeAssignment(s *Assignment) error {
	access, ok := s.Receiver.(*Access)
	if !ok {
		return fmt.Errorf("invalid assignment target")
	}
	if err := a.analyzeExpression(s.Value); err != nil {
		return err
	}
	if err := a.analyzeExpression(access); err != nil {
		return err
	}
	return RequireAssignable(access.Variable.Type, s.Value.Type())
}

func (a *Analyzer) analyzeSwitch(s *Switch) error {
	if err := a.analyzeExpression(s.Condition); err != nil {
		return err
	}
	for _, c := range s.Cases {
		if c.Value != nil {
			if err := a.analyzeExpression(c.Value); err != nil {
				return err
			}
			if c.Value.Type() != s.Condition.Type() {
				return fmt.Errorf("case value must be %s, got %s", s.Condition.Type(), c.Value.Type())
			}
		}
		if err := a.inChildScope(func() error { return a.analyzeBlock(c.Body) }); err != nil {
			return err
		}
	}
	return nil
}

func (a *Analyzer) analyzeCondition(e Expression) error {
	if err := a.analyzeExpression(e); err != nil {
		return err
	}
	if e.Type() != TypeBoolean {
		return fmt.Errorf("condition must be a Boolean, got %s", e.Type())
	}
	return nil
}

func (a *Analyzer) analyzeExpression(expr Expression) error {
	switch e := expr.(type) {
	case *Literal:
		return a.analyzeLiteral(e)
	case *Group:
		if _, ok := e.Inner.(*Binary); !ok {
			return fmt.Errorf("parentheses must contain a binary expression")
		}
		if err := a.analyzeExpression(e.Inner); err != nil {
			return err
		}
		e.setType(e.Inner.Type())
		return nil
	case *Binary:
		return a.analyzeBinary(e)
	case *Access:
		return a.analyzeAccess(e)
	case *Call:
		return a.analyzeCall(e)
	case *ListLiteral:
		return a.analyzeListLiteral(e)
	default:
		panic(fmt.Sprintf("analyzeExpression: illegal expression %T", expr))
	}
}

var (
	minInteger = big.NewInt(math.MinInt32)
	maxInteger = big.NewInt(math.MaxInt32)
)

func (a *Analyzer) analyzeLiteral(e *Literal) error {
	switch v := e.Value.(type) {
	case nil:
		e.setType(TypeNil)
	case bool:
		e.setType(TypeBoolean)
	case *big.Int:
		if v.Cmp(minInteger) < 0 || v.Cmp(maxInteger) > 0 {
			return fmt.Errorf("integer literal '%s' does not fit in 32 bits", v)
		}
		e.setType(TypeInteger)
	case *big.Float:
		if v.IsInf() {
			return fmt.Errorf("decimal literal out of range")
		}
		e.setType(TypeDecimal)
	case rune:
		e.setType(TypeCharacter)
	case string:
		e.setType(TypeString)
	default:
		panic(fmt.Sprintf("analyzeLiteral: illegal value %T", e.Value))
	}
	return nil
}

func (a *Analyzer) analyzeBinary(e *Binary) error {
	if err := a.analyzeExpression(e.Left); err != nil {
		return err
	}
	if err := a.analyzeExpression(e.Right); err != nil {
		return err
	}
	left, right := e.Left.Type(), e.Right.Type()
	switch e.Op {
	case "&&", "||":
		if left != TypeBoolean || right != TypeBoolean {
			return fmt.Errorf("operands of '%s' must be Boolean, got %s and %s", e.Op, left, right)
		}
		e.setType(TypeBoolean)
	case "<", ">", "==", "!=":
		if !IsComparable(left) || left != right {
			return fmt.Errorf("cannot compare %s to %s", left, right)
		}
		e.setType(TypeBoolean)
	case "+":
		if left == TypeString || right == TypeString {
			e.setType(TypeString)
			return nil
		}
		if err := requireNumericPair(e.Op, left, right); err != nil {
			return err
		}
		e.setType(left)
	case "-", "*", "/":
		if err := requireNumericPair(e.Op, left, right); err != nil {
			return err
		}
		e.setType(left)
	case "^":
		if left != TypeInteger {
			return fmt.Errorf("cannot apply '^' to %s", left)
		}
		if right != TypeInteger {
			return fmt.Errorf("exponent must be an Integer, got %s", right)
		}
		e.setType(TypeInteger)
	default:
		panic(fmt.Sprintf("analyzeBinary: illegal operator %q", e.Op))
	}
	return nil
}

func requireNumericPair(op string, left, right Type) error {
	if (left != TypeInteger && left != TypeDecimal) || left != right {
		return fmt.Errorf("cannot apply '%s' to %s and %s", op, left, right)
	}
	return nil
}

func (a *Analyzer) analyzeAccess(e *Access) error {
	v, err := a.scope.LookupVariable(e.Name)
	if err != nil {
		return err
	}
	e.bind(v)
	if e.Index != nil {
		if err := a.analyzeExpression(e.Index); err != nil {
			return err
		}
		if e.Index.Type() != TypeInteger {
			return fmt.Errorf("list index must be an Integer, got %s", e.Index.Type())
		}
	}
	return nil
}

func (a *Analyzer) analyzeCall(e *Call) error {
	for _, arg := range e.Args {
		if err := a.analyzeExpression(arg); err != nil {
			return err
		}
	}
	binding, err := a.scope.LookupFunction(e.Name, len(e.Args))
	if err != nil {
		return err
	}
	for i, arg := range e.Args {
		if err := RequireAssignable(binding.ParameterTypes[i], arg.Type()); err != nil {
			return err
		}
	}
	e.bind(binding)
	return nil
}

// analyzeListLiteral types a list by its first element; every later element
// must be assignable to that type. An empty literal is left untyped here and
// adopts the declared type at its global declaration.
func (a *Analyzer) analyzeListLiteral(e *ListLiteral) error {
	for _, el := range e.Elements {
		if err := a.analyzeExpression(el); err != nil {
			return err
		}
	}
	if len(e.Elements) == 0 {
		return nil
	}
	first := e.Elements[0].Type()
	for _, el := range e.Elements[1:] {
		if err := RequireAssignable(first, el.Type()); err != nil {
			return err
		}
	}
	e.setType(first)
	return nil
}
