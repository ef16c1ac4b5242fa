package main

import (
	"fmt"
	"io"
	"math/big"
)

// Interpreter walks an analyzed Source directly. Runtime state lives in the
// same Scope type the analyzer uses; the interpreter only reads and writes
// the value cells.
type Interpreter struct {
	scope *Scope
	out   io.Writer
}

// control is the signal a statement hands back up the block stack: either
// the block completed normally, or a RETURN fired and value must travel to
// the nearest function invocation.
type control struct {
	returned bool
	value    Value
}

var completed = control{}

// NewInterpreter builds an interpreter whose root scope holds the print/1
// built-in, which writes the value's display form and a newline to out.
func NewInterpreter(out io.Writer) *Interpreter {
	scope := NewScope(nil)
	err := scope.DefineFunction(&FunctionBinding{
		Name:           "print",
		JavaName:       "System.out.println",
		ParameterTypes: []Type{TypeAny},
		ReturnType:     TypeNil,
		Call: func(args []Value) (Value, error) {
			if _, err := fmt.Fprintln(out, valueString(args[0])); err != nil {
				return nil, err
			}
			return nil, nil
		},
	})
	if err != nil {
		panic(err)
	}
	return &Interpreter{scope: scope, out: out}
}

// Run evaluates the globals in order, installs every function, then invokes
// main/0 and returns its result.
func (i *Interpreter) Run(src *Source) (Value, error) {
	for _, g := range src.Globals {
		var value Value
		if g.Value != nil {
			v, err := i.eval(g.Value)
			if err != nil {
				return nil, err
			}
			value = v
		}
		if _, err := i.scope.DefineVariable(g.Name, g.Name, TypeAny, g.Mutable, value); err != nil {
			return nil, err
		}
	}
	for _, f := range src.Functions {
		if err := i.defineFunction(f); err != nil {
			return nil, err
		}
	}
	main, err := i.scope.LookupFunction("main", 0)
	if err != nil {
		return nil, err
	}
	return main.Call(nil)
}

// defineFunction installs an invoker closure. Each invocation runs in a
// fresh child of the scope the function was defined in, so recursive and
// repeated calls never see each other's locals.
func (i *Interpreter) defineFunction(f *Function) error {
	defScope := i.scope
	return i.scope.DefineFunction(&FunctionBinding{
		Name:           f.Name,
		JavaName:       f.Name,
		ParameterTypes: make([]Type, len(f.Parameters)),
		ReturnType:     TypeAny,
		Call: func(args []Value) (Value, error) {
			prev := i.scope
			i.scope = NewScope(defScope)
			defer func() { i.scope = prev }()
			for n, name := range f.Parameters {
				if _, err := i.scope.DefineVariable(name, name, TypeAny, true, args[n]); err != nil {
					return nil, err
				}
			}
			ctrl, err := i.execBlock(f.Body)
			if err != nil {
				return nil, err
			}
			if ctrl.returned {
				return ctrl.value, nil
			}
			return nil, nil
		},
	})
}

// inChildScope runs fn with a fresh child scope pushed, popping it again on
// every path out of fn.
func (i *Interpreter) inChildScope(fn func() (control, error)) (control, error) {
	i.scope = NewScope(i.scope)
	defer func() { i.scope = i.scope.Parent() }()
	return fn()
}

func (i *Interpreter) execBlock(statements []Statement) (control, error) {
	for _, s := range statements {
		ctrl, err := i.execStatement(s)
		if err != nil {
			return completed, err
		}
		if ctrl.returned {
			return ctrl, nil
		}
	}
	return completed, nil
}

func (i *Interpreter) execStatement(stmt Statement) (control, error) {
	switch s := stmt.(type) {
	case *ExpressionStatement:
		_, err := i.eval(s.Expr)
		return completed, err
	case *Declaration:
		var value Value
		if s.Value != nil {
			v, err := i.eval(s.Value)
			if err != nil {
				return completed, err
			}
			value = v
		}
		_, err := i.scope.DefineVariable(s.Name, s.Name, TypeAny, true, value)
		return completed, err
	case *Assignment:
		return completed, i.execAssignment(s)
	case *If:
		return i.execIf(s)
	case *Switch:
		return i.execSwitch(s)
	case *While:
		return i.execWhile(s)
	case *Return:
		value, err := i.eval(s.Value)
		if err != nil {
			return completed, err
		}
		return control{returned: true, value: value}, nil
	default:
		panic(fmt.Sprintf("execStatement: illegal statement %T", stmt))
	}
}

func (i *Interpreter) execAssignment(s *Assignment) error {
	access := s.Receiver.(*Access)
	value, err := i.eval(s.Value)
	if err != nil {
		return err
	}
	variable, err := i.scope.LookupVariable(access.Name)
	if err != nil {
		return err
	}
	if access.Index == nil {
		variable.Value = value
		return nil
	}
	list, index, err := i.evalIndex(variable, access.Index)
	if err != nil {
		return err
	}
	list[index] = value
	return nil
}

func (i *Interpreter) execIf(s *If) (control, error) {
	cond, err := i.evalBool(s.Condition)
	if err != nil {
		return completed, err
	}
	body := s.Then
	if !cond {
		body = s.Else
	}
	return i.inChildScope(func() (control, error) { return i.execBlock(body) })
}

// execSwitch runs the body of the first case whose value equals the
// condition. The last case is the default and always matches.
func (i *Interpreter) execSwitch(s *Switch) (control, error) {
	cond, err := i.eval(s.Condition)
	if err != nil {
		return completed, err
	}
	for _, c := range s.Cases {
		if c.Value != nil {
			v, err := i.eval(c.Value)
			if err != nil {
				return completed, err
			}
			if !valueEquals(cond, v) {
				continue
			}
		}
		return i.inChildScope(func() (control, error) { return i.execBlock(c.Body) })
	}
	return completed, nil
}

func (i *Interpreter) execWhile(s *While) (control, error) {
	for {
		cond, err := i.evalBool(s.Condition)
		if err != nil {
			return completed, err
		}
		if !cond {
			return completed, nil
		}
		ctrl, err := i.inChildScope(func() (control, error) { return i.execBlock(s.Body) })
		if err != nil {
			return completed, err
		}
		if ctrl.returned {
			return ctrl, nil
		}
	}
}

func (i *Interpreter) eval(expr Expression) (Value, error) {
	switch e := expr.(type) {
	case *Literal:
		return e.Value, nil
	case *Group:
		return i.eval(e.Inner)
	case *Binary:
		return i.evalBinary(e)
	case *Access:
		return i.evalAccess(e)
	case *Call:
		return i.evalCall(e)
	case *ListLiteral:
		elements := make([]Value, len(e.Elements))
		for n, el := range e.Elements {
			v, err := i.eval(el)
			if err != nil {
				return nil, err
			}
			elements[n] = v
		}
		return elements, nil
	default:
		panic(fmt.Sprintf("eval: illegal expression %T", expr))
	}
}

func (i *Interpreter) evalAccess(e *Access) (Value, error) {
	variable, err := i.scope.LookupVariable(e.Name)
	if err != nil {
		return nil, err
	}
	if e.Index == nil {
		return variable.Value, nil
	}
	list, index, err := i.evalIndex(variable, e.Index)
	if err != nil {
		return nil, err
	}
	return list[index], nil
}

// evalIndex resolves a list element position, checking the value is a list
// and the index is in range.
func (i *Interpreter) evalIndex(variable *Variable, indexExpr Expression) ([]Value, int, error) {
	list, ok := variable.Value.([]Value)
	if !ok {
		return nil, 0, fmt.Errorf("cannot index a non-list value")
	}
	indexValue, err := i.eval(indexExpr)
	if err != nil {
		return nil, 0, err
	}
	index, err := requireInt(indexValue)
	if err != nil {
		return nil, 0, err
	}
	n := int(index.Int64())
	if !index.IsInt64() || n < 0 || n >= len(list) {
		return nil, 0, fmt.Errorf("list index %s out of range", index)
	}
	return list, n, nil
}

func (i *Interpreter) evalCall(e *Call) (Value, error) {
	args := make([]Value, len(e.Args))
	for n, arg := range e.Args {
		v, err := i.eval(arg)
		if err != nil {
			return nil, err
		}
		args[n] = v
	}
	binding, err := i.scope.LookupFunction(e.Name, len(e.Args))
	if err != nil {
		return nil, err
	}
	return binding.Call(args)
}

func (i *Interpreter) evalBinary(e *Binary) (Value, error) {
	// || short-circuits; && deliberately evaluates both operands.
	if e.Op == "||" {
		left, err := i.evalBool(e.Left)
		if err != nil {
			return nil, err
		}
		if left {
			return true, nil
		}
		return i.evalBool(e.Right)
	}
	left, err := i.eval(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.eval(e.Right)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case "&&":
		l, err := requireBool(left)
		if err != nil {
			return nil, err
		}
		r, err := requireBool(right)
		if err != nil {
			return nil, err
		}
		return l && r, nil
	case "<":
		cmp, err := compareValues(left, right)
		if err != nil {
			return nil, err
		}
		return cmp < 0, nil
	case ">":
		cmp, err := compareValues(left, right)
		if err != nil {
			return nil, err
		}
		return cmp > 0, nil
	case "==":
		return valueEquals(left, right), nil
	case "!=":
		return !valueEquals(left, right), nil
	case "+":
		return evalAdd(left, right)
	case "-", "*", "/":
		return evalArithmetic(e.Op, left, right)
	case "^":
		return evalExponent(left, right)
	default:
		panic(fmt.Sprintf("evalBinary: illegal operator %q", e.Op))
	}
}

func (i *Interpreter) evalBool(e Expression) (bool, error) {
	v, err := i.eval(e)
	if err != nil {
		return false, err
	}
	return requireBool(v)
}

func evalAdd(left, right Value) (Value, error) {
	if _, ok := left.(string); ok {
		return left.(string) + valueString(right), nil
	}
	if _, ok := right.(string); ok {
		return valueString(left) + right.(string), nil
	}
	return evalArithmetic("+", left, right)
}

func evalArithmetic(op string, left, right Value) (Value, error) {
	if l, ok := left.(*big.Int); ok {
		r, err := requireInt(right)
		if err != nil {
			return nil, err
		}
		switch op {
		case "+":
			return new(big.Int).Add(l, r), nil
		case "-":
			return new(big.Int).Sub(l, r), nil
		case "*":
			return new(big.Int).Mul(l, r), nil
		case "/":
			if r.Sign() == 0 {
				return nil, fmt.Errorf("cannot divide by zero")
			}
			return new(big.Int).Quo(l, r), nil
		}
	}
	if l, ok := left.(*big.Float); ok {
		r, err := requireDecimal(right)
		if err != nil {
			return nil, err
		}
		switch op {
		case "+":
			return newDecimal().Add(l, r), nil
		case "-":
			return newDecimal().Sub(l, r), nil
		case "*":
			return newDecimal().Mul(l, r), nil
		case "/":
			if r.Sign() == 0 {
				return nil, fmt.Errorf("cannot divide by zero")
			}
			return newDecimal().Quo(l, r), nil
		}
	}
	return nil, fmt.Errorf("cannot apply '%s' to %s and %s", op, valueTypeName(left), valueTypeName(right))
}

// evalExponent squares the accumulator once per unit of the exponent, so
// n ^ 0 is n and 2 ^ 2 is 16. Both operands must be Integers and the
// exponent non-negative.
func evalExponent(left, right Value) (Value, error) {
	base, err := requireInt(left)
	if err != nil {
		return nil, err
	}
	exp, err := requireInt(right)
	if err != nil {
		return nil, err
	}
	if exp.Sign() < 0 {
		return nil, fmt.Errorf("cannot raise to a negative power")
	}
	steps := exp.Int64()
	result := new(big.Int).Set(base)
	for n := int64(0); n < steps; n++ {
		result.Mul(result, result)
	}
	return result, nil
}

func requireBool(v Value) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("expected a Boolean value, got %s", valueTypeName(v))
	}
	return b, nil
}

func requireInt(v Value) (*big.Int, error) {
	i, ok := v.(*big.Int)
	if !ok {
		return nil, fmt.Errorf("expected an Integer value, got %s", valueTypeName(v))
	}
	return i, nil
}

func requireDecimal(v Value) (*big.Float, error) {
	f, ok := v.(*big.Float)
	if !ok {
		return nil, fmt.Errorf("expected a Decimal value, got %s", valueTypeName(v))
	}
	return f, nil
}
