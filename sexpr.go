package main

import (
	"fmt"
	"math/big"
	"strings"
)

// ToSExpr renders an AST node as a compact s-expression. It accepts
// expressions and statements; the tests and the ast subcommand use it to
// state expected parse trees without caring about struct layout.
func ToSExpr(node any) string {
	switch n := node.(type) {
	case Expression:
		return exprToSExpr(n)
	case Statement:
		return stmtToSExpr(n)
	default:
		panic(fmt.Sprintf("ToSExpr: illegal node %T", node))
	}
}

// SourceToSExpr renders a whole program, one global or function per form.
func SourceToSExpr(src *Source) string {
	var parts []string
	for _, g := range src.Globals {
		parts = append(parts, globalToSExpr(g))
	}
	for _, f := range src.Functions {
		parts = append(parts, functionToSExpr(f))
	}
	return "(source " + strings.Join(parts, " ") + ")"
}

func globalToSExpr(g *Global) string {
	kind := "val"
	if g.Mutable {
		kind = "var"
	}
	if _, ok := g.Value.(*ListLiteral); ok {
		kind = "list"
	}
	s := fmt.Sprintf("(%s %q %q", kind, g.Name, g.TypeName)
	if g.Value != nil {
		s += " " + exprToSExpr(g.Value)
	}
	return s + ")"
}

func functionToSExpr(f *Function) string {
	var params []string
	for i, name := range f.Parameters {
		params = append(params, fmt.Sprintf("(%q %q)", name, f.ParameterTypes[i]))
	}
	s := fmt.Sprintf("(fun %q (%s)", f.Name, strings.Join(params, " "))
	if f.ReturnTypeName != "" {
		s += fmt.Sprintf(" %q", f.ReturnTypeName)
	}
	return s + blockToSExpr(f.Body) + ")"
}

func blockToSExpr(statements []Statement) string {
	var b strings.Builder
	for _, s := range statements {
		b.WriteString(" ")
		b.WriteString(stmtToSExpr(s))
	}
	return b.String()
}

func stmtToSExpr(s Statement) string {
	switch s := s.(type) {
	case *ExpressionStatement:
		return "(expr " + exprToSExpr(s.Expr) + ")"
	case *Declaration:
		out := fmt.Sprintf("(let %q", s.Name)
		if s.TypeName != "" {
			out += fmt.Sprintf(" %q", s.TypeName)
		}
		if s.Value != nil {
			out += " " + exprToSExpr(s.Value)
		}
		return out + ")"
	case *Assignment:
		return "(assign " + exprToSExpr(s.Receiver) + " " + exprToSExpr(s.Value) + ")"
	case *If:
		out := "(if " + exprToSExpr(s.Condition) + " (then" + blockToSExpr(s.Then) + ")"
		if s.Else != nil {
			out += " (else" + blockToSExpr(s.Else) + ")"
		}
		return out + ")"
	case *Switch:
		out := "(switch " + exprToSExpr(s.Condition)
		for _, c := range s.Cases {
			if c.Value == nil {
				out += " (default" + blockToSExpr(c.Body) + ")"
			} else {
				out += " (case " + exprToSExpr(c.Value) + blockToSExpr(c.Body) + ")"
			}
		}
		return out + ")"
	case *While:
		return "(while " + exprToSExpr(s.Condition) + blockToSExpr(s.Body) + ")"
	case *Return:
		return "(return " + exprToSExpr(s.Value) + ")"
	default:
		panic(fmt.Sprintf("stmtToSExpr: illegal statement %T", s))
	}
}

func exprToSExpr(e Expression) string {
	switch e := e.(type) {
	case *Literal:
		return literalToSExpr(e.Value)
	case *Group:
		return "(group " + exprToSExpr(e.Inner) + ")"
	case *Binary:
		return fmt.Sprintf("(binary %q %s %s)", e.Op, exprToSExpr(e.Left), exprToSExpr(e.Right))
	case *Access:
		if e.Index != nil {
			return fmt.Sprintf("(access %q %s)", e.Name, exprToSExpr(e.Index))
		}
		return fmt.Sprintf("(access %q)", e.Name)
	case *Call:
		out := fmt.Sprintf("(call %q", e.Name)
		for _, arg := range e.Args {
			out += " " + exprToSExpr(arg)
		}
		return out + ")"
	case *ListLiteral:
		out := "(list"
		for _, el := range e.Elements {
			out += " " + exprToSExpr(el)
		}
		return out + ")"
	default:
		panic(fmt.Sprintf("exprToSExpr: illegal expression %T", e))
	}
}

func literalToSExpr(v Value) string {
	switch v := v.(type) {
	case nil:
		return "(nil)"
	case bool:
		return fmt.Sprintf("(boolean %t)", v)
	case *big.Int:
		return fmt.Sprintf("(integer %s)", v.String())
	case *big.Float:
		return fmt.Sprintf("(decimal %s)", formatDecimal(v))
	case rune:
		return fmt.Sprintf("(character %q)", string(v))
	case string:
		return fmt.Sprintf("(string %q)", v)
	default:
		panic(fmt.Sprintf("literalToSExpr: illegal value %T", v))
	}
}
