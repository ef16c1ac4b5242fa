package main

import (
	"fmt"
	"math/big"
	"strings"
)

// Generator renders an analyzed Source as a single Java compilation unit.
// The program becomes `public class Main`; a static main delegates to an
// instance main so the fern main/0 result can become the exit status.
type Generator struct {
	builder strings.Builder
	indent  int
}

// GenerateJava renders src as Java source text. The source must have been
// analyzed: the generator reads the binding slots for types and names.
func GenerateJava(src *Source) string {
	g := &Generator{}
	g.writeLine("public class Main {")
	g.blank()
	g.indent++
	if len(src.Globals) > 0 {
		for _, global := range src.Globals {
			g.writeGlobal(global)
		}
		g.blank()
	}
	g.writeLine("public static void main(String[] args) {")
	g.indent++
	g.writeLine("System.exit(new Main().main());")
	g.indent--
	g.writeLine("}")
	g.blank()
	for _, f := range src.Functions {
		g.writeFunction(f)
		g.blank()
	}
	g.indent--
	g.writeLine("}")
	return g.builder.String()
}

func (g *Generator) writeLine(s string) {
	for n := 0; n < g.indent; n++ {
		g.builder.WriteString("    ")
	}
	g.builder.WriteString(s)
	g.builder.WriteString("\n")
}

func (g *Generator) blank() {
	g.builder.WriteString("\n")
}

func (g *Generator) writeGlobal(global *Global) {
	typ := javaTypeName(global.Variable.Type)
	switch {
	case !global.Mutable:
		g.writeLine(fmt.Sprintf("final %s %s = %s;", typ, global.Variable.JavaName, javaExpr(global.Value)))
	case global.Value == nil:
		g.writeLine(fmt.Sprintf("%s %s;", typ, global.Variable.JavaName))
	default:
		if list, ok := global.Value.(*ListLiteral); ok {
			g.writeLine(fmt.Sprintf("%s[] %s = %s;", typ, global.Variable.JavaName, javaListLiteral(list)))
			return
		}
		g.writeLine(fmt.Sprintf("%s %s = %s;", typ, global.Variable.JavaName, javaExpr(global.Value)))
	}
}

func (g *Generator) writeFunction(f *Function) {
	params := make([]string, len(f.Parameters))
	for i, name := range f.Parameters {
		params[i] = javaTypeNameFor(f.ParameterTypes[i]) + " " + name
	}
	returnType := javaTypeName(f.Binding.ReturnType)
	g.writeLine(fmt.Sprintf("%s %s(%s) {", returnType, f.Binding.JavaName, strings.Join(params, ", ")))
	g.indent++
	g.writeBlock(f.Body)
	g.indent--
	g.writeLine("}")
}

func (g *Generator) writeBlock(statements []Statement) {
	for _, s := range statements {
		g.writeStatement(s)
	}
}

func (g *Generator) writeStatement(stmt Statement) {
	switch s := stmt.(type) {
	case *ExpressionStatement:
		g.writeLine(javaExpr(s.Expr) + ";")
	case *Declaration:
		typ := javaTypeName(s.Variable.Type)
		if s.Value == nil {
			g.writeLine(fmt.Sprintf("%s %s;", typ, s.Variable.JavaName))
		} else {
			g.writeLine(fmt.Sprintf("%s %s = %s;", typ, s.Variable.JavaName, javaExpr(s.Value)))
		}
	case *Assignment:
		g.writeLine(javaExpr(s.Receiver) + " = " + javaExpr(s.Value) + ";")
	case *If:
		g.writeIf(s)
	case *Switch:
		g.writeSwitch(s)
	case *While:
		// An empty loop body still needs a statement for the semicolon.
		if len(s.Body) == 0 {
			g.writeLine("while (" + javaExpr(s.Condition) + ") ;")
			return
		}
		g.writeLine("while (" + javaExpr(s.Condition) + ") {")
		g.indent++
		g.writeBlock(s.Body)
		g.indent--
		g.writeLine("}")
	case *Return:
		g.writeLine("return " + javaExpr(s.Value) + ";")
	default:
		panic(fmt.Sprintf("writeStatement: illegal statement %T", stmt))
	}
}

func (g *Generator) writeIf(s *If) {
	g.writeLine("if (" + javaExpr(s.Condition) + ") {")
	g.indent++
	g.writeBlock(s.Then)
	g.indent--
	if s.Else == nil {
		g.writeLine("}")
		return
	}
	g.writeLine("} else {")
	g.indent++
	g.writeBlock(s.Else)
	g.indent--
	g.writeLine("}")
}

func (g *Generator) writeSwitch(s *Switch) {
	g.writeLine("switch (" + javaExpr(s.Condition) + ") {")
	g.indent++
	for _, c := range s.Cases {
		if c.Value == nil {
			g.writeLine("default:")
			g.indent++
			g.writeBlock(c.Body)
			g.indent--
		} else {
			g.writeLine("case " + javaExpr(c.Value) + ":")
			g.indent++
			g.writeBlock(c.Body)
			g.writeLine("break;")
			g.indent--
		}
	}
	g.indent--
	g.writeLine("}")
}

func javaExpr(expr Expression) string {
	switch e := expr.(type) {
	case *Literal:
		return javaLiteral(e.Value)
	case *Group:
		return "(" + javaExpr(e.Inner) + ")"
	case *Binary:
		if e.Op == "^" {
			return "Math.pow(" + javaExpr(e.Left) + ", " + javaExpr(e.Right) + ")"
		}
		return javaExpr(e.Left) + " " + e.Op + " " + javaExpr(e.Right)
	case *Access:
		if e.Index != nil {
			return e.Variable.JavaName + "[" + javaExpr(e.Index) + "]"
		}
		return e.Variable.JavaName
	case *Call:
		args := make([]string, len(e.Args))
		for i, arg := range e.Args {
			args[i] = javaExpr(arg)
		}
		return e.Binding.JavaName + "(" + strings.Join(args, ", ") + ")"
	case *ListLiteral:
		return javaListLiteral(e)
	default:
		panic(fmt.Sprintf("javaExpr: illegal expression %T", expr))
	}
}

func javaListLiteral(list *ListLiteral) string {
	elements := make([]string, len(list.Elements))
	for i, el := range list.Elements {
		elements[i] = javaExpr(el)
	}
	return "{" + strings.Join(elements, ", ") + "}"
}

func javaLiteral(v Value) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case bool:
		if v {
			return "true"
		}
		return "false"
	case *big.Int:
		return v.String()
	case *big.Float:
		return formatDecimal(v)
	case rune:
		return "'" + javaEscape(string(v), '\'') + "'"
	case string:
		return "\"" + javaEscape(v, '"') + "\""
	default:
		panic(fmt.Sprintf("javaLiteral: illegal value %T", v))
	}
}

func javaEscape(s string, quote byte) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\':
			b.WriteString(`\\`)
		case c == quote:
			b.WriteByte('\\')
			b.WriteByte(c)
		case c == '\b':
			b.WriteString(`\b`)
		case c == '\n':
			b.WriteString(`\n`)
		case c == '\r':
			b.WriteString(`\r`)
		case c == '\t':
			b.WriteString(`\t`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
