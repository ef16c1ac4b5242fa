package main

import (
	"math/big"
	"testing"

	"github.com/nalgeon/be"
)

func parseProgram(t *testing.T, input string) *Source {
	t.Helper()
	tokens, err := NewLexer(input).Lex()
	be.Err(t, err, nil)
	src, err := NewParser(tokens).ParseSource()
	be.Err(t, err, nil)
	return src
}

func parseExpr(t *testing.T, input string) Expression {
	t.Helper()
	tokens, err := NewLexer(input).Lex()
	be.Err(t, err, nil)
	expr, err := NewParser(tokens).ParseExpression()
	be.Err(t, err, nil)
	return expr
}

func TestParseGlobalsAndFunctions(t *testing.T) {
	src := parseProgram(t, `
VAL limit : Integer = 10 ;
VAR count : Integer ;
LIST names : String = [ "a" , "b" ] ;

FUN main ( ) : Integer DO
    RETURN 0 ;
END
`)
	be.Equal(t, len(src.Globals), 3)
	be.Equal(t, len(src.Functions), 1)

	be.Equal(t, src.Globals[0].Name, "limit")
	be.Equal(t, src.Globals[0].Mutable, false)
	be.Equal(t, src.Globals[1].Name, "count")
	be.Equal(t, src.Globals[1].Mutable, true)
	be.True(t, src.Globals[1].Value == nil)

	list, ok := src.Globals[2].Value.(*ListLiteral)
	be.True(t, ok)
	be.Equal(t, len(list.Elements), 2)

	be.Equal(t, src.Functions[0].Name, "main")
	be.Equal(t, src.Functions[0].ReturnTypeName, "Integer")
}

func TestParseFunctionParameters(t *testing.T) {
	src := parseProgram(t, `
FUN add ( a : Integer , b : Integer ) : Integer DO
    RETURN a + b ;
END
`)
	f := src.Functions[0]
	be.Equal(t, f.Parameters, []string{"a", "b"})
	be.Equal(t, f.ParameterTypes, []string{"Integer", "Integer"})
}

func TestParseDeclarationKeepsTypeAndValue(t *testing.T) {
	src := parseProgram(t, `
FUN main ( ) : Integer DO
    LET x : Integer = 5 ;
    RETURN x ;
END
`)
	decl, ok := src.Functions[0].Body[0].(*Declaration)
	be.True(t, ok)
	be.Equal(t, decl.Name, "x")
	be.Equal(t, decl.TypeName, "Integer")
	lit, ok := decl.Value.(*Literal)
	be.True(t, ok)
	be.Equal(t, lit.Value.(*big.Int).Int64(), 5)
}

func TestParseDeclarationWithoutInitializer(t *testing.T) {
	src := parseProgram(t, `
FUN main ( ) : Integer DO
    LET x : Integer ;
    RETURN 0 ;
END
`)
	decl := src.Functions[0].Body[0].(*Declaration)
	be.Equal(t, decl.TypeName, "Integer")
	be.True(t, decl.Value == nil)
}

func TestParseAssignmentVersusExpressionStatement(t *testing.T) {
	src := parseProgram(t, `
FUN main ( ) : Integer DO
    x = 1 ;
    nums [ 0 ] = 2 ;
    print ( x ) ;
    RETURN 0 ;
END
`)
	body := src.Functions[0].Body
	_, ok := body[0].(*Assignment)
	be.True(t, ok)
	indexed := body[1].(*Assignment)
	access := indexed.Receiver.(*Access)
	be.True(t, access.Index != nil)
	_, ok = body[2].(*ExpressionStatement)
	be.True(t, ok)
}

func TestParseIfElse(t *testing.T) {
	src := parseProgram(t, `
FUN main ( ) : Integer DO
    IF x > 0 DO
        print ( "pos" ) ;
    ELSE
        print ( "neg" ) ;
    END
    RETURN 0 ;
END
`)
	s := src.Functions[0].Body[0].(*If)
	be.Equal(t, len(s.Then), 1)
	be.Equal(t, len(s.Else), 1)
	be.Equal(t, ToSExpr(s), `(if (binary ">" (access "x") (integer 0)) (then (expr (call "print" (string "pos")))) (else (expr (call "print" (string "neg")))))`)
}

func TestParseSwitchDefaultIsLast(t *testing.T) {
	src := parseProgram(t, `
FUN main ( ) : Integer DO
    SWITCH x
    CASE 1 :
        print ( "one" ) ;
    DEFAULT :
        print ( "many" ) ;
    END
    RETURN 0 ;
END
`)
	s := src.Functions[0].Body[0].(*Switch)
	be.Equal(t, len(s.Cases), 2)
	be.True(t, s.Cases[0].Value != nil)
	be.True(t, s.Cases[1].Value == nil)
}

func TestParseSwitchRequiresDefault(t *testing.T) {
	tokens, err := NewLexer(`
FUN main ( ) : Integer DO
    SWITCH x
    CASE 1 :
        print ( "one" ) ;
    END
    RETURN 0 ;
END
`).Lex()
	be.Err(t, err, nil)
	_, err = NewParser(tokens).ParseSource()
	be.Err(t, err, "missing default case")
}

func TestParseMissingSemicolonOffset(t *testing.T) {
	tokens, err := NewLexer("FUN main ( ) : Integer DO RETURN 1 END").Lex()
	be.Err(t, err, nil)
	_, err = NewParser(tokens).ParseSource()
	be.Err(t, err, "missing semicolon")

	sourceErr, ok := err.(*SourceError)
	be.True(t, ok)
	be.Equal(t, sourceErr.Offset, 35)
}

func TestParseErrorAtEndOfInput(t *testing.T) {
	tokens, err := NewLexer("FUN main ( ) : Integer DO").Lex()
	be.Err(t, err, nil)
	_, err = NewParser(tokens).ParseSource()
	be.Err(t, err, "missing 'END'")
}

func TestParseCharacterEscape(t *testing.T) {
	lit := parseExpr(t, `'\n'`).(*Literal)
	be.Equal(t, lit.Value.(rune), '\n')
}

func TestParseStringUnescapes(t *testing.T) {
	lit := parseExpr(t, `"a\"b\tc\\d"`).(*Literal)
	be.Equal(t, lit.Value.(string), "a\"b\tc\\d")
}

func TestParseIntegerLiteral(t *testing.T) {
	lit := parseExpr(t, "-42").(*Literal)
	be.Equal(t, lit.Value.(*big.Int).Int64(), -42)
}

func TestParseEmptyList(t *testing.T) {
	src := parseProgram(t, "LIST xs : Integer = [ ] ;")
	list := src.Globals[0].Value.(*ListLiteral)
	be.Equal(t, len(list.Elements), 0)
}

func TestParseTopLevelRejectsStatements(t *testing.T) {
	tokens, err := NewLexer("LET x = 1 ;").Lex()
	be.Err(t, err, nil)
	_, err = NewParser(tokens).ParseSource()
	be.Err(t, err, "expected a global declaration")
}
