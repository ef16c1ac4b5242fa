package main

import (
	"testing"

	"github.com/nalgeon/be"
)

func analyzeProgram(t *testing.T, input string) (*Source, error) {
	t.Helper()
	src := parseProgram(t, input)
	err := NewAnalyzer(nil).Analyze(src)
	return src, err
}

func TestAnalyzeResolvesExpressionTypes(t *testing.T) {
	src, err := analyzeProgram(t, `
FUN main ( ) : Integer DO
    LET x : Integer = 1 + 2 ;
    LET ok : Boolean = x < 10 ;
    LET msg : String = "x = " + x ;
    RETURN x ;
END
`)
	be.Err(t, err, nil)
	body := src.Functions[0].Body
	be.Equal(t, body[0].(*Declaration).Value.Type(), TypeInteger)
	be.Equal(t, body[1].(*Declaration).Value.Type(), TypeBoolean)
	be.Equal(t, body[2].(*Declaration).Value.Type(), TypeString)
}

func TestAnalyzeBindsAccessAndCall(t *testing.T) {
	src, err := analyzeProgram(t, `
VAL limit : Integer = 10 ;

FUN main ( ) : Integer DO
    print ( limit ) ;
    RETURN limit ;
END
`)
	be.Err(t, err, nil)

	call := src.Functions[0].Body[0].(*ExpressionStatement).Expr.(*Call)
	be.Equal(t, call.Binding.JavaName, "System.out.println")
	be.Equal(t, call.Type(), TypeNil)

	ret := src.Functions[0].Body[1].(*Return)
	access := ret.Value.(*Access)
	be.Equal(t, access.Variable.Name, "limit")
	be.Equal(t, access.Type(), TypeInteger)
}

func TestAnalyzeInfersDeclarationTypeFromValue(t *testing.T) {
	src, err := analyzeProgram(t, `
FUN main ( ) : Integer DO
    LET x = 1.5 ;
    RETURN 0 ;
END
`)
	be.Err(t, err, nil)
	decl := src.Functions[0].Body[0].(*Declaration)
	be.Equal(t, decl.Variable.Type, TypeDecimal)
}

func TestAnalyzeDeclarationNeedsTypeOrValue(t *testing.T) {
	_, err := analyzeProgram(t, `
FUN main ( ) : Integer DO
    LET x ;
    RETURN 0 ;
END
`)
	be.Err(t, err, "cannot declare 'x' without a type or a value")
}

func TestAnalyzeParametersAreBoundInBody(t *testing.T) {
	src, err := analyzeProgram(t, `
FUN add ( a : Integer , b : Integer ) : Integer DO
    RETURN a + b ;
END

FUN main ( ) : Integer DO
    RETURN add ( 1 , 2 ) ;
END
`)
	be.Err(t, err, nil)
	ret := src.Functions[0].Body[0].(*Return)
	be.Equal(t, ret.Value.Type(), TypeInteger)
}

func TestAnalyzeMissingMain(t *testing.T) {
	_, err := analyzeProgram(t, "VAL x : Integer = 1 ;")
	be.Err(t, err, "missing main/0 function")
}

func TestAnalyzeMainMustReturnInteger(t *testing.T) {
	_, err := analyzeProgram(t, `
FUN main ( ) : String DO
    RETURN "hi" ;
END
`)
	be.Err(t, err, "main/0 must return Integer")
}

func TestAnalyzeReturnTypeMismatch(t *testing.T) {
	_, err := analyzeProgram(t, `
FUN main ( ) : Integer DO
    RETURN "hi" ;
END
`)
	be.Err(t, err, "cannot return String from a function returning Integer")
}

func TestAnalyzeReturnTypeIsExact(t *testing.T) {
	// A supertype return slot does not admit a concrete value's type.
	_, err := analyzeProgram(t, `
FUN pick ( ) : Comparable DO
    RETURN 1 ;
END

FUN main ( ) : Integer DO
    RETURN 0 ;
END
`)
	be.Err(t, err, "cannot return Integer from a function returning Comparable")
}

func TestAnalyzeEmptyListAdoptsDeclaredType(t *testing.T) {
	src, err := analyzeProgram(t, `
LIST xs : Decimal = [ ] ;

FUN main ( ) : Integer DO
    RETURN 0 ;
END
`)
	be.Err(t, err, nil)
	list := src.Globals[0].Value.(*ListLiteral)
	be.Equal(t, list.Type(), TypeDecimal)
}

func TestAnalyzeListElementMismatch(t *testing.T) {
	_, err := analyzeProgram(t, `
LIST xs : Integer = [ 1 , "two" ] ;

FUN main ( ) : Integer DO
    RETURN 0 ;
END
`)
	be.Err(t, err, "cannot assign String to Integer")
}

func TestAnalyzeCallArityIsPartOfTheName(t *testing.T) {
	_, err := analyzeProgram(t, `
FUN add ( a : Integer , b : Integer ) : Integer DO
    RETURN a + b ;
END

FUN main ( ) : Integer DO
    RETURN add ( 1 ) ;
END
`)
	be.Err(t, err, "function 'add/1' is not defined")
}

func TestAnalyzeArgumentTypeMismatch(t *testing.T) {
	_, err := analyzeProgram(t, `
FUN double ( n : Integer ) : Integer DO
    RETURN n * 2 ;
END

FUN main ( ) : Integer DO
    RETURN double ( "two" ) ;
END
`)
	be.Err(t, err, "cannot assign String to Integer")
}

func TestAnalyzeAnyAcceptsEverything(t *testing.T) {
	_, err := analyzeProgram(t, `
FUN show ( x : Any ) : Nil DO
    print ( x ) ;
END

FUN main ( ) : Integer DO
    show ( 1 ) ;
    show ( "hi" ) ;
    show ( NIL ) ;
    RETURN 0 ;
END
`)
	be.Err(t, err, nil)
}

func TestAnalyzeComparableRejectsBoolean(t *testing.T) {
	_, err := analyzeProgram(t, `
FUN smaller ( a : Comparable , b : Comparable ) : Boolean DO
    RETURN a < b ;
END

FUN main ( ) : Integer DO
    RETURN 0 ;
END
`)
	be.Err(t, err, nil)

	_, err = analyzeProgram(t, `
FUN smaller ( a : Comparable , b : Comparable ) : Boolean DO
    RETURN a < b ;
END

FUN main ( ) : Integer DO
    print ( smaller ( TRUE , FALSE ) ) ;
    RETURN 0 ;
END
`)
	be.Err(t, err, "cannot assign Boolean to Comparable")
}

func TestAnalyzeLogicalOperandsMustBeBoolean(t *testing.T) {
	_, err := analyzeProgram(t, `
FUN main ( ) : Integer DO
    LET ok : Boolean = 1 && 2 ;
    RETURN 0 ;
END
`)
	be.Err(t, err, "operands of '&&' must be Boolean")
}

func TestAnalyzeMixedArithmeticRejected(t *testing.T) {
	_, err := analyzeProgram(t, `
FUN main ( ) : Integer DO
    RETURN 1 + 2.5 ;
END
`)
	be.Err(t, err, "cannot apply '+' to Integer and Decimal")
}

func TestAnalyzeExponentNeedsIntegerExponent(t *testing.T) {
	_, err := analyzeProgram(t, `
FUN main ( ) : Integer DO
    RETURN 2 ^ 0.5 ;
END
`)
	be.Err(t, err, "exponent must be an Integer, got Decimal")
}

func TestAnalyzeIntegerLiteralBounds(t *testing.T) {
	_, err := analyzeProgram(t, `
FUN main ( ) : Integer DO
    RETURN 2147483647 ;
END
`)
	be.Err(t, err, nil)

	_, err = analyzeProgram(t, `
FUN main ( ) : Integer DO
    RETURN 2147483648 ;
END
`)
	be.Err(t, err, "does not fit in 32 bits")
}

func TestAnalyzeUnknownType(t *testing.T) {
	_, err := analyzeProgram(t, `
FUN main ( ) : Number DO
    RETURN 0 ;
END
`)
	be.Err(t, err, "unknown type 'Number'")
}

func TestAnalyzeSwitchCaseTypeMismatch(t *testing.T) {
	_, err := analyzeProgram(t, `
FUN main ( ) : Integer DO
    SWITCH 1
    CASE "one" :
        print ( "one" ) ;
    DEFAULT :
        print ( "many" ) ;
    END
    RETURN 0 ;
END
`)
	be.Err(t, err, "case value must be Integer, got String")
}

func TestAnalyzeGroupMustContainBinary(t *testing.T) {
	_, err := analyzeProgram(t, `
FUN main ( ) : Integer DO
    RETURN ( 1 ) ;
END
`)
	be.Err(t, err, "parentheses must contain a binary expression")

	_, err = analyzeProgram(t, `
FUN main ( ) : Integer DO
    RETURN ( 1 + 2 ) * 3 ;
END
`)
	be.Err(t, err, nil)
}

func TestAnalyzeEqualityOperandsMustBeComparable(t *testing.T) {
	_, err := analyzeProgram(t, `
FUN main ( ) : Integer DO
    LET same : Boolean = TRUE == NIL ;
    RETURN 0 ;
END
`)
	be.Err(t, err, "cannot compare Boolean to Nil")

	_, err = analyzeProgram(t, `
FUN main ( ) : Integer DO
    LET same : Boolean = 1 != 2 ;
    RETURN 0 ;
END
`)
	be.Err(t, err, nil)
}

func TestAnalyzeExponentBaseMustBeInteger(t *testing.T) {
	_, err := analyzeProgram(t, `
FUN main ( ) : Integer DO
    print ( 2.0 ^ 2 ) ;
    RETURN 0 ;
END
`)
	be.Err(t, err, "cannot apply '^' to Decimal")
}

func TestAnalyzeIfRequiresThenBlock(t *testing.T) {
	_, err := analyzeProgram(t, `
FUN main ( ) : Integer DO
    IF TRUE DO
    END
    RETURN 0 ;
END
`)
	be.Err(t, err, "missing then block")
}

func TestAnalyzeLoopLocalsEndWithTheLoop(t *testing.T) {
	_, err := analyzeProgram(t, `
FUN main ( ) : Integer DO
    WHILE FALSE DO
        LET t : Integer = 1 ;
    END
    print ( t ) ;
    RETURN 0 ;
END
`)
	be.Err(t, err, "variable 't' is not defined")
}
