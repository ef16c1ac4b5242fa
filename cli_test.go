package main

import (
	"math/big"
	"testing"

	"github.com/nalgeon/be"
)

func TestExitStatus(t *testing.T) {
	be.Equal(t, exitStatus(big.NewInt(0)), 0)
	be.Equal(t, exitStatus(big.NewInt(42)), 42)
	be.Equal(t, exitStatus(big.NewInt(125)), 125)
	be.Equal(t, exitStatus(big.NewInt(126)), 1)
	be.Equal(t, exitStatus(big.NewInt(-1)), 1)
	be.Equal(t, exitStatus(nil), 0)
}

func TestCompileSourceStopsAtFirstError(t *testing.T) {
	_, err := compileSource(`"unterminated`, true)
	be.Err(t, err, "unterminated string")

	_, err = compileSource("FUN main ( ) : Integer DO RETURN 1 END", true)
	be.Err(t, err, "missing semicolon")

	_, err = compileSource("FUN main ( ) : Integer DO RETURN x ; END", true)
	be.Err(t, err, "variable 'x' is not defined")
}

func TestCompileSourceSkipsAnalysisWhenAsked(t *testing.T) {
	// Unanalyzed parses still succeed with unresolved names.
	src, err := compileSource("FUN main ( ) : Integer DO RETURN x ; END", false)
	be.Err(t, err, nil)
	be.Equal(t, len(src.Functions), 1)
}
