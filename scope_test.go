package main

import (
	"math/big"
	"testing"

	"github.com/nalgeon/be"
)

func TestScopeDefineAndLookup(t *testing.T) {
	scope := NewScope(nil)
	v, err := scope.DefineVariable("x", "x", TypeInteger, true, big.NewInt(1))
	be.Err(t, err, nil)
	be.Equal(t, v.Type, TypeInteger)

	found, err := scope.LookupVariable("x")
	be.Err(t, err, nil)
	be.True(t, found == v)
}

func TestScopeLookupWalksParents(t *testing.T) {
	outer := NewScope(nil)
	_, err := outer.DefineVariable("x", "x", TypeInteger, true, nil)
	be.Err(t, err, nil)

	inner := NewScope(outer)
	found, err := inner.LookupVariable("x")
	be.Err(t, err, nil)
	be.Equal(t, found.Name, "x")
}

func TestScopeInnerDefinitionShadows(t *testing.T) {
	outer := NewScope(nil)
	outerVar, err := outer.DefineVariable("x", "x", TypeInteger, true, nil)
	be.Err(t, err, nil)

	inner := NewScope(outer)
	innerVar, err := inner.DefineVariable("x", "x", TypeString, true, nil)
	be.Err(t, err, nil)

	found, err := inner.LookupVariable("x")
	be.Err(t, err, nil)
	be.True(t, found == innerVar)
	be.True(t, found != outerVar)

	found, err = outer.LookupVariable("x")
	be.Err(t, err, nil)
	be.True(t, found == outerVar)
}

func TestScopeDuplicateVariable(t *testing.T) {
	scope := NewScope(nil)
	_, err := scope.DefineVariable("x", "x", TypeInteger, true, nil)
	be.Err(t, err, nil)
	_, err = scope.DefineVariable("x", "x", TypeInteger, true, nil)
	be.Err(t, err, "variable 'x' is already defined")
}

func TestScopeUndefinedVariable(t *testing.T) {
	scope := NewScope(nil)
	_, err := scope.LookupVariable("ghost")
	be.Err(t, err, "variable 'ghost' is not defined")
}

func TestScopeFunctionsAreKeyedByArity(t *testing.T) {
	scope := NewScope(nil)
	err := scope.DefineFunction(&FunctionBinding{Name: "f", ParameterTypes: nil, ReturnType: TypeNil})
	be.Err(t, err, nil)
	err = scope.DefineFunction(&FunctionBinding{Name: "f", ParameterTypes: []Type{TypeAny}, ReturnType: TypeNil})
	be.Err(t, err, nil)

	zero, err := scope.LookupFunction("f", 0)
	be.Err(t, err, nil)
	be.Equal(t, len(zero.ParameterTypes), 0)

	one, err := scope.LookupFunction("f", 1)
	be.Err(t, err, nil)
	be.Equal(t, len(one.ParameterTypes), 1)

	_, err = scope.LookupFunction("f", 2)
	be.Err(t, err, "function 'f/2' is not defined")
}

func TestScopeDuplicateFunction(t *testing.T) {
	scope := NewScope(nil)
	err := scope.DefineFunction(&FunctionBinding{Name: "f", ReturnType: TypeNil})
	be.Err(t, err, nil)
	err = scope.DefineFunction(&FunctionBinding{Name: "f", ReturnType: TypeNil})
	be.Err(t, err, "function 'f/0' is already defined")
}
