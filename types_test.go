package main

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestTypeByName(t *testing.T) {
	for name, want := range map[string]Type{
		"Nil":        TypeNil,
		"Boolean":    TypeBoolean,
		"Integer":    TypeInteger,
		"Decimal":    TypeDecimal,
		"Character":  TypeCharacter,
		"String":     TypeString,
		"Comparable": TypeComparable,
		"Any":        TypeAny,
	} {
		typ, err := TypeByName(name)
		be.Err(t, err, nil)
		be.Equal(t, typ, want)
		be.Equal(t, typ.String(), name)
	}

	_, err := TypeByName("Float")
	be.Err(t, err, "unknown type 'Float'")
}

func TestRequireAssignableExactMatch(t *testing.T) {
	be.Err(t, RequireAssignable(TypeInteger, TypeInteger), nil)
	be.Err(t, RequireAssignable(TypeInteger, TypeDecimal), "cannot assign Decimal to Integer")
	be.Err(t, RequireAssignable(TypeNil, TypeString), "cannot assign String to Nil")
}

func TestRequireAssignableAnyAcceptsAll(t *testing.T) {
	for _, source := range []Type{TypeNil, TypeBoolean, TypeInteger, TypeDecimal, TypeCharacter, TypeString} {
		be.Err(t, RequireAssignable(TypeAny, source), nil)
	}
}

func TestRequireAssignableComparable(t *testing.T) {
	for _, source := range []Type{TypeInteger, TypeDecimal, TypeCharacter, TypeString, TypeComparable} {
		be.Err(t, RequireAssignable(TypeComparable, source), nil)
	}
	be.Err(t, RequireAssignable(TypeComparable, TypeBoolean), "cannot assign Boolean to Comparable")
	be.Err(t, RequireAssignable(TypeComparable, TypeNil), "cannot assign Nil to Comparable")
}

func TestRequireAssignableSupertypesAreNotSources(t *testing.T) {
	// A Comparable or Any value cannot flow into a concrete slot.
	be.Err(t, RequireAssignable(TypeInteger, TypeComparable), "cannot assign Comparable to Integer")
	be.Err(t, RequireAssignable(TypeString, TypeAny), "cannot assign Any to String")
}

func TestJavaTypeName(t *testing.T) {
	be.Equal(t, javaTypeName(TypeInteger), "int")
	be.Equal(t, javaTypeName(TypeDecimal), "double")
	be.Equal(t, javaTypeName(TypeBoolean), "boolean")
	be.Equal(t, javaTypeName(TypeCharacter), "char")
	be.Equal(t, javaTypeName(TypeString), "String")
	be.Equal(t, javaTypeName(TypeNil), "void")

	be.Equal(t, javaTypeNameFor("Integer"), "int")
	be.Equal(t, javaTypeNameFor("Mystery"), "void")
}
