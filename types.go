package main

import "fmt"

// Type is one point of the fern type lattice. Comparable and Any are
// supertype placeholders used only by assignability checks; no runtime value
// ever has either as its concrete type.
type Type int

const (
	TypeUnset Type = iota

	TypeNil
	TypeBoolean
	TypeInteger
	TypeDecimal
	TypeCharacter
	TypeString
	TypeComparable
	TypeAny
)

func (t Type) String() string {
	switch t {
	case TypeUnset:
		return "Unset"
	case TypeNil:
		return "Nil"
	case TypeBoolean:
		return "Boolean"
	case TypeInteger:
		return "Integer"
	case TypeDecimal:
		return "Decimal"
	case TypeCharacter:
		return "Character"
	case TypeString:
		return "String"
	case TypeComparable:
		return "Comparable"
	case TypeAny:
		return "Any"
	default:
		panic(fmt.Sprintf("Type.String(): illegal type %d", int(t)))
	}
}

// TypeByName resolves a declared type name from source text.
func TypeByName(name string) (Type, error) {
	switch name {
	case "Nil":
		return TypeNil, nil
	case "Boolean":
		return TypeBoolean, nil
	case "Integer":
		return TypeInteger, nil
	case "Decimal":
		return TypeDecimal, nil
	case "Character":
		return TypeCharacter, nil
	case "String":
		return TypeString, nil
	case "Comparable":
		return TypeComparable, nil
	case "Any":
		return TypeAny, nil
	default:
		return TypeUnset, fmt.Errorf("unknown type '%s'", name)
	}
}

// IsComparable reports whether values of t have a natural ordering.
// Comparable itself qualifies: a Comparable-typed slot always holds one of
// the four ordered types at runtime.
func IsComparable(t Type) bool {
	return t == TypeInteger || t == TypeDecimal || t == TypeCharacter || t == TypeString ||
		t == TypeComparable
}

// RequireAssignable checks that a value of type source may be stored into a
// slot of type target: Any accepts everything, Comparable accepts the four
// comparable types, everything else requires an exact match.
func RequireAssignable(target, source Type) error {
	if target == TypeAny {
		return nil
	}
	if target == TypeComparable && IsComparable(source) {
		return nil
	}
	if target != source {
		return fmt.Errorf("cannot assign %s to %s", source, target)
	}
	return nil
}

// javaTypeName renders an analyzer-resolved type as a Java type name.
func javaTypeName(t Type) string {
	switch t {
	case TypeCharacter:
		return "char"
	case TypeBoolean:
		return "boolean"
	case TypeString:
		return "String"
	case TypeInteger:
		return "int"
	case TypeDecimal:
		return "double"
	default:
		return "void"
	}
}

// javaTypeNameFor renders a declared type name from source text as a Java
// type name, without requiring the name to have been resolved.
func javaTypeNameFor(name string) string {
	t, err := TypeByName(name)
	if err != nil {
		return "void"
	}
	return javaTypeName(t)
}
