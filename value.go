package main

import (
	"fmt"
	"math/big"
	"strings"
)

// Value is a fern runtime value. The concrete types are nil, bool,
// *big.Int (Integer), *big.Float (Decimal), rune (Character),
// string (String), and []Value (list).
type Value = any

// decimalPrec is the mantissa precision of Decimal values. The rounding
// mode is ToNearestEven everywhere, which gives the half-to-even division
// behavior the language requires.
const decimalPrec = 64

func newDecimal() *big.Float {
	return new(big.Float).SetPrec(decimalPrec).SetMode(big.ToNearestEven)
}

func parseDecimal(literal string) (*big.Float, error) {
	f, _, err := big.ParseFloat(literal, 10, decimalPrec, big.ToNearestEven)
	if err != nil {
		return nil, fmt.Errorf("invalid decimal literal '%s'", literal)
	}
	return f, nil
}

// valueString renders a value the way the print built-in shows it.
func valueString(v Value) string {
	switch v := v.(type) {
	case nil:
		return "NIL"
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
		return string(v)
	case string:
		return v
	case []Value:
		parts := make([]string, len(v))
		for i, el := range v {
			parts[i] = valueString(el)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		panic(fmt.Sprintf("valueString: illegal value %T", v))
	}
}

// formatDecimal renders a Decimal with the fewest digits that round-trip,
// keeping a trailing ".0" so integers stay visibly decimal.
func formatDecimal(f *big.Float) string {
	s := f.Text('g', -1)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// valueTypeName names a runtime value's type for fault messages.
func valueTypeName(v Value) string {
	switch v.(type) {
	case nil:
		return "Nil"
	case bool:
		return "Boolean"
	case *big.Int:
		return "Integer"
	case *big.Float:
		return "Decimal"
	case rune:
		return "Character"
	case string:
		return "String"
	case []Value:
		return "List"
	default:
		panic(fmt.Sprintf("valueTypeName: illegal value %T", v))
	}
}

// valueEquals is value equality: numerics compare numerically, lists
// element-wise, and values of different runtime types are never equal.
func valueEquals(a, b Value) bool {
	switch a := a.(type) {
	case nil:
		return b == nil
	case bool:
		bb, ok := b.(bool)
		return ok && a == bb
	case *big.Int:
		bb, ok := b.(*big.Int)
		return ok && a.Cmp(bb) == 0
	case *big.Float:
		bb, ok := b.(*big.Float)
		return ok && a.Cmp(bb) == 0
	case rune:
		bb, ok := b.(rune)
		return ok && a == bb
	case string:
		bb, ok := b.(string)
		return ok && a == bb
	case []Value:
		bb, ok := b.([]Value)
		if !ok || len(a) != len(bb) {
			return false
		}
		for i := range a {
			if !valueEquals(a[i], bb[i]) {
				return false
			}
		}
		return true
	default:
		panic(fmt.Sprintf("valueEquals: illegal value %T", a))
	}
}

// compareValues orders two values of the same comparable runtime type,
// returning <0, 0, or >0.
func compareValues(a, b Value) (int, error) {
	switch a := a.(type) {
	case *big.Int:
		if bb, ok := b.(*big.Int); ok {
			return a.Cmp(bb), nil
		}
	case *big.Float:
		if bb, ok := b.(*big.Float); ok {
			return a.Cmp(bb), nil
		}
	case rune:
		if bb, ok := b.(rune); ok {
			return int(a) - int(bb), nil
		}
	case string:
		if bb, ok := b.(string); ok {
			return strings.Compare(a, bb), nil
		}
	}
	return 0, fmt.Errorf("cannot compare %s to %s", valueTypeName(a), valueTypeName(b))
}
