package lox

import (
	"math"
	"strconv"
)

// Value is any runtime value. The concrete types are comparable, so
// interface == gives same-variant structural equality and never
// equates values of different variants.
type Value interface {
	ValueString() string
	TypeName() string
}

type LoxString string
type LoxNumber float64
type LoxBool bool
type LoxNil struct{}

var Nil Value = LoxNil{}

func (s LoxString) ValueString() string { return string(s) }
func (s LoxString) TypeName() string    { return "string" }

func (n LoxNumber) ValueString() string { return FormatNumber(float64(n)) }
func (n LoxNumber) TypeName() string    { return "number" }

func (b LoxBool) ValueString() string { return strconv.FormatBool(bool(b)) }
func (b LoxBool) TypeName() string    { return "boolean" }

func (LoxNil) ValueString() string { return "null" }
func (LoxNil) TypeName() string    { return "nil" }

// FormatNumber renders the shortest decimal that round-trips, with no
// exponent: 5, 0.5, -3, 1000000000000000000000.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Render is the canonical string form used by print.
func Render(v Value) string {
	if v == nil {
		return Nil.ValueString()
	}
	return v.ValueString()
}

// IsTruthy: only nil and false are falsy.
func IsTruthy(v Value) bool {
	switch x := v.(type) {
	case nil, LoxNil:
		return false
	case LoxBool:
		return bool(x)
	}
	return true
}

func IsEqual(a, b Value) bool {
	if a == nil {
		a = Nil
	}
	if b == nil {
		b = Nil
	}
	return a == b
}

func castToNumber(v Value) (float64, bool) {
	n, ok := v.(LoxNumber)
	return float64(n), ok
}

func castToString(v Value) (string, bool) {
	s, ok := v.(LoxString)
	return string(s), ok
}
