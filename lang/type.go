package lang

import (
	"log/slog"
)

// Type identifies the variant of a [Value].
type Type uint8

const (
	TypeIdent  Type = iota + 1 // ident
	TypePath                   // path
	TypeType                   // type
	TypeExpr                   // expr
	TypeStr                    // str
	TypeInt                    // int
	TypeTokens                 // tokens
	TypeRaw                    // raw
)

var typeNames = [...]string{
	TypeIdent:  "ident",
	TypePath:   "path",
	TypeType:   "type",
	TypeExpr:   "expr",
	TypeStr:    "str",
	TypeInt:    "int",
	TypeTokens: "tokens",
	TypeRaw:    "raw",
}

// String returns the name of t as written in signatures.
func (t Type) String() string {
	if int(t) < len(typeNames) && typeNames[t] != "" {
		return typeNames[t]
	}

	return "invalid"
}

// ParseType returns the Type named s.
func ParseType(s string) (Type, bool) {
	for t, name := range typeNames {
		if name != "" && name == s {
			return Type(t), true
		}
	}

	return 0, false
}

// coercion is one edge of the implicit conversion table.
type coercion struct {
	from, to Type
}

var coercions = map[coercion]int{
	{TypeIdent, TypePath}: 1,
	{TypeIdent, TypeType}: 2,
	{TypeIdent, TypeExpr}: 3,
}

// tokensCost is the cost of coercing any value to [TypeTokens].
const tokensCost = 4

// CoercionCost returns the cost of implicitly converting a value of type
// from to type to. The identity costs 0. ok is false when no implicit
// conversion exists.
func CoercionCost(from, to Type) (cost int, ok bool) {
	switch {
	case from == to:
		return 0, true
	case to == TypeTokens && from != TypeRaw:
		return tokensCost, true
	}

	cost, ok = coercions[coercion{from, to}]

	return cost, ok
}

// Coerce converts v to target along the implicit conversion table.
// The rendered tokens are unchanged; only the type is reinterpreted.
func Coerce(v Value, target Type) (Value, error) {
	if _, ok := CoercionCost(v.Type, target); !ok {
		return Value{}, ErrTypeMismatch.At(v.Span).
			Withf("cannot coerce " + v.Type.String() + " to " + target.String()).
			With(slog.String("from", v.Type.String()), slog.String("to", target.String()))
	}

	v.Type = target

	return v, nil
}

// Param is one parameter of a [Signature].
type Param struct {
	Type Type
	// Variadic marks a trailing parameter that binds zero or more arguments.
	Variadic bool
}

// Accepts reports whether an argument of type t may bind to p and at what
// cost. Variadic parameters compare their element types.
func (p Param) Accepts(t Type) (int, bool) {
	if p.Type == TypeRaw || t == TypeRaw {
		return 0, p.Type == t
	}

	return CoercionCost(t, p.Type)
}

// String returns the parameter as written in signatures, e.g. "ident...".
func (p Param) String() string {
	if p.Variadic {
		return p.Type.String() + "..."
	}

	return p.Type.String()
}
