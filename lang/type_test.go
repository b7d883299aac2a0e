package lang

import (
	"errors"
	"testing"
)

func TestCoerce_Identity(t *testing.T) {
	values := []Value{
		NewIdent("foo", testSpan),
		NewIdent("r#type", testSpan),
		NewStr("", testSpan),
		NewStr("hello", testSpan),
		NewInt("42", testSpan),
		NewTokens(TypePath, lexStream(t, "std::vec::Vec<u8>")),
		NewTokens(TypeType, lexStream(t, "&'a [u8]")),
		NewTokens(TypeExpr, lexStream(t, "a + b")),
		NewTokens(TypeTokens, lexStream(t, "Result <")),
		NewTokens(TypeRaw, lexStream(t, "u32 ,")),
	}

	for _, v := range values {
		t.Run(v.String(), func(t *testing.T) {
			got, err := Coerce(v, v.Type)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !got.Equal(v) || got.Text() != v.Text() {
				t.Errorf("expected %s, got %s", v, got)
			}
		})
	}
}

func TestCoercionCost(t *testing.T) {
	tests := []struct {
		from, to Type
		cost     int
		ok       bool
	}{
		{TypeIdent, TypeIdent, 0, true},
		{TypeIdent, TypePath, 1, true},
		{TypeIdent, TypeType, 2, true},
		{TypeIdent, TypeExpr, 3, true},
		{TypeIdent, TypeTokens, 4, true},
		{TypeStr, TypeTokens, 4, true},
		{TypePath, TypeIdent, 0, false},
		{TypeStr, TypeIdent, 0, false},
		{TypeInt, TypeStr, 0, false},
		{TypeRaw, TypeTokens, 0, false},
		{TypeTokens, TypeRaw, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"->"+tt.to.String(), func(t *testing.T) {
			cost, ok := CoercionCost(tt.from, tt.to)
			if ok != tt.ok || ok && cost != tt.cost {
				t.Errorf("expected (%d, %v), got (%d, %v)", tt.cost, tt.ok, cost, ok)
			}
		})
	}
}

func TestCoerce_Mismatch(t *testing.T) {
	_, err := Coerce(NewStr("x", testSpan), TypeIdent)
	if !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("expected ErrTypeMismatch, got %v", err)
	}
}

func TestParseType(t *testing.T) {
	for _, name := range []string{"ident", "path", "type", "expr", "str", "int", "tokens", "raw"} {
		typ, ok := ParseType(name)
		if !ok || typ.String() != name {
			t.Errorf("ParseType(%q) = %v, %v", name, typ, ok)
		}
	}

	if _, ok := ParseType("bool"); ok {
		t.Errorf("expected bool to be unknown")
	}
}
