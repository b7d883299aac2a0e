package lang

import (
	"context"
	"strings"
	"sync"

	"github.com/iancoleman/strcase"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ardnew/compose/lang/syntax"
	"github.com/ardnew/compose/lang/token"
	"github.com/ardnew/compose/log"
)

// env is the evaluation context shared by builtins during one pass.
type env struct {
	ctx    context.Context
	scope  *Scope
	logger log.Logger
}

//nolint:gochecknoglobals
var (
	builtinsOnce sync.Once
	builtins     Funcs
)

// Builtins returns the registry of builtin functions. The registry is
// shared and must not be modified.
func Builtins() Funcs {
	builtinsOnce.Do(func() {
		builtins = make(Funcs)
		defineBuiltins(builtins)
	})

	return builtins
}

func defineBuiltins(fs Funcs) {
	caseFunc := func(name, doc string, conv func(string) string) {
		fs.define(name, doc, TypeStr, strFunc(conv), one(TypeStr))
		fs.define(name, doc, TypeIdent, identFunc(conv), one(TypeIdent))
	}

	// A Caser is stateful, so each call gets its own.
	upper := func(s string) string { return cases.Upper(language.Und).String(s) }
	lower := func(s string) string { return cases.Lower(language.Und).String(s) }

	caseFunc("upper", "Converts to upper case.", upper)
	caseFunc("lower", "Converts to lower case.", lower)
	caseFunc("snake_case", "Converts to snake_case.", strcase.ToSnake)
	caseFunc("camel_case", "Converts to camelCase.", strcase.ToLowerCamel)
	caseFunc("pascal_case", "Converts to PascalCase.", strcase.ToCamel)

	fs.define("normalize", "Converts unevaluated tokens to an identifier.",
		TypeIdent, normalizeRaw, one(TypeRaw))
	fs.define("normalize2", "Converts any value to an identifier.",
		TypeIdent, normalizeValue, one(TypeTokens))

	fs.define("concat", "Concatenates values.", TypeIdent, concatIdent, many(TypeIdent))
	fs.define("concat", "Concatenates values.", TypeIdent, concatIdent,
		one(TypeIdent), many(TypeTokens))
	fs.define("concat", "Concatenates values.", TypeStr, concatStr, many(TypeStr))
	fs.define("concat", "Concatenates values.", TypeInt, concatInt, many(TypeInt))
	fs.define("concat", "Concatenates values.", TypeTokens, concatTokens, many(TypeTokens))

	hashDoc := "Hashes a value, deterministically within one invocation."
	fs.define("hash", hashDoc, TypeStr, hashStr, one(TypeStr))
	fs.define("hash", hashDoc, TypeIdent, hashIdent, one(TypeIdent))
	fs.define("hash", hashDoc, TypeIdent, hashIdent, one(TypeTokens))

	fs.define("to_ident", "Casts to an identifier.", TypeIdent, toIdent, one(TypeTokens))
	fs.define("to_path", "Casts to a path.", TypePath,
		toCategory(TypePath, syntax.CatPath), one(TypeTokens))
	fs.define("to_type", "Casts to a type.", TypeType,
		toCategory(TypeType, syntax.CatType), one(TypeTokens))
	fs.define("to_expr", "Casts to an expression.", TypeExpr,
		toCategory(TypeExpr, syntax.CatExpr), one(TypeTokens))
	fs.define("to_str", "Casts to a string literal.", TypeStr, toStr, one(TypeTokens))
	fs.define("to_int", "Casts to an integer literal.", TypeInt, toInt, one(TypeTokens))
	fs.define("to_tokens", "Casts to tokens.", TypeTokens, toTokens, one(TypeTokens))

	fs.define("raw", "Passes tokens through unevaluated.", TypeTokens, toTokens, one(TypeRaw))
}

func strFunc(conv func(string) string) impl {
	return func(_ *env, span token.Span, args []Value) (Value, error) {
		return NewStr(conv(args[0].Text()), span), nil
	}
}

func identFunc(conv func(string) string) impl {
	return func(_ *env, span token.Span, args []Value) (Value, error) {
		return identResult(conv(args[0].Text()), span)
	}
}

// identResult returns name as an ident value. Keywords are written as raw
// identifiers where Rust allows it.
func identResult(name string, span token.Span) (Value, error) {
	if !token.IsIdentifier(name) || strings.HasPrefix(name, "r#") {
		return Value{}, ErrEval.At(span).Withf(
			"\"" + name + "\" is not a valid identifier")
	}

	switch name {
	case "_":
		return NewIdent(name, span), nil
	case "self", "super", "crate", "Self":
		return Value{}, ErrEval.At(span).Withf(
			"\"" + name + "\" cannot be used as an identifier")
	}

	if syntax.IsKeyword(name) {
		name = "r#" + name
	}

	return NewIdent(name, span), nil
}

func normalizeRaw(_ *env, span token.Span, args []Value) (Value, error) {
	return NewIdent(Normalize(token.Format(args[0].Tokens)), span), nil
}

func normalizeValue(_ *env, span token.Span, args []Value) (Value, error) {
	return identResult(Normalize(args[0].Text()), span)
}

func joinText(args []Value) string {
	var b strings.Builder

	for _, a := range args {
		b.WriteString(a.Text())
	}

	return b.String()
}

func concatIdent(_ *env, span token.Span, args []Value) (Value, error) {
	return identResult(joinText(args), span)
}

func concatStr(_ *env, span token.Span, args []Value) (Value, error) {
	return NewStr(joinText(args), span), nil
}

func concatInt(_ *env, span token.Span, args []Value) (Value, error) {
	return NewInt(joinText(args), span), nil
}

func concatTokens(_ *env, _ token.Span, args []Value) (Value, error) {
	var ts token.Stream

	for _, a := range args {
		ts = append(ts, a.Tokens...)
	}

	return NewTokens(TypeTokens, ts), nil
}

func hashStr(e *env, span token.Span, args []Value) (Value, error) {
	return NewStr(e.scope.Hash(args[0].Text()), span), nil
}

func hashIdent(e *env, span token.Span, args []Value) (Value, error) {
	return NewIdent(e.scope.HashIdent(args[0].Text()), span), nil
}

func invalidCast(v Value, to Type) error {
	return ErrInvalidCast.At(v.Span).Withf(
		"cannot cast " + v.Type.String() + " `" + token.Canonical(v.Tokens) +
			"` to " + to.String())
}

// single returns the value of v's only token, re-typed from its token kind.
func single(v Value) (Value, bool) {
	if len(v.Tokens) != 1 {
		return Value{}, false
	}

	return valueOf(v.Tokens[0])
}

func toIdent(_ *env, span token.Span, args []Value) (Value, error) {
	v, ok := single(args[0])

	switch {
	case !ok:
		return Value{}, invalidCast(args[0], TypeIdent)
	case v.Type == TypeIdent && syntax.IsIdent(v.Tokens[0]), v.Type == TypeIdent && v.text == "_":
		return NewIdent(v.Tokens[0].Name(), span), nil
	case v.Type == TypeStr && token.IsIdentifier(v.text):
		if out, err := identResult(v.text, span); err == nil {
			return out, nil
		}
	}

	return Value{}, invalidCast(args[0], TypeIdent)
}

func toStr(_ *env, span token.Span, args []Value) (Value, error) {
	v, ok := single(args[0])
	if !ok || v.Type != TypeIdent && v.Type != TypeStr {
		return Value{}, invalidCast(args[0], TypeStr)
	}

	return NewStr(v.text, span), nil
}

func toInt(_ *env, span token.Span, args []Value) (Value, error) {
	v, ok := single(args[0])
	if !ok || v.Type != TypeInt {
		return Value{}, invalidCast(args[0], TypeInt)
	}

	return NewInt(v.text, span), nil
}

func toCategory(t Type, cat syntax.Category) impl {
	return func(_ *env, _ token.Span, args []Value) (Value, error) {
		if err := syntax.Check(cat, args[0].Tokens); err != nil {
			return Value{}, ErrInvalidCast.At(args[0].Span).Wrap(err)
		}

		return NewTokens(t, args[0].Tokens), nil
	}
}

func toTokens(_ *env, _ token.Span, args []Value) (Value, error) {
	return NewTokens(TypeTokens, args[0].Tokens), nil
}
