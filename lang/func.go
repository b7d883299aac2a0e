package lang

import (
	"iter"
	"maps"
	"slices"
	"strings"

	"github.com/ardnew/compose/lang/token"
)

// impl computes a builtin's result. Arguments keep the types they were
// evaluated with; the resolver has already checked that each coerces to
// its parameter.
type impl func(env *env, span token.Span, args []Value) (Value, error)

// Signature is one overload of a [Func].
type Signature struct {
	impl   impl
	Params []Param
	Return Type
	order  int
}

// Variadic reports whether the last parameter is variadic.
func (s *Signature) Variadic() bool {
	return len(s.Params) > 0 && s.Params[len(s.Params)-1].Variadic
}

// fixed returns the parameters that bind exactly one argument each.
func (s *Signature) fixed() []Param {
	if s.Variadic() {
		return s.Params[:len(s.Params)-1]
	}

	return s.Params
}

// raw reports whether s takes a single unevaluated argument.
func (s *Signature) raw() bool {
	return len(s.Params) == 1 && s.Params[0].Type == TypeRaw
}

// param returns the parameter bound to argument i.
func (s *Signature) param(i int) (Param, bool) {
	if i < len(s.fixed()) {
		return s.Params[i], true
	}

	if s.Variadic() {
		return s.Params[len(s.Params)-1], true
	}

	return Param{}, false
}

// String returns s written as "(ident, tokens...) -> ident".
func (s *Signature) String() string {
	parts := make([]string, len(s.Params))
	for i, p := range s.Params {
		parts[i] = p.String()
	}

	return "(" + strings.Join(parts, ", ") + ") -> " + s.Return.String()
}

// Func is a builtin function with one or more overloads.
type Func struct {
	Name       string
	Doc        string
	Signatures []*Signature
}

// String returns every overload of f, one per line, prefixed by its name.
func (f *Func) String() string {
	lines := make([]string, len(f.Signatures))
	for i, s := range f.Signatures {
		lines[i] = f.Name + s.String()
	}

	return strings.Join(lines, "\n")
}

// Funcs is a registry of builtin functions by name.
type Funcs map[string]*Func

// define adds an overload of name. Overloads are ordered by declaration.
func (fs Funcs) define(name, doc string, ret Type, fn impl, params ...Param) {
	f, ok := fs[name]
	if !ok {
		f = &Func{Name: name, Doc: doc}
		fs[name] = f
	}

	f.Signatures = append(f.Signatures, &Signature{
		Params: params,
		Return: ret,
		impl:   fn,
		order:  len(f.Signatures),
	})
}

// Names returns the function names in sorted order.
func (fs Funcs) Names() []string {
	return slices.Sorted(maps.Keys(fs))
}

// All iterates over the functions in name order.
func (fs Funcs) All() iter.Seq[*Func] {
	return func(yield func(*Func) bool) {
		for _, name := range fs.Names() {
			if !yield(fs[name]) {
				return
			}
		}
	}
}

func one(t Type) Param  { return Param{Type: t} }
func many(t Type) Param { return Param{Type: t, Variadic: true} }
