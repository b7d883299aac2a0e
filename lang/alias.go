package lang

import (
	"iter"
	"log/slog"

	"github.com/ardnew/compose/lang/token"
)

// Alias is a named definition: name = expr.
type Alias struct {
	Expr Expr
	Name string
	Span token.Span // span of the name
}

// Binding is an alias name bound to its value in one pass.
type Binding struct {
	Name  string
	Value Value
	Span  token.Span
}

// Bindings is an ordered mapping of alias names to values. The zero value
// is empty and ready to use.
type Bindings struct {
	index map[string]int
	list  []Binding
}

// NewBindings returns an empty binding set.
func NewBindings() *Bindings { return &Bindings{} }

// Define binds name to v. Redefining a name is [ErrDuplicateAlias],
// attributed to span.
func (b *Bindings) Define(name string, v Value, span token.Span) error {
	if i, ok := b.index[name]; ok {
		return ErrDuplicateAlias.At(span).Withf("alias \"" + name + "\" is already defined").
			With(slog.String("alias", name), slog.Any("previous", b.list[i].Span.Start))
	}

	if b.index == nil {
		b.index = make(map[string]int)
	}

	b.index[name] = len(b.list)
	b.list = append(b.list, Binding{Name: name, Value: v, Span: span})

	return nil
}

// Lookup returns the value bound to name.
func (b *Bindings) Lookup(name string) (Value, bool) {
	if b == nil {
		return Value{}, false
	}

	i, ok := b.index[name]
	if !ok {
		return Value{}, false
	}

	return b.list[i].Value, true
}

// Get returns the value bound to name, or [ErrUndefinedAlias].
func (b *Bindings) Get(name string) (Value, error) {
	v, ok := b.Lookup(name)
	if !ok {
		return Value{}, ErrUndefinedAlias.Withf(name).With(slog.String("alias", name))
	}

	return v, nil
}

// Len returns the number of bindings.
func (b *Bindings) Len() int {
	if b == nil {
		return 0
	}

	return len(b.list)
}

// All iterates over the bindings in definition order.
func (b *Bindings) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if b == nil {
			return
		}

		for _, e := range b.list {
			if !yield(e.Name, e.Value) {
				return
			}
		}
	}
}

// List returns a copy of the bindings in definition order.
func (b *Bindings) List() []Binding {
	if b == nil {
		return nil
	}

	return append([]Binding(nil), b.list...)
}

// Clone returns an independent copy of b.
func (b *Bindings) Clone() *Bindings {
	c := &Bindings{}

	for _, e := range b.List() {
		_ = c.Define(e.Name, e.Value, e.Span)
	}

	return c
}

// leaf returns the value an expression leaf denotes. An ident leaf naming a
// bound alias denotes the alias's value, attributed to the leaf's span.
func (b *Bindings) leaf(l *Leaf) Value {
	if name, ok := aliasName(l.Value); ok {
		if v, ok := b.Lookup(name); ok {
			v.Span = l.Value.Span

			return v
		}
	}

	return l.Value
}

// aliasName returns the name v would refer to as an alias reference.
func aliasName(v Value) (string, bool) {
	if v.Type != TypeIdent || len(v.Tokens) != 1 || v.Tokens[0].Raw {
		return "", false
	}

	return v.Tokens[0].Text, true
}

// LogValue implements slog.LogValuer.
func (b *Bindings) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, b.Len())

	for name, v := range b.All() {
		attrs = append(attrs, slog.Any(name, v))
	}

	return slog.GroupValue(attrs...)
}
