// Package lang composes identifiers and code for Rust sources.
//
// An invocation names a set of aliases, each defined by a small expression
// language, and a code block in which every occurrence of an alias is
// replaced by its value:
//
//	compose!(
//	    for (T, n) in [(u8, 8), (u16, 16)]
//	    name = concat(read_, lower(T)),
//	    { fn name() -> T { n } }
//	);
//
// # Expressions
//
// An alias is defined by a literal argument or a call of a builtin function.
// Arguments are parsed speculatively: each argument is tried as an int, a
// string, an identifier, a path, a type, and an expression, and the longest
// reading that ends at a ',' wins. Readings that fail every trial are kept
// as raw token streams.
//
// Every value carries a [Type]. Calls are resolved against the overloads of
// a [Func] by the total cost of coercing each argument to its parameter
// type; see [CoercionCost]. Resolution happens before evaluation and its
// choices are kept in a side table keyed by node id.
//
// # Repetition
//
// A header of "for pattern in [values]" clauses runs one pass per element of
// the Cartesian product of the value lists, the last clause varying fastest.
// Passes are independent except for the [Scope] used by hash, which spans
// the whole invocation. Passes run concurrently and their output is
// concatenated in order.
//
// # Substitution
//
// The block is split into items and statements. Each leaf construct is
// rewritten token by token and re-parsed as its original syntactic
// category after every replacement, so a substitution that would produce
// invalid code is reported at the occurrence that caused it. Bodies of
// functions, impls, traits, modules, and extern blocks are rewritten
// recursively. Inside string literals and doc comments, %name% markers are
// replaced by the plain text of the named alias.
//
// # Driver
//
// An [Expander] finds every invocation in a source file, whether the
// function-like form or the #[compose_item(...)] attribute form, and splices
// in the expansion. It repeats until no invocations remain.
package lang
