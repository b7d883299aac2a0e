// Package syntax recognizes the syntactic categories of Rust over token
// trees.
//
// Recognizers check structure only. They do not build a syntax tree or
// resolve operator precedence, and they accept some programs the Rust
// compiler would reject. What they guarantee is that a token sequence has
// the shape of its category: an item is an item, a type is a type.
//
// [Check] requires a whole token sequence to be one instance of a
// [Category]. [Recognize] reports how many leading tokens form one.
//
// [Decompose] splits a block body into [Piece] values for incremental
// rewriting. Constructs with a nested body (functions, impls, traits, inline
// modules and extern blocks) are split into their parts, with the body
// decomposed again as a nested piece:
//
//	#[inline] pub fn f(x: u8) -> u8 { x + 1 }
//
//	attributes[#[inline]] visibility[pub] signature[fn f(x: u8) -> u8] { statements[x + 1] }
//
// Anything else, such as a struct or a let statement, is a single leaf.
package syntax
