// Package token converts Rust source text to token trees and back.
//
// # Lexing
//
// [Lex] implements the lexical grammar of Rust: identifiers (including raw
// identifiers such as r#type), lifetimes, character, string, byte and
// C-string literals in normal and raw forms, integer and float literals with
// suffixes, and punctuation. Whitespace and comments are skipped, except doc
// comments, which are desugared to attributes:
//
//	/// Hello      =>   #[doc = " Hello"]
//	//! Crate      =>   #![doc = " Crate"]
//
// The '#' token of a desugared attribute carries its [DocStyle] so that
// [Format] can render it as a comment again.
//
// Delimiters are matched while lexing: every (), [] and {} pair becomes a
// single [Group] token holding its children, so a [Stream] is a tree.
// Punctuation is lexed one character at a time. A character immediately
// followed by another punctuation character is marked [Joint], which is how
// multi-character operators such as "::" and "->" are recognized later.
//
// # Rendering
//
// [Canonical] renders a stream on one line with a single space between
// tokens. It is stable for a given token sequence and is used for equality,
// hashing and plain-text output.
//
// [Format] renders a stream as source. Tokens that were next to each other
// when lexed keep the exact text between them, comments included. Tokens
// that were replaced or synthesized are joined with minimal spacing:
//
//	fn my_fn() -> u32 { 42 }    (my_fn replaced by foo_bar)
//	fn foo_bar() -> u32 { 42 }
package token
