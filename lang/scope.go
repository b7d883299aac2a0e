package lang

import (
	"strconv"

	"github.com/google/uuid"
	"github.com/zeebo/xxh3"
)

// Scope is the hashing context shared by every pass of one invocation.
// It is immutable and safe for concurrent use.
type Scope struct {
	seed uint64
}

// NewScope returns a scope with a fresh random seed.
func NewScope() *Scope {
	id := uuid.New()

	return &Scope{seed: xxh3.Hash(id[:])}
}

// NewSeededScope returns a scope with a fixed seed, for reproducible output.
func NewSeededScope(seed uint64) *Scope {
	return &Scope{seed: seed}
}

// Seed returns the scope's seed.
func (s *Scope) Seed() uint64 { return s.seed }

// Hash returns the decimal digest of text mixed with the scope's seed.
// Equal inputs give equal outputs within one scope.
func (s *Scope) Hash(text string) string {
	return strconv.FormatUint(xxh3.HashStringSeed(text, s.seed), 10)
}

// HashIdent returns the digest of text as an identifier, prefixed with "__"
// so that it never starts with a digit.
func (s *Scope) HashIdent(text string) string {
	return "__" + s.Hash(text)
}
