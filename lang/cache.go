package lang

import (
	"strconv"
	"sync"

	"github.com/zeebo/xxh3"
)

// globalCache stores parsed invocations keyed by the hash of their site.
//
//nolint:gochecknoglobals
var globalCache sync.Map

// state tracks the parse of one invocation site.
type state struct {
	once sync.Once
	inv  *Invocation
	err  error
}

// siteKey identifies a site by its location and source text, so a cached
// invocation's spans and gap text are those of an identical site.
func siteKey(s site) uint64 {
	pos := s.span.Start
	seed := xxh3.HashString(s.span.Source().Name + ":" +
		strconv.Itoa(pos.Line) + ":" + strconv.Itoa(pos.Column) + ":" +
		strconv.Itoa(pos.Offset))

	return xxh3.HashStringSeed(s.span.Text(), seed)
}

// parseSite parses the invocation at s, reusing the result of an earlier
// parse of an identical site. It reports whether the result was cached.
func parseSite(s site) (*Invocation, bool, error) {
	entry := new(state)

	value, hit := globalCache.LoadOrStore(siteKey(s), entry)

	st, ok := value.(*state)
	if !ok {
		return nil, false, ErrParse.Withf("corrupt invocation cache")
	}

	st.once.Do(func() {
		if s.item != nil {
			st.inv, st.err = ParseItemInvocation(s.args, s.item)
		} else {
			st.inv, st.err = ParseInvocation(s.args)
		}
	})

	return st.inv, hit, st.err
}

// ClearCache discards all cached invocations.
func ClearCache() {
	globalCache.Clear()
}
