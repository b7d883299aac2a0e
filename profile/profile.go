package profile

import "slices"

// Tag is the build tag required to enable profiling.
const Tag = "pprof"

// Profiler configures one profiling session.
type Profiler struct {
	// Mode selects the profile; see [Modes]. An empty mode disables
	// profiling.
	Mode string
	// Dir is the output directory. The working directory is used when empty.
	Dir   string
	Quiet bool
}

// Stopper ends a profiling session.
type Stopper interface{ Stop() }

// Enabled reports whether p selects a supported mode.
func (p Profiler) Enabled() bool {
	return p.Mode != "" && slices.Contains(Modes(), p.Mode)
}

// Start begins profiling and returns the session to stop. It returns a
// no-op session when p is not [Profiler.Enabled]; Stop is always safe to
// call.
func (p Profiler) Start() Stopper {
	if !p.Enabled() {
		return ignore{}
	}

	return start(p)
}

type ignore struct{}

func (ignore) Stop() {}
