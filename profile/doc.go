// Package profile starts optional runtime profiling with
// [github.com/pkg/profile].
//
// Profiling is compiled in only with the "pprof" build tag:
//
//	go build -tags pprof .
//	compose --pprof-mode cpu --pprof-dir ./profiles expand -s lib.rs
//
// Without the tag, [Modes] is empty and [Profiler.Start] does nothing.
// With it, the handlers of [net/http/pprof] are also registered.
//
// Profiles are written to the directory given by [Profiler.Dir], named after
// the mode (cpu.pprof, mem.pprof, and so on), and can be analyzed with
//
//	go tool pprof -http=: profiles/cpu.pprof
package profile
