// Package profile controls runtime profiling of the process.
//
// Profiling support is compiled in only when the build tag named by
// [Tag] is set. Without the tag, every function in this package is a
// no-op, so callers can wire profiling unconditionally:
//
//	config := profile.Config(func() (string, string, bool) {
//		return "cpu", "/tmp/rubber-pprof", false
//	})
//
//	stop := config.Start()
//	defer stop.Stop()
//
// With the tag set, [Config.Start] delegates to github.com/pkg/profile
// and [Modes] reports the supported profiling modes.
package profile

// Tag is the build tag that enables profiling support.
const Tag = "pprof"
