//go:build !pprof

package profile

// Modes returns the sorted list of supported profiling modes, which is
// empty when the binary was built without the [Tag] build tag.
func Modes() []string {
	return nil
}

func start(string, string, bool) interface{ Stop() } {
	return ignore{}
}
