// Package must holds small panic-on-fatal-error helpers shared by the
// public cpurec package's convenience wrappers, adapted from keycraft's
// internal/keycraft/common.go helpers of the same name.
package must

// Must unwraps val if err is nil, and panics otherwise. Used at process
// startup for failures that indicate a broken build or install, never for
// errors a caller could reasonably recover from.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// Must0 panics if err is non-nil.
func Must0(err error) {
	if err != nil {
		panic(err)
	}
}
