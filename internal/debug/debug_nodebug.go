//go:build !debug

package debug

// Printf is a no-op unless built with the debug tag.
func Printf(msg string, args ...any) {}

const On = false
