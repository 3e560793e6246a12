//go:build debug

package debug

import "log"

// Printf logs to the standard logger when built with the debug tag.
func Printf(msg string, args ...any) {
	log.Printf("[debug] "+msg, args...)
}

const On = true
