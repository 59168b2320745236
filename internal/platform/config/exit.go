package config

import (
	"fmt"
	"log"
	"os"
)

// Exitf writes a formatted error message to stderr, prefixed with the
// standard logger prefix, and exits with code 1. It provides a consistent
// fatal-exit pattern for CLI entry points.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, log.Prefix()+format+"\n", args...)
	os.Exit(1)
}
