package internal

import (
	"os"
	"runtime"

	"golang.org/x/term"
)

// IsMacOS checks if the runtime OS is darwin
func IsMacOS() bool {
	return runtime.GOOS == "darwin"
}

// IsTerminal reports whether f is attached to a terminal
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
