// Package printer renders CLI status output with consistent colors.
package printer

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan)
)

// Success prints a green checkmarked message.
func Success(format string, a ...any) {
	green.Printf("✓ "+format+"\n", a...)
}

// Info prints a plain informational line.
func Info(format string, a ...any) {
	fmt.Printf(format+"\n", a...)
}

// Field prints an indented name/value detail line.
func Field(name string, format string, a ...any) {
	cyan.Printf("  %-12s", name)
	fmt.Printf(format+"\n", a...)
}

// Warning prints a yellow warning line.
func Warning(format string, a ...any) {
	yellow.Printf("⚠ "+format+"\n", a...)
}

// Error prints a red error line to stderr.
func Error(format string, a ...any) {
	red.Fprintf(os.Stderr, "✗ "+format+"\n", a...)
}
