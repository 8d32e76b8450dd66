package ui

import (
	"fmt"
	"io"
	"os"
)

// UI is the user-facing console. Diagnostics go to the observability logger instead.
type UI struct {
	out     io.Writer
	Verbose bool
}

// NewUI creates a new UI writing to out, or stdout when out is nil
func NewUI(out io.Writer, verbose bool) *UI {
	if out == nil {
		out = os.Stdout
	}
	return &UI{
		out:     out,
		Verbose: verbose,
	}
}

// Out returns the writer the UI prints to
func (u *UI) Out() io.Writer {
	return u.out
}

// Printf prints formatted output
func (u *UI) Printf(format string, args ...interface{}) {
	fmt.Fprintf(u.out, format, args...)
}

// Println prints a line
func (u *UI) Println(args ...interface{}) {
	fmt.Fprintln(u.out, args...)
}

// VerbosePrintf prints formatted output only in verbose mode
func (u *UI) VerbosePrintf(format string, args ...interface{}) {
	if u.Verbose {
		fmt.Fprintf(u.out, format, args...)
	}
}

// Warning prints a warning message
func (u *UI) Warning(message string) {
	ShowWarning(u.out, message)
}

// Info prints an information message
func (u *UI) Info(message string) {
	ShowInfo(u.out, message)
}

// Success prints a success message
func (u *UI) Success(message string) {
	ShowSuccess(u.out, message)
}

// List prints quoted items, one per line
func (u *UI) List(items []string) {
	for _, item := range items {
		u.Printf("  \"%s\"\n", item)
	}
}

// NewProgress creates a download progress bar bound to this UI
func (u *UI) NewProgress(name string, total int64) *DownloadBar {
	return NewDownloadBar(u.out, name, total)
}
