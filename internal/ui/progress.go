package ui

import (
	"fmt"
	"io"
	"strings"
)

// BarWidth is the number of cells in the download progress bar
const BarWidth = 20

// DownloadBar renders a single-line textual progress bar for one file
type DownloadBar struct {
	out     io.Writer
	name    string
	total   int64
	current int64
}

// NewDownloadBar creates a progress bar for name expecting total bytes
func NewDownloadBar(out io.Writer, name string, total int64) *DownloadBar {
	return &DownloadBar{
		out:   out,
		name:  name,
		total: total,
	}
}

// Write counts p as transferred bytes and redraws the bar, so the bar can
// sit behind io.TeeReader
func (b *DownloadBar) Write(p []byte) (int, error) {
	b.current += int64(len(p))
	b.render()
	return len(p), nil
}

// Finish ends the progress line
func (b *DownloadBar) Finish() {
	fmt.Fprintln(b.out)
}

func (b *DownloadBar) render() {
	fmt.Fprintf(b.out, "\rDownloading %-21s %s %s",
		b.name,
		Bar(b.current, b.total, BarWidth),
		FormatKB(b.total),
	)
}

// Bar draws "[====    ]" with width cells filled in proportion to done/total
func Bar(done, total int64, width int) string {
	filled := 0
	if total > 0 {
		filled = int(int64(width) * done / total)
	}
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return "[" + ColorProgress(strings.Repeat("=", filled)) + strings.Repeat(" ", width-filled) + "]"
}
