package screen

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"golang.org/x/sys/unix"
)

// ANSI sequences for full-screen redraws.
const (
	ClearHome  = "\x1b[H\x1b[2J"
	HideCursor = "\x1b[?25l"
	ShowCursor = "\x1b[?25h"
)

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ColorEnabled resolves a display.color mode against the output writer.
func ColorEnabled(mode string, w io.Writer) bool {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "always":
		return true
	case "never":
		return false
	default:
		return IsTerminal(w)
	}
}

// TerminalSize returns the column and row count of the terminal behind fd.
func TerminalSize(fd uintptr) (int, int, error) {
	ws, err := unix.IoctlGetWinsize(int(fd), unix.TIOCGWINSZ)
	if err != nil {
		return 0, 0, fmt.Errorf("query terminal size: %w", err)
	}
	if ws.Col == 0 || ws.Row == 0 {
		return 0, 0, fmt.Errorf("query terminal size: empty window")
	}
	return int(ws.Col), int(ws.Row), nil
}
