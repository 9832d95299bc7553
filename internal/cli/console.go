package cli

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// tabWidth is the room reserved for the tab in a report line.
const tabWidth = 8

// printer formats status messages with English digit grouping.
//
//nolint:gochecknoglobals // Stateless formatter
var printer = message.NewPrinter(language.English)

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// terminalWidth returns the column count of w, or 0 when unknown.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !isTerminal(w) {
		return 0
	}

	width, _, err := term.GetSize(int(f.Fd())) //nolint:gosec // File descriptors fit in int
	if err != nil {
		return 0
	}

	return width
}

// truncate shortens line to fit in width columns. A width of 0 disables truncation.
func truncate(line string, width int) string {
	if width <= 0 {
		return line
	}

	limit := max(width-tabWidth, 1)

	runes := []rune(line)
	if len(runes) <= limit {
		return line
	}

	return string(runes[:limit])
}
