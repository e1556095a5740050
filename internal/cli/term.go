package cli

import (
	"os"

	"golang.org/x/term"

	"github.com/prepdeck/prepdeck/pkg/render/markdown"
)

const defaultWidth = 80

// terminal reports whether command output goes to a terminal, and its width.
func (c *CLI) terminal() (bool, int) {
	f, ok := c.out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return false, defaultWidth
	}
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 {
		return true, defaultWidth
	}
	return true, min(w, 120)
}

// renderMarkdown styles source for the terminal, or renders it without
// color codes when output is redirected.
func (c *CLI) renderMarkdown(source string) (string, error) {
	tty, width := c.terminal()
	if tty {
		return markdown.ToTerminal(source, width)
	}
	return markdown.ToPlain(source, width)
}
