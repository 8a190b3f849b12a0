package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

var (
	headingColor = color.New(color.FgCyan, color.Bold)
	subColor     = color.New(color.FgYellow)
	okColor      = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
)

// console writes report text. A nil writer discards everything.
type console struct {
	w io.Writer
}

func newConsole(w io.Writer) *console {
	if w == nil {
		w = io.Discard
	}
	return &console{w: w}
}

func (c *console) heading(n int, s Section) {
	headingColor.Fprintf(c.w, "\n=== %d. %s ===\n", n, s.Title())
}

func (c *console) sub(format string, args ...any) {
	subColor.Fprintf(c.w, "\n"+format+"\n", args...)
}

func (c *console) ok(format string, args ...any) {
	okColor.Fprintf(c.w, "✓ "+format+"\n", args...)
}

func (c *console) warn(format string, args ...any) {
	warnColor.Fprintf(c.w, "⚠ "+format+"\n", args...)
}

func (c *console) line(format string, args ...any) {
	fmt.Fprintf(c.w, format+"\n", args...)
}

func (c *console) table(header []string, rows [][]string) {
	t := tablewriter.NewWriter(c.w)
	t.SetHeader(header)
	t.SetAutoFormatHeaders(false)
	t.SetAutoWrapText(false)
	t.SetAlignment(tablewriter.ALIGN_RIGHT)
	t.AppendBulk(rows)
	t.Render()
}
