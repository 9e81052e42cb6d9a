package tui

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Printer renders the styled terminal output used by the deploy wizard
// and the maintenance commands. All output goes to stdout so that logs
// on stderr never interleave with the styled lines.
type Printer struct {
	w      io.Writer
	styles Styles
}

// KV is a single labeled row in a summary panel.
type KV struct {
	Key   string
	Value string
}

// NewPrinter creates a printer writing to w. A nil writer defaults to
// os.Stdout.
func NewPrinter(w io.Writer, noColor bool) *Printer {
	if w == nil {
		w = os.Stdout
	}
	styles := DefaultStyles()
	if noColor {
		styles = PlainStyles()
	}
	return &Printer{w: w, styles: styles}
}

// Styles exposes the active style set for views that render themselves.
func (p *Printer) Styles() Styles {
	return p.styles
}

// Writer exposes the underlying writer for helpers that animate their
// own output, such as spinners.
func (p *Printer) Writer() io.Writer {
	return p.w
}

// Banner prints the program banner shown before the first stage.
func (p *Printer) Banner(version string) {
	title := p.styles.Title.Render("erpstack " + version)
	subtitle := p.styles.Subtitle.Render("ERPNext deployment for Docker Compose")
	fmt.Fprintln(p.w, p.styles.Border.Render(title+"\n"+subtitle))
	fmt.Fprintln(p.w)
}

// StageHeader prints the numbered header that opens each pipeline stage.
func (p *Printer) StageHeader(number, total int, title string) {
	fmt.Fprintln(p.w)
	header := fmt.Sprintf("Stage %d/%d", number, total)
	fmt.Fprintln(p.w, p.styles.Stage.Render(header)+" "+p.styles.Title.Render(title))
	fmt.Fprintln(p.w, p.styles.Muted.Render(strings.Repeat("─", 48)))
}

// Step prints an in-progress action line.
func (p *Printer) Step(format string, args ...any) {
	fmt.Fprintln(p.w, "  "+p.styles.Stage.Render("▶")+" "+fmt.Sprintf(format, args...))
}

// Success prints a completed action line.
func (p *Printer) Success(format string, args ...any) {
	fmt.Fprintln(p.w, "  "+p.styles.Success.Render("✓")+" "+fmt.Sprintf(format, args...))
}

// Warn prints a non-fatal problem line.
func (p *Printer) Warn(format string, args ...any) {
	fmt.Fprintln(p.w, "  "+p.styles.Warning.Render("!")+" "+fmt.Sprintf(format, args...))
}

// Fail prints a fatal problem line.
func (p *Printer) Fail(format string, args ...any) {
	fmt.Fprintln(p.w, "  "+p.styles.Error.Render("✗")+" "+fmt.Sprintf(format, args...))
}

// Info prints a neutral informational line.
func (p *Printer) Info(format string, args ...any) {
	fmt.Fprintln(p.w, "  "+p.styles.Muted.Render("•")+" "+fmt.Sprintf(format, args...))
}

// Detail prints an indented muted line under the previous message.
func (p *Printer) Detail(format string, args ...any) {
	fmt.Fprintln(p.w, "    "+p.styles.Muted.Render(fmt.Sprintf(format, args...)))
}

// Blank prints an empty line.
func (p *Printer) Blank() {
	fmt.Fprintln(p.w)
}

// Panel prints a bordered block with a bold title line followed by the
// given body lines.
func (p *Printer) Panel(title string, lines ...string) {
	body := p.styles.Title.Render(title)
	for _, line := range lines {
		body += "\n" + line
	}
	fmt.Fprintln(p.w, p.styles.Border.Render(body))
}

// KeyValues prints a bordered panel of aligned label/value rows.
func (p *Printer) KeyValues(title string, rows []KV) {
	width := 0
	for _, row := range rows {
		if len(row.Key) > width {
			width = len(row.Key)
		}
	}

	var b strings.Builder
	b.WriteString(p.styles.Title.Render(title))
	for _, row := range rows {
		label := row.Key + strings.Repeat(" ", width-len(row.Key))
		b.WriteString("\n")
		b.WriteString(p.styles.Muted.Render(label) + "  " + p.styles.Value.Render(row.Value))
	}
	fmt.Fprintln(p.w, p.styles.Border.Render(b.String()))
}
