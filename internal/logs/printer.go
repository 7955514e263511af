package logs

import (
	"fmt"
	"io"

	"github.com/charliek/runcheck/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Prefix colors per role and stream (ANSI 256 palette)
var (
	runStdoutColor   = lipgloss.Color("10") // Bright green
	runStderrColor   = lipgloss.Color("11") // Bright yellow
	checkStdoutColor = lipgloss.Color("12") // Bright blue
	checkStderrColor = lipgloss.Color("9")  // Bright red
	statusOKColor    = lipgloss.Color("10")
	statusFailColor  = lipgloss.Color("9")
)

type styleKey struct {
	role   domain.Role
	stream domain.Stream
}

// Printer writes line messages to the supervisor's own stdout and stderr.
// Child lines are prefixed with their role, status lines are printed bare.
type Printer struct {
	stdout io.Writer
	stderr io.Writer
	color  bool

	prefixes map[styleKey]lipgloss.Style
	status   map[domain.Stream]lipgloss.Style
}

// NewPrinter creates a Printer. With color disabled lines are plain text.
func NewPrinter(stdout, stderr io.Writer, color bool) *Printer {
	outR := lipgloss.NewRenderer(stdout)
	errR := lipgloss.NewRenderer(stderr)

	return &Printer{
		stdout: stdout,
		stderr: stderr,
		color:  color,
		prefixes: map[styleKey]lipgloss.Style{
			{domain.RoleRun, domain.StreamStdout}:   outR.NewStyle().Foreground(runStdoutColor).Bold(true),
			{domain.RoleRun, domain.StreamStderr}:   errR.NewStyle().Foreground(runStderrColor).Bold(true),
			{domain.RoleCheck, domain.StreamStdout}: outR.NewStyle().Foreground(checkStdoutColor).Bold(true),
			{domain.RoleCheck, domain.StreamStderr}: errR.NewStyle().Foreground(checkStderrColor).Bold(true),
		},
		status: map[domain.Stream]lipgloss.Style{
			domain.StreamStdout: outR.NewStyle().Foreground(statusOKColor),
			domain.StreamStderr: errR.NewStyle().Foreground(statusFailColor),
		},
	}
}

// Format renders msg without the trailing newline
func (p *Printer) Format(msg domain.LineMessage) string {
	if msg.IsStatus() {
		if p.color {
			return p.status[msg.Stream].Render(msg.Text)
		}
		return msg.Text
	}

	prefix := "[" + msg.Role.String() + "]"
	if p.color {
		if style, ok := p.prefixes[styleKey{msg.Role, msg.Stream}]; ok {
			prefix = style.Render(prefix)
		}
	}
	return prefix + " " + msg.Text
}

// Print writes msg as one line to the writer matching its stream
func (p *Printer) Print(msg domain.LineMessage) error {
	w := p.stdout
	if msg.Stream == domain.StreamStderr {
		w = p.stderr
	}
	_, err := fmt.Fprintln(w, p.Format(msg))
	return err
}
