package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Colors
	infoColor    = lipgloss.Color("39")  // Blue
	successColor = lipgloss.Color("42")  // Green
	errorColor   = lipgloss.Color("160") // Red
	subtleColor  = lipgloss.Color("241") // Grey

	infoBadge = lipgloss.NewStyle().
			Foreground(infoColor).
			Bold(true).
			SetString("==>")

	successBadge = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true).
			SetString("OK")

	errorBadge = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true).
			SetString("ERROR")

	subtleStyle = lipgloss.NewStyle().
			Foreground(subtleColor)
)

// Printer writes user-facing status lines. Logs go elsewhere.
type Printer struct {
	w io.Writer
}

func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{w: w}
}

// Info prints an info message
func (p *Printer) Info(format string, a ...interface{}) {
	fmt.Fprintf(p.w, "%s %s\n", infoBadge.String(), fmt.Sprintf(format, a...))
}

// Success prints a success message
func (p *Printer) Success(format string, a ...interface{}) {
	fmt.Fprintf(p.w, "%s %s\n", successBadge.String(), fmt.Sprintf(format, a...))
}

// Error prints an error message
func (p *Printer) Error(format string, a ...interface{}) {
	fmt.Fprintf(p.w, "%s %s\n", errorBadge.String(), fmt.Sprintf(format, a...))
}

// Detail prints a dimmed secondary line.
func (p *Printer) Detail(format string, a ...interface{}) {
	fmt.Fprintln(p.w, subtleStyle.Render("    "+fmt.Sprintf(format, a...)))
}

// Plain prints the message without styling.
func (p *Printer) Plain(format string, a ...interface{}) {
	fmt.Fprintf(p.w, format+"\n", a...)
}
