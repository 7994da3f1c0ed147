// Copyright Ricardo Oliveira 2025.
// SPDX-License-Identifier: MPL-2.0

package logger

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/gcevm/vmctl/internal/core"
)

var _ core.Reporter = (*Reporter)(nil)

// Reporter prints colored leveled lines to the console and mirrors every
// message into the run log
type Reporter struct {
	out     io.Writer
	log     zerolog.Logger
	info    lipgloss.Style
	success lipgloss.Style
	warn    lipgloss.Style
	err     lipgloss.Style
}

// NewReporter creates a reporter writing console lines to out. Colors are
// dropped automatically when out is not a terminal.
func NewReporter(out io.Writer, log zerolog.Logger) *Reporter {
	r := lipgloss.NewRenderer(out)
	return &Reporter{
		out:     out,
		log:     log,
		info:    r.NewStyle().Foreground(lipgloss.Color("4")),
		success: r.NewStyle().Foreground(lipgloss.Color("2")),
		warn:    r.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		err:     r.NewStyle().Foreground(lipgloss.Color("1")),
	}
}

// Info reports a progress message
func (r *Reporter) Info(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.print(r.info, "[INFO] "+msg)
	r.log.Info().Msg(msg)
}

// Success reports a completed step
func (r *Reporter) Success(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.print(r.success, "[SUCCESS] "+msg)
	r.log.Info().Msg("SUCCESS: " + msg)
}

// Warn reports a non-fatal condition
func (r *Reporter) Warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.print(r.warn, "[WARNING] "+msg)
	r.log.Warn().Msg(msg)
}

// Error reports a failed step
func (r *Reporter) Error(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.print(r.err, "[ERROR] "+msg)
	r.log.Error().Msg(msg)
}

func (r *Reporter) print(style lipgloss.Style, line string) {
	fmt.Fprintln(r.out, style.Render(line))
}
