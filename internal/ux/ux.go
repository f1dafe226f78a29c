// Package ux styles the maze tool's terminal output.
package ux

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	maze "github.com/yalue/textmaze"
	"github.com/yalue/textmaze/internal/config"
)

var (
	ColorWall    = lipgloss.Color("#5C6B73") // Slate grey walls
	ColorStart   = lipgloss.Color("#28B446") // Matches the image start cell
	ColorFinish  = lipgloss.Color("#6478FF") // Matches the image finish cell
	ColorRoute   = lipgloss.Color("#E61414") // Red breadcrumbs
	ColorMasked  = lipgloss.Color("#2C2C2C") // Nearly black protected cells
	ColorSuccess = lipgloss.Color("#2CD7C7")
	ColorWarning = lipgloss.Color("#F4D03F")
	ColorError   = lipgloss.Color("#E74C3C")
	ColorMuted   = lipgloss.Color("#7F8C8D")
)

type Icon string

const (
	IconSuccess Icon = "✓"
	IconWarning Icon = "⚠"
	IconError   Icon = "✗"
	IconArrow   Icon = "→"
)

// Palette holds the styles used for maze tiles and status lines. All styles
// come from one lipgloss.Renderer, so whether they emit colors is decided in
// one place.
type Palette struct {
	renderer *lipgloss.Renderer
	color    bool
	tiles    map[maze.Tile]lipgloss.Style

	success lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
	muted   lipgloss.Style
	bold    lipgloss.Style
}

// NewPalette returns a palette for output written to w. When color is false
// every style renders its text unchanged.
func NewPalette(w io.Writer, color bool) *Palette {
	r := lipgloss.NewRenderer(w)
	if color {
		r.SetColorProfile(termenv.TrueColor)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	fg := func(c lipgloss.Color) lipgloss.Style {
		return r.NewStyle().Foreground(c)
	}
	return &Palette{
		renderer: r,
		color:    color,
		tiles: map[maze.Tile]lipgloss.Style{
			maze.TileWall:   fg(ColorWall),
			maze.TileStart:  fg(ColorStart).Bold(true),
			maze.TileFinish: fg(ColorFinish).Bold(true),
			maze.TileRoute:  fg(ColorRoute),
			maze.TileMasked: fg(ColorMasked),
		},
		success: fg(ColorSuccess),
		warning: fg(ColorWarning),
		failure: fg(ColorError),
		muted:   fg(ColorMuted),
		bold:    r.NewStyle().Bold(true),
	}
}

// Style implements maze.Styler. Floor tiles are left alone.
func (p *Palette) Style(t maze.Tile, glyph string) string {
	s, ok := p.tiles[t]
	if !ok {
		return glyph
	}
	return p.render(s, glyph)
}

func (p *Palette) render(s lipgloss.Style, text string) string {
	if !p.color {
		return text
	}
	return s.Render(text)
}

// ColorEnabled decides whether output to f should be colored under mode.
// In auto mode this requires a terminal and no NO_COLOR variable.
func ColorEnabled(mode config.ColorMode, f *os.File) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Printer writes status lines.
type Printer struct {
	w       io.Writer
	palette *Palette
}

func NewPrinter(w io.Writer, palette *Palette) *Printer {
	return &Printer{w: w, palette: palette}
}

// Palette returns the printer's palette.
func (p *Printer) Palette() *Palette {
	return p.palette
}

func (p *Printer) Success(format string, args ...any) {
	p.line(p.palette.success, IconSuccess, format, args...)
}

func (p *Printer) Warning(format string, args ...any) {
	p.line(p.palette.warning, IconWarning, format, args...)
}

func (p *Printer) Error(format string, args ...any) {
	p.line(p.palette.failure, IconError, format, args...)
}

func (p *Printer) Info(format string, args ...any) {
	p.line(p.palette.muted, IconArrow, format, args...)
}

// Field prints an aligned "label: value" line with a bold label.
func (p *Printer) Field(label string, value any) {
	fmt.Fprintf(p.w, "  %s %v\n", p.palette.render(p.palette.bold, fmt.Sprintf("%-12s", label+":")), value)
}

func (p *Printer) line(style lipgloss.Style, icon Icon, format string, args ...any) {
	fmt.Fprintf(p.w, "%s %s\n", p.palette.render(style, string(icon)), fmt.Sprintf(format, args...))
}
