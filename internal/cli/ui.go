package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/BenJenkinson/react-spaces/pkg/spaces"
)

// =============================================================================
// Palette
// =============================================================================

// The same palette colours the inspect table and the TUI: amber marks
// handles and drags in progress, cyan marks the space being looked at.
var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	// StyleTitle renders layout names.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim renders geometry and other secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue renders written paths.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	styleOK       = lipgloss.NewStyle().Foreground(colorGreen)
	styleFailed   = lipgloss.NewStyle().Foreground(colorRed)
	styleNote     = lipgloss.NewStyle().Foreground(colorGray)
	styleDrag     = lipgloss.NewStyle().Foreground(colorYellow)
	styleHeader   = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleIconSpin = lipgloss.NewStyle().Foreground(colorCyan)
)

const (
	markOK     = "✓"
	markFailed = "✗"
	markNote   = "›"
	markFile   = "→"
)

// statusOut receives status lines. Artifacts written to stdout with -o -
// go through CLI.Out instead, so the two never interleave in a pipe.
var statusOut io.Writer = os.Stdout

// =============================================================================
// Status lines
// =============================================================================

func status(mark string, style lipgloss.Style, format string, args []any) {
	fmt.Fprintln(statusOut, style.Render(mark)+" "+fmt.Sprintf(format, args...))
}

func printSuccess(format string, args ...any) { status(markOK, styleOK, format, args) }
func printError(format string, args ...any)   { status(markFailed, styleFailed, format, args) }
func printInfo(format string, args ...any)    { status(markNote, styleNote, format, args) }

// printDetail prints an indented, dimmed line under a status line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(statusOut, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile lists one written artifact.
func printFile(path string) {
	fmt.Fprintln(statusOut, "  "+StyleDim.Render(markFile)+" "+StyleValue.Render(path))
}

// printStats prints the summary line of a render.
func printStats(spaceCount, resizeCount int, cached bool) {
	fmt.Fprintln(statusOut, formatStats(spaceCount, resizeCount, cached))
}

// =============================================================================
// Layout formatting
// =============================================================================

// formatRect renders a box as "x,y wxh".
func formatRect(r spaces.Rect) string {
	return fmt.Sprintf("%g,%g %gx%g", r.X, r.Y, r.W, r.H)
}

// formatViewport renders a viewport size as "wxh".
func formatViewport(r spaces.Rect) string {
	return fmt.Sprintf("%gx%g", r.W, r.H)
}

// formatDrag describes a finished drag, signed so shrinking reads as such.
func formatDrag(name string, resized float64) string {
	return fmt.Sprintf("%s resized by %s", name, styleDrag.Render(fmt.Sprintf("%+gpx", resized)))
}

// formatStats joins the space and drag counts with the cache state. Zero
// counts are left out.
func formatStats(spaceCount, resizeCount int, cached bool) string {
	var parts []string
	if spaceCount > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d spaces", spaceCount)))
	}
	if resizeCount > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d resizes", resizeCount)))
	}
	if cached {
		parts = append(parts, styleOK.Render("cached"))
	} else {
		parts = append(parts, styleNote.Render("fresh"))
	}
	return "  " + strings.Join(parts, StyleDim.Render(" · "))
}
