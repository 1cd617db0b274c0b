// Package progress renders compile-time progress to the terminal,
// trimmed to the events a recursive workflow compile emits (frame
// enter/exit, step compiled, done) rather than a generic iterative
// loop's steps. Styling is built on github.com/charmbracelet/lipgloss
// rather than hand-rolled ANSI escapes.
package progress

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	colorRed     = "9"
	colorGreen   = "10"
	colorYellow  = "11"
	colorBlue    = "12"
	colorMagenta = "13"
	colorCyan    = "14"
	colorMuted   = "8"
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconRunning = "⏳"
	iconStep    = "→"
)

// StyleConfig controls output styling behavior.
type StyleConfig struct {
	UseColors  bool
	UseUnicode bool
}

// DefaultStyleConfig returns styling defaults, disabling color when
// NO_COLOR is set or TERM=dumb.
func DefaultStyleConfig() *StyleConfig {
	useColors := true
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		useColors = false
	}
	return &StyleConfig{UseColors: useColors, UseUnicode: true}
}

// Styler provides methods for styled terminal output, backed by lipgloss
// styles built once per Styler rather than per call.
type Styler struct {
	config *StyleConfig

	bold, dim, success, errorStyle, warning, info, muted lipgloss.Style
	frameName, stepName                                  lipgloss.Style
}

func NewStyler(cfg *StyleConfig) *Styler {
	if cfg == nil {
		cfg = DefaultStyleConfig()
	}

	fg := func(color string) lipgloss.Style {
		base := lipgloss.NewStyle()
		if !cfg.UseColors {
			return base
		}
		return base.Foreground(lipgloss.Color(color))
	}
	bold := func(st lipgloss.Style) lipgloss.Style {
		if !cfg.UseColors {
			return st
		}
		return st.Bold(true)
	}

	return &Styler{
		config:     cfg,
		bold:       bold(lipgloss.NewStyle()),
		dim:        fg(colorMuted).Faint(cfg.UseColors),
		success:    fg(colorGreen),
		errorStyle: fg(colorRed),
		warning:    fg(colorYellow),
		info:       fg(colorCyan),
		muted:      fg(colorMuted),
		frameName:  bold(fg(colorMagenta)),
		stepName:   fg(colorBlue),
	}
}

func (s *Styler) Bold(text string) string    { return s.bold.Render(text) }
func (s *Styler) Dim(text string) string     { return s.dim.Render(text) }
func (s *Styler) Success(text string) string { return s.success.Render(text) }
func (s *Styler) Error(text string) string   { return s.errorStyle.Render(text) }
func (s *Styler) Warning(text string) string { return s.warning.Render(text) }
func (s *Styler) Info(text string) string    { return s.info.Render(text) }
func (s *Styler) Muted(text string) string   { return s.muted.Render(text) }

// FrameName styles a namespace path (e.g. "main/align").
func (s *Styler) FrameName(name string) string {
	return s.frameName.Render(name)
}

// StepName styles a mangled step name.
func (s *Styler) StepName(name string) string {
	return s.stepName.Render(name)
}

func (s *Styler) SuccessIcon() string {
	if !s.config.UseUnicode {
		return "[OK]"
	}
	return s.Success(iconSuccess)
}

func (s *Styler) ErrorIcon() string {
	if !s.config.UseUnicode {
		return "[FAIL]"
	}
	return s.Error(iconError)
}

func (s *Styler) RunningIcon() string {
	if !s.config.UseUnicode {
		return "[...]"
	}
	return s.Warning(iconRunning)
}

func (s *Styler) StepIcon() string {
	if !s.config.UseUnicode {
		return "->"
	}
	return s.Info(iconStep)
}

func (s *Styler) Duration(d string) string {
	return s.Muted(d)
}

// Box draws a titled box, used for the top-level "compiling <root>" banner.
func (s *Styler) Box(title string, width int) string {
	titleWidth := len([]rune(title))
	if width < titleWidth+4 {
		width = titleWidth + 4
	}
	border := lipgloss.NormalBorder()
	if !s.config.UseUnicode {
		border = lipgloss.Border{
			Top: "-", Bottom: "-", Left: "|", Right: "|",
			TopLeft: "+", TopRight: "+", BottomLeft: "+", BottomRight: "+",
		}
	}
	return lipgloss.NewStyle().
		Border(border).
		BorderForeground(lipgloss.Color(colorMuted)).
		Width(width).
		Align(lipgloss.Center).
		Render(s.Bold(title))
}

// Divider returns a horizontal rule.
func (s *Styler) Divider(width int) string {
	if !s.config.UseUnicode {
		return strings.Repeat("-", width)
	}
	return s.Muted(strings.Repeat("─", width))
}
