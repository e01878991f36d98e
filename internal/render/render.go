// Package render turns stats into report lines: bullets, indentation,
// width clipping, and the three output formats (text, wiki, markdown).
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Output formats.
const (
	FormatText     = "text"
	FormatWiki     = "wiki"
	FormatMarkdown = "markdown"
)

// Formats lists the accepted --format values.
var Formats = []string{FormatText, FormatWiki, FormatMarkdown}

// IsFormat reports whether f is a known output format.
func IsFormat(f string) bool {
	for _, known := range Formats {
		if f == known {
			return true
		}
	}
	return false
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	bannerStyle = lipgloss.NewStyle().Bold(true)
)

// InitColor applies the COLOR environment variable: 0 disables, 1
// forces ANSI colors, 2 or unset autodetects the terminal.
func InitColor(value string) {
	switch value {
	case "0":
		lipgloss.SetColorProfile(termenv.Ascii)
	case "1":
		lipgloss.SetColorProfile(termenv.ANSI256)
	}
}

// indent is the per-level indentation step.
const indent = "    "

// Bullet returns the bullet prefix for an item at the given level. Wiki
// format puts one extra space before the top-level bullet.
func Bullet(format string, level int) string {
	prefix := strings.Repeat(indent, level)
	if format == FormatWiki && level == 0 {
		prefix = " " + prefix
	}
	return prefix + "* "
}

// Clip truncates a line to width columns, dropping the trailing partial
// word and appending "...". Width 0 disables truncation. Widths too
// narrow for the ellipsis return a hard rune cut.
func Clip(s string, width int) string {
	runes := []rune(s)
	if width <= 0 || len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	cut := string(runes[:width-3])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ") + "..."
}

// ItemLine renders one item row. In markdown format an item carrying a
// URL becomes a link; other formats render the plain text.
func ItemLine(format string, level, width int, text, url string) string {
	if format == FormatMarkdown && url != "" {
		text = fmt.Sprintf("[%s](%s)", text, url)
	}
	return Clip(Bullet(format, level)+text, width)
}

// Header renders a section header line "<name>: <count>".
func Header(name, count string) string {
	return headerStyle.Render(name) + ": " + count
}

// ReportHeader is the first line of every report.
func ReportHeader(label, since, until string) string {
	return fmt.Sprintf("Status report for %s (%s to %s).", label, since, until)
}

// Banner prints a separator-framed banner used for user and total
// report headings.
func Banner(text, separator string, width int) string {
	if width <= 0 {
		width = 1
	}
	runes := []rune(strings.Repeat(separator, width))
	if len(runes) > width {
		runes = runes[:width]
	}
	line := string(runes)
	return "\n" + line + "\n " + bannerStyle.Render(text) + "\n" + line
}
