package generator

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sergi/go-diff/diffmatchpatch"
	"golang.org/x/term"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	hunkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan"))
	addStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("green"))
	removeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("red"))
	contextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// DiffGenerator renders line diffs between an existing file and newly
// generated content.
type DiffGenerator struct {
	dmp *diffmatchpatch.DiffMatchPatch

	// ContextLines is the number of unchanged lines shown around changes.
	ContextLines int
	// MaxWidth truncates long lines; 0 means the terminal width (or no
	// limit when stdout is not a terminal).
	MaxWidth int
}

// NewDiffGenerator creates a generator with 3 lines of context.
func NewDiffGenerator() *DiffGenerator {
	return &DiffGenerator{dmp: diffmatchpatch.New(), ContextLines: 3}
}

type diffLine struct {
	kind  byte // ' ', '-' or '+'
	text  string
	oldNo int
	newNo int
}

// Diff returns a unified diff of old and newer, or "" when they are equal.
func (g *DiffGenerator) Diff(oldName, newName string, old, newer []byte) string {
	if bytes.Equal(old, newer) {
		return ""
	}
	if bytes.IndexByte(old, 0) >= 0 || bytes.IndexByte(newer, 0) >= 0 {
		return "Binary files differ\n"
	}

	a, b, lineArray := g.dmp.DiffLinesToChars(string(old), string(newer))
	diffs := g.dmp.DiffCharsToLines(g.dmp.DiffMain(a, b, false), lineArray)

	lines := toLines(diffs)
	hunks := buildHunks(lines, g.ContextLines)
	if len(hunks) == 0 {
		return ""
	}

	width := g.MaxWidth
	if width == 0 {
		width = terminalWidth()
	}

	var buf strings.Builder
	buf.WriteString(headerStyle.Render("--- "+oldName) + "\n")
	buf.WriteString(headerStyle.Render("+++ "+newName) + "\n")
	for _, h := range hunks {
		buf.WriteString(formatHunk(h, width))
	}
	return buf.String()
}

func toLines(diffs []diffmatchpatch.Diff) []diffLine {
	var lines []diffLine
	oldPos, newPos := 1, 1

	for _, d := range diffs {
		for _, text := range splitLines(d.Text) {
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				lines = append(lines, diffLine{kind: ' ', text: text, oldNo: oldPos, newNo: newPos})
				oldPos++
				newPos++
			case diffmatchpatch.DiffDelete:
				lines = append(lines, diffLine{kind: '-', text: text, oldNo: oldPos, newNo: newPos})
				oldPos++
			case diffmatchpatch.DiffInsert:
				lines = append(lines, diffLine{kind: '+', text: text, oldNo: oldPos, newNo: newPos})
				newPos++
			}
		}
	}
	return lines
}

// splitLines splits s into lines without their terminators.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, "\n")
	if parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}

// buildHunks groups changed lines with up to context unchanged lines on
// either side. Overlapping groups merge.
func buildHunks(lines []diffLine, context int) [][]diffLine {
	keep := make([]bool, len(lines))
	for i, l := range lines {
		if l.kind == ' ' {
			continue
		}
		for j := max(0, i-context); j <= min(len(lines)-1, i+context); j++ {
			keep[j] = true
		}
	}

	var hunks [][]diffLine
	var current []diffLine
	for i, l := range lines {
		if keep[i] {
			current = append(current, l)
			continue
		}
		if current != nil {
			hunks = append(hunks, current)
			current = nil
		}
	}
	if current != nil {
		hunks = append(hunks, current)
	}
	return hunks
}

func formatHunk(h []diffLine, width int) string {
	var oldCount, newCount int
	for _, l := range h {
		if l.kind != '+' {
			oldCount++
		}
		if l.kind != '-' {
			newCount++
		}
	}

	var b strings.Builder
	header := fmt.Sprintf("@@ -%d,%d +%d,%d @@", h[0].oldNo, oldCount, h[0].newNo, newCount)
	b.WriteString(hunkStyle.Render(header) + "\n")

	for _, l := range h {
		text := truncate(string(l.kind)+l.text, width)
		switch l.kind {
		case '+':
			b.WriteString(addStyle.Render(text))
		case '-':
			b.WriteString(removeStyle.Render(text))
		default:
			b.WriteString(contextStyle.Render(text))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 1 || len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}

func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	w, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return w
}
