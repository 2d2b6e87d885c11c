package generator

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Resolution is what to do with a file that already exists.
type Resolution int

const (
	Skip Resolution = iota
	Overwrite
	ShowDiff
	Cancel
)

func (r Resolution) String() string {
	switch r {
	case Skip:
		return "skip"
	case Overwrite:
		return "overwrite"
	case ShowDiff:
		return "diff"
	case Cancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// ConflictStrategy decides how to handle one existing file.
type ConflictStrategy interface {
	Resolve(path string, existing, newer []byte) (Resolution, error)
}

// Resolver applies the strategy chosen by the command-line flags.
type Resolver struct {
	strategy ConflictStrategy
}

var (
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("yellow")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// NewResolver picks a strategy from the --force, --skip and --diff flags.
// The flags are mutually exclusive.
func NewResolver(force, skip, diff bool) (*Resolver, error) {
	n := 0
	for _, set := range []bool{force, skip, diff} {
		if set {
			n++
		}
	}
	if n > 1 {
		return nil, fmt.Errorf("--force, --skip and --diff cannot be combined")
	}

	var s ConflictStrategy
	switch {
	case force:
		s = ForceStrategy{}
	case skip:
		s = SkipStrategy{}
	case diff:
		s = &DiffStrategy{Diff: NewDiffGenerator(), Out: os.Stdout, Then: NewInteractiveStrategy()}
	default:
		s = NewInteractiveStrategy()
	}
	return &Resolver{strategy: s}, nil
}

// NewResolverWith wraps an explicit strategy.
func NewResolverWith(s ConflictStrategy) *Resolver {
	return &Resolver{strategy: s}
}

// ResolveConflict decides what to do with an existing file.
func (r *Resolver) ResolveConflict(path string, existing, newer []byte) (Resolution, error) {
	return r.strategy.Resolve(path, existing, newer)
}

// ForceStrategy always overwrites.
type ForceStrategy struct{}

func (ForceStrategy) Resolve(string, []byte, []byte) (Resolution, error) {
	return Overwrite, nil
}

// SkipStrategy always keeps the existing file.
type SkipStrategy struct{}

func (SkipStrategy) Resolve(string, []byte, []byte) (Resolution, error) {
	return Skip, nil
}

// DiffStrategy prints the diff, then asks Then for the decision.
type DiffStrategy struct {
	Diff *DiffGenerator
	Out  io.Writer
	Then ConflictStrategy
}

func (s *DiffStrategy) Resolve(path string, existing, newer []byte) (Resolution, error) {
	fmt.Fprint(s.Out, s.Diff.Diff(path+" (existing)", path+" (generated)", existing, newer))
	return s.Then.Resolve(path, existing, newer)
}

// InteractiveStrategy shows a menu. "Show diff" opens the diff and returns
// to the menu. Without a terminal it keeps the existing file.
type InteractiveStrategy struct {
	diff       *DiffGenerator
	isTerminal func() bool
	run        func(tea.Model) (tea.Model, error)
}

// NewInteractiveStrategy creates a strategy that prompts on stdin/stdout.
func NewInteractiveStrategy() *InteractiveStrategy {
	return &InteractiveStrategy{
		diff: NewDiffGenerator(),
		isTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
		},
		run: func(m tea.Model) (tea.Model, error) {
			return tea.NewProgram(m).Run()
		},
	}
}

func (s *InteractiveStrategy) Resolve(path string, existing, newer []byte) (Resolution, error) {
	if !s.isTerminal() {
		return Skip, nil
	}

	for {
		final, err := s.run(newConflictMenu(path))
		if err != nil {
			return Cancel, fmt.Errorf("showing conflict menu: %w", err)
		}

		menu := final.(conflictMenu)
		if menu.selected == nil {
			return Cancel, nil
		}
		if *menu.selected != ShowDiff {
			return *menu.selected, nil
		}

		diff := s.diff.Diff(path+" (existing)", path+" (generated)", existing, newer)
		if _, err := s.run(newDiffViewer(path, diff)); err != nil {
			return Cancel, fmt.Errorf("showing diff: %w", err)
		}
	}
}

// conflictMenu is the bubbletea model for the overwrite prompt.
type conflictMenu struct {
	path     string
	choices  []string
	cursor   int
	selected *Resolution
}

func newConflictMenu(path string) conflictMenu {
	return conflictMenu{
		path: path,
		choices: []string{
			"Show diff",
			"Skip (keep existing file)",
			"Overwrite with generated file",
			"Cancel remaining files",
		},
	}
}

func (m conflictMenu) Init() tea.Cmd {
	return nil
}

func (m conflictMenu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.choices)-1 {
			m.cursor++
		}
	case "enter":
		r := choiceResolution(m.cursor)
		m.selected = &r
		return m, tea.Quit
	}
	return m, nil
}

func (m conflictMenu) View() string {
	var b strings.Builder
	b.WriteString(warningStyle.Render("! "+m.path+" already exists") + "\n")
	b.WriteString(mutedStyle.Render("  [↑/↓] move  [enter] select  [q] cancel") + "\n\n")

	for i, choice := range m.choices {
		if i == m.cursor {
			b.WriteString("  " + selectedStyle.Render("> "+choice) + "\n")
		} else {
			b.WriteString("    " + choice + "\n")
		}
	}
	return b.String()
}

func choiceResolution(cursor int) Resolution {
	switch cursor {
	case 0:
		return ShowDiff
	case 1:
		return Skip
	case 2:
		return Overwrite
	default:
		return Cancel
	}
}

// diffViewer pages through a diff in a viewport.
type diffViewer struct {
	path     string
	diff     string
	viewport viewport.Model
	ready    bool
}

func newDiffViewer(path, diff string) diffViewer {
	return diffViewer{path: path, diff: diff}
}

func (m diffViewer) Init() tea.Cmd {
	return nil
}

func (m diffViewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc", "enter":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		const chrome = 2 // title + footer
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-chrome)
			m.viewport.SetContent(m.diff)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - chrome
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m diffViewer) View() string {
	if !m.ready {
		return "loading diff…"
	}
	return selectedStyle.Render("diff: "+m.path) + "\n" +
		m.viewport.View() + "\n" +
		mutedStyle.Render("[↑/↓] scroll  [q] back to menu")
}
