package main

import (
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/openclaude/streamparse/internal/parser"
)

// watchTickInterval paces how often a chunk is fed into the parser.
const watchTickInterval = 60 * time.Millisecond

// watchTickMsg drives the feed loop.
type watchTickMsg struct{}

// watchModel is the Bubble Tea model for `streamdemo watch`: it feeds a fixed
// source through a Handler in small chunks and scrolls the resulting event log.
type watchModel struct {
	handler   *parser.Handler
	remaining []byte
	chunkSize int
	random    bool

	log             viewport.Model
	lines           []string
	width           int
	height          int
	finished        bool
	invocationsSeen int
}

func watchCommand() *cobra.Command {
	flags := &sharedFlags{}
	var chunkSize int
	var random bool

	cmd := &cobra.Command{
		Use:   "watch [file]",
		Short: "Feed a file through the parser in small chunks and watch the event stream live",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			source, err := readSource(path)
			if err != nil {
				return err
			}
			handler, err := handlerForFlags(flags)
			if err != nil {
				return fmt.Errorf("resolve parser variant: %w", err)
			}

			// A non-TTY stdout can't host a Bubble Tea program; fall back to the
			// plain run renderer rather than failing outright, mirroring the
			// terminal-ness guard the teacher applies before its own full-screen
			// TUI (cmd/claude/interactive_tui.go).
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				events, err := handler.Feed(string(source))
				if err != nil {
					return fmt.Errorf("feed input: %w", err)
				}
				tail, err := handler.Finalize()
				if err != nil {
					return fmt.Errorf("finalize: %w", err)
				}
				renderRunSummary(append(events, tail...), handler.AllInvocations(), false)
				return nil
			}

			model := newWatchModel(handler, source, chunkSize, random)
			program := tea.NewProgram(model, tea.WithAltScreen())
			_, err = program.Run()
			return err
		},
	}

	applySharedFlags(cmd, flags)
	cmd.Flags().IntVar(&chunkSize, "chunk-size", 3, "bytes fed into the parser per tick")
	cmd.Flags().BoolVar(&random, "random", false, "vary the chunk size between 1 and chunk-size each tick, to exercise chunk-boundary handling")
	return cmd
}

func newWatchModel(handler *parser.Handler, source []byte, chunkSize int, random bool) *watchModel {
	if chunkSize < 1 {
		chunkSize = 1
	}
	log := viewport.New(80, 20)
	return &watchModel{
		handler:   handler,
		remaining: source,
		chunkSize: chunkSize,
		random:    random,
		log:       log,
	}
}

func (m *watchModel) Init() tea.Cmd {
	return scheduleWatchTick()
}

func scheduleWatchTick() tea.Cmd {
	return tea.Tick(watchTickInterval, func(time.Time) tea.Msg {
		return watchTickMsg{}
	})
}

func (m *watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = typed.Width, typed.Height
		m.log.Width = typed.Width
		m.log.Height = typed.Height - 2
		return m, nil
	case tea.KeyMsg:
		switch typed.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.log, cmd = m.log.Update(msg)
		return m, cmd
	case watchTickMsg:
		if m.finished {
			return m, nil
		}
		m.step()
		if m.finished {
			return m, nil
		}
		return m, scheduleWatchTick()
	}
	return m, nil
}

// step feeds the next chunk (or finalizes, once the source is exhausted) and
// appends the resulting events to the scrolling log.
func (m *watchModel) step() {
	var events []parser.SegmentEvent
	var err error

	if len(m.remaining) == 0 {
		events, err = m.handler.Finalize()
		m.finished = true
	} else {
		size := m.chunkSize
		if m.random {
			size = 1 + rand.Intn(m.chunkSize)
		}
		if size > len(m.remaining) {
			size = len(m.remaining)
		}
		events, err = m.handler.Feed(string(m.remaining[:size]))
		m.remaining = m.remaining[size:]
	}

	if err != nil {
		m.lines = append(m.lines, lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Render(err.Error()))
	}
	for _, event := range events {
		m.lines = append(m.lines, formatWatchEvent(event))
	}
	if invocations := m.handler.AllInvocations(); len(invocations) > m.invocationsSeen {
		for _, invocation := range invocations[m.invocationsSeen:] {
			m.lines = append(m.lines, runTheme.tool.Render(fmt.Sprintf("⚙ %s(%s)", invocation.Name, invocation.ID)))
		}
		m.invocationsSeen = len(invocations)
	}
	m.log.SetContent(strings.Join(m.lines, "\n"))
	m.log.GotoBottom()
}

func formatWatchEvent(event parser.SegmentEvent) string {
	switch event.Kind {
	case parser.EventStart:
		return runTheme.start.Render(fmt.Sprintf("▶ %s START %s", event.SegmentID, event.SegmentType))
	case parser.EventContent:
		label := event.SegmentID
		if event.ArgName != "" {
			label = fmt.Sprintf("%s[%s]", event.SegmentID, event.ArgName)
		}
		return fmt.Sprintf("  %s %q", label, event.Delta)
	case parser.EventEnd:
		return runTheme.end.Render(fmt.Sprintf("■ %s END", event.SegmentID))
	default:
		return ""
	}
}

func (m *watchModel) View() string {
	status := "feeding…"
	if m.finished {
		status = "done — press q to quit"
	}
	header := lipgloss.NewStyle().Bold(true).Render("streamdemo watch") + "  " + runTheme.dim.Render(status)
	return lipgloss.JoinVertical(lipgloss.Left, header, m.log.View())
}
