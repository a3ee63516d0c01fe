package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/openclaude/streamparse/internal/parser"
)

// runTheme colors event kinds the way the teacher's TUI colors message roles.
var runTheme = struct {
	start lipgloss.Style
	end   lipgloss.Style
	tool  lipgloss.Style
	dim   lipgloss.Style
}{
	start: lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#2c7a39", Dark: "#4eba65"}).Bold(true),
	end:   lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#999999"}),
	tool:  lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#5769f7", Dark: "#b1b9f9"}).Bold(true),
	dim:   lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#966c1e", Dark: "#ffc107"}),
}

func runCommand() *cobra.Command {
	flags := &sharedFlags{}
	var renderMarkdown bool
	var jsonLines bool

	cmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Feed a file (or stdin) through the parser once and print events and invocations",
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

			events, err := handler.Feed(string(source))
			if err != nil {
				return fmt.Errorf("feed input: %w", err)
			}
			tail, err := handler.Finalize()
			if err != nil {
				return fmt.Errorf("finalize: %w", err)
			}
			events = append(events, tail...)

			if jsonLines {
				return parser.NewEventWriter(os.Stdout).WriteAll(events)
			}
			renderRunSummary(events, handler.AllInvocations(), renderMarkdown)
			return nil
		},
	}

	applySharedFlags(cmd, flags)
	cmd.Flags().BoolVar(&renderMarkdown, "render", false, "render reassembled TEXT segments as markdown instead of raw deltas")
	cmd.Flags().BoolVar(&jsonLines, "json", false, "print newline-delimited wire JSON events instead of a human summary")
	return cmd
}

// renderRunSummary prints a human-readable walk of the event stream: one styled
// line per START/END, and either raw or glamour-rendered content per segment.
func renderRunSummary(events []parser.SegmentEvent, invocations []parser.ToolInvocation, renderMarkdown bool) {
	var renderer *glamour.TermRenderer
	if renderMarkdown {
		if glam, err := glamour.NewTermRenderer(glamour.WithAutoStyle()); err == nil {
			renderer = glam
		}
	}

	content := map[string]*strings.Builder{}
	order := []string{}
	kindOf := map[string]parser.SegmentType{}

	for _, event := range events {
		switch event.Kind {
		case parser.EventStart:
			content[event.SegmentID] = &strings.Builder{}
			kindOf[event.SegmentID] = event.SegmentType
			order = append(order, event.SegmentID)
			fmt.Println(runTheme.start.Render(fmt.Sprintf("▶ %s START %s", event.SegmentID, event.SegmentType)))
		case parser.EventContent:
			if builder, ok := content[event.SegmentID]; ok {
				builder.WriteString(event.Delta)
			}
		case parser.EventEnd:
			fmt.Println(runTheme.end.Render(fmt.Sprintf("■ %s END", event.SegmentID)))
		}
	}

	for _, id := range order {
		body := content[id].String()
		if body == "" {
			continue
		}
		if renderMarkdown && kindOf[id] == parser.SegmentText && renderer != nil {
			if rendered, err := renderer.Render(body); err == nil {
				fmt.Println(rendered)
				continue
			}
		}
		fmt.Println(body)
	}

	for _, invocation := range invocations {
		fmt.Println(runTheme.tool.Render(fmt.Sprintf("⚙ %s(%s)", invocation.Name, invocation.ID)))
		for key, value := range invocation.Arguments {
			fmt.Println(runTheme.dim.Render(fmt.Sprintf("    %s = %v", key, value)))
		}
	}

	if len(events) == 0 {
		slog.Default().Debug("empty stream produced no events")
	}
}
