package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/geoscene/internal/cli/output"
	"github.com/leapstack-labs/geoscene/internal/session"
)

// NewStatsCommand creates the stats command.
func NewStatsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <session.json>",
		Short: "Show statistics for a session file",
		Long: `Load a session from a JSON file and report its contents: object
counts per geometry kind, hierarchy size, and relationship graph size.

Output adapts to environment:
  - Terminal: Styled, colored output
  - Piped/Scripted: Markdown format (agent-friendly)

Use --output to override: auto, text, markdown, json`,
		Example: `  # Inspect a session file
  geoscene stats scene.json

  # Stats as JSON
  geoscene stats scene.json --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd, args[0])
		},
	}

	return cmd
}

type kindCount struct {
	Kind  string `json:"kind"`
	Count int    `json:"count"`
}

type sessionStats struct {
	GUID     string      `json:"guid"`
	Name     string      `json:"name"`
	Objects  int         `json:"objects"`
	Kinds    []kindCount `json:"kinds"`
	Nodes    int         `json:"tree_nodes"`
	Vertices int         `json:"graph_vertices"`
	Edges    int         `json:"graph_edges"`
}

func collectStats(s *session.Session) *sessionStats {
	o := s.Objects
	kinds := []kindCount{
		{"point", len(o.Points)},
		{"line", len(o.Lines)},
		{"plane", len(o.Planes)},
		{"bbox", len(o.BBoxes)},
		{"polyline", len(o.Polylines)},
		{"pointcloud", len(o.PointClouds)},
		{"mesh", len(o.Meshes)},
		{"cylinder", len(o.Cylinders)},
		{"arrow", len(o.Arrows)},
	}

	return &sessionStats{
		GUID:     s.GUID,
		Name:     s.Name,
		Objects:  o.Len(),
		Kinds:    kinds,
		Nodes:    len(s.Tree.Nodes()),
		Vertices: s.Graph.NumberOfVertices(),
		Edges:    s.Graph.NumberOfEdges(),
	}
}

func runStats(cmd *cobra.Command, path string) error {
	cmdCtx := NewCommandContextWithoutStore(cmd)
	r := cmdCtx.Renderer

	s, err := loadSession(path)
	if err != nil {
		return err
	}
	stats := collectStats(s)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(stats)
	case output.ModeMarkdown:
		return statsMarkdown(stats, r)
	default:
		return statsText(stats, r)
	}
}

func statsText(stats *sessionStats, r *output.Renderer) error {
	r.Header(1, fmt.Sprintf("Session %s", stats.Name))
	r.KeyValue("GUID", stats.GUID)
	r.KeyValue("Objects", fmt.Sprintf("%d", stats.Objects))
	r.KeyValue("Tree nodes", fmt.Sprintf("%d", stats.Nodes))
	r.KeyValue("Graph", fmt.Sprintf("%d vertices, %d edges", stats.Vertices, stats.Edges))
	r.Println("")

	t := table.NewWriter()
	t.SetOutputMirror(r.Out())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Kind", "Count"})
	for _, kc := range stats.Kinds {
		if kc.Count == 0 {
			continue
		}
		t.AppendRow(table.Row{kc.Kind, kc.Count})
	}
	t.Render()

	return nil
}

func statsMarkdown(stats *sessionStats, r *output.Renderer) error {
	r.Println(output.FormatHeader(1, fmt.Sprintf("Session %s", stats.Name)))
	r.Println("")
	r.Println(output.FormatKeyValue("GUID", stats.GUID))
	r.Println(output.FormatKeyValue("Objects", fmt.Sprintf("%d", stats.Objects)))
	r.Println(output.FormatKeyValue("Tree nodes", fmt.Sprintf("%d", stats.Nodes)))
	r.Println(output.FormatKeyValue("Graph vertices", fmt.Sprintf("%d", stats.Vertices)))
	r.Println(output.FormatKeyValue("Graph edges", fmt.Sprintf("%d", stats.Edges)))
	r.Println("")

	for _, kc := range stats.Kinds {
		if kc.Count == 0 {
			continue
		}
		r.Println(output.FormatKeyValue(kc.Kind, fmt.Sprintf("%d", kc.Count)))
	}

	return nil
}
