package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/geoscene/internal/cli/output"
)

// NewCollideCommand creates the collide command.
func NewCollideCommand() *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "collide <session.json> [session.json...]",
		Short: "Detect bounding-box collisions in one or more sessions",
		Long: `Run broad-phase collision detection over the objects of each given
session file. Sessions are processed concurrently; each collision pair
is also recorded as a relationship inside the session graph.`,
		Example: `  # Collisions in a single session
  geoscene collide scene.json

  # Several sessions at once
  geoscene collide a.json b.json c.json --workers 4`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCollide(cmd, args, workers)
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 4, "Maximum sessions processed concurrently")

	return cmd
}

type collisionReport struct {
	File  string      `json:"file"`
	Name  string      `json:"name"`
	Pairs [][2]string `json:"pairs"`
}

func runCollide(cmd *cobra.Command, paths []string, workers int) error {
	cmdCtx := NewCommandContextWithoutStore(cmd)
	r := cmdCtx.Renderer

	if workers < 1 {
		workers = 1
	}

	reports := make([]*collisionReport, len(paths))

	g, _ := errgroup.WithContext(cmd.Context())
	g.SetLimit(workers)
	for i, path := range paths {
		g.Go(func() error {
			s, err := loadSession(path)
			if err != nil {
				return err
			}
			reports[i] = &collisionReport{
				File:  path,
				Name:  s.Name,
				Pairs: s.Collisions(),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(reports)
	case output.ModeMarkdown:
		return collideMarkdown(reports, r)
	default:
		return collideText(reports, r)
	}
}

func collideText(reports []*collisionReport, r *output.Renderer) error {
	for _, rep := range reports {
		r.Header(1, fmt.Sprintf("%s (%d collisions)", rep.Name, len(rep.Pairs)))
		if len(rep.Pairs) == 0 {
			r.Println("No collisions.")
			continue
		}

		t := table.NewWriter()
		t.SetOutputMirror(r.Out())
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Object A", "Object B"})
		for _, pair := range rep.Pairs {
			t.AppendRow(table.Row{pair[0], pair[1]})
		}
		t.Render()
	}

	return nil
}

func collideMarkdown(reports []*collisionReport, r *output.Renderer) error {
	for _, rep := range reports {
		r.Println(output.FormatHeader(1, fmt.Sprintf("%s (%d collisions)", rep.Name, len(rep.Pairs))))
		r.Println("")
		for _, pair := range rep.Pairs {
			r.Println(output.FormatKeyValue(pair[0], pair[1]))
		}
		r.Println("")
	}
	return nil
}
