package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/geoscene/internal/cli/output"
	"github.com/leapstack-labs/geoscene/internal/session"
	"github.com/leapstack-labs/geoscene/pkg/geo"
)

// NewRaycastCommand creates the raycast command.
func NewRaycastCommand() *cobra.Command {
	var originFlag string
	var directionFlag string
	var tolerance float64

	cmd := &cobra.Command{
		Use:   "raycast <session.json>",
		Short: "Cast a ray through a session and report hits",
		Long: `Cast a ray from an origin along a direction through every object in
a session. Hits within the tolerance of the closest hit are reported,
nearest first.`,
		Example: `  # Cast along +X from the origin
  geoscene raycast scene.json --origin 0,0,0 --direction 1,0,0

  # Wider tie tolerance, JSON output
  geoscene raycast scene.json --origin 0,0,0 --direction 0,0,1 --tolerance 0.01 --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRaycast(cmd, args[0], originFlag, directionFlag, tolerance)
		},
	}

	cmd.Flags().StringVar(&originFlag, "origin", "0,0,0", "Ray origin as x,y,z")
	cmd.Flags().StringVar(&directionFlag, "direction", "0,0,1", "Ray direction as x,y,z")
	cmd.Flags().Float64Var(&tolerance, "tolerance", 0, "Tie tolerance for hits (0 uses the approximation tolerance)")

	return cmd
}

// parsePoint parses an "x,y,z" triple.
func parsePoint(s string) (*geo.Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return nil, fmt.Errorf("expected x,y,z but got %q", s)
	}
	coords := make([]float64, 3)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid coordinate %q: %w", p, err)
		}
		coords[i] = v
	}
	return geo.NewPoint(coords[0], coords[1], coords[2]), nil
}

func runRaycast(cmd *cobra.Command, path, originFlag, directionFlag string, tolerance float64) error {
	cmdCtx := NewCommandContextWithoutStore(cmd)
	r := cmdCtx.Renderer

	origin, err := parsePoint(originFlag)
	if err != nil {
		return fmt.Errorf("invalid --origin: %w", err)
	}
	dirPoint, err := parsePoint(directionFlag)
	if err != nil {
		return fmt.Errorf("invalid --direction: %w", err)
	}
	direction := geo.NewVector(dirPoint.X(), dirPoint.Y(), dirPoint.Z())
	if direction.ComputeLength() <= 0 {
		return fmt.Errorf("invalid --direction: zero length")
	}
	if tolerance <= 0 {
		tolerance = geo.TOL.Approximation()
	}

	s, err := loadSession(path)
	if err != nil {
		return err
	}

	hits := s.RayCast(origin, direction, tolerance)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(hits)
	case output.ModeMarkdown:
		return raycastMarkdown(hits, r)
	default:
		return raycastText(hits, r)
	}
}

func raycastText(hits []session.RayHit, r *output.Renderer) error {
	r.Header(1, fmt.Sprintf("Ray hits (%d)", len(hits)))
	if len(hits) == 0 {
		r.Println("No hits.")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.Out())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"GUID", "X", "Y", "Z", "Distance"})
	for _, h := range hits {
		t.AppendRow(table.Row{
			h.GUID,
			fmt.Sprintf("%.6f", h.Point.X()),
			fmt.Sprintf("%.6f", h.Point.Y()),
			fmt.Sprintf("%.6f", h.Point.Z()),
			fmt.Sprintf("%.6f", h.Distance),
		})
	}
	t.Render()

	return nil
}

func raycastMarkdown(hits []session.RayHit, r *output.Renderer) error {
	r.Println(output.FormatHeader(1, fmt.Sprintf("Ray hits (%d)", len(hits))))
	r.Println("")
	for _, h := range hits {
		r.Println(output.FormatKeyValue(h.GUID, fmt.Sprintf(
			"(%.6f, %.6f, %.6f) at distance %.6f",
			h.Point.X(), h.Point.Y(), h.Point.Z(), h.Distance)))
	}
	return nil
}
