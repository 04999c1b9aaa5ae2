package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/geoscene/pkg/geo"
	"github.com/leapstack-labs/geoscene/pkg/mesh"
)

// NewConvertCommand creates the convert command.
func NewConvertCommand() *cobra.Command {
	var pretty bool

	cmd := &cobra.Command{
		Use:   "convert <input> <output>",
		Short: "Convert a mesh between OBJ and JSON",
		Long: `Convert a mesh file between Wavefront OBJ and the native JSON
format. The direction is inferred from the file extensions.`,
		Example: `  # OBJ to JSON
  geoscene convert bunny.obj bunny.json

  # JSON back to OBJ
  geoscene convert bunny.json bunny.obj`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args[0], args[1], pretty)
		},
	}

	cmd.Flags().BoolVar(&pretty, "pretty", true, "Indent JSON output")

	return cmd
}

func runConvert(cmd *cobra.Command, input, outputPath string, pretty bool) error {
	cmdCtx := NewCommandContextWithoutStore(cmd)
	r := cmdCtx.Renderer

	inExt := strings.ToLower(filepath.Ext(input))
	outExt := strings.ToLower(filepath.Ext(outputPath))

	var m *mesh.Mesh
	var err error

	switch inExt {
	case ".obj":
		m, err = mesh.ReadOBJ(input)
	case ".json":
		m = mesh.New()
		err = geo.JSONLoad(input, m)
	default:
		return fmt.Errorf("unsupported input format %q (want .obj or .json)", inExt)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", input, err)
	}

	switch outExt {
	case ".obj":
		err = mesh.WriteOBJ(m, outputPath)
	case ".json":
		err = geo.JSONDump(m, outputPath, pretty)
	default:
		return fmt.Errorf("unsupported output format %q (want .obj or .json)", outExt)
	}
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", outputPath, err)
	}

	r.Success(fmt.Sprintf("Converted %s (%d vertices, %d faces) to %s",
		input, m.NumberOfVertices(), m.NumberOfFaces(), outputPath))

	return nil
}
