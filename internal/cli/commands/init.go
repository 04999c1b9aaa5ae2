package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/geoscene/internal/cli/config"
	"github.com/leapstack-labs/geoscene/internal/cli/output"
)

const defaultConfigTemplate = `# GeoScene project configuration.
# Values here can be overridden with GEOSCENE_* environment variables
# or command-line flags.

# Where the session store database lives, relative to this file.
state_path: %s

# Output format: auto, text, markdown, or json.
output: %s

tolerance:
  # Length unit used for reporting. Tolerances below are in this unit.
  unit: %s
  # Uncomment to override the built-in tolerances.
  # absolute: 1e-9
  # relative: 1e-6
  # angular: 1e-6
  # approximation: 1e-3
  # precision: 3
`

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new GeoScene project",
		Long: `Initialize a new GeoScene project with a default configuration file.

This creates:
  - geoscene.yaml configuration file
  - .geoscene/ directory for the session store`,
		Example: `  # Initialize in current directory
  geoscene init

  # Initialize in a new directory
  geoscene init my-project

  # Force overwrite existing config
  geoscene init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			cfg := getConfig()
			mode := output.Mode(cfg.OutputFormat)
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

			return runInit(r, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")

	return cmd
}

func runInit(r *output.Renderer, dir string, force bool) error {
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(dir, "geoscene.yaml")
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("geoscene.yaml already exists. Use --force to overwrite")
	}

	content := fmt.Sprintf(defaultConfigTemplate,
		config.DefaultStateFile, config.DefaultOutput, config.DefaultUnit)
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", configPath, err)
	}

	stateDir := filepath.Join(dir, filepath.Dir(config.DefaultStateFile))
	if err := os.MkdirAll(stateDir, 0750); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	r.Println(configPath)
	r.Println("")
	r.Success("GeoScene project initialized!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Adjust tolerances in geoscene.yaml if needed")
	r.Println("  2. Run 'geoscene stats <session.json>' to inspect a session")
	r.Println("  3. Run 'geoscene store save <session.json>' to persist it")

	return nil
}
