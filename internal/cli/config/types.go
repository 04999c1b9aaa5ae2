// Package config provides configuration management for the GeoScene
// CLI: a geoscene.yaml file merged with environment variables and
// command-line flags through koanf.
package config

// Config holds all CLI configuration options.
type Config struct {
	ProjectRoot  string          `koanf:"-"`
	StatePath    string          `koanf:"state_path"`
	Verbose      bool            `koanf:"verbose"`
	OutputFormat string          `koanf:"output"`
	Tolerance    ToleranceConfig `koanf:"tolerance"`
}

// ToleranceConfig overrides the package-wide geometric tolerances.
// Zero values leave the corresponding default untouched.
type ToleranceConfig struct {
	Unit          string  `koanf:"unit"`
	Absolute      float64 `koanf:"absolute"`
	Relative      float64 `koanf:"relative"`
	Angular       float64 `koanf:"angular"`
	Approximation float64 `koanf:"approximation"`
	Precision     int     `koanf:"precision"`
}

// Default configuration values.
const (
	DefaultStateFile = ".geoscene/state.db"
	DefaultOutput    = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultUnit      = "M"
)
