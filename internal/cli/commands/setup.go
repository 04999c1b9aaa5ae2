package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/geoscene/internal/cli/config"
	"github.com/leapstack-labs/geoscene/internal/cli/output"
	"github.com/leapstack-labs/geoscene/internal/session"
	"github.com/leapstack-labs/geoscene/internal/state"
	"github.com/leapstack-labs/geoscene/pkg/geo"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Store    *state.SQLiteStore
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with an open state store
// and a renderer. Returns the context and a cleanup function that must
// be called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	store, err := openStore(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	cleanup := func() {
		_ = store.Close()
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Store:    store,
		Renderer: r,
	}, cleanup, nil
}

// NewCommandContextWithoutStore creates a CommandContext without a
// state store. Useful for commands that don't need persistence.
func NewCommandContextWithoutStore(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// Helper functions shared across commands

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back
// to environment variables.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	statePath := getEnvOrDefault("GEOSCENE_STATE_PATH", config.DefaultStateFile)
	verbose := os.Getenv("GEOSCENE_VERBOSE") == "true"
	outputFormat := os.Getenv("GEOSCENE_OUTPUT")

	return &config.Config{
		StatePath:    statePath,
		Verbose:      verbose,
		OutputFormat: outputFormat,
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func openStore(cfg *config.Config, logger *slog.Logger) (*state.SQLiteStore, error) {
	stateDir := filepath.Dir(cfg.StatePath)
	if stateDir != "." && stateDir != "" {
		if err := os.MkdirAll(stateDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	store := state.NewSQLiteStore(logger)
	if err := store.Open(cfg.StatePath); err != nil {
		return nil, err
	}
	if err := store.InitSchema(); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

// loadSession reads a session from a JSON file.
func loadSession(path string) (*session.Session, error) {
	var s session.Session
	if err := geo.JSONLoad(path, &s); err != nil {
		return nil, fmt.Errorf("failed to load session from %s: %w", path, err)
	}
	return &s, nil
}

// sessionFromPayload decodes a stored session snapshot.
func sessionFromPayload(payload string) (*session.Session, error) {
	var s session.Session
	if err := geo.JSONLoads(payload, &s); err != nil {
		return nil, fmt.Errorf("failed to decode stored session: %w", err)
	}
	return &s, nil
}
