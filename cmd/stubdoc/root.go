package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"stubdoc/internal/config"
	"stubdoc/internal/logging"
	"stubdoc/internal/version"
)

var configRoot string

var rootCmd = &cobra.Command{
	Use:   "stubdoc",
	Short: "stubdoc - merge runtime docstrings into Python type stubs",
	Long: `stubdoc extracts docstrings exposed at runtime by a compiled extension
module and merges them into the module's declaration-only type stubs, so
editors and static tooling can show documentation the compiled module
does not statically expose.

Docstrings are introspected outside this tool (scripts/introspect.py
emits the JSON this tool consumes), extracted into a dotted-path map,
optionally snapshotted per module version, and spliced into the stub
files without disturbing any other byte of their formatting.`,
	Version: version.Version,
}

func init() {
	rootCmd.SetVersionTemplate("stubdoc version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&configRoot, "config-root", ".",
		"Directory containing .stubdoc/config.json")
}

// mustLoadConfig loads tool configuration or exits.
func mustLoadConfig() *config.Config {
	cfg, err := config.LoadConfig(configRoot)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// newLogger builds the logger the loaded configuration asks for.
func newLogger(cfg *config.Config) *logging.Logger {
	return logging.NewLogger(logging.Config{
		Format: logging.Format(cfg.Logging.Format),
		Level:  logging.LogLevel(cfg.Logging.Level),
	})
}
