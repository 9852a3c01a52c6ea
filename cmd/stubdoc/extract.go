package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"stubdoc/internal/extract"
	"stubdoc/internal/introspect"
	"stubdoc/internal/snapshot"
)

var (
	extractOut         string
	extractSnapVersion string
)

var extractCmd = &cobra.Command{
	Use:   "extract <introspection.json>",
	Short: "Extract a docstring map from module introspection data",
	Long: `Extract the documentation map from a module introspection dump.

The dump is JSON produced by scripts/introspect.py against the live
module: member names, kinds, defining modules, and docstrings. Only
members attributed to the module itself contribute keys; inherited and
re-exported members are skipped.

Examples:
  stubdoc extract netCDF4._netCDF4.json --out docstrings.json
  stubdoc extract netCDF4._netCDF4.json --snapshot 1.6.5`,
	Args: cobra.ExactArgs(1),
	Run:  runExtract,
}

func init() {
	extractCmd.Flags().StringVar(&extractOut, "out", "", "Write the docstring map to this JSON file")
	extractCmd.Flags().StringVar(&extractSnapVersion, "snapshot", "", "Store the map in the snapshot database under this module version")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) {
	cfg := mustLoadConfig()
	logger := newLogger(cfg)

	info, err := introspect.LoadModuleInfo(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading introspection data: %v\n", err)
		os.Exit(1)
	}

	docs, err := extract.Extract(info)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error extracting docstrings: %v\n", err)
		os.Exit(1)
	}

	logger.Info("Extracted docstrings", map[string]interface{}{
		"module": info.Name(),
		"docs":   len(docs),
	})

	if extractOut != "" {
		if err := docs.Save(extractOut); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving docstrings: %v\n", err)
			os.Exit(1)
		}
	}

	if extractSnapVersion != "" {
		store, err := snapshot.Open(cfg.SnapshotDB, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening snapshot store: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()

		if _, err := store.Save(info.Name(), extractSnapVersion, docs); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving snapshot: %v\n", err)
			os.Exit(1)
		}
	}

	if extractOut == "" && extractSnapVersion == "" {
		data, err := docs.Marshal()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding docstrings: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
	}
}
