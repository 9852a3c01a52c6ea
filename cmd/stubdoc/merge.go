package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"stubdoc/internal/batch"
	"stubdoc/internal/config"
	"stubdoc/internal/docmap"
	"stubdoc/internal/format"
	"stubdoc/internal/logging"
	"stubdoc/internal/merge"
	"stubdoc/internal/project"
	"stubdoc/internal/snapshot"
)

var (
	mergeModule   string
	mergeDocs     string
	mergeSnapVer  string
	mergeOverride bool
	mergeOutput   string
	mergePipeline string
	mergeWorkers  int
	mergeManifest string
)

var mergeCmd = &cobra.Command{
	Use:   "merge [stubs...]",
	Short: "Merge docstrings into stub files",
	Long: `Merge extracted docstrings into one or more stub files.

Docstrings come from a JSON file (--docs) or from a stored snapshot
(--snapshot-version). With --manifest, the stub list, module name, and
defaults come from a stubdoc.toml manifest instead of flags.

Declarations that already carry a docstring are left untouched unless
--override is given. All other formatting survives byte for byte.

Examples:
  stubdoc merge --module netCDF4._netCDF4 --docs docstrings.json stubs/_netCDF4.pyi
  stubdoc merge --module netCDF4._netCDF4 --snapshot-version 1.6.5 stubs/_netCDF4.pyi
  stubdoc merge --manifest .
  stubdoc merge --module m --docs d.json --output test_m.pyi stubs/m.pyi`,
	Run: runMerge,
}

func init() {
	mergeCmd.Flags().StringVar(&mergeModule, "module", "", "Dotted module name rooting every docstring key")
	mergeCmd.Flags().StringVar(&mergeDocs, "docs", "", "Path to extracted docstrings JSON")
	mergeCmd.Flags().StringVar(&mergeSnapVer, "snapshot-version", "", "Load docstrings from the snapshot store for this module version")
	mergeCmd.Flags().BoolVar(&mergeOverride, "override", false, "Replace docstrings already present in the stubs")
	mergeCmd.Flags().StringVar(&mergeOutput, "output", "", "Write the merged stub here instead of in place (single stub only)")
	mergeCmd.Flags().StringVar(&mergePipeline, "pipeline", "", "Formatter pipeline YAML to run before and after the merge")
	mergeCmd.Flags().IntVar(&mergeWorkers, "workers", 0, "Parallel stub merges (default from config)")
	mergeCmd.Flags().StringVar(&mergeManifest, "manifest", "", "Directory containing stubdoc.toml")
	rootCmd.AddCommand(mergeCmd)
}

func runMerge(cmd *cobra.Command, args []string) {
	cfg := mustLoadConfig()
	logger := newLogger(cfg)
	ctx := context.Background()

	module := mergeModule
	docsPath := mergeDocs
	pipelinePath := mergePipeline
	override := mergeOverride
	stubs := args

	if mergeManifest != "" {
		manifest, err := project.Load(mergeManifest)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading manifest: %v\n", err)
			os.Exit(1)
		}
		if module == "" {
			module = manifest.Module
		}
		if docsPath == "" {
			docsPath = manifest.Resolve(manifest.Docstrings)
		}
		if pipelinePath == "" {
			pipelinePath = manifest.Resolve(manifest.Pipeline)
		}
		if manifest.Override {
			override = true
		}
		if len(stubs) == 0 {
			stubs = manifest.StubPaths()
		}
		if mergeSnapVer == "" && docsPath == "" && manifest.Version != "" {
			mergeSnapVer = manifest.Version
		}
	}

	if module == "" {
		fmt.Fprintln(os.Stderr, "Error: --module (or a manifest) is required")
		os.Exit(1)
	}
	if len(stubs) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no stub files given")
		os.Exit(1)
	}
	if mergeOutput != "" && len(stubs) != 1 {
		fmt.Fprintln(os.Stderr, "Error: --output needs exactly one stub file")
		os.Exit(1)
	}

	docs := mustLoadDocs(cfg, logger, module, docsPath)

	var pipeline *format.Pipeline
	if pipelinePath != "" {
		p, err := format.Load(pipelinePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading pipeline: %v\n", err)
			os.Exit(1)
		}
		pipeline = p
	}

	if pipeline != nil {
		for _, stub := range stubs {
			if err := pipeline.RunPre(ctx, logger, stub); err != nil {
				fmt.Fprintf(os.Stderr, "Error in pre-merge formatting: %v\n", err)
				os.Exit(1)
			}
		}
	}

	tasks := make([]batch.Task, len(stubs))
	for i, stub := range stubs {
		tasks[i] = batch.Task{Source: stub, Dest: mergeOutput, Module: module}
	}

	workers := mergeWorkers
	if workers == 0 {
		workers = cfg.Workers
	}

	if err := batch.Run(ctx, logger, docs, tasks, merge.Options{Override: override}, workers); err != nil {
		fmt.Fprintf(os.Stderr, "Error merging stubs: %v\n", err)
		os.Exit(1)
	}

	if pipeline != nil {
		for _, task := range tasks {
			dest := task.Dest
			if dest == "" {
				dest = task.Source
			}
			if err := pipeline.RunPost(ctx, logger, dest); err != nil {
				fmt.Fprintf(os.Stderr, "Error in post-merge formatting: %v\n", err)
				os.Exit(1)
			}
		}
	}
}

// mustLoadDocs loads the documentation map from the docs file or the
// snapshot store.
func mustLoadDocs(cfg *config.Config, logger *logging.Logger, module, docsPath string) docmap.Map {
	switch {
	case docsPath != "":
		docs, err := docmap.Load(docsPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading docstrings: %v\n", err)
			os.Exit(1)
		}
		return docs
	case mergeSnapVer != "":
		store, err := snapshot.Open(cfg.SnapshotDB, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening snapshot store: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()

		docs, err := store.Load(module, mergeSnapVer)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading snapshot: %v\n", err)
			os.Exit(1)
		}
		return docs
	default:
		fmt.Fprintln(os.Stderr, "Error: --docs or --snapshot-version is required")
		os.Exit(1)
		return nil
	}
}
