package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"stubdoc/internal/snapshot"
)

var snapshotModule string

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Manage docstring snapshots",
	Long: `Commands for the per-version docstring snapshot store.

Snapshots let a merge replay the docstrings of a module build that is
no longer installed, without re-importing that exact version.

Examples:
  stubdoc snapshot list
  stubdoc snapshot list --module netCDF4._netCDF4
  stubdoc snapshot show netCDF4._netCDF4 1.6.5
  stubdoc snapshot delete netCDF4._netCDF4 1.6.5`,
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored snapshots",
	Run:   runSnapshotList,
}

var snapshotShowCmd = &cobra.Command{
	Use:   "show <module> <version>",
	Short: "Print a snapshot's docstring map as JSON",
	Args:  cobra.ExactArgs(2),
	Run:   runSnapshotShow,
}

var snapshotDeleteCmd = &cobra.Command{
	Use:   "delete <module> <version>",
	Short: "Delete a snapshot",
	Args:  cobra.ExactArgs(2),
	Run:   runSnapshotDelete,
}

func init() {
	snapshotListCmd.Flags().StringVar(&snapshotModule, "module", "", "Only list snapshots for this module")
	snapshotCmd.AddCommand(snapshotListCmd)
	snapshotCmd.AddCommand(snapshotShowCmd)
	snapshotCmd.AddCommand(snapshotDeleteCmd)
	rootCmd.AddCommand(snapshotCmd)
}

func mustOpenStore() *snapshot.Store {
	cfg := mustLoadConfig()
	store, err := snapshot.Open(cfg.SnapshotDB, newLogger(cfg))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening snapshot store: %v\n", err)
		os.Exit(1)
	}
	return store
}

func runSnapshotList(cmd *cobra.Command, args []string) {
	store := mustOpenStore()
	defer store.Close()

	infos, err := store.List(snapshotModule)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing snapshots: %v\n", err)
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "MODULE\tVERSION\tDOCS\tCREATED")
	for _, info := range infos {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
			info.Module, info.Version, info.DocCount, info.CreatedAt.Format("2006-01-02 15:04"))
	}
	_ = w.Flush()
}

func runSnapshotShow(cmd *cobra.Command, args []string) {
	store := mustOpenStore()
	defer store.Close()

	docs, err := store.Load(args[0], args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading snapshot: %v\n", err)
		os.Exit(1)
	}

	data, err := docs.Marshal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding docstrings: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(data))
}

func runSnapshotDelete(cmd *cobra.Command, args []string) {
	store := mustOpenStore()
	defer store.Close()

	if err := store.Delete(args[0], args[1]); err != nil {
		fmt.Fprintf(os.Stderr, "Error deleting snapshot: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Deleted snapshot %s %s\n", args[0], args[1])
}
