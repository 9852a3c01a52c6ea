// Package batch merges docstrings into many stub files at once. Each
// file's merge is independent and owns its own scope state, so files
// run in parallel; within a file the walk stays a single pass.
package batch

import (
	"context"

	"golang.org/x/sync/errgroup"

	"stubdoc/internal/docmap"
	"stubdoc/internal/logging"
	"stubdoc/internal/merge"
	"stubdoc/internal/stubfile"
)

// DefaultWorkers bounds parallelism when the caller does not.
const DefaultWorkers = 4

// Task names one stub file to merge.
type Task struct {
	// Source is the stub file to read
	Source string
	// Dest is where the rewritten stub goes; empty means in place
	Dest string
	// Module is the root module name for dotted-path lookups
	Module string
}

// Run merges every task, up to workers files at a time. The first
// failure cancels the remaining tasks; files already rewritten stay
// rewritten, files not yet written are untouched.
func Run(ctx context.Context, logger *logging.Logger, docs docmap.Map, tasks []Task, opts merge.Options, workers int) error {
	if workers <= 0 {
		workers = DefaultWorkers
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, task := range tasks {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			dest := task.Dest
			if dest == "" {
				dest = task.Source
			}

			var inserted, unused int
			err := stubfile.Rewrite(task.Source, dest, func(source string) (string, error) {
				res, err := merge.Merge(ctx, docs, task.Module, source, opts)
				if err != nil {
					return "", err
				}
				inserted = res.Inserted
				unused = len(docs.Unused(res.Used))
				return res.Text, nil
			})
			if err != nil {
				logger.Error("Merge failed", map[string]interface{}{
					"stub":  task.Source,
					"error": err.Error(),
				})
				return err
			}

			logger.Info("Merged stub", map[string]interface{}{
				"stub":     task.Source,
				"inserted": inserted,
				"unused":   unused,
			})
			return nil
		})
	}

	return g.Wait()
}
