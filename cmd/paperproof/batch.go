package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mxchen-dev/paperproof/internal/async"
	"github.com/mxchen-dev/paperproof/internal/record"
)

var (
	batchWorkers int
	batchTimeout time.Duration
)

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Verify every metadata JSON document in a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		dir := args[0]
		entries, err := os.ReadDir(dir)
		if err != nil {
			return fmt.Errorf("read directory %s: %w", dir, err)
		}

		verifier := verifierFunc(a.paper.Verify)
		queue := async.NewVerifyQueue(verifier, a.logger,
			async.WithWorkers(batchWorkers),
			async.WithJobTimeout(batchTimeout),
		)

		queued := 0
		for _, e := range entries {
			if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
				continue
			}
			queue.Enqueue(async.NewJob(filepath.Join(dir, e.Name())))
			queued++
		}
		if queued == 0 {
			a.logger.Warn("batch.no_metadata", "dir", dir)
		}

		queue.Shutdown(cmd.Context())
		return a.writeOutcomes(queue.Outcomes())
	},
}

// verifierFunc adapts the paper verifier method to the queue interface.
type verifierFunc func(ctx context.Context, ref *record.Reference) record.Outcome

func (f verifierFunc) Verify(ctx context.Context, ref *record.Reference) record.Outcome {
	return f(ctx, ref)
}

func init() {
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 1, "concurrent verification workers")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "per-paper timeout")
	rootCmd.AddCommand(batchCmd)
}
