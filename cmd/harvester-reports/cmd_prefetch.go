package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/altinukshini/harvester-reports/internal/ops"
)

var (
	prefetchText  string
	prefetchForce bool
	prefetchPause time.Duration
)

var prefetchCmd = &cobra.Command{
	Use:   "prefetch",
	Short: "Download the export of every recent run into the cache",
	Long: `Stores the plain-text export of each run in the run list so the
terminal client can open them without waiting. Fresh cached exports are
kept unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		payload, err := loadPayload(ctx)
		if err != nil {
			return err
		}
		client, err := newClient()
		if err != nil {
			return err
		}
		exports, err := newExportCache()
		if err != nil {
			return err
		}

		opts := ops.PrefetchOptions{Text: prefetchText, Force: prefetchForce, Batch: 10, Pause: prefetchPause}
		errOut := cmd.ErrOrStderr()
		res, err := ops.PrefetchExports(ctx, client, exports, payload.Runs, opts, func(done, total int) {
			fmt.Fprintf(errOut, "\r%d/%d", done, total)
		})
		if len(payload.Runs) > 0 {
			fmt.Fprintln(errOut)
		}
		if res != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "downloaded %d, cached %d, failed %d\n", res.Completed, res.Cached, res.Failed)
			for _, e := range res.Errors {
				fmt.Fprintf(errOut, "  %v\n", e)
			}
		}
		return err
	},
}

func init() {
	prefetchCmd.Flags().StringVar(&prefetchText, "text", "", "free text added to every run query")
	prefetchCmd.Flags().BoolVar(&prefetchForce, "force", false, "download even when a fresh export is cached")
	prefetchCmd.Flags().DurationVar(&prefetchPause, "pause", 2*time.Second, "pause after every 10 downloads")
}
