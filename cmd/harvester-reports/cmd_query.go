package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/altinukshini/harvester-reports/internal/model"
	"github.com/altinukshini/harvester-reports/internal/query"
	"github.com/altinukshini/harvester-reports/internal/store"
)

var (
	queryRunID string
	queryText  string
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Build and parse harvester query strings",
}

var queryBuildCmd = &cobra.Command{
	Use:     "build",
	Short:   "Print the query string for a run and free text",
	Example: `  harvester-reports query build --runs-file runs.json --run-id 42 --text 'resource.id:abc'`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var run *model.Run
		if queryRunID != "" || cfg.RunsFile != "" {
			payload, err := runsFromFile(cmd.Context())
			if err != nil {
				return err
			}
			if run, err = findRun(payload, queryRunID); err != nil {
				return err
			}
		}
		fmt.Fprintln(cmd.OutOrStdout(), query.Build(run, queryText))
		return nil
	},
}

type parsedQuery struct {
	RunID string `json:"run_id"`
	Text  string `json:"text"`
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

var queryParseCmd = &cobra.Command{
	Use:   "parse QUERY",
	Short: "Show which run and free text a query string selects",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var runs []model.Run
		if cfg.RunsFile != "" {
			payload, err := runsFromFile(cmd.Context())
			if err != nil {
				return err
			}
			runs = payload.Runs
		}

		parsed := query.Parse(args[0], runs)
		out := parsedQuery{Text: parsed.Text}
		if parsed.Run != nil {
			out.RunID = parsed.Run.ID
		}
		if r, ok := query.ExtractRange(args[0]); ok {
			out.Start, out.End = r.Start, r.End
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func runsFromFile(ctx context.Context) (model.RunsPayload, error) {
	if cfg.RunsFile == "" {
		return model.RunsPayload{}, errors.New("--runs-file is required")
	}
	return store.LoadPayload(ctx, store.NewFileStore(cfg.RunsFile), cfg.Database.Limit)
}

func init() {
	queryBuildCmd.Flags().StringVar(&queryRunID, "run-id", "", "run to select (default: the newest run)")
	queryBuildCmd.Flags().StringVar(&queryText, "text", "", "free text")
	queryCmd.AddCommand(queryBuildCmd, queryParseCmd)
}
