package main

import (
	"fmt"
	"io/ioutil"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/altinukshini/harvester-reports/internal/query"
	"github.com/altinukshini/harvester-reports/internal/search"
)

var (
	downloadOut   string
	downloadGrep  string
	downloadRegex bool
	downloadRunID string
	downloadText  string
)

var downloadCmd = &cobra.Command{
	Use:   "download [QUERY]",
	Short: "Save the plain-text export of a query",
	Long: `Downloads every audit log line matching QUERY. Without QUERY the query
is built from --run-id (default: the newest run) and --text.

The file is named harvester_logs_YYYYMMDD_HHMMSS.txt unless -o is given;
-o - writes to stdout.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDownload,
}

func init() {
	downloadCmd.Flags().StringVarP(&downloadOut, "output", "o", "", "output file, - for stdout")
	downloadCmd.Flags().StringVar(&downloadGrep, "grep", "", "keep only lines containing this text")
	downloadCmd.Flags().BoolVar(&downloadRegex, "regex", false, "treat --grep as a regular expression")
	downloadCmd.Flags().StringVar(&downloadRunID, "run-id", "", "build the query for this run")
	downloadCmd.Flags().StringVar(&downloadText, "text", "", "free text added to the run query")
}

func runDownload(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var q string
	if len(args) == 1 {
		q = args[0]
	} else {
		payload, err := loadPayload(ctx)
		if err != nil {
			return err
		}
		run, err := findRun(payload, downloadRunID)
		if err != nil {
			return err
		}
		q = query.Build(run, downloadText)
	}
	if strings.TrimSpace(q) == "" {
		return query.ErrEmptyQuery
	}

	client, err := newClient()
	if err != nil {
		return err
	}
	body, err := client.DownloadLogs(ctx, q)
	if err != nil {
		return err
	}
	defer body.Close()
	data, err := ioutil.ReadAll(body)
	if err != nil {
		return errors.Wrap(err, "read export")
	}
	content := string(data)

	if downloadGrep != "" {
		content, err = search.New().Filter(content, search.Query{Pattern: downloadGrep, IsRegex: downloadRegex})
		if err != nil {
			return err
		}
	}

	if downloadOut == "-" {
		_, err = fmt.Fprint(cmd.OutOrStdout(), content)
		return err
	}
	out := downloadOut
	if out == "" {
		out = query.ExportFilename(time.Now())
	}
	if err := ioutil.WriteFile(out, []byte(content), 0o644); err != nil {
		return errors.Wrap(err, "write export")
	}
	log.Info().Str("file", out).Int("lines", strings.Count(content, "\n")).Msg("export saved")
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}
