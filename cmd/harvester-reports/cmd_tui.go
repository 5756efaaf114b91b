package main

import (
	"io/ioutil"
	"net/url"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cli/go-gh/v2/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/altinukshini/harvester-reports/internal/tui"
)

var initialQuery string

func runTUI(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	exports, err := newExportCache()
	if err != nil {
		return err
	}

	opts := tui.Options{
		Backend:   client,
		RunsLimit: cfg.Database.Limit,
		Exports:   exports,
		Browser:   browser.New("", ioutil.Discard, ioutil.Discard),
		Query:     initialQuery,
		Timeout:   cfg.HTTP.Timeout.Std(),
	}
	if u, err := url.Parse(cfg.BaseURL); err == nil {
		opts.Host = u.Host
	}

	runStore, closeStore, err := openRunStore(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()
	if runStore != nil {
		opts.Runs = runStore
	}

	p := tea.NewProgram(tui.NewApp(opts), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
