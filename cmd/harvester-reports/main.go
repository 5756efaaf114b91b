package main

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/altinukshini/harvester-reports/internal/config"
	"github.com/altinukshini/harvester-reports/internal/logging"
)

var version = "dev"

func init() {
	if version != "dev" {
		return
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		version = info.Main.Version
	}
}

var (
	// Global flags
	configPath string
	logLevel   string
	runsFile   string

	cfg       *config.Config
	logCloser io.Closer
)

// rootCmd starts the terminal client when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "harvester-reports",
	Short: "Browse the audit logs of INSPIRE harvest runs",
	Long: `harvester-reports pairs a harvest run with free-text search over the
audit logs it published.

Run without arguments to start the terminal client. The serve command
exposes the runs list and the plain-text export over HTTP.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if logLevel != "" {
			cfg.Log.Level = logLevel
		}
		if runsFile != "" {
			cfg.RunsFile = runsFile
		}

		// The terminal client owns the screen: log to a file or nowhere.
		if ownsTerminal(cmd) {
			logCloser, err = logging.Setup(cfg.Log.Level, cfg.Log.File, nil)
		} else {
			logCloser, err = logging.Setup(cfg.Log.Level, "", os.Stderr)
		}
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			_ = logCloser.Close()
		}
	},
	RunE: runTUI,
}

// ownsTerminal reports whether cmd is the bare root command, which
// draws the full-screen client.
func ownsTerminal(cmd *cobra.Command) bool {
	return !cmd.HasParent()
}

func init() {
	rootCmd.Version = version
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error, disabled")
	rootCmd.PersistentFlags().StringVar(&runsFile, "runs-file", "", "read runs from a JSON file instead of the instance")
	rootCmd.Flags().StringVarP(&initialQuery, "query", "q", "", "open with this query string")

	rootCmd.AddCommand(serveCmd, downloadCmd, queryCmd, runsCmd, tokenCmd, prefetchCmd)
}

func main() {
	// A missing .env is fine.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
