package cli

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/steipete/freshtabs"
)

const version = "0.1.0"

var (
	cfgFile string
	quiet   bool
	debug   bool

	pathFlag    string
	browserFlag string
	profileFlag string
	serviceFlag string
	formatFlag  string
	uniqueFlag  bool
	fillTitles  bool
	historyDB   string
)

const (
	formatTSV  = "tsv"
	formatJSON = "json"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "freshtabs",
	Short: "List open tabs from a browser session file",
	Long: `freshtabs reads a Chromium-family session file ("Current Tabs",
"Current Session" or their timestamped Sessions/ successors) and prints one
title<TAB>url line per tab entry. The file is only ever read, never written.

Point it at a file with --path, or let it locate the session store of an
installed browser with --browser.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runExtract,
}

// Run parses args and executes the root command. It is called by main.main().
func Run(args []string) error {
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is <user config dir>/freshtabs/config.ini)")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "only log errors")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log debug details")

	rootCmd.Flags().StringVar(&pathFlag, "path", "", "path to a session file (~ and escaped spaces are expanded)")
	rootCmd.Flags().StringVar(&browserFlag, "browser", "", "browser whose session store is located automatically (chrome, chromium, edge, brave, vivaldi, opera)")
	rootCmd.Flags().StringVar(&profileFlag, "profile", "", "profile name, profile directory or session file path (with --browser)")
	rootCmd.Flags().StringVar(&serviceFlag, "service", "", "force the command vocabulary (tabs or session)")
	rootCmd.Flags().StringVar(&formatFlag, "format", "", "output format: tsv or json (default tsv)")
	rootCmd.Flags().BoolVar(&uniqueFlag, "unique", false, "drop duplicate (title, url) pairs")
	rootCmd.Flags().BoolVar(&fillTitles, "fill-titles", false, "fill empty titles from the profile's History database")
	rootCmd.Flags().StringVar(&historyDB, "history", "", "History database used by --fill-titles (default: next to the session file)")

	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
`)
}

// GetRootCmd returns the root command for testing.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func runExtract(cmd *cobra.Command, _ []string) error {
	log := newLogger()

	cfg, err := loadConfig(cfgFile)
	if err != nil {
		return err
	}
	applyConfig(cmd, cfg)

	if pathFlag == "" && browserFlag == "" {
		return errors.New("freshtabs: one of --path and --browser is required")
	}
	if pathFlag != "" && browserFlag != "" {
		return errors.New("freshtabs: --path and --browser are mutually exclusive")
	}

	opts := freshtabs.Options{
		Path:       pathFlag,
		Profile:    profileFlag,
		FillTitles: fillTitles,
		HistoryDB:  historyDB,
		Unique:     uniqueFlag,
	}
	if browserFlag != "" {
		b, err := browserForName(browserFlag)
		if err != nil {
			return err
		}
		opts.Browser = b
	}
	if opts.Service, err = serviceForName(serviceFlag); err != nil {
		return err
	}

	format := formatFlag
	if format == "" {
		format = formatTSV
	}
	if format != formatTSV && format != formatJSON {
		return fmt.Errorf("freshtabs: unsupported format %q", format)
	}

	start := time.Now()
	res, err := freshtabs.Read(cmd.Context(), opts)
	for _, w := range res.Warnings {
		log.Warn().Msg(w)
	}
	if err != nil {
		return err
	}

	log.Debug().
		Str("store", res.Source.StorePath).
		Str("profile", res.Source.Profile).
		Str("service", string(res.Source.Service)).
		Bool("from_scan", res.Source.FromScan).
		Int("records", len(res.Records)).
		Dur("elapsed", time.Since(start)).
		Msg("session store read")

	return renderRecords(cmd.OutOrStdout(), res.Records, format)
}

func browserForName(name string) (freshtabs.Browser, error) {
	b := freshtabs.Browser(strings.ToLower(strings.TrimSpace(name)))
	if !slices.Contains(freshtabs.DefaultBrowsers(), b) {
		return "", fmt.Errorf("freshtabs: unknown browser %q", name)
	}
	return b, nil
}

func serviceForName(name string) (freshtabs.Service, error) {
	switch freshtabs.Service(strings.ToLower(strings.TrimSpace(name))) {
	case "":
		return "", nil
	case freshtabs.ServiceTabs:
		return freshtabs.ServiceTabs, nil
	case freshtabs.ServiceSession:
		return freshtabs.ServiceSession, nil
	default:
		return "", fmt.Errorf("freshtabs: unknown service %q (want tabs or session)", name)
	}
}

// newLogger builds the diagnostics logger. Records go to stdout, so all
// logging goes to stderr to keep pipelines clean.
func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	if quiet {
		level = zerolog.ErrorLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().
		Timestamp().
		Logger()
}
