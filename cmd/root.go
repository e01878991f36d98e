// Package cmd wires the CLI: global flags, the dynamic per-stat flag
// surface built from the loaded config, and the period keywords.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"did/internal/config"
	"did/internal/dates"
	"did/internal/errs"
	"did/internal/logging"
	"did/internal/registry"
	"did/internal/render"
	"did/internal/report"
	"did/internal/sources"
	"did/internal/stats"
)

var (
	flagEmails  []string
	flagSince   string
	flagUntil   string
	flagConfig  string
	flagFormat  string
	flagWidth   int
	flagBrief   bool
	flagVerbose bool
	flagTotal   bool
	flagMerge   bool
	flagDebug   bool
)

// shared between Execute and run.
var (
	loadedConfig *config.Config
	statFlags    = stats.NewFlags()
)

var rootCmd = &cobra.Command{
	Use:   "did [today|yesterday|friday|this|last] [week|month|quarter|year]",
	Short: "What did you do last week, month, year?",
	Long: "Comfortably gather status report data for given week, month,\n" +
		"quarter, year or selected date range from all configured sources.",
	Args:          validateKeywords,
	RunE:          run,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	fs := rootCmd.Flags()
	fs.StringArrayVar(&flagEmails, "email", nil, "Report the given user(s), comma-separated or repeated")
	fs.StringVar(&flagSince, "since", "", "Start date (YYYY-MM-DD, inclusive)")
	fs.StringVar(&flagUntil, "until", "", "End date (YYYY-MM-DD, inclusive)")
	fs.StringVar(&flagConfig, "config", "", "Config file path")
	fs.StringVar(&flagFormat, "format", render.FormatText, "Output format: text, wiki, or markdown")
	fs.IntVar(&flagWidth, "width", -1, "Output width in columns, 0 disables truncation")
	fs.BoolVar(&flagBrief, "brief", false, "Show section headers only")
	fs.BoolVar(&flagVerbose, "verbose", false, "Include secondary detail lines")
	fs.BoolVar(&flagTotal, "total", false, "Append a team total report")
	fs.BoolVar(&flagMerge, "merge", false, "Merge all users into a single team report")
	fs.BoolVar(&flagDebug, "debug", false, "Re-raise source errors and raise log verbosity")
}

// Execute is the main entry point called from main.go.
func Execute() {
	logging.Init()
	render.InitColor(os.Getenv("COLOR"))
	sources.Load()

	if !wantsHelp(os.Args[1:]) {
		if err := setup(); err != nil {
			fail(err)
		}
	}
	if err := rootCmd.Execute(); err != nil {
		fail(err)
	}
}

// setup loads the config and builds the dynamic flag surface before
// cobra parses the command line: every stat and group contributes its
// own --<option> selection flag.
func setup() error {
	path := configPathFromArgs(os.Args[1:])
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	loadedConfig = cfg

	general, err := cfg.General()
	if err != nil {
		return err
	}
	if err := registry.Default.LoadManifests(general.Plugins, false); err != nil {
		return err
	}

	rootCmd.Flags().VisitAll(func(f *pflag.Flag) {
		registry.Default.Reserve(f.Name)
	})
	sample, err := registry.Default.BuildUserStats(cfg, nil, statFlags, false)
	if err != nil {
		return err
	}
	sample.RegisterFlags(rootCmd.Flags())
	return nil
}

func run(cmd *cobra.Command, args []string) error {
	if flagDebug {
		logging.SetDebug()
	}
	if loadedConfig == nil {
		return &errs.ConfigFileError{Path: configPathFromArgs(os.Args[1:]), Msg: "not found"}
	}
	_, err := report.Run(loadedConfig, registry.Default, statFlags, report.Options{
		Emails:  flagEmails,
		Since:   flagSince,
		Until:   flagUntil,
		Words:   args,
		Format:  flagFormat,
		Width:   flagWidth,
		Brief:   flagBrief,
		Verbose: flagVerbose,
		Total:   flagTotal,
		Merge:   flagMerge,
		Debug:   flagDebug,
		Out:     cmd.OutOrStdout(),
	})
	return err
}

func validateKeywords(_ *cobra.Command, args []string) error {
	for _, arg := range args {
		if !dates.IsKeyword(arg) {
			return errs.Usagef("unknown period keyword %q", arg)
		}
	}
	return nil
}

// configPathFromArgs pre-scans argv for --config so the flag surface
// can be built from the right file before cobra parses anything.
func configPathFromArgs(args []string) string {
	for i, arg := range args {
		if arg == "--config" && i+1 < len(args) {
			return args[i+1]
		}
		if len(arg) > len("--config=") && arg[:len("--config=")] == "--config=" {
			return arg[len("--config="):]
		}
	}
	return config.DefaultPath()
}

func wantsHelp(args []string) bool {
	for _, arg := range args {
		if arg == "-h" || arg == "--help" || arg == "help" {
			return true
		}
	}
	return false
}

// fail reports the error and exits: usage errors exit 2, a missing
// config prints the minimal example, everything else exits 1.
func fail(err error) {
	if errs.IsUsage(err) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	var cfe *errs.ConfigFileError
	if errors.As(err, &cfe) {
		fmt.Fprintf(os.Stderr, "Error: %v\n\nCreate a config file, for example:\n\n%s\n", err, config.Example)
		os.Exit(1)
	}
	logrus.Error(err)
	os.Exit(1)
}
