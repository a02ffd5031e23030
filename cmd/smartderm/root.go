package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"smartderm/internal/config"
)

// app carries what every subcommand needs after flag parsing.
type app struct {
	cfgPath  string
	logLevel string
	cfg      config.Config
	log      zerolog.Logger
	out      io.Writer
	errOut   io.Writer
	getenv   func(string) string
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut, getenv: os.Getenv}
	root := &cobra.Command{
		Use:           "smartderm",
		Short:         "Skin condition analysis backed by GenAI models",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().StringVar(&a.cfgPath, "config", "", "Config file (.yaml, .yml, .json, .toml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug|info|warn|error (defaults SMARTDERM_LOG_LEVEL or info)")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		return a.setup()
	}

	root.AddCommand(
		newServeCmd(a),
		newAnalyzeCmd(a),
		newFoodsCmd(a),
		newCausesCmd(a),
		newDermatologistsCmd(a),
		&cobra.Command{Use: "version", Short: "Print the version", Args: cobra.NoArgs, RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(a.out, "smartderm %s\n", version)
			return err
		}},
	)
	return root
}

// setup resolves configuration: file, then .env and the environment, then flags.
func (a *app) setup() error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg := config.Defaults()
	if a.cfgPath != "" {
		loaded, err := config.Load(a.cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	cfg = cfg.ApplyEnv(a.getenv)
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	a.cfg = cfg
	a.log = zerolog.New(zerolog.ConsoleWriter{Out: a.errOut, NoColor: true}).
		Level(parseLogLevel(cfg.LogLevel)).
		With().Timestamp().Logger()
	return nil
}

func parseLogLevel(s string) zerolog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error", "err":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
