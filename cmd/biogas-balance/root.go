package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/biogas-balance/internal/export"
	"github.com/rshade/biogas-balance/internal/feedstock"
	"github.com/rshade/biogas-balance/internal/scenario"
)

// app carries state shared by all commands once the config is loaded.
type app struct {
	configPath string
	logLevel   string

	cfg    *Config
	logger zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "biogas-balance",
		Short:         "Biogas plant feedstock yield and digester water balance",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd.ErrOrStderr())
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default biogas.yaml in . or ./configs)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")

	rootCmd.AddCommand(a.yieldCmd())
	rootCmd.AddCommand(a.waterCmd())
	rootCmd.AddCommand(a.runCmd())
	rootCmd.AddCommand(a.validateCmd())
	rootCmd.AddCommand(a.humidityCmd())
	rootCmd.AddCommand(a.feedstocksCmd())
	rootCmd.AddCommand(a.serveCmd())

	return rootCmd
}

func (a *app) init(stderr io.Writer) error {
	cfg, err := loadConfig(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}

	logger, err := newLogger(cfg.Log, stderr)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	feedstock.SetLogger(logger)
	return nil
}

// inputFlags select the scenario a command runs.
type inputFlags struct {
	example bool
}

func (in *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&in.example, "example", false, "run the built-in example plant instead of a scenario file")
}

// args requires one scenario path, or none with --example.
func (in *inputFlags) args(cmd *cobra.Command, args []string) error {
	if in.example {
		return cobra.NoArgs(cmd, args)
	}
	return cobra.ExactArgs(1)(cmd, args)
}

// load returns the example plant or the scenario named by args.
func (in *inputFlags) load(cmd *cobra.Command, args []string) (*scenario.Document, string, error) {
	if in.example {
		return scenario.Default(), "example", nil
	}
	doc, err := loadScenario(cmd, args[0])
	return doc, args[0], err
}

// outputFlags are shared by the commands that render results.
type outputFlags struct {
	format    string
	output    string
	precision int
}

func (o *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.format, "format", "f", "", "output format: table, csv, xlsx, pdf, json (default from config)")
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().IntVar(&o.precision, "precision", 0, "decimals to display, -1 for full precision (default from config)")
}

// write renders doc according to the flags, falling back to the config.
func (a *app) write(cmd *cobra.Command, o *outputFlags, doc export.Document) error {
	name := o.format
	if name == "" {
		name = a.cfg.Export.Format
	}
	format, err := export.ParseFormat(name)
	if err != nil {
		return err
	}

	opts := export.Options{Precision: a.cfg.Export.Precision}
	if cmd.Flags().Changed("precision") {
		opts.Precision = o.precision
	}

	if o.output == "" {
		if format.Binary() {
			return fmt.Errorf("%s output is binary, use --output <file>", format)
		}
		return export.Write(cmd.OutOrStdout(), format, doc, opts)
	}

	f, err := os.Create(o.output)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	if err := export.Write(f, format, doc, opts); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %s output: %w", format, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing output file: %w", err)
	}

	a.logger.Info().Str("file", o.output).Str("format", string(format)).Msg("export written")
	return nil
}

// loadScenario reads a scenario document; "-" reads YAML from stdin.
func loadScenario(cmd *cobra.Command, path string) (*scenario.Document, error) {
	if path != "-" {
		return scenario.Load(path)
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("reading scenario from stdin: %w", err)
	}
	return scenario.Parse(data)
}
