package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/bjaus/ffmt"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:               "ffmt",
	Short:             "Render format strings with typed arguments",
	Long:              `ffmt renders %-style format strings with typed arguments to text, logs or structured records.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// state shared by subcommands, filled in by setup.
var (
	cfg    = &ffmt.Config{}
	logger *slog.Logger
)

func main() {
	rootCmd.Version = version

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(parseCmd)

	rootCmd.PersistentFlags().String("config", "", "config file (.yaml, .yml or .toml)")
	rootCmd.PersistentFlags().String("color", "auto", "colorize errors (auto|on|off)")
	rootCmd.PersistentFlags().String("locale", "", "BCP 47 locale for case folding and grouping")
	rootCmd.PersistentFlags().String("log-level", "", "diagnostic log level (debug|info|warn|error)")

	if err := rootCmd.Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, _ []string) error {
	flags := cmd.Root().PersistentFlags()

	colorFlag, err := flags.GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	color.NoColor = !useColor(colorFlag, os.Stderr)

	if path, _ := flags.GetString("config"); path != "" {
		loaded, err := ffmt.LoadConfig(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if flags.Changed("locale") {
		cfg.Locale, _ = flags.GetString("locale")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}

	level, err := cfg.Level()
	if err != nil {
		return err
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return nil
}

func newFormatter() (*ffmt.Formatter, error) {
	opts, err := cfg.Options(logger)
	if err != nil {
		return nil, err
	}
	return ffmt.New(opts...), nil
}

func useColor(flag string, f *os.File) bool {
	switch flag {
	case "on":
		return true
	case "off":
		return false
	default:
		return term.IsTerminal(int(f.Fd()))
	}
}

func printError(w io.Writer, err error) {
	red := color.New(color.FgRed, color.Bold)
	red.Fprint(w, "error: ")
	fmt.Fprintln(w, err)
}
