package main

import (
	"fmt"
	"os"

	"github.com/bjaus/ffmt"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render [flags] FORMAT [ARG...]",
	Short: "Render one format string",
	Long: `Render substitutes typed arguments into FORMAT and writes the result.

Arguments take an optional type prefix: s: i: u: f: b: x: (hex) g: (grouped).`,
	Args: cobra.ArbitraryArgs,
	RunE: runRender,
}

func init() {
	renderCmd.Flags().String("sink", "text", "output sink (text|log|json|jsonl|yaml|msgpack)")
	renderCmd.Flags().Bool("newline", false, "append a newline (default from config)")
	renderCmd.Flags().String("template", "", "use a named template from the config file instead of FORMAT")
}

func runRender(cmd *cobra.Command, args []string) error {
	name, err := cmd.Flags().GetString("template")
	if err != nil {
		return fmt.Errorf("failed to get template flag: %w", err)
	}

	var tmpl *ffmt.Template
	if name != "" {
		if tmpl, err = cfg.Template(name); err != nil {
			return err
		}
	} else {
		if len(args) == 0 {
			return fmt.Errorf("render needs FORMAT or --template")
		}
		if tmpl, err = ffmt.Parse(args[0]); err != nil {
			return err
		}
		args = args[1:]
	}

	values, err := parseArgs(args)
	if err != nil {
		return err
	}

	kind, err := cmd.Flags().GetString("sink")
	if err != nil {
		return fmt.Errorf("failed to get sink flag: %w", err)
	}
	sink, err := newSink(os.Stdout, sinkKind(kind, cmd.Flags().Changed("sink")))
	if err != nil {
		return err
	}

	newline, err := cmd.Flags().GetBool("newline")
	if err != nil {
		return fmt.Errorf("failed to get newline flag: %w", err)
	}
	if !cmd.Flags().Changed("newline") && cfg.Newline {
		newline = true
	}

	f, err := newFormatter()
	if err != nil {
		return err
	}
	if newline {
		return f.Executeln(sink, tmpl, values...)
	}
	return f.Execute(sink, tmpl, values...)
}
