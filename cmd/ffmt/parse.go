package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/bjaus/ffmt"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] FORMAT",
	Short: "Show the tokens of a format string",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().String("format", "yaml", "output format (yaml|json)")
}

type parseResult struct {
	Format       string       `json:"format" yaml:"format"`
	Placeholders int          `json:"placeholders" yaml:"placeholders"`
	Arity        int          `json:"arity" yaml:"arity"`
	Tokens       []ffmt.Token `json:"tokens" yaml:"tokens"`
}

func runParse(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	tmpl, err := ffmt.Parse(args[0])
	if err != nil {
		return err
	}
	res := parseResult{
		Format:       tmpl.Source(),
		Placeholders: tmpl.Placeholders(),
		Arity:        tmpl.Arity(),
		Tokens:       tmpl.Tokens(),
	}

	switch format {
	case "yaml":
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(res); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
