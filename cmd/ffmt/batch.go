package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"slices"
	"strings"

	"github.com/bjaus/ffmt"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var batchCmd = &cobra.Command{
	Use:   "batch [flags] FORMAT FILE",
	Short: "Render FORMAT once per line of FILE",
	Long: `Batch reads FILE ("-" for stdin), splits each line on tabs into typed
arguments and renders FORMAT for every line. Lines are rendered in parallel and
written in input order, one render per line.

With --stream the lines are rendered one after another into a single render,
each followed by a newline.`,
	Args: cobra.ExactArgs(2),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().String("sink", "text", "output sink (text|log|json|jsonl|yaml|msgpack)")
	batchCmd.Flags().Int("jobs", 0, "parallel renders (default GOMAXPROCS, or jobs from config)")
	batchCmd.Flags().Bool("stream", false, "render sequentially as a single render")
}

func runBatch(cmd *cobra.Command, args []string) error {
	tmpl, err := ffmt.Parse(args[0])
	if err != nil {
		return err
	}

	lines, err := readLines(args[1])
	if err != nil {
		return err
	}
	rows := make([][]ffmt.Arg, len(lines))
	for i, line := range lines {
		if rows[i], err = parseArgs(splitTSV(line)); err != nil {
			return fmt.Errorf("line %d: %w", i+1, err)
		}
	}

	kind, err := cmd.Flags().GetString("sink")
	if err != nil {
		return fmt.Errorf("failed to get sink flag: %w", err)
	}
	kind = sinkKind(kind, cmd.Flags().Changed("sink"))
	sink, err := newSink(os.Stdout, kind)
	if err != nil {
		return err
	}

	f, err := newFormatter()
	if err != nil {
		return err
	}

	stream, err := cmd.Flags().GetBool("stream")
	if err != nil {
		return fmt.Errorf("failed to get stream flag: %w", err)
	}
	if stream {
		return tmpl.ExecuteEach(sink, f.Locale(), slices.Values(rows))
	}

	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if !cmd.Flags().Changed("jobs") {
		jobs = cfg.Jobs
	}

	// Text output needs a line break per render; records and log lines are
	// already delimited.
	newline := kind == "" || kind == "text"
	out, err := renderBatch(cmd.Context(), f, tmpl, rows, jobs, newline)
	if err != nil {
		return err
	}
	for _, text := range out {
		if err := sink.Write(text); err != nil {
			return err
		}
		if err := sink.Finish(); err != nil {
			return err
		}
	}
	return nil
}

// renderBatch renders tmpl for every row in parallel. Each render has its
// own Buffer, so no sink is shared between goroutines. Results keep row order.
func renderBatch(ctx context.Context, f *ffmt.Formatter, tmpl *ffmt.Template, rows [][]ffmt.Arg, jobs int, newline bool) ([]string, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	// Indices are unique per goroutine, so results needs no lock.
	results := make([]string, len(rows))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(rows)))
	for i, row := range rows {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			exec := f.Execute
			if newline {
				exec = f.Executeln
			}
			var buf ffmt.Buffer
			if err := exec(&buf, tmpl, row...); err != nil {
				return fmt.Errorf("line %d: %w", i+1, err)
			}
			results[i] = buf.String()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func readLines(path string) ([]string, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		r = file
	}
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines, sc.Err()
}

func splitTSV(line string) []string {
	if line == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(line, "\r"), "\t")
}
