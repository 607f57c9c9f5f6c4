package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/vegasq/csvql/internal/metrics"
	"github.com/vegasq/csvql/output"
	"github.com/vegasq/csvql/query"
	"github.com/vegasq/csvql/reader"
)

const prompt = "csvql> "

const shellHelp = `Enter a SELECT query, optionally ending with ';'. Commands:
  .help             show this help
  .format <name>    set the output format (jsonl, json, csv, table)
  .schema <table>   list a table's columns
  .quit             exit the shell
`

func newShellCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive query shell",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if a.cfg.MetricsAddr != "" {
				_, stop, err := serveMetrics(a, a.cfg.MetricsAddr)
				if err != nil {
					return err
				}
				defer stop()
			}

			sh := newShell(a, cmd.OutOrStdout())
			return sh.loop(ctx)
		},
	}
}

// shell is the interactive session state
type shell struct {
	app    *app
	out    io.Writer
	format string
}

func newShell(a *app, out io.Writer) *shell {
	return &shell{app: a, out: out, format: a.cfg.Format}
}

// loop reads one statement per line until .quit or EOF
func (s *shell) loop(ctx context.Context) error {
	line := liner.NewLiner()
	defer func() { _ = line.Close() }()
	line.SetCtrlCAborts(true)

	fmt.Fprintln(s.out, "csvql shell. Type .help for commands.")

	for {
		input, err := line.Prompt(prompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				continue
			}
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(s.out)
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		if strings.TrimSpace(input) == "" {
			continue
		}
		line.AppendHistory(input)
		if s.handle(ctx, input) {
			return nil
		}
	}
}

// handle runs one command or statement and reports whether the shell
// should exit. Errors are printed, not returned.
func (s *shell) handle(ctx context.Context, input string) bool {
	input = strings.TrimSpace(input)
	if input == "" {
		return false
	}

	if strings.HasPrefix(input, ".") {
		return s.command(ctx, input)
	}

	start := time.Now()
	n, err := s.app.run(ctx, s.out, input, s.format, 0)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return false
	}
	s.app.log.Debug("statement complete", "rows", n, "elapsed", time.Since(start))
	return false
}

func (s *shell) command(ctx context.Context, input string) bool {
	fields := strings.Fields(input)
	switch fields[0] {
	case ".quit", ".exit":
		return true
	case ".help":
		fmt.Fprint(s.out, shellHelp)
	case ".format":
		if len(fields) != 2 {
			fmt.Fprintf(s.out, "current format: %s\n", s.format)
			return false
		}
		if _, err := output.New(fields[1], io.Discard); err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
			return false
		}
		s.format = strings.ToLower(fields[1])
		fmt.Fprintf(s.out, "format set to %s\n", s.format)
	case ".schema":
		if len(fields) != 2 {
			fmt.Fprintln(s.out, "usage: .schema <table>")
			return false
		}
		if err := s.schema(ctx, fields[1]); err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
		}
	default:
		fmt.Fprintf(s.out, "unknown command %s, type .help for commands\n", fields[0])
	}
	return false
}

// schema prints the columns of table. Local files are described without
// loading rows; other sources fall back to the columns of the loaded rows.
func (s *shell) schema(ctx context.Context, table string) error {
	var rows []map[string]interface{}

	if fl, ok := s.app.loader.(*reader.FileLoader); ok {
		cols, err := fl.Describe(ctx, table)
		if err != nil {
			return err
		}
		for _, c := range cols {
			rows = append(rows, map[string]interface{}{
				"column":   c.Name,
				"type":     c.Type,
				"optional": fmt.Sprintf("%t", c.Optional),
			})
		}
	} else {
		loaded, err := s.app.loader.Load(ctx, table)
		if err != nil {
			return err
		}
		for _, name := range query.GetColumnNames(loaded) {
			rows = append(rows, map[string]interface{}{"column": name, "type": "STRING", "optional": "false"})
		}
	}

	f, err := output.New(s.format, s.out)
	if err != nil {
		return err
	}
	return f.Format([]string{"column", "type", "optional"}, rows)
}

// serveMetrics exposes the app's registry on addr until stop is called.
// It returns the address actually bound.
func serveMetrics(a *app, addr string) (net.Addr, func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to listen for metrics: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(a.registry))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("metrics server failed", "error", err)
		}
	}()
	a.log.Info("serving metrics", "addr", ln.Addr().String())

	stop := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
	return ln.Addr(), stop, nil
}
