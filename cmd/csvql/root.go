package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vegasq/csvql/internal/config"
	"github.com/vegasq/csvql/internal/logger"
	"github.com/vegasq/csvql/internal/metrics"
	"github.com/vegasq/csvql/output"
	"github.com/vegasq/csvql/query"
	"github.com/vegasq/csvql/reader"
)

// app holds what every subcommand needs once flags are parsed
type app struct {
	cfg      *config.Config
	log      *slog.Logger
	loader   query.Loader
	exec     *query.Executor
	registry *prometheus.Registry
	metrics  *metrics.Recorder
	stdout   io.Writer
	stderr   io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}
	var configPath string

	root := &cobra.Command{
		Use:           "csvql",
		Short:         "Run SQL SELECT queries over CSV files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			cfg, err := config.Load(configPath, cmd.Flags())
			if err != nil {
				return err
			}
			return a.init(cfg)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "config file (yaml, toml or json)")
	pf.String("data-dir", ".", "directory holding <table>.csv files")
	pf.StringP("format", "f", "jsonl", "output format: jsonl, json, csv, table")
	pf.Bool("distinct", false, "remove duplicate rows for SELECT DISTINCT")
	pf.Bool("concurrent-loads", false, "load base and join tables concurrently")
	pf.String("log-level", "WARN", "log level: DEBUG, INFO, WARN, ERROR")
	pf.String("log-format", "text", "log format: text, json")
	pf.String("metrics-addr", "", "serve Prometheus metrics on this address while the shell runs")
	pf.String("s3-endpoint", "", "S3-compatible endpoint to read tables from")
	pf.String("s3-bucket", "", "bucket holding <prefix><table>.csv objects")
	pf.String("s3-prefix", "", "object key prefix")
	pf.String("s3-access-key", "", "S3 access key")
	pf.String("s3-secret-key", "", "S3 secret key")
	pf.Bool("s3-ssl", false, "use TLS for the S3 endpoint")

	root.AddCommand(newQueryCmd(a), newShellCmd(a), newVersionCmd())
	return root
}

// init builds the logger, loader and executor from cfg
func (a *app) init(cfg *config.Config) error {
	a.cfg = cfg
	a.log = logger.Setup(a.stderr, logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	if cfg.S3.Endpoint != "" {
		l, err := reader.NewObjectLoader(reader.ObjectConfig{
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			UseSSL:    cfg.S3.UseSSL,
			Bucket:    cfg.S3.Bucket,
			Prefix:    cfg.S3.Prefix,
		})
		if err != nil {
			return err
		}
		a.loader = l
		a.log.Debug("reading tables from object storage", "endpoint", cfg.S3.Endpoint, "bucket", cfg.S3.Bucket)
	} else {
		a.loader = reader.NewFileLoader(cfg.DataDir)
		a.log.Debug("reading tables from directory", "dir", cfg.DataDir)
	}

	a.registry = prometheus.NewRegistry()
	a.metrics = metrics.NewRecorder(a.registry)
	a.exec = query.NewExecutor(a.loader,
		query.WithLogger(a.log),
		query.WithMetrics(a.metrics),
		query.WithConcurrentLoads(cfg.ConcurrentLoads),
		query.WithDistinct(cfg.Distinct),
	)
	return nil
}

// run executes sql, ignoring a trailing ';', and writes the result to w
// in format. It returns the number of rows written.
func (a *app) run(ctx context.Context, w io.Writer, sql, format string, limit int) (int, error) {
	sql = strings.TrimSuffix(strings.TrimSpace(sql), ";")
	rows, err := a.exec.Execute(ctx, sql)
	if err != nil {
		return 0, err
	}
	// Execute already parsed sql successfully; parse again for column order.
	q, err := query.Parse(sql)
	if err != nil {
		return 0, &query.ExecutionError{Err: err}
	}
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	f, err := output.New(format, w)
	if err != nil {
		return 0, err
	}
	if err := f.Format(q.Fields, rows); err != nil {
		return 0, fmt.Errorf("failed to format output: %w", err)
	}
	return len(rows), nil
}
