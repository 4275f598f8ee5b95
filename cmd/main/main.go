// Package main provides the babbler command line tool, which trains a Markov
// chain on a corpus and prints or serves the sentences it generates.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/CTAG07/babbler/pkg/corpus"
	"github.com/CTAG07/babbler/pkg/markov"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// app holds the state shared by all commands of one invocation.
type app struct {
	configPath string
	logLevel   string
	dbPath     string

	config *Config
	logger *slog.Logger

	db    *sql.DB
	store *corpus.Store

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// newRootCmd builds the command tree around a fresh app.
func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "babbler",
		Short: "Generate sentences from a first-order Markov chain",
		Long: `babbler learns which word follows which in a corpus of sentences, one per
line, and walks those statistics to produce new sentences.

A SOURCE is a file path, "-" for standard input, or "db:NAME" for a corpus
stored with the import command.`,
		Version:           fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, BuildDate),
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&a.configPath, "config", "./config.json", "Path to the JSON config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides the config file")
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "Path to the corpus database; overrides the config file")

	root.AddCommand(generateCmd(a))
	root.AddCommand(statsCmd(a))
	root.AddCommand(serveCmd(a))
	root.AddCommand(importCmd(a))
	root.AddCommand(corporaCmd(a))
	root.AddCommand(removeCmd(a))

	// Cobra skips post-run hooks when a command fails, so release the
	// database from RunE itself.
	for _, cmd := range root.Commands() {
		run := cmd.RunE
		cmd.RunE = func(cmd *cobra.Command, args []string) error {
			defer a.close()
			return run(cmd, args)
		}
	}

	return root
}

// setup loads the configuration and builds the logger.
func (a *app) setup(_ *cobra.Command, _ []string) error {
	config, err := LoadConfig(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if a.logLevel != "" {
		config.LogLevel = a.logLevel
	}
	if a.dbPath != "" {
		config.DatabasePath = a.dbPath
	}
	a.config = config
	a.logger = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: parseLogLevel(config.LogLevel)}))
	return nil
}

// openStore opens the corpus database on first use.
func (a *app) openStore() (*corpus.Store, error) {
	if a.store != nil {
		return a.store, nil
	}

	if dir := filepath.Dir(a.config.DatabasePath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := corpus.OpenDB(a.config.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = corpus.SetupSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to setup corpus schema: %w", err)
	}
	store, err := corpus.NewStore(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create corpus store: %w", err)
	}
	store.SetLogger(a.logger)

	a.logger.Debug("Corpus database opened", "path", a.config.DatabasePath, "driver", corpus.DriverName)
	a.db = db
	a.store = store
	return store, nil
}

func (a *app) close() {
	if a.store != nil {
		a.store.Close()
		a.store = nil
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error("Failed to close database", "error", err)
		}
		a.db = nil
	}
}

// newGenerator builds a generator configured from the loaded config.
func (a *app) newGenerator() *markov.Generator {
	g := markov.NewGenerator(a.config.Tokenizer())
	g.SetLogger(a.logger)
	return g
}

// trainModel parses the source identifier, trains a model from it and prunes
// it when minFreq is positive.
func (a *app) trainModel(ctx context.Context, g *markov.Generator, spec string, minFreq int) (*markov.Model, error) {
	src, err := corpus.ParseSource(spec, a.openStore)
	if err != nil {
		return nil, err
	}
	if fs, ok := src.(corpus.FileSource); ok && fs.Path == "-" {
		fs.Stdin = a.stdin
		src = fs
	}

	model, err := corpus.Train(ctx, g, src)
	if err != nil {
		return nil, err
	}
	if minFreq > 0 {
		model = g.Prune(ctx, model, minFreq)
	}
	return model, nil
}
