package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"

	"github.com/CTAG07/babbler/pkg/corpus"
	"github.com/CTAG07/babbler/pkg/markov"
)

// generateCmd returns the generate command
func generateCmd(a *app) *cobra.Command {
	var output string
	var minFreq int

	cmd := &cobra.Command{
		Use:   "generate COUNT SOURCE",
		Short: "Train on SOURCE and print COUNT sentences",
		Long: `Train a model on SOURCE, then generate COUNT sentences from it, one per line.

With --output the sentences are written to a file, atomically replacing any
previous content, instead of standard output.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := strconv.Atoi(args[0])
			if err != nil || count < 0 {
				return fmt.Errorf("COUNT must be a non-negative integer, got %q", args[0])
			}

			ctx := cmd.Context()
			g := a.newGenerator()
			model, err := a.trainModel(ctx, g, args[1], minFreq)
			if err != nil {
				return err
			}

			var w io.Writer = a.stdout
			var buf bytes.Buffer
			if output != "" {
				w = &buf
			}

			for i := 0; i < count; i++ {
				sentence, err := g.Generate(ctx, model, markov.WithMaxWords(a.config.MaxWords))
				if err != nil {
					return fmt.Errorf("failed to generate sentence %d: %w", i+1, err)
				}
				if _, err = fmt.Fprintln(w, sentence); err != nil {
					return err
				}
			}

			if output != "" {
				if err = atomic.WriteFile(output, &buf); err != nil {
					return fmt.Errorf("failed to write %s: %w", output, err)
				}
				a.logger.Info("Sentences written", "path", output, "count", count)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write sentences to this file instead of standard output")
	cmd.Flags().IntVar(&minFreq, "min-freq", 0, "Prune links seen this many times or fewer before generating")

	return cmd
}

// statsCmd returns the stats command
func statsCmd(a *app) *cobra.Command {
	var minFreq int

	cmd := &cobra.Command{
		Use:   "stats SOURCE",
		Short: "Train on SOURCE and print model statistics as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := a.trainModel(cmd.Context(), a.newGenerator(), args[0], minFreq)
			if err != nil {
				return err
			}
			encoder := json.NewEncoder(a.stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(model.Stats())
		},
	}

	cmd.Flags().IntVar(&minFreq, "min-freq", 0, "Prune links seen this many times or fewer before reporting")

	return cmd
}

// importCmd returns the import command
func importCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import NAME FILE",
		Short: "Store the lines of FILE in the corpus database under NAME",
		Long: `Store the non-blank lines of FILE ("-" for standard input) in the corpus
database under NAME, creating the corpus if needed. Importing into an existing
corpus appends to it. The corpus can then be used as the source "db:NAME".`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := args[0]

			store, err := a.openStore()
			if err != nil {
				return err
			}

			info, err := store.GetCorpusInfo(ctx, name)
			if errors.Is(err, corpus.ErrCorpusNotFound) {
				if err = store.InsertCorpus(ctx, name); err != nil {
					return fmt.Errorf("failed to create corpus %q: %w", name, err)
				}
				info, err = store.GetCorpusInfo(ctx, name)
			}
			if err != nil {
				return err
			}

			rc, err := corpus.FileSource{Path: args[1], Stdin: a.stdin}.Open(ctx)
			if err != nil {
				return err
			}
			defer func(rc io.ReadCloser) {
				_ = rc.Close()
			}(rc)

			n, err := store.ImportLines(ctx, info, rc)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(a.stdout, "imported %d lines into %s%s\n", n, corpus.StorePrefix, name)
			return err
		},
	}
}

// corporaCmd returns the corpora command
func corporaCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "corpora",
		Short: "List the corpora in the corpus database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			infos, err := store.GetCorpusInfos(cmd.Context())
			if err != nil {
				return err
			}

			names := make([]string, 0, len(infos))
			for name := range infos {
				names = append(names, name)
			}
			slices.Sort(names)
			for _, name := range names {
				if _, err = fmt.Fprintf(a.stdout, "%s\t%d\n", name, infos[name].Lines); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// removeCmd returns the remove command
func removeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove NAME",
		Short: "Delete a corpus and its lines from the corpus database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			info, err := store.GetCorpusInfo(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return store.RemoveCorpus(cmd.Context(), info)
		},
	}
}
