package main

import (
	"fmt"

	"github.com/CTAG07/babble/pkg/corpus"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// newCorpusCmd builds the "corpus" command tree for managing stored texts.
func newCorpusCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "corpus",
		Short: "Manage the library of stored source texts",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add NAME FILE",
			Short: "Store a text file under NAME, replacing any previous one",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withCorpusStore(cmd, opts, func(store *corpus.Store) error {
					rc, path, err := openFile(args[1])
					if err != nil {
						return err
					}
					defer func() { _ = rc.Close() }()

					info, err := store.AddDocument(cmd.Context(), args[0], rc)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Stored %q from %s (%s characters)\n", info.Name, path, humanize.Comma(int64(info.Length)))
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List stored texts",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withCorpusStore(cmd, opts, func(store *corpus.Store) error {
					docs, err := store.Documents(cmd.Context())
					if err != nil {
						return fmt.Errorf("failed to list documents: %w", err)
					}
					return printDocuments(cmd.OutOrStdout(), docs)
				})
			},
		},
		&cobra.Command{
			Use:     "remove NAME",
			Aliases: []string{"rm"},
			Short:   "Delete a stored text",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withCorpusStore(cmd, opts, func(store *corpus.Store) error {
					if err := store.RemoveDocument(cmd.Context(), args[0]); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Removed %q\n", args[0])
					return nil
				})
			},
		},
	)
	return cmd
}

// withCorpusStore opens the configured corpus library for the duration of fn.
func withCorpusStore(cmd *cobra.Command, opts *rootOptions, fn func(*corpus.Store) error) error {
	cfg, err := loadRunConfig(cmd, opts)
	if err != nil {
		return err
	}
	logger := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)

	db, store, err := openCorpusStore(cfg.CorpusDatabasePath, logger)
	if err != nil {
		return err
	}
	defer closeCorpusStore(db, store)

	return fn(store)
}
