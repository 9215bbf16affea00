package main

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/CTAG07/babble/pkg/babble"
	"github.com/CTAG07/babble/pkg/corpus"
	"golang.org/x/text/unicode/norm"
)

//go:embed books/default.txt
var defaultBook string

// sourceSelection names where the text for a run comes from. At most one of
// File and Doc is set; with neither, the configured default corpus is used.
type sourceSelection struct {
	File string
	Doc  string
}

// resolvePath returns path unchanged if it is absolute, and relative to the
// working directory otherwise.
func resolvePath(path string) (string, error) {
	if filepath.IsAbs(path) {
		return path, nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("could not resolve path '%s': %w", path, err)
	}
	return abs, nil
}

// openSource returns a reader over the selected text and a label for logs.
func openSource(ctx context.Context, cfg *Config, src sourceSelection, logger *slog.Logger) (io.ReadCloser, string, error) {
	switch {
	case src.Doc != "":
		db, store, err := openCorpusStore(cfg.CorpusDatabasePath, logger)
		if err != nil {
			return nil, "", err
		}
		defer closeCorpusStore(db, store)

		text, err := store.Document(ctx, src.Doc)
		if err != nil {
			return nil, "", err
		}
		return io.NopCloser(strings.NewReader(text)), "corpus:" + src.Doc, nil

	case src.File != "":
		return openFile(src.File)

	case cfg.DefaultCorpusPath != "":
		return openFile(cfg.DefaultCorpusPath)

	default:
		return io.NopCloser(strings.NewReader(defaultBook)), "builtin:default", nil
	}
}

func openFile(path string) (io.ReadCloser, string, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return nil, "", err
	}
	f, err := os.Open(resolved)
	if err != nil {
		return nil, "", fmt.Errorf("could not open source file: %w", err)
	}
	return f, resolved, nil
}

// loadTokens reads and tokenizes the selected source text, NFC-normalizing it
// first when the config asks for it.
func loadTokens(ctx context.Context, cfg *Config, src sourceSelection, logger *slog.Logger) ([]babble.Token, error) {
	rc, label, err := openSource(ctx, cfg, src, logger)
	if err != nil {
		return nil, err
	}
	defer func(rc io.ReadCloser) {
		_ = rc.Close()
	}(rc)

	var r io.Reader = rc
	if cfg.Normalize {
		r = norm.NFC.Reader(rc)
	}

	tokens, err := babble.ReadTokens(r)
	if err != nil {
		return nil, fmt.Errorf("could not read '%s': %w", label, err)
	}

	logger.InfoContext(ctx, "Corpus loaded",
		slog.String("source", label),
		slog.Int("tokens", len(tokens)),
		slog.Bool("normalized", cfg.Normalize),
	)
	return tokens, nil
}

// openCorpusStore opens the corpus library database, creating its directory
// and schema on first use.
func openCorpusStore(dataSource string, logger *slog.Logger) (*sql.DB, *corpus.Store, error) {
	dbFile, _, _ := strings.Cut(dataSource, "?")
	if dir := filepath.Dir(dbFile); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("could not create corpus directory: %w", err)
		}
	}

	db, err := sql.Open(sqliteDriver, dataSource)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if err = corpus.SetupSchema(db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to setup corpus schema: %w", err)
	}
	store, err := corpus.NewStore(db)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("error creating corpus store: %w", err)
	}
	store.SetLogger(logger)
	return db, store, nil
}

func closeCorpusStore(db *sql.DB, store *corpus.Store) {
	store.Close()
	_ = db.Close()
}
