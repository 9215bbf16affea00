package corpus

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
)

// ErrDocumentNotFound is returned when removing a document that does not exist.
var ErrDocumentNotFound = errors.New("document not found")

// DocumentInfo holds the metadata of a stored document.
type DocumentInfo struct {
	Id      int
	Name    string
	Length  int // Length of the text in characters
	AddedAt time.Time
}

// SetupSchema initializes the corpus table in the provided database. It is
// idempotent and safe to call on an already-initialized database.
func SetupSchema(db *sql.DB) error {
	const schemaDocuments = `
CREATE TABLE IF NOT EXISTS corpus_documents (
    doc_id INTEGER PRIMARY KEY,
    doc_name TEXT NOT NULL UNIQUE,
    doc_text TEXT NOT NULL,
    added_at INTEGER NOT NULL
);
`

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	if _, err = tx.Exec(schemaDocuments); err != nil {
		return fmt.Errorf("could not create schema: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}
	return nil
}

// Store is a library of named source texts kept in a SQLite database. It holds
// prepared statements for every query it runs.
type Store struct {
	db             *sql.DB
	stmtUpsertDoc  *sql.Stmt
	stmtGetDocText *sql.Stmt
	stmtListDocs   *sql.Stmt
	stmtRemoveDoc  *sql.Stmt
	stmtGetDocInfo *sql.Stmt
	logger         *slog.Logger
}

// NewStore creates a Store over db, which must already have the schema from
// SetupSchema. It returns an error if any statement fails to prepare, after
// closing the statements prepared before it.
func NewStore(db *sql.DB) (_ *Store, err error) {
	s := &Store{
		db:     db,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	defer func() {
		if err != nil {
			s.Close()
		}
	}()

	s.stmtUpsertDoc, err = db.Prepare(`INSERT INTO corpus_documents (doc_name, doc_text, added_at) VALUES (?, ?, ?) ON CONFLICT(doc_name) DO UPDATE SET doc_text = excluded.doc_text, added_at = excluded.added_at RETURNING doc_id;`)
	if err != nil {
		return nil, err
	}

	s.stmtGetDocText, err = db.Prepare(`SELECT doc_text FROM corpus_documents WHERE doc_name = ?;`)
	if err != nil {
		return nil, err
	}

	s.stmtListDocs, err = db.Prepare(`SELECT doc_id, doc_name, length(doc_text), added_at FROM corpus_documents ORDER BY doc_name;`)
	if err != nil {
		return nil, err
	}

	s.stmtRemoveDoc, err = db.Prepare(`DELETE FROM corpus_documents WHERE doc_name = ?;`)
	if err != nil {
		return nil, err
	}

	s.stmtGetDocInfo, err = db.Prepare(`SELECT doc_id, length(doc_text), added_at FROM corpus_documents WHERE doc_name = ?;`)
	if err != nil {
		return nil, err
	}

	return s, nil
}

// Close releases all prepared statements held by the Store. Statements that
// were never prepared are skipped.
func (s *Store) Close() {
	for _, stmt := range []*sql.Stmt{
		s.stmtUpsertDoc,
		s.stmtGetDocText,
		s.stmtListDocs,
		s.stmtRemoveDoc,
		s.stmtGetDocInfo,
	} {
		if stmt != nil {
			_ = stmt.Close()
		}
	}
}

// SetLogger sets the logger for the Store. By default, all logs are discarded.
func (s *Store) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// AddDocument reads r fully and stores it under name, replacing any document
// that already has that name.
func (s *Store) AddDocument(ctx context.Context, name string, r io.Reader) (DocumentInfo, error) {
	if strings.TrimSpace(name) == "" {
		return DocumentInfo{}, errors.New("document name must not be empty")
	}

	var sb strings.Builder
	if _, err := io.Copy(&sb, r); err != nil {
		return DocumentInfo{}, fmt.Errorf("could not read document '%s': %w", name, err)
	}
	text := sb.String()
	now := time.Now().Unix()

	var docID int
	if err := s.stmtUpsertDoc.QueryRowContext(ctx, name, text, now).Scan(&docID); err != nil {
		return DocumentInfo{}, fmt.Errorf("could not store document '%s': %w", name, err)
	}

	info, err := s.DocumentInfo(ctx, name)
	if err != nil {
		return DocumentInfo{}, err
	}

	s.logger.InfoContext(ctx, "Document stored",
		slog.String("doc_name", name),
		slog.Int("doc_id", docID),
		slog.Int("length", info.Length),
	)
	return info, nil
}

// Document returns the text stored under name. The error wraps sql.ErrNoRows
// if there is no such document.
func (s *Store) Document(ctx context.Context, name string) (string, error) {
	var text string
	if err := s.stmtGetDocText.QueryRowContext(ctx, name).Scan(&text); err != nil {
		return "", fmt.Errorf("could not load document '%s': %w", name, err)
	}
	return text, nil
}

// DocumentInfo returns the metadata of the document stored under name.
func (s *Store) DocumentInfo(ctx context.Context, name string) (DocumentInfo, error) {
	info := DocumentInfo{Name: name}
	var addedAt int64
	err := s.stmtGetDocInfo.QueryRowContext(ctx, name).Scan(&info.Id, &info.Length, &addedAt)
	if err != nil {
		return DocumentInfo{}, fmt.Errorf("could not get info for document '%s': %w", name, err)
	}
	info.AddedAt = time.Unix(addedAt, 0)
	return info, nil
}

// Documents lists every stored document ordered by name.
func (s *Store) Documents(ctx context.Context) ([]DocumentInfo, error) {
	rows, err := s.stmtListDocs.QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	docs := make([]DocumentInfo, 0)
	for rows.Next() {
		var info DocumentInfo
		var addedAt int64
		if err = rows.Scan(&info.Id, &info.Name, &info.Length, &addedAt); err != nil {
			return nil, err
		}
		info.AddedAt = time.Unix(addedAt, 0)
		docs = append(docs, info)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

// RemoveDocument deletes the document stored under name. It returns
// ErrDocumentNotFound if nothing was deleted.
func (s *Store) RemoveDocument(ctx context.Context, name string) error {
	res, err := s.stmtRemoveDoc.ExecContext(ctx, name)
	if err != nil {
		return fmt.Errorf("could not remove document '%s': %w", name, err)
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("could not remove document '%s': %w", name, ErrDocumentNotFound)
	}

	s.logger.InfoContext(ctx, "Document removed",
		slog.String("doc_name", name),
	)
	return nil
}
