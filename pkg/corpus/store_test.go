package corpus

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/mattn/go-sqlite3"
)

// setupTestStore creates a new SQLite database file and a Store for testing.
// It uses t.Cleanup to ensure resources are released.
func setupTestStore(t *testing.T) (*sql.DB, *Store) {
	dbFile := filepath.Join(t.TempDir(), "corpus.db")
	db, err := sql.Open("sqlite3", dbFile+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := SetupSchema(db); err != nil {
		t.Fatalf("failed to set up schema: %v", err)
	}
	// Running the setup twice must be harmless.
	if err := SetupSchema(db); err != nil {
		t.Fatalf("second SetupSchema() failed: %v", err)
	}

	s, err := NewStore(db)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	t.Cleanup(s.Close)

	return db, s
}

func TestAddAndGetDocument(t *testing.T) {
	_, s := setupTestStore(t)
	ctx := context.Background()

	text := "The cat sat. Кот сидел!"
	info, err := s.AddDocument(ctx, "cats", strings.NewReader(text))
	if err != nil {
		t.Fatalf("AddDocument() failed: %v", err)
	}
	if info.Name != "cats" || info.Id == 0 {
		t.Errorf("got unexpected document info: %+v", info)
	}
	if want := len([]rune(text)); info.Length != want {
		t.Errorf("expected length %d characters, got %d", want, info.Length)
	}
	if info.AddedAt.IsZero() {
		t.Error("expected AddedAt to be set")
	}

	got, err := s.Document(ctx, "cats")
	if err != nil {
		t.Fatalf("Document() failed: %v", err)
	}
	if got != text {
		t.Errorf("expected %q, got %q", text, got)
	}

	_, err = s.Document(ctx, "dogs")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows for a missing document, got %v", err)
	}
}

func TestAddDocumentReplaces(t *testing.T) {
	_, s := setupTestStore(t)
	ctx := context.Background()

	first, err := s.AddDocument(ctx, "book", strings.NewReader("Old text."))
	if err != nil {
		t.Fatalf("AddDocument() failed: %v", err)
	}
	second, err := s.AddDocument(ctx, "book", strings.NewReader("Brand new text!"))
	if err != nil {
		t.Fatalf("AddDocument() replace failed: %v", err)
	}
	if first.Id != second.Id {
		t.Errorf("expected replacing to keep id %d, got %d", first.Id, second.Id)
	}

	got, _ := s.Document(ctx, "book")
	if got != "Brand new text!" {
		t.Errorf("expected replaced text, got %q", got)
	}
}

func TestAddDocumentEmptyName(t *testing.T) {
	_, s := setupTestStore(t)
	if _, err := s.AddDocument(context.Background(), "  ", strings.NewReader("text")); err == nil {
		t.Error("expected an error for an empty document name")
	}
}

func TestDocumentsAndRemove(t *testing.T) {
	db, s := setupTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"zebra", "alpha", "mid"} {
		if _, err := s.AddDocument(ctx, name, strings.NewReader("Some text.")); err != nil {
			t.Fatalf("AddDocument(%q) failed: %v", name, err)
		}
	}

	docs, err := s.Documents(ctx)
	if err != nil {
		t.Fatalf("Documents() failed: %v", err)
	}
	var names []string
	for _, d := range docs {
		names = append(names, d.Name)
	}
	if strings.Join(names, ",") != "alpha,mid,zebra" {
		t.Errorf("expected documents ordered by name, got %v", names)
	}

	if err := s.RemoveDocument(ctx, "mid"); err != nil {
		t.Fatalf("RemoveDocument() failed: %v", err)
	}
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM corpus_documents").Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("expected 2 documents after removal, got %d", count)
	}

	err = s.RemoveDocument(ctx, "mid")
	if !errors.Is(err, ErrDocumentNotFound) {
		t.Errorf("expected ErrDocumentNotFound when removing twice, got %v", err)
	}
}

// stmtTracker is a connector over the sqlite3 driver that counts open prepared
// statements and refuses to prepare any query containing failOn.
type stmtTracker struct {
	dsn    string
	failOn string
	open   atomic.Int64
}

func (tr *stmtTracker) Connect(context.Context) (driver.Conn, error) {
	conn, err := tr.Driver().Open(tr.dsn)
	if err != nil {
		return nil, err
	}
	return &trackedConn{Conn: conn, tracker: tr}, nil
}

func (tr *stmtTracker) Driver() driver.Driver {
	return &sqlite3.SQLiteDriver{}
}

type trackedConn struct {
	driver.Conn
	tracker *stmtTracker
}

func (c *trackedConn) Prepare(query string) (driver.Stmt, error) {
	if c.tracker.failOn != "" && strings.Contains(query, c.tracker.failOn) {
		return nil, errors.New("prepare refused")
	}
	stmt, err := c.Conn.Prepare(query)
	if err != nil {
		return nil, err
	}
	c.tracker.open.Add(1)
	return &trackedStmt{Stmt: stmt, tracker: c.tracker}, nil
}

type trackedStmt struct {
	driver.Stmt
	tracker *stmtTracker
}

func (s *trackedStmt) Close() error {
	s.tracker.open.Add(-1)
	return s.Stmt.Close()
}

func TestNewStoreClosesStatementsOnFailure(t *testing.T) {
	tracker := &stmtTracker{dsn: filepath.Join(t.TempDir(), "corpus.db")}
	db := sql.OpenDB(tracker)
	t.Cleanup(func() { _ = db.Close() })

	if err := SetupSchema(db); err != nil {
		t.Fatalf("failed to set up schema: %v", err)
	}
	before := tracker.open.Load()

	// The removal statement is prepared after three others.
	tracker.failOn = "DELETE FROM corpus_documents"
	s, err := NewStore(db)
	if err == nil {
		s.Close()
		t.Fatal("expected NewStore() to fail")
	}
	if s != nil {
		t.Errorf("expected a nil Store on failure, got %+v", s)
	}
	if open := tracker.open.Load(); open != before {
		t.Errorf("expected %d open statements after the failure, got %d", before, open)
	}
}

func TestNewStoreWithoutSchema(t *testing.T) {
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "empty.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if _, err := NewStore(db); err == nil {
		t.Error("expected NewStore() to fail on a database without the schema")
	}
}
