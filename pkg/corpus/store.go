package corpus

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/CTAG07/babbler/pkg/markov"
)

// ErrCorpusNotFound is returned when a named corpus does not exist in the store.
var ErrCorpusNotFound = errors.New("corpus: not found")

// CorpusInfo holds the metadata for a stored corpus.
type CorpusInfo struct {
	Id    int    `json:"id"`
	Name  string `json:"name"`
	Lines int    `json:"lines"`
}

// SetupSchema initializes the tables used by the corpus store. It is
// idempotent and safe to call on an already-initialized database.
func SetupSchema(db *sql.DB) error {

	const (
		schemaCorpora = `
CREATE TABLE IF NOT EXISTS corpora (
    corpus_id INTEGER PRIMARY KEY,
    corpus_name TEXT NOT NULL UNIQUE
);
`
		schemaLines = `
CREATE TABLE IF NOT EXISTS corpus_lines (
    corpus_id INTEGER NOT NULL,
    line_no INTEGER NOT NULL,
    line_text TEXT NOT NULL,
    PRIMARY KEY (corpus_id, line_no)
);
`
	)

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	if _, err = tx.Exec(schemaCorpora); err != nil {
		return fmt.Errorf("could not create corpora schema: %w", err)
	}

	if _, err = tx.Exec(schemaLines); err != nil {
		return fmt.Errorf("could not create lines schema: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}

	return nil
}

// Store keeps plain-text training corpora in SQLite, one row per line, so a
// prepared corpus can be imported once and trained from by name.
type Store struct {
	db                *sql.DB
	stmtGetCorpora    *sql.Stmt
	stmtGetCorpusInfo *sql.Stmt
	stmtAddCorpus     *sql.Stmt
	stmtGetLines      *sql.Stmt
	logger            *slog.Logger
}

// NewStore creates a Store on a database that has been set up with
// SetupSchema. It pre-compiles the SQL statements it needs.
func NewStore(db *sql.DB) (*Store, error) {
	stmtGetCorpora, err := db.Prepare(`
SELECT c.corpus_id, c.corpus_name, COUNT(l.line_no)
FROM corpora c LEFT JOIN corpus_lines l ON l.corpus_id = c.corpus_id
GROUP BY c.corpus_id, c.corpus_name;`)
	if err != nil {
		return nil, err
	}

	stmtGetCorpusInfo, err := db.Prepare(`
SELECT c.corpus_id, COUNT(l.line_no)
FROM corpora c LEFT JOIN corpus_lines l ON l.corpus_id = c.corpus_id
WHERE c.corpus_name = ?
GROUP BY c.corpus_id;`)
	if err != nil {
		return nil, err
	}

	stmtAddCorpus, err := db.Prepare(`INSERT INTO corpora (corpus_name) VALUES (?);`)
	if err != nil {
		return nil, err
	}

	stmtGetLines, err := db.Prepare(`SELECT line_text FROM corpus_lines WHERE corpus_id = ? ORDER BY line_no;`)
	if err != nil {
		return nil, err
	}

	return &Store{
		db:                db,
		stmtGetCorpora:    stmtGetCorpora,
		stmtGetCorpusInfo: stmtGetCorpusInfo,
		stmtAddCorpus:     stmtAddCorpus,
		stmtGetLines:      stmtGetLines,
		logger:            slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, nil
}

// Close releases the prepared statements held by the Store.
func (s *Store) Close() {
	_ = s.stmtGetCorpora.Close()
	_ = s.stmtGetCorpusInfo.Close()
	_ = s.stmtAddCorpus.Close()
	_ = s.stmtGetLines.Close()
}

// SetLogger sets the logger for the Store. By default, all logs are discarded.
func (s *Store) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// GetCorpusInfos retrieves metadata for all stored corpora, keyed by name.
func (s *Store) GetCorpusInfos(ctx context.Context) (map[string]CorpusInfo, error) {
	rows, err := s.stmtGetCorpora.QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	corpora := make(map[string]CorpusInfo)
	for rows.Next() {
		var info CorpusInfo
		if err = rows.Scan(&info.Id, &info.Name, &info.Lines); err != nil {
			return nil, err
		}
		corpora[info.Name] = info
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return corpora, nil
}

// GetCorpusInfo retrieves the metadata for a single corpus. It returns
// ErrCorpusNotFound if no corpus has that name.
func (s *Store) GetCorpusInfo(ctx context.Context, name string) (CorpusInfo, error) {
	info := CorpusInfo{Name: name}
	err := s.stmtGetCorpusInfo.QueryRowContext(ctx, name).Scan(&info.Id, &info.Lines)
	if errors.Is(err, sql.ErrNoRows) {
		return CorpusInfo{}, fmt.Errorf("%w: %q", ErrCorpusNotFound, name)
	}
	if err != nil {
		return CorpusInfo{}, err
	}
	return info, nil
}

// InsertCorpus creates a new, empty corpus.
func (s *Store) InsertCorpus(ctx context.Context, name string) error {
	_, err := s.stmtAddCorpus.ExecContext(ctx, name)
	return err
}

// RemoveCorpus deletes a corpus and all of its lines. The operation is
// performed within a transaction.
func (s *Store) RemoveCorpus(ctx context.Context, info CorpusInfo) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	if _, err = tx.ExecContext(ctx, "DELETE FROM corpus_lines WHERE corpus_id = ?", info.Id); err != nil {
		return fmt.Errorf("failed to remove lines for corpus %d: %w", info.Id, err)
	}

	if _, err = tx.ExecContext(ctx, "DELETE FROM corpora WHERE corpus_id = ?", info.Id); err != nil {
		return fmt.Errorf("failed to remove corpus %d: %w", info.Id, err)
	}

	s.logger.InfoContext(ctx, "Corpus removed successfully",
		slog.String("corpus_name", info.Name),
		slog.Int("corpus_id", info.Id),
	)

	return tx.Commit()
}

// ImportLines reads text from r and appends every non-blank line to the
// corpus, after any lines it already holds. The import runs in a single
// transaction; a read failure is reported as markov.ErrUnreadableResource and
// leaves the corpus unchanged. It returns the number of lines stored.
func (s *Store) ImportLines(ctx context.Context, info CorpusInfo, r io.Reader) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	var lineNo int
	err = tx.QueryRowContext(ctx, "SELECT coalesce(MAX(line_no), 0) FROM corpus_lines WHERE corpus_id = ?", info.Id).Scan(&lineNo)
	if err != nil {
		return 0, fmt.Errorf("could not find last line of corpus %d: %w", info.Id, err)
	}

	stmtInsertLine, err := tx.PrepareContext(ctx, `INSERT INTO corpus_lines (corpus_id, line_no, line_text) VALUES (?, ?, ?);`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare line insert statement: %w", err)
	}
	defer func(stmt *sql.Stmt) {
		_ = stmt.Close()
	}(stmtInsertLine)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), markov.DefaultMaxLineBytes)

	var imported, skipped int
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			skipped++
			continue
		}
		lineNo++
		if _, err = stmtInsertLine.ExecContext(ctx, info.Id, lineNo, line); err != nil {
			return 0, fmt.Errorf("failed to insert line %d: %w", lineNo, err)
		}
		imported++
	}
	if err = scanner.Err(); err != nil {
		return 0, fmt.Errorf("%w: %w", markov.ErrUnreadableResource, err)
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}

	s.logger.InfoContext(ctx, "Corpus imported",
		slog.String("corpus_name", info.Name),
		slog.Int("corpus_id", info.Id),
		slog.Int("lines_imported", imported),
		slog.Int("blank_lines_skipped", skipped),
	)
	return imported, nil
}

// Lines streams the lines of a corpus, in import order, one per line of
// output. The caller must close the returned reader; closing it early stops
// the underlying query.
func (s *Store) Lines(ctx context.Context, info CorpusInfo) (io.ReadCloser, error) {
	rows, err := s.stmtGetLines.QueryContext(ctx, info.Id)
	if err != nil {
		return nil, fmt.Errorf("could not query lines for corpus %d: %w", info.Id, err)
	}

	pr, pw := io.Pipe()
	go func() {
		defer func(rows *sql.Rows) {
			_ = rows.Close()
		}(rows)

		var text string
		for rows.Next() {
			if err := rows.Scan(&text); err != nil {
				_ = pw.CloseWithError(err)
				return
			}
			if _, err := io.WriteString(pw, text+"\n"); err != nil {
				// Reader went away.
				return
			}
		}
		_ = pw.CloseWithError(rows.Err())
	}()

	return pr, nil
}
