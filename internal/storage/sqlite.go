package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	_ "modernc.org/sqlite"
)

// SQLiteRepository keeps records in a single SQLite table
type SQLiteRepository struct {
	db *sql.DB
}

var _ AnalysisRepository = (*SQLiteRepository)(nil)

// NewSQLiteRepository opens (creating if needed) the database at path.
// ":memory:" opens a private in-memory database held on a single connection.
func NewSQLiteRepository(path string) (*SQLiteRepository, error) {
	inMemory := path == ":memory:"

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if inMemory {
		db.SetMaxOpenConns(1)
	} else if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	repo := &SQLiteRepository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	logrus.Infof("SQLite analysis store ready at %s", path)
	return repo, nil
}

func (r *SQLiteRepository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		kind TEXT NOT NULL,
		subject TEXT NOT NULL,
		user_id TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		data BLOB NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_records_key ON records(kind, user_id, subject, created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_records_user ON records(kind, user_id, created_at DESC);
	`
	_, err := r.db.Exec(schema)
	return err
}

// Save inserts the record
func (r *SQLiteRepository) Save(ctx context.Context, rec Record) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO records (kind, subject, user_id, created_at, data) VALUES (?, ?, ?, ?, ?)`,
		rec.Kind, rec.Subject, rec.UserID, rec.CreatedAt.UTC().UnixNano(), rec.Data)
	if err != nil {
		return fmt.Errorf("failed to save %s record: %w", rec.Kind, err)
	}
	return nil
}

// Latest returns the newest record for the key. Records saved with the same
// timestamp resolve to the last one written.
func (r *SQLiteRepository) Latest(ctx context.Context, kind, subject, userID string) (*Record, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT created_at, data FROM records
		WHERE kind = ? AND user_id = ? AND subject = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1`, kind, userID, subject)

	var (
		createdAt int64
		data      []byte
	)
	if err := row.Scan(&createdAt, &data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query latest %s record: %w", kind, err)
	}

	return &Record{
		Kind:      kind,
		Subject:   subject,
		UserID:    userID,
		CreatedAt: time.Unix(0, createdAt).UTC(),
		Data:      data,
	}, nil
}

// ListSince returns the user's records of a kind created at or after since
func (r *SQLiteRepository) ListSince(ctx context.Context, kind, userID string, since time.Time) ([]Record, error) {
	var from int64
	if !since.IsZero() {
		from = since.UTC().UnixNano()
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT subject, created_at, data FROM records
		WHERE kind = ? AND user_id = ? AND created_at >= ?
		ORDER BY created_at DESC, id DESC`, kind, userID, from)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s records: %w", kind, err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			rec       = Record{Kind: kind, UserID: userID}
			createdAt int64
		)
		if err := rows.Scan(&rec.Subject, &createdAt, &rec.Data); err != nil {
			return nil, fmt.Errorf("failed to scan %s record: %w", kind, err)
		}
		rec.CreatedAt = time.Unix(0, createdAt).UTC()
		records = append(records, rec)
	}

	return records, rows.Err()
}

// Close closes the database
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}
