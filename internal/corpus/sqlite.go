package corpus

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dshills/huberman-health-mcp/pkg/types"
)

// SQLiteStore persists a corpus in SQLite so a deployment can ship one
// database file instead of the JSON exports.
type SQLiteStore struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite benefits from single writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// OpenSQLite opens (creating if needed) a corpus database and applies
// pending migrations.
func OpenSQLite(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := ApplyMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Import replaces the stored corpus with store's content in one transaction.
func (s *SQLiteStore) Import(ctx context.Context, store *Store, source string) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM segments"); err != nil {
		return fmt.Errorf("clear segments: %w", err)
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM videos"); err != nil {
		return fmt.Errorf("clear videos: %w", err)
	}

	videoStmt, err := tx.PrepareContext(ctx,
		"INSERT INTO videos (position, id, title, url, description) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare video insert: %w", err)
	}
	defer func() { _ = videoStmt.Close() }()

	segStmt, err := tx.PrepareContext(ctx,
		"INSERT INTO segments (video_id, seq, text, start_seconds) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare segment insert: %w", err)
	}
	defer func() { _ = segStmt.Close() }()

	for i := 0; i < store.Len(); i++ {
		v := store.VideoAt(i)
		if _, err = videoStmt.ExecContext(ctx, i, v.ID, v.Title, v.URL, v.Description); err != nil {
			return fmt.Errorf("insert video %s: %w", v.ID, err)
		}
		for _, seg := range store.TranscriptAt(i) {
			if _, err = segStmt.ExecContext(ctx, v.ID, seg.Index, seg.Text, seg.Start.Float()); err != nil {
				return fmt.Errorf("insert segment %s/%d: %w", v.ID, seg.Index, err)
			}
		}
	}

	if _, err = tx.ExecContext(ctx,
		"INSERT INTO imports (source, video_count, segment_count) VALUES (?, ?, ?)",
		source, store.Len(), store.SegmentCount()); err != nil {
		return fmt.Errorf("record import: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	return nil
}

// Load reads the stored corpus into an immutable Store.
func (s *SQLiteStore) Load(ctx context.Context) (*Store, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, title, url, description FROM videos ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("%w: query videos: %v", types.ErrDataUnavailable, err)
	}

	var entries []Entry
	byID := make(map[string]int)
	for rows.Next() {
		var v types.Video
		if err := rows.Scan(&v.ID, &v.Title, &v.URL, &v.Description); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("%w: scan video: %v", types.ErrDataUnavailable, err)
		}
		byID[v.ID] = len(entries)
		entries = append(entries, Entry{Video: v})
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("%w: iterate videos: %v", types.ErrDataUnavailable, err)
	}
	_ = rows.Close()

	segRows, err := s.db.QueryContext(ctx, "SELECT video_id, text, start_seconds FROM segments ORDER BY video_id, seq")
	if err != nil {
		return nil, fmt.Errorf("%w: query segments: %v", types.ErrDataUnavailable, err)
	}
	defer func() { _ = segRows.Close() }()

	for segRows.Next() {
		var (
			videoID string
			seg     types.TranscriptSegment
			start   float64
		)
		if err := segRows.Scan(&videoID, &seg.Text, &start); err != nil {
			return nil, fmt.Errorf("%w: scan segment: %v", types.ErrDataUnavailable, err)
		}
		i, ok := byID[videoID]
		if !ok {
			continue
		}
		seg.Start = types.Seconds(start)
		entries[i].Transcript = append(entries[i].Transcript, seg)
	}
	if err := segRows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate segments: %v", types.ErrDataUnavailable, err)
	}

	return New(entries), nil
}

// LastImport returns the source and video count of the most recent import.
func (s *SQLiteStore) LastImport(ctx context.Context) (source string, videos int, err error) {
	err = s.db.QueryRowContext(ctx,
		"SELECT source, video_count FROM imports ORDER BY id DESC LIMIT 1").Scan(&source, &videos)
	if err == sql.ErrNoRows {
		return "", 0, nil
	}
	return source, videos, err
}
