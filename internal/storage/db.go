package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"potbs/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS pages (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  url TEXT NOT NULL UNIQUE,
  kind TEXT NOT NULL,
  title TEXT,
  hash TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'fetched',
  rawRef TEXT NOT NULL,
  lastError TEXT NOT NULL DEFAULT '',
  fetchedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_pages_kind ON pages(kind);
CREATE INDEX IF NOT EXISTS idx_pages_status ON pages(status);

CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  stage TEXT NOT NULL,
  timingsJson TEXT NOT NULL,
  countsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

func (d *DB) UpsertPage(url, kind, title, hash, rawRef, status, lastError string) (internal.PageRow, error) {
	_, err := d.conn.Exec(`
INSERT INTO pages (url, kind, title, hash, rawRef, status, lastError)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(url) DO UPDATE SET
  kind=excluded.kind,
  title=excluded.title,
  hash=excluded.hash,
  rawRef=excluded.rawRef,
  status=excluded.status,
  lastError=excluded.lastError,
  fetchedAt=CURRENT_TIMESTAMP,
  updatedAt=CURRENT_TIMESTAMP
`, url, kind, title, hash, rawRef, status, lastError)
	if err != nil {
		return internal.PageRow{}, err
	}

	row, err := d.GetPageByURL(url)
	if err != nil {
		return internal.PageRow{}, err
	}
	if row == nil {
		return internal.PageRow{}, errors.New("failed to upsert page")
	}
	return *row, nil
}

func (d *DB) GetPageByURL(url string) (*internal.PageRow, error) {
	var row internal.PageRow
	err := d.conn.QueryRow(`
SELECT id, url, kind, title, hash, status, rawRef, lastError, fetchedAt
FROM pages WHERE url = ?
`, url).Scan(
		&row.ID, &row.URL, &row.Kind, &row.Title, &row.Hash, &row.Status, &row.RawRef, &row.LastError, &row.FetchedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (d *DB) ListPagesByStatus(status string, limit int) ([]internal.PageRow, error) {
	rows, err := d.conn.Query(`
SELECT id, url, kind, title, hash, status, rawRef, lastError, fetchedAt
FROM pages WHERE status = ? ORDER BY fetchedAt ASC LIMIT ?
`, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.PageRow
	for rows.Next() {
		var row internal.PageRow
		if err := rows.Scan(&row.ID, &row.URL, &row.Kind, &row.Title, &row.Hash, &row.Status, &row.RawRef, &row.LastError, &row.FetchedAt); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (d *DB) CountPagesByStatus(status string) (int, error) {
	var n int
	if err := d.conn.QueryRow(`SELECT COUNT(*) FROM pages WHERE status = ?`, status).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (d *DB) InsertRun(traceID, stage string, timings map[string]float64, counts map[string]int) error {
	timingsJSON, _ := json.Marshal(timings)
	countsJSON, _ := json.Marshal(counts)
	_, err := d.conn.Exec(`INSERT INTO runs (traceId, stage, timingsJson, countsJson) VALUES (?, ?, ?, ?)`, traceID, stage, string(timingsJSON), string(countsJSON))
	return err
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}
