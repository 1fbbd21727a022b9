package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// ErrNoData is returned by Backend.Read when nothing has been stored under
// the name yet.
var ErrNoData = errors.New("no stored data")

// Backend reads and replaces named blobs.
type Backend interface {
	Read(ctx context.Context, name string) ([]byte, error)
	Write(ctx context.Context, name string, data []byte) error
}

// FileBackend keeps one file per name in Dir, named name+Ext.
type FileBackend struct {
	Dir string
	Ext string
}

// NewFileBackend stores files in dir with the codec's extension.
func NewFileBackend(dir string, c Codec) *FileBackend {
	return &FileBackend{Dir: dir, Ext: c.Extension()}
}

// Path returns the file that backs name.
func (b *FileBackend) Path(name string) string {
	return filepath.Join(b.Dir, name+b.Ext)
}

func (b *FileBackend) Read(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(b.Path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoData
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Write replaces the file through a temp file and rename so a crash never
// leaves a half-written collection behind.
func (b *FileBackend) Write(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(b.Dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", b.Dir, err)
	}
	tmp, err := os.CreateTemp(b.Dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), b.Path(name)); err != nil {
		return fmt.Errorf("replace %s: %w", b.Path(name), err)
	}
	return nil
}

// SQLBackend keeps each collection as a single row of the
// collection_snapshots table. The statements are plain enough for both
// MySQL and SQLite.
type SQLBackend struct {
	db *sql.DB
}

const createSnapshotTable = `CREATE TABLE IF NOT EXISTS collection_snapshots (
    name       VARCHAR(64) NOT NULL PRIMARY KEY,
    body       LONGBLOB    NOT NULL,
    updated_at BIGINT      NOT NULL
)`

// NewSQLBackend makes sure the snapshot table exists.
func NewSQLBackend(ctx context.Context, db *sql.DB) (*SQLBackend, error) {
	if _, err := db.ExecContext(ctx, createSnapshotTable); err != nil {
		return nil, fmt.Errorf("create collection_snapshots: %w", err)
	}
	return &SQLBackend{db: db}, nil
}

func (b *SQLBackend) Read(ctx context.Context, name string) ([]byte, error) {
	const q = `SELECT body FROM collection_snapshots WHERE name = ?`
	var body []byte
	if err := b.db.QueryRowContext(ctx, q, name).Scan(&body); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoData
		}
		return nil, err
	}
	return body, nil
}

func (b *SQLBackend) Write(ctx context.Context, name string, data []byte) error {
	const q = `REPLACE INTO collection_snapshots (name, body, updated_at) VALUES (?, ?, ?)`
	_, err := b.db.ExecContext(ctx, q, name, data, time.Now().UTC().UnixMilli())
	return err
}
