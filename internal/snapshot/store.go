// Package snapshot persists documentation maps per module version, so
// a merge can replay the docstrings of a module build that is no
// longer importable.
package snapshot

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"stubdoc/internal/docmap"
	"stubdoc/internal/errors"
	"stubdoc/internal/logging"
)

// Store provides persistence for docstring snapshots in SQLite.
type Store struct {
	conn    *sql.DB
	logger  *logging.Logger
	dbPath  string
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// Info describes one stored snapshot.
type Info struct {
	ID        string    `json:"id"`
	Module    string    `json:"module"`
	Version   string    `json:"version"`
	DocCount  int       `json:"docCount"`
	CreatedAt time.Time `json:"createdAt"`
}

// Open opens or creates the snapshot database at dbPath, creating
// parent directories as needed.
func Open(dbPath string, logger *logging.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	dbExists := fileExists(dbPath)

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot database: %w", err)
	}

	// Set pragmas for performance and reliability
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}

	store := &Store{
		conn:    conn,
		logger:  logger,
		dbPath:  dbPath,
		encoder: encoder,
		decoder: decoder,
	}

	if !dbExists {
		logger.Info("Creating snapshot database", map[string]interface{}{
			"path": dbPath,
		})
	}
	if err := store.initializeSchema(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize snapshot schema: %w", err)
	}

	return store, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (s *Store) initializeSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS snapshots (
			id TEXT PRIMARY KEY,
			module TEXT NOT NULL,
			version TEXT NOT NULL,
			doc_count INTEGER NOT NULL,
			docs BLOB NOT NULL,
			created_at TEXT NOT NULL,
			UNIQUE(module, version)
		);
		CREATE INDEX IF NOT EXISTS idx_snapshots_module ON snapshots(module);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.encoder.Close()
	s.decoder.Close()
	return s.conn.Close()
}

// Save stores the documentation map for a module version, replacing
// any snapshot previously taken for the same version. The docstring
// payload is zstd-compressed JSON.
func (s *Store) Save(module, version string, docs docmap.Map) (string, error) {
	data, err := docs.Marshal()
	if err != nil {
		return "", err
	}
	blob := s.encoder.EncodeAll(data, nil)

	id := uuid.New().String()
	_, err = s.conn.Exec(`
		INSERT INTO snapshots (id, module, version, doc_count, docs, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(module, version) DO UPDATE SET
			id = excluded.id,
			doc_count = excluded.doc_count,
			docs = excluded.docs,
			created_at = excluded.created_at
	`, id, module, version, len(docs), blob, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("failed to save snapshot: %w", err)
	}

	s.logger.Info("Saved snapshot", map[string]interface{}{
		"module":  module,
		"version": version,
		"docs":    len(docs),
	})
	return id, nil
}

// Load returns the documentation map stored for a module version.
func (s *Store) Load(module, version string) (docmap.Map, error) {
	var blob []byte
	err := s.conn.QueryRow(
		`SELECT docs FROM snapshots WHERE module = ? AND version = ?`,
		module, version,
	).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, errors.Newf(errors.SnapshotMissing, nil, "no snapshot for %s %s", module, version)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	data, err := s.decoder.DecodeAll(blob, nil)
	if err != nil {
		return nil, errors.Newf(errors.ConfigError, err, "decompressing snapshot for %s %s", module, version)
	}
	return docmap.Unmarshal(data)
}

// List returns the snapshots for a module, newest first. An empty
// module lists everything.
func (s *Store) List(module string) ([]Info, error) {
	query := `SELECT id, module, version, doc_count, created_at FROM snapshots`
	args := []interface{}{}
	if module != "" {
		query += ` WHERE module = ?`
		args = append(args, module)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var infos []Info
	for rows.Next() {
		var info Info
		var createdAt string
		if err := rows.Scan(&info.ID, &info.Module, &info.Version, &info.DocCount, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		info.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// Delete removes the snapshot for a module version.
func (s *Store) Delete(module, version string) error {
	res, err := s.conn.Exec(
		`DELETE FROM snapshots WHERE module = ? AND version = ?`,
		module, version,
	)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return errors.Newf(errors.SnapshotMissing, nil, "no snapshot for %s %s", module, version)
	}
	return nil
}
