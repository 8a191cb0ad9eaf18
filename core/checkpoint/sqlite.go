package checkpoint

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// SQLiteStore keeps one row per named checkpoint in a SQLite database.
type SQLiteStore struct {
	db    *sql.DB
	name  string
	runID string
}

// OpenSQLite opens (creating if needed) the database at path, applies
// pending migrations and returns the store for name.
func OpenSQLite(ctx context.Context, path, name, runID string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating checkpoint directory: %w", err)
		}
	}
	if err := migrateUp(path); err != nil {
		return nil, err
	}

	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("opening checkpoint database: %w", err)
	}
	return &SQLiteStore{db: db, name: name, runID: runID}, nil
}

func openDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("opening checkpoint database: %w", err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// migrateUp applies the embedded migrations. The migrator owns and closes
// its own connection.
func migrateUp(path string) error {
	db, err := openDB(path)
	if err != nil {
		return err
	}
	driver, err := sqlite.WithInstance(db, &sqlite.Config{DatabaseName: "main"})
	if err != nil {
		db.Close()
		return fmt.Errorf("creating migration driver: %w", err)
	}
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		db.Close()
		return fmt.Errorf("loading migrations: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		db.Close()
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}

// Load returns the stored position, or 0 when nothing was committed.
func (s *SQLiteStore) Load(ctx context.Context) (int, error) {
	var pos int
	err := s.db.QueryRowContext(ctx, `SELECT position FROM checkpoints WHERE name = ?`, s.name).Scan(&pos)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("loading checkpoint %s: %w", s.name, err)
	}
	return pos, nil
}

// Commit stores position unless a higher one is already stored.
func (s *SQLiteStore) Commit(ctx context.Context, position int) error {
	if position < 0 {
		return fmt.Errorf("negative checkpoint position %d", position)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO checkpoints (name, position, run_id, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
			run_id     = CASE WHEN excluded.position > checkpoints.position THEN excluded.run_id ELSE checkpoints.run_id END,
			updated_at = CASE WHEN excluded.position > checkpoints.position THEN excluded.updated_at ELSE checkpoints.updated_at END,
			position   = MAX(checkpoints.position, excluded.position)`,
		s.name, position, s.runID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("committing checkpoint %s: %w", s.name, err)
	}
	return nil
}

// RunID returns the run that last advanced the checkpoint, or "".
func (s *SQLiteStore) RunID(ctx context.Context) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `SELECT run_id FROM checkpoints WHERE name = ?`, s.name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return id, err
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
