package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver

	"github.com/custodia-labs/teampilot/internal/adapters/driven/storage/postgres/migrations"
	"github.com/custodia-labs/teampilot/internal/core/ports/driven"
)

// uniqueViolation is the PostgreSQL error code for unique constraint
// violations.
const uniqueViolation = "23505"

// embeddingDimPlaceholder is replaced in migration files with the configured
// embedding dimension.
const embeddingDimPlaceholder = "@EMB_DIM@"

// Store is a unified PostgreSQL storage that provides access to all store
// interfaces through wrapper types sharing one connection pool.
type Store struct {
	db           *sql.DB
	embeddingDim int
}

// Open connects to the database at dbURL and runs any pending migrations.
// The embedding dimension is fixed at migration time and must match the
// embedding model configured for the service.
func Open(dbURL string, embeddingDim int) (*Store, error) {
	if dbURL == "" {
		return nil, fmt.Errorf("postgres: database URL is required")
	}
	if embeddingDim <= 0 {
		return nil, fmt.Errorf("postgres: embedding dimension must be positive")
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:           db,
		embeddingDim: embeddingDim,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// DocumentStore returns a DocumentStore interface backed by this store.
func (s *Store) DocumentStore() driven.DocumentStore {
	return &documentStore{store: s}
}

// ChunkStore returns a ChunkStore interface backed by this store.
func (s *Store) ChunkStore() driven.ChunkStore {
	return &chunkStore{store: s}
}

// UserStore returns a UserStore interface backed by this store.
func (s *Store) UserStore() driven.UserStore {
	return &userStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_init.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		statement := strings.ReplaceAll(
			string(content),
			embeddingDimPlaceholder,
			strconv.Itoa(s.embeddingDim),
		)

		if _, err := s.db.Exec(statement); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(
			"INSERT INTO schema_migrations (version) VALUES ($1)", version,
		); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// Health verifies the database is usable: the vector extension is installed,
// vector operations work and the core tables exist.
func (s *Store) Health(ctx context.Context) error {
	var ext string
	err := s.db.QueryRowContext(ctx,
		"SELECT extname FROM pg_extension WHERE extname = 'vector'",
	).Scan(&ext)
	if err == sql.ErrNoRows {
		return fmt.Errorf("vector extension is not installed")
	}
	if err != nil {
		return fmt.Errorf("checking vector extension: %w", err)
	}

	var sum string
	if err := s.db.QueryRowContext(ctx,
		"SELECT '[1, 2, 3]'::vector + '[4, 5, 6]'::vector",
	).Scan(&sum); err != nil {
		return fmt.Errorf("vector operations failed: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT table_name FROM information_schema.tables
		WHERE table_name IN ('documents', 'document_chunks')
	`)
	if err != nil {
		return fmt.Errorf("checking tables: %w", err)
	}
	defer rows.Close()

	tables := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("scanning table name: %w", err)
		}
		tables[name] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating tables: %w", err)
	}

	if !tables["documents"] || !tables["document_chunks"] {
		return fmt.Errorf("core tables are missing")
	}

	return nil
}

// isUniqueViolation reports whether err is a unique constraint violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// nullString returns nil for empty strings, otherwise the string.
func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
