package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/curata-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/curata-cli/internal/core/domain"
	"github.com/custodia-labs/curata-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.DocumentStore = (*Store)(nil)

// Store is a SQLite-backed document structure store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.curata/data/structures.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".curata", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "structures.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
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
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
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

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// SaveDocument stores or replaces a document and its paragraphs.
func (s *Store) SaveDocument(ctx context.Context, doc *domain.ExtractedDocument) error {
	if doc == nil || doc.ID == "" {
		return domain.ErrInvalidInput
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO documents (id, source_file)
		VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET source_file = excluded.source_file
	`, doc.ID, doc.SourceFile)
	if err != nil {
		return fmt.Errorf("saving document %s: %w", doc.ID, err)
	}

	// Replace existing paragraphs wholesale to keep ordering exact.
	if _, err := tx.ExecContext(ctx, "DELETE FROM paragraphs WHERE document_id = ?", doc.ID); err != nil {
		return fmt.Errorf("clearing paragraphs for %s: %w", doc.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO paragraphs (document_id, page_number, paragraph_index, text)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing paragraph insert: %w", err)
	}
	defer stmt.Close()

	for _, page := range doc.Pages {
		for _, para := range page.Paragraphs {
			if _, err := stmt.ExecContext(ctx, doc.ID, page.Number, para.Index, para.Text); err != nil {
				return fmt.Errorf("saving paragraph %d/%d of %s: %w", page.Number, para.Index, doc.ID, err)
			}
		}
	}

	return tx.Commit()
}

// GetDocument retrieves a document by id. Paragraphs are returned ordered
// by (page_number, paragraph_index), which keeps repeated queries stable.
func (s *Store) GetDocument(ctx context.Context, id string) (*domain.ExtractedDocument, error) {
	doc := &domain.ExtractedDocument{ID: id}

	row := s.db.QueryRowContext(ctx, "SELECT source_file FROM documents WHERE id = ?", id)
	if err := row.Scan(&doc.SourceFile); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("getting document %s: %w", id, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT page_number, paragraph_index, text
		FROM paragraphs
		WHERE document_id = ?
		ORDER BY page_number, paragraph_index
	`, id)
	if err != nil {
		return nil, fmt.Errorf("getting paragraphs for %s: %w", id, err)
	}
	defer rows.Close()

	var current *domain.Page
	for rows.Next() {
		var para domain.Paragraph
		para.DocumentID = id
		if err := rows.Scan(&para.PageNumber, &para.Index, &para.Text); err != nil {
			return nil, fmt.Errorf("scanning paragraph: %w", err)
		}

		if current == nil || current.Number != para.PageNumber {
			doc.Pages = append(doc.Pages, domain.Page{Number: para.PageNumber})
			current = &doc.Pages[len(doc.Pages)-1]
		}
		current.Paragraphs = append(current.Paragraphs, para)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating paragraphs: %w", err)
	}

	return doc, nil
}

// ListDocuments returns the ids of all stored documents, sorted.
func (s *Store) ListDocuments(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id FROM documents ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning document id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// DeleteDocument removes a document and its paragraphs.
func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting document %s: %w", id, err)
	}
	return nil
}
