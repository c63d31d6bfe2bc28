package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/custodia-labs/teampilot/internal/core/domain"
	"github.com/custodia-labs/teampilot/internal/core/ports/driven"
)

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

// SaveDocument stores or updates a document. New documents get their ID and
// timestamps from the database.
func (s *documentStore) SaveDocument(ctx context.Context, doc *domain.Document) error {
	if doc.Status == "" {
		doc.Status = domain.DocumentStatusPending
	}

	if doc.ID == "" {
		err := s.store.db.QueryRowContext(ctx, `
			INSERT INTO documents (name, status)
			VALUES ($1, $2)
			RETURNING id, created_at, updated_at
		`, doc.Name, string(doc.Status)).Scan(&doc.ID, &doc.CreatedAt, &doc.UpdatedAt)

		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		if err != nil {
			return fmt.Errorf("saving document: %w", err)
		}
		return nil
	}

	err := s.store.db.QueryRowContext(ctx, `
		UPDATE documents
		SET name = $2, status = $3, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`, doc.ID, doc.Name, string(doc.Status)).Scan(&doc.UpdatedAt)

	if err == sql.ErrNoRows {
		return domain.ErrNotFound
	}
	if isUniqueViolation(err) {
		return domain.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// GetDocument retrieves a document by ID.
func (s *documentStore) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, name, status, created_at, updated_at
		FROM documents WHERE id = $1
	`, id)

	return scanDocument(row)
}

// GetDocumentByName retrieves a document by its unique name.
func (s *documentStore) GetDocumentByName(ctx context.Context, name string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, name, status, created_at, updated_at
		FROM documents WHERE name = $1
	`, name)

	return scanDocument(row)
}

// ListDocuments returns all documents ordered by name.
func (s *documentStore) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, name, status, created_at, updated_at
		FROM documents ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		var doc domain.Document
		var status string
		if err := rows.Scan(&doc.ID, &doc.Name, &status, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		doc.Status = domain.DocumentStatus(status)
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	return docs, nil
}

// DeleteDocument removes a document; chunks cascade at the database level.
func (s *documentStore) DeleteDocument(ctx context.Context, id string) error {
	result, err := s.store.db.ExecContext(ctx, "DELETE FROM documents WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetStatus transitions a document to the given status as a single committed
// write.
func (s *documentStore) SetStatus(ctx context.Context, id string, status domain.DocumentStatus) error {
	result, err := s.store.db.ExecContext(ctx, `
		UPDATE documents SET status = $2, updated_at = now() WHERE id = $1
	`, id, string(status))
	if err != nil {
		return fmt.Errorf("updating document status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating document status: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ClaimProcessing moves a document into processing only when no other run
// holds it. The claim is a single compare-and-swap UPDATE so concurrent
// claims of one document can never both succeed.
func (s *documentStore) ClaimProcessing(ctx context.Context, id string) error {
	result, err := s.store.db.ExecContext(ctx, `
		UPDATE documents SET status = $2, updated_at = now()
		WHERE id = $1 AND status <> $2
	`, id, string(domain.DocumentStatusProcessing))
	if err != nil {
		return fmt.Errorf("claiming document: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("claiming document: %w", err)
	}
	if affected == 1 {
		return nil
	}

	// Zero rows: either the document is already processing or it is gone.
	var exists bool
	err = s.store.db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM documents WHERE id = $1)", id,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("claiming document: %w", err)
	}
	if exists {
		return domain.ErrDocumentBusy
	}
	return domain.ErrNotFound
}

// scanDocument scans a single document row.
func scanDocument(row *sql.Row) (*domain.Document, error) {
	var doc domain.Document
	var status string

	if err := row.Scan(&doc.ID, &doc.Name, &status, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	doc.Status = domain.DocumentStatus(status)
	return &doc, nil
}
