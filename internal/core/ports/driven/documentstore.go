package driven

import (
	"context"

	"github.com/custodia-labs/curata-cli/internal/core/domain"
)

// DocumentStore persists extracted document structures.
// Implementations must guarantee stable page and paragraph ordering across
// repeated queries within a run: ordering is the join key the alignment
// engine relies on.
type DocumentStore interface {
	// SaveDocument stores or replaces an extracted document.
	SaveDocument(ctx context.Context, doc *domain.ExtractedDocument) error

	// GetDocument retrieves a document by id.
	// Returns domain.ErrDocumentNotFound when the id is unknown.
	GetDocument(ctx context.Context, id string) (*domain.ExtractedDocument, error)

	// ListDocuments returns the ids of all stored documents, sorted.
	ListDocuments(ctx context.Context) ([]string, error)

	// DeleteDocument removes a document and its paragraphs.
	DeleteDocument(ctx context.Context, id string) error

	// Close releases the underlying resources.
	Close() error
}
