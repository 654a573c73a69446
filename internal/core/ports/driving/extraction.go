package driving

import (
	"context"

	"github.com/custodia-labs/curata-cli/internal/core/domain"
)

// Extractor converts a source file into the structured page/paragraph
// representation curation consumes.
type Extractor interface {
	// Extract parses the file at path into an ExtractedDocument.
	Extract(ctx context.Context, path string) (*domain.ExtractedDocument, error)
}
