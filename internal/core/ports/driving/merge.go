package driving

import (
	"context"

	"github.com/custodia-labs/curata-cli/internal/core/domain"
)

// MergeOptions configures an output merge.
type MergeOptions struct {
	// DropDuplicates removes exact-duplicate rows from the result.
	DropDuplicates bool
}

// Merger combines two curated outputs (e.g. the rule-based and text-based
// extraction results) into one table with a standardised header.
type Merger interface {
	// Merge standardises both tables' headers and concatenates them.
	Merge(ctx context.Context, first, second *domain.Table, opts MergeOptions) (*domain.Table, error)
}
