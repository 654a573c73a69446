package driven

import (
	"context"

	"github.com/custodia-labs/curata-cli/internal/core/domain"
)

// DatasetWriter serialises curated dataset rows to a destination directory.
// The destination is explicit and required: implementations must never fall
// back to the process working directory.
type DatasetWriter interface {
	// Write orders and deduplicates the rows, then writes them
	// atomically into destDir. It returns the final file path and the
	// number of rows written after deduplication.
	// A failed write must not leave a truncated file in destDir.
	Write(ctx context.Context, destDir string, rows []domain.DatasetRow) (string, int, error)
}
