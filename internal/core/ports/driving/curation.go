package driving

import (
	"context"

	"github.com/custodia-labs/curata-cli/internal/core/domain"
)

// DefaultSeed is the fixed sampling seed used when the caller does not
// supply one. Reproducibility requires a constant, not time-based entropy.
const DefaultSeed int64 = 42

// DefaultNegativeRatio is the default number of negatives drawn per
// positive for a (document, KPI) pair.
const DefaultNegativeRatio = 1

// CurationOptions configures a curation run.
type CurationOptions struct {
	// CreateNegSamples enables negative sampling. Off by default.
	CreateNegSamples bool

	// NegativeRatio is the number of negatives per positive.
	// Values below 1 fall back to DefaultNegativeRatio.
	NegativeRatio int

	// Seed drives the negative sampler. Zero falls back to DefaultSeed.
	Seed int64
}

// CurationStats summarises one curation run.
type CurationStats struct {
	// Documents is the number of distinct documents processed.
	Documents int

	// Annotations is the number of annotation records consumed.
	Annotations int

	// Positives is the number of positive samples after deduplication.
	Positives int

	// Negatives is the number of synthetic negative samples.
	Negatives int

	// RowsWritten is the number of dataset rows after final dedup.
	RowsWritten int
}

// CurationResult is the outcome of a curation run: the written dataset
// plus the diagnostics the caller audits data quality with.
type CurationResult struct {
	// RunID uniquely identifies this run in logs and diagnostics.
	RunID string

	// OutputPath is the written dataset file.
	OutputPath string

	// Diagnostics lists every recoverable or degraded condition, in
	// occurrence order.
	Diagnostics []domain.Diagnostic

	// Stats summarises the run.
	Stats CurationStats
}

// CurationService aligns annotations against extracted document structures
// and writes the curated dataset.
type CurationService interface {
	// Run curates one dataset from the given schema and annotation set.
	// destDir is required; there is no working-directory fallback.
	// Fatal conditions (missing document, unparseable inputs) abort with
	// an error; recoverable conditions are returned as diagnostics.
	Run(ctx context.Context, schema *domain.KPISchema, annotations []domain.Annotation, destDir string, opts CurationOptions) (*CurationResult, error)
}
