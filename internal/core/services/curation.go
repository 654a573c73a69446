package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/custodia-labs/curata-cli/internal/core/domain"
	"github.com/custodia-labs/curata-cli/internal/core/ports/driven"
	"github.com/custodia-labs/curata-cli/internal/core/ports/driving"
	"github.com/custodia-labs/curata-cli/internal/logger"
)

// Ensure CurationService implements the interface.
var _ driving.CurationService = (*CurationService)(nil)

// CurationService orchestrates a curation run: per document, align the
// annotations, sample negatives, then hand all rows to the dataset writer.
type CurationService struct {
	store  driven.DocumentStore
	writer driven.DatasetWriter
}

// NewCurationService creates a curation service over the given stores.
func NewCurationService(store driven.DocumentStore, writer driven.DatasetWriter) *CurationService {
	return &CurationService{
		store:  store,
		writer: writer,
	}
}

// Run curates one dataset. Documents are processed one at a time in sorted
// id order: each document's annotations are fully aligned and its
// negatives sampled before the next document is touched, and sorted order
// keeps the sampler's draw sequence independent of annotation file order.
func (s *CurationService) Run(ctx context.Context, schema *domain.KPISchema, annotations []domain.Annotation, destDir string, opts driving.CurationOptions) (*driving.CurationResult, error) {
	if s.store == nil || s.writer == nil {
		return nil, fmt.Errorf("%w: curation service not fully configured", domain.ErrInvalidInput)
	}
	if schema == nil {
		return nil, fmt.Errorf("%w: KPI schema is required", domain.ErrInvalidInput)
	}
	if destDir == "" {
		return nil, fmt.Errorf("%w: destination directory is required", domain.ErrInvalidInput)
	}

	runID := uuid.New().String()
	diags := domain.NewDiagnosticsCollector()

	ratio := opts.NegativeRatio
	if ratio < 1 {
		ratio = driving.DefaultNegativeRatio
	}
	seed := opts.Seed
	if seed == 0 {
		seed = driving.DefaultSeed
	}

	aligner := NewAligner()
	sampler := NewSampler(ratio, seed)

	byDocument := groupByDocument(annotations)
	docIDs := make([]string, 0, len(byDocument))
	for id := range byDocument {
		docIDs = append(docIDs, id)
	}
	sort.Strings(docIDs)

	logger.Section("curation run " + runID)
	logger.Info("curating %d documents, %d annotations", len(docIDs), len(annotations))

	stats := driving.CurationStats{
		Documents:   len(docIDs),
		Annotations: len(annotations),
	}

	var rows []domain.DatasetRow
	for _, docID := range docIDs {
		doc, err := s.store.GetDocument(ctx, docID)
		if err != nil {
			// Missing structure for an annotated document is fatal.
			return nil, fmt.Errorf("document %q: %w", docID, err)
		}

		positives := aligner.Align(doc, schema, byDocument[docID], diags)
		stats.Positives += len(positives)

		samples := positives
		if opts.CreateNegSamples {
			negatives := sampler.Sample(doc, positives, diags)
			stats.Negatives += len(negatives)
			samples = append(samples, negatives...)
		}

		logger.Debug("document %s: %d positives, %d samples total", docID, len(positives), len(samples))
		rows = append(rows, buildRows(doc, schema, samples)...)
	}

	path, written, err := s.writer.Write(ctx, destDir, rows)
	if err != nil {
		return nil, fmt.Errorf("writing dataset: %w", err)
	}
	stats.RowsWritten = written

	logger.Info("wrote %d rows to %s (%d diagnostics)", written, path, diags.Len())

	return &driving.CurationResult{
		RunID:       runID,
		OutputPath:  path,
		Diagnostics: diags.Entries(),
		Stats:       stats,
	}, nil
}

// groupByDocument buckets annotations by source file, preserving the
// annotation order inside each bucket.
func groupByDocument(annotations []domain.Annotation) map[string][]domain.Annotation {
	out := make(map[string][]domain.Annotation)
	for _, ann := range annotations {
		out[ann.SourceFile] = append(out[ann.SourceFile], ann)
	}
	return out
}

// buildRows resolves each sample's paragraph ref against its document and
// flattens it into the output schema.
func buildRows(doc *domain.ExtractedDocument, schema *domain.KPISchema, samples []domain.AlignedSample) []domain.DatasetRow {
	rows := make([]domain.DatasetRow, 0, len(samples))
	for _, sample := range samples {
		para, ok := doc.Resolve(sample.Paragraph)
		if !ok {
			// Refs come from this document's own paragraphs, so a
			// failed resolve means the store violated ordering
			// stability. Skip rather than emit a text-less row.
			logger.Warn("paragraph ref %v not resolvable in document %s", sample.Paragraph, doc.ID)
			continue
		}

		question := ""
		if def, ok := schema.Get(sample.KPIID); ok {
			question = def.Question
		}

		rows = append(rows, domain.DatasetRow{
			Company:        sample.Company,
			SourceFile:     doc.ID,
			PageNumber:     para.PageNumber,
			ParagraphIndex: para.Index,
			KPIID:          sample.KPIID,
			Question:       question,
			Year:           sample.Year,
			Answer:         sample.Answer,
			Paragraph:      para.Text,
			Label:          sample.Label,
			Match:          sample.Match,
			Annotator:      sample.Annotator,
			Sector:         sample.Sector,
			DataType:       sample.DataType,
		})
	}
	return rows
}
