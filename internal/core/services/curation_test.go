package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/curata-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/curata-cli/internal/core/domain"
	"github.com/custodia-labs/curata-cli/internal/core/ports/driving"
)

// captureWriter records the rows handed to it instead of touching disk.
type captureWriter struct {
	rows []domain.DatasetRow
}

func (w *captureWriter) Write(_ context.Context, destDir string, rows []domain.DatasetRow) (string, int, error) {
	w.rows = rows
	return destDir + "/curated_dataset.csv", len(rows), nil
}

func storeWith(t *testing.T, docs ...*domain.ExtractedDocument) *memory.DocumentStore {
	t.Helper()
	store := memory.NewDocumentStore()
	for _, doc := range docs {
		require.NoError(t, store.SaveDocument(context.Background(), doc))
	}
	return store
}

func TestCurationService_Run(t *testing.T) {
	doc := testDocument()
	store := storeWith(t, doc)
	writer := &captureWriter{}
	svc := NewCurationService(store, writer)

	annotationSet := []domain.Annotation{
		{
			ID:                 1,
			Company:            "Acme Corp",
			SourceFile:         doc.ID,
			KPIID:              "K1",
			Year:               "2023",
			Answer:             "5% increase",
			RelevantParagraphs: []string{"Revenue increased by 5% YoY"},
		},
		{
			ID:                 2,
			Company:            "Acme Corp",
			SourceFile:         doc.ID,
			KPIID:              "K2",
			Year:               "2023",
			Answer:             "12 ktCO2e",
			RelevantParagraphs: []string{"Scope 1 emissions were 12 ktCO2e"},
		},
	}

	result, err := svc.Run(context.Background(), testSchema(t), annotationSet, t.TempDir(), driving.CurationOptions{})
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Contains(t, result.OutputPath, "curated_dataset.csv")
	assert.Equal(t, 1, result.Stats.Documents)
	assert.Equal(t, 2, result.Stats.Annotations)
	assert.Equal(t, 2, result.Stats.Positives)
	assert.Equal(t, 0, result.Stats.Negatives)
	assert.Equal(t, 2, result.Stats.RowsWritten)
	assert.Empty(t, result.Diagnostics)

	require.Len(t, writer.rows, 2)
	assert.Equal(t, "What was the revenue?", writer.rows[0].Question)
	assert.Equal(t, "Revenue increased by 5% YoY", writer.rows[0].Paragraph)
	assert.Equal(t, doc.ID, writer.rows[0].SourceFile)
}

func TestCurationService_RunWithNegatives(t *testing.T) {
	doc := testDocument()
	store := storeWith(t, doc)
	writer := &captureWriter{}
	svc := NewCurationService(store, writer)

	annotationSet := []domain.Annotation{
		{
			ID:                 1,
			SourceFile:         doc.ID,
			KPIID:              "K1",
			Year:               "2023",
			RelevantParagraphs: []string{"Revenue increased by 5% YoY"},
		},
	}

	result, err := svc.Run(context.Background(), testSchema(t), annotationSet, t.TempDir(), driving.CurationOptions{
		CreateNegSamples: true,
		NegativeRatio:    2,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Stats.Positives)
	assert.Equal(t, 2, result.Stats.Negatives)
	assert.Equal(t, 3, result.Stats.RowsWritten)

	negatives := 0
	for _, row := range writer.rows {
		if row.Label == domain.LabelNegative {
			negatives++
			assert.Equal(t, domain.MatchSynthetic, row.Match)
			assert.NotEmpty(t, row.Paragraph)
		}
	}
	assert.Equal(t, 2, negatives)
}

func TestCurationService_RunIsDeterministic(t *testing.T) {
	annotationSet := []domain.Annotation{
		{
			ID:                 1,
			SourceFile:         "acme-2023.pdf",
			KPIID:              "K1",
			RelevantParagraphs: []string{"Revenue increased by 5% YoY"},
		},
	}
	opts := driving.CurationOptions{CreateNegSamples: true, NegativeRatio: 2}

	var runs [][]domain.DatasetRow
	for i := 0; i < 2; i++ {
		writer := &captureWriter{}
		svc := NewCurationService(storeWith(t, testDocument()), writer)
		_, err := svc.Run(context.Background(), testSchema(t), annotationSet, t.TempDir(), opts)
		require.NoError(t, err)
		runs = append(runs, writer.rows)
	}

	assert.Equal(t, runs[0], runs[1])
}

func TestCurationService_MissingDocumentIsFatal(t *testing.T) {
	svc := NewCurationService(memory.NewDocumentStore(), &captureWriter{})

	_, err := svc.Run(context.Background(), testSchema(t), []domain.Annotation{
		{ID: 1, SourceFile: "never-extracted.pdf", KPIID: "K1", SourcePages: []int{1}},
	}, t.TempDir(), driving.CurationOptions{})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDocumentNotFound))
}

func TestCurationService_RequiresDestination(t *testing.T) {
	svc := NewCurationService(memory.NewDocumentStore(), &captureWriter{})

	_, err := svc.Run(context.Background(), testSchema(t), nil, "", driving.CurationOptions{})

	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestCurationService_RequiresSchema(t *testing.T) {
	svc := NewCurationService(memory.NewDocumentStore(), &captureWriter{})

	_, err := svc.Run(context.Background(), nil, nil, t.TempDir(), driving.CurationOptions{})

	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestCurationService_UnknownKPISurfacesAsDiagnostic(t *testing.T) {
	doc := testDocument()
	svc := NewCurationService(storeWith(t, doc), &captureWriter{})

	result, err := svc.Run(context.Background(), testSchema(t), []domain.Annotation{
		{ID: 1, SourceFile: doc.ID, KPIID: "K99", SourcePages: []int{1}},
	}, t.TempDir(), driving.CurationOptions{})

	require.NoError(t, err)
	assert.Equal(t, 0, result.Stats.Positives)
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, domain.DiagUnknownKPI, result.Diagnostics[0].Kind)
}
