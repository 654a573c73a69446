package structure

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/curata-cli/internal/core/domain"
)

const sampleJSON = `{
  "document_id": "report.pdf",
  "pages": [
    {"page_number": 2, "paragraphs": [
      {"paragraph_index": 0, "text": "Second   page,\n first block."}
    ]},
    {"page_number": 1, "paragraphs": [
      {"paragraph_index": 1, "text": "B"},
      {"paragraph_index": 0, "text": "A"}
    ]}
  ]
}`

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleJSON), 0o644))

	doc, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "report.pdf", doc.ID)
	require.Len(t, doc.Pages, 2)

	// Pages sorted ascending, paragraphs by index.
	assert.Equal(t, 1, doc.Pages[0].Number)
	assert.Equal(t, "A", doc.Pages[0].Paragraphs[0].Text)
	assert.Equal(t, "B", doc.Pages[0].Paragraphs[1].Text)

	// Whitespace normalised once at ingestion.
	assert.Equal(t, "Second page, first block.", doc.Pages[1].Paragraphs[0].Text)

	// Paragraphs carry their own coordinates.
	para := doc.Pages[1].Paragraphs[0]
	assert.Equal(t, "report.pdf", para.DocumentID)
	assert.Equal(t, 2, para.PageNumber)
	assert.Equal(t, 0, para.Index)
}

func TestLoadFile_NoDocumentID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anon.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"pages": []}`), 0o644))

	_, err := LoadFile(path)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLoadFile_BadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))

	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.json"), []byte(`{"document_id": "b.pdf", "pages": []}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.json"), []byte(`{"document_id": "a.pdf", "pages": []}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	docs, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a.pdf", docs[0].ID)
	assert.Equal(t, "b.pdf", docs[1].ID)
}

func TestWriteFile_RoundTrip(t *testing.T) {
	doc := &domain.ExtractedDocument{
		ID:         "out.pdf",
		SourceFile: "/tmp/out.pdf",
		Pages: []domain.Page{
			{Number: 1, Paragraphs: []domain.Paragraph{
				{DocumentID: "out.pdf", PageNumber: 1, Index: 0, Text: "Hello world."},
			}},
		},
	}

	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, WriteFile(path, doc))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, doc, loaded)
}
