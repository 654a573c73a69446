package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/curata-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/curata-cli/internal/core/domain"
)

// setupTestStore wires a memory store with one document and returns a
// cleanup that restores the previous wiring.
func setupTestStore(t *testing.T) func() {
	t.Helper()

	store := memory.NewDocumentStore()
	err := store.SaveDocument(context.Background(), &domain.ExtractedDocument{
		ID:         "acme-2023",
		SourceFile: "acme-2023.pdf",
		Pages: []domain.Page{
			{
				Number: 1,
				Paragraphs: []domain.Paragraph{
					{DocumentID: "acme-2023", PageNumber: 1, Index: 0, Text: "Revenue increased by 5% YoY"},
				},
			},
		},
	})
	require.NoError(t, err)

	previous := documentStore
	documentStore = store
	return func() { documentStore = previous }
}

// Document Command Tests

func TestDocumentCmd_Use(t *testing.T) {
	assert.Equal(t, "document", documentCmd.Use)
}

func TestDocumentCmd_Short(t *testing.T) {
	assert.Equal(t, "Manage stored document structures", documentCmd.Short)
}

func TestDocumentCmd_HasSubcommands(t *testing.T) {
	commands := documentCmd.Commands()
	commandNames := make([]string, 0, len(commands))
	for _, cmd := range commands {
		commandNames = append(commandNames, cmd.Name())
	}

	assert.Contains(t, commandNames, "list")
	assert.Contains(t, commandNames, "show")
	assert.Contains(t, commandNames, "delete")
}

// Document List Tests

func TestDocumentListCmd_RequiresStore(t *testing.T) {
	previous := documentStore
	documentStore = nil
	defer func() { documentStore = previous }()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"document", "list"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestDocumentListCmd_Executes(t *testing.T) {
	cleanup := setupTestStore(t)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"document", "list"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "acme-2023")
	assert.Contains(t, buf.String(), "Total: 1 documents")
}

// Document Show Tests

func TestDocumentShowCmd_RequiresExactlyOneArg(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"document", "show"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestDocumentShowCmd_Executes(t *testing.T) {
	cleanup := setupTestStore(t)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"document", "show", "acme-2023"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "acme-2023.pdf")
	assert.Contains(t, buf.String(), "Page 1")
}

func TestDocumentShowCmd_UnknownDocument(t *testing.T) {
	cleanup := setupTestStore(t)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"document", "show", "missing"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
}

// Document Delete Tests

func TestDocumentDeleteCmd_Executes(t *testing.T) {
	cleanup := setupTestStore(t)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"document", "delete", "acme-2023"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "removed")

	ids, err := documentStore.ListDocuments(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}
