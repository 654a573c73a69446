package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/curata-cli/internal/core/domain"
	"github.com/custodia-labs/curata-cli/internal/loaders/structure"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [path...]",
	Short: "Load structure JSON files into the document store",
	Long: `Loads extracted document structures into the structure store so they can
be curated against. Each argument is a structure JSON file or a directory
of them. Re-ingesting a document id replaces its stored structure.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if documentStore == nil {
		return errors.New("document store not configured")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	total := 0
	for _, path := range args {
		docs, err := loadStructurePath(path)
		if err != nil {
			return err
		}
		for _, doc := range docs {
			if err := documentStore.SaveDocument(ctx, doc); err != nil {
				return fmt.Errorf("storing %s: %w", doc.ID, err)
			}
			cmd.Printf("Ingested %s (%d pages, %d paragraphs)\n",
				doc.ID, len(doc.Pages), doc.ParagraphCount())
			total++
		}
	}

	cmd.Printf("Total: %d documents\n", total)
	return nil
}

// loadStructurePath loads one file or every structure file in a directory.
func loadStructurePath(path string) ([]*domain.ExtractedDocument, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if info.IsDir() {
		return structure.LoadDir(path)
	}
	doc, err := structure.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return []*domain.ExtractedDocument{doc}, nil
}
