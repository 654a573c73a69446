package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/curata-cli/internal/extractors/pdftext"
	"github.com/custodia-labs/curata-cli/internal/loaders/structure"
)

var extractCmd = &cobra.Command{
	Use:   "extract [pdf-file...]",
	Short: "Extract document structure from PDF files",
	Long: `Runs pdftotext on each PDF and writes the page/paragraph structure as
a JSON file, ready for ingestion and curation.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExtract,
}

// extract flags.
var (
	extractOutputDir string
	extractStore     bool
)

func init() {
	extractCmd.Flags().StringVarP(&extractOutputDir, "output", "o", ".", "Directory for structure JSON files")
	extractCmd.Flags().BoolVar(&extractStore, "store", false, "Also save structures into the document store")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	if extractorService == nil {
		return errors.New("extractor not configured")
	}
	if err := pdftext.CheckAvailable(); err != nil {
		cmd.PrintErrln(pdftext.InstallInstructions())
		return err
	}
	if extractStore && documentStore == nil {
		return errors.New("document store not configured")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := os.MkdirAll(extractOutputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	for _, path := range args {
		doc, err := extractorService.Extract(ctx, path)
		if err != nil {
			return fmt.Errorf("extracting %s: %w", path, err)
		}

		outName := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".json"
		outPath := filepath.Join(extractOutputDir, outName)
		if err := structure.WriteFile(outPath, doc); err != nil {
			return fmt.Errorf("writing %s: %w", outPath, err)
		}

		if extractStore {
			if err := documentStore.SaveDocument(ctx, doc); err != nil {
				return fmt.Errorf("storing %s: %w", doc.ID, err)
			}
		}

		cmd.Printf("%s: %d pages, %d paragraphs -> %s\n",
			filepath.Base(path), len(doc.Pages), doc.ParagraphCount(), outPath)
	}

	return nil
}
