package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage stored document structures",
	Long:  `List, inspect, or remove extracted document structures.`,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentList,
}

var documentShowCmd = &cobra.Command{
	Use:   "show [doc-id]",
	Short: "Show a document's structure",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentShow,
}

var documentDeleteCmd = &cobra.Command{
	Use:   "delete [doc-id]",
	Short: "Remove a document from the store",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentDelete,
}

// showPage limits show output to one page.
var showPage int

func init() {
	documentShowCmd.Flags().IntVarP(&showPage, "page", "p", 0, "Print the paragraphs of a single page")

	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentShowCmd)
	documentCmd.AddCommand(documentDeleteCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if documentStore == nil {
		return errors.New("document store not configured")
	}

	ctx := context.Background()
	ids, err := documentStore.ListDocuments(ctx)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(ids) == 0 {
		cmd.Println("No documents stored.")
		return nil
	}

	for _, id := range ids {
		doc, err := documentStore.GetDocument(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get document %s: %w", id, err)
		}
		cmd.Printf("  %s  (%d pages, %d paragraphs)\n", id, len(doc.Pages), doc.ParagraphCount())
	}

	cmd.Printf("\nTotal: %d documents\n", len(ids))
	return nil
}

func runDocumentShow(cmd *cobra.Command, args []string) error {
	if documentStore == nil {
		return errors.New("document store not configured")
	}

	doc, err := documentStore.GetDocument(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	cmd.Printf("Document: %s\n\n", doc.ID)
	cmd.Printf("  Source file: %s\n", doc.SourceFile)
	cmd.Printf("  Pages:       %d\n", len(doc.Pages))
	cmd.Printf("  Paragraphs:  %d\n\n", doc.ParagraphCount())

	for _, page := range doc.Pages {
		if showPage > 0 && page.Number != showPage {
			continue
		}
		cmd.Printf("  Page %d (%d paragraphs)\n", page.Number, len(page.Paragraphs))
		if showPage > 0 {
			for _, para := range page.Paragraphs {
				cmd.Printf("    [%d] %s\n", para.Index, para.Text)
			}
		}
	}

	return nil
}

func runDocumentDelete(cmd *cobra.Command, args []string) error {
	if documentStore == nil {
		return errors.New("document store not configured")
	}

	docID := args[0]
	if err := documentStore.DeleteDocument(context.Background(), docID); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	cmd.Printf("Document %s removed.\n", docID)
	return nil
}
