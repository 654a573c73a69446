package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/curata-cli/internal/core/domain"
	"github.com/custodia-labs/curata-cli/internal/core/ports/driving"
	"github.com/custodia-labs/curata-cli/internal/loaders/annotations"
	"github.com/custodia-labs/curata-cli/internal/loaders/kpischema"
	"github.com/custodia-labs/curata-cli/internal/loaders/structure"
	"github.com/custodia-labs/curata-cli/internal/logger"
)

var curateCmd = &cobra.Command{
	Use:   "curate",
	Short: "Build a curated training dataset",
	Long: `Aligns human KPI annotations against extracted document structures and
writes a labelled dataset CSV into the output directory.

Annotations and the KPI schema are read from CSV/TSV/XLSX files. Document
structures come from the structure store; pass --structures to load a
directory of structure JSON files into the store first.`,
	RunE: runCurate,
}

// curate flags.
var (
	curateAnnotations string
	curateKPIs        string
	curateStructures  string
	curateOutput      string
	curateNegSamples  bool
	curateRatio       int
	curateSeed        int64
	curateWatch       bool
)

func init() {
	curateCmd.Flags().StringVarP(&curateAnnotations, "annotations", "a", "", "Annotation file (csv/tsv/xlsx) (required)")
	curateCmd.Flags().StringVarP(&curateKPIs, "kpis", "k", "", "KPI schema file (csv/tsv/xlsx) (required)")
	curateCmd.Flags().StringVarP(&curateStructures, "structures", "s", "", "Directory of structure JSON files to load before curating")
	curateCmd.Flags().StringVarP(&curateOutput, "output", "o", "", "Output directory for the dataset (required)")
	curateCmd.Flags().BoolVar(&curateNegSamples, "neg-samples", false, "Synthesise negative samples")
	curateCmd.Flags().IntVar(&curateRatio, "ratio", 0, "Negatives per positive (default from config)")
	curateCmd.Flags().Int64Var(&curateSeed, "seed", 0, "Sampling seed (default from config)")
	curateCmd.Flags().BoolVarP(&curateWatch, "watch", "w", false, "Re-run curation when the annotation file changes")

	_ = curateCmd.MarkFlagRequired("annotations")
	_ = curateCmd.MarkFlagRequired("kpis")
	_ = curateCmd.MarkFlagRequired("output")

	rootCmd.AddCommand(curateCmd)
}

func runCurate(cmd *cobra.Command, _ []string) error {
	if curationService == nil {
		return errors.New("curation service not configured")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if curateStructures != "" {
		if documentStore == nil {
			return errors.New("document store not configured")
		}
		n, err := loadStructures(ctx, curateStructures)
		if err != nil {
			return fmt.Errorf("loading structures: %w", err)
		}
		cmd.Printf("Loaded %d document structures from %s\n", n, curateStructures)
	}

	if !curateWatch {
		return curateOnce(ctx, cmd)
	}

	return curateWatchLoop(ctx, cmd)
}

// curateOnce performs a single curation run and prints its summary.
func curateOnce(ctx context.Context, cmd *cobra.Command) error {
	schema, err := kpischema.Load(curateKPIs)
	if err != nil {
		return fmt.Errorf("loading KPI schema: %w", err)
	}

	loadDiags := domain.NewDiagnosticsCollector()
	anns, err := annotations.Load(curateAnnotations, loadDiags)
	if err != nil {
		return fmt.Errorf("loading annotations: %w", err)
	}

	opts := driving.CurationOptions{
		CreateNegSamples: curateNegSamples,
		NegativeRatio:    curateRatio,
		Seed:             curateSeed,
	}
	if opts.NegativeRatio == 0 {
		opts.NegativeRatio = defaultNegativeRatio
	}
	if opts.Seed == 0 {
		opts.Seed = defaultSeed
	}

	result, err := curationService.Run(ctx, schema, anns, curateOutput, opts)
	if err != nil {
		return fmt.Errorf("curation failed: %w", err)
	}

	cmd.Printf("Dataset written: %s\n", result.OutputPath)
	cmd.Printf("  Documents:    %d\n", result.Stats.Documents)
	cmd.Printf("  Annotations:  %d\n", result.Stats.Annotations)
	cmd.Printf("  Positives:    %d\n", result.Stats.Positives)
	if curateNegSamples {
		cmd.Printf("  Negatives:    %d\n", result.Stats.Negatives)
	}
	cmd.Printf("  Rows written: %d\n", result.Stats.RowsWritten)

	diags := append(loadDiags.Entries(), result.Diagnostics...)
	if len(diags) > 0 {
		cmd.Printf("\n%d diagnostics:\n", len(diags))
		for _, d := range diags {
			cmd.Printf("  %s\n", d)
		}
	}

	return nil
}

// curateWatchLoop re-runs curation whenever the annotation file changes,
// until interrupted. Editors often replace files on save, so the watch is
// on the containing directory and filtered to the annotation path.
func curateWatchLoop(ctx context.Context, cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	absAnnotations, err := filepath.Abs(curateAnnotations)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(absAnnotations)); err != nil {
		return fmt.Errorf("watching %s: %w", curateAnnotations, err)
	}

	if err := curateOnce(ctx, cmd); err != nil {
		// In watch mode a failed run is reported, not fatal; the next
		// save may fix the input.
		cmd.PrintErrf("Error: %v\n", err)
	}

	cmd.Printf("\nWatching %s for changes (ctrl-c to stop)...\n", curateAnnotations)

	// Debounce: editors fire several events per save.
	var timer *time.Timer
	trigger := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			changed, err := filepath.Abs(event.Name)
			if err != nil || changed != absAnnotations {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(250*time.Millisecond, func() {
				select {
				case trigger <- struct{}{}:
				default:
				}
			})

		case <-trigger:
			logger.Info("annotation file changed, re-running curation")
			cmd.Println("\nAnnotation file changed, re-running...")
			if err := curateOnce(ctx, cmd); err != nil {
				cmd.PrintErrf("Error: %v\n", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			cmd.PrintErrf("Watch error: %v\n", err)
		}
	}
}

// loadStructures loads every structure JSON file in dir into the store.
func loadStructures(ctx context.Context, dir string) (int, error) {
	docs, err := structure.LoadDir(dir)
	if err != nil {
		return 0, err
	}
	for _, doc := range docs {
		if err := documentStore.SaveDocument(ctx, doc); err != nil {
			return 0, fmt.Errorf("storing %s: %w", doc.ID, err)
		}
	}
	return len(docs), nil
}
