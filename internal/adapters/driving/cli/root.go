// Package cli implements the command-line interface for curata.
// Commands are thin adapters: they parse flags and arguments, delegate to
// the core services wired in by main, and format results for the terminal.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/curata-cli/internal/core/ports/driven"
	"github.com/custodia-labs/curata-cli/internal/core/ports/driving"
	"github.com/custodia-labs/curata-cli/internal/logger"
)

// version is set by Execute from the build-time version string.
var version = "dev"

// Services injected by main before Execute. Commands nil-check the ones
// they need so a partially wired binary fails with a clear message.
var (
	curationService  driving.CurationService
	extractorService driving.Extractor
	mergerService    driving.Merger
	documentStore    driven.DocumentStore
)

// Config-derived sampling defaults, overridable per invocation by flags.
var (
	defaultNegativeRatio = driving.DefaultNegativeRatio
	defaultSeed          = driving.DefaultSeed
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "curata",
	Short: "Curate training data for KPI text classification",
	Long: `Curata turns human KPI annotations and extracted PDF structures into
a labelled, deduplicated training dataset.

Typical flow:
  curata extract report.pdf -o structures/
  curata ingest structures/
  curata curate --annotations annotations.xlsx --kpis kpis.csv --output out/`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}

// SetCurationService injects the curation service.
func SetCurationService(s driving.CurationService) {
	curationService = s
}

// SetExtractor injects the document extractor.
func SetExtractor(e driving.Extractor) {
	extractorService = e
}

// SetMerger injects the output merger.
func SetMerger(m driving.Merger) {
	mergerService = m
}

// SetDocumentStore injects the structure store.
func SetDocumentStore(s driven.DocumentStore) {
	documentStore = s
}

// SetSamplingDefaults overrides the built-in sampling defaults, typically
// from the config file. Flags still take precedence per invocation.
func SetSamplingDefaults(ratio int, seed int64) {
	if ratio >= 1 {
		defaultNegativeRatio = ratio
	}
	if seed != 0 {
		defaultSeed = seed
	}
}

// Execute runs the root command with the given build version.
func Execute(v string) error {
	if v != "" {
		version = v
	}
	return rootCmd.Execute()
}
