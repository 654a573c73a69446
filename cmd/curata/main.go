// Command curata curates training data for KPI text-classification models:
// it extracts document structure from PDFs, aligns human annotations
// against it, and writes labelled datasets.
package main

import (
	"fmt"
	"os"

	configfile "github.com/custodia-labs/curata-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/curata-cli/internal/adapters/driven/dataset/csvfile"
	"github.com/custodia-labs/curata-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/curata-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/curata-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/curata-cli/internal/core/ports/driven"
	"github.com/custodia-labs/curata-cli/internal/core/services"
	"github.com/custodia-labs/curata-cli/internal/extractors/pdftext"
)

// version is overridden at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store, closeStore, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("opening document store: %w", err)
	}
	defer closeStore()

	writer := csvfile.NewWriter(cfg.DatasetName())

	cli.SetDocumentStore(store)
	cli.SetCurationService(services.NewCurationService(store, writer))
	cli.SetExtractor(pdftext.New())
	cli.SetMerger(services.NewMerger())
	cli.SetSamplingDefaults(cfg.NegativeRatio(0), cfg.SamplingSeed(0))

	return cli.Execute(version)
}

// openStore selects the structure store backend from config. The memory
// backend exists for scripted runs that pass --structures and never want
// state on disk.
func openStore(cfg *configfile.ConfigStore) (driven.DocumentStore, func(), error) {
	switch cfg.StorageBackend() {
	case "memory":
		store := memory.NewDocumentStore()
		return store, func() {}, nil
	case "sqlite":
		store, err := sqlite.NewStore(cfg.DataDir())
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend())
	}
}
