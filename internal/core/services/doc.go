// Package services implements the core curation logic: the alignment
// engine that maps human annotations onto extracted paragraphs, the
// negative sampler, the curation orchestrator, and the output merger.
//
// Services depend only on domain types and ports; all file formats and
// persistence concerns live in loaders and adapters.
package services
