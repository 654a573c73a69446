// Package domain contains the core business entities for dataset curation:
// extracted document structures, KPI schemas, human annotations, aligned
// samples, and the diagnostics collected while curating.
//
// Domain types are plain data with no I/O. Loading and persistence live in
// adapters; the curation services in internal/core/services operate on these
// types exclusively.
package domain
