package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrDocumentNotFound indicates an annotation references a document
	// missing from the structure store. Fatal for the run.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrUnknownKPI indicates an annotation references a KPI id that is
	// not in the schema. Recoverable per record.
	ErrUnknownKPI = errors.New("unknown KPI id")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSchemaParse indicates the KPI schema failed to parse.
	// Fatal for the run.
	ErrSchemaParse = errors.New("KPI schema parse failed")

	// ErrAnnotationParse indicates the annotation set failed to parse.
	// Fatal for the run. Individual malformed rows are recoverable and
	// reported as diagnostics instead.
	ErrAnnotationParse = errors.New("annotation set parse failed")

	// ErrUnsupportedFileType indicates a tabular input has an extension
	// no reader handles.
	ErrUnsupportedFileType = errors.New("unsupported file type")
)
