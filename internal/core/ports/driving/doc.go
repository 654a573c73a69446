// Package driving defines the interfaces through which the outside world
// drives the core: curation runs, document extraction, and output merging.
//
// These are the "driving" or "primary" ports in hexagonal architecture.
// The CLI adapter calls these interfaces; core services implement them.
package driving
