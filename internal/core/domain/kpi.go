package domain

import "fmt"

// KPIDefinition describes one key performance indicator a model is trained
// to answer from text.
type KPIDefinition struct {
	// ID is the unique KPI identifier (e.g. "2.1").
	ID string

	// Question is the natural-language question the KPI asks.
	Question string

	// Sectors lists the sector codes the KPI applies to.
	Sectors []string

	// AddYear indicates a year must be attached to the question.
	AddYear bool

	// Category is the expected answer category (e.g. "TEXT", "NUMBER").
	Category string
}

// KPISchema is the immutable mapping from KPI id to its definition.
// Loaded once per curation run.
type KPISchema struct {
	defs  map[string]KPIDefinition
	order []string
}

// NewKPISchema builds a schema from definitions.
// A duplicate KPI id is a parse-level consistency violation.
func NewKPISchema(defs []KPIDefinition) (*KPISchema, error) {
	s := &KPISchema{defs: make(map[string]KPIDefinition, len(defs))}
	for _, def := range defs {
		if def.ID == "" {
			return nil, fmt.Errorf("%w: KPI definition with empty id", ErrInvalidInput)
		}
		if _, exists := s.defs[def.ID]; exists {
			return nil, fmt.Errorf("%w: duplicate KPI id %q", ErrInvalidInput, def.ID)
		}
		s.defs[def.ID] = def
		s.order = append(s.order, def.ID)
	}
	return s, nil
}

// Get returns the definition for a KPI id.
func (s *KPISchema) Get(id string) (KPIDefinition, bool) {
	def, ok := s.defs[id]
	return def, ok
}

// IDs returns the KPI ids in load order.
func (s *KPISchema) IDs() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of KPI definitions.
func (s *KPISchema) Len() int {
	return len(s.defs)
}
