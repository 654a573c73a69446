package services

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/custodia-labs/curata-cli/internal/core/domain"
)

// Sampler draws synthetic negative samples: paragraphs guaranteed not to
// be positive evidence for the KPI they are contrasted against.
//
// Sampling is seeded and therefore reproducible: given the same documents
// in the same order and the same seed, two runs draw identical negatives.
type Sampler struct {
	ratio int
	rng   *rand.Rand
}

// NewSampler creates a sampler drawing ratio negatives per positive.
func NewSampler(ratio int, seed int64) *Sampler {
	if ratio < 1 {
		ratio = 1
	}
	return &Sampler{
		ratio: ratio,
		rng:   rand.New(rand.NewSource(seed)),
	}
}

// Sample draws negatives for one document given its deduplicated positives.
//
// For each KPI with positives, the eligible pool is every paragraph of the
// document that is not a positive for that KPI from any annotator; this
// avoids false negatives from under-annotation of the same true relevance.
// Draws are uniform without replacement. A pool smaller than the requested
// count is taken whole and reported as a degraded-pool diagnostic.
func (s *Sampler) Sample(doc *domain.ExtractedDocument, positives []domain.AlignedSample, diags *domain.DiagnosticsCollector) []domain.AlignedSample {
	// Group positives by KPI, keeping first-seen KPI order so the rng
	// consumption sequence is stable.
	var kpiOrder []string
	byKPI := make(map[string][]domain.AlignedSample)
	for _, pos := range positives {
		if _, seen := byKPI[pos.KPIID]; !seen {
			kpiOrder = append(kpiOrder, pos.KPIID)
		}
		byKPI[pos.KPIID] = append(byKPI[pos.KPIID], pos)
	}

	paragraphs := doc.Paragraphs()

	var negatives []domain.AlignedSample
	for _, kpiID := range kpiOrder {
		kpiPositives := byKPI[kpiID]

		positiveRefs := make(map[domain.ParagraphRef]bool, len(kpiPositives))
		for _, pos := range kpiPositives {
			positiveRefs[pos.Paragraph] = true
		}

		// Pool is in (page, index) order already; the draw indexes
		// into it deterministically.
		var pool []domain.Paragraph
		for _, para := range paragraphs {
			if !positiveRefs[para.Ref()] {
				pool = append(pool, para)
			}
		}

		want := s.ratio * len(kpiPositives)
		if len(pool) < want {
			diags.Add(domain.Diagnostic{
				Kind:       domain.DiagPoolExhausted,
				DocumentID: doc.ID,
				KPIID:      kpiID,
				Reason:     fmt.Sprintf("requested %d negatives, pool has %d", want, len(pool)),
			})
			want = len(pool)
		}
		if want == 0 {
			continue
		}

		perm := s.rng.Perm(len(pool))
		chosen := perm[:want]
		sort.Ints(chosen)

		// Negatives carry the company and year being contrasted, no
		// answer, and no annotator.
		carrier := kpiPositives[0]
		for _, i := range chosen {
			negatives = append(negatives, domain.AlignedSample{
				Paragraph: pool[i].Ref(),
				KPIID:     kpiID,
				Year:      carrier.Year,
				Label:     domain.LabelNegative,
				Match:     domain.MatchSynthetic,
				Company:   carrier.Company,
			})
		}
	}

	return negatives
}
