// Package harmonic fuses the archetype mappings of every active cosmic
// system into a single resonance score, an elemental balance and a short
// piece of guidance.
package harmonic

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"cosmic/internal/logging"
	"cosmic/internal/types"
)

const (
	neutralResonance      = 0.5
	fullCoverage          = 6
	coverageWeight        = 0.7
	consistencyWeight     = 0.3
	singlePairConsistency = 0.7
	maxArchetypes         = 5
	maxSingleDominant     = 3
)

// PairResonance scores one pair of systems.
type PairResonance struct {
	A      string          `json:"a"`
	B      string          `json:"b"`
	Score  float64         `json:"score"`
	Band   types.Band      `json:"band"`
	Shared []types.Element `json:"shared,omitempty"`
}

// Synthesis is the fused view across all active systems.
type Synthesis struct {
	OverallResonance float64                   `json:"overall_resonance"`
	Band             types.Band                `json:"band"`
	Pairs            []PairResonance           `json:"pairs"`
	DominantElements []types.Element           `json:"dominant_elements"`
	ElementalBalance map[types.Element]float64 `json:"elemental_balance"`
	Guidance         string                    `json:"guidance"`
	Confidence       float64                   `json:"confidence"`
	ActiveSystems    []string                  `json:"active_systems"`
}

// Synthesize fuses archetype mappings. It never fails: no mappings yields
// a neutral empty synthesis and a single mapping yields a neutral one
// carrying that system's elements.
func Synthesize(mappings []types.ArchetypeMapping) *Synthesis {
	ms := append([]types.ArchetypeMapping(nil), mappings...)
	sort.SliceStable(ms, func(i, j int) bool { return ms[i].System < ms[j].System })

	s := &Synthesis{
		Pairs:            []PairResonance{},
		ElementalBalance: balance(ms),
		ActiveSystems:    make([]string, 0, len(ms)),
	}
	for _, m := range ms {
		s.ActiveSystems = append(s.ActiveSystems, m.System)
	}

	switch len(ms) {
	case 0:
		s.OverallResonance = neutralResonance
		s.Band = types.BandNeutral
		s.DominantElements = []types.Element{}
		s.Guidance = "No cosmic systems are reporting yet, so there is nothing to harmonize."
		return s
	case 1:
		els := types.UniqueElements(ms[0].Elements...)
		if len(els) > maxSingleDominant {
			els = els[:maxSingleDominant]
		}
		s.OverallResonance = neutralResonance
		s.Band = types.BandNeutral
		s.DominantElements = els
		s.Confidence = 1.0 / fullCoverage
		s.Guidance = guidance(s, ms, fmt.Sprintf("Only %s is reporting, so no cross-system resonance can be measured.", ms[0].System))
		return s
	}

	scores := make([]float64, 0, len(ms)*(len(ms)-1)/2)
	for i := 0; i < len(ms); i++ {
		for j := i + 1; j < len(ms); j++ {
			p := pairResonance(ms[i], ms[j])
			s.Pairs = append(s.Pairs, p)
			scores = append(scores, p.Score)
		}
	}

	s.OverallResonance = types.Clamp01(mean(scores))
	s.Band = types.BandFor(s.OverallResonance)
	s.DominantElements = dominant(s.ElementalBalance)

	coverage := math.Min(1, float64(len(ms))/fullCoverage)
	consistency := singlePairConsistency
	if len(scores) > 1 {
		consistency = math.Max(0, 1-4*variance(scores))
	}
	s.Confidence = types.Clamp01(coverageWeight*coverage + consistencyWeight*consistency)
	s.Guidance = guidance(s, ms, bandSentences[s.Band])

	logging.SynthesisDebug("synthesis: %d systems, resonance=%.3f band=%s confidence=%.3f",
		len(ms), s.OverallResonance, s.Band, s.Confidence)
	return s
}

func pairResonance(a, b types.ArchetypeMapping) PairResonance {
	p := PairResonance{A: a.System, B: b.System, Score: neutralResonance}
	ea, eb := types.UniqueElements(a.Elements...), types.UniqueElements(b.Elements...)
	if len(ea) > 0 && len(eb) > 0 {
		var sum float64
		for _, x := range ea {
			for _, y := range eb {
				sum += Compatibility(x, y)
			}
		}
		p.Score = types.Clamp01(sum / float64(len(ea)*len(eb)))
	}
	p.Band = types.BandFor(p.Score)

	inB := make(map[types.Element]bool, len(eb))
	for _, e := range eb {
		inB[e] = true
	}
	for _, e := range types.Elements {
		if inB[e] && contains(ea, e) {
			p.Shared = append(p.Shared, e)
		}
	}
	return p
}

// balance counts each element once per system and normalizes by the
// total. All five keys are always present.
func balance(ms []types.ArchetypeMapping) map[types.Element]float64 {
	counts := make(map[types.Element]float64, len(types.Elements))
	for _, e := range types.Elements {
		counts[e] = 0
	}
	var total float64
	for _, m := range ms {
		for _, e := range types.UniqueElements(m.Elements...) {
			counts[e]++
			total++
		}
	}
	if total == 0 {
		return counts
	}
	for e := range counts {
		counts[e] /= total
	}
	return counts
}

// dominant returns elements whose share exceeds the mean share, highest first.
func dominant(bal map[types.Element]float64) []types.Element {
	var sum float64
	for _, e := range types.Elements {
		sum += bal[e]
	}
	avg := sum / float64(len(types.Elements))

	out := []types.Element{}
	for _, e := range types.Elements {
		if bal[e] > avg {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return bal[out[i]] > bal[out[j]] })
	return out
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func variance(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := mean(xs)
	var sum float64
	for _, x := range xs {
		sum += (x - m) * (x - m)
	}
	return sum / float64(len(xs))
}

func contains(els []types.Element, e types.Element) bool {
	for _, x := range els {
		if x == e {
			return true
		}
	}
	return false
}

// =============================================================================
// GUIDANCE
// =============================================================================

var bandSentences = map[types.Band]string{
	types.BandHarmonic:    "The systems are moving in concert; act on what already feels aligned.",
	types.BandSupportive:  "Most currents point the same way, so steady effort will be carried.",
	types.BandNeutral:     "The signals are mixed; observe before committing.",
	types.BandChallenging: "The systems pull against each other; slow down and choose deliberately.",
	types.BandDissonant:   "Friction runs high across the systems; rest and wait for a clearer window.",
}

var elementSentences = map[types.Element]string{
	types.Fire:  "FIRE favours initiative",
	types.Water: "WATER favours feeling and receptivity",
	types.Air:   "AIR favours conversation and ideas",
	types.Earth: "EARTH favours practical, grounded work",
	types.Ether: "ETHER favours connection and reflection",
}

func guidance(s *Synthesis, ms []types.ArchetypeMapping, opening string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Resonance is %s (%.2f). %s", s.Band, s.OverallResonance, opening)

	if len(s.DominantElements) > 0 {
		parts := make([]string, 0, len(s.DominantElements))
		for _, e := range s.DominantElements {
			parts = append(parts, elementSentences[e])
		}
		fmt.Fprintf(&b, " Dominant: %s.", strings.Join(parts, "; "))
	}

	if labels := archetypeLabels(ms); len(labels) > 0 {
		fmt.Fprintf(&b, " Archetypes in play: %s.", strings.Join(labels, ", "))
	}
	return b.String()
}

func archetypeLabels(ms []types.ArchetypeMapping) []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range ms {
		for _, a := range m.Archetypes {
			if a == "" || seen[a] {
				continue
			}
			seen[a] = true
			out = append(out, a)
			if len(out) == maxArchetypes {
				return out
			}
		}
	}
	return out
}
