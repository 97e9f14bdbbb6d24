// File: internal/analysis/results.go

// Package analysis defines the read-only result surfaces of the external
// analysis engines: minimal cut sets, probability and importance figures,
// and Monte Carlo uncertainty samples. The engines themselves live outside
// this repository; faultline only consumes their output, typically decoded
// from a results file, and renders it into the report document.
package analysis

import (
	"sort"
	"strings"

	"github.com/xkilldash9x/faultline/internal/model"
)

// negationPrefix is the legacy textual marker for a negated cut-set member.
const negationPrefix = "not "

// Member is one entry of a minimal cut set. The negation flag is structured
// here; the legacy "not " string prefix exists only at the file boundary
// and in canonical set keys.
type Member struct {
	Name    string
	Negated bool
}

// ParseMember converts the legacy textual member form, where a leading
// "not " marks negation, into a structured Member. Identifiers that
// themselves start with "not " are only representable through the
// structured form.
func ParseMember(s string) Member {
	if rest, ok := strings.CutPrefix(s, negationPrefix); ok {
		return Member{Name: rest, Negated: true}
	}
	return Member{Name: s}
}

// String reconstructs the textual member form.
func (m Member) String() string {
	if m.Negated {
		return negationPrefix + m.Name
	}
	return m.Name
}

// CutSet is one minimal cut set: a set of members sufficient for the top
// event. Member order within the slice is the engine's order and is
// preserved in the report.
type CutSet []Member

// Order returns the number of members.
func (cs CutSet) Order() int { return len(cs) }

// Key returns the canonical identity of the set: the sorted textual member
// forms joined by newlines. Probability results key their per-set entries
// by it.
func (cs CutSet) Key() string {
	names := make([]string, len(cs))
	for i, m := range cs {
		names[i] = m.String()
	}
	sort.Strings(names)
	return strings.Join(names, "\n")
}

// FaultTreeResult is the output of a minimal-cut-set analysis for one tree.
type FaultTreeResult struct {
	TreeName       string
	NumBasicEvents int
	CutSets        []CutSet
	// BasicEvents resolves cut-set member names to the model's primary
	// events; report rendering uses it to detect common-cause composites.
	BasicEvents map[string]model.PrimaryEvent
	Warnings    string
	// Elapsed is the engine's wall-clock analysis time in seconds.
	Elapsed float64
}

// Importance is the fixed 5-tuple of importance measures per basic event.
type Importance struct {
	DIF float64
	MIF float64
	CIF float64
	RRW float64
	RAW float64
}

// ProbabilityResult is the output of a probability (and optionally
// importance) analysis for one tree.
type ProbabilityResult struct {
	PTotal float64
	// cutSetProb maps CutSet.Key() to the set's probability.
	cutSetProb  map[string]float64
	Importance  map[string]Importance
	BasicEvents map[string]model.PrimaryEvent
	Warnings    string
	Elapsed     float64
	// ImportanceElapsed is the separate importance-analysis time.
	ImportanceElapsed float64
}

// NewProbabilityResult creates a result with the given per-set probability
// table, keyed by CutSet.Key().
func NewProbabilityResult(pTotal float64, cutSetProb map[string]float64) *ProbabilityResult {
	return &ProbabilityResult{PTotal: pTotal, cutSetProb: cutSetProb}
}

// ProductProbability looks up the probability of one cut set. A missing
// entry is an upstream contract breach, reported as an InvariantError.
func (r *ProbabilityResult) ProductProbability(cs CutSet) (float64, error) {
	p, ok := r.cutSetProb[cs.Key()]
	if !ok {
		return 0, &model.InvariantError{Op: "look up product probability", ID: cs.Key()}
	}
	return p, nil
}

// ImportanceEvents returns the identifiers of the importance table in
// sorted order, for deterministic rendering.
func (r *ProbabilityResult) ImportanceEvents() []string {
	ids := make([]string, 0, len(r.Importance))
	for id := range r.Importance {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// DistributionPoint is one (boundary, value) pair of an uncertainty
// distribution sample.
type DistributionPoint struct {
	Boundary float64
	Value    float64
}

// UncertaintyResult is the output of a Monte Carlo uncertainty analysis
// for one tree.
type UncertaintyResult struct {
	Mean  float64
	Sigma float64
	// ConfidenceLower and ConfidenceUpper bound the 95% confidence
	// interval of the mean.
	ConfidenceLower float64
	ConfidenceUpper float64
	// Distribution is the ordered sample; N points yield N-1 quantile
	// bins in the report.
	Distribution []DistributionPoint
	Warnings     string
	Elapsed      float64
}
