// File: internal/analysis/loader.go
package analysis

import (
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"

	"github.com/xkilldash9x/faultline/internal/model"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// TreeResults bundles every analysis performed on one fault tree, in the
// order the report consumes them. Probability and Uncertainty are nil when
// the corresponding analysis was not run.
type TreeResults struct {
	Name        string
	FaultTree   *FaultTreeResult
	Probability *ProbabilityResult
	Uncertainty *UncertaintyResult
}

// ResultSet is the decoded content of one results file, preserving file
// order so report sections land in analysis order.
type ResultSet struct {
	Entries []TreeResults
}

type rawResultSet struct {
	Results []rawTreeResults `json:"results"`
}

type rawTreeResults struct {
	Name        string          `json:"name"`
	BasicEvents int             `json:"basic-events"`
	Warnings    string          `json:"warnings"`
	Time        float64         `json:"time"`
	Products    []rawProduct    `json:"products"`
	Probability *rawProbability `json:"probability"`
	Uncertainty *rawUncertainty `json:"uncertainty"`
}

type rawProduct struct {
	// Members use the legacy textual form: a leading "not " negates.
	Members     []string `json:"members"`
	Probability *float64 `json:"probability"`
}

type rawProbability struct {
	Total          float64               `json:"total"`
	Time           float64               `json:"time"`
	Warnings       string                `json:"warnings"`
	Importance     map[string][5]float64 `json:"importance"`
	ImportanceTime float64               `json:"importance-time"`
}

type rawUncertainty struct {
	Mean         float64      `json:"mean"`
	Sigma        float64      `json:"sigma"`
	Confidence   [2]float64   `json:"confidence"`
	Distribution [][2]float64 `json:"distribution"`
	Time         float64      `json:"time"`
	Warnings     string       `json:"warnings"`
}

// LoadFile reads a JSON results file from disk. See Load.
func LoadFile(path string, m *model.Model) (*ResultSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open results file: %w", err)
	}
	defer f.Close()
	rs, err := Load(f, m)
	if err != nil {
		return nil, fmt.Errorf("results file %s: %w", path, err)
	}
	return rs, nil
}

// Load decodes analysis results and resolves every referenced basic event
// against the finalized model. A result naming an unknown tree or an
// unresolvable event is a contract breach of the upstream engine.
func Load(r io.Reader, m *model.Model) (*ResultSet, error) {
	var raw rawResultSet
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode results: %w", err)
	}

	rs := &ResultSet{}
	for _, rt := range raw.Results {
		tree := m.Tree(rt.Name)
		if tree == nil {
			return nil, &model.InvariantError{Op: "match results to fault tree", ID: rt.Name}
		}
		entry, err := buildTreeResults(rt, tree)
		if err != nil {
			return nil, err
		}
		rs.Entries = append(rs.Entries, entry)
	}
	return rs, nil
}

func buildTreeResults(rt rawTreeResults, tree *model.FaultTree) (TreeResults, error) {
	ftr := &FaultTreeResult{
		TreeName:       rt.Name,
		NumBasicEvents: rt.BasicEvents,
		BasicEvents:    make(map[string]model.PrimaryEvent),
		Warnings:       rt.Warnings,
		Elapsed:        rt.Time,
	}

	cutSetProb := make(map[string]float64)
	for _, rp := range rt.Products {
		cs := make(CutSet, len(rp.Members))
		for i, name := range rp.Members {
			member := ParseMember(name)
			ev := tree.PrimaryEvent(member.Name)
			if ev == nil {
				return TreeResults{}, &model.InvariantError{Op: "resolve cut-set member", ID: member.Name}
			}
			ftr.BasicEvents[member.Name] = ev
			cs[i] = member
		}
		ftr.CutSets = append(ftr.CutSets, cs)
		if rp.Probability != nil {
			cutSetProb[cs.Key()] = *rp.Probability
		}
	}

	entry := TreeResults{Name: rt.Name, FaultTree: ftr}

	if rt.Probability != nil {
		prob := NewProbabilityResult(rt.Probability.Total, cutSetProb)
		prob.Warnings = rt.Probability.Warnings
		prob.Elapsed = rt.Probability.Time
		prob.ImportanceElapsed = rt.Probability.ImportanceTime
		prob.BasicEvents = make(map[string]model.PrimaryEvent)
		prob.Importance = make(map[string]Importance, len(rt.Probability.Importance))
		for id, v := range rt.Probability.Importance {
			ev := tree.PrimaryEvent(id)
			if ev == nil {
				return TreeResults{}, &model.InvariantError{Op: "resolve importance event", ID: id}
			}
			prob.BasicEvents[id] = ev
			prob.Importance[id] = Importance{DIF: v[0], MIF: v[1], CIF: v[2], RRW: v[3], RAW: v[4]}
		}
		entry.Probability = prob
	}

	if rt.Uncertainty != nil {
		u := &UncertaintyResult{
			Mean:            rt.Uncertainty.Mean,
			Sigma:           rt.Uncertainty.Sigma,
			ConfidenceLower: rt.Uncertainty.Confidence[0],
			ConfidenceUpper: rt.Uncertainty.Confidence[1],
			Warnings:        rt.Uncertainty.Warnings,
			Elapsed:         rt.Uncertainty.Time,
		}
		for _, p := range rt.Uncertainty.Distribution {
			u.Distribution = append(u.Distribution, DistributionPoint{Boundary: p[0], Value: p[1]})
		}
		entry.Uncertainty = u
	}

	return entry, nil
}
