// File: internal/report/reporter.go

// Package report assembles the canonical XML report document from a risk
// model summary and the analysis results performed on it. The document has
// a fixed schema: report/information (software identity, time, performance
// log, calculated-quantity and calculation-method declarations, model
// features) and report/results (one section per fault tree per analysis).
// Sections are appended in analysis order and never removed or reordered;
// later writers may only attach to sections that already exist.
package report

import (
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"

	"github.com/xkilldash9x/faultline/internal/analysis"
	"github.com/xkilldash9x/faultline/internal/config"
	"github.com/xkilldash9x/faultline/internal/model"
)

const (
	defaultSoftware = "faultline"
	timeLayout      = "2006-01-02 15:04:05"
)

// Reporter writes report sections into one etree document. The zero value
// is usable; Software and Version override the identity recorded in the
// information section. Callers serialize all writes to a given document.
type Reporter struct {
	Software string
	Version  string
	// Now supplies the report timestamp; nil means time.Now. Tests pin it.
	Now func() time.Time
}

func (r Reporter) software() string {
	if r.Software == "" {
		return defaultSoftware
	}
	return r.Software
}

func (r Reporter) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

// fmtFloat renders a float the way every numeric attribute of the document
// is rendered: shortest decimal text that round-trips.
func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// SetupReport writes the information skeleton and the empty results section
// into an empty document. It fails with a StructuralError when the document
// already has a root. The minimal-cut-set quantity block is always present;
// one extra quantity/method block appears per enabled analysis flag.
func (r Reporter) SetupReport(summary model.Summary, cfg config.AnalysisConfig, doc *etree.Document) error {
	if doc.Root() != nil {
		return &model.StructuralError{Op: "set up report", Reason: "the document is not empty"}
	}
	root := doc.CreateElement("report")
	info := root.CreateElement("information")

	software := info.CreateElement("software")
	software.CreateAttr("name", r.software())
	software.CreateAttr("version", r.Version)
	info.CreateElement("time").SetText(r.now().Format(timeLayout))

	// Performance log placeholder; fault-tree writers append named
	// calculation-time entries to it.
	info.CreateElement("performance")

	quant := info.CreateElement("calculated-quantity")
	quant.CreateAttr("name", "Minimal Cut Set Analysis")
	quant.CreateAttr("definition", "Groups of events sufficient for a top event failure")

	methods := info.CreateElement("calculation-method")
	methods.CreateAttr("name", "MOCUS")
	methods.CreateElement("limits").CreateElement("number-of-basic-events").
		SetText(strconv.Itoa(cfg.LimitOrder))

	if cfg.CCFAnalysis {
		ccf := info.CreateElement("calculated-quantity")
		ccf.CreateAttr("name", "CCF Analysis")
		ccf.CreateAttr("definition", "Failure of multiple elements due to a common cause")
	}

	if cfg.ProbabilityAnalysis {
		quant = info.CreateElement("calculated-quantity")
		quant.CreateAttr("name", "Probability Analysis")
		quant.CreateAttr("definition", "Quantitative analysis of failure probability")
		quant.CreateAttr("approximation", cfg.Approximation)

		methods = info.CreateElement("calculation-method")
		methods.CreateAttr("name", "Numerical Probability")
		limits := methods.CreateElement("limits")
		limits.CreateElement("cut-off").SetText(fmtFloat(cfg.CutOff))
		limits.CreateElement("number-of-sums").SetText(strconv.Itoa(cfg.NumSums))
	}

	if cfg.ImportanceAnalysis {
		quant = info.CreateElement("calculated-quantity")
		quant.CreateAttr("name", "Importance Analysis")
		quant.CreateAttr("definition", "Quantitative analysis of contributions and importance of events")
	}

	if cfg.UncertaintyAnalysis {
		quant = info.CreateElement("calculated-quantity")
		quant.CreateAttr("name", "Uncertainty Analysis")
		quant.CreateAttr("definition", "Calculation of uncertainties with the Monte Carlo method")

		methods = info.CreateElement("calculation-method")
		methods.CreateAttr("name", "Monte Carlo")
		methods.CreateElement("limits").CreateElement("number-of-trials").
			SetText(strconv.Itoa(cfg.NumTrials))
	}

	features := info.CreateElement("model-features")
	features.CreateElement("gates").SetText(strconv.Itoa(summary.Gates))
	features.CreateElement("basic-events").SetText(strconv.Itoa(summary.BasicEvents))
	features.CreateElement("house-events").SetText(strconv.Itoa(summary.PrimaryEvents - summary.BasicEvents))
	features.CreateElement("ccf-groups").SetText(strconv.Itoa(summary.CCFGroups))
	features.CreateElement("fault-trees").SetText(strconv.Itoa(summary.FaultTrees))

	root.CreateElement("results")
	return nil
}

// ReportOrphans attaches a warning listing primary events the model
// declares but no gate references. Calling it with an empty set is a
// caller bug, not a no-op.
func (r Reporter) ReportOrphans(orphans []model.PrimaryEvent, doc *etree.Document) error {
	if len(orphans) == 0 {
		return &model.PreconditionError{Op: "report orphans", Reason: "the orphan set is empty"}
	}
	info := doc.FindElement("./report/information")
	if info == nil {
		return &model.PreconditionError{Op: "report orphans", Reason: "the report is not set up"}
	}
	var sb strings.Builder
	sb.WriteString("WARNING! Found unused primary events: ")
	for _, e := range orphans {
		sb.WriteString(e.OrigID())
		sb.WriteString(" ")
	}
	info.CreateElement("warning").SetText(sb.String())
	return nil
}

// ReportFaultTree writes the sum-of-products section for one tree and its
// named calculation-time entry in the performance log. prob may be nil when
// no probability analysis ran; probabilities and the probability time entry
// are then omitted. Importance and uncertainty writers rely on the
// calculation-time entry written here, so this must run first per tree.
func (r Reporter) ReportFaultTree(name string, ftr *analysis.FaultTreeResult, prob *analysis.ProbabilityResult, doc *etree.Document) error {
	results := doc.FindElement("./report/results")
	if results == nil {
		return &model.PreconditionError{Op: "report fault tree analysis", Reason: "the report is not set up"}
	}

	sop := results.CreateElement("sum-of-products")
	sop.CreateAttr("name", name)
	sop.CreateAttr("basic-events", strconv.Itoa(ftr.NumBasicEvents))
	sop.CreateAttr("products", strconv.Itoa(len(ftr.CutSets)))
	if prob != nil {
		sop.CreateAttr("probability", fmtFloat(prob.PTotal))
	}

	warning := ftr.Warnings
	if prob != nil {
		warning += prob.Warnings
	}
	if warning != "" {
		sop.CreateElement("warning").SetText(warning)
	}

	for _, cs := range ftr.CutSets {
		product := sop.CreateElement("product")
		product.CreateAttr("order", strconv.Itoa(cs.Order()))
		if prob != nil {
			p, err := prob.ProductProbability(cs)
			if err != nil {
				return err
			}
			product.CreateAttr("probability", fmtFloat(p))
		}
		for _, m := range cs {
			if err := writeMember(product, m, ftr.BasicEvents); err != nil {
				return err
			}
		}
	}

	perf := doc.FindElement("./report/information/performance")
	if perf == nil {
		return &model.PreconditionError{Op: "report fault tree analysis", Reason: "the performance log is missing"}
	}
	calcTime := perf.CreateElement("calculation-time")
	calcTime.CreateAttr("name", name)
	calcTime.CreateElement("minimal-cut-set").SetText(fmtFloat(ftr.Elapsed))
	if prob != nil {
		calcTime.CreateElement("probability").SetText(fmtFloat(prob.Elapsed))
	}
	return nil
}

// writeMember renders one cut-set member under the product element. Negated
// members get a wrapping "not" node. Common-cause composites expand into a
// ccf-event carrying the group metadata and one basic-event child per
// represented member; everything else is a plain basic-event reference.
func writeMember(product *etree.Element, m analysis.Member, events map[string]model.PrimaryEvent) error {
	ev, ok := events[m.Name]
	if !ok {
		return &model.InvariantError{Op: "resolve cut-set member", ID: m.Name}
	}
	parent := product
	if m.Negated {
		parent = product.CreateElement("not")
	}
	switch e := ev.(type) {
	case *model.CCFEvent:
		ccf := parent.CreateElement("ccf-event")
		ccf.CreateAttr("ccf-group", e.GroupName())
		ccf.CreateAttr("order", strconv.Itoa(len(e.Members())))
		ccf.CreateAttr("group-size", strconv.Itoa(e.GroupSize()))
		for _, member := range e.Members() {
			ccf.CreateElement("basic-event").CreateAttr("name", member)
		}
	default:
		parent.CreateElement("basic-event").CreateAttr("name", ev.OrigID())
	}
	return nil
}

// ReportImportance writes the importance section for one tree and appends
// the importance time to the most recently added calculation-time entry.
// A fault-tree section for this or an earlier tree must have been written
// already; the entry lookup is last-match, not by name.
func (r Reporter) ReportImportance(name string, prob *analysis.ProbabilityResult, doc *etree.Document) error {
	results := doc.FindElement("./report/results")
	if results == nil {
		return &model.PreconditionError{Op: "report importance", Reason: "the report is not set up"}
	}

	importance := results.CreateElement("importance")
	importance.CreateAttr("name", name)
	importance.CreateAttr("basic-events", strconv.Itoa(len(prob.Importance)))

	if prob.Warnings != "" {
		importance.CreateElement("warning").SetText(prob.Warnings)
	}

	for _, id := range prob.ImportanceEvents() {
		ev, ok := prob.BasicEvents[id]
		if !ok {
			return &model.InvariantError{Op: "resolve importance event", ID: id}
		}
		imp := prob.Importance[id]
		be := importance.CreateElement("basic-event")
		be.CreateAttr("name", ev.OrigID())
		be.CreateAttr("DIF", fmtFloat(imp.DIF))
		be.CreateAttr("MIF", fmtFloat(imp.MIF))
		be.CreateAttr("CIF", fmtFloat(imp.CIF))
		be.CreateAttr("RRW", fmtFloat(imp.RRW))
		be.CreateAttr("RAW", fmtFloat(imp.RAW))
	}

	calcTime, err := lastCalculationTime(doc, "report importance")
	if err != nil {
		return err
	}
	calcTime.CreateElement("importance").SetText(fmtFloat(prob.ImportanceElapsed))
	return nil
}

// ReportUncertainty writes the measure section for one tree and appends the
// uncertainty time to the most recently added calculation-time entry. A
// distribution sample of N points yields N-1 quantile bins numbered from 1;
// bin i spans sample[i-1].Boundary to sample[i].Boundary with value
// sample[i].Value.
func (r Reporter) ReportUncertainty(name string, u *analysis.UncertaintyResult, doc *etree.Document) error {
	results := doc.FindElement("./report/results")
	if results == nil {
		return &model.PreconditionError{Op: "report uncertainty", Reason: "the report is not set up"}
	}

	measure := results.CreateElement("measure")
	measure.CreateAttr("name", name)

	if u.Warnings != "" {
		measure.CreateElement("warning").SetText(u.Warnings)
	}

	measure.CreateElement("mean").CreateAttr("value", fmtFloat(u.Mean))
	measure.CreateElement("standard-deviation").CreateAttr("value", fmtFloat(u.Sigma))

	confidence := measure.CreateElement("confidence-range")
	confidence.CreateAttr("percentage", "95")
	confidence.CreateAttr("lower-bound", fmtFloat(u.ConfidenceLower))
	confidence.CreateAttr("upper-bound", fmtFloat(u.ConfidenceUpper))

	quantiles := measure.CreateElement("quantiles")
	numBins := len(u.Distribution) - 1
	if numBins < 0 {
		numBins = 0
	}
	quantiles.CreateAttr("number", strconv.Itoa(numBins))
	for i := 0; i < numBins; i++ {
		quant := quantiles.CreateElement("quantile")
		quant.CreateAttr("number", strconv.Itoa(i+1))
		quant.CreateAttr("mean", fmtFloat(u.Distribution[i+1].Value))
		quant.CreateAttr("lower-bound", fmtFloat(u.Distribution[i].Boundary))
		quant.CreateAttr("upper-bound", fmtFloat(u.Distribution[i+1].Boundary))
	}

	calcTime, err := lastCalculationTime(doc, "report uncertainty")
	if err != nil {
		return err
	}
	calcTime.CreateElement("uncertainty").SetText(fmtFloat(u.Elapsed))
	return nil
}

// lastCalculationTime returns the most recently added calculation-time
// entry of the performance log. The lookup is re-derived from the document
// rather than cached so separate Reporter values over one document agree.
func lastCalculationTime(doc *etree.Document, op string) (*etree.Element, error) {
	entries := doc.FindElements("./report/information/performance/calculation-time")
	if len(entries) == 0 {
		return nil, &model.PreconditionError{Op: op, Reason: "no calculation-time entry exists yet"}
	}
	return entries[len(entries)-1], nil
}
