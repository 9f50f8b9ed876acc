package bap_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/katalvlaran/colgen"
	"github.com/katalvlaran/colgen/bap"
	"github.com/katalvlaran/colgen/event"
)

// scripted describes the relaxation of one node, keyed by its label path.
type scripted struct {
	lp         float64
	integral   bool
	infeasible bool
	volatile   bool // an artificial column stays positive
	cancel     bool // the deadline passes during this master solve
}

// trail is the label path of the decisions currently executed.
type trail struct{ labels []string }

func (tr *trail) key() string { return strings.Join(tr.labels, "") }

// labelPP is a pricing problem whose restrictions are the forbidden payloads
// of the executed decisions.
type labelPP struct {
	tr      *trail
	forbids map[string]string // label -> forbidden payload
}

func (p *labelPP) Name() string { return "labels" }

func (p *labelPP) Admits(c *colgen.Column[string]) bool {
	for _, l := range p.tr.labels {
		if p.forbids[l] == c.Payload {
			return false
		}
	}
	return true
}

// labelDecision pushes its label on the trail.
type labelDecision struct {
	label  string
	tr     *trail
	forbid string
	// lies makes ColumnCompatible accept everything.
	lies bool
	// rejectCut is the key of the one inequality children must drop.
	rejectCut string
	// stuck makes Revert fail.
	stuck bool
}

func (d *labelDecision) Execute() error {
	d.tr.labels = append(d.tr.labels, d.label)
	return nil
}

func (d *labelDecision) Revert() error {
	if d.stuck {
		return errors.Errorf("%s cannot be reverted", d.label)
	}
	n := len(d.tr.labels)
	if n == 0 || d.tr.labels[n-1] != d.label {
		return errors.Errorf("revert %s out of order, trail %v", d.label, d.tr.labels)
	}
	d.tr.labels = d.tr.labels[:n-1]
	return nil
}

func (d *labelDecision) ColumnCompatible(c *colgen.Column[string]) bool {
	return d.lies || c.Payload != d.forbid
}

func (d *labelDecision) InequalityCompatible(i colgen.Inequality) bool {
	return i.Key() != d.rejectCut
}

func (d *labelDecision) String() string { return d.label }

// scriptMaster answers every solve from the script entry of the current trail.
type scriptMaster struct {
	sense  colgen.Sense
	tr     *trail
	pp     *labelPP
	script map[string]scripted
	cancel context.CancelFunc

	builds  []string
	columns map[string][]string // trail key -> columns present at solve
	cuts    map[string][]string // trail key -> inequalities present at solve
	cur     []*colgen.Column[string]
	curCuts []string
	obj     float64
}

func newScriptMaster(script map[string]scripted) *scriptMaster {
	tr := &trail{}
	return &scriptMaster{
		tr:      tr,
		pp:      &labelPP{tr: tr, forbids: map[string]string{}},
		script:  script,
		columns: map[string][]string{},
		cuts:    map[string][]string{},
	}
}

func (m *scriptMaster) Sense() colgen.Sense { return m.sense }

func (m *scriptMaster) Build(context.Context) error {
	m.builds = append(m.builds, m.tr.key())
	m.cur, m.curCuts = nil, nil
	return nil
}

func (m *scriptMaster) AddColumn(c *colgen.Column[string]) error {
	m.cur = append(m.cur, c)
	return nil
}

func (m *scriptMaster) AddInequality(i colgen.Inequality) error {
	m.curCuts = append(m.curCuts, i.Key())
	return nil
}

func (m *scriptMaster) Solve(context.Context) (colgen.Status, error) {
	k := m.tr.key()
	s, ok := m.script[k]
	if !ok {
		return colgen.Failed, errors.Errorf("no script for %q", k)
	}
	var present []string
	for _, c := range m.cur {
		if !c.IsVolatile() {
			present = append(present, c.Payload)
		}
	}
	m.columns[k] = present
	m.cuts[k] = append([]string(nil), m.curCuts...)
	switch {
	case s.cancel:
		m.cancel()
		return colgen.TimeLimit, nil
	case s.infeasible:
		return colgen.Infeasible, nil
	}
	m.obj = s.lp
	return colgen.Optimal, nil
}

func (m *scriptMaster) Objective() float64 { return m.obj }

func (m *scriptMaster) Duals(colgen.PricingProblem) (colgen.Duals, error) {
	return colgen.Duals{}, nil
}

// Solution reports one column at 1 for integral nodes and two at 0.5
// otherwise.
func (m *scriptMaster) Solution() []*colgen.Column[string] {
	k := m.tr.key()
	s := m.script[k]
	if s.volatile {
		for _, c := range m.cur {
			if c.IsVolatile() {
				c.Value = 1
				return []*colgen.Column[string]{c}
			}
		}
	}
	if s.integral {
		c := colgen.NewColumn[string](m.pp, "sol"+k, "script")
		c.Value = 1
		return []*colgen.Column[string]{c}
	}
	a := colgen.NewColumn[string](m.pp, "a"+k, "script")
	b := colgen.NewColumn[string](m.pp, "b"+k, "script")
	a.Value, b.Value = 0.5, 0.5
	return []*colgen.Column[string]{a, b}
}

// idlePricing never finds a column.
type idlePricing struct{ pp *labelPP }

func (s *idlePricing) Name() string                          { return "idle" }
func (s *idlePricing) PricingProblem() colgen.PricingProblem { return s.pp }
func (s *idlePricing) SetObjective(colgen.Duals)             {}
func (s *idlePricing) IsInfeasible() bool                    { return false }
func (s *idlePricing) Solve(context.Context) ([]*colgen.Column[string], error) {
	return nil, nil
}

// reportingPricing finds a new column in every round and reports a fixed
// best reduced cost, so the loop only stops through the cutoff.
type reportingPricing struct {
	pp    *labelPP
	rc    float64
	calls int
}

func (s *reportingPricing) Name() string                          { return "reporting" }
func (s *reportingPricing) PricingProblem() colgen.PricingProblem { return s.pp }
func (s *reportingPricing) SetObjective(colgen.Duals)             {}
func (s *reportingPricing) IsInfeasible() bool                    { return false }
func (s *reportingPricing) BestReducedCost() (float64, bool)      { return s.rc, true }
func (s *reportingPricing) Solve(context.Context) ([]*colgen.Column[string], error) {
	s.calls++
	return []*colgen.Column[string]{colgen.NewColumn[string](s.pp, fmt.Sprintf("g%d", s.calls), "reporting")}, nil
}

// labelCut is an inequality known only by its key.
type labelCut string

func (c labelCut) Key() string       { return string(c) }
func (c labelCut) Separator() string { return "labels" }

// cutSeparator returns the scripted cuts once per trail key.
type cutSeparator struct {
	tr   *trail
	cuts map[string][]string
	done map[string]bool
}

func (s *cutSeparator) Name() string { return "labels" }

func (s *cutSeparator) Separate(context.Context, []*colgen.Column[string]) ([]colgen.Inequality, error) {
	k := s.tr.key()
	if s.done[k] {
		return nil, nil
	}
	s.done[k] = true
	var out []colgen.Inequality
	for _, c := range s.cuts[k] {
		out = append(out, labelCut(c))
	}
	return out, nil
}

// labelBrancher creates an L and an R child, in that order.
type labelBrancher struct {
	tr      *trail
	never   bool
	forbidL string
	forbidR string
	lies    bool
	// rejectL is the cut key the L decision refuses.
	rejectL string
	stuck   bool

	children []*bap.Node[string]
}

func (b *labelBrancher) Name() string { return "labels" }

func (b *labelBrancher) CanBranch([]*colgen.Column[string]) bool { return !b.never }

func (b *labelBrancher) CreateChildren(_ *bap.Node[string], spawn bap.ChildFunc[string]) ([]*bap.Node[string], error) {
	l := spawn(&labelDecision{label: "L", tr: b.tr, forbid: b.forbidL, lies: b.lies, rejectCut: b.rejectL, stuck: b.stuck})
	r := spawn(&labelDecision{label: "R", tr: b.tr, forbid: b.forbidR, lies: b.lies, stuck: b.stuck})
	b.children = append(b.children, l, r)
	return []*bap.Node[string]{l, r}, nil
}

// tree is the scripted minimisation tree used by most engine tests.
//
//	""   10   fractional
//	L    12   integral
//	R    11   fractional
//	RL   10.9 fractional, clamped to 11
//	RR   11.5 integral
//	RLL  13   fractional
//	RLR  13.5 integral
func tree() map[string]scripted {
	return map[string]scripted{
		"":    {lp: 10},
		"L":   {lp: 12, integral: true},
		"R":   {lp: 11},
		"RL":  {lp: 10.9},
		"RR":  {lp: 11.5, integral: true},
		"RLL": {lp: 13},
		"RLR": {lp: 13.5, integral: true},
		// Deeper nodes are only reached if pruning is broken.
		"LL": {lp: 20}, "LR": {lp: 20},
		"RRL": {lp: 20}, "RRR": {lp: 20},
		"RLLL": {lp: 20}, "RLLR": {lp: 20},
		"RLRL": {lp: 20}, "RLRR": {lp: 20},
	}
}

// fixture wires a script master into an engine.
type fixture struct {
	master   *scriptMaster
	brancher *labelBrancher
	events   []event.Event
}

func newFixture(script map[string]scripted) *fixture {
	m := newScriptMaster(script)
	return &fixture{master: m, brancher: &labelBrancher{tr: m.tr}}
}

func (f *fixture) engine(opts ...bap.Option[string]) (*bap.Engine[string], error) {
	return f.engineWith(&idlePricing{pp: f.master.pp}, opts...)
}

func (f *fixture) engineWith(pricing colgen.PricingSolver[string], opts ...bap.Option[string]) (*bap.Engine[string], error) {
	base := []bap.Option[string]{
		bap.WithBranchCreators[string](f.brancher),
		bap.WithIntegrality(bap.OneColumnPerPricing[string](1)),
		bap.WithListeners[string](recorder(&f.events)),
	}
	return bap.New[string](f.master, []colgen.PricingSolver[string]{pricing}, append(base, opts...)...)
}
