package selection

import (
	"fmt"

	"github.com/banshee-data/miniaod/internal/physics/btag"
	"github.com/banshee-data/miniaod/internal/physics/calib"
	"github.com/banshee-data/miniaod/internal/physics/candidate"
	"github.com/banshee-data/miniaod/internal/physics/isolation"
)

// Select returns the candidates for which pred is true, in input order.
// The result is never nil.
func Select[T any](candidates []T, pred func(T) bool) []T {
	out := make([]T, 0, len(candidates))
	for _, c := range candidates {
		if pred(c) {
			out = append(out, c)
		}
	}
	return out
}

// Decision records the outcome of each gate of an identity predicate.
type Decision struct {
	Kinematics bool
	Isolation  bool
	ID         bool
}

// Pass reports whether every gate passed.
func (d Decision) Pass() bool {
	return d.Kinematics && d.Isolation && d.ID
}

func (d Decision) String() string {
	return fmt.Sprintf("kin=%t iso=%t id=%t", d.Kinematics, d.Isolation, d.ID)
}

// Selector applies identity predicates using one calibration context.
type Selector struct {
	ctx  *calib.Context
	iso  *isolation.Evaluator
	gate *btag.Gate
}

// NewSelector returns a Selector reading from ctx. The b-tag thresholds are
// taken from ctx's tables at this point.
func NewSelector(ctx *calib.Context) *Selector {
	return &Selector{
		ctx:  ctx,
		iso:  isolation.NewEvaluator(ctx),
		gate: btag.NewGate(ctx),
	}
}

// Isolation returns the isolation evaluator used by the muon and electron predicates.
func (s *Selector) Isolation() *isolation.Evaluator { return s.iso }

// SelectedMuons returns the muons passing id above minPt.
func (s *Selector) SelectedMuons(muons []candidate.Muon, minPt float64, id MuonID) []candidate.Muon {
	s.ctx.MustBeSetUp("GetSelectedMuons")
	return Select(muons, func(mu candidate.Muon) bool {
		return s.IsGoodMuon(mu, minPt, id)
	})
}

// SelectedElectrons returns the electrons passing id above minPt.
func (s *Selector) SelectedElectrons(electrons []candidate.Electron, minPt float64, id ElectronID) []candidate.Electron {
	s.ctx.MustBeSetUp("GetSelectedElectrons")
	return Select(electrons, func(el candidate.Electron) bool {
		return s.IsGoodElectron(el, minPt, id)
	})
}

// SelectedTaus returns the taus passing id above minPt.
func (s *Selector) SelectedTaus(taus []candidate.Tau, minPt float64, id TauID) []candidate.Tau {
	s.ctx.MustBeSetUp("GetSelectedTaus")
	return Select(taus, func(tau candidate.Tau) bool {
		return s.IsGoodTau(tau, minPt, id)
	})
}

// SelectedJets returns the jets passing the kinematic window, jet ID and
// b-tag working point.
func (s *Selector) SelectedJets(jets []candidate.Jet, minPt, maxAbsEta float64, id JetID, wp btag.WorkingPoint) []candidate.Jet {
	s.ctx.MustBeSetUp("GetSelectedJets")
	return Select(jets, func(jet candidate.Jet) bool {
		return s.IsGoodJet(jet, minPt, maxAbsEta, id, wp)
	})
}
