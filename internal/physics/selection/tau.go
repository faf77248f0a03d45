package selection

import (
	"fmt"
	"math"

	"github.com/banshee-data/miniaod/internal/physics/calib"
	"github.com/banshee-data/miniaod/internal/physics/candidate"
)

// TauID enumerates the tau working points.
type TauID int

const (
	TauNonIso TauID = iota
	TauLoose
	TauMedium
	TauTight
)

func (id TauID) String() string {
	switch id {
	case TauNonIso:
		return "nonIso"
	case TauLoose:
		return "loose"
	case TauMedium:
		return "medium"
	case TauTight:
		return "tight"
	default:
		return fmt.Sprintf("TauID(%d)", int(id))
	}
}

const (
	// TauMinPt is an absolute floor: tau systematics are only defined above it.
	TauMinPt     = 20.0
	TauMaxAbsEta = 2.1

	// TauDiscriminatorCut is the pass value for every boolean tau discriminator.
	TauDiscriminatorCut = 0.5

	TauDecayModeFinding = "decayModeFinding"
)

// TauCuts names the discriminators one tau working point requires. An
// empty Isolation means no isolation requirement.
type TauCuts struct {
	AntiMuon     string
	AntiElectron string
	Isolation    string
}

var tauCutTable = map[TauID]TauCuts{
	TauNonIso: {
		AntiMuon:     "againstMuonLoose3",
		AntiElectron: "againstElectronVLooseMVA5",
	},
	TauLoose: {
		AntiMuon:     "againstMuonLoose3",
		AntiElectron: "againstElectronVLooseMVA5",
		Isolation:    "byLooseCombinedIsolationDeltaBetaCorr3Hits",
	},
	TauMedium: {
		AntiMuon:     "againstMuonLoose3",
		AntiElectron: "againstElectronLooseMVA5",
		Isolation:    "byMediumCombinedIsolationDeltaBetaCorr3Hits",
	},
	TauTight: {
		AntiMuon:     "againstMuonTight3",
		AntiElectron: "againstElectronMediumMVA5",
		Isolation:    "byTightCombinedIsolationDeltaBetaCorr3Hits",
	},
}

// TauCutsFor returns the cut-table row for id.
func TauCutsFor(id TauID) (TauCuts, bool) {
	c, ok := tauCutTable[id]
	return c, ok
}

// passesTauDiscriminator reads a missing discriminator as zero.
func passesTauDiscriminator(tau candidate.Tau, name string) bool {
	v, _ := tau.TauID(name)
	return v >= TauDiscriminatorCut
}

// EvaluateTau returns the gate outcomes of tau for working point id.
func (s *Selector) EvaluateTau(tau candidate.Tau, minPt float64, id TauID) Decision {
	s.ctx.MustBeSetUp("IsGoodTau")
	d := Decision{
		Kinematics: tau.Pt() >= TauMinPt && math.Abs(tau.Eta()) <= TauMaxAbsEta && tau.Pt() >= minPt,
	}
	cuts, ok := TauCutsFor(id)
	if !ok {
		return Decision{Kinematics: d.Kinematics}
	}
	d.ID = passesTauDiscriminator(tau, TauDecayModeFinding) &&
		passesTauDiscriminator(tau, cuts.AntiMuon) &&
		passesTauDiscriminator(tau, cuts.AntiElectron)
	d.Isolation = cuts.Isolation == "" || passesTauDiscriminator(tau, cuts.Isolation)

	if !d.Pass() {
		calib.Tracef("tau rejected: pt=%.2f eta=%.3f id=%s %s", tau.Pt(), tau.Eta(), id, d)
	}
	return d
}

// IsGoodTau reports whether tau passes working point id above minPt.
func (s *Selector) IsGoodTau(tau candidate.Tau, minPt float64, id TauID) bool {
	return s.EvaluateTau(tau, minPt, id).Pass()
}
