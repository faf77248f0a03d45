package selection

import (
	"fmt"
	"math"

	"github.com/banshee-data/miniaod/internal/physics/btag"
	"github.com/banshee-data/miniaod/internal/physics/calib"
	"github.com/banshee-data/miniaod/internal/physics/candidate"
)

// JetID enumerates the jet identification working points.
type JetID int

const (
	JetNone JetID = iota
	JetPU
	JetMinimal
	JetLooseAOD
	JetLoose
	JetTight
)

var jetIDNames = [...]string{"none", "jetPU", "jetMinimal", "jetLooseAOD", "jetLoose", "jetTight"}

func (id JetID) String() string {
	if id >= 0 && int(id) < len(jetIDNames) {
		return jetIDNames[id]
	}
	return fmt.Sprintf("JetID(%d)", int(id))
}

// jetRequiresLooseQuality maps each working point to whether it enforces the
// loose PF jet ID. Working points outside the table enforce nothing.
var jetRequiresLooseQuality = map[JetID]bool{
	JetNone:     false,
	JetPU:       true,
	JetMinimal:  true,
	JetLooseAOD: true,
	JetLoose:    true,
	JetTight:    true,
}

// Loose PF jet ID. Fractions are strict upper bounds; the charged cuts only
// apply inside the tracker acceptance.
const (
	LooseJetMaxNeutralHadronFraction = 0.99
	LooseJetMaxChargedEmFraction     = 0.99
	LooseJetMaxNeutralEmFraction     = 0.99
	LooseJetMinDaughters             = 2
	LooseJetTrackerAbsEta            = 2.4
)

// PassesLooseJetID applies the loose PF jet ID to jet.
func PassesLooseJetID(jet candidate.Jet) bool {
	loose := jet.NeutralHadronEnergyFraction < LooseJetMaxNeutralHadronFraction &&
		jet.ChargedEmEnergyFraction < LooseJetMaxChargedEmFraction &&
		jet.NeutralEmEnergyFraction < LooseJetMaxNeutralEmFraction &&
		jet.NumberOfDaughters >= LooseJetMinDaughters

	if math.Abs(jet.Eta()) < LooseJetTrackerAbsEta {
		loose = loose &&
			jet.ChargedHadronEnergyFraction > 0 &&
			jet.ChargedMultiplicity > 0
	}
	return loose
}

// IsGoodJet reports whether jet passes the kinematic window, the jet ID
// selected by id and the b-tag working point wp.
func (s *Selector) IsGoodJet(jet candidate.Jet, minPt, maxAbsEta float64, id JetID, wp btag.WorkingPoint) bool {
	if jet.Pt() < minPt {
		return false
	}
	if math.Abs(jet.Eta()) > maxAbsEta {
		return false
	}
	if jetRequiresLooseQuality[id] && !PassesLooseJetID(jet) {
		calib.Tracef("jet rejected by %s: pt=%.2f eta=%.3f", id, jet.Pt(), jet.Eta())
		return false
	}
	return s.gate.Passes(jet, wp)
}
