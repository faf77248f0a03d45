package selection

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/miniaod/internal/physics/calib"
	"github.com/banshee-data/miniaod/internal/physics/candidate"
)

// ElectronID enumerates the electron working points.
type ElectronID int

const (
	ElectronPreselection ElectronID = iota
	ElectronSide
	ElectronSideLooseMVA
	ElectronSideTightMVA
	ElectronLooseMinusTrigPresel
	ElectronRaw
	ElectronLooseCutBased
	ElectronTightCutBased
	ElectronCutBased
	ElectronLoose
	ElectronTightMinusTrigPresel
	ElectronTight
	ElectronPhys14Loose
	ElectronPhys14Medium
	ElectronPhys14Tight
)

var electronIDNames = [...]string{
	"electronPreselection", "electronSide", "electronSideLooseMVA", "electronSideTightMVA",
	"electronLooseMinusTrigPresel", "electronRaw", "electronLooseCutBased",
	"electronTightCutBased", "electronCutBased", "electronLoose",
	"electronTightMinusTrigPresel", "electronTight",
	"electronPhys14L", "electronPhys14M", "electronPhys14T",
}

func (id ElectronID) String() string {
	if id >= 0 && int(id) < len(electronIDNames) {
		return electronIDNames[id]
	}
	return fmt.Sprintf("ElectronID(%d)", int(id))
}

// Barrel-endcap transition region vetoed on supercluster |eta| (exclusive bounds).
const (
	CrackLowAbsEta  = 1.4442
	CrackHighAbsEta = 1.5660
)

// triggerPreselection is the outcome of the trigger-emulating preselection.
// No such cuts are defined for the supported eras, so it always passes.
const triggerPreselection = true

// ElectronCuts is one row of the electron working-point table. Rows with
// Phys14 set ignore MaxRelIso, MaxDxy and MaxDz and use the Phys14 table
// of the calibration context at Phys14Level instead.
type ElectronCuts struct {
	MaxAbsEta float64
	MaxRelIso float64 // strict
	MaxDxy    float64 // GSF track, cm, strict
	MaxDz     float64 // GSF track, cm, strict

	Phys14      bool
	Phys14Level calib.Level
}

var (
	looseElectronCuts = ElectronCuts{MaxAbsEta: 2.5, MaxRelIso: 0.200, MaxDxy: 0.04, MaxDz: math.Inf(1)}
	tightElectronCuts = ElectronCuts{MaxAbsEta: 2.5, MaxRelIso: 0.100, MaxDxy: 0.02, MaxDz: 1.0}
)

var electronCutTable = map[ElectronID]ElectronCuts{
	ElectronPreselection:         looseElectronCuts,
	ElectronSide:                 looseElectronCuts,
	ElectronSideLooseMVA:         looseElectronCuts,
	ElectronSideTightMVA:         looseElectronCuts,
	ElectronLooseMinusTrigPresel: looseElectronCuts,
	ElectronRaw:                  looseElectronCuts,
	ElectronLooseCutBased:        looseElectronCuts,
	ElectronTightCutBased:        looseElectronCuts,
	ElectronCutBased:             looseElectronCuts,
	ElectronLoose:                looseElectronCuts,
	ElectronTightMinusTrigPresel: tightElectronCuts,
	ElectronTight:                tightElectronCuts,
	ElectronPhys14Loose:          {MaxAbsEta: 2.5, Phys14: true, Phys14Level: calib.LevelLoose},
	ElectronPhys14Medium:         {MaxAbsEta: 2.5, Phys14: true, Phys14Level: calib.LevelMedium},
	ElectronPhys14Tight:          {MaxAbsEta: 2.5, Phys14: true, Phys14Level: calib.LevelTight},
}

// ElectronCutsFor returns the cut-table row for id.
func ElectronCutsFor(id ElectronID) (ElectronCuts, bool) {
	c, ok := electronCutTable[id]
	return c, ok
}

// InCrack reports whether the electron's supercluster lies in the
// barrel-endcap transition. Electrons without a supercluster are not vetoed.
func InCrack(el candidate.Electron) bool {
	if el.SuperCluster == nil {
		return false
	}
	a := math.Abs(el.SuperCluster.Eta())
	return a > CrackLowAbsEta && a < CrackHighAbsEta
}

func passesLegacyElectronID(el candidate.Electron, pv r3.Vec, cuts ElectronCuts) bool {
	ip := false
	if t := el.GsfTrack; t != nil {
		ip = math.Abs(t.Dxy(pv)) < cuts.MaxDxy && math.Abs(t.Dz(pv)) < cuts.MaxDz
	}
	return ip && el.PassConversionVeto && triggerPreselection
}

// EvaluateElectron returns the gate outcomes of el for working point id.
//
// For the Phys14 working points the isolation and identification gates are
// both set to the single combined Phys14 result.
func (s *Selector) EvaluateElectron(el candidate.Electron, minPt float64, id ElectronID) Decision {
	s.ctx.MustBeSetUp("IsGoodElectron")
	pv := s.ctx.MustVertex("IsGoodElectron")

	cuts, ok := ElectronCutsFor(id)
	if !ok {
		return Decision{}
	}

	d := Decision{
		Kinematics: el.Pt() >= minPt && math.Abs(el.Eta()) <= cuts.MaxAbsEta && !InCrack(el),
	}
	if cuts.Phys14 {
		pass := s.PassesPhys14(el, cuts.Phys14Level)
		d.Isolation = pass
		d.ID = pass
	} else {
		d.Isolation = s.iso.ElectronRelIso(el) < cuts.MaxRelIso
		d.ID = passesLegacyElectronID(el, pv.Position, cuts)
	}
	if !d.Pass() {
		calib.Tracef("electron rejected: pt=%.2f eta=%.3f id=%s %s", el.Pt(), el.Eta(), id, d)
	}
	return d
}

// IsGoodElectron reports whether el passes working point id above minPt.
func (s *Selector) IsGoodElectron(el candidate.Electron, minPt float64, id ElectronID) bool {
	return s.EvaluateElectron(el, minPt, id).Pass()
}
