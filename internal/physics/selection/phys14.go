package selection

import (
	"math"

	"github.com/banshee-data/miniaod/internal/physics/calib"
	"github.com/banshee-data/miniaod/internal/physics/candidate"
	"github.com/banshee-data/miniaod/internal/physics/isolation"
)

// noSuperClusterAbsEta places electrons without a supercluster in the endcap.
const noSuperClusterAbsEta = 99.0

// OneOverEMinusOneOverP returns |1/E - 1/p| from the ECAL energy and E/p.
// A zero or non-finite ECAL energy returns 1e30 so that every cut fails.
func OneOverEMinusOneOverP(el candidate.Electron) float64 {
	e := el.EcalEnergy
	if e == 0 || math.IsInf(e, 0) || math.IsNaN(e) {
		return 1e30
	}
	return math.Abs(1.0/e - el.ESuperClusterOverP/e)
}

// PassesPhys14 applies the Phys14 cut-based electron ID at level, choosing
// the barrel or endcap row by supercluster |eta|. A missing GSF track
// fails the impact-parameter and missing-hit cuts.
func (s *Selector) PassesPhys14(el candidate.Electron, level calib.Level) bool {
	table := s.ctx.Tables().Phys14
	region, ok := table.Levels[level]
	if !ok {
		return false
	}

	absSCEta := noSuperClusterAbsEta
	if el.SuperCluster != nil {
		absSCEta = math.Abs(el.SuperCluster.Eta())
	}
	cuts := region.Endcap
	if absSCEta < table.BarrelMaxAbsEtaSC {
		cuts = region.Barrel
	}

	track := false
	if t := el.GsfTrack; t != nil {
		pv := s.ctx.MustVertex("PassElectronPhys14Id").Position
		track = math.Abs(t.Dxy(pv)) < cuts.MaxD0 &&
			math.Abs(t.Dz(pv)) < cuts.MaxDz &&
			t.Hits.MissingInnerHits <= cuts.MaxMissingInnerHits
	}

	return el.Full5x5SigmaIetaIeta < cuts.MaxSigmaIetaIeta &&
		math.Abs(el.DeltaEtaInSeed) < cuts.MaxDEtaIn &&
		math.Abs(el.DeltaPhiIn) < cuts.MaxDPhiIn &&
		el.HcalOverEcal < cuts.MaxHOverE &&
		OneOverEMinusOneOverP(el) < cuts.MaxOoEmooP &&
		track &&
		el.PassConversionVeto &&
		isolation.DeltaBetaRelIso(el.Iso, el.Pt()) < cuts.MaxRelIso
}
