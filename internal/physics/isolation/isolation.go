// Package isolation computes pileup-corrected relative isolation for
// muons and electrons.
//
// The default form subtracts half of the charged pileup sum (delta-beta).
// The cone form selects a cone size and a correction scheme, where the
// rho x effective-area scheme reads the effective area from the context's
// calibration tables.
package isolation

import (
	"fmt"
	"math"

	"github.com/banshee-data/miniaod/internal/physics/calib"
	"github.com/banshee-data/miniaod/internal/physics/candidate"
)

// ConeSize is the isolation cone radius in eta-phi space.
type ConeSize int

const (
	R03 ConeSize = iota // dR < 0.3
	R04                 // dR < 0.4
)

func (c ConeSize) String() string {
	switch c {
	case R03:
		return "R03"
	case R04:
		return "R04"
	default:
		return fmt.Sprintf("ConeSize(%d)", int(c))
	}
}

// PileupCorrection selects how the neutral isolation sum is corrected for pileup.
type PileupCorrection int

const (
	RhoEA     PileupCorrection = iota // rho x effective area
	DeltaBeta                         // half of the charged pileup sum
)

func (p PileupCorrection) String() string {
	switch p {
	case RhoEA:
		return "rhoEA"
	case DeltaBeta:
		return "deltaBeta"
	default:
		return fmt.Sprintf("PileupCorrection(%d)", int(p))
	}
}

// DeltaBetaFactor is the assumed neutral-to-charged pileup ratio.
const DeltaBetaFactor = 0.5

// RelIso returns the relative isolation of a lepton with transverse momentum
// pt, subtracting correction from the neutral sums. The neutral part is
// clamped at zero. Non-positive pt returns calib.UnphysicalValue.
func RelIso(sums candidate.PFIsolation, pt, correction float64) float64 {
	if !(pt > 0) {
		return calib.UnphysicalValue
	}
	neutral := math.Max(0, sums.SumNeutralHadronEt+sums.SumPhotonEt-correction)
	return (sums.SumChargedHadronPt + neutral) / pt
}

// DeltaBetaRelIso returns RelIso with the delta-beta correction.
func DeltaBetaRelIso(sums candidate.PFIsolation, pt float64) float64 {
	return RelIso(sums, pt, DeltaBetaFactor*sums.SumPUPt)
}

// Evaluator computes isolation using the tables and pileup density of a
// calibration context.
type Evaluator struct {
	ctx *calib.Context
}

// NewEvaluator returns an Evaluator reading from ctx.
func NewEvaluator(ctx *calib.Context) *Evaluator {
	return &Evaluator{ctx: ctx}
}

// MuonRelIso returns the delta-beta corrected isolation in the R03 cone.
func (e *Evaluator) MuonRelIso(mu candidate.Muon) float64 {
	return DeltaBetaRelIso(mu.IsoR03, mu.Pt())
}

// ElectronRelIso returns the delta-beta corrected electron isolation.
func (e *Evaluator) ElectronRelIso(el candidate.Electron) float64 {
	return DeltaBetaRelIso(el.Iso, el.Pt())
}

// MuonEffectiveArea returns the muon effective area for the cone and |eta|.
// ok is false when |eta| is outside the table; the area is then
// calib.UnphysicalValue.
func (e *Evaluator) MuonEffectiveArea(cone ConeSize, absEta float64) (float64, bool) {
	ea := e.ctx.Tables().EffectiveAreas
	switch cone {
	case R03:
		return ea.MuonR03.Lookup(absEta)
	case R04:
		return ea.MuonR04.Lookup(absEta)
	default:
		return calib.UnphysicalValue, false
	}
}

// ElectronEffectiveArea returns the electron effective area for |eta|. The
// same table serves both cone sizes.
func (e *Evaluator) ElectronEffectiveArea(absEta float64) (float64, bool) {
	return e.ctx.Tables().EffectiveAreas.Electron.Lookup(absEta)
}

// MuonRelIsoCone returns the muon isolation for an explicit cone size and
// pileup correction.
//
// With RhoEA and |eta| outside the table the effective area stays at its
// unphysical sentinel, which drives the neutral part to zero; callers that
// care must guard with MuonEffectiveArea. RhoEA without an attached rho
// returns calib.UnphysicalValue.
func (e *Evaluator) MuonRelIsoCone(mu candidate.Muon, cone ConeSize, corr PileupCorrection) float64 {
	var sums candidate.PFIsolation
	switch cone {
	case R03:
		sums = mu.IsoR03
	case R04:
		sums = mu.IsoR04
	default:
		return calib.UnphysicalValue
	}
	area, _ := e.MuonEffectiveArea(cone, math.Abs(mu.Eta()))
	return e.coneIso(sums, mu.Pt(), area, corr)
}

// ElectronRelIsoCone returns the electron isolation for an explicit cone
// size and pileup correction. Electrons carry a single set of sums, so the
// cone only has to be valid.
func (e *Evaluator) ElectronRelIsoCone(el candidate.Electron, cone ConeSize, corr PileupCorrection) float64 {
	if cone != R03 && cone != R04 {
		return calib.UnphysicalValue
	}
	area, _ := e.ElectronEffectiveArea(math.Abs(el.Eta()))
	return e.coneIso(el.Iso, el.Pt(), area, corr)
}

func (e *Evaluator) coneIso(sums candidate.PFIsolation, pt, area float64, corr PileupCorrection) float64 {
	var correction float64
	switch corr {
	case RhoEA:
		rho, ok := e.ctx.Rho()
		if !ok {
			calib.Diagf("job %s: rho x effective-area isolation requested without rho", e.ctx.ID())
			return calib.UnphysicalValue
		}
		correction = rho * area
	case DeltaBeta:
		correction = DeltaBetaFactor * sums.SumPUPt
	default:
		return calib.UnphysicalValue
	}
	return RelIso(sums, pt, correction)
}
