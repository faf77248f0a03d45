package jec

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"

	"github.com/banshee-data/miniaod/internal/physics/calib"
)

// BinnedUncertainty is a calib.JetUncertainty reading fractional JES
// uncertainties from per-|eta|-bin curves in pt. Jets beyond the outer
// edges use the nearest bin. Like LevelChain it holds one jet's setter
// state.
type BinnedUncertainty struct {
	edges []float64
	up    []interp.PiecewiseLinear
	down  []interp.PiecewiseLinear

	eta, pt float64
}

var _ calib.JetUncertainty = (*BinnedUncertainty)(nil)

// NewBinnedUncertainty returns an evaluator with one up curve per bin of
// the |eta| edges. A nil down uses the up curves for both directions.
func NewBinnedUncertainty(etaEdges []float64, up, down []Curve) (*BinnedUncertainty, error) {
	if err := validateEdges(etaEdges, len(up)); err != nil {
		return nil, fmt.Errorf("jes uncertainty up: %w", err)
	}
	upFits, err := fitCurves(up)
	if err != nil {
		return nil, fmt.Errorf("jes uncertainty up: %w", err)
	}
	downFits := upFits
	if down != nil {
		if len(down) != len(up) {
			return nil, fmt.Errorf("jes uncertainty: %d up curves but %d down curves", len(up), len(down))
		}
		if downFits, err = fitCurves(down); err != nil {
			return nil, fmt.Errorf("jes uncertainty down: %w", err)
		}
	}
	return &BinnedUncertainty{
		edges: append([]float64(nil), etaEdges...),
		up:    upFits,
		down:  downFits,
	}, nil
}

func (u *BinnedUncertainty) SetJetEta(eta float64) { u.eta = eta }
func (u *BinnedUncertainty) SetJetPt(pt float64)   { u.pt = pt }

// Uncertainty returns the fractional uncertainty of the current jet in the
// requested direction.
func (u *BinnedUncertainty) Uncertainty(up bool) float64 {
	curves := u.down
	if up {
		curves = u.up
	}
	return curves[u.nearestBin(math.Abs(u.eta))].Predict(u.pt)
}

func (u *BinnedUncertainty) nearestBin(absEta float64) int {
	if i := bin(u.edges, absEta); i >= 0 {
		return i
	}
	if absEta < u.edges[0] {
		return 0
	}
	return len(u.edges) - 2
}
