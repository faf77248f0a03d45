package candidate

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Vertex is a reconstructed interaction vertex.
type Vertex struct {
	Position r3.Vec // cm
}

// HitPattern summarises the detector hits attached to a track.
type HitPattern struct {
	ValidMuonHits                int
	ValidPixelHits               int
	TrackerLayersWithMeasurement int
	MissingInnerHits             int
}

// Track is a fitted charged-particle track, parametrised at its reference
// point (point of closest approach to the beam line).
type Track struct {
	RefPoint       r3.Vec // cm
	Momentum       r3.Vec // GeV
	NormalizedChi2 float64
	Hits           HitPattern
}

// Pt returns the transverse momentum of the track.
func (t *Track) Pt() float64 {
	return math.Hypot(t.Momentum.X, t.Momentum.Y)
}

// Dxy returns the signed transverse impact parameter with respect to
// point, using the straight-line approximation around the reference point.
// Tracks with zero transverse momentum return +Inf so that any cut fails.
func (t *Track) Dxy(point r3.Vec) float64 {
	pt := t.Pt()
	if pt == 0 {
		return math.Inf(1)
	}
	d := r3.Sub(t.RefPoint, point)
	return (-d.X*t.Momentum.Y + d.Y*t.Momentum.X) / pt
}

// Dz returns the longitudinal impact parameter with respect to point.
// Tracks with zero transverse momentum return +Inf.
func (t *Track) Dz(point r3.Vec) float64 {
	pt := t.Pt()
	if pt == 0 {
		return math.Inf(1)
	}
	d := r3.Sub(t.RefPoint, point)
	return d.Z - (d.X*t.Momentum.X+d.Y*t.Momentum.Y)/pt*(t.Momentum.Z/pt)
}
