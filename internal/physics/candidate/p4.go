package candidate

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// P4 is a Lorentz four-momentum in GeV.
type P4 struct {
	P r3.Vec // three-momentum (px, py, pz)
	E float64
}

// PtEtaPhiM builds a P4 from transverse momentum, pseudorapidity, azimuth and mass.
func PtEtaPhiM(pt, eta, phi, m float64) P4 {
	p := r3.Vec{
		X: pt * math.Cos(phi),
		Y: pt * math.Sin(phi),
		Z: pt * math.Sinh(eta),
	}
	return P4{P: p, E: math.Sqrt(r3.Norm2(p) + m*m)}
}

// Pt returns the transverse momentum.
func (p P4) Pt() float64 {
	return math.Hypot(p.P.X, p.P.Y)
}

// Eta returns the pseudorapidity.
func (p P4) Eta() float64 {
	return Pseudorapidity(p.P)
}

// Phi returns the azimuthal angle in (-pi, pi].
func (p P4) Phi() float64 {
	if p.P.X == 0 && p.P.Y == 0 {
		return 0
	}
	return math.Atan2(p.P.Y, p.P.X)
}

// M returns the invariant mass. Space-like vectors return 0.
func (p P4) M() float64 {
	m2 := p.E*p.E - r3.Norm2(p.P)
	if m2 <= 0 {
		return 0
	}
	return math.Sqrt(m2)
}

// Scale multiplies all four components by s, keeping direction and
// rescaling energy and mass together.
func (p P4) Scale(s float64) P4 {
	return P4{P: r3.Scale(s, p.P), E: p.E * s}
}

// Pseudorapidity returns eta of the direction of v. Vectors along the beam
// axis return +/-1e10, the origin returns 0.
func Pseudorapidity(v r3.Vec) float64 {
	rho := math.Hypot(v.X, v.Y)
	if rho == 0 {
		switch {
		case v.Z > 0:
			return 1e10
		case v.Z < 0:
			return -1e10
		default:
			return 0
		}
	}
	return math.Asinh(v.Z / rho)
}
