package jec

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"

	"github.com/banshee-data/miniaod/internal/physics/calib"
)

// LevelInput is the jet state one correction level sees. Pt already
// includes the factors of every earlier level.
type LevelInput struct {
	Eta  float64
	Pt   float64
	Area float64
	Rho  float64
}

// Level is one factor of a factorized jet energy correction.
type Level interface {
	Name() string
	Factor(in LevelInput) float64
}

// LevelChain is a calib.FactorizedCorrector multiplying an ordered list of
// levels. It holds the setter state of a single jet and is not safe for
// concurrent use.
type LevelChain struct {
	levels []Level
	in     LevelInput
}

var _ calib.FactorizedCorrector = (*LevelChain)(nil)

// NewLevelChain returns a chain applying levels in the given order.
func NewLevelChain(levels ...Level) (*LevelChain, error) {
	if len(levels) == 0 {
		return nil, errors.New("level chain needs at least one level")
	}
	names := make([]string, len(levels))
	for i, l := range levels {
		if l == nil {
			return nil, fmt.Errorf("level %d is nil", i)
		}
		names[i] = l.Name()
	}
	diagf("level chain: %v", names)
	return &LevelChain{levels: append([]Level(nil), levels...)}, nil
}

func (c *LevelChain) SetJetEta(eta float64) { c.in.Eta = eta }
func (c *LevelChain) SetJetPt(pt float64)   { c.in.Pt = pt }
func (c *LevelChain) SetJetA(area float64)  { c.in.Area = area }
func (c *LevelChain) SetRho(rho float64)    { c.in.Rho = rho }

// Correction returns the product of all level factors for the current jet.
func (c *LevelChain) Correction() float64 {
	in := c.in
	total := 1.0
	for _, l := range c.levels {
		f := l.Factor(in)
		total *= f
		in.Pt *= f
	}
	return total
}

// L1FastJetMinFactor keeps the pileup offset from zeroing or flipping a jet.
const L1FastJetMinFactor = 0.0001

// L1FastJet subtracts the pileup energy in the jet area: rho times area
// times an |eta|-dependent offset.
type L1FastJet struct {
	Offsets calib.EtaBinned
}

// NewL1FastJet validates offsets and returns the level.
func NewL1FastJet(offsets calib.EtaBinned) (*L1FastJet, error) {
	if err := offsets.Validate(); err != nil {
		return nil, fmt.Errorf("L1FastJet offsets: %w", err)
	}
	return &L1FastJet{Offsets: offsets}, nil
}

func (l *L1FastJet) Name() string { return "L1FastJet" }

// Factor returns max(L1FastJetMinFactor, 1 - rho*area*offset/pt). Jets
// outside the offset table or without positive pt are left unchanged.
func (l *L1FastJet) Factor(in LevelInput) float64 {
	offset, ok := l.Offsets.Lookup(math.Abs(in.Eta))
	if !ok || in.Pt <= 0 {
		return 1
	}
	return math.Max(L1FastJetMinFactor, 1-in.Rho*in.Area*offset/in.Pt)
}

// Curve is a piecewise-linear function of pt, constant beyond its end points.
type Curve struct {
	Pt    []float64 `json:"pt" yaml:"pt"`
	Value []float64 `json:"value" yaml:"value"`
}

func (c Curve) fit() (interp.PiecewiseLinear, error) {
	var pl interp.PiecewiseLinear
	if len(c.Pt) < 2 {
		return pl, errors.New("curve needs at least two points")
	}
	if len(c.Value) != len(c.Pt) {
		return pl, fmt.Errorf("curve has %d pt points and %d values", len(c.Pt), len(c.Value))
	}
	for i := 1; i < len(c.Pt); i++ {
		if !(c.Pt[i] > c.Pt[i-1]) {
			return pl, fmt.Errorf("curve pt must be strictly increasing, got %v", c.Pt)
		}
	}
	if floats.HasNaN(c.Pt) || floats.HasNaN(c.Value) {
		return pl, errors.New("curve contains NaN")
	}
	err := pl.Fit(c.Pt, c.Value)
	return pl, err
}

func validateEdges(edges []float64, bins int) error {
	if len(edges) < 2 {
		return errors.New("need at least two eta edges")
	}
	for i := 1; i < len(edges); i++ {
		if !(edges[i] > edges[i-1]) {
			return fmt.Errorf("eta edges must be strictly increasing, got %v", edges)
		}
	}
	if bins != len(edges)-1 {
		return fmt.Errorf("%d eta edges need %d curves, got %d", len(edges), len(edges)-1, bins)
	}
	return nil
}

func fitCurves(curves []Curve) ([]interp.PiecewiseLinear, error) {
	out := make([]interp.PiecewiseLinear, len(curves))
	for i, c := range curves {
		pl, err := c.fit()
		if err != nil {
			return nil, fmt.Errorf("eta bin %d: %w", i, err)
		}
		out[i] = pl
	}
	return out, nil
}

// BinnedResponse is a relative or absolute correction level: per |eta|
// bin, a correction factor interpolated in pt. Jets outside the eta bins
// get a factor of one.
type BinnedResponse struct {
	name    string
	edges   []float64
	factors []interp.PiecewiseLinear
}

// NewBinnedResponse returns a level named name with one curve per bin of
// the |eta| edges.
func NewBinnedResponse(name string, etaEdges []float64, curves []Curve) (*BinnedResponse, error) {
	if name == "" {
		return nil, errors.New("binned response needs a name")
	}
	if err := validateEdges(etaEdges, len(curves)); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	factors, err := fitCurves(curves)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &BinnedResponse{
		name:    name,
		edges:   append([]float64(nil), etaEdges...),
		factors: factors,
	}, nil
}

func (r *BinnedResponse) Name() string { return r.name }

func (r *BinnedResponse) Factor(in LevelInput) float64 {
	i := bin(r.edges, math.Abs(in.Eta))
	if i < 0 {
		return 1
	}
	return r.factors[i].Predict(in.Pt)
}

// bin returns the index of the bin containing v, treating the last edge as
// inclusive, or -1 when v is outside the edges.
func bin(edges []float64, v float64) int {
	if v == edges[len(edges)-1] {
		return len(edges) - 2
	}
	return floats.Within(edges, v)
}
