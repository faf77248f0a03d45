// Package btag evaluates a jet's b-tag discriminator against named
// working points.
package btag

import (
	"github.com/banshee-data/miniaod/internal/physics/calib"
	"github.com/banshee-data/miniaod/internal/physics/candidate"
)

// WorkingPoint is a single-character b-tag working-point symbol.
type WorkingPoint byte

const (
	Loose         WorkingPoint = 'L'
	Medium        WorkingPoint = 'M'
	Tight         WorkingPoint = 'T'
	NoRequirement WorkingPoint = '-'
)

// Gate compares the CSV discriminator with thresholds fixed at construction.
type Gate struct {
	ctx        *calib.Context
	thresholds calib.CSVThresholds
}

// NewGate returns a Gate using the CSV thresholds of ctx's tables.
func NewGate(ctx *calib.Context) *Gate {
	return &Gate{ctx: ctx, thresholds: ctx.Tables().CSV}
}

// Threshold returns the discriminator cut for wp. ok is false for
// NoRequirement and for unrecognised symbols.
func (g *Gate) Threshold(wp WorkingPoint) (float64, bool) {
	switch wp {
	case Loose:
		return g.thresholds.Loose, true
	case Medium:
		return g.thresholds.Medium, true
	case Tight:
		return g.thresholds.Tight, true
	default:
		return 0, false
	}
}

// Passes reports whether jet's discriminator is strictly above the wp
// threshold. NoRequirement always passes, unrecognised symbols always fail,
// and a jet without the discriminator fails every real working point.
func (g *Gate) Passes(jet candidate.Jet, wp WorkingPoint) bool {
	g.ctx.MustBeSetUp("PassesCSV")

	if wp == NoRequirement {
		return true
	}
	cut, ok := g.Threshold(wp)
	if !ok {
		return false
	}
	value, ok := jet.BDiscriminator(g.thresholds.Discriminator)
	if !ok {
		return false
	}
	return value > cut
}
