package btag

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/banshee-data/miniaod/internal/physics/calib"
	"github.com/banshee-data/miniaod/internal/physics/candidate"
)

const csvName = "combinedInclusiveSecondaryVertexV2BJetTags"

func newGate(t *testing.T) *Gate {
	t.Helper()
	ctx := calib.NewDefaultContext()
	ctx.SetUp(calib.Era2015v74, 1, calib.AnalysisLJ, false)
	return NewGate(ctx)
}

func jetWithCSV(v float64) candidate.Jet {
	return candidate.Jet{BDiscriminators: map[string]float64{csvName: v}}
}

func TestGate_Passes(t *testing.T) {
	g := newGate(t)

	tests := []struct {
		name string
		csv  float64
		wp   WorkingPoint
		want bool
	}{
		{"loose above", 0.5, Loose, true},
		{"loose at threshold is strict", 0.423, Loose, false},
		{"medium below", 0.8, Medium, false},
		{"medium above", 0.815, Medium, true},
		{"tight at threshold", 0.941, Tight, false},
		{"tight above", 0.95, Tight, true},
		{"no requirement negative score", -10, NoRequirement, true},
		{"unknown symbol", 0.99, WorkingPoint('X'), false},
		{"lower-case symbol is unknown", 0.99, WorkingPoint('l'), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, g.Passes(jetWithCSV(tt.csv), tt.wp))
		})
	}
}

func TestGate_MissingDiscriminator(t *testing.T) {
	g := newGate(t)
	jet := candidate.Jet{BDiscriminators: map[string]float64{"pfJetProbabilityBJetTags": 5}}

	assert.False(t, g.Passes(jet, Loose))
	assert.True(t, g.Passes(jet, NoRequirement))
}

func TestGate_Threshold(t *testing.T) {
	g := newGate(t)
	for wp, want := range map[WorkingPoint]float64{Loose: 0.423, Medium: 0.814, Tight: 0.941} {
		got, ok := g.Threshold(wp)
		assert.True(t, ok)
		assert.Equal(t, want, got)
	}
	_, ok := g.Threshold(NoRequirement)
	assert.False(t, ok)
}

func TestGate_ThresholdsFromInjectedTables(t *testing.T) {
	tables := calib.DefaultTables()
	tables.Version = "custom"
	tables.CSV.Loose = 0.1
	ctx := calib.NewContext(tables)
	ctx.SetUp(calib.Era2015v74, 1, calib.AnalysisLJ, false)
	g := NewGate(ctx)

	assert.True(t, g.Passes(jetWithCSV(0.2), Loose))
}

func TestGate_RequiresSetUp(t *testing.T) {
	g := NewGate(calib.NewDefaultContext())
	assert.Panics(t, func() { g.Passes(jetWithCSV(1), Loose) })
}
