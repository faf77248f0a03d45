package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/banshee-data/miniaod/internal/physics/calib"
	"github.com/banshee-data/miniaod/internal/physics/candidate"
)

// tightTau returns a tau carrying every discriminator the tight working
// point reads, all passing.
func tightTau(pt, eta float64) candidate.Tau {
	return candidate.Tau{
		P4: candidate.PtEtaPhiM(pt, eta, 0, 1.777),
		IDs: map[string]float64{
			TauDecayModeFinding:                           1,
			"againstMuonLoose3":                           1,
			"againstMuonTight3":                           1,
			"againstElectronVLooseMVA5":                   1,
			"againstElectronLooseMVA5":                    1,
			"againstElectronMediumMVA5":                   1,
			"byLooseCombinedIsolationDeltaBetaCorr3Hits":  1,
			"byMediumCombinedIsolationDeltaBetaCorr3Hits": 1,
			"byTightCombinedIsolationDeltaBetaCorr3Hits":  1,
		},
	}
}

func TestTau_AbsolutePtFloor(t *testing.T) {
	s, _ := newTestSelector(t)
	tau := tightTau(15, 0.3)

	for id := TauNonIso; id <= TauTight; id++ {
		d := s.EvaluateTau(tau, 10, id)
		assert.False(t, d.Kinematics, "%s: pt 15 is below the 20 floor", id)
		assert.True(t, d.ID, "%s", id)
	}
	assert.True(t, s.IsGoodTau(tightTau(25, 0.3), 10, TauTight))
}

func TestTau_Kinematics(t *testing.T) {
	s, _ := newTestSelector(t)

	tests := []struct {
		name    string
		pt, eta float64
		minPt   float64
		want    bool
	}{
		{"at the floor", 20, 0.3, 10, true},
		{"caller threshold above floor", 25, 0.3, 30, false},
		{"eta beyond 2.1", 40, -2.2, 20, false},
		{"eta inside 2.1", 40, 2.05, 20, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.EvaluateTau(tightTau(tt.pt, tt.eta), tt.minPt, TauLoose).Kinematics)
		})
	}
}

func TestTau_WorkingPointDiscriminators(t *testing.T) {
	s, _ := newTestSelector(t)

	// Passes the loose isolation only.
	tau := tightTau(30, 0.3)
	tau.IDs["byMediumCombinedIsolationDeltaBetaCorr3Hits"] = 0
	tau.IDs["byTightCombinedIsolationDeltaBetaCorr3Hits"] = 0

	assert.True(t, s.IsGoodTau(tau, 20, TauNonIso))
	assert.True(t, s.IsGoodTau(tau, 20, TauLoose))
	assert.False(t, s.IsGoodTau(tau, 20, TauMedium))
	assert.False(t, s.EvaluateTau(tau, 20, TauTight).Isolation)

	// Non-isolated taus ignore isolation entirely.
	tau.IDs["byLooseCombinedIsolationDeltaBetaCorr3Hits"] = 0
	d := s.EvaluateTau(tau, 20, TauNonIso)
	assert.True(t, d.Isolation)
	assert.True(t, d.Pass())
}

func TestTau_AntiLeptonByWorkingPoint(t *testing.T) {
	s, _ := newTestSelector(t)

	tau := tightTau(30, 0.3)
	tau.IDs["againstMuonTight3"] = 0
	assert.True(t, s.EvaluateTau(tau, 20, TauMedium).ID)
	assert.False(t, s.EvaluateTau(tau, 20, TauTight).ID)

	tau = tightTau(30, 0.3)
	tau.IDs["againstElectronLooseMVA5"] = 0.49
	assert.True(t, s.EvaluateTau(tau, 20, TauLoose).ID)
	assert.False(t, s.EvaluateTau(tau, 20, TauMedium).ID)
}

func TestTau_MissingDiscriminatorFails(t *testing.T) {
	s, _ := newTestSelector(t)

	tau := tightTau(30, 0.3)
	delete(tau.IDs, TauDecayModeFinding)
	for id := TauNonIso; id <= TauTight; id++ {
		assert.False(t, s.EvaluateTau(tau, 20, id).ID, "%s", id)
	}

	bare := candidate.Tau{P4: candidate.PtEtaPhiM(30, 0.3, 0, 1.777)}
	assert.False(t, s.IsGoodTau(bare, 20, TauNonIso))
}

func TestTau_UnknownWorkingPointKeepsKinematicsOnly(t *testing.T) {
	s, _ := newTestSelector(t)
	d := s.EvaluateTau(tightTau(30, 0.3), 20, TauID(9))
	assert.Equal(t, Decision{Kinematics: true}, d)
	assert.False(t, d.Pass())
}

func TestTau_NoVertexNeeded(t *testing.T) {
	ctx := calib.NewDefaultContext()
	ctx.SetUp(calib.Era2015v74, 1, calib.AnalysisTauLJ, false)
	s := NewSelector(ctx)

	assert.NotPanics(t, func() { s.IsGoodTau(tightTau(30, 0.3), 20, TauTight) })
}

func TestSelectedTaus(t *testing.T) {
	s, _ := newTestSelector(t)
	taus := []candidate.Tau{tightTau(30, 0.3), tightTau(18, 0.3), tightTau(45, -1.9)}

	got := s.SelectedTaus(taus, 20, TauTight)
	assert.Len(t, got, 2)
	assert.InDelta(t, 45, got[1].Pt(), 1e-9)
}
