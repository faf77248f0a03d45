package selection

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/miniaod/internal/physics/calib"
	"github.com/banshee-data/miniaod/internal/physics/candidate"
)

// superClusterAt places a supercluster on the ECAL barrel radius at eta.
func superClusterAt(eta float64) *candidate.SuperCluster {
	const radius = 129.0
	return &candidate.SuperCluster{Position: r3.Vec{X: radius, Z: radius * math.Sinh(eta)}}
}

// phys14TightElectron returns an isolated electron passing the tight Phys14
// barrel row when eta is central.
func phys14TightElectron(pt, eta float64) candidate.Electron {
	return candidate.Electron{
		P4:           candidate.PtEtaPhiM(pt, eta, 0, 0),
		SuperCluster: superClusterAt(eta),
		GsfTrack: &candidate.Track{
			RefPoint: r3.Vec{Y: 0.001, Z: 0.005},
			Momentum: r3.Vec{X: pt, Z: pt * math.Sinh(eta)},
		},
		Iso:                  candidate.PFIsolation{SumChargedHadronPt: 0.03 * pt},
		PassConversionVeto:   true,
		Full5x5SigmaIetaIeta: 0.009,
		DeltaEtaInSeed:       0.003,
		DeltaPhiIn:           -0.01,
		HcalOverEcal:         0.01,
		EcalEnergy:           pt,
		ESuperClusterOverP:   1.0,
	}
}

func TestElectron_CrackVetoForEveryWorkingPoint(t *testing.T) {
	s, _ := newTestSelector(t)
	el := phys14TightElectron(100, 1.50)
	require.True(t, InCrack(el))

	for id := ElectronPreselection; id <= ElectronPhys14Tight; id++ {
		assert.False(t, s.EvaluateElectron(el, 10, id).Kinematics, "%s must veto the crack", id)
	}
}

func TestElectron_CrackBoundariesAreExclusive(t *testing.T) {
	tests := []struct {
		scEta float64
		want  bool
	}{
		{1.4441, false},
		{1.4443, true},
		{-1.50, true},
		{1.5659, true},
		{1.5661, false},
	}
	for _, tt := range tests {
		el := candidate.Electron{SuperCluster: superClusterAt(tt.scEta)}
		assert.Equal(t, tt.want, InCrack(el), "scEta=%v", tt.scEta)
	}
	assert.False(t, InCrack(candidate.Electron{}), "no supercluster means no veto")
}

func TestElectron_LegacyLooseAndTight(t *testing.T) {
	s, _ := newTestSelector(t)

	el := phys14TightElectron(30, 0.5)
	el.Iso = candidate.PFIsolation{SumChargedHadronPt: 0.15 * 30}
	el.GsfTrack.RefPoint = r3.Vec{Y: 0.03, Z: 1.5}

	loose := s.EvaluateElectron(el, 20, ElectronLoose)
	assert.True(t, loose.Pass(), "loose: %s", loose)

	tight := s.EvaluateElectron(el, 20, ElectronTight)
	assert.True(t, tight.Kinematics)
	assert.False(t, tight.Isolation, "0.15 is not below 0.100")
	assert.False(t, tight.ID, "dxy 0.03 and dz 1.5 fail the tight impact-parameter cuts")

	el.Iso = candidate.PFIsolation{SumChargedHadronPt: 0.05 * 30}
	el.GsfTrack.RefPoint = r3.Vec{Y: 0.01, Z: 0.5}
	assert.True(t, s.IsGoodElectron(el, 20, ElectronTight))
	assert.True(t, s.IsGoodElectron(el, 20, ElectronTightMinusTrigPresel))
}

func TestElectron_LegacyIDSubChecks(t *testing.T) {
	s, _ := newTestSelector(t)

	el := phys14TightElectron(30, 0.5)
	el.GsfTrack = nil
	assert.False(t, s.EvaluateElectron(el, 20, ElectronLoose).ID, "missing GSF track fails the d0 cut")

	el = phys14TightElectron(30, 0.5)
	el.PassConversionVeto = false
	assert.False(t, s.EvaluateElectron(el, 20, ElectronLoose).ID)

	el = phys14TightElectron(30, 0.5)
	el.GsfTrack.RefPoint.Y = 0.045
	assert.False(t, s.EvaluateElectron(el, 20, ElectronLoose).ID, "dxy 0.045 fails the loose 0.04 cut")
}

func TestElectron_KinematicWindow(t *testing.T) {
	s, _ := newTestSelector(t)

	assert.False(t, s.EvaluateElectron(phys14TightElectron(30, 2.6), 20, ElectronLoose).Kinematics)
	assert.True(t, s.EvaluateElectron(phys14TightElectron(30, -2.4), 20, ElectronLoose).Kinematics)
	assert.False(t, s.EvaluateElectron(phys14TightElectron(19, 0.5), 20, ElectronLoose).Kinematics)
}

func TestElectron_Phys14Levels(t *testing.T) {
	s, _ := newTestSelector(t)

	el := phys14TightElectron(40, 0.5)
	for _, id := range []ElectronID{ElectronPhys14Loose, ElectronPhys14Medium, ElectronPhys14Tight} {
		d := s.EvaluateElectron(el, 20, id)
		assert.True(t, d.Pass(), "%s: %s", id, d)
	}

	// sigmaIetaIeta between the tight (0.010181) and loose (0.010557) barrel cuts.
	el.Full5x5SigmaIetaIeta = 0.0104
	assert.True(t, s.IsGoodElectron(el, 20, ElectronPhys14Loose))
	assert.False(t, s.IsGoodElectron(el, 20, ElectronPhys14Medium))
	assert.False(t, s.IsGoodElectron(el, 20, ElectronPhys14Tight))
}

func TestElectron_Phys14OverwritesIsolationAndID(t *testing.T) {
	s, _ := newTestSelector(t)

	el := phys14TightElectron(40, 0.5)
	el.HcalOverEcal = 0.5 // identification-only failure

	d := s.EvaluateElectron(el, 20, ElectronPhys14Tight)
	assert.True(t, d.Kinematics)
	assert.False(t, d.ID)
	assert.False(t, d.Isolation, "isolation mirrors the combined Phys14 result")

	el = phys14TightElectron(40, 0.5)
	el.Iso.SumChargedHadronPt = 0.2 * 40 // isolation-only failure
	d = s.EvaluateElectron(el, 20, ElectronPhys14Tight)
	assert.Equal(t, d.ID, d.Isolation)
	assert.False(t, d.ID)
}

func TestElectron_Phys14BarrelVersusEndcap(t *testing.T) {
	s, _ := newTestSelector(t)

	// Endcap-sized shower width passes only the endcap row.
	el := phys14TightElectron(40, 2.0)
	el.Full5x5SigmaIetaIeta = 0.02
	assert.True(t, s.PassesPhys14(el, calib.LevelTight))

	el.SuperCluster = superClusterAt(1.2)
	assert.False(t, s.PassesPhys14(el, calib.LevelTight), "barrel row rejects sigmaIetaIeta 0.02")

	el.SuperCluster = nil
	assert.True(t, s.PassesPhys14(el, calib.LevelTight), "no supercluster falls back to the endcap row")
}

func TestElectron_Phys14SubChecks(t *testing.T) {
	s, _ := newTestSelector(t)

	tests := []struct {
		name   string
		mutate func(*candidate.Electron)
	}{
		{"dEtaIn", func(e *candidate.Electron) { e.DeltaEtaInSeed = -0.007 }},
		{"dPhiIn", func(e *candidate.Electron) { e.DeltaPhiIn = 0.03 }},
		{"ooEmooP", func(e *candidate.Electron) { e.ESuperClusterOverP = 10 }},
		{"zero ecal energy", func(e *candidate.Electron) { e.EcalEnergy = 0 }},
		{"d0", func(e *candidate.Electron) { e.GsfTrack.RefPoint.Y = 0.011 }},
		{"dz", func(e *candidate.Electron) { e.GsfTrack.RefPoint.Z = 0.02 }},
		{"missing hits", func(e *candidate.Electron) { e.GsfTrack.Hits.MissingInnerHits = 2 }},
		{"no gsf track", func(e *candidate.Electron) { e.GsfTrack = nil }},
		{"conversion", func(e *candidate.Electron) { e.PassConversionVeto = false }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el := phys14TightElectron(40, 0.5)
			require.True(t, s.PassesPhys14(el, calib.LevelTight))
			tt.mutate(&el)
			assert.False(t, s.PassesPhys14(el, calib.LevelTight))
		})
	}

	el := phys14TightElectron(40, 0.5)
	el.GsfTrack.Hits.MissingInnerHits = 1
	assert.True(t, s.PassesPhys14(el, calib.LevelTight), "one missing inner hit is allowed")
}

func TestOneOverEMinusOneOverP(t *testing.T) {
	assert.Equal(t, 1e30, OneOverEMinusOneOverP(candidate.Electron{EcalEnergy: 0}))
	assert.Equal(t, 1e30, OneOverEMinusOneOverP(candidate.Electron{EcalEnergy: math.Inf(1)}))
	assert.Equal(t, 1e30, OneOverEMinusOneOverP(candidate.Electron{EcalEnergy: math.NaN()}))
	assert.InDelta(t, 0.01, OneOverEMinusOneOverP(candidate.Electron{EcalEnergy: 50, ESuperClusterOverP: 1.5}), 1e-12)
}

func TestSelectedElectrons(t *testing.T) {
	s, _ := newTestSelector(t)
	electrons := []candidate.Electron{
		phys14TightElectron(40, 0.5),
		phys14TightElectron(40, 1.5), // crack
		phys14TightElectron(25, -0.9),
	}
	got := s.SelectedElectrons(electrons, 20, ElectronPhys14Tight)
	require.Len(t, got, 2)
	assert.InDelta(t, -0.9, got[1].Eta(), 1e-9)
}
