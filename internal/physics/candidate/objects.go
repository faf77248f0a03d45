package candidate

import "gonum.org/v1/gonum/spatial/r3"

// PFIsolation holds particle-flow isolation sums in a cone around a lepton.
type PFIsolation struct {
	SumChargedHadronPt float64
	SumNeutralHadronEt float64
	SumPhotonEt        float64
	SumPUPt            float64 // charged pileup, used for delta-beta subtraction
}

// Muon is a reconstructed muon candidate.
type Muon struct {
	P4 P4

	IsGlobal  bool
	IsTracker bool
	IsPF      bool

	IsoR03 PFIsolation
	IsoR04 PFIsolation

	GlobalTrack *Track
	BestTrack   *Track
	InnerTrack  *Track
	Track       *Track

	MatchedStations int
}

// Pt returns the muon transverse momentum.
func (m Muon) Pt() float64 { return m.P4.Pt() }

// Eta returns the muon pseudorapidity.
func (m Muon) Eta() float64 { return m.P4.Eta() }

// SuperCluster is the ECAL cluster an electron was seeded from.
type SuperCluster struct {
	Position r3.Vec // cm
}

// Eta returns the pseudorapidity of the supercluster position.
func (sc *SuperCluster) Eta() float64 {
	return Pseudorapidity(sc.Position)
}

// Electron is a reconstructed electron candidate.
type Electron struct {
	P4 P4

	SuperCluster *SuperCluster
	GsfTrack     *Track

	Iso                PFIsolation
	PassConversionVeto bool

	// Shower-shape and track-cluster matching variables.
	Full5x5SigmaIetaIeta float64
	DeltaEtaInSeed       float64 // deltaEtaSuperClusterTrackAtVtx
	DeltaPhiIn           float64 // deltaPhiSuperClusterTrackAtVtx
	HcalOverEcal         float64
	EcalEnergy           float64
	ESuperClusterOverP   float64
}

// Pt returns the electron transverse momentum.
func (e Electron) Pt() float64 { return e.P4.Pt() }

// Eta returns the electron pseudorapidity.
func (e Electron) Eta() float64 { return e.P4.Eta() }

// Tau is a reconstructed hadronic tau candidate.
type Tau struct {
	P4  P4
	IDs map[string]float64
}

// Pt returns the tau transverse momentum.
func (t Tau) Pt() float64 { return t.P4.Pt() }

// Eta returns the tau pseudorapidity.
func (t Tau) Eta() float64 { return t.P4.Eta() }

// TauID returns the named tau discriminator and whether it is present.
func (t Tau) TauID(name string) (float64, bool) {
	v, ok := t.IDs[name]
	return v, ok
}

// Jet is a reconstructed particle-flow jet.
type Jet struct {
	P4    P4
	RawP4 P4 // uncorrected (level-0) momentum
	Area  float64

	NeutralHadronEnergyFraction float64
	ChargedEmEnergyFraction     float64
	NeutralEmEnergyFraction     float64
	ChargedHadronEnergyFraction float64
	NumberOfDaughters           int
	ChargedMultiplicity         int

	BDiscriminators map[string]float64
}

// Pt returns the jet transverse momentum.
func (j Jet) Pt() float64 { return j.P4.Pt() }

// Eta returns the jet pseudorapidity.
func (j Jet) Eta() float64 { return j.P4.Eta() }

// BDiscriminator returns the named b-tag discriminator and whether it is present.
func (j Jet) BDiscriminator(name string) (float64, bool) {
	v, ok := j.BDiscriminators[name]
	return v, ok
}

// ScaleEnergy rescales the jet four-momentum by s.
func (j *Jet) ScaleEnergy(s float64) {
	j.P4 = j.P4.Scale(s)
}
