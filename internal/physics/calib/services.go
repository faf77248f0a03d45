package calib

import "github.com/banshee-data/miniaod/internal/physics/candidate"

// EventContext identifies the event an event-aware correction is evaluated for.
type EventContext struct {
	Run       uint32
	LumiBlock uint32
	Event     uint64
	IsData    bool
}

// EventCorrector computes a jet energy scale that may depend on event and
// detector-conditions state.
type EventCorrector interface {
	Correction(jet candidate.Jet, evt EventContext) float64
}

// FactorizedCorrector is a self-contained jet energy corrector driven by a
// setter protocol: set eta, pt, area and rho, then read Correction.
type FactorizedCorrector interface {
	SetJetEta(eta float64)
	SetJetPt(pt float64)
	SetJetA(area float64)
	SetRho(rho float64)
	Correction() float64
}

// JetUncertainty evaluates the fractional jet energy scale uncertainty for
// the jet described by the last SetJetEta/SetJetPt calls.
type JetUncertainty interface {
	SetJetEta(eta float64)
	SetJetPt(pt float64)
	Uncertainty(up bool) float64
}
