package selection

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/miniaod/internal/physics/calib"
	"github.com/banshee-data/miniaod/internal/physics/candidate"
)

// MuonID enumerates the muon working points.
type MuonID int

const (
	MuonPreselection MuonID = iota
	MuonSide
	MuonSideLooseMVA
	MuonSideTightMVA
	MuonPtOnly
	MuonPtEtaOnly
	MuonPtEtaIsoOnly
	MuonPtEtaIsoTrackerOnly
	MuonRaw
	MuonLooseMvaBased
	MuonTightMvaBased
	MuonLooseCutBased
	MuonTightCutBased
	MuonCutBased
	MuonLoose
	MuonTight
)

var muonIDNames = [...]string{
	"muonPreselection", "muonSide", "muonSideLooseMVA", "muonSideTightMVA",
	"muonPtOnly", "muonPtEtaOnly", "muonPtEtaIsoOnly", "muonPtEtaIsoTrackerOnly",
	"muonRaw", "muonLooseMvaBased", "muonTightMvaBased", "muonLooseCutBased",
	"muonTightCutBased", "muonCutBased", "muonLoose", "muonTight",
}

func (id MuonID) String() string {
	if id >= 0 && int(id) < len(muonIDNames) {
		return muonIDNames[id]
	}
	return fmt.Sprintf("MuonID(%d)", int(id))
}

// MuonCuts is one row of the muon working-point table.
type MuonCuts struct {
	MaxAbsEta    float64
	MaxRelIso    float64 // strict
	TrackQuality bool    // apply TightMuonTrackCuts
}

var (
	looseMuonCuts = MuonCuts{MaxAbsEta: 2.5, MaxRelIso: 0.200}
	tightMuonCuts = MuonCuts{MaxAbsEta: 2.4, MaxRelIso: 0.100, TrackQuality: true}
)

// Every working point except MuonTight belongs to the loose family.
var muonCutTable = map[MuonID]MuonCuts{
	MuonPreselection:        looseMuonCuts,
	MuonSide:                looseMuonCuts,
	MuonSideLooseMVA:        looseMuonCuts,
	MuonSideTightMVA:        looseMuonCuts,
	MuonPtOnly:              looseMuonCuts,
	MuonPtEtaOnly:           looseMuonCuts,
	MuonPtEtaIsoOnly:        looseMuonCuts,
	MuonPtEtaIsoTrackerOnly: looseMuonCuts,
	MuonRaw:                 looseMuonCuts,
	MuonLooseMvaBased:       looseMuonCuts,
	MuonTightMvaBased:       looseMuonCuts,
	MuonLooseCutBased:       looseMuonCuts,
	MuonTightCutBased:       looseMuonCuts,
	MuonCutBased:            looseMuonCuts,
	MuonLoose:               looseMuonCuts,
	MuonTight:               tightMuonCuts,
}

// MuonCutsFor returns the cut-table row for id.
func MuonCutsFor(id MuonID) (MuonCuts, bool) {
	c, ok := muonCutTable[id]
	return c, ok
}

// MuonTrackCuts are the track-quality requirements of the tight muon ID.
type MuonTrackCuts struct {
	MaxNormalizedChi2  float64 // global track, strict
	MinValidMuonHits   int     // global track
	MaxDxy             float64 // best track, cm, strict
	MaxDz              float64 // best track, cm, strict
	MinValidPixelHits  int     // inner track
	MinTrackerLayers   int     // track, layers with measurement
	MinMatchedStations int
}

// TightMuonTrackCuts is the track-quality row used by MuonTight.
var TightMuonTrackCuts = MuonTrackCuts{
	MaxNormalizedChi2:  10,
	MinValidMuonHits:   1,
	MaxDxy:             0.05,
	MaxDz:              0.5,
	MinValidPixelHits:  1,
	MinTrackerLayers:   5,
	MinMatchedStations: 2,
}

// PassesMuonTrackQuality applies cuts relative to the vertex position pv.
// A missing track fails its own sub-check.
func PassesMuonTrackQuality(mu candidate.Muon, pv r3.Vec, cuts MuonTrackCuts) bool {
	global := false
	if t := mu.GlobalTrack; t != nil {
		global = t.NormalizedChi2 < cuts.MaxNormalizedChi2 &&
			t.Hits.ValidMuonHits >= cuts.MinValidMuonHits
	}
	best := false
	if t := mu.BestTrack; t != nil {
		best = math.Abs(t.Dxy(pv)) < cuts.MaxDxy &&
			math.Abs(t.Dz(pv)) < cuts.MaxDz
	}
	inner := false
	if t := mu.InnerTrack; t != nil {
		inner = t.Hits.ValidPixelHits >= cuts.MinValidPixelHits
	}
	track := false
	if t := mu.Track; t != nil {
		track = t.Hits.TrackerLayersWithMeasurement >= cuts.MinTrackerLayers
	}
	return global && best && inner && track && mu.MatchedStations >= cuts.MinMatchedStations
}

// EvaluateMuon returns the gate outcomes of mu for working point id.
// Unknown working points fail every gate.
func (s *Selector) EvaluateMuon(mu candidate.Muon, minPt float64, id MuonID) Decision {
	s.ctx.MustBeSetUp("IsGoodMuon")
	pv := s.ctx.MustVertex("IsGoodMuon")

	cuts, ok := MuonCutsFor(id)
	if !ok {
		return Decision{}
	}

	d := Decision{
		Kinematics: mu.Pt() >= minPt && math.Abs(mu.Eta()) <= cuts.MaxAbsEta,
		Isolation:  s.iso.MuonRelIso(mu) < cuts.MaxRelIso,
		ID:         (mu.IsGlobal || mu.IsTracker) && mu.IsPF,
	}
	if cuts.TrackQuality {
		d.ID = d.ID && PassesMuonTrackQuality(mu, pv.Position, TightMuonTrackCuts)
	}
	if !d.Pass() {
		calib.Tracef("muon rejected: pt=%.2f eta=%.3f id=%s %s", mu.Pt(), mu.Eta(), id, d)
	}
	return d
}

// IsGoodMuon reports whether mu passes working point id above minPt.
func (s *Selector) IsGoodMuon(mu candidate.Muon, minPt float64, id MuonID) bool {
	return s.EvaluateMuon(mu, minPt, id).Pass()
}
