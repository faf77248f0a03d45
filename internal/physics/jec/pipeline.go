package jec

import (
	"fmt"

	"github.com/banshee-data/miniaod/internal/physics/calib"
	"github.com/banshee-data/miniaod/internal/physics/candidate"
)

// Systematic selects the jet energy scale hypothesis.
type Systematic int

const (
	Nominal Systematic = iota
	JESUp
	JESDown
)

func (s Systematic) String() string {
	switch s {
	case Nominal:
		return "nominal"
	case JESUp:
		return "JESUp"
	case JESDown:
		return "JESDown"
	default:
		return fmt.Sprintf("Systematic(%d)", int(s))
	}
}

// Pipeline corrects jet collections with the services attached to a
// calibration context. Every entry point requires a set-up context.
type Pipeline struct {
	ctx *calib.Context
}

// NewPipeline returns a Pipeline reading services from ctx.
func NewPipeline(ctx *calib.Context) *Pipeline {
	return &Pipeline{ctx: ctx}
}

// UncorrectedJets returns copies of jets with their momentum reset to the
// raw momentum.
func (p *Pipeline) UncorrectedJets(jets []candidate.Jet) []candidate.Jet {
	p.ctx.MustBeSetUp("GetUncorrectedJets")
	out := make([]candidate.Jet, len(jets))
	for i, jet := range jets {
		jet.P4 = jet.RawP4
		out[i] = jet
	}
	return out
}

// CorrectedJetsWithEvent scales each jet by the event-aware corrector and
// then applies sys. Without a corrector the jets keep a scale of one.
func (p *Pipeline) CorrectedJetsWithEvent(jets []candidate.Jet, evt calib.EventContext, sys Systematic) []candidate.Jet {
	p.ctx.MustBeSetUp("GetCorrectedJetsWithEvent")
	corrector, ok := p.ctx.JetCorrector()
	if !ok {
		opsf("job %s: event-aware jet corrector not set, jets left uncorrected", p.ctx.ID())
	}

	out := make([]candidate.Jet, len(jets))
	for i, jet := range jets {
		scale := 1.0
		if ok {
			scale = corrector.Correction(jet, evt)
		}
		jet.ScaleEnergy(scale)
		tracef("run %d event %d jet %d: scale=%.4f pt=%.2f", evt.Run, evt.Event, i, scale, jet.Pt())
		out[i] = p.shift(jet, sys)
	}
	return out
}

// CorrectedJets scales each jet with the factorized corrector and the
// attached pileup density, then applies sys. If either is missing, jets
// is returned as is.
func (p *Pipeline) CorrectedJets(jets []candidate.Jet, sys Systematic) []candidate.Jet {
	p.ctx.MustBeSetUp("GetCorrectedJets")
	corrector, ok := p.ctx.FactorizedJetCorrector()
	if !ok {
		opsf("job %s: factorized jet corrector not set, returning input jets", p.ctx.ID())
		return jets
	}
	rho, ok := p.ctx.Rho()
	if !ok {
		opsf("job %s: rho not set, returning input jets", p.ctx.ID())
		return jets
	}

	out := make([]candidate.Jet, len(jets))
	for i, jet := range jets {
		corrector.SetJetEta(jet.Eta())
		corrector.SetJetPt(jet.Pt())
		corrector.SetJetA(jet.Area)
		corrector.SetRho(rho)
		scale := corrector.Correction()
		jet.ScaleEnergy(scale)
		tracef("jet %d: scale=%.4f pt=%.2f", i, scale, jet.Pt())
		out[i] = p.shift(jet, sys)
	}
	return out
}

// shift applies the JES variation using the corrected jet kinematics.
func (p *Pipeline) shift(jet candidate.Jet, sys Systematic) candidate.Jet {
	if sys != JESUp && sys != JESDown {
		return jet
	}
	unc, ok := p.ctx.JetUncertainty()
	if !ok {
		opsf("job %s: %s requested without a jet uncertainty, shift skipped", p.ctx.ID(), sys)
		return jet
	}

	unc.SetJetEta(jet.Eta())
	unc.SetJetPt(jet.Pt())
	if sys == JESUp {
		jet.ScaleEnergy(1 + unc.Uncertainty(true))
	} else {
		jet.ScaleEnergy(1 - unc.Uncertainty(false))
	}
	return jet
}
