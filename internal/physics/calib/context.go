package calib

import (
	"github.com/google/uuid"

	"github.com/banshee-data/miniaod/internal/physics/candidate"
)

// Context is the calibration context of one analysis job. Run metadata is
// fixed by a single SetUp call; optional state is attached through the Set*
// methods and read back through presence-checked accessors.
//
// A Context is not safe for concurrent mutation. Configure it at job start,
// then share it read-only across sequential event calls.
type Context struct {
	id     uuid.UUID
	tables Tables

	setUp    bool
	era      Era
	sampleID int
	mode     AnalysisMode
	isData   bool

	vertex *candidate.Vertex
	rho    *float64

	jetCorrector EventCorrector
	factorized   FactorizedCorrector
	uncertainty  JetUncertainty
}

// NewContext creates a context using the given calibration tables. Invalid
// tables are a fatal configuration error.
func NewContext(tables Tables) *Context {
	if err := tables.Validate(); err != nil {
		fatalf("NewContext", "invalid calibration tables: %v", err)
	}
	c := &Context{
		id:     uuid.New(),
		tables: tables.Clone(),
	}
	Diagf("job %s: calibration tables %s", c.id, tables.Version)
	return c
}

// NewDefaultContext creates a context using DefaultTables.
func NewDefaultContext() *Context {
	return NewContext(DefaultTables())
}

// SetUp fixes the run metadata. It may be called exactly once; a second
// call, an unsupported era or a zero sample number is fatal.
func (c *Context) SetUp(era Era, sampleID int, mode AnalysisMode, isData bool) {
	if c.setUp {
		fatalf("SetUp", "context %s is already set up, check your code", c.id)
	}
	if !era.IsSupported() {
		fatalf("SetUp", "era set to %q but it has to be one of %s", era, supportedErasString())
	}
	if sampleID == 0 {
		fatalf("SetUp", "sample number cannot be 0")
	}
	c.era = era
	c.sampleID = sampleID
	c.mode = mode
	c.isData = isData
	c.setUp = true
	Opsf("job %s: set up era=%s sample=%d analysis=%s data=%t", c.id, era, sampleID, mode, isData)
}

// ID returns the job identifier used to tag log lines.
func (c *Context) ID() uuid.UUID { return c.id }

// Tables returns the calibration tables. Callers must treat them as read-only.
func (c *Context) Tables() Tables { return c.tables }

// IsSetUp reports whether SetUp has completed.
func (c *Context) IsSetUp() bool { return c.setUp }

// Era returns the configured era.
func (c *Context) Era() Era { return c.era }

// SampleID returns the configured sample number.
func (c *Context) SampleID() int { return c.sampleID }

// AnalysisMode returns the configured analysis mode.
func (c *Context) AnalysisMode() AnalysisMode { return c.mode }

// IsData reports whether the job runs on collision data.
func (c *Context) IsData() bool { return c.isData }

// MustBeSetUp panics with a FatalError if SetUp has not been called.
// op names the calling operation in the error.
func (c *Context) MustBeSetUp(op string) {
	if !c.setUp {
		fatalf(op, "context %s is not set up, call SetUp first", c.id)
	}
}

// SetVertex attaches the primary vertex used for impact-parameter cuts.
func (c *Context) SetVertex(v candidate.Vertex) {
	c.vertex = &v
}

// Vertex returns the attached primary vertex.
func (c *Context) Vertex() (candidate.Vertex, bool) {
	if c.vertex == nil {
		return candidate.Vertex{}, false
	}
	return *c.vertex, true
}

// MustVertex returns the attached primary vertex, panicking with a
// FatalError if none is attached.
func (c *Context) MustVertex(op string) candidate.Vertex {
	if c.vertex == nil {
		fatalf(op, "primary vertex is not set, call SetVertex first")
	}
	return *c.vertex
}

// SetRho attaches the event-wide pileup energy density.
func (c *Context) SetRho(rho float64) {
	c.rho = &rho
}

// Rho returns the attached pileup density.
func (c *Context) Rho() (float64, bool) {
	if c.rho == nil {
		return 0, false
	}
	return *c.rho, true
}

// SetJetCorrector attaches the event-aware jet energy corrector.
func (c *Context) SetJetCorrector(corrector EventCorrector) {
	if corrector == nil {
		fatalf("SetJetCorrector", "corrector must not be nil")
	}
	c.jetCorrector = corrector
}

// JetCorrector returns the attached event-aware corrector.
func (c *Context) JetCorrector() (EventCorrector, bool) {
	return c.jetCorrector, c.jetCorrector != nil
}

// SetFactorizedJetCorrector attaches the self-contained corrector together
// with the uncertainty evaluator used for JES shifts.
func (c *Context) SetFactorizedJetCorrector(corrector FactorizedCorrector, uncertainty JetUncertainty) {
	if corrector == nil || uncertainty == nil {
		fatalf("SetFactorizedJetCorrector", "corrector and uncertainty must not be nil")
	}
	c.factorized = corrector
	c.uncertainty = uncertainty
}

// SetJetCorrectionUncertainty attaches (or replaces) the uncertainty
// evaluator alone, for use with the event-aware corrector.
func (c *Context) SetJetCorrectionUncertainty(uncertainty JetUncertainty) {
	if uncertainty == nil {
		fatalf("SetJetCorrectionUncertainty", "uncertainty must not be nil")
	}
	c.uncertainty = uncertainty
}

// FactorizedJetCorrector returns the attached self-contained corrector.
func (c *Context) FactorizedJetCorrector() (FactorizedCorrector, bool) {
	return c.factorized, c.factorized != nil
}

// JetUncertainty returns the attached uncertainty evaluator.
func (c *Context) JetUncertainty() (JetUncertainty, bool) {
	return c.uncertainty, c.uncertainty != nil
}
