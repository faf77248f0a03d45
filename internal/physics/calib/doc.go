// Package calib owns the per-job calibration context shared by every
// selection and correction component.
//
// Responsibilities: run metadata (era, sample, data flag, analysis mode),
// presence-tracked attached state (primary vertex, pileup density, jet
// corrector services), versioned calibration tables, and the ops/diag/trace
// log streams.
//
// Fatal configuration errors (double set-up, unsupported era, zero sample
// number, use before set-up) panic with *FatalError. Missing optional
// services are reported through accessors returning (value, ok) so callers
// can degrade instead.
//
// Dependency rule: calib may depend on candidate only.
package calib
