// Package jec applies jet energy corrections and JES systematic shifts.
//
// Responsibilities:
//   - restore raw (level-0) jet momenta
//   - scale jets with the event-aware corrector or the factorized level chain
//   - shift corrected jets up or down by the JES uncertainty
//
// Dependency rule: jec reads services and pileup density from a
// calib.Context and never mutates it. Every output is a fresh slice except
// the degraded factorized path, which returns its input unchanged.
package jec
