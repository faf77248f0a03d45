// Package selection owns object identification for muons, electrons, taus
// and jets.
//
// Responsibilities: per-type working-point enumerations mapped onto static
// cut tables, the identity predicates that combine kinematic, isolation and
// identification gates, and the order-preserving Select operator.
// Key types: Selector, Decision, MuonID, ElectronID, TauID, JetID.
//
// Dependency rule: selection may depend on candidate, calib, isolation and
// btag, never on jec.
package selection
