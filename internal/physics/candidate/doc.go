// Package candidate holds the read-only object model for reconstructed
// particle candidates (muons, electrons, taus, jets) of a single event.
//
// Responsibilities: kinematics (P4), track and vertex geometry, isolation
// sums and named discriminator lookup.
// Key types: P4, Track, Vertex, Muon, Electron, Tau, Jet.
//
// Optional sub-objects (tracks, superclusters) are pointers. A nil pointer
// means the quantity is unavailable, which is never the same as zero.
//
// Dependency rule: this is the bottom layer. It must not import any other
// package under internal/physics.
package candidate
