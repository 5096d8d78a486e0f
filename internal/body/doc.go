// Package body provides the mutable state container for gravitational
// simulations.
//
// A [System] stores positions, velocities, accelerations and masses as
// parallel slices indexed by body (structure of arrays), so the O(n²)
// force kernel and the integrator stage loops walk one component at a
// time with sequential memory access.
//
// A System is exclusively owned by its caller. Exactly one integrator
// call may mutate it at a time; independent Systems can be advanced
// concurrently without synchronization since no state is shared.
//
// # Diagnostics
//
// Energy and momentum queries are computed from the current state:
//
//	sys := body.New()
//	sys.AddBody(body.Vec3{}, body.Vec3{}, 5.97217e24)
//	e := sys.TotalEnergy()
//	L := sys.AngularMomentum()
package body
