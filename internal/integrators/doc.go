// Package integrators provides the time-stepping schemes for gravitational
// systems:
//
//   - [RK4]: fixed-step classical Runge-Kutta, 4 kernel calls per step
//   - [Dopri54]: adaptive embedded Dormand-Prince 5(4), 7 kernel calls,
//     bounded local error with step rejection
//   - [Leapfrog]: symplectic kick-drift-kick, 1 kernel call, bounded
//     long-horizon energy drift
//
// Every integrator mutates the supplied [body.System] in place and owns
// reusable scratch buffers sized lazily to the body count. Instances are
// cheap but not safe for concurrent use; give each concurrently-advancing
// system its own integrator.
package integrators
