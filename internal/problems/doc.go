// Package problems provides parameterized systems F(u, lambda) = 0 for
// continuation.
//
// Each problem implements the [contin.Problem] interface, supplying the
// residual, a Jacobian solve, the convergence norm, and dF/dlambda:
//
//   - [Linear]: u - lambda*c, the trivial straight branch
//   - [Pitchfork]: lambda*u - u^3 + mu, an imperfect pitchfork
//   - [Fold]: u^2 + lambda - a, a turning point natural continuation
//     cannot pass
//   - [Bratu]: the 1-D Gelfand-Bratu boundary value problem on a
//     finite-difference grid
//
// Most problems also implement [contin.Tunable] for runtime coefficient
// adjustment.
package problems
