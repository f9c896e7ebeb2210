// Package field implements Shamir's (N, t)-threshold secret sharing over a
// prime field GF(p).
//
// A secret in [0, p) is encoded as the constant term of a random polynomial
// of degree t-1; evaluating that polynomial at N distinct non-zero points
// produces the shares. Any t of those shares reconstruct the secret via
// Lagrange interpolation at x = 0; fewer than t reveal nothing about it.
//
// The default field is the Mersenne prime 2^127-1, large enough that a
// message chunk fits comfortably below the field order. Share generation
// uses a cryptographic RNG (crypto/rand); this is the only place in the
// module that needs one — the probability engine, phase strategies, and
// optimizer are all deterministic, and the simulator uses a separate,
// seedable, non-cryptographic PRNG (see package simulate).
package field
