package field

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
)

// Share is a single point (x, y) on the sharing polynomial, y = f(x) mod p.
type Share struct {
	X *big.Int
	Y *big.Int
}

// Errors returned by Share and Reconstruct, matching spec.md §7's
// reconstruction-precondition error kinds.
var (
	ErrInvalidThreshold   = errors.New("field: threshold must satisfy 1 <= t <= n < p")
	ErrSecretOutOfRange   = errors.New("field: secret must be in [0, p)")
	ErrDuplicateIndex     = errors.New("field: duplicate share index")
	ErrInsufficientShares = errors.New("field: fewer than t shares supplied")
	ErrFieldOverflow      = errors.New("field: value exceeds the field prime")
)

// Share splits secret into n shares with reconstruction threshold t, using
// rng (expected to be a cryptographically secure source, e.g. crypto/rand)
// to sample the t-1 random polynomial coefficients. Shares are evaluated at
// x = 1..n.
func (f *Field) Share(secret *big.Int, n, t int, rng io.Reader) ([]Share, error) {
	if t < 1 || n < t || big.NewInt(int64(n)).Cmp(f.p) >= 0 {
		return nil, ErrInvalidThreshold
	}
	if !f.Contains(secret) {
		return nil, ErrSecretOutOfRange
	}

	coeffs := make([]*big.Int, t)
	coeffs[0] = new(big.Int).Set(secret)
	for i := 1; i < t; i++ {
		c, err := rand.Int(rng, f.p)
		if err != nil {
			return nil, fmt.Errorf("field: sampling coefficient: %w", err)
		}
		coeffs[i] = c
	}

	shares := make([]Share, n)
	for i := 1; i <= n; i++ {
		x := big.NewInt(int64(i))
		shares[i-1] = Share{X: x, Y: f.evalHorner(coeffs, x)}
	}
	return shares, nil
}

// evalHorner evaluates the polynomial with the given coefficients (low degree
// first) at x, modulo the field prime, using Horner's method.
func (f *Field) evalHorner(coeffs []*big.Int, x *big.Int) *big.Int {
	result := big.NewInt(0)
	for i := len(coeffs) - 1; i >= 0; i-- {
		result = f.add(f.mul(result, x), coeffs[i])
	}
	return result
}

// Reconstruct recovers the secret from any t or more distinct shares via
// Lagrange interpolation at x = 0. The caller is responsible for knowing
// (or otherwise determining) t; Reconstruct itself only requires at least
// one share and relies on duplicate-index detection to catch malformed
// input — callers that need a hard minimum should check len(shares) >= t
// themselves and pass ErrInsufficientShares upward, or call
// ReconstructAtLeast, which does exactly that.
func (f *Field) Reconstruct(shares []Share) (*big.Int, error) {
	if len(shares) == 0 {
		return nil, ErrInsufficientShares
	}

	seen := make(map[string]struct{}, len(shares))
	for _, s := range shares {
		key := s.X.String()
		if _, ok := seen[key]; ok {
			return nil, ErrDuplicateIndex
		}
		seen[key] = struct{}{}
	}

	secret := big.NewInt(0)
	for i, si := range shares {
		num := big.NewInt(1)
		den := big.NewInt(1)
		for j, sj := range shares {
			if i == j {
				continue
			}
			num = f.mul(num, f.sub(big.NewInt(0), sj.X))
			den = f.mul(den, f.sub(si.X, sj.X))
		}
		denInv, err := f.inverse(den)
		if err != nil {
			return nil, fmt.Errorf("field: interpolating: %w", err)
		}
		lagrange := f.mul(num, denInv)
		secret = f.add(secret, f.mul(si.Y, lagrange))
	}
	return secret, nil
}

// ReconstructAtLeast is a convenience wrapper that enforces a minimum share
// count before interpolating, returning ErrInsufficientShares if fewer than
// t shares are supplied. Lagrange interpolation from more than t consistent
// shares still recovers the exact secret, so extra shares are passed through
// to Reconstruct rather than discarded.
func (f *Field) ReconstructAtLeast(shares []Share, t int) (*big.Int, error) {
	if len(shares) < t {
		return nil, ErrInsufficientShares
	}
	return f.Reconstruct(shares)
}
