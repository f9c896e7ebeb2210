package field

import (
	"errors"
	"math/big"
)

// DefaultPrime is the Mersenne prime 2^127-1, the default GF(p) modulus for
// secret sharing.
var DefaultPrime = mersenne127()

func mersenne127() *big.Int {
	p := new(big.Int).Lsh(big.NewInt(1), 127)
	return p.Sub(p, big.NewInt(1))
}

// ErrNotPrime is returned when a candidate field modulus fails a
// probabilistic primality test.
var ErrNotPrime = errors.New("field: modulus is not prime")

// Field is a prime field GF(p) used as the coefficient field for Shamir
// secret sharing. All arithmetic performed through a Field is reduced
// modulo its prime.
type Field struct {
	p *big.Int
}

// New constructs a Field over the given prime modulus. p must be >= 2 and
// pass a probabilistic primality test (20 Miller-Rabin rounds, matching the
// confidence level the standard library recommends for cryptographic use).
func New(p *big.Int) (*Field, error) {
	if p == nil || p.Cmp(big.NewInt(2)) < 0 {
		return nil, errors.New("field: modulus must be >= 2")
	}
	if !p.ProbablyPrime(20) {
		return nil, ErrNotPrime
	}
	return &Field{p: new(big.Int).Set(p)}, nil
}

// Default returns a Field over DefaultPrime.
func Default() *Field {
	f, err := New(DefaultPrime)
	if err != nil {
		// DefaultPrime is a well-known Mersenne prime; this cannot fail.
		panic(err)
	}
	return f
}

// Prime returns the field's modulus.
func (f *Field) Prime() *big.Int {
	return new(big.Int).Set(f.p)
}

// BitLen returns the bit length of the field's modulus.
func (f *Field) BitLen() int {
	return f.p.BitLen()
}

// Contains reports whether x is a valid field element, i.e. 0 <= x < p.
func (f *Field) Contains(x *big.Int) bool {
	return x.Sign() >= 0 && x.Cmp(f.p) < 0
}

func (f *Field) add(a, b *big.Int) *big.Int {
	r := new(big.Int).Add(a, b)
	return r.Mod(r, f.p)
}

func (f *Field) sub(a, b *big.Int) *big.Int {
	r := new(big.Int).Sub(a, b)
	return r.Mod(r, f.p)
}

func (f *Field) mul(a, b *big.Int) *big.Int {
	r := new(big.Int).Mul(a, b)
	return r.Mod(r, f.p)
}

// inverse returns the multiplicative inverse of a modulo p via the extended
// Euclidean algorithm (big.Int.ModInverse). p is prime, so every nonzero
// element is invertible.
func (f *Field) inverse(a *big.Int) (*big.Int, error) {
	if a.Sign() == 0 {
		return nil, errors.New("field: cannot invert zero")
	}
	r := new(big.Int).Mod(a, f.p)
	inv := new(big.Int).ModInverse(r, f.p)
	if inv == nil {
		return nil, errors.New("field: element not invertible")
	}
	return inv, nil
}
