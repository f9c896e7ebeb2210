package simulate

import (
	"encoding/binary"
	"math/rand/v2"
)

// randReader adapts a math/rand/v2 PCG-backed Rand to io.Reader so it can
// be handed to field.Field.Share, which only knows how to consume an
// io.Reader. field's own randomness (crypto/rand) is never touched here.
type randReader struct {
	rng *rand.Rand
}

func newRandReader(rng *rand.Rand) *randReader {
	return &randReader{rng: rng}
}

func (r *randReader) Read(p []byte) (int, error) {
	total := len(p)
	for len(p) >= 8 {
		binary.LittleEndian.PutUint64(p, r.rng.Uint64())
		p = p[8:]
	}
	if len(p) > 0 {
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], r.rng.Uint64())
		copy(p, buf[:len(p)])
	}
	return total, nil
}

func newSeededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xd1b54a32d192ed03))
}
