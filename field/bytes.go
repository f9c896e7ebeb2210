package field

import (
	"fmt"
	"io"
	"math/big"
)

// ChunkSize returns the number of bytes that fit in one field element with
// a clear high bit, i.e. floor(log2(p) / 8).
func (f *Field) ChunkSize() int {
	return (f.p.BitLen() - 1) / 8
}

// ShareBytes splits data into field-sized chunks (big-endian, ChunkSize
// bytes) and shares each chunk independently with the same (n, t). It
// returns one share slice per chunk, plus the original byte length needed
// to trim padding on reconstruction.
func (f *Field) ShareBytes(data []byte, n, t int, rng io.Reader) ([][]Share, int, error) {
	chunkSize := f.ChunkSize()
	if chunkSize <= 0 {
		return nil, 0, fmt.Errorf("field: prime too small for byte-level sharing")
	}

	var chunks [][]Share
	for offset := 0; offset < len(data); offset += chunkSize {
		end := offset + chunkSize
		if end > len(data) {
			end = len(data)
		}
		secret := new(big.Int).SetBytes(data[offset:end])
		if !f.Contains(secret) {
			return nil, 0, ErrFieldOverflow
		}
		shares, err := f.Share(secret, n, t, rng)
		if err != nil {
			return nil, 0, err
		}
		chunks = append(chunks, shares)
	}
	return chunks, len(data), nil
}

// ReconstructBytes reconstructs the original byte string from per-chunk
// share slices (each with at least t shares for the chunk's threshold) and
// the original length, trimming the final chunk's padding.
func (f *Field) ReconstructBytes(chunks [][]Share, originalLength int) ([]byte, error) {
	chunkSize := f.ChunkSize()
	result := make([]byte, 0, originalLength)

	for _, shares := range chunks {
		secret, err := f.Reconstruct(shares)
		if err != nil {
			return nil, err
		}

		remaining := originalLength - len(result)
		thisChunk := chunkSize
		if remaining < thisChunk {
			thisChunk = remaining
		}

		buf := secret.FillBytes(make([]byte, chunkSize))
		result = append(result, buf[chunkSize-thisChunk:]...)
	}

	if len(result) != originalLength {
		return nil, fmt.Errorf("field: reconstructed %d bytes, expected %d", len(result), originalLength)
	}
	return result, nil
}
