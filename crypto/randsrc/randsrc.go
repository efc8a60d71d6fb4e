// Copyright © 2020 AMIS Technologies
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package randsrc wraps the cryptographically strong random-bit source
// that the primality and prime-construction routines consume, behind a
// small interface so deterministic byte streams can be injected in tests
// of the probable-primes path (the provable/Shawe-Taylor paths already
// take their randomness explicitly, as a seed argument).
package randsrc

import (
	"crypto/rand"
	"io"
	"math/big"

	"github.com/getamis/fips186/crypto/fipserr"
)

// Source produces uniformly random unsigned integers in [0, 2^n). Callers
// that need the top bit forced (FIPS 186-4's domain_parameter_seed and
// RSA seed draws both do) set it themselves with big.Int.SetBit, the same
// way the construction routines force oddness or clamp into a range.
type Source interface {
	RandomBits(n int) (*big.Int, error)
}

// CryptoSource draws randomness from the OS CSPRNG (crypto/rand).
type CryptoSource struct {
	Reader io.Reader
}

// NewCryptoSource returns a Source backed by crypto/rand.Reader.
func NewCryptoSource() *CryptoSource {
	return &CryptoSource{Reader: rand.Reader}
}

func (s *CryptoSource) RandomBits(n int) (*big.Int, error) {
	if n <= 0 {
		return nil, fipserr.New(fipserr.BadParameters, "bit length must be positive")
	}
	numBytes := (n + 7) / 8
	buf := make([]byte, numBytes)
	if _, err := io.ReadFull(s.Reader, buf); err != nil {
		return nil, err
	}
	v := new(big.Int).SetBytes(buf)

	// Clear any excess high bits above n; the result is uniform in
	// [0, 2^n).
	mod := new(big.Int).Lsh(big.NewInt(1), uint(n))
	v.Mod(v, mod)
	return v, nil
}

// FixedSource replays a fixed sequence of values, one per call to
// RandomBits, regardless of the requested bit length. It exists so the
// routines that draw from a Source rather than taking a seed argument
// (the DSA probable-primes outer loop, the RSA probable-prime and C.9
// searches) can be driven deterministically in tests.
type FixedSource struct {
	Values []*big.Int
	next   int
}

func NewFixedSource(values ...*big.Int) *FixedSource {
	return &FixedSource{Values: values}
}

func (s *FixedSource) RandomBits(n int) (*big.Int, error) {
	if s.next >= len(s.Values) {
		return nil, fipserr.New(fipserr.GenerationFailed, "fixed source exhausted")
	}
	v := s.Values[s.next]
	s.next++
	return v, nil
}
