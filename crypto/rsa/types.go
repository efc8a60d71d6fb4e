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

// Package rsa implements the FIPS 186-4 Appendix B.3 RSA prime-pair
// engine: probable primes, provable primes, and the auxiliary-prime
// variants of both, built on top of the C.9 embedding subroutine.
package rsa

import "math/big"

var (
	big0 = big.NewInt(0)
	big1 = big.NewInt(1)
	big2 = big.NewInt(2)
)

// PrimePair is a candidate RSA (p, q) pair satisfying the modulus
// separation bound |p - q| > 2^(N/2-100).
type PrimePair struct {
	P, Q *big.Int
}

// ProvablePrimeResult is the output of ifcProvablePrime (the internal
// workhorse behind GenerateProvablePrimes and
// GenerateProvablePrimesWithConditions): a single provable prime plus
// the seed material needed to audit its construction.
type ProvablePrimeResult struct {
	Prime       *big.Int
	PrimeSeed   *big.Int
	PrimeGenCounter int
}

// AuxiliaryEmbeddingResult is the output of
// GenerateProbablePrimeWithAuxiliaryPrimes (FIPS C.9): the embedded
// prime Y together with the unreduced random X used to build it, which
// callers must keep around only long enough to check the |Xp - Xq|
// separation bound before wiping.
type AuxiliaryEmbeddingResult struct {
	Y *big.Int
	X *big.Int
}
