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

package rsa

import (
	"context"
	"math/big"

	"github.com/getamis/fips186/crypto/bigutil"
	"github.com/getamis/fips186/crypto/fipserr"
	"github.com/getamis/fips186/crypto/keysize"
	"github.com/getamis/fips186/crypto/primality"
	"github.com/getamis/fips186/crypto/randsrc"
)

// sqrt2Num, sqrt2Den approximate sqrt(2) as the rational 665857/470832,
// used to reject candidates below sqrt(2)*2^(N/2-1) without floating
// point, per FIPS 186-4 Appendix B.3.3.
var (
	sqrt2Num = big.NewInt(665857)
	sqrt2Den = big.NewInt(470832)
)

// GenerateProbablePrimes implements FIPS 186-4 Appendix B.3.3: draws
// odd floor(N/2)-bit candidates for p, then q, each rejected below
// sqrt(2)*2^(N/2-1), rejected if not coprime to e, and accepted on
// millerRabinTestsForIFC(N) Miller-Rabin rounds. p's search aborts after
// 5*N/2 rejects; q's search folds the |p-q| separation check into that
// same counter, so a q redrawn for failing separation counts against
// the same 5*N/2 budget rather than a fresh one.
func GenerateProbablePrimes(ctx context.Context, n int, e *big.Int, rnd randsrc.Source) (pair PrimePair, err error) {
	if !keysize.IsIFCApproved(n) || !validExponent(e) {
		return PrimePair{}, fipserr.New(fipserr.BadParameters, "invalid N or e for probable RSA primes")
	}
	halfN := n / 2
	pTests, qTests := keysize.MillerRabinTestsForIFC(n)
	maxRejects := 5 * halfN

	p, err := drawProbablePrime(ctx, halfN, e, pTests, maxRejects, rnd, nil, 0)
	if err != nil {
		return PrimePair{}, err
	}

	q, err := drawProbablePrime(ctx, halfN, e, qTests, maxRejects, rnd, p, n)
	if err != nil {
		return PrimePair{}, err
	}
	return PrimePair{P: p, Q: q}, nil
}

// drawProbablePrime draws a candidate and accepts it once it clears the
// sqrt(2) bound, is coprime to e, and passes Miller-Rabin, all within a
// single reject-counted loop bounded at maxRejects. When other is
// non-nil, a candidate also has to satisfy the |candidate-other|
// separation bound before it is accepted — counted against the same
// budget rather than a fresh one, so the whole draw-and-separate search
// aborts after maxRejects rejects total, per FIPS 186-4 Appendix B.3.3.
func drawProbablePrime(ctx context.Context, length int, e *big.Int, tests, maxRejects int, rnd randsrc.Source, other *big.Int, n int) (*big.Int, error) {
	lowerBound := new(big.Int).Lsh(big1, uint(length-1))

	for reject := 0; reject < maxRejects; reject++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		candidate, err := rnd.RandomBits(length)
		if err != nil {
			return nil, err
		}
		candidate.SetBit(candidate, length-1, 1)
		candidate.SetBit(candidate, 0, 1)

		if !aboveSqrt2Bound(candidate, lowerBound) {
			continue
		}
		if bigutil.Gcd(new(big.Int).Sub(candidate, big1), e).Cmp(big1) != 0 {
			continue
		}
		if !primality.MillerRabin(candidate, tests, rnd) {
			continue
		}
		if other != nil && !separated(other, candidate, n) {
			continue
		}
		return candidate, nil
	}
	return nil, fipserr.New(fipserr.GenerationFailed, "exhausted reject bound searching for probable prime")
}

// aboveSqrt2Bound reports whether candidate >= sqrt(2)*lowerBound,
// computed as candidate*sqrt2Den >= lowerBound*sqrt2Num to stay in
// exact integer arithmetic.
func aboveSqrt2Bound(candidate, lowerBound *big.Int) bool {
	lhs := new(big.Int).Mul(candidate, sqrt2Den)
	rhs := new(big.Int).Mul(lowerBound, sqrt2Num)
	return lhs.Cmp(rhs) >= 0
}
