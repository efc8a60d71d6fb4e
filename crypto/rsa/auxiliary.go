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
	"github.com/getamis/fips186/crypto/fipshash"
	"github.com/getamis/fips186/crypto/keysize"
	"github.com/getamis/fips186/crypto/primality"
	"github.com/getamis/fips186/crypto/randsrc"
)

// GenerateProbablePrimesWithConditions implements FIPS 186-4 Appendix
// B.3.5 (useProbableAux = false: auxiliary primes are constructed by
// Shawe-Taylor from firstSeed) and B.3.6 (useProbableAux = true:
// auxiliary primes are constructed by rejection-sampling odd candidates
// until Miller-Rabin accepts, and firstSeed/h are unused). Both embed
// the resulting (p1, p2) and (q1, q2) pairs into p and q via C.9, and
// additionally require |Xp - Xq| > 2^(N/2-100) where Xp, Xq are the
// unreduced randoms C.9 drew while constructing p and q.
func GenerateProbablePrimesWithConditions(ctx context.Context, n int, e, firstSeed *big.Int, useProbableAux bool, h fipshash.Hash, rnd randsrc.Source) (pair PrimePair, err error) {
	if !keysize.IsIFCApproved(n) || !validExponent(e) {
		return PrimePair{}, fipserr.New(fipserr.BadParameters, "invalid N or e for RSA primes with auxiliary conditions")
	}
	p1Len, p2Len := keysize.AuxiliaryPrimeLengths(n)
	workingSeed := firstSeed

	p1, p2, workingSeed, err := deriveAuxiliaryPair(ctx, p1Len, p2Len, useProbableAux, workingSeed, h, rnd)
	if err != nil {
		wipeAll(firstSeed, workingSeed, p1, p2)
		return PrimePair{}, err
	}
	pEmbed, err := GenerateProbablePrimeWithAuxiliaryPrimes(ctx, p1, p2, n, e, rnd)
	defer wipeAll(p1, p2, pEmbed.X)
	if err != nil {
		wipeAll(firstSeed, workingSeed)
		return PrimePair{}, err
	}

	q1, q2, workingSeed, err := deriveAuxiliaryPair(ctx, p1Len, p2Len, useProbableAux, workingSeed, h, rnd)
	if err != nil {
		wipeAll(firstSeed, workingSeed, q1, q2)
		return PrimePair{}, err
	}
	defer wipeAll(q1, q2, firstSeed, workingSeed)

	for {
		qEmbed, err := GenerateProbablePrimeWithAuxiliaryPrimes(ctx, q1, q2, n, e, rnd)
		if err != nil {
			return PrimePair{}, err
		}

		xDiff := new(big.Int).Sub(pEmbed.X, qEmbed.X)
		xDiff.Abs(xDiff)
		bound := new(big.Int).Lsh(big1, uint(n/2-100))
		separatedX := xDiff.Cmp(bound) > 0
		wipe(qEmbed.X)

		if !separatedX {
			continue
		}
		if !separated(pEmbed.Y, qEmbed.Y, n) {
			continue
		}
		return PrimePair{P: pEmbed.Y, Q: qEmbed.Y}, nil
	}
}

// deriveAuxiliaryPair builds one (p1, p2)-style auxiliary prime pair,
// either deterministically via Shawe-Taylor (B.3.5) or by rejection
// sampling (B.3.6), returning the seed position reached so the caller
// can chain the next pair from it.
func deriveAuxiliaryPair(ctx context.Context, len1, len2 int, useProbableAux bool, seed *big.Int, h fipshash.Hash, rnd randsrc.Source) (p1, p2, nextSeed *big.Int, err error) {
	if useProbableAux {
		p1, err = drawAuxiliaryProbablePrime(ctx, len1, rnd)
		if err != nil {
			return nil, nil, seed, err
		}
		p2, err = drawAuxiliaryProbablePrime(ctx, len2, rnd)
		if err != nil {
			return nil, nil, seed, err
		}
		return p1, p2, seed, nil
	}

	r1 := primality.ShaweTaylor(len1, seed, h)
	if !r1.OK {
		return nil, nil, seed, fipserr.New(fipserr.GenerationFailed, "shawe-taylor failed to construct auxiliary prime")
	}
	r2 := primality.ShaweTaylor(len2, r1.PrimeSeed, h)
	if !r2.OK {
		return nil, nil, r1.PrimeSeed, fipserr.New(fipserr.GenerationFailed, "shawe-taylor failed to construct auxiliary prime")
	}
	return r1.Prime, r2.Prime, r2.PrimeSeed, nil
}

func drawAuxiliaryProbablePrime(ctx context.Context, length int, rnd randsrc.Source) (*big.Int, error) {
	const maxRejects = 5 * 1024
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
		if primality.MillerRabin(candidate, 38, rnd) && primality.LucasTest(candidate) {
			return candidate, nil
		}
	}
	return nil, fipserr.New(fipserr.GenerationFailed, "exhausted reject bound searching for auxiliary probable prime")
}

// GenerateProbablePrimeWithAuxiliaryPrimes implements FIPS 186-4
// Appendix C.9: it embeds two coprime auxiliary primes p1, p2 into a
// probable prime Y of bit length N/2 such that Y ≡ 1 (mod 2*p1) and
// Y ≡ -1 (mod p2), returning Y alongside the unreduced random X drawn
// during its construction.
func GenerateProbablePrimeWithAuxiliaryPrimes(ctx context.Context, p1, p2 *big.Int, n int, e *big.Int, rnd randsrc.Source) (AuxiliaryEmbeddingResult, error) {
	twoP1 := new(big.Int).Mul(big2, p1)
	if bigutil.Gcd(twoP1, p2).Cmp(big1) != 0 {
		return AuxiliaryEmbeddingResult{}, fipserr.New(fipserr.BadParameters, "gcd(2*p1, p2) != 1")
	}

	r, err := crt1ModMinus1(twoP1, p2)
	if err != nil {
		return AuxiliaryEmbeddingResult{}, err
	}

	halfN := n / 2
	modulus := new(big.Int).Mul(twoP1, p2)
	lowerBound := new(big.Int).Lsh(big1, uint(halfN-1))
	upperBound := new(big.Int).Sub(new(big.Int).Lsh(big1, uint(halfN)), big1)
	maxIters := 5 * halfN
	testCount, _ := keysize.MillerRabinTestsForIFC(n)

	for {
		if err := ctx.Err(); err != nil {
			return AuxiliaryEmbeddingResult{}, err
		}

		x, err := drawXAboveSqrt2(rnd, halfN, lowerBound, upperBound)
		if err != nil {
			return AuxiliaryEmbeddingResult{}, err
		}

		y := new(big.Int).Sub(r, x)
		y.Mod(y, modulus)
		y.Add(y, x)

		accepted := false
		for i := 0; i < maxIters; i++ {
			pow := new(big.Int).Lsh(big1, uint(halfN))
			if y.Cmp(pow) >= 0 {
				break
			}
			if bigutil.Gcd(new(big.Int).Sub(y, big1), e).Cmp(big1) == 0 &&
				primality.MillerRabin(y, testCount, rnd) && primality.LucasTest(y) {
				accepted = true
				break
			}
			y.Add(y, modulus)
		}
		if accepted {
			return AuxiliaryEmbeddingResult{Y: y, X: x}, nil
		}
	}
}

func drawXAboveSqrt2(rnd randsrc.Source, length int, lowerBound, upperBound *big.Int) (*big.Int, error) {
	for {
		x, err := rnd.RandomBits(length)
		if err != nil {
			return nil, err
		}
		x.SetBit(x, length-1, 1)
		if x.Cmp(upperBound) > 0 {
			continue
		}
		if aboveSqrt2Bound(x, lowerBound) {
			return x, nil
		}
	}
}

// crt1ModMinus1 returns R with R ≡ 1 (mod m1) and R ≡ -1 (mod m2), for
// coprime m1, m2, via the standard two-modulus CRT combination.
func crt1ModMinus1(m1, m2 *big.Int) (*big.Int, error) {
	a1 := big.NewInt(1)
	a2 := new(big.Int).Sub(m2, big1)

	m1InvModM2 := new(big.Int).ModInverse(m1, m2)
	if m1InvModM2 == nil {
		return nil, fipserr.New(fipserr.MathDomain, "m1 has no inverse mod m2")
	}

	k := new(big.Int).Sub(a2, a1)
	k.Mul(k, m1InvModM2)
	k.Mod(k, m2)

	r := new(big.Int).Mul(k, m1)
	r.Add(r, a1)
	return r, nil
}
