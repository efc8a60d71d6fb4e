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
	"math/big"

	"github.com/getamis/fips186/crypto/bigutil"
	"github.com/getamis/fips186/crypto/fipserr"
	"github.com/getamis/fips186/crypto/fipshash"
	"github.com/getamis/fips186/crypto/keysize"
	"github.com/getamis/fips186/crypto/primality"
)

// GenerateProvablePrimes implements FIPS 186-4 Appendix B.3.2: two
// chained calls into ifcProvablePrime with no auxiliary primes (p1Len =
// p2Len = 0, i.e. the auxiliary factors collapse to 1), one for p and
// one for q continuing from p's output seed.
func GenerateProvablePrimes(n int, e, firstSeed *big.Int, h fipshash.Hash) (pair PrimePair, err error) {
	if !validProvableParams(n, e) {
		return PrimePair{}, fipserr.New(fipserr.BadParameters, "invalid N or e for provable RSA primes")
	}
	halfN := n / 2

	pResult, err := ifcProvablePrime(halfN, 0, 0, firstSeed, e, h)
	if err != nil {
		wipeAll(firstSeed, pResult.Prime, pResult.PrimeSeed)
		return PrimePair{}, err
	}
	qResult, err := ifcProvablePrime(halfN, 0, 0, pResult.PrimeSeed, e, h)
	defer wipeAll(firstSeed, pResult.PrimeSeed, qResult.PrimeSeed)
	if err != nil {
		return PrimePair{}, err
	}

	if !separated(pResult.Prime, qResult.Prime, n) {
		return PrimePair{}, fipserr.New(fipserr.GenerationFailed, "|p-q| separation bound violated")
	}
	return PrimePair{P: pResult.Prime, Q: qResult.Prime}, nil
}

// GenerateProvablePrimesWithConditions implements FIPS 186-4 Appendix
// B.3.4: the same two chained ifcProvablePrime calls as B.3.2, but each
// embeds auxiliary primes of the table-prescribed (p1Len, p2Len) as
// factors of p-1 (respectively q-1); see ifcProvablePrime. No prime
// factor of p+1 or q+1 is constructed.
func GenerateProvablePrimesWithConditions(n int, e, firstSeed *big.Int, h fipshash.Hash) (pair PrimePair, err error) {
	if !validProvableParams(n, e) {
		return PrimePair{}, fipserr.New(fipserr.BadParameters, "invalid N or e for provable RSA primes")
	}
	halfN := n / 2
	p1Len, p2Len := keysize.AuxiliaryPrimeLengths(n)

	pResult, err := ifcProvablePrime(halfN, p1Len, p2Len, firstSeed, e, h)
	if err != nil {
		wipeAll(firstSeed, pResult.Prime, pResult.PrimeSeed)
		return PrimePair{}, err
	}
	qResult, err := ifcProvablePrime(halfN, p1Len, p2Len, pResult.PrimeSeed, e, h)
	defer wipeAll(firstSeed, pResult.PrimeSeed, qResult.PrimeSeed)
	if err != nil {
		return PrimePair{}, err
	}

	if !separated(pResult.Prime, qResult.Prime, n) {
		return PrimePair{}, fipserr.New(fipserr.GenerationFailed, "|p-q| separation bound violated")
	}
	return PrimePair{P: pResult.Prime, Q: qResult.Prime}, nil
}

// ifcProvablePrime is the FIPS 186-4 Appendix C.10 workhorse: it builds
// one provable prime of the given bit length, optionally carrying
// auxiliary primes p1 (of p1Len bits) and p2 (of p2Len bits). Every
// candidate has the form 2*t*p1*p2*p0 + 1, so p1 and p2 both divide
// prime-1; prime+1 is not given a constructed prime factor. p1Len or
// p2Len of 0 means "no
// auxiliary prime of that kind" (the corresponding factor is fixed at
// 1), reproducing the B.3.2 (no conditions) and B.3.4 (with
// conditions) call shapes from a single routine, as the standard
// itself does.
func ifcProvablePrime(length, p1Len, p2Len int, seed, e *big.Int, h fipshash.Hash) (ProvablePrimeResult, error) {
	p1 := big.NewInt(1)
	p2 := big.NewInt(1)
	workingSeed := seed
	defer func() { wipeAll(p1, p2) }()

	if p1Len > 0 {
		r := primality.ShaweTaylor(p1Len, workingSeed, h)
		if !r.OK {
			return ProvablePrimeResult{}, fipserr.New(fipserr.GenerationFailed, "shawe-taylor failed to construct auxiliary prime p1")
		}
		p1 = r.Prime
		workingSeed = r.PrimeSeed
	}
	if p2Len > 0 {
		r := primality.ShaweTaylor(p2Len, workingSeed, h)
		if !r.OK {
			return ProvablePrimeResult{}, fipserr.New(fipserr.GenerationFailed, "shawe-taylor failed to construct auxiliary prime p2")
		}
		p2 = r.Prime
		workingSeed = r.PrimeSeed
	}

	if bigutil.Gcd(p1, p2).Cmp(big1) != 0 {
		return ProvablePrimeResult{}, fipserr.New(fipserr.MathDomain, "auxiliary primes p1 and p2 are not coprime")
	}

	p0Length := length/2 + 1
	p0Result := primality.ShaweTaylor(p0Length, workingSeed, h)
	if !p0Result.OK {
		return ProvablePrimeResult{}, fipserr.New(fipserr.GenerationFailed, "shawe-taylor failed to construct p0")
	}
	p0 := p0Result.Prime
	pSeed := p0Result.PrimeSeed
	oldCounter := p0Result.PrimeGenCounter

	r := new(big.Int).Mul(p1, p2)
	r.Mul(r, p0)

	outlen := h.DigestSize() * 8
	iters := ceilDiv(length, outlen) - 1

	twoPowLMin1 := new(big.Int).Lsh(big1, uint(length-1))
	twoR := new(big.Int).Mul(big2, r)

	x := hashConcatExported(h, pSeed, iters)
	pSeed = new(big.Int).Add(pSeed, big.NewInt(int64(iters+1)))
	x.Mod(x, twoPowLMin1)
	x.Add(x, twoPowLMin1)

	t := ceilDivBig(x, twoR)
	twoPowL := new(big.Int).Lsh(big1, uint(length))
	pGenCounter := oldCounter

	for {
		check := new(big.Int).Mul(big2, t)
		check.Mul(check, r)
		check.Add(check, big1)
		if check.Cmp(twoPowL) > 0 {
			t = ceilDivBig(twoPowLMin1, twoR)
		}

		p := new(big.Int).Mul(big2, t)
		p.Mul(p, r)
		p.Add(p, big1)
		pGenCounter++

		if bigutil.Gcd(new(big.Int).Sub(p, big1), e).Cmp(big1) == 0 {
			a := hashConcatExported(h, pSeed, iters)
			pSeed = new(big.Int).Add(pSeed, big.NewInt(int64(iters+1)))

			pMinus3 := new(big.Int).Sub(p, big.NewInt(3))
			a.Mod(a, pMinus3)
			a.Add(a, big2)

			twoTR := new(big.Int).Mul(big2, t)
			twoTR.Mul(twoTR, new(big.Int).Mul(p1, p2))
			z := new(big.Int).Exp(a, twoTR, p)

			zMinus1 := new(big.Int).Sub(z, big1)
			g := bigutil.Gcd(zMinus1, p)
			zp0 := new(big.Int).Exp(z, p0, p)

			if g.Cmp(big1) == 0 && zp0.Cmp(big1) == 0 {
				return ProvablePrimeResult{
					Prime:           p,
					PrimeSeed:       pSeed,
					PrimeGenCounter: pGenCounter,
				}, nil
			}
		}

		if pGenCounter > 4*length+oldCounter {
			return ProvablePrimeResult{}, fipserr.New(fipserr.GenerationFailed, "exceeded prime generation counter bound")
		}
		t = new(big.Int).Add(t, big1)
	}
}

func validProvableParams(n int, e *big.Int) bool {
	if n != 2048 && n != 3072 {
		return false
	}
	return validExponent(e)
}

func validExponent(e *big.Int) bool {
	if e.Bit(0) == 0 {
		return false
	}
	lowerBound := new(big.Int).Lsh(big1, 16)
	upperBound := new(big.Int).Lsh(big1, 256)
	return e.Cmp(lowerBound) > 0 && e.Cmp(upperBound) < 0
}

func separated(p, q *big.Int, n int) bool {
	diff := new(big.Int).Sub(p, q)
	diff.Abs(diff)
	bound := new(big.Int).Lsh(big1, uint(n/2-100))
	return diff.Cmp(bound) > 0
}

func ceilDiv(a, b int) int {
	if a%b == 0 {
		return a / b
	}
	return a/b + 1
}

func ceilDivBig(a, b *big.Int) *big.Int {
	q, r := new(big.Int).QuoRem(a, b, new(big.Int))
	if r.Sign() != 0 {
		q.Add(q, big1)
	}
	return q
}

// hashConcatExported mirrors the same helper in package dsa; duplicated
// at package boundary rather than shared, since the two packages'
// generation loops are independent FIPS routines that happen to share a
// hash-chaining idiom.
func hashConcatExported(h fipshash.Hash, seed *big.Int, iters int) *big.Int {
	outlen := h.DigestSize() * 8
	twoPowOutlen := new(big.Int).Lsh(big1, uint(outlen))
	x := big.NewInt(0)
	power := big.NewInt(1)
	for i := 0; i <= iters; i++ {
		payload := bigutil.IntToBytes(new(big.Int).Add(seed, big.NewInt(int64(i))), 0, bigutil.BigEndian)
		hv := new(big.Int).SetBytes(h.Digest(payload))
		hv.Mul(hv, power)
		x.Add(x, hv)
		power.Mul(power, twoPowOutlen)
	}
	return x
}
