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

package dsa

import (
	"math/big"

	"github.com/getamis/fips186/crypto/bigutil"
	"github.com/getamis/fips186/crypto/fipserr"
	"github.com/getamis/fips186/crypto/fipshash"
	"github.com/getamis/fips186/crypto/keysize"
	"github.com/getamis/fips186/crypto/primality"
)

// GenerateProvablePrimes implements FIPS 186-4 Appendix A.1.2.1.2: it
// derives q and an intermediate p0 via Shawe-Taylor, then walks a
// Pocklington-style witness loop to build a provable p with q*p0 | (p-1).
func GenerateProvablePrimes(n, l int, firstSeed *big.Int, h fipshash.Hash) (ProvablePrimesResult, error) {
	if !keysize.IsFFCApproved(n, l) {
		return ProvablePrimesResult{}, fipserr.New(fipserr.BadParameters, "unapproved (N,L) pair")
	}
	twoPowNMin1 := new(big.Int).Lsh(big1, uint(n-1))
	if firstSeed.Cmp(twoPowNMin1) < 0 {
		return ProvablePrimesResult{}, fipserr.New(fipserr.BadParameters, "firstSeed must be >= 2^(N-1)")
	}

	qResult := primality.ShaweTaylor(n, firstSeed, h)
	if !qResult.OK {
		return ProvablePrimesResult{}, fipserr.New(fipserr.GenerationFailed, "shawe-taylor failed to construct q")
	}
	q := qResult.Prime
	qSeed := qResult.PrimeSeed
	qGenCounter := qResult.PrimeGenCounter

	p0Length := ceilDiv(l, 2) + 1
	p0Result := primality.ShaweTaylor(p0Length, qSeed, h)
	if !p0Result.OK {
		return ProvablePrimesResult{}, fipserr.New(fipserr.GenerationFailed, "shawe-taylor failed to construct p0")
	}
	p0 := p0Result.Prime
	pSeed := p0Result.PrimeSeed
	oldCounter := p0Result.PrimeGenCounter

	outlen := h.DigestSize() * 8
	iters := ceilDiv(l, outlen) - 1

	twoPowLMin1 := new(big.Int).Lsh(big1, uint(l-1))
	qp0 := new(big.Int).Mul(q, p0)
	twoQP0 := new(big.Int).Mul(big2, qp0)

	x := hashConcatExported(h, pSeed, iters)
	pSeed = new(big.Int).Add(pSeed, big.NewInt(int64(iters+1)))
	x.Mod(x, twoPowLMin1)
	x.Add(x, twoPowLMin1)

	t := ceilDivBig(x, twoQP0)

	twoPowL := new(big.Int).Lsh(big1, uint(l))
	pGenCounter := oldCounter

	for {
		check := new(big.Int).Mul(big2, t)
		check.Mul(check, qp0)
		check.Add(check, big1)
		if check.Cmp(twoPowL) > 0 {
			t = ceilDivBig(twoPowLMin1, twoQP0)
		}

		p := new(big.Int).Mul(big2, t)
		p.Mul(p, qp0)
		p.Add(p, big1)
		pGenCounter++

		a := hashConcatExported(h, pSeed, iters)
		pSeed = new(big.Int).Add(pSeed, big.NewInt(int64(iters+1)))

		pMinus3 := new(big.Int).Sub(p, big.NewInt(3))
		a.Mod(a, pMinus3)
		a.Add(a, big2)

		twoTQ := new(big.Int).Mul(big2, t)
		twoTQ.Mul(twoTQ, q)
		z := new(big.Int).Exp(a, twoTQ, p)

		zMinus1 := new(big.Int).Sub(z, big1)
		g := bigutil.Gcd(zMinus1, p)
		zp0 := new(big.Int).Exp(z, p0, p)

		if g.Cmp(big1) == 0 && zp0.Cmp(big1) == 0 {
			return ProvablePrimesResult{
				Primes:      Primes{P: p, Q: q},
				FirstSeed:   firstSeed,
				PSeed:       pSeed,
				QSeed:       qSeed,
				PGenCounter: pGenCounter,
				QGenCounter: qGenCounter,
			}, nil
		}

		if pGenCounter > 4*l+oldCounter {
			return ProvablePrimesResult{}, fipserr.New(fipserr.GenerationFailed, "exceeded prime generation counter bound")
		}
		t = new(big.Int).Add(t, big1)
	}
}

// VerifyProvablePrimesGenerationResult re-derives the full generation
// from FirstSeed and accepts iff every produced value matches the
// supplied result bit-for-bit.
func VerifyProvablePrimesGenerationResult(result ProvablePrimesResult, n, l int, h fipshash.Hash) bool {
	recomputed, err := GenerateProvablePrimes(n, l, result.FirstSeed, h)
	if err != nil {
		return false
	}
	return recomputed.Primes.P.Cmp(result.Primes.P) == 0 &&
		recomputed.Primes.Q.Cmp(result.Primes.Q) == 0 &&
		recomputed.PSeed.Cmp(result.PSeed) == 0 &&
		recomputed.QSeed.Cmp(result.QSeed) == 0 &&
		recomputed.PGenCounter == result.PGenCounter &&
		recomputed.QGenCounter == result.QGenCounter
}

// hashConcatExported mirrors primality's unexported hashConcat helper;
// duplicated at package boundary rather than exported from primality to
// keep that package's surface limited to the primitives spec.md names.
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
