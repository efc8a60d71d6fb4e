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
	"context"
	"math/big"

	"github.com/getamis/fips186/crypto/bigutil"
	"github.com/getamis/fips186/crypto/fipserr"
	"github.com/getamis/fips186/crypto/fipshash"
	"github.com/getamis/fips186/crypto/keysize"
	"github.com/getamis/fips186/crypto/primality"
	"github.com/getamis/fips186/crypto/randsrc"
	"github.com/getamis/fips186/logger"
)

var (
	big0 = big.NewInt(0)
	big1 = big.NewInt(1)
	big2 = big.NewInt(2)
)

// n, b are the hash-concatenation geometry FIPS 186-4 A.1.1.2 derives
// from (L, outlen): n = ceil(L/outlen) - 1, b = L - 1 - n*outlen.
func probableGeometry(l, outlen int) (n, b int) {
	if l%outlen == 0 {
		n = l/outlen - 1
	} else {
		n = l / outlen
	}
	b = l - 1 - n*outlen
	return n, b
}

// GenerateProbablePrimes implements FIPS 186-4 Appendix A.1.1.2. It never
// returns a spontaneous GenerationFailed: the outer search re-seeds q and
// retries until ctx is cancelled, at which point it returns the context's
// error. Callers that want a bound should pass a context with a deadline
// or wrap the call with their own retry cap.
func GenerateProbablePrimes(ctx context.Context, n, l, seedLength int, h fipshash.Hash, rnd randsrc.Source) (ProbablePrimesResult, error) {
	if !keysize.IsFFCApproved(n, l) {
		return ProbablePrimesResult{}, fipserr.New(fipserr.BadParameters, "unapproved (N,L) pair")
	}
	if seedLength < n {
		return ProbablePrimesResult{}, fipserr.New(fipserr.BadParameters, "seedLength must be >= N")
	}
	outlen := h.DigestSize() * 8
	if outlen < n {
		return ProbablePrimesResult{}, fipserr.New(fipserr.BadParameters, "hash output too small for N")
	}

	nGeom, b := probableGeometry(l, outlen)
	counts := keysize.MillerRabinTestsForDSA(n, l)

	twoPowNMin1 := new(big.Int).Lsh(big1, uint(n-1))
	twoPowSeedLength := new(big.Int).Lsh(big1, uint(seedLength))
	twoPowOutLength := new(big.Int).Lsh(big1, uint(outlen))
	twoPowLMin1 := new(big.Int).Lsh(big1, uint(l-1))
	twoPowB := new(big.Int).Lsh(big1, uint(b))

	for {
		if err := ctx.Err(); err != nil {
			return ProbablePrimesResult{}, err
		}

		seed, q, err := findQ(rnd, h, seedLength, twoPowNMin1, counts.QTests)
		if err != nil {
			return ProbablePrimesResult{}, err
		}

		twoTimesQ := new(big.Int).Mul(big2, q)

		offset := 1
		for counter := 0; counter <= 4*l-1; counter++ {
			p := candidateP(h, seed, offset, nGeom, b, twoPowSeedLength, twoPowOutLength, twoPowLMin1, twoPowB, twoTimesQ)
			if p.Cmp(twoPowLMin1) >= 0 && primality.MillerRabin(p, counts.PTests, rnd) && primality.LucasTest(p) {
				return ProbablePrimesResult{
					Primes:  Primes{P: p, Q: q},
					Seed:    seed,
					Counter: counter,
				}, nil
			}
			offset += nGeom + 1
		}

		logger.Logger().Debug("probable-primes candidate search exhausted counter bound, reseeding q")
	}
}

// findQ draws a seedLength-bit domain_parameter_seed (top bit forced, per
// the latest FIPS 186-4 revision — see DESIGN.md's Open Question note) and
// derives q from it until one passes Miller-Rabin and Lucas.
func findQ(rnd randsrc.Source, h fipshash.Hash, seedLength int, twoPowNMin1 *big.Int, qTests int) (seed, q *big.Int, err error) {
	for {
		seed, err = rnd.RandomBits(seedLength)
		if err != nil {
			return nil, nil, err
		}
		seed.SetBit(seed, seedLength-1, 1)

		q = computeQ(h, seed, twoPowNMin1)
		if primality.MillerRabin(q, qTests, rnd) && primality.LucasTest(q) {
			return seed, q, nil
		}
	}
}

func candidateP(h fipshash.Hash, seed *big.Int, offset, n, b int, twoPowSeedLength, twoPowOutLength, twoPowLMin1, twoPowB, twoTimesQ *big.Int) *big.Int {
	w := big.NewInt(0)
	power := big.NewInt(1)
	for j := 0; j < n; j++ {
		payload := new(big.Int).Add(seed, big.NewInt(int64(offset+j)))
		payload.Mod(payload, twoPowSeedLength)
		v := new(big.Int).SetBytes(h.Digest(bigutil.IntToBytes(payload, 0, bigutil.BigEndian)))
		v.Mul(v, power)
		w.Add(w, v)
		power.Mul(power, twoPowOutLength)
	}

	payload := new(big.Int).Add(seed, big.NewInt(int64(offset+n)))
	payload.Mod(payload, twoPowSeedLength)
	v := new(big.Int).SetBytes(h.Digest(bigutil.IntToBytes(payload, 0, bigutil.BigEndian)))
	v.Mod(v, twoPowB)
	v.Mul(v, power)
	w.Add(w, v)

	x := new(big.Int).Add(w, twoPowLMin1)
	c := new(big.Int).Mod(x, twoTimesQ)
	p := new(big.Int).Sub(x, c)
	p.Add(p, big1)
	return p
}

// computeQ derives q = 2^(N-1) + U + 1 - (U mod 2) from the seed, per
// FIPS 186-4 A.1.1.2 step 4.3/4.4: this both forces the high bit and
// forces q odd.
func computeQ(h fipshash.Hash, seed *big.Int, twoPowNMin1 *big.Int) *big.Int {
	hashPayload := bigutil.IntToBytes(seed, 0, bigutil.BigEndian)
	u := new(big.Int).SetBytes(h.Digest(hashPayload))
	u.Mod(u, twoPowNMin1)

	q := new(big.Int).Set(twoPowNMin1)
	q.Add(q, u)
	q.Add(q, big1)
	if u.Bit(0) == 1 {
		q.Sub(q, big1)
	}
	return q
}

// VerifyProbablePrimesGenerationResult implements FIPS 186-4 Appendix
// A.1.1.3: it recomputes q from the seed, retraces exactly Counter+1
// candidate derivations, and accepts only if the first candidate that
// passes the primality battery is reached exactly at index Counter and
// equals the supplied p. An earlier successful candidate is a reject:
// that is the whole point of the scheme, proving p is the first valid
// candidate derived from this seed and was not cherry-picked from among
// later ones.
func VerifyProbablePrimesGenerationResult(result ProbablePrimesResult, h fipshash.Hash, rnd randsrc.Source) bool {
	p := result.Primes.P
	q := result.Primes.Q
	seed := result.Seed
	counter := result.Counter

	n := q.BitLen()
	l := p.BitLen()
	if !keysize.IsFFCApproved(n, l) {
		return false
	}
	if counter > 4*l-1 {
		return false
	}
	seedLength := seed.BitLen()
	if seedLength < n {
		return false
	}

	outlen := h.DigestSize() * 8
	counts := keysize.MillerRabinTestsForDSA(n, l)

	twoPowNMin1 := new(big.Int).Lsh(big1, uint(n-1))
	computedQ := computeQ(h, seed, twoPowNMin1)
	if computedQ.Cmp(q) != 0 {
		return false
	}
	if !primality.MillerRabin(computedQ, counts.QTests, rnd) || !primality.LucasTest(computedQ) {
		return false
	}

	nGeom, b := probableGeometry(l, outlen)
	twoPowSeedLength := new(big.Int).Lsh(big1, uint(seedLength))
	twoPowOutLength := new(big.Int).Lsh(big1, uint(outlen))
	twoPowLMin1 := new(big.Int).Lsh(big1, uint(l-1))
	twoPowB := new(big.Int).Lsh(big1, uint(b))
	twoTimesQ := new(big.Int).Mul(big2, q)

	offset := 1
	for i := 0; i <= counter; i++ {
		computedP := candidateP(h, seed, offset, nGeom, b, twoPowSeedLength, twoPowOutLength, twoPowLMin1, twoPowB, twoTimesQ)
		if computedP.Cmp(twoPowLMin1) < 0 {
			offset += nGeom + 1
			continue
		}
		if primality.MillerRabin(computedP, counts.PTests, rnd) && primality.LucasTest(computedP) {
			if i == counter {
				return computedP.Cmp(p) == 0
			}
			return false
		}
		offset += nGeom + 1
	}
	return false
}
