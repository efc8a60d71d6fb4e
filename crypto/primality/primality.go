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

// Package primality implements the FIPS 186-4 Appendix C primality tests:
// Miller-Rabin (C.3.1), the strong Lucas test (C.3.3), deterministic
// trial division, and the Shawe-Taylor constructive prime generator
// (C.6). These are hand-rolled rather than delegated to big.Int's own
// ProbablyPrime because FIPS 186-4 requires the caller to choose the
// exact Miller-Rabin round count t and to run Lucas as a separate,
// explicit pass.
package primality

import (
	"math/big"

	"github.com/getamis/fips186/crypto/bigutil"
	"github.com/getamis/fips186/crypto/fipshash"
	"github.com/getamis/fips186/crypto/randsrc"
)

var (
	big0 = big.NewInt(0)
	big1 = big.NewInt(1)
	big2 = big.NewInt(2)
)

// MillerRabin runs t rounds of the Miller-Rabin test against n, per
// FIPS 186-4 Appendix C.3.1. Error probability is (1/4)^t. Returns false
// for n <= 1.
func MillerRabin(n *big.Int, t int, rnd randsrc.Source) bool {
	if n.Cmp(big1) <= 0 {
		return false
	}
	// 2 and 3 are prime; for n = 3 the witness range [2, n-2] is empty.
	if n.Cmp(big2) == 0 || n.Cmp(big.NewInt(3)) == 0 {
		return true
	}
	if n.Bit(0) == 0 {
		return false
	}

	// Step 1: n - 1 = 2^a * m, m odd.
	nMinus1 := new(big.Int).Sub(n, big1)
	a := 0
	m := new(big.Int).Set(nMinus1)
	for m.Bit(0) == 0 {
		m.Rsh(m, 1)
		a++
	}

	nMinus2 := new(big.Int).Sub(n, big2)
	plen := n.BitLen()

	for i := 0; i < t; i++ {
		// Steps 4.1, 4.2: pick b uniformly in [2, n-2].
		b, err := drawWitness(rnd, plen, nMinus2)
		if err != nil {
			return false
		}

		// Steps 4.3, 4.4
		z := new(big.Int).Exp(b, m, n)
		if z.Cmp(big1) == 0 || z.Cmp(nMinus1) == 0 {
			continue
		}

		// Step 4.5
		composite := true
		for j := 0; j < a-1; j++ {
			z.Exp(z, big2, n)
			if z.Cmp(big1) == 0 {
				return false
			}
			if z.Cmp(nMinus1) == 0 {
				composite = false
				break
			}
		}
		if composite {
			// Step 4.6
			return false
		}
	}
	// Step 5
	return true
}

// drawWitness draws a uniform value in [2, n-2] (inclusive), rejecting
// out-of-range draws the way FIPS 186-4's reference pseudocode does.
func drawWitness(rnd randsrc.Source, plen int, nMinus2 *big.Int) (*big.Int, error) {
	for {
		b, err := rnd.RandomBits(plen)
		if err != nil {
			return nil, err
		}
		if b.Cmp(big2) < 0 || b.Cmp(nMinus2) > 0 {
			continue
		}
		return b, nil
	}
}

// LucasTest runs the strong Lucas probable-prime test, per FIPS 186-4
// Appendix C.3.3. Rejects even n and perfect squares outright.
func LucasTest(n *big.Int) bool {
	if n.Bit(0) == 0 {
		return false
	}
	if bigutil.IsPerfectSquare(n) {
		return false
	}

	// Step 2: find the first D = 5, -7, 9, -11, ... with jacobi(D,n) = -1.
	d := findLucasD(n)
	if d == nil {
		return false
	}

	// Step 3
	k := new(big.Int).Add(n, big1)
	r := k.BitLen() - 1

	invTwo := new(big.Int).ModInverse(big2, n)
	if invTwo == nil {
		return false
	}

	ui := big.NewInt(1)
	vi := big.NewInt(1)
	ut := new(big.Int)
	vt := new(big.Int)
	tmp := new(big.Int)

	for i := r - 1; i >= 0; i-- {
		// Step 6.1: Ut = Ui*Vi mod n
		ut.Mul(ui, vi)
		ut.Mod(ut, n)

		// Step 6.2: Vt = (Ui^2*D + Vi^2) * inv2 mod n
		vt.Mul(ui, ui)
		vt.Mul(vt, d)
		tmp.Mul(vi, vi)
		vt.Add(vt, tmp)
		vt.Mod(vt, n)
		vt.Mul(vt, invTwo)
		vt.Mod(vt, n)

		if k.Bit(i) == 1 {
			// Steps 6.3.1, 6.3.2
			newUi := new(big.Int).Add(ut, vt)
			newUi.Mul(newUi, invTwo)
			newUi.Mod(newUi, n)

			newVi := new(big.Int).Mul(ut, d)
			newVi.Add(newVi, vt)
			newVi.Mul(newVi, invTwo)
			newVi.Mod(newVi, n)

			ui = newUi
			vi = newVi
		} else {
			// Steps 6.3.3, 6.3.4
			ui = new(big.Int).Set(ut)
			vi = new(big.Int).Set(vt)
		}
	}

	// Step 7
	return ui.Sign() == 0
}

// findLucasD searches D = 5, -7, 9, -11, ... for the first value with
// jacobi(D, n) = -1, returning nil if a 0 Jacobi symbol is found first
// (a definite proof of compositeness).
func findLucasD(n *big.Int) *big.Int {
	d := big.NewInt(5)
	sign := 1
	for {
		candidate := new(big.Int).Set(d)
		if sign < 0 {
			candidate.Neg(candidate)
		}
		s, err := bigutil.Jacobi(candidate, n)
		if err != nil {
			return nil
		}
		if s == 0 {
			return nil
		}
		if s == -1 {
			return candidate
		}
		d.Add(d, big2)
		sign = -sign
	}
}

// TrialDivision is a deterministic compositeness check against a fixed
// table of small primes, per FIPS 186-4 Appendix C.3.2. Rejects perfect
// squares, reports composite on the first divisor found, and otherwise
// walks odd divisors up to floor(sqrt(n)).
func TrialDivision(n *big.Int) bool {
	if n.Cmp(big2) < 0 {
		return false
	}
	if bigutil.IsPerfectSquare(n) {
		return false
	}

	for _, p := range smallPrimes {
		prime := new(big.Int).SetUint64(p)
		if n.Cmp(prime) == 0 {
			return true
		}
		if prime.Cmp(n) > 0 {
			return true
		}
		mod := new(big.Int).Mod(n, prime)
		if mod.Sign() == 0 {
			return false
		}
	}

	root := bigutil.IRoot(2, n)
	x := new(big.Int).SetUint64(smallPrimes[len(smallPrimes)-1])
	x.Add(x, big2)
	mod := new(big.Int)
	for x.Cmp(root) <= 0 {
		mod.Mod(n, x)
		if mod.Sign() == 0 {
			return false
		}
		x.Add(x, big2)
	}
	return true
}

// ShaweTaylorResult is the outcome of a Shawe-Taylor constructive prime
// generation.
type ShaweTaylorResult struct {
	OK              bool
	Prime           *big.Int
	PrimeSeed       *big.Int
	PrimeGenCounter int
}

// ShaweTaylor deterministically constructs a provable prime of the
// requested bit length from inputSeed and hash h, per FIPS 186-4
// Appendix C.6. Two calls with identical (length, inputSeed, h) always
// produce an identical result.
func ShaweTaylor(length int, inputSeed *big.Int, h fipshash.Hash) ShaweTaylorResult {
	if length < 2 {
		return ShaweTaylorResult{}
	}

	twoPowLengthMin1 := new(big.Int).Lsh(big1, uint(length-1))

	if length < 33 {
		primeSeed := new(big.Int).Set(inputSeed)
		counter := 0
		for {
			c0 := hashToInt(h, primeSeed)
			c1 := hashToInt(h, new(big.Int).Add(primeSeed, big1))
			c := new(big.Int).Xor(c0, c1)

			c.Mod(c, twoPowLengthMin1)
			c.Add(c, twoPowLengthMin1)

			half := new(big.Int).Div(c, big2)
			c.Mul(half, big2)
			c.Add(c, big1)

			counter++
			primeSeed.Add(primeSeed, big2)

			if TrialDivision(c) {
				return ShaweTaylorResult{OK: true, Prime: c, PrimeSeed: primeSeed, PrimeGenCounter: counter}
			}
			if counter > 4*length {
				return ShaweTaylorResult{}
			}
		}
	}

	smallerLength := ceilDiv(length, 2) + 1
	rec := ShaweTaylor(smallerLength, inputSeed, h)
	if !rec.OK {
		return ShaweTaylorResult{}
	}
	c0 := rec.Prime
	primeSeed := rec.PrimeSeed
	counter := rec.PrimeGenCounter

	outlen := h.DigestSize() * 8
	iters := ceilDiv(length, outlen) - 1
	oldCounter := counter

	twoC0 := new(big.Int).Mul(big2, c0)

	x := hashConcat(h, primeSeed, iters)
	primeSeed = new(big.Int).Add(primeSeed, big.NewInt(int64(iters+1)))
	x.Mod(x, twoPowLengthMin1)
	x.Add(x, twoPowLengthMin1)

	t := ceilDivBig(x, twoC0)

	twoPowLength := new(big.Int).Lsh(big1, uint(length))
	for {
		cCheck := new(big.Int).Mul(big2, t)
		cCheck.Mul(cCheck, c0)
		cCheck.Add(cCheck, big1)
		if cCheck.Cmp(twoPowLength) > 0 {
			t = ceilDivBig(twoPowLengthMin1, twoC0)
		}

		c := new(big.Int).Mul(big2, t)
		c.Mul(c, c0)
		c.Add(c, big1)
		counter++

		a := hashConcat(h, primeSeed, iters)
		primeSeed = new(big.Int).Add(primeSeed, big.NewInt(int64(iters+1)))

		cMinus3 := new(big.Int).Sub(c, big.NewInt(3))
		a.Mod(a, cMinus3)
		a.Add(a, big2)

		twoT := new(big.Int).Mul(big2, t)
		z := new(big.Int).Exp(a, twoT, c)

		zMinus1 := new(big.Int).Sub(z, big1)
		g := bigutil.Gcd(zMinus1, c)
		zc0 := new(big.Int).Exp(z, c0, c)

		if g.Cmp(big1) == 0 && zc0.Cmp(big1) == 0 {
			return ShaweTaylorResult{OK: true, Prime: c, PrimeSeed: primeSeed, PrimeGenCounter: counter}
		}

		if counter >= 4*length+oldCounter {
			return ShaweTaylorResult{}
		}
		t = new(big.Int).Add(t, big1)
	}
}

func hashToInt(h fipshash.Hash, seed *big.Int) *big.Int {
	payload := bigutil.IntToBytes(seed, 0, bigutil.BigEndian)
	return new(big.Int).SetBytes(h.Digest(payload))
}

// hashConcat builds sum_{i=0..iters} H(seed+i) * 2^(i*outlen), the
// repeated construction used in both the Shawe-Taylor recursive case and
// the DSA/RSA provable-primes loops.
func hashConcat(h fipshash.Hash, seed *big.Int, iters int) *big.Int {
	outlen := h.DigestSize() * 8
	twoPowOutlen := new(big.Int).Lsh(big1, uint(outlen))
	x := big.NewInt(0)
	power := big.NewInt(1)
	for i := 0; i <= iters; i++ {
		hv := hashToInt(h, new(big.Int).Add(seed, big.NewInt(int64(i))))
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
