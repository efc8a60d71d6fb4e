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
)

// ggenTag is the fixed ASCII label mixed into the verifiable-g hash
// input, per FIPS 186-4 Appendix A.2.3.
var ggenTag = []byte("ggen")

// GenerateUnverifiableG constructs a DSA generator g per FIPS 186-4
// Appendix A.2.1: g = h^((p-1)/q) mod p for the smallest h >= 2 that
// does not yield g = 1. The chosen h is returned alongside g so a caller
// can record it, though unverifiable generation carries no seed a third
// party could use to reproduce the choice.
func GenerateUnverifiableG(p, q *big.Int) (g, h *big.Int, err error) {
	if p.Cmp(big2) <= 0 || q.Cmp(big2) <= 0 {
		return nil, nil, fipserr.New(fipserr.BadParameters, "p and q must exceed 2")
	}
	pMinus1 := new(big.Int).Sub(p, big1)
	e := new(big.Int).Div(pMinus1, q)

	h = big.NewInt(2)
	pMinus2 := new(big.Int).Sub(p, big2)
	for {
		if h.Cmp(pMinus2) > 0 {
			return nil, nil, fipserr.New(fipserr.GenerationFailed, "exhausted candidate generators below p-1")
		}
		g = new(big.Int).Exp(h, e, p)
		if g.Cmp(big1) != 0 {
			return g, h, nil
		}
		h = new(big.Int).Add(h, big1)
	}
}

// VerifyGPartial performs the partial validation of FIPS 186-4 Appendix
// A.2.2: 1 < g < p, and g^q mod p = 1.
func VerifyGPartial(p, q, g *big.Int) bool {
	if g.Cmp(big1) <= 0 || g.Cmp(p) >= 0 {
		return false
	}
	r := new(big.Int).Exp(g, q, p)
	return r.Cmp(big1) == 0
}

// GenerateVerifiableG constructs a DSA generator per FIPS 186-4 Appendix
// A.2.3, deterministically from (p, q, domainParameterSeed, index): a
// verifier that knows the seed can recompute g and confirm it was not
// substituted.
func GenerateVerifiableG(p, q, seed *big.Int, index byte, h fipshash.Hash) (g *big.Int, count int, err error) {
	pMinus1 := new(big.Int).Sub(p, big1)
	e := new(big.Int).Div(pMinus1, q)

	seedBytes := bigutil.IntToBytes(seed, 0, bigutil.BigEndian)

	for count = 1; count < 1<<16; count++ {
		u := buildGgenInput(seedBytes, index, count)
		w := new(big.Int).SetBytes(h.Digest(u))
		g = new(big.Int).Exp(w, e, p)
		if g.Cmp(big2) >= 0 {
			return g, count, nil
		}
	}
	return nil, 0, fipserr.New(fipserr.GenerationFailed, "exhausted 16-bit count deriving verifiable generator")
}

// VerifyGFull re-derives g from (seed, index, count) and checks it
// matches the supplied value, per FIPS 186-4 Appendix A.2.4.
func VerifyGFull(p, q, seed *big.Int, index byte, count int, g *big.Int, h fipshash.Hash) bool {
	if !VerifyGPartial(p, q, g) {
		return false
	}
	pMinus1 := new(big.Int).Sub(p, big1)
	e := new(big.Int).Div(pMinus1, q)
	seedBytes := bigutil.IntToBytes(seed, 0, bigutil.BigEndian)

	u := buildGgenInput(seedBytes, index, count)
	w := new(big.Int).SetBytes(h.Digest(u))
	computedG := new(big.Int).Exp(w, e, p)
	return computedG.Cmp(g) == 0
}

func buildGgenInput(seedBytes []byte, index byte, count int) []byte {
	u := make([]byte, 0, len(seedBytes)+len(ggenTag)+3)
	u = append(u, seedBytes...)
	u = append(u, ggenTag...)
	u = append(u, index)
	u = append(u, byte(count>>8), byte(count))
	return u
}
