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

// Package proof implements a non-interactive "short proof of knowledge
// of factoring": given N = p*q, a prover that knows p and q can
// convince a verifier holding only N that it knows the factorization,
// without revealing p or q.
package proof

import (
	"math/big"

	"github.com/getamis/fips186/crypto/bigutil"
	"github.com/getamis/fips186/crypto/fipserr"
	"golang.org/x/crypto/blake2b"
)

// maxRetry bounds the number of (r, z) draws tried before giving up: the
// x/y range check the verifier performs has a small chance of failing
// even for an honestly-built proof, so generation retries rather than
// returning a proof that would fail its own verification.
const maxRetry = 100

var (
	big0 = big.NewInt(0)
	big1 = big.NewInt(1)

	// challengeModulus is B in the protocol: the Fiat-Shamir challenge
	// e = H(x, z, N) mod B.
	challengeModulus = big.NewInt(1024)
)

// FactorizationProof is the (z, x, y) transcript of the protocol: z is
// the prover's random base, x is its commitment, y is the response to
// the Fiat-Shamir challenge derived from (x, z, N).
type FactorizationProof struct {
	Z *big.Int
	X *big.Int
	Y *big.Int
}

// NewFactorizationProof builds a proof that the prover knows the
// factorization of N = p*q. It picks a random base z in Z_N^*, a random
// exponent r in [1, A) with A = N-1, commits to x = z^r mod N, derives
// the challenge e = H(x, z, N) mod B, and answers
// y = r + e*(N - phi(N)) — computable only by a party that knows
// phi(N), i.e. the factorization. The draw is retried up to maxRetry
// times if the resulting y falls outside the verifier's [0, A-1] bound.
func NewFactorizationProof(p, q *big.Int) (*FactorizationProof, error) {
	if p.Cmp(big1) <= 0 || q.Cmp(big1) <= 0 {
		return nil, fipserr.New(fipserr.BadParameters, "p and q must exceed 1")
	}
	n := new(big.Int).Mul(p, q)
	phi := new(big.Int).Mul(
		new(big.Int).Sub(p, big1),
		new(big.Int).Sub(q, big1),
	)
	m := new(big.Int).Sub(n, phi)
	a := new(big.Int).Sub(n, big1)

	for i := 0; i < maxRetry; i++ {
		z, err := bigutil.RandomCoprimeInt(n)
		if err != nil {
			return nil, err
		}

		r, err := bigutil.RandomPositiveInt(a)
		if err != nil {
			return nil, err
		}

		x := new(big.Int).Exp(z, r, n)
		e := challenge(x, z, n)

		y := new(big.Int).Mul(e, m)
		y.Add(y, r)

		if y.Cmp(a) >= 0 {
			continue
		}

		proof := &FactorizationProof{Z: z, X: x, Y: y}
		if err := proof.Verify(n); err != nil {
			continue
		}
		return proof, nil
	}
	return nil, fipserr.New(fipserr.GenerationFailed, "exceeded max retries building factorization proof")
}

// Verify checks the proof against the public modulus n: it recomputes
// the Fiat-Shamir challenge and accepts iff z^y == x * z^(n*e) (mod n),
// which holds for a correctly-formed proof because z^phi(n) ≡ 1 (mod n)
// for z coprime to n (Euler's theorem), hence z^n ≡ z^m with
// m = n - phi(n), so z^y = z^r * (z^m)^e = x * (z^n)^e (mod n).
func (proof *FactorizationProof) Verify(n *big.Int) error {
	if proof.Z.Cmp(big1) <= 0 || proof.Z.Cmp(n) >= 0 {
		return fipserr.New(fipserr.BadParameters, "z is out of range")
	}
	if bigutil.Gcd(proof.Z, n).Cmp(big1) != 0 {
		return fipserr.New(fipserr.BadParameters, "z is not coprime to n")
	}

	// x in [1,N-1], y in [0,A-1] with A = N-1, per the protocol's own
	// verifier description.
	if err := bigutil.InRange(proof.X, big1, n); err != nil {
		return fipserr.New(fipserr.BadParameters, "x is out of range")
	}
	a := new(big.Int).Sub(n, big1)
	if err := bigutil.InRange(proof.Y, big0, a); err != nil {
		return fipserr.New(fipserr.BadParameters, "y is out of range")
	}

	e := challenge(proof.X, proof.Z, n)

	lhs := new(big.Int).Exp(proof.Z, proof.Y, n)

	zToN := new(big.Int).Exp(proof.Z, n, n)
	rhs := new(big.Int).Exp(zToN, e, n)
	rhs.Mul(rhs, proof.X)
	rhs.Mod(rhs, n)

	if lhs.Cmp(rhs) != 0 {
		return fipserr.New(fipserr.MathDomain, "factorization proof failed verification")
	}
	return nil
}

// challenge derives the Fiat-Shamir challenge e = H(x || z || n) mod B
// using blake2b-256.
func challenge(x, z, n *big.Int) *big.Int {
	payload := bigutil.IntToBytes(x, 0, bigutil.BigEndian)
	payload = append(payload, bigutil.IntToBytes(z, 0, bigutil.BigEndian)...)
	payload = append(payload, bigutil.IntToBytes(n, 0, bigutil.BigEndian)...)
	digest := blake2b.Sum256(payload)
	e := new(big.Int).SetBytes(digest[:])
	e.Mod(e, challengeModulus)
	return e
}
