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

// Package dsa implements the FIPS 186-4 DSA domain-parameter engine:
// probable-primes construction and verification (Appendix A.1.1), provable
// primes construction and verification (Appendix A.1.2), and the
// unverifiable/verifiable generator-g construction (Appendix A.2).
package dsa

import "math/big"

// Primes is a DSA (p, q) pair with q | (p-1).
type Primes struct {
	P, Q *big.Int
}

// Params is a full DSA domain-parameter set.
type Params struct {
	Primes Primes
	G      *big.Int
}

// ProbablePrimesResult is the output of GenerateProbablePrimes, carrying
// everything VerifyProbablePrimesGenerationResult needs to retrace the
// derivation.
type ProbablePrimesResult struct {
	Primes  Primes
	Seed    *big.Int
	Counter int
}

// ProvablePrimesResult is the output of GenerateProvablePrimes.
type ProvablePrimesResult struct {
	Primes      Primes
	FirstSeed   *big.Int
	PSeed       *big.Int
	QSeed       *big.Int
	PGenCounter int
	QGenCounter int
}
