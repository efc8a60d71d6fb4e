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

package primality

// smallPrimesCeiling bounds the sieve used to build the trial-division
// table; the classical list up to roughly this value is sufficient per
// FIPS 186-4 Appendix C.3 (trial division is only ever used to pre-screen
// candidates and in Shawe-Taylor's base case, never as a standalone
// primality proof for large numbers).
const smallPrimesCeiling = 4000

// smallPrimes is the fixed table of primes from 2 up to smallPrimesCeiling,
// computed once via a sieve of Eratosthenes at package init.
var smallPrimes = sieve(smallPrimesCeiling)

func sieve(ceiling int) []uint64 {
	composite := make([]bool, ceiling+1)
	var primes []uint64
	for n := 2; n <= ceiling; n++ {
		if composite[n] {
			continue
		}
		primes = append(primes, uint64(n))
		for m := n * n; m <= ceiling; m += n {
			composite[m] = true
		}
	}
	return primes
}
