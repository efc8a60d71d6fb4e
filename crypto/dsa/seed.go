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

	"github.com/getamis/fips186/crypto/fipserr"
	"github.com/getamis/fips186/crypto/keysize"
	"github.com/getamis/fips186/crypto/randsrc"
)

// GetFirstSeed draws a random firstSeed >= 2^(N-1) with bit length
// seedLength, suitable for GenerateProvablePrimes, per FIPS 186-4
// Appendix A.1.2.1.1.
func GetFirstSeed(n, seedLength int, rnd randsrc.Source) (*big.Int, error) {
	if seedLength < n {
		return nil, fipserr.New(fipserr.BadParameters, "seedLength must be >= N")
	}
	if !ffcLengthKnown(n) {
		return nil, fipserr.New(fipserr.BadParameters, "N is not part of an approved FFC length pair")
	}
	seed, err := rnd.RandomBits(seedLength)
	if err != nil {
		return nil, err
	}
	seed.SetBit(seed, seedLength-1, 1)
	return seed, nil
}

func ffcLengthKnown(n int) bool {
	for _, p := range keysize.FFCApprovedLengths {
		if p.N == n {
			return true
		}
	}
	return false
}
