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

	"github.com/getamis/fips186/crypto/fipserr"
	"github.com/getamis/fips186/crypto/keysize"
	"github.com/getamis/fips186/crypto/randsrc"
)

// GetSeed draws a random seed suitable for GenerateProvablePrimes and
// GenerateProvablePrimesWithConditions: bitLength(seed) = 2*secLvl(N),
// top bit forced so the seed carries its full nominal length.
func GetSeed(n int, rnd randsrc.Source) (*big.Int, error) {
	if !keysize.IsIFCApproved(n) {
		return nil, fipserr.New(fipserr.BadParameters, "N is not an approved RSA modulus size")
	}
	secLvl := keysize.SecurityLevelIFC(n)
	seedLength := 2 * secLvl

	seed, err := rnd.RandomBits(seedLength)
	if err != nil {
		return nil, err
	}
	seed.SetBit(seed, seedLength-1, 1)
	return seed, nil
}
