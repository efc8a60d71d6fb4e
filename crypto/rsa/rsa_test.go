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
	"context"
	"math/big"
	"testing"

	"github.com/getamis/fips186/crypto/bigutil"
	"github.com/getamis/fips186/crypto/fipshash"
	"github.com/getamis/fips186/crypto/keysize"
	"github.com/getamis/fips186/crypto/primality"
	"github.com/getamis/fips186/crypto/randsrc"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var rsaExponent = big.NewInt(65537)

func TestRSA(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "RSA Suite")
}

var _ = Describe("GetSeed", func() {
	It("draws a seed of bit length 2*secLvl(N)", func() {
		rnd := randsrc.NewCryptoSource()
		seed, err := GetSeed(2048, rnd)
		Expect(err).Should(BeNil())
		Expect(seed.BitLen()).Should(Equal(2 * keysize.SecurityLevelIFC(2048)))
	})

	It("rejects an unapproved modulus size", func() {
		rnd := randsrc.NewCryptoSource()
		_, err := GetSeed(999, rnd)
		Expect(err).ShouldNot(BeNil())
	})
})

var _ = Describe("GenerateProbablePrimes", func() {
	It("produces a separated pair coprime to e and prime to high confidence", func() {
		rnd := randsrc.NewCryptoSource()
		pair, err := GenerateProbablePrimes(context.Background(), 2048, rsaExponent, rnd)
		Expect(err).Should(BeNil())

		Expect(pair.P.BitLen()).Should(Equal(1024))
		Expect(pair.Q.BitLen()).Should(Equal(1024))
		Expect(separated(pair.P, pair.Q, 2048)).Should(BeTrue())

		pTests, qTests := keysize.MillerRabinTestsForIFC(2048)
		Expect(primality.MillerRabin(pair.P, pTests, rnd)).Should(BeTrue())
		Expect(primality.MillerRabin(pair.Q, qTests, rnd)).Should(BeTrue())

		Expect(bigutil.Gcd(new(big.Int).Sub(pair.P, big1), rsaExponent).Cmp(big1)).Should(Equal(0))
	})

	It("rejects an even exponent", func() {
		rnd := randsrc.NewCryptoSource()
		_, err := GenerateProbablePrimes(context.Background(), 2048, big.NewInt(65536), rnd)
		Expect(err).ShouldNot(BeNil())
	})
})

var _ = Describe("GenerateProvablePrimes", func() {
	It("produces a separated provable pair", func() {
		rnd := randsrc.NewCryptoSource()
		firstSeed, err := GetSeed(2048, rnd)
		Expect(err).Should(BeNil())

		pair, err := GenerateProvablePrimes(2048, rsaExponent, firstSeed, fipshash.SHA256)
		Expect(err).Should(BeNil())
		Expect(pair.P.BitLen()).Should(Equal(1024))
		Expect(pair.Q.BitLen()).Should(Equal(1024))
		Expect(separated(pair.P, pair.Q, 2048)).Should(BeTrue())
	})

	It("rejects an unsupported modulus size for provable generation", func() {
		rnd := randsrc.NewCryptoSource()
		firstSeed, err := GetSeed(1024, rnd)
		Expect(err).Should(BeNil())
		_, err = GenerateProvablePrimes(1024, rsaExponent, firstSeed, fipshash.SHA256)
		Expect(err).ShouldNot(BeNil())
	})
})

var _ = Describe("GenerateProvablePrimesWithConditions", func() {
	It("produces a separated pair with auxiliary-prime conditions embedded", func() {
		rnd := randsrc.NewCryptoSource()
		firstSeed, err := GetSeed(2048, rnd)
		Expect(err).Should(BeNil())

		pair, err := GenerateProvablePrimesWithConditions(2048, rsaExponent, firstSeed, fipshash.SHA256)
		Expect(err).Should(BeNil())
		Expect(pair.P.BitLen()).Should(Equal(1024))
		Expect(pair.Q.BitLen()).Should(Equal(1024))
		Expect(separated(pair.P, pair.Q, 2048)).Should(BeTrue())
	})
})

var _ = Describe("GenerateProbablePrimesWithConditions", func() {
	It("embeds auxiliary primes built by Shawe-Taylor (B.3.5)", func() {
		rnd := randsrc.NewCryptoSource()
		firstSeed, err := GetSeed(2048, rnd)
		Expect(err).Should(BeNil())

		pair, err := GenerateProbablePrimesWithConditions(context.Background(), 2048, rsaExponent, firstSeed, false, fipshash.SHA256, rnd)
		Expect(err).Should(BeNil())
		Expect(pair.P.BitLen()).Should(Equal(1024))
		Expect(pair.Q.BitLen()).Should(Equal(1024))
		Expect(separated(pair.P, pair.Q, 2048)).Should(BeTrue())
	})

	It("embeds auxiliary primes built by rejection sampling (B.3.6)", func() {
		rnd := randsrc.NewCryptoSource()
		pair, err := GenerateProbablePrimesWithConditions(context.Background(), 2048, rsaExponent, nil, true, fipshash.SHA256, rnd)
		Expect(err).Should(BeNil())
		Expect(pair.P.BitLen()).Should(Equal(1024))
		Expect(pair.Q.BitLen()).Should(Equal(1024))
		Expect(separated(pair.P, pair.Q, 2048)).Should(BeTrue())
	})
})

var _ = Describe("GenerateProbablePrimeWithAuxiliaryPrimes (C.9)", func() {
	It("embeds p1, p2 satisfying the fixture from spec.md §8", func() {
		rnd := randsrc.NewCryptoSource()
		p1Len, p2Len := keysize.AuxiliaryPrimeLengths(2048)

		firstSeed, err := GetSeed(2048, rnd)
		Expect(err).Should(BeNil())
		r1 := primality.ShaweTaylor(p1Len, firstSeed, fipshash.SHA256)
		Expect(r1.OK).Should(BeTrue())
		r2 := primality.ShaweTaylor(p2Len, r1.PrimeSeed, fipshash.SHA256)
		Expect(r2.OK).Should(BeTrue())

		embedding, err := GenerateProbablePrimeWithAuxiliaryPrimes(context.Background(), r1.Prime, r2.Prime, 2048, rsaExponent, rnd)
		Expect(err).Should(BeNil())

		Expect(embedding.Y.BitLen()).Should(Equal(1024))

		yMod1 := new(big.Int).Mod(embedding.Y, r1.Prime)
		Expect(yMod1.Cmp(big1)).Should(Equal(0))

		yMod2 := new(big.Int).Mod(embedding.Y, r2.Prime)
		expected := new(big.Int).Sub(r2.Prime, big1)
		Expect(yMod2.Cmp(expected)).Should(Equal(0))

		Expect(bigutil.Gcd(new(big.Int).Sub(embedding.Y, big1), rsaExponent).Cmp(big1)).Should(Equal(0))

		pTests, _ := keysize.MillerRabinTestsForIFC(2048)
		Expect(primality.MillerRabin(embedding.Y, pTests, rnd)).Should(BeTrue())
	})

	It("rejects auxiliary primes that are not coprime", func() {
		rnd := randsrc.NewCryptoSource()
		_, err := GenerateProbablePrimeWithAuxiliaryPrimes(context.Background(), big.NewInt(3), big.NewInt(9), 2048, rsaExponent, rnd)
		Expect(err).ShouldNot(BeNil())
	})
})

var _ = Describe("wipe", func() {
	It("zeroes a big.Int's value", func() {
		n := big.NewInt(123456789)
		wipe(n)
		Expect(n.Sign()).Should(Equal(0))
	})

	It("tolerates a nil operand", func() {
		wipeAll(big.NewInt(1), nil, big.NewInt(2))
	})
})
