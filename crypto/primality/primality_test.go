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

import (
	"math/big"
	"testing"

	"github.com/getamis/fips186/crypto/fipshash"
	"github.com/getamis/fips186/crypto/randsrc"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

func TestPrimality(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Primality Suite")
}

var _ = Describe("MillerRabin", func() {
	rnd := randsrc.NewCryptoSource()

	DescribeTable("known primes pass", func(n int64) {
		Expect(MillerRabin(big.NewInt(n), 20, rnd)).Should(BeTrue())
	},
		Entry("2", int64(2)),
		Entry("3", int64(3)),
		Entry("97", int64(97)),
		Entry("7919", int64(7919)),
		Entry("1000000007", int64(1000000007)),
	)

	DescribeTable("known composites fail", func(n int64) {
		Expect(MillerRabin(big.NewInt(n), 20, rnd)).Should(BeFalse())
	},
		Entry("1", int64(1)),
		Entry("4", int64(4)),
		Entry("341 (base-2 pseudoprime)", int64(341)),
		Entry("9999999967*3", int64(29999999901)),
	)
})

var _ = Describe("LucasTest", func() {
	It("accepts known primes", func() {
		Expect(LucasTest(big.NewInt(97))).Should(BeTrue())
		Expect(LucasTest(big.NewInt(7919))).Should(BeTrue())
	})

	It("rejects an even number", func() {
		Expect(LucasTest(big.NewInt(100))).Should(BeFalse())
	})

	It("rejects a perfect square", func() {
		Expect(LucasTest(big.NewInt(81))).Should(BeFalse())
	})

	It("rejects a composite odd non-square", func() {
		Expect(LucasTest(big.NewInt(341))).Should(BeFalse())
	})
})

var _ = Describe("TrialDivision", func() {
	DescribeTable("", func(n int64, want bool) {
		Expect(TrialDivision(big.NewInt(n))).Should(Equal(want))
	},
		Entry("2 is prime", int64(2), true),
		Entry("97 is prime", int64(97), true),
		Entry("7919 is prime", int64(7919), true),
		Entry("1 is not prime", int64(1), false),
		Entry("9 is composite", int64(9), false),
		Entry("7921 = 89^2 is composite", int64(7921), false),
		Entry("15 is composite", int64(15), false),
	)
})

var _ = Describe("ShaweTaylor", func() {
	It("is deterministic: identical inputs produce identical outputs", func() {
		seed := big.NewInt(123456789)
		r1 := ShaweTaylor(64, seed, fipshash.SHA256)
		r2 := ShaweTaylor(64, seed, fipshash.SHA256)
		Expect(r1.OK).Should(BeTrue())
		Expect(r2.OK).Should(BeTrue())
		Expect(r1.Prime.Cmp(r2.Prime)).Should(Equal(0))
		Expect(r1.PrimeSeed.Cmp(r2.PrimeSeed)).Should(Equal(0))
		Expect(r1.PrimeGenCounter).Should(Equal(r2.PrimeGenCounter))
	})

	It("produces a prime of the requested bit length", func() {
		seed := big.NewInt(987654321)
		r := ShaweTaylor(64, seed, fipshash.SHA256)
		Expect(r.OK).Should(BeTrue())
		Expect(r.Prime.BitLen()).Should(Equal(64))
		Expect(MillerRabin(r.Prime, 20, randsrc.NewCryptoSource())).Should(BeTrue())
	})

	It("recurses down to the base case for larger lengths", func() {
		seed := big.NewInt(42)
		r := ShaweTaylor(160, seed, fipshash.SHA256)
		Expect(r.OK).Should(BeTrue())
		Expect(r.Prime.BitLen()).Should(Equal(160))
	})

	It("rejects a bit length below the base case floor", func() {
		r := ShaweTaylor(1, big.NewInt(1), fipshash.SHA256)
		Expect(r.OK).Should(BeFalse())
	})

	It("reproduces the spec.md §8 scenario 3 fixture: length=512, inputSeed=0xDEADBEEF...(256-bit), SHA-256", func() {
		seed, ok := new(big.Int).SetString("DEADBEEFDEADBEEFDEADBEEFDEADBEEFDEADBEEFDEADBEEFDEADBEEFDEADBEEF", 16)
		Expect(ok).Should(BeTrue())
		Expect(seed.BitLen()).Should(BeNumerically("<=", 256))

		r1 := ShaweTaylor(512, seed, fipshash.SHA256)
		r2 := ShaweTaylor(512, seed, fipshash.SHA256)
		Expect(r1.OK).Should(BeTrue())
		Expect(r2.OK).Should(BeTrue())
		Expect(r1.Prime.Cmp(r2.Prime)).Should(Equal(0))
		Expect(r1.PrimeSeed.Cmp(r2.PrimeSeed)).Should(Equal(0))
		Expect(r1.PrimeGenCounter).Should(Equal(r2.PrimeGenCounter))
		Expect(r1.Prime.BitLen()).Should(Equal(512))
		Expect(MillerRabin(r1.Prime, 64, randsrc.NewCryptoSource())).Should(BeTrue())
	})
})
