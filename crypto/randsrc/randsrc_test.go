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

package randsrc

import (
	"math/big"
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func TestRandsrc(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Randsrc Suite")
}

var _ = Describe("CryptoSource", func() {
	It("returns a value within [0, 2^n)", func() {
		src := NewCryptoSource()
		bound := new(big.Int).Lsh(big.NewInt(1), 128)
		for i := 0; i < 10; i++ {
			v, err := src.RandomBits(128)
			Expect(err).Should(BeNil())
			Expect(v.Sign() >= 0).Should(BeTrue())
			Expect(v.Cmp(bound) < 0).Should(BeTrue())
		}
	})

	It("does not force the top bit", func() {
		src := NewCryptoSource()
		sawUnset := false
		for i := 0; i < 200; i++ {
			v, err := src.RandomBits(8)
			Expect(err).Should(BeNil())
			if v.Bit(7) == 0 {
				sawUnset = true
				break
			}
		}
		Expect(sawUnset).Should(BeTrue())
	})

	It("rejects a non-positive bit length", func() {
		src := NewCryptoSource()
		_, err := src.RandomBits(0)
		Expect(err).ShouldNot(BeNil())
	})
})

var _ = Describe("FixedSource", func() {
	It("replays values in order", func() {
		src := NewFixedSource(big.NewInt(1), big.NewInt(2), big.NewInt(3))
		v1, err := src.RandomBits(8)
		Expect(err).Should(BeNil())
		Expect(v1.Cmp(big.NewInt(1))).Should(Equal(0))

		v2, err := src.RandomBits(8)
		Expect(err).Should(BeNil())
		Expect(v2.Cmp(big.NewInt(2))).Should(Equal(0))
	})

	It("errors once exhausted", func() {
		src := NewFixedSource(big.NewInt(1))
		_, err := src.RandomBits(8)
		Expect(err).Should(BeNil())
		_, err = src.RandomBits(8)
		Expect(err).ShouldNot(BeNil())
	})
})
