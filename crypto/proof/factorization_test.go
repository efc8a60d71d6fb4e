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

package proof

import (
	"math/big"
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func TestProof(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Proof Suite")
}

var _ = Describe("FactorizationProof", func() {
	// p, q are small primes here purely to keep the arithmetic cheap; the
	// protocol itself has no minimum-size requirement of its own (that
	// constraint belongs to the RSA generators that produce p, q).
	p := big.NewInt(1000000007)
	q := big.NewInt(1000000009)
	n := new(big.Int).Mul(p, q)

	It("a proof built from the true factorization verifies", func() {
		fp, err := NewFactorizationProof(p, q)
		Expect(err).Should(BeNil())
		Expect(fp.Verify(n)).Should(BeNil())
	})

	It("rejects a proof checked against the wrong modulus", func() {
		fp, err := NewFactorizationProof(p, q)
		Expect(err).Should(BeNil())
		wrongN := big.NewInt(999999937 * 999999893)
		Expect(fp.Verify(wrongN)).ShouldNot(BeNil())
	})

	It("rejects a tampered response", func() {
		fp, err := NewFactorizationProof(p, q)
		Expect(err).Should(BeNil())
		fp.Y.Add(fp.Y, big.NewInt(1))
		Expect(fp.Verify(n)).ShouldNot(BeNil())
	})

	It("rejects p <= 1", func() {
		_, err := NewFactorizationProof(big.NewInt(1), q)
		Expect(err).ShouldNot(BeNil())
	})
})
