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

package fipshash

import (
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

func TestFipshash(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Fipshash Suite")
}

var _ = Describe("Hash variants", func() {
	DescribeTable("DigestSize()", func(h Hash, want int) {
		Expect(h.DigestSize()).Should(Equal(want))
	},
		Entry("SHA1", SHA1, 20),
		Entry("SHA224", SHA224, 28),
		Entry("SHA256", SHA256, 32),
		Entry("SHA384", SHA384, 48),
		Entry("SHA512", SHA512, 64),
	)

	It("Digest() is deterministic and length-matched to DigestSize()", func() {
		a := SHA256.Digest([]byte("fips 186-4"))
		b := SHA256.Digest([]byte("fips 186-4"))
		Expect(a).Should(Equal(b))
		Expect(len(a)).Should(Equal(SHA256.DigestSize()))
	})

	It("Digest() differs across distinct inputs", func() {
		a := SHA256.Digest([]byte("a"))
		b := SHA256.Digest([]byte("b"))
		Expect(a).ShouldNot(Equal(b))
	})
})
