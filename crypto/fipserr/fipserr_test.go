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

package fipserr

import (
	"errors"
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func TestFipserr(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Fipserr Suite")
}

var _ = Describe("Error", func() {
	It("is matched by errors.Is against its own Kind sentinel", func() {
		err := New(BadParameters, "bad N")
		Expect(errors.Is(err, ErrBadParameters)).Should(BeTrue())
		Expect(errors.Is(err, ErrGenerationFailed)).Should(BeFalse())
	})

	It("formats Error() with the kind and reason", func() {
		err := New(MathDomain, "negative jacobi operand")
		Expect(err.Error()).Should(Equal("math domain error: negative jacobi operand"))
	})

	It("Kind.String() covers every declared kind", func() {
		Expect(BadParameters.String()).Should(Equal("bad parameters"))
		Expect(GenerationFailed.String()).Should(Equal("generation failed"))
		Expect(MathDomain.String()).Should(Equal("math domain error"))
	})
})
