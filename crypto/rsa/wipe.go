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

import "math/big"

// wipe zeroes a big.Int's backing words in place before resetting it to
// 0, so seed and witness material does not linger in the heap past the
// generator call that produced it.
func wipe(n *big.Int) {
	if n == nil {
		return
	}
	bits := n.Bits()
	for i := range bits {
		bits[i] = 0
	}
	n.SetInt64(0)
}

// wipeAll wipes every non-nil operand. Generators defer wipeAll(...) on
// the scratch seeds and witnesses named by FIPS 186-4 Appendix B.3 —
// firstSeed, pSeed, qSeed, workingSeed, Xp, Xp1, Xp2, Xq, Xq1, Xq2, p1,
// p2, q1, q2 — so the zeroing fires on every exit path, success or
// failure.
func wipeAll(ns ...*big.Int) {
	for _, n := range ns {
		wipe(n)
	}
}
