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

// Package keysize carries the NIST SP 800-57 / FIPS 186-4 approved key
// sizes: the FFC (N,L) pairs for DSA, the IFC moduli for RSA, their
// security levels, and the Miller-Rabin iteration counts and
// auxiliary-prime length ranges each approved size is assigned.
package keysize

// FFCLength is an approved (N, L) pair for finite-field cryptography.
type FFCLength struct {
	N, L int
}

// FFCApprovedLengths are the DSA domain-parameter sizes approved by
// FIPS 186-4.
var FFCApprovedLengths = []FFCLength{
	{160, 1024},
	{224, 2048},
	{256, 2048},
	{256, 3072},
	{384, 7680},
	{512, 15360},
}

// IFCApprovedLengths are the RSA modulus sizes approved by FIPS 186-4.
var IFCApprovedLengths = []int{1024, 2048, 3072, 7680, 15360}

// ECCApprovedLengths are the minimum key bit lengths per ECC security
// bucket.
var ECCApprovedLengths = []int{160, 224, 256, 384, 512}

var ffcSecurityLevels = map[FFCLength]int{
	{160, 1024}:  80,
	{224, 2048}:  112,
	{256, 2048}:  128,
	{256, 3072}:  128,
	{384, 7680}:  192,
	{512, 15360}: 256,
}

var ifcSecurityLevels = map[int]int{
	1024:  80,
	2048:  112,
	3072:  128,
	7680:  192,
	15360: 256,
}

// IsFFCApproved reports whether (N, L) is one of the approved pairs.
func IsFFCApproved(n, l int) bool {
	for _, p := range FFCApprovedLengths {
		if p.N == n && p.L == l {
			return true
		}
	}
	return false
}

// IsIFCApproved reports whether n is an approved RSA modulus size.
func IsIFCApproved(n int) bool {
	for _, v := range IFCApprovedLengths {
		if v == n {
			return true
		}
	}
	return false
}

// SecurityLevelFFC returns the nominal security level (bits) of an
// approved (N, L) pair, or 0 if the pair is not approved.
func SecurityLevelFFC(n, l int) int {
	return ffcSecurityLevels[FFCLength{n, l}]
}

// SecurityLevelIFC returns the nominal security level (bits) of an
// approved RSA modulus size, or 0 if not approved.
func SecurityLevelIFC(n int) int {
	return ifcSecurityLevels[n]
}

// SecurityLevelECC returns the nominal security level (bits) for an ECC
// key of the given bit length, bucketed per SP 800-57.
func SecurityLevelECC(n int) int {
	switch {
	case n < ECCApprovedLengths[0]:
		return 0
	case n < ECCApprovedLengths[1]:
		return 80
	case n < ECCApprovedLengths[2]:
		return 112
	case n < ECCApprovedLengths[3]:
		return 128
	case n < ECCApprovedLengths[4]:
		return 192
	default:
		return 256
	}
}

// DSATestCounts is the Miller-Rabin iteration count for q and for p,
// followed by a single Lucas test, for an approved (N, L) pair.
type DSATestCounts struct {
	QTests, PTests int
}

// MillerRabinTestsForDSA returns the prescribed (qTests, pTests) for an
// approved (N, L) pair. Unlisted approved pairs fall back to the
// standard's final-row rule (pTests=2, qTests=27).
func MillerRabinTestsForDSA(n, l int) DSATestCounts {
	switch {
	case n == 160 && l == 1024:
		return DSATestCounts{QTests: 19, PTests: 3}
	case n == 224 && l == 2048:
		return DSATestCounts{QTests: 24, PTests: 3}
	case n == 256 && l == 2048:
		return DSATestCounts{QTests: 27, PTests: 3}
	case n == 256 && l == 3072:
		return DSATestCounts{QTests: 27, PTests: 2}
	default:
		return DSATestCounts{QTests: 27, PTests: 2}
	}
}

// MillerRabinTestsForIFC returns (testsForP, testsForQ) for an approved
// RSA modulus size, per SP 800-57's table of Miller-Rabin counts for the
// probable-primes path.
func MillerRabinTestsForIFC(n int) (pTests, qTests int) {
	switch {
	case n <= 1024:
		return 40, 40
	case n <= 2048:
		return 38, 38
	case n <= 3072:
		return 32, 32
	case n <= 7680:
		return 27, 27
	default:
		return 27, 27
	}
}

// AuxiliaryPrimeLengths returns the (p1Len, p2Len) bit-length pair used to
// embed auxiliary primes into a provable RSA prime of modulus size n,
// per FIPS 186-4 Tables B.1.
func AuxiliaryPrimeLengths(n int) (p1Len, p2Len int) {
	switch {
	case n <= 1024:
		return 101, 120
	case n <= 2048:
		return 140, 170
	default:
		return 170, 210
	}
}
