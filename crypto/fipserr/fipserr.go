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

// Package fipserr collects the error kinds shared by every FIPS 186-4
// construction and verification routine in this module. The DSA
// domain-parameter verifiers never return one of these: their failure is
// an expected outcome over untrusted input and is reported as a plain
// bool. The factorization proof's Verify, in package proof, does report
// its failures as Errors.
package fipserr

import (
	"errors"
	"fmt"
)

// Kind classifies why a generator could not produce a result.
type Kind int

const (
	// BadParameters means the caller's inputs violate a precondition
	// (unapproved sizes, wrong seed length, even exponent, hash too
	// small, ...). Never retried internally.
	BadParameters Kind = iota
	// GenerationFailed means an algorithm exhausted its FIPS-prescribed
	// iteration bound without finding a witness. Callers typically retry
	// with a fresh seed.
	GenerationFailed
	// MathDomain means an internal contract was violated (Jacobi symbol
	// asked for an even or non-positive modulus, a modular inverse that
	// does not exist, ...). Programmer bug.
	MathDomain
)

func (k Kind) String() string {
	switch k {
	case BadParameters:
		return "bad parameters"
	case GenerationFailed:
		return "generation failed"
	case MathDomain:
		return "math domain error"
	default:
		return "unknown error kind"
	}
}

// Error is a FIPS 186-4 core error carrying its Kind and a short reason.
type Error struct {
	Kind   Kind
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

// Is allows errors.Is(err, fipserr.ErrBadParameters) style checks against
// the sentinel errors below: two Errors match when their Kinds are equal.
func (e *Error) Is(target error) bool {
	var k *Error
	if errors.As(target, &k) {
		return e.Kind == k.Kind
	}
	return false
}

// New builds an Error of the given kind.
func New(kind Kind, reason string) *Error {
	return &Error{Kind: kind, Reason: reason}
}

// Sentinels usable with errors.Is(err, fipserr.ErrBadParameters).
var (
	ErrBadParameters  = &Error{Kind: BadParameters, Reason: "bad parameters"}
	ErrGenerationFailed = &Error{Kind: GenerationFailed, Reason: "generation failed"}
	ErrMathDomain     = &Error{Kind: MathDomain, Reason: "math domain error"}
)
