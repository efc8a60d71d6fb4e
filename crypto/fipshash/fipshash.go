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

// Package fipshash models the "dynamic hash-function argument" of FIPS
// 186-4's construction routines as a small capability interface instead
// of a callable, per the re-architecture guidance: a hash is a pure
// byte-string map exposing its digest size. Every approved hash from the
// standard (SHA-1/224/256/384/512) is provided as a concrete,
// monomorphized variant; inner loops never dispatch through the
// interface more than once per call.
package fipshash

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"hash"
)

// Hash is the capability an external collaborator must provide: its
// digest size in bytes, and a pure function from bytes to digest.
type Hash interface {
	DigestSize() int
	Digest(data []byte) []byte
}

type stdHash struct {
	size int
	new  func() hash.Hash
}

func (h stdHash) DigestSize() int {
	return h.size
}

func (h stdHash) Digest(data []byte) []byte {
	d := h.new()
	d.Write(data)
	return d.Sum(nil)
}

// SHA1 is the FIPS 180-4 SHA-1 hash (160-bit digest). Approved only for
// legacy (N,L) = (160,1024) parameter sets.
var SHA1 Hash = stdHash{size: sha1.Size, new: sha1.New}

// SHA224 is SHA-224 (224-bit digest).
var SHA224 Hash = stdHash{size: sha256.Size224, new: sha256.New224}

// SHA256 is SHA-256 (256-bit digest).
var SHA256 Hash = stdHash{size: sha256.Size, new: sha256.New}

// SHA384 is SHA-384 (384-bit digest).
var SHA384 Hash = stdHash{size: sha512.Size384, new: sha512.New384}

// SHA512 is SHA-512 (512-bit digest).
var SHA512 Hash = stdHash{size: sha512.Size, new: sha512.New}
