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

// Package bigutil collects the arbitrary-precision integer helpers the
// FIPS 186-4 core is built on: gcd/egcd, integer roots, perfect-square
// detection, the Jacobi symbol, and the integer<->byte conversions used
// by every hash-driven construction routine.
package bigutil

import (
	"crypto/rand"
	"math/big"

	"github.com/getamis/fips186/crypto/fipserr"
)

var (
	big0 = big.NewInt(0)
	big1 = big.NewInt(1)
	big2 = big.NewInt(2)
)

// ByteOrder selects big-endian (the default everywhere in FIPS 186-4) or
// little-endian encoding for IntToBytes/BytesToInt.
type ByteOrder int

const (
	BigEndian ByteOrder = iota
	LittleEndian
)

// Gcd computes the greatest common divisor of a and b via the Euclidean
// algorithm, with gcd(0, x) = x.
func Gcd(a, b *big.Int) *big.Int {
	return new(big.Int).GCD(nil, nil, new(big.Int).Abs(a), new(big.Int).Abs(b))
}

// Egcd is the extended Euclidean algorithm: it returns (d, x, y) such that
// a*x + b*y = d = gcd(a, b).
func Egcd(a, b *big.Int) (d, x, y *big.Int) {
	d = new(big.Int)
	x = new(big.Int)
	y = new(big.Int)
	d.GCD(x, y, a, b)
	return d, x, y
}

// IsRelativePrime reports whether a and b are coprime.
func IsRelativePrime(a, b *big.Int) bool {
	return Gcd(a, b).Cmp(big1) == 0
}

// IsPerfectSquare reports whether n is the square of an integer. Uses
// Newton's method with a "seen" set to detect the cycle that non-squares
// eventually fall into. Returns false for n <= 1.
func IsPerfectSquare(n *big.Int) bool {
	if n.Cmp(big1) <= 0 {
		return false
	}

	x := new(big.Int).Div(n, big2)
	seen := map[string]bool{x.String(): true}
	nOverX := new(big.Int)
	for {
		sq := new(big.Int).Mul(x, x)
		if sq.Cmp(n) == 0 {
			return true
		}
		nOverX.Div(n, x)
		x.Add(x, nOverX)
		x.Div(x, big2)
		key := x.String()
		if seen[key] {
			return false
		}
		seen[key] = true
	}
}

// IRoot computes the integer a-th root of b via Newton's recurrence,
// converging when the current estimate repeats one of the previous two
// iterates. a must be >= 1.
func IRoot(a int, b *big.Int) *big.Int {
	if b.Cmp(big2) < 0 {
		return new(big.Int).Set(b)
	}
	bigA := big.NewInt(int64(a))
	aMinus1 := big.NewInt(int64(a - 1))

	pow := func(base *big.Int, e int64) *big.Int {
		return new(big.Int).Exp(base, big.NewInt(e), nil)
	}

	step := func(c *big.Int) *big.Int {
		t := new(big.Int).Mul(aMinus1, c)
		denom := pow(c, int64(a-1))
		q := new(big.Int).Div(b, denom)
		t.Add(t, q)
		t.Div(t, bigA)
		return t
	}

	c := big.NewInt(1)
	d := step(c)
	e := step(d)
	for c.Cmp(d) != 0 && c.Cmp(e) != 0 {
		c, d, e = d, e, step(e)
	}
	if d.Cmp(e) <= 0 {
		return d
	}
	return e
}

// Jacobi computes the Jacobi symbol (a/n) per FIPS 186-4 Appendix C.5. The
// symbol is undefined for even or non-positive n; that case is reported as
// a fipserr.MathDomain error.
func Jacobi(a, n *big.Int) (int, error) {
	if n.Sign() <= 0 || n.Bit(0) == 0 {
		return 0, fipserr.New(fipserr.MathDomain, "jacobi symbol undefined for even or non-positive modulus")
	}
	return big.Jacobi(a, n), nil
}

// IntToBytes converts n to a big-endian (or little-endian) byte slice of
// at least minLen bytes; the result is max(ceil(bitLen(n)/8), minLen) bytes
// long, matching FIPS 186-4's minimal-encoding-with-padding convention.
func IntToBytes(n *big.Int, minLen int, order ByteOrder) []byte {
	raw := n.Bytes()
	if len(raw) < minLen {
		padded := make([]byte, minLen)
		copy(padded[minLen-len(raw):], raw)
		raw = padded
	}
	if order == LittleEndian {
		reversed := make([]byte, len(raw))
		for i, b := range raw {
			reversed[len(raw)-1-i] = b
		}
		return reversed
	}
	return raw
}

// BytesToInt is the inverse of IntToBytes.
func BytesToInt(b []byte, order ByteOrder) *big.Int {
	if order == LittleEndian {
		reversed := make([]byte, len(b))
		for i, c := range b {
			reversed[len(b)-1-i] = c
		}
		b = reversed
	}
	return new(big.Int).SetBytes(b)
}

// Partition splits b into chunks of the given length; the final chunk may
// be shorter.
func Partition(b []byte, length int) [][]byte {
	if length <= 0 {
		return nil
	}
	partsCount := len(b) / length
	if len(b)%length != 0 {
		partsCount++
	}
	result := make([][]byte, 0, partsCount)
	for i := 0; i < partsCount; i++ {
		start := i * length
		end := start + length
		if end > len(b) {
			end = len(b)
		}
		result = append(result, b[start:end])
	}
	return result
}

// XOR xors a and b byte-by-byte. If repeat is false the result has
// min(len(a), len(b)) bytes; if true it has max(len(a), len(b)) bytes and
// the shorter operand wraps around.
func XOR(a, b []byte, repeat bool) []byte {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if repeat {
		n = len(a)
		if len(b) > n {
			n = len(b)
		}
	}
	result := make([]byte, n)
	for i := 0; i < n; i++ {
		result[i] = a[i%len(a)] ^ b[i%len(b)]
	}
	return result
}

// GetRandomBytes returns count cryptographically random bytes, none of
// which equal a value in exclude.
func GetRandomBytes(count int, exclude map[byte]bool) ([]byte, error) {
	result := make([]byte, 0, count)
	buf := make([]byte, 1)
	for len(result) < count {
		if _, err := rand.Read(buf); err != nil {
			return nil, err
		}
		if exclude[buf[0]] {
			continue
		}
		result = append(result, buf[0])
	}
	return result, nil
}

// RandomInt generates a uniform random value in [0, n).
func RandomInt(n *big.Int) (*big.Int, error) {
	return rand.Int(rand.Reader, n)
}

// RandomPositiveInt generates a uniform random value in [1, n).
func RandomPositiveInt(n *big.Int) (*big.Int, error) {
	x, err := RandomInt(new(big.Int).Sub(n, big1))
	if err != nil {
		return nil, err
	}
	return x.Add(x, big1), nil
}

// RandomCoprimeInt generates a uniform random value in [2, n) that is
// coprime to n, by rejection sampling.
func RandomCoprimeInt(n *big.Int) (*big.Int, error) {
	if n.Cmp(big2) <= 0 {
		return nil, fipserr.New(fipserr.BadParameters, "modulus must be > 2")
	}
	const maxRetry = 100
	for i := 0; i < maxRetry; i++ {
		r, err := RandomInt(n)
		if err != nil {
			return nil, err
		}
		if r.Cmp(big1) <= 0 {
			continue
		}
		if IsRelativePrime(r, n) {
			return r, nil
		}
	}
	return nil, fipserr.New(fipserr.GenerationFailed, "exceeded max retries finding a coprime integer")
}

// InRange checks that floor <= checkValue < ceil.
func InRange(checkValue, floor, ceil *big.Int) error {
	if ceil.Cmp(floor) < 1 {
		return fipserr.New(fipserr.BadParameters, "ceil must be greater than floor")
	}
	if checkValue.Cmp(floor) < 0 || checkValue.Cmp(ceil) >= 0 {
		return fipserr.New(fipserr.BadParameters, "value out of range")
	}
	return nil
}

// EulerFunction computes phi(N) for a square-free N given its prime
// factors: N = prod(p_i), phi(N) = prod(p_i - 1).
func EulerFunction(primeFactors []*big.Int) (*big.Int, error) {
	if len(primeFactors) == 0 {
		return nil, fipserr.New(fipserr.BadParameters, "no prime factors given")
	}
	result := big.NewInt(1)
	for _, p := range primeFactors {
		if p.Cmp(big1) <= 0 {
			return nil, fipserr.New(fipserr.BadParameters, "prime factor must be > 1")
		}
		result.Mul(result, new(big.Int).Sub(p, big1))
	}
	return result, nil
}
