// Copyright 2024 The go-sm3 Authors
// This file is part of the go-sm3 library.
//
// The go-sm3 library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-sm3 library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-sm3 library. If not, see <http://www.gnu.org/licenses/>.

package crypto

import (
	"bytes"
	"crypto/sha256"
	"testing"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

var rows = [][][]byte{
	{[]byte("abcdef"), []byte("ghijklm")},
	{[]byte("ABCDEF"), []byte("GHIJKLM")},
	{[]byte("123456789"), []byte("XXXXXXX")},
	{[]byte("1234567890ABCDEFGHIJKLMNOPQRSTUVWXYZ"), bytes.Repeat([]byte("abcdef"), 10), bytes.Repeat([]byte("a"), 26)},
	{[]byte("1234567890ABCDEFGHIJKLMNOPQRSTUVWXYZ"), bytes.Repeat([]byte("a"), 101), bytes.Repeat([]byte("a"), 31)},
	{[]byte("1234567890ABCDEFGHIJKLMNOPQRSTUVWXYZ"), bytes.Repeat([]byte("a"), 100), bytes.Repeat([]byte("a"), 256)},
}

var sink interface{}

func BenchmarkSM3(b *testing.B) {
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		for _, row := range rows {
			hash := SM3(row...)
			b.SetBytes(int64(len(hash)))
			sink = hash
		}
	}

	if sink == nil {
		b.Fatal("Benchmark did not run")
	}

	sink = (interface{})(nil)
}

func BenchmarkSM3Hash(b *testing.B) {
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		for _, row := range rows {
			hash := SM3Hash(row...)
			b.SetBytes(int64(len(hash)))
			sink = hash
		}
	}

	if sink == nil {
		b.Fatal("Benchmark did not run")
	}

	sink = (interface{})(nil)
}

// Reference points for the comparison command, exercising the other
// 256-bit hashes over the same inputs.

func BenchmarkSHA256(b *testing.B) {
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		for _, row := range rows {
			d := sha256.New()
			for _, part := range row {
				d.Write(part)
			}
			hash := d.Sum(nil)
			b.SetBytes(int64(len(hash)))
			sink = hash
		}
	}

	if sink == nil {
		b.Fatal("Benchmark did not run")
	}

	sink = (interface{})(nil)
}

func BenchmarkSHA3_256(b *testing.B) {
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		for _, row := range rows {
			d := sha3.New256()
			for _, part := range row {
				d.Write(part)
			}
			hash := d.Sum(nil)
			b.SetBytes(int64(len(hash)))
			sink = hash
		}
	}

	if sink == nil {
		b.Fatal("Benchmark did not run")
	}

	sink = (interface{})(nil)
}

func BenchmarkBlake2b256(b *testing.B) {
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		for _, row := range rows {
			d, _ := blake2b.New256(nil)
			for _, part := range row {
				d.Write(part)
			}
			hash := d.Sum(nil)
			b.SetBytes(int64(len(hash)))
			sink = hash
		}
	}

	if sink == nil {
		b.Fatal("Benchmark did not run")
	}

	sink = (interface{})(nil)
}
