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

// Package crypto provides convenience wrappers around the SM3 hash.
package crypto

import (
	"io"
	"os"

	"github.com/shangmi/go-sm3/common"
	"github.com/shangmi/go-sm3/crypto/sm3"
)

// DigestLength sets the fixed size of an SM3 digest in bytes.
const DigestLength = 32

// SM3 computes the SM3 hash of the concatenation of the input byte slices.
func SM3(data ...[]byte) []byte {
	d := sm3.New()
	for _, b := range data {
		d.Write(b)
	}
	return d.Sum(nil)
}

// SM3Hash computes the SM3 hash of the concatenation of the input byte
// slices and returns it as a Hash.
func SM3Hash(data ...[]byte) (h common.Hash) {
	d := sm3.New()
	for _, b := range data {
		d.Write(b)
	}
	d.Sum(h[:0])
	return h
}

// SM3Reader computes the SM3 hash of everything read from r.
func SM3Reader(r io.Reader) (h common.Hash, err error) {
	d := sm3.New()
	if _, err := io.Copy(d, r); err != nil {
		return common.Hash{}, err
	}
	d.Sum(h[:0])
	return h, nil
}

// SM3File computes the SM3 hash of the named file's contents. The file is
// streamed through the hash, so arbitrarily large files are fine.
func SM3File(path string) (common.Hash, error) {
	f, err := os.Open(path)
	if err != nil {
		return common.Hash{}, err
	}
	defer f.Close()
	return SM3Reader(f)
}
