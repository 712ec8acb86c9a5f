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
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/shangmi/go-sm3/common"
)

// These tests are sanity checks. They should ensure that the package level
// helpers agree with each other and with the published "abc" vector.
func TestSM3Hash(t *testing.T) {
	msg := []byte("abc")
	exp, _ := hex.DecodeString("66c7f0f462eeedd9d1f2d46bdc10e4e24167c4875cf2f7a2297da02b8f4ba8e0")
	checkhash(t, "sm3-array", func(in []byte) []byte { h := SM3Hash(in); return h[:] }, msg, exp)
	checkhash(t, "sm3", func(in []byte) []byte { return SM3(in) }, msg, exp)
}

func TestSM3Concat(t *testing.T) {
	want := SM3Hash([]byte("abc"))
	if got := SM3Hash([]byte("a"), []byte(""), []byte("bc")); got != want {
		t.Errorf("split input hash: %x != %x", got, want)
	}
	if got := common.BytesToHash(SM3([]byte("ab"), []byte("c"))); got != want {
		t.Errorf("SM3 and SM3Hash disagree: %x != %x", got, want)
	}
}

func TestSM3Reader(t *testing.T) {
	want := SM3Hash([]byte("The quick brown fox jumps over the lazy dog"))
	h, err := SM3Reader(strings.NewReader("The quick brown fox jumps over the lazy dog"))
	if err != nil {
		t.Fatal(err)
	}
	if h != want {
		t.Errorf("reader hash: %x != %x", h, want)
	}

	bogus := errors.New("read exploded")
	if _, err := SM3Reader(iotest.ErrReader(bogus)); !errors.Is(err, bogus) {
		t.Errorf("reader error not propagated, got %v", err)
	}
}

func TestSM3File(t *testing.T) {
	content := bytes.Repeat([]byte("0123456789abcdef"), 8192)
	path := filepath.Join(t.TempDir(), "payload.bin")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	h, err := SM3File(path)
	if err != nil {
		t.Fatal(err)
	}
	if want := SM3Hash(content); h != want {
		t.Errorf("file hash: %x != %x", h, want)
	}

	if _, err := SM3File(filepath.Join(t.TempDir(), "missing.bin")); !os.IsNotExist(err) {
		t.Errorf("missing file error: %v", err)
	}
}

func checkhash(t *testing.T, name string, f func([]byte) []byte, msg, exp []byte) {
	sum := f(msg)
	if !bytes.Equal(exp, sum) {
		t.Fatalf("hash %s mismatch: want: %x have: %x", name, exp, sum)
	}
}
