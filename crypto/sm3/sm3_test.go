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

package sm3

import (
	"bytes"
	"encoding"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"math/bits"
	"math/rand"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	fuzz "github.com/google/gofuzz"
)

type sm3Test struct {
	out string
	in  string
}

// The "abc" and 64-byte "abcd" vectors are the two examples published in
// GM/T 0004-2012 appendix A. The rest were cross-checked against GmSSL
// and libgcrypt.
var golden = []sm3Test{
	{"1ab21d8355cfa17f8e61194831e81a8f22bec8c728fefb747ed035eb5082aa2b", ""},
	{"623476ac18f65a2909e43c7fec61b49c7e764a91a18ccb82f1917a29c86c5e88", "a"},
	{"e07d8ee6e54586a459e30eb8d809e02194558e2b0b235a31f3226a3687faab88", "ab"},
	{"66c7f0f462eeedd9d1f2d46bdc10e4e24167c4875cf2f7a2297da02b8f4ba8e0", "abc"},
	{"82ec580fe6d36ae4f81cae3c73f4a5b3b5a09c943172dc9053c69fd8e18dca1e", "abcd"},
	{"afe4ccac5ab7d52bcae36373676215368baf52d3905e1fecbe369cc120e97628", "abcde"},
	{"d0c7f21dc640a69786764d688920d4d968a103a437a6159b9e7cc7c4b826b8ac", "sm3"},
	{"c522a942e89bd80d97dd666e7a5531b36188c9817149e9b258dfe51ece98ed77", "message digest"},
	{"b80fe97a4da24afc277564f66a359ef440462ad28dcc6d63adb24d5c20a61595", "abcdefghijklmnopqrstuvwxyz"},
	{"2971d10c8842b70c979e55063480c50bacffd90e98e2e60d2512ab8abfdfcec5", "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"},
	{"ad81805321f3e69d251235bf886a564844873b56dd7dde400f055b7dde39307a", "12345678901234567890123456789012345678901234567890123456789012345678901234567890"},
	{"5fdfe814b8573ca021983970fc79b2218c9570369b4859684e2e4c3fc76cb8ea", "The quick brown fox jumps over the lazy dog"},
	{"ca27d14a42fc04c1e5ecf574a95a8c2d70ecb5805e9b429026ccac8f28b20098", "The quick brown fox jumps over the lazy cog"},
	{"debe9ff92275b8a138604889c18e5a4d6fdb70e5387e5765293dcba39c0c5732", "abcdabcdabcdabcdabcdabcdabcdabcdabcdabcdabcdabcdabcdabcdabcdabcd"},
}

func TestGolden(t *testing.T) {
	for i := 0; i < len(golden); i++ {
		g := golden[i]
		s := fmt.Sprintf("%x", Sum256([]byte(g.in)))
		if s != g.out {
			t.Fatalf("Sum256 function: sm3(%s) = %s want %s", g.in, s, g.out)
		}
		c := New()
		for j := 0; j < 3; j++ {
			if j < 2 {
				io.WriteString(c, g.in)
			} else {
				io.WriteString(c, g.in[0:len(g.in)/2])
				c.Sum(nil)
				io.WriteString(c, g.in[len(g.in)/2:])
			}
			s := fmt.Sprintf("%x", c.Sum(nil))
			if s != g.out {
				t.Fatalf("sm3[%d](%s) = %s want %s", j, g.in, s, g.out)
			}
			c.Reset()
		}
	}
}

func TestGoldenMarshal(t *testing.T) {
	for _, g := range golden {
		h := New()
		h2 := New()

		io.WriteString(h, g.in[:len(g.in)/2])

		state, err := h.(encoding.BinaryMarshaler).MarshalBinary()
		if err != nil {
			t.Errorf("could not marshal: %v", err)
			continue
		}
		if err := h2.(encoding.BinaryUnmarshaler).UnmarshalBinary(state); err != nil {
			t.Errorf("could not unmarshal: %v", err)
			continue
		}
		// The restored hash must serialize back into the exact same state.
		state2, err := h2.(encoding.BinaryMarshaler).MarshalBinary()
		if err != nil {
			t.Errorf("could not remarshal: %v", err)
			continue
		}
		if !bytes.Equal(state, state2) {
			t.Errorf("sm3(%q) state mismatch:\nhave %v\nwant %v", g.in, spew.Sdump(state2), spew.Sdump(state))
			continue
		}

		io.WriteString(h, g.in[len(g.in)/2:])
		io.WriteString(h2, g.in[len(g.in)/2:])

		if actual, actual2 := h.Sum(nil), h2.Sum(nil); !bytes.Equal(actual, actual2) {
			t.Errorf("sm3(%q) = 0x%x != marshaled 0x%x", g.in, actual, actual2)
		}
	}
}

func TestMarshalErrors(t *testing.T) {
	h := New()
	io.WriteString(h, "abc")
	state, err := h.(encoding.BinaryMarshaler).MarshalBinary()
	if err != nil {
		t.Fatalf("could not marshal: %v", err)
	}
	h2 := New()
	if err := h2.(encoding.BinaryUnmarshaler).UnmarshalBinary(state[:len(state)-1]); err == nil {
		t.Error("unmarshal of truncated state succeeded")
	}
	bogus := append([]byte("bad\x01"), state[4:]...)
	if err := h2.(encoding.BinaryUnmarshaler).UnmarshalBinary(bogus); err == nil {
		t.Error("unmarshal of unknown state identifier succeeded")
	}
}

// Digests of repeated "a" strings with lengths chosen to land just around
// the padding and block boundaries.
var boundaryGolden = []struct {
	n   int
	out string
}{
	{55, "288337eef51eec62e7544d7270424c8dbe656254c99852870a73b2453a6a7fb1"},
	{56, "ba00ebedaab54065a5fd4f9f56326016203166bcee3eed44ea868d59d67aa3c8"},
	{57, "698e3fcc7a0b1515656a61db7e88805672285e83a4c24742dbade0c4010f32c0"},
	{63, "587308543551881ebd70d27ad358ff5dcdf24ac54822e2f7b7c3edce0985d21b"},
	{64, "616ec433c359e7c2b19f360e2b8f2a1b6e9ed76b8dc1a7d207b31a5341c611e9"},
	{65, "3d1d94afa238ec3e2bbc20ad504702b24c16f2889c94973f2f8da3526c44e4bc"},
	{119, "53282a90724e9eb79b18d06b5b8f7f02d046e18b29247dcdb064a136d5c4459a"},
	{120, "4c9f0fe9f36ffe0191af73560c4afb1b671be02ba2d0e0c161b1e03488c2a45c"},
	{127, "91f822ca6491e266e606d4cf35519acce24c5ca30106e019d96b9678fa538960"},
	{128, "5fd947effbe82a5925faaee9123d43cea200cc257b28ed797505694b4bb020f6"},
	{129, "d9e1d3e34f32a71dd65bc4f902c72e0a6526bbe73a70d60ee5acd66ff3565cca"},
}

func TestBoundaryLengths(t *testing.T) {
	for _, g := range boundaryGolden {
		in := strings.Repeat("a", g.n)
		if s := fmt.Sprintf("%x", Sum256([]byte(in))); s != g.out {
			t.Errorf("sm3(%d*\"a\") = %s want %s", g.n, s, g.out)
		}
	}
}

func TestMillionRepeat(t *testing.T) {
	const want = "c8aaf89429554029e231941a2acc0ad61ff2a5acd8fadd25847a3a732b3b02c3"
	h := New()
	piece := bytes.Repeat([]byte("a"), 1000)
	for i := 0; i < 1000; i++ {
		h.Write(piece)
	}
	if s := fmt.Sprintf("%x", h.Sum(nil)); s != want {
		t.Errorf("sm3(10^6*\"a\") = %s want %s", s, want)
	}
}

// Splitting the input across Write calls must not change the digest,
// no matter where the splits fall relative to the block boundary.
func TestChunkedWrites(t *testing.T) {
	f := fuzz.New().NilChance(0).NumElements(1, 8192).RandSource(rand.NewSource(42))
	rnd := rand.New(rand.NewSource(1337))
	for i := 0; i < 100; i++ {
		var data []byte
		f.Fuzz(&data)
		want := Sum256(data)

		h := New()
		for rest := data; len(rest) > 0; {
			n := rnd.Intn(len(rest)) + 1
			h.Write(rest[:n])
			rest = rest[n:]
		}
		var got [Size]byte
		h.Sum(got[:0])
		if got != want {
			t.Fatalf("chunked write %d (len %d): digest mismatch", i, len(data))
		}
	}
}

// Sum must not disturb the running state.
func TestIntermediateSum(t *testing.T) {
	h := New()
	io.WriteString(h, "ab")
	first := h.Sum(nil)
	if want := Sum256([]byte("ab")); !bytes.Equal(first, want[:]) {
		t.Fatalf("intermediate sum = %x want %x", first, want)
	}
	io.WriteString(h, "c")
	if want := Sum256([]byte("abc")); !bytes.Equal(h.Sum(nil), want[:]) {
		t.Fatalf("continued sum = %x want %x", h.Sum(nil), want)
	}
}

// Flipping any single input bit must change roughly half the digest bits.
func TestAvalanche(t *testing.T) {
	var msg [32]byte
	f := fuzz.New().RandSource(rand.NewSource(7))
	f.Fuzz(&msg)

	base := Sum256(msg[:])
	for i := 0; i < len(msg)*8; i++ {
		flipped := msg
		flipped[i/8] ^= 1 << (i % 8)
		sum := Sum256(flipped[:])

		dist := 0
		for j := range sum {
			dist += bits.OnesCount8(sum[j] ^ base[j])
		}
		if dist < 64 || dist > 192 {
			t.Errorf("bit %d: hamming distance %d outside [64, 192]", i, dist)
		}
	}
}

func TestSize(t *testing.T) {
	c := New()
	if got := c.Size(); got != 32 {
		t.Errorf("Size = %d; want 32", got)
	}
}

func TestBlockSize(t *testing.T) {
	c := New()
	if got := c.BlockSize(); got != 64 {
		t.Errorf("BlockSize = %d; want 64", got)
	}
}

var (
	_ hash.Hash                  = (*digest)(nil)
	_ encoding.BinaryMarshaler   = (*digest)(nil)
	_ encoding.BinaryUnmarshaler = (*digest)(nil)
)

func TestLargeHashes(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping large hash test in short mode")
	}
	// Exercise the multi-block fast path in Write with inputs well past
	// the buffered-prefix logic.
	data := make([]byte, 3*1024*1024+17)
	rand.New(rand.NewSource(99)).Read(data)
	whole := Sum256(data)

	h := New()
	h.Write(data[:1<<20+1])
	h.Write(data[1<<20+1:])
	if sum := h.Sum(nil); !bytes.Equal(sum, whole[:]) {
		t.Errorf("split large hash = %x want %x", sum, whole)
	}
}

func ExampleNew() {
	h := New()
	h.Write([]byte("his money is twice tainted:"))
	h.Write([]byte(" 'taint yours and 'taint mine."))
	fmt.Printf("%x", h.Sum(nil))
	// Output: b5e5d76d9e9733cf67dd6158fd749e1940c2f4696604bc471d23ebcd8a08d253
}

func ExampleSum256() {
	sum := Sum256([]byte("hello world"))
	fmt.Printf("%s", hex.EncodeToString(sum[:]))
	// Output: 44f0061e69fa6fdfc290c494654a05dc0c053da7e5c52b84ef93a9d67d3fff88
}

var bench = New()
var buf = make([]byte, 8192)

func benchmarkSize(b *testing.B, size int) {
	sum := make([]byte, bench.Size())
	b.SetBytes(int64(size))
	for i := 0; i < b.N; i++ {
		bench.Reset()
		bench.Write(buf[:size])
		bench.Sum(sum[:0])
	}
}

func BenchmarkHash8Bytes(b *testing.B) {
	benchmarkSize(b, 8)
}

func BenchmarkHash1K(b *testing.B) {
	benchmarkSize(b, 1024)
}

func BenchmarkHash8K(b *testing.B) {
	benchmarkSize(b, 8192)
}
