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

package hexutil

import (
	"bytes"
	"encoding/json"
	"testing"
)

func checkJSONError(t *testing.T, input string, got error, wantErr string) bool {
	if got == nil {
		if wantErr != "" {
			t.Errorf("input %s: got no error, want %q", input, wantErr)
			return false
		}
		return true
	}
	if wantErr == "" {
		t.Errorf("input %s: unexpected error %q", input, got)
	} else if got.Error() != wantErr {
		t.Errorf("input %s: got error %q, want %q", input, got, wantErr)
	}
	return false
}

var unmarshalBytesTests = []struct {
	input   string
	want    []byte
	wantErr string
}{
	// invalid encoding
	{input: "", wantErr: "unexpected end of JSON input"},
	{input: "null", wantErr: "json: cannot unmarshal non-string into Go value of type hexutil.Bytes"},
	{input: "10", wantErr: "json: cannot unmarshal non-string into Go value of type hexutil.Bytes"},
	{input: `"0"`, wantErr: "json: cannot unmarshal hex string without 0x prefix into Go value of type hexutil.Bytes"},
	{input: `"0x0"`, wantErr: "json: cannot unmarshal hex string of odd length into Go value of type hexutil.Bytes"},
	{input: `"0xxx"`, wantErr: "json: cannot unmarshal invalid hex string into Go value of type hexutil.Bytes"},
	{input: `"0x01zz01"`, wantErr: "json: cannot unmarshal invalid hex string into Go value of type hexutil.Bytes"},

	// valid encoding
	{input: `""`, want: []byte{}},
	{input: `"0x"`, want: []byte{}},
	{input: `"0x02"`, want: []byte{0x02}},
	{input: `"0X02"`, want: []byte{0x02}},
	{input: `"0xffffffffff"`, want: []byte{0xff, 0xff, 0xff, 0xff, 0xff}},
	{
		input: `"0xffffffffffffffffffffffffffffffffffff"`,
		want:  []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
	},
}

func TestUnmarshalBytes(t *testing.T) {
	for _, test := range unmarshalBytesTests {
		var v Bytes
		err := json.Unmarshal([]byte(test.input), &v)
		if !checkJSONError(t, test.input, err, test.wantErr) {
			continue
		}
		if !bytes.Equal(test.want, v) {
			t.Errorf("input %s: value mismatch: got %x, want %x", test.input, &v, test.want)
		}
	}
}

func TestMarshalBytes(t *testing.T) {
	for _, test := range encodeBytesTests {
		in := test.input.([]byte)
		out, err := json.Marshal(Bytes(in))
		if err != nil {
			t.Errorf("%x: %v", in, err)
			continue
		}
		if want := `"` + test.want + `"`; string(out) != want {
			t.Errorf("%x: MarshalJSON output mismatch: got %q, want %q", in, out, want)
			continue
		}
		if out := Bytes(in).String(); out != test.want {
			t.Errorf("%x: String mismatch: got %q, want %q", in, out, test.want)
			continue
		}
	}
}
