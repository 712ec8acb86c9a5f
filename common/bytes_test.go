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

package common

import (
	"testing"

	checker "gopkg.in/check.v1"
)

func Test(t *testing.T) { checker.TestingT(t) }

type BytesSuite struct{}

var _ = checker.Suite(&BytesSuite{})

func (s *BytesSuite) TestCopyBytes(c *checker.C) {
	data1 := []byte{1, 2, 3, 4}
	exp1 := []byte{1, 2, 3, 4}
	res1 := CopyBytes(data1)
	c.Assert(res1, checker.DeepEquals, exp1)

	res1[0] = 99
	c.Assert(data1, checker.DeepEquals, exp1)
}

func (s *BytesSuite) TestFromHex(c *checker.C) {
	input := "0x01"
	expected := []byte{1}
	result := FromHex(input)
	c.Assert(result, checker.DeepEquals, expected)
}

func (s *BytesSuite) TestFromHexOddLength(c *checker.C) {
	input := "0x1"
	expected := []byte{1}
	result := FromHex(input)
	c.Assert(result, checker.DeepEquals, expected)
}

func (s *BytesSuite) TestNoPrefixShortHexOddLength(c *checker.C) {
	input := "1"
	expected := []byte{1}
	result := FromHex(input)
	c.Assert(result, checker.DeepEquals, expected)
}

func (s *BytesSuite) TestIsHex(c *checker.C) {
	data1 := "a9e67e"
	exp1 := true
	res1 := isHex(data1)
	c.Assert(res1, checker.Equals, exp1)

	data2 := "a9e67e0"
	exp2 := false
	res2 := isHex(data2)
	c.Assert(res2, checker.Equals, exp2)

	data3 := "a9e67ez"
	exp3 := false
	res3 := isHex(data3)
	c.Assert(res3, checker.Equals, exp3)
}

func (s *BytesSuite) TestTrimLeftZeroes(c *checker.C) {
	c.Assert(TrimLeftZeroes([]byte{0, 0, 1, 2}), checker.DeepEquals, []byte{1, 2})
	c.Assert(TrimLeftZeroes([]byte{1, 2}), checker.DeepEquals, []byte{1, 2})
	c.Assert(TrimLeftZeroes([]byte{0, 0}), checker.DeepEquals, []byte{})
}

func (s *BytesSuite) TestLeftPadBytes(c *checker.C) {
	val1 := []byte{1, 2, 3, 4}
	exp1 := []byte{0, 0, 0, 0, 1, 2, 3, 4}

	res1 := LeftPadBytes(val1, 8)
	res2 := LeftPadBytes(val1, 2)

	c.Assert(res1, checker.DeepEquals, exp1)
	c.Assert(res2, checker.DeepEquals, val1)
}

func (s *BytesSuite) TestRightPadBytes(c *checker.C) {
	val := []byte{1, 2, 3, 4}
	exp := []byte{1, 2, 3, 4, 0, 0, 0, 0}

	resstd := RightPadBytes(val, 8)
	resshrt := RightPadBytes(val, 2)

	c.Assert(resstd, checker.DeepEquals, exp)
	c.Assert(resshrt, checker.DeepEquals, val)
}
