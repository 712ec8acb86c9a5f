// Copyright 2024 The go-sm3 Authors
// This file is part of go-sm3.
//
// go-sm3 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// go-sm3 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with go-sm3. If not, see <http://www.gnu.org/licenses/>.

// Package utils contains internal helper functions for go-sm3 commands.
package utils

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"
)

// Fatalf formats a message to standard error and exits the program.
// The message is also printed to standard output if standard error
// is redirected to a different file.
func Fatalf(format string, args ...interface{}) {
	w := io.MultiWriter(os.Stdout, os.Stderr)
	if runtime.GOOS == "windows" {
		// The SameFile check below doesn't work on Windows.
		// stdout is unlikely to get redirected though, so just print there.
		w = os.Stdout
	} else {
		outf, _ := os.Stdout.Stat()
		errf, _ := os.Stderr.Stat()
		if outf != nil && errf != nil && os.SameFile(outf, errf) {
			w = os.Stderr
		}
	}
	fmt.Fprintf(w, "Fatal: "+format+"\n", args...)
	os.Exit(1)
}

// SplitAndTrim splits input separated by a comma
// and trims excessive white space from the substrings.
func SplitAndTrim(input string) (ret []string) {
	l := strings.Split(input, ",")
	for _, r := range l {
		if r = strings.TrimSpace(r); r != "" {
			ret = append(ret, r)
		}
	}
	return ret
}

// ParseSizeList parses a comma separated list of byte sizes. Plain numbers
// are bytes, a trailing K, M or G scales by powers of 1024.
func ParseSizeList(input string) ([]int, error) {
	var sizes []int
	for _, field := range SplitAndTrim(input) {
		mult := 1
		switch {
		case strings.HasSuffix(field, "G"):
			mult, field = 1024*1024*1024, field[:len(field)-1]
		case strings.HasSuffix(field, "M"):
			mult, field = 1024*1024, field[:len(field)-1]
		case strings.HasSuffix(field, "K"):
			mult, field = 1024, field[:len(field)-1]
		}
		n, err := strconv.Atoi(field)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid size %q", field)
		}
		sizes = append(sizes, n*mult)
	}
	if len(sizes) == 0 {
		return nil, fmt.Errorf("empty size list")
	}
	return sizes, nil
}
