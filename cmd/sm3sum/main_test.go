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

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/shangmi/go-sm3/internal/testlog"
	"github.com/shangmi/go-sm3/log"
	"github.com/stretchr/testify/require"
)

func TestHashFiles(t *testing.T) {
	old := log.Root().GetHandler()
	log.Root().SetHandler(testlog.Handler(t, log.LvlDebug))
	defer log.Root().SetHandler(old)

	path := filepath.Join(t.TempDir(), "payload.bin")
	require.NoError(t, os.WriteFile(path, []byte("abc"), 0644))

	var err error
	out := captureStdout(t, func() { err = hashFiles([]string{path}, 0) })
	require.NoError(t, err)
	require.Equal(t, fmt.Sprintf("66c7f0f462eeedd9d1f2d46bdc10e4e24167c4875cf2f7a2297da02b8f4ba8e0  %s\n", path), out)
}

func TestHashFilesPartialFailure(t *testing.T) {
	old := log.Root().GetHandler()
	log.Root().SetHandler(testlog.Handler(t, log.LvlDebug))
	defer log.Root().SetHandler(old)

	dir := t.TempDir()
	path := filepath.Join(dir, "payload.bin")
	require.NoError(t, os.WriteFile(path, []byte("abc"), 0644))

	var err error
	out := captureStdout(t, func() {
		err = hashFiles([]string{filepath.Join(dir, "missing.bin"), path}, 2)
	})
	require.EqualError(t, err, "1 of 2 files could not be hashed")

	// The readable file must still be reported.
	require.Contains(t, out, "66c7f0f462eeedd9d1f2d46bdc10e4e24167c4875cf2f7a2297da02b8f4ba8e0")
}

// captureStdout runs fn with os.Stdout redirected into a pipe and returns
// everything fn wrote to it.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)

	stdout := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = stdout }()

	fn()
	w.Close()
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out)
}
