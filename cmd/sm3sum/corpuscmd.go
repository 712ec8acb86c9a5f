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
	"errors"
	"fmt"
	"io/fs"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/shangmi/go-sm3/cmd/utils"
	"github.com/shangmi/go-sm3/common"
	"github.com/shangmi/go-sm3/crypto"
	"github.com/shangmi/go-sm3/internal/flags"
	"github.com/shangmi/go-sm3/log"
	"github.com/shangmi/go-sm3/metrics"
	"github.com/urfave/cli/v2"
)

var corpusDirFlag = &flags.DirectoryFlag{
	Name:     "dir",
	Usage:    "Directory holding the benchmark corpus",
	Value:    flags.DirectoryString("."),
	Category: flags.PerfCategory,
}

var (
	generateCommand = &cli.Command{
		Action:    runGenerate,
		Name:      "generate",
		Usage:     "Write the benchmark corpus files",
		ArgsUsage: " ",
		Flags: []cli.Flag{
			corpusDirFlag,
			benchSizesFlag,
		},
		Description: `
The generate command fills the corpus directory with one random file per
benchmark input size (test_16bytes.bin, test_1.0KB.bin, ...). Existing
files are overwritten.`,
	}
	verifyCommand = &cli.Command{
		Action:    runVerify,
		Name:      "verify",
		Usage:     "Hash the benchmark corpus files",
		ArgsUsage: " ",
		Flags: []cli.Flag{
			corpusDirFlag,
			benchSizesFlag,
		},
		Description: `
The verify command recomputes and prints the SM3 digest of every corpus
file, flagging the ones that are missing or unreadable. A non-zero exit
status signals at least one unavailable file.`,
	}
)

var (
	corpusWriteMeter = metrics.NewRegisteredMeter("sm3sum/corpus/write", nil)
	corpusReadMeter  = metrics.NewRegisteredMeter("sm3sum/corpus/read", nil)
)

func runGenerate(ctx *cli.Context) error {
	sizes, err := utils.ParseSizeList(ctx.String(benchSizesFlag.Name))
	if err != nil {
		return err
	}
	var (
		dir   = ctx.String(corpusDirFlag.Name)
		rnd   = rand.New(rand.NewSource(time.Now().UnixNano()))
		start = time.Now()
	)
	for _, size := range sizes {
		path := filepath.Join(dir, corpusFileName(size))
		if err := writeCorpusFile(path, size, rnd); err != nil {
			utils.Fatalf("Failed to generate %s: %v", path, err)
		}
		log.Info("Generated corpus file", "path", path, "size", common.StorageSize(size))
	}
	log.Info("Corpus ready", "files", len(sizes), "elapsed", common.PrettyDuration(time.Since(start)))
	return nil
}

func runVerify(ctx *cli.Context) error {
	sizes, err := utils.ParseSizeList(ctx.String(benchSizesFlag.Name))
	if err != nil {
		return err
	}
	var (
		dir    = ctx.String(corpusDirFlag.Name)
		green  = color.New(color.FgGreen).SprintfFunc()
		red    = color.New(color.FgRed).SprintfFunc()
		failed int
	)
	for _, size := range sizes {
		name := corpusFileName(size)
		hash, err := crypto.SM3File(filepath.Join(dir, name))
		switch {
		case errors.Is(err, fs.ErrNotExist):
			fmt.Printf("%s: %s\n", name, red("missing, run generate first"))
			failed++
		case err != nil:
			fmt.Printf("%s: %s\n", name, red("unreadable: %v", err))
			failed++
		default:
			corpusReadMeter.Mark(int64(size))
			fmt.Printf("%s: %s\n", name, green("%x", hash))
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d corpus files unavailable", failed, len(sizes))
	}
	return nil
}

// corpusFileName returns the canonical corpus file name for an input size.
func corpusFileName(size int) string {
	if size < 1024 {
		return fmt.Sprintf("test_%dbytes.bin", size)
	}
	if size < 1024*1024 {
		return fmt.Sprintf("test_%.1fKB.bin", float64(size)/1024)
	}
	return fmt.Sprintf("test_%.1fMB.bin", float64(size)/(1024*1024))
}

// writeCorpusFile fills path with size random bytes, streamed in 1MB slabs.
func writeCorpusFile(path string, size int, rnd *rand.Rand) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	buf := make([]byte, 1024*1024)
	for written := 0; written < size; {
		n := size - written
		if n > len(buf) {
			n = len(buf)
		}
		rnd.Read(buf[:n])
		if _, err := f.Write(buf[:n]); err != nil {
			return err
		}
		corpusWriteMeter.Mark(int64(n))
		written += n
	}
	return nil
}
