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

// sm3sum computes SM3 message digests and benchmarks the hash implementation.
package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/shangmi/go-sm3/common"
	"github.com/shangmi/go-sm3/crypto"
	"github.com/shangmi/go-sm3/internal/debug"
	"github.com/shangmi/go-sm3/internal/flags"
	"github.com/shangmi/go-sm3/log"
	"github.com/shangmi/go-sm3/metrics"
	"github.com/urfave/cli/v2"
	"go.uber.org/automaxprocs/maxprocs"
	"golang.org/x/sync/errgroup"
)

const clientIdentifier = "sm3sum" // Client identifier to advertise in version strings

var (
	stringFlag = &cli.BoolFlag{
		Name:     "string",
		Aliases:  []string{"s"},
		Usage:    "Treat operands as literal strings instead of file paths",
		Category: flags.HashingCategory,
	}
	jobsFlag = &cli.IntFlag{
		Name:     "jobs",
		Aliases:  []string{"j"},
		Usage:    "Number of files hashed concurrently",
		Value:    runtime.NumCPU(),
		Category: flags.HashingCategory,
	}
	metricsFlag = &cli.BoolFlag{
		Name:     "metrics",
		Usage:    "Enable metrics collection and reporting",
		Category: flags.MetricsCategory,
	}
)

var app = flags.NewApp("the SM3 hash command line interface")

func init() {
	app.Name = clientIdentifier
	app.Action = sm3sum
	app.HideVersion = true // we have a command to print the version
	app.Commands = []*cli.Command{
		benchCommand,
		compareCommand,
		memoryCommand,
		generateCommand,
		verifyCommand,
		versionCommand,
		licenseCommand,
	}
	app.Flags = flags.Merge(
		[]cli.Flag{stringFlag, jobsFlag, metricsFlag},
		debug.Flags,
	)
	app.Before = func(ctx *cli.Context) error {
		maxprocs.Set() // Automatically set GOMAXPROCS to match Linux container CPU quota.
		flags.MigrateGlobalFlags(ctx)
		if err := debug.Setup(ctx); err != nil {
			return err
		}
		// Start system runtime metrics collection
		go metrics.CollectProcessMetrics(3 * time.Second)
		return nil
	}
	app.After = func(ctx *cli.Context) error {
		debug.Exit()
		return nil
	}
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// sm3sum is the default action. Operands are hashed and printed one per line
// in digest-then-name order; without operands the standard input is hashed.
func sm3sum(ctx *cli.Context) error {
	args := ctx.Args().Slice()
	if ctx.Bool(stringFlag.Name) {
		if len(args) == 0 {
			return errors.New("--string requires at least one operand")
		}
		for _, s := range args {
			fmt.Printf("%x  %q\n", crypto.SM3Hash([]byte(s)), s)
		}
		return nil
	}
	if len(args) == 0 {
		hash, err := crypto.SM3Reader(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to hash standard input: %w", err)
		}
		fmt.Printf("%x  -\n", hash)
		return nil
	}
	return hashFiles(args, ctx.Int(jobsFlag.Name))
}

// hashFiles streams the given files into independent digests, bounded by the
// concurrency limit. Results are printed in argument order once all workers
// are done; a failed file does not abort the remaining ones.
func hashFiles(paths []string, jobs int) error {
	if jobs < 1 {
		jobs = 1
	}
	var (
		start  = time.Now()
		hashes = make([]common.Hash, len(paths))
		errs   = make([]error, len(paths))
	)
	var group errgroup.Group
	group.SetLimit(jobs)
	for i, path := range paths {
		i, path := i, path
		group.Go(func() error {
			hashes[i], errs[i] = crypto.SM3File(path)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	failed := 0
	for i, path := range paths {
		if errs[i] != nil {
			log.Error("Failed to hash file", "path", path, "err", errs[i])
			failed++
			continue
		}
		fmt.Printf("%x  %s\n", hashes[i], path)
	}
	log.Debug("Hashed files", "files", len(paths), "failed", failed, "elapsed", common.PrettyDuration(time.Since(start)))
	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be hashed", failed, len(paths))
	}
	return nil
}
