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
	"crypto/sha256"
	"encoding"
	"errors"
	"fmt"
	"hash"
	"math/rand"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/shangmi/go-sm3/cmd/utils"
	"github.com/shangmi/go-sm3/common"
	"github.com/shangmi/go-sm3/crypto/sm3"
	"github.com/shangmi/go-sm3/internal/flags"
	"github.com/shangmi/go-sm3/log"
	"github.com/shangmi/go-sm3/metrics"
	"github.com/urfave/cli/v2"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

const (
	benchWarmupRuns = 3                     // unmeasured hashes before sampling starts
	benchCooldown   = 50 * time.Millisecond // pause between samples
)

var (
	benchSizesFlag = &cli.StringFlag{
		Name:     "sizes",
		Usage:    "Comma separated input sizes to measure (K/M/G suffixes allowed)",
		Value:    "16,1K,10K,100K,1M,10M",
		Category: flags.PerfCategory,
	}
	benchIterationsFlag = &cli.IntFlag{
		Name:     "iterations",
		Usage:    "Timed hashing rounds per input size",
		Value:    10,
		Category: flags.PerfCategory,
	}
	compareSizeFlag = &cli.StringFlag{
		Name:     "size",
		Usage:    "Input size to measure (K/M/G suffixes allowed)",
		Value:    "1M",
		Category: flags.PerfCategory,
	}
)

var (
	benchCommand = &cli.Command{
		Action:    runBench,
		Name:      "bench",
		Usage:     "Measure SM3 hashing throughput across input sizes",
		ArgsUsage: " ",
		Flags: []cli.Flag{
			benchSizesFlag,
			benchIterationsFlag,
		},
		Description: `
The bench command times one-shot SM3 hashes over a range of input sizes and
tabulates the per-size minimum, maximum and trimmed mean next to the derived
throughput. The fastest and slowest round of every size are dropped from the
mean so scheduler noise does not skew small inputs.`,
	}
	compareCommand = &cli.Command{
		Action:    runCompare,
		Name:      "compare",
		Usage:     "Benchmark SM3 against other 256 bit hashes",
		ArgsUsage: " ",
		Flags: []cli.Flag{
			compareSizeFlag,
			benchIterationsFlag,
		},
		Description: `
The compare command measures one-shot hashing throughput of SM3 next to
SHA-256, SHA3-256 and BLAKE2b-256 over identical random input and reports
both absolute and relative speeds.`,
	}
	memoryCommand = &cli.Command{
		Action:    runMemory,
		Name:      "memory",
		Usage:     "Report the memory behaviour of the hash",
		ArgsUsage: " ",
		Description: `
The memory command reports the hash state footprint along with measured heap
allocation counts for one-shot and streaming use.`,
	}
)

var errTooFewRuns = errors.New("at least 3 iterations are needed for a trimmed mean")

// benchStats summarizes the samples taken for one input size.
type benchStats struct {
	size int
	min  time.Duration
	max  time.Duration
	mean time.Duration // trimmed mean, fastest and slowest sample dropped
}

func runBench(ctx *cli.Context) error {
	sizes, err := utils.ParseSizeList(ctx.String(benchSizesFlag.Name))
	if err != nil {
		return err
	}
	iterations := ctx.Int(benchIterationsFlag.Name)
	if iterations < 3 {
		return errTooFewRuns
	}
	var (
		rnd    = rand.New(rand.NewSource(time.Now().UnixNano()))
		hashed = metrics.GetOrRegisterMeter("sm3sum/bench/bytes", nil)
		runs   = metrics.GetOrRegisterCounter("sm3sum/bench/hashes", nil)
	)
	// Warm up the implementation before taking samples.
	warm := make([]byte, 1024)
	rnd.Read(warm)
	for i := 0; i < benchWarmupRuns; i++ {
		sm3.Sum256(warm)
	}

	check, release := watchInterrupt()
	defer release()

	var (
		begin   = time.Now()
		total   uint64
		done    uint64
		results []benchStats
	)
	for _, size := range sizes {
		total += uint64(size) * uint64(iterations)
	}
	for _, size := range sizes {
		data := make([]byte, size)
		rnd.Read(data)

		log.Info("Benchmarking input size", "size", common.StorageSize(size), "iterations", iterations)
		samples, err := measureOneShot(sm3.New, data, iterations, check)
		if err != nil {
			return err
		}
		hashed.Mark(int64(size) * int64(iterations))
		runs.Inc(int64(iterations))

		min, max, mean := summarize(samples)
		results = append(results, benchStats{size: size, min: min, max: max, mean: mean})

		done += uint64(size) * uint64(iterations)
		log.Info("Benchmark progress", "processed", common.StorageSize(done),
			"elapsed", common.PrettyDuration(time.Since(begin)),
			"eta", common.PrettyDuration(common.CalculateETA(done, total-done, time.Since(begin))))
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Size", "Min", "Trimmed mean", "Max", "Throughput"})
	rows := make([][]string, 0, len(results))
	for _, res := range results {
		rows = append(rows, []string{
			sizeLabel(res.size),
			common.PrettyDuration(res.min).String(),
			common.PrettyDuration(res.mean).String(),
			common.PrettyDuration(res.max).String(),
			fmt.Sprintf("%.2f MB/s", throughputMBps(res.size, res.mean)),
		})
	}
	table.AppendBulk(rows)
	table.Render()

	log.Info("Benchmark complete", "sizes", len(results), "elapsed", common.PrettyDuration(time.Since(begin)))
	return nil
}

func runCompare(ctx *cli.Context) error {
	sizes, err := utils.ParseSizeList(ctx.String(compareSizeFlag.Name))
	if err != nil {
		return err
	}
	if len(sizes) != 1 {
		return errors.New("compare expects a single input size")
	}
	size := sizes[0]
	iterations := ctx.Int(benchIterationsFlag.Name)
	if iterations < 3 {
		return errTooFewRuns
	}
	algos := []struct {
		name string
		make func() hash.Hash
	}{
		{"SM3", sm3.New},
		{"SHA-256", sha256.New},
		{"SHA3-256", sha3.New256},
		{"BLAKE2b-256", newBlake2b256},
	}
	data := make([]byte, size)
	rand.New(rand.NewSource(time.Now().UnixNano())).Read(data)

	check, release := watchInterrupt()
	defer release()

	type result struct {
		name string
		mean time.Duration
	}
	var (
		results  []result
		baseline float64
	)
	for _, algo := range algos {
		log.Info("Benchmarking hash", "algo", algo.name, "size", common.StorageSize(size), "iterations", iterations)
		samples, err := measureOneShot(algo.make, data, iterations, check)
		if err != nil {
			return err
		}
		_, _, mean := summarize(samples)
		results = append(results, result{algo.name, mean})
		if algo.name == "SM3" {
			baseline = throughputMBps(size, mean)
		}
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Algorithm", "Trimmed mean", "Throughput", "Relative"})
	rows := make([][]string, 0, len(results))
	for _, res := range results {
		mbps := throughputMBps(size, res.mean)
		rel := "-"
		if baseline > 0 {
			rel = fmt.Sprintf("%.2fx", mbps/baseline)
		}
		rows = append(rows, []string{
			res.name,
			common.PrettyDuration(res.mean).String(),
			fmt.Sprintf("%.2f MB/s", mbps),
			rel,
		})
	}
	table.AppendBulk(rows)
	table.Render()
	return nil
}

func runMemory(ctx *cli.Context) error {
	var (
		small = make([]byte, 1024)
		large = make([]byte, 10*1024*1024)
		rnd   = rand.New(rand.NewSource(time.Now().UnixNano()))
	)
	rnd.Read(small)
	rnd.Read(large)

	state, err := sm3.New().(encoding.BinaryMarshaler).MarshalBinary()
	if err != nil {
		return err
	}
	oneshot := allocsPerRun(100, func() {
		sm3.Sum256(small)
	})
	streaming := allocsPerRun(100, func() {
		h := sm3.New()
		h.Write(small)
		h.Sum(nil)
	})

	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)
	sum := sm3.Sum256(large)
	runtime.ReadMemStats(&after)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Metric", "Value"})
	table.AppendBulk([][]string{
		{"Digest size", fmt.Sprintf("%d B", sm3.Size)},
		{"Block size", fmt.Sprintf("%d B", sm3.BlockSize)},
		{"Serialized hash state", fmt.Sprintf("%d B", len(state))},
		{"Allocs per Sum256(1KB)", fmt.Sprintf("%.1f", oneshot)},
		{"Allocs per New/Write/Sum(1KB)", fmt.Sprintf("%.1f", streaming)},
		{"Heap growth for Sum256(10MB)", common.StorageSize(after.TotalAlloc - before.TotalAlloc).String()},
	})
	table.Render()

	log.Debug("Memory measurement complete", "digest", fmt.Sprintf("%x", sum[:4]))
	return nil
}

// measureOneShot times full construct-write-finalize hashes of data, pausing
// between samples so a turbo-clocked core settles before the next one.
func measureOneShot(newHash func() hash.Hash, data []byte, iterations int, interrupted func() bool) ([]time.Duration, error) {
	samples := make([]time.Duration, 0, iterations)
	for i := 0; i < iterations; i++ {
		if interrupted() {
			return nil, errors.New("benchmark interrupted")
		}
		start := time.Now()
		h := newHash()
		h.Write(data)
		h.Sum(nil)
		samples = append(samples, time.Since(start))

		if i < iterations-1 {
			time.Sleep(benchCooldown)
		}
	}
	return samples, nil
}

// summarize reduces raw samples to their extremes and a trimmed mean with the
// fastest and slowest sample dropped. Needs at least 3 samples.
func summarize(samples []time.Duration) (min, max, mean time.Duration) {
	min, max = samples[0], samples[0]
	var sum time.Duration
	for _, d := range samples {
		sum += d
		if d < min {
			min = d
		}
		if d > max {
			max = d
		}
	}
	mean = (sum - min - max) / time.Duration(len(samples)-2)
	return min, max, mean
}

// throughputMBps converts one hash duration over size bytes into MB/s.
func throughputMBps(size int, d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(size) / (1 << 20) / d.Seconds()
}

// sizeLabel renders an input size the way the benchmark corpus names it.
func sizeLabel(size int) string {
	if size < 1024 {
		return fmt.Sprintf("%dB", size)
	}
	if size < 1024*1024 {
		return fmt.Sprintf("%.1fKB", float64(size)/1024)
	}
	return fmt.Sprintf("%.1fMB", float64(size)/(1024*1024))
}

// allocsPerRun reports the average number of heap allocations during calls
// to f, measured with the world restricted to a single processor.
func allocsPerRun(runs int, f func()) float64 {
	defer runtime.GOMAXPROCS(runtime.GOMAXPROCS(1))

	// Warm up the function
	f()

	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	for i := 0; i < runs; i++ {
		f()
	}
	runtime.ReadMemStats(&after)
	return float64(after.Mallocs-before.Mallocs) / float64(runs)
}

// newBlake2b256 adapts the keyed BLAKE2b constructor to the hash.Hash shape.
func newBlake2b256() hash.Hash {
	h, err := blake2b.New256(nil)
	if err != nil {
		panic(err) // unkeyed constructor cannot fail
	}
	return h
}

// watchInterrupt arms a SIGINT/SIGTERM handler. The returned check reports
// whether a signal arrived; release detaches the handler again.
func watchInterrupt() (check func() bool, release func()) {
	var (
		interrupt = make(chan os.Signal, 1)
		stop      = make(chan struct{})
	)
	signal.Notify(interrupt, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		if _, ok := <-interrupt; ok {
			log.Warn("Caught interrupt, stopping after the current sample")
		}
		close(stop)
	}()
	check = func() bool {
		select {
		case <-stop:
			return true
		default:
			return false
		}
	}
	release = func() {
		signal.Stop(interrupt)
		close(interrupt)
	}
	return check, release
}
