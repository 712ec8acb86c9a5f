// Go port of Coda Hale's Metrics library
//
// <https://github.com/rcrowley/go-metrics>
//
// Coda Hale's original work: <https://github.com/codahale/metrics>

// Package metrics provides general system and logic metrics for go-sm3.
package metrics

import (
	"os"
	"runtime"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/shangmi/go-sm3/log"
)

// Enabled is checked by the constructor functions for all of the
// standard metrics. If it is true, the metric returned is a stub.
//
// This global kill-switch helps quantify the observer effect and makes
// for less cluttered pprof profiles.
var Enabled = false

// enablerFlags is the CLI flag names to use to enable metrics collections.
var enablerFlags = []string{"metrics"}

// enablerEnvVars is the env var names to use to enable metrics collection.
var enablerEnvVars = []string{"SM3_METRICS"}

// init enables or disables the metrics system. Because we need this to run before
// any other code gets to create meters and timers, we'll actually do an ugly hack
// and peek into the command line args for the metrics flag.
func init() {
	for _, enabler := range enablerEnvVars {
		if val, found := syscall.Getenv(enabler); found && !Enabled {
			if enable, _ := strconv.ParseBool(val); enable { // ignore error, flag parser will choke on it later
				log.Info("Enabling metrics collection")
				Enabled = true
			}
		}
	}
	for _, arg := range os.Args {
		flag := strings.TrimLeft(arg, "-")

		for _, enabler := range enablerFlags {
			if !Enabled && flag == enabler {
				log.Info("Enabling metrics collection")
				Enabled = true
			}
		}
	}
}

// emptySnapshot satisfies all of the snapshot interfaces with zero values,
// serving as the return of the no-op metric variants.
type emptySnapshot struct{}

func (*emptySnapshot) Count() int64      { return 0 }
func (*emptySnapshot) Value() int64      { return 0 }
func (*emptySnapshot) Rate() float64     { return 0.0 }
func (*emptySnapshot) Rate1() float64    { return 0.0 }
func (*emptySnapshot) Rate5() float64    { return 0.0 }
func (*emptySnapshot) Rate15() float64   { return 0.0 }
func (*emptySnapshot) RateMean() float64 { return 0.0 }

// CollectProcessMetrics periodically collects various metrics about the running
// process.
func CollectProcessMetrics(refresh time.Duration) {
	// Short circuit if the metrics system is disabled
	if !Enabled {
		return
	}

	// Create the various data collectors
	var (
		cpustats = make([]CPUStats, 2)
		memstats = make([]runtime.MemStats, 2)
	)

	// Define the various metrics to collect
	var (
		cpuSysLoad    = GetOrRegisterGauge("system/cpu/sysload", DefaultRegistry)
		cpuSysWait    = GetOrRegisterGauge("system/cpu/syswait", DefaultRegistry)
		cpuProcLoad   = GetOrRegisterGauge("system/cpu/procload", DefaultRegistry)
		cpuGoroutines = GetOrRegisterGauge("system/cpu/goroutines", DefaultRegistry)

		memPauses = GetOrRegisterMeter("system/memory/pauses", DefaultRegistry)
		memAllocs = GetOrRegisterMeter("system/memory/allocs", DefaultRegistry)
		memFrees  = GetOrRegisterMeter("system/memory/frees", DefaultRegistry)
		memHeld   = GetOrRegisterGauge("system/memory/held", DefaultRegistry)
		memUsed   = GetOrRegisterGauge("system/memory/used", DefaultRegistry)
	)

	// Iterate loading the different stats and updating the meters.
	now, prev := 0, 1
	for ; ; now, prev = prev, now {
		// CPU
		ReadCPUStats(&cpustats[now])
		cpuSysLoad.Update(int64((cpustats[now].GlobalTime - cpustats[prev].GlobalTime) / refresh.Seconds() * 100))
		cpuSysWait.Update(int64((cpustats[now].GlobalWait - cpustats[prev].GlobalWait) / refresh.Seconds() * 100))
		cpuProcLoad.Update(int64((cpustats[now].LocalTime - cpustats[prev].LocalTime) / refresh.Seconds() * 100))

		// Goroutines
		cpuGoroutines.Update(int64(runtime.NumGoroutine()))

		// Go runtime metrics
		runtime.ReadMemStats(&memstats[now])
		memPauses.Mark(int64(memstats[now].PauseTotalNs - memstats[prev].PauseTotalNs))
		memAllocs.Mark(int64(memstats[now].Mallocs - memstats[prev].Mallocs))
		memFrees.Mark(int64(memstats[now].Frees - memstats[prev].Frees))
		memHeld.Update(int64(memstats[now].HeapSys - memstats[now].HeapReleased))
		memUsed.Update(int64(memstats[now].HeapAlloc))

		time.Sleep(refresh)
	}
}
