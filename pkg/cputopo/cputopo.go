// Copyright 2026 Zapress Authors
// SPDX-License-Identifier: Apache-2.0

// Package cputopo detects host CPU topology for sizing compression and
// checksum worker pools. The workloads we parallelize (external
// compressor threads, digest computation) are compute-bound and gain
// nothing from hyperthread siblings, so the count of interest is
// physical execution units, not logical processors.
package cputopo

import (
	"bufio"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/shirou/gopsutil/v4/cpu"

	"github.com/LeeDigitalWorks/zapress/pkg/logger"
)

// WorkersEnv overrides detection when set to a positive integer.
const WorkersEnv = "ZAPRESS_WORKERS"

var (
	once     sync.Once
	physical int
)

// Physical returns the number of physical (non-hyperthreaded) execution
// units on this host. The result is computed once and cached for the
// process lifetime. It is always >= 1: if topology cannot be determined
// the full logical processor count is reported instead of failing.
func Physical() int {
	once.Do(func() {
		physical = detect()
	})
	return physical
}

// Logical returns the logical processor count.
func Logical() int {
	return runtime.NumCPU()
}

func detect() int {
	if v := os.Getenv(WorkersEnv); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			logger.Debug().Int("workers", n).Msgf("using %s from environment", WorkersEnv)
			return n
		}
		logger.Warn().Str("value", v).Msgf("invalid %s, falling back to detection", WorkersEnv)
	}

	if cores, err := cpu.Counts(false); err == nil && cores > 0 {
		logger.Debug().Int("cores", cores).Msg("detected physical cores")
		return cores
	}

	if f, err := os.Open("/proc/cpuinfo"); err == nil {
		defer f.Close()
		if cores := parseCPUInfo(f); cores > 0 {
			logger.Debug().Int("cores", cores).Msg("physical cores from /proc/cpuinfo")
			return cores
		}
	}

	// Topology unavailable. Degrade to the logical count rather than
	// guessing at an SMT divisor.
	logical := runtime.NumCPU()
	if logical < 1 {
		logical = 1
	}
	logger.Debug().Int("cores", logical).Msg("topology unavailable, using logical processor count")
	return logical
}

// parseCPUInfo counts distinct (physical id, core id) pairs in
// /proc/cpuinfo content. Returns 0 when the fields are absent (ARM,
// VMs with trimmed cpuinfo) so the caller can fall back.
func parseCPUInfo(r io.Reader) int {
	type coreKey struct {
		pkg  string
		core string
	}
	seen := make(map[coreKey]struct{})

	var pkgID, coreID string
	flush := func() {
		if pkgID != "" && coreID != "" {
			seen[coreKey{pkgID, coreID}] = struct{}{}
		}
		pkgID, coreID = "", ""
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			flush()
			continue
		}
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		switch strings.TrimSpace(key) {
		case "physical id":
			pkgID = strings.TrimSpace(value)
		case "core id":
			coreID = strings.TrimSpace(value)
		}
	}
	flush()

	return len(seen)
}
