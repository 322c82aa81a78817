// Package sysinfo takes point-in-time snapshots of CPU, memory and disk usage
// for the status dashboard.
package sysinfo

import (
	"context"
	"errors"
	"math"
	"runtime"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

// UnknownCPU is reported when no probe can name the processor.
const UnknownCPU = "Unknown CPU"

// SampleDelay is how long CPU usage is measured for.
const SampleDelay = 100 * time.Millisecond

const (
	mib = 1 << 20
	gib = 1 << 30
)

// Info is a system snapshot. Fields whose probe failed hold zero values.
type Info struct {
	Hostname  string `json:"hostname"`
	OS        string `json:"os"`
	OSVersion string `json:"os_version"`
	Arch      string `json:"arch"`

	CPUName  string  `json:"cpu_name"`
	CPUCores int     `json:"cpu_cores"`
	CPUUsage float64 `json:"cpu_usage"`

	TotalMemoryMB      int64   `json:"total_memory_mb"`
	UsedMemoryMB       int64   `json:"used_memory_mb"`
	MemoryUsagePercent float64 `json:"memory_usage_percent"`

	Drives []Drive `json:"drives"`
}

// Drive describes one fixed drive in whole gigabytes.
type Drive struct {
	Name         string  `json:"name"`
	TotalGB      int64   `json:"total_gb"`
	FreeGB       int64   `json:"free_gb"`
	UsedGB       int64   `json:"used_gb"`
	UsagePercent float64 `json:"usage_percent"`
}

// newDrive rounds sizes down to gigabytes first and derives used space and
// usage from the rounded values, so the numbers shown always add up.
func newDrive(name string, total, free uint64) Drive {
	d := Drive{
		Name:    name,
		TotalGB: int64(total / gib),
		FreeGB:  int64(free / gib),
	}
	d.UsedGB = d.TotalGB - d.FreeGB
	if d.TotalGB > 0 {
		d.UsagePercent = float64(d.UsedGB) / float64(d.TotalGB) * 100
	}
	return d
}

// ─── Probes ──────────────────────────────────────────────────────────────────

// probeCount is the number of probes whose errors collect tracks. The CPU
// name always resolves to something and is not counted.
const probeCount = 5

// probes are the data sources behind Collect.
type probes struct {
	host       func(context.Context) (*host.InfoStat, error)
	cpuName    func(context.Context) (string, error)
	cpuInfo    func(context.Context) ([]cpu.InfoStat, error)
	cpuCounts  func(context.Context, bool) (int, error)
	cpuPercent func(context.Context, time.Duration, bool) ([]float64, error)
	memory     func(context.Context) (*mem.VirtualMemoryStat, error)
	partitions func(context.Context, bool) ([]disk.PartitionStat, error)
	usage      func(context.Context, string) (*disk.UsageStat, error)
	fixed      func(mountpoint string) bool
}

var system = probes{
	host:       host.InfoWithContext,
	cpuName:    processorName,
	cpuInfo:    cpu.InfoWithContext,
	cpuCounts:  cpu.CountsWithContext,
	cpuPercent: cpu.PercentWithContext,
	memory:     mem.VirtualMemoryWithContext,
	partitions: disk.PartitionsWithContext,
	usage:      disk.UsageWithContext,
	fixed:      isFixedDrive,
}

// Collect takes a snapshot of the running system. It blocks for about
// SampleDelay while CPU usage is measured. An error is returned only when
// every probe fails.
func Collect(ctx context.Context) (*Info, error) {
	return system.collect(ctx)
}

func (p probes) collect(ctx context.Context) (*Info, error) {
	info := &Info{Arch: runtime.GOARCH}
	var errs []error

	if h, err := p.host(ctx); err == nil {
		info.Hostname = h.Hostname
		info.OS = h.Platform
		info.OSVersion = h.PlatformVersion
		if h.KernelArch != "" {
			info.Arch = h.KernelArch
		}
	} else {
		errs = append(errs, err)
	}

	info.CPUName = p.processor(ctx)

	if n, err := p.cpuCounts(ctx, true); err == nil {
		info.CPUCores = n
	} else {
		errs = append(errs, err)
	}

	if pct, err := p.cpuPercent(ctx, SampleDelay, false); err == nil && len(pct) > 0 {
		info.CPUUsage = math.Round(pct[0]*10) / 10
	} else if err != nil {
		errs = append(errs, err)
	}

	if vm, err := p.memory(ctx); err == nil {
		info.TotalMemoryMB = int64(vm.Total / mib)
		info.UsedMemoryMB = int64(vm.Used / mib)
		if info.TotalMemoryMB > 0 {
			info.MemoryUsagePercent = float64(info.UsedMemoryMB) / float64(info.TotalMemoryMB) * 100
		}
	} else {
		errs = append(errs, err)
	}

	drives, err := p.drives(ctx)
	if err != nil {
		errs = append(errs, err)
	}
	info.Drives = drives

	if len(errs) == probeCount {
		return nil, errors.Join(errs...)
	}
	return info, nil
}

// processor asks the platform probe first, then gopsutil's model name.
func (p probes) processor(ctx context.Context) string {
	if name, err := p.cpuName(ctx); err == nil && strings.TrimSpace(name) != "" {
		return strings.TrimSpace(name)
	}
	if infos, err := p.cpuInfo(ctx); err == nil {
		for _, ci := range infos {
			if name := strings.TrimSpace(ci.ModelName); name != "" {
				return name
			}
		}
	}
	return UnknownCPU
}

// drives lists fixed drives that report usage. Drives that are not ready
// (empty card readers, locked volumes) are left out.
func (p probes) drives(ctx context.Context) ([]Drive, error) {
	parts, err := p.partitions(ctx, false)
	if err != nil {
		return nil, err
	}

	var out []Drive
	for _, part := range parts {
		if !p.fixed(part.Mountpoint) {
			continue
		}
		u, err := p.usage(ctx, part.Mountpoint)
		if err != nil || u.Total == 0 {
			continue
		}
		out = append(out, newDrive(driveName(part.Mountpoint), u.Total, u.Free))
	}
	return out, nil
}

// driveName renders "C:" as "C:\" to match Explorer.
func driveName(mount string) string {
	if len(mount) == 2 && mount[1] == ':' {
		return mount + `\`
	}
	return mount
}
