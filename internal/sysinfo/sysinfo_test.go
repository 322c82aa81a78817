package sysinfo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errProbe = errors.New("probe failed")

func healthy() probes {
	return probes{
		host: func(context.Context) (*host.InfoStat, error) {
			return &host.InfoStat{Hostname: "desk", Platform: "Microsoft Windows 11 Pro", PlatformVersion: "10.0.22631", KernelArch: "x86_64"}, nil
		},
		cpuName: func(context.Context) (string, error) { return " AMD Ryzen 7 5800X 8-Core Processor ", nil },
		cpuInfo: func(context.Context) ([]cpu.InfoStat, error) {
			return []cpu.InfoStat{{ModelName: "model-name"}}, nil
		},
		cpuCounts: func(context.Context, bool) (int, error) { return 16, nil },
		cpuPercent: func(_ context.Context, d time.Duration, _ bool) ([]float64, error) {
			if d != SampleDelay {
				return nil, errors.New("unexpected interval")
			}
			return []float64{12.345}, nil
		},
		memory: func(context.Context) (*mem.VirtualMemoryStat, error) {
			return &mem.VirtualMemoryStat{Total: 16384 * mib, Used: 4096 * mib}, nil
		},
		partitions: func(context.Context, bool) ([]disk.PartitionStat, error) {
			return []disk.PartitionStat{{Mountpoint: "C:"}, {Mountpoint: "D:"}, {Mountpoint: "E:"}}, nil
		},
		usage: func(_ context.Context, path string) (*disk.UsageStat, error) {
			switch path {
			case "C:":
				return &disk.UsageStat{Total: 500 * gib, Free: 125 * gib}, nil
			case "D:":
				return nil, errProbe
			}
			return &disk.UsageStat{Total: 1000 * gib, Free: 1000 * gib}, nil
		},
		fixed: func(mount string) bool { return mount != "E:" },
	}
}

func TestCollect(t *testing.T) {
	info, err := healthy().collect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "desk", info.Hostname)
	assert.Equal(t, "Microsoft Windows 11 Pro", info.OS)
	assert.Equal(t, "x86_64", info.Arch)
	assert.Equal(t, "AMD Ryzen 7 5800X 8-Core Processor", info.CPUName)
	assert.Equal(t, 16, info.CPUCores)
	assert.Equal(t, 12.3, info.CPUUsage)
	assert.Equal(t, int64(16384), info.TotalMemoryMB)
	assert.Equal(t, int64(4096), info.UsedMemoryMB)
	assert.InDelta(t, 25.0, info.MemoryUsagePercent, 0.001)

	require.Len(t, info.Drives, 1, "unready and non-fixed drives are left out")
	assert.Equal(t, Drive{Name: `C:\`, TotalGB: 500, FreeGB: 125, UsedGB: 375, UsagePercent: 75}, info.Drives[0])
}

func TestCollectCPUNameFallback(t *testing.T) {
	p := healthy()
	p.cpuName = func(context.Context) (string, error) { return "", errProbe }

	info, err := p.collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "model-name", info.CPUName)

	p.cpuInfo = func(context.Context) ([]cpu.InfoStat, error) { return nil, errProbe }
	info, err = p.collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, UnknownCPU, info.CPUName)
}

func TestCollectPartialFailure(t *testing.T) {
	p := healthy()
	p.memory = func(context.Context) (*mem.VirtualMemoryStat, error) { return nil, errProbe }
	p.host = func(context.Context) (*host.InfoStat, error) { return nil, errProbe }

	info, err := p.collect(context.Background())
	require.NoError(t, err)
	assert.Zero(t, info.TotalMemoryMB)
	assert.Zero(t, info.MemoryUsagePercent)
	assert.Empty(t, info.Hostname)
	assert.Equal(t, 16, info.CPUCores)
}

func TestCollectTotalFailure(t *testing.T) {
	p := healthy()
	p.host = func(context.Context) (*host.InfoStat, error) { return nil, errProbe }
	p.cpuCounts = func(context.Context, bool) (int, error) { return 0, errProbe }
	p.cpuPercent = func(context.Context, time.Duration, bool) ([]float64, error) { return nil, errProbe }
	p.memory = func(context.Context) (*mem.VirtualMemoryStat, error) { return nil, errProbe }
	p.partitions = func(context.Context, bool) ([]disk.PartitionStat, error) { return nil, errProbe }

	info, err := p.collect(context.Background())
	assert.Nil(t, info)
	assert.ErrorIs(t, err, errProbe)
}

func TestNewDrive(t *testing.T) {
	d := newDrive(`C:\`, 255*gib+gib/2, 100*gib+gib/3)
	assert.Equal(t, int64(255), d.TotalGB)
	assert.Equal(t, int64(100), d.FreeGB)
	assert.Equal(t, int64(155), d.UsedGB)

	empty := newDrive("X:", gib-1, 0)
	assert.Zero(t, empty.TotalGB)
	assert.Zero(t, empty.UsagePercent)
}

func TestDriveName(t *testing.T) {
	assert.Equal(t, `C:\`, driveName("C:"))
	assert.Equal(t, "/", driveName("/"))
}
