// Package system collects the host snapshot behind the /status command.
package system

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

type Snapshot struct {
	Hostname string
	OS       string
	Arch     string
	CPUUsage float64
	MemTotal uint64
	MemUsed  uint64
	MemUsage float64
	DiskUsed uint64
	DiskFree uint64
}

// Collect samples the host. Individual probe failures leave zero values
// rather than failing the whole snapshot.
func Collect() Snapshot {
	hostname, _ := os.Hostname()

	cpuPercent, _ := cpu.Percent(time.Second, false)
	cpuUsage := 0.0
	if len(cpuPercent) > 0 {
		cpuUsage = cpuPercent[0]
	}

	snap := Snapshot{
		Hostname: hostname,
		OS:       runtime.GOOS,
		Arch:     runtime.GOARCH,
		CPUUsage: cpuUsage,
	}

	if memInfo, err := mem.VirtualMemory(); err == nil {
		snap.MemTotal = memInfo.Total
		snap.MemUsed = memInfo.Used
		snap.MemUsage = memInfo.UsedPercent
	}
	if diskInfo, err := disk.Usage("/"); err == nil {
		snap.DiskUsed = diskInfo.Used
		snap.DiskFree = diskInfo.Free
	}

	return snap
}

// Format renders the snapshot for chat display.
func (s Snapshot) Format() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "host: %s (%s/%s)\n", s.Hostname, s.OS, s.Arch)
	fmt.Fprintf(&sb, "cpu: %.1f%%\n", s.CPUUsage)
	fmt.Fprintf(&sb, "mem: %s / %s (%.1f%%)\n",
		FormatBytes(s.MemUsed), FormatBytes(s.MemTotal), s.MemUsage)
	fmt.Fprintf(&sb, "disk: %s used, %s free",
		FormatBytes(s.DiskUsed), FormatBytes(s.DiskFree))
	return sb.String()
}

func FormatBytes(bytes uint64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
