package rslimiter

import (
	"runtime"

	"github.com/shirou/gopsutil/v3/mem"
)

// ResourceUsage is the process and host snapshot reported by /healthz
type ResourceUsage struct {
	HeapMB               int64   `json:"heapMb"`
	SysMB                int64   `json:"sysMb"`
	Goroutines           int     `json:"goroutines"`
	GCCount              int64   `json:"gcCount"`
	SystemMemUsedMB      int64   `json:"systemMemUsedMb,omitempty"`
	SystemMemTotalMB     int64   `json:"systemMemTotalMb,omitempty"`
	SystemMemUsedPercent float64 `json:"systemMemUsedPercent,omitempty"`
}

// GetResourceUsage reads runtime stats and, when available, host memory
func GetResourceUsage() ResourceUsage {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	usage := ResourceUsage{
		HeapMB:     int64(m.HeapAlloc >> 20),
		SysMB:      int64(m.Sys >> 20),
		Goroutines: runtime.NumGoroutine(),
		GCCount:    int64(m.NumGC),
	}
	if stat, err := mem.VirtualMemory(); err == nil {
		usage.SystemMemUsedMB = int64(stat.Used >> 20)
		usage.SystemMemTotalMB = int64(stat.Total >> 20)
		usage.SystemMemUsedPercent = stat.UsedPercent
	}
	return usage
}
