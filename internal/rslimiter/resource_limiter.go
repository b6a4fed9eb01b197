package rslimiter

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aleister1102/docdiff/internal/common/errorwrapper"
	"github.com/aleister1102/docdiff/internal/config"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/mem"
)

// MemorySampler reports system-wide virtual memory statistics
type MemorySampler func() (*mem.VirtualMemoryStat, error)

// HeapReader reports the bytes currently allocated on the Go heap
type HeapReader func() uint64

// ResourceLimiter turns comparisons away while the process heap or the host is
// short on memory. Extraction and diffing hold both documents in memory, so
// admission is decided before any work starts.
//
// While running, host memory is sampled on a ticker and Admit reads the last
// sample. A stopped limiter samples on every Admit call.
type ResourceLimiter struct {
	config  config.ResourceLimiterConfig
	logger  zerolog.Logger
	sampler MemorySampler
	heap    HeapReader

	running  atomic.Bool
	// host memory use as a fraction in [0,1], stored as float64 bits
	hostUsed atomic.Uint64

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewResourceLimiter(cfg config.ResourceLimiterConfig, logger zerolog.Logger) *ResourceLimiter {
	if cfg.MaxMemoryMB <= 0 {
		cfg.MaxMemoryMB = config.DefaultMaxMemoryMB
	}
	if cfg.SystemMemThreshold <= 0 {
		cfg.SystemMemThreshold = config.DefaultSystemMemThreshold
	}
	if cfg.CheckIntervalSecs <= 0 {
		cfg.CheckIntervalSecs = config.DefaultResourceCheckIntervalSecs
	}

	return &ResourceLimiter{
		config:  cfg,
		logger:  logger.With().Str("component", "ResourceLimiter").Logger(),
		sampler: mem.VirtualMemory,
		heap:    heapAlloc,
	}
}

func (rl *ResourceLimiter) WithMemorySampler(sampler MemorySampler) *ResourceLimiter {
	rl.sampler = sampler
	return rl
}

func (rl *ResourceLimiter) WithHeapReader(heap HeapReader) *ResourceLimiter {
	rl.heap = heap
	return rl
}

// Start takes one host memory sample and keeps sampling in the background
// until Stop. It does nothing when the limiter is disabled or already running.
func (rl *ResourceLimiter) Start() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if !rl.config.Enabled || rl.cancel != nil {
		return
	}
	rl.running.Store(true)
	rl.sample()

	ctx, cancel := context.WithCancel(context.Background())
	rl.cancel = cancel
	rl.done = make(chan struct{})
	go rl.watch(ctx, time.Duration(rl.config.CheckIntervalSecs)*time.Second)

	rl.logger.Info().
		Int64("max_memory_mb", rl.config.MaxMemoryMB).
		Float64("system_mem_threshold", rl.config.SystemMemThreshold).
		Int("check_interval_secs", rl.config.CheckIntervalSecs).
		Msg("Resource limiter started")
}

// Stop ends background sampling. Safe to call on a limiter that never started.
func (rl *ResourceLimiter) Stop() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if rl.cancel == nil {
		return
	}
	rl.cancel()
	<-rl.done
	rl.cancel = nil
	rl.running.Store(false)
	rl.logger.Info().Msg("Resource limiter stopped")
}

// Admit returns an error wrapping ErrServiceUnavailable when a new comparison
// should be refused. A failing host sampler never blocks admission.
func (rl *ResourceLimiter) Admit() error {
	if !rl.config.Enabled {
		return nil
	}

	if heapMB := int64(rl.heap() >> 20); heapMB > rl.config.MaxMemoryMB {
		return errorwrapper.WrapError(errorwrapper.ErrServiceUnavailable,
			fmt.Sprintf("heap usage %dMB above limit %dMB", heapMB, rl.config.MaxMemoryMB))
	}

	if !rl.running.Load() {
		rl.sample()
	}
	if used := rl.lastHostUsed(); used > rl.config.SystemMemThreshold {
		return errorwrapper.WrapError(errorwrapper.ErrServiceUnavailable,
			fmt.Sprintf("system memory usage %.1f%% above threshold %.1f%%", used*100, rl.config.SystemMemThreshold*100))
	}
	return nil
}

func (rl *ResourceLimiter) lastHostUsed() float64 {
	return math.Float64frombits(rl.hostUsed.Load())
}

// sample records the current host memory use. On failure the previous sample is
// cleared so a stale reading cannot keep refusing work.
func (rl *ResourceLimiter) sample() {
	stat, err := rl.sampler()
	if err != nil {
		rl.hostUsed.Store(0)
		rl.logger.Error().Err(err).Msg("Failed to sample system memory")
		return
	}

	used := stat.UsedPercent / 100
	rl.hostUsed.Store(math.Float64bits(used))
	if used > rl.config.SystemMemThreshold {
		rl.logger.Warn().
			Float64("used_percent", stat.UsedPercent).
			Float64("threshold_percent", rl.config.SystemMemThreshold*100).
			Uint64("used_mb", stat.Used>>20).
			Uint64("total_mb", stat.Total>>20).
			Msg("System memory usage above threshold, refusing comparisons")
	}
}

func (rl *ResourceLimiter) watch(ctx context.Context, interval time.Duration) {
	defer close(rl.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.sample()
			rl.logger.Debug().
				Uint64("heap_mb", rl.heap()>>20).
				Int("goroutines", runtime.NumGoroutine()).
				Msg("Resource sample")
		}
	}
}

func heapAlloc() uint64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.HeapAlloc
}
