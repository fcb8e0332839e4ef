// Package health reports the state of the local install and the backend.
package health

import (
	"context"
	"os"
	"runtime"
	"time"
)

const defaultProbeTimeout = 5 * time.Second

// Prober checks that the backend answers. RandomQuestions with a count of one
// is the cheapest call the backend offers.
type Prober interface {
	RandomQuestions(ctx context.Context, count int) ([]string, error)
}

// Options controls what Collect inspects.
type Options struct {
	BaseURL      string
	ConfigPath   string
	LogFile      string
	Probe        Prober        // nil skips the backend check
	ProbeTimeout time.Duration // defaults to 5s
}

func (o Options) normalize() Options {
	if o.ProbeTimeout <= 0 {
		o.ProbeTimeout = defaultProbeTimeout
	}
	return o
}

// Snapshot is a point-in-time health report.
type Snapshot struct {
	Status     string       `json:"status" yaml:"status"`
	Backend    *BackendInfo `json:"backend,omitempty" yaml:"backend,omitempty"`
	Config     ConfigInfo   `json:"config" yaml:"config"`
	Runtime    RuntimeInfo  `json:"runtime" yaml:"runtime"`
	Memory     MemoryInfo   `json:"memory" yaml:"memory"`
	Goroutines int          `json:"goroutines" yaml:"goroutines"`
	Timestamp  string       `json:"timestamp" yaml:"timestamp"`
}

// BackendInfo is the result of the backend probe.
type BackendInfo struct {
	BaseURL   string `json:"baseURL" yaml:"baseURL"`
	Reachable bool   `json:"reachable" yaml:"reachable"`
	LatencyMS int64  `json:"latencyMs" yaml:"latencyMs"`
	Questions int    `json:"questions,omitempty" yaml:"questions,omitempty"`
	Error     string `json:"error,omitempty" yaml:"error,omitempty"`
}

// ConfigInfo describes the files cloudchat reads and writes.
type ConfigInfo struct {
	Path    string `json:"path,omitempty" yaml:"path,omitempty"`
	Exists  bool   `json:"exists" yaml:"exists"`
	LogFile string `json:"logFile,omitempty" yaml:"logFile,omitempty"`
}

// RuntimeInfo describes the Go runtime.
type RuntimeInfo struct {
	Version string `json:"version" yaml:"version"`
	OS      string `json:"os" yaml:"os"`
	Arch    string `json:"arch" yaml:"arch"`
	CPUs    int    `json:"cpus" yaml:"cpus"`
}

// MemoryInfo holds process memory statistics.
type MemoryInfo struct {
	AllocMB      float64 `json:"allocMb" yaml:"allocMb"`
	TotalAllocMB float64 `json:"totalAllocMb" yaml:"totalAllocMb"`
	SysMB        float64 `json:"sysMb" yaml:"sysMb"`
	NumGC        uint32  `json:"numGc" yaml:"numGc"`
}

// Collect returns a health snapshot for the current process.
func Collect(ctx context.Context, opts Options) Snapshot {
	opts = opts.normalize()

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	s := Snapshot{
		Status:     "healthy",
		Goroutines: runtime.NumGoroutine(),
		Memory: MemoryInfo{
			AllocMB:      float64(mem.Alloc) / 1024 / 1024,
			TotalAllocMB: float64(mem.TotalAlloc) / 1024 / 1024,
			SysMB:        float64(mem.Sys) / 1024 / 1024,
			NumGC:        mem.NumGC,
		},
		Runtime: RuntimeInfo{
			Version: runtime.Version(),
			OS:      runtime.GOOS,
			Arch:    runtime.GOARCH,
			CPUs:    runtime.NumCPU(),
		},
		Config: ConfigInfo{
			Path:    opts.ConfigPath,
			LogFile: opts.LogFile,
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}

	if opts.ConfigPath != "" {
		if _, err := os.Stat(opts.ConfigPath); err == nil {
			s.Config.Exists = true
		}
	}

	if opts.Probe != nil {
		s.Backend = probe(ctx, opts)
		if !s.Backend.Reachable {
			s.Status = "degraded"
		}
	}
	return s
}

func probe(ctx context.Context, opts Options) *BackendInfo {
	ctx, cancel := context.WithTimeout(ctx, opts.ProbeTimeout)
	defer cancel()

	info := &BackendInfo{BaseURL: opts.BaseURL}
	start := time.Now()
	questions, err := opts.Probe.RandomQuestions(ctx, 1)
	info.LatencyMS = time.Since(start).Milliseconds()
	if err != nil {
		info.Error = err.Error()
		return info
	}
	info.Reachable = true
	info.Questions = len(questions)
	return info
}
