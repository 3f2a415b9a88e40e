package pools

import (
	"runtime"
	"runtime/debug"
)

// GCConfig holds GC tuning parameters
type GCConfig struct {
	// GOGC sets the garbage collection target percentage
	// Default is 100. Lower values = more frequent GC but less memory
	GOGC int

	// MinRetainExtra minimum extra memory to retain (helps reduce GC frequency)
	MinRetainExtra int64
}

// ApplyGCConfig applies GC tuning to reduce GC pressure
func ApplyGCConfig(cfg GCConfig) {
	if cfg.GOGC > 0 {
		debug.SetGCPercent(cfg.GOGC)
	}

	// Increase initial heap size to reduce early GC
	if cfg.MinRetainExtra > 0 {
		runtime.GC()
		_ = make([]byte, cfg.MinRetainExtra)
	}
}

// OptimizeForHighThroughput applies GC settings optimized for high RPS.
// The arena and free-list substrate keeps the request path itself free
// of garbage; this keeps the collector from rescanning the long-lived
// mmap cache and idle pool blocks too often.
func OptimizeForHighThroughput() {
	ApplyGCConfig(GCConfig{
		GOGC:           300,      // Very infrequent GC
		MinRetainExtra: 50 << 20, // 50MB baseline
	})
}
