// Package combined provides comparison benchmarks that put every queue
// implementation in this module side by side: both lock-free SPSC
// variants, the mutex and channel baselines, and an external lock-free
// ring for reference.
//
// These pipeline benchmarks (one producer goroutine, one consumer
// goroutine) are more representative of real handoff cost than the
// single-goroutine push+pop micro-benchmarks in the root package.
package combined
