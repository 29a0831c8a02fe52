// Package pool provides concurrency and memory primitives shared by the
// transfer engines.
//
// WorkPool bounds the number of chunk operations in flight and fails fast on
// the first error. BufferPool reuses chunk-sized byte buffers to reduce
// allocations in high-throughput transfers.
package pool
