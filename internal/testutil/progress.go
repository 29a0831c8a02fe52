package testutil

import (
	"sync"
	"sync/atomic"
)

// ProgressRecorder captures the cumulative byte counts delivered to a transfer
// progress callback so tests can assert on ordering and totals.
type ProgressRecorder struct {
	mu     sync.Mutex
	values []int64
}

// Record appends one cumulative progress value.
func (r *ProgressRecorder) Record(bytesTransferred int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, bytesTransferred)
}

// Values returns the recorded progress values in delivery order.
func (r *ProgressRecorder) Values() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int64, len(r.values))
	copy(out, r.values)
	return out
}

// Last returns the most recent progress value, or zero if none was recorded.
func (r *ProgressRecorder) Last() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.values) == 0 {
		return 0
	}
	return r.values[len(r.values)-1]
}

// IsMonotonic reports whether the recorded values never decreased.
func (r *ProgressRecorder) IsMonotonic() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := 1; i < len(r.values); i++ {
		if r.values[i] < r.values[i-1] {
			return false
		}
	}
	return true
}

// ConcurrencyGauge tracks how many operations are in flight at once so tests
// can assert a concurrency bound was respected.
type ConcurrencyGauge struct {
	current int64
	max     int64
}

// Enter marks one operation as started.
func (g *ConcurrencyGauge) Enter() {
	current := atomic.AddInt64(&g.current, 1)
	for {
		observed := atomic.LoadInt64(&g.max)
		if current <= observed || atomic.CompareAndSwapInt64(&g.max, observed, current) {
			return
		}
	}
}

// Exit marks one operation as finished.
func (g *ConcurrencyGauge) Exit() {
	atomic.AddInt64(&g.current, -1)
}

// Max returns the highest number of operations observed in flight at once.
func (g *ConcurrencyGauge) Max() int {
	return int(atomic.LoadInt64(&g.max))
}
