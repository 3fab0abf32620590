package status

import (
	"math"
	"sync/atomic"
)

// MaxStringLen bounds stored string metrics
const MaxStringLen = 32

// AtomicString is a string metric, zero value is the empty string
type AtomicString struct {
	ptr atomic.Pointer[string]
}

// Store sets the value, truncated to MaxStringLen
func (s *AtomicString) Store(val string) {
	if len(val) > MaxStringLen {
		val = val[:MaxStringLen]
	}
	s.ptr.Store(&val)
}

// Load returns the current value
func (s *AtomicString) Load() string {
	if p := s.ptr.Load(); p != nil {
		return *p
	}
	return ""
}

// AtomicFloat is a float64 metric stored as raw bits
type AtomicFloat struct {
	bits atomic.Uint64
}

// Set stores val
func (f *AtomicFloat) Set(val float64) {
	f.bits.Store(math.Float64bits(val))
}

// Get loads the value
func (f *AtomicFloat) Get() float64 {
	return math.Float64frombits(f.bits.Load())
}

// StoreMax raises a high-water mark to v if v is larger
// Returns true when the mark moved
func StoreMax(mark *atomic.Int64, v int64) bool {
	for {
		cur := mark.Load()
		if v <= cur {
			return false
		}
		if mark.CompareAndSwap(cur, v) {
			return true
		}
	}
}
