package status

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestMetricMapCachesPointer(t *testing.T) {
	reg := NewRegistry()
	a := reg.Ints.Get(KeyFrame)
	b := reg.Ints.Get(KeyFrame)
	if a != b {
		t.Fatal("Expected same pointer for repeated Get")
	}
	a.Store(42)
	if got := reg.Snapshot()[KeyFrame]; got != int64(42) {
		t.Errorf("Expected snapshot 42, got %v", got)
	}
}

func TestStoreMaxConcurrent(t *testing.T) {
	var mark atomic.Int64
	var wg sync.WaitGroup
	for i := 1; i <= 100; i++ {
		wg.Add(1)
		go func(v int64) {
			defer wg.Done()
			StoreMax(&mark, v)
		}(int64(i))
	}
	wg.Wait()
	if mark.Load() != 100 {
		t.Errorf("Expected high water 100, got %d", mark.Load())
	}
	if StoreMax(&mark, 50) {
		t.Error("Expected lower value not to move the mark")
	}
}

func TestAtomicStringTruncates(t *testing.T) {
	var s AtomicString
	long := "abcdefghijklmnopqrstuvwxyz0123456789"
	s.Store(long)
	if got := s.Load(); len(got) != MaxStringLen {
		t.Errorf("Expected length %d, got %d", MaxStringLen, len(got))
	}
}
