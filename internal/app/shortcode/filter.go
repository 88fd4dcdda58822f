package shortcode

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

const (
	defaultFilterCapacity = 1_000_000
	defaultFalsePositive  = 0.01
)

// Filter remembers which codes have been taken. MayContain never returns
// false for a code passed to Add, so a negative answer is definitive for
// codes created through this process. Codes created elsewhere or deleted
// since are not reflected; callers must still rely on the store.
type Filter struct {
	mu    sync.RWMutex
	bloom *bloom.BloomFilter
}

// NewFilter sizes the filter for capacity codes at a 1% false-positive rate.
// Capacities below one million are raised to it.
func NewFilter(capacity uint) *Filter {
	if capacity < defaultFilterCapacity {
		capacity = defaultFilterCapacity
	}
	return &Filter{bloom: bloom.NewWithEstimates(capacity, defaultFalsePositive)}
}

// Add records code as taken.
func (f *Filter) Add(code string) {
	f.mu.Lock()
	f.bloom.AddString(code)
	f.mu.Unlock()
}

// MayContain reports whether code could have been added.
func (f *Filter) MayContain(code string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.bloom.TestString(code)
}
