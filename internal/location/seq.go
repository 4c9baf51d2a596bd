package location

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// SeqDedupe remembers the highest sequence number seen per device.
type SeqDedupe struct {
	mu  sync.Mutex
	lru *lru.Cache[string, uint64]
}

func NewSeqDedupe(size int) *SeqDedupe {
	if size <= 0 {
		size = 4096
	}
	c, _ := lru.New[string, uint64](size)
	return &SeqDedupe{lru: c}
}

// ShouldApply reports whether seq is newer than the last one applied for
// the device, and records it when it is.
func (d *SeqDedupe) ShouldApply(deviceID string, seq uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if last, ok := d.lru.Get(deviceID); ok && seq <= last {
		return false
	}
	d.lru.Add(deviceID, seq)
	return true
}
