package gc

import "time"

// CollectStats holds statistics from a single collection.
type CollectStats struct {
	Marked    int // Objects reached from roots
	Swept     int // Objects reclaimed
	Live      int // Objects left after the sweep
	Roots     int // Root stack depth at collection time
	Exempted  int // Objects exempted from collection
	Duration  time.Duration
	Timestamp time.Time
}

// Stats returns statistics from the most recent collection, or nil if no
// collection has run yet.
func (h *Heap) Stats() *CollectStats {
	if h.collections == 0 {
		return nil
	}
	s := h.last
	return &s
}

// Collections returns the number of collections performed.
func (h *Heap) Collections() int {
	return h.collections
}
