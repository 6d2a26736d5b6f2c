package alloc

import "github.com/joshuapare/arenakit/internal/format"

// counters holds running totals since New.
type counters struct {
	AllocCalls    int
	FreeCalls     int
	Splits        int
	Merges        int
	OutOfMemory   int
	RejectedFrees int
}

// Stats is a point-in-time snapshot of arena occupancy and activity.
type Stats struct {
	Capacity     int     `json:"capacity"`      // Arena size in bytes
	HeaderBytes  int     `json:"header_bytes"`  // Bytes spent on block headers
	FreeBytes    int     `json:"free_bytes"`    // Payload bytes in free blocks
	UsedBytes    int     `json:"used_bytes"`    // Payload bytes in allocated blocks
	Blocks       int     `json:"blocks"`        // Total block count
	FreeBlocks   int     `json:"free_blocks"`   // Free block count
	LargestFree  int     `json:"largest_free"`  // Largest free payload, the biggest request that can succeed
	Utilization  float64 `json:"utilization"`   // UsedBytes / Capacity
	AllocCalls   int     `json:"alloc_calls"`   // Alloc calls, including failures
	FreeCalls    int     `json:"free_calls"`    // Free calls, including rejections
	Splits       int     `json:"splits"`        // Blocks split by Alloc
	Merges       int     `json:"merges"`        // Blocks absorbed by coalescing
	OutOfMemory  int     `json:"out_of_memory"` // Alloc calls that found no fit
	RejectedFree int     `json:"rejected_free"` // Free calls rejected with an error
}

// Stats walks the block list and returns occupancy plus activity counters.
func (a *Allocator) Stats() Stats {
	s := Stats{
		Capacity:     len(a.data),
		AllocCalls:   a.stats.AllocCalls,
		FreeCalls:    a.stats.FreeCalls,
		Splits:       a.stats.Splits,
		Merges:       a.stats.Merges,
		OutOfMemory:  a.stats.OutOfMemory,
		RejectedFree: a.stats.RejectedFrees,
	}
	for _, b := range a.Inspect() {
		s.Blocks++
		s.HeaderBytes += format.HeaderSize
		if b.Free {
			s.FreeBlocks++
			s.FreeBytes += b.PayloadSize
			s.LargestFree = max(s.LargestFree, b.PayloadSize)
		} else {
			s.UsedBytes += b.PayloadSize
		}
	}
	if s.Capacity > 0 {
		s.Utilization = float64(s.UsedBytes) / float64(s.Capacity)
	}
	return s
}
