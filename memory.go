package treesink

import "runtime"

// Memory is a coarse snapshot of process memory, for debugging parse
// workloads.
type Memory struct {
	// Resident is the total bytes obtained from the operating system.
	Resident uint64

	// Allocated is the bytes of live heap objects.
	Allocated uint64
}

// ReadMemory reports current memory usage. It forces a full heap stats
// collection, so it is a diagnostic, not something to call per chunk.
func ReadMemory() Memory {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return Memory{
		Resident:  ms.Sys,
		Allocated: ms.HeapAlloc,
	}
}
