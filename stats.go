package rangeset

import "github.com/kvrange/rangeset/resource"

// Stats reports ambient engine-wide counters for tests and operators
// that want to confirm disposal actually reached the transport
// (spec.md §8 scenario 5/6: "observed by transport-level counters").
type Stats struct {
	// LiveTransportHandles is the number of paged range readers that
	// have been constructed and have not yet released their handle; a
	// reader releases it on Dispose or on reaching End or Fault.
	LiveTransportHandles int64
}

// CollectStats snapshots the current ambient counters.
func CollectStats() Stats {
	return Stats{LiveTransportHandles: resource.LiveCount()}
}
