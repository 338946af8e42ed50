package emucore

// MemoryCore is implemented by a core whose memory is exported to a host.
// The core owns every byte returned here; callers keep no reference past
// the current step.
type MemoryCore interface {
	// RegionMemory returns the backing storage for a region, or nil when the
	// core has not allocated it. The slice may be larger than the active
	// variant's region size.
	RegionMemory(r Region) []byte

	// Framebuffer returns the most recent frame. The bool is false until
	// the first frame has been rendered.
	Framebuffer() (Frame, bool)
}

// ContentLoader is implemented by cores that select their variant from
// loaded content.
type ContentLoader interface {
	// LoadContent loads content and selects the matching variant.
	LoadContent(data []byte, name string) error
}

// Stepper runs the core one display frame at a time.
type Stepper interface {
	// StepFrame executes one frame.
	StepFrame()
}

// Allocator returns n zeroed bytes that stay valid, and at the same address,
// for the lifetime of the process. Cores take one so that a boundary can
// place region storage in memory the host may hold on to.
type Allocator func(n int) []byte

// HeapAllocator allocates from the Go heap.
func HeapAllocator(n int) []byte {
	return make([]byte, n)
}
