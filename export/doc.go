// Package export is the boundary contract between a core and a host that
// cannot dereference the core's pointers.
//
// A Surface answers, for each named region, where it lives and how large it
// is under the active hardware variant, plus readiness, the raw variant code,
// the total exported size and the current framebuffer geometry. Every query
// is total: a region that cannot be used right now (core not ready, or the
// region does not exist on the active variant) yields the zero Handle, and
// the boundary packages turn that into the integer sentinel 0.
//
// The core drives the write side:
//
//	s := export.New(core)
//	s.SelectVariant(emucore.VariantMD)
//	if err := s.MarkReady(); err != nil { ... }
//
// and the host drives the read side, between core steps, on the same
// goroutine:
//
//	if s.IsReady() {
//		h := s.Address(emucore.RegionVRAM)
//		vram := h.Bytes()
//	}
//
// A Surface does no locking. All storage belongs to the core; the surface
// never allocates, frees or resizes it.
package export
