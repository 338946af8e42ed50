package export

import (
	emucore "github.com/user-none/memexport/api"
	"github.com/user-none/memexport/regiontable"
)

// FrameInfo is the framebuffer address and geometry read together.
type FrameInfo struct {
	Handle Handle
	emucore.Geometry
}

// Frame returns the current framebuffer handle and geometry in one call.
// Hosts should use it rather than caching any of the parts across frames,
// since the core may change display mode between steps.
//
// Before readiness or the first rendered frame the handle is the sentinel and the
// geometry is the active variant's nominal one.
func (s *Surface) Frame() FrameInfo {
	f, ok := s.mem.Framebuffer()
	if !s.guard.ready || !ok || len(f.Pixels) == 0 {
		g, _ := regiontable.Geometry(s.resolver.active())
		return FrameInfo{Geometry: g}
	}
	return FrameInfo{
		Handle:   Handle{s: s, frame: true},
		Geometry: f.Geometry,
	}
}

// FrameAddress returns the framebuffer handle, or the sentinel before the
// first frame.
func (s *Surface) FrameAddress() Handle {
	return s.Frame().Handle
}

// FrameWidth returns the current width in pixels.
func (s *Surface) FrameWidth() int {
	return s.Frame().Width
}

// FrameHeight returns the current height in pixels.
func (s *Surface) FrameHeight() int {
	return s.Frame().Height
}

// FramePitch returns the current row stride in bytes.
func (s *Surface) FramePitch() int {
	return s.Frame().Pitch
}
