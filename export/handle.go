package export

import (
	emucore "github.com/user-none/memexport/api"
)

// Handle is a reference to a region of a specific surface. It is resolved
// to memory only when Bytes is called. The zero Handle is the sentinel.
type Handle struct {
	s      *Surface
	region emucore.Region
	frame  bool
}

// IsZero reports whether h is the sentinel.
func (h Handle) IsZero() bool {
	return h.s == nil
}

// Region returns the region h refers to. It is meaningless for the sentinel
// and for framebuffer handles.
func (h Handle) Region() emucore.Region {
	return h.region
}

// IsFrame reports whether h refers to the framebuffer.
func (h Handle) IsFrame() bool {
	return h.frame
}

// Bytes resolves h against the current state of its surface. It returns nil
// for the sentinel, and for a handle whose region stopped being valid since
// it was issued (the variant changed, or the frame went away).
func (h Handle) Bytes() []byte {
	if h.s == nil {
		return nil
	}
	if h.frame {
		f, ok := h.s.mem.Framebuffer()
		if !ok || len(f.Pixels) == 0 {
			return nil
		}
		return f.Pixels
	}
	return h.s.resolve(h.region)
}
