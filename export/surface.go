package export

import (
	emucore "github.com/user-none/memexport/api"
	"github.com/user-none/memexport/regiontable"
)

// Surface is the export context for one core instance.
type Surface struct {
	mem      emucore.MemoryCore
	resolver resolver
	guard    guard
}

// New creates a surface over mem. The surface starts not ready, with
// VariantUnknown active.
func New(mem emucore.MemoryCore) *Surface {
	return &Surface{mem: mem}
}

// SelectVariant records the variant the core switched to.
func (s *Surface) SelectVariant(v emucore.Variant) {
	s.resolver.selectVariant(v)
}

// MarkReady latches readiness once the core has allocated storage for every
// region of the active variant. Calling it again after success is a no-op.
func (s *Surface) MarkReady() error {
	if s.guard.ready {
		return nil
	}
	if err := s.guard.check(s.mem, s.resolver.active()); err != nil {
		return err
	}
	s.guard.latch()
	return nil
}

// IsReady reports whether addresses may be trusted.
func (s *Surface) IsReady() bool {
	return s.guard.ready
}

// ActiveVariantCode returns the raw code of the active variant, or
// VariantUnknown before the core selected one.
func (s *Surface) ActiveVariantCode() int32 {
	return int32(s.resolver.active())
}

// Address returns a handle to the first byte of r. It is the sentinel when
// the surface is not ready or r does not exist on the active variant.
func (s *Surface) Address(r emucore.Region) Handle {
	if s.resolve(r) == nil {
		return Handle{}
	}
	return Handle{s: s, region: r}
}

// Size returns the size of r under the active variant, whether or not the
// surface is ready. A region that does not exist on the active variant has
// size 0.
func (s *Surface) Size(r emucore.Region) int {
	size, _ := regiontable.Size(s.resolver.active(), r)
	return size
}

// TotalSize returns the sum of Size over every region of the active variant.
func (s *Surface) TotalSize() int {
	total := 0
	for _, r := range regiontable.Regions(s.resolver.active()) {
		total += s.Size(r)
	}
	return total
}

// AddressByName is Address for callers holding a region name. Unknown
// names behave like a region absent from the active variant.
func (s *Surface) AddressByName(name string) Handle {
	r, ok := emucore.ParseRegion(name)
	if !ok {
		return Handle{}
	}
	return s.Address(r)
}

// SizeByName is Size for callers holding a region name.
func (s *Surface) SizeByName(name string) int {
	r, ok := emucore.ParseRegion(name)
	if !ok {
		return 0
	}
	return s.Size(r)
}

// RegionInfo is one row of the export listing.
type RegionInfo struct {
	Region emucore.Region
	Name   string
	Size   int
	Owner  string
	Access emucore.Access
	Handle Handle
}

// Regions lists every region of the active variant with its handle.
func (s *Surface) Regions() []RegionInfo {
	var infos []RegionInfo
	for _, r := range regiontable.Regions(s.resolver.active()) {
		d, _ := regiontable.Describe(r)
		infos = append(infos, RegionInfo{
			Region: r,
			Name:   r.String(),
			Size:   s.Size(r),
			Owner:  d.Owner,
			Access: d.Access,
			Handle: s.Address(r),
		})
	}
	return infos
}

// resolve returns the storage of r trimmed to its variant size, or nil when
// r cannot be exported right now.
func (s *Surface) resolve(r emucore.Region) []byte {
	if !s.guard.ready {
		return nil
	}
	size, ok := regiontable.Size(s.resolver.active(), r)
	if !ok {
		return nil
	}
	data := s.mem.RegionMemory(r)
	if len(data) < size {
		return nil
	}
	return data[:size:size]
}
