// Package regiontable holds the per-variant sizes of every exported memory
// region. It is constant data keyed by (variant, region); callers never
// branch on a specific variant to learn a size.
package regiontable

import (
	emucore "github.com/user-none/memexport/api"
)

// Descriptor describes a region independent of variant.
type Descriptor struct {
	Region emucore.Region
	Owner  string // core subsystem that allocates the storage
	Access emucore.Access
}

var descriptors = [emucore.RegionCount]Descriptor{
	emucore.RegionWorkRAM: {emucore.RegionWorkRAM, "cpu", emucore.AccessReadWrite},
	emucore.RegionZ80RAM:  {emucore.RegionZ80RAM, "sound", emucore.AccessReadWrite},
	emucore.RegionVRAM:    {emucore.RegionVRAM, "vdp", emucore.AccessReadWrite},
	emucore.RegionCRAM:    {emucore.RegionCRAM, "vdp", emucore.AccessReadWrite},
	emucore.RegionVSRAM:   {emucore.RegionVSRAM, "vdp", emucore.AccessReadWrite},
	emucore.RegionVDPRegs: {emucore.RegionVDPRegs, "vdp", emucore.AccessReadWrite},
	emucore.RegionSAT:     {emucore.RegionSAT, "vdp", emucore.AccessReadWrite},
	emucore.RegionBootROM: {emucore.RegionBootROM, "cart", emucore.AccessReadOnly},
	emucore.RegionPRGRAM:  {emucore.RegionPRGRAM, "scd", emucore.AccessReadWrite},
	emucore.RegionWordRAM: {emucore.RegionWordRAM, "scd", emucore.AccessReadWrite},
	emucore.RegionPCMRAM:  {emucore.RegionPCMRAM, "pcm", emucore.AccessReadWrite},
	emucore.RegionBRAM:    {emucore.RegionBRAM, "scd", emucore.AccessReadWrite},
}

// profile is the row of the table for one variant. A zero size means the
// region does not exist on that variant.
type profile struct {
	sizes    [emucore.RegionCount]int
	geometry emucore.Geometry
	limit    emucore.Geometry // largest display mode the video hardware selects
}

var (
	mdSizes = [emucore.RegionCount]int{
		emucore.RegionWorkRAM: 0x10000,
		emucore.RegionZ80RAM:  0x2000,
		emucore.RegionVRAM:    0x10000,
		emucore.RegionCRAM:    0x80,
		emucore.RegionVSRAM:   0x80,
		emucore.RegionVDPRegs: 0x20,
		emucore.RegionSAT:     0x400,
	}

	mcdSizes = func() [emucore.RegionCount]int {
		s := mdSizes
		s[emucore.RegionPRGRAM] = 0x80000
		s[emucore.RegionWordRAM] = 0x40000
		s[emucore.RegionPCMRAM] = 0x10000
		s[emucore.RegionBRAM] = 0x2000
		return s
	}()

	smsSizes = [emucore.RegionCount]int{
		emucore.RegionWorkRAM: 0x2000,
		emucore.RegionVRAM:    0x4000,
		emucore.RegionCRAM:    0x20,
		emucore.RegionVDPRegs: 0x20,
		emucore.RegionBootROM: 0x2000,
	}

	// Game Gear has a 12-bit palette, so CRAM doubles.
	ggSizes = func() [emucore.RegionCount]int {
		s := smsSizes
		s[emucore.RegionCRAM] = 0x40
		s[emucore.RegionBootROM] = 0x400
		return s
	}()

	mdGeometry  = emucore.Geometry{Width: 320, Height: 224, Pitch: 320 * emucore.BytesPerPixel}
	mdLimit     = emucore.Geometry{Width: 320, Height: 240, Pitch: 320 * emucore.BytesPerPixel}
	smsGeometry = emucore.Geometry{Width: 256, Height: 192, Pitch: 256 * emucore.BytesPerPixel}
	ggGeometry  = emucore.Geometry{Width: 160, Height: 144, Pitch: 160 * emucore.BytesPerPixel}
)

var profiles = map[emucore.Variant]profile{
	emucore.VariantSMS:  {smsSizes, smsGeometry, smsGeometry},
	emucore.VariantSMS2: {smsSizes, smsGeometry, smsGeometry},
	emucore.VariantGG:   {ggSizes, ggGeometry, ggGeometry},
	emucore.VariantGGMS: {ggSizes, ggGeometry, ggGeometry},
	emucore.VariantMD:   {mdSizes, mdGeometry, mdLimit},
	emucore.VariantMCD:  {mcdSizes, mdGeometry, mdLimit},
}

// variantOrder fixes the iteration order of Variants.
var variantOrder = []emucore.Variant{
	emucore.VariantSMS,
	emucore.VariantSMS2,
	emucore.VariantGG,
	emucore.VariantGGMS,
	emucore.VariantMD,
	emucore.VariantMCD,
}

// Describe returns the variant independent descriptor of r.
func Describe(r emucore.Region) (Descriptor, bool) {
	if !r.Valid() {
		return Descriptor{}, false
	}
	return descriptors[r], true
}

// Size returns the byte size of r under v. The bool is false when r does
// not exist on v or v is not a known variant.
func Size(v emucore.Variant, r emucore.Region) (int, bool) {
	p, ok := profiles[v]
	if !ok || !r.Valid() {
		return 0, false
	}
	size := p.sizes[r]
	return size, size > 0
}

// Regions returns the regions applicable to v in enumeration order.
func Regions(v emucore.Variant) []emucore.Region {
	p, ok := profiles[v]
	if !ok {
		return nil
	}
	var regions []emucore.Region
	for r, size := range p.sizes {
		if size > 0 {
			regions = append(regions, emucore.Region(r))
		}
	}
	return regions
}

// Total returns the sum of the sizes of every region applicable to v.
func Total(v emucore.Variant) int {
	total := 0
	for _, r := range Regions(v) {
		size, _ := Size(v, r)
		total += size
	}
	return total
}

// Geometry returns the nominal framebuffer geometry of v.
func Geometry(v emucore.Variant) (emucore.Geometry, bool) {
	p, ok := profiles[v]
	if !ok {
		return emucore.Geometry{}, false
	}
	return p.geometry, true
}

// Limit returns the largest geometry any display mode of v selects. The
// primary platform's 30 line mode makes it taller than the nominal one.
func Limit(v emucore.Variant) (emucore.Geometry, bool) {
	p, ok := profiles[v]
	if !ok {
		return emucore.Geometry{}, false
	}
	return p.limit, true
}

// Known reports whether v has a table row.
func Known(v emucore.Variant) bool {
	_, ok := profiles[v]
	return ok
}

// Variants returns every variant with a table row.
func Variants() []emucore.Variant {
	return append([]emucore.Variant(nil), variantOrder...)
}

// MaxSize returns the largest size of r across all variants. Cores that
// pre-allocate the superset use it to size their storage.
func MaxSize(r emucore.Region) int {
	largest := 0
	for _, v := range variantOrder {
		if size, ok := Size(v, r); ok && size > largest {
			largest = size
		}
	}
	return largest
}

// MaxGeometry returns the largest width and height any display mode of any
// variant selects, with the pitch needed to hold the widest row. Frontends
// size conversion buffers from it.
func MaxGeometry() emucore.Geometry {
	var g emucore.Geometry
	for _, v := range variantOrder {
		p := profiles[v].limit
		g.Width = max(g.Width, p.Width)
		g.Height = max(g.Height, p.Height)
	}
	g.Pitch = g.Width * emucore.BytesPerPixel
	return g
}
