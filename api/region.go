package emucore

// Region identifies a named memory region of the core. The set is closed:
// values are appended, never renumbered, because hosts pass them across the
// boundary as integers.
type Region int32

const (
	RegionWorkRAM Region = iota
	RegionZ80RAM
	RegionVRAM
	RegionCRAM
	RegionVSRAM
	RegionVDPRegs
	RegionSAT
	RegionBootROM
	RegionPRGRAM
	RegionWordRAM
	RegionPCMRAM
	RegionBRAM

	// RegionCount is the number of defined regions.
	RegionCount
)

var regionNames = [RegionCount]string{
	RegionWorkRAM: "work_ram",
	RegionZ80RAM:  "z80_ram",
	RegionVRAM:    "vram",
	RegionCRAM:    "cram",
	RegionVSRAM:   "vsram",
	RegionVDPRegs: "vdp_regs",
	RegionSAT:     "sat",
	RegionBootROM: "boot_rom",
	RegionPRGRAM:  "prg_ram",
	RegionWordRAM: "word_ram",
	RegionPCMRAM:  "pcm_ram",
	RegionBRAM:    "bram",
}

// String returns the stable region name.
func (r Region) String() string {
	if !r.Valid() {
		return "unknown"
	}
	return regionNames[r]
}

// Valid reports whether r is a defined region.
func (r Region) Valid() bool {
	return r >= 0 && r < RegionCount
}

// ParseRegion returns the region with the given stable name.
func ParseRegion(name string) (Region, bool) {
	for i, n := range regionNames {
		if n == name {
			return Region(i), true
		}
	}
	return 0, false
}

// Regions returns every defined region in enumeration order.
func Regions() []Region {
	regions := make([]Region, RegionCount)
	for i := range regions {
		regions[i] = Region(i)
	}
	return regions
}

// Access describes how a host is expected to use a region. It is
// informational and not enforced.
type Access int

const (
	AccessReadWrite Access = iota
	AccessReadOnly
)

// String returns the display name of the access mode.
func (a Access) String() string {
	switch a {
	case AccessReadWrite:
		return "rw"
	case AccessReadOnly:
		return "ro"
	default:
		return "Unknown"
	}
}
