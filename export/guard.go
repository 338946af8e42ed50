package export

import (
	"errors"
	"fmt"

	emucore "github.com/user-none/memexport/api"
	"github.com/user-none/memexport/regiontable"
)

// ErrNoVariant is returned by MarkReady before the core selected a variant.
var ErrNoVariant = errors.New("no variant selected")

// ErrStorageMissing is returned by MarkReady when a region of the active
// variant has no backing storage, or less than its table size.
var ErrStorageMissing = errors.New("region storage missing")

// guard is the one-way readiness latch.
type guard struct {
	ready bool
}

// check verifies that mem backs every region of v.
func (g *guard) check(mem emucore.MemoryCore, v emucore.Variant) error {
	if !regiontable.Known(v) {
		return fmt.Errorf("%w: %s", ErrNoVariant, v)
	}
	for _, r := range regiontable.Regions(v) {
		size, _ := regiontable.Size(v, r)
		if got := len(mem.RegionMemory(r)); got < size {
			return fmt.Errorf("%w: %s has %d bytes, need %d", ErrStorageMissing, r, got, size)
		}
	}
	return nil
}

func (g *guard) latch() {
	g.ready = true
}
