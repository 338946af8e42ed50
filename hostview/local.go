package hostview

import (
	"context"
	"fmt"

	emucore "github.com/user-none/memexport/api"
	"github.com/user-none/memexport/export"
	"github.com/user-none/memexport/regiontable"
)

// In-process addresses: every region gets a fixed window sized for the
// largest variant, starting at localBase. The frame window sits above.
const (
	localBase  = 0x1000
	frameBase  = 0x0100_0000
	windowSize = 0x1000
)

// localCore is what a LocalExports needs to act as a Driver.
type localCore interface {
	emucore.ContentLoader
	emucore.Stepper
}

// LocalExports serves Exports from a surface in the same process. Region
// addresses are synthetic but stable for the lifetime of the surface.
type LocalExports struct {
	surface *export.Surface
	core    localCore
	bases   [emucore.RegionCount]uint32
}

// NewLocal returns exports over s. core may be nil, in which case Load and
// Step return ErrNoDriver.
func NewLocal(s *export.Surface, core localCore) *LocalExports {
	l := &LocalExports{surface: s, core: core}
	next := uint32(localBase)
	for _, r := range emucore.Regions() {
		l.bases[r] = next
		size := uint32(regiontable.MaxSize(r))
		next += (size + windowSize - 1) &^ (windowSize - 1)
	}
	return l
}

func (l *LocalExports) IsReady(context.Context) (bool, error) {
	return l.surface.IsReady(), nil
}

func (l *LocalExports) ActiveVariantCode(context.Context) (int32, error) {
	return l.surface.ActiveVariantCode(), nil
}

func (l *LocalExports) Address(_ context.Context, r emucore.Region) (uint32, error) {
	if l.surface.Address(r).IsZero() {
		return 0, nil
	}
	return l.bases[r], nil
}

func (l *LocalExports) Size(_ context.Context, r emucore.Region) (uint32, error) {
	return uint32(l.surface.Size(r)), nil
}

func (l *LocalExports) TotalSize(context.Context) (uint32, error) {
	return uint32(l.surface.TotalSize()), nil
}

func (l *LocalExports) Frame(context.Context) (FrameRef, error) {
	f := l.surface.Frame()
	ref := FrameRef{
		Width:  uint32(f.Width),
		Height: uint32(f.Height),
		Pitch:  uint32(f.Pitch),
	}
	if !f.Handle.IsZero() {
		ref.Address = frameBase
	}
	return ref, nil
}

// Read copies n bytes starting at addr. The range must lie within a single
// live region or the current frame.
func (l *LocalExports) Read(_ context.Context, addr, n uint32) ([]byte, error) {
	data, base := l.lookup(addr)
	if data == nil {
		return nil, fmt.Errorf("%w: $%08x", ErrOutOfRange, addr)
	}
	off := uint64(addr - base)
	if off+uint64(n) > uint64(len(data)) {
		return nil, fmt.Errorf("%w: $%08x+%d", ErrOutOfRange, addr, n)
	}
	out := make([]byte, n)
	copy(out, data[off:])
	return out, nil
}

func (l *LocalExports) lookup(addr uint32) ([]byte, uint32) {
	if addr >= frameBase {
		return l.surface.FrameAddress().Bytes(), frameBase
	}
	for i := len(l.bases) - 1; i >= 0; i-- {
		if addr >= l.bases[i] {
			return l.surface.Address(emucore.Region(i)).Bytes(), l.bases[i]
		}
	}
	return nil, 0
}

// Load hands content to the core.
func (l *LocalExports) Load(_ context.Context, data []byte, name string) error {
	if l.core == nil {
		return ErrNoDriver
	}
	return l.core.LoadContent(data, name)
}

// Step advances the core by one frame.
func (l *LocalExports) Step(context.Context) error {
	if l.core == nil {
		return ErrNoDriver
	}
	l.core.StepFrame()
	return nil
}
