package hostview

import (
	"context"
	"fmt"

	"github.com/retroenv/retrogolib/log"
	emucore "github.com/user-none/memexport/api"
)

// RegionSnapshot is a copy of one region taken at a point in time.
type RegionSnapshot struct {
	Region  emucore.Region
	Address uint32
	Data    []byte
}

// FrameSnapshot is a copy of the framebuffer including row padding.
type FrameSnapshot struct {
	FrameRef
	Pixels []byte
}

// Snapshot is everything read from a core in one pass.
type Snapshot struct {
	Variant  int32
	Platform string
	Total    uint32
	Regions  []RegionSnapshot
	Frame    *FrameSnapshot // nil until the first frame
}

// Inspector reads snapshots through an Exports.
type Inspector struct {
	exports Exports
	logger  *log.Logger
}

// NewInspector returns an inspector over e.
func NewInspector(e Exports, logger *log.Logger) *Inspector {
	return &Inspector{exports: e, logger: logger}
}

// Exports returns the exports the inspector reads from.
func (i *Inspector) Exports() Exports {
	return i.exports
}

// Snapshot copies the requested regions and the current frame. Without
// arguments every region applicable to the active variant is copied;
// naming a region the variant lacks is an error.
func (i *Inspector) Snapshot(ctx context.Context, regions ...emucore.Region) (*Snapshot, error) {
	if err := i.requireReady(ctx); err != nil {
		return nil, err
	}

	code, err := i.exports.ActiveVariantCode(ctx)
	if err != nil {
		return nil, err
	}
	total, err := i.exports.TotalSize(ctx)
	if err != nil {
		return nil, err
	}
	snap := &Snapshot{
		Variant:  code,
		Platform: Platform(code),
		Total:    total,
	}

	explicit := len(regions) > 0
	if !explicit {
		regions = emucore.Regions()
	}
	for _, r := range regions {
		rs, ok, err := i.region(ctx, r)
		if err != nil {
			return nil, err
		}
		if !ok {
			if explicit {
				return nil, fmt.Errorf("%w: %s", ErrNotApplicable, r)
			}
			continue
		}
		snap.Regions = append(snap.Regions, rs)
	}

	if snap.Frame, err = i.frame(ctx); err != nil {
		return nil, err
	}

	i.logger.Debug("Snapshot taken",
		log.String("platform", snap.Platform),
		log.Int("regions", len(snap.Regions)),
		log.Int("bytes", int(total)))
	return snap, nil
}

// Peek reads n bytes at offset within region r.
func (i *Inspector) Peek(ctx context.Context, r emucore.Region, offset, n uint32) ([]byte, error) {
	if err := i.requireReady(ctx); err != nil {
		return nil, err
	}
	size, err := i.exports.Size(ctx, r)
	if err != nil {
		return nil, err
	}
	if size == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotApplicable, r)
	}
	if uint64(offset)+uint64(n) > uint64(size) {
		return nil, fmt.Errorf("%w: %s+$%x size %d", ErrOutOfRange, r, offset, n)
	}
	addr, err := i.exports.Address(ctx, r)
	if err != nil {
		return nil, err
	}
	if addr == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotApplicable, r)
	}
	return i.exports.Read(ctx, addr+offset, n)
}

func (i *Inspector) requireReady(ctx context.Context) error {
	ready, err := i.exports.IsReady(ctx)
	if err != nil {
		return err
	}
	if !ready {
		return ErrNotReady
	}
	return nil
}

// region copies r. It reports false for a region the active variant lacks.
func (i *Inspector) region(ctx context.Context, r emucore.Region) (RegionSnapshot, bool, error) {
	size, err := i.exports.Size(ctx, r)
	if err != nil || size == 0 {
		return RegionSnapshot{}, false, err
	}
	addr, err := i.exports.Address(ctx, r)
	if err != nil || addr == 0 {
		return RegionSnapshot{}, false, err
	}
	data, err := i.exports.Read(ctx, addr, size)
	if err != nil {
		return RegionSnapshot{}, false, fmt.Errorf("reading %s: %w", r, err)
	}
	return RegionSnapshot{Region: r, Address: addr, Data: data}, true, nil
}

// frame reads the geometry together with the address so that a mode
// change between the reads cannot produce a mismatched copy.
func (i *Inspector) frame(ctx context.Context) (*FrameSnapshot, error) {
	ref, err := i.exports.Frame(ctx)
	if err != nil {
		return nil, err
	}
	if ref.Address == 0 {
		return nil, nil
	}
	pixels, err := i.exports.Read(ctx, ref.Address, ref.Pitch*ref.Height)
	if err != nil {
		return nil, fmt.Errorf("reading frame: %w", err)
	}
	return &FrameSnapshot{FrameRef: ref, Pixels: pixels}, nil
}
