package export

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	emucore "github.com/user-none/memexport/api"
	"github.com/user-none/memexport/regiontable"
)

// fakeCore allocates the superset of all regions, like a real core would.
type fakeCore struct {
	mem      [emucore.RegionCount][]byte
	frame    emucore.Frame
	rendered bool
}

func newFakeCore() *fakeCore {
	c := &fakeCore{}
	for _, r := range emucore.Regions() {
		c.mem[r] = make([]byte, regiontable.MaxSize(r))
	}
	return c
}

func (c *fakeCore) RegionMemory(r emucore.Region) []byte {
	if !r.Valid() {
		return nil
	}
	return c.mem[r]
}

func (c *fakeCore) Framebuffer() (emucore.Frame, bool) {
	return c.frame, c.rendered
}

func (c *fakeCore) render(width, height, pitch int) {
	c.frame = emucore.Frame{
		Pixels:   make([]byte, pitch*height),
		Geometry: emucore.Geometry{Width: width, Height: height, Pitch: pitch},
	}
	c.rendered = true
}

func readySurface(t *testing.T, v emucore.Variant) (*Surface, *fakeCore) {
	t.Helper()
	core := newFakeCore()
	s := New(core)
	s.SelectVariant(v)
	assert.NoError(t, s.MarkReady())
	return s, core
}

func TestFreshSurface(t *testing.T) {
	s := New(newFakeCore())

	assert.False(t, s.IsReady())
	assert.Equal(t, int32(emucore.VariantUnknown), s.ActiveVariantCode())
	assert.True(t, s.Address(emucore.RegionVRAM).IsZero())
	assert.True(t, s.AddressByName("vram").IsZero())
	assert.Equal(t, 0, s.TotalSize())
}

func TestAddressSentinelBeforeReady(t *testing.T) {
	s := New(newFakeCore())
	s.SelectVariant(emucore.VariantMD)

	for _, r := range regiontable.Regions(emucore.VariantMD) {
		assert.True(t, s.Address(r).IsZero(), r.String())
		assert.True(t, s.Address(r).Bytes() == nil)
	}
	// sizes are known before readiness so hosts can pre-size buffers
	assert.Equal(t, 65536, s.Size(emucore.RegionWorkRAM))
	assert.Equal(t, 128, s.SizeByName("vsram"))
}

func TestMarkReadyWithoutVariant(t *testing.T) {
	s := New(newFakeCore())
	err := s.MarkReady()
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoVariant))
	assert.False(t, s.IsReady())
}

func TestMarkReadyMissingStorage(t *testing.T) {
	core := newFakeCore()
	core.mem[emucore.RegionSAT] = make([]byte, 0x10)
	s := New(core)
	s.SelectVariant(emucore.VariantMD)

	err := s.MarkReady()
	assert.True(t, errors.Is(err, ErrStorageMissing))
	assert.False(t, s.IsReady())

	// the compact platform has no SAT, so the same storage is enough
	s.SelectVariant(emucore.VariantSMS)
	assert.NoError(t, s.MarkReady())
	assert.True(t, s.IsReady())
}

func TestReadyIsOneWay(t *testing.T) {
	s, _ := readySurface(t, emucore.VariantMD)
	assert.NoError(t, s.MarkReady())
	s.SelectVariant(emucore.VariantSMS)
	assert.True(t, s.IsReady())
	s.SelectVariant(emucore.VariantUnknown)
	assert.True(t, s.IsReady())
}

func TestAddressStableAfterReady(t *testing.T) {
	s, core := readySurface(t, emucore.VariantMD)

	for _, r := range regiontable.Regions(emucore.VariantMD) {
		first := s.Address(r)
		assert.False(t, first.IsZero(), r.String())
		second := s.Address(r)
		assert.Equal(t, first, second)

		b1, b2 := first.Bytes(), second.Bytes()
		assert.Equal(t, s.Size(r), len(b1))
		assert.True(t, &b1[0] == &b2[0])
		assert.True(t, &b1[0] == &core.mem[r][0])
	}
}

func TestHandleReflectsCoreWrites(t *testing.T) {
	s, core := readySurface(t, emucore.VariantMD)
	core.mem[emucore.RegionCRAM][3] = 0xEE
	assert.Equal(t, byte(0xEE), s.Address(emucore.RegionCRAM).Bytes()[3])
}

func TestTotalSizeEqualsSum(t *testing.T) {
	for _, v := range regiontable.Variants() {
		t.Run(v.String(), func(t *testing.T) {
			s, _ := readySurface(t, v)
			sum := 0
			for _, r := range emucore.Regions() {
				sum += s.Size(r)
			}
			assert.Equal(t, sum, s.TotalSize())
		})
	}
}

func TestPrimaryPlatformScenario(t *testing.T) {
	s, _ := readySurface(t, emucore.VariantMD)

	assert.Equal(t, 65536, s.SizeByName("work_ram"))
	assert.Equal(t, 128, s.SizeByName("vsram"))
	assert.Equal(t, 65536+8192+65536+128+128+32+1024, s.TotalSize())
	assert.Equal(t, int32(0x80), s.ActiveVariantCode())
}

func TestVariantSwitch(t *testing.T) {
	s, _ := readySurface(t, emucore.VariantMD)
	wram := s.Address(emucore.RegionWorkRAM)
	vsram := s.Address(emucore.RegionVSRAM)
	assert.Equal(t, 65536, len(wram.Bytes()))

	s.SelectVariant(emucore.VariantSMS)

	assert.Equal(t, int32(emucore.VariantSMS), s.ActiveVariantCode())
	assert.Equal(t, 0, s.SizeByName("vsram"))
	assert.Equal(t, 8192, s.SizeByName("work_ram"))
	assert.True(t, s.Address(emucore.RegionVSRAM).IsZero())

	// handles issued before the switch follow the new variant
	assert.Equal(t, 8192, len(wram.Bytes()))
	assert.True(t, vsram.Bytes() == nil)
}

func TestNotApplicableMatchesNotReady(t *testing.T) {
	notReady := New(newFakeCore())
	notReady.SelectVariant(emucore.VariantGG)
	ready, _ := readySurface(t, emucore.VariantGG)

	assert.True(t, notReady.Address(emucore.RegionVSRAM).IsZero())
	assert.True(t, ready.Address(emucore.RegionVSRAM).IsZero())
	assert.Equal(t, 0, ready.Size(emucore.RegionVSRAM))
	assert.Equal(t, 64, ready.Size(emucore.RegionCRAM))
}

func TestUnknownNameAndInvalidRegion(t *testing.T) {
	s, _ := readySurface(t, emucore.VariantMD)
	assert.True(t, s.AddressByName("zram").IsZero())
	assert.Equal(t, 0, s.SizeByName("zram"))
	assert.True(t, s.Address(emucore.RegionCount).IsZero())
	assert.Equal(t, 0, s.Size(-1))
}

func TestRegionsListing(t *testing.T) {
	s, _ := readySurface(t, emucore.VariantSMS)
	infos := s.Regions()
	assert.Equal(t, len(regiontable.Regions(emucore.VariantSMS)), len(infos))

	total := 0
	for _, info := range infos {
		assert.Equal(t, info.Region.String(), info.Name)
		assert.False(t, info.Handle.IsZero())
		total += info.Size
	}
	assert.Equal(t, s.TotalSize(), total)
}

func TestDefaultSurface(t *testing.T) {
	SetDefault(nil)
	d := Default()
	assert.False(t, d.IsReady())
	assert.Equal(t, int32(0), d.ActiveVariantCode())
	assert.True(t, d.FrameAddress().IsZero())

	s, _ := readySurface(t, emucore.VariantMD)
	SetDefault(s)
	defer SetDefault(nil)
	assert.True(t, Default() == s)
}
