package refcore

import (
	"encoding/binary"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
	emucore "github.com/user-none/memexport/api"
	"github.com/user-none/memexport/regiontable"
)

// mdROM returns a minimal cartridge image with a Mega Drive header.
func mdROM() []byte {
	rom := make([]byte, 0x400)
	copy(rom[0x100:], "SEGA MEGA DRIVE ")
	return rom
}

// smsROM returns a cartridge image with a Master System header whose
// region nibble is region.
func smsROM(region byte) []byte {
	rom := make([]byte, 0x8000)
	copy(rom[0x7FF0:], "TMR SEGA")
	rom[0x7FFF] = region<<4 | 0x0C
	return rom
}

func newCore(t *testing.T) *Core {
	t.Helper()
	return New(log.NewTestLogger(t))
}

func TestFreshCoreNotReady(t *testing.T) {
	c := newCore(t)
	s := c.Surface()

	assert.False(t, s.IsReady())
	assert.Equal(t, int32(0), s.ActiveVariantCode())
	assert.True(t, s.AddressByName("vram").IsZero())
	assert.True(t, s.FrameAddress().IsZero())
}

func TestLoadPrimaryPlatform(t *testing.T) {
	c := newCore(t)
	assert.NoError(t, c.LoadContent(mdROM(), "game.bin"))
	s := c.Surface()

	assert.True(t, s.IsReady())
	assert.Equal(t, int32(emucore.VariantMD), s.ActiveVariantCode())
	assert.Equal(t, 65536, s.SizeByName("work_ram"))
	assert.Equal(t, 128, s.SizeByName("vsram"))
	assert.Equal(t, 65536+8192+65536+128+128+32+1024, s.TotalSize())

	for _, info := range s.Regions() {
		assert.False(t, info.Handle.IsZero(), info.Name)
		assert.Equal(t, info.Size, len(info.Handle.Bytes()))
	}
}

func TestSwitchToCompactPlatform(t *testing.T) {
	c := newCore(t)
	assert.NoError(t, c.LoadContent(mdROM(), "game.bin"))
	s := c.Surface()
	wram := s.Address(emucore.RegionWorkRAM).Bytes()

	assert.NoError(t, c.LoadContent(smsROM(0x4), "game.sms"))

	assert.True(t, s.IsReady())
	assert.Equal(t, int32(emucore.VariantSMS), s.ActiveVariantCode())
	assert.Equal(t, 0, s.SizeByName("vsram"))
	assert.Equal(t, 8192, s.SizeByName("work_ram"))
	assert.True(t, s.AddressByName("vsram").IsZero())

	// storage was allocated once, so the base address did not move
	after := s.Address(emucore.RegionWorkRAM).Bytes()
	assert.True(t, &wram[0] == &after[0])
}

func TestStepFrameWritesWorkRAM(t *testing.T) {
	c := newCore(t)
	assert.NoError(t, c.LoadContent(mdROM(), "game.bin"))
	wram := c.Surface().Address(emucore.RegionWorkRAM)

	c.StepFrame()
	c.StepFrame()
	c.StepFrame()

	assert.Equal(t, uint64(3), c.Frames())
	assert.Equal(t, uint32(3), binary.BigEndian.Uint32(wram.Bytes()))
}

func TestStepWithoutContentIsNoop(t *testing.T) {
	c := newCore(t)
	c.StepFrame()
	_, rendered := c.Framebuffer()
	assert.False(t, rendered)
	assert.Equal(t, uint64(0), c.Frames())
}

func TestFramebufferContract(t *testing.T) {
	c := newCore(t)
	assert.NoError(t, c.LoadContent(mdROM(), "game.bin"))
	s := c.Surface()

	// nominal geometry before the first frame
	assert.True(t, s.FrameAddress().IsZero())
	assert.Equal(t, 320, s.FrameWidth())
	assert.Equal(t, 224, s.FrameHeight())

	c.StepFrame()
	f := s.Frame()
	assert.False(t, f.Handle.IsZero())
	assert.Equal(t, 320, f.Width)
	assert.Equal(t, 224, f.Height)
	assert.Equal(t, 1536, f.Pitch)
	assert.True(t, f.Pitch >= f.Width*emucore.BytesPerPixel)
	assert.Equal(t, f.Pitch*f.Height, len(f.Handle.Bytes()))
	assert.Equal(t, byte(0xFF), f.Handle.Bytes()[3])
}

func TestDisplayModeFollowsRegisters(t *testing.T) {
	c := newCore(t)
	assert.NoError(t, c.LoadContent(mdROM(), "game.bin"))
	s := c.Surface()
	regs := s.Address(emucore.RegionVDPRegs).Bytes()

	// H32, V30
	regs[regMode4] &^= mode4H40
	regs[regMode2] |= mode2V30
	c.StepFrame()
	assert.Equal(t, 256, s.FrameWidth())
	assert.Equal(t, 240, s.FrameHeight())
	assert.True(t, s.FrameHeight() <= regiontable.MaxGeometry().Height)

	// back to H40, V28
	regs[regMode4] |= mode4H40
	regs[regMode2] &^= mode2V30
	c.StepFrame()
	assert.Equal(t, 320, s.FrameWidth())
	assert.Equal(t, 224, s.FrameHeight())
	assert.True(t, s.FramePitch() >= s.FrameWidth()*emucore.BytesPerPixel)
}

func TestPortableGeometry(t *testing.T) {
	c := newCore(t)
	assert.NoError(t, c.LoadContent(smsROM(0x6), "columns.bin"))
	assert.Equal(t, emucore.VariantGG, c.Variant())

	c.StepFrame()
	s := c.Surface()
	assert.Equal(t, 160, s.FrameWidth())
	assert.Equal(t, 144, s.FrameHeight())
	assert.Equal(t, 64, s.SizeByName("cram"))
}

func TestLoadBootROM(t *testing.T) {
	c := newCore(t)
	assert.NoError(t, c.LoadBootROM([]byte{0xF3, 0xED, 0x56}))
	assert.NoError(t, c.LoadContentAs(nil, "bios", emucore.VariantGG))

	rom := c.Surface().Address(emucore.RegionBootROM).Bytes()
	assert.Equal(t, 0x400, len(rom))
	assert.Equal(t, byte(0xED), rom[1])

	err := c.LoadBootROM(make([]byte, 0x2001))
	assert.Error(t, err)
}

func TestLoadUnknownContent(t *testing.T) {
	c := newCore(t)
	err := c.LoadContent([]byte{1, 2, 3}, "notes.txt")
	assert.Error(t, err)
	assert.False(t, c.Surface().IsReady())

	err = c.LoadContentAs(nil, "x", emucore.Variant(0x7F))
	assert.Error(t, err)
}

func TestAlign(t *testing.T) {
	assert.Equal(t, 1536, Align(1280, 512))
	assert.Equal(t, 1024, Align(1024, 512))
	assert.Equal(t, uint32(16), Align(uint32(1), 16))
}

func TestWithAllocator(t *testing.T) {
	var requested []int
	alloc := func(n int) []byte {
		requested = append(requested, n)
		return make([]byte, n)
	}
	c := New(log.NewTestLogger(t), WithAllocator(alloc))
	c.Allocate()
	c.Allocate()

	// one block per region plus the framebuffer, allocated once
	assert.Equal(t, int(emucore.RegionCount)+1, len(requested))
	assert.Equal(t, 1536*240, requested[len(requested)-1])
}
