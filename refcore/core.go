// Package refcore is a storage-only stand-in for an emulation core. It owns
// the memory that the export layer reports, selects the hardware variant
// from loaded content and renders a test pattern each frame, so the export
// contract can be exercised without a CPU or video implementation.
package refcore

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/retroenv/retrogolib/log"
	emucore "github.com/user-none/memexport/api"
	"github.com/user-none/memexport/export"
	"github.com/user-none/memexport/regiontable"
)

// Name and Version identify the core.
const (
	Name    = "memexport-refcore"
	Version = "0.3.0"
)

// Framebuffer rows are padded to pitchAlign bytes.
const pitchAlign = 512

// VDP register bits that select the primary platform display mode.
const (
	regMode2     = 1
	regMode4     = 12
	mode2V30     = 0x08
	mode4H40     = 0x01
	h32Width     = 256
	h40Width     = 320
	v28Lines     = 224
	v30Lines     = 240
	frameCounter = 0 // work RAM offset of the big-endian frame counter
)

// ErrBootROMTooLarge is returned by LoadBootROM for oversized images.
var ErrBootROMTooLarge = errors.New("boot rom image too large")

// Core is the reference core. It is not safe for concurrent use; the host
// steps it and reads its memory from one goroutine.
type Core struct {
	logger  *log.Logger
	surface *export.Surface
	alloc   emucore.Allocator

	mem       [emucore.RegionCount][]byte
	allocated bool

	variant emucore.Variant
	content []byte

	pixels   []byte
	pitch    int
	frame    emucore.Frame
	rendered bool
	frames   uint64
}

// Option configures a Core.
type Option func(*Core)

// WithAllocator makes the core take its region and framebuffer storage
// from alloc instead of the Go heap.
func WithAllocator(alloc emucore.Allocator) Option {
	return func(c *Core) {
		c.alloc = alloc
	}
}

// New creates a core with no storage and no variant. Its surface reports
// not ready until content has been loaded.
func New(logger *log.Logger, opts ...Option) *Core {
	c := &Core{
		logger: logger,
		alloc:  emucore.HeapAllocator,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.surface = export.New(c)
	return c
}

// Surface returns the export surface of the core.
func (c *Core) Surface() *export.Surface {
	return c.surface
}

// Variant returns the active variant.
func (c *Core) Variant() emucore.Variant {
	return c.variant
}

// Frames returns the number of frames stepped since content was loaded.
func (c *Core) Frames() uint64 {
	return c.frames
}

// Allocate allocates storage for the superset of all variants. It runs
// once; storage is never freed or resized afterwards.
func (c *Core) Allocate() {
	if c.allocated {
		return
	}
	total := 0
	for _, r := range emucore.Regions() {
		size := regiontable.MaxSize(r)
		c.mem[r] = c.alloc(size)
		total += size
	}
	limit := regiontable.MaxGeometry()
	c.pitch = Align(limit.Pitch, pitchAlign)
	c.pixels = c.alloc(c.pitch * limit.Height)
	c.allocated = true

	c.logger.Debug("Allocated core storage",
		log.Int("bytes", total),
		log.Int("framebuffer", len(c.pixels)),
		log.Int("pitch", c.pitch))
}

// LoadContent selects the variant for data, allocates storage on first use
// and marks the export surface ready.
func (c *Core) LoadContent(data []byte, name string) error {
	v, err := DetectVariant(data, name)
	if err != nil {
		return err
	}
	return c.LoadContentAs(data, name, v)
}

// LoadContentAs loads content on an explicitly chosen variant.
func (c *Core) LoadContentAs(data []byte, name string, v emucore.Variant) error {
	if !regiontable.Known(v) {
		return fmt.Errorf("%w: variant %s", ErrUnknownContent, v)
	}

	c.Allocate()
	c.reset()
	c.content = data
	c.variant = v
	c.surface.SelectVariant(v)
	c.setDefaultMode()

	if err := c.surface.MarkReady(); err != nil {
		return fmt.Errorf("marking export surface ready: %w", err)
	}

	c.logger.Info("Content loaded",
		log.String("name", name),
		log.String("variant", v.String()),
		log.Int("size", len(data)),
		log.Int("exported", c.surface.TotalSize()))
	return nil
}

// LoadBootROM copies a boot ROM image into the boot_rom region.
func (c *Core) LoadBootROM(data []byte) error {
	c.Allocate()
	rom := c.mem[emucore.RegionBootROM]
	if len(data) > len(rom) {
		return fmt.Errorf("%w: %d bytes, max %d", ErrBootROMTooLarge, len(data), len(rom))
	}
	copy(rom, data)
	return nil
}

// StepFrame runs one frame: it bumps the frame counter in work RAM and
// renders the test pattern in the display mode currently programmed in the
// VDP registers.
func (c *Core) StepFrame() {
	if !c.allocated || c.variant == emucore.VariantUnknown {
		return
	}
	c.frames++

	wram := c.mem[emucore.RegionWorkRAM]
	binary.BigEndian.PutUint32(wram[frameCounter:], uint32(c.frames))

	c.render(c.displayMode())
}

// RegionMemory implements emucore.MemoryCore.
func (c *Core) RegionMemory(r emucore.Region) []byte {
	if !r.Valid() {
		return nil
	}
	return c.mem[r]
}

// Framebuffer implements emucore.MemoryCore.
func (c *Core) Framebuffer() (emucore.Frame, bool) {
	return c.frame, c.rendered
}

// reset clears all regions except the boot ROM and forgets the last frame.
// Storage is reused.
func (c *Core) reset() {
	for _, r := range emucore.Regions() {
		if r == emucore.RegionBootROM {
			continue
		}
		clear(c.mem[r])
	}
	clear(c.pixels)
	c.frame = emucore.Frame{}
	c.rendered = false
	c.frames = 0
}

// setDefaultMode programs the power-on display mode of the variant.
func (c *Core) setDefaultMode() {
	regs := c.mem[emucore.RegionVDPRegs]
	switch c.variant {
	case emucore.VariantMD, emucore.VariantMCD:
		regs[regMode4] |= mode4H40
	}
}

// displayMode returns the geometry the VDP registers select.
func (c *Core) displayMode() emucore.Geometry {
	switch c.variant {
	case emucore.VariantMD, emucore.VariantMCD:
		regs := c.mem[emucore.RegionVDPRegs]
		g := emucore.Geometry{Width: h32Width, Height: v28Lines, Pitch: c.pitch}
		if regs[regMode4]&mode4H40 != 0 {
			g.Width = h40Width
		}
		if regs[regMode2]&mode2V30 != 0 {
			g.Height = v30Lines
		}
		return g
	default:
		g, _ := regiontable.Geometry(c.variant)
		g.Pitch = c.pitch
		return g
	}
}

// render draws a diagonal gradient that scrolls one pixel per frame.
func (c *Core) render(g emucore.Geometry) {
	shift := int(c.frames)
	for y := 0; y < g.Height; y++ {
		row := c.pixels[y*g.Pitch : y*g.Pitch+g.Width*emucore.BytesPerPixel]
		for x := 0; x < g.Width; x++ {
			v := byte((x + y + shift) & 0xFF)
			p := row[x*emucore.BytesPerPixel:]
			p[0] = v
			p[1] = byte(y)
			p[2] = byte(x)
			p[3] = 0xFF
		}
	}

	if c.rendered && c.frame.Geometry != g {
		c.logger.Debug("Display mode changed",
			log.Int("width", g.Width),
			log.Int("height", g.Height))
	}
	c.frame = emucore.Frame{Pixels: c.pixels[:g.Pitch*g.Height], Geometry: g}
	c.rendered = true
}
