package emucore

import "fmt"

// Variant is the opaque code of the active hardware profile. The values
// mirror the core's system_hw byte; nothing below the host interprets them.
type Variant int32

// VariantUnknown is reported until the core selects a profile.
const VariantUnknown Variant = 0

// Variant codes selected by the core.
const (
	VariantSMS  Variant = 0x20 // Master System
	VariantSMS2 Variant = 0x21 // Master System II
	VariantGG   Variant = 0x40 // Game Gear
	VariantGGMS Variant = 0x41 // Game Gear running Master System content
	VariantMD   Variant = 0x80 // Mega Drive / Genesis
	VariantMCD  Variant = 0x84 // Mega Drive with Mega-CD expansion
)

// String returns the raw code in hex. Human readable platform names are
// a host concern.
func (v Variant) String() string {
	return fmt.Sprintf("0x%02x", int32(v))
}

// BytesPerPixel is the nominal framebuffer pixel size (RGBA).
const BytesPerPixel = 4

// Geometry is the framebuffer shape. Pitch is bytes per row and may be
// larger than Width*BytesPerPixel.
type Geometry struct {
	Width  int
	Height int
	Pitch  int
}

// Frame is a rendered framebuffer as owned by the core's renderer.
type Frame struct {
	Pixels []byte
	Geometry
}
