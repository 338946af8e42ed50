package libretro

import emucore "github.com/user-none/memexport/api"

// Memory ids of retro_get_memory_data, as defined in libretro.h.
const (
	retroMemorySaveRAM   = 0
	retroMemoryRTC       = 1
	retroMemorySystemRAM = 2
	retroMemoryVideoRAM  = 3
)

// retroRegion maps a libretro memory id onto an exported region.
func retroRegion(id uint32) (emucore.Region, bool) {
	switch id {
	case retroMemorySystemRAM:
		return emucore.RegionWorkRAM, true
	case retroMemoryVideoRAM:
		return emucore.RegionVRAM, true
	case retroMemorySaveRAM:
		return emucore.RegionBRAM, true
	}
	return 0, false
}

// convertFrame converts a padded RGBA frame to tightly packed XRGB8888.
// It reports false when either buffer is too small for the geometry.
func convertFrame(src []byte, srcPitch int, dst []byte, width, height int) bool {
	row := width * emucore.BytesPerPixel
	if width <= 0 || height <= 0 || srcPitch < row {
		return false
	}
	if len(src) < srcPitch*(height-1)+row || len(dst) < row*height {
		return false
	}
	for y := 0; y < height; y++ {
		convertRGBAToXRGB8888(src[y*srcPitch:], dst[y*row:], width)
	}
	return true
}

// convertRGBAToXRGB8888 converts RGBA pixels to XRGB8888 format.
func convertRGBAToXRGB8888(src, dst []byte, pixels int) {
	for i := 0; i < pixels; i++ {
		srcIdx := i * 4
		dstIdx := i * 4
		dst[dstIdx+0] = src[srcIdx+2] // B
		dst[dstIdx+1] = src[srcIdx+1] // G
		dst[dstIdx+2] = src[srcIdx+0] // R
		dst[dstIdx+3] = 0xFF          // X
	}
}

// aspectRatio returns the display aspect ratio for square pixels.
func aspectRatio(g emucore.Geometry) float32 {
	if g.Height == 0 {
		return 4.0 / 3.0
	}
	return float32(g.Width) / float32(g.Height)
}
