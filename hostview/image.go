package hostview

import (
	"image"

	emucore "github.com/user-none/memexport/api"
)

// Image converts the frame to an RGBA image, dropping row padding.
func (f *FrameSnapshot) Image() *image.RGBA {
	w, h := int(f.Width), int(f.Height)
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	row := w * emucore.BytesPerPixel
	for y := 0; y < h; y++ {
		src := f.Pixels[y*int(f.Pitch):]
		copy(img.Pix[y*img.Stride:y*img.Stride+row], src[:row])
	}
	return img
}
