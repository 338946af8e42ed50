package refcore

import (
	"bytes"
	"errors"
	"fmt"

	emucore "github.com/user-none/memexport/api"
	"github.com/user-none/memexport/romloader"
)

// ErrUnknownContent is returned when no variant can be derived from content.
var ErrUnknownContent = errors.New("unable to detect variant of content")

var (
	mdSignature  = []byte("SEGA")
	mcdSignature = []byte("SEGADISCSYSTEM")
	smsSignature = []byte("TMR SEGA")
)

// smsHeaderOffsets are the locations a Master System/Game Gear header may
// start at, checked in order.
var smsHeaderOffsets = []int{0x7FF0, 0x3FF0, 0x1FF0}

// DetectVariant inspects content headers and falls back to the file
// extension of name.
func DetectVariant(data []byte, name string) (emucore.Variant, error) {
	if v, ok := detectHeader(data); ok {
		return v, nil
	}
	if v := romloader.VariantHint(name); v != emucore.VariantUnknown {
		return v, nil
	}
	return emucore.VariantUnknown, fmt.Errorf("%w: %s", ErrUnknownContent, name)
}

func detectHeader(data []byte) (emucore.Variant, bool) {
	// Mega-CD boot sector, raw or with a 16 byte sync header
	for _, off := range []int{0x000, 0x010} {
		if hasAt(data, off, mcdSignature) {
			return emucore.VariantMCD, true
		}
	}

	// Mega Drive: "SEGA" somewhere in the console name field at $100
	if len(data) >= 0x200 && bytes.Contains(data[0x100:0x110], mdSignature) {
		return emucore.VariantMD, true
	}

	// Master System / Game Gear: region code in the high nibble of the
	// last header byte
	for _, off := range smsHeaderOffsets {
		if !hasAt(data, off, smsSignature) {
			continue
		}
		switch data[off+0xF] >> 4 {
		case 0x5, 0x6, 0x7:
			return emucore.VariantGG, true
		default:
			return emucore.VariantSMS, true
		}
	}
	return emucore.VariantUnknown, false
}

func hasAt(data []byte, off int, sig []byte) bool {
	if off+16 > len(data) {
		return false
	}
	return bytes.Equal(data[off:off+len(sig)], sig)
}
