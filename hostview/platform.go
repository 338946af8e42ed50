package hostview

import emucore "github.com/user-none/memexport/api"

var platformNames = map[emucore.Variant]string{
	emucore.VariantSMS:  "Master System",
	emucore.VariantSMS2: "Master System II",
	emucore.VariantGG:   "Game Gear",
	emucore.VariantGGMS: "Game Gear (SMS mode)",
	emucore.VariantMD:   "Mega Drive",
	emucore.VariantMCD:  "Mega-CD",
}

// Platform names the platform behind a raw variant code. Unrecognized codes,
// including 0, yield "Unknown".
func Platform(code int32) string {
	if name, ok := platformNames[emucore.Variant(code)]; ok {
		return name
	}
	return "Unknown"
}
