package romloader

import (
	"path/filepath"
	"strings"

	emucore "github.com/user-none/memexport/api"
)

// contentExtensions maps content file extensions to the variant they
// usually run on. Header inspection by the core has the final word.
var contentExtensions = []struct {
	ext     string
	variant emucore.Variant
}{
	{".md", emucore.VariantMD},
	{".gen", emucore.VariantMD},
	{".bin", emucore.VariantMD},
	{".smd", emucore.VariantMD},
	{".iso", emucore.VariantMCD},
	{".sms", emucore.VariantSMS},
	{".gg", emucore.VariantGG},
}

// Extensions returns every content extension of every variant.
func Extensions() []string {
	exts := make([]string, len(contentExtensions))
	for i, e := range contentExtensions {
		exts[i] = e.ext
	}
	return exts
}

// VariantHint returns the variant implied by the extension of name, or
// VariantUnknown.
func VariantHint(name string) emucore.Variant {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range contentExtensions {
		if e.ext == ext {
			return e.variant
		}
	}
	return emucore.VariantUnknown
}
