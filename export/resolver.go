package export

import (
	emucore "github.com/user-none/memexport/api"
)

// resolver tracks the variant selected by the core. It stores the raw code
// and nothing derived from it, so a switch is visible on the next query.
type resolver struct {
	code emucore.Variant
}

func (r *resolver) selectVariant(v emucore.Variant) {
	r.code = v
}

func (r *resolver) active() emucore.Variant {
	return r.code
}
