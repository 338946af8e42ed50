package export

import (
	emucore "github.com/user-none/memexport/api"
)

// nilCore backs the placeholder default surface.
type nilCore struct{}

func (nilCore) RegionMemory(emucore.Region) []byte {
	return nil
}

func (nilCore) Framebuffer() (emucore.Frame, bool) {
	return emucore.Frame{}, false
}
