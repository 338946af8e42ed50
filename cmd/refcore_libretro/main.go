// Command refcore_libretro builds the reference core as a libretro shared
// library (-buildmode=c-shared).
package main

import (
	emucore "github.com/user-none/memexport/api"
	"github.com/user-none/memexport/config"
	"github.com/user-none/memexport/libretro"
	"github.com/user-none/memexport/refcore"
	"github.com/user-none/memexport/romloader"
)

func init() {
	libretro.RegisterFactory(func(alloc emucore.Allocator) libretro.Core {
		logger := config.CreateLogger(config.LevelError)
		return refcore.New(logger, refcore.WithAllocator(alloc))
	}, libretro.Info{
		Name:       refcore.Name,
		Version:    refcore.Version,
		Extensions: romloader.Extensions(),
	})
}

func main() {}
