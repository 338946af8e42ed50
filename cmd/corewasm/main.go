//go:build wasip1

package main

import (
	emucore "github.com/user-none/memexport/api"
	"github.com/user-none/memexport/config"
	"github.com/user-none/memexport/export"
	"github.com/user-none/memexport/refcore"
)

var (
	core    = refcore.New(config.CreateLogger(config.LevelError))
	content loader
)

func init() {
	export.SetDefault(core.Surface())
}

func surface() *export.Surface {
	return export.Default()
}

//go:wasmexport is_ready
func isReady() int32 {
	return boolToI32(surface().IsReady())
}

//go:wasmexport active_variant_code
func activeVariantCode() int32 {
	return surface().ActiveVariantCode()
}

//go:wasmexport address
func address(id int32) uint32 {
	return handleAddress(surface().Address(emucore.Region(id)))
}

//go:wasmexport size
func size(id int32) uint32 {
	return uint32(surface().Size(emucore.Region(id)))
}

//go:wasmexport total_size
func totalSize() uint32 {
	return uint32(surface().TotalSize())
}

//go:wasmexport frame_address
func frameAddress() uint32 {
	return handleAddress(surface().FrameAddress())
}

//go:wasmexport frame_width
func frameWidth() uint32 {
	return uint32(surface().FrameWidth())
}

//go:wasmexport frame_height
func frameHeight() uint32 {
	return uint32(surface().FrameHeight())
}

//go:wasmexport frame_pitch
func framePitch() uint32 {
	return uint32(surface().FramePitch())
}

// Per-region entry points under the names existing hosts link against.

//go:wasmexport get_work_ram_ptr
func getWorkRAMPtr() uint32 { return address(int32(emucore.RegionWorkRAM)) }

//go:wasmexport get_work_ram_size
func getWorkRAMSize() uint32 { return size(int32(emucore.RegionWorkRAM)) }

//go:wasmexport get_zram_ptr
func getZRAMPtr() uint32 { return address(int32(emucore.RegionZ80RAM)) }

//go:wasmexport get_zram_size
func getZRAMSize() uint32 { return size(int32(emucore.RegionZ80RAM)) }

//go:wasmexport get_vram_ptr
func getVRAMPtr() uint32 { return address(int32(emucore.RegionVRAM)) }

//go:wasmexport get_vram_size
func getVRAMSize() uint32 { return size(int32(emucore.RegionVRAM)) }

//go:wasmexport get_cram_ptr
func getCRAMPtr() uint32 { return address(int32(emucore.RegionCRAM)) }

//go:wasmexport get_cram_size
func getCRAMSize() uint32 { return size(int32(emucore.RegionCRAM)) }

//go:wasmexport get_vsram_ptr
func getVSRAMPtr() uint32 { return address(int32(emucore.RegionVSRAM)) }

//go:wasmexport get_vsram_size
func getVSRAMSize() uint32 { return size(int32(emucore.RegionVSRAM)) }

//go:wasmexport get_vdp_regs_ptr
func getVDPRegsPtr() uint32 { return address(int32(emucore.RegionVDPRegs)) }

//go:wasmexport get_vdp_regs_size
func getVDPRegsSize() uint32 { return size(int32(emucore.RegionVDPRegs)) }

//go:wasmexport get_sat_ptr
func getSATPtr() uint32 { return address(int32(emucore.RegionSAT)) }

//go:wasmexport get_sat_size
func getSATSize() uint32 { return size(int32(emucore.RegionSAT)) }

//go:wasmexport get_boot_rom_ptr
func getBootROMPtr() uint32 { return address(int32(emucore.RegionBootROM)) }

//go:wasmexport get_boot_rom_size
func getBootROMSize() uint32 { return size(int32(emucore.RegionBootROM)) }

//go:wasmexport get_frame_buffer_ref
func getFrameBufferRef() uint32 { return frameAddress() }

//go:wasmexport get_frame_buffer_width
func getFrameBufferWidth() uint32 { return frameWidth() }

//go:wasmexport get_frame_buffer_height
func getFrameBufferHeight() uint32 { return frameHeight() }

//go:wasmexport get_frame_buffer_pitch
func getFrameBufferPitch() uint32 { return framePitch() }

//go:wasmexport is_core_initialized
func isCoreInitialized() int32 { return isReady() }

//go:wasmexport get_total_memory_size
func getTotalMemorySize() uint32 { return totalSize() }

//go:wasmexport get_active_system_code
func getActiveSystemCode() int32 { return activeVariantCode() }

// Core driving.

//go:wasmexport core_alloc
func coreAlloc(n uint32) uint32 {
	return bufferAddress(content.alloc(n))
}

//go:wasmexport core_load
func coreLoad(ptr, n, namePtr, nameLen uint32) int32 {
	data, name, err := content.content(uintptr(ptr), n, uintptr(namePtr), nameLen)
	if err != nil {
		return -1
	}
	if err := core.LoadContent(data, name); err != nil {
		return -2
	}
	return 0
}

//go:wasmexport core_step
func coreStep() {
	core.StepFrame()
}
