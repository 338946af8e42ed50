package libretro

/*
#include "libretro.h"
#include "cfuncs.h"
*/
import "C"
import (
	"fmt"
	"path/filepath"
	"strings"
	"unsafe"

	"github.com/retroenv/retrogolib/log"
	emucore "github.com/user-none/memexport/api"
	"github.com/user-none/memexport/config"
	"github.com/user-none/memexport/export"
	"github.com/user-none/memexport/regiontable"
)

// Core is a core that can be driven through the libretro API.
type Core interface {
	emucore.ContentLoader
	emucore.Stepper
	Surface() *export.Surface
}

// Factory creates the core. Region and framebuffer storage must come from
// alloc so that addresses handed to the frontend stay valid.
type Factory func(alloc emucore.Allocator) Core

// Info describes the core to the frontend.
type Info struct {
	Name       string
	Version    string
	Extensions []string
}

var (
	factory Factory
	info    Info

	logger = config.CreateLogger(config.LevelError)

	core        Core
	contentData []byte
	contentName string
	xrgbBuf     []byte
	geometry    emucore.Geometry

	// Pre-allocated C strings (allocated once, never freed)
	libNameStr   *C.char
	libVerStr    *C.char
	validExtStr  *C.char
	stringsReady bool
)

// RegisterFactory sets the factory and system info used by the libretro
// core. Must be called during init() before any retro_* function runs.
func RegisterFactory(f Factory, i Info) {
	factory = f
	info = i
}

//export retro_set_environment
func retro_set_environment(cb C.retro_environment_t) {
	C._retro_set_environment(cb)
}

//export retro_set_video_refresh
func retro_set_video_refresh(cb C.retro_video_refresh_t) {
	C._retro_set_video_refresh(cb)
}

//export retro_set_audio_sample
func retro_set_audio_sample(cb C.retro_audio_sample_t) {
	C._retro_set_audio_sample(cb)
}

//export retro_set_audio_sample_batch
func retro_set_audio_sample_batch(cb C.retro_audio_sample_batch_t) {
	C._retro_set_audio_sample_batch(cb)
}

//export retro_set_input_poll
func retro_set_input_poll(cb C.retro_input_poll_t) {
	C._retro_set_input_poll(cb)
}

//export retro_set_input_state
func retro_set_input_state(cb C.retro_input_state_t) {
	C._retro_set_input_state(cb)
}

//export retro_init
func retro_init() {
	xrgbBuf = newVideoBuffer()

	// The core and its storage live for the rest of the process so that
	// exported addresses never dangle.
	if core == nil && factory != nil {
		core = factory(cAlloc)
		export.SetDefault(core.Surface())
	}
	ensureStrings()
}

//export retro_deinit
func retro_deinit() {
	contentData = nil
	xrgbBuf = nil
}

//export retro_api_version
func retro_api_version() C.uint {
	return C.RETRO_API_VERSION
}

//export retro_get_system_info
func retro_get_system_info(sys *C.struct_retro_system_info) {
	ensureStrings()
	sys.library_name = libNameStr
	sys.library_version = libVerStr
	sys.valid_extensions = validExtStr
	sys.need_fullpath = C.bool(false)
	sys.block_extract = C.bool(false)
}

//export retro_get_system_av_info
func retro_get_system_av_info(av *C.struct_retro_system_av_info) {
	limit := regiontable.MaxGeometry()
	g := currentGeometry()

	av.timing.fps = C.double(60)
	av.timing.sample_rate = C.double(44100)
	av.geometry.base_width = C.uint(g.Width)
	av.geometry.base_height = C.uint(g.Height)
	av.geometry.max_width = C.uint(limit.Width)
	av.geometry.max_height = C.uint(limit.Height)
	av.geometry.aspect_ratio = C.float(aspectRatio(g))
}

//export retro_set_controller_port_device
func retro_set_controller_port_device(port C.uint, device C.uint) {
}

//export retro_reset
func retro_reset() {
	if err := reloadContent(); err != nil {
		logger.Error("Reset failed", log.Err(err))
	}
}

// reloadContent loads the current content again, which returns the core to
// its power-on state.
func reloadContent() error {
	if core == nil || contentData == nil {
		return nil
	}
	if err := core.LoadContent(contentData, contentName); err != nil {
		return fmt.Errorf("reloading %s: %w", contentName, err)
	}
	geometry = emucore.Geometry{}
	return nil
}

//export retro_run
func retro_run() {
	if core == nil {
		return
	}

	C.call_input_poll_cb()
	core.StepFrame()

	f := core.Surface().Frame()
	if !f.Handle.IsZero() && !outputVideo(f) {
		logger.Error("Dropped frame",
			log.Int("width", f.Width),
			log.Int("height", f.Height),
			log.Int("pitch", f.Pitch))
	}
}

//export retro_serialize_size
func retro_serialize_size() C.size_t {
	return 0
}

//export retro_serialize
func retro_serialize(data unsafe.Pointer, size C.size_t) C.bool {
	return C.bool(false)
}

//export retro_unserialize
func retro_unserialize(data unsafe.Pointer, size C.size_t) C.bool {
	return C.bool(false)
}

//export retro_cheat_reset
func retro_cheat_reset() {
}

//export retro_cheat_set
func retro_cheat_set(index C.uint, enabled C.bool, code *C.char) {
}

//export retro_load_game
func retro_load_game(game *C.struct_retro_game_info) C.bool {
	if game == nil || game.data == nil || game.size == 0 || core == nil {
		return C.bool(false)
	}

	var pixelFormat C.int = C.RETRO_PIXEL_FORMAT_XRGB8888
	C.call_environ_cb(C.RETRO_ENVIRONMENT_SET_PIXEL_FORMAT, unsafe.Pointer(&pixelFormat))

	data := C.GoBytes(game.data, C.int(game.size))
	name := ""
	if game.path != nil {
		name = filepath.Base(C.GoString(game.path))
	}
	if err := core.LoadContent(data, name); err != nil {
		return C.bool(false)
	}

	contentData = data
	contentName = name
	geometry = emucore.Geometry{}
	return C.bool(true)
}

//export retro_load_game_special
func retro_load_game_special(gameType C.uint, game *C.struct_retro_game_info, numInfo C.size_t) C.bool {
	return C.bool(false)
}

//export retro_unload_game
func retro_unload_game() {
	contentData = nil
	contentName = ""
}

//export retro_get_region
func retro_get_region() C.uint {
	return C.RETRO_REGION_NTSC
}

//export retro_get_memory_data
func retro_get_memory_data(id C.uint) unsafe.Pointer {
	r, ok := retroRegion(uint32(id))
	if !ok {
		return nil
	}
	return pointer(export.Default().Address(r))
}

//export retro_get_memory_size
func retro_get_memory_size(id C.uint) C.size_t {
	r, ok := retroRegion(uint32(id))
	if !ok || export.Default().Address(r).IsZero() {
		return 0
	}
	return C.size_t(export.Default().Size(r))
}

//export memexport_is_ready
func memexport_is_ready() C.int {
	if export.Default().IsReady() {
		return 1
	}
	return 0
}

//export memexport_active_variant_code
func memexport_active_variant_code() C.int32_t {
	return C.int32_t(export.Default().ActiveVariantCode())
}

//export memexport_address
func memexport_address(id C.int) unsafe.Pointer {
	return pointer(export.Default().Address(emucore.Region(id)))
}

//export memexport_size
func memexport_size(id C.int) C.size_t {
	return C.size_t(export.Default().Size(emucore.Region(id)))
}

//export memexport_total_size
func memexport_total_size() C.size_t {
	return C.size_t(export.Default().TotalSize())
}

//export memexport_frame_address
func memexport_frame_address() unsafe.Pointer {
	return pointer(export.Default().FrameAddress())
}

//export memexport_frame_width
func memexport_frame_width() C.uint {
	return C.uint(export.Default().FrameWidth())
}

//export memexport_frame_height
func memexport_frame_height() C.uint {
	return C.uint(export.Default().FrameHeight())
}

//export memexport_frame_pitch
func memexport_frame_pitch() C.uint {
	return C.uint(export.Default().FramePitch())
}

// pointer converts a handle into the address of its first byte, or NULL for
// the sentinel.
func pointer(h export.Handle) unsafe.Pointer {
	b := h.Bytes()
	if len(b) == 0 {
		return nil
	}
	return unsafe.Pointer(unsafe.SliceData(b))
}

// currentGeometry returns the geometry of the last output frame, falling
// back to the active variant's nominal one.
func currentGeometry() emucore.Geometry {
	if geometry.Width != 0 {
		return geometry
	}
	return export.Default().Frame().Geometry
}

// ensureStrings allocates C strings for system info once.
func ensureStrings() {
	if stringsReady {
		return
	}
	libNameStr = C.CString(info.Name)
	libVerStr = C.CString(info.Version)
	exts := make([]string, len(info.Extensions))
	for i, e := range info.Extensions {
		exts[i] = strings.TrimPrefix(e, ".")
	}
	validExtStr = C.CString(strings.Join(exts, "|"))
	stringsReady = true
}

// newVideoBuffer returns a conversion buffer that holds the largest frame
// any display mode produces.
func newVideoBuffer() []byte {
	limit := regiontable.MaxGeometry()
	return make([]byte, limit.Width*limit.Height*emucore.BytesPerPixel)
}

// outputVideo converts the frame and hands it to the frontend, announcing
// geometry changes first. It reports whether the frame was delivered.
func outputVideo(f export.FrameInfo) bool {
	g := emucore.Geometry{Width: f.Width, Height: f.Height, Pitch: f.Width * emucore.BytesPerPixel}
	if !convertFrame(f.Handle.Bytes(), f.Pitch, xrgbBuf, f.Width, f.Height) {
		return false
	}
	if g != geometry {
		geometry = g
		updateGeometry()
	}
	C.call_video_cb(unsafe.Pointer(&xrgbBuf[0]), C.uint(g.Width), C.uint(g.Height), C.size_t(g.Pitch))
	return true
}

// updateGeometry notifies the frontend of geometry changes.
func updateGeometry() {
	limit := regiontable.MaxGeometry()
	var geom C.struct_retro_game_geometry
	geom.base_width = C.uint(geometry.Width)
	geom.base_height = C.uint(geometry.Height)
	geom.max_width = C.uint(limit.Width)
	geom.max_height = C.uint(limit.Height)
	geom.aspect_ratio = C.float(aspectRatio(geometry))
	C.call_environ_cb(C.RETRO_ENVIRONMENT_SET_GEOMETRY, unsafe.Pointer(&geom))
}
