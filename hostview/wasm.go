package hostview

import (
	"context"
	"fmt"

	"github.com/retroenv/retrogolib/log"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	emucore "github.com/user-none/memexport/api"
)

// Export names a core module must provide.
const (
	fnIsReady      = "is_ready"
	fnVariantCode  = "active_variant_code"
	fnAddress      = "address"
	fnSize         = "size"
	fnTotalSize    = "total_size"
	fnFrameAddress = "frame_address"
	fnFrameWidth   = "frame_width"
	fnFrameHeight  = "frame_height"
	fnFramePitch   = "frame_pitch"
	fnCoreAlloc    = "core_alloc"
	fnCoreLoad     = "core_load"
	fnCoreStep     = "core_step"
)

var requiredExports = []string{
	fnIsReady, fnVariantCode, fnAddress, fnSize, fnTotalSize,
	fnFrameAddress, fnFrameWidth, fnFrameHeight, fnFramePitch,
}

// WasmExports reads the exports of a core compiled to a WASI reactor
// module. Addresses are offsets into the module's linear memory.
type WasmExports struct {
	logger  *log.Logger
	runtime wazero.Runtime
	mod     api.Module
}

// NewWasmExports compiles and instantiates a core module. The module's
// _initialize function is run before any export is called.
func NewWasmExports(ctx context.Context, wasm []byte, logger *log.Logger) (*WasmExports, error) {
	r := wazero.NewRuntime(ctx)
	wasi_snapshot_preview1.MustInstantiate(ctx, r)

	compiled, err := r.CompileModule(ctx, wasm)
	if err != nil {
		_ = r.Close(ctx)
		return nil, fmt.Errorf("compiling core module: %w", err)
	}

	cfg := wazero.NewModuleConfig().
		WithName("core").
		WithStartFunctions("_initialize").
		WithSysWalltime().
		WithSysNanotime()
	mod, err := r.InstantiateModule(ctx, compiled, cfg)
	if err != nil {
		_ = r.Close(ctx)
		return nil, fmt.Errorf("instantiating core module: %w", err)
	}

	for _, name := range requiredExports {
		if mod.ExportedFunction(name) == nil {
			_ = r.Close(ctx)
			return nil, fmt.Errorf("%w: %s", ErrMissingExport, name)
		}
	}

	logger.Debug("Core module instantiated",
		log.Int("exports", len(compiled.ExportedFunctions())),
		log.Int("memory", int(mod.Memory().Size())))

	return &WasmExports{logger: logger, runtime: r, mod: mod}, nil
}

// Close releases the runtime and everything instantiated in it.
func (w *WasmExports) Close(ctx context.Context) error {
	return w.runtime.Close(ctx)
}

func (w *WasmExports) call(ctx context.Context, name string, params ...uint64) (uint64, error) {
	fn := w.mod.ExportedFunction(name)
	if fn == nil {
		return 0, fmt.Errorf("%w: %s", ErrMissingExport, name)
	}
	res, err := fn.Call(ctx, params...)
	if err != nil {
		return 0, fmt.Errorf("calling %s: %w", name, err)
	}
	if len(res) == 0 {
		return 0, nil
	}
	return res[0], nil
}

func (w *WasmExports) callU32(ctx context.Context, name string, params ...uint64) (uint32, error) {
	v, err := w.call(ctx, name, params...)
	return api.DecodeU32(v), err
}

func (w *WasmExports) IsReady(ctx context.Context) (bool, error) {
	v, err := w.callU32(ctx, fnIsReady)
	return v != 0, err
}

func (w *WasmExports) ActiveVariantCode(ctx context.Context) (int32, error) {
	v, err := w.call(ctx, fnVariantCode)
	return api.DecodeI32(v), err
}

func (w *WasmExports) Address(ctx context.Context, r emucore.Region) (uint32, error) {
	return w.callU32(ctx, fnAddress, api.EncodeI32(int32(r)))
}

func (w *WasmExports) Size(ctx context.Context, r emucore.Region) (uint32, error) {
	return w.callU32(ctx, fnSize, api.EncodeI32(int32(r)))
}

func (w *WasmExports) TotalSize(ctx context.Context) (uint32, error) {
	return w.callU32(ctx, fnTotalSize)
}

// Frame reads the four framebuffer exports back to back.
func (w *WasmExports) Frame(ctx context.Context) (FrameRef, error) {
	var ref FrameRef
	var err error
	for _, f := range []struct {
		name string
		dst  *uint32
	}{
		{fnFrameAddress, &ref.Address},
		{fnFrameWidth, &ref.Width},
		{fnFrameHeight, &ref.Height},
		{fnFramePitch, &ref.Pitch},
	} {
		if *f.dst, err = w.callU32(ctx, f.name); err != nil {
			return FrameRef{}, err
		}
	}
	return ref, nil
}

// Read copies n bytes out of linear memory.
func (w *WasmExports) Read(_ context.Context, addr, n uint32) ([]byte, error) {
	view, ok := w.mod.Memory().Read(addr, n)
	if !ok {
		return nil, fmt.Errorf("%w: $%08x+%d", ErrOutOfRange, addr, n)
	}
	out := make([]byte, n)
	copy(out, view)
	return out, nil
}

// Load copies content and its file name into buffers allocated by the
// module and asks the core to load it. The core falls back to the name's
// extension when the content has no header.
func (w *WasmExports) Load(ctx context.Context, data []byte, name string) error {
	ptr, err := w.copyIn(ctx, data)
	if err != nil {
		return fmt.Errorf("%w: content buffer of %d bytes", err, len(data))
	}
	var namePtr uint32
	if name != "" {
		if namePtr, err = w.copyIn(ctx, []byte(name)); err != nil {
			return fmt.Errorf("%w: name buffer of %d bytes", err, len(name))
		}
	}

	status, err := w.call(ctx, fnCoreLoad,
		api.EncodeU32(ptr), api.EncodeU32(uint32(len(data))),
		api.EncodeU32(namePtr), api.EncodeU32(uint32(len(name))))
	if err != nil {
		return err
	}
	if code := api.DecodeI32(status); code != 0 {
		return fmt.Errorf("core rejected %s: status %d", name, code)
	}

	w.logger.Debug("Content loaded into core module",
		log.String("name", name),
		log.Int("size", len(data)),
		log.Hex("buffer", ptr))
	return nil
}

// copyIn allocates a module buffer with core_alloc and copies b into it.
func (w *WasmExports) copyIn(ctx context.Context, b []byte) (uint32, error) {
	ptr, err := w.callU32(ctx, fnCoreAlloc, api.EncodeU32(uint32(len(b))))
	if err != nil {
		return 0, err
	}
	if ptr == 0 || !w.mod.Memory().Write(ptr, b) {
		return 0, ErrOutOfRange
	}
	return ptr, nil
}

// Step advances the core module by one frame.
func (w *WasmExports) Step(ctx context.Context) error {
	_, err := w.call(ctx, fnCoreStep)
	return err
}
