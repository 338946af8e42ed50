// Package hostview is the host half of the memory export contract. It reads
// a core's exports either in-process or from a WebAssembly module, and turns
// them into snapshots of region bytes and the current frame.
package hostview

import (
	"context"
	"errors"

	emucore "github.com/user-none/memexport/api"
)

var (
	// ErrNotReady is returned when the core has not finished initializing.
	ErrNotReady = errors.New("core not ready")
	// ErrNotApplicable is returned for regions the active variant lacks.
	ErrNotApplicable = errors.New("region not applicable to active variant")
	// ErrOutOfRange is returned for reads outside exported memory.
	ErrOutOfRange = errors.New("read outside exported memory")
	// ErrMissingExport is returned when a module lacks a required export.
	ErrMissingExport = errors.New("missing export")
	// ErrNoDriver is returned when the exports cannot load content or step.
	ErrNoDriver = errors.New("exports cannot drive the core")
)

// FrameRef is the framebuffer as reported by the exports. Address is 0 when
// no frame is available; the geometry is always meaningful.
type FrameRef struct {
	Address uint32
	Width   uint32
	Height  uint32
	Pitch   uint32
}

// Exports is the query side of a core as seen from the host. Addresses are
// opaque to everything except Read of the same Exports.
type Exports interface {
	IsReady(ctx context.Context) (bool, error)
	ActiveVariantCode(ctx context.Context) (int32, error)
	Address(ctx context.Context, r emucore.Region) (uint32, error)
	Size(ctx context.Context, r emucore.Region) (uint32, error)
	TotalSize(ctx context.Context) (uint32, error)
	Frame(ctx context.Context) (FrameRef, error)
	Read(ctx context.Context, addr, n uint32) ([]byte, error)
}

// Driver loads content into a core and advances it.
type Driver interface {
	Load(ctx context.Context, data []byte, name string) error
	Step(ctx context.Context) error
}
