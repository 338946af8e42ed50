// Package script runs Lua scripts against a core's memory exports.
//
// Globals available to scripts:
//
//	is_ready()              true once the core is initialized
//	variant()               raw variant code, 0 when unknown
//	platform()              platform name for the variant code
//	size(name)              region size in bytes, 0 when absent
//	address(name)           region address, 0 when absent
//	total_size()            sum of all region sizes
//	peek(name, off[, w])    big-endian read of w (1, 2 or 4) bytes
//	frame()                 table with address, width, height, pitch
//	log(msg)                write msg to the host log
package script

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/retroenv/retrogolib/log"
	emucore "github.com/user-none/memexport/api"
	"github.com/user-none/memexport/hostview"
	lua "github.com/yuin/gopher-lua"
)

// ErrScript wraps errors raised while running a script.
var ErrScript = errors.New("script failed")

// Engine is a Lua state bound to an inspector. It is not safe for
// concurrent use.
type Engine struct {
	state     *lua.LState
	inspector *hostview.Inspector
	logger    *log.Logger
	ctx       context.Context
}

// New creates an engine. ctx bounds every call the script makes into the
// exports and cancels a running script.
func New(ctx context.Context, i *hostview.Inspector, logger *log.Logger) *Engine {
	e := &Engine{
		state:     lua.NewState(),
		inspector: i,
		logger:    logger,
		ctx:       ctx,
	}
	e.state.SetContext(ctx)

	for name, fn := range map[string]lua.LGFunction{
		"is_ready":   e.isReady,
		"variant":    e.variant,
		"platform":   e.platform,
		"size":       e.size,
		"address":    e.address,
		"total_size": e.totalSize,
		"peek":       e.peek,
		"frame":      e.frame,
		"log":        e.log,
	} {
		e.state.SetGlobal(name, e.state.NewFunction(fn))
	}
	return e
}

// Close releases the Lua state.
func (e *Engine) Close() {
	e.state.Close()
}

// Run executes source.
func (e *Engine) Run(source string) error {
	if err := e.state.DoString(source); err != nil {
		return fmt.Errorf("%w: %w", ErrScript, err)
	}
	return nil
}

// RunFile executes the script at path.
func (e *Engine) RunFile(path string) error {
	if err := e.state.DoFile(path); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrScript, path, err)
	}
	return nil
}

// Global returns the value of a global after a script ran, for hosts that
// read results back.
func (e *Engine) Global(name string) lua.LValue {
	return e.state.GetGlobal(name)
}

func (e *Engine) exports() hostview.Exports {
	return e.inspector.Exports()
}

// raise aborts the running script with err.
func (e *Engine) raise(L *lua.LState, err error) int {
	L.RaiseError("%s", err.Error())
	return 0
}

func (e *Engine) isReady(L *lua.LState) int {
	ready, err := e.exports().IsReady(e.ctx)
	if err != nil {
		return e.raise(L, err)
	}
	L.Push(lua.LBool(ready))
	return 1
}

func (e *Engine) variant(L *lua.LState) int {
	code, err := e.exports().ActiveVariantCode(e.ctx)
	if err != nil {
		return e.raise(L, err)
	}
	L.Push(lua.LNumber(code))
	return 1
}

func (e *Engine) platform(L *lua.LState) int {
	code, err := e.exports().ActiveVariantCode(e.ctx)
	if err != nil {
		return e.raise(L, err)
	}
	L.Push(lua.LString(hostview.Platform(code)))
	return 1
}

func (e *Engine) size(L *lua.LState) int {
	r, ok := emucore.ParseRegion(L.CheckString(1))
	if !ok {
		L.Push(lua.LNumber(0))
		return 1
	}
	size, err := e.exports().Size(e.ctx, r)
	if err != nil {
		return e.raise(L, err)
	}
	L.Push(lua.LNumber(size))
	return 1
}

func (e *Engine) address(L *lua.LState) int {
	r, ok := emucore.ParseRegion(L.CheckString(1))
	if !ok {
		L.Push(lua.LNumber(0))
		return 1
	}
	addr, err := e.exports().Address(e.ctx, r)
	if err != nil {
		return e.raise(L, err)
	}
	L.Push(lua.LNumber(addr))
	return 1
}

func (e *Engine) totalSize(L *lua.LState) int {
	total, err := e.exports().TotalSize(e.ctx)
	if err != nil {
		return e.raise(L, err)
	}
	L.Push(lua.LNumber(total))
	return 1
}

func (e *Engine) peek(L *lua.LState) int {
	name := L.CheckString(1)
	offset := L.CheckInt(2)
	width := L.OptInt(3, 1)

	r, ok := emucore.ParseRegion(name)
	if !ok {
		L.ArgError(1, "unknown region "+name)
		return 0
	}
	if offset < 0 {
		L.ArgError(2, "negative offset")
		return 0
	}

	var n uint32
	switch width {
	case 1, 2, 4:
		n = uint32(width)
	default:
		L.ArgError(3, "width must be 1, 2 or 4")
		return 0
	}

	b, err := e.inspector.Peek(e.ctx, r, uint32(offset), n)
	if err != nil {
		return e.raise(L, err)
	}

	var v uint32
	switch n {
	case 1:
		v = uint32(b[0])
	case 2:
		v = uint32(binary.BigEndian.Uint16(b))
	case 4:
		v = binary.BigEndian.Uint32(b)
	}
	L.Push(lua.LNumber(v))
	return 1
}

func (e *Engine) frame(L *lua.LState) int {
	ref, err := e.exports().Frame(e.ctx)
	if err != nil {
		return e.raise(L, err)
	}
	t := L.NewTable()
	t.RawSetString("address", lua.LNumber(ref.Address))
	t.RawSetString("width", lua.LNumber(ref.Width))
	t.RawSetString("height", lua.LNumber(ref.Height))
	t.RawSetString("pitch", lua.LNumber(ref.Pitch))
	L.Push(t)
	return 1
}

func (e *Engine) log(L *lua.LState) int {
	e.logger.Info(L.CheckString(1), log.String("source", "script"))
	return 0
}
