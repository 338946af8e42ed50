// Command corewasm builds the reference core as a WASI reactor module
// (GOOS=wasip1, -buildmode=c-shared) exporting its memory to the host.
package main

import (
	"errors"
	"unsafe"

	"github.com/user-none/memexport/export"
)

var errForeignBuffer = errors.New("buffer was not allocated by core_alloc")

// loader owns the buffers the host copies content and its name into
// between core_alloc and core_load, keyed by address.
type loader struct {
	bufs map[uintptr][]byte
}

func (l *loader) alloc(n uint32) []byte {
	b := make([]byte, n)
	if n == 0 {
		return b
	}
	if l.bufs == nil {
		l.bufs = make(map[uintptr][]byte)
	}
	l.bufs[uintptr(unsafe.Pointer(unsafe.SliceData(b)))] = b
	return b
}

// take returns the first n bytes of the buffer at ptr. Each buffer is
// handed over once.
func (l *loader) take(ptr uintptr, n uint32) ([]byte, error) {
	b, ok := l.bufs[ptr]
	if !ok || int(n) > len(b) {
		return nil, errForeignBuffer
	}
	delete(l.bufs, ptr)
	return b[:n], nil
}

// content returns the content bytes and its file name. The name decides
// the variant of content without a header, so it travels with the data.
// A zero name length means no name.
func (l *loader) content(ptr uintptr, n uint32, namePtr uintptr, nameLen uint32) ([]byte, string, error) {
	data, err := l.take(ptr, n)
	if err != nil {
		return nil, "", err
	}
	if nameLen == 0 {
		return data, "", nil
	}
	name, err := l.take(namePtr, nameLen)
	if err != nil {
		return nil, "", err
	}
	return data, string(name), nil
}

// handleAddress returns the linear memory address of a handle, 0 for the
// sentinel.
func handleAddress(h export.Handle) uint32 {
	return bufferAddress(h.Bytes())
}

// bufferAddress returns the address of the first byte of b. Addresses fit
// in 32 bits on wasm.
func bufferAddress(b []byte) uint32 {
	if len(b) == 0 {
		return 0
	}
	return uint32(uintptr(unsafe.Pointer(unsafe.SliceData(b))))
}

func boolToI32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

func main() {}
