package main

import (
	"errors"
	"testing"
	"unsafe"

	"github.com/retroenv/retrogolib/assert"
	"github.com/user-none/memexport/export"
)

func TestLoaderTake(t *testing.T) {
	var l loader
	buf := l.alloc(16)
	copy(buf, "SEGA")
	ptr := uintptr(unsafe.Pointer(&buf[0]))

	_, err := l.take(ptr+1, 4)
	assert.True(t, errors.Is(err, errForeignBuffer))
	_, err = l.take(ptr, 17)
	assert.True(t, errors.Is(err, errForeignBuffer))

	data, err := l.take(ptr, 4)
	assert.NoError(t, err)
	assert.Equal(t, "SEGA", string(data))

	// the buffer is handed over once
	_, err = l.take(ptr, 4)
	assert.True(t, errors.Is(err, errForeignBuffer))
}

func TestLoaderContent(t *testing.T) {
	var l loader
	data := l.alloc(8)
	name := l.alloc(8)
	copy(name, "game.sms")
	dataPtr := uintptr(unsafe.Pointer(&data[0]))
	namePtr := uintptr(unsafe.Pointer(&name[0]))

	got, gotName, err := l.content(dataPtr, 8, namePtr, 8)
	assert.NoError(t, err)
	assert.Equal(t, 8, len(got))
	assert.Equal(t, "game.sms", gotName)

	// both buffers are consumed
	_, _, err = l.content(dataPtr, 8, 0, 0)
	assert.True(t, errors.Is(err, errForeignBuffer))

	data = l.alloc(4)
	got, gotName, err = l.content(uintptr(unsafe.Pointer(&data[0])), 4, 0, 0)
	assert.NoError(t, err)
	assert.Equal(t, 4, len(got))
	assert.Equal(t, "", gotName)

	data = l.alloc(4)
	ptr := uintptr(unsafe.Pointer(&data[0]))
	_, _, err = l.content(ptr, 4, ptr+1, 3)
	assert.True(t, errors.Is(err, errForeignBuffer))
}

func TestSentinelAddress(t *testing.T) {
	assert.Equal(t, uint32(0), handleAddress(export.Handle{}))
	assert.Equal(t, uint32(0), bufferAddress(nil))
	assert.Equal(t, int32(1), boolToI32(true))
	assert.Equal(t, int32(0), boolToI32(false))
}
