package rdb

import (
	"encoding/binary"
	"fmt"
)

// MessagePack type bytes used by the database format.
const (
	mpFixMapMin = 0x80
	mpFixMapMax = 0x8f
	mpFixStrMin = 0xa0
	mpFixStrMax = 0xbf
	mpNil       = 0xc0
	mpFalse     = 0xc2
	mpTrue      = 0xc3
	mpBin8      = 0xc4
	mpBin16     = 0xc5
	mpBin32     = 0xc6
	mpUint8     = 0xcc
	mpUint16    = 0xcd
	mpUint32    = 0xce
	mpUint64    = 0xcf
	mpStr8      = 0xd9
	mpStr16     = 0xda
	mpStr32     = 0xdb
	mpMap16     = 0xde
	mpMap32     = 0xdf
)

// value is a decoded scalar. Integers are kept as their big-endian bytes.
type value struct {
	raw []byte
}

func (v value) str() string {
	return string(v.raw)
}

func (v value) uint() uint64 {
	if len(v.raw) > 8 {
		return 0
	}
	var buf [8]byte
	copy(buf[8-len(v.raw):], v.raw)
	return binary.BigEndian.Uint64(buf[:])
}

type cursor struct {
	data []byte
	pos  int
}

func (c *cursor) done() bool {
	return c.pos >= len(c.data)
}

func (c *cursor) peek() byte {
	return c.data[c.pos]
}

func (c *cursor) take(n int) ([]byte, error) {
	if n < 0 || c.pos+n > len(c.data) {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d", ErrCorrupt, n, c.pos)
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// length reads an n byte big-endian length.
func (c *cursor) length(n int) (int, error) {
	b, err := c.take(n)
	if err != nil {
		return 0, err
	}
	return int(value{raw: b}.uint()), nil
}

// mapHeader reads a map header and returns the number of pairs.
func (c *cursor) mapHeader() (int, error) {
	t, err := c.take(1)
	if err != nil {
		return 0, err
	}
	switch {
	case t[0] >= mpFixMapMin && t[0] <= mpFixMapMax:
		return int(t[0] - mpFixMapMin), nil
	case t[0] == mpMap16:
		return c.length(2)
	case t[0] == mpMap32:
		return c.length(4)
	}
	return 0, fmt.Errorf("%w: expected map, got $%02x at offset %d", ErrCorrupt, t[0], c.pos-1)
}

// scalar reads one string, binary, integer, boolean or nil value.
func (c *cursor) scalar() (value, error) {
	t, err := c.take(1)
	if err != nil {
		return value{}, err
	}

	var n int
	switch b := t[0]; {
	case b < mpFixMapMin:
		return value{raw: t}, nil
	case b >= mpFixStrMin && b <= mpFixStrMax:
		n = int(b - mpFixStrMin)
	case b == mpNil || b == mpFalse:
		return value{}, nil
	case b == mpTrue:
		return value{raw: []byte{1}}, nil
	case b == mpStr8 || b == mpBin8:
		n, err = c.length(1)
	case b == mpStr16 || b == mpBin16:
		n, err = c.length(2)
	case b == mpStr32 || b == mpBin32:
		n, err = c.length(4)
	case b >= mpUint8 && b <= mpUint64:
		n = 1 << (b - mpUint8)
	default:
		return value{}, fmt.Errorf("%w: unsupported type $%02x at offset %d", ErrCorrupt, b, c.pos-1)
	}
	if err != nil {
		return value{}, err
	}

	raw, err := c.take(n)
	return value{raw: raw}, err
}

// game decodes one entry map.
func (c *cursor) game() (Game, error) {
	pairs, err := c.mapHeader()
	if err != nil {
		return Game{}, err
	}

	var g Game
	for range pairs {
		k, err := c.scalar()
		if err != nil {
			return Game{}, err
		}
		v, err := c.scalar()
		if err != nil {
			return Game{}, err
		}
		g.setField(k.str(), v)
	}
	return g, nil
}
