// Package rdb reads RetroArch game databases (.rdb) so content can be
// identified by checksum.
//
// An .rdb file is a 16 byte header followed by one MessagePack map per
// game and a terminating nil.
package rdb

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

const headerSize = 0x10

// ErrCorrupt is returned for databases that end inside an entry.
var ErrCorrupt = errors.New("corrupt rdb data")

// Game is one database entry.
type Game struct {
	Name    string // full No-Intro name
	ROMName string
	Serial  string
	Size    uint64
	CRC32   uint32
	MD5     string
}

// DB is a parsed database indexed by CRC32.
type DB struct {
	games   []Game
	byCRC32 map[uint32]int
}

// Load reads and parses the database at path.
func Load(path string) (*DB, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read RDB file: %w", err)
	}
	return Parse(data)
}

// Parse decodes database content. Entries before a truncated one are kept
// and returned together with ErrCorrupt.
func Parse(data []byte) (*DB, error) {
	db := &DB{byCRC32: make(map[uint32]int)}
	if len(data) < headerSize {
		return db, fmt.Errorf("%w: short header", ErrCorrupt)
	}

	c := &cursor{data: data, pos: headerSize}
	for !c.done() {
		if c.peek() == mpNil {
			break
		}
		g, err := c.game()
		if err != nil {
			return db, err
		}
		if g.Name == "" && g.CRC32 == 0 {
			continue
		}
		db.games = append(db.games, g)
		if g.CRC32 != 0 {
			db.byCRC32[g.CRC32] = len(db.games) - 1
		}
	}
	return db, nil
}

// FindByCRC32 returns the game with the given checksum.
func (db *DB) FindByCRC32(crc uint32) (Game, bool) {
	i, ok := db.byCRC32[crc]
	if !ok {
		return Game{}, false
	}
	return db.games[i], true
}

// GameCount returns the number of entries.
func (db *DB) GameCount() int {
	return len(db.games)
}

// DisplayName strips the region and revision tags from a No-Intro name.
func DisplayName(name string) string {
	if idx := strings.Index(name, " ("); idx > 0 {
		return strings.TrimSpace(name[:idx])
	}
	return name
}

// setField stores a decoded value. Numeric fields arrive either as
// MessagePack integers or as big-endian binary.
func (g *Game) setField(key string, v value) {
	switch key {
	case "name":
		g.Name = v.str()
	case "rom_name":
		g.ROMName = v.str()
	case "serial":
		g.Serial = v.str()
	case "size":
		g.Size = v.uint()
	case "crc":
		g.CRC32 = uint32(v.uint())
	case "md5":
		g.MD5 = fmt.Sprintf("%x", v.raw)
	}
}
