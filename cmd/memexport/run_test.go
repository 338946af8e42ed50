package main

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
	"github.com/user-none/memexport/config"
	"github.com/user-none/memexport/hostview"
	"golang.org/x/image/bmp"
)

func writeContent(t *testing.T) string {
	t.Helper()
	rom := make([]byte, 0x400)
	copy(rom[0x100:], "SEGA MEGA DRIVE ")
	path := filepath.Join(t.TempDir(), "game.md")
	if err := os.WriteFile(path, rom, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testOptions(input string) options {
	return options{Input: input, Config: *config.DefaultConfig()}
}

func TestRunReport(t *testing.T) {
	opts := testOptions(writeContent(t))
	opts.Frames = 3
	opts.Hexdump = "work_ram"
	opts.HexWidth = 16

	var out bytes.Buffer
	assert.NoError(t, run(context.Background(), log.NewTestLogger(t), opts, &out))

	report := out.String()
	assert.True(t, strings.Contains(report, "platform: Mega Drive (code 0x80)"))
	assert.True(t, strings.Contains(report, "vsram"))
	assert.True(t, strings.Contains(report, "frame: 320x224"))
	assert.True(t, strings.Contains(report, "000000  00 00 00 03 "))
}

func TestRunDump(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	opts := testOptions(writeContent(t))
	opts.Regions = []string{"cram", "vsram"}
	opts.OutputDir = dir
	opts.DumpFrame = true

	var out bytes.Buffer
	assert.NoError(t, run(context.Background(), log.NewTestLogger(t), opts, &out))

	cram, err := os.ReadFile(filepath.Join(dir, "cram.bin"))
	assert.NoError(t, err)
	assert.Equal(t, 128, len(cram))
	_, err = os.Stat(filepath.Join(dir, "work_ram.bin"))
	assert.True(t, os.IsNotExist(err))

	f, err := os.Open(filepath.Join(dir, frameFile))
	assert.NoError(t, err)
	defer f.Close()
	img, err := bmp.Decode(f)
	assert.NoError(t, err)
	assert.Equal(t, 320, img.Bounds().Dx())
	assert.Equal(t, 224, img.Bounds().Dy())
}

func TestRunNoFramesSkipsFrameDump(t *testing.T) {
	dir := t.TempDir()
	opts := testOptions(writeContent(t))
	opts.Frames = 0
	opts.OutputDir = dir
	opts.DumpFrame = true

	var out bytes.Buffer
	assert.NoError(t, run(context.Background(), log.NewTestLogger(t), opts, &out))
	assert.True(t, strings.Contains(out.String(), "frame: none rendered"))
	_, err := os.Stat(filepath.Join(dir, frameFile))
	assert.True(t, os.IsNotExist(err))
}

func TestRunScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watch.lua")
	src := `if peek("work_ram", 0, 4) ~= 2 then error("unexpected frame counter") end`
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}
	opts := testOptions(writeContent(t))
	opts.Frames = 2
	opts.Script = path

	var out bytes.Buffer
	assert.NoError(t, run(context.Background(), log.NewTestLogger(t), opts, &out))

	opts.Frames = 1
	assert.Error(t, run(context.Background(), log.NewTestLogger(t), opts, &out))
}

func TestRunErrors(t *testing.T) {
	logger := log.NewTestLogger(t)
	var out bytes.Buffer

	opts := testOptions(filepath.Join(t.TempDir(), "missing.md"))
	assert.Error(t, run(context.Background(), logger, opts, &out))

	opts = testOptions(writeContent(t))
	opts.Hexdump = "bram"
	opts.HexWidth = 16
	err := run(context.Background(), logger, opts, &out)
	assert.True(t, errors.Is(err, hostview.ErrNotApplicable))

	opts = testOptions(writeContent(t))
	opts.Regions = []string{"nope"}
	assert.Error(t, run(context.Background(), logger, opts, &out))

	opts = testOptions(writeContent(t))
	opts.Wasm = filepath.Join(t.TempDir(), "missing.wasm")
	assert.Error(t, run(context.Background(), logger, opts, &out))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	opts = testOptions(writeContent(t))
	opts.Frames = 10
	err = run(ctx, logger, opts, &out)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestIdentify(t *testing.T) {
	content := []byte("content")
	crc := crc32.ChecksumIEEE(content)

	db := make([]byte, 0x10)
	db = append(db, 0x82, 0xa4, 'n', 'a', 'm', 'e', 0xaf)
	db = append(db, "Columns (World)"...)
	db = append(db, 0xa3, 'c', 'r', 'c', 0xce)
	db = binary.BigEndian.AppendUint32(db, crc)
	db = append(db, 0xc0)
	path := filepath.Join(t.TempDir(), "test.rdb")
	if err := os.WriteFile(path, db, 0644); err != nil {
		t.Fatal(err)
	}

	title, err := identify(path, content)
	assert.NoError(t, err)
	assert.Equal(t, "Columns", title)

	title, err = identify(path, []byte("other"))
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(title, "unknown (crc "))

	_, err = identify(filepath.Join(t.TempDir(), "missing.rdb"), content)
	assert.Error(t, err)
}
