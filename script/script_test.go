package script

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
	emucore "github.com/user-none/memexport/api"
	"github.com/user-none/memexport/hostview"
	"github.com/user-none/memexport/refcore"
	lua "github.com/yuin/gopher-lua"
)

func newEngine(t *testing.T, load bool) (*Engine, *refcore.Core) {
	t.Helper()
	logger := log.NewTestLogger(t)
	core := refcore.New(logger)
	if load {
		rom := make([]byte, 0x400)
		copy(rom[0x100:], "SEGA MEGA DRIVE ")
		if err := core.LoadContent(rom, "game.md"); err != nil {
			t.Fatalf("loading content: %v", err)
		}
	}
	i := hostview.NewInspector(hostview.NewLocal(core.Surface(), core), logger)
	e := New(context.Background(), i, logger)
	t.Cleanup(e.Close)
	return e, core
}

func number(e *Engine, name string) float64 {
	return float64(lua.LVAsNumber(e.Global(name)))
}

func TestScriptBeforeReady(t *testing.T) {
	e, _ := newEngine(t, false)
	assert.NoError(t, e.Run(`
		ready = is_ready()
		code = variant()
		name = platform()
		wram = size("work_ram")
		ptr = address("vram")
	`))
	assert.False(t, lua.LVAsBool(e.Global("ready")))
	assert.Equal(t, float64(0), number(e, "code"))
	assert.Equal(t, "Unknown", lua.LVAsString(e.Global("name")))
	assert.Equal(t, float64(0), number(e, "wram"))
	assert.Equal(t, float64(0), number(e, "ptr"))

	err := e.Run(`peek("work_ram", 0)`)
	assert.True(t, errors.Is(err, ErrScript))
}

func TestScriptQueries(t *testing.T) {
	e, core := newEngine(t, true)
	core.StepFrame()
	core.StepFrame()

	assert.NoError(t, e.Run(`
		name = platform()
		wram = size("work_ram")
		vsram = size("vsram")
		bram = size("bram")
		bogus = size("nope")
		total = total_size()
		counter = peek("work_ram", 0, 4)
		low = peek("work_ram", 3)
		f = frame()
		width = f.width
		has_frame = f.address ~= 0
		log("script finished")
	`))
	assert.Equal(t, "Mega Drive", lua.LVAsString(e.Global("name")))
	assert.Equal(t, float64(65536), number(e, "wram"))
	assert.Equal(t, float64(128), number(e, "vsram"))
	assert.Equal(t, float64(0), number(e, "bram"))
	assert.Equal(t, float64(0), number(e, "bogus"))
	assert.Equal(t, float64(core.Surface().TotalSize()), number(e, "total"))
	assert.Equal(t, float64(2), number(e, "counter"))
	assert.Equal(t, float64(2), number(e, "low"))
	assert.Equal(t, float64(320), number(e, "width"))
	assert.True(t, lua.LVAsBool(e.Global("has_frame")))
	assert.Equal(t, emucore.VariantMD, core.Variant())
}

func TestScriptPeekErrors(t *testing.T) {
	e, _ := newEngine(t, true)

	tests := []string{
		`peek("nope", 0)`,
		`peek("work_ram", -1)`,
		`peek("work_ram", 0, 3)`,
		`peek("work_ram", 65535, 2)`,
		`peek("bram", 0)`,
	}
	for _, src := range tests {
		err := e.Run(src)
		assert.True(t, errors.Is(err, ErrScript), src)
	}
}

func TestRunFile(t *testing.T) {
	e, _ := newEngine(t, true)
	path := filepath.Join(t.TempDir(), "watch.lua")
	if err := os.WriteFile(path, []byte(`result = size("sat")`), 0644); err != nil {
		t.Fatal(err)
	}

	assert.NoError(t, e.RunFile(path))
	assert.Equal(t, float64(1024), number(e, "result"))

	assert.Error(t, e.RunFile(filepath.Join(t.TempDir(), "missing.lua")))
}
