// Package main implements memexport, which runs a core on a content file
// and reports, dumps or scripts the memory it exports.
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"os"

	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
	emucore "github.com/user-none/memexport/api"
	"github.com/user-none/memexport/config"
	"github.com/user-none/memexport/hostview"
	"github.com/user-none/memexport/rdb"
	"github.com/user-none/memexport/refcore"
	"github.com/user-none/memexport/romloader"
	"github.com/user-none/memexport/script"
	"golang.design/x/clipboard"
)

func main() {
	ctx := app.Context()

	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		var usageErr *usageError
		if errors.As(err, &usageErr) {
			usageErr.showUsage(os.Stderr)
			os.Exit(2)
		}
		config.CreateLogger(config.LevelInfo).Fatal(err.Error())
	}

	logger := config.CreateLogger(opts.LogLevel)
	for _, problem := range config.ValidateConfig(&opts.Config) {
		logger.Error("Invalid setting, using default", log.String("setting", problem))
	}
	config.CorrectConfig(&opts.Config)

	if err := run(ctx, logger, opts, os.Stdout); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("Operation cancelled")
			return
		}
		logger.Fatal("Inspection failed", log.Err(err))
	}
}

// target is a core seen through its exports, able to be driven.
type target interface {
	hostview.Exports
	hostview.Driver
}

// run loads the content, steps the core and produces every requested
// output. The report is written to out.
func run(ctx context.Context, logger *log.Logger, opts options, out io.Writer) error {
	content, err := romloader.Load(opts.Input)
	if err != nil {
		return err
	}

	t, closeTarget, err := openTarget(ctx, logger, opts.Wasm)
	if err != nil {
		return err
	}
	defer closeTarget()

	if err := t.Load(ctx, content.Data, content.Name); err != nil {
		return fmt.Errorf("loading %s: %w", content.Name, err)
	}
	for range opts.Frames {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := t.Step(ctx); err != nil {
			return err
		}
	}
	logger.Debug("Frames stepped", log.Int("frames", opts.Frames))

	regions, err := parseRegions(opts.Regions)
	if err != nil {
		return err
	}
	inspector := hostview.NewInspector(t, logger)
	snap, err := inspector.Snapshot(ctx, regions...)
	if err != nil {
		return err
	}

	var report bytes.Buffer
	if opts.RDB != "" {
		title, err := identify(opts.RDB, content.Data)
		if err != nil {
			return err
		}
		fmt.Fprintf(&report, "title: %s\n", title)
	}
	if err := writeTable(&report, snap); err != nil {
		return err
	}
	if opts.Hexdump != "" {
		if err := appendHexdump(&report, snap, opts.Hexdump, hexWidth(opts.HexWidth)); err != nil {
			return err
		}
	}
	if _, err := out.Write(report.Bytes()); err != nil {
		return err
	}

	if opts.OutputDir != "" {
		if err := dumpSnapshot(logger, opts.OutputDir, snap, opts.DumpFrame); err != nil {
			return err
		}
	}

	if opts.Script != "" {
		engine := script.New(ctx, inspector, logger)
		defer engine.Close()
		if err := engine.RunFile(opts.Script); err != nil {
			return err
		}
	}

	if opts.Copy {
		if err := clipboard.Init(); err != nil {
			return fmt.Errorf("clipboard unavailable: %w", err)
		}
		clipboard.Write(clipboard.FmtText, report.Bytes())
		logger.Info("Report copied to clipboard", log.Int("bytes", report.Len()))
	}
	return nil
}

// openTarget returns an in-process reference core, or the core in the WASI
// module at wasmPath when one is given.
func openTarget(ctx context.Context, logger *log.Logger, wasmPath string) (target, func(), error) {
	if wasmPath == "" {
		core := refcore.New(logger)
		return hostview.NewLocal(core.Surface(), core), func() {}, nil
	}

	module, err := os.ReadFile(wasmPath)
	if err != nil {
		return nil, nil, fmt.Errorf("reading core module: %w", err)
	}
	w, err := hostview.NewWasmExports(ctx, module, logger)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := w.Close(ctx); err != nil {
			logger.Error("Closing core module failed", log.Err(err))
		}
	}
	return w, closeFn, nil
}

func parseRegions(names []string) ([]emucore.Region, error) {
	regions := make([]emucore.Region, 0, len(names))
	for _, name := range names {
		r, ok := emucore.ParseRegion(name)
		if !ok {
			return nil, fmt.Errorf("unknown region %q", name)
		}
		regions = append(regions, r)
	}
	return regions, nil
}

// identify looks the content up by CRC32 in the database at path.
func identify(path string, data []byte) (string, error) {
	db, err := rdb.Load(path)
	if err != nil {
		return "", err
	}
	crc := crc32.ChecksumIEEE(data)
	if g, ok := db.FindByCRC32(crc); ok {
		return rdb.DisplayName(g.Name), nil
	}
	return fmt.Sprintf("unknown (crc %08x)", crc), nil
}

// appendHexdump adds a hex dump of the named region, which must be part
// of the snapshot.
func appendHexdump(w io.Writer, snap *hostview.Snapshot, name string, width int) error {
	r, ok := emucore.ParseRegion(name)
	if !ok {
		return fmt.Errorf("unknown region %q", name)
	}
	for _, rs := range snap.Regions {
		if rs.Region == r {
			fmt.Fprintf(w, "\n%s:\n", r)
			writeHexdump(w, rs.Data, width)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", hostview.ErrNotApplicable, name)
}
