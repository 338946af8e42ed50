package main

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/user-none/memexport/config"
)

// options are the command line settings of one run.
type options struct {
	ConfigFile string
	Input      string
	Wasm       string
	RDB        string
	Hexdump    string
	Copy       bool
	Debug      bool
	Quiet      bool

	config.Config
}

// usageError is returned when the command line cannot be used as given.
type usageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *usageError) Error() string {
	return e.msg
}

func (e *usageError) showUsage(w io.Writer) {
	if e.msg != "" {
		fmt.Fprintf(w, "%s\n\n", e.msg)
	}
	fmt.Fprintf(w, "usage: memexport [options] <content file>\n\n")
	e.flags.SetOutput(w)
	e.flags.PrintDefaults()
	fmt.Fprintln(w)
}

// parseFlags parses args. Settings come from the config file named by
// -config, or the defaults, and flags given explicitly override them.
func parseFlags(args []string) (options, error) {
	flags := flag.NewFlagSet("memexport", flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	var opts options
	var regions string
	defaults := config.DefaultConfig()
	flags.StringVar(&opts.ConfigFile, "config", "", "JSON config file with default settings")
	flags.StringVar(&opts.Wasm, "wasm", "", "run the core from a WASI module instead of in-process")
	flags.IntVar(&opts.Frames, "frames", defaults.Frames, "number of frames to run before inspecting")
	flags.StringVar(&regions, "regions", "", "comma separated regions to inspect, all by default")
	flags.StringVar(&opts.OutputDir, "o", defaults.OutputDir, "directory to dump region .bin files to")
	flags.BoolVar(&opts.DumpFrame, "frame", defaults.DumpFrame, "also dump the framebuffer as frame.bmp")
	flags.StringVar(&opts.Script, "script", defaults.Script, "Lua script to run against the exports")
	flags.StringVar(&opts.RDB, "rdb", "", "RetroArch database to identify the content with")
	flags.StringVar(&opts.Hexdump, "hexdump", "", "print a hex dump of the named region")
	flags.IntVar(&opts.HexWidth, "hexwidth", defaults.HexWidth, "bytes per hex dump line, 0 to fit the terminal")
	flags.BoolVar(&opts.Copy, "copy", false, "copy the report to the clipboard")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debug logging")
	flags.BoolVar(&opts.Quiet, "q", false, "only log errors")

	if err := flags.Parse(args); err != nil {
		return opts, &usageError{flags: flags, msg: err.Error()}
	}
	rest := flags.Args()
	if len(rest) != 1 {
		return opts, &usageError{flags: flags}
	}
	opts.Input = rest[0]

	set := make(map[string]bool)
	flags.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})

	cfg := defaults
	if opts.ConfigFile != "" {
		var err error
		if cfg, err = config.LoadConfig(opts.ConfigFile); err != nil {
			return opts, err
		}
	}
	applyFlags(cfg, opts.Config, set)
	if set["regions"] {
		cfg.Regions = splitList(regions)
	}
	switch {
	case opts.Debug:
		cfg.LogLevel = config.LevelDebug
	case opts.Quiet:
		cfg.LogLevel = config.LevelError
	}
	opts.Config = *cfg
	return opts, nil
}

// applyFlags copies explicitly set flag values over the loaded config.
func applyFlags(cfg *config.Config, flagged config.Config, set map[string]bool) {
	if set["frames"] {
		cfg.Frames = flagged.Frames
	}
	if set["o"] {
		cfg.OutputDir = flagged.OutputDir
	}
	if set["frame"] {
		cfg.DumpFrame = flagged.DumpFrame
	}
	if set["script"] {
		cfg.Script = flagged.Script
	}
	if set["hexwidth"] {
		cfg.HexWidth = flagged.HexWidth
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
