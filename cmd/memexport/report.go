package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/user-none/memexport/hostview"
	"golang.org/x/term"
)

const (
	defaultHexWidth = 16
	minHexWidth     = 8
	maxHexWidth     = 32
)

// writeTable prints the region listing and frame geometry of a snapshot.
func writeTable(w io.Writer, snap *hostview.Snapshot) error {
	fmt.Fprintf(w, "platform: %s (code 0x%02x)\n", snap.Platform, snap.Variant)
	fmt.Fprintf(w, "exported: %d bytes\n\n", snap.Total)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "REGION\tADDRESS\tSIZE")
	for _, rs := range snap.Regions {
		fmt.Fprintf(tw, "%s\t$%08x\t%d\n", rs.Region, rs.Address, len(rs.Data))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if f := snap.Frame; f != nil {
		fmt.Fprintf(w, "\nframe: %dx%d pitch %d at $%08x\n", f.Width, f.Height, f.Pitch, f.Address)
	} else {
		fmt.Fprintln(w, "\nframe: none rendered")
	}
	return nil
}

// writeHexdump prints data as offset, hex bytes and printable characters,
// width bytes per line.
func writeHexdump(w io.Writer, data []byte, width int) {
	var sb strings.Builder
	for off := 0; off < len(data); off += width {
		line := data[off:min(off+width, len(data))]

		sb.Reset()
		fmt.Fprintf(&sb, "%06x ", off)
		for i := range width {
			if i%8 == 0 {
				sb.WriteByte(' ')
			}
			if i < len(line) {
				fmt.Fprintf(&sb, "%02x ", line[i])
			} else {
				sb.WriteString("   ")
			}
		}
		sb.WriteString(" |")
		for _, b := range line {
			if b >= 0x20 && b < 0x7F {
				sb.WriteByte(b)
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteString("|\n")
		io.WriteString(w, sb.String())
	}
}

// hexWidth picks the bytes per hex dump line. A configured width wins;
// otherwise the widest multiple of 8 that fits the terminal is used.
func hexWidth(configured int) int {
	if configured > 0 {
		return configured
	}
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return defaultHexWidth
	}
	cols, _, err := term.GetSize(fd)
	if err != nil {
		return defaultHexWidth
	}
	return fitHexWidth(cols)
}

// fitHexWidth returns the widest line that fits cols terminal columns.
// A line of n bytes takes 10 + n*4 + n/8 columns.
func fitHexWidth(cols int) int {
	for n := maxHexWidth; n > minHexWidth; n -= 8 {
		if 10+n*4+n/8 <= cols {
			return n
		}
	}
	return minHexWidth
}
