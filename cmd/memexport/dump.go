package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/retroenv/retrogolib/log"
	"github.com/user-none/memexport/hostview"
	"golang.org/x/image/bmp"
)

const frameFile = "frame.bmp"

// dumpSnapshot writes every region of snap as <region>.bin into dir and,
// when withFrame is set and a frame exists, the frame as a BMP image.
func dumpSnapshot(logger *log.Logger, dir string, snap *hostview.Snapshot, withFrame bool) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	for _, rs := range snap.Regions {
		path := filepath.Join(dir, rs.Region.String()+".bin")
		if err := os.WriteFile(path, rs.Data, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		logger.Debug("Region dumped", log.String("file", path), log.Int("size", len(rs.Data)))
	}

	if !withFrame {
		return nil
	}
	if snap.Frame == nil {
		logger.Info("No frame rendered, skipping frame dump")
		return nil
	}
	return writeBMP(filepath.Join(dir, frameFile), snap.Frame)
}

func writeBMP(path string, f *hostview.FrameSnapshot) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := bmp.Encode(file, f.Image()); err != nil {
		file.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return file.Close()
}
