// Package romloader loads content for a core from disk, including content
// packed in compressed archives (ZIP, 7z, gzip, tar.gz, RAR).
package romloader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	emucore "github.com/user-none/memexport/api"
)

// Magic bytes for format detection
var (
	magicZIP    = []byte{0x50, 0x4B, 0x03, 0x04}
	magicZIPEnd = []byte{0x50, 0x4B, 0x05, 0x06} // empty zip
	magic7z     = []byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C}
	magicGzip   = []byte{0x1F, 0x8B}
	magicRAR    = []byte{0x52, 0x61, 0x72, 0x21} // "Rar!"
)

// Mega-CD images are far larger than cartridges; 64MB covers a data track.
const maxContentSize = 64 * 1024 * 1024

var (
	// ErrNoContent is returned when an archive holds no loadable file.
	ErrNoContent = errors.New("no content file found in archive")

	// ErrUnsupportedFormat is returned for unrecognized file formats.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrFileTooLarge is returned when extracted content exceeds the size limit.
	ErrFileTooLarge = errors.New("file exceeds maximum size limit")
)

// Content is a loaded content image.
type Content struct {
	Data []byte
	// Name is the base name of the file the data came from, inside the
	// archive when there was one.
	Name string
	// Variant is the variant suggested by Name's extension, or
	// VariantUnknown.
	Variant emucore.Variant
}

type formatType int

const (
	formatUnknown formatType = iota
	formatRaw
	formatZIP
	format7z
	formatGzip
	formatRAR
)

// Load reads content for any supported variant from path.
func Load(path string) (*Content, error) {
	return LoadWith(path, Extensions())
}

// LoadWith reads content from path, accepting only files with one of the
// given extensions. Archives are detected by magic bytes first and by
// extension second; the first matching member is extracted.
func LoadWith(path string, extensions []string) (*Content, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	header := make([]byte, 16)
	n, err := f.Read(header)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read file header: %w", err)
	}
	header = header[:n]

	match := func(name string) bool {
		return hasExtension(name, extensions)
	}

	switch detectFormat(header, path, extensions) {
	case formatRaw:
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("failed to seek file: %w", err)
		}
		data, err := limitedRead(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read content: %w", err)
		}
		name := filepath.Base(path)
		return &Content{Data: data, Name: name, Variant: VariantHint(name)}, nil

	case formatZIP:
		return extractFromZIP(path, match)

	case format7z:
		return extractFrom7z(path, match)

	case formatGzip:
		return extractFromGzip(path, match)

	case formatRAR:
		return extractFromRAR(path, match)

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// detectFormat determines the file format from magic bytes, then from the
// archive extension, then from the content extensions.
func detectFormat(header []byte, path string, extensions []string) formatType {
	switch {
	case bytes.HasPrefix(header, magicZIP), bytes.HasPrefix(header, magicZIPEnd):
		return formatZIP
	case bytes.HasPrefix(header, magicRAR):
		return formatRAR
	case bytes.HasPrefix(header, magic7z):
		return format7z
	case bytes.HasPrefix(header, magicGzip):
		return formatGzip
	}

	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".zip"):
		return formatZIP
	case strings.HasSuffix(lower, ".7z"):
		return format7z
	case strings.HasSuffix(lower, ".gz"), strings.HasSuffix(lower, ".tgz"):
		return formatGzip
	case strings.HasSuffix(lower, ".rar"):
		return formatRAR
	}

	if hasExtension(path, extensions) {
		return formatRaw
	}
	return formatUnknown
}

// hasExtension reports whether name ends in one of extensions, ignoring case.
func hasExtension(name string, extensions []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range extensions {
		if strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

// limitedRead reads r up to maxContentSize bytes.
func limitedRead(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxContentSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxContentSize {
		return nil, ErrFileTooLarge
	}
	return data, nil
}
