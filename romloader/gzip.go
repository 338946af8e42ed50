package romloader

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// extractFromGzip extracts content from a gzip file, or the first content
// file of a tar.gz archive
func extractFromGzip(path string, match func(string) bool) (*Content, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open gzip: %w", err)
	}
	defer f.Close()

	gr, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gr.Close()

	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".tar.gz") || strings.HasSuffix(lower, ".tgz") {
		return extractFromTar(gr, match)
	}

	// Plain .gz: the payload is the content, named after the file minus .gz
	name := filepath.Base(path)
	if strings.HasSuffix(strings.ToLower(name), ".gz") {
		name = name[:len(name)-3]
	}
	return firstMatch(func(yield func(member, error) bool) {
		yield(member{name: name, open: func() (io.ReadCloser, error) {
			return io.NopCloser(gr), nil
		}}, nil)
	}, func(string) bool { return true })
}

// extractFromTar extracts the first content file from a tar stream
func extractFromTar(r io.Reader, match func(string) bool) (*Content, error) {
	tr := tar.NewReader(r)
	open := func() (io.ReadCloser, error) {
		return io.NopCloser(tr), nil
	}

	return firstMatch(func(yield func(member, error) bool) {
		for {
			header, err := tr.Next()
			if err == io.EOF {
				return
			}
			if err != nil {
				yield(member{}, fmt.Errorf("failed to read tar entry: %w", err))
				return
			}
			if header.Typeflag != tar.TypeReg {
				continue
			}
			if !yield(member{name: header.Name, open: open}, nil) {
				return
			}
		}
	}, match)
}
