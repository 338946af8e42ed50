package romloader

import (
	"archive/zip"
	"fmt"
)

// extractFromZIP extracts the first content file from a ZIP archive
func extractFromZIP(path string, match func(string) bool) (*Content, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open zip: %w", err)
	}
	defer r.Close()

	return firstMatch(func(yield func(member, error) bool) {
		for _, f := range r.File {
			if f.FileInfo().IsDir() {
				continue
			}
			if !yield(member{name: f.Name, open: f.Open}, nil) {
				return
			}
		}
	}, match)
}
