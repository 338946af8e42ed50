package romloader

import (
	"fmt"

	"github.com/bodgit/sevenzip"
)

// extractFrom7z extracts the first content file from a 7z archive
func extractFrom7z(path string, match func(string) bool) (*Content, error) {
	r, err := sevenzip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open 7z: %w", err)
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
