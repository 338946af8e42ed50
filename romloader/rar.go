package romloader

import (
	"fmt"
	"io"

	"github.com/nwaples/rardecode/v2"
)

// extractFromRAR extracts the first content file from a RAR archive.
// RAR is a stream, so each member is read from the archive reader itself.
func extractFromRAR(path string, match func(string) bool) (*Content, error) {
	r, err := rardecode.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open rar: %w", err)
	}
	defer r.Close()

	open := func() (io.ReadCloser, error) {
		return io.NopCloser(r), nil
	}

	return firstMatch(func(yield func(member, error) bool) {
		for {
			header, err := r.Next()
			if err == io.EOF {
				return
			}
			if err != nil {
				yield(member{}, fmt.Errorf("failed to read rar entry: %w", err))
				return
			}
			if header.IsDir {
				continue
			}
			if !yield(member{name: header.Name, open: open}, nil) {
				return
			}
		}
	}, match)
}
