package romloader

import (
	"fmt"
	"io"
	"iter"
	"path/filepath"
)

// member is one regular file inside an archive.
type member struct {
	name string
	open func() (io.ReadCloser, error)
}

// firstMatch extracts the first member accepted by match.
func firstMatch(members iter.Seq2[member, error], match func(string) bool) (*Content, error) {
	for m, err := range members {
		if err != nil {
			return nil, err
		}
		if !match(m.name) {
			continue
		}

		rc, err := m.open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s in archive: %w", m.name, err)
		}
		data, err := limitedRead(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", m.name, err)
		}

		name := filepath.Base(m.name)
		return &Content{Data: data, Name: name, Variant: VariantHint(name)}, nil
	}
	return nil, ErrNoContent
}
