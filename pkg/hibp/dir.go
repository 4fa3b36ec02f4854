package hibp

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// DirSource reads ranges from a directory written by Mirror, one PREFIX.txt file per range.
type DirSource struct {
	dir string
}

func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir}
}

func (d *DirSource) Range(_ context.Context, prefix string) ([]byte, error) {
	if !validPrefix(prefix) {
		return nil, ErrInvalidPrefix
	}

	return os.ReadFile(rangeFile(d.dir, prefix))
}

func rangeFile(dir, prefix string) string {
	return filepath.Join(dir, strings.ToUpper(prefix)+".txt")
}
