// Package assets resolves track locators to files on disk.
package assets

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tessro/tapedeck/internal/core"
	deckerrors "github.com/tessro/tapedeck/internal/errors"
)

// Dir resolves locators as file paths. Relative locators are taken
// relative to Base.
type Dir struct {
	Base string
}

// NewDir returns a resolver rooted at base.
func NewDir(base string) *Dir {
	return &Dir{Base: base}
}

// Path returns the file path for locator.
func (d *Dir) Path(locator string) string {
	p := locator
	if strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, p[2:])
		}
	}
	if filepath.IsAbs(p) || d.Base == "" {
		return filepath.Clean(p)
	}
	return filepath.Join(d.Base, p)
}

// Open opens the asset for reading.
func (d *Dir) Open(locator string) (io.ReadCloser, error) {
	if locator == "" {
		return nil, fmt.Errorf("empty locator: %w", deckerrors.ErrAssetNotFound)
	}
	f, err := os.Open(d.Path(locator))
	if err != nil {
		return nil, wrap(locator, err)
	}
	return f, nil
}

// Stat describes the asset without opening it.
func (d *Dir) Stat(locator string) (core.AssetInfo, error) {
	if locator == "" {
		return core.AssetInfo{}, fmt.Errorf("empty locator: %w", deckerrors.ErrAssetNotFound)
	}
	path := d.Path(locator)
	fi, err := os.Stat(path)
	if err != nil {
		return core.AssetInfo{}, wrap(locator, err)
	}
	if fi.IsDir() {
		return core.AssetInfo{}, fmt.Errorf("%s is a directory: %w", locator, deckerrors.ErrAssetNotFound)
	}
	return core.AssetInfo{
		Locator: locator,
		Path:    path,
		Size:    fi.Size(),
		ModTime: fi.ModTime(),
	}, nil
}

func wrap(locator string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", locator, deckerrors.ErrAssetNotFound)
	}
	return fmt.Errorf("failed to open %s: %w", locator, err)
}
