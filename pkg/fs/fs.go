// Package fs implements functions for locating and opening the files served
// by revlines. Every handle it returns is seekable.
package fs

import (
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const suffixGzip = ".gz"

// ErrInvalidName is returned for names that would escape the root directory.
var ErrInvalidName = errors.New("invalid file name")

// File is a seekable handle. Closing it also removes the temporary copy made
// for compressed or non-seekable input.
type File struct {
	*os.File
	tmp bool
}

// Close closes the file and removes it if it is a temporary copy.
func (f *File) Close() error {
	err := f.File.Close()
	if f.tmp {
		if rmErr := os.Remove(f.File.Name()); rmErr != nil && err == nil {
			err = rmErr
		}
	}
	return err
}

// Info describes a regular file under a root directory.
type Info struct {
	Name  string
	Size  int64
	Mtime time.Time
}

// Resolve returns the path of name inside root.
func Resolve(root, name string) (string, error) {
	if !filepath.IsLocal(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return filepath.Join(root, filepath.Clean(name)), nil
}

// Open opens name inside root.
func Open(root, name string) (*File, error) {
	p, err := Resolve(root, name)
	if err != nil {
		return nil, err
	}
	return OpenPath(p)
}

// OpenPath opens the file at p. Files ending in ".gz" are decompressed into a
// temporary file first.
func OpenPath(p string) (*File, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(p, suffixGzip) {
		return &File{File: f}, nil
	}
	defer f.Close()
	gr, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("read gzip: %w", err)
	}
	defer gr.Close()
	return Spool(gr)
}

// Spool copies r into a temporary file and returns it positioned at the start.
func Spool(r io.Reader) (*File, error) {
	tmpfile, err := os.CreateTemp("", ".revlines")
	if err != nil {
		return nil, fmt.Errorf("create temp: %w", err)
	}
	f := &File{File: tmpfile, tmp: true}
	if _, err := io.Copy(tmpfile, r); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("copy: %w", err)
	}
	if _, err := tmpfile.Seek(0, io.SeekStart); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

// List returns the regular, non-hidden files directly under root sorted by name.
func List(root string) ([]Info, error) {
	if !dirExists(root) {
		return nil, fmt.Errorf("not a directory: %s", root)
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	infos := make([]Info, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if !e.Type().IsRegular() || name[0] == '.' {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		infos = append(infos, Info{
			Name:  name,
			Size:  fi.Size(),
			Mtime: fi.ModTime(),
		})
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name < infos[j].Name
	})
	return infos, nil
}

func dirExists(path string) bool {
	stat, err := os.Stat(path)
	return err == nil && stat.IsDir()
}
