// Package storage owns the BookLeaf folder: locating it, listing its files,
// reading previews and creating or removing notes.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Folder layout below the base directory.
const (
	userDir    = "User"
	storageDir = "BookLeaf"
)

var (
	// ErrOutsideStorage is returned when a file name resolves outside the storage root.
	ErrOutsideStorage = errors.New("path escapes storage folder")
	// ErrNotText is returned when file content is not valid UTF-8.
	ErrNotText = errors.New("file is not valid UTF-8 text")
)

// Locator resolves the storage folder below a base directory.
type Locator struct {
	base string
}

// NewLocator creates a Locator rooted at base.
func NewLocator(base string) *Locator {
	return &Locator{base: base}
}

// Base returns the base directory the storage folder is nested under.
func (l *Locator) Base() string { return l.base }

// Path returns base/User/BookLeaf, creating it if needed.
func (l *Locator) Path() (string, error) {
	dir := filepath.Join(l.base, userDir, storageDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create storage folder: %w", err)
	}
	return dir, nil
}

// Entry is one file in the storage folder.
type Entry struct {
	Name    string
	Path    string
	ModTime time.Time
}

// List returns every non-directory entry in dir, newest first.
func List(dir string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read storage folder: %w", err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		path := filepath.Join(dir, de.Name())
		// Stat follows symlinks so linked notes are listed like regular files.
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		entries = append(entries, Entry{
			Name:    de.Name(),
			Path:    path,
			ModTime: info.ModTime(),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].ModTime.After(entries[j].ModTime)
	})
	return entries, nil
}

// Create creates an empty file at path unless something already exists there.
// An existing file is never modified; created reports whether a file was made.
func Create(path string) (created bool, err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return false, nil
		}
		return false, err
	}
	if err := f.Close(); err != nil {
		return true, err
	}
	return true, nil
}

// Remove deletes a single file.
func Remove(path string) error {
	return os.Remove(path)
}

// Resolve joins name onto dir and rejects names that leave dir.
func Resolve(dir, name string) (string, error) {
	full := filepath.Join(dir, name)
	rel, err := filepath.Rel(dir, full)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%q: %w", name, ErrOutsideStorage)
	}
	return full, nil
}

// HasExtension reports whether the last path component of name carries an
// extension. Leading dots do not count, so ".bashrc" has none while "notes."
// has the extension ".".
func HasExtension(name string) bool {
	base := name
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	dot := strings.LastIndex(base, ".")
	if dot <= 0 {
		return false
	}
	return strings.TrimLeft(base[:dot], ".") != ""
}
