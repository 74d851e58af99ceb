// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf

import (
	"io"
	"time"
)

// FileMetadata describes the attributes of one filesystem entry as
// reported by FileSystem.Stat.
type FileMetadata struct {
	IsRegularFile bool
	IsDirectory   bool
	Size          int64 // -1 if unknown
	CreatedAt     time.Time
	LastModified  time.Time
	LastAccessed  time.Time

	// SymlinkTarget holds the target path when the entry is a symlink,
	// or the zero Path otherwise.
	SymlinkTarget Path
}

// FileSystem abstracts a filesystem: a source of Path metadata, byte
// streams, and directory mutation, so code that reads and writes files
// can be tested against FakeFileSystem without touching disk.
//
// Implementations provide the primitive operations (Stat, List, Source,
// Sink, Delete, ...); the derived operations (MetadataOrNull, Exists,
// ListOrNull, ListRecursively, DeleteRecursively, Copy) are ordinarily
// implemented by calling the fs* helper functions in this file, which
// express them purely in terms of the primitives.
type FileSystem interface {
	// Canonicalize resolves path to an absolute, symlink-free form,
	// following any symlinks in its path and erroring on a cycle.
	// Returns ErrFileNotFound if path does not exist.
	Canonicalize(path Path) (Path, error)

	// Stat returns metadata for path without following a final symlink
	// component, or ErrFileNotFound if it does not exist.
	Stat(path Path) (*FileMetadata, error)

	// MetadataOrNull is like Stat but returns (nil, nil) instead of
	// ErrFileNotFound when path does not exist.
	MetadataOrNull(path Path) (*FileMetadata, error)

	// Exists reports whether path names an existing entry.
	Exists(path Path) (bool, error)

	// List returns the direct children of dir. Returns ErrNotDirectory
	// if dir names a regular file, or ErrFileNotFound if dir does not
	// exist.
	List(dir Path) ([]Path, error)

	// ListOrNull is like List but returns (nil, nil) instead of
	// ErrFileNotFound when dir does not exist.
	ListOrNull(dir Path) ([]Path, error)

	// ListRecursively returns every descendant of dir in pre-order
	// (a directory before its children). A symlink is listed like any
	// other entry but never traversed into, so a symlink cycle beneath
	// dir cannot make the walk loop.
	ListRecursively(dir Path) ([]Path, error)

	// Source opens path for reading.
	Source(path Path) (Source, error)

	// Sink opens path for writing, truncating any existing content. If
	// mustCreate is true, it is an error for path to already exist.
	Sink(path Path, mustCreate bool) (Sink, error)

	// AppendingSink opens path for writing, creating it if it does not
	// exist and appending to any existing content.
	AppendingSink(path Path) (Sink, error)

	// OpenReadOnly opens path for positional reads. Returns
	// ErrFileNotFound if path does not exist.
	OpenReadOnly(path Path) (*FileHandle, error)

	// OpenReadWrite opens path for positional read/write access. If
	// mustCreate is true, it is an error for path to already exist; if
	// mustExist is true, it is an error for path to be missing.
	// Otherwise path is created if absent.
	OpenReadWrite(path Path, mustCreate, mustExist bool) (*FileHandle, error)

	// CreateDirectory creates dir, whose parent must already exist. If
	// mustCreate is true and dir already exists, it is an error.
	CreateDirectory(dir Path, mustCreate bool) error

	// CreateDirectories creates dir and any missing parents. If
	// mustCreate is true and dir already exists, it is an error.
	CreateDirectories(dir Path, mustCreate bool) error

	// Delete removes path. If mustExist is true and path does not
	// exist, it is an error; otherwise a missing path is a no-op.
	Delete(path Path, mustExist bool) error

	// DeleteRecursively removes path and, if it is a directory, every
	// entry beneath it. A symlink beneath path is removed but not
	// followed.
	DeleteRecursively(path Path, mustExist bool) error

	// Move atomically renames source to target, replacing target if it
	// exists and the platform supports atomic replace.
	Move(source, target Path) error

	// Copy copies the contents of source to target, overwriting target
	// if it exists.
	Copy(source, target Path) error

	// CreateSymlink creates a symlink at source pointing to target.
	CreateSymlink(source, target Path) error
}

// fsMetadataOrNull implements MetadataOrNull in terms of Stat.
func fsMetadataOrNull(fs FileSystem, path Path) (*FileMetadata, error) {
	md, err := fs.Stat(path)
	if err == ErrFileNotFound {
		return nil, nil
	}
	return md, err
}

// fsExists implements Exists in terms of MetadataOrNull.
func fsExists(fs FileSystem, path Path) (bool, error) {
	md, err := fs.MetadataOrNull(path)
	if err != nil {
		return false, err
	}
	return md != nil, nil
}

// fsListOrNull implements ListOrNull in terms of List.
func fsListOrNull(fs FileSystem, dir Path) ([]Path, error) {
	out, err := fs.List(dir)
	if err == ErrFileNotFound {
		return nil, nil
	}
	return out, err
}

// fsListRecursively implements ListRecursively in terms of List and
// Stat. It never descends into a symlink (Stat reports a symlink's own
// metadata, never the target's, so md.SymlinkTarget is non-zero exactly
// when entry itself is a symlink), which is what guarantees the walk
// terminates regardless of any symlink cycle on disk.
func fsListRecursively(fs FileSystem, dir Path) ([]Path, error) {
	var out []Path
	var walk func(Path) error
	walk = func(d Path) error {
		children, err := fs.List(d)
		if err != nil {
			return err
		}
		for _, c := range children {
			out = append(out, c)
			md, err := fs.Stat(c)
			if err != nil {
				return err
			}
			if md.IsDirectory && md.SymlinkTarget.String() == "" {
				if err := walk(c); err != nil {
					return err
				}
			}
		}
		return nil
	}
	if err := walk(dir); err != nil {
		return nil, err
	}
	return out, nil
}

// fsDeleteRecursively implements DeleteRecursively in terms of
// MetadataOrNull, List and Delete, removing children before their
// parent. Like fsListRecursively, it never descends into a symlink.
func fsDeleteRecursively(fs FileSystem, path Path, mustExist bool) error {
	md, err := fs.MetadataOrNull(path)
	if err != nil {
		return err
	}
	if md == nil {
		if mustExist {
			return ErrFileNotFound
		}
		return nil
	}
	if md.IsDirectory && md.SymlinkTarget.String() == "" {
		children, err := fs.List(path)
		if err != nil {
			return err
		}
		for _, c := range children {
			if err := fsDeleteRecursively(fs, c, false); err != nil {
				return err
			}
		}
	}
	return fs.Delete(path, mustExist)
}

// fsCopy implements Copy in terms of Source and Sink.
func fsCopy(fs FileSystem, source, target Path) error {
	src, err := fs.Source(source)
	if err != nil {
		return err
	}
	defer src.Close()
	sink, err := fs.Sink(target, false)
	if err != nil {
		return err
	}
	if _, err := io.Copy(sink, src); err != nil {
		_ = sink.Close()
		return err
	}
	return sink.Close()
}
