// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// PosixFileSystem is a FileSystem backed by the host operating system's
// filesystem via the standard os package.
type PosixFileSystem struct{}

// NewPosixFileSystem returns a FileSystem rooted at the host OS.
func NewPosixFileSystem() FileSystem { return PosixFileSystem{} }

func (PosixFileSystem) Canonicalize(path Path) (Path, error) {
	abs, err := filepath.Abs(path.String())
	if err != nil {
		return Path{}, err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if os.IsNotExist(err) {
		return Path{}, ErrFileNotFound
	}
	if err != nil {
		return Path{}, err
	}
	return PathOf(resolved), nil
}

func (PosixFileSystem) Stat(path Path) (*FileMetadata, error) {
	info, err := os.Lstat(path.String())
	if os.IsNotExist(err) {
		return nil, ErrFileNotFound
	}
	if err != nil {
		return nil, err
	}
	md := &FileMetadata{
		IsRegularFile: info.Mode().IsRegular(),
		IsDirectory:   info.IsDir(),
		Size:          info.Size(),
		LastModified:  info.ModTime(),
	}
	if info.Mode()&os.ModeSymlink != 0 {
		target, err := os.Readlink(path.String())
		if err == nil {
			md.SymlinkTarget = PathOf(target)
		}
	}
	return md, nil
}

func (fs PosixFileSystem) MetadataOrNull(path Path) (*FileMetadata, error) {
	return fsMetadataOrNull(fs, path)
}

func (fs PosixFileSystem) Exists(path Path) (bool, error) {
	return fsExists(fs, path)
}

func (fs PosixFileSystem) List(dir Path) ([]Path, error) {
	entries, err := os.ReadDir(dir.String())
	if os.IsNotExist(err) {
		return nil, ErrFileNotFound
	}
	if err != nil {
		if info, serr := os.Stat(dir.String()); serr == nil && !info.IsDir() {
			return nil, ErrNotDirectory
		}
		return nil, err
	}
	out := make([]Path, 0, len(entries))
	for _, e := range entries {
		out = append(out, dir.Resolve(e.Name()))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out, nil
}

func (fs PosixFileSystem) ListOrNull(dir Path) ([]Path, error) {
	return fsListOrNull(fs, dir)
}

func (fs PosixFileSystem) ListRecursively(dir Path) ([]Path, error) {
	return fsListRecursively(fs, dir)
}

func (PosixFileSystem) Source(path Path) (Source, error) {
	f, err := os.Open(path.String())
	if os.IsNotExist(err) {
		return nil, ErrFileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &osFileSource{f: f}, nil
}

func (PosixFileSystem) Sink(path Path, mustCreate bool) (Sink, error) {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if mustCreate {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path.String(), flags, 0o644)
	if err != nil {
		return nil, err
	}
	return &osFileSink{f: f}, nil
}

func (PosixFileSystem) AppendingSink(path Path) (Sink, error) {
	f, err := os.OpenFile(path.String(), os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return &osFileSink{f: f}, nil
}

func (PosixFileSystem) OpenReadOnly(path Path) (*FileHandle, error) {
	f, err := os.Open(path.String())
	if os.IsNotExist(err) {
		return nil, ErrFileNotFound
	}
	if err != nil {
		return nil, err
	}
	return newFileHandle(f), nil
}

func (PosixFileSystem) OpenReadWrite(path Path, mustCreate, mustExist bool) (*FileHandle, error) {
	flags := os.O_RDWR
	switch {
	case mustCreate:
		flags |= os.O_CREATE | os.O_EXCL
	case !mustExist:
		flags |= os.O_CREATE
	}
	f, err := os.OpenFile(path.String(), flags, 0o644)
	if os.IsNotExist(err) {
		return nil, ErrFileNotFound
	}
	if err != nil {
		return nil, err
	}
	return newFileHandle(f), nil
}

func (PosixFileSystem) CreateDirectory(dir Path, mustCreate bool) error {
	err := os.Mkdir(dir.String(), 0o755)
	if os.IsExist(err) {
		if mustCreate {
			return fmt.Errorf("segbuf: %s already exists: %w", dir, err)
		}
		return nil
	}
	return err
}

func (PosixFileSystem) CreateDirectories(dir Path, mustCreate bool) error {
	if info, err := os.Stat(dir.String()); err == nil {
		if mustCreate {
			return fmt.Errorf("segbuf: %s already exists", dir)
		}
		if !info.IsDir() {
			return ErrNotDirectory
		}
		return nil
	}
	return os.MkdirAll(dir.String(), 0o755)
}

func (PosixFileSystem) Delete(path Path, mustExist bool) error {
	err := os.Remove(path.String())
	if os.IsNotExist(err) {
		if mustExist {
			return ErrFileNotFound
		}
		return nil
	}
	return err
}

func (fs PosixFileSystem) DeleteRecursively(path Path, mustExist bool) error {
	return fsDeleteRecursively(fs, path, mustExist)
}

func (PosixFileSystem) Move(source, target Path) error {
	return os.Rename(source.String(), target.String())
}

func (fs PosixFileSystem) Copy(source, target Path) error {
	return fsCopy(fs, source, target)
}

func (PosixFileSystem) CreateSymlink(source, target Path) error {
	return os.Symlink(target.String(), source.String())
}

type osFileSource struct {
	f *os.File
}

func (s *osFileSource) Read(p []byte) (int, error) { return s.f.Read(p) }
func (s *osFileSource) Close() error                { return s.f.Close() }
func (s *osFileSource) Timeout() *Timeout           { return nil }

type osFileSink struct {
	f *os.File
}

func (s *osFileSink) Write(p []byte) (int, error) { return s.f.Write(p) }
func (s *osFileSink) Close() error                { return s.f.Close() }
func (s *osFileSink) Flush() error                { return s.f.Sync() }
func (s *osFileSink) Timeout() *Timeout           { return nil }
