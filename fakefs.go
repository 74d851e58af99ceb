// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"
)

// FakeFileSystem is an in-memory FileSystem for tests. It enforces the
// same invariants a real filesystem does that are easy to violate by
// accident in test code: every opened Source/Sink/FileHandle must be
// closed before the FakeFileSystem is torn down, and Move replaces its
// target atomically rather than via delete-then-create.
type FakeFileSystem struct {
	mu       sync.Mutex
	files    map[string]*fakeFile
	openRefs map[string]int
}

type fakeFile struct {
	isDirectory bool
	isSymlink   bool
	// symlinkTarget is the raw string form of the path this entry points
	// to, valid only when isSymlink is true.
	symlinkTarget string
	data          []byte
	createdAt     time.Time
	modifiedAt    time.Time
}

// NewFakeFileSystem returns an empty in-memory FileSystem rooted at "/".
func NewFakeFileSystem() *FakeFileSystem {
	now := time.Now()
	return &FakeFileSystem{
		files: map[string]*fakeFile{
			"/": {isDirectory: true, createdAt: now, modifiedAt: now},
		},
		openRefs: map[string]int{},
	}
}

// CheckNoOpenFiles panics (failing the test loudly) if any Source, Sink
// or FileHandle obtained from this FakeFileSystem is still open. Call
// this at the end of a test via defer.
func (fs *FakeFileSystem) CheckNoOpenFiles() {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	for path, refs := range fs.openRefs {
		if refs > 0 {
			panic(fmt.Sprintf("segbuf: file still open: %s", path))
		}
	}
}

func (fs *FakeFileSystem) Canonicalize(path Path) (Path, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	cur := path
	visited := map[string]bool{}
	for {
		f, ok := fs.files[cur.String()]
		if !ok {
			return Path{}, ErrFileNotFound
		}
		if !f.isSymlink {
			return cur, nil
		}
		if visited[cur.String()] {
			return Path{}, fmt.Errorf("segbuf: symlink cycle resolving %s", path)
		}
		visited[cur.String()] = true
		cur = PathOf(f.symlinkTarget)
	}
}

func (fs *FakeFileSystem) Stat(path Path) (*FileMetadata, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	f, ok := fs.files[path.String()]
	if !ok {
		return nil, ErrFileNotFound
	}
	md := &FileMetadata{
		IsRegularFile: !f.isDirectory && !f.isSymlink,
		IsDirectory:   f.isDirectory,
		Size:          int64(len(f.data)),
		CreatedAt:     f.createdAt,
		LastModified:  f.modifiedAt,
	}
	if f.isSymlink {
		md.SymlinkTarget = PathOf(f.symlinkTarget)
	}
	return md, nil
}

func (fs *FakeFileSystem) MetadataOrNull(path Path) (*FileMetadata, error) {
	return fsMetadataOrNull(fs, path)
}

func (fs *FakeFileSystem) Exists(path Path) (bool, error) {
	return fsExists(fs, path)
}

func (fs *FakeFileSystem) List(dir Path) ([]Path, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	f, ok := fs.files[dir.String()]
	if !ok {
		return nil, ErrFileNotFound
	}
	if !f.isDirectory {
		return nil, ErrNotDirectory
	}
	prefix := dir.String()
	if prefix != pathSeparator {
		prefix += pathSeparator
	}
	var out []Path
	for p := range fs.files {
		if p == dir.String() || p == prefix {
			continue
		}
		if len(p) > len(prefix) && p[:len(prefix)] == prefix {
			rest := p[len(prefix):]
			isDirect := true
			for _, c := range rest {
				if c == '/' {
					isDirect = false
					break
				}
			}
			if isDirect {
				out = append(out, PathOf(p))
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out, nil
}

func (fs *FakeFileSystem) ListOrNull(dir Path) ([]Path, error) {
	return fsListOrNull(fs, dir)
}

func (fs *FakeFileSystem) ListRecursively(dir Path) ([]Path, error) {
	return fsListRecursively(fs, dir)
}

func (fs *FakeFileSystem) Source(path Path) (Source, error) {
	fs.mu.Lock()
	f, ok := fs.files[path.String()]
	if !ok {
		fs.mu.Unlock()
		return nil, ErrFileNotFound
	}
	fs.openRefs[path.String()]++
	data := make([]byte, len(f.data))
	copy(data, f.data)
	fs.mu.Unlock()
	return &fakeFileSource{fs: fs, path: path.String(), buf: data}, nil
}

func (fs *FakeFileSystem) Sink(path Path, mustCreate bool) (Sink, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	now := time.Now()
	f, ok := fs.files[path.String()]
	if ok {
		if mustCreate {
			return nil, fmt.Errorf("segbuf: %s already exists", path)
		}
	} else {
		f = &fakeFile{createdAt: now}
		fs.files[path.String()] = f
	}
	f.data = nil
	f.modifiedAt = now
	fs.openRefs[path.String()]++
	return &fakeFileSink{fs: fs, path: path.String()}, nil
}

func (fs *FakeFileSystem) AppendingSink(path Path) (Sink, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	now := time.Now()
	f, ok := fs.files[path.String()]
	if !ok {
		f = &fakeFile{createdAt: now}
		fs.files[path.String()] = f
	}
	f.modifiedAt = now
	fs.openRefs[path.String()]++
	return &fakeFileSink{fs: fs, path: path.String()}, nil
}

func (fs *FakeFileSystem) OpenReadOnly(path Path) (*FileHandle, error) {
	return nil, fmt.Errorf("segbuf: FakeFileSystem does not support positional FileHandle access")
}

func (fs *FakeFileSystem) OpenReadWrite(path Path, mustCreate, mustExist bool) (*FileHandle, error) {
	return nil, fmt.Errorf("segbuf: FakeFileSystem does not support positional FileHandle access")
}

func (fs *FakeFileSystem) CreateDirectory(dir Path, mustCreate bool) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if f, ok := fs.files[dir.String()]; ok {
		if mustCreate {
			return fmt.Errorf("segbuf: %s already exists", dir)
		}
		if !f.isDirectory {
			return ErrNotDirectory
		}
		return nil
	}
	if parent, ok := dir.Parent(); ok {
		if _, exists := fs.files[parent.String()]; !exists {
			return ErrFileNotFound
		}
	}
	now := time.Now()
	fs.files[dir.String()] = &fakeFile{isDirectory: true, createdAt: now, modifiedAt: now}
	return nil
}

func (fs *FakeFileSystem) CreateDirectories(dir Path, mustCreate bool) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if f, ok := fs.files[dir.String()]; ok {
		if mustCreate {
			return fmt.Errorf("segbuf: %s already exists", dir)
		}
		if !f.isDirectory {
			return ErrNotDirectory
		}
		return nil
	}
	now := time.Now()
	cur := dir
	var chain []string
	for {
		if _, ok := fs.files[cur.String()]; ok {
			break
		}
		chain = append(chain, cur.String())
		parent, ok := cur.Parent()
		if !ok {
			break
		}
		cur = parent
	}
	for i := len(chain) - 1; i >= 0; i-- {
		fs.files[chain[i]] = &fakeFile{isDirectory: true, createdAt: now, modifiedAt: now}
	}
	return nil
}

func (fs *FakeFileSystem) Delete(path Path, mustExist bool) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if _, ok := fs.files[path.String()]; !ok {
		if mustExist {
			return ErrFileNotFound
		}
		return nil
	}
	delete(fs.files, path.String())
	return nil
}

func (fs *FakeFileSystem) DeleteRecursively(path Path, mustExist bool) error {
	return fsDeleteRecursively(fs, path, mustExist)
}

func (fs *FakeFileSystem) Move(source, target Path) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	f, ok := fs.files[source.String()]
	if !ok {
		return ErrFileNotFound
	}
	delete(fs.files, source.String())
	fs.files[target.String()] = f
	return nil
}

func (fs *FakeFileSystem) Copy(source, target Path) error {
	return fsCopy(fs, source, target)
}

func (fs *FakeFileSystem) CreateSymlink(source, target Path) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	now := time.Now()
	fs.files[source.String()] = &fakeFile{
		isSymlink:     true,
		symlinkTarget: target.String(),
		createdAt:     now,
		modifiedAt:    now,
	}
	return nil
}

type fakeFileSource struct {
	fs   *FakeFileSystem
	path string
	buf  []byte
	pos  int
	done bool
}

func (s *fakeFileSource) Read(p []byte) (int, error) {
	if s.pos >= len(s.buf) {
		return 0, io.EOF
	}
	n := copy(p, s.buf[s.pos:])
	s.pos += n
	return n, nil
}

func (s *fakeFileSource) Close() error {
	if s.done {
		return nil
	}
	s.done = true
	s.fs.mu.Lock()
	s.fs.openRefs[s.path]--
	s.fs.mu.Unlock()
	return nil
}

func (s *fakeFileSource) Timeout() *Timeout { return nil }

type fakeFileSink struct {
	fs   *FakeFileSystem
	path string
	done bool
}

func (s *fakeFileSink) Write(p []byte) (int, error) {
	s.fs.mu.Lock()
	defer s.fs.mu.Unlock()
	f := s.fs.files[s.path]
	f.data = append(f.data, p...)
	f.modifiedAt = time.Now()
	return len(p), nil
}

func (s *fakeFileSink) Close() error {
	if s.done {
		return nil
	}
	s.done = true
	s.fs.mu.Lock()
	s.fs.openRefs[s.path]--
	s.fs.mu.Unlock()
	return nil
}

func (s *fakeFileSink) Flush() error      { return nil }
func (s *fakeFileSink) Timeout() *Timeout { return nil }
