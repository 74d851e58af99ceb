// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf

// ForwardingSource is a Source that forwards every call to a delegate,
// letting a subtype override individual methods (a logging wrapper, a
// rate limiter) while inheriting the rest. Prefer embedding this over
// reimplementing Source from scratch when only one method needs to
// change.
type ForwardingSource struct {
	Delegate Source
}

func (f *ForwardingSource) Read(p []byte) (int, error) { return f.Delegate.Read(p) }
func (f *ForwardingSource) Close() error                { return f.Delegate.Close() }
func (f *ForwardingSource) Timeout() *Timeout            { return f.Delegate.Timeout() }

// ForwardingSink is the Sink counterpart of ForwardingSource.
type ForwardingSink struct {
	Delegate Sink
}

func (f *ForwardingSink) Write(p []byte) (int, error) { return f.Delegate.Write(p) }
func (f *ForwardingSink) Close() error                { return f.Delegate.Close() }
func (f *ForwardingSink) Flush() error                { return f.Delegate.Flush() }
func (f *ForwardingSink) Timeout() *Timeout           { return f.Delegate.Timeout() }

// ForwardingFileSystem forwards every FileSystem call to a delegate,
// letting a subtype intercept individual operations (a sandboxing
// wrapper, a read-only guard) without reimplementing the whole
// interface.
type ForwardingFileSystem struct {
	Delegate FileSystem
}

func (f *ForwardingFileSystem) Canonicalize(path Path) (Path, error) {
	return f.Delegate.Canonicalize(path)
}
func (f *ForwardingFileSystem) Stat(path Path) (*FileMetadata, error) {
	return f.Delegate.Stat(path)
}
func (f *ForwardingFileSystem) MetadataOrNull(path Path) (*FileMetadata, error) {
	return f.Delegate.MetadataOrNull(path)
}
func (f *ForwardingFileSystem) Exists(path Path) (bool, error) {
	return f.Delegate.Exists(path)
}
func (f *ForwardingFileSystem) List(dir Path) ([]Path, error) { return f.Delegate.List(dir) }
func (f *ForwardingFileSystem) ListOrNull(dir Path) ([]Path, error) {
	return f.Delegate.ListOrNull(dir)
}
func (f *ForwardingFileSystem) ListRecursively(dir Path) ([]Path, error) {
	return f.Delegate.ListRecursively(dir)
}
func (f *ForwardingFileSystem) Source(path Path) (Source, error) {
	return f.Delegate.Source(path)
}
func (f *ForwardingFileSystem) Sink(path Path, mustCreate bool) (Sink, error) {
	return f.Delegate.Sink(path, mustCreate)
}
func (f *ForwardingFileSystem) AppendingSink(path Path) (Sink, error) {
	return f.Delegate.AppendingSink(path)
}
func (f *ForwardingFileSystem) OpenReadOnly(path Path) (*FileHandle, error) {
	return f.Delegate.OpenReadOnly(path)
}
func (f *ForwardingFileSystem) OpenReadWrite(path Path, mustCreate, mustExist bool) (*FileHandle, error) {
	return f.Delegate.OpenReadWrite(path, mustCreate, mustExist)
}
func (f *ForwardingFileSystem) CreateDirectory(dir Path, mustCreate bool) error {
	return f.Delegate.CreateDirectory(dir, mustCreate)
}
func (f *ForwardingFileSystem) CreateDirectories(dir Path, mustCreate bool) error {
	return f.Delegate.CreateDirectories(dir, mustCreate)
}
func (f *ForwardingFileSystem) Delete(path Path, mustExist bool) error {
	return f.Delegate.Delete(path, mustExist)
}
func (f *ForwardingFileSystem) DeleteRecursively(path Path, mustExist bool) error {
	return f.Delegate.DeleteRecursively(path, mustExist)
}
func (f *ForwardingFileSystem) Move(source, target Path) error {
	return f.Delegate.Move(source, target)
}
func (f *ForwardingFileSystem) Copy(source, target Path) error {
	return f.Delegate.Copy(source, target)
}
func (f *ForwardingFileSystem) CreateSymlink(source, target Path) error {
	return f.Delegate.CreateSymlink(source, target)
}
