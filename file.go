package litefs

import (
	"io"
	"os"
	"sync"

	"github.com/absfs/absfs"
	"github.com/absfs/litefs/internal/litelog"
)

// File implements §4.H: it owns an inner host file handle and an AES-GCM
// crypt stream wrapping it, and serializes all data-bearing operations
// through a single advisory lock — shared for read, exclusive for
// write/resize/flush/fsync.
type File struct {
	mu     sync.RWMutex
	host   absfs.File
	stream *blockStream
	offset int64
}

// newFile wraps an already-open host handle with a crypt stream derived
// from contentKey, per §4.E's construction.
func newFile(host absfs.File, contentKey []byte, suite Suite, blockSize, ivSize uint32, check bool, pool ParallelConfig, logger litelog.Logger) (*File, error) {
	if logger == nil {
		logger = litelog.Null()
	}
	cs, err := newCryptStream(host, contentKey, suite, blockSize, ivSize, check, logger)
	if err != nil {
		return nil, err
	}
	return &File{
		host:   host,
		stream: newBlockStream(cs, pool),
	}, nil
}

// Lock acquires the file's advisory lock, shared or exclusive.
func (f *File) Lock(exclusive bool) {
	if exclusive {
		f.mu.Lock()
	} else {
		f.mu.RLock()
	}
}

// Unlock releases the exclusive lock when exclusive is true and a shared
// lock otherwise. Callers must pass the same value they passed to Lock.
func (f *File) Unlock(exclusive bool) {
	if exclusive {
		f.mu.Unlock()
	} else {
		f.mu.RUnlock()
	}
}

func (f *File) Name() string { return f.host.Name() }

// Read implements io.Reader against the logical (decrypted) stream,
// advancing the file's cursor.
func (f *File) Read(p []byte) (int, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	n, err := f.stream.Read(p, f.offset)
	f.offset += int64(n)
	return n, err
}

func (f *File) ReadAt(p []byte, off int64) (int, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.stream.Read(p, off)
}

// Write implements io.Writer, taking the exclusive lock for its entire
// read-modify-write duration as §4.H/§5 require.
func (f *File) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, err := f.stream.Write(p, f.offset)
	f.offset += int64(n)
	return n, err
}

func (f *File) WriteString(s string) (int, error) {
	return f.Write([]byte(s))
}

func (f *File) WriteAt(p []byte, off int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stream.Write(p, off)
}

func (f *File) Seek(offset int64, whence int) (int64, error) {
	f.mu.RLock()
	size, err := f.stream.Size()
	f.mu.RUnlock()
	if err != nil {
		return 0, err
	}

	var newOffset int64
	switch whence {
	case io.SeekStart:
		newOffset = offset
	case io.SeekCurrent:
		newOffset = f.offset + offset
	case io.SeekEnd:
		newOffset = size + offset
	default:
		return 0, &InvalidArgumentError{Field: "whence", Value: whence, Message: "invalid seek whence"}
	}
	if newOffset < 0 {
		return 0, &InvalidArgumentError{Field: "offset", Value: newOffset, Message: "negative seek position"}
	}
	f.offset = newOffset
	return f.offset, nil
}

// Truncate implements §4.D/§4.E's resize.
func (f *File) Truncate(size int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stream.Resize(size)
}

func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.stream.Flush(); err != nil {
		f.host.Close()
		return err
	}
	return f.host.Close()
}

func (f *File) Sync() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.stream.Flush(); err != nil {
		return err
	}
	return f.host.Sync()
}

// Stat delegates to the host handle but overrides the size with the
// logical (decrypted) size.
func (f *File) Stat() (os.FileInfo, error) {
	hostInfo, err := f.host.Stat()
	if err != nil {
		return nil, err
	}
	f.mu.RLock()
	size, err := f.stream.Size()
	f.mu.RUnlock()
	if err != nil {
		return nil, err
	}
	return &logicalFileInfo{FileInfo: hostInfo, size: size}, nil
}

func (f *File) Readdir(n int) ([]os.FileInfo, error)    { return f.host.Readdir(n) }
func (f *File) Readdirnames(n int) ([]string, error)    { return f.host.Readdirnames(n) }

// logicalFileInfo overrides Size() so that callers (and the façade's
// translated stat results) see the plaintext size rather than the
// underlying ciphertext size.
type logicalFileInfo struct {
	os.FileInfo
	size int64
}

func (i *logicalFileInfo) Size() int64 { return i.size }
