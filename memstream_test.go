package litefs

import (
	"io"
	"os"
	"sync"
	"time"
)

// memInnerStream is a minimal in-memory innerStream used to test the
// block stream and crypt stream layers without a host filesystem. It is
// safe for the concurrent per-block reads and writes runBlockJobs issues.
type memInnerStream struct {
	mu   sync.Mutex
	data []byte
}

func (m *memInnerStream) ReadAt(p []byte, off int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if off < 0 {
		return 0, &InvalidArgumentError{Field: "offset", Value: off}
	}
	if off >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (m *memInnerStream) WriteAt(p []byte, off int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if off < 0 {
		return 0, &InvalidArgumentError{Field: "offset", Value: off}
	}
	end := off + int64(len(p))
	if end > int64(len(m.data)) {
		grown := make([]byte, end)
		copy(grown, m.data)
		m.data = grown
	}
	copy(m.data[off:end], p)
	return len(p), nil
}

func (m *memInnerStream) Truncate(size int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if size < 0 {
		return &InvalidArgumentError{Field: "size", Value: size}
	}
	if int64(len(m.data)) == size {
		return nil
	}
	if size < int64(len(m.data)) {
		m.data = m.data[:size]
		return nil
	}
	grown := make([]byte, size)
	copy(grown, m.data)
	m.data = grown
	return nil
}

func (m *memInnerStream) Sync() error { return nil }

func (m *memInnerStream) Stat() (os.FileInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return &memFileInfo{size: int64(len(m.data))}, nil
}

type memFileInfo struct{ size int64 }

func (i *memFileInfo) Name() string       { return "mem" }
func (i *memFileInfo) Size() int64        { return i.size }
func (i *memFileInfo) Mode() os.FileMode  { return 0644 }
func (i *memFileInfo) ModTime() time.Time { return time.Time{} }
func (i *memFileInfo) IsDir() bool        { return false }
func (i *memFileInfo) Sys() any           { return nil }
