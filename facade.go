package litefs

import (
	"os"
	"time"

	"github.com/absfs/absfs"
	"github.com/absfs/litefs/internal/litelog"
)

// Facade implements §4.I: it maps POSIX-style filesystem operations onto
// host directory operations against name-encoded paths, using the path
// walker (G) to translate and the file object (H) to serve open handles.
// One Facade is constructed per worker thread by the per-thread cache
// (J); within a single Facade nothing is mutated after construction
// except through the host filesystem it wraps.
type Facade struct {
	host       absfs.FileSystem
	nameCodec  *NameCodec
	contentKey []byte
	xattr      *xattrCodec
	suite      Suite
	blockSize  uint32
	ivSize     uint32
	check      bool
	pool       ParallelConfig
	logger     litelog.Logger
}

// xattrStore is the contract a host filesystem may optionally satisfy to
// expose extended attributes; the façade degrades to ENOTSUP against a
// host that doesn't.
type xattrStore interface {
	Getxattr(name, attr string) ([]byte, error)
	Setxattr(name, attr string, value []byte) error
	Listxattr(name string) ([]string, error)
	Removexattr(name, attr string) error
}

// New constructs a Facade directly over a host filesystem (typically the
// root directory handle of a mount). Most callers reach this indirectly
// through the per-thread cache (J); New is exposed for single-threaded
// embedding and tests.
func New(host absfs.FileSystem, cfg FSConfig) (*Facade, error) {
	if host == nil {
		return nil, &InvalidArgumentError{Field: "host", Message: "host filesystem cannot be nil"}
	}
	if cfg.Version == 0 {
		cfg.Version = mountVersion
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	nameKey, contentKey, xattrKey, err := splitMasterKey(cfg.MasterKey)
	if err != nil {
		return nil, err
	}
	codec, err := NewNameCodec(nameKey)
	if err != nil {
		return nil, err
	}
	xattrCodec, err := newXattrCodec(xattrKey)
	if err != nil {
		return nil, err
	}
	pool := cfg.Pool
	if pool == (ParallelConfig{}) {
		pool = DefaultParallelConfig()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = litelog.Null()
	}
	logger.Info("facade constructed",
		litelog.Uint32("block_size", cfg.BlockSize),
		litelog.Uint32("iv_size", cfg.IVSize))
	return &Facade{
		host:       host,
		nameCodec:  codec,
		contentKey: contentKey,
		xattr:      xattrCodec,
		suite:      cfg.Suite,
		blockSize:  cfg.BlockSize,
		ivSize:     cfg.IVSize,
		check:      cfg.Check,
		pool:       pool,
		logger:     logger,
	}, nil
}

// VfsStat pairs the host's name length limit with the f_namemax the
// façade advertises.
type VfsStat struct {
	HostNamemax int
	Namemax     int
}

// Statvfs takes the host's name length limit and returns it together with
// f_namemax adjusted per §4.F/§4.I, so callers never advertise a name
// length limit the codec's base32/synthetic-IV overhead can't actually
// deliver. It does not query the host itself.
func (fa *Facade) Statvfs(hostNamemax int) VfsStat {
	return VfsStat{HostNamemax: hostNamemax, Namemax: maxNameLen(hostNamemax)}
}

// Getxattr, Setxattr, Listxattr, and Removexattr implement §4.I's xattr
// handling: values are transparently encrypted under xattr_key, and the
// Apple-namespace names in appleShortCircuitNames are rejected outright
// rather than encrypted, matching the platform workaround the spec calls
// for.
func (fa *Facade) Getxattr(name, attr string) ([]byte, error) {
	if fa.xattr.isShortCircuited(attr) {
		return nil, fa.posixError("getxattr", name, 95)
	}
	store, ok := fa.host.(xattrStore)
	if !ok {
		return nil, fa.posixError("getxattr", name, 95)
	}
	enc, err := fa.encode(name)
	if err != nil {
		return nil, err
	}
	sealed, err := store.Getxattr(enc, attr)
	if err != nil {
		return nil, err
	}
	return fa.xattr.Decrypt(attr, sealed)
}

func (fa *Facade) Setxattr(name, attr string, value []byte) error {
	if fa.xattr.isShortCircuited(attr) {
		return fa.posixError("setxattr", name, 95)
	}
	store, ok := fa.host.(xattrStore)
	if !ok {
		return fa.posixError("setxattr", name, 95)
	}
	enc, err := fa.encode(name)
	if err != nil {
		return err
	}
	sealed, err := fa.xattr.Encrypt(attr, value)
	if err != nil {
		return err
	}
	return store.Setxattr(enc, attr, sealed)
}

func (fa *Facade) Listxattr(name string) ([]string, error) {
	store, ok := fa.host.(xattrStore)
	if !ok {
		return nil, fa.posixError("listxattr", name, 95)
	}
	enc, err := fa.encode(name)
	if err != nil {
		return nil, err
	}
	return store.Listxattr(enc)
}

func (fa *Facade) Removexattr(name, attr string) error {
	if fa.xattr.isShortCircuited(attr) {
		return fa.posixError("removexattr", name, 95)
	}
	store, ok := fa.host.(xattrStore)
	if !ok {
		return fa.posixError("removexattr", name, 95)
	}
	enc, err := fa.encode(name)
	if err != nil {
		return err
	}
	return store.Removexattr(enc, attr)
}

func (fa *Facade) encode(name string) (string, error) {
	return encodePath(fa.nameCodec, name)
}

// posixError logs and constructs a PosixError, centralizing the
// warn-then-return shape every ENOTSUP/host-capability fallback in this
// file uses.
func (fa *Facade) posixError(op, path string, errno int) *PosixError {
	fa.logger.Warn("posix error", litelog.String("op", op), litelog.String("path", path), litelog.Int("errno", errno))
	return &PosixError{Op: op, Path: path, Errno: errno}
}

// --- absfs.FileSystem ---

func (fa *Facade) Separator() uint8     { return fa.host.Separator() }
func (fa *Facade) ListSeparator() uint8 { return fa.host.ListSeparator() }
func (fa *Facade) TempDir() string      { return fa.host.TempDir() }

func (fa *Facade) Chdir(dir string) error {
	enc, err := fa.encode(dir)
	if err != nil {
		return err
	}
	return fa.host.Chdir(enc)
}

func (fa *Facade) Getwd() (string, error) {
	enc, err := fa.host.Getwd()
	if err != nil {
		return "", err
	}
	return decodePath(fa.nameCodec, enc)
}

func (fa *Facade) Open(name string) (absfs.File, error) {
	return fa.OpenFile(name, os.O_RDONLY, 0)
}

func (fa *Facade) Create(name string) (absfs.File, error) {
	return fa.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0666)
}

func (fa *Facade) OpenFile(name string, flag int, perm os.FileMode) (absfs.File, error) {
	enc, err := fa.encode(name)
	if err != nil {
		return nil, err
	}
	hostFile, err := fa.host.OpenFile(enc, flag, perm)
	if err != nil {
		return nil, err
	}
	f, err := newFile(hostFile, fa.contentKey, fa.suite, fa.blockSize, fa.ivSize, fa.check, fa.pool, fa.logger)
	if err != nil {
		hostFile.Close()
		return nil, err
	}
	return f, nil
}

func (fa *Facade) Mkdir(name string, perm os.FileMode) error {
	enc, err := fa.encode(name)
	if err != nil {
		return err
	}
	return fa.host.Mkdir(enc, perm)
}

func (fa *Facade) MkdirAll(name string, perm os.FileMode) error {
	enc, err := fa.encode(name)
	if err != nil {
		return err
	}
	return fa.host.MkdirAll(enc, perm)
}

func (fa *Facade) Remove(name string) error {
	enc, err := fa.encode(name)
	if err != nil {
		return err
	}
	return fa.host.Remove(enc)
}

func (fa *Facade) RemoveAll(path string) error {
	enc, err := fa.encode(path)
	if err != nil {
		return err
	}
	return fa.host.RemoveAll(enc)
}

func (fa *Facade) Rename(oldpath, newpath string) error {
	oldEnc, err := fa.encode(oldpath)
	if err != nil {
		return err
	}
	newEnc, err := fa.encode(newpath)
	if err != nil {
		return err
	}
	return fa.host.Rename(oldEnc, newEnc)
}

func (fa *Facade) Stat(name string) (os.FileInfo, error) {
	enc, err := fa.encode(name)
	if err != nil {
		return nil, err
	}
	info, err := fa.host.Stat(enc)
	if err != nil {
		return nil, err
	}
	return fa.translateStat(info)
}

func (fa *Facade) Chmod(name string, mode os.FileMode) error {
	enc, err := fa.encode(name)
	if err != nil {
		return err
	}
	return fa.host.Chmod(enc, mode)
}

func (fa *Facade) Chtimes(name string, atime, mtime time.Time) error {
	enc, err := fa.encode(name)
	if err != nil {
		return err
	}
	return fa.host.Chtimes(enc, atime, mtime)
}

func (fa *Facade) Chown(name string, uid, gid int) error {
	enc, err := fa.encode(name)
	if err != nil {
		return err
	}
	return fa.host.Chown(enc, uid, gid)
}

func (fa *Facade) Truncate(name string, size int64) error {
	enc, err := fa.encode(name)
	if err != nil {
		return err
	}
	f, err := fa.host.OpenFile(enc, os.O_RDWR, 0)
	if err != nil {
		return err
	}
	defer f.Close()
	wrapped, err := newFile(f, fa.contentKey, fa.suite, fa.blockSize, fa.ivSize, fa.check, fa.pool, fa.logger)
	if err != nil {
		return err
	}
	return wrapped.Truncate(size)
}

// translateStat reports the logical size in place of the host's
// ciphertext size, for directory entries reached without going through a
// File (e.g. plain Stat or readdir).
func (fa *Facade) translateStat(hostInfo os.FileInfo) (os.FileInfo, error) {
	if hostInfo.IsDir() {
		return hostInfo, nil
	}
	size := calcLogicalSize(hostInfo.Size(), fa.blockSize, fa.ivSize)
	return &logicalFileInfo{FileInfo: hostInfo, size: size}, nil
}

// Readdir implements §4.I's readdir: open the host directory, name-decode
// every entry, and skip entries that fail to decode (per §9's Open
// Question resolution, "." and ".." are always skipped here — the host
// API already synthesizes them where a caller needs them).
func (fa *Facade) Readdir(name string) ([]os.FileInfo, error) {
	enc, err := fa.encode(name)
	if err != nil {
		return nil, err
	}
	dir, err := fa.host.Open(enc)
	if err != nil {
		return nil, err
	}
	defer dir.Close()

	hostEntries, err := dir.Readdir(-1)
	if err != nil {
		return nil, err
	}

	out := make([]os.FileInfo, 0, len(hostEntries))
	for _, entry := range hostEntries {
		if entry.Name() == "." || entry.Name() == ".." {
			continue
		}
		plain, err := fa.nameCodec.DecodeComponent(entry.Name())
		if err != nil {
			continue
		}
		translated, err := fa.translateStat(entry)
		if err != nil {
			continue
		}
		out = append(out, &namedFileInfo{FileInfo: translated, name: plain})
	}
	return out, nil
}

// Symlink, Link, and Readlink encode the path arguments and, for
// symlinks, the target: symlink targets are stored as ciphertext on disk
// and surfaced as plaintext through the mount, per §4.I.
func (fa *Facade) Symlink(oldname, newname string) error {
	target, err := fa.nameCodec.EncodeComponent(oldname)
	if err != nil {
		return err
	}
	enc, err := fa.encode(newname)
	if err != nil {
		return err
	}
	type symlinker interface {
		Symlink(oldname, newname string) error
	}
	sl, ok := fa.host.(symlinker)
	if !ok {
		return fa.posixError("symlink", newname, 95) // ENOTSUP
	}
	return sl.Symlink(target, enc)
}

func (fa *Facade) Readlink(name string) (string, error) {
	enc, err := fa.encode(name)
	if err != nil {
		return "", err
	}
	type readlinker interface {
		Readlink(name string) (string, error)
	}
	rl, ok := fa.host.(readlinker)
	if !ok {
		return "", fa.posixError("readlink", name, 95)
	}
	target, err := rl.Readlink(enc)
	if err != nil {
		return "", err
	}
	return fa.nameCodec.DecodeComponent(target)
}

func (fa *Facade) Link(oldname, newname string) error {
	oldEnc, err := fa.encode(oldname)
	if err != nil {
		return err
	}
	newEnc, err := fa.encode(newname)
	if err != nil {
		return err
	}
	type linker interface {
		Link(oldname, newname string) error
	}
	ln, ok := fa.host.(linker)
	if !ok {
		return fa.posixError("link", newname, 95)
	}
	return ln.Link(oldEnc, newEnc)
}

// namedFileInfo overrides Name() so readdir surfaces the decoded
// plaintext component instead of the host's encoded one.
type namedFileInfo struct {
	os.FileInfo
	name string
}

func (i *namedFileInfo) Name() string { return i.name }
