package litefs

import "github.com/absfs/litefs/internal/litelog"

// Key sizes (§3): the master key is three 32-byte subkeys concatenated.
const (
	NameKeySize    = 32
	ContentKeySize = 32
	XattrKeySize   = 32
	MasterKeySize  = NameKeySize + ContentKeySize + XattrKeySize

	headerSize = 32 // per-file random header, at underlying offset 0
	macSize    = tagSize

	minBlockSize = 32
	minIVSize    = 12
	maxIVSize    = 32
	maxBlockIdx  = 1<<31 - 1

	mountVersion = 4 // the core accepts only version == 4 (§6)
)

// FSConfig is the mount-parameter contract an external config loader
// populates (§6): `{root, master_key, block_size, iv_size, flags, version}`.
// The root directory handle itself is passed separately to New, since it is
// typically supplied by whatever opened the host filesystem, not parsed
// out of a config file.
type FSConfig struct {
	MasterKey []byte // 96 bytes: name_key || content_key || xattr_key
	BlockSize uint32
	IVSize    uint32
	Flags     uint32
	Version   uint32

	// Suite selects the content/xattr AEAD primitive. Zero value
	// (SuiteAES256GCM) is the version==4 wire-compatible default;
	// SuiteChaCha20Poly1305 is additive and only meaningful for new mounts.
	Suite Suite

	// Check is carried through to every crypt stream but does not change
	// its behaviour: a block that fails AEAD verification always fails the
	// read, whatever Check holds. New keeps the value as given (the zero
	// value is false); the CLI always sets it to true.
	Check bool

	// Pool tunes parallel block processing for large writes. The
	// zero value is replaced with DefaultParallelConfig() by New.
	Pool ParallelConfig

	// Logger receives the core's info/warn/error/trace events (§6). A nil
	// Logger is replaced with litelog.Null() by New, so the core never has
	// to nil-check it.
	Logger litelog.Logger
}

// underlyingBlockSize returns block_size + iv_size + mac_size.
func (c FSConfig) underlyingBlockSize() uint32 {
	return c.BlockSize + c.IVSize + macSize
}

// splitMasterKey slices a 96-byte master key into its three 32-byte
// subkeys, matching securefs's get_local_filesystem key slicing exactly
// (name_key, content_key, xattr_key in that order).
func splitMasterKey(master []byte) (nameKey, contentKey, xattrKey []byte, err error) {
	if len(master) != MasterKeySize {
		return nil, nil, nil, &InvalidArgumentError{
			Field:   "master_key",
			Value:   len(master),
			Message: "master key must be 96 bytes",
		}
	}
	nameKey = master[0:NameKeySize]
	contentKey = master[NameKeySize : NameKeySize+ContentKeySize]
	xattrKey = master[NameKeySize+ContentKeySize:]
	return nameKey, contentKey, xattrKey, nil
}
