package litefs

import (
	"fmt"
	"io"
	"os"

	"github.com/absfs/litefs/internal/litelog"
)

// innerStream is the random-access byte stream the crypt stream reads and
// writes underlying ciphertext through — the subset of absfs.File this
// package actually needs.
type innerStream interface {
	io.ReaderAt
	io.WriterAt
	Truncate(size int64) error
	Stat() (os.FileInfo, error)
	Sync() error
}

// cryptStream specializes the block-based stream abstraction (§4.D) with
// the AES-GCM per-block layout of §4.E: a 32-byte random header, then a
// sequence of `iv | ciphertext | tag` blocks bound to their index via AAD.
type cryptStream struct {
	inner      innerStream
	suite      Suite
	sessionKey []byte
	bs         uint32 // block_size
	ivs        uint32 // iv_size
	check      bool
	logger     litelog.Logger
}

// newCryptStream constructs the crypt stream, reading (or, for an empty
// inner stream, generating and persisting) the per-file header and
// deriving the session key from it.
func newCryptStream(inner innerStream, contentKey []byte, suite Suite, blockSize, ivSize uint32, check bool, logger litelog.Logger) (*cryptStream, error) {
	if blockSize < minBlockSize {
		return nil, &InvalidArgumentError{Field: "block_size", Value: blockSize, Message: "block_size too small"}
	}
	if ivSize < minIVSize || ivSize > maxIVSize {
		return nil, &InvalidArgumentError{Field: "iv_size", Value: ivSize, Message: "iv_size out of range"}
	}
	if logger == nil {
		logger = litelog.Null()
	}
	sessionKey, err := sessionKeyFor(inner, contentKey)
	if err != nil {
		return nil, err
	}
	return &cryptStream{
		inner:      inner,
		suite:      suite,
		sessionKey: sessionKey,
		bs:         blockSize,
		ivs:        ivSize,
		check:      check,
		logger:     logger,
	}, nil
}

func (cs *cryptStream) blockSize() uint32 { return cs.bs }

func (cs *cryptStream) underlyingBlockSize() uint32 {
	return cs.bs + cs.ivs + macSize
}

func (cs *cryptStream) isSparse() bool { return true }

// readBlock implements §4.E's read_block.
func (cs *cryptStream) readBlock(i uint32, out []byte) (int, error) {
	if err := validateBlockIndex(uint64(i)); err != nil {
		return 0, err
	}
	ubs := int(cs.underlyingBlockSize())
	raw := make([]byte, ubs)
	off := int64(headerSize) + int64(i)*int64(ubs)
	n, err := cs.inner.ReadAt(raw, off)
	if err != nil && err != io.EOF {
		return 0, err
	}
	if n <= int(cs.ivs)+macSize {
		return 0, nil // past EOF
	}
	raw = raw[:n]

	if isAllZero(raw) {
		plainLen := n - int(cs.ivs) - macSize
		for j := 0; j < plainLen; j++ {
			out[j] = 0
		}
		return plainLen, nil
	}

	iv := raw[:cs.ivs]
	ct := raw[cs.ivs : n-macSize]
	tag := raw[n-macSize:]
	aad := make([]byte, 4)
	putUint32LE(aad, i)

	plaintext, err := aeadDecrypt(cs.suite, cs.sessionKey, iv, aad, ct, tag, fmt.Sprintf("block %d", i))
	if err != nil {
		cs.logger.Error("block verification failed", litelog.Uint32("block", i), litelog.Err(err))
		// §9's diagnostic check=false mode returns decrypted plaintext even
		// on a failed verification in the original source. That bypass is
		// explicitly flagged as dangerous and "do not extend"; this port
		// does not implement the tagless decrypt path that would require
		// (see DESIGN.md) and instead always enforces verification,
		// regardless of Check.
		return 0, err
	}
	copy(out, plaintext)
	return len(plaintext), nil
}

// writeBlock implements §4.E's write_block.
func (cs *cryptStream) writeBlock(i uint32, in []byte) error {
	if err := validateBlockIndex(uint64(i)); err != nil {
		return err
	}
	ubs := int(cs.underlyingBlockSize())
	off := int64(headerSize) + int64(i)*int64(ubs)

	if isAllZero(in) {
		zeros := make([]byte, len(in)+int(cs.ivs)+macSize)
		_, err := cs.inner.WriteAt(zeros, off)
		return err
	}

	var iv []byte
	for {
		iv = make([]byte, cs.ivs)
		if err := generateRandom(iv); err != nil {
			return err
		}
		if !isAllZero(iv) {
			break
		}
	}
	aad := make([]byte, 4)
	putUint32LE(aad, i)
	ct, tag, err := aeadEncrypt(cs.suite, cs.sessionKey, iv, aad, in)
	if err != nil {
		return err
	}
	out := make([]byte, 0, len(iv)+len(ct)+len(tag))
	out = append(out, iv...)
	out = append(out, ct...)
	out = append(out, tag...)
	_, err = cs.inner.WriteAt(out, off)
	return err
}

// size implements §3's logical/underlying size correspondence.
func (cs *cryptStream) size() (int64, error) {
	info, err := cs.inner.Stat()
	if err != nil {
		return 0, err
	}
	return calcLogicalSize(info.Size(), cs.bs, cs.ivs), nil
}

// adjustLogicalSize implements §4.E's adjust_logical_size: it only ever
// resizes the underlying stream's physical length, never re-encrypts
// retained bytes. Callers (blockStream.Resize) are responsible for having
// already rewritten the new tail block through the normal
// read-modify-write path before calling this on a non-aligned shrink.
func (cs *cryptStream) adjustLogicalSize(logicalSize int64) error {
	q := logicalSize / int64(cs.bs)
	r := logicalSize % int64(cs.bs)
	newUnderlying := int64(headerSize) + q*int64(cs.underlyingBlockSize())
	if r > 0 {
		newUnderlying += r + int64(cs.ivs) + macSize
	}
	return cs.inner.Truncate(newUnderlying)
}

// calcLogicalSize ports securefs's lite_stream.cpp calculate_real_size
// exactly, including its strict `residue > iv_size+mac_size` comparison.
func calcLogicalSize(underlyingSize int64, blockSize, ivSize uint32) int64 {
	if underlyingSize <= int64(headerSize) {
		return 0
	}
	u := underlyingSize - int64(headerSize)
	ubs := int64(blockSize) + int64(ivSize) + int64(macSize)
	n := u / ubs
	r := u % ubs
	logical := n * int64(blockSize)
	if r > int64(ivSize)+macSize {
		logical += r - int64(ivSize) - macSize
	}
	return logical
}
