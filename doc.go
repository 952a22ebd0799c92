// Package litefs implements the "lite format" encrypting filesystem: a
// block-based AES-GCM content stream, deterministic name encryption, and a
// façade that binds both to a host absfs.FileSystem so applications see a
// plaintext tree while the host directory holds only authenticated
// ciphertext.
//
// # Overview
//
// litefs implements the absfs.FileSystem interface, allowing it to wrap any
// absfs-compatible filesystem (a real one, or an in-memory one such as
// absfs/memfs for tests) and transparently encrypt file contents, file
// names, and extended attributes.
//
// # On-disk format
//
// Each host file begins with a 32-byte random header. AES-ECB encrypting
// that header under the mount's content key yields the file's session key;
// the header is never reused and never decrypted back, only encrypted
// forward (see DESIGN.md for why ECB is safe here and nowhere else). After
// the header, the file is a sequence of blocks, each `iv | ciphertext |
// tag`, with the block index bound in as AEAD associated data so blocks
// cannot be reordered or transplanted between files. An all-zero block
// region is a sparse hole: writes of all-zero plaintext are persisted
// zero-filled and reads of zero-filled regions skip decryption entirely.
//
// File names are encrypted deterministically: a synthetic IV derived from
// the plaintext name itself (so lookups round-trip) feeds AES-GCM, and the
// result is base32-encoded using the RFC 4648 alphabet with no padding.
//
// # Basic usage
//
//	host, _ := memfs.NewFS()
//	cfg := litefs.FSConfig{
//	    MasterKey: masterKey, // 96 bytes: name_key || content_key || xattr_key
//	    BlockSize: 4096,
//	    IVSize:    12,
//	    Version:   4,
//	}
//	fs, err := litefs.New(host, cfg)
//	f, _ := fs.Create("/secret.txt")
//	f.Write([]byte("this will be encrypted on disk"))
//	f.Close()
//
// Deriving MasterKey from a password, parsing CLI arguments, and mounting
// the result behind a real FUSE binding are outside this package's scope;
// see litefs/config and cmd/litefs for the ambient pieces that supply them.
//
// # Not protected against
//
// Memory dumps of decrypted buffers, side-channel attacks, a compromised
// host, and metadata leakage (file sizes and access patterns remain
// visible on the host, as with any block-level encryption scheme).
package litefs
