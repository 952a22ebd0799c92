// Package config implements the password/key-loader collaborator §6
// describes as external to the core: it turns a password and an on-disk
// config file into the FSConfig mount parameters litefs.New accepts. The
// core never imports this package; the CLI does.
package config

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/pbkdf2"
)

// MasterKeySize matches litefs.MasterKeySize (name_key || content_key ||
// xattr_key), duplicated here so this package has no import-cycle-prone
// dependency on the core for a single constant.
const MasterKeySize = 96

// KDF selects the password-based key derivation function backing a
// config file.
type KDF uint8

const (
	KDFArgon2id KDF = iota
	KDFPBKDF2SHA256
)

func (k KDF) String() string {
	switch k {
	case KDFArgon2id:
		return "argon2id"
	case KDFPBKDF2SHA256:
		return "pbkdf2-sha256"
	default:
		return "unknown"
	}
}

// Argon2idParams mirrors the teacher's Argon2idParams, scaled to derive
// the core's 96-byte master key instead of a single 32-byte key.
type Argon2idParams struct {
	Memory      uint32 `json:"memory"`
	Iterations  uint32 `json:"iterations"`
	Parallelism uint8  `json:"parallelism"`
}

func defaultArgon2idParams() Argon2idParams {
	return Argon2idParams{Memory: 64 * 1024, Iterations: 3, Parallelism: 4}
}

// PBKDF2Params mirrors the teacher's PBKDF2Params.
type PBKDF2Params struct {
	Iterations int `json:"iterations"`
}

func defaultPBKDF2Params() PBKDF2Params {
	return PBKDF2Params{Iterations: 200000}
}

// File is the on-disk config file format: everything DeriveMasterKey needs
// to rederive the master key from a password, plus the mount's block
// parameters. KeyID tags the file so a CLI can report which config
// produced a given mount without exposing the key itself.
type File struct {
	KeyID     string          `json:"key_id"`
	KDF       KDF             `json:"kdf"`
	Salt      []byte          `json:"salt"`
	Argon2id  Argon2idParams  `json:"argon2id,omitempty"`
	PBKDF2    PBKDF2Params    `json:"pbkdf2,omitempty"`
	BlockSize uint32          `json:"block_size"`
	IVSize    uint32          `json:"iv_size"`
	Version   uint32          `json:"version"`
}

// New creates a fresh config file's contents for a new mount: a random
// salt, default KDF parameters, and the given block parameters.
func New(kdf KDF, blockSize, ivSize uint32) (*File, error) {
	salt := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("litefs/config: generate salt: %w", err)
	}
	return &File{
		KeyID:     uuid.New().String(),
		KDF:       kdf,
		Salt:      salt,
		Argon2id:  defaultArgon2idParams(),
		PBKDF2:    defaultPBKDF2Params(),
		BlockSize: blockSize,
		IVSize:    ivSize,
		Version:   4,
	}, nil
}

// Load reads and parses a config file from path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("litefs/config: parse %s: %w", path, err)
	}
	return &f, nil
}

// Save writes the config file to path as indented JSON.
func (f *File) Save(path string) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// DeriveMasterKey runs the configured KDF against password and this
// file's salt/parameters, producing the 96-byte master key
// (name_key || content_key || xattr_key) the core's FSConfig expects.
func (f *File) DeriveMasterKey(password []byte) ([]byte, error) {
	if len(password) == 0 {
		return nil, fmt.Errorf("litefs/config: password cannot be empty")
	}
	if len(f.Salt) == 0 {
		return nil, fmt.Errorf("litefs/config: salt cannot be empty")
	}

	switch f.KDF {
	case KDFArgon2id:
		p := f.Argon2id
		if p.Memory == 0 {
			p = defaultArgon2idParams()
		}
		return argon2.IDKey(password, f.Salt, p.Iterations, p.Memory, p.Parallelism, MasterKeySize), nil
	case KDFPBKDF2SHA256:
		p := f.PBKDF2
		if p.Iterations == 0 {
			p = defaultPBKDF2Params()
		}
		return pbkdf2.Key(password, f.Salt, p.Iterations, MasterKeySize, sha256.New), nil
	default:
		return nil, fmt.Errorf("litefs/config: unsupported kdf %v", f.KDF)
	}
}
