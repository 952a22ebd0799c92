package litefs

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// Suite selects the AEAD primitive used for content and xattr encryption.
// version==4 mounts (§6) default to SuiteAES256GCM (the zero value) for
// wire-format compatibility; SuiteChaCha20Poly1305 is an additive option a new mount may
// select, generalizing the teacher's CipherEngine/NewCipherEngine dispatch
// over a caller-supplied IV and AAD rather than a fixed per-engine nonce.
type Suite uint8

const (
	SuiteAES256GCM Suite = iota
	SuiteChaCha20Poly1305
)

func (s Suite) String() string {
	switch s {
	case SuiteAES256GCM:
		return "aes-256-gcm"
	case SuiteChaCha20Poly1305:
		return "chacha20-poly1305"
	default:
		return "unknown"
	}
}

const tagSize = 16

// newAEAD constructs the cipher.AEAD for suite/key/ivSize. AES-GCM accepts
// any IV length the caller asks for via the standard GCM IV-hashing
// procedure (cipher.NewGCMWithNonceSize); ChaCha20-Poly1305 only defines
// 12- and 24-byte (XChaCha20-Poly1305) nonces.
func newAEAD(suite Suite, key []byte, ivSize int) (cipher.AEAD, error) {
	switch suite {
	case SuiteAES256GCM:
		if len(key) != 16 && len(key) != 32 {
			return nil, &InvalidArgumentError{Field: "key", Value: len(key), Message: "AES-GCM key must be 16 or 32 bytes"}
		}
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, fmt.Errorf("litefs: aes cipher: %w", err)
		}
		return cipher.NewGCMWithNonceSize(block, ivSize)
	case SuiteChaCha20Poly1305:
		switch ivSize {
		case chacha20poly1305.NonceSize:
			return chacha20poly1305.New(key)
		case chacha20poly1305.NonceSizeX:
			return chacha20poly1305.NewX(key)
		default:
			return nil, &InvalidArgumentError{Field: "iv_size", Value: ivSize, Message: "chacha20-poly1305 supports only 12- or 24-byte nonces"}
		}
	default:
		return nil, &InvalidArgumentError{Field: "suite", Value: suite, Message: "unsupported AEAD suite"}
	}
}

// aeadEncrypt implements §4.C's encrypt(key, iv, aad, plaintext) ->
// (ciphertext, tag), splitting the combined Seal output Go's cipher.AEAD
// produces into the two halves the on-disk layout keeps separate.
func aeadEncrypt(suite Suite, key, iv, aad, plaintext []byte) (ciphertext, tag []byte, err error) {
	aead, err := newAEAD(suite, key, len(iv))
	if err != nil {
		return nil, nil, err
	}
	if len(iv) != aead.NonceSize() {
		return nil, nil, &InvalidArgumentError{Field: "iv", Value: len(iv), Message: "iv length does not match AEAD nonce size"}
	}
	sealed := aead.Seal(nil, iv, plaintext, aad)
	n := len(sealed) - aead.Overhead()
	return sealed[:n], sealed[n:], nil
}

// aeadDecrypt implements §4.C's decrypt(key, iv, aad, ciphertext, tag) ->
// plaintext, failing with a MessageVerificationError on tag mismatch.
func aeadDecrypt(suite Suite, key, iv, aad, ciphertext, tag []byte, context string) ([]byte, error) {
	aead, err := newAEAD(suite, key, len(iv))
	if err != nil {
		return nil, err
	}
	if len(iv) != aead.NonceSize() {
		return nil, &InvalidArgumentError{Field: "iv", Value: len(iv), Message: "iv length does not match AEAD nonce size"}
	}
	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)
	plaintext, err := aead.Open(nil, iv, sealed, aad)
	if err != nil {
		return nil, &MessageVerificationError{Context: context}
	}
	return plaintext, nil
}
