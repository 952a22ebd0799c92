package litefs

import "crypto/aes"

// ecbEncrypt forward-encrypts src one 16-byte AES block at a time with no
// chaining. Go's crypto/cipher deliberately provides no ECB
// cipher.BlockMode (ECB leaks block-level equality, which is unsafe for
// general-purpose encryption), so this is hand-rolled directly against
// crypto/aes.Block.Encrypt. It is used for exactly one thing: deriving a
// file's session key by encrypting its random, single-use, never-reused
// header (§3, §9) — a case ECB's weaknesses do not apply to. This must
// never be used to decrypt, and never reused for anything that touches
// attacker-influenced or repeated plaintext.
func ecbEncrypt(key, src []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	bs := block.BlockSize()
	if len(src)%bs != 0 {
		return nil, &InvalidArgumentError{Field: "header", Value: len(src), Message: "header length must be a multiple of the AES block size"}
	}
	dst := make([]byte, len(src))
	for off := 0; off < len(src); off += bs {
		block.Encrypt(dst[off:off+bs], src[off:off+bs])
	}
	return dst, nil
}
