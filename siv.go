package litefs

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/binary"
)

// The CMAC construction below backs the name codec's synthetic-IV PRF
// (§4.F): synth_iv = truncate(CMAC(name_key, plaintext), 16). It is kept
// from RFC 5297's S2V/CMAC building blocks rather than RFC 5297's full
// AES-SIV-CTR scheme, since the wire format this repo targets is AES-GCM
// keyed by the synthetic IV, not SIV-CTR.

// cmacPRF computes CMAC(key, data) using AES as the underlying block
// cipher, per NIST SP 800-38B.
func cmacPRF(key, data []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cmac(block, data), nil
}

func cmac(block cipher.Block, data []byte) []byte {
	k1, k2 := generateSubkeys(block)

	n := (len(data) + 15) / 16
	if n == 0 {
		n = 1
	}

	lastBlock := make([]byte, 16)
	if len(data) == 0 || len(data)%16 != 0 {
		copy(lastBlock, data[16*(n-1):])
		lastBlock = pad(lastBlock[:len(data)-16*(n-1)])
		xorBytes(lastBlock, k2)
	} else {
		copy(lastBlock, data[16*(n-1):])
		xorBytes(lastBlock, k1)
	}

	mac := make([]byte, 16)
	for i := 0; i < n-1; i++ {
		chunk := data[i*16 : (i+1)*16]
		xorBytes(mac, chunk)
		block.Encrypt(mac, mac)
	}
	xorBytes(mac, lastBlock)
	block.Encrypt(mac, mac)

	return mac
}

// dbl implements doubling in GF(2^128), used to derive CMAC's subkeys.
func dbl(block []byte) []byte {
	result := make([]byte, 16)
	carry := uint64(0)

	for i := 0; i < 2; i++ {
		offset := (1 - i) * 8
		val := binary.BigEndian.Uint64(block[offset : offset+8])
		newVal := (val << 1) | carry
		binary.BigEndian.PutUint64(result[offset:offset+8], newVal)
		carry = val >> 63
	}

	if carry != 0 {
		result[15] ^= 0x87
	}

	return result
}

// pad applies CMAC's 10* padding to a final partial block.
func pad(data []byte) []byte {
	result := make([]byte, 16)
	copy(result, data)
	result[len(data)] = 0x80
	return result
}

// xorBytes XORs b into a in place.
func xorBytes(a, b []byte) {
	for i := 0; i < len(a) && i < len(b); i++ {
		a[i] ^= b[i]
	}
}

// generateSubkeys derives CMAC's k1/k2 subkeys from the block cipher's
// encryption of the all-zero block.
func generateSubkeys(block cipher.Block) ([]byte, []byte) {
	l := make([]byte, 16)
	block.Encrypt(l, l)

	k1 := dbl(l)
	k2 := dbl(k1)

	return k1, k2
}
