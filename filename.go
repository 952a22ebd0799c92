package litefs

// NameCodec implements the deterministic, authenticated name
// transformation of §4.F: a single plaintext path component maps to a
// base32 ciphertext component that round-trips under the same name_key,
// hides the plaintext, and detects tampering or a wrong key.
type NameCodec struct {
	nameKey []byte
}

// NewNameCodec constructs a codec bound to the mount's name_key.
func NewNameCodec(nameKey []byte) (*NameCodec, error) {
	if len(nameKey) != NameKeySize {
		return nil, &InvalidArgumentError{Field: "name_key", Value: len(nameKey), Message: "name_key must be 32 bytes"}
	}
	return &NameCodec{nameKey: nameKey}, nil
}

// EncodeComponent implements §4.F/§6's wire format:
// base32(synth_iv[16] || ciphertext || tag[16]), with the synthetic IV
// derived from the plaintext itself via CMAC so that encryption is
// deterministic.
func (c *NameCodec) EncodeComponent(plaintext string) (string, error) {
	pt := []byte(plaintext)
	synthIV, err := cmacPRF(c.nameKey, pt)
	if err != nil {
		return "", err
	}
	synthIV = synthIV[:16]

	ct, tag, err := aeadEncrypt(SuiteAES256GCM, c.nameKey, synthIV, nil, pt)
	if err != nil {
		return "", err
	}

	wire := make([]byte, 0, len(synthIV)+len(ct)+len(tag))
	wire = append(wire, synthIV...)
	wire = append(wire, ct...)
	wire = append(wire, tag...)
	return base32Encode(wire), nil
}

// DecodeComponent reverses EncodeComponent, returning InvalidFormat (which
// callers translate to ENOENT for lookup-miss scenarios) on a malformed
// component or a failed verification.
func (c *NameCodec) DecodeComponent(encoded string) (string, error) {
	wire, err := base32Decode(encoded)
	if err != nil {
		return "", err
	}
	if len(wire) < 32 {
		return "", &InvalidFormatError{Value: encoded}
	}
	synthIV := wire[:16]
	ct := wire[16 : len(wire)-16]
	tag := wire[len(wire)-16:]

	plaintext, err := aeadDecrypt(SuiteAES256GCM, c.nameKey, synthIV, nil, ct, tag, "name component")
	if err != nil {
		return "", &InvalidFormatError{Value: encoded, Err: err}
	}
	return string(plaintext), nil
}

// maxNameLen implements §4.F's f_namemax formula: host_namemax*5/8 - 16
// accounts for base32's 8-for-5 inflation and the 16-byte synthetic IV
// overhead carried in every encoded component.
func maxNameLen(hostNamemax int) int {
	return hostNamemax*5/8 - 16
}
