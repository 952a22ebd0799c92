package litefs

// Extended attributes are encrypted with xattr_key using a synthetic IV
// derived from the attribute name (§3, §4.I), the same AEAD-SIV
// construction the name codec uses for path components.

// appleShortCircuitNames lists the Apple-namespace attributes that get
// short-circuited as unsupported rather than encrypted, matching the
// platform workaround called out in §4.I.
var appleShortCircuitNames = map[string]bool{
	"com.apple.quarantine":  true,
	"com.apple.FinderInfo":  true,
}

// xattrCodec encrypts and decrypts extended-attribute values under
// xattr_key, keyed by the (plaintext) attribute name so that renaming an
// attribute cannot silently reuse another attribute's ciphertext.
type xattrCodec struct {
	xattrKey []byte
}

func newXattrCodec(xattrKey []byte) (*xattrCodec, error) {
	if len(xattrKey) != XattrKeySize {
		return nil, &InvalidArgumentError{Field: "xattr_key", Value: len(xattrKey), Message: "xattr_key must be 32 bytes"}
	}
	return &xattrCodec{xattrKey: xattrKey}, nil
}

// isShortCircuited reports whether name should be rejected as ENOTSUP
// before ever reaching encryption, per the Apple-namespace workaround.
func (x *xattrCodec) isShortCircuited(name string) bool {
	return appleShortCircuitNames[name]
}

// Encrypt seals value under a synthetic IV derived from name, so the same
// (name, value) pair always produces the same ciphertext.
func (x *xattrCodec) Encrypt(name string, value []byte) ([]byte, error) {
	synthIV, err := cmacPRF(x.xattrKey, []byte(name))
	if err != nil {
		return nil, err
	}
	synthIV = synthIV[:16]
	ct, tag, err := aeadEncrypt(SuiteAES256GCM, x.xattrKey, synthIV, []byte(name), value)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(ct)+len(tag))
	out = append(out, ct...)
	out = append(out, tag...)
	return out, nil
}

// Decrypt reverses Encrypt, re-deriving the same synthetic IV from name.
func (x *xattrCodec) Decrypt(name string, sealed []byte) ([]byte, error) {
	if len(sealed) < tagSize {
		return nil, &InvalidFormatError{Value: name}
	}
	synthIV, err := cmacPRF(x.xattrKey, []byte(name))
	if err != nil {
		return nil, err
	}
	synthIV = synthIV[:16]
	ct := sealed[:len(sealed)-tagSize]
	tag := sealed[len(sealed)-tagSize:]
	return aeadDecrypt(SuiteAES256GCM, x.xattrKey, synthIV, []byte(name), ct, tag, "xattr "+name)
}
