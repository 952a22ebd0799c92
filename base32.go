package litefs

import (
	"encoding/base32"
	"errors"
)

// nameEncoding is the RFC 4648 base32 alphabet (A-Z, 2-7) with padding
// disabled, matching §6's wire format for encrypted path components. No
// third-party base32 codec appears anywhere in the retrieved corpus, so
// this wraps the standard library's encoding/base32 rather than hand-rolling
// one (see DESIGN.md).
var nameEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// base32Encode renders b in the no-padding RFC 4648 alphabet.
func base32Encode(b []byte) string {
	return nameEncoding.EncodeToString(b)
}

// base32Decode is the strict inverse of base32Encode: any symbol outside the
// alphabet, or a non-canonical trailing group, fails with an
// InvalidFormatError.
func base32Decode(s string) ([]byte, error) {
	b, err := nameEncoding.DecodeString(s)
	if err != nil {
		return nil, &InvalidFormatError{Value: s, Err: err}
	}
	if nameEncoding.EncodeToString(b) != s {
		return nil, &InvalidFormatError{Value: s, Err: errors.New("non-canonical base32 encoding")}
	}
	return b, nil
}
