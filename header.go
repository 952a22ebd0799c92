package litefs

// sessionKeyFor reads the 32-byte per-file header at the start of inner
// (generating and persisting a fresh random one if inner is empty) and
// derives the session key by AES-ECB encrypting it under contentKey (§3's
// construction; see ecb.go for why ECB is safe only here).
func sessionKeyFor(inner innerStream, contentKey []byte) ([]byte, error) {
	buf := make([]byte, headerSize)
	n, err := inner.ReadAt(buf, 0)
	if err != nil && n == 0 {
		// A fresh/empty file: io.EOF (or a short read) with n==0 means
		// there is no header yet.
		header := make([]byte, headerSize)
		if err := generateRandom(header); err != nil {
			return nil, err
		}
		if _, err := inner.WriteAt(header, 0); err != nil {
			return nil, err
		}
		return ecbEncrypt(contentKey, header)
	}
	if n != headerSize {
		return nil, &InvalidArgumentError{
			Field:   "header",
			Value:   n,
			Message: "per-file header must be exactly 32 bytes",
		}
	}
	return ecbEncrypt(contentKey, buf)
}
