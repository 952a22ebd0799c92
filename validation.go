package litefs

import "fmt"

// validate checks an FSConfig against §3's mount-wide parameter bounds and
// §6's version contract, mirroring the teacher's defensive-validation style
// (small named checks returning a typed InvalidArgumentError) rather than a
// single monolithic check.
func (c FSConfig) validate() error {
	if err := validateMasterKey(c.MasterKey); err != nil {
		return err
	}
	if c.Version != mountVersion {
		return &InvalidArgumentError{
			Field:   "version",
			Value:   c.Version,
			Message: fmt.Sprintf("core accepts only version %d", mountVersion),
		}
	}
	if c.BlockSize < minBlockSize {
		return &InvalidArgumentError{
			Field:   "block_size",
			Value:   c.BlockSize,
			Message: fmt.Sprintf("block_size must be at least %d", minBlockSize),
		}
	}
	if c.IVSize < minIVSize || c.IVSize > maxIVSize {
		return &InvalidArgumentError{
			Field:   "iv_size",
			Value:   c.IVSize,
			Message: fmt.Sprintf("iv_size must be between %d and %d", minIVSize, maxIVSize),
		}
	}
	return nil
}

func validateMasterKey(key []byte) error {
	if len(key) != MasterKeySize {
		return &InvalidArgumentError{
			Field:   "master_key",
			Value:   len(key),
			Message: fmt.Sprintf("master key must be %d bytes", MasterKeySize),
		}
	}
	return nil
}

// validateBlockIndex rejects a block index beyond 2^31-1 (§3, §4.E).
func validateBlockIndex(i uint64) error {
	if i > maxBlockIdx {
		return &StreamTooLongError{BlockIndex: i}
	}
	return nil
}

// validateOffset rejects a negative byte offset, the one universal
// precondition every read/write entry point shares.
func validateOffset(offset int64) error {
	if offset < 0 {
		return &InvalidArgumentError{Field: "offset", Value: offset, Message: "offset cannot be negative"}
	}
	return nil
}
