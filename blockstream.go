package litefs

import "io"

// blockDevice is the internal contract a §4.D block-based stream needs from
// whatever specializes it. §4.E's AES-GCM crypt stream is the only
// implementation in this package, but keeping the abstraction separate
// mirrors the spec's own layering (D is generic over "an inner stream",
// E specializes it).
type blockDevice interface {
	blockSize() uint32
	readBlock(i uint32, out []byte) (int, error)
	writeBlock(i uint32, in []byte) error
	size() (int64, error)
	adjustLogicalSize(logicalSize int64) error
	isSparse() bool
}

// blockStream maps arbitrary-offset logical reads/writes onto the
// block-aligned reads/writes a blockDevice provides (§4.D).
type blockStream struct {
	dev    blockDevice
	pool   ParallelConfig
}

func newBlockStream(dev blockDevice, pool ParallelConfig) *blockStream {
	return &blockStream{dev: dev, pool: pool}
}

// Size returns the current logical size, per the dev's own accounting
// (§4.E computes it from the underlying stream's physical size via the §3
// formula).
func (bs *blockStream) Size() (int64, error) {
	return bs.dev.size()
}

// IsSparse reports whether the underlying stream preserves sparse holes.
func (bs *blockStream) IsSparse() bool {
	return bs.dev.isSparse()
}

// Flush is a no-op at this layer: every write already lands on the inner
// stream immediately. Callers that need durability call Sync on the file
// object, which reaches the host fsync below the inner stream.
func (bs *blockStream) Flush() error {
	return nil
}

// Read implements §4.D's read(buf, offset, n): reads the aligned blocks
// covering [offset, offset+len(p)), copies the overlapping slice of each
// into p, and returns however many bytes actually exist before EOF.
func (bs *blockStream) Read(p []byte, offset int64) (int, error) {
	if err := validateOffset(offset); err != nil {
		return 0, err
	}
	if len(p) == 0 {
		return 0, nil
	}

	size, err := bs.dev.size()
	if err != nil {
		return 0, err
	}
	if offset >= size {
		return 0, io.EOF
	}

	bsz := int64(bs.dev.blockSize())
	end := offset + int64(len(p))
	if end > size {
		end = size
	}
	firstBlock := uint64(offset / bsz)
	lastBlock := uint64((end - 1) / bsz)
	if err := validateBlockIndex(lastBlock); err != nil {
		return 0, err
	}

	total := 0
	for i := firstBlock; i <= lastBlock; i++ {
		tmp := make([]byte, bsz)
		n, err := bs.dev.readBlock(uint32(i), tmp)
		if err != nil {
			return total, err
		}
		blockStart := int64(i) * bsz
		lo := offset
		if blockStart > lo {
			lo = blockStart
		}
		hi := end
		if blockStart+int64(n) < hi {
			hi = blockStart + int64(n)
		}
		if hi > lo {
			copy(p[lo-offset:hi-offset], tmp[lo-blockStart:hi-blockStart])
			if int(hi-offset) > total {
				total = int(hi - offset)
			}
		}
	}
	return total, nil
}

// Write implements §4.D's write(buf, offset, n), including the
// "gap filled with zero plaintext" rule: any blocks between the old
// end-of-file and offset are read-modify-written as (possibly all-zero)
// full blocks so that a subsequent size() reflects the extension and a
// subsequent read of the gap returns zeros.
func (bs *blockStream) Write(p []byte, offset int64) (int, error) {
	if err := validateOffset(offset); err != nil {
		return 0, err
	}
	if len(p) == 0 {
		return 0, nil
	}

	curSize, err := bs.dev.size()
	if err != nil {
		return 0, err
	}
	bsz := int64(bs.dev.blockSize())
	end := offset + int64(len(p))
	newSize := curSize
	if end > newSize {
		newSize = end
	}

	start := uint64(offset / bsz)
	if offset > curSize {
		start = uint64(curSize / bsz)
	}
	newLastBlock := uint64(0)
	if newSize > 0 {
		newLastBlock = uint64((newSize - 1) / bsz)
	}
	if err := validateBlockIndex(newLastBlock); err != nil {
		return 0, err
	}

	jobs := make([]blockJob, 0, newLastBlock-start+1)
	for i := start; i <= newLastBlock; i++ {
		i := i
		jobs = append(jobs, blockJob{index: uint32(i), do: func() error {
			tmp := make([]byte, bsz)
			n, err := bs.dev.readBlock(uint32(i), tmp)
			if err != nil {
				return err
			}
			plain := make([]byte, bsz)
			copy(plain, tmp[:n])

			blockStart := int64(i) * bsz
			blockEnd := blockStart + bsz
			if blockEnd > offset && blockStart < end {
				woff := int64(0)
				if offset > blockStart {
					woff = offset - blockStart
				}
				srcStart := blockStart + woff - offset
				count := bsz - woff
				if remaining := int64(len(p)) - srcStart; remaining < count {
					count = remaining
				}
				copy(plain[woff:woff+count], p[srcStart:srcStart+count])
			}

			thisLen := bsz
			if i == newLastBlock {
				thisLen = newSize - blockStart
			}
			return bs.dev.writeBlock(uint32(i), plain[:thisLen])
		}})
	}

	if err := runBlockJobs(bs.pool, jobs); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Resize implements §4.D's resize(new_size): growing zero-fills every block
// between the old end-of-file and the new size, one block at a time (the
// parallel pool Write uses is not involved); shrinking rewrites the new tail block
// through the standard read-modify-write path (so its tag stays valid) and
// then asks the device to adjust its physical length.
func (bs *blockStream) Resize(newSize int64) error {
	if newSize < 0 {
		return &InvalidArgumentError{Field: "size", Value: newSize, Message: "size cannot be negative"}
	}
	curSize, err := bs.dev.size()
	if err != nil {
		return err
	}
	if newSize == curSize {
		return nil
	}
	bsz := int64(bs.dev.blockSize())

	if newSize < curSize {
		if newSize > 0 {
			newLastBlock := uint32((newSize - 1) / bsz)
			tmp := make([]byte, bsz)
			_, err := bs.dev.readBlock(newLastBlock, tmp)
			if err != nil {
				return err
			}
			// tmp is zero past the bytes readBlock filled, so a tail block
			// shorter than thisLen is written back padded with zeros.
			thisLen := newSize - int64(newLastBlock)*bsz
			if err := bs.dev.writeBlock(newLastBlock, tmp[:thisLen]); err != nil {
				return err
			}
		}
		return bs.dev.adjustLogicalSize(newSize)
	}

	// Grow: zero-fill every block between the old EOF and the new size.
	start := uint32(0)
	if curSize > 0 {
		start = uint32(curSize / bsz)
	}
	newLastBlock := uint32(0)
	if newSize > 0 {
		newLastBlock = uint32((newSize - 1) / bsz)
	}
	for i := start; i <= newLastBlock; i++ {
		tmp := make([]byte, bsz)
		n, err := bs.dev.readBlock(i, tmp)
		if err != nil {
			return err
		}
		plain := make([]byte, bsz)
		copy(plain, tmp[:n])
		thisLen := int64(bsz)
		if i == newLastBlock {
			thisLen = newSize - int64(i)*bsz
		}
		if err := bs.dev.writeBlock(i, plain[:thisLen]); err != nil {
			return err
		}
	}
	return nil
}
