package litefs

import (
	"bytes"
	"io"
	"testing"
)

func newTestBlockStream(t *testing.T, blockSize, ivSize uint32) (*blockStream, *memInnerStream) {
	t.Helper()
	cs, inner := newTestCryptStream(t, blockSize, ivSize)
	return newBlockStream(cs, DefaultParallelConfig()), inner
}

func TestBlockStreamWriteReadRoundTrip(t *testing.T) {
	bs, _ := newTestBlockStream(t, 32, 12)
	data := []byte("hello, this spans several blocks of thirty-two bytes each")

	n, err := bs.Write(data, 0)
	if err != nil {
		t.Fatal(err)
	}
	if n != len(data) {
		t.Fatalf("wrote %d bytes, want %d", n, len(data))
	}

	out := make([]byte, len(data))
	n, err = bs.Read(out, 0)
	if err != nil && err != io.EOF {
		t.Fatal(err)
	}
	if n != len(data) || !bytes.Equal(out, data) {
		t.Errorf("read back %q (n=%d), want %q", out[:n], n, data)
	}
}

func TestBlockStreamScenarioA(t *testing.T) {
	bs, _ := newTestBlockStream(t, 4096, 12)
	if _, err := bs.Write([]byte("hello"), 0); err != nil {
		t.Fatal(err)
	}
	out := make([]byte, 5)
	n, err := bs.Read(out, 0)
	if err != nil && err != io.EOF {
		t.Fatal(err)
	}
	if n != 5 || string(out) != "hello" {
		t.Errorf("read %q (n=%d), want \"hello\"", out[:n], n)
	}
}

func TestBlockStreamScenarioB(t *testing.T) {
	bs, inner := newTestBlockStream(t, 4096, 12)
	if _, err := bs.Write(bytes.Repeat([]byte{0x7A}, 4096), 0); err != nil {
		t.Fatal(err)
	}
	if err := bs.Resize(10); err != nil {
		t.Fatal(err)
	}

	out := make([]byte, 4096)
	n, err := bs.Read(out, 0)
	if err != nil && err != io.EOF {
		t.Fatal(err)
	}
	if n != 10 {
		t.Errorf("read %d bytes, want 10", n)
	}

	size, err := bs.Size()
	if err != nil {
		t.Fatal(err)
	}
	if size != 10 {
		t.Errorf("Size() = %d, want 10", size)
	}

	wantUnderlying := int64(headerSize + 10 + 12 + 16)
	if int64(len(inner.data)) != wantUnderlying {
		t.Errorf("underlying size = %d, want %d", len(inner.data), wantUnderlying)
	}
}

func TestBlockStreamScenarioC(t *testing.T) {
	const blockSize = 64
	bs, inner := newTestBlockStream(t, blockSize, 12)

	if _, err := bs.Write(make([]byte, blockSize), 5*blockSize); err != nil {
		t.Fatal(err)
	}

	ubs := blockSize + 12 + 16
	off := headerSize + 5*ubs
	region := inner.data[off : off+ubs]
	if !isAllZero(region) {
		t.Error("writing a full zero block at an aligned offset should leave the underlying region all-zero")
	}

	out := make([]byte, blockSize)
	n, err := bs.Read(out, 5*blockSize)
	if err != nil {
		t.Fatal(err)
	}
	if n != blockSize || !isAllZero(out) {
		t.Errorf("expected %d zero bytes back, got %x", blockSize, out[:n])
	}
}

func TestBlockStreamScenarioE(t *testing.T) {
	const blockSize = 32
	bs, inner := newTestBlockStream(t, blockSize, 12)
	data := bytes.Repeat([]byte{0x5A}, blockSize*2)
	if _, err := bs.Write(data, 0); err != nil {
		t.Fatal(err)
	}

	inner.data[headerSize] ^= 0xFF // corrupt block 0

	out := make([]byte, 1)
	if _, err := bs.Read(out, 0); !IsMessageVerification(err) {
		t.Errorf("expected verification failure reading corrupted block 0, got %v", err)
	}

	out2 := make([]byte, blockSize)
	n, err := bs.Read(out2, blockSize)
	if err != nil {
		t.Fatal(err)
	}
	if n != blockSize || !bytes.Equal(out2, data[blockSize:]) {
		t.Error("block 1 should still read correctly after block 0 is corrupted")
	}
}

func TestBlockStreamWriteFillsGapWithZeros(t *testing.T) {
	const blockSize = 32
	bs, _ := newTestBlockStream(t, blockSize, 12)

	if _, err := bs.Write([]byte("x"), 3*blockSize); err != nil {
		t.Fatal(err)
	}

	out := make([]byte, 3*blockSize)
	n, err := bs.Read(out, 0)
	if err != nil && err != io.EOF {
		t.Fatal(err)
	}
	if n != 3*blockSize {
		t.Fatalf("expected to read the zero-filled gap, got n=%d", n)
	}
	if !isAllZero(out) {
		t.Error("gap before a write past current EOF should read back as zeros")
	}
}

func TestBlockStreamResizeGrowZeroExtends(t *testing.T) {
	bs, _ := newTestBlockStream(t, 32, 12)
	if _, err := bs.Write([]byte("abc"), 0); err != nil {
		t.Fatal(err)
	}
	if err := bs.Resize(64); err != nil {
		t.Fatal(err)
	}
	out := make([]byte, 64)
	n, err := bs.Read(out, 0)
	if err != nil && err != io.EOF {
		t.Fatal(err)
	}
	if n != 64 || !bytes.Equal(out[:3], []byte("abc")) || !isAllZero(out[3:]) {
		t.Errorf("grown region should be zero-extended, got %x", out[:n])
	}
}
