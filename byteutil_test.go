package litefs

import (
	"bytes"
	"testing"
)

func TestUint32LERoundTrip(t *testing.T) {
	for _, v := range []uint32{0, 1, 255, 65536, 1<<31 - 1, 1<<32 - 1} {
		buf := make([]byte, 4)
		putUint32LE(buf, v)
		if got := uint32LE(buf); got != v {
			t.Errorf("uint32LE(putUint32LE(%d)) = %d", v, got)
		}
	}
}

func TestHexRoundTrip(t *testing.T) {
	cases := [][]byte{nil, {}, {0x00}, {0xff, 0x01, 0xab}, bytes.Repeat([]byte{0x42}, 64)}
	for _, b := range cases {
		got, err := parseHex(hexify(b))
		if err != nil {
			t.Fatalf("parseHex(hexify(%x)): %v", b, err)
		}
		if !bytes.Equal(got, b) && !(len(got) == 0 && len(b) == 0) {
			t.Errorf("parseHex(hexify(%x)) = %x", b, got)
		}
	}
}

func TestIsAllZero(t *testing.T) {
	if !isAllZero(make([]byte, 32)) {
		t.Error("expected all-zero buffer to report true")
	}
	if !isAllZero(nil) {
		t.Error("expected empty buffer to report true")
	}
	buf := make([]byte, 32)
	buf[31] = 1
	if isAllZero(buf) {
		t.Error("expected non-zero buffer to report false")
	}
}

func TestGenerateRandom(t *testing.T) {
	a := make([]byte, 32)
	b := make([]byte, 32)
	if err := generateRandom(a); err != nil {
		t.Fatal(err)
	}
	if err := generateRandom(b); err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(a, b) {
		t.Error("two independent random fills collided (probability ~0)")
	}
	if err := generateRandom(nil); err != nil {
		t.Errorf("generateRandom(nil) should be a silent no-op, got %v", err)
	}
}
