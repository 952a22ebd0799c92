package litefs

import (
	"bytes"
	"testing"
)

func testXattrCodec(t *testing.T) *xattrCodec {
	t.Helper()
	_, _, xattrKey, err := splitMasterKey(testMasterKey())
	if err != nil {
		t.Fatal(err)
	}
	codec, err := newXattrCodec(xattrKey)
	if err != nil {
		t.Fatal(err)
	}
	return codec
}

func TestXattrCodecRoundTrip(t *testing.T) {
	codec := testXattrCodec(t)
	value := []byte("user.comment value goes here")
	sealed, err := codec.Encrypt("user.comment", value)
	if err != nil {
		t.Fatal(err)
	}
	got, err := codec.Decrypt("user.comment", sealed)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, value) {
		t.Errorf("decrypted = %q, want %q", got, value)
	}
}

func TestXattrCodecBindsToName(t *testing.T) {
	codec := testXattrCodec(t)
	sealed, err := codec.Encrypt("user.a", []byte("payload"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := codec.Decrypt("user.b", sealed); err == nil {
		t.Error("expected decrypting under a different attribute name to fail")
	}
}

func TestXattrCodecDeterministic(t *testing.T) {
	codec := testXattrCodec(t)
	a, err := codec.Encrypt("user.x", []byte("same value"))
	if err != nil {
		t.Fatal(err)
	}
	b, err := codec.Encrypt("user.x", []byte("same value"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("Encrypt should be deterministic for the same (name, value) pair")
	}
}

func TestAppleNamesAreShortCircuited(t *testing.T) {
	codec := testXattrCodec(t)
	for _, name := range []string{"com.apple.quarantine", "com.apple.FinderInfo"} {
		if !codec.isShortCircuited(name) {
			t.Errorf("%q should be short-circuited", name)
		}
	}
	if codec.isShortCircuited("user.ordinary") {
		t.Error("an ordinary attribute name should not be short-circuited")
	}
}
