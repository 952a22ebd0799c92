package litefs

import (
	"bytes"
	"testing"
)

func TestAEADEncryptDecryptRoundTrip(t *testing.T) {
	key := bytes.Repeat([]byte{0x11}, 32)
	iv := bytes.Repeat([]byte{0x22}, 12)
	aad := []byte("block-0")
	plaintext := []byte("hello, authenticated world")

	ct, tag, err := aeadEncrypt(SuiteAES256GCM, key, iv, aad, plaintext)
	if err != nil {
		t.Fatal(err)
	}
	if len(ct) != len(plaintext) {
		t.Fatalf("ciphertext length = %d, want %d", len(ct), len(plaintext))
	}
	if len(tag) != 16 {
		t.Fatalf("tag length = %d, want 16", len(tag))
	}

	got, err := aeadDecrypt(SuiteAES256GCM, key, iv, aad, ct, tag, "test")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Errorf("decrypted = %q, want %q", got, plaintext)
	}
}

func TestAEADDecryptDetectsTamper(t *testing.T) {
	key := bytes.Repeat([]byte{0x33}, 32)
	iv := bytes.Repeat([]byte{0x44}, 12)
	ct, tag, err := aeadEncrypt(SuiteAES256GCM, key, iv, []byte("aad"), []byte("secret"))
	if err != nil {
		t.Fatal(err)
	}
	ct[0] ^= 0x01
	if _, err := aeadDecrypt(SuiteAES256GCM, key, iv, []byte("aad"), ct, tag, "test"); !IsMessageVerification(err) {
		t.Errorf("expected MessageVerificationError, got %v", err)
	}
}

func TestAEADDecryptDetectsAADMismatch(t *testing.T) {
	key := bytes.Repeat([]byte{0x55}, 32)
	iv := bytes.Repeat([]byte{0x66}, 12)
	ct, tag, err := aeadEncrypt(SuiteAES256GCM, key, iv, []byte("aad-a"), []byte("secret"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := aeadDecrypt(SuiteAES256GCM, key, iv, []byte("aad-b"), ct, tag, "test"); !IsMessageVerification(err) {
		t.Errorf("expected MessageVerificationError on AAD mismatch, got %v", err)
	}
}

func TestAEADLongerIVAcceptedForGCM(t *testing.T) {
	key := bytes.Repeat([]byte{0x77}, 32)
	iv := bytes.Repeat([]byte{0x88}, 24) // longer than GCM's preferred 12 bytes
	ct, tag, err := aeadEncrypt(SuiteAES256GCM, key, iv, nil, []byte("payload"))
	if err != nil {
		t.Fatal(err)
	}
	got, err := aeadDecrypt(SuiteAES256GCM, key, iv, nil, ct, tag, "test")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "payload" {
		t.Errorf("decrypted = %q", got)
	}
}

func TestAEADChaCha20Poly1305RoundTrip(t *testing.T) {
	key := bytes.Repeat([]byte{0x99}, 32)
	iv := bytes.Repeat([]byte{0xaa}, 12)
	ct, tag, err := aeadEncrypt(SuiteChaCha20Poly1305, key, iv, []byte("aad"), []byte("payload"))
	if err != nil {
		t.Fatal(err)
	}
	got, err := aeadDecrypt(SuiteChaCha20Poly1305, key, iv, []byte("aad"), ct, tag, "test")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "payload" {
		t.Errorf("decrypted = %q", got)
	}
}
