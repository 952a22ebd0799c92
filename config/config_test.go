package config

import (
	"bytes"
	"path/filepath"
	"testing"
)

func TestNewSaveLoadRoundTrip(t *testing.T) {
	f, err := New(KDFArgon2id, 4096, 12)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "litefs.json")
	if err := f.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.KeyID != f.KeyID {
		t.Errorf("KeyID = %q, want %q", loaded.KeyID, f.KeyID)
	}
	if loaded.BlockSize != f.BlockSize || loaded.IVSize != f.IVSize {
		t.Errorf("block params = %d/%d, want %d/%d", loaded.BlockSize, loaded.IVSize, f.BlockSize, f.IVSize)
	}
	if !bytes.Equal(loaded.Salt, f.Salt) {
		t.Error("salt should round-trip through save/load")
	}
}

func TestNewGeneratesDistinctSaltsAndKeyIDs(t *testing.T) {
	a, err := New(KDFArgon2id, 4096, 12)
	if err != nil {
		t.Fatal(err)
	}
	b, err := New(KDFArgon2id, 4096, 12)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(a.Salt, b.Salt) {
		t.Error("two fresh configs should not share a salt")
	}
	if a.KeyID == b.KeyID {
		t.Error("two fresh configs should not share a key ID")
	}
}

func TestDeriveMasterKeyDeterministicArgon2id(t *testing.T) {
	f, err := New(KDFArgon2id, 4096, 12)
	if err != nil {
		t.Fatal(err)
	}
	password := []byte("correct horse battery staple")

	k1, err := f.DeriveMasterKey(password)
	if err != nil {
		t.Fatal(err)
	}
	k2, err := f.DeriveMasterKey(password)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(k1, k2) {
		t.Error("DeriveMasterKey should be deterministic for the same password and salt")
	}
	if len(k1) != MasterKeySize {
		t.Errorf("master key length = %d, want %d", len(k1), MasterKeySize)
	}
}

func TestDeriveMasterKeyDeterministicPBKDF2(t *testing.T) {
	f, err := New(KDFPBKDF2SHA256, 4096, 12)
	if err != nil {
		t.Fatal(err)
	}
	password := []byte("another password")

	k1, err := f.DeriveMasterKey(password)
	if err != nil {
		t.Fatal(err)
	}
	k2, err := f.DeriveMasterKey(password)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(k1, k2) {
		t.Error("DeriveMasterKey should be deterministic for the same password and salt")
	}
	if len(k1) != MasterKeySize {
		t.Errorf("master key length = %d, want %d", len(k1), MasterKeySize)
	}
}

func TestDeriveMasterKeyDiffersByPassword(t *testing.T) {
	f, err := New(KDFArgon2id, 4096, 12)
	if err != nil {
		t.Fatal(err)
	}
	a, err := f.DeriveMasterKey([]byte("password-a"))
	if err != nil {
		t.Fatal(err)
	}
	b, err := f.DeriveMasterKey([]byte("password-b"))
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(a, b) {
		t.Error("distinct passwords should derive distinct master keys")
	}
}

func TestDeriveMasterKeyRejectsEmptyPassword(t *testing.T) {
	f, err := New(KDFArgon2id, 4096, 12)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.DeriveMasterKey(nil); err == nil {
		t.Error("expected an error deriving a master key from an empty password")
	}
}
