package utils

import (
	"strings"
	"testing"
)

func TestEncryptDecrypt(t *testing.T) {
	t.Setenv("DATA_ENCRYPTION_KEY", "0123456789abcdef0123456789abcdef")

	secret := []byte("JBSWY3DPEHPK3PXP")
	encoded, err := Encrypt(secret)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if strings.Contains(encoded, string(secret)) {
		t.Fatal("ciphertext contains the plaintext")
	}

	got, err := Decrypt(encoded)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if string(got) != string(secret) {
		t.Errorf("roundtrip = %q, want %q", got, secret)
	}
}

func TestDecryptRejectsTamperedPayload(t *testing.T) {
	t.Setenv("DATA_ENCRYPTION_KEY", "0123456789abcdef0123456789abcdef")

	encoded, err := Encrypt([]byte("seed"))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	if _, err := Decrypt("not base64!!"); err == nil {
		t.Error("want error for malformed payload")
	}
	if _, err := Decrypt(encoded[:8]); err == nil {
		t.Error("want error for truncated payload")
	}
}

func TestEncryptRequiresFullKey(t *testing.T) {
	t.Setenv("DATA_ENCRYPTION_KEY", "short")

	if _, err := Encrypt([]byte("seed")); err == nil {
		t.Error("want error for short key")
	}
}
