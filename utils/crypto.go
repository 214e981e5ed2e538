package utils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
)

// AES-256-GCM for secrets stored at rest, currently TOTP seeds. The key
// never leaves the environment.

func dataCipher() (cipher.AEAD, error) {
	key := os.Getenv("DATA_ENCRYPTION_KEY")
	if len(key) != 32 {
		return nil, errors.New("DATA_ENCRYPTION_KEY must be exactly 32 characters")
	}

	block, err := aes.NewCipher([]byte(key))
	if err != nil {
		return nil, fmt.Errorf("failed to init cipher: %w", err)
	}
	return cipher.NewGCM(block)
}

// Encrypt seals plaintext and returns base64(nonce || ciphertext).
func Encrypt(plaintext []byte) (string, error) {
	gcm, err := dataCipher()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	sealed := gcm.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. A wrong key or tampered payload fails the
// GCM authentication check.
func Decrypt(encoded string) ([]byte, error) {
	gcm, err := dataCipher()
	if err != nil {
		return nil, err
	}

	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode payload: %w", err)
	}
	if len(sealed) < gcm.NonceSize() {
		return nil, errors.New("encrypted payload too short")
	}

	nonce, ciphertext := sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():]
	return gcm.Open(nil, nonce, ciphertext, nil)
}
