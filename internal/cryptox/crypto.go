// Package cryptox seals small secrets (the session bearer token) before they
// are written to the client database. The sealing key is derived from a
// random key file created on first use, so a copied database file alone does
// not expose the token.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/argon2"

	"github.com/cygnuslabs/cygnusone/internal/common"
)

const (
	keyFileSize = 32
	nonceSize   = 12
)

// keyDerivationSalt is fixed: the key file itself is random, argon2 here
// only stretches it into an AES key.
var keyDerivationSalt = []byte("cygnusone.secrets.v1")

var ErrMalformedCiphertext = errors.New("malformed ciphertext")

// LoadOrCreateKeyFile reads the sealing key material from path, creating the
// file with random contents and 0600 permissions when absent.
func LoadOrCreateKeyFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		if len(data) != keyFileSize {
			return nil, fmt.Errorf("key file %s: unexpected size %d", path, len(data))
		}
		return data, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading key file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating key dir: %w", err)
	}
	data = common.GenerateRandByteArray(keyFileSize)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return nil, fmt.Errorf("writing key file: %w", err)
	}
	return data, nil
}

// DeriveKey stretches key-file material into a 32-byte AES-256 key.
func DeriveKey(material []byte) []byte {
	return argon2.IDKey(material, keyDerivationSalt, 1, 64*1024, 4, 32)
}

// Seal encrypts plaintext with AES-GCM under key and returns nonce||ciphertext.
func Seal(plaintext, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Open decrypts a value produced by Seal.
func Open(sealed, key []byte) ([]byte, error) {
	if len(sealed) < nonceSize {
		return nil, ErrMalformedCiphertext
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	plaintext, err := gcm.Open(nil, sealed[:nonceSize], sealed[nonceSize:], nil)
	if err != nil {
		return nil, fmt.Errorf("opening sealed value: %w", err)
	}
	return plaintext, nil
}
