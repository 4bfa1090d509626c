package s3client

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
)

const (
	cseModeAESGCM          = "aes-gcm"
	cseMetaKey             = "x-muedit-cse"
	cseMetaContentEncoding = "x-muedit-content-encoding"
)

func normalizeMeta(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return out
}

func parseAESGCMKeyHex(keyHex string) ([]byte, error) {
	keyHex = strings.TrimSpace(keyHex)
	if keyHex == "" {
		return nil, fmt.Errorf("%w: key is required", ErrEncryption)
	}
	raw, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid key hex: %v", ErrEncryption, err)
	}
	if len(raw) != 32 {
		return nil, fmt.Errorf("%w: key must be 32 bytes (AES-256)", ErrEncryption)
	}
	return raw, nil
}

// encryptAESGCM returns nonce || ciphertext.
func encryptAESGCM(plaintext, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func decryptAESGCM(ciphertext, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	ns := gcm.NonceSize()
	if len(ciphertext) < ns+gcm.Overhead() {
		return nil, fmt.Errorf("%w: ciphertext too short", ErrEncryption)
	}
	plain, err := gcm.Open(nil, ciphertext[:ns], ciphertext[ns:], nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncryption, err)
	}
	return plain, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// seal encrypts payload when a key is configured and returns the metadata
// that lets Load reverse it.
func (s *SnapshotStore) seal(payload []byte, contentEncoding string) ([]byte, map[string]string, error) {
	if len(s.cseKey) == 0 {
		if s.requireCSE {
			return nil, nil, fmt.Errorf("%w: required but no key configured", ErrEncryption)
		}
		return payload, nil, nil
	}
	enc, err := encryptAESGCM(payload, s.cseKey)
	if err != nil {
		return nil, nil, err
	}
	meta := map[string]string{cseMetaKey: cseModeAESGCM}
	if contentEncoding != "" {
		meta[cseMetaContentEncoding] = contentEncoding
	}
	return enc, meta, nil
}

func (s *SnapshotStore) open(meta map[string]string, payload []byte) ([]byte, error) {
	mode := strings.ToLower(strings.TrimSpace(normalizeMeta(meta)[cseMetaKey]))
	if mode == "" {
		if s.requireCSE {
			return nil, fmt.Errorf("%w: object is not encrypted", ErrEncryption)
		}
		return payload, nil
	}
	if mode != cseModeAESGCM {
		return nil, fmt.Errorf("%w: unsupported mode %q", ErrEncryption, mode)
	}
	if len(s.cseKey) == 0 {
		return nil, fmt.Errorf("%w: object is encrypted and no key is configured", ErrEncryption)
	}
	return decryptAESGCM(payload, s.cseKey)
}
