package sealer

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrInvalidKey   = errors.New("key must be base64 encoding of 16, 24 or 32 bytes")
)

const separator = ":"

// Sealer produces opaque, tamper-proof tokens for ids handed to external
// collaborators (the payment page receives the booking id this way).
type Sealer struct {
	aead cipher.AEAD
}

func ValidateKey(key string) error {
	raw, err := base64.StdEncoding.DecodeString(key)
	if err != nil {
		return ErrInvalidKey
	}
	switch len(raw) {
	case 16, 24, 32:
		return nil
	}
	return ErrInvalidKey
}

func New(key string) (*Sealer, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	raw, _ := base64.StdEncoding.DecodeString(key)

	block, err := aes.NewCipher(raw)
	if err != nil {
		return nil, err
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &Sealer{aead: aesgcm}, nil
}

// Seal joins parts with ":" and encrypts them. Parts must not contain ":"
// except the last one.
func (s *Sealer) Seal(parts ...string) (string, error) {
	if len(parts) == 0 {
		return "", fmt.Errorf("nothing to seal")
	}
	plaintext := []byte(strings.Join(parts, separator))

	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ct := s.aead.Seal(nonce, nonce, plaintext, nil)
	return base64.RawURLEncoding.EncodeToString(ct), nil
}

// Open reverses Seal and expects exactly n parts.
func (s *Sealer) Open(token string, n int) ([]string, error) {
	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	nonceSize := s.aead.NonceSize()
	if len(data) < nonceSize {
		return nil, ErrInvalidToken
	}
	nonce := data[:nonceSize]
	ciphertext := data[nonceSize:]

	pt, err := s.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrInvalidToken
	}

	parts := strings.SplitN(string(pt), separator, n)
	if len(parts) != n {
		return nil, ErrInvalidToken
	}

	return parts, nil
}
