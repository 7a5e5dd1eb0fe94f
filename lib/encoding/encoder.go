// Package encoding serializes persisted component state.
//
// Values are packed with msgpack and then either signed (base64 + HMAC,
// readable but tamper-evident) or sealed (AES-256-GCM, opaque). The result
// is a URL-safe string suitable for window storage.
package encoding

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

var (
	ErrInvalidFormat    = errors.New("encoding: invalid snapshot format")
	ErrSignatureInvalid = errors.New("encoding: signature verification failed")
	ErrDecryptFailed    = errors.New("encoding: snapshot decryption failed")
)

// Mode selects how a snapshot is protected.
type Mode int

const (
	// Signed snapshots are visible but tamper-evident.
	Signed Mode = iota
	// Sealed snapshots are encrypted.
	Sealed
)

func (m Mode) String() string {
	if m == Sealed {
		return "sealed"
	}
	return "signed"
}

// Codec encodes and decodes state snapshots.
type Codec struct {
	key []byte
	gcm cipher.AEAD
}

// NewCodec creates a codec. Keys shorter than 32 bytes are stretched with
// SHA-256.
func NewCodec(key []byte) (*Codec, error) {
	if len(key) < 32 {
		h := sha256.Sum256(key)
		key = h[:]
	}

	block, err := aes.NewCipher(key[:32])
	if err != nil {
		return nil, fmt.Errorf("encoding: cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("encoding: gcm: %w", err)
	}

	return &Codec{key: key, gcm: gcm}, nil
}

// Encode packs v and protects it according to mode.
func (c *Codec) Encode(v any, mode Mode) (string, error) {
	packed, err := msgpack.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encoding: pack: %w", err)
	}

	if mode == Sealed {
		return c.seal(packed)
	}
	return c.sign(packed), nil
}

// Decode verifies or opens encoded and unpacks it into v, which must be a
// pointer. Maps decode as map[string]any.
func (c *Codec) Decode(encoded string, mode Mode, v any) error {
	var packed []byte
	var err error

	if mode == Sealed {
		packed, err = c.open(encoded)
	} else {
		packed, err = c.verify(encoded)
	}
	if err != nil {
		return err
	}

	if err := msgpack.Unmarshal(packed, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return nil
}

// sign produces base64(data).base64(mac).
func (c *Codec) sign(data []byte) string {
	b64 := base64.RawURLEncoding.EncodeToString(data)
	return b64 + "." + base64.RawURLEncoding.EncodeToString(c.mac(data))
}

func (c *Codec) verify(encoded string) ([]byte, error) {
	body, sig, ok := strings.Cut(encoded, ".")
	if !ok {
		return nil, fmt.Errorf("%w: missing signature", ErrInvalidFormat)
	}

	data, err := base64.RawURLEncoding.DecodeString(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	mac, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	if !hmac.Equal(mac, c.mac(data)) {
		return nil, ErrSignatureInvalid
	}
	return data, nil
}

// mac is a truncated 128-bit HMAC-SHA256.
func (c *Codec) mac(data []byte) []byte {
	h := hmac.New(sha256.New, c.key)
	h.Write(data)
	return h.Sum(nil)[:16]
}

func (c *Codec) seal(data []byte) (string, error) {
	nonce := make([]byte, c.gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("encoding: nonce: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(c.gcm.Seal(nonce, nonce, data, nil)), nil
}

func (c *Codec) open(encoded string) ([]byte, error) {
	ciphertext, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	if len(ciphertext) < c.gcm.NonceSize() {
		return nil, fmt.Errorf("%w: ciphertext too short", ErrInvalidFormat)
	}

	nonce, body := ciphertext[:c.gcm.NonceSize()], ciphertext[c.gcm.NonceSize():]
	data, err := c.gcm.Open(nil, nonce, body, nil)
	if err != nil {
		return nil, ErrDecryptFailed
	}
	return data, nil
}
