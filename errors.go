package pwashell

import (
	"errors"

	"github.com/pthm/pwashell/lib/encoding"
)

// Sentinel errors for component operations.
var (
	ErrNoRoute      = errors.New("pwashell: no matching route")
	ErrInvalidURL   = errors.New("pwashell: invalid url")
	ErrNotConnected = errors.New("pwashell: component not connected")
	ErrRenderFailed = errors.New("pwashell: render failed")
	ErrDecodeFailed = errors.New("pwashell: stored state could not be decoded")
)

// IsNoRoute checks if err is a no-route error.
func IsNoRoute(err error) bool {
	return errors.Is(err, ErrNoRoute)
}

// IsRenderError checks if err is a render failure.
func IsRenderError(err error) bool {
	return errors.Is(err, ErrRenderFailed)
}

// IsDecodeError checks if err means persisted state was unreadable,
// including tampered or foreign snapshots.
func IsDecodeError(err error) bool {
	return errors.Is(err, ErrDecodeFailed)
}

// wrapEncodingError maps codec failures onto ErrDecodeFailed.
func wrapEncodingError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, encoding.ErrInvalidFormat) ||
		errors.Is(err, encoding.ErrSignatureInvalid) ||
		errors.Is(err, encoding.ErrDecryptFailed) {
		return errors.Join(ErrDecodeFailed, err)
	}
	return err
}
