package pwashell

import (
	"errors"

	"github.com/pthm/pwashell/lib/dom"
	"github.com/pthm/pwashell/lib/encoding"
)

var errNoCodec = errors.New("pwashell: app has no codec")

// LocalStore persists values in window storage through the snapshot
// codec.
type LocalStore struct {
	storage dom.Storage
	codec   *encoding.Codec
	mode    encoding.Mode
}

// NewLocalStore creates a store.
func NewLocalStore(s dom.Storage, codec *encoding.Codec, mode encoding.Mode) *LocalStore {
	return &LocalStore{storage: s, codec: codec, mode: mode}
}

// Save stores v under key.
func (s *LocalStore) Save(key string, v any) error {
	encoded, err := s.codec.Encode(v, s.mode)
	if err != nil {
		return err
	}
	s.storage.SetItem(key, encoded)
	return nil
}

// Load decodes the value under key into v. It reports false when the key
// is absent. Unreadable values yield an error matching IsDecodeError.
func (s *LocalStore) Load(key string, v any) (bool, error) {
	encoded, ok := s.storage.GetItem(key)
	if !ok {
		return false, nil
	}
	if err := s.codec.Decode(encoded, s.mode, v); err != nil {
		return false, wrapEncodingError(err)
	}
	return true, nil
}

// Remove deletes key.
func (s *LocalStore) Remove(key string) { s.storage.RemoveItem(key) }
