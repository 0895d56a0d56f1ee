package hxstore

import (
	"errors"

	"github.com/pthm/hxstore/lib/encoding"
)

// Encoder signs or encrypts snapshots.
type Encoder = encoding.Encoder

// Snapshot is the state and props a rendered component carries in its
// action attributes.
type Snapshot = encoding.Snapshot

// NewEncoder creates a snapshot encoder. Keys shorter than 32 bytes are
// stretched with SHA-256.
func NewEncoder(key []byte) (*Encoder, error) {
	return encoding.NewEncoder(key)
}

// decode reads the "p" parameter. An empty parameter is an empty snapshot,
// which mounts the component from its initial state.
func (c *Component) decode(p string) (Snapshot, error) {
	if p == "" {
		return Snapshot{}, nil
	}
	if c.encoder == nil {
		return Snapshot{}, ErrInvalidFormat
	}
	s, err := c.encoder.Decode(p, c.sensitive)
	if err != nil {
		return Snapshot{}, wrapEncodingError(err)
	}
	return s, nil
}

// wrapEncodingError maps encoding errors onto this package's sentinels.
func wrapEncodingError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, encoding.ErrInvalidFormat):
		return ErrInvalidFormat
	case errors.Is(err, encoding.ErrSignatureInvalid):
		return ErrSignatureInvalid
	case errors.Is(err, encoding.ErrDecryptFailed):
		return ErrDecryptFailed
	}
	return err
}
