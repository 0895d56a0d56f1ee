package hxstore

import (
	"errors"
	"net/http"

	"github.com/pthm/hxstore/lib/state"
)

// Sentinel errors for component requests.
var (
	ErrNotFound         = errors.New("hxstore: resource not found")
	ErrDecryptFailed    = errors.New("hxstore: snapshot decryption failed")
	ErrSignatureInvalid = errors.New("hxstore: signature verification failed")
	ErrInvalidFormat    = errors.New("hxstore: invalid snapshot format")
	ErrUnknownAction    = errors.New("hxstore: unknown action")
	ErrBadArgument      = errors.New("hxstore: bad action argument")
)

// IsNotFound checks if err is a not-found error, including an unknown
// action.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrUnknownAction)
}

// IsDecryptionError checks if err is a decryption or signature error.
func IsDecryptionError(err error) bool {
	return errors.Is(err, ErrDecryptFailed) || errors.Is(err, ErrSignatureInvalid)
}

// IsBadRequest checks if err was caused by what the client sent: a
// malformed or tampered snapshot, or action arguments the component
// rejected.
func IsBadRequest(err error) bool {
	if errors.Is(err, ErrBadArgument) || errors.Is(err, ErrInvalidFormat) || IsDecryptionError(err) {
		return true
	}
	switch state.KindOf(err) {
	case state.KindType, state.KindMerge:
		return true
	}
	return false
}

func defaultOnError(w http.ResponseWriter, r *http.Request, err error) {
	if IsNotFound(err) {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	if IsBadRequest(err) {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	http.Error(w, "Internal error", http.StatusInternalServerError)
}
