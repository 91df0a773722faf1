package core

import (
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// VerifyPassword compares a plaintext password with a bcrypt hash.
// A mismatch is reported as (false, nil); a hash that cannot be compared at
// all is an error.
func VerifyPassword(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}

// HashPassword returns the bcrypt hash of password at the default cost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

var dummyHash = sync.OnceValue(func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte("milestone-dummy-password"), bcrypt.DefaultCost)
	if err != nil {
		return nil
	}
	return h
})

// burnPasswordCheck spends the same bcrypt work as a real comparison so an
// unknown username costs as much as a wrong password.
func burnPasswordCheck(password string) {
	if h := dummyHash(); h != nil {
		_ = bcrypt.CompareHashAndPassword(h, []byte(password))
	}
}
