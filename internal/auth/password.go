package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrMismatch is returned by Compare when the password does not match.
var ErrMismatch = errors.New("password mismatch")

// Hasher turns passwords into digests and checks them.
type Hasher interface {
	Hash(password string) (string, error)
	Compare(digest, password string) error
	CompareDummy(password string)
}

// BcryptHasher implements Hasher with bcrypt.
type BcryptHasher struct {
	Cost  int
	dummy []byte
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	dummy, _ := bcrypt.GenerateFromPassword([]byte("bookclub-dummy-password"), cost)
	return &BcryptHasher{Cost: cost, dummy: dummy}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

func (h *BcryptHasher) Compare(digest, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrMismatch
	}
	return err
}

// CompareDummy compares password against a fixed digest and discards the
// result. Login calls it for unknown usernames.
func (h *BcryptHasher) CompareDummy(password string) {
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(password))
}
