package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// HeaderUIDKey carries "<username>:<secret>".
const HeaderUIDKey = "X-UID-Key"

const (
	secretBytes = 24
	bcryptCost  = bcrypt.DefaultCost
)

var (
	ErrMissingCredential   = errors.New("missing credential")
	ErrMalformedCredential = errors.New("malformed credential, expected <username>:<key>")
	ErrInvalidCredential   = errors.New("invalid credential")
)

type Credential struct {
	Username string
	Secret   string
}

func ParseUIDKey(header string) (Credential, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return Credential{}, ErrMissingCredential
	}

	username, secret, found := strings.Cut(header, ":")
	if !found || username == "" || secret == "" {
		return Credential{}, ErrMalformedCredential
	}

	return Credential{Username: username, Secret: secret}, nil
}

func GenerateSecret() (string, error) {
	b := make([]byte, secretBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}

func HashSecret(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash secret: %w", err)
	}

	return string(hash), nil
}

func VerifySecret(hash, secret string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)); err != nil {
		return ErrInvalidCredential
	}

	return nil
}

// unknownUserHash is compared against when the username does not exist.
var unknownUserHash = sync.OnceValue(func() []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte("unknown-user"), bcryptCost)
	if err != nil {
		panic(fmt.Sprintf("failed to hash the unknown user secret: %v", err))
	}

	return hash
})

// RejectSecret does the same bcrypt work as VerifySecret and always fails, so
// unknown usernames take as long to reject as wrong secrets.
func RejectSecret(secret string) error {
	_ = bcrypt.CompareHashAndPassword(unknownUserHash(), []byte(secret))

	return ErrInvalidCredential
}
