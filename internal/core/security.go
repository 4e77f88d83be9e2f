// AngelaMos | 2026
// security.go

package core

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters. Memory is in KiB.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
	argonSaltLen = 16
)

var ErrMalformedHash = errors.New("malformed password hash")

// HashPassword derives an Argon2id hash and returns it in the standard
// $argon2id$v=..$m=..,t=..,p=..$salt$hash encoding.
func HashPassword(password string) (string, error) {
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := argon2.IDKey(
		[]byte(password),
		salt,
		argonTime,
		argonMemory,
		argonThreads,
		argonKeyLen,
	)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argonMemory,
		argonTime,
		argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

func VerifyPassword(password, encoded string) (bool, error) {
	settings, salt, want, err := parseEncodedHash(encoded)
	if err != nil {
		return false, err
	}

	got := argon2.IDKey(
		[]byte(password),
		salt,
		settings.time,
		settings.memory,
		settings.threads,
		settings.keyLen,
	)

	return subtle.ConstantTimeCompare(want, got) == 1, nil
}

// VerifyPasswordWithRehash verifies the password and, when the stored hash
// was produced with older parameters, additionally returns a fresh hash the
// caller should persist. The returned hash is empty when no rehash is needed.
func VerifyPasswordWithRehash(password, encoded string) (bool, string, error) {
	valid, err := VerifyPassword(password, encoded)
	if err != nil || !valid {
		return false, "", err
	}

	if staleParams(encoded) {
		rehashed, hashErr := HashPassword(password)
		if hashErr != nil {
			// The password checked out; a failed rehash only delays the
			// parameter upgrade until the next login.
			return true, "", nil
		}
		return true, rehashed, nil
	}

	return true, "", nil
}

// decoyHash keeps the Argon2 work constant on the unknown-email path so
// login timing does not reveal which addresses exist.
var decoyHash string

func init() {
	hash, err := HashPassword("recipebox-decoy-credential")
	if err != nil {
		panic(fmt.Sprintf("security: decoy hash: %v", err))
	}
	decoyHash = hash
}

// VerifyPasswordTimingSafe behaves like VerifyPasswordWithRehash but accepts
// a nil or empty stored hash, in which case it burns a full verification
// against a decoy and reports failure.
func VerifyPasswordTimingSafe(
	password string,
	encoded *string,
) (bool, string, error) {
	stored := decoyHash
	if encoded != nil && *encoded != "" {
		stored = *encoded
	}

	valid, rehashed, err := VerifyPasswordWithRehash(password, stored)

	if encoded == nil || *encoded == "" {
		return false, "", nil
	}

	return valid, rehashed, err
}

type hashSettings struct {
	memory  uint32
	time    uint32
	threads uint8
	keyLen  uint32
}

func parseEncodedHash(encoded string) (*hashSettings, []byte, []byte, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return nil, nil, nil, ErrMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, nil, nil, fmt.Errorf("%w: version: %v", ErrMalformedHash, err)
	}
	if version != argon2.Version {
		return nil, nil, nil, fmt.Errorf(
			"%w: argon2 version %d", ErrMalformedHash, version,
		)
	}

	settings := &hashSettings{}
	_, err := fmt.Sscanf(
		parts[3],
		"m=%d,t=%d,p=%d",
		&settings.memory,
		&settings.time,
		&settings.threads,
	)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: params: %v", ErrMalformedHash, err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: salt: %v", ErrMalformedHash, err)
	}

	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: key: %v", ErrMalformedHash, err)
	}

	//nolint:gosec // G115: key length is the Argon2 output size, far below uint32
	settings.keyLen = uint32(len(key))

	return settings, salt, key, nil
}

func staleParams(encoded string) bool {
	settings, _, _, err := parseEncodedHash(encoded)
	if err != nil {
		return true
	}

	return settings.memory != argonMemory ||
		settings.time != argonTime ||
		settings.threads != argonThreads ||
		settings.keyLen != argonKeyLen
}

// GenerateSecureToken returns length random bytes, URL-safe base64 encoded.
func GenerateSecureToken(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate random bytes: %w", err)
	}
	return base64.URLEncoding.EncodeToString(buf), nil
}

func GenerateRefreshToken() (string, error) {
	return GenerateSecureToken(32)
}

// HashToken produces the hex SHA-256 digest stored in place of raw
// refresh tokens.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func CompareTokenHash(token, hash string) bool {
	return subtle.ConstantTimeCompare(
		[]byte(HashToken(token)),
		[]byte(hash),
	) == 1
}
