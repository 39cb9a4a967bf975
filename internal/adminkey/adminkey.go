package adminkey

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	argonTime    uint32 = 1
	argonMemory  uint32 = 64 * 1024
	argonThreads uint8  = 4
	argonKeyLen  uint32 = 32
	argonSaltLen        = 16

	minKeyLength = 16
)

var ErrKeyTooShort = errors.New("admin_key_too_short")

// Hash encodes key as an Argon2id string suitable for ADMIN_KEY_HASH.
func Hash(key string) (string, error) {
	key = strings.TrimSpace(key)
	if len(key) < minKeyLength {
		return "", ErrKeyTooShort
	}
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	sum := argon2.IDKey([]byte(key), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	return fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		argonMemory, argonTime, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(sum),
	), nil
}

// Verify reports whether key matches encoded. A malformed or empty hash never
// matches.
func Verify(key, encoded string) bool {
	key = strings.TrimSpace(key)
	if key == "" {
		return false
	}
	p, ok := decode(strings.TrimSpace(encoded))
	if !ok {
		return false
	}
	check := argon2.IDKey([]byte(key), p.salt, p.time, p.memory, p.threads, uint32(len(p.sum)))
	return subtle.ConstantTimeCompare(p.sum, check) == 1
}

type params struct {
	memory  uint32
	time    uint32
	threads uint8
	salt    []byte
	sum     []byte
}

func decode(encoded string) (params, bool) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" || parts[2] != "v=19" {
		return params{}, false
	}

	fields := strings.Split(parts[3], ",")
	if len(fields) != 3 {
		return params{}, false
	}
	m, ok1 := strings.CutPrefix(fields[0], "m=")
	t, ok2 := strings.CutPrefix(fields[1], "t=")
	th, ok3 := strings.CutPrefix(fields[2], "p=")
	if !ok1 || !ok2 || !ok3 {
		return params{}, false
	}

	m64, err := strconv.ParseUint(m, 10, 32)
	if err != nil {
		return params{}, false
	}
	t64, err := strconv.ParseUint(t, 10, 32)
	if err != nil {
		return params{}, false
	}
	p64, err := strconv.ParseUint(th, 10, 8)
	if err != nil {
		return params{}, false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return params{}, false
	}
	sum, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(sum) == 0 {
		return params{}, false
	}

	return params{
		memory:  uint32(m64),
		time:    uint32(t64),
		threads: uint8(p64),
		salt:    salt,
		sum:     sum,
	}, true
}
