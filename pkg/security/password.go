package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/plantswapio/plantswap-backend/pkg/config"
)

// ErrInvalidHash signals a malformed Argon2id hash string.
var ErrInvalidHash = errors.New("invalid argon2id hash")

var b64 = base64.RawStdEncoding

// argonParams are the cost parameters embedded into each hash string,
// so stored hashes stay verifiable after the configured costs change.
type argonParams struct {
	memoryKB    uint32
	time        uint32
	parallelism uint8
	saltLen     uint32
	keyLen      uint32
}

// HashPassword derives an Argon2id hash with a fresh random salt and
// returns it in the standard encoded form.
func HashPassword(password string, cfg config.PasswordConfig) (string, error) {
	if password == "" {
		return "", errors.New("password cannot be empty")
	}

	params := costsFromConfig(cfg)
	salt := make([]byte, params.saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := params.derive(password, salt)
	encoded := fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		params.memoryKB, params.time, params.parallelism,
		b64.EncodeToString(salt), b64.EncodeToString(key))
	return encoded, nil
}

// VerifyPassword reports whether password matches the encoded hash. A
// wrong password is (false, nil); only a malformed hash is an error.
func VerifyPassword(password, encoded string) (bool, error) {
	params, salt, want, err := decodeHash(encoded)
	if err != nil {
		return false, err
	}
	got := params.derive(password, salt)
	return subtle.ConstantTimeCompare(want, got) == 1, nil
}

func (p argonParams) derive(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, p.time, p.memoryKB, p.parallelism, p.keyLen)
}

func costsFromConfig(cfg config.PasswordConfig) argonParams {
	return argonParams{
		memoryKB:    clamp(cfg.ArgonMemoryKB, 8, 512*1024),
		time:        clamp(cfg.ArgonTime, 1, 10),
		parallelism: uint8(clamp(cfg.ArgonParallelism, 1, 255)),
		saltLen:     clamp(cfg.ArgonSaltLen, 8, 64),
		keyLen:      clamp(cfg.ArgonKeyLen, 16, 64),
	}
}

// decodeHash parses "$argon2id$v=19$m=..,t=..,p=..$salt$hash".
func decodeHash(encoded string) (argonParams, []byte, []byte, error) {
	fail := func() (argonParams, []byte, []byte, error) {
		return argonParams{}, nil, nil, ErrInvalidHash
	}

	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return fail()
	}

	var params argonParams
	var m, t uint32
	var p uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &m, &t, &p); err != nil {
		return fail()
	}
	params.memoryKB, params.time, params.parallelism = m, t, p

	salt, err := b64.DecodeString(parts[4])
	if err != nil {
		return fail()
	}
	key, err := b64.DecodeString(parts[5])
	if err != nil {
		return fail()
	}
	params.saltLen = uint32(len(salt))
	params.keyLen = uint32(len(key))
	return params, salt, key, nil
}

func clamp(value, min, max int) uint32 {
	if value < min {
		value = min
	}
	if value > max {
		value = max
	}
	return uint32(value)
}
