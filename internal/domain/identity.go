package domain

import (
	"encoding/hex"
	"errors"
	"strings"

	"golang.org/x/crypto/sha3"
)

// Identity is a 20-byte account address in canonical lowercase 0x-hex form.
type Identity string

// ZeroIdentity is never a valid caller, seller or owner.
const ZeroIdentity Identity = "0x0000000000000000000000000000000000000000"

var (
	ErrIdentityFormat   = errors.New("identity must be 0x followed by 40 hex characters")
	ErrIdentityChecksum = errors.New("identity checksum mismatch")
	ErrIdentityZero     = errors.New("identity must not be the zero address")
)

// ParseIdentity validates and canonicalises an address. All-lowercase and
// all-uppercase hex is accepted as is; mixed case must be a valid EIP-55 checksum.
func ParseIdentity(raw string) (Identity, error) {
	s := strings.TrimSpace(raw)
	if len(s) != 42 || (s[:2] != "0x" && s[:2] != "0X") {
		return "", ErrIdentityFormat
	}
	body := s[2:]
	if _, err := hex.DecodeString(body); err != nil {
		return "", ErrIdentityFormat
	}
	lower := strings.ToLower(body)
	if body != lower && body != strings.ToUpper(body) {
		if checksumBody(lower) != body {
			return "", ErrIdentityChecksum
		}
	}
	id := Identity("0x" + lower)
	if id == ZeroIdentity {
		return "", ErrIdentityZero
	}
	return id, nil
}

// MustIdentity panics on invalid input. Intended for constants and tests.
func MustIdentity(raw string) Identity {
	id, err := ParseIdentity(raw)
	if err != nil {
		panic(err)
	}
	return id
}

func (i Identity) String() string { return string(i) }

func (i Identity) IsZero() bool { return i == "" || i == ZeroIdentity }

// Checksum renders the EIP-55 mixed-case form.
func (i Identity) Checksum() string {
	s := string(i)
	if len(s) != 42 {
		return s
	}
	return "0x" + checksumBody(strings.ToLower(s[2:]))
}

func checksumBody(lowerHex string) string {
	h := sha3.NewLegacyKeccak256()
	_, _ = h.Write([]byte(lowerHex))
	digest := h.Sum(nil)
	out := []byte(lowerHex)
	for i, c := range out {
		if c < 'a' || c > 'f' {
			continue
		}
		nibble := digest[i/2]
		if i%2 == 0 {
			nibble >>= 4
		}
		if nibble&0x0f >= 8 {
			out[i] = c - 'a' + 'A'
		}
	}
	return string(out)
}
