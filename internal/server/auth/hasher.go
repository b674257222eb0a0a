package auth

import (
	"fmt"
	"strings"
)

// NewPasswordHasher returns the hasher named by kind ("bcrypt" or
// "argon2id"); cost applies to bcrypt only.
func NewPasswordHasher(kind string, cost int) (PasswordHasher, error) {
	switch strings.ToLower(kind) {
	case "", "bcrypt":
		if cost == 0 {
			cost = DefaultBcryptCost
		}
		return NewBcryptHasher(cost)
	case "argon2id":
		return NewArgon2idHasher(), nil
	}
	return nil, fmt.Errorf("unknown password hasher %q", kind)
}
