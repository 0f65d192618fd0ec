package utils

import (
	"github.com/mr-tron/base58"
)

// IsValidTokenAddress reports whether the string is a plausible Solana mint
// address: base58-decodable to exactly 32 bytes.
func IsValidTokenAddress(address string) bool {
	if len(address) < 32 || len(address) > 44 {
		return false
	}
	decoded, err := base58.Decode(address)
	if err != nil {
		return false
	}
	return len(decoded) == 32
}
