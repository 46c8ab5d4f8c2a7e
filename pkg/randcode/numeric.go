package randcode

import (
	"crypto/rand"
	"math/big"
)

const digits = "0123456789"

// GenerateNumericCode returns a random decimal code of the given length.
// The first digit is never zero, so a 6-digit code is always in [100000, 999999].
func GenerateNumericCode(length int) (string, error) {
	b := make([]byte, length)

	for i := range b {
		set := digits
		if i == 0 {
			set = digits[1:]
		}

		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
		if err != nil {
			return "", err
		}

		b[i] = set[n.Int64()]
	}

	return string(b), nil
}
