package card

import (
	"crypto/sha256"
	"encoding/hex"
)

type Brand string

const (
	BrandVisa       Brand = "VISA"
	BrandMastercard Brand = "MASTERCARD"
	BrandAmex       Brand = "AMEX"
	BrandUnknown    Brand = "UNKNOWN"
)

// NumberLength is the only card number length accepted.
const NumberLength = 16

// IsValidNumber reports whether number is exactly 16 digits and passes the Luhn checksum.
func IsValidNumber(number string) bool {
	if len(number) != NumberLength {
		return false
	}
	sum := 0
	double := false
	for i := len(number) - 1; i >= 0; i-- {
		c := number[i]
		if c < '0' || c > '9' {
			return false
		}
		n := int(c - '0')
		if double {
			n *= 2
			if n > 9 {
				n -= 9
			}
		}
		sum += n
		double = !double
	}
	return sum%10 == 0
}

// DetectBrand uses the first digit only; it is not a BIN range lookup.
func DetectBrand(number string) Brand {
	if number == "" {
		return BrandUnknown
	}
	switch number[0] {
	case '4':
		return BrandVisa
	case '5':
		return BrandMastercard
	case '3':
		return BrandAmex
	default:
		return BrandUnknown
	}
}

// Hash returns the hex encoded SHA-256 digest of the raw card number.
func Hash(number string) string {
	sum := sha256.Sum256([]byte(number))
	return hex.EncodeToString(sum[:])
}

func LastFour(number string) string {
	if len(number) <= 4 {
		return number
	}
	return number[len(number)-4:]
}
