package card

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// luhnComplete appends the check digit that makes a 15 digit prefix valid.
func luhnComplete(prefix string) string {
	sum := 0
	double := true
	for i := len(prefix) - 1; i >= 0; i-- {
		n := int(prefix[i] - '0')
		if double {
			n *= 2
			if n > 9 {
				n -= 9
			}
		}
		sum += n
		double = !double
	}
	check := (10 - sum%10) % 10
	return prefix + string(rune('0'+check))
}

func randomDigits(r *rand.Rand, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte('0' + r.Intn(10))
	}
	return string(b)
}

func TestIsValidNumber_KnownNumbers(t *testing.T) {
	tests := []struct {
		name   string
		number string
		want   bool
	}{
		{name: "visa test number", number: "4111111111111111", want: true},
		{name: "mastercard test number", number: "5555555555554444", want: true},
		{name: "checksum off by one", number: "4111111111111112", want: false},
		{name: "too short", number: "411111111111111", want: false},
		{name: "too long", number: "41111111111111111", want: false},
		{name: "non digit", number: "411111111111111a", want: false},
		{name: "empty", number: "", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, IsValidNumber(tt.number))
		})
	}
}

func TestIsValidNumber_GeneratedNumbersPass(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		n := luhnComplete(randomDigits(r, 15))
		require.True(t, IsValidNumber(n), n)
	}
}

func TestIsValidNumber_SingleDigitChangeFails(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		n := []byte(luhnComplete(randomDigits(r, 15)))
		pos := r.Intn(len(n))
		orig := n[pos]
		for n[pos] == orig {
			n[pos] = byte('0' + r.Intn(10))
		}
		require.False(t, IsValidNumber(string(n)), string(n))
	}
}

func TestDetectBrand(t *testing.T) {
	require.Equal(t, BrandVisa, DetectBrand("4111111111111111"))
	require.Equal(t, BrandMastercard, DetectBrand("5555555555554444"))
	require.Equal(t, BrandAmex, DetectBrand("3782822463100050"))
	require.Equal(t, BrandUnknown, DetectBrand("6011111111111117"))
	require.Equal(t, BrandUnknown, DetectBrand(""))
}

func TestHash_DeterministicAndNotRaw(t *testing.T) {
	h1 := Hash("4111111111111111")
	h2 := Hash("4111111111111111")
	require.Equal(t, h1, h2)
	require.NotEqual(t, "4111111111111111", h1)
	require.Len(t, h1, 64)
	require.NotEqual(t, h1, Hash("5555555555554444"))
}

func TestLastFour(t *testing.T) {
	require.Equal(t, "1111", LastFour("4111111111111111"))
	require.Equal(t, "12", LastFour("12"))
}
