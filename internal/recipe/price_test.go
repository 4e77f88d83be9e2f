// AngelaMos | 2026
// price_test.go

package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		input string
		cents int64
	}{
		{"0", 0},
		{"0.00", 0},
		{"5", 500},
		{"5.5", 550},
		{"12.34", 1234},
		{".50", 50},
		{"999.99", 99999},
		{" 7.25 ", 725},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cents, err := ParsePrice(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.cents, cents)
		})
	}
}

func TestParsePrice_Invalid(t *testing.T) {
	invalid := []string{
		"",
		".",
		"-1",
		"+5",
		"abc",
		"1.234",
		"1000.00",
		"12a.50",
		"12.5x",
	}

	for _, input := range invalid {
		t.Run(input, func(t *testing.T) {
			_, err := ParsePrice(input)
			assert.ErrorIs(t, err, ErrInvalidPrice)
		})
	}
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "0.00", FormatPrice(0))
	assert.Equal(t, "0.05", FormatPrice(5))
	assert.Equal(t, "12.34", FormatPrice(1234))
	assert.Equal(t, "999.99", FormatPrice(99999))
}

func TestParsePrice_RoundTrip(t *testing.T) {
	for _, s := range []string{"0.00", "5.50", "12.34", "999.99"} {
		cents, err := ParsePrice(s)
		require.NoError(t, err)
		assert.Equal(t, s, FormatPrice(cents))
	}
}
