package fees

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatAmountBands(t *testing.T) {
	cases := []struct {
		name     string
		raw      *big.Int
		decimals uint8
		want     string
	}{
		{"zero", big.NewInt(0), 18, "0"},
		{"nil", nil, 18, "0"},
		{"dust", big.NewInt(99), 6, "9.9000e-05"},
		{"deep dust", big.NewInt(5), 18, "5.0000e-18"},
		{"tiny boundary lands in fixed band", big.NewInt(1), 4, "0.000100"},
		{"sub unit", big.NewInt(500000000000000000), 18, "0.500000"},
		{"unit boundary", new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil), 18, "1.0000"},
		{"mid range", big.NewInt(9995), 1, "999.5000"},
		{"thousand boundary", big.NewInt(1000), 0, "1,000.00"},
		{"large grouped", big.NewInt(123456789), 0, "123,456,789.00"},
		{"large with fraction", big.NewInt(123456750), 2, "1,234,567.50"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, FormatAmount(tc.raw, tc.decimals))
		})
	}
}

func TestFormatAmountDeterministic(t *testing.T) {
	raw := big.NewInt(123456789)
	first := FormatAmount(raw, 4)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, FormatAmount(raw, 4))
	}
	// The input must not be mutated.
	require.Equal(t, "123456789", raw.String())
}

func TestGroupThousands(t *testing.T) {
	require.Equal(t, "1", groupThousands("1"))
	require.Equal(t, "999", groupThousands("999"))
	require.Equal(t, "1,000", groupThousands("1000"))
	require.Equal(t, "12,345.67", groupThousands("12345.67"))
	require.Equal(t, "1,200,000,000,000,000,000.00", groupThousands("1200000000000000000.00"))
}
