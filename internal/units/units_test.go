package units

import (
	"math/rand"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToSmallestUnit(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1.5", "1500000000000000000"},
		{"1", "1000000000000000000"},
		{"0", "0"},
		{".5", "500000000000000000"},
		{"1.", "1000000000000000000"},
		{" 2 ", "2000000000000000000"},
		{"-0.25", "-250000000000000000"},
		{"0.0000000000000000011", "1"},
		{"0.000000000000000001", "1"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ToSmallestUnit(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToSmallestUnit_Rejects(t *testing.T) {
	for _, in := range []string{"abc", "", ".", "1.2.3", "1e18", "0x10", strings.Repeat("9", 80)} {
		_, err := ToSmallestUnit(in)
		assert.Error(t, err, in)
	}
	_, err := ToSmallestUnit(strings.Repeat("9", 80))
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestToDisplayUnit(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1500000000000000000", "1.5"},
		{"1000000000000000000", "1"},
		{"1", "0.000000000000000001"},
		{"0", "0"},
		{"0xde0b6b3a7640000", "1"},
		{"-500000000000000000", "-0.5"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ToDisplayUnit(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToDisplayUnit_Rejects(t *testing.T) {
	for _, in := range []string{"abc", "", "1.5", "0x", "0xzz", "1_000"} {
		_, err := ToDisplayUnit(in)
		assert.Error(t, err, in)
	}
}

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		whole := rng.Int63n(1_000_000_000)
		fracDigits := rng.Intn(Decimals) + 1
		frac := make([]byte, fracDigits)
		for j := range frac {
			frac[j] = byte('0' + rng.Intn(10))
		}
		frac[fracDigits-1] = byte('1' + rng.Intn(9))
		in := strconv.FormatInt(whole, 10) + "." + string(frac)

		wei, err := ToSmallestUnit(in)
		require.NoError(t, err)
		back, err := ToDisplayUnit(wei)
		require.NoError(t, err)
		assert.Equal(t, in, back)
	}
}
