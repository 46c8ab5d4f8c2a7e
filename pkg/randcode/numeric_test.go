package randcode

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateNumericCode(t *testing.T) {
	t.Parallel()

	for range 10000 {
		code, err := GenerateNumericCode(6)
		require.NoError(t, err)
		require.Len(t, code, 6)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		require.GreaterOrEqual(t, n, 100000)
		require.LessOrEqual(t, n, 999999)
	}
}

func TestGenerateNumericCode_Lengths(t *testing.T) {
	t.Parallel()

	for _, length := range []int{1, 4, 8} {
		code, err := GenerateNumericCode(length)
		require.NoError(t, err)
		require.Len(t, code, length)
		for _, r := range code {
			require.True(t, r >= '0' && r <= '9', "unexpected rune %q in code %q", r, code)
		}
	}
}

func TestGenerateNumericCode_Distribution(t *testing.T) {
	t.Parallel()

	seen := make(map[string]int)
	for range 10000 {
		code, err := GenerateNumericCode(6)
		require.NoError(t, err)
		seen[code]++
	}

	// With 900k possible values, 10k draws should be nearly collision-free.
	require.Greater(t, len(seen), 9800)
}
