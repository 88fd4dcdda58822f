package shortcode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 2000; i++ {
		code, err := Generate()
		require.NoError(t, err)
		require.Len(t, code, GeneratedLength)
		for _, r := range code {
			require.True(t, strings.ContainsRune(Alphabet, r), "unexpected rune %q in %q", r, code)
		}
		require.True(t, IsValid(code))
		seen[code] = struct{}{}
	}
	// 62^6 possibilities; a handful of collisions in 2000 draws would point at a broken source.
	assert.Greater(t, len(seen), 1990)
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"ABC123", true},
		{"abcdefg", true},
		{"A1b2C3d4", true},
		{"", false},
		{"bad", false},
		{"abcde", false},
		{"abcdefghi", false},
		{"abc-123", false},
		{"abc 123", false},
		{"abc_123", false},
		{"ábc123", false},
		{"ABC12３", false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValid(tt.code))
		})
	}
}

func TestFilter(t *testing.T) {
	f := NewFilter(1000)

	assert.False(t, f.MayContain("ABC123"))
	f.Add("ABC123")
	assert.True(t, f.MayContain("ABC123"))
	assert.False(t, f.MayContain("ZZZ999"))
}
