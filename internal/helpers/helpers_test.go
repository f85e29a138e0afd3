package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasMarkup(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"plain text", "Beach Cleanup", false},
		{"ampersand", "Sun & Sand", false},
		{"entity", "Tom &amp; Jerry", false},
		{"comparisons", "Kids < 12 & seniors > 65 get in free", false},
		{"quotes", `Bring a "big" hat, it's sunny`, false},
		{"empty", "", false},
		{"bold", "<b>Beach</b> Cleanup", true},
		{"script", "Cleanup<script>alert(1)</script>", true},
		{"unknown element", "Bring a <snack> & water", true},
		{"comment", "Beach <!-- hidden --> Cleanup", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasMarkup(tt.in))
		})
	}
}

func TestIsPasswordStrong(t *testing.T) {
	assert.True(t, IsPasswordStrong("Sunset#2020"))
	assert.False(t, IsPasswordStrong("Sh0rt!"))
	assert.False(t, IsPasswordStrong("alllowercase1!"))
	assert.False(t, IsPasswordStrong("NoDigitsHere!"))
	assert.False(t, IsPasswordStrong("NoSpecial123"))
}

func TestHashAndCheckPassword(t *testing.T) {
	hashed, err := HashPassword("Sunset#2020")
	require.NoError(t, err)
	assert.NotEqual(t, "Sunset#2020", hashed)
	assert.True(t, CheckPassword(hashed, "Sunset#2020"))
	assert.False(t, CheckPassword(hashed, "sunset#2020"))
	assert.False(t, CheckPassword("not-a-hash", "Sunset#2020"))
}
