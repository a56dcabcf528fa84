package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePassword(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"Valid", "SecurePass12", false},
		{"Exactly Min Length", "Abcdef12", false},
		{"Exactly Max Length", "A" + strings.Repeat("b", 126) + "1", false},
		{"Too Short", "Small1a", true},
		{"Too Long", "A" + strings.Repeat("b", 127) + "1", true},
		{"No Upper", "securepass12", true},
		{"No Lower", "SECUREPASS12", true},
		{"No Digit", "SecurePassword", true},
		{"Unicode Characters", "Ångstrom12", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"Valid", "photo_fan42", false},
		{"Min Length", "abc", false},
		{"Max Length", strings.Repeat("a", 30), false},
		{"Too Short", "ab", true},
		{"Too Long", strings.Repeat("a", 31), true},
		{"Hyphen", "photo-fan", true},
		{"Space", "photo fan", true},
		{"Markup", "<b>x</b>", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "&lt;script&gt;hi&lt;/script&gt;", Sanitize("  <script>hi</script> \n"))
	assert.Equal(t, "plain", Sanitize("plain"))
}

func TestValidateMaxLen(t *testing.T) {
	assert.NoError(t, ValidateMaxLen("caption", strings.Repeat("é", 500), 500))
	assert.EqualError(t, ValidateMaxLen("caption", strings.Repeat("é", 501), 500), "caption must not exceed 500 characters")
}

func TestCleanText(t *testing.T) {
	atLimit := strings.Repeat("a", 495) + " & b"

	got, err := CleanText("Caption", "  "+atLimit+"\n", 499)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("a", 495)+" &amp; b", got)

	_, err = CleanText("Caption", atLimit+"!", 499)
	assert.EqualError(t, err, "Caption must not exceed 499 characters")

	got, err = CleanText("Bio", "<i>", 3)
	require.NoError(t, err)
	assert.Equal(t, "&lt;i&gt;", got)
}
