package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPascalToSnake(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"HomePage", "home_page"},
		{"User", "user"},
		{"UserProfile2", "user_profile2"},
		{"APIClient", "a_p_i_client"},
		{"alreadySnake", "already_snake"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, PascalToSnake(tt.input))
		})
	}
}

func TestPascalToCamel(t *testing.T) {
	assert.Equal(t, "userRepository", PascalToCamel("UserRepository"))
	assert.Equal(t, "", PascalToCamel(""))
}

func TestCamelToTitle(t *testing.T) {
	assert.Equal(t, "Home Page", CamelToTitle("homePage"))
	assert.Equal(t, "Settings Page", CamelToTitle("SettingsPage"))
	assert.Equal(t, "Profile", CamelToTitle("Profile"))
	assert.Equal(t, "", CamelToTitle(""))
}

func TestValidNames(t *testing.T) {
	assert.True(t, ValidPageName("HomePage"))
	assert.False(t, ValidPageName("homePage"))
	assert.False(t, ValidPageName("Home2"))
	assert.False(t, ValidPageName(""))

	assert.True(t, ValidClassName("User2"))
	assert.False(t, ValidClassName("2User"))
	assert.False(t, ValidClassName("User_Name"))
}
