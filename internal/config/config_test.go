package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOrigins(t *testing.T) {
	got := ParseOrigins(" http://localhost:5173/ ,, https://stage.example.com ")
	assert.Equal(t, []string{"http://localhost:5173", "https://stage.example.com"}, got)
	assert.Empty(t, ParseOrigins(" , "))
}

func TestOriginPatterns(t *testing.T) {
	c := Config{AllowedOrigins: []string{"http://localhost:5173", "*", "stage.local"}}
	assert.Equal(t, []string{"localhost:5173", "*", "stage.local"}, c.OriginPatterns())
}

func TestValidate(t *testing.T) {
	ok := Config{Port: DefaultPort, AllowedOrigins: ParseOrigins(DefaultAllowedOrigins)}
	assert.NoError(t, ok.Validate())
	assert.Equal(t, ":4000", ok.Addr())

	bad := ok
	bad.Port = "80a"
	assert.Error(t, bad.Validate())

	bad = ok
	bad.AllowedOrigins = nil
	assert.Error(t, bad.Validate())
}
