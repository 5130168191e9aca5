package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLockoutKeyMatchesLoginLookup(t *testing.T) {
	assert.Equal(t, "login_failures:maya@city.gov", lockoutKey("maya@city.gov"))
	assert.NotEqual(t, lockoutKey("maya@city.gov"), lockoutKey("Maya@city.gov"))
}
