package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenPair(t *testing.T) {
	pair := NewTokenPair("t1", "r1", time.Hour, 24*time.Hour)
	assert.True(t, pair.Valid())
	assert.False(t, pair.Empty())
	assert.True(t, pair.RefreshExpiresAt.After(pair.AccessExpiresAt))
}

func TestTokenPair_PartialIsNotValid(t *testing.T) {
	accessOnly := TokenPair{AccessToken: "t1"}
	assert.False(t, accessOnly.Valid())
	assert.False(t, accessOnly.Empty())

	refreshOnly := TokenPair{RefreshToken: "r1"}
	assert.False(t, refreshOnly.Valid())
	assert.False(t, refreshOnly.Empty())

	var none TokenPair
	assert.False(t, none.Valid())
	assert.True(t, none.Empty())
}
