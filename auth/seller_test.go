package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nerdymedev/lekzzy-tech-store/models"
)

func TestAllowlistPolicy(t *testing.T) {
	policy := NewAllowlistPolicy(" Admin@Example.com, ops@example.com ,")

	assert.True(t, policy.IsSeller(&models.User{Email: "admin@example.com"}))
	assert.True(t, policy.IsSeller(&models.User{Email: "ADMIN@EXAMPLE.COM"}))
	assert.True(t, policy.IsSeller(&models.User{Email: "ops@example.com"}))
	assert.False(t, policy.IsSeller(&models.User{Email: "buyer@example.com"}))
	assert.False(t, policy.IsSeller(nil))
}

func TestAllowlistPolicyHonorsRoles(t *testing.T) {
	policy := NewAllowlistPolicy("")

	assert.True(t, policy.IsSeller(&models.User{Email: "x@example.com", Role: "seller"}))
	assert.True(t, policy.IsSeller(&models.User{Email: "x@example.com", Role: "admin"}))
	assert.False(t, policy.IsSeller(&models.User{Email: "x@example.com", Role: "guest"}))
}
