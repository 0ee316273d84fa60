package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("creates active non-staff user", func(t *testing.T) {
		user, err := NewUser("Admin@Example.com", "hash")
		require.NoError(t, err)

		assert.Equal(t, "admin@example.com", user.Email)
		assert.True(t, user.IsActive)
		assert.False(t, user.IsStaff)
	})

	t.Run("fails with malformed email", func(t *testing.T) {
		user, err := NewUser("nope", "hash")
		assert.Nil(t, user)
		assert.Error(t, err)
	})

	t.Run("fails with empty password hash", func(t *testing.T) {
		user, err := NewUser("admin@example.com", "")
		assert.Nil(t, user)
		assert.Error(t, err)
	})
}

func TestUser_PromoteToStaff(t *testing.T) {
	user, err := NewUser("admin@example.com", "hash")
	require.NoError(t, err)

	user.PromoteToStaff()
	assert.True(t, user.IsStaff)
}

func TestUser_ActivationLifecycle(t *testing.T) {
	user, err := NewUser("admin@example.com", "hash")
	require.NoError(t, err)

	user.Deactivate()
	assert.False(t, user.IsActive)

	user.Activate()
	assert.True(t, user.IsActive)
}
