package ai

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCredentialPool_PreservesOrder(t *testing.T) {
	pool, err := NewCredentialPool("first", "second", "third")
	require.NoError(t, err)

	assert.Equal(t, 3, pool.Len())
	assert.Equal(t, []string{"first", "second", "third"}, pool.Keys())
}

func TestNewCredentialPool_FiltersBlanks(t *testing.T) {
	pool, err := NewCredentialPool("", " first ", "  ", "second")
	require.NoError(t, err)

	assert.Equal(t, []string{"first", "second"}, pool.Keys())
}

func TestNewCredentialPool_Empty(t *testing.T) {
	_, err := NewCredentialPool()
	assert.ErrorIs(t, err, ErrNoCredentials)

	_, err = NewCredentialPool("", "   ")
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestCredentialPool_KeysCopy(t *testing.T) {
	pool, err := NewCredentialPool("first", "second")
	require.NoError(t, err)

	keys := pool.Keys()
	keys[0] = "mutated"
	assert.Equal(t, []string{"first", "second"}, pool.Keys())
}

func TestCredentialsFromEnv(t *testing.T) {
	t.Run("unset", func(t *testing.T) {
		t.Setenv(CredentialsEnvVar, "")
		assert.Nil(t, CredentialsFromEnv())
	})

	t.Run("comma separated", func(t *testing.T) {
		t.Setenv(CredentialsEnvVar, "key-1, key-2,,key-3")
		assert.Equal(t, []string{"key-1", "key-2", "key-3"}, CredentialsFromEnv())
	})
}

func TestCodeOf(t *testing.T) {
	base := &ProviderError{Code: CodeRateLimited, Err: errors.New("429")}

	assert.Equal(t, CodeRateLimited, CodeOf(base))
	assert.Equal(t, CodeRateLimited, CodeOf(&ExhaustedError{Attempts: 2, LastErr: base}))
	assert.Equal(t, CodeUnknown, CodeOf(errors.New("plain")))
	assert.Equal(t, CodeUnknown, CodeOf(nil))
}

func TestIsQuotaExceeded(t *testing.T) {
	assert.True(t, IsQuotaExceeded(&ProviderError{Code: CodeRateLimited, Err: errors.New("429")}))
	assert.True(t, IsQuotaExceeded(&ExhaustedError{Attempts: 1, LastErr: &ProviderError{Code: CodeOverloaded, Err: errors.New("503")}}))
	assert.False(t, IsQuotaExceeded(&ProviderError{Code: CodeUnauthorized, Err: errors.New("401")}))
	assert.False(t, IsQuotaExceeded(errors.New("plain")))
}
