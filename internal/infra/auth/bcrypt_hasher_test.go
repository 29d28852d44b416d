package auth

import (
	"testing"

	"elogbook/config"
	"elogbook/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashAndCheck(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("staff123")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "staff123", hash)

	assert.True(t, hasher.Check("staff123", hash))
	assert.False(t, hasher.Check("staff124", hash))
	assert.Equal(t, service.SecretSchemeBcrypt, hasher.Scheme())
}

func TestBcryptHasher_SaltsEachHash(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	first, err := hasher.Hash("admin123")
	require.NoError(t, err)
	second, err := hasher.Hash("admin123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, hasher.Check("admin123", first))
	assert.True(t, hasher.Check("admin123", second))
}

func TestBcryptHasher_InvalidCostFallsBack(t *testing.T) {
	hasher := NewBcryptHasher(99).(*bcryptHasher)
	assert.Equal(t, bcrypt.DefaultCost, hasher.cost)
}

func TestBcryptHasher_CheckRejectsPlainStoredValue(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)
	assert.False(t, hasher.Check("admin123", "admin123"))
}

func TestPlainHasher(t *testing.T) {
	hasher := NewPlainHasher()

	stored, err := hasher.Hash("admin123")
	require.NoError(t, err)
	assert.Equal(t, "admin123", stored)

	assert.True(t, hasher.Check("admin123", stored))
	assert.False(t, hasher.Check("Admin123", stored))
	assert.False(t, hasher.Check("", stored))
	assert.Equal(t, service.SecretSchemePlain, hasher.Scheme())
}

func TestNewPasswordHasher(t *testing.T) {
	tests := []struct {
		name    string
		auth    *config.AuthConfig
		scheme  string
		wantErr bool
	}{
		{name: "nil auth config", auth: nil, scheme: service.SecretSchemePlain},
		{name: "plain", auth: &config.AuthConfig{SecretScheme: "plain"}, scheme: service.SecretSchemePlain},
		{name: "bcrypt", auth: &config.AuthConfig{SecretScheme: "bcrypt", BcryptCost: 4}, scheme: service.SecretSchemeBcrypt},
		{name: "unknown", auth: &config.AuthConfig{SecretScheme: "md5"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hasher, err := NewPasswordHasher(&config.Config{Auth: tt.auth})
			if tt.wantErr {
				assert.Error(t, err)

				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.scheme, hasher.Scheme())
		})
	}
}
