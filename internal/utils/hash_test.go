package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateRandomToken(t *testing.T) {
	first, err := GenerateRandomToken(16)
	require.NoError(t, err)
	second, err := GenerateRandomToken(16)
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}

func TestNormalize(t *testing.T) {
	require.Equal(t, "dana@example.com", NormalizeEmail("  Dana@Example.COM "))
	require.Equal(t, "AB-123-CD", NormalizePlate(" ab-123-cd "))
}

func TestIsBcryptHash(t *testing.T) {
	require.True(t, IsBcryptHash("$2a$10$abcdefghijklmnopqrstuv"))
	require.True(t, IsBcryptHash("$2b$12$abcdefghijklmnopqrstuv"))
	require.False(t, IsBcryptHash("plaintext"))
	require.False(t, IsBcryptHash("$1$legacy"))
}
