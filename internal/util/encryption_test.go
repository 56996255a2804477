package util

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-process-secret"

func TestEncryptSecret(t *testing.T) {
	t.Run("round-trips arbitrary strings", func(t *testing.T) {
		for _, plaintext := range []string{
			"",
			"api-key-12345",
			"şifreli metin with ünïcode",
			strings.Repeat("x", 4096),
		} {
			token, err := EncryptSecret(testSecret, plaintext)
			require.NoError(t, err)

			decrypted, err := DecryptSecret(testSecret, token)
			require.NoError(t, err)
			assert.Equal(t, plaintext, decrypted)
		}
	})

	t.Run("produces three base64 segments", func(t *testing.T) {
		token, err := EncryptSecret(testSecret, "hello")
		require.NoError(t, err)

		parts := strings.Split(token, ".")
		require.Len(t, parts, 3)
		for _, p := range parts {
			_, err := base64.StdEncoding.DecodeString(p)
			assert.NoError(t, err)
		}

		nonce, _ := base64.StdEncoding.DecodeString(parts[0])
		tag, _ := base64.StdEncoding.DecodeString(parts[1])
		assert.Len(t, nonce, 12)
		assert.Len(t, tag, 16)
	})

	t.Run("fresh nonce per call", func(t *testing.T) {
		token1, _ := EncryptSecret(testSecret, "same input")
		token2, _ := EncryptSecret(testSecret, "same input")
		assert.NotEqual(t, token1, token2)
	})

	t.Run("fails without a secret", func(t *testing.T) {
		_, err := EncryptSecret("", "plaintext")
		assert.Error(t, err)
	})
}

func TestDecryptSecret(t *testing.T) {
	t.Run("rejects missing segments", func(t *testing.T) {
		_, err := DecryptSecret(testSecret, "onlyonesegment")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "3 segments")

		_, err = DecryptSecret(testSecret, "two.segments")
		assert.Error(t, err)
	})

	t.Run("rejects tampered ciphertext", func(t *testing.T) {
		token, err := EncryptSecret(testSecret, "sensitive value")
		require.NoError(t, err)

		parts := strings.Split(token, ".")
		ciphertext, err := base64.StdEncoding.DecodeString(parts[2])
		require.NoError(t, err)
		require.NotEmpty(t, ciphertext)

		ciphertext[0] ^= 0x01
		parts[2] = base64.StdEncoding.EncodeToString(ciphertext)

		_, err = DecryptSecret(testSecret, strings.Join(parts, "."))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "authentication failed")
	})

	t.Run("rejects wrong key", func(t *testing.T) {
		token, err := EncryptSecret(testSecret, "sensitive value")
		require.NoError(t, err)

		_, err = DecryptSecret("a-different-secret", token)
		assert.Error(t, err)
	})

	t.Run("fails without a secret", func(t *testing.T) {
		_, err := DecryptSecret("", "a.b.c")
		assert.Error(t, err)
	})
}
