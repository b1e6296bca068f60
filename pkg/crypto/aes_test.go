package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clave(t *testing.T, hexKey string) []byte {
	t.Helper()
	key, err := DeriveKey(hexKey)
	require.NoError(t, err)
	return key
}

func TestDeriveKey(t *testing.T) {
	key := clave(t, strings.Repeat("ab", 32))
	assert.Len(t, key, 32)

	_, err := DeriveKey("no-es-hex")
	assert.Error(t, err)

	_, err = DeriveKey("abcd") // 2 bytes
	assert.Error(t, err)
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key := clave(t, strings.Repeat("ab", 32))

	enc, err := Encrypt("vecina@example.com", key)
	require.NoError(t, err)
	assert.NotEqual(t, "vecina@example.com", enc)

	dec, err := Decrypt(enc, key)
	require.NoError(t, err)
	assert.Equal(t, "vecina@example.com", dec)
}

func TestEncryptNonceAleatorio(t *testing.T) {
	// mismo plaintext, ciphertexts distintos
	key := clave(t, strings.Repeat("ab", 32))

	a, err := Encrypt("3001234567", key)
	require.NoError(t, err)
	b, err := Encrypt("3001234567", key)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestDecryptClaveIncorrecta(t *testing.T) {
	enc, err := Encrypt("secreto", clave(t, strings.Repeat("ab", 32)))
	require.NoError(t, err)

	_, err = Decrypt(enc, clave(t, strings.Repeat("cd", 32)))
	assert.Error(t, err)
}

func TestDecryptCiphertextAlterado(t *testing.T) {
	key := clave(t, strings.Repeat("ab", 32))
	enc, err := Encrypt("secreto", key)
	require.NoError(t, err)

	alterado := []byte(enc)
	if alterado[0] == 'A' {
		alterado[0] = 'B'
	} else {
		alterado[0] = 'A'
	}
	_, err = Decrypt(string(alterado), key)
	assert.Error(t, err)

	_, err = Decrypt("QQ==", key) // más corto que el nonce
	assert.Error(t, err)

	_, err = Decrypt("%%%", key) // ni siquiera base64
	assert.Error(t, err)
}
