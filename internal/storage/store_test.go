package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"), DeriveKey("test-passphrase"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSessionRoundTrip(t *testing.T) {
	store := newTestStore(t)

	err := store.Save(&StoredSession{
		TelegramID: 123,
		Email:      "ops@example.com",
		Token:      "Bearer secret-token",
	})
	require.NoError(t, err)

	got, err := store.Get(123)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "ops@example.com", got.Email)
	assert.Equal(t, "Bearer secret-token", got.Token)
	assert.False(t, got.LastUpdated.IsZero())
}

func TestGetMissingSession(t *testing.T) {
	store := newTestStore(t)

	got, err := store.Get(999)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestSaveOverwritesSession(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save(&StoredSession{TelegramID: 123, Email: "a@example.com", Token: "t1"}))
	require.NoError(t, store.Save(&StoredSession{TelegramID: 123, Email: "b@example.com", Token: "t2"}))

	got, err := store.Get(123)
	require.NoError(t, err)
	assert.Equal(t, "b@example.com", got.Email)
	assert.Equal(t, "t2", got.Token)
}

func TestDeleteSession(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save(&StoredSession{TelegramID: 123, Email: "a@example.com", Token: "t1"}))
	require.NoError(t, store.Delete(123))

	got, err := store.Get(123)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestTokenIsEncryptedAtRest(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save(&StoredSession{TelegramID: 123, Email: "a@example.com", Token: "plaintext-token"}))

	var stored string
	err := store.db.QueryRow("SELECT encrypted_token FROM sessions WHERE telegram_id = 123").Scan(&stored)
	require.NoError(t, err)
	assert.NotContains(t, stored, "plaintext-token")
}

func TestAllowedUsers(t *testing.T) {
	store := newTestStore(t)

	allowed, err := store.IsUserAllowed(42)
	require.NoError(t, err)
	assert.False(t, allowed)

	require.NoError(t, store.AddAllowedUser(42, 1))

	allowed, err = store.IsUserAllowed(42)
	require.NoError(t, err)
	assert.True(t, allowed)

	users, err := store.GetAllowedUsers()
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, int64(42), users[0].TelegramID)
	assert.Equal(t, int64(1), users[0].AddedBy)

	require.NoError(t, store.RemoveAllowedUser(42))
	allowed, err = store.IsUserAllowed(42)
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key := DeriveKey("passphrase")

	encoded, err := Encrypt([]byte("hello"), key)
	require.NoError(t, err)
	assert.NotEqual(t, "hello", encoded)

	plaintext, err := Decrypt(encoded, key)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(plaintext))
}

func TestDecryptWrongKey(t *testing.T) {
	encoded, err := Encrypt([]byte("hello"), DeriveKey("right"))
	require.NoError(t, err)

	_, err = Decrypt(encoded, DeriveKey("wrong"))
	assert.Error(t, err)
}
