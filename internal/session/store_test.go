package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/InfaPanel/internal/storage"
)

func TestStoreSaveLoadClear(t *testing.T) {
	kv := storage.NewMemory()
	store := NewStore(kv, nil)

	_, ok := store.Load()
	assert.False(t, ok)

	store.Save(Session{Token: "tok-1", ServerURL: "https://use4.example/saas", AuthenticatedAt: time.Now()})

	sess, ok := store.Load()
	require.True(t, ok)
	assert.Equal(t, "tok-1", sess.Token)
	assert.Equal(t, "https://use4.example/saas", sess.ServerURL)

	store.Clear()
	_, ok = store.Load()
	assert.False(t, ok)

	keys, err := kv.Keys()
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestStoreColdStart(t *testing.T) {
	kv := storage.NewMemory()
	NewStore(kv, nil).Save(Session{Token: "tok-2", ServerURL: "https://pod.example"})

	// A fresh store over the same KV simulates a restart.
	sess, ok := NewStore(kv, nil).Load()
	require.True(t, ok)
	assert.Equal(t, "tok-2", sess.Token)
	assert.Equal(t, "https://pod.example", sess.ServerURL)
}

func TestStoreRequiresBothKeys(t *testing.T) {
	tests := []struct {
		name string
		seed map[string]string
	}{
		{"token only", map[string]string{keyToken: "tok"}},
		{"url only", map[string]string{keyServerURL: "https://pod.example"}},
		{"empty token", map[string]string{keyToken: "", keyServerURL: "https://pod.example"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := storage.NewMemory()
			for k, v := range tt.seed {
				require.NoError(t, kv.Set(k, v))
			}
			_, ok := NewStore(kv, nil).Load()
			assert.False(t, ok)
		})
	}
}

func TestTokenSource(t *testing.T) {
	store := NewStore(storage.NewMemory(), nil)
	source := store.TokenSource()

	_, ok := source()
	assert.False(t, ok)

	store.Save(Session{Token: "tok-3", ServerURL: "https://pod.example"})
	token, ok := source()
	require.True(t, ok)
	assert.Equal(t, "tok-3", token)
}
