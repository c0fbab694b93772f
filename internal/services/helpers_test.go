package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/seedkeeper/internal/common"
	"github.com/dmitrijs2005/seedkeeper/internal/cryptox"
	"github.com/dmitrijs2005/seedkeeper/internal/secretstore"
)

const (
	testPhrase   = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	testAddress  = "0x9858EfFD232B4033E47d90003D41EC34EcaEda94"
	testPassword = "Str0ng!Pass"
)

// seededStore returns a store holding a credential for testPhrase.
func seededStore(t *testing.T) *secretstore.MemoryStore {
	t.Helper()
	store := secretstore.NewMemoryStore()

	cred, err := cryptox.NewCipher().Encrypt([]byte(testPhrase), []byte(testPassword))
	require.NoError(t, err)
	blob, err := cred.MarshalBinary()
	require.NoError(t, err)

	require.NoError(t, store.PutAll(context.Background(),
		secretstore.Entry{Key: common.CredentialKey, Value: blob},
		secretstore.Entry{Key: common.AddressKey, Value: []byte(testAddress)},
	))
	return store
}
