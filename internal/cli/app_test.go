package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/seedkeeper/internal/common"
	"github.com/dmitrijs2005/seedkeeper/internal/config"
	"github.com/dmitrijs2005/seedkeeper/internal/logging"
	"github.com/dmitrijs2005/seedkeeper/internal/mnemonic"
	"github.com/dmitrijs2005/seedkeeper/internal/onboarding"
	"github.com/dmitrijs2005/seedkeeper/internal/secretstore"
	"github.com/dmitrijs2005/seedkeeper/internal/services"
)

const (
	abandonAbout = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	abandonAddr  = "0x9858EfFD232B4033E47d90003D41EC34EcaEda94"
	goodPassword = "Str0ng!Pass"
)

type fixedWallet struct {
	*mnemonic.BIP39Wallet
}

func (fixedWallet) Generate() (string, error) { return abandonAbout, nil }

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.StoreDriver = secretstore.DriverMemory
	// Asking for every word keeps the scripted answers deterministic.
	cfg.ChallengeWords = 12
	return cfg
}

func newTestApp(t *testing.T, store secretstore.Store, input string) (*App, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	a, err := newApp(context.Background(), testConfig(), store, fixedWallet{mnemonic.NewBIP39Wallet()},
		logging.NewNop(), strings.NewReader(input), &out)
	require.NoError(t, err)
	return a, &out
}

func confirmationInput() string {
	words := strings.Fields(abandonAbout)
	return strings.Join(words, "\n") + "\n"
}

func TestApp_CreateFlow(t *testing.T) {
	store := secretstore.NewMemoryStore()
	a, out := newTestApp(t, store, confirmationInput()+"yes\n")
	ctx := context.Background()

	assert.False(t, a.hasWallet())
	assert.Equal(t, "(welcome)", a.getStatus())

	require.NoError(t, a.Create(ctx))
	assert.Contains(t, out.String(), "Choose a password")

	stubSecrets(t, goodPassword, goodPassword, goodPassword)
	require.NoError(t, a.Password(ctx))
	assert.Contains(t, out.String(), " 1. abandon")
	assert.Contains(t, out.String(), "12. about")
	assert.Contains(t, out.String(), abandonAddr)

	require.NoError(t, a.Ack(ctx))
	assert.Contains(t, out.String(), "#1, #2")

	require.NoError(t, a.Confirm(ctx))
	assert.Contains(t, out.String(), "is ready")
	assert.IsType(t, onboarding.Success{}, a.machine.State())

	require.NoError(t, a.Done(ctx))
	assert.True(t, a.hasWallet())
	assert.Equal(t, "(wallet)", a.getStatus())

	out.Reset()
	require.NoError(t, a.Unlock(ctx))
	assert.Contains(t, out.String(), abandonAbout)

	out.Reset()
	require.NoError(t, a.Reset(ctx))
	assert.Contains(t, out.String(), "Wallet removed.")
	assert.False(t, a.hasWallet())

	_, err := store.Get(ctx, common.CredentialKey)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestApp_ImportFlowAndExistingWallet(t *testing.T) {
	store := secretstore.NewMemoryStore()
	a, out := newTestApp(t, store, "")
	ctx := context.Background()

	stubSecrets(t, "  "+strings.ToUpper(abandonAbout)+" ", goodPassword, goodPassword)
	require.NoError(t, a.Import(ctx))
	assert.Contains(t, out.String(), "Phrase accepted for "+abandonAddr)

	require.NoError(t, a.Finalize(ctx))
	require.NoError(t, a.Done(ctx))

	// A second start finds the wallet and skips onboarding.
	b, out2 := newTestApp(t, store, "")
	assert.True(t, b.hasWallet())
	assert.Nil(t, b.machine)
	require.NoError(t, b.Status(ctx))
	assert.Contains(t, out2.String(), "Address: "+abandonAddr)
}

func TestApp_InvalidImportStaysOnEntryStep(t *testing.T) {
	store := secretstore.NewMemoryStore()
	a, _ := newTestApp(t, store, "")
	ctx := context.Background()

	stubSecrets(t, strings.Replace(abandonAbout, "about", "xyzzy", 1))
	err := a.Import(ctx)
	assert.ErrorIs(t, err, common.ErrInvalidPhrase)
	assert.Equal(t, "(import_phrase)", a.getStatus())

	_, err = store.Get(ctx, common.AddressKey)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestApp_UnlockWrongPassword(t *testing.T) {
	store := secretstore.NewMemoryStore()
	a, _ := newTestApp(t, store, "")
	ctx := context.Background()

	stubSecrets(t, abandonAbout, goodPassword, goodPassword, "Wr0ng!Pass")
	require.NoError(t, a.Import(ctx))
	require.NoError(t, a.Finalize(ctx))
	require.NoError(t, a.Done(ctx))

	err := a.Unlock(ctx)
	assert.ErrorIs(t, err, common.ErrDecryptionFailed)
}

func TestApp_ResetCancelled(t *testing.T) {
	store := secretstore.NewMemoryStore()
	a, out := newTestApp(t, store, "no\n")
	ctx := context.Background()

	stubSecrets(t, abandonAbout, goodPassword, goodPassword)
	require.NoError(t, a.Import(ctx))
	require.NoError(t, a.Finalize(ctx))
	require.NoError(t, a.Done(ctx))

	require.NoError(t, a.Reset(ctx))
	assert.Contains(t, out.String(), "Cancelled.")
	assert.True(t, a.hasWallet())
}

func TestApp_ConfirmOutsideChallenge(t *testing.T) {
	a, _ := newTestApp(t, secretstore.NewMemoryStore(), "")
	assert.ErrorIs(t, a.Confirm(context.Background()), common.ErrInvalidTransition)
}

func TestApp_BackupDisabled(t *testing.T) {
	store := secretstore.NewMemoryStore()
	a, _ := newTestApp(t, store, "")
	ctx := context.Background()

	stubSecrets(t, abandonAbout, goodPassword, goodPassword)
	require.NoError(t, a.Import(ctx))
	require.NoError(t, a.Finalize(ctx))
	require.NoError(t, a.Done(ctx))

	assert.ErrorIs(t, a.Backup(ctx), services.ErrBackupDisabled)
}

func TestApp_StatusShowsLastError(t *testing.T) {
	a, out := newTestApp(t, secretstore.NewMemoryStore(), "")
	ctx := context.Background()

	_ = a.Back(ctx)
	out.Reset()
	require.NoError(t, a.Status(ctx))
	assert.Contains(t, out.String(), "Welcome!")
	assert.Contains(t, out.String(), "Last error:")
}
