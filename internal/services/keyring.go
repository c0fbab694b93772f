// Package services contains the application services used once a wallet
// exists: unlocking the stored credential, resetting the slot and moving the
// encrypted blob to and from S3-compatible storage.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/seedkeeper/internal/common"
	"github.com/dmitrijs2005/seedkeeper/internal/logging"
	"github.com/dmitrijs2005/seedkeeper/internal/secretstore"
)

// Opener decrypts a stored credential blob. *cryptox.Cipher implements it.
type Opener interface {
	DecryptBlob(data, password []byte) ([]byte, error)
}

// KeyringService gives access to the stored wallet.
//
// Contract:
//   - Exists: report whether a wallet has been persisted.
//   - Address: return the stored public address.
//   - Unlock: decrypt the recovery phrase. A wrong password yields an
//     InputError wrapping common.ErrDecryptionFailed. The caller owns and
//     must wipe the returned phrase.
//   - Reset: delete the stored wallet so onboarding can run again.
type KeyringService interface {
	Exists(ctx context.Context) (bool, error)
	Address(ctx context.Context) (string, error)
	Unlock(ctx context.Context, password []byte) ([]byte, error)
	Reset(ctx context.Context) error
}

type keyringService struct {
	store  secretstore.Store
	opener Opener
	log    logging.Logger
}

func NewKeyringService(store secretstore.Store, opener Opener, log logging.Logger) KeyringService {
	if log == nil {
		log = logging.NewNop()
	}
	return &keyringService{store: store, opener: opener, log: log}
}

func (k *keyringService) Exists(ctx context.Context) (bool, error) {
	_, err := k.store.Get(ctx, common.AddressKey)
	if errors.Is(err, common.ErrorNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (k *keyringService) Address(ctx context.Context) (string, error) {
	v, err := k.store.Get(ctx, common.AddressKey)
	if err != nil {
		return "", fmt.Errorf("load address: %w", err)
	}
	return string(v), nil
}

func (k *keyringService) Unlock(ctx context.Context, password []byte) ([]byte, error) {
	blob, err := k.store.Get(ctx, common.CredentialKey)
	if err != nil {
		return nil, fmt.Errorf("load credential: %w", err)
	}

	phrase, err := k.opener.DecryptBlob(blob, password)
	if err != nil {
		k.log.Warn(ctx, "unlock failed", "kind", common.KindOf(err).String())
		return nil, err
	}
	k.log.Info(ctx, "wallet unlocked")
	return phrase, nil
}

func (k *keyringService) Reset(ctx context.Context) error {
	if err := k.store.Delete(ctx, common.CredentialKey, common.AddressKey); err != nil {
		return err
	}
	k.log.Info(ctx, "wallet removed")
	return nil
}
