package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/seedkeeper/internal/common"
)

func (a *App) Address(ctx context.Context) error {
	addr, err := a.keyring.Address(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Address: %s\n", addr)
	return nil
}

// Unlock decrypts the stored phrase and prints it once.
func (a *App) Unlock(ctx context.Context) error {
	password, err := getSecret(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	phrase, err := a.keyring.Unlock(ctx, password)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(phrase)

	fmt.Fprintln(a.out, "Recovery phrase:")
	fmt.Fprintf(a.out, "  %s\n", phrase)
	return nil
}

func (a *App) Backup(ctx context.Context) error {
	key, err := a.backup.Upload(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Encrypted backup stored under key %s\n", key)
	fmt.Fprintln(a.out, "Keep the key: 'restore <key>' brings the wallet back on a new installation.")
	return nil
}

// Restore pulls a backup into an empty installation. The password is
// checked against the backup before anything is written.
func (a *App) Restore(ctx context.Context, key string) error {
	password, err := getSecret(a.out, "Backup password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	addr, err := a.backup.Restore(ctx, key, password)
	if err != nil {
		return err
	}

	if a.machine != nil {
		a.machine.Close()
		a.machine = nil
	}
	a.walletExists = true
	fmt.Fprintf(a.out, "Wallet %s restored.\n", addr)
	return nil
}

// Reset deletes the stored wallet after an explicit confirmation and starts
// onboarding again.
func (a *App) Reset(ctx context.Context) error {
	answer, err := getSimpleText(a.reader, "This deletes the stored wallet. Type 'yes' to continue", a.out)
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "yes") {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}

	if err := a.keyring.Reset(ctx); err != nil {
		return err
	}
	a.walletExists = false
	if err := a.startOnboarding(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Wallet removed.")
	return a.Status(ctx)
}
