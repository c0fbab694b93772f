package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/seedkeeper/internal/common"
	"github.com/dmitrijs2005/seedkeeper/internal/onboarding"
)

// getSimpleText, getSecret and getPassword are indirections used to
// facilitate testing.
var (
	getSimpleText = GetSimpleText
	getSecret     = GetSecret
	getPassword   = GetPassword
)

// after renders the new state when err is nil and returns err unchanged.
func (a *App) after(err error) error {
	if err != nil {
		return err
	}
	st, _ := a.machine.Snapshot()
	renderState(a.out, st)
	return nil
}

func (a *App) Create(ctx context.Context) error {
	return a.after(a.machine.Create(ctx))
}

// Import reads the recovery phrase without echo and submits it.
func (a *App) Import(ctx context.Context) error {
	phrase, err := getSecret(a.out, "Recovery phrase")
	if err != nil {
		return err
	}
	// The machine wipes phrase.
	return a.after(a.machine.ImportWithPhrase(ctx, phrase))
}

func (a *App) Password(ctx context.Context) error {
	password, confirm, err := getPassword(a.out)
	if err != nil {
		common.WipeByteArray(password)
		common.WipeByteArray(confirm)
		return err
	}
	return a.after(a.machine.SetPassword(ctx, password, confirm))
}

func (a *App) Ack(ctx context.Context) error {
	return a.after(a.machine.ConfirmBackup(ctx))
}

// Confirm asks for every word position of the current challenge.
func (a *App) Confirm(ctx context.Context) error {
	st, ok := a.machine.State().(onboarding.PhraseConfirmation)
	if !ok {
		return a.machine.SubmitConfirmationWords(ctx, nil)
	}

	answers := make(map[int]string, len(st.Positions))
	for _, p := range st.Positions {
		word, err := getSimpleText(a.reader, fmt.Sprintf("Word #%d", p+1), a.out)
		if err != nil {
			return err
		}
		answers[p] = word
	}

	err := a.machine.SubmitConfirmationWords(ctx, answers)
	if err != nil {
		// A reshuffle may have changed the positions.
		next, _ := a.machine.Snapshot()
		renderState(a.out, next)
		return err
	}
	return a.after(nil)
}

func (a *App) Finalize(ctx context.Context) error {
	password, confirm, err := getPassword(a.out)
	if err != nil {
		common.WipeByteArray(password)
		common.WipeByteArray(confirm)
		return err
	}
	return a.after(a.machine.Finalize(ctx, password, confirm))
}

func (a *App) Back(ctx context.Context) error {
	return a.after(a.machine.GoBack(ctx))
}

// Done leaves the success screen and switches to wallet commands.
func (a *App) Done(ctx context.Context) error {
	if err := a.machine.Complete(ctx); err != nil {
		return err
	}
	st := a.machine.State()
	renderState(a.out, st)

	a.machine.Close()
	a.machine = nil
	a.walletExists = true
	return nil
}
