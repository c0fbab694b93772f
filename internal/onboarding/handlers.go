package onboarding

import "context"

// Named handlers for UI layers. Each is a thin wrapper over Dispatch.

func (m *Machine) Create(ctx context.Context) error {
	return m.Dispatch(ctx, Create{})
}

// ImportWithPhrase enters the import flow if needed and submits phrase.
// An invalid phrase leaves the machine at ImportPhrase.
func (m *Machine) ImportWithPhrase(ctx context.Context, phrase []byte) error {
	if _, ok := m.State().(Welcome); ok {
		if err := m.Dispatch(ctx, StartImport{}); err != nil {
			wipe(SubmitPhrase{Phrase: phrase})
			return err
		}
	}
	return m.Dispatch(ctx, SubmitPhrase{Phrase: phrase})
}

func (m *Machine) SetPassword(ctx context.Context, password, confirm []byte) error {
	return m.Dispatch(ctx, SetPassword{Password: password, Confirm: confirm})
}

func (m *Machine) ConfirmBackup(ctx context.Context) error {
	return m.Dispatch(ctx, AcknowledgeBackup{})
}

func (m *Machine) SubmitConfirmationWords(ctx context.Context, answers map[int]string) error {
	return m.Dispatch(ctx, SubmitConfirmation{Answers: answers})
}

func (m *Machine) Finalize(ctx context.Context, password, confirm []byte) error {
	return m.Dispatch(ctx, Finalize{Password: password, Confirm: confirm})
}

func (m *Machine) GoBack(ctx context.Context) error {
	return m.Dispatch(ctx, Back{})
}

func (m *Machine) Complete(ctx context.Context) error {
	return m.Dispatch(ctx, Complete{})
}
