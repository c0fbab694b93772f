package onboarding

import "github.com/dmitrijs2005/seedkeeper/internal/common"

// Action is a user intent fed to Machine.Dispatch. The set of
// implementations is closed.
//
// Byte slices carried by actions are owned by the machine once dispatched:
// they are copied where needed and then zeroed.
type Action interface {
	Name() string
	isAction()
}

// Create starts the create-new-wallet flow.
type Create struct{}

// StartImport starts the import flow.
type StartImport struct{}

type SubmitPhrase struct {
	Phrase []byte
}

// SetPassword captures the password of the create flow.
type SetPassword struct {
	Password []byte
	Confirm  []byte
}

// AcknowledgeBackup is the explicit "I wrote it down" affirmation.
type AcknowledgeBackup struct{}

// SubmitConfirmation answers the challenge, keyed by 0-based word position.
type SubmitConfirmation struct {
	Answers map[int]string
}

// Finalize captures the password of the import flow and persists.
type Finalize struct {
	Password []byte
	Confirm  []byte
}

type Back struct{}

// Complete leaves Success for the Dashboard.
type Complete struct{}

func (Create) Name() string             { return "create" }
func (StartImport) Name() string        { return "start_import" }
func (SubmitPhrase) Name() string       { return "submit_phrase" }
func (SetPassword) Name() string        { return "set_password" }
func (AcknowledgeBackup) Name() string  { return "acknowledge_backup" }
func (SubmitConfirmation) Name() string { return "submit_confirmation" }
func (Finalize) Name() string           { return "finalize" }
func (Back) Name() string               { return "back" }
func (Complete) Name() string           { return "complete" }

func (Create) isAction()             {}
func (StartImport) isAction()        {}
func (SubmitPhrase) isAction()       {}
func (SetPassword) isAction()        {}
func (AcknowledgeBackup) isAction()  {}
func (SubmitConfirmation) isAction() {}
func (Finalize) isAction()           {}
func (Back) isAction()               {}
func (Complete) isAction()           {}

// wipe zeroes every secret the action carries.
func wipe(a Action) {
	switch a := a.(type) {
	case SubmitPhrase:
		common.WipeByteArray(a.Phrase)
	case SetPassword:
		common.WipeByteArray(a.Password)
		common.WipeByteArray(a.Confirm)
	case Finalize:
		common.WipeByteArray(a.Password)
		common.WipeByteArray(a.Confirm)
	}
}
