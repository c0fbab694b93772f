package onboarding

// Mode tells which flow a password prompt belongs to.
type Mode int

const (
	ModeCreate Mode = iota
	ModeImport
)

func (m Mode) String() string {
	if m == ModeImport {
		return "import"
	}
	return "create"
}

// State is the onboarding step currently shown to the user. The set of
// implementations is closed.
type State interface {
	Name() string
	isState()
}

type Welcome struct{}

type AwaitingPassword struct {
	Mode Mode
}

// ImportPhrase is the phrase entry step of the import flow.
type ImportPhrase struct{}

// PhraseDisplay shows the freshly generated phrase. Words is a copy built
// for this snapshot; callers should wipe it once rendered.
type PhraseDisplay struct {
	Words   [][]byte
	Address string
}

// PhraseConfirmation asks for the words at Positions (0-based).
type PhraseConfirmation struct {
	Positions []int
	Address   string
	Attempts  int
}

type FinalizePassword struct {
	Address string
}

type Success struct {
	Address string
}

// Dashboard is terminal.
type Dashboard struct {
	Address string
}

func (Welcome) Name() string            { return "welcome" }
func (AwaitingPassword) Name() string   { return "awaiting_password" }
func (ImportPhrase) Name() string       { return "import_phrase" }
func (PhraseDisplay) Name() string      { return "phrase_display" }
func (PhraseConfirmation) Name() string { return "phrase_confirmation" }
func (FinalizePassword) Name() string   { return "finalize_password" }
func (Success) Name() string            { return "success" }
func (Dashboard) Name() string          { return "dashboard" }

func (Welcome) isState()            {}
func (AwaitingPassword) isState()   {}
func (ImportPhrase) isState()       {}
func (PhraseDisplay) isState()      {}
func (PhraseConfirmation) isState() {}
func (FinalizePassword) isState()   {}
func (Success) isState()            {}
func (Dashboard) isState()          {}
