// Package onboarding sequences wallet creation and import: password capture,
// phrase display, backup confirmation and the single write of the encrypted
// credential.
//
// A Machine is a single logical actor. Dispatch admits one action at a time
// and rejects overlapping calls with common.ErrBusy. Snapshot may be called
// from any goroutine and never observes a half-applied transition.
package onboarding

import (
	"bytes"
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/seedkeeper/internal/challenge"
	"github.com/dmitrijs2005/seedkeeper/internal/common"
	"github.com/dmitrijs2005/seedkeeper/internal/cryptox"
	"github.com/dmitrijs2005/seedkeeper/internal/logging"
	"github.com/dmitrijs2005/seedkeeper/internal/mnemonic"
	"github.com/dmitrijs2005/seedkeeper/internal/secretstore"
)

// Sealer encrypts a phrase under a password. *cryptox.Cipher implements it.
type Sealer interface {
	Encrypt(phrase, password []byte) (*cryptox.EncryptedCredential, error)
}

// PasswordChecker gates passwords. *policy.Policy implements it.
type PasswordChecker interface {
	Check(password []byte) error
}

// Deps are the collaborators of a Machine. All fields except Logger are
// required.
type Deps struct {
	Wallet     mnemonic.Wallet
	Store      secretstore.Store
	Cipher     Sealer
	Policy     PasswordChecker
	Challenges *challenge.Generator
	Logger     logging.Logger
}

type Options struct {
	// ReshuffleOnFailure picks new positions after a wrong confirmation.
	ReshuffleOnFailure bool
}

type Machine struct {
	flight sync.Mutex // held for the duration of one Dispatch

	mu        sync.RWMutex // guards everything below
	state     State
	lastErr   error
	phrase    []byte
	password  []byte
	identity  mnemonic.Identity
	challenge *challenge.Challenge
	closed    bool

	session    string
	log        logging.Logger
	wallet     mnemonic.Wallet
	validator  *mnemonic.Validator
	store      secretstore.Store
	cipher     Sealer
	policy     PasswordChecker
	challenges *challenge.Generator
	opts       Options
}

// New returns a Machine in the Welcome state.
func New(d Deps, opts Options) (*Machine, error) {
	switch {
	case d.Wallet == nil:
		return nil, &common.FatalConfigError{Component: "onboarding", Err: errors.New("wallet is required")}
	case d.Store == nil:
		return nil, &common.FatalConfigError{Component: "onboarding", Err: errors.New("store is required")}
	case d.Cipher == nil:
		return nil, &common.FatalConfigError{Component: "onboarding", Err: errors.New("cipher is required")}
	case d.Policy == nil:
		return nil, &common.FatalConfigError{Component: "onboarding", Err: errors.New("password policy is required")}
	case d.Challenges == nil:
		return nil, &common.FatalConfigError{Component: "onboarding", Err: errors.New("challenge generator is required")}
	}

	log := d.Logger
	if log == nil {
		log = logging.NewNop()
	}
	session := uuid.NewString()

	return &Machine{
		state:      Welcome{},
		session:    session,
		log:        log.With("session", session),
		wallet:     d.Wallet,
		validator:  mnemonic.NewValidator(d.Wallet),
		store:      d.Store,
		cipher:     d.Cipher,
		policy:     d.Policy,
		challenges: d.Challenges,
		opts:       opts,
	}, nil
}

// Session identifies this onboarding run in logs.
func (m *Machine) Session() string {
	return m.session
}

// State returns the current state.
func (m *Machine) State() State {
	s, _ := m.Snapshot()
	return s
}

// Snapshot returns the current state and the error of the last dispatched
// action, nil if it succeeded. Slices in the returned state are copies.
func (m *Machine) Snapshot() (State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	switch s := m.state.(type) {
	case PhraseDisplay:
		words := mnemonic.Words(m.phrase)
		s.Words = make([][]byte, len(words))
		for i, w := range words {
			s.Words[i] = bytes.Clone(w)
		}
		return s, m.lastErr
	case PhraseConfirmation:
		s.Positions = slices.Clone(s.Positions)
		return s, m.lastErr
	default:
		return s, m.lastErr
	}
}

// Dispatch applies a to the current state. On failure the state is kept,
// apart from bookkeeping such as the confirmation attempt counter, and the
// error is also recorded for Snapshot.
func (m *Machine) Dispatch(ctx context.Context, a Action) error {
	defer wipe(a)

	if !m.flight.TryLock() {
		m.log.Debug(ctx, "action rejected", "action", a.Name(), "reason", "busy")
		return common.ErrBusy
	}
	defer m.flight.Unlock()

	m.mu.RLock()
	from, closed := m.state, m.closed
	m.mu.RUnlock()

	if closed {
		return fmt.Errorf("machine closed: %w", common.ErrTerminal)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	next, err := m.transition(ctx, from, a)

	m.mu.Lock()
	if next != nil {
		m.state = next
	}
	m.lastErr = err
	m.mu.Unlock()

	if err != nil {
		args := []any{"action", a.Name(), "state", from.Name(), "kind", common.KindOf(err).String(), "error", err}
		if common.KindOf(err) == common.KindFatal {
			m.log.Error(ctx, "action failed", args...)
		} else {
			m.log.Warn(ctx, "action rejected", args...)
		}
		return err
	}

	m.log.Info(ctx, "transition", "action", a.Name(), "from", from.Name(), "to", next.Name())
	return nil
}

// Close wipes every secret held by the machine. It waits for an in-flight
// action to finish. Further dispatches fail.
func (m *Machine) Close() {
	m.flight.Lock()
	defer m.flight.Unlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.wipeLocked()
	m.closed = true
}

// transition is the single transition function. A nil State with a nil
// error never happens; a non-nil State with an error replaces the current
// state while still reporting the failure.
func (m *Machine) transition(ctx context.Context, from State, a Action) (State, error) {
	switch s := from.(type) {
	case Welcome:
		switch a.(type) {
		case Create:
			return AwaitingPassword{Mode: ModeCreate}, nil
		case StartImport:
			return ImportPhrase{}, nil
		}

	case AwaitingPassword:
		switch a := a.(type) {
		case SetPassword:
			return m.acceptPassword(a)
		case Back:
			m.wipe()
			return Welcome{}, nil
		}

	case ImportPhrase:
		switch a := a.(type) {
		case SubmitPhrase:
			return m.acceptPhrase(a)
		case Back:
			m.wipe()
			return Welcome{}, nil
		}

	case PhraseDisplay:
		switch a.(type) {
		case AcknowledgeBackup:
			return m.startChallenge(s.Address)
		case Back:
			m.wipe()
			return AwaitingPassword{Mode: ModeCreate}, nil
		}

	case PhraseConfirmation:
		switch a := a.(type) {
		case SubmitConfirmation:
			return m.confirm(ctx, s, a)
		case Back:
			m.mu.Lock()
			m.challenge = nil
			m.mu.Unlock()
			return PhraseDisplay{Address: s.Address}, nil
		}

	case FinalizePassword:
		switch a := a.(type) {
		case Finalize:
			return m.finalize(ctx, s, a)
		case Back:
			m.wipe()
			return ImportPhrase{}, nil
		}

	case Success:
		if _, ok := a.(Complete); ok {
			m.wipe()
			return Dashboard{Address: s.Address}, nil
		}

	case Dashboard:
		return nil, common.ErrTerminal
	}

	return nil, fmt.Errorf("%s in %s: %w", a.Name(), from.Name(), common.ErrInvalidTransition)
}

// checkPassword applies the policy and the confirmation match.
func (m *Machine) checkPassword(password, confirm []byte) error {
	if err := m.policy.Check(password); err != nil {
		return err
	}
	if subtle.ConstantTimeCompare(password, confirm) != 1 {
		return common.NewInputError("password_confirmation", common.ErrPasswordMismatch)
	}
	return nil
}

func (m *Machine) acceptPassword(a SetPassword) (State, error) {
	if err := m.checkPassword(a.Password, a.Confirm); err != nil {
		return nil, err
	}

	generated, err := m.wallet.Generate()
	if err != nil {
		return nil, &common.FatalConfigError{Component: "mnemonic wallet", Err: err}
	}
	phrase := mnemonic.Normalize([]byte(generated))

	id, err := m.validator.DeriveWallet(phrase)
	if err != nil {
		common.WipeByteArray(phrase)
		return nil, &common.FatalConfigError{Component: "mnemonic wallet", Err: err}
	}

	m.mu.Lock()
	m.phrase = phrase
	m.password = bytes.Clone(a.Password)
	m.identity = id
	m.mu.Unlock()

	return PhraseDisplay{Address: id.Address}, nil
}

func (m *Machine) acceptPhrase(a SubmitPhrase) (State, error) {
	if len(bytes.TrimSpace(a.Phrase)) == 0 {
		return nil, common.NewInputError("phrase", common.ErrEmptyInput)
	}

	phrase := mnemonic.Normalize(a.Phrase)
	id, err := m.validator.DeriveWallet(phrase)
	if err != nil {
		common.WipeByteArray(phrase)
		return nil, err
	}

	m.mu.Lock()
	m.phrase = phrase
	m.identity = id
	m.mu.Unlock()

	return FinalizePassword{Address: id.Address}, nil
}

func (m *Machine) startChallenge(address string) (State, error) {
	ch, err := m.challenges.Generate(m.phrase)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.challenge = ch
	m.mu.Unlock()

	return PhraseConfirmation{Positions: slices.Clone(ch.Positions), Address: address}, nil
}

func (m *Machine) confirm(ctx context.Context, s PhraseConfirmation, a SubmitConfirmation) (State, error) {
	if !challenge.Verify(m.challenge, m.phrase, a.Answers) {
		s.Attempts++
		if m.opts.ReshuffleOnFailure {
			ch, err := m.challenges.Generate(m.phrase)
			if err != nil {
				m.log.Warn(ctx, "reshuffle failed, keeping positions", "kind", common.KindOf(err).String(), "error", err)
				if common.KindOf(err) == common.KindFatal {
					return s, err
				}
			} else {
				m.mu.Lock()
				m.challenge = ch
				m.mu.Unlock()
				s.Positions = slices.Clone(ch.Positions)
			}
		}
		return s, common.NewInputError("confirmation", common.ErrConfirmationMismatch)
	}

	// The create flow captured the password before the phrase existed.
	if err := m.persist(ctx, m.password); err != nil {
		return nil, err
	}
	return Success{Address: s.Address}, nil
}

func (m *Machine) finalize(ctx context.Context, s FinalizePassword, a Finalize) (State, error) {
	if err := m.checkPassword(a.Password, a.Confirm); err != nil {
		return nil, err
	}
	if err := m.persist(ctx, a.Password); err != nil {
		return nil, err
	}
	return Success{Address: s.Address}, nil
}

// persist encrypts the phrase and writes credential and address as one
// atomic pair. Secrets are wiped only once both are stored, so a storage
// failure can be retried from the same state.
func (m *Machine) persist(ctx context.Context, password []byte) error {
	cred, err := m.cipher.Encrypt(m.phrase, password)
	if err != nil {
		return err
	}
	blob, err := cred.MarshalBinary()
	if err != nil {
		return &common.FatalConfigError{Component: "credential encoding", Err: err}
	}

	address := m.identity.Address
	err = m.store.PutAll(ctx,
		secretstore.Entry{Key: common.CredentialKey, Value: blob},
		secretstore.Entry{Key: common.AddressKey, Value: []byte(address)},
	)
	if err != nil {
		var se *common.StorageError
		if !errors.As(err, &se) {
			err = &common.StorageError{Op: "put", Err: err}
		}
		return err
	}

	m.wipe()
	m.log.Info(ctx, "wallet persisted", "address", address)
	return nil
}

func (m *Machine) wipe() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wipeLocked()
}

func (m *Machine) wipeLocked() {
	common.WipeByteArray(m.phrase)
	common.WipeByteArray(m.password)
	m.phrase = nil
	m.password = nil
	m.identity = mnemonic.Identity{}
	m.challenge = nil
}
