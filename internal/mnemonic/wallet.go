// Package mnemonic validates recovery phrases and derives the public wallet
// identity through an injected Wallet capability.
//
// The package never carries its own word list: well-formedness and checksum
// checks are delegated to the Wallet implementation.
package mnemonic

import (
	"bytes"
	"unicode"

	"github.com/dmitrijs2005/seedkeeper/internal/common"
)

// Identity is the public, non-secret part of a wallet.
type Identity struct {
	Address string
}

// Wallet is the mnemonic wallet capability the onboarding core consumes.
type Wallet interface {
	Generate() (string, error)
	IsValidPhrase(phrase string) bool
	DeriveIdentity(phrase string) (Identity, error)
}

// Normalize lowercases phrase and collapses runs of whitespace into single
// spaces. The result is a new slice; phrase is left untouched.
func Normalize(phrase []byte) []byte {
	fields := bytes.FieldsFunc(phrase, unicode.IsSpace)
	out := bytes.ToLower(bytes.Join(fields, []byte{' '}))
	return out
}

// Words splits a normalized phrase. The returned slices alias phrase.
func Words(phrase []byte) [][]byte {
	return bytes.Fields(phrase)
}

// Validator gates phrases on behalf of the state machine.
type Validator struct {
	wallet Wallet
}

func NewValidator(w Wallet) *Validator {
	return &Validator{wallet: w}
}

// IsValid reports whether phrase consists of word-list words with a correct
// checksum.
func (v *Validator) IsValid(phrase []byte) bool {
	if len(bytes.TrimSpace(phrase)) == 0 {
		return false
	}
	norm := Normalize(phrase)
	defer common.WipeByteArray(norm)
	return v.wallet.IsValidPhrase(string(norm))
}

// DeriveWallet derives the public identity for phrase. An invalid phrase
// fails with an InputError wrapping common.ErrInvalidPhrase.
func (v *Validator) DeriveWallet(phrase []byte) (Identity, error) {
	if !v.IsValid(phrase) {
		return Identity{}, common.NewInputError("phrase", common.ErrInvalidPhrase)
	}

	norm := Normalize(phrase)
	defer common.WipeByteArray(norm)

	id, err := v.wallet.DeriveIdentity(string(norm))
	if err != nil {
		return Identity{}, common.NewInputError("phrase", common.ErrInvalidPhrase)
	}
	return id, nil
}
