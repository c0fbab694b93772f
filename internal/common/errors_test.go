package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindUnknown},
		{"input wrapper", NewInputError("phrase", ErrInvalidPhrase), KindInput},
		{"wrapped input wrapper", fmt.Errorf("import: %w", NewInputError("password", ErrPasswordPolicy)), KindInput},
		{"bare decryption sentinel", ErrDecryptionFailed, KindInput},
		{"storage", &StorageError{Op: "put", Err: errors.New("disk full")}, KindStorage},
		{"fatal", &FatalConfigError{Component: "aes", Err: errors.New("no cipher")}, KindFatal},
		{"busy", ErrBusy, KindFlow},
		{"transition", fmt.Errorf("create: %w", ErrInvalidTransition), KindFlow},
		{"terminal", ErrTerminal, KindFlow},
		{"other", errors.New("boom"), KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestInputError_UnwrapsReason(t *testing.T) {
	err := NewInputError("confirmation", ErrConfirmationMismatch)

	assert.ErrorIs(t, err, ErrConfirmationMismatch)
	assert.Equal(t, "confirmation: confirmation words do not match", err.Error())

	var ie *InputError
	assert.ErrorAs(t, err, &ie)
	assert.Equal(t, "confirmation", ie.Field)
}

func TestStorageError_UnwrapsCause(t *testing.T) {
	err := &StorageError{Op: "put", Err: ErrAlreadyExists}
	assert.ErrorIs(t, err, ErrAlreadyExists)
	assert.Contains(t, err.Error(), "storage put")
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "input", KindInput.String())
	assert.Equal(t, "storage", KindStorage.String())
	assert.Equal(t, "fatal", KindFatal.String())
	assert.Equal(t, "flow", KindFlow.String())
	assert.Equal(t, "unknown", Kind(99).String())
}
