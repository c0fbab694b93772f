// Package cryptox protects the recovery phrase with a password: a slow KDF
// stretches the password with a random salt and AES-256-GCM seals the phrase.
//
// Cipher values hold no mutable state and are safe for concurrent use.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"io"

	"github.com/dmitrijs2005/seedkeeper/internal/common"
)

type Cipher struct {
	params KDFParams
	rand   io.Reader
}

// NewCipher returns a Cipher sealing with DefaultParams.
func NewCipher() *Cipher {
	return &Cipher{params: DefaultParams(), rand: rand.Reader}
}

func newCipherWith(params KDFParams, r io.Reader) *Cipher {
	return &Cipher{params: params, rand: r}
}

// Encrypt seals phrase under password with a fresh salt and nonce.
func (c *Cipher) Encrypt(phrase, password []byte) (*EncryptedCredential, error) {
	if len(phrase) == 0 {
		return nil, common.NewInputError("phrase", common.ErrEmptyInput)
	}
	if len(password) == 0 {
		return nil, common.NewInputError("password", common.ErrEmptyInput)
	}

	salt, err := common.ReadRand(c.rand, SaltSize)
	if err != nil {
		return nil, err
	}
	nonce, err := common.ReadRand(c.rand, NonceSize)
	if err != nil {
		return nil, err
	}

	key, err := c.params.deriveKey(password, salt)
	if err != nil {
		return nil, &common.FatalConfigError{Component: "kdf", Err: err}
	}
	defer common.WipeByteArray(key)

	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	cred := &EncryptedCredential{Params: c.params, Salt: salt, Nonce: nonce}
	cred.Ciphertext = aead.Seal(nil, nonce, phrase, cred.header())
	return cred, nil
}

// Decrypt opens cred with password using the parameters recorded in cred.
// A wrong password and a tampered blob are indistinguishable and both fail
// with an InputError wrapping common.ErrDecryptionFailed.
func (c *Cipher) Decrypt(cred *EncryptedCredential, password []byte) ([]byte, error) {
	if cred == nil {
		return nil, common.ErrCorruptCredential
	}
	if len(password) == 0 {
		return nil, common.NewInputError("password", common.ErrEmptyInput)
	}
	if len(cred.Nonce) != NonceSize || len(cred.Salt) < SaltSize {
		return nil, common.ErrCorruptCredential
	}

	key, err := cred.Params.deriveKey(password, cred.Salt)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(key)

	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	plaintext, err := aead.Open(nil, cred.Nonce, cred.Ciphertext, cred.header())
	if err != nil {
		return nil, common.NewInputError("password", common.ErrDecryptionFailed)
	}
	return plaintext, nil
}

// DecryptBlob parses data and decrypts it.
func (c *Cipher) DecryptBlob(data, password []byte) ([]byte, error) {
	cred, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return c.Decrypt(cred, password)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, &common.FatalConfigError{Component: "aes", Err: err}
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, &common.FatalConfigError{Component: "gcm", Err: err}
	}
	return aead, nil
}
