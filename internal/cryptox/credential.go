package cryptox

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/dmitrijs2005/seedkeeper/internal/common"
)

// Binary layout of an EncryptedCredential, all integers big endian:
//
//	magic "SKCR" | version u8 | kdf u8 | time u32 | memory KiB u32 | threads u8 |
//	saltLen u8 | salt | nonceLen u8 | nonce | ciphertext||tag
//
// Everything before the ciphertext is authenticated as AEAD additional data.
var magic = [4]byte{'S', 'K', 'C', 'R'}

const (
	FormatVersion uint8 = 1

	fixedHeaderLen = len(magic) + 1 + 1 + 4 + 4 + 1
	gcmTagSize     = 16
)

// EncryptedCredential is the only persisted form of a recovery phrase.
type EncryptedCredential struct {
	Params     KDFParams
	Salt       []byte
	Nonce      []byte
	Ciphertext []byte // sealed phrase with the GCM tag appended
}

// header encodes everything up to and including the nonce.
func (c *EncryptedCredential) header() []byte {
	buf := make([]byte, 0, fixedHeaderLen+2+len(c.Salt)+len(c.Nonce))
	buf = append(buf, magic[:]...)
	buf = append(buf, FormatVersion, uint8(c.Params.KDF))
	buf = binary.BigEndian.AppendUint32(buf, c.Params.Time)
	buf = binary.BigEndian.AppendUint32(buf, c.Params.MemoryKiB)
	buf = append(buf, c.Params.Threads)
	buf = append(buf, uint8(len(c.Salt)))
	buf = append(buf, c.Salt...)
	buf = append(buf, uint8(len(c.Nonce)))
	buf = append(buf, c.Nonce...)
	return buf
}

func (c *EncryptedCredential) MarshalBinary() ([]byte, error) {
	if len(c.Salt) < SaltSize || len(c.Salt) > 255 {
		return nil, fmt.Errorf("%w: salt length %d", common.ErrCorruptCredential, len(c.Salt))
	}
	if len(c.Nonce) != NonceSize {
		return nil, fmt.Errorf("%w: nonce length %d", common.ErrCorruptCredential, len(c.Nonce))
	}
	out := c.header()
	out = append(out, c.Ciphertext...)
	return out, nil
}

func (c *EncryptedCredential) UnmarshalBinary(data []byte) error {
	corrupt := func(reason string) error {
		return fmt.Errorf("%w: %s", common.ErrCorruptCredential, reason)
	}

	if len(data) < fixedHeaderLen+2 {
		return corrupt("truncated header")
	}
	if !bytes.Equal(data[:len(magic)], magic[:]) {
		return corrupt("bad magic")
	}
	p := len(magic)

	if v := data[p]; v != FormatVersion {
		return corrupt(fmt.Sprintf("unsupported version %d", v))
	}
	p++

	var params KDFParams
	params.KDF = KDF(data[p])
	p++
	params.Time = binary.BigEndian.Uint32(data[p:])
	p += 4
	params.MemoryKiB = binary.BigEndian.Uint32(data[p:])
	p += 4
	params.Threads = data[p]
	p++
	if err := params.validate(); err != nil {
		return err
	}

	saltLen := int(data[p])
	p++
	if saltLen < SaltSize || len(data) < p+saltLen+1 {
		return corrupt("bad salt length")
	}
	salt := data[p : p+saltLen]
	p += saltLen

	nonceLen := int(data[p])
	p++
	if nonceLen != NonceSize || len(data) < p+nonceLen {
		return corrupt("bad nonce length")
	}
	nonce := data[p : p+nonceLen]
	p += nonceLen

	if len(data)-p < gcmTagSize {
		return corrupt("ciphertext too short")
	}

	c.Params = params
	c.Salt = bytes.Clone(salt)
	c.Nonce = bytes.Clone(nonce)
	c.Ciphertext = bytes.Clone(data[p:])
	return nil
}

// Parse decodes a stored credential blob.
func Parse(data []byte) (*EncryptedCredential, error) {
	var c EncryptedCredential
	if err := c.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return &c, nil
}
