package cryptox

import (
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/pbkdf2"

	"github.com/dmitrijs2005/seedkeeper/internal/common"
)

// KDF identifies the key derivation function recorded in a credential.
type KDF uint8

const (
	KDFPBKDF2SHA256 KDF = 1
	KDFArgon2id     KDF = 2
)

func (k KDF) String() string {
	switch k {
	case KDFPBKDF2SHA256:
		return "pbkdf2-sha256"
	case KDFArgon2id:
		return "argon2id"
	default:
		return fmt.Sprintf("kdf(%d)", uint8(k))
	}
}

const (
	KeySize   = 32
	SaltSize  = 16
	NonceSize = 12

	PBKDF2Iterations = 210_000

	Argon2Time      = 1
	Argon2MemoryKiB = 64 * 1024
	Argon2Threads   = 4

	// Upper bounds for parameters read back from storage or a backup. They
	// are checked before the tag can be, so they cap the work a forged blob
	// can demand.
	maxPBKDF2Iterations = 2_000_000
	maxArgon2Time       = 10
	maxArgon2MemoryKiB  = 1024 * 1024
	maxArgon2Threads    = 16
)

// KDFParams are the cost parameters stored with every credential so that a
// change of defaults never orphans existing blobs. Time is the iteration
// count for PBKDF2 and the pass count for Argon2id.
type KDFParams struct {
	KDF       KDF
	Time      uint32
	MemoryKiB uint32
	Threads   uint8
}

// DefaultParams is what new credentials are sealed with.
func DefaultParams() KDFParams {
	return KDFParams{KDF: KDFPBKDF2SHA256, Time: PBKDF2Iterations}
}

// Argon2idParams are the interactive Argon2id costs.
func Argon2idParams() KDFParams {
	return KDFParams{
		KDF:       KDFArgon2id,
		Time:      Argon2Time,
		MemoryKiB: Argon2MemoryKiB,
		Threads:   Argon2Threads,
	}
}

func (p KDFParams) validate() error {
	switch p.KDF {
	case KDFPBKDF2SHA256:
		if p.Time == 0 || p.Time > maxPBKDF2Iterations || p.MemoryKiB != 0 || p.Threads != 0 {
			return fmt.Errorf("%w: bad pbkdf2 parameters", common.ErrCorruptCredential)
		}
	case KDFArgon2id:
		if p.Time == 0 || p.Time > maxArgon2Time ||
			p.MemoryKiB == 0 || p.MemoryKiB > maxArgon2MemoryKiB ||
			p.Threads == 0 || p.Threads > maxArgon2Threads {
			return fmt.Errorf("%w: bad argon2id parameters", common.ErrCorruptCredential)
		}
	default:
		return fmt.Errorf("%w: unknown kdf %d", common.ErrCorruptCredential, uint8(p.KDF))
	}
	return nil
}

// deriveKey stretches password with salt. The caller owns and must wipe the
// returned key.
func (p KDFParams) deriveKey(password, salt []byte) ([]byte, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	switch p.KDF {
	case KDFArgon2id:
		return argon2.IDKey(password, salt, p.Time, p.MemoryKiB, p.Threads, KeySize), nil
	default:
		return pbkdf2.Key(password, salt, int(p.Time), KeySize, sha256.New), nil
	}
}
