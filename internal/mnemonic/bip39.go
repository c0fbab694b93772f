package mnemonic

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/tyler-smith/go-bip39"
	"golang.org/x/crypto/sha3"

	"github.com/dmitrijs2005/seedkeeper/internal/common"
)

// EntropyBits yields 12-word phrases.
const EntropyBits = 128

// ethereumPath is m/44'/60'/0'/0/0.
var ethereumPath = []uint32{
	hdkeychain.HardenedKeyStart + 44,
	hdkeychain.HardenedKeyStart + 60,
	hdkeychain.HardenedKeyStart + 0,
	0,
	0,
}

// BIP39Wallet is the production Wallet: BIP-39 phrases and the first
// Ethereum account address on the standard derivation path.
type BIP39Wallet struct{}

func NewBIP39Wallet() *BIP39Wallet {
	return &BIP39Wallet{}
}

func (BIP39Wallet) Generate() (string, error) {
	entropy, err := bip39.NewEntropy(EntropyBits)
	if err != nil {
		return "", &common.FatalConfigError{Component: "mnemonic entropy", Err: err}
	}
	defer common.WipeByteArray(entropy)

	phrase, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("generate mnemonic: %w", err)
	}
	return phrase, nil
}

func (BIP39Wallet) IsValidPhrase(phrase string) bool {
	return bip39.IsMnemonicValid(phrase)
}

func (BIP39Wallet) DeriveIdentity(phrase string) (Identity, error) {
	seed, err := bip39.NewSeedWithErrorChecking(phrase, "")
	if err != nil {
		return Identity{}, fmt.Errorf("derive seed: %w", err)
	}
	defer common.WipeByteArray(seed)

	key, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return Identity{}, fmt.Errorf("derive master key: %w", err)
	}

	for _, idx := range ethereumPath {
		child, err := key.Derive(idx)
		key.Zero()
		if err != nil {
			return Identity{}, fmt.Errorf("derive child %d: %w", idx, err)
		}
		key = child
	}

	pub, err := key.ECPubKey()
	key.Zero()
	if err != nil {
		return Identity{}, fmt.Errorf("public key: %w", err)
	}

	return Identity{Address: addressFromPubKey(pub.SerializeUncompressed())}, nil
}

// addressFromPubKey hashes the 64-byte X||Y point with Keccak-256 and
// renders the last 20 bytes with the EIP-55 mixed-case checksum.
func addressFromPubKey(uncompressed []byte) string {
	h := sha3.NewLegacyKeccak256()
	h.Write(uncompressed[1:])
	addr := h.Sum(nil)[12:]
	return checksumAddress(addr)
}

func checksumAddress(addr []byte) string {
	lower := hex.EncodeToString(addr)

	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(lower))
	digest := h.Sum(nil)

	var b strings.Builder
	b.Grow(2 + len(lower))
	b.WriteString("0x")
	for i, c := range lower {
		nibble := digest[i/2]
		if i%2 == 0 {
			nibble >>= 4
		}
		if c >= 'a' && nibble&0x0f >= 8 {
			c -= 'a' - 'A'
		}
		b.WriteRune(c)
	}
	return b.String()
}
