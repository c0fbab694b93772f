package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/seedkeeper/internal/common"
	sc "github.com/dmitrijs2005/seedkeeper/internal/config"
	"github.com/dmitrijs2005/seedkeeper/internal/cryptox"
	"github.com/dmitrijs2005/seedkeeper/internal/mnemonic"
	"github.com/dmitrijs2005/seedkeeper/internal/secretstore"
)

type fakeObject struct {
	body []byte
	meta map[string]string
}

// fakeS3 is an in-memory objectStore.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string]fakeObject
	putErr  error
	getErr  error
	opts    s3.Options
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string]fakeObject{}}
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[*in.Bucket+"/"+*in.Key] = fakeObject{body: body, meta: in.Metadata}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	obj, ok := f.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{
		Body:     io.NopCloser(bytes.NewReader(obj.body)),
		Metadata: obj.meta,
	}, nil
}

func stubS3(t *testing.T, fake *fakeS3) {
	t.Helper()
	origLoad, origNew := loadDefaultAWSConfig, newS3ClientFromConfig

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*config.LoadOptions) error) (aws.Config, error) {
		var lo config.LoadOptions
		for _, fn := range optFns {
			if err := fn(&lo); err != nil {
				return aws.Config{}, err
			}
		}
		return aws.Config{Region: lo.Region}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) objectStore {
		for _, fn := range optFns {
			fn(&fake.opts)
		}
		return fake
	}

	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNew
	})
}

func backupConfig() *sc.Config {
	cfg := &sc.Config{}
	cfg.LoadDefaults()
	cfg.S3Bucket = "vault"
	cfg.S3BaseEndpoint = "http://127.0.0.1:9000/"
	cfg.S3AccessKey = "admin"
	cfg.S3SecretKey = "secretpassword"
	return cfg
}

func TestBackup_UploadDownloadRestore(t *testing.T) {
	fake := newFakeS3()
	stubS3(t, fake)
	ctx := context.Background()

	src := NewBackupService(seededStore(t), cryptox.NewCipher(), mnemonic.NewBIP39Wallet(), backupConfig(), nil)
	key, err := src.Upload(ctx)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "wallets/"))
	assert.Equal(t, "http://127.0.0.1:9000/", aws.ToString(fake.opts.BaseEndpoint))
	assert.True(t, fake.opts.UsePathStyle)

	stored := fake.objects["vault/"+key]
	assert.False(t, bytes.Contains(stored.body, []byte("abandon")))

	b, err := src.Download(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, testAddress, b.Address)
	assert.Equal(t, key, b.Key)

	// Restore into a fresh installation.
	dst := secretstore.NewMemoryStore()
	restorer := NewBackupService(dst, cryptox.NewCipher(), mnemonic.NewBIP39Wallet(), backupConfig(), nil)
	addr, err := restorer.Restore(ctx, key, []byte(testPassword))
	require.NoError(t, err)
	assert.Equal(t, testAddress, addr)

	phrase, err := NewKeyringService(dst, cryptox.NewCipher(), nil).Unlock(ctx, []byte(testPassword))
	require.NoError(t, err)
	assert.Equal(t, testPhrase, string(phrase))
}

func TestBackup_RestoreWrongPasswordWritesNothing(t *testing.T) {
	fake := newFakeS3()
	stubS3(t, fake)
	ctx := context.Background()

	key, err := NewBackupService(seededStore(t), cryptox.NewCipher(), mnemonic.NewBIP39Wallet(), backupConfig(), nil).Upload(ctx)
	require.NoError(t, err)

	dst := secretstore.NewMemoryStore()
	_, err = NewBackupService(dst, cryptox.NewCipher(), mnemonic.NewBIP39Wallet(), backupConfig(), nil).Restore(ctx, key, []byte("Wr0ng!Pass"))
	assert.ErrorIs(t, err, common.ErrDecryptionFailed)

	_, err = dst.Get(ctx, common.CredentialKey)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestBackup_RestoreIntoOccupiedSlot(t *testing.T) {
	fake := newFakeS3()
	stubS3(t, fake)
	ctx := context.Background()

	store := seededStore(t)
	svc := NewBackupService(store, cryptox.NewCipher(), mnemonic.NewBIP39Wallet(), backupConfig(), nil)
	key, err := svc.Upload(ctx)
	require.NoError(t, err)

	_, err = svc.Restore(ctx, key, []byte(testPassword))
	assert.ErrorIs(t, err, common.ErrAlreadyExists)
}

func TestBackup_RestoreRejectsForgedAddress(t *testing.T) {
	fake := newFakeS3()
	stubS3(t, fake)
	ctx := context.Background()

	key, err := NewBackupService(seededStore(t), cryptox.NewCipher(), mnemonic.NewBIP39Wallet(), backupConfig(), nil).Upload(ctx)
	require.NoError(t, err)

	for _, forged := range []string{"0xAttacker000000000000000000000000000000", ""} {
		obj := fake.objects["vault/"+key]
		obj.meta = map[string]string{addressMetaKey: forged}
		fake.objects["vault/"+key] = obj

		dst := secretstore.NewMemoryStore()
		_, err = NewBackupService(dst, cryptox.NewCipher(), mnemonic.NewBIP39Wallet(), backupConfig(), nil).
			Restore(ctx, key, []byte(testPassword))
		assert.ErrorIs(t, err, common.ErrCorruptCredential, forged)

		_, err = dst.Get(ctx, common.AddressKey)
		assert.ErrorIs(t, err, common.ErrorNotFound, forged)
	}
}

func TestBackup_RestoreRejectsExcessiveKDFCost(t *testing.T) {
	fake := newFakeS3()
	stubS3(t, fake)

	cred := &cryptox.EncryptedCredential{
		Params:     cryptox.KDFParams{KDF: cryptox.KDFArgon2id, Time: 10_000_000, MemoryKiB: 4 * 1024 * 1024, Threads: 255},
		Salt:       bytes.Repeat([]byte{1}, cryptox.SaltSize),
		Nonce:      bytes.Repeat([]byte{2}, cryptox.NonceSize),
		Ciphertext: bytes.Repeat([]byte{3}, 48),
	}
	blob, err := cred.MarshalBinary()
	require.NoError(t, err)
	fake.objects["vault/costly"] = fakeObject{body: blob, meta: map[string]string{addressMetaKey: testAddress}}

	dst := secretstore.NewMemoryStore()
	_, err = NewBackupService(dst, cryptox.NewCipher(), mnemonic.NewBIP39Wallet(), backupConfig(), nil).
		Restore(context.Background(), "costly", []byte(testPassword))
	assert.ErrorIs(t, err, common.ErrCorruptCredential)

	_, err = dst.Get(context.Background(), common.CredentialKey)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestBackup_Disabled(t *testing.T) {
	cfg := backupConfig()
	cfg.S3Bucket = ""
	svc := NewBackupService(seededStore(t), cryptox.NewCipher(), mnemonic.NewBIP39Wallet(), cfg, nil)

	_, err := svc.Upload(context.Background())
	assert.ErrorIs(t, err, ErrBackupDisabled)
	_, err = svc.Download(context.Background(), "k")
	assert.ErrorIs(t, err, ErrBackupDisabled)
}

func TestBackup_UploadWithoutWallet(t *testing.T) {
	stubS3(t, newFakeS3())
	svc := NewBackupService(secretstore.NewMemoryStore(), cryptox.NewCipher(), mnemonic.NewBIP39Wallet(), backupConfig(), nil)

	_, err := svc.Upload(context.Background())
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestBackup_S3Errors(t *testing.T) {
	fake := newFakeS3()
	fake.putErr = errors.New("access denied")
	fake.getErr = errors.New("timeout")
	stubS3(t, fake)
	svc := NewBackupService(seededStore(t), cryptox.NewCipher(), mnemonic.NewBIP39Wallet(), backupConfig(), nil)

	_, err := svc.Upload(context.Background())
	assert.ErrorContains(t, err, "access denied")

	_, err = svc.Download(context.Background(), "k")
	assert.ErrorContains(t, err, "timeout")
}

func TestBackup_DownloadCorrupt(t *testing.T) {
	fake := newFakeS3()
	fake.objects["vault/bad"] = fakeObject{body: []byte("not a credential"), meta: map[string]string{"address": testAddress}}
	fake.objects["vault/huge"] = fakeObject{body: make([]byte, maxBackupSize+10)}
	stubS3(t, fake)
	svc := NewBackupService(secretstore.NewMemoryStore(), cryptox.NewCipher(), mnemonic.NewBIP39Wallet(), backupConfig(), nil)

	_, err := svc.Download(context.Background(), "bad")
	assert.ErrorIs(t, err, common.ErrCorruptCredential)

	_, err = svc.Download(context.Background(), "huge")
	assert.ErrorIs(t, err, common.ErrCorruptCredential)
}

func TestBackup_AWSConfigError(t *testing.T) {
	stubS3(t, newFakeS3())
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*config.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no profile")
	}
	svc := NewBackupService(seededStore(t), cryptox.NewCipher(), mnemonic.NewBIP39Wallet(), backupConfig(), nil)

	_, err := svc.Upload(context.Background())
	assert.ErrorContains(t, err, "load aws config")
}

func TestGetRandomStorageKey_Format(t *testing.T) {
	k1 := GetRandomStorageKey()
	k2 := GetRandomStorageKey()

	assert.NotEqual(t, k1, k2)
	parts := strings.Split(k1, "/")
	require.Len(t, parts, 5)
	assert.Equal(t, "wallets", parts[0])
	assert.Len(t, parts[4], 36)
}
