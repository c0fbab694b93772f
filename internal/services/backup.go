package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/seedkeeper/internal/common"
	sc "github.com/dmitrijs2005/seedkeeper/internal/config"
	"github.com/dmitrijs2005/seedkeeper/internal/cryptox"
	"github.com/dmitrijs2005/seedkeeper/internal/logging"
	"github.com/dmitrijs2005/seedkeeper/internal/mnemonic"
	"github.com/dmitrijs2005/seedkeeper/internal/secretstore"
)

// addressMetaKey is the S3 user metadata key carrying the public address.
const addressMetaKey = "address"

// maxBackupSize bounds downloads; a credential is well under a kilobyte.
const maxBackupSize = 64 * 1024

// ErrBackupDisabled is returned when no bucket is configured.
var ErrBackupDisabled = errors.New("backup storage is not configured")

// objectStore is the part of *s3.Client the backup service uses.
type objectStore interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) objectStore {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// Backup is a downloaded, parsed backup object. Address is the object
// metadata as found in the bucket; nothing authenticates it.
type Backup struct {
	Key        string
	Address    string
	Credential *cryptox.EncryptedCredential
}

// BackupService copies the encrypted credential off the device. Only the
// ciphertext and the public address ever leave it.
type BackupService struct {
	store     secretstore.Store
	opener    Opener
	validator *mnemonic.Validator
	config    *sc.Config
	log       logging.Logger
}

// NewBackupService wires the service. wallet re-derives the address of a
// restored phrase.
func NewBackupService(store secretstore.Store, opener Opener, wallet mnemonic.Wallet, config *sc.Config, log logging.Logger) *BackupService {
	if log == nil {
		log = logging.NewNop()
	}
	return &BackupService{
		store:     store,
		opener:    opener,
		validator: mnemonic.NewValidator(wallet),
		config:    config,
		log:       log,
	}
}

// GetRandomStorageKey returns a fresh object key for a backup.
func GetRandomStorageKey() string {
	d := time.Now().UTC()
	return fmt.Sprintf("wallets/%d/%02d/%02d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *BackupService) client(ctx context.Context) (objectStore, error) {
	if !s.config.BackupEnabled() {
		return nil, ErrBackupDisabled
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(s.config.S3Region)}
	if s.config.S3AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3AccessKey,
			s.config.S3SecretKey,
			"",
		)))
	}

	cfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.config.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// Upload stores the current credential under a new key and returns it.
func (s *BackupService) Upload(ctx context.Context) (string, error) {
	blob, err := s.store.Get(ctx, common.CredentialKey)
	if err != nil {
		return "", fmt.Errorf("load credential: %w", err)
	}
	address, err := s.store.Get(ctx, common.AddressKey)
	if err != nil {
		return "", fmt.Errorf("load address: %w", err)
	}
	// Never ship something that would not restore.
	if _, err := cryptox.Parse(blob); err != nil {
		return "", err
	}

	client, err := s.client(ctx)
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket
	key := GetRandomStorageKey()

	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(blob),
		ContentType: aws.String("application/octet-stream"),
		Metadata:    map[string]string{addressMetaKey: string(address)},
	})
	if err != nil {
		return "", fmt.Errorf("upload backup: %w", err)
	}

	s.log.Info(ctx, "backup uploaded", "bucket", bucket, "key", key)
	return key, nil
}

// Download fetches and parses the backup stored under key.
func (s *BackupService) Download(ctx context.Context, key string) (*Backup, error) {
	client, err := s.client(ctx)
	if err != nil {
		return nil, err
	}

	bucket := s.config.S3Bucket
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		return nil, fmt.Errorf("download backup: %w", err)
	}
	defer out.Body.Close()

	blob, err := io.ReadAll(io.LimitReader(out.Body, maxBackupSize+1))
	if err != nil {
		return nil, fmt.Errorf("read backup: %w", err)
	}
	if len(blob) > maxBackupSize {
		return nil, fmt.Errorf("backup too large: %w", common.ErrCorruptCredential)
	}

	cred, err := cryptox.Parse(blob)
	if err != nil {
		return nil, err
	}

	return &Backup{Key: key, Address: out.Metadata[addressMetaKey], Credential: cred}, nil
}

// Restore downloads the backup under key, checks that password opens it and
// writes it into the empty local slot. The stored address is derived from
// the decrypted phrase; a backup whose metadata names a different address
// is rejected.
func (s *BackupService) Restore(ctx context.Context, key string, password []byte) (string, error) {
	b, err := s.Download(ctx, key)
	if err != nil {
		return "", err
	}

	blob, err := b.Credential.MarshalBinary()
	if err != nil {
		return "", err
	}
	phrase, err := s.opener.DecryptBlob(blob, password)
	if err != nil {
		return "", err
	}
	id, err := s.validator.DeriveWallet(phrase)
	common.WipeByteArray(phrase)
	if err != nil {
		return "", fmt.Errorf("backup phrase: %w", common.ErrCorruptCredential)
	}

	if b.Address != id.Address {
		s.log.Warn(ctx, "backup address mismatch", "key", key, "derived", id.Address)
		return "", fmt.Errorf("%w: address metadata does not match the phrase", common.ErrCorruptCredential)
	}

	err = s.store.PutAll(ctx,
		secretstore.Entry{Key: common.CredentialKey, Value: blob},
		secretstore.Entry{Key: common.AddressKey, Value: []byte(id.Address)},
	)
	if err != nil {
		return "", err
	}

	s.log.Info(ctx, "backup restored", "key", key, "address", id.Address)
	return id.Address, nil
}
