package securestore

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"io"

	"ciquest/internal/domain/service"

	"github.com/pkg/errors"
	"golang.org/x/crypto/scrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// metaSaltKey is the reserved row holding the key-derivation salt.
const metaSaltKey = "__salt__"

type secureItem struct {
	Key   string `gorm:"primaryKey;size:255"`
	Value []byte `gorm:"not null"`
}

func (secureItem) TableName() string {
	return "secure_items"
}

// gormStore keeps each item as an individually encrypted row in SQLite.
type gormStore struct {
	db   *gorm.DB
	aead cipher.AEAD
}

// NewGormStore opens (or creates) a SQLite-backed SecureStorage at path.
func NewGormStore(path string, passphrase string) (service.SecureStorage, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open secure store database")
	}

	if err := db.AutoMigrate(&secureItem{}); err != nil {
		return nil, errors.Wrap(err, "failed to migrate secure store schema")
	}

	salt, err := loadOrCreateSalt(db)
	if err != nil {
		return nil, err
	}

	key, err := scrypt.Key([]byte(passphrase), salt, scryptN, scryptR, scryptP, 32)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive key")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize cipher")
	}

	aead, err := cipher.NewGCMWithNonceSize(block, nonceSize)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize GCM")
	}

	return &gormStore{db: db, aead: aead}, nil
}

func loadOrCreateSalt(db *gorm.DB) ([]byte, error) {
	var row secureItem
	err := db.Where("key = ?", metaSaltKey).First(&row).Error
	switch {
	case err == nil:
		return row.Value, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		salt := make([]byte, saltSize)
		if _, err := io.ReadFull(rand.Reader, salt); err != nil {
			return nil, errors.Wrap(err, "failed to generate salt")
		}
		if err := db.Create(&secureItem{Key: metaSaltKey, Value: salt}).Error; err != nil {
			return nil, errors.Wrap(err, "failed to persist salt")
		}

		return salt, nil
	default:
		return nil, errors.Wrap(err, "failed to load salt")
	}
}

func (s *gormStore) Get(ctx context.Context, key string) (string, error) {
	var row secureItem
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", service.ErrItemNotFound
		}

		return "", errors.Wrap(err, "failed to read secure item")
	}

	if len(row.Value) < nonceSize {
		return "", errors.New("secure item is truncated")
	}

	plaintext, err := s.aead.Open(nil, row.Value[:nonceSize], row.Value[nonceSize:], []byte(key))
	if err != nil {
		return "", errors.Wrap(err, "failed to decrypt secure item")
	}

	return string(plaintext), nil
}

func (s *gormStore) Set(ctx context.Context, key string, value string) error {
	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return errors.Wrap(err, "failed to generate nonce")
	}

	// The row key doubles as AEAD associated data so rows cannot be
	// swapped between keys.
	sealed := s.aead.Seal(append([]byte(nil), nonce...), nonce, []byte(value), []byte(key))

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&secureItem{Key: key, Value: sealed}).Error
	if err != nil {
		return errors.Wrap(err, "failed to write secure item")
	}

	return nil
}

func (s *gormStore) Delete(ctx context.Context, key string) error {
	err := s.db.WithContext(ctx).Where("key = ?", key).Delete(&secureItem{}).Error
	if err != nil {
		return errors.Wrap(err, "failed to delete secure item")
	}

	return nil
}
