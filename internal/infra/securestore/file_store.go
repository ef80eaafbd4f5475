package securestore

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"

	"ciquest/internal/domain/service"

	"github.com/pkg/errors"
	"golang.org/x/crypto/scrypt"
)

const (
	saltSize  = 16
	nonceSize = 12

	// scrypt parameters, interactive-login strength.
	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
)

// fileStore persists all items as a single encrypted JSON document.
// Layout on disk: salt | nonce | AES-256-GCM ciphertext. The key is
// derived from the passphrase with scrypt using the per-file salt.
type fileStore struct {
	path       string
	passphrase string

	mu    sync.Mutex
	items map[string]string
	salt  []byte
}

// NewFileStore opens (or creates) an encrypted store at path. A wrong
// passphrase surfaces as a decryption error here rather than on a later
// Get.
func NewFileStore(path string, passphrase string) (service.SecureStorage, error) {
	store := &fileStore{
		path:       path,
		passphrase: passphrase,
		items:      map[string]string{},
	}

	if err := store.load(); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *fileStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.items[key]
	if !ok {
		return "", service.ErrItemNotFound
	}

	return value, nil
}

func (s *fileStore) Set(_ context.Context, key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[key] = value

	return s.flush()
}

func (s *fileStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[key]; !ok {
		return nil
	}
	delete(s.items, key)

	return s.flush()
}

func (s *fileStore) load() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			salt := make([]byte, saltSize)
			if _, err := io.ReadFull(rand.Reader, salt); err != nil {
				return errors.Wrap(err, "failed to generate salt")
			}
			s.salt = salt

			return nil
		}

		return errors.Wrap(err, "failed to read secure store file")
	}

	if len(raw) < saltSize+nonceSize {
		return errors.New("secure store file is truncated")
	}

	s.salt = append([]byte(nil), raw[:saltSize]...)
	nonce := raw[saltSize : saltSize+nonceSize]
	ciphertext := raw[saltSize+nonceSize:]

	gcm, err := s.cipher()
	if err != nil {
		return err
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return errors.Wrap(err, "failed to decrypt secure store")
	}

	if err := json.Unmarshal(plaintext, &s.items); err != nil {
		return errors.Wrap(err, "failed to decode secure store")
	}

	return nil
}

// flush rewrites the file under a fresh nonce. Written via a temp file
// and rename so a crash never leaves a half-written store.
func (s *fileStore) flush() error {
	plaintext, err := json.Marshal(s.items)
	if err != nil {
		return errors.Wrap(err, "failed to encode secure store")
	}

	gcm, err := s.cipher()
	if err != nil {
		return err
	}

	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return errors.Wrap(err, "failed to generate nonce")
	}

	out := make([]byte, 0, saltSize+nonceSize+len(plaintext)+gcm.Overhead())
	out = append(out, s.salt...)
	out = append(out, nonce...)
	out = gcm.Seal(out, nonce, plaintext, nil)

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".securestore-*")
	if err != nil {
		return errors.Wrap(err, "failed to create temp file")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(out); err != nil {
		tmp.Close()
		os.Remove(tmpName)

		return errors.Wrap(err, "failed to write secure store")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)

		return errors.Wrap(err, "failed to close secure store")
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)

		return errors.Wrap(err, "failed to replace secure store")
	}

	return nil
}

func (s *fileStore) cipher() (cipher.AEAD, error) {
	key, err := scrypt.Key([]byte(s.passphrase), s.salt, scryptN, scryptR, scryptP, 32)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive key")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize cipher")
	}

	gcm, err := cipher.NewGCMWithNonceSize(block, nonceSize)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize GCM")
	}

	return gcm, nil
}
