// Package keystore owns the identity folder holding the cryptographic sessions
// and prekeys of the local client.
package keystore

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sync"

	"otr-lab/contract"
	"otr-lab/domain"
	"otr-lab/errors"
)

// MaxPreKeyID is the highest prekey identifier, the last one is reserved for the last resort prekey.
const MaxPreKeyID uint16 = math.MaxUint16 - 1

// FolderName is the name of the identity folder inside the storage root.
const FolderName = "otr"

const folderPermissions = 0o700

// DirectoryOpener opens the session directory stored at path.
type DirectoryOpener func(path string) (contract.SessionDirectory, error)

type EncryptionKeysStore struct {
	log               *slog.Logger
	directory         string
	legacyDirectories []string
	open              DirectoryOpener

	mu         sync.Mutex
	context    *EncryptionContext
	lastPreKey *string
}

// NewEncryptionKeysStore creates the identity folder, migrating it from the first
// legacy folder found, and opens its session directory.
func NewEncryptionKeysStore(log *slog.Logger, directory string, legacyDirectories []string, open DirectoryOpener) (*EncryptionKeysStore, error) {
	s := &EncryptionKeysStore{
		log:               log,
		directory:         directory,
		legacyDirectories: legacyDirectories,
		open:              open,
	}
	ctx, err := s.setupContext()
	if err != nil {
		return nil, err
	}
	s.context = ctx
	return s, nil
}

func (s *EncryptionKeysStore) Directory() string {
	return s.directory
}

func (s *EncryptionKeysStore) EncryptionContext() *EncryptionContext {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.context
}

// DeleteAndCreateNewIdentity wipes every session and prekey and starts over with an empty folder.
func (s *EncryptionKeysStore) DeleteAndCreateNewIdentity() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.RemoveAll(s.directory); err != nil {
		return fmt.Errorf("remove identity folder: %w", err)
	}
	s.lastPreKey = nil
	ctx, err := s.setupContext()
	if err != nil {
		return err
	}
	s.context = ctx
	s.log.Info("New identity created", "directory", s.directory)
	return nil
}

// LastPreKey returns the last resort prekey, generated once and cached until the identity is reset.
func (s *EncryptionKeysStore) LastPreKey() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lastPreKey != nil {
		return *s.lastPreKey, nil
	}
	var key string
	err := s.context.Perform(func(directory contract.SessionDirectory) error {
		var err error
		key, err = directory.GenerateLastPrekey()
		return err
	})
	if err != nil {
		return "", err
	}
	s.lastPreKey = &key
	return key, nil
}

// GeneratePreKeys generates count prekeys starting at start, wrapping back to zero
// when the range would reach MaxPreKeyID. A range must not be generated twice,
// it would invalidate the prekeys already published for it.
func (s *EncryptionKeysStore) GeneratePreKeys(count, start uint16) ([]domain.Prekey, error) {
	if count == 0 {
		return nil, errors.ErrPrekeysCountNotPositive
	}
	from, to := PreKeysRange(count, start)

	var prekeys []domain.Prekey
	err := s.EncryptionContext().Perform(func(directory contract.SessionDirectory) error {
		var err error
		prekeys, err = directory.GeneratePrekeys(from, to)
		if err != nil {
			return err
		}
		if len(prekeys) == 0 {
			return errors.ErrCannotGeneratePrekeys
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return prekeys, nil
}

// PreKeysRange returns the half open range [from, to) of prekey identifiers.
func PreKeysRange(count, start uint16) (uint16, uint16) {
	if int(start) >= int(MaxPreKeyID)-int(count) {
		return 0, count
	}
	return start, start + count
}

func (s *EncryptionKeysStore) setupContext() (*EncryptionContext, error) {
	if err := s.createOrMigrateFolder(); err != nil {
		return nil, err
	}
	if err := os.Chmod(s.directory, folderPermissions); err != nil {
		return nil, fmt.Errorf("protect identity folder: %w", err)
	}
	directory, err := s.open(s.directory)
	if err != nil {
		return nil, fmt.Errorf("open session directory: %w", err)
	}
	return NewEncryptionContext(s.directory, directory), nil
}

func (s *EncryptionKeysStore) createOrMigrateFolder() error {
	if _, err := os.Stat(s.directory); err == nil {
		return RemoveOldIdentityFolders(s.log, s.legacyDirectories)
	}

	migrated := false
	for _, folder := range s.legacyDirectories {
		if !exists(folder) {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(s.directory), folderPermissions); err != nil {
			return fmt.Errorf("create identity parent folder: %w", err)
		}
		if err := os.Rename(folder, s.directory); err != nil {
			return fmt.Errorf("migrate identity folder %s: %w", folder, err)
		}
		s.log.Info("Identity folder migrated", "from", folder, "to", s.directory)
		migrated = true
		break
	}
	if !migrated {
		if err := os.MkdirAll(s.directory, folderPermissions); err != nil {
			return fmt.Errorf("create identity folder: %w", err)
		}
	}
	return RemoveOldIdentityFolders(s.log, s.legacyDirectories)
}

// NeedToMigrateIdentity reports whether any legacy identity folder, empty or not, is still around.
func NeedToMigrateIdentity(legacyDirectories []string) bool {
	for _, folder := range legacyDirectories {
		if exists(folder) {
			return true
		}
	}
	return false
}

// RemoveOldIdentityFolders deletes every legacy identity folder.
func RemoveOldIdentityFolders(log *slog.Logger, legacyDirectories []string) error {
	for _, folder := range legacyDirectories {
		if !exists(folder) {
			continue
		}
		if err := os.RemoveAll(folder); err != nil && exists(folder) {
			return fmt.Errorf("remove legacy identity folder %s: %w", folder, err)
		}
		log.Debug("Legacy identity folder removed", "folder", folder)
	}
	return nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
