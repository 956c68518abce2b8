package keystore

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"otr-lab/contract"
	"otr-lab/errors"
	"otr-lab/mocks"
	"otr-lab/sessions"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	root    string
	otr     string
	legacy  []string
	log     *slog.Logger
	require *require.Assertions
}

func newFixture(t *testing.T) fixture {
	root := t.TempDir()
	return fixture{
		root:    root,
		otr:     filepath.Join(root, "shared", FolderName),
		legacy:  []string{filepath.Join(root, "library", FolderName), filepath.Join(root, "support", FolderName)},
		log:     logs.GetLoggerFromLevel(slog.LevelDebug),
		require: require.New(t),
	}
}

func (f fixture) store() *EncryptionKeysStore {
	s, err := NewEncryptionKeysStore(f.log, f.otr, f.legacy, sessions.Opener)
	f.require.NoError(err)
	return s
}

func TestEncryptionKeysStore_CreatesProtectedFolder(t *testing.T) {
	f := newFixture(t)

	s := f.store()

	info, err := os.Stat(f.otr)
	f.require.NoError(err)
	f.require.True(info.IsDir())
	f.require.Equal(os.FileMode(0o700), info.Mode().Perm())
	f.require.Equal(f.otr, s.Directory())
	f.require.Equal(f.otr, s.EncryptionContext().Path())
}

func TestEncryptionKeysStore_GeneratePreKeys(t *testing.T) {
	f := newFixture(t)
	s := f.store()

	prekeys, err := s.GeneratePreKeys(1, 0)

	f.require.NoError(err)
	f.require.Len(prekeys, 1)
	f.require.Equal(uint16(0), prekeys[0].ID)
}

func TestEncryptionKeysStore_GeneratePreKeys_ZeroCount(t *testing.T) {
	f := newFixture(t)
	s := f.store()

	_, err := s.GeneratePreKeys(0, 0)

	f.require.ErrorIs(err, errors.ErrPrekeysCountNotPositive)
}

func TestEncryptionKeysStore_GeneratePreKeys_WrapsToZero(t *testing.T) {
	f := newFixture(t)
	s := f.store()
	const batch uint16 = 50

	// Given a start close enough to the maximum to need two batches
	start := MaxPreKeyID - batch - 1

	// When generating batches one after the other
	first, err := s.GeneratePreKeys(batch, start)
	f.require.NoError(err)
	f.require.Equal(start, first[0].ID)
	last := first[len(first)-1].ID
	f.require.LessOrEqual(last, MaxPreKeyID)

	second, err := s.GeneratePreKeys(batch, last)
	f.require.NoError(err)

	// Then the second batch wrapped back to zero
	f.require.Equal(uint16(0), second[0].ID)
	f.require.Len(second, int(batch))
}

func TestPreKeysRange(t *testing.T) {
	req := require.New(t)

	from, to := PreKeysRange(10, 100)
	req.Equal(uint16(100), from)
	req.Equal(uint16(110), to)

	from, to = PreKeysRange(10, MaxPreKeyID-10)
	req.Equal(uint16(0), from)
	req.Equal(uint16(10), to)

	from, to = PreKeysRange(10, MaxPreKeyID-11)
	req.Equal(MaxPreKeyID-11, from)
	req.Equal(MaxPreKeyID-1, to)
}

func TestEncryptionKeysStore_GeneratePreKeys_EmptyResult(t *testing.T) {
	f := newFixture(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	directory := mocks.NewMockSessionDirectory(ctrl)

	// Given a directory refusing to produce anything
	directory.EXPECT().GeneratePrekeys(uint16(0), uint16(5)).Return(nil, nil)
	directory.EXPECT().DiscardCache()

	s, err := NewEncryptionKeysStore(f.log, f.otr, nil, func(string) (contract.SessionDirectory, error) {
		return directory, nil
	})
	f.require.NoError(err)

	_, err = s.GeneratePreKeys(5, 0)

	f.require.ErrorIs(err, errors.ErrCannotGeneratePrekeys)
}

func TestEncryptionKeysStore_LastPreKey_IsCached(t *testing.T) {
	f := newFixture(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	directory := mocks.NewMockSessionDirectory(ctrl)

	// Given a directory generating the last prekey only once
	directory.EXPECT().GenerateLastPrekey().Return("last-resort", nil).Times(1)
	directory.EXPECT().Commit().Return(nil).Times(1)

	s, err := NewEncryptionKeysStore(f.log, f.otr, nil, func(string) (contract.SessionDirectory, error) {
		return directory, nil
	})
	f.require.NoError(err)

	first, err := s.LastPreKey()
	f.require.NoError(err)
	second, err := s.LastPreKey()
	f.require.NoError(err)

	f.require.Equal("last-resort", first)
	f.require.Equal(first, second)
}

func TestEncryptionKeysStore_DeleteAndCreateNewIdentity(t *testing.T) {
	f := newFixture(t)
	s := f.store()

	// Given an identity with a file and a cached last prekey
	marker := filepath.Join(f.otr, "marker")
	f.require.NoError(os.WriteFile(marker, []byte("x"), 0o600))
	before, err := s.LastPreKey()
	f.require.NoError(err)

	// When resetting the identity
	f.require.NoError(s.DeleteAndCreateNewIdentity())

	// Then the folder is empty of old content and a new last prekey is generated
	_, err = os.Stat(marker)
	f.require.True(os.IsNotExist(err))
	_, err = os.Stat(f.otr)
	f.require.NoError(err)
	after, err := s.LastPreKey()
	f.require.NoError(err)
	f.require.NotEqual(before, after)
}

func TestNeedToMigrateIdentity_DetectsLegacyFolders(t *testing.T) {
	f := newFixture(t)

	for _, folder := range f.legacy {
		f.require.False(NeedToMigrateIdentity(f.legacy))

		// Given an empty legacy folder
		f.require.NoError(os.MkdirAll(folder, 0o700))

		// Then a migration is needed
		f.require.True(NeedToMigrateIdentity(f.legacy))
		f.require.NoError(os.RemoveAll(folder))
	}
}

func TestEncryptionKeysStore_MigratesNonEmptyLegacyFolder(t *testing.T) {
	for i := range []int{0, 1} {
		f := newFixture(t)
		folder := f.legacy[i]

		// Given a legacy folder holding an identity file
		f.require.NoError(os.MkdirAll(folder, 0o700))
		content := "folder: " + folder
		f.require.NoError(os.WriteFile(filepath.Join(folder, "aabb013ac313"), []byte(content), 0o600))
		f.require.True(NeedToMigrateIdentity(f.legacy))

		// When the store is created
		f.store()

		// Then the file moved to the new folder and no legacy folder is left
		data, err := os.ReadFile(filepath.Join(f.otr, "aabb013ac313"))
		f.require.NoError(err)
		f.require.Equal(content, string(data))
		f.require.False(NeedToMigrateIdentity(f.legacy))
	}
}

func TestEncryptionKeysStore_MigratesEmptyLegacyFolder(t *testing.T) {
	f := newFixture(t)
	f.require.NoError(os.MkdirAll(f.legacy[1], 0o700))

	f.store()

	f.require.False(NeedToMigrateIdentity(f.legacy))
}

func TestEncryptionKeysStore_ExistingFolderWinsOverLegacy(t *testing.T) {
	f := newFixture(t)

	// Given both a current identity and an old legacy one
	f.require.NoError(os.MkdirAll(f.otr, 0o700))
	f.require.NoError(os.WriteFile(filepath.Join(f.otr, "current"), []byte("current"), 0o600))
	f.require.NoError(os.MkdirAll(f.legacy[0], 0o700))
	f.require.NoError(os.WriteFile(filepath.Join(f.legacy[0], "old"), []byte("old"), 0o600))

	f.store()

	// Then the current identity is kept and the legacy one is dropped
	_, err := os.Stat(filepath.Join(f.otr, "current"))
	f.require.NoError(err)
	_, err = os.Stat(filepath.Join(f.otr, "old"))
	f.require.True(os.IsNotExist(err))
	f.require.False(NeedToMigrateIdentity(f.legacy))
}

func TestRemoveOldIdentityFolders_NothingToRemove(t *testing.T) {
	f := newFixture(t)

	f.require.NoError(RemoveOldIdentityFolders(f.log, f.legacy))
	f.require.False(NeedToMigrateIdentity(f.legacy))
}
