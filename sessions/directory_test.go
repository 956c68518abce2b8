package sessions

import (
	"testing"

	"otr-lab/errors"

	"github.com/stretchr/testify/require"
)

func pair(t *testing.T) (*Directory, *Directory) {
	t.Helper()
	req := require.New(t)
	alice, err := Open(t.TempDir())
	req.NoError(err)
	bob, err := Open(t.TempDir())
	req.NoError(err)
	secret := []byte("a secret both devices agreed on")
	req.NoError(alice.EstablishSession("bob", secret, true))
	req.NoError(bob.EstablishSession("alice", secret, false))
	return alice, bob
}

func TestDirectory_EncryptDecrypt(t *testing.T) {
	req := require.New(t)
	alice, bob := pair(t)

	for _, text := range []string{"first", "second", "third"} {
		ciphertext, err := alice.Encrypt([]byte(text), "bob")
		req.NoError(err)
		plaintext, err := bob.Decrypt(ciphertext, "alice")
		req.NoError(err)
		req.Equal(text, string(plaintext))
	}
}

func TestDirectory_Decrypt_OutOfOrder(t *testing.T) {
	req := require.New(t)
	alice, bob := pair(t)

	first, err := alice.Encrypt([]byte("first"), "bob")
	req.NoError(err)
	second, err := alice.Encrypt([]byte("second"), "bob")
	req.NoError(err)

	// When the later message arrives first
	plaintext, err := bob.Decrypt(second, "alice")
	req.NoError(err)
	req.Equal("second", string(plaintext))

	// Then the earlier one still opens, but only once
	plaintext, err = bob.Decrypt(first, "alice")
	req.NoError(err)
	req.Equal("first", string(plaintext))
	_, err = bob.Decrypt(first, "alice")
	req.ErrorIs(err, errors.ErrDuplicateMessage)
	_, err = bob.Decrypt(second, "alice")
	req.ErrorIs(err, errors.ErrDuplicateMessage)
}

func TestDirectory_Decrypt_SkippedKeysSurviveReopen(t *testing.T) {
	req := require.New(t)
	root := t.TempDir()
	alice, err := Open(t.TempDir())
	req.NoError(err)
	bob, err := Open(root)
	req.NoError(err)
	secret := []byte("shared")
	req.NoError(alice.EstablishSession("bob", secret, true))
	req.NoError(bob.EstablishSession("alice", secret, false))

	var sealed [][]byte
	for _, text := range []string{"one", "two", "three"} {
		ciphertext, err := alice.Encrypt([]byte(text), "bob")
		req.NoError(err)
		sealed = append(sealed, ciphertext)
	}

	// Given the last message was decrypted and committed
	_, err = bob.Decrypt(sealed[2], "alice")
	req.NoError(err)
	req.NoError(bob.Commit())

	// When the directory is reopened
	reopened, err := Open(root)
	req.NoError(err)

	// Then both skipped messages still open
	plaintext, err := reopened.Decrypt(sealed[1], "alice")
	req.NoError(err)
	req.Equal("two", string(plaintext))
	plaintext, err = reopened.Decrypt(sealed[0], "alice")
	req.NoError(err)
	req.Equal("one", string(plaintext))
}

func TestDirectory_Decrypt_DiscardedSkippedKeyIsRestored(t *testing.T) {
	req := require.New(t)
	alice, bob := pair(t)
	first, err := alice.Encrypt([]byte("first"), "bob")
	req.NoError(err)
	second, err := alice.Encrypt([]byte("second"), "bob")
	req.NoError(err)
	_, err = bob.Decrypt(second, "alice")
	req.NoError(err)
	req.NoError(bob.Commit())

	// Given the late message was decrypted but the result discarded
	_, err = bob.Decrypt(first, "alice")
	req.NoError(err)
	bob.DiscardCache()

	// Then it can be decrypted again
	plaintext, err := bob.Decrypt(first, "alice")
	req.NoError(err)
	req.Equal("first", string(plaintext))
}

func TestKeepLatest_DropsOldestKeys(t *testing.T) {
	req := require.New(t)
	keys := make([]skippedKey, maxSkippedMessages+5)
	for i := range keys {
		keys[i].Index = uint32(i)
	}

	kept := keepLatest(keys)

	req.Len(kept, maxSkippedMessages)
	req.Equal(uint32(5), kept[0].Index)
	req.Equal(uint32(maxSkippedMessages+4), kept[len(kept)-1].Index)
}

func TestDecodeSession_RejectsTruncatedSkippedKeys(t *testing.T) {
	req := require.New(t)
	encoded := encodeSession(session{Skipped: []skippedKey{{Index: 1}, {Index: 2}}})
	req.Len(encoded, sessionRecordSize+4+2*skippedKeySize)

	decoded, err := decodeSession(encoded)
	req.NoError(err)
	req.Len(decoded.Skipped, 2)

	_, err = decodeSession(encoded[:len(encoded)-1])
	req.ErrorIs(err, errors.ErrMalformedData)
}

func TestDirectory_DiscardCache_RollsBackChain(t *testing.T) {
	req := require.New(t)
	alice, _ := pair(t)

	// Given an encryption which is discarded
	discarded, err := alice.Encrypt([]byte("oversized"), "bob")
	req.NoError(err)
	alice.DiscardCache()

	// When encrypting again
	again, err := alice.Encrypt([]byte("oversized"), "bob")
	req.NoError(err)

	// Then the same chain position is reused
	req.Equal(discarded[:headerSize], again[:headerSize])
	req.Equal(discarded, again)
}

func TestDirectory_Commit_SurvivesReopen(t *testing.T) {
	req := require.New(t)
	root := t.TempDir()
	alice, err := Open(root)
	req.NoError(err)
	bob, err := Open(t.TempDir())
	req.NoError(err)
	secret := []byte("shared")
	req.NoError(alice.EstablishSession("bob", secret, true))
	req.NoError(bob.EstablishSession("alice", secret, false))

	// Given a committed and an uncommitted encryption
	first, err := alice.Encrypt([]byte("committed"), "bob")
	req.NoError(err)
	req.NoError(alice.Commit())
	_, err = alice.Encrypt([]byte("lost"), "bob")
	req.NoError(err)

	// When the directory is reopened
	reopened, err := Open(root)
	req.NoError(err)
	req.True(reopened.HasSession("bob"))
	second, err := reopened.Encrypt([]byte("after restart"), "bob")
	req.NoError(err)

	// Then only the committed advance was kept
	_, err = bob.Decrypt(first, "alice")
	req.NoError(err)
	plaintext, err := bob.Decrypt(second, "alice")
	req.NoError(err)
	req.Equal("after restart", string(plaintext))
}

func TestDirectory_Encrypt_UnknownSession(t *testing.T) {
	req := require.New(t)
	d, err := Open(t.TempDir())
	req.NoError(err)

	req.False(d.HasSession("nobody"))
	_, err = d.Encrypt([]byte("hello"), "nobody")
	req.ErrorIs(err, errors.ErrSessionNotFound)
}

func TestDirectory_GeneratePrekeys(t *testing.T) {
	req := require.New(t)
	d, err := Open(t.TempDir())
	req.NoError(err)

	prekeys, err := d.GeneratePrekeys(10, 15)
	req.NoError(err)
	req.Len(prekeys, 5)
	req.Equal(uint16(10), prekeys[0].ID)
	req.Equal(uint16(14), prekeys[4].ID)
	req.NotEqual(prekeys[0].Key, prekeys[1].Key)

	last, err := d.GenerateLastPrekey()
	req.NoError(err)
	req.NotEmpty(last)
}
