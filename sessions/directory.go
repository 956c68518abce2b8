// Package sessions is a file backed session directory for development and tests.
// Each session is a pair of symmetric hash chains seeded from a shared secret,
// messages are sealed with ChaCha20-Poly1305. It is not a ratchet with forward
// secrecy on key compromise, production builds plug a real one behind the
// same contract.
//
// Message keys skipped by an out of order delivery are kept, at most
// maxSkippedMessages per session with the oldest dropped first, so a late
// message still opens exactly once.
package sessions

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"

	"otr-lab/contract"
	"otr-lab/domain"
	"otr-lab/errors"

	"golang.org/x/crypto/curve25519"
)

const (
	sessionsFolder     = "sessions"
	prekeysFolder      = "prekeys"
	sessionExtension   = ".session"
	lastResortPrekeyID = math.MaxUint16
	maxSkippedMessages = 1000
	headerSize         = 4
	sessionRecordSize  = 2 * (32 + 4)
	skippedKeySize     = 4 + 32
)

type chainState struct {
	Key   [32]byte
	Index uint32
}

type skippedKey struct {
	Index uint32
	Key   [32]byte
}

// session values are never mutated in place, pending and committed copies
// may share the Skipped backing array.
type session struct {
	Send    chainState
	Recv    chainState
	Skipped []skippedKey
}

type Directory struct {
	mu        sync.Mutex
	root      string
	committed map[string]session
	pending   map[string]session
}

// Opener matches keystore.DirectoryOpener.
func Opener(path string) (contract.SessionDirectory, error) {
	return Open(path)
}

// Open loads every committed session stored below root.
func Open(root string) (*Directory, error) {
	for _, folder := range []string{sessionsFolder, prekeysFolder} {
		if err := os.MkdirAll(filepath.Join(root, folder), 0o700); err != nil {
			return nil, fmt.Errorf("create %s folder: %w", folder, err)
		}
	}
	d := &Directory{
		root:      root,
		committed: make(map[string]session),
		pending:   make(map[string]session),
	}
	entries, err := os.ReadDir(filepath.Join(root, sessionsFolder))
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, sessionExtension) {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(root, sessionsFolder, name))
		if err != nil {
			return nil, err
		}
		s, err := decodeSession(raw)
		if err != nil {
			return nil, fmt.Errorf("session %s: %w", name, err)
		}
		d.committed[strings.TrimSuffix(name, sessionExtension)] = s
	}
	return d, nil
}

// EstablishSession creates a session from a secret shared with the remote device.
// Both ends pass the same secret, exactly one of them as initiator.
func (d *Directory) EstablishSession(sessionID string, sharedSecret []byte, initiator bool) error {
	first, second, err := deriveChains(sharedSecret)
	if err != nil {
		return err
	}
	s := session{Send: chainState{Key: first}, Recv: chainState{Key: second}}
	if !initiator {
		s.Send, s.Recv = s.Recv, s.Send
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.write(sessionID, s); err != nil {
		return err
	}
	d.committed[sessionID] = s
	delete(d.pending, sessionID)
	return nil
}

func (d *Directory) HasSession(sessionID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.current(sessionID)
	return ok
}

// Encrypt seals plaintext for the session, the chain only advances in the cache.
func (d *Directory) Encrypt(plaintext []byte, sessionID string) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	s, ok := d.current(sessionID)
	if !ok {
		return nil, errors.ErrSessionNotFound
	}
	next, mk := kdfChain(s.Send.Key)
	header := make([]byte, headerSize)
	binary.BigEndian.PutUint32(header, s.Send.Index)
	sealed, err := seal(mk, header, plaintext)
	if err != nil {
		return nil, err
	}
	s.Send = chainState{Key: next, Index: s.Send.Index + 1}
	d.pending[sessionID] = s
	return append(header, sealed...), nil
}

// Decrypt opens a message sealed by the remote end of the session.
func (d *Directory) Decrypt(ciphertext []byte, sessionID string) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	s, ok := d.current(sessionID)
	if !ok {
		return nil, errors.ErrSessionNotFound
	}
	if len(ciphertext) < headerSize {
		return nil, errors.ErrMalformedData
	}
	header, body := ciphertext[:headerSize], ciphertext[headerSize:]
	index := binary.BigEndian.Uint32(header)
	if index < s.Recv.Index {
		return d.decryptSkipped(s, sessionID, index, header, body)
	}
	if index-s.Recv.Index > maxSkippedMessages {
		return nil, errors.ErrTooManySkippedMessages
	}

	var skipped []skippedKey
	chain := s.Recv.Key
	for i := s.Recv.Index; i < index; i++ {
		var mk [32]byte
		chain, mk = kdfChain(chain)
		skipped = append(skipped, skippedKey{Index: i, Key: mk})
	}
	next, mk := kdfChain(chain)
	plaintext, err := openSealed(mk, header, body)
	if err != nil {
		return nil, err
	}
	s.Recv = chainState{Key: next, Index: index + 1}
	s.Skipped = keepLatest(append(append([]skippedKey(nil), s.Skipped...), skipped...))
	d.pending[sessionID] = s
	return plaintext, nil
}

func (d *Directory) decryptSkipped(s session, sessionID string, index uint32, header, body []byte) ([]byte, error) {
	at := slices.IndexFunc(s.Skipped, func(k skippedKey) bool { return k.Index == index })
	if at < 0 {
		return nil, errors.ErrDuplicateMessage
	}
	plaintext, err := openSealed(s.Skipped[at].Key, header, body)
	if err != nil {
		return nil, err
	}
	s.Skipped = slices.Delete(slices.Clone(s.Skipped), at, at+1)
	d.pending[sessionID] = s
	return plaintext, nil
}

func keepLatest(keys []skippedKey) []skippedKey {
	if len(keys) > maxSkippedMessages {
		return keys[len(keys)-maxSkippedMessages:]
	}
	return keys
}

func (d *Directory) DiscardCache() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending = make(map[string]session)
}

// Commit persists every pending session advance.
func (d *Directory) Commit() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for id, s := range d.pending {
		if err := d.write(id, s); err != nil {
			return err
		}
		d.committed[id] = s
		delete(d.pending, id)
	}
	return nil
}

// GeneratePrekeys creates the prekeys of the half open range [from, to).
func (d *Directory) GeneratePrekeys(from, to uint16) ([]domain.Prekey, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var prekeys []domain.Prekey
	for id := from; id < to; id++ {
		key, err := d.generatePrekey(id)
		if err != nil {
			return nil, err
		}
		prekeys = append(prekeys, domain.Prekey{ID: id, Key: key})
	}
	return prekeys, nil
}

func (d *Directory) GenerateLastPrekey() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.generatePrekey(lastResortPrekeyID)
}

func (d *Directory) generatePrekey(id uint16) (string, error) {
	private := make([]byte, curve25519.ScalarSize)
	if _, err := rand.Read(private); err != nil {
		return "", fmt.Errorf("generate prekey %d: %w", id, err)
	}
	public, err := curve25519.X25519(private, curve25519.Basepoint)
	if err != nil {
		return "", fmt.Errorf("derive prekey %d: %w", id, err)
	}
	path := filepath.Join(d.root, prekeysFolder, strconv.Itoa(int(id))+".key")
	if err := os.WriteFile(path, private, 0o600); err != nil {
		return "", fmt.Errorf("store prekey %d: %w", id, err)
	}
	return base64.StdEncoding.EncodeToString(public), nil
}

func (d *Directory) current(sessionID string) (session, bool) {
	if s, ok := d.pending[sessionID]; ok {
		return s, true
	}
	s, ok := d.committed[sessionID]
	return s, ok
}

func (d *Directory) write(sessionID string, s session) error {
	path := filepath.Join(d.root, sessionsFolder, sessionID+sessionExtension)
	if err := os.WriteFile(path, encodeSession(s), 0o600); err != nil {
		return fmt.Errorf("store session %s: %w", sessionID, err)
	}
	return nil
}

// encodeSession writes both chains, then the skipped keys when there are any.
func encodeSession(s session) []byte {
	b := make([]byte, 0, sessionRecordSize+4+len(s.Skipped)*skippedKeySize)
	for _, c := range []chainState{s.Send, s.Recv} {
		b = append(b, c.Key[:]...)
		b = binary.BigEndian.AppendUint32(b, c.Index)
	}
	if len(s.Skipped) == 0 {
		return b
	}
	b = binary.BigEndian.AppendUint32(b, uint32(len(s.Skipped)))
	for _, k := range s.Skipped {
		b = binary.BigEndian.AppendUint32(b, k.Index)
		b = append(b, k.Key[:]...)
	}
	return b
}

func decodeSession(b []byte) (session, error) {
	if len(b) < sessionRecordSize {
		return session{}, errors.ErrMalformedData
	}
	var chains [2]chainState
	for i := range chains {
		offset := i * 36
		copy(chains[i].Key[:], b[offset:offset+32])
		chains[i].Index = binary.BigEndian.Uint32(b[offset+32 : offset+36])
	}
	s := session{Send: chains[0], Recv: chains[1]}

	rest := b[sessionRecordSize:]
	if len(rest) == 0 {
		return s, nil
	}
	if len(rest) < 4 {
		return session{}, errors.ErrMalformedData
	}
	count := int(binary.BigEndian.Uint32(rest))
	rest = rest[4:]
	if count > maxSkippedMessages || len(rest) != count*skippedKeySize {
		return session{}, errors.ErrMalformedData
	}
	s.Skipped = make([]skippedKey, count)
	for i := range s.Skipped {
		entry := rest[i*skippedKeySize:]
		s.Skipped[i].Index = binary.BigEndian.Uint32(entry)
		copy(s.Skipped[i].Key[:], entry[4:skippedKeySize])
	}
	return s, nil
}

var _ contract.SessionDirectory = (*Directory)(nil)
