package repositories

import (
	stdErrors "errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

const failedSessionPrefix = "client:failed:"

// SessionFailureRepository remembers the devices whose session could not be
// established from their prekey.
type SessionFailureRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewSessionFailureRepository(db *badger.DB, log *slog.Logger) SessionFailureRepository {
	return SessionFailureRepository{db: db, log: log}
}

func (r SessionFailureRepository) MarkFailed(sessionID string) error {
	r.log.Debug("Session marked as failed", "session", sessionID)
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(failedSessionKey(sessionID), nil)
	})
}

func (r SessionFailureRepository) HasFailed(sessionID string) (bool, error) {
	err := r.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(failedSessionKey(sessionID))
		return err
	})
	if stdErrors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Reset clears the failure flag of every given session.
func (r SessionFailureRepository) Reset(sessionIDs ...string) error {
	if len(sessionIDs) == 0 {
		return nil
	}
	batch := r.db.NewWriteBatch()
	defer batch.Cancel()
	for _, id := range sessionIDs {
		if err := batch.Delete(failedSessionKey(id)); err != nil {
			return err
		}
	}
	return batch.Flush()
}

func failedSessionKey(sessionID string) []byte {
	return []byte(fmt.Sprintf("%s%s", failedSessionPrefix, sessionID))
}
