package repositories

import (
	"fmt"
	"log/slog"
	"strings"

	"otr-lab/domain"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

const userPrefix = "user:"

// UserClientRepository stores the known devices of every user, one key per
// device: user:{userID}:client:{clientID}.
type UserClientRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewUserClientRepository(db *badger.DB, log *slog.Logger) UserClientRepository {
	return UserClientRepository{db: db, log: log}
}

func (r UserClientRepository) AddClient(client domain.Client) error {
	r.log.Debug("Client registered", "user_id", client.UserID, "client_id", client.ID)
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(userClientKey(client.UserID, client.ID), nil)
	})
}

func (r UserClientRepository) RemoveClient(client domain.Client) error {
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(userClientKey(client.UserID, client.ID))
	})
}

// ClientsOf lists the devices of a user ordered by client ID.
func (r UserClientRepository) ClientsOf(userID uuid.UUID) ([]domain.Client, error) {
	var clients []domain.Client
	prefix := userClientPrefix(userID)
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			clientID := strings.TrimPrefix(string(it.Item().Key()), string(prefix))
			clients = append(clients, domain.Client{ID: clientID, UserID: userID})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return clients, nil
}

func userClientPrefix(userID uuid.UUID) []byte {
	return []byte(fmt.Sprintf("%s%s:client:", userPrefix, userID))
}

func userClientKey(userID uuid.UUID, clientID string) []byte {
	return append(userClientPrefix(userID), clientID...)
}
